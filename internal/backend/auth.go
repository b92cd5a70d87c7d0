package backend

import (
	"context"
	"net/http"

	"github.com/edcenter/console-api/internal/models"
)

// Login forwards credentials to the upstream API and returns its token.
// Credentials are never inspected or stored by the console.
func (c *Client) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResult, error) {
	var result models.LoginResult
	if err := c.do(ctx, http.MethodPost, "/auth/login", "/auth/login", nil, req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

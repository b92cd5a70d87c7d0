package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edcenter/console-api/internal/middleware"
	"github.com/edcenter/console-api/internal/models"
	"github.com/edcenter/console-api/pkg/response"
)

type authBackend interface {
	Login(ctx context.Context, req models.LoginRequest) (*models.LoginResult, error)
}

type sessionManager interface {
	Open(ctx context.Context, upstreamToken string) (string, error)
	Close(ctx context.Context, sessionToken string) error
}

// AuthHandler signs users in against the upstream API and manages console
// sessions. The upstream token never reaches the browser.
type AuthHandler struct {
	backend  authBackend
	sessions sessionManager
}

// NewAuthHandler constructs AuthHandler.
func NewAuthHandler(backend authBackend, sessions sessionManager) *AuthHandler {
	return &AuthHandler{backend: backend, sessions: sessions}
}

// Login godoc
// @Summary Sign in
// @Description Forwards credentials to the upstream API and opens a console session
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body models.LoginRequest true "Login payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if !bindAndValidate(c, &req) {
		return
	}

	result, err := h.backend.Login(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	sessionToken, err := h.sessions.Open(c.Request.Context(), result.Token)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, models.SessionInfo{
		SessionToken: sessionToken,
		Role:         result.Role,
		FullName:     result.FullName,
	}, nil)
}

// Logout godoc
// @Summary Sign out
// @Tags Authentication
// @Produce json
// @Success 204
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	token := c.GetString(middleware.ContextSessionToken)
	if token != "" {
		if err := h.sessions.Close(c.Request.Context(), token); err != nil {
			response.Error(c, err)
			return
		}
	}
	response.NoContent(c)
}

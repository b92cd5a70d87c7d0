package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/edcenter/console-api/internal/backend"
	appErrors "github.com/edcenter/console-api/pkg/errors"
	"github.com/edcenter/console-api/pkg/middleware/requestid"
	"github.com/edcenter/console-api/pkg/response"
)

// sessionResolver is the slice of session.Manager the guard needs.
type sessionResolver interface {
	Resolve(ctx context.Context, sessionToken string) (string, error)
	Close(ctx context.Context, sessionToken string) error
}

// ContextSessionToken is the gin context key storing the raw session JWT so
// handlers (logout, 401 recovery) can address the session.
const ContextSessionToken = "sessionToken"

// Session protects routes by requiring a valid console session. The resolved
// upstream token is attached to the request context, where the backend
// adapter picks it up for every outgoing call.
func Session(sessions sessionResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "invalid authorization header"))
			c.Abort()
			return
		}

		upstreamToken, err := sessions.Resolve(c.Request.Context(), parts[1])
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		ctx := backend.WithToken(c.Request.Context(), upstreamToken)
		if reqID := requestid.Value(c); reqID != "" {
			ctx = backend.WithRequestID(ctx, reqID)
		}
		c.Request = c.Request.WithContext(ctx)
		c.Set(ContextSessionToken, parts[1])
		c.Next()

		// A 401 surfacing from the upstream API means the backend token died
		// before the console session did. Drop the session so the next
		// request forces a fresh sign-in.
		if c.Writer.Status() == http.StatusUnauthorized {
			_ = sessions.Close(c.Request.Context(), parts[1])
		}
	}
}

package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edcenter/console-api/internal/middleware"
	"github.com/edcenter/console-api/internal/models"
	appErrors "github.com/edcenter/console-api/pkg/errors"
	"github.com/edcenter/console-api/pkg/response"
)

type fakeAuthBackend struct {
	result  *models.LoginResult
	err     error
	lastReq models.LoginRequest
}

func (f *fakeAuthBackend) Login(_ context.Context, req models.LoginRequest) (*models.LoginResult, error) {
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

type fakeSessions struct {
	sessionToken string
	openErr      error
	openedWith   string
	closedWith   string
}

func (f *fakeSessions) Open(_ context.Context, upstreamToken string) (string, error) {
	f.openedWith = upstreamToken
	if f.openErr != nil {
		return "", f.openErr
	}
	return f.sessionToken, nil
}

func (f *fakeSessions) Close(_ context.Context, sessionToken string) error {
	f.closedWith = sessionToken
	return nil
}

func authRouter(backend *fakeAuthBackend, sessions *fakeSessions) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewAuthHandler(backend, sessions)
	r := gin.New()
	r.POST("/auth/login", h.Login)
	r.POST("/auth/logout", func(c *gin.Context) {
		c.Set(middleware.ContextSessionToken, "session-jwt")
		h.Logout(c)
	})
	return r
}

func doJSON(r *gin.Engine, method, path string, payload interface{}) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func postJSON(r *gin.Engine, path string, payload interface{}) *httptest.ResponseRecorder {
	return doJSON(r, http.MethodPost, path, payload)
}

func putJSON(r *gin.Engine, path string, payload interface{}) *httptest.ResponseRecorder {
	return doJSON(r, http.MethodPut, path, payload)
}

func TestLoginOpensSessionAndHidesUpstreamToken(t *testing.T) {
	backend := &fakeAuthBackend{result: &models.LoginResult{Token: "upstream-bearer", Role: "admin", FullName: "Admin User"}}
	sessions := &fakeSessions{sessionToken: "session-jwt"}
	r := authRouter(backend, sessions)

	w := postJSON(r, "/auth/login", models.LoginRequest{Username: "admin", Password: "secret"})
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, "admin", backend.lastReq.Username)
	assert.Equal(t, "upstream-bearer", sessions.openedWith)

	var envelope struct {
		Data models.SessionInfo `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, "session-jwt", envelope.Data.SessionToken)
	assert.Equal(t, "admin", envelope.Data.Role)
	assert.Equal(t, "Admin User", envelope.Data.FullName)
	assert.NotContains(t, w.Body.String(), "upstream-bearer")
}

func TestLoginRejectsMissingCredentials(t *testing.T) {
	r := authRouter(&fakeAuthBackend{}, &fakeSessions{})

	w := postJSON(r, "/auth/login", models.LoginRequest{Username: "admin"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLoginSurfacesUpstreamRejection(t *testing.T) {
	backend := &fakeAuthBackend{err: appErrors.Clone(appErrors.ErrUnauthorized, "wrong username or password")}
	r := authRouter(backend, &fakeSessions{})

	w := postJSON(r, "/auth/login", models.LoginRequest{Username: "admin", Password: "nope"})
	require.Equal(t, http.StatusUnauthorized, w.Code)

	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.NotNil(t, envelope.Error)
	assert.Equal(t, "wrong username or password", envelope.Error.Message)
}

func TestLogoutClosesSession(t *testing.T) {
	sessions := &fakeSessions{}
	r := authRouter(&fakeAuthBackend{}, sessions)

	w := postJSON(r, "/auth/logout", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "session-jwt", sessions.closedWith)
}

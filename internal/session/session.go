// Package session keeps upstream API tokens server-side. The browser only
// ever holds a signed session JWT; the upstream bearer token it maps to lives
// in Redis and is resolved per request.
package session

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/edcenter/console-api/pkg/config"
	appErrors "github.com/edcenter/console-api/pkg/errors"
)

// TokenStore abstracts persistence of session-id to upstream-token mappings.
type TokenStore interface {
	Save(ctx context.Context, sessionID, upstreamToken string, ttl time.Duration) error
	// Get returns ErrCacheMiss when the session is unknown or expired.
	Get(ctx context.Context, sessionID string) (string, error)
	Delete(ctx context.Context, sessionID string) error
}

// Manager issues and resolves console sessions.
type Manager struct {
	store  TokenStore
	secret []byte
	ttl    time.Duration
	logger *zap.Logger
}

// NewManager constructs a session manager.
func NewManager(store TokenStore, cfg config.SessionConfig, logger *zap.Logger) *Manager {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		store:  store,
		secret: []byte(cfg.Secret),
		ttl:    ttl,
		logger: logger,
	}
}

// Open stores the upstream token under a fresh session id and returns the
// signed session JWT for the browser.
func (m *Manager) Open(ctx context.Context, upstreamToken string) (string, error) {
	sessionID := uuid.NewString()
	if err := m.store.Save(ctx, sessionID, upstreamToken, m.ttl); err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist session")
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		ID:        sessionID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign session token")
	}
	return signed, nil
}

// Resolve validates a session JWT and returns the upstream token it maps to.
func (m *Manager) Resolve(ctx context.Context, sessionToken string) (string, error) {
	sessionID, err := m.sessionID(sessionToken)
	if err != nil {
		return "", err
	}
	upstreamToken, err := m.store.Get(ctx, sessionID)
	if err != nil {
		if appErrors.HasCode(err, appErrors.ErrCacheMiss) {
			return "", appErrors.ErrSessionExpired
		}
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load session")
	}
	return upstreamToken, nil
}

// Close deletes the session, forcing re-login. Also called when the upstream
// API answers 401, which means the stored token went stale.
func (m *Manager) Close(ctx context.Context, sessionToken string) error {
	sessionID, err := m.sessionID(sessionToken)
	if err != nil {
		return err
	}
	if err := m.store.Delete(ctx, sessionID); err != nil {
		m.logger.Warn("session delete failed", zap.Error(err))
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete session")
	}
	return nil
}

func (m *Manager) sessionID(sessionToken string) (string, error) {
	parsed, err := jwt.ParseWithClaims(sessionToken, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return m.secret, nil
	})
	if err != nil || !parsed.Valid {
		return "", appErrors.Clone(appErrors.ErrUnauthorized, "invalid session token")
	}
	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.ID == "" {
		return "", appErrors.Clone(appErrors.ErrUnauthorized, "invalid session token")
	}
	return claims.ID, nil
}

// Package session is the only place that reads or writes admin login state.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/models"
	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/repositories"
)

var (
	ErrAccessDenied     = errors.New("access denied: admin privileges required")
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrTokenExpired     = errors.New("access token already expired")
)

type Manager struct {
	auth   repositories.AuthRepository
	store  Store
	ttl    time.Duration
	logger *slog.Logger
	now    func() time.Time
}

func NewManager(auth repositories.AuthRepository, store Store, ttl time.Duration, logger *slog.Logger) *Manager {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Manager{auth: auth, store: store, ttl: ttl, logger: logger, now: time.Now}
}

// Login authenticates against the backend and stores a session for admins only.
// Any other role gets ErrAccessDenied and nothing is stored.
func (m *Manager) Login(ctx context.Context, email, password string) (*Session, error) {
	result, err := m.auth.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}

	if result.User.Role != models.RoleAdmin {
		m.logger.Warn("Non-admin login rejected", "user_id", result.User.ID, "role", result.User.Role)
		return nil, ErrAccessDenied
	}

	ttl, err := m.sessionTTL(result.AccessToken)
	if err != nil {
		return nil, err
	}

	sess := &Session{
		ID:              uuid.NewString(),
		IsAuthenticated: true,
		User:            result.User,
		AccessToken:     result.AccessToken,
		ExpiresAt:       m.now().Add(ttl),
	}
	if err := m.store.Save(ctx, sess, ttl); err != nil {
		return nil, err
	}

	m.logger.Info("Admin logged in", "user_id", sess.User.ID, "session_ttl", ttl.String())
	return sess, nil
}

// Authenticate returns the session when its flag is set
func (m *Manager) Authenticate(ctx context.Context, id string) (*Session, error) {
	if id == "" {
		return nil, ErrNotAuthenticated
	}
	sess, err := m.store.Load(ctx, id)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil, ErrNotAuthenticated
		}
		return nil, err
	}
	if !sess.IsAuthenticated {
		return nil, ErrNotAuthenticated
	}
	return sess, nil
}

func (m *Manager) IsAuthenticated(ctx context.Context, id string) bool {
	_, err := m.Authenticate(ctx, id)
	return err == nil
}

func (m *Manager) Logout(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	return m.store.Delete(ctx, id)
}

// sessionTTL caps the configured TTL at the token expiry. The token is not
// verified here; the backend checks it on every call.
func (m *Manager) sessionTTL(token string) (time.Duration, error) {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil || claims.ExpiresAt == nil {
		return m.ttl, nil
	}

	remaining := claims.ExpiresAt.Time.Sub(m.now())
	if remaining <= 0 {
		return 0, fmt.Errorf("%w at %s", ErrTokenExpired, claims.ExpiresAt.Time.Format(time.RFC3339))
	}
	return min(m.ttl, remaining), nil
}

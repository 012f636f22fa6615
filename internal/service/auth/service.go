// Package auth fronts the identity provider. Only the resulting user identity is used
// by the rest of the application; token contents are never inspected.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/dairyflow/internal/domain/models"
	"github.com/mamadbah2/dairyflow/pkg/clients/identity"
)

const defaultSessionTTL = 5 * time.Minute

// ErrInvalidSession is returned when a bearer token is missing, expired or unknown.
var ErrInvalidSession = errors.New("invalid or expired session")

// SignupForm is the registration payload.
type SignupForm struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Name     string `json:"name"`
}

// LoginForm is the credentials payload.
type LoginForm struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Service verifies sessions against the identity provider.
type Service struct {
	client identity.Client
	cache  *sessionCache
	now    func() time.Time
	logger *zap.Logger
}

// NewService wires the auth facade. A zero ttl selects the default cache lifetime.
func NewService(client identity.Client, ttl time.Duration, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &Service{client: client, cache: newSessionCache(ttl), now: time.Now, logger: logger}
}

// Signup registers an account.
func (s *Service) Signup(ctx context.Context, form SignupForm) (models.AuthSession, error) {
	email := strings.ToLower(strings.TrimSpace(form.Email))
	sess, err := s.client.Signup(ctx, email, form.Password, strings.TrimSpace(form.Name))
	if err != nil {
		return models.AuthSession{}, fmt.Errorf("signup: %w", err)
	}
	s.cache.put(sess.Token, sess.User, s.now())
	s.logger.Info("user signed up", zap.String("user_id", sess.User.ID))
	return sess, nil
}

// Login exchanges credentials for a session.
func (s *Service) Login(ctx context.Context, form LoginForm) (models.AuthSession, error) {
	email := strings.ToLower(strings.TrimSpace(form.Email))
	sess, err := s.client.Login(ctx, email, form.Password)
	if err != nil {
		return models.AuthSession{}, fmt.Errorf("login: %w", err)
	}
	s.cache.put(sess.Token, sess.User, s.now())
	s.logger.Info("user logged in", zap.String("user_id", sess.User.ID))
	return sess, nil
}

// Verify resolves token to its user.
func (s *Service) Verify(ctx context.Context, token string) (models.User, error) {
	if token == "" {
		return models.User{}, ErrInvalidSession
	}
	if user, ok := s.cache.get(token, s.now()); ok {
		return user, nil
	}
	s.cache.prune(s.now())

	user, err := s.client.Verify(ctx, token)
	if errors.Is(err, identity.ErrUnauthorized) {
		return models.User{}, ErrInvalidSession
	}
	if err != nil {
		return models.User{}, fmt.Errorf("verify session: %w", err)
	}
	s.cache.put(token, user, s.now())
	return user, nil
}

// Logout forgets token locally and on the provider.
func (s *Service) Logout(ctx context.Context, token string) error {
	s.cache.drop(token)
	if err := s.client.Logout(ctx, token); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

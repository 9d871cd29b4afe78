package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/target/jobportal/internal/core"
	"github.com/target/jobportal/internal/data"
	domainauth "github.com/target/jobportal/internal/domain/auth"
	"github.com/target/jobportal/internal/domain/model"
	"github.com/target/jobportal/internal/observability/metrics"
	"github.com/target/jobportal/internal/ports"
)

const defaultSessionTTL = 24 * time.Hour

// ErrInvalidCredentials is returned by Login for an unknown mobile or a wrong password.
var ErrInvalidCredentials = errors.New("invalid credentials")

// AuthServiceOptions groups dependencies for AuthService.
type AuthServiceOptions struct {
	Users    core.UserRepository
	Sessions ports.SessionStore
	Hasher   ports.PasswordHasher
	TTL      time.Duration
	Metrics  metrics.Recorder
	Logger   *slog.Logger
	Now      func() time.Time
}

// AuthService owns registration, credential checks and the session lifecycle.
type AuthService struct {
	users    core.UserRepository
	sessions ports.SessionStore
	hasher   ports.PasswordHasher
	ttl      time.Duration
	metrics  metrics.Recorder
	logger   *slog.Logger
	now      func() time.Time
}

// NewAuthService constructs a new AuthService.
func NewAuthService(opts AuthServiceOptions) *AuthService {
	s := &AuthService{
		users:    opts.Users,
		sessions: opts.Sessions,
		hasher:   opts.Hasher,
		ttl:      opts.TTL,
		metrics:  metrics.OrNoop(opts.Metrics),
		logger:   opts.Logger,
		now:      opts.Now,
	}
	if s.ttl <= 0 {
		s.ttl = defaultSessionTTL
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	s.logger = s.logger.With("component", "auth_service")
	return s
}

// Register validates the form, hashes the password and stores the user.
func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest) (*model.User, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user, err := s.users.Create(ctx, &model.CreateUserRequest{
		Name:         req.Name,
		Mobile:       req.Mobile,
		PasswordHash: hash,
		Role:         domainauth.Role(req.Role),
	})
	if err != nil {
		return nil, err
	}
	s.metrics.UserRegistered(string(user.Role))
	s.logger.InfoContext(ctx, "user registered", "user_id", user.ID, "role", user.Role)
	return user, nil
}

// Login checks credentials and rotates current into an authenticated session.
// The locale and pending flashes of current carry over; its ID is retired.
func (s *AuthService) Login(
	ctx context.Context,
	current domainauth.Session,
	req model.LoginRequest,
) (domainauth.Session, error) {
	if err := req.Validate(); err != nil {
		return domainauth.Session{}, err
	}
	user, err := s.users.GetByMobile(ctx, req.Mobile)
	if err != nil {
		if errors.Is(err, data.ErrUserNotFound) {
			s.metrics.LoginAttempt(metrics.ResultDenied)
			return domainauth.Session{}, ErrInvalidCredentials
		}
		s.metrics.LoginAttempt(metrics.ResultError)
		return domainauth.Session{}, fmt.Errorf("lookup user: %w", err)
	}
	if cmpErr := s.hasher.Compare(user.PasswordHash, req.Password); cmpErr != nil {
		s.metrics.LoginAttempt(metrics.ResultDenied)
		return domainauth.Session{}, ErrInvalidCredentials
	}

	sess := domainauth.Session{
		ID:        generateSessionID(),
		UserID:    user.ID,
		Name:      user.Name,
		Role:      user.Role,
		Locale:    current.Locale,
		Flashes:   current.Flashes,
		ExpiresAt: s.now().Add(s.ttl),
	}
	if err = s.sessions.Rotate(ctx, current.ID, sess); err != nil {
		s.metrics.LoginAttempt(metrics.ResultError)
		return domainauth.Session{}, fmt.Errorf("rotate session: %w", err)
	}
	s.metrics.LoginAttempt(metrics.ResultSuccess)
	s.logger.InfoContext(ctx, "user logged in", "user_id", user.ID)
	return sess, nil
}

// GetSession retrieves a live session by ID.
func (s *AuthService) GetSession(ctx context.Context, sessionID string) (domainauth.Session, error) {
	if sessionID == "" {
		return domainauth.Session{}, domainauth.ErrSessionNotFound
	}
	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, domainauth.ErrSessionNotFound) {
			return domainauth.Session{}, err
		}
		return domainauth.Session{}, fmt.Errorf("get session: %w", err)
	}
	if sess.Expired(s.now()) {
		if deleteErr := s.sessions.Delete(ctx, sessionID); deleteErr != nil {
			return domainauth.Session{}, errors.Join(domainauth.ErrSessionNotFound, fmt.Errorf("delete session: %w", deleteErr))
		}
		return domainauth.Session{}, domainauth.ErrSessionNotFound
	}
	return sess, nil
}

// Save persists sess, assigning an ID on first write and extending its expiry.
func (s *AuthService) Save(ctx context.Context, sess *domainauth.Session) error {
	if sess.ID == "" {
		sess.ID = generateSessionID()
	}
	sess.ExpiresAt = s.now().Add(s.ttl)
	if err := s.sessions.Save(ctx, *sess); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Logout deletes the session and returns an unsaved anonymous session that
// keeps the visitor's locale.
func (s *AuthService) Logout(ctx context.Context, sess domainauth.Session) (domainauth.Session, error) {
	next := domainauth.Session{Locale: sess.Locale}
	if sess.ID == "" {
		return next, nil
	}
	if err := s.sessions.Delete(ctx, sess.ID); err != nil {
		return next, fmt.Errorf("delete session: %w", err)
	}
	if sess.UserID != "" {
		s.logger.InfoContext(ctx, "user logged out", "user_id", sess.UserID)
	}
	return next, nil
}

// TTL returns the configured session lifetime.
func (s *AuthService) TTL() time.Duration { return s.ttl }

func generateSessionID() string {
	return uuid.NewString()
}

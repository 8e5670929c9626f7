package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"club_admin_backend/internal/models"
	"club_admin_backend/internal/session"
	"club_admin_backend/pkg/utils"
)

// --- Auth Service Errors ---
var (
	ErrInvalidCredentials = session.ErrInvalidCredentials
	ErrUnauthenticated    = session.ErrUnauthenticated
)

// --- AuthService Interface ---
type AuthService interface {
	Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, *session.Session, error)
	Authenticate(ctx context.Context, token string) (*session.Session, error)
	Logout(ctx context.Context, sess *session.Session) error
	Me(sess *session.Session) (*models.User, error)
}

// --- authService Implementation ---
type authService struct {
	sessions *session.Manager
}

// NewAuthService creates a new instance of AuthService.
func NewAuthService(sessions *session.Manager) AuthService {
	return &authService{sessions: sessions}
}

// Login opens a session for the demo credential pair. Any other pair yields ErrInvalidCredentials.
func (s *authService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, *session.Session, error) {
	sess, err := s.sessions.Login(ctx, strings.TrimSpace(req.Username), req.Password)
	if err != nil {
		if errors.Is(err, session.ErrInvalidCredentials) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, fmt.Errorf("login attempt failed: %w", err)
	}
	return &models.LoginResponse{AccessToken: sess.Token, User: sess.User}, sess, nil
}

// Authenticate resolves a bearer token to its session.
func (s *authService) Authenticate(ctx context.Context, token string) (*session.Session, error) {
	if utils.IsEmpty(token) {
		return nil, fmt.Errorf("%w: missing token", ErrUnauthenticated)
	}
	return s.sessions.Resume(ctx, token)
}

func (s *authService) Logout(ctx context.Context, sess *session.Session) error {
	if !sess.IsAuthenticated() {
		return ErrUnauthenticated
	}
	return s.sessions.Logout(ctx, sess.Token)
}

// Me returns the signed-in user as currently held in the session.
func (s *authService) Me(sess *session.Session) (*models.User, error) {
	if !sess.IsAuthenticated() {
		return nil, ErrUnauthenticated
	}
	u := sess.User
	if live, ok := sess.Store.Users.Get(u.ID); ok {
		live.Role = u.Role
		u = live
	}
	return &u, nil
}

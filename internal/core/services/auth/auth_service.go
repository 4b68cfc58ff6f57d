package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lcalzada-xor/authgate/internal/core/domain"
	"github.com/lcalzada-xor/authgate/internal/core/ports"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrInvalidSession     = errors.New("invalid session")
)

// Session represents an active dashboard session.
type Session struct {
	UserID    string
	Role      domain.Role
	ExpiresAt time.Time
}

// AuthService implements ports.AuthService. It validates credentials and
// manages in-memory session tokens. The threat gate runs before this service
// ever sees an attempt; by the time Login executes the request was already
// classified benign (or allowed unscored).
type AuthService struct {
	repo       ports.UserRepository
	sessions   map[string]Session
	mu         sync.RWMutex
	sessionTTL time.Duration
}

// NewAuthService creates a new authentication service instance.
func NewAuthService(repo ports.UserRepository, sessionTTL time.Duration) *AuthService {
	if sessionTTL <= 0 {
		sessionTTL = 24 * time.Hour
	}
	return &AuthService{
		repo:       repo,
		sessions:   make(map[string]Session),
		sessionTTL: sessionTTL,
	}
}

// Login validates credentials and returns a session token plus the account.
func (s *AuthService) Login(ctx context.Context, creds domain.Credentials) (string, *domain.User, error) {
	user, err := s.repo.GetUserByEmail(ctx, creds.Email)
	if err != nil {
		return "", nil, ErrInvalidCredentials // Generic error to avoid enumeration
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(creds.Password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	user.UpdateLastLogin()
	if err := s.repo.SaveUser(ctx, *user); err != nil {
		// Last-login bookkeeping failing should not block the login.
		// The session is still issued.
		_ = err
	}

	token := s.createSession(user)
	return token, user, nil
}

// ValidateToken verifies a session token and returns the associated user.
func (s *AuthService) ValidateToken(ctx context.Context, token string) (*domain.User, error) {
	s.mu.RLock()
	session, ok := s.sessions[token]
	s.mu.RUnlock()

	if !ok {
		return nil, ErrInvalidSession
	}

	if time.Now().After(session.ExpiresAt) {
		s.Logout(ctx, token)
		return nil, ErrTokenExpired
	}

	user, err := s.repo.GetUserByID(ctx, session.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve user: %w", err)
	}

	return user, nil
}

// Logout invalidates a session token.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
	return nil
}

// Register provisions a new account with a hashed password. The email must
// not already be taken.
func (s *AuthService) Register(ctx context.Context, user domain.User, password string) (*domain.User, error) {
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	if user.Email == "" {
		return nil, domain.ErrEmptyEmail
	}
	if existing, err := s.repo.GetUserByEmail(ctx, user.Email); err == nil && existing != nil {
		return nil, domain.ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user.PasswordHash = string(hash)
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.Role == "" {
		user.Role = domain.RoleUser
	}

	if err := s.repo.SaveUser(ctx, user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *AuthService) createSession(user *domain.User) string {
	token := uuid.New().String()
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[token] = Session{
		UserID:    user.ID,
		Role:      user.Role,
		ExpiresAt: time.Now().Add(s.sessionTTL),
	}

	return token
}

// Ensure interface compliance
var _ ports.AuthService = (*AuthService)(nil)

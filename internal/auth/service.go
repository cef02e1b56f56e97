package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrMissingCredentials is returned when email or password is empty.
	ErrMissingCredentials = errors.New("email and password are required")
	// ErrInvalidCredentials is returned when the credentials do not match the admin identity.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrNotConfigured is returned when no admin identity is configured.
	ErrNotConfigured = errors.New("admin account is not configured")
)

// Admin is the single operator identity. PasswordHash (bcrypt) takes precedence over Password.
type Admin struct {
	Email        string
	Password     string
	PasswordHash string
}

// Session is the result of a successful login.
type Session struct {
	Token     string
	ExpiresAt time.Time
}

// Service authenticates the operator and issues session tokens.
type Service struct {
	admin  Admin
	tokens *Tokens
}

// NewService creates a new auth Service.
func NewService(admin Admin, tokens *Tokens) *Service {
	admin.Email = strings.ToLower(strings.TrimSpace(admin.Email))
	return &Service{admin: admin, tokens: tokens}
}

// Login checks the credentials against the configured admin and issues a session token.
func (s *Service) Login(email, password string) (*Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, ErrMissingCredentials
	}
	if s.admin.Email == "" || (s.admin.Password == "" && s.admin.PasswordHash == "") {
		return nil, ErrNotConfigured
	}

	emailOK := subtle.ConstantTimeCompare([]byte(email), []byte(s.admin.Email)) == 1
	if !s.checkPassword(password) || !emailOK {
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.Issue(email)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &Session{Token: token, ExpiresAt: expiresAt}, nil
}

func (s *Service) checkPassword(password string) bool {
	if s.admin.PasswordHash != "" {
		return bcrypt.CompareHashAndPassword([]byte(s.admin.PasswordHash), []byte(password)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(password), []byte(s.admin.Password)) == 1
}

// Tokens exposes the token service used to verify sessions.
func (s *Service) Tokens() *Tokens {
	return s.tokens
}

package services

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	"github.com/shashiranjanraj/nexus/app/models"
	"github.com/shashiranjanraj/nexus/app/repositories"
	"github.com/shashiranjanraj/nexus/pkg/apperr"
	"github.com/shashiranjanraj/nexus/pkg/auth"
	"github.com/shashiranjanraj/nexus/pkg/event"
	"github.com/shashiranjanraj/nexus/pkg/logger"
	"github.com/shashiranjanraj/nexus/pkg/orm"
	"github.com/shashiranjanraj/nexus/pkg/session"
	"github.com/shashiranjanraj/nexus/pkg/validate"
)

const minPasswordLen = 6

// RegisterInput is the sign-up form.
type RegisterInput struct {
	Name     string `json:"name"     validate:"max=255"`
	Email    string `json:"email"    validate:"max=255"`
	Password string `json:"password" validate:"max=72"`
}

// LoginInput is the sign-in form.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResult is returned by Register and Login.
type AuthResult struct {
	Token string
	User  models.User
}

// AuthEvent is the payload of user.* events.
type AuthEvent struct {
	UserID uint
	Email  string
}

// AuthService registers users and issues session tokens.
type AuthService struct {
	users    *repositories.UserRepository
	sessions session.Store
	events   *event.Dispatcher
}

func NewAuthService(users *repositories.UserRepository, sessions session.Store, events *event.Dispatcher) *AuthService {
	return &AuthService{users: users, sessions: sessions, events: events}
}

// Register creates a user with role "user" and opens a session for it.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (AuthResult, error) {
	if blank(in.Name) || blank(in.Email) || in.Password == "" {
		return AuthResult{}, apperr.Validation("All fields are required")
	}
	if utf8.RuneCountInString(in.Password) < minPasswordLen {
		return AuthResult{}, apperr.Validation("Password must be at least 6 characters")
	}
	if !validate.IsEmail(in.Email) {
		return AuthResult{}, apperr.Validation("Please enter a valid email address")
	}
	if err := validate.Check(in); err != nil {
		return AuthResult{}, err
	}

	exists, err := s.users.ExistsByEmail(ctx, in.Email)
	if err != nil {
		return AuthResult{}, apperr.Internal("Registration failed", err)
	}
	if exists {
		return AuthResult{}, apperr.Conflict("An account with this email already exists")
	}

	hash, err := auth.HashPassword(in.Password)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return AuthResult{}, apperr.Validation("Password is too long")
	}
	if err != nil {
		return AuthResult{}, apperr.Internal("Registration failed", err)
	}

	user := models.User{Name: in.Name, Email: in.Email, Password: hash, Role: models.RoleUser}
	if err := s.users.Create(ctx, &user); err != nil {
		if orm.IsDuplicate(err) {
			return AuthResult{}, apperr.Conflict("An account with this email already exists")
		}
		return AuthResult{}, apperr.Internal("Registration failed", err)
	}

	token, err := s.sessions.Create(ctx, identityOf(user))
	if err != nil {
		return AuthResult{}, apperr.Internal("Registration failed", err)
	}

	logger.WithCtx(ctx).Info("user registered", "user_id", user.ID)
	s.events.Fire(ctx, event.UserRegistered, AuthEvent{UserID: user.ID, Email: user.Email})
	return AuthResult{Token: token, User: user}, nil
}

// Login verifies credentials and opens a session. Unknown emails and wrong
// passwords fail identically.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (AuthResult, error) {
	if blank(in.Email) || in.Password == "" {
		return AuthResult{}, apperr.Validation("Please provide email and password")
	}

	user, err := s.users.FindByEmail(ctx, in.Email)
	switch {
	case orm.IsNotFound(err):
		auth.BurnCompare(in.Password)
		s.events.Fire(ctx, event.LoginFailed, AuthEvent{Email: in.Email})
		return AuthResult{}, apperr.Unauthorized("Invalid credentials")
	case err != nil:
		return AuthResult{}, apperr.Internal("An error occurred", err)
	}

	if !auth.CheckPassword(user.Password, in.Password) {
		s.events.Fire(ctx, event.LoginFailed, AuthEvent{UserID: user.ID, Email: in.Email})
		return AuthResult{}, apperr.Unauthorized("Invalid credentials")
	}

	token, err := s.sessions.Create(ctx, identityOf(user))
	if err != nil {
		return AuthResult{}, apperr.Internal("An error occurred", err)
	}

	s.events.Fire(ctx, event.UserLoggedIn, AuthEvent{UserID: user.ID, Email: user.Email})
	return AuthResult{Token: token, User: user}, nil
}

// Logout revokes token. Unknown or empty tokens are ignored.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.sessions.Revoke(ctx, token); err != nil {
		return apperr.Internal("Logout failed", err)
	}
	return nil
}

// ResolveSession returns the identity bound to token.
func (s *AuthService) ResolveSession(ctx context.Context, token string) (session.Identity, bool, error) {
	id, ok, err := s.sessions.Resolve(ctx, token)
	if err != nil {
		return session.Identity{}, false, apperr.Internal("An error occurred", err)
	}
	return id, ok, nil
}

func blank(s string) bool { return strings.TrimSpace(s) == "" }

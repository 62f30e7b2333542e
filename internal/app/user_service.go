package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"quizhub-service/internal/auth"
	"quizhub-service/internal/domain"
)

// TokenIssuer signs session tokens for authenticated users.
type TokenIssuer interface {
	IssueToken(userID string, role domain.Role) (string, error)
}

// RegisterInput is the self-registration payload.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// LoginResult is the sanitized user plus its session token.
type LoginResult struct {
	User  domain.User `json:"user"`
	Token string      `json:"token"`
}

// UserService owns registration, login and admin-gated account moderation.
type UserService struct {
	store  Store
	gate   *Gate
	tokens TokenIssuer
	newID  func() string
}

func NewUserService(store Store, tokens TokenIssuer) *UserService {
	return &UserService{
		store:  store,
		gate:   NewGate(store),
		tokens: tokens,
		newID:  func() string { return uuid.NewString() },
	}
}

// Register creates a student account. Self-registration never yields an
// admin; roles are immutable afterwards.
func (s *UserService) Register(ctx context.Context, input RegisterInput) (domain.User, error) {
	if input.Name == "" || input.Email == "" || input.Password == "" {
		return domain.User{}, fmt.Errorf("%w: name, email and password are required", domain.ErrValidation)
	}

	_, err := s.store.FindUserByEmail(ctx, input.Email)
	switch {
	case err == nil:
		return domain.User{}, domain.ErrEmailTaken
	case !errors.Is(err, domain.ErrUserNotFound):
		return domain.User{}, fmt.Errorf("lookup email: %w", err)
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}

	user := domain.User{
		ID:           s.newID(),
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hash,
		Role:         domain.RoleStudent,
		Status:       domain.StatusActive,
	}
	if err := s.store.PutUser(ctx, user); err != nil {
		return domain.User{}, err
	}
	return user.Sanitized(), nil
}

// Login checks credentials and issues a session token.
func (s *UserService) Login(ctx context.Context, email, password string) (LoginResult, error) {
	user, err := s.store.FindUserByEmail(ctx, email)
	if err != nil {
		return LoginResult{}, domain.ErrInvalidCredentials
	}
	if !auth.CheckPassword(user.PasswordHash, password) {
		return LoginResult{}, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.IssueToken(user.ID, user.Role)
	if err != nil {
		return LoginResult{}, fmt.Errorf("issue token: %w", err)
	}
	return LoginResult{User: user.Sanitized(), Token: token}, nil
}

// List returns all users without password digests.
func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.User, 0, len(users))
	for _, u := range users {
		out = append(out, u.Sanitized())
	}
	return out, nil
}

// UpdateStatus sets a user active or banned. Only an active admin may call it.
func (s *UserService) UpdateStatus(ctx context.Context, adminID, userID string, status domain.Status) error {
	if !s.gate.VerifyActiveRole(ctx, adminID, domain.RoleAdmin) {
		return domain.ErrUnauthorized
	}
	if !status.Valid() {
		return fmt.Errorf("%w: unknown status %q", domain.ErrValidation, status)
	}
	return s.store.UpdateUserStatus(ctx, userID, status)
}

package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bookcatalog/backend/internal/apperrors"
	"github.com/bookcatalog/backend/internal/models"
	"github.com/bookcatalog/backend/internal/repositories"
	"go.uber.org/zap"
)

// TokenType is reported to clients alongside issued access tokens
const TokenType = "Bearer"

// UserRepository is the interface that wraps methods for users table data access
type UserRepository interface {
	Create(ctx context.Context, user models.User) (models.User, error)
	Update(ctx context.Context, id int, fields repositories.Fields) (models.User, error)
	Get(ctx context.Context, id int) (*models.User, error)
	FindOne(ctx context.Context, pred repositories.Predicate) (*models.User, error)
	Exists(ctx context.Context, pred repositories.Predicate) (bool, error)
	List(ctx context.Context, pred repositories.Predicate) ([]models.User, error)
}

// PasswordHasher hashes and verifies passwords
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
}

// TokenIssuer issues session tokens
type TokenIssuer interface {
	Issue(subject string, role models.Role) (string, error)
}

type userService struct {
	users  UserRepository
	hasher PasswordHasher
	tokens TokenIssuer
	logger *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(users UserRepository, hasher PasswordHasher, tokens TokenIssuer, logger *zap.Logger) *userService {
	return &userService{
		users:  users,
		hasher: hasher,
		tokens: tokens,
		logger: logger,
	}
}

// Register creates a new account with the USER role.
// A requested role is ignored.
func (s *userService) Register(ctx context.Context, req models.UserRequest) (*models.UserResponse, error) {
	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	created, err := s.users.Create(ctx, models.User{
		Username:     req.Username,
		Email:        normalizeEmail(req.Email),
		PasswordHash: hash,
		Role:         models.RoleUser,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	s.logger.Info("user registered", zap.Int("id", created.ID), zap.String("username", created.Username))
	response := created.ToResponse()
	return &response, nil
}

// Login verifies credentials and issues an access token.
// Unknown usernames and wrong passwords fail with the same error.
func (s *userService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	user, err := s.users.FindOne(ctx, repositories.Eq("username", req.Username))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrIncorrectCredentials
		}
		return nil, fmt.Errorf("failed to login: %w", err)
	}

	if !s.hasher.Verify(req.Password, user.PasswordHash) {
		return nil, apperrors.ErrIncorrectCredentials
	}

	token, err := s.tokens.Issue(user.Username, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	return &models.LoginResponse{
		AccessToken: token,
		TokenType:   TokenType,
		Username:    user.Username,
	}, nil
}

// ChangePassword replaces the password of the user identified by req.ID
// after verifying the old one
func (s *userService) ChangePassword(ctx context.Context, req models.ChangePasswordRequest) error {
	user, err := s.users.Get(ctx, req.ID)
	if err != nil {
		// An unknown id must be indistinguishable from a wrong password
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.ErrIncorrectCredentials
		}
		return fmt.Errorf("failed to change password: %w", err)
	}

	if !s.hasher.Verify(req.OldPassword, user.PasswordHash) {
		return apperrors.ErrIncorrectCredentials
	}

	hash, err := s.hasher.Hash(req.NewPassword)
	if err != nil {
		return fmt.Errorf("failed to change password: %w", err)
	}

	if _, err := s.users.Update(ctx, user.ID, repositories.Fields{"password_hash": hash}); err != nil {
		return fmt.Errorf("failed to change password: %w", err)
	}

	s.logger.Info("password changed", zap.Int("id", user.ID))
	return nil
}

// GetAll retrieves every user without password hashes
func (s *userService) GetAll(ctx context.Context) ([]models.UserResponse, error) {
	users, err := s.users.List(ctx, repositories.All())
	if err != nil {
		return nil, fmt.Errorf("failed to get users: %w", err)
	}

	responses := make([]models.UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, users[i].ToResponse())
	}
	return responses, nil
}

// GetByUsername retrieves a user by username.
// If the user does not exist, a not found error is returned.
func (s *userService) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.users.FindOne(ctx, repositories.Eq("username", username))
}

// EnsureAdmin creates an administrator with the given credentials unless one already exists.
// It reports whether an account was created.
func (s *userService) EnsureAdmin(ctx context.Context, username, email, password string) (bool, error) {
	exists, err := s.users.Exists(ctx, repositories.Eq("role", models.RoleAdmin))
	if err != nil {
		return false, fmt.Errorf("failed to check for administrator: %w", err)
	}
	if exists {
		s.logger.Debug("administrator already exists")
		return false, nil
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return false, fmt.Errorf("failed to create administrator: %w", err)
	}

	created, err := s.users.Create(ctx, models.User{
		Username:     username,
		Email:        normalizeEmail(email),
		PasswordHash: hash,
		Role:         models.RoleAdmin,
	})
	if err != nil {
		return false, fmt.Errorf("failed to create administrator: %w", err)
	}

	s.logger.Info("administrator created", zap.Int("id", created.ID), zap.String("username", created.Username))
	return true, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

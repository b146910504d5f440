package services

import (
	"context"
	"errors"
	"testing"

	"github.com/bookcatalog/backend/internal/apperrors"
	"github.com/bookcatalog/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupUserService(users ...models.User) (*userService, *mockUserRepository) {
	repo := &mockUserRepository{users: users, nextID: len(users)}
	return NewUserService(repo, &mockHasher{}, &mockTokenIssuer{}, zap.NewNop()), repo
}

func TestUserService_Register(t *testing.T) {
	svc, repo := setupUserService()

	result, err := svc.Register(context.Background(), models.UserRequest{
		Username: "alice",
		Email:    " Alice@Example.com ",
		Password: "secret",
		Role:     "ADMIN",
	})
	require.NoError(t, err)

	assert.Equal(t, models.RoleUser, result.Role, "requested role must be ignored")
	assert.Equal(t, "alice@example.com", result.Email)
	require.Len(t, repo.users, 1)
	assert.Equal(t, "hashed:secret", repo.users[0].PasswordHash)

	_, err = svc.Register(context.Background(), models.UserRequest{Username: "alice", Email: "other@example.com", Password: "secret"})
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestUserService_Register_HashFailure(t *testing.T) {
	repo := &mockUserRepository{}
	svc := NewUserService(repo, &mockHasher{err: errors.New("hash error")}, &mockTokenIssuer{}, zap.NewNop())

	_, err := svc.Register(context.Background(), models.UserRequest{Username: "alice", Email: "a@example.com", Password: "secret"})
	assert.Error(t, err)
	assert.Empty(t, repo.users)
}

func TestUserService_Login(t *testing.T) {
	existing := models.User{ID: 1, Username: "alice", Email: "alice@example.com", PasswordHash: "hashed:secret", Role: models.RoleUser}

	tests := []struct {
		name          string
		req           models.LoginRequest
		tokens        *mockTokenIssuer
		expectedError error
		expectedToken string
	}{
		{
			name:          "success",
			req:           models.LoginRequest{Username: "alice", Password: "secret"},
			tokens:        &mockTokenIssuer{},
			expectedToken: "token-alice-USER",
		},
		{
			name:          "wrong password",
			req:           models.LoginRequest{Username: "alice", Password: "wrong"},
			tokens:        &mockTokenIssuer{},
			expectedError: apperrors.ErrIncorrectCredentials,
		},
		{
			name:          "unknown user",
			req:           models.LoginRequest{Username: "bob", Password: "secret"},
			tokens:        &mockTokenIssuer{},
			expectedError: apperrors.ErrIncorrectCredentials,
		},
		{
			name:          "token failure",
			req:           models.LoginRequest{Username: "alice", Password: "secret"},
			tokens:        &mockTokenIssuer{err: errors.New("sign error")},
			expectedError: errors.New("failed to issue token"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockUserRepository{users: []models.User{existing}}
			svc := NewUserService(repo, &mockHasher{}, tt.tokens, zap.NewNop())

			result, err := svc.Login(context.Background(), tt.req)

			if tt.expectedError != nil {
				assert.Nil(t, result)
				if errors.Is(tt.expectedError, apperrors.ErrIncorrectCredentials) {
					assert.ErrorIs(t, err, apperrors.ErrIncorrectCredentials)
					assert.Equal(t, "incorrect username or password", err.Error())
				} else {
					assert.Contains(t, err.Error(), tt.expectedError.Error())
				}
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expectedToken, result.AccessToken)
			assert.Equal(t, "Bearer", result.TokenType)
			assert.Equal(t, "alice", result.Username)
		})
	}
}

func TestUserService_ChangePassword(t *testing.T) {
	existing := models.User{ID: 1, Username: "alice", PasswordHash: "hashed:secret", Role: models.RoleUser}

	t.Run("success", func(t *testing.T) {
		svc, repo := setupUserService(existing)

		err := svc.ChangePassword(context.Background(), models.ChangePasswordRequest{ID: 1, OldPassword: "secret", NewPassword: "better"})
		require.NoError(t, err)
		assert.Equal(t, "hashed:better", repo.users[0].PasswordHash)
	})

	t.Run("wrong old password", func(t *testing.T) {
		svc, repo := setupUserService(existing)

		err := svc.ChangePassword(context.Background(), models.ChangePasswordRequest{ID: 1, OldPassword: "wrong", NewPassword: "better"})
		assert.ErrorIs(t, err, apperrors.ErrIncorrectCredentials)
		assert.Equal(t, "hashed:secret", repo.users[0].PasswordHash)
	})

	t.Run("unknown id", func(t *testing.T) {
		svc, _ := setupUserService(existing)

		err := svc.ChangePassword(context.Background(), models.ChangePasswordRequest{ID: 42, OldPassword: "secret", NewPassword: "better"})
		assert.ErrorIs(t, err, apperrors.ErrIncorrectCredentials)
		assert.NotErrorIs(t, err, apperrors.ErrNotFound)
	})
}

func TestUserService_GetAllAndGetByUsername(t *testing.T) {
	svc, _ := setupUserService(
		models.User{ID: 1, Username: "root", Email: "root@example.com", PasswordHash: "hashed:x", Role: models.RoleAdmin},
		models.User{ID: 2, Username: "alice", Email: "alice@example.com", PasswordHash: "hashed:y", Role: models.RoleUser},
	)

	users, err := svc.GetAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []models.UserResponse{
		{ID: 1, Username: "root", Email: "root@example.com", Role: models.RoleAdmin},
		{ID: 2, Username: "alice", Email: "alice@example.com", Role: models.RoleUser},
	}, users)

	user, err := svc.GetByUsername(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, 2, user.ID)

	_, err = svc.GetByUsername(context.Background(), "ghost")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestUserService_EnsureAdmin(t *testing.T) {
	svc, repo := setupUserService(models.User{ID: 1, Username: "alice", Email: "alice@example.com", Role: models.RoleUser})

	created, err := svc.EnsureAdmin(context.Background(), "root", "Root@Example.com", "admin-secret")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = svc.EnsureAdmin(context.Background(), "root", "root@example.com", "admin-secret")
	require.NoError(t, err)
	assert.False(t, created)

	admins := 0
	for _, u := range repo.users {
		if u.Role == models.RoleAdmin {
			admins++
			assert.Equal(t, "root@example.com", u.Email)
			assert.Equal(t, "hashed:admin-secret", u.PasswordHash)
		}
	}
	assert.Equal(t, 1, admins)
}

func TestUserService_EnsureAdmin_StoreFailure(t *testing.T) {
	repo := &mockUserRepository{err: errors.New("database error")}
	svc := NewUserService(repo, &mockHasher{}, &mockTokenIssuer{}, zap.NewNop())

	created, err := svc.EnsureAdmin(context.Background(), "root", "root@example.com", "admin-secret")
	assert.Error(t, err)
	assert.False(t, created)
}

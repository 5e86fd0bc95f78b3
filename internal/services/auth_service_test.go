package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/azizjun/kvartal-api/internal/config"
	"github.com/azizjun/kvartal-api/internal/models"
	"github.com/azizjun/kvartal-api/internal/repository"
)

type mockUserRepo struct {
	repository.UserRepository
	mockFindByEmail func(ctx context.Context, email string) (*models.User, error)
	mockFindByID    func(ctx context.Context, id uint) (*models.User, error)
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return m.mockFindByEmail(ctx, email)
}

func (m *mockUserRepo) FindByID(ctx context.Context, id uint) (*models.User, error) {
	return m.mockFindByID(ctx, id)
}

type mockRefreshTokenRepo struct {
	repository.RefreshTokenRepository
	mockFindByToken   func(ctx context.Context, token string) (*models.RefreshToken, error)
	mockDeleteByToken func(ctx context.Context, token string) error
}

func (m *mockRefreshTokenRepo) FindByToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	return m.mockFindByToken(ctx, token)
}

func (m *mockRefreshTokenRepo) DeleteByToken(ctx context.Context, token string) error {
	if m.mockDeleteByToken != nil {
		return m.mockDeleteByToken(ctx, token)
	}
	return nil
}

func TestAuthService_Login_InactiveUser(t *testing.T) {
	mockRepo := &mockUserRepo{}
	service := NewAuthService(mockRepo, nil, nil)

	mockRepo.mockFindByEmail = func(ctx context.Context, email string) (*models.User, error) {
		return &models.User{
			Email:  email,
			Status: models.StatusInactive,
		}, nil
	}

	result, err := service.Login(context.Background(), "inactive@test.loc", "password")
	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrUserInactive)
}

func TestAuthService_RefreshToken_InactiveUser(t *testing.T) {
	mockRepo := &mockUserRepo{}
	mockRTRepo := &mockRefreshTokenRepo{}
	service := NewAuthService(mockRepo, mockRTRepo, nil)

	mockRTRepo.mockFindByToken = func(ctx context.Context, token string) (*models.RefreshToken, error) {
		return &models.RefreshToken{UserID: 1}, nil
	}
	mockRepo.mockFindByID = func(ctx context.Context, id uint) (*models.User, error) {
		return &models.User{
			ID:     id,
			Status: models.StatusInactive,
		}, nil
	}

	result, err := service.RefreshToken(context.Background(), "token")
	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrUserInactive)
}

func TestAuthService_RefreshToken_Expired(t *testing.T) {
	mockRTRepo := &mockRefreshTokenRepo{}
	service := NewAuthService(nil, mockRTRepo, nil)

	deleted := false
	expired := time.Now().Add(-time.Hour)
	mockRTRepo.mockFindByToken = func(ctx context.Context, token string) (*models.RefreshToken, error) {
		return &models.RefreshToken{UserID: 1, Token: token, ExpiresAt: &expired}, nil
	}
	mockRTRepo.mockDeleteByToken = func(ctx context.Context, token string) error {
		deleted = true
		return nil
	}

	result, err := service.RefreshToken(context.Background(), "stale")
	assert.Nil(t, result)
	assert.Error(t, err)
	assert.True(t, deleted)
}

func TestAuthService_LoginAndRefresh(t *testing.T) {
	// Full round trip against the database
	db := setupTestDB(t)
	repos := repository.NewRepositories(db)
	cfg := &config.Config{JWTSecret: "test-secret", JWTExpirationHours: 1}
	service := NewAuthService(repos.User, repos.RefreshToken, cfg)

	seedUser(t, db, "manager@test.loc", models.RoleManager)

	result, err := service.Login(context.Background(), "manager@test.loc", "password123")
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.NotEmpty(t, result.RefreshToken)

	// Rotation: the old refresh token is single use
	rotated, err := service.RefreshToken(context.Background(), result.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, result.RefreshToken, rotated.RefreshToken)

	_, err = service.RefreshToken(context.Background(), result.RefreshToken)
	assert.Error(t, err)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	db := setupTestDB(t)
	repos := repository.NewRepositories(db)
	cfg := &config.Config{JWTSecret: "test-secret", JWTExpirationHours: 1}
	service := NewAuthService(repos.User, repos.RefreshToken, cfg)

	seedUser(t, db, "manager@test.loc", models.RoleManager)

	_, err := service.Login(context.Background(), "manager@test.loc", "wrong")
	assert.Error(t, err)
}

func TestAuthService_ChangePassword(t *testing.T) {
	db := setupTestDB(t)
	repos := repository.NewRepositories(db)
	cfg := &config.Config{JWTSecret: "test-secret", JWTExpirationHours: 1}
	service := NewAuthService(repos.User, repos.RefreshToken, cfg)

	user := seedUser(t, db, "manager@test.loc", models.RoleManager)

	err := service.ChangePassword(context.Background(), user.ID, "nope", "newpassword1")
	assert.ErrorIs(t, err, ErrInvalidPassword)

	require.NoError(t, service.ChangePassword(context.Background(), user.ID, "password123", "newpassword1"))

	_, err = service.Login(context.Background(), "manager@test.loc", "newpassword1")
	assert.NoError(t, err)
}

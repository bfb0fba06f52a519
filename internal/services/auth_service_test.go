package services

import (
	"context"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/induso/cobranzas-api/internal/config"
	"github.com/induso/cobranzas-api/internal/models"
	"github.com/induso/cobranzas-api/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type mockAuthUserRepo struct {
	repository.UserRepository
	mockFindByEmail func(ctx context.Context, email string) (*models.User, error)
	mockFindByID    func(ctx context.Context, id uint) (*models.User, error)
}

func (m *mockAuthUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return m.mockFindByEmail(ctx, email)
}

func (m *mockAuthUserRepo) FindByID(ctx context.Context, id uint) (*models.User, error) {
	return m.mockFindByID(ctx, id)
}

type mockRefreshTokenRepo struct {
	repository.RefreshTokenRepository
	mockFindByToken func(ctx context.Context, token string) (*models.RefreshToken, error)
	deleted         []string
}

func (m *mockRefreshTokenRepo) Create(ctx context.Context, token *models.RefreshToken) error {
	return nil
}

func (m *mockRefreshTokenRepo) FindByToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	return m.mockFindByToken(ctx, token)
}

func (m *mockRefreshTokenRepo) Delete(ctx context.Context, token string) error {
	m.deleted = append(m.deleted, token)
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:          "test-secret",
		JWTExpirationHours: 1,
	}
}

func TestAuthService_Login_InactiveUser(t *testing.T) {
	mockRepo := &mockAuthUserRepo{}
	service := NewAuthService(mockRepo, nil, testConfig())

	mockRepo.mockFindByEmail = func(ctx context.Context, email string) (*models.User, error) {
		return &models.User{
			Email:  email,
			Status: models.StatusInactive,
		}, nil
	}

	result, err := service.Login(context.Background(), "inactive@example.com", "password")
	assert.Nil(t, result)
	assert.Error(t, err)
	assert.Equal(t, "cuenta inactiva o suspendida", err.Error())
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	mockRepo := &mockAuthUserRepo{}
	service := NewAuthService(mockRepo, nil, testConfig())

	hash, _ := bcrypt.GenerateFromPassword([]byte("correct"), bcrypt.MinCost)
	mockRepo.mockFindByEmail = func(ctx context.Context, email string) (*models.User, error) {
		return &models.User{
			Email:             email,
			Status:            models.StatusActive,
			EncryptedPassword: string(hash),
		}, nil
	}

	result, err := service.Login(context.Background(), "user@example.com", "wrong")
	assert.Nil(t, result)
	assert.Error(t, err)
	assert.Equal(t, "credenciales inválidas", err.Error())
}

func TestAuthService_Login_TokenCarriesTenant(t *testing.T) {
	mockRepo := &mockAuthUserRepo{}
	mockRTRepo := &mockRefreshTokenRepo{}
	service := NewAuthService(mockRepo, mockRTRepo, testConfig())

	hash, _ := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.MinCost)
	mockRepo.mockFindByEmail = func(ctx context.Context, email string) (*models.User, error) {
		return &models.User{
			ID:                3,
			TenantID:          42,
			Email:             email,
			Role:              models.RoleCajero,
			Status:            models.StatusActive,
			EncryptedPassword: string(hash),
		}, nil
	}

	result, err := service.Login(context.Background(), "cajero@example.com", "password")
	require.NoError(t, err)
	require.NotEmpty(t, result.Token)
	require.NotEmpty(t, result.RefreshToken)

	claims := jwt.MapClaims{}
	_, err = jwt.ParseWithClaims(result.Token, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	assert.EqualValues(t, 42, claims["tenant_id"])
	assert.Equal(t, "cajero", claims["role"])
}

func TestAuthService_RefreshToken_InactiveUser(t *testing.T) {
	mockRepo := &mockAuthUserRepo{}
	mockRTRepo := &mockRefreshTokenRepo{}
	service := NewAuthService(mockRepo, mockRTRepo, testConfig())

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
	assert.Error(t, err)
	assert.Equal(t, "cuenta inactiva o suspendida", err.Error())
}

func TestAuthService_RefreshToken_Rotates(t *testing.T) {
	mockRepo := &mockAuthUserRepo{}
	mockRTRepo := &mockRefreshTokenRepo{}
	service := NewAuthService(mockRepo, mockRTRepo, testConfig())

	mockRTRepo.mockFindByToken = func(ctx context.Context, token string) (*models.RefreshToken, error) {
		return &models.RefreshToken{UserID: 1, Token: token}, nil
	}
	mockRepo.mockFindByID = func(ctx context.Context, id uint) (*models.User, error) {
		return &models.User{ID: id, TenantID: 1, Status: models.StatusActive}, nil
	}

	result, err := service.RefreshToken(context.Background(), "old-token")
	require.NoError(t, err)
	assert.NotEqual(t, "old-token", result.RefreshToken)
	assert.Contains(t, mockRTRepo.deleted, "old-token")
}

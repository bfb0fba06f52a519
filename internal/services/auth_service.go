package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/induso/cobranzas-api/internal/config"
	"github.com/induso/cobranzas-api/internal/models"
	"github.com/induso/cobranzas-api/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

// AuthService handles authentication operations
type AuthService struct {
	userRepo         repository.UserRepository
	refreshTokenRepo repository.RefreshTokenRepository
	cfg              *config.Config
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo repository.UserRepository, rtRepo repository.RefreshTokenRepository, cfg *config.Config) *AuthService {
	return &AuthService{
		userRepo:         userRepo,
		refreshTokenRepo: rtRepo,
		cfg:              cfg,
	}
}

// LoginResult represents the result of a login attempt
type LoginResult struct {
	Token        string              `json:"token"`
	RefreshToken string              `json:"refresh_token"`
	User         models.UserResponse `json:"user"`
}

// Login authenticates a user and returns tokens
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, errors.New("credenciales inválidas")
	}

	if !user.IsActive() {
		return nil, errors.New("cuenta inactiva o suspendida")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.EncryptedPassword), []byte(password)); err != nil {
		return nil, errors.New("credenciales inválidas")
	}

	token, err := s.generateJWT(user)
	if err != nil {
		return nil, errors.New("error al generar token")
	}

	refreshToken, err := s.generateRefreshToken(ctx, user.ID)
	if err != nil {
		return nil, errors.New("error al generar refresh token")
	}

	return &LoginResult{
		Token:        token,
		RefreshToken: refreshToken,
		User:         user.ToResponse(),
	}, nil
}

// RefreshToken validates a refresh token and returns new tokens
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*LoginResult, error) {
	rt, err := s.refreshTokenRepo.FindByToken(ctx, refreshToken)
	if err != nil {
		return nil, errors.New("token inválido")
	}

	if rt.IsExpired() {
		s.refreshTokenRepo.Delete(ctx, refreshToken)
		return nil, errors.New("token expirado")
	}

	user, err := s.userRepo.FindByID(ctx, rt.UserID)
	if err != nil {
		return nil, errors.New("usuario no encontrado")
	}

	if !user.IsActive() {
		return nil, errors.New("cuenta inactiva o suspendida")
	}

	// Rotate: the old refresh token dies with its first use
	s.refreshTokenRepo.Delete(ctx, refreshToken)

	token, err := s.generateJWT(user)
	if err != nil {
		return nil, errors.New("error al generar token")
	}

	newRefreshToken, err := s.generateRefreshToken(ctx, user.ID)
	if err != nil {
		return nil, errors.New("error al generar refresh token")
	}

	return &LoginResult{
		Token:        token,
		RefreshToken: newRefreshToken,
		User:         user.ToResponse(),
	}, nil
}

// Logout invalidates a refresh token
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	return s.refreshTokenRepo.Delete(ctx, refreshToken)
}

// generateJWT creates a new JWT token for a user. The tenant travels in the
// claims so every request is scoped without another lookup.
func (s *AuthService) generateJWT(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id":   user.ID,
		"tenant_id": user.TenantID,
		"email":     user.Email,
		"role":      user.Role,
		"exp":       time.Now().Add(time.Duration(s.cfg.JWTExpirationHours) * time.Hour).Unix(),
		"iat":       time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

// generateRefreshToken creates a new refresh token
func (s *AuthService) generateRefreshToken(ctx context.Context, userID uint) (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	token := hex.EncodeToString(bytes)

	expiresAt := time.Now().Add(30 * 24 * time.Hour)

	rt := &models.RefreshToken{
		UserID:    userID,
		Token:     token,
		ExpiresAt: &expiresAt,
	}
	if err := s.refreshTokenRepo.Create(ctx, rt); err != nil {
		return "", err
	}

	return token, nil
}

// CleanupExpiredTokens removes refresh tokens past their expiry. Invoked by
// the scheduler.
func (s *AuthService) CleanupExpiredTokens(ctx context.Context) error {
	return s.refreshTokenRepo.DeleteExpired(ctx)
}

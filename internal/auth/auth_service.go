package auth

import (
	"context"
	"errors"
	"os"
	"time"

	autherrors "github.com/hafizthesakora/cert-tracking/internal/auth/errors"
	"github.com/hafizthesakora/cert-tracking/internal/user"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	accessTokenTTL  = 15 * time.Minute
	refreshTokenTTL = 7 * 24 * time.Hour
)

//go:generate mockgen -source=auth_service.go -destination=mock/auth_service_mock.go -package=mock
type Service interface {
	Login(ctx context.Context, email, password string) (TokenResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (TokenResponse, error)
	GetMe(ctx context.Context, userID string) (*AuthResponse, error)
}

type service struct {
	users user.Repository
}

func NewService(users user.Repository) Service {
	return &service{users: users}
}

func (s *service) Login(ctx context.Context, email, password string) (TokenResponse, error) {
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return TokenResponse{}, autherrors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		return TokenResponse{}, autherrors.ErrInvalidCredentials
	}

	if !u.IsActive {
		return TokenResponse{}, autherrors.ErrUserInactive
	}

	accessToken, err := s.generateToken(u.ID.String(), u.Role, accessTokenTTL)
	if err != nil {
		return TokenResponse{}, autherrors.ErrTokenGenerationFailed
	}
	refreshToken, err := s.generateToken(u.ID.String(), u.Role, refreshTokenTTL)
	if err != nil {
		return TokenResponse{}, autherrors.ErrTokenGenerationFailed
	}

	return TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         mapToAuthResponse(u),
	}, nil
}

func (s *service) RefreshToken(ctx context.Context, refreshToken string) (TokenResponse, error) {
	token, err := jwt.Parse(refreshToken, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, autherrors.ErrInvalidToken
		}
		return []byte(os.Getenv("JWT_SECRET")), nil
	})

	if err != nil || !token.Valid {
		return TokenResponse{}, autherrors.ErrInvalidRefreshToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return TokenResponse{}, autherrors.ErrInvalidToken
	}

	userIDStr, ok := claims["user_id"].(string)
	if !ok {
		return TokenResponse{}, autherrors.ErrInvalidToken
	}

	if _, err := uuid.Parse(userIDStr); err != nil {
		return TokenResponse{}, autherrors.ErrInvalidUserID
	}

	u, err := s.users.FindByID(ctx, userIDStr)
	if err != nil {
		return TokenResponse{}, autherrors.ErrUserNotFound
	}

	newAccessToken, err := s.generateToken(u.ID.String(), u.Role, accessTokenTTL)
	if err != nil {
		return TokenResponse{}, autherrors.ErrTokenGenerationFailed
	}
	newRefreshToken, err := s.generateToken(u.ID.String(), u.Role, refreshTokenTTL)
	if err != nil {
		return TokenResponse{}, autherrors.ErrTokenGenerationFailed
	}

	return TokenResponse{
		AccessToken:  newAccessToken,
		RefreshToken: newRefreshToken,
		User:         mapToAuthResponse(u),
	}, nil
}

func (s *service) GetMe(ctx context.Context, userID string) (*AuthResponse, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return nil, autherrors.ErrInvalidUserID
	}

	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, autherrors.ErrUserNotFound
		}
		return nil, err
	}

	resp := mapToAuthResponse(u)
	return &resp, nil
}

func (s *service) generateToken(userID, role string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"role":    role,
		"exp":     time.Now().Add(ttl).Unix(),
		"iat":     time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}

func mapToAuthResponse(u *user.User) AuthResponse {
	return AuthResponse{
		ID:    u.ID.String(),
		Name:  u.Name,
		Email: u.Email,
		Role:  u.Role,
	}
}

package service

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

type AdminClaims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

type AdminAuthService interface {
	Login(username, password string) (string, error)
	ValidateToken(tokenString string) (*AdminClaims, error)
}

type adminAuthService struct {
	username     string
	passwordHash string
	logger       *zap.Logger
}

func NewAdminAuthService(username, passwordHash string, logger *zap.Logger) AdminAuthService {
	return &adminAuthService{
		username:     username,
		passwordHash: passwordHash,
		logger:       logger,
	}
}

func (s *adminAuthService) Login(username, password string) (string, error) {
	secret := os.Getenv("ADMIN_JWT_SECRET")
	if secret == "" {
		return "", fmt.Errorf("jwt secret is not found in env")
	}

	if username != s.username {
		return "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(s.passwordHash), []byte(password)); err != nil {
		s.logger.Warn("admin login rejected", zap.String("username", username))
		return "", ErrInvalidCredentials
	}

	claims := AdminClaims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(15 * time.Minute)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ID:        uuid.New().String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func (s *adminAuthService) ValidateToken(tokenString string) (*AdminClaims, error) {
	secret := os.Getenv("ADMIN_JWT_SECRET")
	if secret == "" {
		return nil, fmt.Errorf("jwt secret is not found in env")
	}

	token, err := jwt.ParseWithClaims(tokenString, &AdminClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*AdminClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, errors.New("invalid token")
}

package service

import (
	"context"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"schoolfee-backend/internal/config"
	"schoolfee-backend/internal/domain"
	"schoolfee-backend/internal/logger"
	"schoolfee-backend/internal/security"
)

type authService struct {
	auth   config.AuthConfig
	tokens security.TokenManager
}

func NewAuthService(auth config.AuthConfig, tokens security.TokenManager) AuthService {
	return &authService{auth: auth, tokens: tokens}
}

// Login checks the configured operator credential and issues an access
// token. The error is deliberately the same for unknown email and wrong
// password.
func (s *authService) Login(ctx context.Context, email, password string) (string, error) {
	logger.EnterMethod("Login", "email", email)

	if !strings.EqualFold(strings.TrimSpace(email), s.auth.AdminEmail) {
		return "", domain.InvalidInputf("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.auth.AdminPasswordHash), []byte(password)); err != nil {
		return "", domain.InvalidInputf("invalid credentials")
	}

	token, err := s.tokens.GenerateAccessToken(s.auth.AdminEmail)
	if err != nil {
		logger.ExitMethodWithError("Login", err)
		return "", err
	}
	logger.ExitMethod("Login", "email", email)
	return token, nil
}

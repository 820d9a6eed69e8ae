package service

import (
	"fmt"

	"go.uber.org/zap"

	"expensetracker/internal/apperr"
	"expensetracker/internal/models"
	"expensetracker/internal/repository"
)

// AuthService handles registration and credential verification.
type AuthService interface {
	Register(email, password string) (*models.User, error)
	Login(email, password string) (string, error)
}

type authService struct {
	repo   repository.AuthRepository
	tokens *TokenService
	logger *zap.Logger
}

func NewAuthService(repo repository.AuthRepository, tokens *TokenService, logger *zap.Logger) AuthService {
	return &authService{repo: repo, tokens: tokens, logger: logger}
}

// Register creates a new user with a hashed password. Fails with
// apperr.ErrDuplicateEmail when the email is already taken (compared
// case-insensitively).
func (s *authService) Register(email, password string) (*models.User, error) {
	existing, err := s.repo.GetUserByEmail(email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		return nil, apperr.ErrDuplicateEmail
	}

	passwordHash, err := HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:        email,
		PasswordHash: passwordHash,
	}
	if err := s.repo.CreateUser(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("User registered", zap.Int64("user_id", user.ID))
	return user, nil
}

// Login verifies the credentials and returns a signed bearer token. An
// unknown email and a wrong password both fail with the same
// apperr.ErrInvalidCredentials, so the caller cannot tell them apart.
func (s *authService) Login(email, password string) (string, error) {
	user, err := s.repo.GetUserByEmail(email)
	if err != nil {
		return "", fmt.Errorf("failed to retrieve user: %w", err)
	}
	if user == nil {
		return "", apperr.ErrInvalidCredentials
	}

	if !VerifyPassword(user.PasswordHash, password) {
		return "", apperr.ErrInvalidCredentials
	}

	token, _, err := s.tokens.Issue(user.Email)
	if err != nil {
		return "", fmt.Errorf("failed to issue token: %w", err)
	}

	s.logger.Info("User logged in", zap.Int64("user_id", user.ID))
	return token, nil
}

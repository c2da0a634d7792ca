package service

import (
	"errors"
	"fmt"

	"usersbackend/internal/models"
	"usersbackend/internal/repository"

	"go.uber.org/zap"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

type AuthService interface {
	// Login verifies the credentials and returns a signed session token
	// together with the matched record. The returned record is the
	// stored row as-is, encoded password included; callers that expose
	// it to clients expose the credential digest too.
	Login(identifier, password string) (string, *models.User, error)
}

type authService struct {
	repo   repository.UserRepository
	tokens *TokenIssuer
	logger *zap.Logger
}

func NewAuthService(repo repository.UserRepository, tokens *TokenIssuer, logger *zap.Logger) AuthService {
	return &authService{repo: repo, tokens: tokens, logger: logger}
}

func (s *authService) Login(identifier, password string) (string, *models.User, error) {
	encoded := EncodePassword(password)

	user, err := s.repo.FindByCredentials(identifier, encoded)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Same outcome for unknown identifier and wrong password.
			return "", nil, ErrInvalidCredentials
		}
		s.logger.Error("Failed to look up user for login", zap.Error(err))
		return "", nil, fmt.Errorf("failed to retrieve user: %w", err)
	}

	tokenString, err := s.tokens.Issue(user)
	if err != nil {
		s.logger.Error("Failed to issue session token", zap.Error(err))
		return "", nil, fmt.Errorf("failed to issue token: %w", err)
	}

	s.logger.Info("User logged in successfully.", zap.String("username", user.Username))
	return tokenString, user, nil
}

package service

import (
	"encoding/json"
	"errors"
	"fmt"

	"usersbackend/internal/models"
	"usersbackend/internal/repository"

	"go.uber.org/zap"
)

var (
	ErrEmptyInput    = errors.New("no user data found in the uploaded file")
	ErrInvalidFormat = errors.New("the uploaded file is not valid JSON")
	ErrStorage       = errors.New("failed to store imported users")
)

// ImportOutcome summarizes a batch import run. TotalRecords is always
// SuccessfullyImported + NotImported.
type ImportOutcome struct {
	TotalRecords         int `json:"totalRecords"`
	SuccessfullyImported int `json:"successfullyImported"`
	NotImported          int `json:"notImported"`
}

type ImportService interface {
	Import(payload []byte) (*ImportOutcome, error)
}

type importService struct {
	repo   repository.UserRepository
	logger *zap.Logger
}

func NewImportService(repo repository.UserRepository, logger *zap.Logger) ImportService {
	return &importService{repo: repo, logger: logger}
}

// Import parses the payload as a list of user records, rejects records
// whose email or username is already persisted, encodes the passwords
// of the remaining ones and commits them in a single write.
//
// The duplicate check runs against the store as it was when the record
// is considered, not against earlier records of the same batch. Two
// batch records sharing a username both pass the check; the unique
// constraints on the users table then fail the commit and the whole
// import returns a storage error.
func (s *importService) Import(payload []byte) (*ImportOutcome, error) {
	if len(payload) == 0 {
		return nil, ErrEmptyInput
	}

	var users []*models.User
	if err := json.Unmarshal(payload, &users); err != nil {
		return nil, ErrInvalidFormat
	}
	if len(users) == 0 {
		return nil, ErrEmptyInput
	}

	outcome := &ImportOutcome{TotalRecords: len(users)}
	accepted := make([]*models.User, 0, len(users))

	for _, user := range users {
		exists, err := s.repo.ExistsByEmailOrUsername(user.Email, user.Username)
		if err != nil {
			s.logger.Error("Failed to check for existing user", zap.String("username", user.Username), zap.Error(err))
			return nil, fmt.Errorf("%w: %w", ErrStorage, err)
		}
		if exists {
			outcome.NotImported++
			continue
		}

		user.Password = EncodePassword(user.Password)
		accepted = append(accepted, user)
		outcome.SuccessfullyImported++
	}

	if err := s.repo.InsertBatch(accepted); err != nil {
		s.logger.Error("Failed to commit imported users", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}

	s.logger.Info("Batch import finished",
		zap.Int("total", outcome.TotalRecords),
		zap.Int("imported", outcome.SuccessfullyImported),
		zap.Int("rejected", outcome.NotImported),
	)
	return outcome, nil
}

package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"usersbackend/internal/models"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// ErrNotFound is returned when a query matches no user record.
var ErrNotFound = errors.New("user not found")

const userColumns = `id, first_name, last_name, birth_date, city, country, avatar, company, job_position, mobile, username, email, password, role`

type UserRepository interface {
	// FindByCredentials returns the user whose email or username equals
	// identifier and whose stored password equals encodedPassword.
	FindByCredentials(identifier, encodedPassword string) (*models.User, error)
	GetByID(id int64) (*models.User, error)
	GetByUsername(username string) (*models.User, error)
	// ExistsByEmailOrUsername reports whether any stored record already
	// uses the given email or username.
	ExistsByEmailOrUsername(email, username string) (bool, error)
	// InsertBatch persists all users in a single transaction. Either
	// every record is written or none are.
	InsertBatch(users []*models.User) error
}

type userRepository struct {
	db  *sqlx.DB
	log *zap.Logger
}

func NewUserRepository(db *sqlx.DB, log *zap.Logger) UserRepository {
	return &userRepository{db: db, log: log}
}

func (r *userRepository) FindByCredentials(identifier, encodedPassword string) (*models.User, error) {
	var user models.User
	query := `SELECT ` + userColumns + ` FROM users WHERE (email = $1 OR username = $1) AND password = $2`
	err := r.db.Get(&user, query, identifier, encodedPassword)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to query user by credentials: %w", err)
	}
	return &user, nil
}

func (r *userRepository) GetByID(id int64) (*models.User, error) {
	var user models.User
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	err := r.db.Get(&user, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to query user by id: %w", err)
	}
	return &user, nil
}

func (r *userRepository) GetByUsername(username string) (*models.User, error) {
	var user models.User
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	err := r.db.Get(&user, query, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to query user by username: %w", err)
	}
	return &user, nil
}

func (r *userRepository) ExistsByEmailOrUsername(email, username string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1 OR username = $2)`
	err := r.db.Get(&exists, query, email, username)
	if err != nil {
		return false, fmt.Errorf("failed to check user existence: %w", err)
	}
	return exists, nil
}

func (r *userRepository) InsertBatch(users []*models.User) error {
	if len(users) == 0 {
		return nil
	}

	tx, err := r.db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	query := `INSERT INTO users (first_name, last_name, birth_date, city, country, avatar, company, job_position, mobile, username, email, password, role)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13) RETURNING id`

	for _, user := range users {
		err := tx.QueryRowx(query,
			user.FirstName, user.LastName, user.BirthDate, user.City, user.Country,
			user.Avatar, user.Company, user.JobPosition, user.Mobile,
			user.Username, user.Email, user.Password, user.Role,
		).Scan(&user.ID)
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				r.log.Error("Failed to roll back batch insert", zap.Error(rbErr))
			}
			return fmt.Errorf("failed to insert user %q: %w", user.Username, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit batch insert: %w", err)
	}
	return nil
}

package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Role is the closed set of authorization roles a user can hold.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// User is a stored user record. Password holds the SHA-256 hex encoding
// of the credential, never the plaintext; batch import records arrive
// with a plaintext Password and are encoded in place before commit.
type User struct {
	ID          int64     `db:"id" json:"id"`
	FirstName   string    `db:"first_name" json:"firstName"`
	LastName    string    `db:"last_name" json:"lastName"`
	BirthDate   time.Time `db:"birth_date" json:"birthDate"`
	City        string    `db:"city" json:"city"`
	Country     string    `db:"country" json:"country"`
	Avatar      string    `db:"avatar" json:"avatar"`
	Company     string    `db:"company" json:"company"`
	JobPosition string    `db:"job_position" json:"jobPosition"`
	Mobile      string    `db:"mobile" json:"mobile"`
	Username    string    `db:"username" json:"username"`
	Email       string    `db:"email" json:"email"`
	Password    string    `db:"password" json:"password"`
	Role        Role      `db:"role" json:"role"`
}

// Claims defines the structure of the JWT claims.
type Claims struct {
	UserID int64  `json:"user_id"`
	Email  string `json:"email"`
	Role   Role   `json:"role"`
	jwt.RegisteredClaims
}

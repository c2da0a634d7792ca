package service

import (
	"errors"
	"time"

	"usersbackend/internal/models"

	"github.com/brianvoe/gofakeit/v6"
)

var ErrInvalidCount = errors.New("count must be a positive number")

// GenerateUsers produces count random user records suitable as batch
// import fixtures. Passwords are plaintext; roles are drawn from the
// known role set.
func GenerateUsers(count int) ([]*models.User, error) {
	if count <= 0 {
		return nil, ErrInvalidCount
	}

	now := time.Now()
	users := make([]*models.User, 0, count)
	for i := 0; i < count; i++ {
		users = append(users, &models.User{
			FirstName:   gofakeit.FirstName(),
			LastName:    gofakeit.LastName(),
			BirthDate:   gofakeit.DateRange(now.AddDate(-30, 0, 0), now),
			City:        gofakeit.City(),
			Country:     gofakeit.CountryAbr(),
			Avatar:      gofakeit.ImageURL(200, 200),
			Company:     gofakeit.Company(),
			JobPosition: gofakeit.JobTitle(),
			Mobile:      gofakeit.Phone(),
			Username:    gofakeit.Username(),
			Email:       gofakeit.Email(),
			Password:    gofakeit.Password(true, true, true, false, false, 6),
			Role:        models.Role(gofakeit.RandomString([]string{string(models.RoleAdmin), string(models.RoleUser)})),
		})
	}
	return users, nil
}

package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// DefaultBcryptCost matches the cost the service has always hashed with.
const DefaultBcryptCost = 10

var ErrInvalidPassword = errors.New("invalid password")

// PasswordService hashes and verifies passwords with bcrypt.
type PasswordService struct {
	cost int
}

func NewPasswordService() *PasswordService {
	return &PasswordService{
		cost: DefaultBcryptCost,
	}
}

func NewPasswordServiceWithCost(cost int) *PasswordService {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultBcryptCost
	}
	return &PasswordService{
		cost: cost,
	}
}

// HashPassword derives a salted bcrypt hash of the password.
func (s *PasswordService) HashPassword(password string) (string, error) {
	if len(password) == 0 {
		return "", ErrInvalidPassword
	}

	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", err
	}

	return string(hashedBytes), nil
}

// VerifyPassword compares a stored hash against a candidate password.
func (s *PasswordService) VerifyPassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

// IsValidPassword applies the registration password policy.
func IsValidPassword(password string) error {
	if len(password) < 5 {
		return errors.New("password must be at least 5 characters long")
	}

	if len(password) > 72 {
		// bcrypt truncates beyond 72 bytes
		return errors.New("password must be no more than 72 characters long")
	}

	return nil
}

package repository

import (
	"Shortly-Backend/internal/domain"
	"context"
	"errors"
	"time"
)

var (
	ErrEmailExists   = errors.New("email already registered")
	ErrUserNotFound  = errors.New("user not found")
	ErrAliasExists   = errors.New("alias already exists")
	ErrAliasNotFound = errors.New("alias not found")
)

type Storage interface {
	// User methods
	CreateUser(ctx context.Context, email, passwordHash string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)

	// Link methods
	SaveLink(ctx context.Context, link *domain.Link) error
	GetLink(ctx context.Context, shortCode string) (*domain.Link, error)
	AliasExists(ctx context.Context, shortCode string) (bool, error)
	ListUserLinks(ctx context.Context, userID int64) ([]*domain.Link, error)

	// ResolveLink atomically increments the click counter for the code and
	// returns the updated link. Concurrent calls must not lose increments.
	ResolveLink(ctx context.Context, shortCode string) (*domain.Link, error)

	// IncrementClick bumps the click counter without reading the link back.
	// Used on the cached resolution path.
	IncrementClick(ctx context.Context, shortCode string) error

	// DeleteExpiredLinks removes every link created before the cutoff and
	// reports how many were deleted.
	DeleteExpiredLinks(ctx context.Context, cutoff time.Time) (int64, error)
}

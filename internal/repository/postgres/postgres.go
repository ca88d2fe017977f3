package postgres

import (
	"Shortly-Backend/internal/domain"
	"Shortly-Backend/internal/repository"
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// PostgresStorage implements repository.Storage on top of GORM/PostgreSQL.
type PostgresStorage struct {
	db  *gorm.DB
	log *zap.Logger
}

func New(db *gorm.DB, log *zap.Logger) *PostgresStorage {
	return &PostgresStorage{
		db:  db,
		log: log,
	}
}

// --- User Methods ---

// CreateUser persists a new user. The unique index on email backs the
// duplicate check, so a concurrent registration of the same address
// surfaces as ErrEmailExists rather than a second row.
func (s *PostgresStorage) CreateUser(ctx context.Context, email, passwordHash string) (*domain.User, error) {
	user := domain.User{
		Email:        email,
		PasswordHash: passwordHash,
	}

	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, repository.ErrEmailExists
		}
		s.log.Error("failed to create user", zap.String("email", email), zap.Error(err))
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.log.Info("created new user", zap.Int64("user_id", user.ID))
	return &user, nil
}

func (s *PostgresStorage) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User

	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, repository.ErrUserNotFound
	}
	if err != nil {
		s.log.Error("failed to get user by email", zap.Error(err))
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

// --- Link Methods ---

// SaveLink persists a new link. Uniqueness of the short code is enforced
// by the store-level unique index; a violation surfaces as ErrAliasExists
// so the caller can regenerate or reject the alias.
func (s *PostgresStorage) SaveLink(ctx context.Context, link *domain.Link) error {
	if err := s.db.WithContext(ctx).Create(link).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return repository.ErrAliasExists
		}
		s.log.Error("failed to save link", zap.String("short_code", link.ShortCode), zap.Error(err))
		return fmt.Errorf("failed to save link: %w", err)
	}

	s.log.Info("saved new link",
		zap.String("short_code", link.ShortCode),
		zap.Int64("user_id", link.UserID))
	return nil
}

func (s *PostgresStorage) GetLink(ctx context.Context, shortCode string) (*domain.Link, error) {
	var link domain.Link

	err := s.db.WithContext(ctx).Where("short_code = ?", shortCode).First(&link).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, repository.ErrAliasNotFound
	}
	if err != nil {
		s.log.Error("failed to get link", zap.String("short_code", shortCode), zap.Error(err))
		return nil, fmt.Errorf("failed to get link: %w", err)
	}

	return &link, nil
}

func (s *PostgresStorage) AliasExists(ctx context.Context, shortCode string) (bool, error) {
	var count int64

	err := s.db.WithContext(ctx).Model(&domain.Link{}).Where("short_code = ?", shortCode).Count(&count).Error
	if err != nil {
		s.log.Error("failed to check alias existence", zap.String("short_code", shortCode), zap.Error(err))
		return false, fmt.Errorf("failed to check alias: %w", err)
	}

	return count > 0, nil
}

func (s *PostgresStorage) ListUserLinks(ctx context.Context, userID int64) ([]*domain.Link, error) {
	var links []*domain.Link

	err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Find(&links).Error
	if err != nil {
		s.log.Error("failed to list user links", zap.Int64("user_id", userID), zap.Error(err))
		return nil, fmt.Errorf("failed to list links: %w", err)
	}

	return links, nil
}

// ResolveLink increments the click counter and returns the updated link.
// The increment is a single UPDATE with a SQL expression, so concurrent
// resolutions serialize on the row and no click is lost.
func (s *PostgresStorage) ResolveLink(ctx context.Context, shortCode string) (*domain.Link, error) {
	var link domain.Link

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&domain.Link{}).
			Where("short_code = ?", shortCode).
			UpdateColumn("click_count", gorm.Expr("click_count + 1"))
		if res.Error != nil {
			return fmt.Errorf("failed to update click count: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return repository.ErrAliasNotFound
		}

		return tx.Where("short_code = ?", shortCode).First(&link).Error
	})

	if errors.Is(err, repository.ErrAliasNotFound) {
		return nil, repository.ErrAliasNotFound
	}
	if err != nil {
		s.log.Error("failed to resolve link", zap.String("short_code", shortCode), zap.Error(err))
		return nil, fmt.Errorf("failed to resolve link: %w", err)
	}

	return &link, nil
}

func (s *PostgresStorage) IncrementClick(ctx context.Context, shortCode string) error {
	res := s.db.WithContext(ctx).Model(&domain.Link{}).
		Where("short_code = ?", shortCode).
		UpdateColumn("click_count", gorm.Expr("click_count + 1"))
	if res.Error != nil {
		s.log.Error("failed to increment click count", zap.String("short_code", shortCode), zap.Error(res.Error))
		return fmt.Errorf("failed to increment click count: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return repository.ErrAliasNotFound
	}

	return nil
}

// DeleteExpiredLinks bulk-deletes links created before the cutoff.
func (s *PostgresStorage) DeleteExpiredLinks(ctx context.Context, cutoff time.Time) (int64, error) {
	res := s.db.WithContext(ctx).Where("created_at < ?", cutoff).Delete(&domain.Link{})
	if res.Error != nil {
		s.log.Error("failed to delete expired links", zap.Error(res.Error))
		return 0, fmt.Errorf("failed to delete expired links: %w", res.Error)
	}

	if res.RowsAffected > 0 {
		s.log.Info("deleted expired links", zap.Int64("count", res.RowsAffected))
	}
	return res.RowsAffected, nil
}

package database

import (
	"Shortly-Backend/internal/domain"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AutoMigrate runs schema migrations for all domain models.
// Order matters because of the links -> users foreign key.
func AutoMigrate(db *gorm.DB, log *zap.Logger) error {
	models := []interface{}{
		&domain.User{},
		&domain.Link{},
	}

	log.Info("running database migrations", zap.Int("models", len(models)))

	for _, model := range models {
		modelName := fmt.Sprintf("%T", model)
		if err := db.AutoMigrate(model); err != nil {
			log.Error("failed to migrate model", zap.String("model", modelName), zap.Error(err))
			return fmt.Errorf("failed to migrate model %s: %w", modelName, err)
		}
		log.Debug("model migrated", zap.String("model", modelName))
	}

	log.Info("database migrations completed")
	return nil
}

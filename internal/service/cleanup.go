package service

import (
	"Shortly-Backend/internal/repository"
	"context"
	"time"

	"go.uber.org/zap"
)

// Cleanup deletes links older than the retention window. Callers only
// observe that expired links are eventually gone; exact timing depends
// on the sweep interval.
type Cleanup struct {
	storage   repository.Storage
	retention time.Duration
	interval  time.Duration
	log       *zap.Logger
}

func NewCleanup(storage repository.Storage, retention, interval time.Duration, log *zap.Logger) *Cleanup {
	return &Cleanup{
		storage:   storage,
		retention: retention,
		interval:  interval,
		log:       log,
	}
}

// Run sweeps on a fixed interval until the context is cancelled. An
// initial sweep runs immediately so a restart doesn't extend retention.
func (c *Cleanup) Run(ctx context.Context) {
	c.log.Info("link cleanup started",
		zap.Duration("retention", c.retention),
		zap.Duration("interval", c.interval))

	c.sweep(ctx)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.sweep(ctx)
		case <-ctx.Done():
			c.log.Info("link cleanup stopped")
			return
		}
	}
}

func (c *Cleanup) sweep(ctx context.Context) {
	cutoff := time.Now().Add(-c.retention)

	deleted, err := c.storage.DeleteExpiredLinks(ctx, cutoff)
	if err != nil {
		c.log.Error("link sweep failed", zap.Error(err))
		return
	}

	if deleted > 0 {
		c.log.Info("swept expired links", zap.Int64("deleted", deleted))
	}
}

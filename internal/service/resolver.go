package service

import (
	"Shortly-Backend/internal/repository"
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// LinkCache is the optional resolution cache. Implementations must treat
// every miss or failure as "not cached" and let the store decide.
type LinkCache interface {
	GetURL(ctx context.Context, shortCode string) (string, bool)
	SetURL(ctx context.Context, shortCode, url string)
	Delete(ctx context.Context, shortCode string)
}

// Resolver turns short codes into destination URLs, counting every
// successful resolution.
type Resolver struct {
	storage repository.Storage
	cache   LinkCache // nil disables caching
	log     *zap.Logger
}

func NewResolver(storage repository.Storage, cache LinkCache, log *zap.Logger) *Resolver {
	return &Resolver{
		storage: storage,
		cache:   cache,
		log:     log,
	}
}

// Resolve returns the destination URL for a short code and increments
// its click counter. On a cache hit the store still performs the atomic
// increment, so concurrent resolutions never lose clicks; a hit for a
// code the store has since deleted evicts the stale entry.
func (r *Resolver) Resolve(ctx context.Context, shortCode string) (string, error) {
	if r.cache != nil {
		if url, ok := r.cache.GetURL(ctx, shortCode); ok {
			err := r.storage.IncrementClick(ctx, shortCode)
			if err == nil {
				return url, nil
			}
			if errors.Is(err, repository.ErrAliasNotFound) {
				r.cache.Delete(ctx, shortCode)
				return "", repository.ErrAliasNotFound
			}
			return "", fmt.Errorf("failed to count click: %w", err)
		}
	}

	link, err := r.storage.ResolveLink(ctx, shortCode)
	if err != nil {
		if errors.Is(err, repository.ErrAliasNotFound) {
			return "", repository.ErrAliasNotFound
		}
		return "", fmt.Errorf("failed to resolve link: %w", err)
	}

	if r.cache != nil {
		r.cache.SetURL(ctx, shortCode, link.OriginalURL)
	}

	return link.OriginalURL, nil
}

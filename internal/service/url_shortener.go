package service

import (
	"Shortly-Backend/internal/config"
	"Shortly-Backend/internal/domain"
	"Shortly-Backend/internal/repository"
	"Shortly-Backend/pkg/random"
	"context"
	"errors"
	"fmt"
)

// maxRetries bounds regeneration attempts when a random code collides
// with an existing one.
const maxRetries = 5

// URLShortenerService allocates short codes and persists new links.
type URLShortenerService struct {
	storage repository.Storage
	config  *config.URLShortener
}

func NewURLShortener(storage repository.Storage, cfg *config.URLShortener) *URLShortenerService {
	return &URLShortenerService{
		storage: storage,
		config:  cfg,
	}
}

// Shorten persists the link under a custom alias or a freshly generated
// random code. Uniqueness rests on the store's unique constraint: a
// colliding random code is regenerated, a taken custom alias is rejected
// with repository.ErrAliasExists.
func (s *URLShortenerService) Shorten(ctx context.Context, link *domain.Link, customAlias *string) (string, error) {
	if customAlias != nil && *customAlias != "" {
		return s.shortenWithAlias(ctx, link, *customAlias)
	}
	return s.shortenWithRandomCode(ctx, link)
}

func (s *URLShortenerService) shortenWithAlias(ctx context.Context, link *domain.Link, alias string) (string, error) {
	exists, err := s.storage.AliasExists(ctx, alias)
	if err != nil {
		return "", fmt.Errorf("failed to check custom alias existence: %w", err)
	}
	if exists {
		return "", repository.ErrAliasExists
	}

	link.ShortCode = alias
	if err := s.storage.SaveLink(ctx, link); err != nil {
		// A racing request may have taken the alias between the check
		// and the insert; the constraint has the final word.
		if errors.Is(err, repository.ErrAliasExists) {
			return "", repository.ErrAliasExists
		}
		return "", fmt.Errorf("failed to save link: %w", err)
	}

	return alias, nil
}

func (s *URLShortenerService) shortenWithRandomCode(ctx context.Context, link *domain.Link) (string, error) {
	for i := 0; i < maxRetries; i++ {
		code, err := random.NewRandomString(s.config.CodeLength)
		if err != nil {
			return "", fmt.Errorf("failed to generate short code: %w", err)
		}

		link.ShortCode = code
		err = s.storage.SaveLink(ctx, link)
		if err == nil {
			return code, nil
		}
		if !errors.Is(err, repository.ErrAliasExists) {
			return "", fmt.Errorf("failed to save link: %w", err)
		}
	}

	return "", fmt.Errorf("failed to allocate a unique short code after %d attempts", maxRetries)
}

package memory

import (
	"Shortly-Backend/internal/domain"
	"Shortly-Backend/internal/repository"
	"context"
	"sync"
	"time"
)

// MemStorage is an in-memory repository.Storage used in tests and for
// running the service without a database.
type MemStorage struct {
	mu           sync.RWMutex
	links        map[string]*domain.Link
	usersByEmail map[string]*domain.User
	userCounter  int64
	linkCounter  int64
}

func New() *MemStorage {
	return &MemStorage{
		links:        make(map[string]*domain.Link),
		usersByEmail: make(map[string]*domain.User),
	}
}

// --- User Methods ---

func (s *MemStorage) CreateUser(_ context.Context, email, passwordHash string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.usersByEmail[email]; exists {
		return nil, repository.ErrEmailExists
	}

	s.userCounter++
	user := &domain.User{
		ID:           s.userCounter,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
	}
	s.usersByEmail[email] = user

	return user, nil
}

func (s *MemStorage) GetUserByEmail(_ context.Context, email string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.usersByEmail[email]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return user, nil
}

// --- Link Methods ---

func (s *MemStorage) SaveLink(_ context.Context, link *domain.Link) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.links[link.ShortCode]; exists {
		return repository.ErrAliasExists
	}

	s.linkCounter++
	link.ID = s.linkCounter
	if link.CreatedAt.IsZero() {
		link.CreatedAt = time.Now()
	}
	s.links[link.ShortCode] = link

	return nil
}

func (s *MemStorage) GetLink(_ context.Context, shortCode string) (*domain.Link, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	link, ok := s.links[shortCode]
	if !ok {
		return nil, repository.ErrAliasNotFound
	}
	cp := *link
	return &cp, nil
}

func (s *MemStorage) AliasExists(_ context.Context, shortCode string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, exists := s.links[shortCode]
	return exists, nil
}

func (s *MemStorage) ListUserLinks(_ context.Context, userID int64) ([]*domain.Link, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var links []*domain.Link
	for _, link := range s.links {
		if link.UserID == userID {
			cp := *link
			links = append(links, &cp)
		}
	}
	return links, nil
}

func (s *MemStorage) ResolveLink(_ context.Context, shortCode string) (*domain.Link, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	link, ok := s.links[shortCode]
	if !ok {
		return nil, repository.ErrAliasNotFound
	}
	link.ClickCount++

	cp := *link
	return &cp, nil
}

func (s *MemStorage) IncrementClick(_ context.Context, shortCode string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	link, ok := s.links[shortCode]
	if !ok {
		return repository.ErrAliasNotFound
	}
	link.ClickCount++

	return nil
}

func (s *MemStorage) DeleteExpiredLinks(_ context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var deleted int64
	for code, link := range s.links {
		if link.CreatedAt.Before(cutoff) {
			delete(s.links, code)
			deleted++
		}
	}
	return deleted, nil
}

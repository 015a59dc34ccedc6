//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"
	"sync"

	"github.com/rios0rios0/automigrate/internal/domain/entities"
	"github.com/rios0rios0/automigrate/internal/domain/repositories"
)

// StubLockfileRepository implements repositories.LockfileRepository with a fixed answer.
type StubLockfileRepository struct {
	mu sync.Mutex

	Lockfile *entities.Lockfile
	Err      error

	GetCallCount int
}

var _ repositories.LockfileRepository = (*StubLockfileRepository)(nil)

func (s *StubLockfileRepository) Get(
	_ context.Context, _ repositories.ProviderRepository,
) (*entities.Lockfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.GetCallCount++
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Lockfile, nil
}

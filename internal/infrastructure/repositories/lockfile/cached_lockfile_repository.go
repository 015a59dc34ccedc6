package lockfile

import (
	"context"
	"fmt"
	"sync"

	logger "github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/rios0rios0/automigrate/internal/domain/entities"
	"github.com/rios0rios0/automigrate/internal/domain/repositories"
)

const (
	sourceOwner      = "octoherd"
	sourceRepository = "script-star-or-unstar"
	sourcePath       = "package-lock.json"
	flightKey        = "lockfile"
)

// CachedLockfileRepository fetches the shared lockfile from
// octoherd/script-star-or-unstar the first time it is asked for, then serves
// the same value for the rest of the process. Concurrent first callers share
// a single fetch. Failures are not cached.
type CachedLockfileRepository struct {
	mu       sync.RWMutex
	lockfile *entities.Lockfile
	flight   singleflight.Group
}

var _ repositories.LockfileRepository = (*CachedLockfileRepository)(nil)

// NewCachedLockfileRepository creates an empty cache.
func NewCachedLockfileRepository() *CachedLockfileRepository {
	return &CachedLockfileRepository{}
}

// Source returns the fixed location the lockfile is read from.
func Source() (entities.Repository, string) {
	return entities.Repository{
		Name:         sourceRepository,
		Organization: sourceOwner,
	}, sourcePath
}

// Get returns the shared lockfile, fetching it through provider if the cache
// is still empty.
func (r *CachedLockfileRepository) Get(
	ctx context.Context,
	provider repositories.ProviderRepository,
) (*entities.Lockfile, error) {
	if cached := r.cached(); cached != nil {
		return cached, nil
	}

	value, err, _ := r.flight.Do(flightKey, func() (any, error) {
		if cached := r.cached(); cached != nil {
			return cached, nil
		}

		loaded, fetchErr := fetch(ctx, provider)
		if fetchErr != nil {
			return nil, fetchErr
		}

		r.mu.Lock()
		r.lockfile = loaded
		r.mu.Unlock()
		return loaded, nil
	})
	if err != nil {
		return nil, err
	}

	return value.(*entities.Lockfile), nil
}

func (r *CachedLockfileRepository) cached() *entities.Lockfile {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lockfile
}

func fetch(ctx context.Context, provider repositories.ProviderRepository) (*entities.Lockfile, error) {
	repo, path := Source()

	content, err := provider.GetFileContent(ctx, repo, path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s/%s: %w", entities.ErrArtifactFetch, repo.FullName(), path, err)
	}

	text, err := content.Text()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", entities.ErrArtifactFetch, err)
	}

	parsed, err := entities.ParseLockfile([]byte(text))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", entities.ErrArtifactFetch, err)
	}

	logger.Infof("Loaded shared lockfile from %s/%s", repo.FullName(), path)
	return parsed, nil
}

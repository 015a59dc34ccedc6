package repositories

import (
	"context"

	"github.com/rios0rios0/automigrate/internal/domain/entities"
)

// LockfileRepository gives access to the shared lockfile every migration
// stamps. Implementations fetch it at most once and hand the same value to
// every caller; a failed fetch is not remembered.
type LockfileRepository interface {
	Get(ctx context.Context, provider ProviderRepository) (*entities.Lockfile, error)
}

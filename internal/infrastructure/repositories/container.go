package repositories

import (
	"go.uber.org/dig"

	domainRepos "github.com/rios0rios0/automigrate/internal/domain/repositories"
	ghRepo "github.com/rios0rios0/automigrate/internal/infrastructure/repositories/github"
	lockfileRepo "github.com/rios0rios0/automigrate/internal/infrastructure/repositories/lockfile"
)

// RegisterProviders registers all repository providers with the DIG container.
func RegisterProviders(container *dig.Container) error {
	// Register provider registry with all provider factories
	if err := container.Provide(func() *ProviderRegistry {
		reg := NewProviderRegistry()
		reg.Register("github", ghRepo.NewProviderRepository)
		return reg
	}); err != nil {
		return err
	}

	// The shared lockfile cache lives for the whole process
	if err := container.Provide(lockfileRepo.NewCachedLockfileRepository); err != nil {
		return err
	}
	if err := container.Provide(func(impl *lockfileRepo.CachedLockfileRepository) domainRepos.LockfileRepository {
		return impl
	}); err != nil {
		return err
	}

	return nil
}

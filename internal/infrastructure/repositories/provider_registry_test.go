//go:build unit

package repositories_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainRepos "github.com/rios0rios0/automigrate/internal/domain/repositories"
	"github.com/rios0rios0/automigrate/internal/infrastructure/repositories"
	doubles "github.com/rios0rios0/automigrate/test/infrastructure/repositorydoubles"
)

func TestProviderRegistry(t *testing.T) {
	t.Parallel()

	t.Run("should build providers with the given token", func(t *testing.T) {
		t.Parallel()

		// given
		var receivedToken string
		registry := repositories.NewProviderRegistry()
		registry.Register("github", func(token string) domainRepos.ProviderRepository {
			receivedToken = token
			return &doubles.SpyProviderRepository{ProviderName: "github"}
		})

		// when
		provider, err := registry.Get("github", "ghp_test")

		// then
		require.NoError(t, err)
		assert.Equal(t, "github", provider.Name())
		assert.Equal(t, "ghp_test", receivedToken)
	})

	t.Run("should return error for unknown provider types", func(t *testing.T) {
		t.Parallel()

		// given
		registry := repositories.NewProviderRegistry()
		registry.Register("github", func(string) domainRepos.ProviderRepository {
			return &doubles.DummyProviderRepository{}
		})

		// when
		_, err := registry.Get("gitlab", "token")

		// then
		require.ErrorIs(t, err, repositories.ErrUnknownProvider)
		assert.Contains(t, err.Error(), "github")
	})

	t.Run("should list registered names in order", func(t *testing.T) {
		t.Parallel()

		// given
		registry := repositories.NewProviderRegistry()
		factory := func(string) domainRepos.ProviderRepository { return &doubles.DummyProviderRepository{} }
		registry.Register("github", factory)
		registry.Register("azuredevops", factory)

		// when
		names := registry.Names()

		// then
		assert.Equal(t, []string{"azuredevops", "github"}, names)
	})
}

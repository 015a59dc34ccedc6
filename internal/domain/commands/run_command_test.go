//go:build unit

package commands_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/automigrate/internal/domain/commands"
	"github.com/rios0rios0/automigrate/internal/domain/entities"
	"github.com/rios0rios0/automigrate/internal/domain/repositories"
	infraRepos "github.com/rios0rios0/automigrate/internal/infrastructure/repositories"
	"github.com/rios0rios0/automigrate/test/domain/commanddoubles"
	"github.com/rios0rios0/automigrate/test/domain/entitybuilders"
	doubles "github.com/rios0rios0/automigrate/test/infrastructure/repositorydoubles"
)

func registryWith(spy repositories.ProviderRepository) *infraRepos.ProviderRegistry {
	registry := infraRepos.NewProviderRegistry()
	registry.Register("github", func(_ string) repositories.ProviderRepository {
		return spy
	})
	return registry
}

func githubSettings(orgs ...string) *entities.Settings {
	return &entities.Settings{
		Providers: []entities.ProviderConfig{
			{Type: "github", Token: "test-token", Organizations: orgs},
		},
		Migration: entities.MigrationConfig{CLIVersion: "2.7.1", Concurrency: 1},
	}
}

func TestRunCommandExecute(t *testing.T) {
	t.Parallel()

	t.Run("should skip provider when ProviderName filter does not match", func(t *testing.T) {
		t.Parallel()

		// given
		spy := &doubles.SpyProviderRepository{ProviderName: "github"}
		cmd := commands.NewRunCommand(registryWith(spy), &commanddoubles.StubMigrateCommand{})

		// when
		err := cmd.Execute(context.Background(), githubSettings("octoherd"), commands.RunOptions{ProviderName: "gitlab"})

		// then
		require.NoError(t, err)
		assert.Empty(t, spy.DiscoveredOrgs)
	})

	t.Run("should only discover the overridden organization", func(t *testing.T) {
		t.Parallel()

		// given
		spy := &doubles.SpyProviderRepository{ProviderName: "github"}
		cmd := commands.NewRunCommand(registryWith(spy), &commanddoubles.StubMigrateCommand{})

		// when
		err := cmd.Execute(context.Background(), githubSettings("octoherd", "gr2m"), commands.RunOptions{OrgOverride: "gr2m"})

		// then
		require.NoError(t, err)
		assert.Equal(t, []string{"gr2m"}, spy.DiscoveredOrgs)
	})

	t.Run("should migrate every discovered repository with the configured version", func(t *testing.T) {
		t.Parallel()

		// given
		spy := &doubles.SpyProviderRepository{
			ProviderName: "github",
			Repositories: []entities.Repository{
				entitybuilders.NewRepositoryBuilder().WithName("script-a").BuildRepository(),
				entitybuilders.NewRepositoryBuilder().WithName("other-tool").BuildRepository(),
			},
		}
		migrate := &commanddoubles.StubMigrateCommand{}
		cmd := commands.NewRunCommand(registryWith(spy), migrate)
		settings := githubSettings("octoherd")
		settings.Migration.CLIVersion = "3.0.0"

		// when
		err := cmd.Execute(context.Background(), settings, commands.RunOptions{DryRun: true})

		// then
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"script-a", "other-tool"}, migrate.MigratedRepos)
		assert.Equal(t, "3.0.0", migrate.LastOpts.CLIVersion)
		assert.True(t, migrate.LastOpts.DryRun)
	})

	t.Run("should continue and report an error when discovery fails", func(t *testing.T) {
		t.Parallel()

		// given
		spy := &doubles.SpyProviderRepository{ProviderName: "github", DiscoverErr: errors.New("network error")}
		cmd := commands.NewRunCommand(registryWith(spy), &commanddoubles.StubMigrateCommand{})

		// when
		err := cmd.Execute(context.Background(), githubSettings("org1", "org2"), commands.RunOptions{})

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "2 errors")
		assert.Len(t, spy.DiscoveredOrgs, 2)
	})

	t.Run("should report an error for unknown provider types", func(t *testing.T) {
		t.Parallel()

		// given
		cmd := commands.NewRunCommand(infraRepos.NewProviderRegistry(), &commanddoubles.StubMigrateCommand{})

		// when
		err := cmd.Execute(context.Background(), githubSettings("octoherd"), commands.RunOptions{})

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "1 errors")
	})

	t.Run("should keep migrating after one repository fails", func(t *testing.T) {
		t.Parallel()

		// given
		spy := &doubles.SpyProviderRepository{
			ProviderName: "github",
			Repositories: []entities.Repository{
				entitybuilders.NewRepositoryBuilder().WithName("script-a").BuildRepository(),
				entitybuilders.NewRepositoryBuilder().WithName("script-b").BuildRepository(),
				entitybuilders.NewRepositoryBuilder().WithName("script-c").BuildRepository(),
			},
		}
		migrate := &commanddoubles.StubMigrateCommand{
			Errs: map[string]error{"script-b": entities.ErrSubmission},
		}
		cmd := commands.NewRunCommand(registryWith(spy), migrate)

		// when
		err := cmd.Execute(context.Background(), githubSettings("octoherd"), commands.RunOptions{})

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "1 errors")
		assert.Len(t, migrate.MigratedRepos, 3)
	})

	t.Run("should skip repositories with an open migration pull request", func(t *testing.T) {
		t.Parallel()

		// given
		spy := &doubles.SpyProviderRepository{
			ProviderName: "github",
			Repositories: []entities.Repository{
				entitybuilders.NewRepositoryBuilder().WithName("script-a").BuildRepository(),
			},
			PRExistsResult: true,
		}
		migrate := &commanddoubles.StubMigrateCommand{}
		cmd := commands.NewRunCommand(registryWith(spy), migrate)
		settings := githubSettings("octoherd")
		settings.Migration.SkipExisting = true

		// when
		err := cmd.Execute(context.Background(), settings, commands.RunOptions{})

		// then
		require.NoError(t, err)
		assert.Equal(t, []string{"cli"}, spy.PRExistsBranches)
		assert.Empty(t, migrate.MigratedRepos)
	})

	t.Run("should not check existing pull requests of ineligible repositories", func(t *testing.T) {
		t.Parallel()

		// given
		spy := &doubles.SpyProviderRepository{
			ProviderName: "github",
			Repositories: []entities.Repository{
				entitybuilders.NewRepositoryBuilder().WithName("other-tool").BuildRepository(),
			},
		}
		migrate := &commanddoubles.StubMigrateCommand{}
		cmd := commands.NewRunCommand(registryWith(spy), migrate)
		settings := githubSettings("octoherd")
		settings.Migration.SkipExisting = true

		// when
		err := cmd.Execute(context.Background(), settings, commands.RunOptions{})

		// then
		require.NoError(t, err)
		assert.Empty(t, spy.PRExistsBranches)
		assert.Equal(t, []string{"other-tool"}, migrate.MigratedRepos)
	})

	t.Run("should never run more migrations at once than the configured concurrency", func(t *testing.T) {
		t.Parallel()

		// given
		repos := make([]entities.Repository, 0, 6)
		for _, name := range []string{"script-a", "script-b", "script-c", "script-d", "script-e", "script-f"} {
			repos = append(repos, entitybuilders.NewRepositoryBuilder().WithName(name).BuildRepository())
		}
		spy := &doubles.SpyProviderRepository{ProviderName: "github", Repositories: repos}
		hold := make(chan struct{})
		migrate := &commanddoubles.StubMigrateCommand{Hold: hold}
		cmd := commands.NewRunCommand(registryWith(spy), migrate)
		settings := githubSettings("octoherd")
		settings.Migration.Concurrency = 2
		go func() {
			for range repos {
				hold <- struct{}{}
			}
		}()

		// when
		err := cmd.Execute(context.Background(), settings, commands.RunOptions{})

		// then
		require.NoError(t, err)
		assert.Len(t, migrate.MigratedRepos, 6)
		assert.LessOrEqual(t, migrate.MaxInFlight, 2)
	})
}

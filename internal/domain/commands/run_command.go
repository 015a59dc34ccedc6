package commands

import (
	"context"
	"fmt"
	"sync"

	logger "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/rios0rios0/automigrate/internal/domain/entities"
	"github.com/rios0rios0/automigrate/internal/domain/repositories"
	infraRepos "github.com/rios0rios0/automigrate/internal/infrastructure/repositories"
)

// Run is the interface for the run command (batch mode).
type Run interface {
	Execute(ctx context.Context, settings *entities.Settings, opts RunOptions) error
}

// RunOptions holds runtime options for a single run.
type RunOptions struct {
	DryRun       bool
	Verbose      bool
	ProviderName string // If set, only process this provider (CLI override)
	OrgOverride  string // If set, only process this org (CLI override)
}

// RunCommand orchestrates the batch flow:
// discover repositories -> migrate each one -> report.
type RunCommand struct {
	providerRegistry *infraRepos.ProviderRegistry
	migrate          Migrate
}

// runSummary aggregates outcomes across concurrently migrated repositories.
type runSummary struct {
	mu      sync.Mutex
	repos   int
	created int
	skipped int
	errors  int
}

// NewRunCommand creates a new RunCommand.
func NewRunCommand(providerRegistry *infraRepos.ProviderRegistry, migrate Migrate) *RunCommand {
	return &RunCommand{
		providerRegistry: providerRegistry,
		migrate:          migrate,
	}
}

// Execute runs the migration over every configured provider and organization.
// Per-repository failures are logged and counted; the returned error reports
// how many runs failed.
func (it *RunCommand) Execute(
	ctx context.Context,
	settings *entities.Settings,
	runOpts RunOptions,
) error {
	if runOpts.Verbose {
		logger.SetLevel(logger.DebugLevel)
	}

	summary := &runSummary{}

	for _, provCfg := range settings.Providers {
		if runOpts.ProviderName != "" && provCfg.Type != runOpts.ProviderName {
			continue
		}

		provider, err := it.providerRegistry.Get(provCfg.Type, provCfg.Token)
		if err != nil {
			logger.Errorf("Failed to initialize provider %q: %v", provCfg.Type, err)
			summary.recordError()
			continue
		}

		logger.Infof("Processing provider: %s", provider.Name())

		for _, org := range provCfg.Organizations {
			if runOpts.OrgOverride != "" && org != runOpts.OrgOverride {
				continue
			}

			logger.Infof("Discovering repositories in %q...", org)

			repos, discoverErr := provider.DiscoverRepositories(ctx, org)
			if discoverErr != nil {
				logger.Errorf("Failed to discover repos in %q: %v", org, discoverErr)
				summary.recordError()
				continue
			}

			logger.Infof("Found %d repositories in %q", len(repos), org)
			it.processRepositories(ctx, provider, repos, settings, runOpts, summary)
		}
	}

	logger.Infof(
		"Run complete: %d repos processed, %d PRs created, %d skipped, %d errors",
		summary.repos, summary.created, summary.skipped, summary.errors,
	)
	if summary.errors > 0 {
		return fmt.Errorf("%d errors during run", summary.errors)
	}
	return nil
}

// processRepositories migrates repos with at most Migration.Concurrency runs in flight.
func (it *RunCommand) processRepositories(
	ctx context.Context,
	provider repositories.ProviderRepository,
	repos []entities.Repository,
	settings *entities.Settings,
	runOpts RunOptions,
	summary *runSummary,
) {
	var group errgroup.Group
	group.SetLimit(max(settings.Migration.Concurrency, 1))

	for _, repo := range repos {
		group.Go(func() error {
			result, err := it.processRepository(ctx, provider, repo, settings, runOpts)
			if err != nil {
				logger.Errorf("Failed to migrate %s: %v", repo.FullName(), err)
			}
			summary.record(result, err)
			return nil
		})
	}

	_ = group.Wait()
}

// processRepository migrates one repository, skipping it when an open pull
// request from the migration branch already exists and SkipExisting is set.
func (it *RunCommand) processRepository(
	ctx context.Context,
	provider repositories.ProviderRepository,
	repo entities.Repository,
	settings *entities.Settings,
	runOpts RunOptions,
) (entities.MigrationResult, error) {
	if settings.Migration.SkipExisting && entities.IsEligible(repo.Name) {
		exists, err := provider.PullRequestExists(ctx, repo, entities.MigrationHeadBranch)
		if err != nil {
			logger.Warnf("Failed to check existing PRs for %s: %v", repo.FullName(), err)
		}
		if exists {
			logger.Infof(
				"PR already exists for branch %q in %s, skipping",
				entities.MigrationHeadBranch, repo.FullName(),
			)
			return entities.MigrationResult{Status: entities.StatusExists}, nil
		}
	}

	return it.migrate.Execute(ctx, provider, repo, MigrateOptions{
		DryRun:     runOpts.DryRun,
		CLIVersion: settings.Migration.CLIVersion,
	})
}

func (s *runSummary) record(result entities.MigrationResult, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.repos++
	switch {
	case err != nil:
		s.errors++
	case result.Status == entities.StatusCreated:
		s.created++
	default:
		s.skipped++
	}
}

func (s *runSummary) recordError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errors++
}

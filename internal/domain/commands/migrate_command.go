package commands

import (
	"context"
	"errors"
	"fmt"

	logger "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/rios0rios0/automigrate/internal/domain/entities"
	"github.com/rios0rios0/automigrate/internal/domain/repositories"
)

// Migrate is the interface for the migration of a single repository.
type Migrate interface {
	Execute(
		ctx context.Context,
		provider repositories.ProviderRepository,
		repo entities.Repository,
		opts MigrateOptions,
	) (entities.MigrationResult, error)
}

// MigrateOptions holds runtime options for one migration run.
type MigrateOptions struct {
	DryRun     bool
	CLIVersion string
}

// MigrateCommand composes the change set of one repository and hands it to
// the provider: eligibility -> shared lockfile -> transforms -> pull request.
type MigrateCommand struct {
	lockfiles repositories.LockfileRepository
}

// NewMigrateCommand creates a new MigrateCommand backed by the shared lockfile cache.
func NewMigrateCommand(lockfiles repositories.LockfileRepository) *MigrateCommand {
	return &MigrateCommand{lockfiles: lockfiles}
}

// Execute migrates repo. Ineligible repositories return a no-op result before
// any provider call. Nothing is submitted unless every transform succeeded.
func (it *MigrateCommand) Execute(
	ctx context.Context,
	provider repositories.ProviderRepository,
	repo entities.Repository,
	opts MigrateOptions,
) (entities.MigrationResult, error) {
	if !entities.IsEligible(repo.Name) {
		logger.Infof("Ignoring %s, not a script repository", repo.Name)
		return entities.MigrationResult{Status: entities.StatusIneligible}, nil
	}

	lockfile, err := it.lockfiles.Get(ctx, provider)
	if err != nil {
		return entities.MigrationResult{}, err
	}

	changeSet, err := entities.NewCLIMigration(repo, lockfile, opts.CLIVersion).ChangeSet()
	if err != nil {
		return entities.MigrationResult{}, err
	}

	commits, err := changeSet.Resolve(ctx, func(ctx context.Context, path string) (entities.FileContent, error) {
		return provider.GetFileContent(ctx, repo, path)
	})
	if err != nil {
		return entities.MigrationResult{}, fmt.Errorf("%s: %w", repo.FullName(), err)
	}

	if opts.DryRun {
		logPlan(repo, changeSet, commits)
		return entities.MigrationResult{Status: entities.StatusDryRun}, nil
	}

	pr, err := provider.CreatePullRequestWithChanges(ctx, repo, entities.PullRequestInput{
		Title:      changeSet.Title,
		Body:       changeSet.Body,
		HeadBranch: changeSet.HeadBranch,
		BaseBranch: repo.DefaultBranch,
		Commits:    commits,
	})
	if errors.Is(err, entities.ErrNoChanges) {
		logger.Infof("%s is already migrated, nothing to commit", repo.FullName())
		return entities.MigrationResult{Status: entities.StatusUnchanged}, nil
	}
	if err != nil {
		return entities.MigrationResult{}, fmt.Errorf("%w: %s: %w", entities.ErrSubmission, repo.FullName(), err)
	}

	logger.Infof("Pull request created: %s", pr.URL)
	return entities.MigrationResult{Status: entities.StatusCreated, PullRequest: pr}, nil
}

type migrationPlan struct {
	Repository string            `yaml:"repository"`
	Title      string            `yaml:"title"`
	HeadBranch string            `yaml:"head"`
	Commits    []entities.Commit `yaml:"commits"`
}

// logPlan prints what would be submitted without calling the provider.
func logPlan(repo entities.Repository, changeSet entities.ChangeSet, commits []entities.Commit) {
	rendered, err := yaml.Marshal(migrationPlan{
		Repository: repo.FullName(),
		Title:      changeSet.Title,
		HeadBranch: changeSet.HeadBranch,
		Commits:    commits,
	})
	if err != nil {
		logger.Warnf("[DRY RUN] Failed to render plan for %s: %v", repo.FullName(), err)
		return
	}
	logger.Infof("[DRY RUN] Would open a pull request on %s:\n%s", repo.FullName(), rendered)
}

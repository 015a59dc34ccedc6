package repositories

import (
	"context"

	"github.com/rios0rios0/automigrate/internal/domain/entities"
)

// ProviderRepository abstracts a Git hosting service: repository discovery,
// raw file access and pull request composition.
type ProviderRepository interface {
	// Name returns the provider identifier (e.g. "github").
	Name() string

	// DiscoverRepositories lists all repositories in an organization or user account.
	DiscoverRepositories(ctx context.Context, org string) ([]entities.Repository, error)

	// GetFileContent returns the current content of a file on the default branch,
	// with the encoding tag reported by the hosting service. It wraps
	// entities.ErrFileNotFound when the path does not exist.
	GetFileContent(ctx context.Context, repo entities.Repository, path string) (entities.FileContent, error)

	// PullRequestExists checks if an open pull request already exists for the given source branch.
	PullRequestExists(ctx context.Context, repo entities.Repository, sourceBranch string) (bool, error)

	// CreatePullRequestWithChanges creates the head branch with one commit per
	// input commit, in order, and opens a pull request. Commits whose files all
	// match the existing content are skipped. Nothing stays visible on failure.
	// It returns entities.ErrNoChanges when no commit was needed.
	CreatePullRequestWithChanges(
		ctx context.Context,
		repo entities.Repository,
		input entities.PullRequestInput,
	) (*entities.PullRequest, error)
}

//go:build integration || unit || test

// Package repositorydoubles provides test doubles (spies, stubs, dummies) for
// repository interfaces. These are hand-crafted implementations, no mock frameworks.
package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"
	"fmt"
	"sync"

	"github.com/rios0rios0/automigrate/internal/domain/entities"
	"github.com/rios0rios0/automigrate/internal/domain/repositories"
)

// SpyProviderRepository implements repositories.ProviderRepository as a configurable spy.
// It is safe for concurrent use so batch runs can share one instance.
type SpyProviderRepository struct {
	mu sync.Mutex

	// --- identity ---
	ProviderName string

	// --- DiscoverRepositories ---
	Repositories   []entities.Repository
	DiscoverErr    error
	DiscoveredOrgs []string

	// --- GetFileContent ---
	FileContents   map[string]entities.FileContent // "org/name/path" or "path" -> content
	FileContentErr error
	RequestedFiles []string

	// --- PullRequestExists ---
	PRExistsResult   bool
	PRExistsErr      error
	PRExistsBranches []string

	// --- CreatePullRequestWithChanges ---
	CreatedPR   *entities.PullRequest
	CreatePRErr error
	PRInputs    []entities.PullRequestInput
	PRRepos     []string
}

var _ repositories.ProviderRepository = (*SpyProviderRepository)(nil)

func (p *SpyProviderRepository) Name() string { return p.ProviderName }

func (p *SpyProviderRepository) DiscoverRepositories(
	_ context.Context, org string,
) ([]entities.Repository, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.DiscoveredOrgs = append(p.DiscoveredOrgs, org)
	return p.Repositories, p.DiscoverErr
}

func (p *SpyProviderRepository) GetFileContent(
	_ context.Context, repo entities.Repository, path string,
) (entities.FileContent, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.RequestedFiles = append(p.RequestedFiles, repo.FullName()+"/"+path)

	if content, ok := p.FileContents[repo.FullName()+"/"+path]; ok {
		return content, nil
	}
	if content, ok := p.FileContents[path]; ok {
		return content, nil
	}
	if p.FileContentErr != nil {
		return entities.FileContent{}, p.FileContentErr
	}
	return entities.FileContent{}, fmt.Errorf("%w: %s", entities.ErrFileNotFound, path)
}

func (p *SpyProviderRepository) PullRequestExists(
	_ context.Context, _ entities.Repository, branch string,
) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.PRExistsBranches = append(p.PRExistsBranches, branch)
	return p.PRExistsResult, p.PRExistsErr
}

func (p *SpyProviderRepository) CreatePullRequestWithChanges(
	_ context.Context, repo entities.Repository, input entities.PullRequestInput,
) (*entities.PullRequest, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.PRInputs = append(p.PRInputs, input)
	p.PRRepos = append(p.PRRepos, repo.FullName())
	if p.CreatePRErr != nil {
		return nil, p.CreatePRErr
	}
	if p.CreatedPR != nil {
		return p.CreatedPR, nil
	}
	return &entities.PullRequest{
		ID:    1,
		Title: input.Title,
		URL:   fmt.Sprintf("https://example.com/%s/pull/1", repo.FullName()),
	}, nil
}

// CallCount returns the total number of provider calls recorded so far.
func (p *SpyProviderRepository) CallCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.DiscoveredOrgs) + len(p.RequestedFiles) + len(p.PRExistsBranches) + len(p.PRInputs)
}

// DummyProviderRepository is a no-op implementation of repositories.ProviderRepository.
type DummyProviderRepository struct{}

var _ repositories.ProviderRepository = (*DummyProviderRepository)(nil)

func (d *DummyProviderRepository) Name() string { return "dummy" }

func (d *DummyProviderRepository) DiscoverRepositories(
	_ context.Context, _ string,
) ([]entities.Repository, error) {
	return nil, nil
}

func (d *DummyProviderRepository) GetFileContent(
	_ context.Context, _ entities.Repository, _ string,
) (entities.FileContent, error) {
	return entities.FileContent{}, nil
}

func (d *DummyProviderRepository) PullRequestExists(
	_ context.Context, _ entities.Repository, _ string,
) (bool, error) {
	return false, nil
}

func (d *DummyProviderRepository) CreatePullRequestWithChanges(
	_ context.Context, _ entities.Repository, _ entities.PullRequestInput,
) (*entities.PullRequest, error) {
	return nil, nil //nolint:nilnil // dummy no-op
}

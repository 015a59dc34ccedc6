//go:build integration || unit || test

package commanddoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"
	"sync"

	"github.com/rios0rios0/automigrate/internal/domain/commands"
	"github.com/rios0rios0/automigrate/internal/domain/entities"
	"github.com/rios0rios0/automigrate/internal/domain/repositories"
)

// StubMigrateCommand is a stub implementation of commands.Migrate.
// Results and Errs are keyed by repository name; missing keys yield StatusCreated.
type StubMigrateCommand struct {
	mu sync.Mutex

	Results map[string]entities.MigrationResult
	Errs    map[string]error

	MigratedRepos []string
	LastOpts      commands.MigrateOptions
	InFlight      int
	MaxInFlight   int
	Hold          chan struct{}
}

var _ commands.Migrate = (*StubMigrateCommand)(nil)

func (s *StubMigrateCommand) Execute(
	_ context.Context,
	_ repositories.ProviderRepository,
	repo entities.Repository,
	opts commands.MigrateOptions,
) (entities.MigrationResult, error) {
	s.mu.Lock()
	s.MigratedRepos = append(s.MigratedRepos, repo.Name)
	s.LastOpts = opts
	s.InFlight++
	s.MaxInFlight = max(s.MaxInFlight, s.InFlight)
	s.mu.Unlock()

	if s.Hold != nil {
		<-s.Hold
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.InFlight--

	if err, ok := s.Errs[repo.Name]; ok {
		return entities.MigrationResult{}, err
	}
	if result, ok := s.Results[repo.Name]; ok {
		return result, nil
	}
	return entities.MigrationResult{
		Status:      entities.StatusCreated,
		PullRequest: &entities.PullRequest{ID: 1, URL: "https://example.com/" + repo.Name + "/pull/1"},
	}, nil
}

//go:build integration || unit || test

package commanddoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/rios0rios0/automigrate/internal/domain/commands"
	"github.com/rios0rios0/automigrate/internal/domain/entities"
)

// StubRepoCommand is a stub implementation of commands.Repo.
type StubRepoCommand struct {
	ExecuteCallCount int
	ExecuteResult    entities.MigrationResult
	ExecuteErr       error
	LastOpts         commands.RepoOptions
}

var _ commands.Repo = (*StubRepoCommand)(nil)

func (s *StubRepoCommand) Execute(
	_ context.Context,
	opts commands.RepoOptions,
) (entities.MigrationResult, error) {
	s.ExecuteCallCount++
	s.LastOpts = opts
	return s.ExecuteResult, s.ExecuteErr
}

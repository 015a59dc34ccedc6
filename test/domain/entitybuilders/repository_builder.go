//go:build integration || unit || test

package entitybuilders //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	testkit "github.com/rios0rios0/testkit/pkg/test"

	"github.com/rios0rios0/automigrate/internal/domain/entities"
)

const (
	defaultRepositoryName  = "script-star-or-unstar"
	defaultRepositoryOwner = "octoherd"
	defaultRepositoryRef   = "refs/heads/main"
)

// RepositoryBuilder helps create test repositories with a fluent interface.
type RepositoryBuilder struct {
	*testkit.BaseBuilder
	name          string
	organization  string
	defaultBranch string
	providerName  string
}

// NewRepositoryBuilder creates a new repository builder with an eligible default.
func NewRepositoryBuilder() *RepositoryBuilder {
	return &RepositoryBuilder{
		BaseBuilder:   testkit.NewBaseBuilder(),
		name:          defaultRepositoryName,
		organization:  defaultRepositoryOwner,
		defaultBranch: defaultRepositoryRef,
		providerName:  "github",
	}
}

// WithName sets the repository name.
func (b *RepositoryBuilder) WithName(name string) *RepositoryBuilder {
	b.name = name
	return b
}

// WithOrganization sets the owner login.
func (b *RepositoryBuilder) WithOrganization(organization string) *RepositoryBuilder {
	b.organization = organization
	return b
}

// WithDefaultBranch sets the default branch ref.
func (b *RepositoryBuilder) WithDefaultBranch(branch string) *RepositoryBuilder {
	b.defaultBranch = branch
	return b
}

// Build creates the repository (satisfies testkit.Builder interface).
func (b *RepositoryBuilder) Build() interface{} {
	return b.BuildRepository()
}

// BuildRepository creates the repository with a concrete return type.
func (b *RepositoryBuilder) BuildRepository() entities.Repository {
	return entities.Repository{
		ID:            b.organization + "/" + b.name,
		Name:          b.name,
		Organization:  b.organization,
		DefaultBranch: b.defaultBranch,
		RemoteURL:     "https://github.com/" + b.organization + "/" + b.name + ".git",
		ProviderName:  b.providerName,
	}
}

// Reset clears the builder state, allowing it to be reused.
func (b *RepositoryBuilder) Reset() testkit.Builder {
	b.BaseBuilder.Reset()
	b.name = defaultRepositoryName
	b.organization = defaultRepositoryOwner
	b.defaultBranch = defaultRepositoryRef
	b.providerName = "github"
	return b
}

// Clone creates a deep copy of the RepositoryBuilder.
func (b *RepositoryBuilder) Clone() testkit.Builder {
	return &RepositoryBuilder{
		BaseBuilder:   b.BaseBuilder.Clone().(*testkit.BaseBuilder),
		name:          b.name,
		organization:  b.organization,
		defaultBranch: b.defaultBranch,
		providerName:  b.providerName,
	}
}

package entities

import "strings"

// Repository represents a Git repository on the hosting provider.
// Organization is the owner login (organization or user).
type Repository struct {
	ID            string
	Name          string
	Organization  string
	DefaultBranch string
	RemoteURL     string
	ProviderName  string
}

// FullName returns the "owner/name" form of the repository.
func (r Repository) FullName() string {
	return r.Organization + "/" + r.Name
}

// BaseBranch returns the default branch without the "refs/heads/" prefix.
func (r Repository) BaseBranch() string {
	return strings.TrimPrefix(r.DefaultBranch, "refs/heads/")
}

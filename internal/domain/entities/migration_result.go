package entities

// MigrationStatus describes how a migration run ended.
type MigrationStatus string

const (
	// StatusCreated means a pull request was opened.
	StatusCreated MigrationStatus = "created"
	// StatusIneligible means the repository was filtered out before any network call.
	StatusIneligible MigrationStatus = "ineligible"
	// StatusUnchanged means every computed file already matched the repository.
	StatusUnchanged MigrationStatus = "unchanged"
	// StatusDryRun means the change set was computed but not submitted.
	StatusDryRun MigrationStatus = "dry-run"
	// StatusExists means an open pull request from the head branch already exists.
	StatusExists MigrationStatus = "exists"
)

// MigrationResult is the outcome of one migration run.
// PullRequest is only set when Status is StatusCreated.
type MigrationResult struct {
	Status      MigrationStatus
	PullRequest *PullRequest
}

// IsNoOp reports whether the run finished without opening a pull request.
func (r MigrationResult) IsNoOp() bool {
	return r.Status != StatusCreated
}

// PullRequestURL returns the canonical URL of the created pull request, if any.
func (r MigrationResult) PullRequestURL() string {
	if r.PullRequest == nil {
		return ""
	}
	return r.PullRequest.URL
}

package entities

// PullRequestInput contains everything the provider needs to create a branch
// with one commit per entry of Commits (in order) and open a pull request.
type PullRequestInput struct {
	Title      string
	Body       string
	HeadBranch string
	BaseBranch string
	Commits    []Commit
}

// PullRequest represents a pull request returned by a provider.
type PullRequest struct {
	ID     int
	Title  string
	URL    string
	Status string
}

package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-git/go-git/v5/plumbing"
	gh "github.com/google/go-github/v66/github"
	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/automigrate/internal/domain/entities"
	"github.com/rios0rios0/automigrate/internal/domain/repositories"
)

const (
	providerName = "github"
	perPage      = 100
	blobMode     = "100644"
	blobType     = "blob"
	headsPrefix  = "refs/heads/"
	encodingNone = "none"
)

// GitHubProviderRepository implements repositories.ProviderRepository for GitHub.
type GitHubProviderRepository struct {
	token  string
	client *gh.Client
}

// treeBlob is a file entry of the base tree.
type treeBlob struct {
	sha  string
	mode string
}

var _ repositories.ProviderRepository = (*GitHubProviderRepository)(nil)

// NewProviderRepository creates a new GitHub provider with the given token.
func NewProviderRepository(token string) repositories.ProviderRepository {
	client := gh.NewClient(nil)
	if token != "" {
		client = client.WithAuthToken(token)
	}
	return newProviderRepository(client, token)
}

func newProviderRepository(client *gh.Client, token string) *GitHubProviderRepository {
	return &GitHubProviderRepository{
		token:  token,
		client: client,
	}
}

func (p *GitHubProviderRepository) Name() string { return providerName }

// DiscoverRepositories lists all non-archived repositories in a GitHub
// organization or user account.
func (p *GitHubProviderRepository) DiscoverRepositories(
	ctx context.Context,
	org string,
) ([]entities.Repository, error) {
	var allRepos []entities.Repository
	opts := &gh.RepositoryListByOrgOptions{
		ListOptions: gh.ListOptions{PerPage: perPage},
	}

	for {
		repos, resp, err := p.client.Repositories.ListByOrg(ctx, org, opts)
		if err != nil {
			// Fall back to listing user repos if org listing fails
			return p.discoverUserRepos(ctx, org)
		}

		allRepos = appendRepositories(allRepos, org, repos)

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return allRepos, nil
}

func (p *GitHubProviderRepository) discoverUserRepos(
	ctx context.Context,
	user string,
) ([]entities.Repository, error) {
	var allRepos []entities.Repository
	opts := &gh.RepositoryListByUserOptions{
		ListOptions: gh.ListOptions{PerPage: perPage},
		Type:        "owner",
	}

	for {
		repos, resp, err := p.client.Repositories.ListByUser(ctx, user, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list repos for %q: %w", user, err)
		}

		allRepos = appendRepositories(allRepos, user, repos)

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return allRepos, nil
}

func appendRepositories(
	target []entities.Repository,
	owner string,
	repos []*gh.Repository,
) []entities.Repository {
	for _, r := range repos {
		if r.GetArchived() {
			logger.Debugf("Skipping archived repository %s/%s", owner, r.GetName())
			continue
		}
		defaultBranch := "main"
		if r.DefaultBranch != nil {
			defaultBranch = *r.DefaultBranch
		}
		target = append(target, entities.Repository{
			ID:            strconv.FormatInt(r.GetID(), 10),
			Name:          r.GetName(),
			Organization:  owner,
			DefaultBranch: headsPrefix + defaultBranch,
			RemoteURL:     r.GetCloneURL(),
			ProviderName:  providerName,
		})
	}
	return target
}

// GetFileContent returns the file as GitHub reports it: the encoding tag and
// the content are passed through without decoding.
func (p *GitHubProviderRepository) GetFileContent(
	ctx context.Context,
	repo entities.Repository,
	path string,
) (entities.FileContent, error) {
	opts := &gh.RepositoryContentGetOptions{Ref: repo.BaseBranch()}

	fileContent, _, _, err := p.client.Repositories.GetContents(
		ctx, repo.Organization, repo.Name, path, opts,
	)
	if err != nil {
		if isNotFound(err) {
			return entities.FileContent{}, fmt.Errorf("%w: %s/%s", entities.ErrFileNotFound, repo.FullName(), path)
		}
		return entities.FileContent{}, fmt.Errorf("failed to get file %q: %w", path, err)
	}
	if fileContent == nil {
		return entities.FileContent{}, fmt.Errorf("path %q is a directory, not a file", path)
	}

	if fileContent.GetEncoding() == encodingNone {
		return p.getBlobContent(ctx, repo, path, fileContent.GetSHA())
	}

	content := ""
	if fileContent.Content != nil {
		content = *fileContent.Content
	}

	return entities.FileContent{
		Path:     path,
		Encoding: entities.Encoding(fileContent.GetEncoding()),
		Content:  content,
	}, nil
}

// getBlobContent reads a file through the git data API. The contents API
// reports files above 1 MB with encoding "none" and no content.
func (p *GitHubProviderRepository) getBlobContent(
	ctx context.Context,
	repo entities.Repository,
	path, sha string,
) (entities.FileContent, error) {
	blob, _, err := p.client.Git.GetBlob(ctx, repo.Organization, repo.Name, sha)
	if err != nil {
		return entities.FileContent{}, fmt.Errorf("failed to get blob of %q: %w", path, err)
	}

	logger.Debugf("Read %s/%s through the blob API (%d bytes)", repo.FullName(), path, blob.GetSize())
	return entities.FileContent{
		Path:     path,
		Encoding: entities.Encoding(blob.GetEncoding()),
		Content:  blob.GetContent(),
	}, nil
}

func (p *GitHubProviderRepository) PullRequestExists(
	ctx context.Context,
	repo entities.Repository,
	sourceBranch string,
) (bool, error) {
	prs, _, err := p.client.PullRequests.List(
		ctx, repo.Organization, repo.Name,
		&gh.PullRequestListOptions{
			Head:  repo.Organization + ":" + sourceBranch,
			State: "open",
		},
	)
	if err != nil {
		return false, fmt.Errorf("failed to list pull requests: %w", err)
	}

	return len(prs) > 0, nil
}

// CreatePullRequestWithChanges chains one commit per input commit on top of
// the base branch, then points the head branch at the last one and opens the
// pull request. Commits are unreachable until the ref exists, and the ref is
// deleted again if the pull request cannot be opened.
func (p *GitHubProviderRepository) CreatePullRequestWithChanges(
	ctx context.Context,
	repo entities.Repository,
	input entities.PullRequestInput,
) (*entities.PullRequest, error) {
	owner := repo.Organization
	repoName := repo.Name

	baseBranch, err := p.resolveBaseBranch(ctx, repo, input.BaseBranch)
	if err != nil {
		return nil, err
	}

	baseRef, _, err := p.client.Git.GetRef(ctx, owner, repoName, headsPrefix+baseBranch)
	if err != nil {
		return nil, fmt.Errorf("failed to get base branch ref: %w", err)
	}
	parentSHA := baseRef.GetObject().GetSHA()

	baseCommit, _, err := p.client.Git.GetCommit(ctx, owner, repoName, parentSHA)
	if err != nil {
		return nil, fmt.Errorf("failed to get base commit: %w", err)
	}
	treeSHA := baseCommit.GetTree().GetSHA()

	blobs, err := p.listBlobs(ctx, owner, repoName, treeSHA)
	if err != nil {
		return nil, err
	}

	committed := 0
	for _, commit := range input.Commits {
		entries := changedEntries(commit, blobs)
		if len(entries) == 0 {
			logger.Debugf("Skipping commit %q on %s: content unchanged", commit.Message, repo.FullName())
			continue
		}

		newTree, _, treeErr := p.client.Git.CreateTree(ctx, owner, repoName, treeSHA, entries)
		if treeErr != nil {
			return nil, fmt.Errorf("failed to create tree for %q: %w", commit.Message, treeErr)
		}

		message := commit.Message
		parent := parentSHA
		newCommit, _, commitErr := p.client.Git.CreateCommit(
			ctx, owner, repoName,
			&gh.Commit{
				Message: &message,
				Tree:    newTree,
				Parents: []*gh.Commit{{SHA: &parent}},
			},
			nil,
		)
		if commitErr != nil {
			return nil, fmt.Errorf("failed to create commit %q: %w", commit.Message, commitErr)
		}

		parentSHA = newCommit.GetSHA()
		treeSHA = newTree.GetSHA()
		for _, file := range commit.Files {
			blobs[file.Path] = treeBlob{sha: blobSHA(file.Content), mode: modeOf(blobs, file.Path)}
		}
		committed++
	}

	if committed == 0 {
		return nil, entities.ErrNoChanges
	}

	branchRef := headsPrefix + input.HeadBranch
	branchCreated, err := p.pointBranch(ctx, repo, branchRef, parentSHA)
	if err != nil {
		return nil, fmt.Errorf("failed to create branch %q: %w", input.HeadBranch, err)
	}

	maintainerCanModify := true
	pr, _, err := p.client.PullRequests.Create(
		ctx, owner, repoName,
		&gh.NewPullRequest{
			Title:               &input.Title,
			Head:                &input.HeadBranch,
			Base:                &baseBranch,
			Body:                &input.Body,
			MaintainerCanModify: &maintainerCanModify,
		},
	)
	if err != nil {
		if branchCreated {
			p.deleteBranch(ctx, repo, branchRef)
		}
		return nil, fmt.Errorf("failed to create pull request: %w", err)
	}

	return &entities.PullRequest{
		ID:     pr.GetNumber(),
		Title:  pr.GetTitle(),
		URL:    pr.GetHTMLURL(),
		Status: pr.GetState(),
	}, nil
}

// pointBranch creates branchRef at sha. A leftover branch from an earlier run
// is force-moved instead, and reported as not created so it is never deleted.
func (p *GitHubProviderRepository) pointBranch(
	ctx context.Context,
	repo entities.Repository,
	branchRef, sha string,
) (bool, error) {
	reference := &gh.Reference{Ref: &branchRef, Object: &gh.GitObject{SHA: &sha}}

	_, _, err := p.client.Git.CreateRef(ctx, repo.Organization, repo.Name, reference)
	if err == nil {
		return true, nil
	}
	if !hasStatus(err, http.StatusUnprocessableEntity) {
		return false, err
	}

	logger.Infof("Branch %q already exists on %s, moving it", branchRef, repo.FullName())
	if _, _, err = p.client.Git.UpdateRef(ctx, repo.Organization, repo.Name, reference, true); err != nil {
		return false, err
	}
	return false, nil
}

func (p *GitHubProviderRepository) deleteBranch(ctx context.Context, repo entities.Repository, branchRef string) {
	if _, err := p.client.Git.DeleteRef(ctx, repo.Organization, repo.Name, branchRef); err != nil {
		logger.Warnf("Failed to delete branch %q on %s after error: %v", branchRef, repo.FullName(), err)
	}
}

func (p *GitHubProviderRepository) resolveBaseBranch(
	ctx context.Context,
	repo entities.Repository,
	requested string,
) (string, error) {
	branch := entities.Repository{DefaultBranch: requested}.BaseBranch()
	if branch != "" {
		return branch, nil
	}

	remote, _, err := p.client.Repositories.Get(ctx, repo.Organization, repo.Name)
	if err != nil {
		return "", fmt.Errorf("failed to get repository %s: %w", repo.FullName(), err)
	}
	return remote.GetDefaultBranch(), nil
}

// listBlobs maps every file path of the tree to its blob id and mode.
func (p *GitHubProviderRepository) listBlobs(
	ctx context.Context,
	owner, repoName, treeSHA string,
) (map[string]treeBlob, error) {
	tree, _, err := p.client.Git.GetTree(ctx, owner, repoName, treeSHA, true)
	if err != nil {
		return nil, fmt.Errorf("failed to get repo tree: %w", err)
	}
	if tree.GetTruncated() {
		logger.Debugf("Tree of %s/%s is truncated, unchanged files may be committed again", owner, repoName)
	}

	blobs := make(map[string]treeBlob, len(tree.Entries))
	for _, entry := range tree.Entries {
		if entry.GetType() != blobType {
			continue
		}
		blobs[entry.GetPath()] = treeBlob{sha: entry.GetSHA(), mode: entry.GetMode()}
	}
	return blobs, nil
}

// changedEntries returns tree entries for the files whose content differs
// from the current tree.
func changedEntries(commit entities.Commit, blobs map[string]treeBlob) []*gh.TreeEntry {
	var entries []*gh.TreeEntry
	for _, file := range commit.Files {
		if current, ok := blobs[file.Path]; ok && current.sha == blobSHA(file.Content) {
			continue
		}
		path := file.Path
		content := file.Content
		mode := modeOf(blobs, file.Path)
		entryType := blobType
		entries = append(entries, &gh.TreeEntry{
			Path:    &path,
			Mode:    &mode,
			Type:    &entryType,
			Content: &content,
		})
	}
	return entries
}

func modeOf(blobs map[string]treeBlob, path string) string {
	if current, ok := blobs[path]; ok && current.mode != "" {
		return current.mode
	}
	return blobMode
}

// blobSHA computes the git object id of content stored as a blob.
func blobSHA(content string) string {
	return plumbing.ComputeHash(plumbing.BlobObject, []byte(content)).String()
}

func isNotFound(err error) bool {
	return hasStatus(err, http.StatusNotFound)
}

func hasStatus(err error, status int) bool {
	var errResp *gh.ErrorResponse
	return errors.As(err, &errResp) &&
		errResp.Response != nil &&
		errResp.Response.StatusCode == status
}

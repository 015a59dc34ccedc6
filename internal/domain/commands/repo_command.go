package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/automigrate/internal/domain/entities"
	infraRepos "github.com/rios0rios0/automigrate/internal/infrastructure/repositories"
)

const providerGitHub = "github"

// Repo is the interface for the repo command (single repository mode).
type Repo interface {
	Execute(ctx context.Context, opts RepoOptions) (entities.MigrationResult, error)
}

// RepoOptions holds runtime options for the single repository mode.
type RepoOptions struct {
	Target     string // "owner/name", or an HTTPS/SSH GitHub URL
	DryRun     bool
	Verbose    bool
	Token      string
	CLIVersion string
}

// repoTarget holds the parsed components of a repository reference.
type repoTarget struct {
	ProviderType string
	Org          string
	RepoName     string
}

// RepoCommand migrates one repository named on the command line.
type RepoCommand struct {
	providerRegistry *infraRepos.ProviderRegistry
	migrate          Migrate
}

// NewRepoCommand creates a new RepoCommand.
func NewRepoCommand(providerRegistry *infraRepos.ProviderRegistry, migrate Migrate) *RepoCommand {
	return &RepoCommand{
		providerRegistry: providerRegistry,
		migrate:          migrate,
	}
}

// Execute is the entry point for the single repository mode.
func (it *RepoCommand) Execute(ctx context.Context, opts RepoOptions) (entities.MigrationResult, error) {
	if opts.Verbose {
		logger.SetLevel(logger.DebugLevel)
	}

	target, err := parseRepoTarget(opts.Target)
	if err != nil {
		return entities.MigrationResult{}, err
	}
	logger.Infof("Target provider: %s, org: %s, repo: %s", target.ProviderType, target.Org, target.RepoName)

	token := opts.Token
	if token == "" {
		token = resolveTokenFromEnv(target.ProviderType)
	}

	if !opts.DryRun && token == "" {
		return entities.MigrationResult{}, fmt.Errorf(
			"no auth token found for %s; set --token or the appropriate env var (%s)",
			target.ProviderType, tokenEnvHint(target.ProviderType),
		)
	}

	provider, err := it.providerRegistry.Get(target.ProviderType, token)
	if err != nil {
		return entities.MigrationResult{}, fmt.Errorf("failed to create provider: %w", err)
	}

	repo := entities.Repository{
		ID:           target.RepoName,
		Name:         target.RepoName,
		Organization: target.Org,
		ProviderName: target.ProviderType,
	}

	return it.migrate.Execute(ctx, provider, repo, MigrateOptions{
		DryRun:     opts.DryRun,
		CLIVersion: opts.CLIVersion,
	})
}

// parseRepoTarget accepts "owner/name", https://github.com/owner/name(.git)
// and git@github.com:owner/name(.git).
func parseRepoTarget(raw string) (*repoTarget, error) {
	cleaned := strings.TrimSuffix(strings.TrimSpace(raw), ".git")
	if cleaned == "" {
		return nil, errors.New("repository is required (owner/name or GitHub URL)")
	}

	if strings.Contains(cleaned, "github.com") {
		o, r, e := parseStandardGitURL(cleaned, "github.com")
		if e != nil {
			return nil, e
		}
		return &repoTarget{ProviderType: providerGitHub, Org: o, RepoName: r}, nil
	}

	if strings.Contains(cleaned, "://") || strings.HasPrefix(cleaned, "git@") {
		return nil, fmt.Errorf("unsupported repository URL: %s", raw)
	}

	segments := strings.Split(cleaned, "/")
	if len(segments) != 2 || segments[0] == "" || segments[1] == "" { //nolint:mnd // owner + name
		return nil, fmt.Errorf("invalid repository %q, expected owner/name", raw)
	}
	return &repoTarget{ProviderType: providerGitHub, Org: segments[0], RepoName: segments[1]}, nil
}

func parseStandardGitURL(url, hostname string) (string, string, error) {
	var pathPart string

	if strings.HasPrefix(url, "git@") {
		parts := strings.SplitN(url, ":", 2) //nolint:mnd // host:path
		if len(parts) < 2 {                  //nolint:mnd // need both parts
			return "", "", fmt.Errorf("invalid SSH URL: %s", url)
		}
		pathPart = parts[1]
	} else {
		_, after, ok := strings.Cut(url, hostname)
		if !ok {
			return "", "", fmt.Errorf("hostname %s not found in URL: %s", hostname, url)
		}
		pathPart = strings.TrimPrefix(after, "/")
	}

	segments := strings.Split(pathPart, "/")
	if len(segments) < 2 || segments[0] == "" || segments[1] == "" { //nolint:mnd // need org + repo
		return "", "", fmt.Errorf("cannot extract org/repo from URL: %s", url)
	}

	return segments[0], segments[1], nil
}

func resolveTokenFromEnv(providerType string) string {
	switch providerType {
	case providerGitHub:
		if t := os.Getenv("GITHUB_TOKEN"); t != "" {
			return t
		}
		return os.Getenv("GH_TOKEN")
	default:
		return ""
	}
}

func tokenEnvHint(providerType string) string {
	switch providerType {
	case providerGitHub:
		return "GITHUB_TOKEN or GH_TOKEN"
	default:
		return "<unknown provider>"
	}
}

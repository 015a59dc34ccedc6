package commands

// ParseRepoTarget exports parseRepoTarget for testing.
var ParseRepoTarget = parseRepoTarget //nolint:gochecknoglobals // test export

// ResolveTokenFromEnv exports resolveTokenFromEnv for testing.
var ResolveTokenFromEnv = resolveTokenFromEnv //nolint:gochecknoglobals // test export

// TokenEnvHint exports tokenEnvHint for testing.
var TokenEnvHint = tokenEnvHint //nolint:gochecknoglobals // test export

// RepoTarget exports repoTarget for testing.
type RepoTarget = repoTarget

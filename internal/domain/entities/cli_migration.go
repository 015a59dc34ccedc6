package entities

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/mod/semver"
)

const (
	// MigrationHeadBranch is the branch every CLI migration pull request is opened from.
	MigrationHeadBranch = "cli"
	// MigrationTitle is the pull request title.
	MigrationTitle = "feat: CLI"
	// DefaultCLIVersion is the @octoherd/cli release pinned in migrated manifests.
	DefaultCLIVersion = "2.7.1"

	migrationBodyFmt = "This pull requests enables this script to be run directly via `npx @octoherd/%s`"
	packageScope     = "@octoherd/"
	binaryPrefix     = "octoherd-"
	cliPackage       = "@octoherd/cli"
	cliEntrypoint    = "./cli.js"

	entrypointPath = "cli.js"
	manifestPath   = "package.json"
	lockfilePath   = "package-lock.json"
	scriptPath     = "script.js"
	readmePath     = "README.md"

	commitEntrypoint = "feat: cli"
	commitManifest   = "build(deps): replace dependencies with `@octoherd/cli`"
	commitLockfile   = "build(deps): lock file"
	commitAdapt      = "refactor: adapt for `@octoherd/cli`"

	entrypointContent = `#!/usr/bin/env node

import { script } from "./script.js";
import { run } from "@octoherd/cli/run";

run(script);
`

	legacyOctokitImport  = "@octoherd/octokit"
	legacyRepositoryType = `import('@octokit/openapi-types').components["schemas"]["repository"]`
	cliRepositoryType    = "import('@octoherd/cli').Repository"
	legacyUsage          = "npx @octoherd/cli"
	legacyUsageLine      = "script-close-renovate-dashboard-issues/script.js \\\n"
)

// gitCloneLinePattern stops at any line terminator, so a CRLF clone line is left alone.
var gitCloneLinePattern = regexp.MustCompile(`git clone [^\r\n\x{2028}\x{2029}]*\n`)

// CLIVersionRange validates version (with or without a leading "v") and
// returns the caret range written into migrated manifests.
func CLIVersionRange(version string) (string, error) {
	trimmed := strings.TrimPrefix(strings.TrimSpace(version), "v")
	if trimmed == "" || !semver.IsValid("v"+trimmed) {
		return "", fmt.Errorf("invalid @octoherd/cli version %q", version)
	}
	return "^" + trimmed, nil
}

// CLIMigration moves a script repository onto the built-in @octoherd/cli
// entrypoint. Its transforms only read the repository, the shared lockfile
// and the CLI version, so running it twice yields the same output.
type CLIMigration struct {
	repository Repository
	lockfile   *Lockfile
	cliVersion string
}

// NewCLIMigration creates the migration for one repository.
func NewCLIMigration(repository Repository, lockfile *Lockfile, cliVersion string) *CLIMigration {
	if cliVersion == "" {
		cliVersion = DefaultCLIVersion
	}
	return &CLIMigration{
		repository: repository,
		lockfile:   lockfile,
		cliVersion: cliVersion,
	}
}

// PackageName is the npm package name of the migrated script.
func (m *CLIMigration) PackageName() string {
	return packageScope + m.repository.Name
}

// BinaryName is the executable name registered in the manifest "bin" field.
func (m *CLIMigration) BinaryName() string {
	return binaryPrefix + m.repository.Name
}

// ChangeSet returns the ordered change groups and pull request metadata.
func (m *CLIMigration) ChangeSet() (ChangeSet, error) {
	if m.lockfile == nil {
		return ChangeSet{}, fmt.Errorf("%w: %q: %w", ErrTransform, lockfilePath, errors.New("shared lockfile is missing"))
	}
	lockfileContent, err := m.lockfile.StampedFor(m.PackageName())
	if err != nil {
		return ChangeSet{}, fmt.Errorf("%w: %q: %w", ErrTransform, lockfilePath, err)
	}

	return ChangeSet{
		Title:      MigrationTitle,
		Body:       fmt.Sprintf(migrationBodyFmt, m.repository.Name),
		HeadBranch: MigrationHeadBranch,
		Groups: []ChangeGroup{
			{
				CommitMessage: commitEntrypoint,
				Files:         map[string]FileChange{entrypointPath: Literal(entrypointContent)},
			},
			{
				CommitMessage: commitManifest,
				Files:         map[string]FileChange{manifestPath: Derived(m.RewriteManifest)},
			},
			{
				CommitMessage: commitLockfile,
				Files:         map[string]FileChange{lockfilePath: Literal(lockfileContent)},
			},
			{
				CommitMessage: commitAdapt,
				Files: map[string]FileChange{
					scriptPath: Derived(m.RewriteScript),
					readmePath: Derived(m.RewriteReadme),
				},
			},
		},
	}, nil
}

// RewriteManifest registers the CLI binary and replaces every dependency
// with @octoherd/cli. Untouched keys keep their order and value.
func (m *CLIMigration) RewriteManifest(current FileContent) (string, error) {
	text, err := current.Text()
	if err != nil {
		return "", err
	}
	manifest, err := ParseJSONObject([]byte(text))
	if err != nil {
		return "", err
	}

	versionRange, err := CLIVersionRange(m.cliVersion)
	if err != nil {
		return "", err
	}

	if err = manifest.Set("bin", map[string]string{m.BinaryName(): cliEntrypoint}); err != nil {
		return "", err
	}
	if err = manifest.Set("devDependencies", map[string]string{}); err != nil {
		return "", err
	}
	if err = manifest.Set("dependencies", map[string]string{cliPackage: versionRange}); err != nil {
		return "", err
	}
	return manifest.Format()
}

// RewriteScript points the script's imports and JSDoc types at @octoherd/cli.
func (m *CLIMigration) RewriteScript(current FileContent) (string, error) {
	text, err := current.Text()
	if err != nil {
		return "", err
	}
	text = strings.Replace(text, legacyOctokitImport, cliPackage, 1)
	text = strings.Replace(text, legacyRepositoryType, cliRepositoryType, 1)
	return text, nil
}

// RewriteReadme drops the clone instructions and documents the npx usage of
// the script's own package.
func (m *CLIMigration) RewriteReadme(current FileContent) (string, error) {
	text, err := current.Text()
	if err != nil {
		return "", err
	}
	if loc := gitCloneLinePattern.FindStringIndex(text); loc != nil {
		text = text[:loc[0]] + text[loc[1]:]
	}
	text = strings.Replace(text, legacyUsage, "npx "+m.PackageName(), 1)
	text = strings.Replace(text, legacyUsageLine, "", 1)
	return text, nil
}

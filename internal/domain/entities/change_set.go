package entities

import (
	"context"
	"errors"
	"fmt"
	"sort"
)

// TransformFunc computes the new content of a file from its current content.
// It must be deterministic given its inputs and the values it closes over.
type TransformFunc func(current FileContent) (string, error)

// ContentResolver fetches the current content of a path in the target repository.
type ContentResolver func(ctx context.Context, path string) (FileContent, error)

type fileChangeKind int

const (
	literalChange fileChangeKind = iota
	derivedChange
)

// FileChange is either a literal new content or a transform of the current
// content. Only derived changes need the current content to be resolved.
type FileChange struct {
	kind      fileChangeKind
	content   string
	transform TransformFunc
}

// Literal returns a FileChange that commits content as-is.
func Literal(content string) FileChange {
	return FileChange{kind: literalChange, content: content}
}

// Derived returns a FileChange computed from the file's current content.
func Derived(transform TransformFunc) FileChange {
	return FileChange{kind: derivedChange, transform: transform}
}

// IsDerived reports whether the change needs the current content.
func (c FileChange) IsDerived() bool {
	return c.kind == derivedChange
}

// ChangeGroup is one set of file edits that lands as a single commit.
type ChangeGroup struct {
	CommitMessage string
	Files         map[string]FileChange
}

// ChangeSet is the ordered list of change groups plus the pull request metadata.
type ChangeSet struct {
	Title      string
	Body       string
	HeadBranch string
	Groups     []ChangeGroup
}

// FileUpdate is the final content of one path in a commit.
type FileUpdate struct {
	Path    string `yaml:"path"`
	Content string `yaml:"-"`
}

// Commit is a resolved ChangeGroup, ready to be handed to a provider.
type Commit struct {
	Message string       `yaml:"message"`
	Files   []FileUpdate `yaml:"files"`
}

// Resolve evaluates every group in declared order. Each derived change sees
// the content returned by resolve, never the output of another transform.
func (s ChangeSet) Resolve(ctx context.Context, resolve ContentResolver) ([]Commit, error) {
	commits := make([]Commit, 0, len(s.Groups))
	for _, group := range s.Groups {
		commit, err := group.Resolve(ctx, resolve)
		if err != nil {
			return nil, err
		}
		commits = append(commits, commit)
	}
	return commits, nil
}

// Resolve evaluates the group's files in path order.
func (g ChangeGroup) Resolve(ctx context.Context, resolve ContentResolver) (Commit, error) {
	paths := make([]string, 0, len(g.Files))
	for path := range g.Files {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	commit := Commit{
		Message: g.CommitMessage,
		Files:   make([]FileUpdate, 0, len(paths)),
	}
	for _, path := range paths {
		content, err := resolveChange(ctx, path, g.Files[path], resolve)
		if err != nil {
			return Commit{}, err
		}
		commit.Files = append(commit.Files, FileUpdate{Path: path, Content: content})
	}
	return commit, nil
}

func resolveChange(
	ctx context.Context,
	path string,
	change FileChange,
	resolve ContentResolver,
) (string, error) {
	if !change.IsDerived() {
		return change.content, nil
	}
	if change.transform == nil {
		return "", fmt.Errorf("%w: %q: %w", ErrTransform, path, errors.New("no transform defined"))
	}

	current, err := resolve(ctx, path)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %w", ErrContentResolution, path, err)
	}
	if current.Path == "" {
		current.Path = path
	}

	content, err := change.transform(current)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %w", ErrTransform, path, err)
	}
	return content, nil
}

// Paths lists the paths touched by the commit.
func (c Commit) Paths() []string {
	paths := make([]string, 0, len(c.Files))
	for _, file := range c.Files {
		paths = append(paths, file.Path)
	}
	return paths
}

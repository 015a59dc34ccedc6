package entities

import "errors"

var (
	// ErrArtifactFetch means the shared lockfile could not be fetched or parsed.
	ErrArtifactFetch = errors.New("shared artifact fetch failed")

	// ErrContentResolution means a file needed by a transform could not be read.
	ErrContentResolution = errors.New("content resolution failed")

	// ErrFileNotFound is reported by providers when a path does not exist.
	ErrFileNotFound = errors.New("file not found")

	// ErrTransform means a transform rejected the content it was given.
	ErrTransform = errors.New("transform failed")

	// ErrSubmission means the branch, commits or pull request could not be created.
	ErrSubmission = errors.New("pull request submission failed")

	// ErrNoChanges is returned by providers when every change group matches
	// the existing content, so no branch or pull request was created.
	ErrNoChanges = errors.New("no changes to submit")
)

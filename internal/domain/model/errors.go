package model

import "errors"

// Error kinds for the release pipeline. Callers match with errors.Is to
// distinguish failure classes; adapters wrap these with fmt.Errorf("...: %w").
// Nothing in the publish path retries automatically: a partially completed
// publish must surface, not repeat.
var (
	// ErrConfiguration indicates missing or invalid configuration, such as
	// an absent required credential or an unknown parser grammar.
	ErrConfiguration = errors.New("configuration error")

	// ErrHistoryAccess indicates the commit or tag history could not be read.
	ErrHistoryAccess = errors.New("history access error")

	// ErrBuild indicates the artifact build command failed or produced no
	// artifacts matching the dist glob.
	ErrBuild = errors.New("build error")

	// ErrPublish indicates a failure while tagging, pushing, creating the
	// VCS release, or uploading artifacts.
	ErrPublish = errors.New("publish error")

	// ErrRunInProgress indicates another run holds the project lock.
	ErrRunInProgress = errors.New("release run already in progress")
)

package model

import "time"

// Artifact is a built file staged for upload.
type Artifact struct {
	Path string // Absolute or project-relative path on disk.
	Name string // Upload filename, normally filepath.Base(Path).
}

// Release is the outcome of a successful run: the version that was tagged
// and published together with the notes that describe it. Notes are never
// persisted apart from the release they belong to.
type Release struct {
	Version   Version
	TagName   string
	Notes     string
	Artifacts []Artifact
	CreatedAt time.Time
}

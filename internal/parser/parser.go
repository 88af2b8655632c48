// Package parser classifies commit messages into change categories using a
// pluggable grammar. Every grammar is total: a message that matches nothing
// classifies as CategoryNone, never an error.
package parser

import (
	"fmt"
	"strings"

	"github.com/relforge/relforge/internal/domain/model"
)

// CommitParser is the classifier capability. Parse must be deterministic
// and must never fail; unrecognized messages come back with CategoryNone.
type CommitParser interface {
	// Name returns the grammar name used for selection ("angular", "tag").
	Name() string

	Parse(commit model.Commit) model.ParsedCommit
}

// ForName returns the grammar registered under the given name. An unknown
// name is a configuration error.
func ForName(name string) (CommitParser, error) {
	switch name {
	case "", "angular":
		return NewAngularParser(), nil
	case "tag":
		return NewTagParser(), nil
	}
	return nil, fmt.Errorf("%w: unknown commit parser %q", model.ErrConfiguration, name)
}

// breakingPrefixes mark a body paragraph as a breaking-change description.
var breakingPrefixes = []string{"BREAKING CHANGE:", "BREAKING-CHANGE:"}

// breakingDescriptions scans message body paragraphs for breaking-change
// markers and returns the descriptions with the marker stripped.
func breakingDescriptions(paragraphs []string) []string {
	var out []string
	for _, p := range paragraphs {
		for _, prefix := range breakingPrefixes {
			if rest, ok := strings.CutPrefix(p, prefix); ok {
				out = append(out, strings.TrimSpace(rest))
				break
			}
		}
	}
	return out
}

// paragraphs splits a commit message body into trimmed, non-empty
// paragraphs. The subject line is not included.
func paragraphs(message string) []string {
	_, body, found := strings.Cut(message, "\n")
	if !found {
		return nil
	}
	var out []string
	for _, p := range strings.Split(body, "\n\n") {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

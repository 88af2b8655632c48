package parser

import (
	"strings"

	"github.com/relforge/relforge/internal/domain/model"
)

// TagParser classifies the legacy emoji-tag grammar: a :sparkles: tag in
// the subject is a feature (minor), :bug: a fix (patch), :boom: a breaking
// change (major). A BREAKING CHANGE paragraph promotes any recognized
// commit to major. Everything else is none.
type TagParser struct{}

// NewTagParser returns the emoji-tag grammar.
func NewTagParser() *TagParser {
	return &TagParser{}
}

func (p *TagParser) Name() string { return "tag" }

func (p *TagParser) Parse(commit model.Commit) model.ParsedCommit {
	parsed := model.ParsedCommit{Commit: commit, Category: model.CategoryNone}

	subject := commit.Subject()
	switch {
	case strings.Contains(subject, ":boom:"):
		parsed.Category = model.CategoryMajor
		parsed.Type = "breaking"
	case strings.Contains(subject, ":sparkles:"):
		parsed.Category = model.CategoryMinor
		parsed.Type = "feature"
	case strings.Contains(subject, ":bug:"):
		parsed.Category = model.CategoryPatch
		parsed.Type = "fix"
	default:
		return parsed
	}

	parsed.Breaking = breakingDescriptions(paragraphs(commit.Message))
	if len(parsed.Breaking) > 0 {
		parsed.Category = model.CategoryMajor
	}
	return parsed
}

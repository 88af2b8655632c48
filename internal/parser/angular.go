package parser

import (
	"regexp"

	"github.com/relforge/relforge/internal/domain/model"
)

// Change types the angular grammar recognizes in a commit header.
var angularTypes = map[string]model.ChangeCategory{
	"build":    model.CategoryNone,
	"chore":    model.CategoryNone,
	"ci":       model.CategoryNone,
	"docs":     model.CategoryNone,
	"feat":     model.CategoryMinor,
	"fix":      model.CategoryPatch,
	"perf":     model.CategoryPatch,
	"style":    model.CategoryNone,
	"refactor": model.CategoryNone,
	"test":     model.CategoryNone,
}

// Long section names used in release notes for the short header types.
var longTypeNames = map[string]string{
	"feat": "feature",
	"docs": "documentation",
	"perf": "performance",
}

// header: type, optional (scope), optional breaking "!", ": ", subject.
var angularHeaderRe = regexp.MustCompile(`^(\w+)(?:\(([^)\n]+)\))?(!)?:\s+(.+)`)

// AngularParser classifies conventional-commit messages: feat is minor,
// fix and perf are patch, a "!" marker or a BREAKING CHANGE paragraph is
// major, every other or unparseable message is none.
type AngularParser struct{}

// NewAngularParser returns the default grammar.
func NewAngularParser() *AngularParser {
	return &AngularParser{}
}

func (p *AngularParser) Name() string { return "angular" }

func (p *AngularParser) Parse(commit model.Commit) model.ParsedCommit {
	parsed := model.ParsedCommit{Commit: commit, Category: model.CategoryNone}

	m := angularHeaderRe.FindStringSubmatch(commit.Message)
	if m == nil {
		return parsed
	}
	typ, scope, bang := m[1], m[2], m[3] != ""
	category, known := angularTypes[typ]
	if !known {
		return parsed
	}

	parsed.Type = typ
	if long, ok := longTypeNames[typ]; ok {
		parsed.Type = long
	}
	parsed.Scope = scope
	parsed.Category = category
	parsed.Breaking = breakingDescriptions(paragraphs(commit.Message))

	if bang || len(parsed.Breaking) > 0 {
		parsed.Category = model.CategoryMajor
	}
	return parsed
}

// Package changelog renders release notes from classified commits.
package changelog

import (
	"fmt"
	"strings"

	"github.com/relforge/relforge/internal/domain/model"
)

// sectionOrder fixes the category rendering order: highest severity first.
var sectionOrder = []model.ChangeCategory{
	model.CategoryMajor,
	model.CategoryMinor,
	model.CategoryPatch,
}

var sectionTitles = map[model.ChangeCategory]string{
	model.CategoryMajor: "Breaking Changes",
	model.CategoryMinor: "Features",
	model.CategoryPatch: "Fixes",
}

// Builder renders release notes markdown. Rendering is deterministic:
// the same version and commit sequence always produces byte-identical
// output, so a re-run over an unchanged repository is a no-op diff.
type Builder struct{}

// NewBuilder creates a release notes builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Render produces the markdown notes for a release. Commits are grouped by
// category in severity order; empty categories are omitted; entries keep
// commit order within their section. CategoryNone commits never appear.
func (b *Builder) Render(version model.Version, commits []model.ParsedCommit) string {
	grouped := make(map[model.ChangeCategory][]model.ParsedCommit, len(sectionOrder))
	for _, c := range commits {
		if c.Category == model.CategoryNone {
			continue
		}
		grouped[c.Category] = append(grouped[c.Category], c)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "## %s\n", version)

	for _, category := range sectionOrder {
		entries := grouped[category]
		if len(entries) == 0 {
			continue
		}
		fmt.Fprintf(&sb, "\n### %s\n\n", sectionTitles[category])
		for _, c := range entries {
			sb.WriteString("* ")
			if c.Scope != "" {
				fmt.Fprintf(&sb, "**%s:** ", c.Scope)
			}
			fmt.Fprintf(&sb, "%s (`%s`)\n", entrySubject(c), c.ShortHash())
		}
		if category == model.CategoryMajor {
			for _, c := range entries {
				for _, desc := range c.Breaking {
					fmt.Fprintf(&sb, "* BREAKING: %s\n", desc)
				}
			}
		}
	}
	return sb.String()
}

// entrySubject strips the grammar header from the subject line so notes
// read "add feature x" rather than "feat(scope): add feature x".
func entrySubject(c model.ParsedCommit) string {
	subject := c.Subject()
	if at := strings.Index(subject, ": "); at >= 0 && at < len(subject)-2 {
		return subject[at+2:]
	}
	return subject
}

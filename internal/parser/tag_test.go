package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/relforge/relforge/internal/domain/model"
)

func TestTagParser_Categories(t *testing.T) {
	p := NewTagParser()

	tests := []struct {
		name    string
		message string
		want    model.ChangeCategory
	}{
		{"sparkles is minor", ":sparkles: add dark mode", model.CategoryMinor},
		{"bug is patch", ":bug: fix crash on empty repo", model.CategoryPatch},
		{"boom is major", ":boom: drop python 2 support", model.CategoryMajor},
		{"tag mid-subject", "add dark mode :sparkles:", model.CategoryMinor},
		{"no tag", "update readme", model.CategoryNone},
		{"tag only in body", "update readme\n\n:bug: not a subject tag", model.CategoryNone},
		{"breaking paragraph promotes", ":bug: fix\n\nBREAKING CHANGE: config moved", model.CategoryMajor},
		{"empty", "", model.CategoryNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed := p.Parse(model.Commit{Message: tt.message})
			assert.Equal(t, tt.want, parsed.Category)
		})
	}
}

func TestTagParser_Types(t *testing.T) {
	p := NewTagParser()

	assert.Equal(t, "feature", p.Parse(model.Commit{Message: ":sparkles: x"}).Type)
	assert.Equal(t, "fix", p.Parse(model.Commit{Message: ":bug: x"}).Type)
	assert.Equal(t, "breaking", p.Parse(model.Commit{Message: ":boom: x"}).Type)
	assert.Empty(t, p.Parse(model.Commit{Message: "x"}).Type)
}

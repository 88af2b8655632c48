package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVersion(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Version
	}{
		{"plain", "1.2.3", Version{Major: 1, Minor: 2, Patch: 3}},
		{"v prefix", "v1.2.3", Version{Major: 1, Minor: 2, Patch: 3}},
		{"zero", "0.0.0", Version{}},
		{"prerelease", "1.3.0-rc.1", Version{Major: 1, Minor: 3, Prerelease: "rc.1"}},
		{"build metadata", "1.2.3+build.5", Version{Major: 1, Minor: 2, Patch: 3, Build: "build.5"}},
		{"prerelease and build", "2.0.0-rc.2+abc", Version{Major: 2, Prerelease: "rc.2", Build: "abc"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseVersion(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseVersion_Invalid(t *testing.T) {
	for _, input := range []string{"", "1.2", "1.2.3.4", "a.b.c", "1.02.3", "-1.0.0", "1.2.x"} {
		t.Run(input, func(t *testing.T) {
			_, err := ParseVersion(input)
			assert.Error(t, err)
		})
	}
}

func TestVersionString_RoundTrip(t *testing.T) {
	for _, s := range []string{"0.0.0", "1.2.3", "1.3.0-rc.1", "1.2.3+build.5", "2.0.0-rc.2+abc"} {
		v, err := ParseVersion(s)
		require.NoError(t, err)
		assert.Equal(t, s, v.String())
	}
}

func TestVersionCompare(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"1.2.3", "1.2.3", 0},
		{"1.2.3", "1.2.4", -1},
		{"2.0.0", "1.9.9", 1},
		{"1.3.0", "1.2.9", 1},
		{"1.0.0-rc.1", "1.0.0", -1},
		{"1.0.0", "1.0.0-rc.9", 1},
		{"1.0.0-rc.1", "1.0.0-rc.2", -1},
		{"1.0.0-rc.2", "1.0.0-rc.10", -1},
		{"1.0.0-alpha", "1.0.0-alpha.1", -1},
		{"1.0.0-1", "1.0.0-alpha", -1},
		{"1.2.3+build.1", "1.2.3+build.2", 0},
	}
	for _, tt := range tests {
		a, err := ParseVersion(tt.a)
		require.NoError(t, err)
		b, err := ParseVersion(tt.b)
		require.NoError(t, err)
		assert.Equal(t, tt.want, a.Compare(b), "%s vs %s", tt.a, tt.b)
		assert.Equal(t, -tt.want, b.Compare(a), "%s vs %s reversed", tt.b, tt.a)
	}
}

func TestVersionBump(t *testing.T) {
	v := Version{Major: 1, Minor: 2, Patch: 3}

	assert.Equal(t, Version{Major: 2}, v.Bump(CategoryMajor))
	assert.Equal(t, Version{Major: 1, Minor: 3}, v.Bump(CategoryMinor))
	assert.Equal(t, Version{Major: 1, Minor: 2, Patch: 4}, v.Bump(CategoryPatch))
	assert.Equal(t, v, v.Bump(CategoryNone))
}

func TestVersionBump_DropsPrereleaseAndBuild(t *testing.T) {
	v := Version{Major: 1, Minor: 2, Patch: 3, Prerelease: "rc.1", Build: "meta"}

	assert.Equal(t, Version{Major: 1, Minor: 3}, v.Bump(CategoryMinor))
}

func TestVersionFinalize(t *testing.T) {
	v := Version{Major: 1, Minor: 3, Prerelease: "rc.2", Build: "meta"}

	assert.Equal(t, Version{Major: 1, Minor: 3}, v.Finalize())
	assert.Equal(t, v.Finalize(), v.Finalize().Finalize())
}

func TestVersionWithPrerelease(t *testing.T) {
	v := Version{Major: 1, Minor: 3}

	assert.Equal(t, "1.3.0-rc.1", v.WithPrerelease("rc", 1).String())
	assert.Equal(t, "1.3.0-rc.2", v.WithPrerelease("rc", 1).WithPrerelease("rc", 2).String())
	assert.Equal(t, "1.3.0-beta.1", v.WithPrerelease("rc", 3).WithPrerelease("beta", 1).String())
}

func TestVersionPrereleaseSeries(t *testing.T) {
	tests := []struct {
		version string
		token   string
		rev     int
	}{
		{"1.3.0-rc.1", "rc", 1},
		{"1.3.0-rc.12", "rc", 12},
		{"1.3.0-beta.2", "beta", 2},
		{"1.3.0-alpha", "alpha", 0},
		{"1.3.0", "", 0},
	}
	for _, tt := range tests {
		v, err := ParseVersion(tt.version)
		require.NoError(t, err)
		token, rev := v.PrereleaseSeries()
		assert.Equal(t, tt.token, token, tt.version)
		assert.Equal(t, tt.rev, rev, tt.version)
	}
}

func TestDiffLevel(t *testing.T) {
	parse := func(s string) Version {
		v, err := ParseVersion(s)
		require.NoError(t, err)
		return v
	}

	assert.Equal(t, CategoryNone, DiffLevel(parse("1.2.3"), parse("1.2.3")))
	assert.Equal(t, CategoryPatch, DiffLevel(parse("1.2.4"), parse("1.2.3")))
	assert.Equal(t, CategoryMinor, DiffLevel(parse("1.3.0"), parse("1.2.3")))
	assert.Equal(t, CategoryMajor, DiffLevel(parse("2.0.0"), parse("1.9.9")))

	// Only the release cores participate.
	assert.Equal(t, CategoryMinor, DiffLevel(parse("1.3.0-rc.1"), parse("1.2.3")))
	assert.Equal(t, CategoryNone, DiffLevel(parse("1.3.0-rc.2"), parse("1.3.0-rc.1")))
}

func TestVersionTagName(t *testing.T) {
	v := Version{Major: 1, Minor: 3}

	assert.Equal(t, "v1.3.0", v.TagName("v{version}"))
	assert.Equal(t, "release-1.3.0", v.TagName("release-{version}"))
}

func TestMaxCategory(t *testing.T) {
	assert.Equal(t, CategoryNone, MaxCategory(nil))
	assert.Equal(t, CategoryPatch, MaxCategory([]ChangeCategory{CategoryPatch, CategoryPatch}))
	assert.Equal(t, CategoryMajor, MaxCategory([]ChangeCategory{CategoryPatch, CategoryMajor, CategoryMinor}))

	// Order never matters.
	assert.Equal(t,
		MaxCategory([]ChangeCategory{CategoryMinor, CategoryPatch, CategoryNone}),
		MaxCategory([]ChangeCategory{CategoryNone, CategoryMinor, CategoryPatch}),
	)
}

func TestCommitHelpers(t *testing.T) {
	c := Commit{Hash: "0123456789abcdef", Message: "feat: add thing\n\nbody text"}

	assert.Equal(t, "0123456", c.ShortHash())
	assert.Equal(t, "feat: add thing", c.Subject())

	short := Commit{Hash: "abc", Message: "one line"}
	assert.Equal(t, "abc", short.ShortHash())
	assert.Equal(t, "one line", short.Subject())
}

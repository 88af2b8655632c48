package model

import (
	"fmt"
	"strconv"
	"strings"
)

// Version is a semantic version. Prerelease and Build are optional; Build
// never participates in precedence.
type Version struct {
	Major      int
	Minor      int
	Patch      int
	Prerelease string // "rc.1" etc.; empty for a final release.
	Build      string // Build metadata appended verbatim after "+".
}

// ZeroVersion is the baseline for repositories with no release tags yet.
var ZeroVersion = Version{}

// ParseVersion parses "major.minor.patch[-prerelease][+build]". A single
// leading "v" is tolerated so tag names can be parsed directly.
func ParseVersion(s string) (Version, error) {
	raw := strings.TrimPrefix(s, "v")

	var v Version
	if at := strings.IndexByte(raw, '+'); at >= 0 {
		v.Build = raw[at+1:]
		raw = raw[:at]
	}
	if at := strings.IndexByte(raw, '-'); at >= 0 {
		v.Prerelease = raw[at+1:]
		raw = raw[:at]
	}

	parts := strings.Split(raw, ".")
	if len(parts) != 3 {
		return Version{}, fmt.Errorf("invalid semantic version %q", s)
	}
	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 || (len(p) > 1 && p[0] == '0') {
			return Version{}, fmt.Errorf("invalid semantic version %q", s)
		}
		nums[i] = n
	}
	v.Major, v.Minor, v.Patch = nums[0], nums[1], nums[2]
	return v, nil
}

// String renders the version without a "v" prefix.
func (v Version) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d.%d.%d", v.Major, v.Minor, v.Patch)
	if v.Prerelease != "" {
		b.WriteByte('-')
		b.WriteString(v.Prerelease)
	}
	if v.Build != "" {
		b.WriteByte('+')
		b.WriteString(v.Build)
	}
	return b.String()
}

// TagName renders the version through a tag format template. The template
// must contain a literal "{version}" placeholder, e.g. "v{version}".
func (v Version) TagName(format string) string {
	return strings.ReplaceAll(format, "{version}", v.String())
}

// Compare returns -1, 0 or 1 according to semver precedence. Build metadata
// is ignored; a prerelease sorts before the corresponding final version.
func (v Version) Compare(o Version) int {
	for _, d := range [3]int{v.Major - o.Major, v.Minor - o.Minor, v.Patch - o.Patch} {
		if d < 0 {
			return -1
		}
		if d > 0 {
			return 1
		}
	}
	switch {
	case v.Prerelease == o.Prerelease:
		return 0
	case v.Prerelease == "":
		return 1
	case o.Prerelease == "":
		return -1
	}
	return comparePrerelease(v.Prerelease, o.Prerelease)
}

// comparePrerelease implements semver rule 11: dot-separated identifiers,
// numeric identifiers compare numerically and sort below alphanumeric ones.
func comparePrerelease(a, b string) int {
	as, bs := strings.Split(a, "."), strings.Split(b, ".")
	for i := 0; i < len(as) && i < len(bs); i++ {
		an, aNum := strconv.Atoi(as[i])
		bn, bNum := strconv.Atoi(bs[i])
		switch {
		case aNum == nil && bNum == nil:
			if an != bn {
				if an < bn {
					return -1
				}
				return 1
			}
		case aNum == nil:
			return -1
		case bNum == nil:
			return 1
		default:
			if c := strings.Compare(as[i], bs[i]); c != 0 {
				return c
			}
		}
	}
	switch {
	case len(as) < len(bs):
		return -1
	case len(as) > len(bs):
		return 1
	}
	return 0
}

// Bump returns the next version for the given category. CategoryNone
// returns the receiver unchanged; callers signal "no release" separately
// rather than releasing an identical version. Prerelease and build metadata
// are dropped from the result.
func (v Version) Bump(c ChangeCategory) Version {
	switch c {
	case CategoryMajor:
		return Version{Major: v.Major + 1}
	case CategoryMinor:
		return Version{Major: v.Major, Minor: v.Minor + 1}
	case CategoryPatch:
		return Version{Major: v.Major, Minor: v.Minor, Patch: v.Patch + 1}
	}
	return Version{Major: v.Major, Minor: v.Minor, Patch: v.Patch}
}

// Finalize strips the prerelease identifier and build metadata, yielding
// the full release the version was building toward.
func (v Version) Finalize() Version {
	return Version{Major: v.Major, Minor: v.Minor, Patch: v.Patch}
}

// WithPrerelease returns the version's release core carrying the given
// prerelease token and revision: 1.3.0 + ("rc", 2) -> 1.3.0-rc.2.
func (v Version) WithPrerelease(token string, revision int) Version {
	next := v.Finalize()
	next.Prerelease = fmt.Sprintf("%s.%d", token, revision)
	return next
}

// PrereleaseSeries splits the prerelease identifier into its token and
// numeric revision ("rc.3" -> "rc", 3). An identifier without a numeric
// tail is all token with revision 0; a final release is ("", 0).
func (v Version) PrereleaseSeries() (string, int) {
	if v.Prerelease == "" {
		return "", 0
	}
	at := strings.LastIndexByte(v.Prerelease, '.')
	if at < 0 {
		return v.Prerelease, 0
	}
	rev, err := strconv.Atoi(v.Prerelease[at+1:])
	if err != nil {
		return v.Prerelease, 0
	}
	return v.Prerelease[:at], rev
}

// DiffLevel returns the change category separating two release cores:
// the highest component in which they differ, CategoryNone when equal.
// Prerelease identifiers and build metadata do not participate.
func DiffLevel(a, b Version) ChangeCategory {
	switch {
	case a.Major != b.Major:
		return CategoryMajor
	case a.Minor != b.Minor:
		return CategoryMinor
	case a.Patch != b.Patch:
		return CategoryPatch
	}
	return CategoryNone
}

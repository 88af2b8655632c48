package model

// ChangeCategory is the release severity a commit contributes.
type ChangeCategory string

const (
	CategoryNone  ChangeCategory = "none"
	CategoryPatch ChangeCategory = "patch"
	CategoryMinor ChangeCategory = "minor"
	CategoryMajor ChangeCategory = "major"
)

// severity orders categories so the highest one wins when folding a commit
// range into a single bump level.
var severity = map[ChangeCategory]int{
	CategoryNone:  0,
	CategoryPatch: 1,
	CategoryMinor: 2,
	CategoryMajor: 3,
}

// Severity returns the ordering rank of the category. Unknown values rank
// as CategoryNone.
func (c ChangeCategory) Severity() int {
	return severity[c]
}

// MaxCategory returns the highest-severity category present in cs, or
// CategoryNone for an empty sequence. Order of cs never affects the result.
func MaxCategory(cs []ChangeCategory) ChangeCategory {
	max := CategoryNone
	for _, c := range cs {
		if c.Severity() > max.Severity() {
			max = c
		}
	}
	return max
}

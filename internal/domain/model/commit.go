package model

import "time"

// Commit is a single commit read from version control. It is immutable;
// adapters construct it, nothing mutates it afterwards.
type Commit struct {
	Hash        string
	Message     string
	Author      string
	AuthorEmail string
	When        time.Time
}

// ShortHash returns the abbreviated commit hash used in release notes.
func (c Commit) ShortHash() string {
	if len(c.Hash) <= 7 {
		return c.Hash
	}
	return c.Hash[:7]
}

// Subject returns the first line of the commit message.
func (c Commit) Subject() string {
	for i := 0; i < len(c.Message); i++ {
		if c.Message[i] == '\n' {
			return c.Message[:i]
		}
	}
	return c.Message
}

// ParsedCommit is a Commit after classification by a grammar. Category is
// always set; unrecognized messages carry CategoryNone with an empty Type.
type ParsedCommit struct {
	Commit

	Category ChangeCategory
	Type     string // Grammar change type ("feature", "fix", ...), empty when unrecognized.
	Scope    string
	Breaking []string // BREAKING CHANGE descriptions; non-empty implies CategoryMajor.
}

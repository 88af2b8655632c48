// Package stamp implements the VersionStamper port: declared project files
// get the new version written in place before the release commit.
package stamp

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/relforge/relforge/internal/domain/model"
	"github.com/relforge/relforge/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.VersionStamper = (*Stamper)(nil)

// declaration names one file and the pattern locating its version string.
type declaration struct {
	path string
	re   *regexp.Regexp
}

// Stamper rewrites version declarations inside the project directory.
type Stamper struct {
	dir   string
	decls []declaration
}

// New parses declarations of the form "path:regex", where the regex holds
// exactly one capture group marking the version substring to replace, e.g.
// `internal/version/version.go:Version = "(\d+\.\d+\.\d+[^"]*)"`.
func New(dir string, specs []string) (*Stamper, error) {
	s := &Stamper{dir: dir}
	for _, spec := range specs {
		path, expr, found := strings.Cut(spec, ":")
		if !found || path == "" || expr == "" {
			return nil, fmt.Errorf("%w: version declaration %q must be path:regex", model.ErrConfiguration, spec)
		}
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, fmt.Errorf("%w: version declaration %q: %v", model.ErrConfiguration, spec, err)
		}
		if re.NumSubexp() != 1 {
			return nil, fmt.Errorf("%w: version declaration %q needs exactly one capture group", model.ErrConfiguration, spec)
		}
		s.decls = append(s.decls, declaration{path: path, re: re})
	}
	return s, nil
}

// Stamp rewrites every declared file with the new version and returns the
// worktree-relative paths that changed. A declaration whose pattern does
// not match its file is a configuration error, so a stale pattern fails
// the run instead of silently releasing unstamped files.
func (s *Stamper) Stamp(ctx context.Context, version model.Version) ([]string, error) {
	var changed []string
	for _, d := range s.decls {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		full := filepath.Join(s.dir, d.path)
		data, err := os.ReadFile(full)
		if err != nil {
			return nil, fmt.Errorf("%w: reading version declaration %q: %v", model.ErrConfiguration, d.path, err)
		}

		matches := d.re.FindAllSubmatchIndex(data, -1)
		if len(matches) == 0 {
			return nil, fmt.Errorf("%w: pattern matched nothing in %q", model.ErrConfiguration, d.path)
		}

		next := replaceGroup(data, matches, []byte(version.String()))
		if bytes.Equal(next, data) {
			continue
		}
		if err := os.WriteFile(full, next, 0o644); err != nil {
			return nil, fmt.Errorf("%w: writing version declaration %q: %v", model.ErrPublish, d.path, err)
		}
		changed = append(changed, d.path)
	}
	return changed, nil
}

// replaceGroup rebuilds data with capture group 1 of every match replaced.
func replaceGroup(data []byte, matches [][]int, replacement []byte) []byte {
	var out bytes.Buffer
	last := 0
	for _, m := range matches {
		start, end := m[2], m[3]
		out.Write(data[last:start])
		out.Write(replacement)
		last = end
	}
	out.Write(data[last:])
	return out.Bytes()
}

package changelog

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
)

// fileHeader starts every maintained changelog file.
const fileHeader = "# CHANGELOG"

// UpdateFile prepends the notes of a new release to the changelog file,
// newest release first, creating the file when missing. Content below the
// header is preserved untouched, so hand-edited past sections survive.
func UpdateFile(path, notes string) error {
	existing, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("reading changelog %q: %w", path, err)
	}

	body := strings.TrimPrefix(string(existing), fileHeader)
	body = strings.TrimLeft(body, "\n")

	var sb strings.Builder
	sb.WriteString(fileHeader)
	sb.WriteString("\n\n")
	sb.WriteString(notes)
	if body != "" {
		sb.WriteString("\n")
		sb.WriteString(body)
	}

	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		return fmt.Errorf("writing changelog %q: %w", path, err)
	}
	return nil
}

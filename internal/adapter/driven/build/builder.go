// Package build implements the ArtifactBuilder port by shelling out to a
// configured build command and collecting dist files by glob.
package build

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/relforge/relforge/internal/domain/model"
	"github.com/relforge/relforge/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.ArtifactBuilder = (*Builder)(nil)

// Builder runs the build command in the project directory. The command is
// an opaque user string handed to the system shell; the computed version is
// exposed to it as NEW_VERSION, mirroring what release scripts expect.
type Builder struct {
	dir      string
	command  string // Empty skips the build step.
	distGlob string
}

// NewBuilder creates a Builder for the given project directory.
func NewBuilder(dir, command, distGlob string) *Builder {
	return &Builder{
		dir:      dir,
		command:  command,
		distGlob: distGlob,
	}
}

// Build runs the command (when configured) and returns the artifacts
// matching the dist glob. A configured command that fails, or one that
// produces no artifacts, is a build error.
func (b *Builder) Build(ctx context.Context, version model.Version) ([]model.Artifact, error) {
	if b.command == "" {
		return nil, nil
	}

	cmd := exec.CommandContext(ctx, "sh", "-c", b.command)
	cmd.Dir = b.dir
	cmd.Env = append(os.Environ(), "NEW_VERSION="+version.String())
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	slog.Info("running build command", "command", b.command, "version", version.String())
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%w: build command failed: %v", model.ErrBuild, err)
	}

	matches, err := filepath.Glob(filepath.Join(b.dir, b.distGlob))
	if err != nil {
		return nil, fmt.Errorf("%w: invalid dist glob %q: %v", model.ErrBuild, b.distGlob, err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("%w: build produced no artifacts matching %q", model.ErrBuild, b.distGlob)
	}

	artifacts := make([]model.Artifact, 0, len(matches))
	for _, path := range matches {
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			continue
		}
		artifacts = append(artifacts, model.Artifact{Path: path, Name: filepath.Base(path)})
	}
	if len(artifacts) == 0 {
		return nil, fmt.Errorf("%w: build produced no artifact files matching %q", model.ErrBuild, b.distGlob)
	}
	return artifacts, nil
}

// Package workspace finds the workspace folder a target file belongs to, standing in
// for the editor's "workspace folder of this document" lookup.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
)

// Source records how a workspace root was chosen.
type Source string

const (
	SourceExplicit Source = "explicit"
	SourceGit      Source = "git"
	SourceDefault  Source = "default"
	SourceFileDir  Source = "file-dir"
)

// Context is the workspace a resolution runs against. It is immutable for the
// duration of a resolution.
type Context struct {
	Root   string
	Source Source
}

// Options tunes Detect.
type Options struct {
	// Explicit always wins when set (the --workspace flag). It is used verbatim, so
	// callers pass it already absolute.
	Explicit string
	// Default is used when no git worktree contains the target and Default does.
	Default string
}

// Detect returns the workspace containing target, in order of preference: the
// explicit root, the git worktree holding target, the configured default, and
// finally the directory of target itself.
func Detect(target string, opts Options) (Context, error) {
	if opts.Explicit != "" {
		return Context{Root: opts.Explicit, Source: SourceExplicit}, nil
	}

	abs, err := filepath.Abs(target)
	if err != nil {
		return Context{}, fmt.Errorf("failed to resolve target %s: %w", target, err)
	}
	dir := abs
	if info, err := os.Stat(abs); err != nil || !info.IsDir() {
		dir = filepath.Dir(abs)
	}

	if root, ok := GitRoot(dir); ok {
		return Context{Root: root, Source: SourceGit}, nil
	}

	if opts.Default != "" {
		def, err := filepath.Abs(expandHome(opts.Default))
		if err == nil && contains(def, abs) {
			return Context{Root: def, Source: SourceDefault}, nil
		}
	}

	return Context{Root: dir, Source: SourceFileDir}, nil
}

// GitRoot returns the worktree root of the git repository containing dir.
func GitRoot(dir string) (string, bool) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return "", false
	}
	// Bare repositories have no worktree to act as a workspace
	wt, err := repo.Worktree()
	if err != nil {
		return "", false
	}
	return wt.Filesystem.Root(), true
}

func contains(root, target string) bool {
	rel, err := filepath.Rel(root, target)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// Package pathutil applies the path rules of a chosen platform to plain strings.
//
// path/filepath only knows the rules of the host it was compiled for. Workspace
// settings written on Windows have to be resolved with Windows rules even when the
// code runs elsewhere (and in tests), so every function here is a method on Platform.
package pathutil

import (
	"fmt"
	"path"
	"runtime"
	"strings"
)

// Platform selects a set of path rules.
type Platform int

const (
	// POSIX uses '/' as the only separator; absolute paths start with '/'.
	POSIX Platform = iota
	// Windows accepts both '\' and '/', renders '\', and treats "C:\" / "C:/" and
	// UNC prefixes as absolute.
	Windows
)

// Current returns the rules of the host operating system.
func Current() Platform {
	if runtime.GOOS == "windows" {
		return Windows
	}
	return POSIX
}

// Parse maps a user supplied name to a Platform. An empty name means Current.
func Parse(name string) (Platform, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "":
		return Current(), nil
	case "posix", "linux", "darwin", "unix":
		return POSIX, nil
	case "windows", "win32":
		return Windows, nil
	default:
		return POSIX, fmt.Errorf("unknown platform: %q (must be posix or windows)", name)
	}
}

func (p Platform) String() string {
	if p == Windows {
		return "windows"
	}
	return "posix"
}

// Separator returns the native separator.
func (p Platform) Separator() byte {
	if p == Windows {
		return '\\'
	}
	return '/'
}

// IsAbs reports whether s is absolute. It never fails: any string is either
// absolute or relative by syntax alone.
func (p Platform) IsAbs(s string) bool {
	if p != Windows {
		return strings.HasPrefix(s, "/")
	}
	if hasDrive(s) {
		return len(s) > 2 && isSlash(s[2])
	}
	return len(s) > 1 && isSlash(s[0]) && isSlash(s[1])
}

// Normalize cleans s and renders it with native separators.
func (p Platform) Normalize(s string) string {
	if p != Windows {
		if s == "" {
			return "."
		}
		return path.Clean(s)
	}
	return strings.ReplaceAll(cleanWindows(s), "/", `\`)
}

// ToSlash cleans s and renders it with forward slashes.
func (p Platform) ToSlash(s string) string {
	if p != Windows {
		return p.Normalize(s)
	}
	return cleanWindows(s)
}

// Join concatenates the non-empty elements and normalizes the result.
func (p Platform) Join(elem ...string) string {
	parts := make([]string, 0, len(elem))
	for _, e := range elem {
		if e != "" {
			parts = append(parts, e)
		}
	}
	if len(parts) == 0 {
		return ""
	}
	return p.Normalize(strings.Join(parts, "/"))
}

// Dir returns the parent directory of s. The root of a path is its own parent.
func (p Platform) Dir(s string) string {
	n := p.Normalize(s)
	if p != Windows {
		return path.Dir(n)
	}
	vol := volume(n)
	rest := n[len(vol):]
	i := strings.LastIndexByte(rest, '\\')
	if i < 0 {
		return n
	}
	dir := rest[:i]
	if dir == "" {
		dir = `\`
	}
	return vol + dir
}

// Equal reports whether a and b name the same path once normalized. Windows
// comparisons ignore case.
func (p Platform) Equal(a, b string) bool {
	a, b = p.Normalize(a), p.Normalize(b)
	if p == Windows {
		return strings.EqualFold(a, b)
	}
	return a == b
}

// Within reports whether target is root itself or lies below it.
func (p Platform) Within(root, target string) bool {
	if p.Equal(root, target) {
		return true
	}
	root, target = p.Normalize(root), p.Normalize(target)
	hasPrefix := strings.HasPrefix
	if p == Windows {
		hasPrefix = func(s, prefix string) bool {
			return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
		}
	}
	if root[len(root)-1] != p.Separator() {
		root += string(p.Separator())
	}
	return hasPrefix(target, root)
}

// cleanWindows returns s cleaned with Windows rules, using '/' as separator.
func cleanWindows(s string) string {
	if s == "" {
		return "."
	}
	s = strings.ReplaceAll(s, `\`, "/")

	var vol string
	switch {
	case hasDrive(s):
		vol, s = s[:2], s[2:]
	case strings.HasPrefix(s, "//"):
		vol, s = "//", strings.TrimLeft(s, "/")
	}
	if s == "" {
		return vol
	}

	cleaned := path.Clean(s)
	if vol == "//" {
		cleaned = strings.TrimPrefix(cleaned, "/")
	}
	return vol + cleaned
}

// volume returns the drive ("C:") or UNC ("\\") prefix of a normalized Windows path.
func volume(n string) string {
	switch {
	case hasDrive(n):
		return n[:2]
	case strings.HasPrefix(n, `\\`):
		return `\\`
	}
	return ""
}

func hasDrive(s string) bool {
	if len(s) < 2 || s[1] != ':' {
		return false
	}
	c := s[0]
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

func isSlash(c byte) bool {
	return c == '/' || c == '\\'
}

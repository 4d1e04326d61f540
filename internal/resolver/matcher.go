package resolver

import (
	"github.com/bmatcuk/doublestar/v4"

	"github.com/ThandieOps/jestpath/internal/logger"
)

// Matcher reports whether a glob pattern matches a slash-separated path.
type Matcher interface {
	Match(pattern, path string) bool
}

// MatcherFunc adapts a function to Matcher.
type MatcherFunc func(pattern, path string) bool

func (f MatcherFunc) Match(pattern, path string) bool { return f(pattern, path) }

// GlobMatcher matches with doublestar semantics: "**" spans directory separators,
// "*" and "?" do not. A malformed pattern matches nothing.
type GlobMatcher struct{}

func (GlobMatcher) Match(pattern, path string) bool {
	matched, err := doublestar.Match(pattern, path)
	if err != nil {
		logger.Debug("ignoring malformed glob pattern", "pattern", pattern, "error", err)
		return false
	}
	return matched
}

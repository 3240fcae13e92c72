package monitor

import (
	"fmt"

	"github.com/moby/patternmatcher"
)

// Matcher decides which directory entries are left out of a scan.
// Patterns use the .dockerignore syntax and are matched against base names.
type Matcher struct {
	pm *patternmatcher.PatternMatcher
}

// NewMatcher compiles the given patterns. It returns nil, nil for an empty
// pattern list; a nil Matcher matches nothing.
func NewMatcher(patterns []string) (*Matcher, error) {
	if len(patterns) == 0 {
		return nil, nil
	}
	pm, err := patternmatcher.New(patterns)
	if err != nil {
		return nil, fmt.Errorf("invalid ignore pattern: %w", err)
	}
	return &Matcher{pm: pm}, nil
}

// Match reports whether name should be ignored.
func (m *Matcher) Match(name string) bool {
	if m == nil || m.pm == nil {
		return false
	}
	matched, err := m.pm.MatchesOrParentMatches(name)
	if err != nil {
		return false
	}
	return matched
}

// Package patterns holds the fixed exclusion names and .gitignore patterns used by projtree.
package patterns

import (
	"sort"
	"strings"

	"github.com/temirov/projtree/internal/utils"
)

var defaultExclusions = [...]string{
	"node_modules",
	"venv",
	"__pycache__",
	"dist",
	"build",
	"coverage",
}

var defaultGitignorePatterns = [...]string{
	".DS_Store",
	".env",
	".idea/",
	".pytest_cache/",
	".vscode/",
	"coverage/",
	"dist/",
	"node_modules/",
	"venv/",
	"__pycache__/",
	"*.egg-info",
	"build/",
}

// DefaultExclusions returns a fresh copy of the directory names never rendered in a tree.
func DefaultExclusions() []string {
	return append([]string(nil), defaultExclusions[:]...)
}

// DefaultGitignorePatterns returns a fresh copy of the patterns always ensured in .gitignore.
func DefaultGitignorePatterns() []string {
	return append([]string(nil), defaultGitignorePatterns[:]...)
}

// ExclusionSet is a set of basenames suppressed from rendering.
type ExclusionSet map[string]struct{}

// NewExclusionSet unions every provided list into one set. Names are trimmed and
// lose trailing slashes; blanks are dropped.
func NewExclusionSet(nameLists ...[]string) ExclusionSet {
	set := make(ExclusionSet)
	for _, names := range nameLists {
		for _, name := range names {
			normalized := utils.NormalizeExclusionName(name)
			if normalized == utils.EmptyString {
				continue
			}
			set[normalized] = struct{}{}
		}
	}
	return set
}

// Contains reports whether name is excluded.
func (set ExclusionSet) Contains(name string) bool {
	_, excluded := set[name]
	return excluded
}

// Names returns the sorted members of the set.
func (set ExclusionSet) Names() []string {
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GitignorePatterns assembles the ordered pattern list ensured in .gitignore:
// the defaults, any configured extras, the output file name, the tool name, and
// each user exclusion as a directory pattern.
func GitignorePatterns(outputFileName string, toolName string, extraPatterns []string, userExclusions []string) []string {
	combined := DefaultGitignorePatterns()
	combined = append(combined, extraPatterns...)
	combined = append(combined, outputFileName, toolName)
	for _, exclusion := range userExclusions {
		combined = append(combined, utils.DirectoryPattern(exclusion))
	}
	filtered := make([]string, 0, len(combined))
	for _, pattern := range combined {
		trimmed := strings.TrimSpace(pattern)
		if trimmed != utils.EmptyString {
			filtered = append(filtered, trimmed)
		}
	}
	return utils.DeduplicatePatterns(filtered)
}

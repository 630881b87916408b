// Package utils contains general helper functions used across the projtree tool.
package utils

import (
	"path/filepath"
	"strings"
)

const (
	// GitIgnoreFileName is the name of the Git ignore file.
	GitIgnoreFileName = ".gitignore"
	// GitDirectoryName is the name of the Git repository directory.
	GitDirectoryName = ".git"
	// DefaultOutputFileName is the tree file written when no output is configured.
	DefaultOutputFileName = "project_structure.txt"

	hiddenNamePrefix = "."
	directoryMarker  = "/"
)

// DeduplicatePatterns removes duplicate patterns from a slice while preserving order.
// The first occurrence of each unique pattern is kept.
func DeduplicatePatterns(patterns []string) []string {
	encounteredPatterns := make(map[string]struct{})
	result := make([]string, 0, len(patterns))
	for _, pattern := range patterns {
		if _, exists := encounteredPatterns[pattern]; !exists {
			encounteredPatterns[pattern] = struct{}{}
			result = append(result, pattern)
		}
	}
	return result
}

// ContainsString checks if a slice of strings contains a specific target string.
func ContainsString(stringSlice []string, targetString string) bool {
	for _, currentString := range stringSlice {
		if currentString == targetString {
			return true
		}
	}
	return false
}

// IsHiddenName reports whether a basename is hidden. The Git ignore file is
// never considered hidden so that it stays visible in rendered trees.
func IsHiddenName(name string) bool {
	if name == GitIgnoreFileName {
		return false
	}
	return strings.HasPrefix(name, hiddenNamePrefix)
}

// NormalizeExclusionName trims whitespace and trailing separators from a user-supplied
// exclusion so it compares against basenames.
func NormalizeExclusionName(name string) string {
	trimmed := strings.TrimSpace(name)
	trimmed = strings.TrimRight(trimmed, directoryMarker+string(filepath.Separator))
	return trimmed
}

// DirectoryPattern returns name with exactly one trailing slash.
func DirectoryPattern(name string) string {
	normalized := NormalizeExclusionName(name)
	if normalized == EmptyString {
		return EmptyString
	}
	return normalized + directoryMarker
}

// ResolveAgainst returns path unchanged when absolute, otherwise joined onto base.
func ResolveAgainst(base string, path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(base, path)
}

package utils_test

import (
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/temirov/projtree/internal/utils"
)

// TestDeduplicatePatterns verifies that DeduplicatePatterns removes duplicate patterns.
func TestDeduplicatePatterns(testingInstance *testing.T) {
	testCases := []struct {
		testName string
		patterns []string
		expected []string
	}{
		{
			testName: "removes duplicates",
			patterns: []string{"a", "b", "a"},
			expected: []string{"a", "b"},
		},
		{
			testName: "keeps unique",
			patterns: []string{"a", "b"},
			expected: []string{"a", "b"},
		},
		{
			testName: "empty input",
			patterns: nil,
			expected: []string{},
		},
	}
	for index, testCase := range testCases {
		actual := utils.DeduplicatePatterns(testCase.patterns)
		if len(actual) != len(testCase.expected) {
			testingInstance.Errorf("case %d (%s): expected length %d, got %d", index, testCase.testName, len(testCase.expected), len(actual))
			continue
		}
		for position, value := range actual {
			if value != testCase.expected[position] {
				testingInstance.Errorf("case %d (%s): expected %s at position %d, got %s", index, testCase.testName, testCase.expected[position], position, value)
			}
		}
	}
}

// TestContainsString verifies that ContainsString locates strings in a slice.
func TestContainsString(testingInstance *testing.T) {
	testCases := []struct {
		testName string
		slice    []string
		target   string
		expected bool
	}{
		{
			testName: "contains target",
			slice:    []string{"alpha", "beta"},
			target:   "beta",
			expected: true,
		},
		{
			testName: "missing target",
			slice:    []string{"alpha", "beta"},
			target:   "gamma",
			expected: false,
		},
	}
	for index, testCase := range testCases {
		actual := utils.ContainsString(testCase.slice, testCase.target)
		if actual != testCase.expected {
			testingInstance.Errorf("case %d (%s): expected %t, got %t", index, testCase.testName, testCase.expected, actual)
		}
	}
}

// TestIsHiddenName verifies hidden name detection and the .gitignore exception.
func TestIsHiddenName(testingInstance *testing.T) {
	testCases := []struct {
		testName string
		name     string
		expected bool
	}{
		{testName: "git directory", name: ".git", expected: true},
		{testName: "env file", name: ".env", expected: true},
		{testName: "gitignore is visible", name: ".gitignore", expected: false},
		{testName: "gitignore suffix is hidden", name: ".gitignore.bak", expected: true},
		{testName: "regular file", name: "main.go", expected: false},
		{testName: "dot inside name", name: "a.b", expected: false},
	}
	for _, testCase := range testCases {
		testingInstance.Run(testCase.testName, func(t *testing.T) {
			if actual := utils.IsHiddenName(testCase.name); actual != testCase.expected {
				t.Fatalf("IsHiddenName(%q): expected %t, got %t", testCase.name, testCase.expected, actual)
			}
		})
	}
}

// TestDirectoryPattern verifies that exclusion names gain exactly one trailing slash.
func TestDirectoryPattern(testingInstance *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{input: "vendor", expected: "vendor/"},
		{input: "vendor/", expected: "vendor/"},
		{input: "  tmp//  ", expected: "tmp/"},
		{input: "   ", expected: ""},
	}
	for _, testCase := range testCases {
		if actual := utils.DirectoryPattern(testCase.input); actual != testCase.expected {
			testingInstance.Errorf("DirectoryPattern(%q): expected %q, got %q", testCase.input, testCase.expected, actual)
		}
	}
}

// TestResolveAgainst verifies relative paths are joined onto the base directory.
func TestResolveAgainst(testingInstance *testing.T) {
	base := testingInstance.TempDir()
	relative := utils.ResolveAgainst(base, "out.txt")
	if relative != filepath.Join(base, "out.txt") {
		testingInstance.Fatalf("unexpected relative resolution: %s", relative)
	}
	absoluteTarget := filepath.Join(testingInstance.TempDir(), "elsewhere.txt")
	if resolved := utils.ResolveAgainst(base, absoluteTarget); resolved != absoluteTarget {
		testingInstance.Fatalf("absolute path should be kept, got %s", resolved)
	}
}

// TestNewApplicationLogger verifies both logger variants build.
func TestNewApplicationLogger(testingInstance *testing.T) {
	for _, quiet := range []bool{false, true} {
		logger, err := utils.NewApplicationLogger(quiet)
		if err != nil {
			testingInstance.Fatalf("NewApplicationLogger(%t) error: %v", quiet, err)
		}
		if logger.Core().Enabled(zap.InfoLevel) == quiet {
			testingInstance.Fatalf("quiet=%t: unexpected info level enablement", quiet)
		}
	}
}

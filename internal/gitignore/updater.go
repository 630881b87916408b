// Package gitignore ensures a fixed set of patterns is present in a .gitignore file.
package gitignore

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"unicode"

	"github.com/temirov/projtree/internal/utils"
)

const (
	errorReadFormat  = "read %s: %w"
	errorWriteFormat = "write %s: %w"
	errorScanFormat  = "scan %s: %w"

	filePermissions = 0o644
	newline         = "\n"
)

// Result describes what an update changed.
type Result struct {
	Path    string
	Created bool
	Added   []string
}

// Changed reports whether the file was written.
func (result Result) Changed() bool {
	return result.Created || len(result.Added) > 0
}

// Update makes every required pattern appear in the file at path exactly once.
// A missing file is created with the patterns in order. An existing file keeps its
// content and receives only the missing patterns, appended in order. Lines are
// compared with trailing whitespace removed. Read and write failures are returned.
func Update(path string, requiredPatterns []string) (Result, error) {
	result := Result{Path: path}
	pending := normalizePatterns(requiredPatterns)

	existingContent, readError := os.ReadFile(path)
	if readError != nil {
		if !errors.Is(readError, fs.ErrNotExist) {
			return result, fmt.Errorf(errorReadFormat, path, readError)
		}
		if len(pending) == 0 {
			return result, nil
		}
		if writeError := os.WriteFile(path, []byte(joinLines(pending)), filePermissions); writeError != nil {
			return result, fmt.Errorf(errorWriteFormat, path, writeError)
		}
		result.Created = true
		result.Added = pending
		return result, nil
	}

	presentLines, scanError := collectLines(existingContent)
	if scanError != nil {
		return result, fmt.Errorf(errorScanFormat, path, scanError)
	}
	var missing []string
	for _, pattern := range pending {
		if _, present := presentLines[pattern]; !present {
			missing = append(missing, pattern)
		}
	}
	if len(missing) == 0 {
		return result, nil
	}

	var addition strings.Builder
	if len(existingContent) > 0 && !bytes.HasSuffix(existingContent, []byte(newline)) {
		addition.WriteString(newline)
	}
	addition.WriteString(joinLines(missing))

	if appendError := appendToFile(path, addition.String()); appendError != nil {
		return result, appendError
	}
	result.Added = missing
	return result, nil
}

func appendToFile(path string, text string) (err error) {
	fileHandle, openError := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, filePermissions)
	if openError != nil {
		return fmt.Errorf(errorWriteFormat, path, openError)
	}
	defer func() {
		if closeError := fileHandle.Close(); closeError != nil && err == nil {
			err = fmt.Errorf(errorWriteFormat, path, closeError)
		}
	}()
	if _, writeError := fileHandle.WriteString(text); writeError != nil {
		return fmt.Errorf(errorWriteFormat, path, writeError)
	}
	return nil
}

// collectLines returns the set of lines in content with trailing whitespace removed.
func collectLines(content []byte) (map[string]struct{}, error) {
	lines := make(map[string]struct{})
	scanner := bufio.NewScanner(bytes.NewReader(content))
	scanner.Buffer(make([]byte, 0, bufio.MaxScanTokenSize), len(content)+1)
	for scanner.Scan() {
		lines[strings.TrimRightFunc(scanner.Text(), unicode.IsSpace)] = struct{}{}
	}
	return lines, scanner.Err()
}

// normalizePatterns trims trailing whitespace, drops blanks and keeps the first occurrence of each pattern.
func normalizePatterns(requiredPatterns []string) []string {
	trimmed := make([]string, 0, len(requiredPatterns))
	for _, pattern := range requiredPatterns {
		candidate := strings.TrimRightFunc(pattern, unicode.IsSpace)
		if candidate == utils.EmptyString {
			continue
		}
		trimmed = append(trimmed, candidate)
	}
	return utils.DeduplicatePatterns(trimmed)
}

func joinLines(lines []string) string {
	return strings.Join(lines, newline) + newline
}

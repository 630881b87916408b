// Package tree renders a directory hierarchy as a box-drawing tree diagram.
package tree

import (
	"errors"
	"fmt"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/temirov/projtree/internal/patterns"
	"github.com/temirov/projtree/internal/types"
	"github.com/temirov/projtree/internal/utils"
)

const (
	// warningInaccessibleFormat is used when a directory cannot be listed.
	warningInaccessibleFormat = "skipping inaccessible directory %s: %v"
	// warningSymlinkFormat is used when a symbolic link target cannot be resolved.
	warningSymlinkFormat = "unable to resolve symbolic link %s: %v"

	// errorAbsolutePathFormat is used when the absolute path cannot be determined.
	errorAbsolutePathFormat = "getting absolute path for %s: %w"
	// errorRootStatFormat is used when the root exists but cannot be inspected.
	errorRootStatFormat = "stat failed for '%s': %w"
	// errorRootFormat decorates the root sentinels with the offending path.
	errorRootFormat = "%w: %s"

	lineSeparator = "\n"
)

var (
	// ErrRootNotFound reports a root directory that does not exist.
	ErrRootNotFound = errors.New("root directory does not exist")
	// ErrNotADirectory reports a root path that is not a directory.
	ErrNotADirectory = errors.New("root path is not a directory")
)

// Options configures a Renderer.
type Options struct {
	// Exclusions lists basenames that never appear in the tree.
	Exclusions patterns.ExclusionSet
	// SkipPaths lists absolute paths omitted from the tree, such as the output file.
	SkipPaths []string
	// Warn receives a message for every recovered per-entry failure.
	Warn func(message string)
}

// Renderer walks directories and produces tree lines.
type Renderer struct {
	exclusions patterns.ExclusionSet
	skipPaths  map[string]struct{}
	warn       func(message string)
}

type directoryFrame struct {
	entries []types.DirectoryEntry
	next    int
	prefix  string
}

// NewRenderer constructs a Renderer from options.
func NewRenderer(options Options) *Renderer {
	renderer := &Renderer{
		exclusions: options.Exclusions,
		skipPaths:  make(map[string]struct{}, len(options.SkipPaths)),
		warn:       options.Warn,
	}
	if renderer.exclusions == nil {
		renderer.exclusions = patterns.NewExclusionSet()
	}
	if renderer.warn == nil {
		renderer.warn = func(string) {}
	}
	for _, skipPath := range options.SkipPaths {
		renderer.skipPaths[filepath.Clean(skipPath)] = struct{}{}
	}
	return renderer
}

// ValidateRoot resolves root to a clean absolute path and checks that it is an existing directory.
func ValidateRoot(root string) (string, error) {
	absoluteRoot, absoluteError := filepath.Abs(root)
	if absoluteError != nil {
		return "", fmt.Errorf(errorAbsolutePathFormat, root, absoluteError)
	}
	info, statError := os.Stat(absoluteRoot)
	if statError != nil {
		if errors.Is(statError, fs.ErrNotExist) {
			return "", fmt.Errorf(errorRootFormat, ErrRootNotFound, absoluteRoot)
		}
		return "", fmt.Errorf(errorRootStatFormat, absoluteRoot, statError)
	}
	if !info.IsDir() {
		return "", fmt.Errorf(errorRootFormat, ErrNotADirectory, absoluteRoot)
	}
	return absoluteRoot, nil
}

// Render validates root and returns every tree line, root first.
func (renderer *Renderer) Render(root string) ([]types.TreeLine, error) {
	absoluteRoot, validationError := ValidateRoot(root)
	if validationError != nil {
		return nil, validationError
	}
	return slices.Collect(renderer.Lines(absoluteRoot)), nil
}

// Lines lazily yields the tree lines for an already validated absolute root in
// depth-first order. Directories that cannot be listed yield one annotated line
// and are not descended into.
func (renderer *Renderer) Lines(absoluteRoot string) iter.Seq[types.TreeLine] {
	return func(yield func(types.TreeLine) bool) {
		rootLine := types.TreeLine{
			Entry: types.DirectoryEntry{
				Path: absoluteRoot,
				Name: rootDisplayName(absoluteRoot),
				Kind: types.EntryKindDirectory,
			},
		}
		rootChildren, listError := renderer.listChildren(absoluteRoot)
		if listError != nil {
			yield(renderer.markInaccessible(rootLine, listError))
			return
		}
		if !yield(rootLine) {
			return
		}

		stack := []*directoryFrame{{entries: rootChildren}}
		for len(stack) > 0 {
			current := stack[len(stack)-1]
			if current.next >= len(current.entries) {
				stack = stack[:len(stack)-1]
				continue
			}
			entry := current.entries[current.next]
			current.next++
			isLast := current.next == len(current.entries)

			connector, indent := types.BranchConnector, types.BranchIndent
			if isLast {
				connector, indent = types.LastConnector, types.LastIndent
			}
			line := types.TreeLine{
				Prefix:    current.prefix,
				Connector: connector,
				Entry:     entry,
				Depth:     len(stack),
			}

			if entry.Kind != types.EntryKindDirectory {
				if !yield(line) {
					return
				}
				continue
			}

			children, childListError := renderer.listChildren(entry.Path)
			if childListError != nil {
				if !yield(renderer.markInaccessible(line, childListError)) {
					return
				}
				continue
			}
			if !yield(line) {
				return
			}
			stack = append(stack, &directoryFrame{entries: children, prefix: current.prefix + indent})
		}
	}
}

// listChildren returns the visible entries of a directory sorted by name.
func (renderer *Renderer) listChildren(directoryPath string) ([]types.DirectoryEntry, error) {
	directoryEntries, readError := os.ReadDir(directoryPath)
	if readError != nil {
		return nil, readError
	}

	children := make([]types.DirectoryEntry, 0, len(directoryEntries))
	for _, directoryEntry := range directoryEntries {
		name := directoryEntry.Name()
		if utils.IsHiddenName(name) || renderer.exclusions.Contains(name) {
			continue
		}
		childPath := filepath.Join(directoryPath, name)
		if _, skipped := renderer.skipPaths[childPath]; skipped {
			continue
		}
		children = append(children, types.DirectoryEntry{
			Path: childPath,
			Name: name,
			Kind: renderer.classify(childPath, directoryEntry),
		})
	}
	slices.SortFunc(children, func(left, right types.DirectoryEntry) int {
		return strings.Compare(left.Name, right.Name)
	})
	return children, nil
}

// classify follows symbolic links so that links to directories render as directories.
func (renderer *Renderer) classify(childPath string, directoryEntry fs.DirEntry) types.EntryKind {
	if directoryEntry.IsDir() {
		return types.EntryKindDirectory
	}
	if directoryEntry.Type()&fs.ModeSymlink == 0 {
		return types.EntryKindFile
	}
	targetInfo, statError := os.Stat(childPath)
	if statError != nil {
		renderer.warn(fmt.Sprintf(warningSymlinkFormat, childPath, statError))
		return types.EntryKindFile
	}
	if targetInfo.IsDir() {
		return types.EntryKindDirectory
	}
	return types.EntryKindFile
}

func (renderer *Renderer) markInaccessible(line types.TreeLine, listError error) types.TreeLine {
	renderer.warn(fmt.Sprintf(warningInaccessibleFormat, line.Entry.Path, listError))
	line.Entry.Kind = types.EntryKindInaccessible
	line.Marker = types.UnreadableMarker
	if errors.Is(listError, fs.ErrPermission) {
		line.Marker = types.PermissionDeniedMarker
	}
	return line
}

// rootDisplayName returns the basename of the root, or the root itself for filesystem roots.
func rootDisplayName(absoluteRoot string) string {
	baseName := filepath.Base(absoluteRoot)
	if baseName == string(filepath.Separator) || baseName == "." || baseName == utils.EmptyString {
		return types.DirectorySuffix
	}
	return baseName
}

// Strings converts tree lines to their display form.
func Strings(lines []types.TreeLine) []string {
	rendered := make([]string, 0, len(lines))
	for _, line := range lines {
		rendered = append(rendered, line.String())
	}
	return rendered
}

// Format joins tree lines with newlines and terminates the text with a newline.
func Format(lines []types.TreeLine) string {
	if len(lines) == 0 {
		return utils.EmptyString
	}
	return strings.Join(Strings(lines), lineSeparator) + lineSeparator
}

package tree_test

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/temirov/projtree/internal/patterns"
	"github.com/temirov/projtree/internal/tree"
	"github.com/temirov/projtree/internal/types"
)

func createFile(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("content"), 0o644))
}

func createRoot(t *testing.T) string {
	t.Helper()
	root := filepath.Join(t.TempDir(), "root")
	require.NoError(t, os.Mkdir(root, 0o755))
	return root
}

func renderStrings(t *testing.T, root string, options tree.Options) []string {
	t.Helper()
	lines, err := tree.NewRenderer(options).Render(root)
	require.NoError(t, err)
	return tree.Strings(lines)
}

func TestRenderOmitsHiddenEntries(t *testing.T) {
	root := createRoot(t)
	createFile(t, filepath.Join(root, "a.txt"))
	createFile(t, filepath.Join(root, "b", "c.txt"))
	createFile(t, filepath.Join(root, ".git", "HEAD"))

	assert.Equal(t, []string{
		"root/",
		"├── a.txt",
		"└── b/",
		"    └── c.txt",
	}, renderStrings(t, root, tree.Options{}))
}

func TestRenderEmptyRoot(t *testing.T) {
	root := createRoot(t)
	assert.Equal(t, []string{"root/"}, renderStrings(t, root, tree.Options{}))
}

func TestRenderKeepsGitignore(t *testing.T) {
	root := createRoot(t)
	createFile(t, filepath.Join(root, ".gitignore"))
	createFile(t, filepath.Join(root, ".env"))
	createFile(t, filepath.Join(root, "main.go"))

	assert.Equal(t, []string{
		"root/",
		"├── .gitignore",
		"└── main.go",
	}, renderStrings(t, root, tree.Options{}))
}

func TestRenderPrefixesFollowAncestors(t *testing.T) {
	root := createRoot(t)
	createFile(t, filepath.Join(root, "cmd", "tool", "main.go"))
	createFile(t, filepath.Join(root, "cmd", "README"))
	createFile(t, filepath.Join(root, "internal", "x", "y.go"))
	createFile(t, filepath.Join(root, "internal", "z.go"))

	assert.Equal(t, []string{
		"root/",
		"├── cmd/",
		"│   ├── README",
		"│   └── tool/",
		"│       └── main.go",
		"└── internal/",
		"    ├── x/",
		"    │   └── y.go",
		"    └── z.go",
	}, renderStrings(t, root, tree.Options{}))
}

func TestRenderSortsCaseSensitiveAndInterleaved(t *testing.T) {
	root := createRoot(t)
	createFile(t, filepath.Join(root, "b.txt"))
	createFile(t, filepath.Join(root, "Zeta", "keep"))
	createFile(t, filepath.Join(root, "alpha", "keep"))
	createFile(t, filepath.Join(root, "Beta.md"))

	lines := renderStrings(t, root, tree.Options{})
	assert.Equal(t, []string{
		"root/",
		"├── Beta.md",
		"├── Zeta/",
		"│   └── keep",
		"├── alpha/",
		"│   └── keep",
		"└── b.txt",
	}, lines)
}

func TestRenderExcludesBasenamesAtAnyDepth(t *testing.T) {
	root := createRoot(t)
	createFile(t, filepath.Join(root, "node_modules", "pkg", "index.js"))
	createFile(t, filepath.Join(root, "web", "node_modules", "x.js"))
	createFile(t, filepath.Join(root, "web", "app.js"))
	createFile(t, filepath.Join(root, "vendor", "lib.go"))
	createFile(t, filepath.Join(root, "vendor.go"))

	exclusions := patterns.NewExclusionSet(patterns.DefaultExclusions(), []string{"vendor"})
	lines := renderStrings(t, root, tree.Options{Exclusions: exclusions})

	assert.Equal(t, []string{
		"root/",
		"├── vendor.go",
		"└── web/",
		"    └── app.js",
	}, lines)
	for _, line := range lines[1:] {
		name := strings.TrimSuffix(line[strings.LastIndex(line, " ")+1:], "/")
		assert.False(t, exclusions.Contains(name), line)
	}
}

func TestRenderSkipsConfiguredPaths(t *testing.T) {
	root := createRoot(t)
	outputPath := filepath.Join(root, "project_structure.txt")
	createFile(t, outputPath)
	createFile(t, filepath.Join(root, "main.go"))

	lines := renderStrings(t, root, tree.Options{SkipPaths: []string{outputPath}})
	assert.Equal(t, []string{"root/", "└── main.go"}, lines)
}

func TestRenderMarksUnreadableDirectory(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced for this user")
	}
	root := createRoot(t)
	locked := filepath.Join(root, "locked")
	createFile(t, filepath.Join(locked, "secret.txt"))
	createFile(t, filepath.Join(root, "z.txt"))
	require.NoError(t, os.Chmod(locked, 0o000))
	t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })

	var warnings []string
	lines, err := tree.NewRenderer(tree.Options{Warn: func(message string) {
		warnings = append(warnings, message)
	}}).Render(root)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"root/",
		"├── locked/ [Permission Denied]",
		"└── z.txt",
	}, tree.Strings(lines))
	assert.Equal(t, types.EntryKindInaccessible, lines[1].Entry.Kind)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], locked)
}

func TestRenderFollowsSymlinkedDirectories(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symbolic links require privileges on windows")
	}
	root := createRoot(t)
	target := filepath.Join(t.TempDir(), "target")
	createFile(t, filepath.Join(target, "inner.txt"))
	require.NoError(t, os.Symlink(target, filepath.Join(root, "link")))
	require.NoError(t, os.Symlink(filepath.Join(root, "missing"), filepath.Join(root, "dangling")))

	var warnings []string
	lines, err := tree.NewRenderer(tree.Options{Warn: func(message string) {
		warnings = append(warnings, message)
	}}).Render(root)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"root/",
		"├── dangling",
		"└── link/",
		"    └── inner.txt",
	}, tree.Strings(lines))
	assert.Len(t, warnings, 1)
}

func TestRenderRejectsInvalidRoots(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing")
	_, err := tree.NewRenderer(tree.Options{}).Render(missing)
	require.ErrorIs(t, err, tree.ErrRootNotFound)

	filePath := filepath.Join(t.TempDir(), "file.txt")
	createFile(t, filePath)
	_, err = tree.NewRenderer(tree.Options{}).Render(filePath)
	require.ErrorIs(t, err, tree.ErrNotADirectory)
}

func TestLinesStopsWhenConsumerStops(t *testing.T) {
	root := createRoot(t)
	for _, name := range []string{"a", "b", "c", "d"} {
		createFile(t, filepath.Join(root, name, "file"))
	}

	var collected []types.TreeLine
	for line := range tree.NewRenderer(tree.Options{}).Lines(root) {
		collected = append(collected, line)
		if len(collected) == 3 {
			break
		}
	}
	require.Len(t, collected, 3)
	assert.Equal(t, 0, collected[0].Depth)
	assert.Equal(t, 1, collected[1].Depth)
	assert.Equal(t, 2, collected[2].Depth)
}

func TestFormatAddsTrailingNewline(t *testing.T) {
	root := createRoot(t)
	createFile(t, filepath.Join(root, "a.txt"))
	lines, err := tree.NewRenderer(tree.Options{}).Render(root)
	require.NoError(t, err)
	assert.Equal(t, "root/\n└── a.txt\n", tree.Format(lines))
	assert.Equal(t, "", tree.Format(nil))
}

// Package types defines every cross‑package data structure used by the projtree CLI.
package types

const (
	// DirectorySuffix trails every rendered directory name.
	DirectorySuffix = "/"

	BranchConnector = "├── "
	LastConnector   = "└── "
	BranchIndent    = "│   "
	LastIndent      = "    "

	PermissionDeniedMarker = "[Permission Denied]"
	UnreadableMarker       = "[Unreadable]"
)

// EntryKind tags a rendered entry.
type EntryKind int

const (
	EntryKindFile EntryKind = iota
	EntryKindDirectory
	EntryKindInaccessible
)

// String returns a lowercase label for the kind.
func (kind EntryKind) String() string {
	switch kind {
	case EntryKindDirectory:
		return "directory"
	case EntryKindInaccessible:
		return "inaccessible"
	default:
		return "file"
	}
}

// DirectoryEntry is one filesystem path visited during a walk.
type DirectoryEntry struct {
	Path string
	Name string
	Kind EntryKind
}

// TreeLine is one rendered line of the tree diagram.
// The root line has an empty Prefix and Connector.
type TreeLine struct {
	Prefix    string
	Connector string
	Entry     DirectoryEntry
	Marker    string
	Depth     int
}

// String formats the line as it appears in the output file.
func (line TreeLine) String() string {
	displayName := line.Entry.Name
	if line.Entry.Kind != EntryKindFile && displayName != DirectorySuffix {
		displayName += DirectorySuffix
	}
	rendered := line.Prefix + line.Connector + displayName
	if line.Marker != "" {
		rendered += " " + line.Marker
	}
	return rendered
}

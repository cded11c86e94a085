package domain

// EntryType classifies a node reported by the remote store
type EntryType int

const (
	EntryTypeFile EntryType = iota
	EntryTypeFolder
	EntryTypeNativeDoc
)

// Entry represents one node of the remote tree as reported by the store
type Entry struct {
	// ID is the globally unique identifier, stable across scans
	ID string

	// Name is the display name
	Name string

	// Type distinguishes folders, native documents and regular files
	Type EntryType

	// MimeType is the raw MIME type reported by the remote store
	MimeType string

	// Size in bytes (0 when the remote store omits it)
	Size int64

	// CreatedAt is the creation timestamp, verbatim from the remote store
	CreatedAt string

	// ParentID is the immediate parent folder identifier
	// Empty when the entry sits at the drive root
	ParentID string

	// Link is the direct-access URL (may be empty)
	Link string

	// DurationMillis is the media duration hint in milliseconds,
	// verbatim from the remote store (empty when absent)
	DurationMillis string
}

// IsFolder returns true if this entry is a folder
func (e Entry) IsFolder() bool {
	return e.Type == EntryTypeFolder
}

// IsFile returns true if this entry is a regular, cataloguable file
func (e Entry) IsFile() bool {
	return e.Type == EntryTypeFile
}

package scan

// folderMeta is one memoized folder: its name and immediate parent
type folderMeta struct {
	name     string
	parentID string
}

// FolderCache memoizes folder name/parent pairs for the lifetime of one scan.
// It is purely a memo, never authoritative: a missing entry is rebuilt by
// re-querying the remote store. Entries are write-once per identifier so
// sibling resolutions sharing an ancestor reuse the first lookup's result.
//
// The cache is owned by a single scan invocation and is not safe for
// concurrent use.
type FolderCache struct {
	entries map[string]folderMeta
}

// NewFolderCache creates an empty cache
func NewFolderCache() *FolderCache {
	return &FolderCache{
		entries: make(map[string]folderMeta),
	}
}

// get returns the memoized meta for id
func (c *FolderCache) get(id string) (folderMeta, bool) {
	meta, ok := c.entries[id]
	return meta, ok
}

// put memoizes the name/parent pair for id. The first write wins;
// later writes for the same identifier are ignored.
func (c *FolderCache) put(id, name, parentID string) {
	if _, ok := c.entries[id]; ok {
		return
	}
	c.entries[id] = folderMeta{name: name, parentID: parentID}
}

// Seed pre-populates the cache, mainly for tests
func (c *FolderCache) Seed(id, name, parentID string) {
	c.put(id, name, parentID)
}

// Len returns the number of memoized folders
func (c *FolderCache) Len() int {
	return len(c.entries)
}

package catalog

import (
	"sort"

	"github.com/calebmor/drivecat/internal/domain"
)

// Catalog maps file identifiers to their records. The identifier is
// the sole merge key; record presence means the file existed in the
// tree as of some scan that observed it.
type Catalog map[string]domain.FileRecord

// Merge combines a previously persisted catalog with a fresh scan.
// Freshly observed identifiers are added or replaced wholesale;
// identifiers absent from the fresh scan are carried over unchanged.
// Deletions in the remote tree are never reflected (append/refresh,
// never prune).
func Merge(existing Catalog, fresh []domain.FileRecord) Catalog {
	merged := make(Catalog, len(existing)+len(fresh))
	for id, record := range existing {
		merged[id] = record
	}
	for _, record := range fresh {
		merged[record.ID] = record
	}
	return merged
}

// SortedIDs returns the catalog's identifiers in lexical order, for
// deterministic output
func (c Catalog) SortedIDs() []string {
	ids := make([]string, 0, len(c))
	for id := range c {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

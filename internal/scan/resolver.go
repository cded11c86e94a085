package scan

import (
	"context"
	"strings"

	"github.com/calebmor/drivecat/internal/logger"
	"github.com/calebmor/drivecat/internal/remote"
)

// DefaultMaxDepth bounds the ancestor walk when a parent chain never
// reaches the root
const DefaultMaxDepth = 20

// TruncationReason explains why a resolved path stops short of the root
type TruncationReason int

const (
	// TruncationNone means the walk reached the root normally
	TruncationNone TruncationReason = iota
	// TruncationCycle means an ancestor was seen twice within one resolution
	TruncationCycle
	// TruncationDepth means the bounded maximum depth was exceeded
	TruncationDepth
	// TruncationLookup means an ancestor lookup failed at the remote store
	TruncationLookup
)

// String returns the string representation of the reason
func (r TruncationReason) String() string {
	switch r {
	case TruncationNone:
		return "none"
	case TruncationCycle:
		return "cycle"
	case TruncationDepth:
		return "depth-limit"
	case TruncationLookup:
		return "lookup-failed"
	default:
		return "unknown"
	}
}

// PathResult carries a resolved path, which may be partial. Truncated
// paths are best-effort: the scan keeps going with whatever segments
// were accumulated before the walk stopped.
type PathResult struct {
	Path      string
	Truncated bool
	Reason    TruncationReason
}

// Resolver builds full slash-separated paths by walking an entry's
// ancestor chain upward through the remote store, memoizing every
// folder it resolves in the shared FolderCache.
type Resolver struct {
	store    remote.Store
	cache    *FolderCache
	maxDepth int
	log      logger.Logger
}

// NewResolver creates a resolver backed by the given store and cache
func NewResolver(store remote.Store, cache *FolderCache, maxDepth int) *Resolver {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &Resolver{
		store:    store,
		cache:    cache,
		maxDepth: maxDepth,
		log:      logger.Get(),
	}
}

// ResolvePath resolves the absolute path of an entry from its name and
// immediate parent identifier. An empty parentID means the entry sits
// at the scan root.
//
// Ancestor lookup failures are swallowed here, not re-raised: a partial
// path is strictly better than aborting the whole scan over one
// unreachable ancestor. Cycles and over-deep chains likewise truncate
// the path instead of erroring.
func (r *Resolver) ResolvePath(ctx context.Context, entryName, parentID string) PathResult {
	if parentID == "" {
		return PathResult{Path: "/" + entryName}
	}

	segments := []string{entryName}
	seen := make(map[string]bool)
	current := parentID

	for depth := 0; current != ""; depth++ {
		if depth >= r.maxDepth {
			r.log.Warn("ancestor chain exceeds depth limit, truncating path",
				"entry", entryName, "depth", depth)
			return truncated(segments, TruncationDepth)
		}
		if seen[current] {
			// The remote tree is expected to be a forest; a cycle means
			// malformed data, not a condition to escalate
			r.log.Warn("ancestor cycle detected, truncating path",
				"entry", entryName, "ancestor", current)
			return truncated(segments, TruncationCycle)
		}
		seen[current] = true

		meta, ok := r.cache.get(current)
		if !ok {
			ancestor, err := r.store.GetEntry(ctx, current)
			if err != nil {
				r.log.Warn("ancestor lookup failed, truncating path",
					"entry", entryName, "ancestor", current, "error", err)
				return truncated(segments, TruncationLookup)
			}
			meta = folderMeta{name: ancestor.Name, parentID: ancestor.ParentID}
			r.cache.put(current, meta.name, meta.parentID)
		}

		if meta.name != "" {
			segments = append([]string{meta.name}, segments...)
		}
		current = meta.parentID
	}

	return PathResult{Path: joinPath(segments)}
}

func truncated(segments []string, reason TruncationReason) PathResult {
	return PathResult{
		Path:      joinPath(segments),
		Truncated: true,
		Reason:    reason,
	}
}

func joinPath(segments []string) string {
	return "/" + strings.Join(segments, "/")
}

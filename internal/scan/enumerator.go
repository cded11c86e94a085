package scan

import (
	"context"
	"fmt"
	"strconv"

	"github.com/calebmor/drivecat/internal/domain"
	"github.com/calebmor/drivecat/internal/logger"
	"github.com/calebmor/drivecat/internal/progress"
	"github.com/calebmor/drivecat/internal/remote"
)

// linkTemplate is the fallback URL built from the identifier when the
// remote store supplies no direct link
const linkTemplate = "https://drive.google.com/file/d/%s/view"

// Options configures one enumerator
type Options struct {
	// MaxDepth bounds the ancestor walk during path resolution
	// (DefaultMaxDepth when zero)
	MaxDepth int

	// Reporter receives scan progress updates (no-op when nil)
	Reporter progress.Reporter
}

// Stats summarizes one enumeration
type Stats struct {
	FoldersVisited int
	FilesEmitted   int
	DocsSkipped    int
	PathsTruncated int
	BytesSeen      int64
}

// Enumerator walks the remote tree breadth-first and emits one
// FileRecord per regular file. Folders are structural and never
// emitted; native documents are excluded from the catalog.
//
// Enumeration is strictly sequential: one outstanding remote call at a
// time. Each Enumerate call owns its own queue, visited set and folder
// cache, so an Enumerator can be reused across scans.
type Enumerator struct {
	store    remote.Store
	maxDepth int
	reporter progress.Reporter
	log      logger.Logger
}

// NewEnumerator creates an enumerator over the given store
func NewEnumerator(store remote.Store, opts Options) *Enumerator {
	reporter := opts.Reporter
	if reporter == nil {
		reporter = progress.NullReporter{}
	}
	maxDepth := opts.MaxDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &Enumerator{
		store:    store,
		maxDepth: maxDepth,
		reporter: reporter,
		log:      logger.Get(),
	}
}

// Enumerate lists every file reachable under rootFolderID and returns
// the records in breadth-first discovery order. An empty rootFolderID
// scans from the drive root.
//
// A listing failure aborts the whole enumeration: a partial listing
// would silently under-report the catalog, which is worse than failing.
func (e *Enumerator) Enumerate(ctx context.Context, rootFolderID string) ([]domain.FileRecord, Stats, error) {
	cache := NewFolderCache()
	resolver := NewResolver(e.store, cache, e.maxDepth)

	queue := []string{rootFolderID}
	visited := make(map[string]bool)

	var records []domain.FileRecord
	var stats Stats

	for len(queue) > 0 {
		folderID := queue[0]
		queue = queue[1:]

		// A folder discovered as a child of multiple parents is listed
		// at most once per scan
		if visited[folderID] {
			continue
		}
		visited[folderID] = true
		e.reporter.FolderStarted(folderID)

		pageToken := ""
		for {
			page, err := e.store.ListEntries(ctx, folderID, pageToken)
			if err != nil {
				e.reporter.Error(err)
				return nil, stats, fmt.Errorf("listing folder %q: %w", folderID, err)
			}

			for _, entry := range page.Entries {
				switch entry.Type {
				case domain.EntryTypeFolder:
					queue = append(queue, entry.ID)
				case domain.EntryTypeNativeDoc:
					// No byte-level representation; cannot be archived
					stats.DocsSkipped++
				default:
					record, result := e.extractRecord(ctx, resolver, entry)
					if result.Truncated {
						stats.PathsTruncated++
					}
					records = append(records, record)
					stats.FilesEmitted++
					stats.BytesSeen += entry.Size
					e.reporter.FileFound(entry.Name, entry.Size)
				}
			}

			pageToken = page.NextPageToken
			if pageToken == "" {
				break
			}
		}

		stats.FoldersVisited++
		e.reporter.FolderListed(stats.FoldersVisited)
	}

	e.log.Info("enumeration complete",
		"folders", stats.FoldersVisited,
		"files", stats.FilesEmitted,
		"docs_skipped", stats.DocsSkipped,
		"paths_truncated", stats.PathsTruncated)
	e.reporter.Finished(stats.FilesEmitted, stats.FoldersVisited, stats.BytesSeen)

	return records, stats, nil
}

// extractRecord builds the catalog record for one regular file
func (e *Enumerator) extractRecord(ctx context.Context, resolver *Resolver, entry domain.Entry) (domain.FileRecord, PathResult) {
	record := domain.FileRecord{
		ID:        entry.ID,
		Name:      entry.Name,
		SizeBytes: strconv.FormatInt(entry.Size, 10),
		Link:      entry.Link,
		CreatedAt: entry.CreatedAt,
		MimeType:  entry.MimeType,
	}

	// The duration hint is copied verbatim, audio/video only; this
	// layer never inspects file bytes
	if entry.DurationMillis != "" && domain.IsAudioVideo(entry.MimeType) {
		record.Duration = entry.DurationMillis
	}

	if record.Link == "" {
		record.Link = fmt.Sprintf(linkTemplate, entry.ID)
	}

	result := resolver.ResolvePath(ctx, entry.Name, entry.ParentID)
	record.Path = result.Path

	return record, result
}

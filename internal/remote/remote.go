package remote

import (
	"context"

	"github.com/calebmor/drivecat/internal/domain"
)

// Page is one page of a folder listing
type Page struct {
	Entries       []domain.Entry
	NextPageToken string
}

// Store defines the read-only interface to the remote drive
// All implementations must map transport errors to domain-level errors
// for consistent error handling
type Store interface {
	// ListEntries returns one page of the immediate children of folderID
	// An empty folderID lists the drive root
	// Pass the previous page's NextPageToken to continue; an empty
	// NextPageToken in the result means the listing is complete
	ListEntries(ctx context.Context, folderID, pageToken string) (Page, error)

	// GetEntry fetches a single entry by identifier, with at least
	// name and parent populated (used for ancestor lookups)
	// Returns domain.ErrNotFound if the entry doesn't exist
	GetEntry(ctx context.Context, id string) (domain.Entry, error)
}

package gdrive

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/oauth2"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/calebmor/drivecat/internal/domain"
	"github.com/calebmor/drivecat/internal/remote"
)

const (
	// MimeTypeFolder is the MIME type for Google Drive folders
	MimeTypeFolder = "application/vnd.google-apps.folder"
	// mimeTypeNativePrefix marks Google Workspace documents, which have
	// no byte-level file representation
	mimeTypeNativePrefix = "application/vnd.google-apps."
	// DefaultPageSize is the number of entries to fetch per listing request
	DefaultPageSize = 1000
	// MaxPageSize is the largest page size the Drive API accepts
	MaxPageSize = 1000

	listFields = "nextPageToken, files(id, name, mimeType, size, createdTime, parents, webViewLink, videoMediaMetadata(durationMillis))"
	getFields  = "id, name, mimeType, parents"
)

// Client implements the remote.Store interface for Google Drive
type Client struct {
	service  *drive.Service
	pageSize int64
}

// New creates a new Google Drive client using a stored OAuth token
func New(ctx context.Context, clientID, clientSecret, tokenPath string, pageSize int64) (*Client, error) {
	auth := NewAuthenticator(clientID, clientSecret, tokenPath)

	token, err := auth.GetClient(ctx)
	if err != nil {
		return nil, err
	}

	httpClient := auth.Config().Client(ctx, token)

	service, err := drive.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create Drive service: %w", err)
	}

	return NewWithService(service, pageSize), nil
}

// NewWithToken creates a new client with an existing token
func NewWithToken(ctx context.Context, token *oauth2.Token, oauthConfig *oauth2.Config, pageSize int64) (*Client, error) {
	httpClient := oauthConfig.Client(ctx, token)

	service, err := drive.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create Drive service: %w", err)
	}

	return NewWithService(service, pageSize), nil
}

// NewWithService wraps an already-constructed Drive service
func NewWithService(service *drive.Service, pageSize int64) *Client {
	if pageSize <= 0 || pageSize > MaxPageSize {
		pageSize = DefaultPageSize
	}
	return &Client{
		service:  service,
		pageSize: pageSize,
	}
}

// ListEntries returns one page of the children of folderID
// An empty folderID lists the children of the drive root
func (c *Client) ListEntries(ctx context.Context, folderID, pageToken string) (remote.Page, error) {
	parent := folderID
	if parent == "" {
		parent = "root"
	}
	query := fmt.Sprintf("'%s' in parents and trashed = false", escapeQueryString(parent))

	call := c.service.Files.List().
		Q(query).
		PageSize(c.pageSize).
		Fields(listFields)

	if pageToken != "" {
		call = call.PageToken(pageToken)
	}

	fileList, err := call.Context(ctx).Do()
	if err != nil {
		return remote.Page{}, mapError(err)
	}

	page := remote.Page{
		Entries:       make([]domain.Entry, 0, len(fileList.Files)),
		NextPageToken: fileList.NextPageToken,
	}
	for _, f := range fileList.Files {
		page.Entries = append(page.Entries, entryFromFile(f))
	}

	return page, nil
}

// GetEntry fetches a single entry, requesting name and parent fields
func (c *Client) GetEntry(ctx context.Context, id string) (domain.Entry, error) {
	file, err := c.service.Files.Get(id).
		Fields(getFields).
		Context(ctx).Do()
	if err != nil {
		return domain.Entry{}, mapError(err)
	}

	return entryFromFile(file), nil
}

// entryFromFile converts a Drive file to a domain.Entry
func entryFromFile(f *drive.File) domain.Entry {
	entry := domain.Entry{
		ID:        f.Id,
		Name:      f.Name,
		Type:      classifyMimeType(f.MimeType),
		MimeType:  f.MimeType,
		Size:      f.Size,
		CreatedAt: f.CreatedTime,
		Link:      f.WebViewLink,
	}

	// The source tree is a forest: at most one parent per entry
	if len(f.Parents) > 0 {
		entry.ParentID = f.Parents[0]
	}

	if f.VideoMediaMetadata != nil && f.VideoMediaMetadata.DurationMillis > 0 {
		entry.DurationMillis = strconv.FormatInt(f.VideoMediaMetadata.DurationMillis, 10)
	}

	return entry
}

// classifyMimeType maps a Drive MIME type to an entry type
func classifyMimeType(mimeType string) domain.EntryType {
	if mimeType == MimeTypeFolder {
		return domain.EntryTypeFolder
	}
	if strings.HasPrefix(mimeType, mimeTypeNativePrefix) {
		return domain.EntryTypeNativeDoc
	}
	return domain.EntryTypeFile
}

// escapeQueryString escapes special characters in Drive query strings
func escapeQueryString(s string) string {
	// Escape backslash first, then single quote
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "'", "\\'")
	return s
}

// mapError converts Google API errors to domain errors
func mapError(err error) error {
	if err == nil {
		return nil
	}

	var apiErr *googleapi.Error
	if ok := errors.As(err, &apiErr); ok {
		switch apiErr.Code {
		case 404:
			return domain.ErrNotFound
		case 403:
			// 403 covers both permission problems and per-user quota;
			// distinguish by the error reason where possible
			for _, e := range apiErr.Errors {
				if e.Reason == "userRateLimitExceeded" || e.Reason == "rateLimitExceeded" {
					return fmt.Errorf("%w: %v", domain.ErrRateLimited, err)
				}
				if e.Reason == "quotaExceeded" {
					return fmt.Errorf("%w: %v", domain.ErrQuotaExceeded, err)
				}
			}
			return domain.ErrPermissionDenied
		case 429:
			return fmt.Errorf("%w: %v", domain.ErrRateLimited, err)
		}
	}

	// Fallback to string matching for non-googleapi errors
	if strings.Contains(err.Error(), "notFound") {
		return domain.ErrNotFound
	}

	return err
}

// Compile-time interface check
var _ remote.Store = (*Client)(nil)

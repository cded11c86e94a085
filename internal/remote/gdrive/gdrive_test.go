package gdrive

import (
	"errors"
	"fmt"
	"testing"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"

	"github.com/calebmor/drivecat/internal/domain"
)

func TestClassifyMimeType(t *testing.T) {
	tests := []struct {
		mimeType string
		want     domain.EntryType
	}{
		{"application/vnd.google-apps.folder", domain.EntryTypeFolder},
		{"application/vnd.google-apps.document", domain.EntryTypeNativeDoc},
		{"application/vnd.google-apps.spreadsheet", domain.EntryTypeNativeDoc},
		{"application/vnd.google-apps.shortcut", domain.EntryTypeNativeDoc},
		{"application/pdf", domain.EntryTypeFile},
		{"video/mp4", domain.EntryTypeFile},
		{"", domain.EntryTypeFile},
	}

	for _, tt := range tests {
		if got := classifyMimeType(tt.mimeType); got != tt.want {
			t.Errorf("classifyMimeType(%q) = %v, want %v", tt.mimeType, got, tt.want)
		}
	}
}

func TestEntryFromFile(t *testing.T) {
	f := &drive.File{
		Id:          "abc123",
		Name:        "clip.mp4",
		MimeType:    "video/mp4",
		Size:        2048,
		CreatedTime: "2024-03-01T10:00:00.000Z",
		WebViewLink: "https://drive.google.com/file/d/abc123/view",
		Parents:     []string{"parent1"},
		VideoMediaMetadata: &drive.FileVideoMediaMetadata{
			DurationMillis: 90500,
		},
	}

	entry := entryFromFile(f)
	if entry.ID != "abc123" || entry.Name != "clip.mp4" {
		t.Errorf("identity fields wrong: %+v", entry)
	}
	if entry.Type != domain.EntryTypeFile {
		t.Errorf("expected file type, got %v", entry.Type)
	}
	if entry.Size != 2048 {
		t.Errorf("expected size 2048, got %d", entry.Size)
	}
	if entry.ParentID != "parent1" {
		t.Errorf("expected first parent, got %q", entry.ParentID)
	}
	if entry.DurationMillis != "90500" {
		t.Errorf("expected duration %q, got %q", "90500", entry.DurationMillis)
	}
	if entry.CreatedAt != "2024-03-01T10:00:00.000Z" {
		t.Errorf("created time not copied verbatim: %q", entry.CreatedAt)
	}
}

func TestEntryFromFile_Minimal(t *testing.T) {
	entry := entryFromFile(&drive.File{Id: "x", Name: "x.bin", MimeType: "application/octet-stream"})
	if entry.ParentID != "" {
		t.Errorf("expected empty parent, got %q", entry.ParentID)
	}
	if entry.DurationMillis != "" {
		t.Errorf("expected empty duration, got %q", entry.DurationMillis)
	}
	if entry.Size != 0 {
		t.Errorf("expected zero size, got %d", entry.Size)
	}
}

func TestEscapeQueryString(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"simple", "simple"},
		{"with'quote", "with\\'quote"},
		{"back\\slash", "back\\\\slash"},
		{"both\\'mixed", "both\\\\\\'mixed"},
	}

	for _, tt := range tests {
		if got := escapeQueryString(tt.input); got != tt.want {
			t.Errorf("escapeQueryString(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestMapError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{
			name: "nil",
			err:  nil,
			want: nil,
		},
		{
			name: "404 maps to not found",
			err:  &googleapi.Error{Code: 404},
			want: domain.ErrNotFound,
		},
		{
			name: "403 defaults to permission denied",
			err:  &googleapi.Error{Code: 403},
			want: domain.ErrPermissionDenied,
		},
		{
			name: "403 user rate limit",
			err: &googleapi.Error{Code: 403, Errors: []googleapi.ErrorItem{
				{Reason: "userRateLimitExceeded"},
			}},
			want: domain.ErrRateLimited,
		},
		{
			name: "403 quota exceeded",
			err: &googleapi.Error{Code: 403, Errors: []googleapi.ErrorItem{
				{Reason: "quotaExceeded"},
			}},
			want: domain.ErrQuotaExceeded,
		},
		{
			name: "429 maps to rate limited",
			err:  &googleapi.Error{Code: 429},
			want: domain.ErrRateLimited,
		},
		{
			name: "wrapped googleapi error",
			err:  fmt.Errorf("request failed: %w", &googleapi.Error{Code: 404}),
			want: domain.ErrNotFound,
		},
		{
			name: "string fallback",
			err:  errors.New("googleapi: Error: notFound"),
			want: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mapError(tt.err)
			if tt.want == nil {
				if got != nil {
					t.Errorf("mapError() = %v, want nil", got)
				}
				return
			}
			if !errors.Is(got, tt.want) {
				t.Errorf("mapError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestMapError_PassthroughUnknown(t *testing.T) {
	unknown := errors.New("connection reset")
	if got := mapError(unknown); got != unknown {
		t.Errorf("unknown errors must pass through, got %v", got)
	}
}

func TestNewWithService_PageSizeClamped(t *testing.T) {
	tests := []struct {
		pageSize int64
		want     int64
	}{
		{0, DefaultPageSize},
		{-5, DefaultPageSize},
		{500, 500},
		{MaxPageSize, MaxPageSize},
		{MaxPageSize + 1, DefaultPageSize},
	}

	for _, tt := range tests {
		c := NewWithService(nil, tt.pageSize)
		if c.pageSize != tt.want {
			t.Errorf("NewWithService(pageSize=%d) = %d, want %d", tt.pageSize, c.pageSize, tt.want)
		}
	}
}

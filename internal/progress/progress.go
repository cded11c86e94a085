package progress

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// Reporter receives progress updates during a scan
type Reporter interface {
	// FolderStarted reports that a folder's listing has begun
	FolderStarted(folderID string)
	// FolderListed reports that a folder has been fully listed
	FolderListed(foldersVisited int)
	// FileFound reports one cataloged file
	FileFound(name string, sizeBytes int64)
	// Finished reports the final scan totals
	Finished(filesFound, foldersVisited int, bytesSeen int64)
	// Error reports a scan-fatal error
	Error(err error)
}

// Callback is a function that receives progress updates
type Callback func(update Update)

// Update represents a progress update
type Update struct {
	Type           UpdateType
	FolderID       string
	CurrentFile    string
	FoldersVisited int
	FilesFound     int
	BytesSeen      int64
	FilesPerSecond float64
	Err            error
}

// UpdateType indicates the type of progress update
type UpdateType int

const (
	UpdateFolderStarted UpdateType = iota
	UpdateFolderListed
	UpdateFileFound
	UpdateFinished
	UpdateError
)

// CallbackReporter implements Reporter with a callback function
type CallbackReporter struct {
	callback       Callback
	mu             sync.Mutex
	foldersVisited int
	filesFound     int
	bytesSeen      int64
	startTime      time.Time
}

// NewCallbackReporter creates a new CallbackReporter
func NewCallbackReporter(callback Callback) *CallbackReporter {
	return &CallbackReporter{
		callback:  callback,
		startTime: time.Now(),
	}
}

// FolderStarted reports that a folder's listing has begun
func (r *CallbackReporter) FolderStarted(folderID string) {
	r.mu.Lock()
	update := Update{
		Type:           UpdateFolderStarted,
		FolderID:       folderID,
		FoldersVisited: r.foldersVisited,
		FilesFound:     r.filesFound,
		BytesSeen:      r.bytesSeen,
	}
	callback := r.callback
	r.mu.Unlock()

	// Invoke outside the lock to prevent deadlock
	if callback != nil {
		callback(update)
	}
}

// FolderListed reports that a folder has been fully listed
func (r *CallbackReporter) FolderListed(foldersVisited int) {
	r.mu.Lock()
	r.foldersVisited = foldersVisited
	update := Update{
		Type:           UpdateFolderListed,
		FoldersVisited: foldersVisited,
		FilesFound:     r.filesFound,
		BytesSeen:      r.bytesSeen,
	}
	callback := r.callback
	r.mu.Unlock()

	if callback != nil {
		callback(update)
	}
}

// FileFound reports one cataloged file
func (r *CallbackReporter) FileFound(name string, sizeBytes int64) {
	r.mu.Lock()
	r.filesFound++
	r.bytesSeen += sizeBytes

	var filesPerSecond float64
	elapsed := time.Since(r.startTime).Seconds()
	if elapsed > 0 {
		filesPerSecond = float64(r.filesFound) / elapsed
	}

	update := Update{
		Type:           UpdateFileFound,
		CurrentFile:    name,
		FoldersVisited: r.foldersVisited,
		FilesFound:     r.filesFound,
		BytesSeen:      r.bytesSeen,
		FilesPerSecond: filesPerSecond,
	}
	callback := r.callback
	r.mu.Unlock()

	if callback != nil {
		callback(update)
	}
}

// Finished reports the final scan totals
func (r *CallbackReporter) Finished(filesFound, foldersVisited int, bytesSeen int64) {
	r.mu.Lock()
	r.filesFound = filesFound
	r.foldersVisited = foldersVisited
	r.bytesSeen = bytesSeen
	update := Update{
		Type:           UpdateFinished,
		FoldersVisited: foldersVisited,
		FilesFound:     filesFound,
		BytesSeen:      bytesSeen,
	}
	callback := r.callback
	r.mu.Unlock()

	if callback != nil {
		callback(update)
	}
}

// Error reports a scan-fatal error
func (r *CallbackReporter) Error(err error) {
	r.mu.Lock()
	update := Update{
		Type:           UpdateError,
		FoldersVisited: r.foldersVisited,
		FilesFound:     r.filesFound,
		BytesSeen:      r.bytesSeen,
		Err:            err,
	}
	callback := r.callback
	r.mu.Unlock()

	if callback != nil {
		callback(update)
	}
}

// ConsoleReporter prints a single updating status line to a writer
type ConsoleReporter struct {
	w  io.Writer
	mu sync.Mutex

	foldersVisited int
	filesFound     int
	bytesSeen      int64
}

// NewConsoleReporter creates a reporter writing to w
func NewConsoleReporter(w io.Writer) *ConsoleReporter {
	return &ConsoleReporter{w: w}
}

func (r *ConsoleReporter) FolderStarted(folderID string) {}

func (r *ConsoleReporter) FolderListed(foldersVisited int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.foldersVisited = foldersVisited
	r.print()
}

func (r *ConsoleReporter) FileFound(name string, sizeBytes int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.filesFound++
	r.bytesSeen += sizeBytes
	r.print()
}

func (r *ConsoleReporter) Finished(filesFound, foldersVisited int, bytesSeen int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintf(r.w, "\rScanned %d folders, found %d files (%s)\n",
		foldersVisited, filesFound, FormatBytes(bytesSeen))
}

func (r *ConsoleReporter) Error(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintf(r.w, "\rScan failed: %v\n", err)
}

func (r *ConsoleReporter) print() {
	fmt.Fprintf(r.w, "\rFolders: %d  Files: %d  Size: %s ",
		r.foldersVisited, r.filesFound, FormatBytes(r.bytesSeen))
}

// NullReporter is a no-op reporter
type NullReporter struct{}

func (NullReporter) FolderStarted(folderID string)                            {}
func (NullReporter) FolderListed(foldersVisited int)                          {}
func (NullReporter) FileFound(name string, sizeBytes int64)                   {}
func (NullReporter) Finished(filesFound, foldersVisited int, bytesSeen int64) {}
func (NullReporter) Error(err error)                                          {}

// FormatBytes formats bytes into human-readable string
func FormatBytes(bytes int64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
	)

	switch {
	case bytes >= GB:
		return fmt.Sprintf("%.1f GB", float64(bytes)/GB)
	case bytes >= MB:
		return fmt.Sprintf("%.1f MB", float64(bytes)/MB)
	case bytes >= KB:
		return fmt.Sprintf("%.1f KB", float64(bytes)/KB)
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}

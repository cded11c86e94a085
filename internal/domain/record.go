package domain

// FileRecord is one catalog entry for a regular file
// ID is the sole merge key; all other fields are replaced wholesale
// when a fresh scan observes the same identifier
type FileRecord struct {
	ID        string
	Name      string
	SizeBytes string // numeric string, "0" when the remote store omits the size
	Duration  string // milliseconds, set only for audio/video files with a duration hint
	Path      string // full slash-separated path resolved from the ancestor chain
	Link      string
	CreatedAt string
	MimeType  string
}

// audioMimeTypes and videoMimeTypes decide whether a remote duration
// hint is copied into the catalog record
var audioMimeTypes = map[string]bool{
	"audio/mpeg":   true,
	"audio/mp3":    true,
	"audio/mp4":    true,
	"audio/wav":    true,
	"audio/flac":   true,
	"audio/ogg":    true,
	"audio/aac":    true,
	"audio/x-m4a":  true,
	"audio/webm":   true,
}

var videoMimeTypes = map[string]bool{
	"video/mp4":        true,
	"video/mpeg":       true,
	"video/quicktime":  true,
	"video/x-msvideo":  true,
	"video/x-matroska": true,
	"video/webm":       true,
	"video/3gpp":       true,
}

// IsAudioVideo reports whether the MIME type is a known audio or video type
func IsAudioVideo(mimeType string) bool {
	return audioMimeTypes[mimeType] || videoMimeTypes[mimeType]
}

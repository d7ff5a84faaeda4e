package fileutil

import (
	"path/filepath"
	"strings"
)

// supportedMediaExtensions lists the audio and video containers accepted
// for transcription.
var supportedMediaExtensions = map[string]bool{
	// audio
	".mp3": true, ".wav": true, ".m4a": true, ".flac": true,
	".aac": true, ".ogg": true, ".wma": true, ".aiff": true,
	// video
	".mp4": true, ".avi": true, ".mov": true, ".mkv": true,
	".webm": true, ".flv": true, ".wmv": true, ".m4v": true,
}

// transcriptExtensions lists the file types that count as an existing
// transcript when scanning for work.
var transcriptExtensions = map[string]bool{
	".txt": true, ".json": true, ".srt": true, ".vtt": true,
}

// IsSupportedMedia reports whether the filename has a recognized
// audio/video extension.
func IsSupportedMedia(name string) bool {
	return supportedMediaExtensions[strings.ToLower(filepath.Ext(name))]
}

// IsTranscript reports whether the filename has a transcript extension.
func IsTranscript(name string) bool {
	return transcriptExtensions[strings.ToLower(filepath.Ext(name))]
}

// Stem returns the base filename without its extension, used to match
// media files to their transcripts.
func Stem(name string) string {
	base := filepath.Base(name)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

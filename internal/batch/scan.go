// Package batch finds media files that still need transcription: every
// supported audio/video file in the media folder without a transcript of
// any format sharing its stem in the transcripts folder.
package batch

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/echoscribe/echoscribe-backend/internal/fileutil"
)

// MediaFiles lists supported media files in dir, creating dir when
// missing.
func MediaFiles(dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating media folder %q: %w", dir, err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || !fileutil.IsSupportedMedia(e.Name()) {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	return files, nil
}

// TranscribedStems returns the set of stems that already have a
// transcript in dir, creating dir when missing.
func TranscribedStems(dir string) (map[string]bool, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating transcripts folder %q: %w", dir, err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	stems := make(map[string]bool)
	for _, e := range entries {
		if e.IsDir() || !fileutil.IsTranscript(e.Name()) {
			continue
		}
		stems[fileutil.Stem(e.Name())] = true
	}
	return stems, nil
}

// Pending returns the media files in mediaDir with no matching
// transcript in transcriptsDir.
func Pending(mediaDir, transcriptsDir string) ([]string, error) {
	media, err := MediaFiles(mediaDir)
	if err != nil {
		return nil, err
	}
	done, err := TranscribedStems(transcriptsDir)
	if err != nil {
		return nil, err
	}
	var pending []string
	for _, f := range media {
		if !done[fileutil.Stem(f)] {
			pending = append(pending, f)
		}
	}
	return pending, nil
}

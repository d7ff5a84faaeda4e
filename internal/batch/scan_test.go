package batch

import (
	"os"
	"path/filepath"
	"testing"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestPending(t *testing.T) {
	mediaDir := t.TempDir()
	transcriptsDir := t.TempDir()

	touch(t, filepath.Join(mediaDir, "interview.mp3"))
	touch(t, filepath.Join(mediaDir, "lecture.mp4"))
	touch(t, filepath.Join(mediaDir, "notes.pdf"))
	touch(t, filepath.Join(transcriptsDir, "interview.srt"))

	pending, err := Pending(mediaDir, transcriptsDir)
	if err != nil {
		t.Fatalf("Pending: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("expected 1 pending file, got %v", pending)
	}
	if filepath.Base(pending[0]) != "lecture.mp4" {
		t.Fatalf("expected lecture.mp4, got %s", pending[0])
	}
}

func TestPendingAllDone(t *testing.T) {
	mediaDir := t.TempDir()
	transcriptsDir := t.TempDir()

	touch(t, filepath.Join(mediaDir, "a.wav"))
	touch(t, filepath.Join(transcriptsDir, "a.txt"))

	pending, err := Pending(mediaDir, transcriptsDir)
	if err != nil {
		t.Fatalf("Pending: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("expected no pending files, got %v", pending)
	}
}

func TestPendingCreatesMissingFolders(t *testing.T) {
	root := t.TempDir()
	mediaDir := filepath.Join(root, "media")
	transcriptsDir := filepath.Join(root, "transcripts")

	pending, err := Pending(mediaDir, transcriptsDir)
	if err != nil {
		t.Fatalf("Pending: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("expected no pending files, got %v", pending)
	}
	for _, dir := range []string{mediaDir, transcriptsDir} {
		if _, err := os.Stat(dir); err != nil {
			t.Fatalf("expected %s to exist: %v", dir, err)
		}
	}
}

func TestMediaFilesSkipsDirsAndUnsupported(t *testing.T) {
	mediaDir := t.TempDir()
	touch(t, filepath.Join(mediaDir, "clip.mov"))
	touch(t, filepath.Join(mediaDir, "readme.md"))
	if err := os.Mkdir(filepath.Join(mediaDir, "sub.mp3"), 0o755); err != nil {
		t.Fatal(err)
	}

	files, err := MediaFiles(mediaDir)
	if err != nil {
		t.Fatalf("MediaFiles: %v", err)
	}
	if len(files) != 1 || filepath.Base(files[0]) != "clip.mov" {
		t.Fatalf("expected only clip.mov, got %v", files)
	}
}

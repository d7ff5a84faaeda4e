package fileutil

import "testing"

func TestIsSupportedMedia(t *testing.T) {
	cases := []struct {
		name string
		want bool
	}{
		{"song.mp3", true},
		{"SONG.MP3", true},
		{"clip.webm", true},
		{"movie.m4v", true},
		{"notes.txt", false},
		{"archive.zip", false},
		{"noext", false},
	}
	for _, tc := range cases {
		if got := IsSupportedMedia(tc.name); got != tc.want {
			t.Errorf("IsSupportedMedia(%q) = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestStem(t *testing.T) {
	if got := Stem("/files/meeting.notes.mp4"); got != "meeting.notes" {
		t.Errorf("Stem = %q", got)
	}
	if got := Stem("plain"); got != "plain" {
		t.Errorf("Stem = %q", got)
	}
}

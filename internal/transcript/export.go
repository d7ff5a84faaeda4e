package transcript

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
)

// Format identifies an export encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatTXT  Format = "txt"
	FormatSRT  Format = "srt"
)

// ParseFormat validates a caller-supplied format string.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatJSON:
		return FormatJSON, nil
	case FormatTXT:
		return FormatTXT, nil
	case FormatSRT:
		return FormatSRT, nil
	}
	return "", fmt.Errorf("unsupported export format %q", s)
}

// Export serializes the transcript in the requested format.
func Export(t *Transcript, f Format) ([]byte, error) {
	switch f {
	case FormatJSON:
		return ExportJSON(t)
	case FormatTXT:
		return ExportTXT(t), nil
	case FormatSRT:
		return ExportSRT(t), nil
	}
	return nil, fmt.Errorf("unsupported export format %q", f)
}

// ExportJSON renders the full transcript object pretty-printed with
// two-space indentation, verbatim.
func ExportJSON(t *Transcript) ([]byte, error) {
	return json.MarshalIndent(t, "", "  ")
}

// ExportTXT renders a language/confidence header followed by the raw
// transcript text. Confidence is the language probability as a
// percentage with one decimal.
func ExportTXT(t *Transcript) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "Language: %s\n", t.LanguageCode)
	fmt.Fprintf(&b, "Confidence: %.1f%%\n\n", t.LanguageProbability*100)
	b.WriteString(t.Text)
	return []byte(b.String())
}

// ExportSRT renders the pause-grouped cues as SubRip blocks: index line,
// time range line, text line, blank separator line.
func ExportSRT(t *Transcript) []byte {
	var b strings.Builder
	for _, cue := range Cues(t.Words) {
		fmt.Fprintf(&b, "%d\n", cue.Index)
		fmt.Fprintf(&b, "%s --> %s\n", FormatTimestamp(cue.Start), FormatTimestamp(cue.End))
		fmt.Fprintf(&b, "%s\n\n", cue.Text)
	}
	return []byte(b.String())
}

// ExportWithSpeakers serializes the transcript with speaker-aware
// rendering for diarized runs: srt breaks cues on speaker change, txt
// appends a per-speaker breakdown. A transcript without speaker ids gets
// the plain txt rendering and srt cues grouped by the tighter gap rule
// alone.
func ExportWithSpeakers(t *Transcript, f Format) ([]byte, error) {
	switch f {
	case FormatJSON:
		return ExportJSON(t)
	case FormatTXT:
		return ExportTXTSpeakers(t), nil
	case FormatSRT:
		return ExportSRTSpeakers(t), nil
	}
	return nil, fmt.Errorf("unsupported export format %q", f)
}

// HasSpeakers reports whether any word carries a speaker id.
func HasSpeakers(words []Word) bool {
	for _, w := range words {
		if w.SpeakerID != "" {
			return true
		}
	}
	return false
}

// ExportTXTSpeakers renders the plain txt export and, when the
// transcript is diarized, appends a breakdown with one block per speaker
// turn. Audio events are parenthesized.
func ExportTXTSpeakers(t *Transcript) []byte {
	out := ExportTXT(t)
	if !HasSpeakers(t.Words) {
		return out
	}
	var b strings.Builder
	b.Write(out)
	b.WriteString("\n\nDetailed breakdown with speakers:\n")
	currentSpeaker := ""
	for _, w := range t.Words {
		if w.Type == "spacing" {
			continue
		}
		if w.SpeakerID != "" && w.SpeakerID != currentSpeaker {
			currentSpeaker = w.SpeakerID
			fmt.Fprintf(&b, "\n[%s]: ", strings.ToUpper(currentSpeaker))
		}
		if w.Type == "audio_event" {
			fmt.Fprintf(&b, "(%s) ", w.Text)
		} else {
			fmt.Fprintf(&b, "%s ", w.Text)
		}
	}
	b.WriteString("\n")
	return []byte(b.String())
}

// ExportSRTSpeakers renders cues grouped by speaker turn instead of the
// pause heuristic. Without speaker ids the gap rule alone applies.
func ExportSRTSpeakers(t *Transcript) []byte {
	var b strings.Builder
	for _, cue := range SpeakerCues(t.Words) {
		fmt.Fprintf(&b, "%d\n", cue.Index)
		fmt.Fprintf(&b, "%s --> %s\n", FormatTimestamp(cue.Start), FormatTimestamp(cue.End))
		fmt.Fprintf(&b, "%s\n\n", cue.Text)
	}
	return []byte(b.String())
}

// ExportFilename derives the download filename from the original media
// filename: extension stripped, format extension appended.
func ExportFilename(mediaName string, f Format) string {
	base := strings.TrimSuffix(mediaName, filepath.Ext(mediaName))
	if base == "" {
		base = "transcript"
	}
	return base + "." + string(f)
}

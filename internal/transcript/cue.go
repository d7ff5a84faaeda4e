package transcript

import (
	"fmt"
	"math"
	"strings"
)

// pauseThreshold is the silence gap, in seconds, that closes a subtitle
// cue and starts the next one.
const pauseThreshold = 1.5

// speakerPauseThreshold is the tighter gap used when grouping diarized
// words, where cues also break on speaker change.
const speakerPauseThreshold = 1.0

// Cues groups words into subtitle cues using a pause heuristic. Only
// entries with type "word" extend the current cue; after appending one,
// the cue is closed when there is no next element in the raw sequence or
// when the next element starts more than pauseThreshold seconds after
// the cue's current end. The lookahead inspects the literal next
// element, not the next word-typed one, so a spacing token's timing can
// keep a cue open. Indices are sequential starting at 1.
func Cues(words []Word) []Cue {
	var cues []Cue

	currentText := ""
	startTime := 0.0
	endTime := 0.0

	for i, w := range words {
		if w.Type != "word" {
			continue
		}
		if currentText == "" {
			startTime = w.Start
		}
		currentText += w.Text + " "
		endTime = w.End

		last := i == len(words)-1
		if last || words[i+1].Start-endTime > pauseThreshold {
			cues = append(cues, Cue{
				Index: len(cues) + 1,
				Start: startTime,
				End:   endTime,
				Text:  strings.TrimSpace(currentText),
			})
			currentText = ""
		}
	}

	return cues
}

// SpeakerCues groups diarized words into subtitle cues: a new cue starts
// when the speaker id changes or when the gap to the previous entry
// exceeds speakerPauseThreshold. Spacing tokens are skipped; audio
// events ride along with the current speaker. Indices are sequential
// starting at 1.
func SpeakerCues(words []Word) []Cue {
	var cues []Cue
	var texts []string

	currentSpeaker := ""
	open := false
	startTime := 0.0
	endTime := 0.0

	flush := func() {
		if len(texts) == 0 {
			return
		}
		cues = append(cues, Cue{
			Index: len(cues) + 1,
			Start: startTime,
			End:   endTime,
			Text:  strings.Join(texts, " "),
		})
		texts = texts[:0]
	}

	for _, w := range words {
		if w.Type == "spacing" {
			continue
		}
		if open && (w.SpeakerID != currentSpeaker || w.Start-endTime > speakerPauseThreshold) {
			flush()
			open = false
		}
		if !open {
			currentSpeaker = w.SpeakerID
			startTime = w.Start
			open = true
		}
		texts = append(texts, w.Text)
		endTime = w.End
	}
	flush()

	return cues
}

// FormatTimestamp renders a position in seconds as the SubRip timestamp
// HH:MM:SS,mmm with zero padding and a comma millisecond separator. The
// exact shape matters for player compatibility.
func FormatTimestamp(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) {
		return "00:00:00,000"
	}
	total := int64(math.Round(seconds * 1000))
	h := total / 3600000
	m := total % 3600000 / 60000
	s := total % 60000 / 1000
	ms := total % 1000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, s, ms)
}

// Package transcript holds the word-timing data model returned by the
// speech-to-text provider and the pure derivations computed from it:
// sentence segmentation, playback synchronization, subtitle cue grouping
// and the json/txt/srt exporters.
package transcript

// Word is a single recognized token with a timing interval, as returned
// by the provider. Type is "word", "spacing" or "audio_event"; only
// "word" entries participate in segmentation.
type Word struct {
	Text      string  `json:"text"`
	Start     float64 `json:"start"`
	End       float64 `json:"end"`
	Type      string  `json:"type"`
	SpeakerID string  `json:"speaker_id,omitempty"`
}

// Sentence is a period-delimited grouping of words with an inclusive
// time span, used for display and click-to-seek.
type Sentence struct {
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Cue is a pause-delimited grouping of words used for subtitle export.
// Cue boundaries are independent of sentence boundaries and the two
// groupings may disagree in number.
type Cue struct {
	Index int     `json:"index"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// Transcript is the provider response for one media file. It is replaced
// wholesale on each generation; sentences and cues are recomputed from it
// on demand and hold no independent state.
type Transcript struct {
	LanguageCode        string  `json:"language_code"`
	LanguageProbability float64 `json:"language_probability"`
	Text                string  `json:"text"`
	Words               []Word  `json:"words"`
}

// Empty reports whether the transcript carries no usable content.
func (t *Transcript) Empty() bool {
	return t == nil || (t.Text == "" && len(t.Words) == 0)
}

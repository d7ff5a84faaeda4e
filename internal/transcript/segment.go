package transcript

import "strings"

// Sentences groups words into sentences on period boundaries. A sentence
// ends at any word whose text ends with a literal '.'; other terminators
// such as '?' and '!' are intentionally not boundaries. Entries whose
// type is not "word" are skipped. Trailing words with no terminating
// period form one final sentence. An empty word list, or one containing
// only non-word tokens, yields no sentences.
func Sentences(words []Word) []Sentence {
	var sentences []Sentence
	var buffer []Word

	flush := func() {
		if len(buffer) == 0 {
			return
		}
		texts := make([]string, len(buffer))
		for i, w := range buffer {
			texts[i] = w.Text
		}
		sentences = append(sentences, Sentence{
			Text:  strings.Join(texts, " "),
			Start: buffer[0].Start,
			End:   buffer[len(buffer)-1].End,
		})
		buffer = buffer[:0]
	}

	for _, w := range words {
		if w.Type != "word" {
			continue
		}
		buffer = append(buffer, w)
		// The non-empty check lives in flush: a period word arriving on
		// an empty buffer never emits an empty sentence, it just opens
		// the next one.
		if strings.HasSuffix(w.Text, ".") {
			flush()
		}
	}
	flush()

	return sentences
}

// ActiveSentence returns the index of the first sentence whose time span
// contains t, bounds inclusive, or -1 when t falls in a gap between
// sentences. The scan is stateless and restarts from the beginning on
// every call, so arbitrary seeks and non-monotonic t are fine; the first
// match wins when spans overlap.
func ActiveSentence(sentences []Sentence, t float64) int {
	for i, s := range sentences {
		if t >= s.Start && t <= s.End {
			return i
		}
	}
	return -1
}

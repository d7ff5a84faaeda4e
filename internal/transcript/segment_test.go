package transcript

import (
	"reflect"
	"testing"
)

func w(text string, start, end float64) Word {
	return Word{Type: "word", Text: text, Start: start, End: end}
}

func spacing(start, end float64) Word {
	return Word{Type: "spacing", Text: " ", Start: start, End: end}
}

func TestSentencesBasic(t *testing.T) {
	words := []Word{
		w("Hello", 0, 1),
		w("world.", 1, 2),
		w("Bye.", 2, 3),
	}
	got := Sentences(words)
	want := []Sentence{
		{Text: "Hello world.", Start: 0, End: 2},
		{Text: "Bye.", Start: 2, End: 3},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Sentences() = %+v, want %+v", got, want)
	}
}

func TestSentencesTrailingRemainder(t *testing.T) {
	words := []Word{
		w("One.", 0, 1),
		w("and", 1, 2),
		w("then", 2, 3),
	}
	got := Sentences(words)
	if len(got) != 2 {
		t.Fatalf("expected 2 sentences, got %d: %+v", len(got), got)
	}
	if got[1].Text != "and then" {
		t.Errorf("trailing sentence text = %q, want %q", got[1].Text, "and then")
	}
	if got[1].Start != 1 || got[1].End != 3 {
		t.Errorf("trailing sentence span = [%v, %v], want [1, 3]", got[1].Start, got[1].End)
	}
}

func TestSentencesSkipsNonWordTokens(t *testing.T) {
	plain := []Word{
		w("Hello", 0, 1),
		w("there.", 1, 2),
	}
	interleaved := []Word{
		plain[0],
		spacing(1, 1),
		{Type: "audio_event", Text: "laughter", Start: 1, End: 1},
		plain[1],
	}
	if !reflect.DeepEqual(Sentences(plain), Sentences(interleaved)) {
		t.Errorf("sentence output changed when non-word tokens were interleaved")
	}
}

func TestSentencesConsecutivePeriods(t *testing.T) {
	// A period word arriving on an empty buffer must not emit an empty
	// sentence; it becomes the sole word of the next sentence.
	words := []Word{
		w("Done.", 0, 1),
		w(".", 1, 2),
		w("Next", 2, 3),
	}
	got := Sentences(words)
	want := []Sentence{
		{Text: "Done.", Start: 0, End: 1},
		{Text: ".", Start: 1, End: 2},
		{Text: "Next", Start: 2, End: 3},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Sentences() = %+v, want %+v", got, want)
	}
}

func TestSentencesEmptyInputs(t *testing.T) {
	if got := Sentences(nil); len(got) != 0 {
		t.Errorf("Sentences(nil) = %+v, want empty", got)
	}
	onlySpacing := []Word{spacing(0, 1), spacing(1, 2)}
	if got := Sentences(onlySpacing); len(got) != 0 {
		t.Errorf("Sentences(only non-words) = %+v, want empty", got)
	}
}

func TestSentencesDoesNotSplitOnOtherTerminators(t *testing.T) {
	words := []Word{
		w("Really?", 0, 1),
		w("Yes!", 1, 2),
		w("Ok.", 2, 3),
	}
	got := Sentences(words)
	if len(got) != 1 {
		t.Fatalf("expected 1 sentence ('?' and '!' are not boundaries), got %d: %+v", len(got), got)
	}
	if got[0].Text != "Really? Yes! Ok." {
		t.Errorf("sentence text = %q", got[0].Text)
	}
}

func TestSentencesIdempotent(t *testing.T) {
	words := []Word{
		w("A", 0, 1),
		w("b.", 1, 2),
		w("c", 2, 3),
	}
	first := Sentences(words)
	second := Sentences(words)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated segmentation diverged: %+v vs %+v", first, second)
	}
}

func TestActiveSentence(t *testing.T) {
	sentences := []Sentence{
		{Text: "a.", Start: 0, End: 2},
		{Text: "b.", Start: 3, End: 5},
	}

	cases := []struct {
		name string
		t    float64
		want int
	}{
		{"inside first", 1, 0},
		{"inclusive start", 0, 0},
		{"inclusive end", 2, 0},
		{"gap between sentences", 2.5, -1},
		{"inside second", 4, 1},
		{"before everything", -1, -1},
		{"after everything", 9, -1},
	}
	for _, tc := range cases {
		if got := ActiveSentence(sentences, tc.t); got != tc.want {
			t.Errorf("%s: ActiveSentence(t=%v) = %d, want %d", tc.name, tc.t, got, tc.want)
		}
	}
}

func TestActiveSentenceFirstMatchWinsOnOverlap(t *testing.T) {
	sentences := []Sentence{
		{Text: "a.", Start: 0, End: 4},
		{Text: "b.", Start: 2, End: 6},
	}
	if got := ActiveSentence(sentences, 3); got != 0 {
		t.Errorf("overlap: ActiveSentence = %d, want 0", got)
	}
}

func TestActiveSentenceStateless(t *testing.T) {
	sentences := []Sentence{
		{Text: "a.", Start: 0, End: 1},
		{Text: "b.", Start: 2, End: 3},
	}
	// Seek-style jumps: the scan must not remember position between calls.
	seq := []float64{2.5, 0.5, 2.5, 0.5}
	want := []int{1, 0, 1, 0}
	for i, tv := range seq {
		if got := ActiveSentence(sentences, tv); got != want[i] {
			t.Errorf("call %d: ActiveSentence(t=%v) = %d, want %d", i, tv, got, want[i])
		}
	}
}

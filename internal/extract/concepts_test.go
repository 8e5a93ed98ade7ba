package extract

import (
	"reflect"
	"strings"
	"testing"
)

func TestConcepts_FrequencyRanked(t *testing.T) {
	text := "mitochondria mitochondria mitochondria ribosome ribosome nucleus"

	got := Concepts(text)
	want := []string{"mitochondria", "ribosome", "nucleus"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Concepts = %v, want %v", got, want)
	}
}

func TestConcepts_TiesBrokenByFirstSeen(t *testing.T) {
	text := "zebra apple zebra apple banana banana"

	got := Concepts(text)
	want := []string{"zebra", "apple", "banana"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Concepts = %v, want %v", got, want)
	}
}

func TestConcepts_FiltersStopwordsAndShortTokens(t *testing.T) {
	text := "the cat sat with them because there would hemoglobin hemoglobin"

	got := Concepts(text)
	want := []string{"hemoglobin"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Concepts = %v, want %v", got, want)
	}
}

func TestConcepts_CaseAndPunctuation(t *testing.T) {
	text := "Enzymes, enzymes! ENZYMES? catalysis."

	got := Concepts(text)
	want := []string{"enzymes", "catalysis"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Concepts = %v, want %v", got, want)
	}
}

func TestConcepts_CappedAtMax(t *testing.T) {
	words := []string{
		"alpha1", "bravo2", "charlie3", "delta4", "echo5", "foxtrot6",
		"golf7", "hotel8", "india9", "juliet10", "kilo11", "lima12",
	}
	text := strings.Join(words, " ")

	got := Concepts(text)
	if len(got) != MaxConcepts {
		t.Errorf("Expected %d concepts, got %d", MaxConcepts, len(got))
	}
}

func TestConcepts_Deterministic(t *testing.T) {
	text := "photosynthesis chlorophyll glucose oxygen carbon dioxide photosynthesis glucose"

	first := Concepts(text)
	for i := 0; i < 10; i++ {
		if got := Concepts(text); !reflect.DeepEqual(got, first) {
			t.Fatalf("Run %d differed: %v vs %v", i, got, first)
		}
	}
}

func TestConcepts_Empty(t *testing.T) {
	if got := Concepts(""); len(got) != 0 {
		t.Errorf("Expected no concepts for empty text, got %v", got)
	}
}

package dedup

import (
	"testing"

	"frameworks/api_lookout/pkg/models"
)

func TestSimilarity_Bounds(t *testing.T) {
	pairs := [][2]string{
		{"OpenAI releases new model", "OpenAI releases new model today"},
		{"completely different words", "nothing shared at all"},
		{"", "some title"},
		{"a b c", "a b c"}, // only short tokens, both sets empty
	}
	for _, p := range pairs {
		got := Similarity(p[0], p[1])
		if got < 0 || got > 1 {
			t.Fatalf("similarity(%q, %q) = %f out of [0,1]", p[0], p[1], got)
		}
	}
}

func TestSimilarity_Symmetric(t *testing.T) {
	a := "Anthropic ships Claude agents"
	b := "Claude agents shipped by Anthropic"
	if Similarity(a, b) != Similarity(b, a) {
		t.Fatalf("similarity not symmetric")
	}
}

func TestSimilarity_Identity(t *testing.T) {
	if got := Similarity("large language models", "large language models"); got != 1 {
		t.Fatalf("expected identity similarity 1, got %f", got)
	}
}

func TestSimilarity_EmptyTokenSets(t *testing.T) {
	// Every token is length <= 2 after normalization, so both sets are empty.
	if got := Similarity("a to it", "a to it"); got != 0 {
		t.Fatalf("expected 0 for empty token sets, got %f", got)
	}
	if got := Similarity("", ""); got != 0 {
		t.Fatalf("expected 0 for empty strings, got %f", got)
	}
}

func TestSimilarity_IgnoresPunctuationAndCase(t *testing.T) {
	if got := Similarity("GPT-5: The Review!", "gpt5 the review"); got != 1 {
		t.Fatalf("expected punctuation-insensitive match, got %f", got)
	}
}

func TestIsDuplicate_StrictThreshold(t *testing.T) {
	existing := []string{"machine learning conference recap"}

	// Identical title: similarity 1 > 0.8.
	if !IsDuplicate("machine learning conference recap", existing, 0.8) {
		t.Fatal("expected duplicate for identical title")
	}

	// Similarity exactly equal to threshold must NOT count (strict >).
	// "alpha beta gamma delta" vs "alpha beta gamma" = 3/4 = 0.75.
	if IsDuplicate("alpha beta gamma delta", []string{"alpha beta gamma"}, 0.75) {
		t.Fatal("similarity equal to threshold should not be a duplicate")
	}
	if !IsDuplicate("alpha beta gamma delta", []string{"alpha beta gamma"}, 0.74) {
		t.Fatal("similarity above threshold should be a duplicate")
	}

	if IsDuplicate("fresh unrelated headline", existing, 0.8) {
		t.Fatal("unrelated title flagged as duplicate")
	}
}

func TestFilterRanked_SeedAndBatch(t *testing.T) {
	ranked := []models.ScoredCandidate{
		{Candidate: models.Candidate{Title: "Claude ships new agents feature"}, FinalScore: 900},
		{Candidate: models.Candidate{Title: "Claude ships new agents feature today"}, FinalScore: 500},
		{Candidate: models.Candidate{Title: "Robots learn to fold laundry"}, FinalScore: 100},
	}
	seed := []string{"robots learn to fold laundry"}

	kept := FilterRanked(ranked, seed, 0.8)

	// The lower-scored in-batch near-duplicate and the seed duplicate both drop.
	if len(kept) != 1 {
		t.Fatalf("expected 1 survivor, got %d", len(kept))
	}
	if kept[0].FinalScore != 900 {
		t.Fatalf("higher-scored copy should survive, got score %d", kept[0].FinalScore)
	}
}

func TestFilterTrends(t *testing.T) {
	trends := []models.Trend{
		{Title: "New frontier model sets records"},
		{Title: "A new frontier model sets records"},
		{Title: "Prompt injection strikes again"},
	}

	kept := FilterTrends(trends, nil, 0.8)
	if len(kept) != 2 {
		t.Fatalf("expected 2 unique trends, got %d", len(kept))
	}
	if kept[0].Title != "New frontier model sets records" || kept[1].Title != "Prompt injection strikes again" {
		t.Fatalf("unexpected survivors: %+v", kept)
	}
}

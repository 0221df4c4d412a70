package rank

import (
	"fmt"
	"math/rand"
	"testing"

	"edh-anti-meta/internal/commander"
	"edh-anti-meta/internal/popularity"
)

func result(name string, decks int) popularity.Result {
	return popularity.Result{
		Card:  commander.CardRecord{Name: name},
		Decks: decks,
	}
}

func failedResult(name string) popularity.Result {
	return popularity.Result{
		Card: commander.CardRecord{Name: name},
		Err:  fmt.Errorf("fetch failed"),
	}
}

// Five fetch results: counts 10, 0, failure, 3, 3.
func sampleResults() []popularity.Result {
	return []popularity.Result{
		result("Ezuri, Renegade Leader", 10),
		result("Torsten Von Ursus", 0),
		failedResult("Unreachable Commander"),
		result("Aboshan, Cephalid Emperor", 3),
		result("Barktooth Warbeard", 3),
	}
}

func TestRank_DropsFailuresByDefault(t *testing.T) {
	entries := Rank(sampleResults(), Options{BottomK: 3})

	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}

	// Ascending by count, name tie-break; failure dropped.
	wantNames := []string{"Torsten Von Ursus", "Aboshan, Cephalid Emperor", "Barktooth Warbeard"}
	wantDecks := []int{0, 3, 3}
	for i, e := range entries {
		if e.Result.Card.Name != wantNames[i] {
			t.Errorf("entry %d: expected %q, got %q", i, wantNames[i], e.Result.Card.Name)
		}
		if e.Result.Decks != wantDecks[i] {
			t.Errorf("entry %d: expected %d decks, got %d", i, wantDecks[i], e.Result.Decks)
		}
		if e.Rank != i+1 {
			t.Errorf("entry %d: expected rank %d, got %d", i, i+1, e.Rank)
		}
		if e.Result.Failed() {
			t.Errorf("entry %d: failure marker leaked into output", i)
		}
	}
}

func TestRank_OnlyPositiveDropsZeroCounts(t *testing.T) {
	entries := Rank(sampleResults(), Options{BottomK: 3, OnlyPositive: true})

	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	for _, e := range entries {
		if e.Result.Decks <= 0 {
			t.Errorf("zero-deck entry %q survived only-positive", e.Result.Card.Name)
		}
	}
	if entries[2].Result.Decks != 10 {
		t.Errorf("expected the 10-deck commander to fill the third slot, got %d decks", entries[2].Result.Decks)
	}
}

func TestRank_IncludeErrorsSortsFailuresLowest(t *testing.T) {
	entries := Rank(sampleResults(), Options{BottomK: 3, IncludeErrors: true})

	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	if !entries[0].Result.Failed() {
		t.Error("failure marker must rank below every numeric count")
	}
	if entries[1].Result.Decks != 0 || entries[2].Result.Decks != 3 {
		t.Errorf("unexpected tail: %d, %d decks", entries[1].Result.Decks, entries[2].Result.Decks)
	}
}

func TestRank_TieBreakIsDeterministicAcrossShuffles(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	var baseline []string
	for trial := 0; trial < 20; trial++ {
		results := sampleResults()
		rng.Shuffle(len(results), func(i, j int) {
			results[i], results[j] = results[j], results[i]
		})

		entries := Rank(results, Options{BottomK: 5, IncludeErrors: true})
		names := make([]string, len(entries))
		for i, e := range entries {
			names[i] = e.Result.Card.Name
		}

		if baseline == nil {
			baseline = names
			continue
		}
		for i := range names {
			if names[i] != baseline[i] {
				t.Fatalf("trial %d: output order changed at index %d: %q != %q",
					trial, i, names[i], baseline[i])
			}
		}
	}

	// Tied counts order lexicographically by name.
	for i := 1; i < len(baseline); i++ {
		if baseline[i-1] == baseline[i] {
			t.Fatalf("duplicate entry %q", baseline[i])
		}
	}
}

func TestRank_BottomKLargerThanInput(t *testing.T) {
	entries := Rank(sampleResults(), Options{BottomK: 50})
	if len(entries) != 4 {
		t.Fatalf("expected 4 entries (failure dropped), got %d", len(entries))
	}
}

func TestRank_EmptyInput(t *testing.T) {
	entries := Rank(nil, Options{BottomK: 10})
	if len(entries) != 0 {
		t.Fatalf("expected no entries, got %d", len(entries))
	}
}

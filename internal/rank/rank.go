// Package rank orders fetch results from least to most played and truncates
// to the bottom K.
package rank

import (
	"sort"

	"edh-anti-meta/internal/popularity"
)

// Entry is one row of the final report.
type Entry struct {
	Rank   int
	Result popularity.Result
}

// Options controls ranking.
type Options struct {
	// BottomK is the number of entries to keep.
	BottomK int

	// OnlyPositive drops zero-deck entries before ranking.
	OnlyPositive bool

	// IncludeErrors keeps failed lookups, sorted as if lower than every
	// numeric count so "fetch failed" is never conflated with "no decks".
	IncludeErrors bool
}

// Rank filters, sorts and truncates the results. Ordering is ascending by
// deck count with failures first, ties broken by card name, so identical
// inputs always produce identical output regardless of fetch completion
// order.
func Rank(results []popularity.Result, opts Options) []Entry {
	kept := make([]popularity.Result, 0, len(results))
	for _, r := range results {
		if r.Failed() {
			if !opts.IncludeErrors {
				continue
			}
		} else if opts.OnlyPositive && r.Decks <= 0 {
			continue
		}
		kept = append(kept, r)
	}

	sort.SliceStable(kept, func(i, j int) bool {
		fi, fj := kept[i].Failed(), kept[j].Failed()
		if fi != fj {
			return fi
		}
		if !fi && kept[i].Decks != kept[j].Decks {
			return kept[i].Decks < kept[j].Decks
		}
		return kept[i].Card.Name < kept[j].Card.Name
	})

	if opts.BottomK > 0 && len(kept) > opts.BottomK {
		kept = kept[:opts.BottomK]
	}

	entries := make([]Entry, len(kept))
	for i, r := range kept {
		entries[i] = Entry{Rank: i + 1, Result: r}
	}
	return entries
}

// Package report renders ranked commanders to the console and, optionally,
// to CSV and HTML chart files.
package report

import (
	"fmt"
	"io"
	"strings"

	"edh-anti-meta/internal/rank"
)

// unknownDecks is displayed for failed lookups so they are never mistaken
// for zero-deck commanders.
const unknownDecks = "?"

// TableOptions configures the console table.
type TableOptions struct {
	BottomK     int
	ShowErrors  bool // append the error text to failed rows
	FiltersNote string
}

// WriteTable renders the ranked entries as an aligned console table.
func WriteTable(w io.Writer, entries []rank.Entry, opts TableOptions) error {
	var b strings.Builder

	b.WriteString("\n=== Least-popular commanders on EDHREC (as-commander) ===\n")
	if len(entries) > 0 {
		cutoff := 0
		last := entries[len(entries)-1].Result
		if !last.Failed() {
			cutoff = last.Decks
		}
		b.WriteString(fmt.Sprintf("(Bottom %d; cutoff %d decks", opts.BottomK, cutoff))
		if opts.FiltersNote != "" {
			b.WriteString("; " + opts.FiltersNote)
		}
		b.WriteString(")\n")
	}
	b.WriteString("\n")

	for _, e := range entries {
		r := e.Result
		decks := unknownDecks
		if !r.Failed() {
			decks = fmt.Sprintf("%d", r.Decks)
		}
		b.WriteString(fmt.Sprintf("%4d  %6s  %s  %s  %s", e.Rank, decks, r.Card.Name, strings.ToUpper(r.Card.SetCode), r.URL))
		if r.Failed() && opts.ShowErrors {
			b.WriteString("  ERROR: " + r.Err.Error())
		}
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

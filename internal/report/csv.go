package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"edh-anti-meta/internal/rank"
)

// WriteCSV writes the ranked entries as CSV rows. Failed lookups carry an
// empty decks field plus the error text, never a numeric zero.
func WriteCSV(w io.Writer, entries []rank.Entry) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	header := []string{"rank", "decks", "name", "color_identity", "set", "edhrec_url", "error"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, e := range entries {
		r := e.Result
		decks := ""
		errText := ""
		if r.Failed() {
			errText = r.Err.Error()
		} else {
			decks = fmt.Sprintf("%d", r.Decks)
		}

		record := []string{
			fmt.Sprintf("%d", e.Rank),
			decks,
			r.Card.Name,
			strings.Join(r.Card.ColorIdentity, ""),
			strings.ToUpper(r.Card.SetCode),
			r.URL,
			errText,
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

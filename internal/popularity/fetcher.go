// Package popularity fetches per-commander deck counts under a fixed
// concurrency cap with per-worker request pacing.
package popularity

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"edh-anti-meta/internal/commander"
)

// progressEvery controls how often aggregate progress is logged.
const progressEvery = 50

// Lookup resolves one commander page URL to a deck count. Satisfied by
// *edhrec.Client.
type Lookup interface {
	Lookup(ctx context.Context, pageURL string) (decks int, finalURL string, err error)
}

// Result is the outcome of one lookup. Err != nil is the failure marker and
// is distinct from Decks == 0.
type Result struct {
	Card  commander.CardRecord
	URL   string
	Decks int
	Err   error
}

// Failed reports whether the lookup failed.
func (r Result) Failed() bool { return r.Err != nil }

// Options tunes the fetch pipeline.
type Options struct {
	// Concurrency is the fixed number of workers. Values below 1 are
	// treated as 1.
	Concurrency int

	// Delay is the minimum interval between the starts of one worker's
	// consecutive requests. Pacing is per worker, not a global clock, so
	// the aggregate rate is roughly Concurrency/Delay without serializing
	// workers on shared state.
	Delay time.Duration

	Logger *slog.Logger
}

type job struct {
	index int
	card  commander.CardRecord
}

// FetchAll looks up every card and returns one Result per input card, in
// input order. A card's failure is local: it becomes a failure marker at that
// card's index and never cancels or retries sibling work. FetchAll is a full
// barrier: it returns only when all results are written.
func FetchAll(ctx context.Context, cards []commander.CardRecord, lookup Lookup, opts Options) []Result {
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	// One designated writer slot per input index; no synchronization
	// needed beyond the completion barrier.
	results := make([]Result, len(cards))

	jobs := make(chan job, len(cards))
	for i, card := range cards {
		jobs <- job{index: i, card: card}
	}
	close(jobs)

	var processed atomic.Int64
	total := int64(len(cards))

	var wg sync.WaitGroup
	for i := 0; i < opts.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			var lastStart time.Time
			for j := range jobs {
				// Pace against this worker's own previous request start.
				if opts.Delay > 0 && !lastStart.IsZero() {
					if wait := opts.Delay - time.Since(lastStart); wait > 0 {
						select {
						case <-time.After(wait):
						case <-ctx.Done():
						}
					}
				}
				lastStart = time.Now()

				results[j.index] = fetchOne(ctx, j.card, lookup)

				if n := processed.Add(1); n%progressEvery == 0 {
					logger.Info("fetching deck counts", "processed", n, "total", total)
				}
			}
		}()
	}
	wg.Wait()

	return results
}

func fetchOne(ctx context.Context, card commander.CardRecord, lookup Lookup) Result {
	pageURL := card.EDHRECURL()
	decks, finalURL, err := lookup.Lookup(ctx, pageURL)
	if err != nil {
		return Result{Card: card, URL: pageURL, Err: err}
	}
	return Result{Card: card, URL: finalURL, Decks: decks}
}

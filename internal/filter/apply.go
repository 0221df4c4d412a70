package filter

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"edh-anti-meta/internal/commander"
	"edh-anti-meta/internal/scryfall"
)

// PrintingsLister enumerates every printing of a card, for strict PTK
// detection. Satisfied by *scryfall.Client.
type PrintingsLister interface {
	AllPrintings(ctx context.Context, printsSearchURI string) ([]scryfall.Card, error)
}

// Apply filters the pool. The pure predicates run first; when strict PTK mode
// is active, a second bounded-concurrency pass scans printings of the cards
// the fast heuristic admitted. Pool order is preserved.
func Apply(ctx context.Context, pool []commander.CardRecord, cfg Config, printings PrintingsLister, logger *slog.Logger) []commander.CardRecord {
	if logger == nil {
		logger = slog.Default()
	}
	now := time.Now()

	rejected := make(map[Reason]int)
	kept := make([]commander.CardRecord, 0, len(pool))
	for _, card := range pool {
		ok, reason := Admit(card, cfg, now)
		if !ok {
			rejected[reason]++
			logger.Debug("excluded", "card", card.Name, "reason", string(reason))
			continue
		}
		kept = append(kept, card)
	}

	for reason, n := range rejected {
		logger.Info("filter pass", "reason", string(reason), "excluded", n)
	}

	if cfg.IncludePTK || !cfg.PTKStrict || printings == nil {
		return kept
	}

	return strictPTKPass(ctx, kept, cfg, printings, logger)
}

// strictPTKPass drops survivors that have any Portal Three Kingdoms printing.
// The fast heuristic already removed cards whose representative printing is
// PTK, so only the remaining cards need a printings scan (lazy strict
// checking). A failed lookup keeps the card: the fast heuristic already
// cleared it.
func strictPTKPass(ctx context.Context, pool []commander.CardRecord, cfg Config, printings PrintingsLister, logger *slog.Logger) []commander.CardRecord {
	workers := cfg.StrictWorkers
	if workers < 1 {
		workers = 2
	}

	// One designated slot per card; workers never share an index.
	drop := make([]bool, len(pool))

	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup
	for i := range pool {
		if pool[i].PrintsSearchURI == "" {
			continue
		}
		wg.Add(1)
		sem <- struct{}{}
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()

			prints, err := printings.AllPrintings(ctx, pool[i].PrintsSearchURI)
			if err != nil {
				logger.Debug("strict PTK lookup failed, keeping card", "card", pool[i].Name, "error", err)
				return
			}
			for _, p := range prints {
				if strings.ToLower(p.SetCode) == ptkSetCode {
					drop[i] = true
					return
				}
			}
		}(i)
	}
	wg.Wait()

	kept := make([]commander.CardRecord, 0, len(pool))
	dropped := 0
	for i, card := range pool {
		if drop[i] {
			dropped++
			logger.Debug("excluded", "card", card.Name, "reason", string(ReasonPTK)+"-strict")
			continue
		}
		kept = append(kept, card)
	}
	if dropped > 0 {
		logger.Info("strict PTK pass", "excluded", dropped)
	}
	return kept
}

// Command edh-anti-meta reports the least-played EDHREC commanders. One
// invocation fetches the commander pool from Scryfall, filters it, looks up
// per-commander deck counts under bounded concurrency, and prints the bottom
// K.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/google/uuid"
	"github.com/lmittmann/tint"

	"edh-anti-meta/internal/commander"
	"edh-anti-meta/internal/config"
	"edh-anti-meta/internal/edhrec"
	"edh-anti-meta/internal/filter"
	"edh-anti-meta/internal/popularity"
	"edh-anti-meta/internal/rank"
	"edh-anti-meta/internal/report"
	"edh-anti-meta/internal/scryfall"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		bottomK     = flag.Int("bottom-k", config.DefaultBottomK, "How many least-popular commanders to keep")
		concurrency = flag.Int("concurrency", config.DefaultConcurrency, "Concurrent EDHREC requests")
		delaySec    = flag.Float64("delay", config.DefaultDelay.Seconds(), "Per-worker delay between requests (seconds)")
		csvPath     = flag.String("csv", "", "Write results to CSV at this path")
		chartPath   = flag.String("chart", "", "Write an HTML bar chart to this path")
		configPath  = flag.String("config", "", "Defaults file (default ~/.edh-anti-meta/config.toml)")

		onlyPositive  = flag.Bool("only-positive", false, "Exclude commanders with 0 decks")
		includeErrors = flag.Bool("include-errors", false, "Show entries that failed to fetch (as '?' decks)")
		verbose       = flag.Bool("verbose", false, "Enable debug logging")

		includePartners   = flag.Bool("include-partners", false, "Include Partner / Partner With / Friends Forever commanders")
		includeBackground = flag.Bool("include-backgrounds", false, "Include commanders with 'Choose a Background'")
		includeCompanions = flag.Bool("include-companions", false, "Include commanders with the Companion ability")
		includeDoctorsC   = flag.Bool("include-doctors-companions", false, "Include commanders with the Doctor's companion mechanic")
		includeFunny      = flag.Bool("include-funny-sets", false, "Include sets with set_type 'funny' (Un-sets/playtest)")
		includeVanilla    = flag.Bool("include-vanilla", false, "Include commanders with no rules text (vanilla)")
		includePTK        = flag.Bool("include-ptk", false, "Include Portal Three Kingdoms commanders")
		ptkStrict         = flag.Bool("ptk-strict", false, "Detect PTK by scanning all printings (slower, more accurate)")
		includeDoctors    = flag.Bool("include-doctors", false, "Include the Time Lord Doctors themselves")
		includeRecent     = flag.Bool("include-recent", false, "Include commanders printed in the last recent-days days")
		recentDays        = flag.Int("recent-days", config.DefaultRecentDays, "Day window for the recency exclusion (0 disables)")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{Level: level}))
	slog.SetDefault(logger)

	opts := config.DefaultOptions()
	fileCfg, err := config.LoadFile(*configPath)
	if err != nil {
		logger.Error("failed to load config file", "error", err)
		return 1
	}
	if err := fileCfg.Apply(&opts); err != nil {
		logger.Error("invalid config file", "error", err)
		return 1
	}

	// Explicit flags override the defaults file.
	setFlags := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { setFlags[f.Name] = true })
	if setFlags["bottom-k"] {
		opts.BottomK = *bottomK
	}
	if setFlags["concurrency"] {
		opts.Concurrency = *concurrency
	}
	if setFlags["delay"] {
		opts.Delay = time.Duration(*delaySec * float64(time.Second))
	}
	if setFlags["recent-days"] {
		opts.RecentDays = *recentDays
	}
	opts.CSVPath = *csvPath
	opts.ChartPath = *chartPath
	opts.OnlyPositive = *onlyPositive
	opts.IncludeErrors = *includeErrors
	opts.Verbose = *verbose

	if err := opts.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		return 1
	}

	filterCfg := filter.Config{
		IncludePartners:          *includePartners,
		IncludeBackgrounds:       *includeBackground,
		IncludeCompanions:        *includeCompanions,
		IncludeDoctorsCompanions: *includeDoctorsC,
		IncludeFunnySets:         *includeFunny,
		IncludeVanilla:           *includeVanilla,
		IncludePTK:               *includePTK,
		IncludeDoctors:           *includeDoctors,
		IncludeRecent:            *includeRecent,
		RecentDays:               opts.RecentDays,
		PTKStrict:                *ptkStrict,
		StrictWorkers:            max(2, opts.Concurrency/2),
	}

	logger.Info("starting run",
		"run_id", uuid.NewString(),
		"concurrency", opts.Concurrency,
		"delay", opts.Delay,
		"bottom_k", opts.BottomK)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	sc := scryfall.NewClient(scryfall.WithUserAgent(opts.UserAgent))

	logger.Info("fetching commander pool from Scryfall")
	cards, err := sc.SearchAll(ctx, scryfall.CommanderPoolQuery)
	if err != nil {
		logger.Error("failed to fetch commander pool", "error", err)
		return 1
	}
	pool := commander.BuildPool(cards)
	logger.Info("commander pool built", "printings", len(cards), "commanders", len(pool))

	if !filterCfg.IncludeRecent && filterCfg.RecentDays > 0 {
		cutoff := time.Now().UTC().AddDate(0, 0, -filterCfg.RecentDays)
		logger.Info("excluding recently released commanders",
			"cutoff", cutoff.Format("2006-01-02"),
			"window_days", filterCfg.RecentDays)
	}

	survivors := filter.Apply(ctx, pool, filterCfg, sc, logger)
	logger.Info("filters applied", "remaining", len(survivors))

	ed := edhrec.NewClient(opts.UserAgent)
	results := popularity.FetchAll(ctx, survivors, ed, popularity.Options{
		Concurrency: opts.Concurrency,
		Delay:       opts.Delay,
		Logger:      logger,
	})

	if ctx.Err() != nil {
		logger.Error("run interrupted, no report written")
		return 1
	}

	entries := rank.Rank(results, rank.Options{
		BottomK:       opts.BottomK,
		OnlyPositive:  opts.OnlyPositive,
		IncludeErrors: opts.IncludeErrors,
	})

	if err := report.WriteTable(os.Stdout, entries, report.TableOptions{
		BottomK:     opts.BottomK,
		ShowErrors:  opts.IncludeErrors,
		FiltersNote: "filters active",
	}); err != nil {
		logger.Error("failed to write table", "error", err)
		return 1
	}

	if opts.CSVPath != "" {
		if err := writeCSVFile(opts.CSVPath, entries); err != nil {
			logger.Error("failed to write CSV", "path", opts.CSVPath, "error", err)
			return 1
		}
		logger.Info("CSV written", "path", opts.CSVPath)
	}

	if opts.ChartPath != "" {
		if err := report.WriteChart(opts.ChartPath, entries, report.DefaultChartConfig()); err != nil {
			logger.Error("failed to write chart", "path", opts.ChartPath, "error", err)
			return 1
		}
		logger.Info("chart written", "path", opts.ChartPath)
	}

	return 0
}

func writeCSVFile(path string, entries []rank.Entry) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create CSV file: %w", err)
	}
	if err := report.WriteCSV(f, entries); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

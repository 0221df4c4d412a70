package report

import (
	"fmt"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"edh-anti-meta/internal/rank"
)

// ChartConfig holds configuration for the deck-count chart.
type ChartConfig struct {
	Title    string
	Subtitle string
	Width    string
	Height   string
	Theme    string
}

// DefaultChartConfig returns default chart configuration.
func DefaultChartConfig() ChartConfig {
	return ChartConfig{
		Title:  "Least-popular EDHREC commanders",
		Width:  "900px",
		Height: "500px",
		Theme:  "light",
	}
}

// WriteChart renders an interactive bar chart of deck counts to an HTML
// file. Failed lookups have no count and are omitted.
func WriteChart(outputPath string, entries []rank.Entry, config ChartConfig) error {
	bar := charts.NewBar()

	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Width:  config.Width,
			Height: config.Height,
			Theme:  config.Theme,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    config.Title,
			Subtitle: config.Subtitle,
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "axis",
		}),
	)

	var xLabels []string
	var yData []opts.BarData
	for _, e := range entries {
		if e.Result.Failed() {
			continue
		}
		xLabels = append(xLabels, e.Result.Card.Name)
		yData = append(yData, opts.BarData{Value: e.Result.Decks})
	}

	bar.SetXAxis(xLabels).
		AddSeries("Decks", yData).
		SetSeriesOptions(
			charts.WithLabelOpts(opts.Label{
				Show: opts.Bool(false),
			}),
		)

	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create chart file: %w", err)
	}
	defer f.Close()

	if err := bar.Render(f); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}

	return nil
}

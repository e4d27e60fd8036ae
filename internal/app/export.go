package app

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"

	chart "github.com/wcharczuk/go-chart/v2"

	"github.com/cakeisdead/price-monitor/internal/service"
	"github.com/cakeisdead/price-monitor/internal/storage"
)

// Export writes the price history report as JSON and/or a PNG chart.
func (a *App) Export(ctx context.Context, opts ExportOptions) error {
	if opts.JSONPath == "" && opts.PNGPath == "" {
		return errors.New("at least one of --json or --png must be provided")
	}

	store, err := a.openStore(ctx)
	if err != nil {
		return err
	}

	window := a.Config.ResolveWindow(opts.Window)
	entries, err := store.ReportData(ctx, window)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		a.Logger.Info().Msg("no observations to export")
		return nil
	}

	a.Logger.Info().Int("items", len(entries)).Int("window", window).Msg("exporting report")

	if opts.JSONPath != "" {
		if err := writeReportJSON(opts.JSONPath, entries); err != nil {
			return err
		}
	}

	if opts.PNGPath != "" {
		if err := a.writeReportPNG(opts.PNGPath, entries); err != nil {
			return err
		}
	}

	return nil
}

func writeReportJSON(path string, entries []storage.ReportEntry) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func (a *App) writeReportPNG(path string, entries []storage.ReportEntry) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	series := make([]chart.Series, 0, len(entries))
	for _, entry := range entries {
		x := make([]time.Time, 0, len(entry.History))
		y := make([]float64, 0, len(entry.History))
		for _, point := range entry.History {
			value, err := service.CleanPrice(point.Price)
			if err != nil {
				continue
			}
			x = append(x, point.Timestamp)
			y = append(y, value.InexactFloat64())
		}
		// A line needs at least two numeric points; short histories stay
		// in the JSON report only.
		if len(x) < 2 {
			a.Logger.Debug().Str("item", entry.Item).Msg("too few numeric points to chart")
			continue
		}
		series = append(series, chart.TimeSeries{Name: entry.Item, XValues: x, YValues: y})
	}

	if len(series) == 0 {
		a.Logger.Warn().Msg("no chartable series; skipping png")
		return nil
	}

	graph := chart.Chart{
		Width:  1280,
		Height: 720,
		XAxis: chart.XAxis{
			ValueFormatter: chart.TimeValueFormatter,
		},
		YAxis: chart.YAxis{
			Name: "Price (USD)",
			ValueFormatter: func(v interface{}) string {
				return chart.FloatValueFormatterWithFormat(v, "%.2f")
			},
		},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return graph.Render(chart.PNG, file)
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

package app

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/cakeisdead/price-monitor/internal/config"
	"github.com/cakeisdead/price-monitor/internal/storage"
)

func newTestApp(t *testing.T) (*App, *storage.Store) {
	t.Helper()
	dir := t.TempDir()
	cfg := &config.Config{}
	cfg.Database.Path = filepath.Join(dir, "data.db")
	cfg.Report.WindowSize = 12
	cfg.Browser.Timeout = time.Second

	a := NewApp(cfg, zerolog.Nop())
	store, err := a.openStore(context.Background())
	if err != nil {
		t.Fatalf("openStore failed: %v", err)
	}
	return a, store
}

func TestExportWritesJSONReport(t *testing.T) {
	a, store := newTestApp(t)
	ctx := context.Background()

	for _, price := range []string{"$10.00", "$12.00"} {
		if _, err := store.SaveObservation(ctx, "Widget", price, "http://x"); err != nil {
			t.Fatalf("SaveObservation failed: %v", err)
		}
	}

	jsonPath := filepath.Join(t.TempDir(), "report.json")
	if err := a.Export(ctx, ExportOptions{JSONPath: jsonPath}); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	data, err := os.ReadFile(jsonPath)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}

	var entries []storage.ReportEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		t.Fatalf("report is not valid JSON: %v", err)
	}
	if len(entries) != 1 || entries[0].Item != "Widget" {
		t.Fatalf("unexpected report contents: %+v", entries)
	}
	if len(entries[0].History) != 2 {
		t.Fatalf("expected 2 history points, got %d", len(entries[0].History))
	}
	if entries[0].History[1].Price != "$12.00" {
		t.Fatalf("history must end with the newest price, got %+v", entries[0].History)
	}
}

func TestExportRequiresAnOutput(t *testing.T) {
	a, _ := newTestApp(t)
	if err := a.Export(context.Background(), ExportOptions{}); err == nil {
		t.Fatal("export without outputs must fail")
	}
}

func TestExportEmptyStoreIsNotAnError(t *testing.T) {
	a, _ := newTestApp(t)
	jsonPath := filepath.Join(t.TempDir(), "report.json")
	if err := a.Export(context.Background(), ExportOptions{JSONPath: jsonPath}); err != nil {
		t.Fatalf("empty store export must succeed quietly: %v", err)
	}
	if _, err := os.Stat(jsonPath); !os.IsNotExist(err) {
		t.Fatal("no file should be written for an empty store")
	}
}

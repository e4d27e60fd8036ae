package storage

import (
	"context"
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store := NewStore(filepath.Join(t.TempDir(), "data.db"))
	if err := store.InitSchema(context.Background()); err != nil {
		t.Fatalf("InitSchema failed: %v", err)
	}
	return store
}

func TestInitSchemaIdempotent(t *testing.T) {
	store := newTestStore(t)
	if err := store.InitSchema(context.Background()); err != nil {
		t.Fatalf("second InitSchema must succeed: %v", err)
	}
}

func TestStoreNotConfigured(t *testing.T) {
	store := NewStore("")
	if err := store.InitSchema(context.Background()); err != ErrNotConfigured {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestSaveThenLastPrice(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	id, err := store.SaveObservation(ctx, "Widget", "$10.00", "http://x")
	if err != nil {
		t.Fatalf("SaveObservation failed: %v", err)
	}
	if id <= 0 {
		t.Fatalf("expected positive row id, got %d", id)
	}

	price, found, err := store.LastPrice(ctx, "Widget")
	if err != nil {
		t.Fatalf("LastPrice failed: %v", err)
	}
	if !found {
		t.Fatal("saved item must be found")
	}
	if price != "$10.00" {
		t.Fatalf("expected $10.00, got %s", price)
	}
}

func TestLastPriceUnknownItem(t *testing.T) {
	store := newTestStore(t)

	price, found, err := store.LastPrice(context.Background(), "Nothing")
	if err != nil {
		t.Fatalf("LastPrice failed: %v", err)
	}
	if found || price != "" {
		t.Fatalf("unknown item must report absence, got (%q, %v)", price, found)
	}
}

func TestLastPriceReturnsNewestInsert(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	// Inserts land within the same CURRENT_TIMESTAMP second; the row id
	// tie-break must still pick the latest one.
	for _, price := range []string{"$10.00", "$11.00", "$12.00"} {
		if _, err := store.SaveObservation(ctx, "Widget", price, "http://x"); err != nil {
			t.Fatalf("SaveObservation failed: %v", err)
		}
	}

	price, found, err := store.LastPrice(ctx, "Widget")
	if err != nil || !found {
		t.Fatalf("LastPrice failed: %v found=%v", err, found)
	}
	if price != "$12.00" {
		t.Fatalf("expected newest price $12.00, got %s", price)
	}
}

func TestReportDataWindowBounds(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		price := "$1" + string(rune('0'+i)) + ".00"
		if _, err := store.SaveObservation(ctx, "Widget", price, "http://x"); err != nil {
			t.Fatalf("SaveObservation failed: %v", err)
		}
	}
	if _, err := store.SaveObservation(ctx, "Gadget", "$5.00", "http://y"); err != nil {
		t.Fatalf("SaveObservation failed: %v", err)
	}

	entries, err := store.ReportData(ctx, 3)
	if err != nil {
		t.Fatalf("ReportData failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 items, got %d", len(entries))
	}

	byItem := map[string]ReportEntry{}
	for _, e := range entries {
		byItem[e.Item] = e
	}

	widget := byItem["Widget"]
	if len(widget.History) != 3 {
		t.Fatalf("window of 3 must return 3 points, got %d", len(widget.History))
	}
	// Oldest to newest, keeping only the 3 most recent inserts.
	want := []string{"$12.00", "$13.00", "$14.00"}
	for i, w := range want {
		if widget.History[i].Price != w {
			t.Fatalf("history position %d: got %s, want %s", i, widget.History[i].Price, w)
		}
	}

	gadget := byItem["Gadget"]
	if len(gadget.History) != 1 {
		t.Fatalf("single-observation item must keep its point, got %d", len(gadget.History))
	}
	if gadget.URL != "http://y" {
		t.Fatalf("representative url wrong: %s", gadget.URL)
	}
}

func TestReportDataEmptyStore(t *testing.T) {
	store := newTestStore(t)

	entries, err := store.ReportData(context.Background(), 12)
	if err != nil {
		t.Fatalf("ReportData failed: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("empty store must yield no entries, got %d", len(entries))
	}
}

func TestReportDataRepresentativeURLIsNewest(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if _, err := store.SaveObservation(ctx, "Widget", "$10.00", "http://old"); err != nil {
		t.Fatalf("SaveObservation failed: %v", err)
	}
	if _, err := store.SaveObservation(ctx, "Widget", "$11.00", "http://new"); err != nil {
		t.Fatalf("SaveObservation failed: %v", err)
	}

	entries, err := store.ReportData(ctx, 12)
	if err != nil {
		t.Fatalf("ReportData failed: %v", err)
	}
	if len(entries) != 1 || entries[0].URL != "http://new" {
		t.Fatalf("expected newest url, got %+v", entries)
	}
}

func TestCountObservations(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	count, err := store.CountObservations(ctx)
	if err != nil || count != 0 {
		t.Fatalf("fresh store must count 0, got %d (%v)", count, err)
	}

	if _, err := store.SaveObservation(ctx, "Widget", "$10.00", "http://x"); err != nil {
		t.Fatalf("SaveObservation failed: %v", err)
	}

	count, err = store.CountObservations(ctx)
	if err != nil || count != 1 {
		t.Fatalf("expected count 1, got %d (%v)", count, err)
	}
}

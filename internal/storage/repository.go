package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

var (
	// ErrNotConfigured indicates the store was built without a database path.
	ErrNotConfigured = errors.New("storage: database path not configured")
)

const (
	createPriceHistorySQL = `CREATE TABLE IF NOT EXISTS price_history (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        item TEXT NOT NULL,
        price TEXT NOT NULL,
        url TEXT NOT NULL,
        timestamp DATETIME DEFAULT CURRENT_TIMESTAMP
    );`

	insertObservationSQL = `INSERT INTO price_history (item, price, url)
    VALUES (?, ?, ?);`

	lastPriceSQL = `SELECT price FROM price_history
    WHERE item = ?
    ORDER BY timestamp DESC, id DESC
    LIMIT 1;`

	listAllObservationsSQL = `SELECT id, item, price, url, timestamp
    FROM price_history
    ORDER BY item ASC, timestamp DESC, id DESC;`

	countObservationsSQL = `SELECT COUNT(*) FROM price_history;`
)

// ObservationStore defines operations for price observation persistence.
type ObservationStore interface {
	InitSchema(ctx context.Context) error
	SaveObservation(ctx context.Context, item, price, url string) (int64, error)
	LastPrice(ctx context.Context, item string) (string, bool, error)
	ReportData(ctx context.Context, windowSize int) ([]ReportEntry, error)
}

// Store persists observations in a single sqlite file. Every operation
// opens its own connection and closes it before returning, so the file
// lock is never held across calls; sqlite serialises concurrent writers.
type Store struct {
	path string
}

// NewStore wires a sqlite database path into a Store.
func NewStore(path string) *Store {
	return &Store{path: path}
}

func (s *Store) open() (*sql.DB, error) {
	if s == nil || s.path == "" {
		return nil, ErrNotConfigured
	}
	db, err := sql.Open("sqlite3", s.path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return db, nil
}

// InitSchema ensures the price_history table exists. Additive only; safe
// to call on every process start.
func (s *Store) InitSchema(ctx context.Context) error {
	db, err := s.open()
	if err != nil {
		return err
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, createPriceHistorySQL); err != nil {
		return fmt.Errorf("create price_history table: %w", err)
	}
	return nil
}

// SaveObservation appends one observation row. The timestamp is assigned
// by the store at insert time. Returns the new row id.
func (s *Store) SaveObservation(ctx context.Context, item, price, url string) (int64, error) {
	db, err := s.open()
	if err != nil {
		return 0, err
	}
	defer db.Close()

	result, execErr := db.ExecContext(ctx, insertObservationSQL, item, price, url)
	if execErr != nil {
		return 0, fmt.Errorf("insert observation: %w", execErr)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("read inserted id: %w", err)
	}
	return id, nil
}

// LastPrice returns the most recently stored price for an item, or false
// when the item has never been observed. Identical timestamps resolve by
// row id, newest insert first.
func (s *Store) LastPrice(ctx context.Context, item string) (string, bool, error) {
	db, err := s.open()
	if err != nil {
		return "", false, err
	}
	defer db.Close()

	var price string
	scanErr := db.QueryRowContext(ctx, lastPriceSQL, item).Scan(&price)
	if errors.Is(scanErr, sql.ErrNoRows) {
		return "", false, nil
	}
	if scanErr != nil {
		return "", false, fmt.Errorf("query last price: %w", scanErr)
	}
	return price, true, nil
}

// ReportData reconstructs the bounded per-item history for every item ever
// observed: the windowSize most recent observations per item, re-ordered
// oldest first for consumption. The truncation happens in Go, as a grouped
// sort-and-cut, so the query stays portable across backends.
func (s *Store) ReportData(ctx context.Context, windowSize int) ([]ReportEntry, error) {
	if windowSize <= 0 {
		windowSize = 12
	}

	db, err := s.open()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, queryErr := db.QueryContext(ctx, listAllObservationsSQL)
	if queryErr != nil {
		return nil, fmt.Errorf("list observations: %w", queryErr)
	}
	defer rows.Close()

	entries := make([]ReportEntry, 0)
	for rows.Next() {
		var obs Observation
		if err := rows.Scan(&obs.ID, &obs.Item, &obs.Price, &obs.URL, &obs.Timestamp); err != nil {
			return nil, fmt.Errorf("scan observation: %w", err)
		}

		if len(entries) == 0 || entries[len(entries)-1].Item != obs.Item {
			// Rows arrive newest-first per item, so the first row seen
			// carries the representative url.
			entries = append(entries, ReportEntry{Item: obs.Item, URL: obs.URL})
		}

		entry := &entries[len(entries)-1]
		if len(entry.History) >= windowSize {
			continue
		}
		entry.History = append(entry.History, PricePoint{Timestamp: obs.Timestamp, Price: obs.Price})
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}

	for i := range entries {
		reversePoints(entries[i].History)
	}
	return entries, nil
}

// CountObservations reports the total number of stored rows.
func (s *Store) CountObservations(ctx context.Context) (int64, error) {
	db, err := s.open()
	if err != nil {
		return 0, err
	}
	defer db.Close()

	var count int64
	if scanErr := db.QueryRowContext(ctx, countObservationsSQL).Scan(&count); scanErr != nil {
		return 0, fmt.Errorf("count observations: %w", scanErr)
	}
	return count, nil
}

func reversePoints(points []PricePoint) {
	for i, j := 0, len(points)-1; i < j; i, j = i+1, j-1 {
		points[i], points[j] = points[j], points[i]
	}
}

var _ ObservationStore = (*Store)(nil)

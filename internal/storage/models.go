package storage

import "time"

// Observation is one persisted price sample. Rows are append-only: once
// written they are never updated or deleted by the monitor.
type Observation struct {
	ID        int64
	Item      string
	Price     string
	URL       string
	Timestamp time.Time
}

// PricePoint is one (timestamp, price) pair inside an item's history.
type PricePoint struct {
	Timestamp time.Time `json:"timestamp"`
	Price     string    `json:"price"`
}

// ReportEntry carries the bounded history for one item. History is ordered
// oldest to newest; URL is the source recorded on the newest observation.
type ReportEntry struct {
	Item    string       `json:"item"`
	URL     string       `json:"url"`
	History []PricePoint `json:"price_history"`
}

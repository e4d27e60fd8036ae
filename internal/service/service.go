package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/cakeisdead/price-monitor/internal/fetcher"
	"github.com/cakeisdead/price-monitor/internal/products"
	"github.com/cakeisdead/price-monitor/internal/storage"
)

// OutcomeKind classifies what a single product's check produced.
type OutcomeKind int

const (
	// PriceNotFound means the fetch could not extract a price; nothing was stored.
	PriceNotFound OutcomeKind = iota
	// FirstObservation means the item had no stored baseline to compare against.
	FirstObservation
	// PriceDelta means a baseline existed and a delta was computed.
	PriceDelta
)

// Outcome is the reported result for one product in a batch. Every product
// yields exactly one Outcome; there are no silent skips.
type Outcome struct {
	Item     string
	Price    string
	Baseline string
	Delta    decimal.Decimal
	Kind     OutcomeKind
}

// BatchSummary aggregates a full monitoring pass.
type BatchSummary struct {
	Observed  int
	FirstSeen int
	NotFound  int
}

// Monitor drives the fetch, reconcile, persist sequence for tracked products.
type Monitor struct {
	fetcher fetcher.PriceFetcher
	store   storage.ObservationStore
	logger  zerolog.Logger
}

// New constructs the monitoring service.
func New(f fetcher.PriceFetcher, store storage.ObservationStore, logger zerolog.Logger) *Monitor {
	return &Monitor{
		fetcher: f,
		store:   store,
		logger:  logger.With().Str("component", "monitor").Logger(),
	}
}

// RunBatch processes the product list in order, one product at a time.
// Failures of any kind are absorbed at the item boundary: a bad product is
// logged and the batch moves on. Only context cancellation stops the pass.
func (m *Monitor) RunBatch(ctx context.Context, list []products.Product) BatchSummary {
	var summary BatchSummary
	for _, p := range list {
		select {
		case <-ctx.Done():
			m.logger.Warn().Int("remaining", len(list)-summary.Observed-summary.FirstSeen-summary.NotFound).
				Msg("batch interrupted")
			return summary
		default:
		}

		outcome := m.ProcessProduct(ctx, p)
		switch outcome.Kind {
		case PriceNotFound:
			summary.NotFound++
		case FirstObservation:
			summary.FirstSeen++
		case PriceDelta:
			summary.Observed++
		}
	}
	return summary
}

// ProcessProduct fetches one product's price, reconciles it against the
// stored baseline, and persists the new observation. Unavailable prices
// are reported and never stored; persistence failures are reported and
// never change the computed outcome.
func (m *Monitor) ProcessProduct(ctx context.Context, p products.Product) Outcome {
	price, err := m.fetcher.FetchPrice(ctx, p)
	if err != nil {
		if !isUnavailable(err) {
			m.logger.Error().Err(err).Str("item", p.Name).Msg("fetch failed")
		}
		m.logger.Info().Str("item", p.Name).Msg("price not found")
		return Outcome{Item: p.Name, Kind: PriceNotFound}
	}

	outcome := m.reconcile(ctx, p.Name, price)

	if _, saveErr := m.store.SaveObservation(ctx, p.Name, price, p.URL); saveErr != nil {
		m.logger.Error().Err(saveErr).Str("item", p.Name).Msg("failed to insert observation")
	} else {
		m.logger.Info().Str("item", p.Name).Msg("observation inserted")
	}

	return outcome
}

func (m *Monitor) reconcile(ctx context.Context, item, price string) Outcome {
	baseline, found, err := m.store.LastPrice(ctx, item)
	if err != nil {
		// A broken lookup degrades to "no baseline"; the fetch is still
		// valuable and the save still happens.
		m.logger.Error().Err(err).Str("item", item).Msg("failed to read last price")
		found = false
	}

	if !found {
		m.logger.Info().Str("item", item).Str("price", price).
			Msg("first observation, no previous price")
		return Outcome{Item: item, Price: price, Kind: FirstObservation}
	}

	newVal, newErr := CleanPrice(price)
	baseVal, baseErr := CleanPrice(baseline)
	if newErr != nil || baseErr != nil {
		// Either side failed numeric cleaning; report as a first
		// observation rather than a bogus delta.
		m.logger.Warn().Str("item", item).Str("price", price).Str("previous", baseline).
			Msg("price not numerically comparable")
		return Outcome{Item: item, Price: price, Kind: FirstObservation}
	}

	delta := newVal.Sub(baseVal)
	m.logger.Info().Str("item", item).Str("price", price).Str("previous", baseline).
		Str("difference", delta.String()).
		Msg("price compared against baseline")

	return Outcome{Item: item, Price: price, Baseline: baseline, Delta: delta, Kind: PriceDelta}
}

// CleanPrice normalises a raw currency string into a decimal by stripping
// the dollar sign and thousands separators.
func CleanPrice(value string) (decimal.Decimal, error) {
	cleaned := strings.TrimSpace(value)
	cleaned = strings.ReplaceAll(cleaned, "$", "")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	return decimal.NewFromString(cleaned)
}

func isUnavailable(err error) bool {
	return errors.Is(err, fetcher.ErrUnavailable)
}

// Package engine aggregates offers from all configured sources and
// selects the best one.
package engine

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/nvenk/partscout/internal/metrics"
	"github.com/nvenk/partscout/internal/sources"
	"github.com/nvenk/partscout/pkg/types"
)

// ErrNoOffers is returned when every source came back empty. It is the
// only terminal condition a query can produce; individual source
// failures never abort the aggregate.
var ErrNoOffers = errors.New("no offers found")

// Engine fans a part-number query out to all sources concurrently and
// picks the minimum-priced offer among whichever results arrive.
type Engine struct {
	sources []sources.Source
	log     *slog.Logger
}

// Option configures the Engine.
type Option func(*Engine)

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		e.log = l
	}
}

// New creates an Engine querying the given sources. Tie-breaking on
// equal prices follows the order of srcs.
func New(srcs []sources.Source, opts ...Option) *Engine {
	e := &Engine{
		sources: srcs,
		log:     slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// FindBestOffer queries every source concurrently, waits for all of
// them, and returns the successful offers with the cheapest flagged
// IsBest. The wait is a join-all: the cheapest offer cannot be known
// until every source has answered. Returns ErrNoOffers when nothing
// usable came back.
func (e *Engine) FindBestOffer(
	ctx context.Context,
	partNo string,
) ([]types.Offer, error) {
	metrics.SearchesTotal.Inc()
	start := time.Now()
	defer func() {
		metrics.SearchDuration.Observe(time.Since(start).Seconds())
	}()

	// Results land in source order so equal prices tie-break stably.
	results := make([]*types.Offer, len(e.sources))

	var wg sync.WaitGroup
	for i, src := range e.sources {
		wg.Add(1)
		go func(i int, src sources.Source) {
			defer wg.Done()
			results[i] = e.fetchOne(ctx, src, partNo)
		}(i, src)
	}
	wg.Wait()

	var offers []types.Offer
	best := -1
	for _, r := range results {
		if r == nil {
			continue
		}
		offers = append(offers, *r)
		if best == -1 || offers[len(offers)-1].Price < offers[best].Price {
			best = len(offers) - 1
		}
	}

	if len(offers) == 0 {
		metrics.SearchesNoOffersTotal.Inc()
		e.log.Info("no offers found", "part_no", partNo)
		return nil, ErrNoOffers
	}

	offers[best].IsBest = true

	e.log.Info("search complete",
		"part_no", partNo,
		"offers", len(offers),
		"best_site", offers[best].Site,
		"best_price", offers[best].Price,
	)

	return offers, nil
}

// fetchOne queries a single source, absorbing any failure. A lookup
// error and a legitimate "no stock" both resolve to nil, but they are
// logged and counted distinctly.
func (e *Engine) fetchOne(
	ctx context.Context,
	src sources.Source,
	partNo string,
) *types.Offer {
	name := src.Name()
	metrics.SourceRequestsTotal.WithLabelValues(name).Inc()

	start := time.Now()
	offer, err := src.FetchOffer(ctx, partNo)
	metrics.SourceRequestDuration.
		WithLabelValues(name).
		Observe(time.Since(start).Seconds())

	switch {
	case err != nil:
		metrics.SourceFailuresTotal.WithLabelValues(name).Inc()
		e.log.Warn("source lookup failed",
			"source", name,
			"part_no", partNo,
			"error", err,
		)
		return nil
	case offer == nil:
		metrics.SourceNoOfferTotal.WithLabelValues(name).Inc()
		e.log.Debug("no quantity-1 offer",
			"source", name,
			"part_no", partNo,
		)
		return nil
	default:
		return offer
	}
}

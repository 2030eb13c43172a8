// Package sources implements the per-distributor offer adapters. Each
// adapter encapsulates one source's authentication flow, request
// construction, and response parsing behind the Source interface.
package sources

import (
	"context"
	"net/http"
	"time"

	"github.com/nvenk/partscout/pkg/types"
)

// defaultTimeout bounds every outbound call so one unresponsive source
// cannot stall an aggregated query.
const defaultTimeout = 8 * time.Second

// Source is a single distributor or aggregator integration.
//
// FetchOffer returns the source's quantity-1 offer for a part number.
// A nil offer with a nil error means the source answered but carries no
// quantity-1 price break (no stock); a non-nil error means the lookup
// itself failed (transport, auth, malformed response). Callers treat
// both as "no offer"; the split exists so the aggregation engine can
// log and count them distinctly.
type Source interface {
	Name() string
	FetchOffer(ctx context.Context, partNo string) (*types.Offer, error)
}

func newHTTPClient() *http.Client {
	return &http.Client{Timeout: defaultTimeout}
}

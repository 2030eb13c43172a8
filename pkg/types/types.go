// Package types defines the domain types shared across partscout.
package types

// Offer is the normalized quote from one source: the unit price a
// distributor reports at order quantity 1 for a part number. Adapters
// construct Offers and never set IsBest; only the aggregation engine
// flags the winner.
type Offer struct {
	Currency string  `json:"currency"`
	Price    float64 `json:"price"`
	Site     string  `json:"site"`
	URL      string  `json:"url,omitempty"`
	IsBest   bool    `json:"is_best"`
}

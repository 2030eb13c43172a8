package client

import (
	"context"
	"errors"
	"net/url"

	"github.com/nvenk/partscout/pkg/types"
)

// ErrNoOffers is returned when no source has the part in stock.
var ErrNoOffers = errors.New("no offers found")

// SearchResponse wraps the offers returned by the search endpoint.
type SearchResponse struct {
	Offers []types.Offer `json:"offers"`
}

// Search queries every configured source for the given part number and
// returns all quantity-1 offers, cheapest first flagged is_best.
func (c *Client) Search(ctx context.Context, partNo string) ([]types.Offer, error) {
	q := url.Values{}
	q.Set("part_no", partNo)

	var resp SearchResponse
	if err := c.get(ctx, "/api/v1/search?"+q.Encode(), &resp); err != nil {
		return nil, err
	}
	return resp.Offers, nil
}

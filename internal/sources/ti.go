package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/nvenk/partscout/internal/tokencache"
	"github.com/nvenk/partscout/pkg/types"
)

const (
	tiName              = "TI"
	defaultTITokenURL   = "https://transact.ti.com/v1/oauth/accesstoken" //nolint:gosec // not a credential
	defaultTIProductURL = "https://transact.ti.com/v2/store/products"
)

// TI queries the Texas Instruments store API.
type TI struct {
	tokens     *TokenProvider
	tokenURL   string
	productURL string
	client     *http.Client
}

// TIOption configures the TI adapter.
type TIOption func(*TI)

// WithTITokenURL overrides the default TI token endpoint.
func WithTITokenURL(u string) TIOption {
	return func(t *TI) {
		t.tokenURL = u
	}
}

// WithTIProductURL overrides the default TI store products endpoint.
func WithTIProductURL(u string) TIOption {
	return func(t *TI) {
		t.productURL = u
	}
}

// WithTIHTTPClient overrides the default HTTP client.
func WithTIHTTPClient(c *http.Client) TIOption {
	return func(t *TI) {
		t.client = c
	}
}

// NewTI creates a TI adapter authenticating with the given client
// credentials and caching tokens in cache.
func NewTI(
	clientID, clientSecret string,
	cache *tokencache.Cache,
	opts ...TIOption,
) *TI {
	t := &TI{
		tokenURL:   defaultTITokenURL,
		productURL: defaultTIProductURL,
		client:     newHTTPClient(),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.tokens = NewTokenProvider(
		tiName, t.tokenURL, clientID, clientSecret, cache,
		WithTokenHTTPClient(t.client),
	)
	return t
}

// Name implements Source.
func (*TI) Name() string { return tiName }

// TokenProvider exposes the adapter's token provider for prewarming.
func (t *TI) TokenProvider() *TokenProvider { return t.tokens }

type tiProductsResponse struct {
	Content []tiProduct `json:"content"`
}

type tiProduct struct {
	BuyNowURL string      `json:"buyNowUrl"`
	Pricing   []tiPricing `json:"pricing"`
}

type tiPricing struct {
	Currency    string         `json:"currency"`
	PriceBreaks []tiPriceBreak `json:"priceBreaks"`
}

type tiPriceBreak struct {
	PriceBreakQuantity int      `json:"priceBreakQuantity"`
	Price              *float64 `json:"price"`
}

// FetchOffer implements Source. The quantity-1 entry of the first
// product's first pricing block is the offer; other tiers are ignored.
func (t *TI) FetchOffer(
	ctx context.Context,
	partNo string,
) (*types.Offer, error) {
	build := func() (*http.Request, error) {
		params := url.Values{}
		params.Set("gpn", partNo)
		params.Set("currency", "INR")
		params.Set("page", "0")
		params.Set("size", "2")

		req, err := http.NewRequestWithContext(
			ctx,
			http.MethodGet,
			t.productURL+"?"+params.Encode(),
			http.NoBody,
		)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		return req, nil
	}

	body, err := doAuthorized(ctx, t.client, t.tokens, build)
	if err != nil {
		return nil, fmt.Errorf("querying TI: %w", err)
	}

	var resp tiProductsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parsing TI response: %w", err)
	}

	if len(resp.Content) == 0 || len(resp.Content[0].Pricing) == 0 {
		return nil, nil
	}

	product := resp.Content[0]
	pricing := product.Pricing[0]
	for _, pb := range pricing.PriceBreaks {
		if pb.PriceBreakQuantity != 1 {
			continue
		}
		// A quantity-1 break without a price field is no offer, not a
		// zero-price one.
		if pb.Price == nil {
			return nil, nil
		}
		return &types.Offer{
			Currency: pricing.Currency,
			Price:    *pb.Price,
			Site:     tiName,
			URL:      product.BuyNowURL,
		}, nil
	}

	return nil, nil
}

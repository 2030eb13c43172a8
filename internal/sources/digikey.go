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
	digikeyName              = "DigiKey"
	defaultDigiKeyTokenURL   = "https://api.digikey.com/v1/oauth2/token" //nolint:gosec // not a credential
	defaultDigiKeyPricingURL = "https://api.digikey.com/products/v4/search"
)

// DigiKey queries the DigiKey product pricing API with the IN locale,
// so reported prices are INR.
type DigiKey struct {
	clientID   string
	tokens     *TokenProvider
	tokenURL   string
	pricingURL string
	client     *http.Client
}

// DigiKeyOption configures the DigiKey adapter.
type DigiKeyOption func(*DigiKey)

// WithDigiKeyTokenURL overrides the default token endpoint.
func WithDigiKeyTokenURL(u string) DigiKeyOption {
	return func(d *DigiKey) {
		d.tokenURL = u
	}
}

// WithDigiKeyPricingURL overrides the default pricing endpoint.
func WithDigiKeyPricingURL(u string) DigiKeyOption {
	return func(d *DigiKey) {
		d.pricingURL = u
	}
}

// WithDigiKeyHTTPClient overrides the default HTTP client.
func WithDigiKeyHTTPClient(c *http.Client) DigiKeyOption {
	return func(d *DigiKey) {
		d.client = c
	}
}

// NewDigiKey creates a DigiKey adapter authenticating with the given
// client credentials and caching tokens in cache.
func NewDigiKey(
	clientID, clientSecret string,
	cache *tokencache.Cache,
	opts ...DigiKeyOption,
) *DigiKey {
	d := &DigiKey{
		clientID:   clientID,
		tokenURL:   defaultDigiKeyTokenURL,
		pricingURL: defaultDigiKeyPricingURL,
		client:     newHTTPClient(),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.tokens = NewTokenProvider(
		digikeyName, d.tokenURL, clientID, clientSecret, cache,
		WithTokenHTTPClient(d.client),
	)
	return d
}

// Name implements Source.
func (*DigiKey) Name() string { return digikeyName }

// TokenProvider exposes the adapter's token provider for prewarming.
func (d *DigiKey) TokenProvider() *TokenProvider { return d.tokens }

type digikeyPricingResponse struct {
	ProductPricings []digikeyProductPricing `json:"ProductPricings"`
}

type digikeyProductPricing struct {
	ProductURL        string             `json:"ProductUrl"`
	ProductVariations []digikeyVariation `json:"ProductVariations"`
}

type digikeyVariation struct {
	StandardPricing []digikeyPriceBreak `json:"StandardPricing"`
}

type digikeyPriceBreak struct {
	BreakQuantity int      `json:"BreakQuantity"`
	UnitPrice     *float64 `json:"UnitPrice"`
}

// FetchOffer implements Source. Only the first pricing entry's first
// variation is considered, matching the source's primary packaging.
func (d *DigiKey) FetchOffer(
	ctx context.Context,
	partNo string,
) (*types.Offer, error) {
	build := func() (*http.Request, error) {
		u := d.pricingURL + "/" + url.PathEscape(partNo) + "/pricing"
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
		if err != nil {
			return nil, err
		}
		req.Header.Set("X-DIGIKEY-Client-Id", d.clientID)
		req.Header.Set("X-DIGIKEY-Locale-Site", "IN")
		req.Header.Set("X-DIGIKEY-Locale-Language", "EN")
		req.Header.Set("X-DIGIKEY-Locale-Currency", "INR")
		req.Header.Set("Content-Type", "application/json")
		return req, nil
	}

	body, err := doAuthorized(ctx, d.client, d.tokens, build)
	if err != nil {
		return nil, fmt.Errorf("querying DigiKey: %w", err)
	}

	var resp digikeyPricingResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parsing DigiKey response: %w", err)
	}

	if len(resp.ProductPricings) == 0 ||
		len(resp.ProductPricings[0].ProductVariations) == 0 {
		return nil, nil
	}

	pricing := resp.ProductPricings[0]
	for _, pb := range pricing.ProductVariations[0].StandardPricing {
		if pb.BreakQuantity != 1 {
			continue
		}
		// A quantity-1 break without a unit price is no offer.
		if pb.UnitPrice == nil {
			return nil, nil
		}
		return &types.Offer{
			Currency: "INR",
			Price:    *pb.UnitPrice,
			Site:     digikeyName,
			URL:      pricing.ProductURL,
		}, nil
	}

	return nil, nil
}

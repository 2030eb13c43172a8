package sources

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/nvenk/partscout/internal/tokencache"
	"github.com/nvenk/partscout/pkg/types"
)

const (
	octopartName           = "Octopart"
	defaultNexarTokenURL   = "https://identity.nexar.com/connect/token" //nolint:gosec // not a credential
	defaultNexarGraphQLURL = "https://api.nexar.com/graphql"
	nexarAudience          = "https://api.nexar.com"
)

// nexarSearchQuery asks for the first in-stock match with seller offers
// and tiered prices converted to INR.
const nexarSearchQuery = `
query Search($q: String!) {
  supSearchMpn(q: $q, limit: 1, inStockOnly: true, country: "IN", currency: "INR") {
    results {
      part {
        mpn
        sellers {
          company {
            name
          }
          offers {
            moq
            clickUrl
            prices {
              quantity
              price
              currency
              convertedPrice
              convertedCurrency
            }
          }
        }
      }
    }
  }
}`

// Octopart queries the Octopart aggregator through the Nexar GraphQL
// API. Unlike the distributor adapters it compares quantity-1 prices
// across every seller and offer in the response and keeps the cheapest,
// so the reported site is the matching seller's name, not a fixed one.
type Octopart struct {
	tokens     *TokenProvider
	tokenURL   string
	graphqlURL string
	client     *http.Client
}

// OctopartOption configures the Octopart adapter.
type OctopartOption func(*Octopart)

// WithOctopartTokenURL overrides the default Nexar identity endpoint.
func WithOctopartTokenURL(u string) OctopartOption {
	return func(o *Octopart) {
		o.tokenURL = u
	}
}

// WithOctopartGraphQLURL overrides the default Nexar GraphQL endpoint.
func WithOctopartGraphQLURL(u string) OctopartOption {
	return func(o *Octopart) {
		o.graphqlURL = u
	}
}

// WithOctopartHTTPClient overrides the default HTTP client.
func WithOctopartHTTPClient(c *http.Client) OctopartOption {
	return func(o *Octopart) {
		o.client = c
	}
}

// NewOctopart creates an Octopart adapter authenticating against the
// Nexar identity service and caching tokens in cache.
func NewOctopart(
	clientID, clientSecret string,
	cache *tokencache.Cache,
	opts ...OctopartOption,
) *Octopart {
	o := &Octopart{
		tokenURL:   defaultNexarTokenURL,
		graphqlURL: defaultNexarGraphQLURL,
		client:     newHTTPClient(),
	}
	for _, opt := range opts {
		opt(o)
	}
	o.tokens = NewTokenProvider(
		octopartName, o.tokenURL, clientID, clientSecret, cache,
		WithTokenHTTPClient(o.client),
		WithTokenFormValue("audience", nexarAudience),
	)
	return o
}

// Name implements Source.
func (*Octopart) Name() string { return octopartName }

// TokenProvider exposes the adapter's token provider for prewarming.
func (o *Octopart) TokenProvider() *TokenProvider { return o.tokens }

type nexarGraphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type nexarGraphQLResponse struct {
	Data   nexarData    `json:"data"`
	Errors []nexarError `json:"errors"`
}

type nexarError struct {
	Message string `json:"message"`
}

type nexarData struct {
	SupSearchMpn nexarSearchResult `json:"supSearchMpn"`
}

type nexarSearchResult struct {
	Results []nexarResult `json:"results"`
}

type nexarResult struct {
	Part nexarPart `json:"part"`
}

type nexarPart struct {
	MPN     string        `json:"mpn"`
	Sellers []nexarSeller `json:"sellers"`
}

type nexarSeller struct {
	Company nexarCompany `json:"company"`
	Offers  []nexarOffer `json:"offers"`
}

type nexarCompany struct {
	Name string `json:"name"`
}

type nexarOffer struct {
	MOQ      int          `json:"moq"`
	ClickURL string       `json:"clickUrl"`
	Prices   []nexarPrice `json:"prices"`
}

type nexarPrice struct {
	Quantity          int      `json:"quantity"`
	Price             *float64 `json:"price"`
	Currency          string   `json:"currency"`
	ConvertedPrice    *float64 `json:"convertedPrice"`
	ConvertedCurrency string   `json:"convertedCurrency"`
}

// FetchOffer implements Source.
func (o *Octopart) FetchOffer(
	ctx context.Context,
	partNo string,
) (*types.Offer, error) {
	payload, err := json.Marshal(nexarGraphQLRequest{
		Query:     nexarSearchQuery,
		Variables: map[string]any{"q": partNo},
	})
	if err != nil {
		return nil, fmt.Errorf("encoding Nexar query: %w", err)
	}

	build := func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(
			ctx,
			http.MethodPost,
			o.graphqlURL,
			bytes.NewReader(payload),
		)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		return req, nil
	}

	body, err := doAuthorized(ctx, o.client, o.tokens, build)
	if err != nil {
		return nil, fmt.Errorf("querying Octopart: %w", err)
	}

	var resp nexarGraphQLResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parsing Nexar response: %w", err)
	}
	if len(resp.Errors) > 0 {
		return nil, fmt.Errorf("Nexar query error: %s", resp.Errors[0].Message)
	}

	return bestNexarOffer(&resp), nil
}

// bestNexarOffer scans every seller's every offer for quantity-1 price
// entries and keeps the global minimum, a nested best-of-best within
// this one source. Ties keep the first match encountered.
func bestNexarOffer(resp *nexarGraphQLResponse) *types.Offer {
	var best *types.Offer

	for _, result := range resp.Data.SupSearchMpn.Results {
		for _, seller := range result.Part.Sellers {
			for _, offer := range seller.Offers {
				for _, p := range offer.Prices {
					if p.Quantity != 1 {
						continue
					}
					// An entry carrying neither price field is skipped
					// rather than counted as free.
					var price float64
					switch {
					case p.ConvertedPrice != nil && *p.ConvertedPrice != 0:
						price = *p.ConvertedPrice
					case p.Price != nil:
						price = *p.Price
					default:
						continue
					}
					if best != nil && price >= best.Price {
						continue
					}
					currency := p.ConvertedCurrency
					if currency == "" {
						currency = p.Currency
					}
					best = &types.Offer{
						Currency: currency,
						Price:    price,
						Site:     seller.Company.Name,
						URL:      offer.ClickURL,
					}
				}
			}
		}
	}

	return best
}

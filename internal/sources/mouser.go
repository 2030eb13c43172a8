package sources

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/nvenk/partscout/pkg/types"
)

const (
	mouserName             = "Mouser"
	defaultMouserSearchURL = "https://api.mouser.com/api/v1/search/partnumber"
)

// Mouser queries the Mouser part search API. Mouser uses a long-lived
// static API key passed as a query parameter, so there is no token flow.
type Mouser struct {
	apiKey    string
	searchURL string
	client    *http.Client
}

// MouserOption configures the Mouser adapter.
type MouserOption func(*Mouser)

// WithMouserSearchURL overrides the default search endpoint.
func WithMouserSearchURL(u string) MouserOption {
	return func(m *Mouser) {
		m.searchURL = u
	}
}

// WithMouserHTTPClient overrides the default HTTP client.
func WithMouserHTTPClient(c *http.Client) MouserOption {
	return func(m *Mouser) {
		m.client = c
	}
}

// NewMouser creates a Mouser adapter using the given API key.
func NewMouser(apiKey string, opts ...MouserOption) *Mouser {
	m := &Mouser{
		apiKey:    apiKey,
		searchURL: defaultMouserSearchURL,
		client:    newHTTPClient(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Name implements Source.
func (*Mouser) Name() string { return mouserName }

type mouserSearchRequest struct {
	SearchByPartRequest mouserPartRequest `json:"SearchByPartRequest"`
}

type mouserPartRequest struct {
	MouserPartNumber           string `json:"mouserPartNumber"`
	MouserPaysCustomsAndDuties bool   `json:"mouserPaysCustomsAndDuties"`
}

type mouserSearchResponse struct {
	SearchResults mouserSearchResults `json:"SearchResults"`
}

type mouserSearchResults struct {
	Parts []mouserPart `json:"Parts"`
}

type mouserPart struct {
	ProductDetailURL string             `json:"ProductDetailUrl"`
	PriceBreaks      []mouserPriceBreak `json:"PriceBreaks"`
}

type mouserPriceBreak struct {
	Quantity int    `json:"Quantity"`
	Price    string `json:"Price"`
	Currency string `json:"Currency"`
}

// FetchOffer implements Source.
func (m *Mouser) FetchOffer(
	ctx context.Context,
	partNo string,
) (*types.Offer, error) {
	payload, err := json.Marshal(mouserSearchRequest{
		SearchByPartRequest: mouserPartRequest{
			MouserPartNumber: partNo,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("encoding Mouser request: %w", err)
	}

	params := url.Values{}
	params.Set("apiKey", m.apiKey)

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		m.searchURL+"?"+params.Encode(),
		bytes.NewReader(payload),
	)
	if err != nil {
		return nil, fmt.Errorf("creating Mouser request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("querying Mouser: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading Mouser response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf(
			"Mouser API error (status %d): %s",
			resp.StatusCode,
			string(body),
		)
	}

	var searchResp mouserSearchResponse
	if err := json.Unmarshal(body, &searchResp); err != nil {
		return nil, fmt.Errorf("parsing Mouser response: %w", err)
	}

	if len(searchResp.SearchResults.Parts) == 0 {
		return nil, nil
	}

	part := searchResp.SearchResults.Parts[0]
	for _, pb := range part.PriceBreaks {
		if pb.Quantity == 1 {
			price, err := parseMouserPrice(pb.Price)
			if err != nil {
				return nil, fmt.Errorf("parsing Mouser price %q: %w", pb.Price, err)
			}
			return &types.Offer{
				Currency: pb.Currency,
				Price:    price,
				Site:     mouserName,
				URL:      part.ProductDetailURL,
			}, nil
		}
	}

	return nil, nil
}

// parseMouserPrice converts Mouser's currency-prefixed price string,
// e.g. "$1,234.56" or "₹85.40", to a float. The first rune is the
// currency symbol; thousands separators are stripped.
func parseMouserPrice(raw string) (float64, error) {
	runes := []rune(raw)
	if len(runes) < 2 {
		return 0, fmt.Errorf("price string too short")
	}
	cleaned := strings.ReplaceAll(string(runes[1:]), ",", "")
	return strconv.ParseFloat(cleaned, 64)
}

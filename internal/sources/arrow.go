package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/nvenk/partscout/pkg/types"
)

const (
	arrowName             = "Arrow"
	arrowWebsiteName      = "arrow.com"
	defaultArrowSearchURL = "http://api.arrow.com/itemservice/v4/en/search/token"
)

// Arrow queries the Arrow item service. Auth is a login plus static API
// key passed as query parameters, so there is no token flow.
type Arrow struct {
	login     string
	apiKey    string
	searchURL string
	client    *http.Client
}

// ArrowOption configures the Arrow adapter.
type ArrowOption func(*Arrow)

// WithArrowSearchURL overrides the default item service endpoint.
func WithArrowSearchURL(u string) ArrowOption {
	return func(a *Arrow) {
		a.searchURL = u
	}
}

// WithArrowHTTPClient overrides the default HTTP client.
func WithArrowHTTPClient(c *http.Client) ArrowOption {
	return func(a *Arrow) {
		a.client = c
	}
}

// NewArrow creates an Arrow adapter using the given login and API key.
func NewArrow(login, apiKey string, opts ...ArrowOption) *Arrow {
	a := &Arrow{
		login:     login,
		apiKey:    apiKey,
		searchURL: defaultArrowSearchURL,
		client:    newHTTPClient(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Name implements Source.
func (*Arrow) Name() string { return arrowName }

type arrowSearchResponse struct {
	ItemServiceResult arrowItemServiceResult `json:"itemserviceresult"`
}

type arrowItemServiceResult struct {
	Data []arrowPartData `json:"data"`
}

type arrowPartData struct {
	PartList []arrowPart `json:"PartList"`
}

type arrowPart struct {
	InvOrg *arrowInvOrg `json:"InvOrg"`
}

type arrowInvOrg struct {
	WebSites []arrowWebSite `json:"webSites"`
}

type arrowWebSite struct {
	Name    string        `json:"name"`
	Sources []arrowSource `json:"sources"`
}

type arrowSource struct {
	SourceParts []arrowSourcePart `json:"sourceParts"`
}

type arrowSourcePart struct {
	Prices    arrowPrices     `json:"Prices"`
	Resources []arrowResource `json:"resources"`
}

type arrowPrices struct {
	ResaleList []arrowResalePrice `json:"resaleList"`
}

type arrowResalePrice struct {
	MinQty int      `json:"minQty"`
	Price  *float64 `json:"price"`
}

type arrowResource struct {
	Type string `json:"type"`
	URI  string `json:"uri"`
}

// FetchOffer implements Source. The traversal walks the arrow.com
// website branch down to resale price lists and returns on the first
// minQty==1 match found, not the cheapest across branches.
func (a *Arrow) FetchOffer(
	ctx context.Context,
	partNo string,
) (*types.Offer, error) {
	params := url.Values{}
	params.Set("login", a.login)
	params.Set("apikey", a.apiKey)
	params.Set("search_token", partNo)
	params.Set("utm_currency", "INR")

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodGet,
		a.searchURL+"?"+params.Encode(),
		http.NoBody,
	)
	if err != nil {
		return nil, fmt.Errorf("creating Arrow request: %w", err)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("querying Arrow: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading Arrow response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf(
			"Arrow API error (status %d): %s",
			resp.StatusCode,
			string(body),
		)
	}

	var searchResp arrowSearchResponse
	if err := json.Unmarshal(body, &searchResp); err != nil {
		return nil, fmt.Errorf("parsing Arrow response: %w", err)
	}

	return findArrowOffer(&searchResp), nil
}

func findArrowOffer(resp *arrowSearchResponse) *types.Offer {
	for _, data := range resp.ItemServiceResult.Data {
		for _, part := range data.PartList {
			if part.InvOrg == nil {
				continue
			}
			for _, site := range part.InvOrg.WebSites {
				if site.Name != arrowWebsiteName {
					continue
				}
				for _, src := range site.Sources {
					for _, sp := range src.SourceParts {
						for _, price := range sp.Prices.ResaleList {
							if price.MinQty != 1 {
								continue
							}
							// First match decides; if its price field
							// is absent there is no offer.
							if price.Price == nil {
								return nil
							}
							return &types.Offer{
								Currency: "INR",
								Price:    *price.Price,
								Site:     arrowName,
								URL:      detailURL(sp.Resources),
							}
						}
					}
				}
			}
		}
	}
	return nil
}

// detailURL returns the first "detail" resource URI, or empty when the
// source-part carries none.
func detailURL(resources []arrowResource) string {
	for _, r := range resources {
		if r.Type == "detail" {
			return r.URI
		}
	}
	return ""
}

package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/nvenk/partscout/internal/engine"
	"github.com/nvenk/partscout/pkg/types"
)

// Finder aggregates offers for a part number across all sources.
type Finder interface {
	FindBestOffer(ctx context.Context, partNo string) ([]types.Offer, error)
}

// SearchHandler handles part-number price searches.
type SearchHandler struct {
	finder Finder
}

// NewSearchHandler creates a new SearchHandler.
func NewSearchHandler(f Finder) *SearchHandler {
	return &SearchHandler{finder: f}
}

// SearchInput is the request for the search endpoint.
type SearchInput struct {
	PartNo string `query:"part_no" required:"true" minLength:"1" doc:"Manufacturer part number" example:"LM358"`
}

// SearchOutput is the response body for the search endpoint.
type SearchOutput struct {
	Body struct {
		Offers []types.Offer `json:"offers" doc:"All usable offers, cheapest flagged is_best"`
	}
}

// Search fans the part number out to every source and returns all
// quotes with the cheapest highlighted.
func (h *SearchHandler) Search(
	ctx context.Context,
	input *SearchInput,
) (*SearchOutput, error) {
	offers, err := h.finder.FindBestOffer(ctx, input.PartNo)
	if err != nil {
		if errors.Is(err, engine.ErrNoOffers) {
			return nil, huma.Error404NotFound("no offers found")
		}
		return nil, huma.Error502BadGateway("searching sources: " + err.Error())
	}

	out := &SearchOutput{}
	out.Body.Offers = offers
	return out, nil
}

// RegisterSearchRoutes registers search endpoints with the Huma API.
func RegisterSearchRoutes(api huma.API, h *SearchHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "search-part",
		Method:      http.MethodGet,
		Path:        "/api/v1/search",
		Summary:     "Find the cheapest offer for a part number",
		Description: "Queries all configured distributor APIs concurrently and returns every quantity-1 offer, with the cheapest flagged is_best.",
		Tags:        []string{"search"},
		Errors:      []int{http.StatusNotFound, http.StatusBadGateway},
	}, h.Search)
}

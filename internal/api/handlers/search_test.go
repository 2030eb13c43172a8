package handlers_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nvenk/partscout/internal/api/handlers"
	"github.com/nvenk/partscout/internal/engine"
	"github.com/nvenk/partscout/pkg/types"
)

// fakeFinder is a hand-rolled Finder returning fixed results.
type fakeFinder struct {
	offers    []types.Offer
	err       error
	gotPartNo string
}

func (f *fakeFinder) FindBestOffer(
	_ context.Context,
	partNo string,
) ([]types.Offer, error) {
	f.gotPartNo = partNo
	return f.offers, f.err
}

func TestSearchHandler_Search(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		path       string
		finder     *fakeFinder
		wantStatus int
		wantBody   string
	}{
		{
			name: "returns all offers with best flagged",
			path: "/api/v1/search?part_no=LM358",
			finder: &fakeFinder{offers: []types.Offer{
				{Currency: "INR", Price: 12.50, Site: "TI", IsBest: false},
				{Currency: "INR", Price: 9.80, Site: "Arrow", IsBest: true},
			}},
			wantStatus: http.StatusOK,
			wantBody:   `"is_best":true`,
		},
		{
			name:       "no offers yields 404",
			path:       "/api/v1/search?part_no=NOPART",
			finder:     &fakeFinder{err: engine.ErrNoOffers},
			wantStatus: http.StatusNotFound,
			wantBody:   "no offers found",
		},
		{
			name:       "missing part_no yields 422",
			path:       "/api/v1/search",
			finder:     &fakeFinder{},
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "unexpected engine error yields 502",
			path:       "/api/v1/search?part_no=LM358",
			finder:     &fakeFinder{err: errors.New("boom")},
			wantStatus: http.StatusBadGateway,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := handlers.NewSearchHandler(tt.finder)

			_, api := humatest.New(t)
			handlers.RegisterSearchRoutes(api, h)

			resp := api.Get(tt.path)
			require.Equal(t, tt.wantStatus, resp.Code)
			if tt.wantBody != "" {
				assert.Contains(t, resp.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestSearchHandler_PassesPartNumber(t *testing.T) {
	t.Parallel()

	finder := &fakeFinder{offers: []types.Offer{
		{Currency: "INR", Price: 1, Site: "TI", IsBest: true},
	}}
	h := handlers.NewSearchHandler(finder)

	_, api := humatest.New(t)
	handlers.RegisterSearchRoutes(api, h)

	resp := api.Get("/api/v1/search?part_no=OPA2134PA")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "OPA2134PA", finder.gotPartNo)
}

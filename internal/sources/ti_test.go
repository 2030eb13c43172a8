package sources_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nvenk/partscout/internal/sources"
	"github.com/nvenk/partscout/internal/tokencache"
)

const tiProductsJSON = `{
  "content": [
    {
      "buyNowUrl": "https://www.ti.com/product/LM358/buy",
      "pricing": [
        {
          "currency": "INR",
          "priceBreaks": [
            {"priceBreakQuantity": 100, "price": 8.10},
            {"priceBreakQuantity": 1, "price": 12.50},
            {"priceBreakQuantity": 10, "price": 10.25}
          ]
        }
      ]
    }
  ]
}`

func newTIServer(
	t *testing.T,
	products http.HandlerFunc,
) (*httptest.Server, *sources.TI, *tokencache.Cache) {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(tokenJSON("ti-token", 3600))
	})
	mux.HandleFunc("/products", products)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	cache := tokencache.New()
	ti := sources.NewTI(
		"id", "secret", cache,
		sources.WithTITokenURL(srv.URL+"/token"),
		sources.WithTIProductURL(srv.URL+"/products"),
	)
	return srv, ti, cache
}

func TestTI_FetchOffer(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		handler   http.HandlerFunc
		wantOffer bool
		wantErr   bool
		wantPrice float64
	}{
		{
			name: "selects quantity-1 break regardless of order",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(tiProductsJSON))
			},
			wantOffer: true,
			wantPrice: 12.50,
		},
		{
			name: "no quantity-1 break",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{
				  "content": [{"pricing": [{"currency": "INR", "priceBreaks": [
				    {"priceBreakQuantity": 10, "price": 10.25}
				  ]}]}]
				}`))
			},
		},
		{
			name: "quantity-1 break without a price field",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{
				  "content": [{"pricing": [{"currency": "INR", "priceBreaks": [
				    {"priceBreakQuantity": 1}
				  ]}]}]
				}`))
			},
		},
		{
			name: "empty content list",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{"content": []}`))
			},
		},
		{
			name: "product without pricing",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{"content": [{"buyNowUrl": "x"}]}`))
			},
		},
		{
			name: "malformed JSON",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte("not json"))
			},
			wantErr: true,
		},
		{
			name: "server error",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, ti, _ := newTIServer(t, tt.handler)

			offer, err := ti.FetchOffer(context.Background(), "LM358")

			if tt.wantErr {
				require.Error(t, err)
				assert.Nil(t, offer)
				return
			}
			require.NoError(t, err)

			if !tt.wantOffer {
				assert.Nil(t, offer)
				return
			}

			require.NotNil(t, offer)
			assert.Equal(t, tt.wantPrice, offer.Price)
			assert.Equal(t, "INR", offer.Currency)
			assert.Equal(t, "TI", offer.Site)
			assert.Equal(t, "https://www.ti.com/product/LM358/buy", offer.URL)
			assert.False(t, offer.IsBest)
		})
	}
}

func TestTI_RequestFormat(t *testing.T) {
	t.Parallel()

	_, ti, _ := newTIServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer ti-token", r.Header.Get("Authorization"))
		assert.Equal(t, "OPA358 AIDR", r.URL.Query().Get("gpn"))
		assert.Equal(t, "INR", r.URL.Query().Get("currency"))
		_, _ = w.Write([]byte(tiProductsJSON))
	})

	offer, err := ti.FetchOffer(context.Background(), "OPA358 AIDR")
	require.NoError(t, err)
	require.NotNil(t, offer)
}

func TestTI_RetryOn401(t *testing.T) {
	t.Parallel()

	var tokenCalls, productCalls atomic.Int32

	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, _ *http.Request) {
		n := tokenCalls.Add(1)
		if n == 1 {
			_, _ = w.Write(tokenJSON("stale-token", 3600))
		} else {
			_, _ = w.Write(tokenJSON("fresh-token", 3600))
		}
	})
	mux.HandleFunc("/products", func(w http.ResponseWriter, r *http.Request) {
		productCalls.Add(1)
		if r.Header.Get("Authorization") != "Bearer fresh-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(tiProductsJSON))
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	cache := tokencache.New()
	ti := sources.NewTI(
		"id", "secret", cache,
		sources.WithTITokenURL(srv.URL+"/token"),
		sources.WithTIProductURL(srv.URL+"/products"),
	)

	offer, err := ti.FetchOffer(context.Background(), "LM358")
	require.NoError(t, err)
	require.NotNil(t, offer)
	assert.Equal(t, 12.50, offer.Price)

	assert.Equal(t, int32(2), tokenCalls.Load(), "one initial exchange plus one forced refresh")
	assert.Equal(t, int32(2), productCalls.Load(), "exactly one retry")

	// The cache must now hold the refreshed token.
	token, ok := cache.Get("TI")
	require.True(t, ok)
	assert.Equal(t, "fresh-token", token)
}

func TestTI_SecondUnauthorizedIsTerminal(t *testing.T) {
	t.Parallel()

	var productCalls atomic.Int32

	_, ti, _ := newTIServer(t, func(w http.ResponseWriter, _ *http.Request) {
		productCalls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	})

	offer, err := ti.FetchOffer(context.Background(), "LM358")
	require.Error(t, err)
	assert.Nil(t, offer)
	assert.Equal(t, int32(2), productCalls.Load(), "no retries beyond the one forced refresh")
}

// Package main implements a mock distributor API server for local
// development. It serves canned quantity-1 offers shaped like the TI,
// Mouser, DigiKey, Arrow, and Nexar APIs so the full search path can be
// exercised without real credentials.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"
)

// catalogEntry holds the quantity-1 price each mock distributor quotes
// for a part. A zero price means the distributor has no stock.
type catalogEntry struct {
	TI       float64 `json:"ti"`
	Mouser   float64 `json:"mouser"`
	DigiKey  float64 `json:"digikey"`
	Arrow    float64 `json:"arrow"`
	Octopart float64 `json:"octopart"`
}

func defaultCatalog() map[string]catalogEntry {
	return map[string]catalogEntry{
		"LM358": {
			TI:       8.42,
			Mouser:   9.10,
			DigiKey:  8.95,
			Arrow:    8.60,
			Octopart: 8.15,
		},
		"OPA2134PA": {
			TI:       245.60,
			Mouser:   260.00,
			Arrow:    251.30,
			Octopart: 248.75,
		},
	}
}

func main() {
	port := flag.Int("port", 8089, "port to listen on")
	fixtureFile := flag.String("fixture", "", "optional JSON catalog overriding the built-in parts")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	catalog := defaultCatalog()
	if *fixtureFile != "" {
		loaded, err := loadCatalog(*fixtureFile)
		if err != nil {
			logger.Error("failed to load fixture", "path", *fixtureFile, "error", err)
			os.Exit(1)
		}
		catalog = loaded
	}
	logger.Info("catalog loaded", "parts", len(catalog))

	addr := fmt.Sprintf(":%d", *port)
	logger.Info("starting mock distributor server", "addr", addr)

	srv := &http.Server{
		Addr:         addr,
		Handler:      requestLogger(logger, newMux(logger, catalog)),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

// newMux routes the endpoints of all five distributor APIs on one mux,
// paths matching each adapter's default URL.
func newMux(logger *slog.Logger, catalog map[string]catalogEntry) *http.ServeMux {
	mux := http.NewServeMux()

	// TI store API.
	mux.HandleFunc("POST /v1/oauth/accesstoken", tokenHandler(logger, "ti"))
	mux.HandleFunc("GET /v2/store/products", tiHandler(logger, catalog))

	// Mouser search API.
	mux.HandleFunc("POST /api/v1/search/partnumber", mouserHandler(logger, catalog))

	// DigiKey product API.
	mux.HandleFunc("POST /v1/oauth2/token", tokenHandler(logger, "digikey"))
	mux.HandleFunc("GET /products/v4/search/{part}/pricing", digikeyHandler(logger, catalog))

	// Arrow item service.
	mux.HandleFunc("GET /itemservice/v4/en/search/token", arrowHandler(logger, catalog))

	// Nexar identity and GraphQL.
	mux.HandleFunc("POST /connect/token", tokenHandler(logger, "nexar"))
	mux.HandleFunc("POST /graphql", nexarHandler(logger, catalog))

	return mux
}

func loadCatalog(path string) (map[string]catalogEntry, error) {
	data, err := os.ReadFile(path) //nolint:gosec // fixture path from trusted CLI flag
	if err != nil {
		return nil, fmt.Errorf("reading fixture: %w", err)
	}
	var catalog map[string]catalogEntry
	if err := json.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("parsing fixture: %w", err)
	}
	return catalog, nil
}

func requestLogger(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.Debug("request", "method", r.Method, "path", r.URL.Path, "query", r.URL.RawQuery)
		next.ServeHTTP(w, r)
	})
}

func writeJSON(logger *slog.Logger, w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("writing response", "error", err)
	}
}

// tokenHandler issues a mock bearer token for any client-credentials
// exchange. Credentials are not verified, only required to be present.
func tokenHandler(logger *slog.Logger, source string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil || r.PostForm.Get("grant_type") != "client_credentials" {
			logger.Warn("bad token request", "source", source)
			writeJSON(logger, w, http.StatusBadRequest, map[string]string{
				"error": "unsupported_grant_type",
			})
			return
		}
		if r.PostForm.Get("client_id") == "" || r.PostForm.Get("client_secret") == "" {
			writeJSON(logger, w, http.StatusUnauthorized, map[string]string{
				"error": "invalid_client",
			})
			return
		}

		writeJSON(logger, w, http.StatusOK, map[string]any{
			"access_token": "mock-token-" + source,
			"expires_in":   3600,
			"token_type":   "Bearer",
		})
		logger.Info("issued mock token", "source", source)
	}
}

func tiHandler(logger *slog.Logger, catalog map[string]catalogEntry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "" {
			writeJSON(logger, w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
			return
		}

		partNo := r.URL.Query().Get("gpn")
		entry, ok := catalog[partNo]
		if !ok || entry.TI == 0 {
			writeJSON(logger, w, http.StatusOK, map[string]any{"content": []any{}})
			return
		}

		writeJSON(logger, w, http.StatusOK, map[string]any{
			"content": []any{
				map[string]any{
					"buyNowUrl": "https://www.ti.com/product/" + partNo,
					"pricing": []any{
						map[string]any{
							"currency": "INR",
							"priceBreaks": []any{
								map[string]any{"priceBreakQuantity": 1, "price": entry.TI},
								map[string]any{"priceBreakQuantity": 10, "price": entry.TI * 0.9},
							},
						},
					},
				},
			},
		})
	}
}

func mouserHandler(logger *slog.Logger, catalog map[string]catalogEntry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("apiKey") == "" {
			writeJSON(logger, w, http.StatusUnauthorized, map[string]string{"Message": "missing api key"})
			return
		}

		var req struct {
			SearchByPartRequest struct {
				MouserPartNumber string `json:"mouserPartNumber"`
			} `json:"SearchByPartRequest"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(logger, w, http.StatusBadRequest, map[string]string{"Message": "bad request"})
			return
		}

		partNo := req.SearchByPartRequest.MouserPartNumber
		entry, ok := catalog[partNo]
		if !ok || entry.Mouser == 0 {
			writeJSON(logger, w, http.StatusOK, map[string]any{
				"SearchResults": map[string]any{"Parts": []any{}},
			})
			return
		}

		writeJSON(logger, w, http.StatusOK, map[string]any{
			"SearchResults": map[string]any{
				"Parts": []any{
					map[string]any{
						"ProductDetailUrl": "https://www.mouser.in/ProductDetail/" + partNo,
						"PriceBreaks": []any{
							map[string]any{
								"Quantity": 1,
								"Price":    fmt.Sprintf("₹%.2f", entry.Mouser),
								"Currency": "INR",
							},
							map[string]any{
								"Quantity": 10,
								"Price":    fmt.Sprintf("₹%.2f", entry.Mouser*0.92),
								"Currency": "INR",
							},
						},
					},
				},
			},
		})
	}
}

func digikeyHandler(logger *slog.Logger, catalog map[string]catalogEntry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "" || r.Header.Get("X-DIGIKEY-Client-Id") == "" {
			writeJSON(logger, w, http.StatusUnauthorized, map[string]string{"detail": "unauthorized"})
			return
		}

		partNo := r.PathValue("part")
		entry, ok := catalog[partNo]
		if !ok || entry.DigiKey == 0 {
			writeJSON(logger, w, http.StatusOK, map[string]any{"ProductPricings": []any{}})
			return
		}

		writeJSON(logger, w, http.StatusOK, map[string]any{
			"ProductPricings": []any{
				map[string]any{
					"ProductUrl": "https://www.digikey.in/en/products/detail/" + partNo,
					"ProductVariations": []any{
						map[string]any{
							"StandardPricing": []any{
								map[string]any{"BreakQuantity": 1, "UnitPrice": entry.DigiKey},
								map[string]any{"BreakQuantity": 25, "UnitPrice": entry.DigiKey * 0.88},
							},
						},
					},
				},
			},
		})
	}
}

func arrowHandler(logger *slog.Logger, catalog map[string]catalogEntry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("login") == "" || r.URL.Query().Get("apikey") == "" {
			writeJSON(logger, w, http.StatusUnauthorized, map[string]string{"message": "unauthorized"})
			return
		}

		partNo := r.URL.Query().Get("search_token")
		entry, ok := catalog[partNo]
		if !ok || entry.Arrow == 0 {
			writeJSON(logger, w, http.StatusOK, map[string]any{
				"itemserviceresult": map[string]any{"data": []any{}},
			})
			return
		}

		writeJSON(logger, w, http.StatusOK, map[string]any{
			"itemserviceresult": map[string]any{
				"data": []any{
					map[string]any{
						"PartList": []any{
							map[string]any{
								"InvOrg": map[string]any{
									"webSites": []any{
										map[string]any{
											"name": "arrow.com",
											"sources": []any{
												map[string]any{
													"sourceParts": []any{
														map[string]any{
															"Prices": map[string]any{
																"resaleList": []any{
																	map[string]any{"minQty": 1, "price": entry.Arrow},
																	map[string]any{"minQty": 100, "price": entry.Arrow * 0.85},
																},
															},
															"resources": []any{
																map[string]any{
																	"type": "detail",
																	"uri":  "https://www.arrow.com/en/products/" + partNo,
																},
															},
														},
													},
												},
											},
										},
									},
								},
							},
						},
					},
				},
			},
		})
	}
}

func nexarHandler(logger *slog.Logger, catalog map[string]catalogEntry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "" {
			writeJSON(logger, w, http.StatusUnauthorized, map[string]string{"message": "unauthorized"})
			return
		}

		var req struct {
			Variables map[string]any `json:"variables"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(logger, w, http.StatusBadRequest, map[string]string{"message": "bad request"})
			return
		}

		partNo, _ := req.Variables["q"].(string)
		entry, ok := catalog[partNo]
		if !ok || entry.Octopart == 0 {
			writeJSON(logger, w, http.StatusOK, map[string]any{
				"data": map[string]any{
					"supSearchMpn": map[string]any{"results": []any{}},
				},
			})
			return
		}

		writeJSON(logger, w, http.StatusOK, map[string]any{
			"data": map[string]any{
				"supSearchMpn": map[string]any{
					"results": []any{
						map[string]any{
							"part": map[string]any{
								"mpn": partNo,
								"sellers": []any{
									map[string]any{
										"company": map[string]any{"name": "Mock Components"},
										"offers": []any{
											map[string]any{
												"moq":      1,
												"clickUrl": "https://octopart.com/" + partNo,
												"prices": []any{
													map[string]any{
														"quantity":          1,
														"price":             entry.Octopart,
														"currency":          "INR",
														"convertedPrice":    entry.Octopart,
														"convertedCurrency": "INR",
													},
												},
											},
										},
									},
								},
							},
						},
					},
				},
			},
		})
	}
}

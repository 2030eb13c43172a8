package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humaecho"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/nvenk/partscout/internal/api/handlers"
	apimw "github.com/nvenk/partscout/internal/api/middleware"
	"github.com/nvenk/partscout/internal/config"
	"github.com/nvenk/partscout/internal/engine"
	"github.com/nvenk/partscout/internal/sources"
	"github.com/nvenk/partscout/internal/tokencache"
	"github.com/nvenk/partscout/pkg/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	RunE:  runServe,
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)

	cache := tokencache.New()
	httpClient := &http.Client{Timeout: cfg.Sources.Timeout}

	srcs, providers := buildSources(cfg, cache, httpClient)
	log.Info("sources configured", "count", len(srcs))

	eng := engine.New(srcs, engine.WithLogger(log))

	if cfg.Prewarm.Enabled {
		prewarmer, err := engine.NewPrewarmer(providers, cfg.Prewarm.Interval, log)
		if err != nil {
			return fmt.Errorf("creating token prewarmer: %w", err)
		}
		go prewarmer.Run()
		prewarmer.Start()
		defer prewarmer.Stop()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout

	e.Use(apimw.Recovery(log))
	e.Use(apimw.RequestLog(log))
	e.Use(apimw.Metrics())

	health := handlers.NewHealthHandler()
	e.GET("/healthz", health.Healthz)
	e.GET("/readyz", health.Readyz)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := humaecho.New(e, huma.DefaultConfig("partscout API", Version))
	handlers.RegisterSearchRoutes(api, handlers.NewSearchHandler(eng))

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Info("starting server", "addr", addr)

	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}

	log.Info("server stopped")
	return nil
}

// buildSources constructs the enabled adapters in the fixed tie-break
// order and collects the token providers eligible for prewarming.
func buildSources(
	cfg *config.Config,
	cache *tokencache.Cache,
	hc *http.Client,
) ([]sources.Source, []*sources.TokenProvider) {
	var (
		srcs      []sources.Source
		providers []*sources.TokenProvider
	)

	s := &cfg.Sources

	if s.TI.Enabled {
		opts := []sources.TIOption{sources.WithTIHTTPClient(hc)}
		if s.TI.TokenURL != "" {
			opts = append(opts, sources.WithTITokenURL(s.TI.TokenURL))
		}
		if s.TI.ProductURL != "" {
			opts = append(opts, sources.WithTIProductURL(s.TI.ProductURL))
		}
		ti := sources.NewTI(s.TI.ClientID, s.TI.ClientSecret, cache, opts...)
		srcs = append(srcs, ti)
		providers = append(providers, ti.TokenProvider())
	}

	if s.Mouser.Enabled {
		opts := []sources.MouserOption{sources.WithMouserHTTPClient(hc)}
		if s.Mouser.SearchURL != "" {
			opts = append(opts, sources.WithMouserSearchURL(s.Mouser.SearchURL))
		}
		srcs = append(srcs, sources.NewMouser(s.Mouser.APIKey, opts...))
	}

	if s.DigiKey.Enabled {
		opts := []sources.DigiKeyOption{sources.WithDigiKeyHTTPClient(hc)}
		if s.DigiKey.TokenURL != "" {
			opts = append(opts, sources.WithDigiKeyTokenURL(s.DigiKey.TokenURL))
		}
		if s.DigiKey.PricingURL != "" {
			opts = append(opts, sources.WithDigiKeyPricingURL(s.DigiKey.PricingURL))
		}
		dk := sources.NewDigiKey(s.DigiKey.ClientID, s.DigiKey.ClientSecret, cache, opts...)
		srcs = append(srcs, dk)
		providers = append(providers, dk.TokenProvider())
	}

	if s.Arrow.Enabled {
		opts := []sources.ArrowOption{sources.WithArrowHTTPClient(hc)}
		if s.Arrow.SearchURL != "" {
			opts = append(opts, sources.WithArrowSearchURL(s.Arrow.SearchURL))
		}
		srcs = append(srcs, sources.NewArrow(s.Arrow.Login, s.Arrow.APIKey, opts...))
	}

	if s.Octopart.Enabled {
		opts := []sources.OctopartOption{sources.WithOctopartHTTPClient(hc)}
		if s.Octopart.TokenURL != "" {
			opts = append(opts, sources.WithOctopartTokenURL(s.Octopart.TokenURL))
		}
		if s.Octopart.GraphQLURL != "" {
			opts = append(opts, sources.WithOctopartGraphQLURL(s.Octopart.GraphQLURL))
		}
		op := sources.NewOctopart(s.Octopart.ClientID, s.Octopart.ClientSecret, cache, opts...)
		srcs = append(srcs, op)
		providers = append(providers, op.TokenProvider())
	}

	return srcs, providers
}

package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/nvenk/partscout/internal/sources"
)

const prewarmTimeout = 30 * time.Second

// Prewarmer periodically refreshes bearer tokens for the token-based
// sources so interactive queries rarely pay the credential-exchange
// round trip. The token cache's own expiry buffer still applies; the
// prewarmer only tops up entries that have lapsed.
type Prewarmer struct {
	cron      *cron.Cron
	providers []*sources.TokenProvider
	log       *slog.Logger
}

// NewPrewarmer creates a Prewarmer running every interval.
func NewPrewarmer(
	providers []*sources.TokenProvider,
	interval time.Duration,
	log *slog.Logger,
) (*Prewarmer, error) {
	c := cron.New()

	p := &Prewarmer{
		cron:      c,
		providers: providers,
		log:       log,
	}

	if _, err := c.AddFunc("@every "+interval.String(), p.run); err != nil {
		return nil, err
	}

	return p, nil
}

// Start begins the periodic refresh.
func (p *Prewarmer) Start() {
	p.log.Info("token prewarmer started", "providers", len(p.providers))
	p.cron.Start()
}

// Stop gracefully stops the prewarmer, waiting for a running refresh
// to finish.
func (p *Prewarmer) Stop() context.Context {
	p.log.Info("token prewarmer stopping")
	return p.cron.Stop()
}

// Entries returns the registered cron entries for inspection.
func (p *Prewarmer) Entries() []cron.Entry {
	return p.cron.Entries()
}

// Run refreshes all providers once. Exposed so serve can warm tokens
// at startup before the first tick.
func (p *Prewarmer) Run() {
	p.run()
}

func (p *Prewarmer) run() {
	ctx, cancel := context.WithTimeout(context.Background(), prewarmTimeout)
	defer cancel()

	for _, provider := range p.providers {
		if _, err := provider.Token(ctx); err != nil {
			p.log.Warn("token prewarm failed",
				"source", provider.Source(),
				"error", err,
			)
		}
	}
}

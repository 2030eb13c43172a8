package engine_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nvenk/partscout/internal/engine"
	"github.com/nvenk/partscout/internal/sources"
	"github.com/nvenk/partscout/internal/tokencache"
	"github.com/nvenk/partscout/pkg/logger"
)

func TestPrewarmer_RunFillsCache(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = fmt.Fprintf(w, `{"access_token":"warm","expires_in":3600}`)
		}),
	)
	defer srv.Close()

	cache := tokencache.New()
	providers := []*sources.TokenProvider{
		sources.NewTokenProvider("TI", srv.URL, "id", "secret", cache),
		sources.NewTokenProvider("DIGIKEY", srv.URL, "id", "secret", cache),
	}

	p, err := engine.NewPrewarmer(providers, time.Hour, logger.Discard())
	require.NoError(t, err)
	require.Len(t, p.Entries(), 1)

	p.Run()

	for _, source := range []string{"TI", "DIGIKEY"} {
		token, ok := cache.Get(source)
		require.True(t, ok, source)
		assert.Equal(t, "warm", token)
	}
}

func TestPrewarmer_RunSurvivesFailure(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = fmt.Fprintf(w, `{"access_token":"warm","expires_in":3600}`)
		}),
	)
	defer srv.Close()

	cache := tokencache.New()
	providers := []*sources.TokenProvider{
		// Unreachable endpoint; must not stop the remaining providers.
		sources.NewTokenProvider("TI", "http://127.0.0.1:1", "id", "secret", cache),
		sources.NewTokenProvider("OCTOPART", srv.URL, "id", "secret", cache),
	}

	p, err := engine.NewPrewarmer(providers, time.Hour, logger.Discard())
	require.NoError(t, err)

	p.Run()

	_, ok := cache.Get("TI")
	assert.False(t, ok)

	token, ok := cache.Get("OCTOPART")
	require.True(t, ok)
	assert.Equal(t, "warm", token)
}

func TestPrewarmer_StartStop(t *testing.T) {
	t.Parallel()

	p, err := engine.NewPrewarmer(nil, time.Minute, logger.Discard())
	require.NoError(t, err)

	p.Start()
	ctx := p.Stop()

	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop")
	}
}

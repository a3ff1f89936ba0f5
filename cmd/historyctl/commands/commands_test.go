package commands

import (
	"bytes"
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/indredK/history-sub002/internal/api"
	"github.com/indredK/history-sub002/internal/assets"
	"github.com/indredK/history-sub002/internal/datasource"
	"github.com/indredK/history-sub002/internal/fallback"
	"github.com/indredK/history-sub002/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestServer(t *testing.T, token string) (*httptest.Server, *service.Catalog) {
	t.Helper()
	loader := assets.NewFS(fstest.MapFS{
		"data/json/dynasties.json": {Data: []byte(`[{"id":"tang","name":"唐","start_year":618,"end_year":907}]`)},
	}, "/", zap.NewNop())
	cat := service.NewCatalog(service.Deps{
		Mode:     datasource.ModeMock,
		Fallback: fallback.New(fallback.DefaultConfig(), zap.NewNop()),
		Assets:   loader,
		Logger:   zap.NewNop(),
	})
	app := api.NewApp(cat, api.Options{
		AdminToken:     token,
		CORSOrigins:    []string{"*"},
		RateLimitRPS:   1000,
		RateLimitBurst: 1000,
	}, zap.NewNop())
	srv := httptest.NewServer(app.Router)
	t.Cleanup(func() {
		srv.Close()
		app.Close()
	})
	return srv, cat
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestNewRootCmd(t *testing.T) {
	cmd := NewRootCmd()
	assert.Equal(t, "historyctl", cmd.Use)
	assert.NotEmpty(t, cmd.Long)

	for _, name := range []string{"server", "token", "timeout"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(name), name)
	}

	var names []string
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	assert.Subset(t, names, []string{"status", "fallback", "get", "version"})
}

func TestStatus(t *testing.T) {
	srv, _ := newTestServer(t, "")

	out, err := run(t, "--server", srv.URL, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Mode:")
	assert.Contains(t, out, "mock")
	assert.Contains(t, out, "inactive")
	assert.Contains(t, out, "0 / 3")

	out, err = run(t, "--server", srv.URL, "status", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"fallbackThreshold": 3`)
}

func TestStatus_Watch(t *testing.T) {
	srv, _ := newTestServer(t, "")

	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()

	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--server", srv.URL, "status", "--watch", "--interval", "40ms"})
	require.NoError(t, cmd.ExecuteContext(ctx))
	assert.GreaterOrEqual(t, strings.Count(out.String(), "Mode:"), 2)
}

func TestFallbackCommands(t *testing.T) {
	srv, cat := newTestServer(t, "letmein")

	_, err := run(t, "--server", srv.URL, "fallback", "activate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
	assert.False(t, cat.Status().Fallback.IsActive)

	out, err := run(t, "--server", srv.URL, "--token", "letmein", "fallback", "activate")
	require.NoError(t, err)
	assert.Contains(t, out, "ACTIVE (recovers in")
	assert.True(t, cat.Status().Fallback.IsActive)

	out, err = run(t, "--server", srv.URL, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "ACTIVE")

	out, err = run(t, "--server", srv.URL, "--token", "letmein", "fallback", "deactivate")
	require.NoError(t, err)
	assert.Contains(t, out, "inactive")

	_, err = run(t, "--server", srv.URL, "--token", "letmein", "fallback", "reset")
	require.NoError(t, err)
}

func TestFallbackConfig(t *testing.T) {
	srv, cat := newTestServer(t, "")

	out, err := run(t, "--server", srv.URL, "fallback", "config")
	require.NoError(t, err)
	assert.Contains(t, out, `"fallbackDurationMs": 300000`)

	out, err = run(t, "--server", srv.URL, "fallback", "config", "--threshold", "7", "--duration", "2m", "--exclude", "CLIENT_ERROR,TIMEOUT_ERROR")
	require.NoError(t, err)
	assert.Contains(t, out, `"fallbackThreshold": 7`)

	cfg := cat.Status().Fallback.Config
	assert.Equal(t, 7, cfg.FallbackThreshold)
	assert.Equal(t, 2*time.Minute, cfg.FallbackDuration)
	assert.Equal(t, []fallback.ErrorKind{fallback.KindClient, fallback.KindTimeout}, cfg.ExcludeErrorTypes)

	_, err = run(t, "--server", srv.URL, "fallback", "config", "--exclude", "")
	require.NoError(t, err)
	assert.Empty(t, cat.Status().Fallback.Config.ExcludeErrorTypes)

	_, err = run(t, "--server", srv.URL, "fallback", "config", "--threshold", "0")
	assert.Error(t, err)
}

func TestGet(t *testing.T) {
	srv, _ := newTestServer(t, "")

	out, err := run(t, "--server", srv.URL+"/", "get", "dynasties")
	require.NoError(t, err)
	assert.Contains(t, out, `"name": "唐"`)

	out, err = run(t, "--server", srv.URL, "get", "dynasties", "tang")
	require.NoError(t, err)
	assert.Contains(t, out, `"end_year": 907`)

	_, err = run(t, "--server", srv.URL, "get", "dynasties", "song")
	assert.Error(t, err)

	_, err = run(t, "--server", srv.URL, "get")
	assert.Error(t, err)
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "historyctl dev")
}

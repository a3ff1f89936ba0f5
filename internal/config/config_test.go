package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/indredK/history-sub002/internal/datasource"
	"github.com/indredK/history-sub002/internal/fallback"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	for _, k := range []string{
		"DATA_SOURCE", "API_TIMEOUT", "API_RETRY_ATTEMPTS", "API_RETRY_DELAY", "STATIC_ROOT",
		"BASE_PATH", "FALLBACK_ENABLED", "FALLBACK_THRESHOLD", "FALLBACK_DURATION",
		"SERVER_PORT", "API_PORT", "CORS_ORIGINS", "LOG_LEVEL",
	} {
		t.Setenv(k, "")
	}

	mode, err := DataSource()
	require.NoError(t, err)
	assert.Equal(t, datasource.ModeMock, mode)
	assert.Equal(t, 10*time.Second, APITimeout())
	assert.False(t, RetryPolicy().Enabled())
	assert.Equal(t, "public", StaticRoot())
	assert.Equal(t, "/", BasePath())
	fc, err := FallbackConfig()
	require.NoError(t, err)
	assert.Equal(t, fallback.DefaultConfig(), fc)
	assert.Equal(t, ":8080", ServerAddr())
	assert.Equal(t, ":8081", APIAddr())
	assert.Equal(t, []string{"*"}, CORSOrigins())
	assert.Equal(t, "info", LogLevel())
}

func TestOverrides(t *testing.T) {
	t.Setenv("DATA_SOURCE", " API ")
	t.Setenv("API_BASE_URL", "https://history.example.com/api/")
	t.Setenv("API_RETRY_ATTEMPTS", "3")
	t.Setenv("API_RETRY_DELAY", "250ms")
	t.Setenv("FALLBACK_ENABLED", "false")
	t.Setenv("FALLBACK_THRESHOLD", "5")
	t.Setenv("FALLBACK_DURATION", "90s")
	t.Setenv("CORS_ORIGINS", "https://a.example.com, https://b.example.com,")

	mode, err := DataSource()
	require.NoError(t, err)
	assert.Equal(t, datasource.ModeAPI, mode)
	assert.Equal(t, "https://history.example.com/api", APIBaseURL())

	p := RetryPolicy()
	assert.Equal(t, 3, p.Attempts)
	assert.Equal(t, 250*time.Millisecond, p.Delay)

	fc, err := FallbackConfig()
	require.NoError(t, err)
	assert.False(t, fc.EnableAutoFallback)
	assert.Equal(t, 5, fc.FallbackThreshold)
	assert.Equal(t, 90*time.Second, fc.FallbackDuration)
	assert.Equal(t, []fallback.ErrorKind{fallback.KindClient}, fc.ExcludeErrorTypes)

	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, CORSOrigins())
}

func TestInvalidValues(t *testing.T) {
	t.Setenv("DATA_SOURCE", "graphql")
	t.Setenv("FALLBACK_THRESHOLD", "0")
	t.Setenv("API_TIMEOUT", "soon")
	t.Setenv("LOG_LEVEL", "loud")

	_, err := DataSource()
	assert.Error(t, err)
	fc, err := FallbackConfig()
	require.NoError(t, err)
	assert.Equal(t, fallback.DefaultThreshold, fc.FallbackThreshold)
	assert.Equal(t, 10*time.Second, APITimeout())

	_, err = NewLogger()
	assert.Error(t, err)
}

func TestFallbackConfig_Malformed(t *testing.T) {
	cases := map[string]string{
		"FALLBACK_ENABLED":   "sometimes",
		"FALLBACK_THRESHOLD": "three",
		"FALLBACK_DURATION":  "5",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			_, err := FallbackConfig()
			require.Error(t, err)
			assert.Contains(t, err.Error(), key)
		})
	}
}

func TestLoad_EnvFileAndSecret(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(envFile, []byte("HISTORY_TEST_PLAIN=plain\n"), 0o600))
	require.NoError(t, os.WriteFile(envFile+".secret", []byte("HISTORY_TEST_SECRET=hidden\n"), 0o600))

	t.Setenv("HISTORY_ENV", envFile)
	t.Setenv("HISTORY_TEST_PLAIN", "")
	t.Setenv("HISTORY_TEST_SECRET", "")
	os.Unsetenv("HISTORY_TEST_PLAIN")
	os.Unsetenv("HISTORY_TEST_SECRET")

	require.NoError(t, Load())
	assert.Equal(t, "plain", os.Getenv("HISTORY_TEST_PLAIN"))
	assert.Equal(t, "hidden", os.Getenv("HISTORY_TEST_SECRET"))
}

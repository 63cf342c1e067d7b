package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGettersPanicBeforeLoad(t *testing.T) {
	_loaded = nil
	assert.Panics(t, func() { Http() })
}

func TestLoadDefault(t *testing.T) {
	LoadDefault()

	assert.Equal(t, "development", Env())
	assert.False(t, IsProduction())
	assert.Equal(t, 5000, Http().Port)
	assert.Equal(t, "0.0.0.0:5000", Http().Addr())
	assert.Equal(t, 60, RateLimit().Requests)
	assert.Equal(t, time.Minute, RateLimit().Window)
	assert.Equal(t, "gemini-2.5-flash", Gemini().Model)
	assert.Empty(t, Gemini().APIKey)
	assert.Equal(t, 5, Interview().DefaultMaxQuestions)
	assert.Equal(t, 2*time.Hour, Interview().SessionTTL)
	assert.Empty(t, Http().TrustedProxies)
}

func TestLoadDefaultIsNotShared(t *testing.T) {
	LoadDefault()
	Get().Common.Http.CORSOrigins[0] = "https://example.com"

	LoadDefault()
	assert.Equal(t, []string{"*"}, Http().CORSOrigins)
}

func TestLoadFromFileMergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "interview.yaml")
	data := []byte(`
common:
  env: production
  http:
    port: 9090
  gemini:
    model: gemini-2.5-pro
    request_timeout: 15s
  interview:
    session_ttl: 30m
`)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	require.NoError(t, LoadFromFile(path))

	assert.True(t, IsProduction())
	assert.Equal(t, 9090, Http().Port)
	assert.Equal(t, "0.0.0.0", Http().Host)
	assert.Equal(t, "gemini-2.5-pro", Gemini().Model)
	assert.Equal(t, 15*time.Second, Gemini().RequestTimeout)
	assert.Equal(t, float32(0.8), Gemini().Temperature)
	assert.Equal(t, 30*time.Minute, Interview().SessionTTL)
	assert.Equal(t, 20, Interview().MaxQuestionsLimit)
}

func TestLoadFromFileMissing(t *testing.T) {
	err := LoadFromFile(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "7000")
	t.Setenv("GEMINI_API_KEY", "secret")
	t.Setenv("INTERVIEW_USE_MOCK_LLM", "true")
	t.Setenv("INTERVIEW_CORS_ORIGINS", "http://a.test, http://b.test")
	t.Setenv("INTERVIEW_SESSION_TTL", "0s")
	t.Setenv("INTERVIEW_RATE_LIMIT", "not-a-number")
	t.Setenv("INTERVIEW_TRUSTED_PROXIES", "10.0.0.0/8,192.168.1.2")

	LoadDefault()
	ApplyEnvOverrides()

	assert.Equal(t, 7000, Http().Port)
	assert.Equal(t, "secret", Gemini().APIKey)
	assert.True(t, Gemini().UseMock)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, Http().CORSOrigins)
	assert.Equal(t, time.Duration(0), Interview().SessionTTL)
	assert.Equal(t, 60, RateLimit().Requests)
	assert.Equal(t, []string{"10.0.0.0/8", "192.168.1.2"}, Http().TrustedProxies)
}

func TestLoadUsesConfigFileEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("common:\n  log:\n    level: debug\n"), 0o600))
	t.Setenv("INTERVIEW_CONFIG_FILE", path)
	t.Setenv("INTERVIEW_LOG_FORMAT", "console")

	Load()

	assert.Equal(t, "debug", Logger().Level)
	assert.Equal(t, "console", Logger().Format)
}

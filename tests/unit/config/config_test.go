package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invox/internal/config"
)

// clearVendorEnv blanks vendor env vars so a developer machine with real
// credentials does not change test outcomes.
func clearVendorEnv(t *testing.T) {
	t.Helper()
	t.Setenv("PORT", "")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("OPENAI_MODEL", "")
	t.Setenv("LLMWHISPERER_API_KEY", "")
}

func TestLoad_Defaults(t *testing.T) {
	clearVendorEnv(t)

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Port)
	assert.Equal(t, "development", cfg.Server.Environment)
	assert.Equal(t, "data", cfg.Server.DataDir)

	assert.Equal(t, "table", cfg.OCR.Mode)
	assert.Equal(t, "layout_preserving", cfg.OCR.OutputMode)
	assert.Equal(t, 120*time.Second, cfg.OCR.WaitTimeout)
	assert.Equal(t, 2*time.Second, cfg.OCR.PollInterval)
	assert.Equal(t, time.Duration(0), cfg.OCR.RequestTimeout, "request timeout follows wait timeout unless set")

	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Equal(t, "gpt-4o-mini", cfg.LLM.Model)
	assert.Equal(t, 0.0, cfg.LLM.Temperature)

	assert.Equal(t, 3, cfg.Batch.MaxWorkers)
	assert.Equal(t, 5, cfg.Batch.ChunkSize)
	assert.Equal(t, 25, cfg.Batch.MaxFiles)
	assert.Equal(t, int64(25), cfg.Batch.MaxFileSizeMB)

	assert.False(t, cfg.Archive.Enabled)
	assert.Equal(t, "noop", cfg.Email.Provider)
	assert.Contains(t, cfg.CORS.AllowedOrigins, "http://localhost:3000")
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("INVOX_SERVER_PORT", ":9000")
	t.Setenv("INVOX_LLM_PROVIDER", "anthropic")
	t.Setenv("INVOX_LLM_MODEL", "claude-sonnet-4-20250514")
	t.Setenv("INVOX_BATCH_MAX_WORKERS", "8")
	t.Setenv("INVOX_OCR_WAIT_TIMEOUT", "300s")
	t.Setenv("INVOX_OCR_REQUEST_TIMEOUT", "600s")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Server.Port)
	assert.Equal(t, "anthropic", cfg.LLM.Provider)
	assert.Equal(t, "claude-sonnet-4-20250514", cfg.LLM.Model)
	assert.Equal(t, 8, cfg.Batch.MaxWorkers)
	assert.Equal(t, 300*time.Second, cfg.OCR.WaitTimeout)
	assert.Equal(t, 600*time.Second, cfg.OCR.RequestTimeout)
}

func TestLoad_PlatformPortFallback(t *testing.T) {
	t.Setenv("PORT", "7777")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, ":7777", cfg.Server.Port)
}

func TestLoad_ExplicitPortBeatsPlatformPort(t *testing.T) {
	t.Setenv("PORT", "7777")
	t.Setenv("INVOX_SERVER_PORT", ":9000")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.Server.Port)
}

func TestLoad_BareVendorKeyFallbacks(t *testing.T) {
	t.Setenv("LLMWHISPERER_API_KEY", "bare-ocr-key")
	t.Setenv("OPENAI_API_KEY", "bare-llm-key")
	t.Setenv("OPENAI_MODEL", "gpt-4o")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "bare-ocr-key", cfg.OCR.APIKey)
	assert.Equal(t, "bare-llm-key", cfg.LLM.APIKey)
	assert.Equal(t, "gpt-4o", cfg.LLM.Model)
}

func TestLoad_PrefixedKeyBeatsBareKey(t *testing.T) {
	t.Setenv("LLMWHISPERER_API_KEY", "bare-ocr-key")
	t.Setenv("INVOX_OCR_API_KEY", "prefixed-ocr-key")
	t.Setenv("OPENAI_MODEL", "gpt-4o")
	t.Setenv("INVOX_LLM_MODEL", "gpt-4o-mini")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "prefixed-ocr-key", cfg.OCR.APIKey)
	assert.Equal(t, "gpt-4o-mini", cfg.LLM.Model)
}

func TestLoad_CORSOriginsParsing(t *testing.T) {
	t.Setenv("INVOX_CORS_ALLOWED_ORIGINS", "https://app.example.com, https://admin.example.com")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"https://app.example.com", "https://admin.example.com"}, cfg.CORS.AllowedOrigins)
}

func TestValidate_MissingKeys(t *testing.T) {
	clearVendorEnv(t)

	cfg, err := config.Load()
	require.NoError(t, err)

	err = cfg.Validate()
	require.Error(t, err)
	assert.ErrorContains(t, err, "OCR API key")
	assert.ErrorContains(t, err, "LLM API key")
}

func TestValidate_OK(t *testing.T) {
	t.Setenv("INVOX_OCR_API_KEY", "ocr-key")
	t.Setenv("INVOX_LLM_API_KEY", "llm-key")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.NoError(t, cfg.Validate())
}

func TestValidate_BadBatchSettings(t *testing.T) {
	t.Setenv("INVOX_OCR_API_KEY", "ocr-key")
	t.Setenv("INVOX_LLM_API_KEY", "llm-key")
	t.Setenv("INVOX_BATCH_MAX_WORKERS", "0")
	t.Setenv("INVOX_BATCH_CHUNK_SIZE", "-1")

	cfg, err := config.Load()
	require.NoError(t, err)

	err = cfg.Validate()
	require.Error(t, err)
	assert.ErrorContains(t, err, "max_workers")
	assert.ErrorContains(t, err, "chunk_size")
}

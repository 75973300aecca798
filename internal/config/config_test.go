package config

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "ENV", "DATABASE_DSN", "JWT_SECRET", "JWT_EXPIRY", "FINGERPRINT_KEY",
		"MAX_ATTEMPTS", "STRICT_ENTROPY", "RATE_LIMIT_RPS", "RATE_LIMIT_BURST", "PRESETS_FILE",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.Empty(t, cfg.DatabaseDSN)
	assert.Equal(t, 24*time.Hour, cfg.JWTExpiry)
	assert.Equal(t, 1000, cfg.MaxAttempts)
	assert.False(t, cfg.StrictEntropy)
	assert.InDelta(t, 10.0, cfg.RateLimitRPS, 0.001)
	assert.Equal(t, 20, cfg.RateLimitBurst)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("ENV", "")
	t.Setenv("PORT", "9090")
	t.Setenv("MAX_ATTEMPTS", "250")
	t.Setenv("STRICT_ENTROPY", "true")
	t.Setenv("RATE_LIMIT_RPS", "2.5")
	t.Setenv("RATE_LIMIT_BURST", "4")
	t.Setenv("JWT_EXPIRY", "15m")

	cfg := Load()

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 250, cfg.MaxAttempts)
	assert.True(t, cfg.StrictEntropy)
	assert.InDelta(t, 2.5, cfg.RateLimitRPS, 0.001)
	assert.Equal(t, 4, cfg.RateLimitBurst)
	assert.Equal(t, 15*time.Minute, cfg.JWTExpiry)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("ENV", "")
	t.Setenv("MAX_ATTEMPTS", "lots")
	t.Setenv("STRICT_ENTROPY", "maybe")
	t.Setenv("RATE_LIMIT_RPS", "fast")
	t.Setenv("JWT_EXPIRY", "forever")

	cfg := Load()

	assert.Equal(t, 1000, cfg.MaxAttempts)
	assert.False(t, cfg.StrictEntropy)
	assert.InDelta(t, 10.0, cfg.RateLimitRPS, 0.001)
	assert.Equal(t, 24*time.Hour, cfg.JWTExpiry)
}

func TestLoad_NonPositiveAttempts(t *testing.T) {
	t.Setenv("ENV", "")
	t.Setenv("MAX_ATTEMPTS", "0")

	cfg := Load()

	assert.Equal(t, 1000, cfg.MaxAttempts)
}

func writePresets(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "presets.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	NewLogger(&buf, EnvProduction).Warn("hello", "key", "value")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "hello", line["msg"])
	assert.Equal(t, "value", line["key"])

	buf.Reset()
	NewLogger(&buf, "development").Warn("hello")
	assert.Contains(t, buf.String(), "msg=hello")
}

func TestLoad_WarningsUseInstalledLogger(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(NewLogger(&buf, EnvProduction))
	t.Cleanup(func() { slog.SetDefault(prev) })

	t.Setenv("ENV", "")
	t.Setenv("MAX_ATTEMPTS", "lots")
	Load()

	var line map[string]any
	require.NoError(t, json.Unmarshal(bytes.SplitN(buf.Bytes(), []byte("\n"), 2)[0], &line))
	assert.Equal(t, "WARN", line["level"])
}

func TestLoadPresets(t *testing.T) {
	path := writePresets(t, `
[[preset]]
name = "wifi"
length = 20
charset = "alphanumeric"
segment_size = 5
separator = "-"
rules = ["digit", "upper"]

[[preset]]
name = "pin"
length = 6
charset = "custom"
custom_chars = "0123456789"
max_attempts = 10
`)

	presets, err := LoadPresets(path)
	require.NoError(t, err)
	require.Len(t, presets, 2)

	assert.Equal(t, PresetConfig{
		Name:        "wifi",
		Length:      20,
		Charset:     "alphanumeric",
		SegmentSize: 5,
		Separator:   "-",
		Rules:       []string{"digit", "upper"},
	}, presets[0])
	assert.Equal(t, "pin", presets[1].Name)
	assert.Equal(t, "0123456789", presets[1].CustomChars)
	assert.Equal(t, 10, presets[1].MaxAttempts)
}

func TestLoadPresets_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{
			name:    "missing name",
			content: "[[preset]]\nlength = 8\n",
			wantErr: ErrPresetName,
		},
		{
			name:    "duplicate name",
			content: "[[preset]]\nname = \"a\"\n[[preset]]\nname = \"a\"\n",
			wantErr: ErrDuplicatePreset,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadPresets(writePresets(t, tt.content))
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestLoadPresets_MissingFile(t *testing.T) {
	_, err := LoadPresets(filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load presets")
}

func TestLoadPresets_Malformed(t *testing.T) {
	_, err := LoadPresets(writePresets(t, "[[preset]\nname ="))
	require.Error(t, err)
}

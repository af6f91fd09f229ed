package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsWhenFileMissing(t *testing.T) {
	for _, k := range []string{"PORT", "DATABASE", "OPENAI_MODEL", "OPENAI_BASE_URL", "JWT_ACCESS_TTL_MINUTES", "PRAZO_CRON", "STATS_MIN_INTERVAL_SECONDS"} {
		t.Setenv(k, "")
	}

	c, err := Load(filepath.Join(t.TempDir(), "nao-existe.json"))
	require.NoError(t, err)

	assert.Equal(t, "8080", c.ApiPort)
	assert.Equal(t, "sqlite3", c.Database)
	assert.Equal(t, "gpt-4.1-mini", c.OpenAI.Model)
	assert.Equal(t, "https://api.openai.com/v1", c.OpenAI.BaseURL)
	assert.Equal(t, 24*60, c.Security.AccessTTLMinutes)
	assert.Equal(t, "@every 10m", c.PrazoCron)
	assert.Equal(t, 5, c.StatsMinIntervalSeconds)
}

func TestLoad_FileThenEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	body := `{"api_port":"9000","database":"postgres","openai":{"model":"gpt-x"},"security":{"jwt_secret":"segredo"}}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	t.Setenv("OPENAI_MODEL", "gpt-env")
	t.Setenv("PORT", "")
	t.Setenv("DATABASE", "")
	t.Setenv("JWT_SECRET", "")

	c, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "9000", c.ApiPort)
	assert.Equal(t, "postgres", c.Database)
	assert.Equal(t, "gpt-env", c.OpenAI.Model)
	assert.Equal(t, "segredo", c.Security.JwtSecret)
}

func TestLoad_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_CorsOriginsFromEnv(t *testing.T) {
	t.Setenv("CORS_ORIGINS", "http://localhost:5173, https://nobilis.example ,")

	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, []string{"http://localhost:5173", "https://nobilis.example"}, c.CorsOrigins)
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadServerDefaults(t *testing.T) {
	t.Setenv("KIDSBANK_CONFIG_FILE", "")
	t.Setenv("KIDSBANK_STORE", "")
	t.Setenv("KIDSBANK_SPEED_MULTIPLIER", "")
	t.Setenv("SUPABASE_URL", "https://example.supabase.co/")
	t.Setenv("SUPABASE_ANON_KEY", "anon")

	cfg, err := LoadServerFromEnv()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "sqlite", cfg.StoreDriver)
	assert.Equal(t, time.Minute, cfg.TickEvery)
	assert.Equal(t, float64(720), cfg.SpeedMultiplier)
	assert.False(t, cfg.ClockCatchUp)
	assert.Equal(t, float64(1000), cfg.StartingBalance)
	assert.Equal(t, "https://example.supabase.co", cfg.SupabaseURL)
}

func TestLoadServerEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "kidsbank.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
addr: ":9000"
store_driver: memory
speed_multiplier: 60
clock_catch_up: true
supabase_url: https://file.supabase.co
supabase_anon_key: file-key
`), 0o600))

	t.Setenv("KIDSBANK_CONFIG_FILE", path)
	t.Setenv("PORT", "")
	t.Setenv("KIDSBANK_API_ADDR", "")
	t.Setenv("KIDSBANK_SPEED_MULTIPLIER", "120")
	t.Setenv("KIDSBANK_KAFKA_BROKERS", "b1:9092, b2:9092")

	cfg, err := LoadServerFromEnv()
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.Addr)
	assert.Equal(t, "memory", cfg.StoreDriver)
	assert.Equal(t, float64(120), cfg.SpeedMultiplier)
	assert.True(t, cfg.ClockCatchUp)
	assert.Equal(t, []string{"b1:9092", "b2:9092"}, cfg.KafkaBrokers)
}

func TestLoadServerRequiresSupabase(t *testing.T) {
	t.Setenv("SUPABASE_URL", "")
	t.Setenv("SUPABASE_ANON_KEY", "")
	_, err := LoadServerFromEnv()
	require.Error(t, err)
}

func TestLoadServerPostgresNeedsURL(t *testing.T) {
	t.Setenv("SUPABASE_URL", "https://example.supabase.co")
	t.Setenv("SUPABASE_ANON_KEY", "anon")
	t.Setenv("KIDSBANK_STORE", "postgres")
	t.Setenv("DATABASE_URL", "")
	_, err := LoadServerFromEnv()
	require.Error(t, err)
}

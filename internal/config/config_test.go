package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cadence/internal/types"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "cadence", cfg.Name)
	assert.Equal(t, "anthropic", cfg.LLM.Provider)
	assert.Equal(t, 120*time.Second, cfg.LLM.ParsedTimeout())
	assert.Equal(t, 80, cfg.Generation.MinPostLength)
	assert.Equal(t, 900, cfg.Generation.MaxPostLength)
	assert.True(t, cfg.Generation.RequireDissent)
	assert.False(t, cfg.Generation.AutoRepair)
}

func TestLoadMissingFileFallsBackToDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope", "config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Constraints, cfg.Constraints)
}

func TestLoadSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".cadence", "config.yaml")

	cfg := DefaultConfig()
	cfg.Generation.CompanyName = "AcmeFlow"
	cfg.Generation.BannedPhrases = []string{"game changer"}
	cfg.Constraints.MaxPostsPerVenuePerWeek = 3
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "AcmeFlow", loaded.Generation.CompanyName)
	assert.Equal(t, []string{"game changer"}, loaded.Generation.BannedPhrases)
	assert.Equal(t, 3, loaded.Constraints.MaxPostsPerVenuePerWeek)
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("llm:\n  provider: mock\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "mock", cfg.LLM.Provider)
	assert.Equal(t, 900, cfg.Generation.MaxPostLength, "unset sections keep defaults")
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("CADENCE_API_KEY", "key-from-env")
	t.Setenv("CADENCE_DB_PATH", "/tmp/custom.db")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "key-from-env", cfg.LLM.APIKey)
	assert.Equal(t, "/tmp/custom.db", cfg.Store.DatabasePath)
}

func TestGeminiKeyOnlyForGeminiProvider(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "gem-key")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Empty(t, cfg.LLM.APIKey, "gemini key must not apply to the anthropic provider")

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("llm:\n  provider: gemini\n"), 0644))
	cfg, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, "gem-key", cfg.LLM.APIKey)
}

func TestParsedTimeout(t *testing.T) {
	assert.Equal(t, 30*time.Second, LLMConfig{Timeout: "30s"}.ParsedTimeout())
	assert.Equal(t, 120*time.Second, LLMConfig{Timeout: "garbage"}.ParsedTimeout())
	assert.Equal(t, 120*time.Second, LLMConfig{Timeout: "-5s"}.ParsedTimeout())
	assert.Equal(t, 120*time.Second, LLMConfig{}.ParsedTimeout())
}

func TestConstraintsConversion(t *testing.T) {
	cc := DefaultConstraintsConfig()
	cs := cc.ToConstraintSet()
	assert.Equal(t, types.DefaultConstraints(), cs)

	back := fromConstraintSet(cs)
	assert.Equal(t, cc, back)
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"adaptive_edu_backend/internal/engine"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(body), 0o644))
	return dir
}

func TestLoadConfigDefaults(t *testing.T) {
	dir := writeConfig(t, `
server:
  mode: test
storage:
  local_path: `+filepath.ToSlash(t.TempDir())+`
database:
  sqlite_path: ":memory:"
`)

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, MasteryStoreDatabase, cfg.MasteryStore.Type)
	assert.Equal(t, 10, cfg.Assessment.DefaultQuestions)
	assert.Equal(t, filepath.Join(dir, "config.yaml"), cfg.File)

	p, err := cfg.Engine.Params()
	require.NoError(t, err)
	assert.Equal(t, engine.DefaultParams(), p)
}

func TestLoadConfigOverrides(t *testing.T) {
	dir := writeConfig(t, `
server:
  mode: test
storage:
  local_path: `+filepath.ToSlash(t.TempDir())+`
engine:
  prior: 0.3
  bands:
    hard:
      slip: 0.2
      guess: 0.05
  durations:
    practice_minutes: 45
`)
	t.Setenv("ENGINE_TRANSIT", "0.2")
	t.Setenv("ADAPTIVE_EDU_ASSESSMENT_DEFAULT_QUESTIONS", "7")
	t.Setenv("MASTERY_STORE_TYPE", "memory")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	p, err := cfg.Engine.Params()
	require.NoError(t, err)
	assert.Equal(t, 0.3, p.Prior)
	assert.Equal(t, 0.2, p.Transit)
	assert.Equal(t, engine.SlipGuess{Slip: 0.2, Guess: 0.05}, p.Bands[engine.BandHard])
	assert.Equal(t, engine.SlipGuess{Slip: 0.05, Guess: 0.35}, p.Bands[engine.BandVeryEasy])
	assert.Equal(t, 45*time.Minute, p.Durations.Practice)
	assert.Equal(t, MasteryStoreMemory, cfg.MasteryStore.Type)
	assert.Equal(t, 7, cfg.Assessment.DefaultQuestions)
}

func TestLoadConfigRejectsInvalidEngine(t *testing.T) {
	dir := writeConfig(t, `
server:
  mode: test
storage:
  local_path: `+filepath.ToSlash(t.TempDir())+`
engine:
  bands:
    easy:
      slip: 0.6
      guess: 0.5
`)

	_, err := LoadConfig(dir)
	assert.ErrorIs(t, err, engine.ErrInvalidParams)
}

func TestValidate(t *testing.T) {
	base := func() Config {
		return Config{
			Server:       ServerConfig{Mode: "debug"},
			Database:     DatabaseConfig{Driver: DriverSQLite},
			MasteryStore: MasteryStoreConfig{Type: MasteryStoreMemory},
			Assessment:   AssessmentConfig{DefaultQuestions: 10, MaxQuestions: 20},
			Engine: EngineConfig{
				Prior: 0.4, Transit: 0.1,
				Bands: map[string]BandConfig{
					"very_easy": {0.05, 0.35}, "easy": {0.08, 0.25}, "medium": {0.1, 0.2}, "hard": {0.15, 0.1},
				},
				Tiers:      TierConfig{0.5, 0.75},
				Difficulty: DifficultyConfig{0.3, 0.5, 0.75},
				Durations:  DurationConfig{120, 90, 60, 15},
			},
		}
	}

	ok := base()
	require.NoError(t, ok.Validate())

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"store type", func(c *Config) { c.MasteryStore.Type = "etcd" }},
		{"driver", func(c *Config) { c.Database.Driver = "oracle" }},
		{"question counts", func(c *Config) { c.Assessment.MaxQuestions = 5 }},
		{"release without admin key", func(c *Config) { c.Server.Mode = "release" }},
		{"unknown band name", func(c *Config) { c.Engine.Bands["expert"] = BandConfig{0.1, 0.1} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base()
			tt.mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
}

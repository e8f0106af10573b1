package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "cfg.yaml", `
search:
  population_size: 30
  time_budget_ms: 1500
logging:
  level: debug
holidays:
  custom:
    - "2026-05-14"
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 30, cfg.Search.PopulationSize)
	require.Equal(t, 1500, cfg.Search.TimeBudgetMS)
	// Untouched fields pick up defaults.
	require.Equal(t, 4, cfg.Search.EliteCount)
	require.Equal(t, 20, cfg.Search.GapMin)
	require.True(t, cfg.Search.Exhaustive.Enabled)
	require.Equal(t, "debug", cfg.Logging.Level)
	require.Len(t, cfg.Holidays.Custom, 1)
}

func TestLoadJSON(t *testing.T) {
	path := writeFile(t, "cfg.json", `{"search":{"gap_min":19,"gap_max":26}}`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 19, cfg.Search.GapMin)
	require.Equal(t, 26, cfg.Search.GapMax)
}

func TestLoadUnsupportedExtension(t *testing.T) {
	path := writeFile(t, "cfg.toml", "x = 1")
	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	_, err := Load(writeFile(t, "cfg.yaml", "logging:\n  level: loud\n"))
	require.Error(t, err)

	_, err = Load(writeFile(t, "cfg2.yaml", "search:\n  population_size: 1\n"))
	require.Error(t, err)

	_, err = Load(writeFile(t, "cfg3.yaml", "holidays:\n  custom: [\"14/05/2026\"]\n"))
	require.Error(t, err)
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Search.Validate())
	require.NoError(t, cfg.Logging.Validate())
	require.Equal(t, "info", cfg.Logging.Level)
}

func TestHolidaySetBuild(t *testing.T) {
	hc := HolidayConfig{Custom: []string{"2026-05-14"}, FromYear: 2026, ToYear: 2026}
	set, err := hc.Set(nil)
	require.NoError(t, err)
	require.NotNil(t, set)

	disabled := HolidayConfig{Disabled: true}
	set, err = disabled.Set(nil)
	require.NoError(t, err)
	require.Nil(t, set)
}

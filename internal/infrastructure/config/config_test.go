package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skyquarter/airlift/internal/infrastructure/config"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig_DefaultsApply(t *testing.T) {
	path := writeConfigFile(t, "database:\n  type: sqlite\n")

	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Database.Type)
	assert.Equal(t, "airlift.db", cfg.Database.Path)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.Equal(t, float64(60), cfg.Engine.TimeScale)
	assert.Equal(t, float64(200), cfg.Logistic.Warehouse.SpawnZoneRadius)
	assert.Equal(t, 30*time.Second, cfg.Logistic.Warehouse.StatusInterval)
	assert.Equal(t, float64(90), cfg.Logistic.Dispatch.Helicopter.NearRadius)
	assert.Equal(t, float64(25), cfg.Logistic.Dispatch.APC.NearRadius)
	assert.Equal(t, float64(500), cfg.Logistic.Tasking.LoadRadius)
}

func TestLoadConfig_FileOverridesDefaults(t *testing.T) {
	path := writeConfigFile(t, `
database:
  type: sqlite
  path: ":memory:"
logging:
  level: debug
  format: json
logistic:
  warehouse:
    status_interval: 2m
  dispatch:
    apc:
      near_radius: 40
mission:
  warehouses:
    - name: Batumi
      coalition: blue
      x: 1000
      z: 2000
      assets:
        - template: "M939 Truck"
          count: 3
`)

	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, ":memory:", cfg.Database.Path)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, 2*time.Minute, cfg.Logistic.Warehouse.StatusInterval)
	assert.Equal(t, float64(40), cfg.Logistic.Dispatch.APC.NearRadius)
	// Untouched siblings keep their defaults
	assert.Equal(t, float64(250), cfg.Logistic.Dispatch.APC.LoadRadius)

	require.Len(t, cfg.Mission.Warehouses, 1)
	spec := cfg.Mission.Warehouses[0]
	assert.Equal(t, "Batumi", spec.Name)
	assert.Equal(t, "blue", spec.Coalition)
	require.Len(t, spec.Assets, 1)
	assert.Equal(t, 3, spec.Assets[0].Count)
}

func TestLoadConfig_ValidationRejectsBadValues(t *testing.T) {
	cases := map[string]string{
		"bad database type": "database:\n  type: oracle\n",
		"bad log level":     "logging:\n  level: loud\n",
		"bad coalition":     "mission:\n  warehouses:\n    - name: Batumi\n      coalition: green\n",
		"nameless warehouse": "mission:\n  warehouses:\n    - coalition: blue\n",
	}

	for name, content := range cases {
		path := writeConfigFile(t, content)
		_, err := config.LoadConfig(path)
		assert.Error(t, err, name)
	}
}

func TestLoadConfigOrDefault_FallsBack(t *testing.T) {
	path := writeConfigFile(t, "logging:\n  level: loud\n")

	cfg := config.LoadConfigOrDefault(path)

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "sqlite", cfg.Database.Type)
}

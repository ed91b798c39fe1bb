package kupon

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	assert.NoError(t, ValidateConfig(DefaultKuponConfig()))
}

func TestLoadConfigOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kupon.yaml")
	content := []byte("simulationTrials: 2000\nhomeAdvantage: 1.10\nhedgeSingleRatio: \"0.30\"\n")
	require.NoError(t, os.WriteFile(path, content, 0o644))

	original := *Config
	t.Cleanup(func() { UpdateConfig(&original) })

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Same(t, loaded, Config, "LoadConfig installs the loaded config globally")

	assert.Equal(t, 2000, Config.SimulationTrials)
	assert.InDelta(t, 1.10, Config.HomeAdvantage, 1e-9)
	assert.Equal(t, "0.30", Config.HedgeSingleRatio)

	// Untouched keys keep their defaults
	assert.InDelta(t, 0.7, Config.PPMWeight, 1e-9)
	assert.Equal(t, 10, Config.TopSinglesCount)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadConfigRejectsInvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kupon.yaml")
	require.NoError(t, os.WriteFile(path, []byte("simulationTrials: -5\n"), 0o644))

	original := *Config
	t.Cleanup(func() { UpdateConfig(&original) })

	_, err := LoadConfig(path)
	assert.Error(t, err, "Negative trial counts must be rejected")
}

func TestValidateConfigBounds(t *testing.T) {
	bad := DefaultKuponConfig()
	bad.HedgeMinOdds = 3.0 // above the max bound
	assert.Error(t, ValidateConfig(bad))

	bad = DefaultKuponConfig()
	bad.RankerWorkers = 0
	assert.Error(t, ValidateConfig(bad))
}

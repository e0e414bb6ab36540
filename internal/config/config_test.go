package config

import (
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9100, cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "http://localhost:8000", cfg.BackendURL)
	assert.Equal(t, "http://localhost:9100", cfg.RelayURL)
	assert.Equal(t, 9100, cfg.PrinterPort)
	assert.Equal(t, 50, cfg.JobLogSize)
	assert.Equal(t, "./tickets", cfg.DownloadDir)
}

func TestLoadEnvOverride(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	t.Setenv("RELAY_PORT", "9200")
	t.Setenv("PRINTER_ADDRESS", "192.168.1.50")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9200, cfg.Port)
	assert.Equal(t, "192.168.1.50", cfg.PrinterAddress)
}

func TestSubnets(t *testing.T) {
	cfg := &Config{DiscoverySubnets: "192.168.1., 10.0.0. ,,"}
	assert.Equal(t, []string{"192.168.1.", "10.0.0."}, cfg.Subnets())

	cfg.DiscoverySubnets = ""
	assert.Empty(t, cfg.Subnets())
}

func TestPrefsDefaults(t *testing.T) {
	p := DefaultPrefs()
	assert.Equal(t, "preview", p.PrintMethod)
	assert.False(t, p.EscposEnabled)
	assert.Equal(t, 1, p.CopiesCount)
}

func TestPrefsMissingFile(t *testing.T) {
	p, err := LoadPrefs(filepath.Join(t.TempDir(), "nope", "prefs.json"))
	require.NoError(t, err)
	assert.Equal(t, DefaultPrefs(), p)
}

func TestPrefsRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.json")

	saved := Prefs{PrintMethod: "local", EscposEnabled: true, CopiesCount: 3}
	require.NoError(t, SavePrefs(path, saved))

	loaded, err := LoadPrefs(path)
	require.NoError(t, err)
	assert.Equal(t, saved, loaded)
}

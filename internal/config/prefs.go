package config

// prefs.go — persisted local printing preferences.
// The transport choice and device-command switch survive restarts in a small
// JSON file (the webview original keeps them in localStorage). Read at modal
// open; written by the CLI `config` command. A missing or unreadable file is
// not an error — defaults apply.

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Prefs is the operator's persisted printing preference set.
type Prefs struct {
	// PrintMethod: bluetooth | serial | local | preview
	PrintMethod string `mapstructure:"print_method" json:"print_method"`
	// EscposEnabled selects device-command mode over the OS print dialog.
	EscposEnabled bool `mapstructure:"escpos_enabled" json:"escpos_enabled"`
	// CopiesCount is the last chosen copy count, clamped on use.
	CopiesCount int `mapstructure:"copies_count" json:"copies_count"`
}

// DefaultPrefs returns the out-of-the-box preferences: on-screen preview,
// OS-print mode, one copy.
func DefaultPrefs() Prefs {
	return Prefs{PrintMethod: "preview", CopiesCount: 1}
}

// DefaultPrefsPath places the preference file under the user config dir.
func DefaultPrefsPath() string {
	base, err := os.UserConfigDir()
	if err != nil {
		base = "."
	}
	return filepath.Join(base, "ticketera", "prefs.json")
}

// LoadPrefs reads preferences from path. Missing file → defaults; a file
// that exists but cannot be parsed is reported.
func LoadPrefs(path string) (Prefs, error) {
	prefs := DefaultPrefs()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	v.SetDefault("print_method", prefs.PrintMethod)
	v.SetDefault("escpos_enabled", prefs.EscposEnabled)
	v.SetDefault("copies_count", prefs.CopiesCount)

	if err := v.ReadInConfig(); err != nil {
		if os.IsNotExist(err) {
			return prefs, nil
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return prefs, nil
		}
		return prefs, fmt.Errorf("config: leer preferencias: %w", err)
	}
	if err := v.Unmarshal(&prefs); err != nil {
		return DefaultPrefs(), fmt.Errorf("config: preferencias inválidas: %w", err)
	}
	return prefs, nil
}

// SavePrefs persists preferences to path, creating parent directories.
func SavePrefs(path string, prefs Prefs) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("config: crear directorio de preferencias: %w", err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	v.Set("print_method", prefs.PrintMethod)
	v.Set("escpos_enabled", prefs.EscposEnabled)
	v.Set("copies_count", prefs.CopiesCount)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("config: guardar preferencias: %w", err)
	}
	return nil
}

package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Config holds all runtime configuration loaded from environment variables.
// The same struct serves the CLI and the relay daemon; each reads the
// fields it cares about.
type Config struct {
	// Server (relay daemon)
	Port int    `mapstructure:"RELAY_PORT"`
	Env  string `mapstructure:"APP_ENV"` // development | production

	// Backend that owns config and the command-language encoder
	BackendURL string `mapstructure:"BACKEND_URL"`

	// Relay endpoint the "local" transport posts to
	RelayURL string `mapstructure:"RELAY_URL"`

	// Physical printer the relay forwards to (raw TCP)
	PrinterAddress string `mapstructure:"PRINTER_ADDRESS"`
	PrinterPort    int    `mapstructure:"PRINTER_PORT"`

	// Comma-separated subnet prefixes probed during printer discovery
	DiscoverySubnets string `mapstructure:"DISCOVERY_SUBNETS"`

	// Recent print jobs kept in the relay's in-memory log
	JobLogSize int `mapstructure:"JOB_LOG_SIZE"`

	// Where downloaded tickets (HTML / PDF) are written
	DownloadDir string `mapstructure:"DOWNLOAD_DIR"`
}

// Subnets splits DiscoverySubnets into individual prefixes, dropping blanks.
func (c *Config) Subnets() []string {
	parts := strings.Split(c.DiscoverySubnets, ",")
	subnets := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			subnets = append(subnets, p)
		}
	}
	return subnets
}

// Load reads configuration from environment variables (and optional .env file).
func Load() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	// Sensible defaults for development
	viper.SetDefault("RELAY_PORT", 9100)
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("BACKEND_URL", "http://localhost:8000")
	viper.SetDefault("RELAY_URL", "http://localhost:9100")
	// Empty default registers the key so AutomaticEnv can fill it
	viper.SetDefault("PRINTER_ADDRESS", "")
	viper.SetDefault("PRINTER_PORT", 9100)
	viper.SetDefault("DISCOVERY_SUBNETS", "192.168.1.,192.168.0.,10.0.0.")
	viper.SetDefault("JOB_LOG_SIZE", 50)
	viper.SetDefault("DOWNLOAD_DIR", "./tickets")

	// Optional .env file for local development — does not fail if missing
	_ = viper.ReadInConfig()

	cfg := &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

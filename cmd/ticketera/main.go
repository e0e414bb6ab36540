// Command ticketera renders, previews, downloads, and prints a sale ticket
// from the terminal. It drives the same library the point-of-sale frontend
// embeds; device printing goes through the local print relay.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"ticketera/internal/config"
	"ticketera/internal/escpos"
	"ticketera/internal/ticket"
)

var (
	salePath string
	verbose  bool
)

var rootCmd = &cobra.Command{
	Use:   "ticketera",
	Short: "Genera, previsualiza e imprime tickets de venta",
	Long: `ticketera genera el ticket de una venta y lo envía a una impresora
térmica a través del relay local, o lo guarda como HTML/PDF.

Ejemplos:
  ticketera print --sale venta.json --copies 2
  ticketera preview --sale venta.json
  ticketera download --sale venta.json --pdf
  ticketera config --method local --escpos`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := zerolog.InfoLevel
		if verbose {
			level = zerolog.DebugLevel
		}
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).Level(level)
	},
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "salida detallada")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadSale reads the sale JSON payload the backend exports.
func loadSale(path string) (*ticket.Sale, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("leer venta: %w", err)
	}
	var sale ticket.Sale
	if err := json.Unmarshal(data, &sale); err != nil {
		return nil, fmt.Errorf("venta inválida: %w", err)
	}
	return &sale, nil
}

// loadJob assembles the print job: sale from disk, profile and layout from
// the backend when reachable, embedded defaults otherwise.
func loadJob(ctx context.Context, client *escpos.Client, copies int) (*ticket.PrintJob, error) {
	sale, err := loadSale(salePath)
	if err != nil {
		return nil, err
	}

	profile := ticket.DefaultBusinessProfile()
	cfg := ticket.DefaultTicketConfig()
	if p, err := client.FetchBusinessProfile(ctx); err != nil {
		log.Debug().Err(err).Msg("using default business profile")
	} else {
		profile = p
	}
	if c, err := client.FetchTicketConfig(ctx); err != nil {
		log.Debug().Err(err).Msg("using default ticket config")
	} else {
		cfg = c
	}

	return &ticket.PrintJob{Sale: sale, Profile: profile, Config: cfg, Copies: copies}, nil
}

// cliNotifier surfaces outcome messages on the terminal.
type cliNotifier struct{}

func (cliNotifier) Show(message, severity string) {
	if severity == "error" {
		fmt.Fprintln(os.Stderr, message)
		return
	}
	fmt.Println(message)
}

func mustConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	return cfg
}

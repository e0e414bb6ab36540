package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ticketera/internal/config"
	"ticketera/internal/ticket"
)

var (
	cfgMethod string
	cfgEscpos bool
	cfgCopies int
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Muestra o modifica las preferencias de impresión",
	Long: `Sin flags muestra las preferencias actuales. Con flags las modifica y
las persiste para las próximas impresiones.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := config.DefaultPrefsPath()
		prefs, err := config.LoadPrefs(path)
		if err != nil {
			return err
		}

		changed := false
		if cmd.Flags().Changed("method") {
			prefs.PrintMethod = cfgMethod
			changed = true
		}
		if cmd.Flags().Changed("escpos") {
			prefs.EscposEnabled = cfgEscpos
			changed = true
		}
		if cmd.Flags().Changed("copies") {
			prefs.CopiesCount = ticket.ClampCopies(cfgCopies)
			changed = true
		}

		if changed {
			if err := config.SavePrefs(path, prefs); err != nil {
				return err
			}
		}

		fmt.Printf("Método:   %s\n", prefs.PrintMethod)
		fmt.Printf("ESC/POS:  %t\n", prefs.EscposEnabled)
		fmt.Printf("Copias:   %d\n", prefs.CopiesCount)
		return nil
	},
}

func init() {
	configCmd.Flags().StringVar(&cfgMethod, "method", "", "transporte: bluetooth | serial | local | preview")
	configCmd.Flags().BoolVar(&cfgEscpos, "escpos", false, "usar comandos de impresora generados por el backend")
	configCmd.Flags().IntVar(&cfgCopies, "copies", 1, "cantidad de copias por defecto (1-5)")
	rootCmd.AddCommand(configCmd)
}

package main

import (
	"github.com/spf13/cobra"

	"ticketera/internal/config"
	"ticketera/internal/dispatch"
	"ticketera/internal/escpos"
	"ticketera/internal/printctl"
)

var (
	printCopies int
	printMethod string
	printEscpos bool
)

var printCmd = &cobra.Command{
	Use:   "print",
	Short: "Imprime el ticket de una venta",
	Long: `Imprime el ticket de la venta indicada. En modo comandos de impresora
(--escpos) el buffer se genera en el backend y se envía por el transporte
elegido; sin él, el documento HTML se renderiza localmente.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := mustConfig()

		prefs, err := config.LoadPrefs(config.DefaultPrefsPath())
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("method") {
			prefs.PrintMethod = printMethod
		}
		if cmd.Flags().Changed("escpos") {
			prefs.EscposEnabled = printEscpos
		}
		if cmd.Flags().Changed("copies") {
			prefs.CopiesCount = printCopies
		}

		client := escpos.NewClient(cfg.BackendURL)
		job, err := loadJob(cmd.Context(), client, prefs.CopiesCount)
		if err != nil {
			return err
		}

		provider := fileSurfaceProvider{dir: cfg.DownloadDir}
		dispatcher := dispatch.NewDispatcher(
			dispatch.NewRelayTransport(cfg.RelayURL),
			dispatch.NewPreviewTransport(provider),
		)
		printer := dispatch.NewPrinter(provider)

		ctrl := printctl.NewController(client, dispatcher, printer, cliNotifier{}, prefs)
		return ctrl.Print(cmd.Context(), job)
	},
}

func init() {
	printCmd.Flags().StringVar(&salePath, "sale", "", "archivo JSON de la venta (requerido)")
	printCmd.MarkFlagRequired("sale")
	printCmd.Flags().IntVar(&printCopies, "copies", 1, "cantidad de copias (1-5)")
	printCmd.Flags().StringVar(&printMethod, "method", "local", "transporte: local | preview")
	printCmd.Flags().BoolVar(&printEscpos, "escpos", false, "usar comandos de impresora generados por el backend")
	rootCmd.AddCommand(printCmd)
}

package main

import (
	"github.com/spf13/cobra"

	"ticketera/internal/config"
	"ticketera/internal/dispatch"
	"ticketera/internal/escpos"
	"ticketera/internal/printctl"
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Genera la vista previa del ticket",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := mustConfig()

		client := escpos.NewClient(cfg.BackendURL)
		job, err := loadJob(cmd.Context(), client, 1)
		if err != nil {
			return err
		}

		provider := fileSurfaceProvider{dir: cfg.DownloadDir}
		printer := dispatch.NewPrinter(provider)

		ctrl := printctl.NewController(client, dispatch.NewDispatcher(), printer, cliNotifier{}, config.DefaultPrefs())
		return ctrl.Preview(job)
	},
}

func init() {
	previewCmd.Flags().StringVar(&salePath, "sale", "", "archivo JSON de la venta (requerido)")
	previewCmd.MarkFlagRequired("sale")
	rootCmd.AddCommand(previewCmd)
}

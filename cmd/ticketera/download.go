package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ticketera/internal/config"
	"ticketera/internal/dispatch"
	"ticketera/internal/escpos"
	"ticketera/internal/printctl"
)

var downloadPDF bool

var downloadCmd = &cobra.Command{
	Use:   "download",
	Short: "Guarda el ticket como archivo HTML o PDF",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := mustConfig()

		client := escpos.NewClient(cfg.BackendURL)
		job, err := loadJob(cmd.Context(), client, 1)
		if err != nil {
			return err
		}

		provider := fileSurfaceProvider{dir: cfg.DownloadDir}
		ctrl := printctl.NewController(client, dispatch.NewDispatcher(), dispatch.NewPrinter(provider), cliNotifier{}, config.DefaultPrefs())

		var path string
		if downloadPDF {
			path, err = ctrl.DownloadPDF(job, cfg.DownloadDir)
		} else {
			path, err = ctrl.Download(job, cfg.DownloadDir)
		}
		if err != nil {
			return err
		}
		fmt.Println(path)
		return nil
	},
}

func init() {
	downloadCmd.Flags().StringVar(&salePath, "sale", "", "archivo JSON de la venta (requerido)")
	downloadCmd.MarkFlagRequired("sale")
	downloadCmd.Flags().BoolVar(&downloadPDF, "pdf", false, "guardar como PDF en lugar de HTML")
	rootCmd.AddCommand(downloadCmd)
}

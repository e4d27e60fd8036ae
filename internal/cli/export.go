package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cakeisdead/price-monitor/internal/app"
)

var (
	exportWindow   int
	exportJSONPath string
	exportPNGPath  string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export per-item price history as JSON and/or PNG chart",
	RunE: func(cmd *cobra.Command, args []string) error {
		if exportWindow < 0 {
			return fmt.Errorf("--window cannot be negative")
		}

		opts := app.ExportOptions{
			Window:   exportWindow,
			JSONPath: exportJSONPath,
			PNGPath:  exportPNGPath,
		}

		return getApp().Export(cmd.Context(), opts)
	},
}

func init() {
	exportCmd.Flags().IntVar(&exportWindow, "window", 0, "Observations per item (defaults to config)")
	exportCmd.Flags().StringVar(&exportJSONPath, "json", "", "Path to write the JSON report")
	exportCmd.Flags().StringVar(&exportPNGPath, "png", "", "Path to write a PNG chart")
}

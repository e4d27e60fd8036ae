package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cakeisdead/price-monitor/internal/app"
)

var reportWindow int

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Display the recent price history per tracked item",
	RunE: func(cmd *cobra.Command, args []string) error {
		if reportWindow < 0 {
			return fmt.Errorf("--window cannot be negative")
		}

		opts := app.ReportOptions{
			Window: reportWindow,
		}

		return getApp().Report(cmd.Context(), opts)
	},
}

func init() {
	reportCmd.Flags().IntVar(&reportWindow, "window", 0, "Observations per item (defaults to config)")
}

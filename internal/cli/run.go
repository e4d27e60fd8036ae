package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/cakeisdead/price-monitor/internal/app"
)

var runEvery time.Duration

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Check every tracked product and record new observations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return getApp().Run(cmd.Context(), app.RunOptions{Every: runEvery})
	},
}

func init() {
	runCmd.Flags().DurationVar(&runEvery, "every", 0, "Repeat the batch on this interval (0 runs once)")
}

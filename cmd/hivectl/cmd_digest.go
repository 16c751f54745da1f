package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mamadbah2/hivetool/internal/app"
)

var digestDryRun bool

// digestCmd runs the weekly digest outside the scheduler.
var digestCmd = &cobra.Command{
	Use:   "digest",
	Short: "Compute and publish the weekly digest now",
	Long: `Compute this week's per-beekeeper digest and publish it to the
configured Google Sheet and WhatsApp operator.

With --dry-run the summary is printed and nothing is exported.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			summary, err := a.Reporting.RunWeekly(ctx, time.Now(), digestDryRun)
			if summary != "" {
				fmt.Fprintln(cmd.OutOrStdout(), summary)
			}
			return err
		})
	},
}

func init() {
	digestCmd.Flags().BoolVar(&digestDryRun, "dry-run", false, "Print the digest without exporting it")
}

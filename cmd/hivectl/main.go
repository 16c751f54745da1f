package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mamadbah2/hivetool/internal/app"
	"github.com/mamadbah2/hivetool/internal/config"
	"github.com/mamadbah2/hivetool/pkg/logger"
)

var (
	envFile string
	timeout time.Duration
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:           "hivectl",
	Short:         "Administer a Hive Tool deployment",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "Load environment from this file (default: .env when present)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 2*time.Minute, "Operation timeout")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(digestCmd)
	rootCmd.AddCommand(useraddCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// withApp loads configuration, assembles the application and runs fn
// within the command timeout.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app.App) error) error {
	cfg, err := config.Load(envFile)
	if err != nil {
		return err
	}

	level := "warn"
	if verbose {
		level = "debug"
	}
	log, err := logger.New(level)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	a, err := app.New(ctx, cfg, log.Named("hivectl"))
	if err != nil {
		return err
	}
	defer a.Close(context.Background())

	log.Debug("application ready", zap.Bool("mongo", a.Store != nil))
	return fn(ctx, a)
}

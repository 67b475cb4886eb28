package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"lampbot/pkg/config"
	"lampbot/pkg/lamp"
	"lampbot/pkg/logger"
)

var execTimeout time.Duration

var execCmd = &cobra.Command{
	Use:   "exec <command> [device]",
	Short: "Run one chat command and print the reply",
	Long: `Run a single command through the dispatcher without Telegram.

Examples:
  lampbot exec status
  lampbot exec /turn_on light2
  lampbot exec devices`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runExec,
}

func init() {
	execCmd.Flags().DurationVarP(&execTimeout, "timeout", "t", time.Minute, "overall timeout")
}

func runExec(cmd *cobra.Command, args []string) error {
	var dispatcher *lamp.Dispatcher

	app := fx.New(
		coreModules(),
		fx.Supply(config.ScopeDevice),
		// Keep stdout for the reply.
		fx.Decorate(func(cfg *logger.Config) *logger.Config {
			quiet := *cfg
			quiet.Level = logger.LevelError
			return &quiet
		}),
		fx.Populate(&dispatcher),
		fx.NopLogger,
	)
	if err := app.Err(); err != nil {
		return fmt.Errorf("initializing: %w", err)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), execTimeout)
	defer cancel()

	if err := app.Start(ctx); err != nil {
		return fmt.Errorf("starting: %w", err)
	}
	defer func() {
		stopCtx, stopCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer stopCancel()
		if err := app.Stop(stopCtx); err != nil {
			fmt.Fprintf(os.Stderr, "Error stopping: %v\n", err)
		}
	}()

	text, device := commandText(args)
	resp := dispatcher.Dispatch(ctx, text, device)
	fmt.Fprintln(cmd.OutOrStdout(), strings.Join(resp.Messages(), "\n\n"))
	return nil
}

// commandText turns CLI arguments into chat text and a device id.
func commandText(args []string) (string, string) {
	text := strings.TrimSpace(args[0])
	if !strings.HasPrefix(text, "/") {
		text = "/" + text
	}
	device := ""
	if len(args) > 1 {
		device = strings.TrimSpace(args[1])
	}
	return text, device
}

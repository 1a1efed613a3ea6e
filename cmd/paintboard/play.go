package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/aretw0/paintboard"
	"github.com/aretw0/paintboard/internal/cli"
	"github.com/aretw0/paintboard/internal/logging"
	"github.com/aretw0/paintboard/internal/presentation/tui"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var playCmd = &cobra.Command{
	Use:   "play [session-id]",
	Short: "Edit a board interactively in the terminal",
	Long: `Opens a board and reads commands (toggle X Y, undo, redo, show, history) from stdin.
With the redis store the board is shared with any running 'paintboard serve'.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		sessionID := "default"
		if len(args) > 0 {
			sessionID = args[0]
		}

		// Logs only when asked for, so they do not interleave with the board.
		logger := logging.NewNop()
		if cmd.Flags().Changed("log-level") {
			if logger, err = newLogger(cfg); err != nil {
				return err
			}
		}
		cfg.Server.Metrics = false

		rt, err := cli.NewRuntime(cfg, logger)
		if err != nil {
			return err
		}
		defer rt.Close()

		interactive := term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
		profile := termenv.Ascii
		if interactive {
			profile = termenv.ColorProfile()
			tui.PrintBanner(os.Stdout, paintboard.Version)
		}

		sigCtx := cli.NewSignalContext(context.Background())
		defer sigCtx.Cancel()

		err = cli.Play(sigCtx, rt.Manager, cli.PlayOptions{
			SessionID:   sessionID,
			In:          os.Stdin,
			Out:         os.Stdout,
			Interactive: interactive,
			Profile:     profile,
			Logger:      logger.With(slog.String("cmd", "play")),
		})
		cli.ReportInterrupt(os.Stdout, sigCtx.Signal())
		return err
	},
}

func init() {
	rootCmd.AddCommand(playCmd)
}

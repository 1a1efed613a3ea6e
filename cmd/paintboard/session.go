package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aretw0/paintboard/internal/cli"
	"github.com/aretw0/paintboard/internal/logging"
	"github.com/spf13/cobra"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage live boards in the configured store",
	Long: `List, inspect, and remove boards held by the store. Only the redis backend outlives a
single process, so these commands are mostly useful with --redis-url.`,
}

// openRuntime builds a quiet runtime for one-shot store commands.
func openRuntime(cmd *cobra.Command) (*cli.Runtime, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	cfg.Server.Metrics = false
	return cli.NewRuntime(cfg, logging.NewNop())
}

var sessionLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List all boards",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := openRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		ids, err := rt.Manager.List(cmd.Context())
		if err != nil {
			return fmt.Errorf("error listing boards: %w", err)
		}
		out := cmd.OutOrStdout()
		if len(ids) == 0 {
			fmt.Fprintln(out, "No boards found.")
			return nil
		}

		fmt.Fprintln(out, "Boards:")
		for _, id := range ids {
			snap, err := rt.Manager.Load(cmd.Context(), id)
			if err != nil {
				// Expired between List and Load.
				continue
			}
			fmt.Fprintln(out, "- "+cli.DescribeBoard(snap))
		}
		return nil
	},
}

var sessionInspectCmd = &cobra.Command{
	Use:   "inspect <session-id>",
	Short: "Print the full snapshot of a board",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := openRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		snap, err := rt.Manager.Load(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("error loading board '%s': %w", args[0], err)
		}

		data, err := json.MarshalIndent(snap, "", "  ")
		if err != nil {
			return fmt.Errorf("error marshaling board: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	},
}

var sessionRmCmd = &cobra.Command{
	Use:   "rm <session-id>...",
	Short: "End one or more boards",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := openRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		var errs []error
		for _, id := range args {
			if err := rt.Manager.Delete(cmd.Context(), id); err != nil {
				errs = append(errs, fmt.Errorf("error removing '%s': %w", id, err))
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed board '%s'\n", id)
		}
		return errors.Join(errs...)
	},
}

func init() {
	rootCmd.AddCommand(sessionCmd)
	sessionCmd.AddCommand(sessionLsCmd)
	sessionCmd.AddCommand(sessionInspectCmd)
	sessionCmd.AddCommand(sessionRmCmd)
}

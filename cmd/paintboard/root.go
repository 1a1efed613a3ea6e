package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/paintboard/internal/config"
	"github.com/aretw0/paintboard/internal/logging"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "paintboard",
	Short: "Paintboard is a cell painting board with linear undo/redo",
	Long: `Paintboard keeps a set of painted grid cells and a single undo/redo history per board.
Boards can be edited from the terminal, over HTTP, or by AI agents through MCP.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	addConfigFlags(rootCmd)
}

// addConfigFlags declares the persistent flags read by loadConfig.
func addConfigFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().String("config", config.DefaultPath, "Path to the YAML config file (missing file means defaults)")
	cmd.PersistentFlags().String("log-level", "", "Log level override: debug, info, warn or error")
	cmd.PersistentFlags().String("store", "", "Store backend override: memory or redis")
	cmd.PersistentFlags().String("redis-url", "", "Redis URL override (implies --store=redis)")
}

// loadConfig reads the config file and applies flag overrides on top of file and env values.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}

	if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
		cfg.Log.Level = lvl
	}
	if backend, _ := cmd.Flags().GetString("store"); backend != "" {
		cfg.Store.Backend = backend
	}
	if url, _ := cmd.Flags().GetString("redis-url"); url != "" {
		cfg.Store.RedisURL = url
		if !cmd.Flags().Changed("store") {
			cfg.Store.Backend = "redis"
		}
	}
	return cfg, cfg.Validate()
}

// newLogger builds the stderr logger for cfg.
func newLogger(cfg config.Config) (*slog.Logger, error) {
	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	return logging.New(level), nil
}

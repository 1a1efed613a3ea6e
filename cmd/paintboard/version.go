package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/paintboard"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of paintboard",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "paintboard version %s\n", strings.TrimSpace(paintboard.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

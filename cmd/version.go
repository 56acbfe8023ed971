package cmd

import (
	"fmt"

	"lyricsync/server"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), "lyricsync", server.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

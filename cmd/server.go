package cmd

import (
	"github.com/spf13/cobra"
)

var serverCmd = &cobra.Command{
	Use:          "server [output-size] [no-lyrics-message]",
	Short:        "Start the lyric websocket server",
	Long:         `Start the websocket server. Same as running lyricsync without a subcommand.`,
	Args:         cobra.MaximumNArgs(2),
	SilenceUsage: true,
	RunE:         runServer,
}

func init() {
	rootCmd.AddCommand(serverCmd)
}

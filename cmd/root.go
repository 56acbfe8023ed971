package cmd

import (
	"fmt"
	"os"
	"strconv"

	"lyricsync/config"
	"lyricsync/logger"
	"lyricsync/server"

	"github.com/spf13/cobra"
)

var flags struct {
	host                string
	port                int
	outputSize          int
	noLyricsMessage     string
	unsyncedMessage     string
	placeholder         string
	suppressPlaceholder bool
	blankOnLoad         bool
	stdout              bool
	debug               bool
	logLevel            string
	logFile             string
	redis               bool
}

var rootCmd = &cobra.Command{
	Use:   "lyricsync [output-size] [no-lyrics-message]",
	Short: "lyricsync prints the lyric line matching the playback position of each connected player.",
	Long: `lyricsync accepts websocket connections from music players. Each connection
sends the lyrics of the current song and then its playback position; the
server answers with the line to display whenever it changes.`,
	Args:          cobra.MaximumNArgs(2),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runServer,
}

func init() {
	f := rootCmd.PersistentFlags()
	f.StringVar(&flags.host, "host", "127.0.0.1", "address to listen on")
	f.IntVarP(&flags.port, "port", "p", 5001, "port to listen on")
	f.IntVar(&flags.outputSize, "output-size", 0, "pad or trim every line to this many characters (0 disables)")
	f.StringVar(&flags.noLyricsMessage, "no-lyrics-message", "", "message shown when a song has no lyrics")
	f.StringVar(&flags.unsyncedMessage, "unsynced-message", "", "message shown when a song has no timing")
	f.StringVar(&flags.placeholder, "placeholder", "", "text shown before the first line of a song")
	f.BoolVar(&flags.suppressPlaceholder, "suppress-placeholder", false, "show nothing before the first line")
	f.BoolVar(&flags.blankOnLoad, "blank-on-load", true, "emit an empty line whenever a song is loaded")
	f.BoolVar(&flags.stdout, "stdout", true, "print emitted lines to stdout")
	f.BoolVar(&flags.debug, "debug", false, "log websocket errors")
	f.StringVar(&flags.logLevel, "log-level", "", "debug, info, warn or error")
	f.StringVar(&flags.logFile, "log-file", "", "also write logs to this rotated file")
	f.BoolVar(&flags.redis, "redis", false, "record session presence in Redis")
}

// Execute executes the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := logger.InitLogger(cfg.LoggerConfig()); err != nil {
		return err
	}
	defer logger.Sync()

	return server.Start(cfg)
}

// loadConfig reads the environment and applies the flags the user set.
func loadConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.Load()
	f := cmd.Flags()

	if f.Changed("host") {
		cfg.Host = flags.host
	}
	if f.Changed("port") {
		cfg.Port = flags.port
	}
	if f.Changed("output-size") {
		cfg.OutputSize = flags.outputSize
	}
	if f.Changed("no-lyrics-message") {
		cfg.NoLyricsMessage = flags.noLyricsMessage
	}
	if f.Changed("unsynced-message") {
		cfg.UnsyncedMessage = flags.unsyncedMessage
	}
	if f.Changed("placeholder") {
		cfg.Placeholder = flags.placeholder
	}
	if f.Changed("suppress-placeholder") {
		cfg.SuppressPlaceholder = flags.suppressPlaceholder
	}
	if f.Changed("blank-on-load") {
		cfg.BlankOnLoad = flags.blankOnLoad
	}
	if f.Changed("stdout") {
		cfg.Stdout = flags.stdout
	}
	if f.Changed("debug") {
		cfg.Debug = flags.debug
	}
	if f.Changed("log-level") {
		cfg.LogLevel = flags.logLevel
	}
	if f.Changed("log-file") {
		cfg.LogFile = flags.logFile
	}
	if f.Changed("redis") {
		cfg.RedisEnabled = flags.redis
	}

	// positional form: lyricsync [output-size] [no-lyrics-message]
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return nil, fmt.Errorf("invalid output size %q: %w", args[0], err)
		}
		cfg.OutputSize = n
	}
	if len(args) > 1 {
		cfg.NoLyricsMessage = args[1]
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

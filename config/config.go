package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"lyricsync/core/lyrics"
	"lyricsync/logger"

	"github.com/joho/godotenv"
)

// Config stores the application configuration.
// Values come from the environment (optionally via a .env file) and may be
// overridden by command line flags afterwards.
type Config struct {
	Host string
	Port int

	// Lyric output
	OutputSize          int // 0 means lines are printed as they are
	NoLyricsMessage     string
	UnsyncedMessage     string
	Placeholder         string
	SuppressPlaceholder bool
	BlankOnLoad         bool
	Stdout              bool // echo emitted lines to stdout

	Debug bool // log transport errors of every session

	// Logging
	LogLevel      string
	LogFile       string
	LogMaxSize    int // megabytes
	LogMaxBackups int
	LogMaxAge     int // days

	// Redis, used only for session presence
	RedisEnabled  bool
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt gets an environment variable as int or returns a default value.
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

// getEnvBool gets an environment variable as bool or returns a default value.
func getEnvBool(key string, fallback bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

// Load loads configuration from environment variables (via .env file) or defaults.
func Load() *Config {
	// godotenv.Load() will not override existing env vars.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on existing environment variables and defaults.")
	}

	return &Config{
		Host:                getEnv("LYRICSYNC_HOST", "127.0.0.1"),
		Port:                getEnvInt("LYRICSYNC_PORT", 5001),
		OutputSize:          getEnvInt("LYRICSYNC_OUTPUT_SIZE", 0),
		NoLyricsMessage:     getEnv("LYRICSYNC_NO_LYRICS_MESSAGE", lyrics.DefaultNoLyricsMessage),
		UnsyncedMessage:     getEnv("LYRICSYNC_UNSYNCED_MESSAGE", lyrics.DefaultUnsyncedMessage),
		Placeholder:         getEnv("LYRICSYNC_PLACEHOLDER", lyrics.DefaultPlaceholder),
		SuppressPlaceholder: getEnvBool("LYRICSYNC_SUPPRESS_PLACEHOLDER", false),
		BlankOnLoad:         getEnvBool("LYRICSYNC_BLANK_ON_LOAD", true),
		Stdout:              getEnvBool("LYRICSYNC_STDOUT", true),
		Debug:               getEnvBool("LYRICSYNC_DEBUG", false),
		LogLevel:            getEnv("LOG_LEVEL", string(logger.InfoLevel)),
		LogFile:             getEnv("LOG_FILE", ""),
		LogMaxSize:          getEnvInt("LOG_MAX_SIZE", 10),
		LogMaxBackups:       getEnvInt("LOG_MAX_BACKUPS", 3),
		LogMaxAge:           getEnvInt("LOG_MAX_AGE", 28),
		RedisEnabled:        getEnvBool("REDIS_ENABLED", false),
		RedisHost:           getEnv("REDIS_HOST", "127.0.0.1"),
		RedisPort:           getEnv("REDIS_PORT", "6379"),
		RedisPassword:       getEnv("REDIS_PASSWORD", ""),
		RedisDB:             getEnvInt("REDIS_DB", 0),
	}
}

// Validate reports the first setting that would keep the server from starting.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d: must be between 1 and 65535", c.Port)
	}
	if c.OutputSize < 0 {
		return fmt.Errorf("invalid output size %d: must not be negative", c.OutputSize)
	}
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// Addr returns the address the server listens on.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// RedisAddr returns the host:port of the Redis server.
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%s", c.RedisHost, c.RedisPort)
}

// LyricOptions converts the output settings into per-session writer options.
func (c *Config) LyricOptions() lyrics.Options {
	return lyrics.Options{
		Width:               c.OutputSize,
		NoLyricsMessage:     c.NoLyricsMessage,
		UnsyncedMessage:     c.UnsyncedMessage,
		Placeholder:         c.Placeholder,
		SuppressPlaceholder: c.SuppressPlaceholder,
		BlankOnLoad:         c.BlankOnLoad,
	}
}

// LoggerConfig converts the logging settings for logger.InitLogger.
func (c *Config) LoggerConfig() logger.Config {
	level, _ := logger.ParseLevel(c.LogLevel)
	return logger.Config{
		Level:      level,
		OutputPath: c.LogFile,
		MaxSize:    c.LogMaxSize,
		MaxBackups: c.LogMaxBackups,
		MaxAge:     c.LogMaxAge,
		Compress:   true,
	}
}

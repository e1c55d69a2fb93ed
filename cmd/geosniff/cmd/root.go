package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	configFile string
	dbURL      string
	logLevel   string
	logFormat  string
)

var rootCmd = &cobra.Command{
	Use:   "geosniff",
	Short: "geosniff geospatial resource type detection",
	Long:  `geosniff classifies remote endpoints and local document sets against a catalog of geospatial service and document types.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")
	rootCmd.PersistentFlags().StringVar(&dbURL, "db-url", "", "database connection URL (sqlite://path or postgres://...)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "json", "log format (json, text)")
}

// newLogger builds the process logger from the persistent flags. Logs go
// to stderr so command output on stdout stays parseable.
func newLogger() (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(logLevel)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("unknown log level %q", logLevel)
	}

	var out io.Writer = os.Stderr
	switch logFormat {
	case "json":
	case "text":
		out = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	default:
		return zerolog.Nop(), fmt.Errorf("unknown log format %q", logFormat)
	}

	return zerolog.New(out).Level(level).With().Timestamp().Logger(), nil
}

func Execute() error {
	return rootCmd.Execute()
}

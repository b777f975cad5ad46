package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"document-tldr/internal/config"
)

// Version is set at build time with -ldflags.
var Version = "(dev) v0.0.0"

var (
	configPath string
	logLevel   string
	logFile    string

	logOutput *os.File
)

var rootCmd = &cobra.Command{
	Use:           "tldr",
	Short:         "Write a short TLDR summary into Markdown documents",
	Long:          `tldr sends a document to a language model and splices the one-to-two sentence summary it returns into the document under a "###### TLDR:" heading.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setupLogger()
	},
}

func main() {
	err := rootCmd.Execute()
	if err != nil {
		log.Error().Err(err).Msg("Command failed")
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	closeLog()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config.yaml (default $TLDR_HOME/config.yaml or the user config dir)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "write logs to this file instead of stderr")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(lspCmd)
}

// setupLogger writes console logs to stderr because stdout carries
// documents and the language server protocol.
func setupLogger() error {
	level, err := zerolog.ParseLevel(logLevel)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", logLevel, err)
	}
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(level)

	var out io.Writer = os.Stderr
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		logOutput = f
		out = f
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339, NoColor: logFile != ""}).With().Caller().Logger()
	return nil
}

// closeLog closes the --log-file handle, if any, and points the logger
// back at stderr.
func closeLog() {
	if logOutput == nil {
		return
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	_ = logOutput.Close()
	logOutput = nil
}

func openStore() (*config.FileStore, error) {
	return config.NewFileStore(configPath)
}

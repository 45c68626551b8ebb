package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/randalmurphal/medflow/config"
)

// version is set at build time via -ldflags.
var version = "dev"

var configPath string

var rootCmd = &cobra.Command{
	Use:   "medflow",
	Short: "Medical query answering over PubMed and ClinicalTrials.gov",
	Long: "Medflow classifies incoming questions, retrieves PubMed abstracts with\n" +
		"bounded query refinement, looks up clinical trials, and produces a\n" +
		"summarized, disclaimed answer via a completion backend.",
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "medflow.yaml",
		"Path to YAML config file (missing file uses defaults)")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.Version = version
}

// loadConfig loads .env (when present), then the layered configuration.
func loadConfig() (config.Config, error) {
	_ = godotenv.Load()
	return config.Load(configPath)
}

// newLogger builds the process logger from the configured level.
func newLogger(cfg config.Config) *slog.Logger {
	var level slog.Level
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

package main

import (
	"context"
	"fmt"
	"os"

	"archive-scraper/internal/browser"
	"archive-scraper/internal/config"
	"archive-scraper/internal/logger"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	configFile string
	envFile    string
	logLevel   string

	cfg *config.Config
	log zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "archive-scraper",
	Short: "Scrapes monthly archive listings into a movies table and resolves download links.",
	Long: `archive-scraper drives a Chromium-based browser (Brave by default) through a
site's monthly archive, saving every title/link pair it has not seen before,
and can follow a post's redirect chain to its final download link.

Database credentials are read from SUPABASE_URL and SUPABASE_KEY, usually
kept in a local .env file.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(configFile, envFile)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("log-level") {
			loaded.Logging.Level = logLevel
		}
		cfg = loaded

		log, err = logger.New(cfg.Logging)
		return err
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default is ./.archive-scraper.yaml)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "settings file with database credentials")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// applyBrowserFlags copies explicitly set browser flags into the config and
// validates the result.
func applyBrowserFlags(cmd *cobra.Command, headless bool) error {
	if cmd.Flags().Changed("headless") {
		cfg.Browser.Headless = headless
	}
	return cfg.Validate()
}

// browserPath resolves the executable before anything else starts.
func browserPath() (string, error) {
	candidates := browser.DefaultCandidates()
	if cfg.Browser.BinaryPath != "" {
		candidates = []string{cfg.Browser.BinaryPath}
	}
	path, err := browser.FindBinary(candidates)
	if err != nil {
		return "", fmt.Errorf("%w; install Brave or set browser.binary_path", err)
	}
	log.Info().Str("path", path).Msg("browser executable found")
	return path, nil
}

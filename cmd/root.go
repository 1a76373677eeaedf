// Package cmd implements the CLI commands using Cobra.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"anigo/internal/config"
	"anigo/internal/extract"
	"anigo/internal/httputil"
	"anigo/internal/log"
	"anigo/internal/provider"
	"anigo/internal/ui"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Global flags
var (
	flagBase     string
	flagTimeout  string
	flagLogLevel string
	flagPlayer   string
	flagJSON     bool
	flagDebug    bool
)

// cfg holds the loaded configuration (merged: defaults < config file < flags).
var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "anigo",
	Short: "Resolve AnimeGo player catalogs into stream manifests",
	Long: `anigo reads the player catalog of an AnimeGo episode and resolves its
AniBoom and CVH players into DASH/HLS manifest URLs and playlists.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "anigo %s\n", Version)
	},
}

// Execute runs the root command. SIGINT and SIGTERM cancel in-flight requests.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagBase, "base", "b", "", "Catalog site base URL (default: https://animego.me)")
	rootCmd.PersistentFlags().StringVarP(&flagTimeout, "timeout", "t", "", "Per-request timeout, e.g. 15s")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: trace | debug | info | warn | error")
	rootCmd.PersistentFlags().StringVar(&flagPlayer, "player", "", "Media player for --play: mpv | vlc | iina | celluloid")
	rootCmd.PersistentFlags().BoolVarP(&flagJSON, "json", "j", false, "Output results as JSON")
	rootCmd.PersistentFlags().BoolVarP(&flagDebug, "debug", "x", false, "Debug logging to stderr")

	rootCmd.AddCommand(playersCmd)
	rootCmd.AddCommand(embedCmd)
	rootCmd.AddCommand(manifestCmd)
	rootCmd.AddCommand(cvhCmd)
	rootCmd.AddCommand(cvhVideoCmd)
	rootCmd.AddCommand(pickCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig loads and merges configuration: defaults < config file < CLI flags.
func loadConfig(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// CLI flags override config file values
	if flagBase != "" {
		cfg.Base = flagBase
	}
	if flagTimeout != "" {
		cfg.Timeout = flagTimeout
	}
	if flagPlayer != "" {
		cfg.Player = flagPlayer
	}
	if flagLogLevel != "" {
		cfg.LogLevel = flagLogLevel
	}
	if flagDebug {
		cfg.Debug = true
		cfg.LogLevel = "debug"
	}

	// Re-validate after flag overrides
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	log.Setup(os.Stderr, cfg.LogLevel, cfg.LogJSON)
	return nil
}

// newFetcher builds the shared HTTP client from the merged configuration.
func newFetcher() (*httputil.Client, error) {
	timeout, err := cfg.TimeoutDuration()
	if err != nil {
		return nil, err
	}
	return httputil.New(
		httputil.WithTimeout(timeout),
		httputil.WithUserAgent(cfg.UserAgent),
		httputil.WithRateLimit(cfg.RequestsPerSecond, cfg.Burst),
	), nil
}

// session bundles the catalog provider and resolvers sharing one client.
type session struct {
	catalog provider.Provider
	aniboom *extract.AniBoom
	cvh     *extract.CVH
	out     ui.Styler
}

func newSession() (*session, error) {
	fetcher, err := newFetcher()
	if err != nil {
		return nil, err
	}
	catalog := provider.NewAnimeGo(cfg.Base, fetcher)
	return &session{
		catalog: catalog,
		aniboom: extract.NewAniBoom(catalog.Base(), fetcher),
		cvh:     extract.NewCVH(catalog.Base(), fetcher),
		out:     ui.NewStyler(os.Stdout),
	}, nil
}

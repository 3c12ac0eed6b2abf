/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>

*/
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/jfmyers9/setlistify/internal/config"
	"github.com/jfmyers9/setlistify/internal/match"
	"github.com/jfmyers9/setlistify/internal/pipeline"
	"github.com/jfmyers9/setlistify/internal/platform"
	"github.com/jfmyers9/setlistify/internal/playlist"
	"github.com/spf13/cobra"
)

// Version information (set via ldflags during build)
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

var (
	playlistName string
	apiKey       string
	exportOnly   bool
	outputPath   string
	formatName   string
	noCatalog    bool
	skipTape     bool
	logLevel     string
	configPath   string
)

// rootCmd converts one setlist.fm URL into a playlist
var rootCmd = &cobra.Command{
	Use:   "setlistify [flags] <setlist-url>",
	Short: "Turn a setlist.fm setlist into a playlist",
	Long: `setlistify fetches a concert setlist from setlist.fm and turns it into a
playlist.

On macOS the playlist is built in Apple Music through AppleScript; on Windows
it is built in iTunes through its COM interface. Songs are searched in the
local library, then looked up in the iTunes catalog to find the canonical
title. Covers are searched under the original artist.

When no music application can be automated, or with --export-only, the
setlist is written as an M3U or CSV playlist file instead.

The setlist.fm API key is read from --api-key, the SETLISTFM_API_KEY
environment variable, or setlistfm.api_key in
~/.config/setlistify/config.yaml.

Exit codes:
  0 - Playlist created or exported, even if some songs were not found
  1 - The setlist could not be fetched or parsed`,
	Example: `  setlistify https://www.setlist.fm/setlist/taylor-swift/2023/state-farm-stadium-glendale-az-63a3d6cb.html
  setlistify --export-only --format csv -o eras.csv <setlist-url>`,
	Args:         cobra.ExactArgs(1),
	Version:      fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildDate),
	SilenceUsage: true,
	RunE:         runSetlistify,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.Flags()
	flags.StringVarP(&playlistName, "playlist-name", "n", "", `Playlist name (default: "Artist - Venue - Date")`)
	flags.StringVar(&apiKey, "api-key", "", "setlist.fm API key (overrides SETLISTFM_API_KEY and config)")
	flags.BoolVar(&exportOnly, "export-only", false, "Write a playlist file without automating a music application")
	flags.StringVarP(&outputPath, "output", "o", "", "Playlist file path (default: playlist name in the export directory)")
	flags.StringVarP(&formatName, "format", "f", "", "Playlist file format: m3u or csv (default from config, m3u)")
	flags.BoolVar(&noCatalog, "no-catalog", false, "Skip the iTunes catalog lookup for songs missing from the library")
	flags.BoolVar(&skipTape, "skip-tape", false, "Leave out songs played from tape")
	flags.StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flags.StringVar(&configPath, "config", "", "Config file (default: ~/.config/setlistify/config.yaml)")
}

func runSetlistify(cmd *cobra.Command, args []string) error {
	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	applyFlags(cmd, cfg)

	format, err := playlist.ParseFormat(cfg.Export.Format)
	if err != nil {
		return err
	}

	logger := setupLogger(os.Stderr, cfg.LogLevel)
	logger.Debug().
		Str("version", version).
		Str("config_dir", config.GetConfigDir()).
		Msg("Starting setlistify")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	report, err := pipeline.Run(ctx, pipeline.Options{
		URL:            args[0],
		APIKey:         cfg.SetlistFM.APIKey,
		BaseURL:        cfg.SetlistFM.BaseURL,
		Language:       cfg.SetlistFM.Language,
		PlaylistName:   playlistName,
		ExportOnly:     exportOnly,
		Output:         outputPath,
		Format:         format,
		ExportDir:      cfg.Export.Dir,
		Catalog:        cfg.Catalog.Enabled,
		CatalogCountry: cfg.Catalog.Country,
		SkipTape:       cfg.Parse.SkipTape,
		Policy:         match.Policy{StripQualifiers: cfg.Match.StripQualifiers},
		ScriptTimeout:  cfg.Automation.ScriptTimeout,
		Environment:    platform.Current(),
		UserAgent:      "setlistify/" + version,
		Logger:         logger,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprint(out, renderReport(report, shouldColorize(out)))
	return nil
}

// applyFlags lets explicitly set flags override configuration
func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("api-key") {
		cfg.SetlistFM.APIKey = apiKey
	}
	if flags.Changed("format") {
		cfg.Export.Format = formatName
	}
	if flags.Changed("no-catalog") {
		cfg.Catalog.Enabled = !noCatalog
	}
	if flags.Changed("skip-tape") {
		cfg.Parse.SkipTape = skipTape
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}
}

// Package pipeline runs one setlist-to-playlist conversion end to end.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/jfmyers9/setlistify/internal/match"
	"github.com/jfmyers9/setlistify/internal/music"
	"github.com/jfmyers9/setlistify/internal/platform"
	"github.com/jfmyers9/setlistify/internal/playlist"
	"github.com/jfmyers9/setlistify/internal/setlist"
	"github.com/jfmyers9/setlistify/pkg/itunes"
	"github.com/jfmyers9/setlistify/pkg/setlistfm"
	"github.com/rs/zerolog"
)

// Options configures a run.
type Options struct {
	URL          string // setlist.fm setlist page
	APIKey       string
	BaseURL      string // setlist.fm API base, empty for the default
	Language     string
	PlaylistName string // Empty for the setlist's default name

	ExportOnly bool
	Output     string
	Format     playlist.Format
	ExportDir  string

	Catalog        bool   // Use the iTunes Search API step
	CatalogCountry string
	CatalogBaseURL string

	SkipTape      bool
	Policy        match.Policy
	ScriptTimeout time.Duration

	HTTPClient    *http.Client
	Environment   platform.Environment
	NewAutomation platform.Factory // Optional: defaults to platform.DefaultFactory
	Runner        music.Runner     // Optional: defaults to music.ExecRunner
	UserAgent     string
	Logger        zerolog.Logger
}

// Run fetches the setlist, parses it and builds the playlist with the
// selected strategy. An automation build that reports
// music.ErrAutomationUnavailable is redone as a file export, with the cause
// recorded in the report's FallbackReason.
//
// Errors are returned only when the setlist could not be fetched or parsed,
// or when the playlist could not be written at all.
func Run(ctx context.Context, opts Options) (*playlist.Report, error) {
	logger := opts.Logger

	client, err := setlistfm.NewClient(setlistfm.Config{
		APIKey:     opts.APIKey,
		HTTPClient: opts.HTTPClient,
		BaseURL:    opts.BaseURL,
		UserAgent:  opts.UserAgent,
		Language:   opts.Language,
		Logger:     debugLogger{logger.With().Str("component", "setlistfm").Logger()},
	})
	if err != nil {
		return nil, err
	}

	logger.Info().Str("url", opts.URL).Msg("Fetching setlist")
	resp, err := client.GetSetlistByURL(ctx, opts.URL)
	if err != nil {
		return nil, err
	}

	sl, err := setlist.Parse(resp, setlist.ParseOptions{SkipTape: opts.SkipTape})
	if err != nil {
		return nil, fmt.Errorf("failed to parse setlist %s: %w", resp.ID, err)
	}
	if len(sl.Songs) == 0 {
		return nil, &setlistfm.Error{
			Kind:    setlistfm.KindInvalidInput,
			Message: "nothing to build",
			URL:     opts.URL,
			Err:     setlist.ErrEmptySetlist,
		}
	}

	logger.Info().
		Str("artist", sl.Reference.Artist).
		Str("venue", sl.Reference.Venue).
		Str("date", sl.Reference.DisplayDate()).
		Int("songs", len(sl.Songs)).
		Int("covers", sl.Covers()).
		Msg("Parsed setlist")

	name := opts.PlaylistName
	if name == "" {
		name = sl.DefaultPlaylistName()
	}

	format := opts.Format
	if opts.Output != "" {
		format = playlist.FormatForPath(opts.Output, format)
	}

	sel := platform.Select(ctx, opts.Environment, platform.Options{
		ExportOnly:    opts.ExportOnly,
		Output:        opts.Output,
		Format:        format,
		Music:         music.Options{Runner: opts.Runner, Timeout: opts.ScriptTimeout},
		NewAutomation: opts.NewAutomation,
		Logger:        logger,
	})

	builderOpts := playlist.Options{
		Policy:    opts.Policy,
		ExportDir: opts.ExportDir,
		Logger:    logger,
	}
	if opts.Catalog && sel.Strategy() == playlist.StrategyAutomation {
		builderOpts.Catalog = itunes.NewClient(itunes.Config{
			Country:    opts.CatalogCountry,
			HTTPClient: opts.HTTPClient,
			BaseURL:    opts.CatalogBaseURL,
		})
	}

	report, err := playlist.NewBuilder(sel.Target, builderOpts).Build(ctx, sl, name)
	if errors.Is(err, music.ErrAutomationUnavailable) {
		logger.Warn().Err(err).Msg("Automation failed, exporting file instead")

		fallback := playlist.NewFileBuilder(opts.Output, opts.ExportDir, format, logger)
		report, ferr := fallback.Build(ctx, sl, name)
		if ferr != nil {
			return nil, fmt.Errorf("failed to export after automation failure: %w", ferr)
		}
		report.FallbackReason = err.Error()
		return report, nil
	}
	if err != nil {
		return nil, err
	}

	report.FallbackReason = sel.Reason
	logger.Info().
		Str("strategy", report.Strategy.String()).
		Int("included", report.Included()).
		Int("total", report.Total()).
		Msg("Playlist built")
	return report, nil
}

// debugLogger adapts a zerolog.Logger to setlistfm.Logger.
type debugLogger struct {
	logger zerolog.Logger
}

func (l debugLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug().Msgf(format, args...)
}

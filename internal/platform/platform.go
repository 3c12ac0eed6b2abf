// Package platform picks the playlist strategy for the running system.
package platform

import (
	"context"
	"fmt"
	"runtime"

	"github.com/jfmyers9/setlistify/internal/music"
	"github.com/jfmyers9/setlistify/internal/playlist"
	"github.com/rs/zerolog"
)

// Environment describes the runtime the selector decides for.
type Environment struct {
	GOOS string
}

// Current returns the environment of the running process.
func Current() Environment {
	return Environment{GOOS: runtime.GOOS}
}

// Factory returns the automation for goos, or nil when the platform has none.
type Factory func(goos string, opts music.Options) music.Automation

// DefaultFactory maps darwin to Music.app over AppleScript and windows to
// iTunes over COM.
func DefaultFactory(goos string, opts music.Options) music.Automation {
	switch goos {
	case "darwin":
		return music.NewAppleScriptClient(opts)
	case "windows":
		return music.NewITunesCOMClient(opts)
	default:
		return nil
	}
}

// Options configures Select.
type Options struct {
	ExportOnly    bool            // Skip automation entirely
	Output        string          // File strategy output path, empty for the default
	Format        playlist.Format // File strategy format
	Music         music.Options   // Passed to the automation factory
	NewAutomation Factory         // Optional: defaults to DefaultFactory
	Logger        zerolog.Logger
}

// Selection is the outcome of Select.
type Selection struct {
	Target playlist.Target

	// Reason explains why automation was wanted but the file strategy was
	// chosen. Empty when automation was selected or export was requested.
	Reason string
}

// Strategy returns the selected strategy.
func (s Selection) Strategy() playlist.Strategy {
	return s.Target.Strategy()
}

// Select chooses exactly one strategy for env. A chosen automation must pass
// its availability check first; a failed check selects the file strategy with
// the check's error as the reason.
func Select(ctx context.Context, env Environment, opts Options) Selection {
	logger := opts.Logger.With().Str("component", "platform").Logger()
	file := playlist.Target{Path: opts.Output, Format: opts.Format}

	if opts.ExportOnly {
		logger.Debug().Msg("Export only requested")
		return Selection{Target: file}
	}

	factory := opts.NewAutomation
	if factory == nil {
		factory = DefaultFactory
	}

	app := factory(env.GOOS, opts.Music)
	if app == nil {
		reason := fmt.Sprintf("no music automation available on %s", env.GOOS)
		logger.Info().Str("goos", env.GOOS).Msg("No automation for platform, exporting file")
		return Selection{Target: file, Reason: reason}
	}

	if err := app.Probe(ctx); err != nil {
		logger.Warn().Err(err).Str("app", app.Name()).Msg("Automation unavailable, exporting file")
		return Selection{Target: file, Reason: err.Error()}
	}

	logger.Debug().Str("app", app.Name()).Msg("Using automation")
	return Selection{Target: playlist.Target{Automation: app}}
}

package music

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// ErrAutomationUnavailable is returned when the music application cannot be
// driven: the interpreter or application is missing, it is not running and
// cannot be launched, or scripting permission was denied.
var ErrAutomationUnavailable = errors.New("music automation unavailable")

// Track represents a track in the music application's library
type Track struct {
	ID     string // Persistent ID, stable across launches
	Name   string // Track name/title
	Artist string // Artist name
	Album  string // Album name
}

// MatchTitle returns the track name for matching
func (t Track) MatchTitle() string { return t.Name }

// MatchArtist returns the artist for matching
func (t Track) MatchArtist() string { return t.Artist }

// Automation defines the capability set for building a playlist in a local
// music application
type Automation interface {
	// Name returns a short description, e.g. "Apple Music (AppleScript)"
	Name() string

	// Probe checks that the application can be scripted at all
	Probe(ctx context.Context) error

	// CreatePlaylist creates a user playlist, reusing one with the same name
	CreatePlaylist(ctx context.Context, name string) error

	// SearchTrack searches the local library for a song
	SearchTrack(ctx context.Context, title, artist string) ([]Track, error)

	// AddTrack appends a library track to the named playlist
	AddTrack(ctx context.Context, playlist string, track Track) error
}

// Runner executes an interpreter with arguments and returns its stdout.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

// Options configures an Automation implementation.
type Options struct {
	Runner  Runner        // Optional: defaults to ExecRunner
	Timeout time.Duration // Optional: per-script timeout, 0 for none
}

// ExecRunner runs the command as a subprocess. Non-zero exits are reported
// with the interpreter's stderr.
func ExecRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	output, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, fmt.Errorf("%s error: %s", name, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return nil, fmt.Errorf("failed to execute %s: %w", name, err)
	}
	return output, nil
}

// scriptHost runs scripts through one interpreter with an optional timeout.
type scriptHost struct {
	interpreter string
	args        []string
	run         Runner
	timeout     time.Duration
}

func newScriptHost(interpreter string, args []string, opts Options) scriptHost {
	run := opts.Runner
	if run == nil {
		run = ExecRunner
	}
	return scriptHost{
		interpreter: interpreter,
		args:        args,
		run:         run,
		timeout:     opts.Timeout,
	}
}

// exec runs script and returns its trimmed stdout.
func (h scriptHost) exec(ctx context.Context, script string) (string, error) {
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	args := append(append([]string{}, h.args...), script)
	output, err := h.run(ctx, h.interpreter, args...)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(output)), nil
}

// searchQuery is one library search attempt. A title-only query matches song
// names; any other query matches all fields.
type searchQuery struct {
	text      string
	titleOnly bool
}

// searchQueries lists the attempts for a song in order: title and artist
// together, then the title alone. The combined query ranks the headliner's
// track ahead of same-named songs that would otherwise crowd the result cap.
func searchQueries(title, artist string) []searchQuery {
	title = strings.TrimSpace(title)
	artist = strings.TrimSpace(artist)
	if artist == "" {
		return []searchQuery{{text: title, titleOnly: true}}
	}
	return []searchQuery{
		{text: title + " " + artist},
		{text: title, titleOnly: true},
	}
}

// searchInOrder runs the queries for a song until one returns tracks
func searchInOrder(ctx context.Context, title, artist string, search func(context.Context, searchQuery) ([]Track, error)) ([]Track, error) {
	for _, q := range searchQueries(title, artist) {
		tracks, err := search(ctx, q)
		if err != nil {
			return nil, err
		}
		if len(tracks) > 0 {
			return tracks, nil
		}
	}
	return nil, nil
}

// trackDelimiter separates fields in script output
const trackDelimiter = "|||"

// parseTrackLines parses one "id|||name|||artist|||album" record per line.
// Blank lines are ignored.
func parseTrackLines(output string) ([]Track, error) {
	var tracks []Track
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		parts := strings.Split(line, trackDelimiter)
		if len(parts) != 4 {
			return nil, fmt.Errorf("expected 4 parts, got %d: %q", len(parts), line)
		}

		id := strings.TrimSpace(parts[0])
		if id == "" {
			return nil, fmt.Errorf("missing track id: %q", line)
		}

		tracks = append(tracks, Track{
			ID:     id,
			Name:   strings.TrimSpace(parts[1]),
			Artist: strings.TrimSpace(parts[2]),
			Album:  strings.TrimSpace(parts[3]),
		})
	}
	return tracks, nil
}

// unavailable wraps err so callers can detect it with errors.Is.
func unavailable(app string, err error) error {
	return fmt.Errorf("%s: %w: %v", app, ErrAutomationUnavailable, err)
}

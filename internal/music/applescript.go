package music

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// maxSearchResults caps how many library hits a search returns
const maxSearchResults = 50

// AppleScriptClient implements the Automation interface using AppleScript to
// drive Apple Music on macOS
type AppleScriptClient struct {
	host     scriptHost
	lookPath func(string) (string, error)
}

// NewAppleScriptClient creates a new AppleScript-based music client
func NewAppleScriptClient(opts Options) *AppleScriptClient {
	return &AppleScriptClient{
		host:     newScriptHost("osascript", []string{"-e"}, opts),
		lookPath: exec.LookPath,
	}
}

// Name returns the automation description
func (c *AppleScriptClient) Name() string {
	return "Apple Music (AppleScript)"
}

// Probe checks that osascript exists and that Music answers. Asking for the
// version launches Music if needed and triggers the scripting permission
// prompt on first use.
func (c *AppleScriptClient) Probe(ctx context.Context) error {
	if _, err := c.lookPath("osascript"); err != nil {
		return unavailable(c.Name(), err)
	}

	script := `tell application "Music" to get version`
	version, err := c.host.exec(ctx, script)
	if err != nil {
		return unavailable(c.Name(), err)
	}
	if version == "" {
		return unavailable(c.Name(), errors.New("no version reported"))
	}
	return nil
}

// CreatePlaylist creates a user playlist unless one with that name exists
func (c *AppleScriptClient) CreatePlaylist(ctx context.Context, name string) error {
	script := fmt.Sprintf(`
tell application "Music"
	if not (exists user playlist "%[1]s") then
		make new user playlist with properties {name:"%[1]s"}
	end if
end tell`, escapeAppleScript(name))

	if _, err := c.host.exec(ctx, script); err != nil {
		return unavailable(c.Name(), fmt.Errorf("failed to create playlist %q: %w", name, err))
	}
	return nil
}

// SearchTrack searches the library and returns candidates. The title and
// artist are searched together across all fields first; when that finds
// nothing, the title alone is searched against song names.
func (c *AppleScriptClient) SearchTrack(ctx context.Context, title, artist string) ([]Track, error) {
	tracks, err := searchInOrder(ctx, title, artist, c.search)
	if err != nil {
		return nil, fmt.Errorf("failed to search library for %q by %q: %w", title, artist, err)
	}
	return tracks, nil
}

func (c *AppleScriptClient) search(ctx context.Context, q searchQuery) ([]Track, error) {
	scope := "all"
	if q.titleOnly {
		scope = "songs"
	}

	script := fmt.Sprintf(`
tell application "Music"
	set searchResults to (search library playlist 1 for "%s" only %s)
	if searchResults is missing value then return ""
	set output to ""
	set n to 0
	repeat with t in searchResults
		set n to n + 1
		if n > %d then exit repeat
		set output to output & (persistent ID of t) & "|||" & (name of t) & "|||" & (artist of t) & "|||" & (album of t) & linefeed
	end repeat
	return output
end tell`, escapeAppleScript(q.text), scope, maxSearchResults)

	output, err := c.host.exec(ctx, script)
	if err != nil {
		return nil, err
	}

	tracks, err := parseTrackLines(output)
	if err != nil {
		return nil, fmt.Errorf("failed to parse search output: %w", err)
	}
	return tracks, nil
}

// AddTrack duplicates a library track into the playlist
func (c *AppleScriptClient) AddTrack(ctx context.Context, playlist string, track Track) error {
	script := fmt.Sprintf(`
tell application "Music"
	set theTrack to (first track of library playlist 1 whose persistent ID is "%s")
	duplicate theTrack to user playlist "%s"
end tell`, escapeAppleScript(track.ID), escapeAppleScript(playlist))

	if _, err := c.host.exec(ctx, script); err != nil {
		return fmt.Errorf("failed to add %q to %q: %w", track.Name, playlist, err)
	}
	return nil
}

// escapeAppleScript escapes a value for use inside a double-quoted
// AppleScript string literal
func escapeAppleScript(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	s = strings.ReplaceAll(s, "\r", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	return s
}

package music

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ITunesCOMClient implements the Automation interface by driving iTunes on
// Windows through its COM object model (iTunes.Application), scripted with
// PowerShell
type ITunesCOMClient struct {
	host     scriptHost
	lookPath func(string) (string, error)
}

// NewITunesCOMClient creates a new COM-based iTunes client
func NewITunesCOMClient(opts Options) *ITunesCOMClient {
	return &ITunesCOMClient{
		host:     newScriptHost("powershell", []string{"-NoProfile", "-NonInteractive", "-Command"}, opts),
		lookPath: exec.LookPath,
	}
}

// comPrelude binds $it to the iTunes COM object, makes script errors fatal
// and writes stdout as UTF-8 so non-ASCII track names survive the console
// code page
const comPrelude = `$ErrorActionPreference = 'Stop'
[Console]::OutputEncoding = [System.Text.Encoding]::UTF8
$it = New-Object -ComObject iTunes.Application
`

// ITPlaylistSearchField values
const (
	searchFieldAll       = 0
	searchFieldSongNames = 5
)

// Name returns the automation description
func (c *ITunesCOMClient) Name() string {
	return "iTunes (COM)"
}

// Probe checks that PowerShell exists and that the iTunes COM server starts
func (c *ITunesCOMClient) Probe(ctx context.Context) error {
	if _, err := c.lookPath("powershell"); err != nil {
		return unavailable(c.Name(), err)
	}

	version, err := c.host.exec(ctx, comPrelude+`$it.Version`)
	if err != nil {
		return unavailable(c.Name(), err)
	}
	if version == "" {
		return unavailable(c.Name(), errors.New("no version reported"))
	}
	return nil
}

// CreatePlaylist creates a user playlist unless one with that name exists
func (c *ITunesCOMClient) CreatePlaylist(ctx context.Context, name string) error {
	script := comPrelude + fmt.Sprintf(`$name = '%s'
$pl = $it.LibrarySource.Playlists.ItemByName($name)
if ($pl -eq $null) { $pl = $it.CreatePlaylist($name) }
`, escapePowerShell(name))

	if _, err := c.host.exec(ctx, script); err != nil {
		return unavailable(c.Name(), fmt.Errorf("failed to create playlist %q: %w", name, err))
	}
	return nil
}

// SearchTrack searches the library and returns candidates. The title and
// artist are searched together across all fields first; when that finds
// nothing, the title alone is searched against song names.
func (c *ITunesCOMClient) SearchTrack(ctx context.Context, title, artist string) ([]Track, error) {
	tracks, err := searchInOrder(ctx, title, artist, c.search)
	if err != nil {
		return nil, fmt.Errorf("failed to search library for %q by %q: %w", title, artist, err)
	}
	return tracks, nil
}

func (c *ITunesCOMClient) search(ctx context.Context, q searchQuery) ([]Track, error) {
	field := searchFieldAll
	if q.titleOnly {
		field = searchFieldSongNames
	}

	script := comPrelude + fmt.Sprintf(`$res = $it.LibraryPlaylist.Search('%s', %d)
if ($res -ne $null) {
	$n = 0
	foreach ($t in $res) {
		$n++
		if ($n -gt %d) { break }
		$hi = $it.ITObjectPersistentIDHigh($t)
		$lo = $it.ITObjectPersistentIDLow($t)
		[Console]::Out.WriteLine(('{0:X8}{1:X8}|||{2}|||{3}|||{4}' -f $hi, $lo, $t.Name, $t.Artist, $t.Album))
	}
}
`, escapePowerShell(q.text), field, maxSearchResults)

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

// AddTrack appends a library track, identified by its 16-hex-digit
// persistent ID, to the playlist
func (c *ITunesCOMClient) AddTrack(ctx context.Context, playlist string, track Track) error {
	hi, lo, err := splitPersistentID(track.ID)
	if err != nil {
		return fmt.Errorf("failed to add %q: %w", track.Name, err)
	}

	script := comPrelude + fmt.Sprintf(`$pl = $it.LibrarySource.Playlists.ItemByName('%s')
if ($pl -eq $null) { throw 'playlist not found' }
$t = $it.LibraryPlaylist.Tracks.ItemByPersistentID([Convert]::ToInt32('%s', 16), [Convert]::ToInt32('%s', 16))
if ($t -eq $null) { throw 'track not found' }
$null = $pl.AddTrack($t)
`, escapePowerShell(playlist), hi, lo)

	if _, err := c.host.exec(ctx, script); err != nil {
		return fmt.Errorf("failed to add %q to %q: %w", track.Name, playlist, err)
	}
	return nil
}

// splitPersistentID splits "HHHHHHHHLLLLLLLL" into its high and low halves
func splitPersistentID(id string) (string, string, error) {
	if len(id) != 16 {
		return "", "", fmt.Errorf("invalid persistent ID %q", id)
	}
	for _, r := range id {
		if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
			return "", "", fmt.Errorf("invalid persistent ID %q", id)
		}
	}
	return id[:8], id[8:], nil
}

// escapePowerShell escapes a value for use inside a single-quoted PowerShell
// string literal
func escapePowerShell(s string) string {
	s = strings.ReplaceAll(s, "'", "''")
	s = strings.ReplaceAll(s, "’", "’’")
	s = strings.ReplaceAll(s, "‘", "‘‘")
	s = strings.ReplaceAll(s, "\r", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	return s
}

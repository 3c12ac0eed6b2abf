// Package playlist builds a playlist from a parsed setlist, either live in a
// music application or as a portable file, and reports per-song outcomes.
package playlist

import (
	"context"
	"errors"
	"fmt"

	"github.com/jfmyers9/setlistify/internal/match"
	"github.com/jfmyers9/setlistify/internal/music"
	"github.com/jfmyers9/setlistify/internal/setlist"
)

// ErrSongNotFound is the reason recorded for a song that no search resolved.
var ErrSongNotFound = errors.New("song not found")

// Builder turns a setlist into a playlist.
type Builder interface {
	// Build creates the playlist and reports every song in setlist order.
	Build(ctx context.Context, sl *setlist.Setlist, name string) (*Report, error)
}

// Strategy identifies how a playlist was produced.
type Strategy int

const (
	StrategyAutomation Strategy = iota // Live playlist in a music application
	StrategyFile                       // Exported playlist file
)

// String returns a human-readable representation of the Strategy
func (s Strategy) String() string {
	switch s {
	case StrategyAutomation:
		return "automation"
	case StrategyFile:
		return "file export"
	default:
		return "unknown"
	}
}

// Target is where a playlist goes: a live automation handle or a file.
type Target struct {
	Automation music.Automation // Set for the automation strategy
	Path       string           // Output path for the file strategy; empty for the default
	Format     Format           // File format for the file strategy
}

// Strategy returns the strategy the target implies.
func (t Target) Strategy() Strategy {
	if t.Automation != nil {
		return StrategyAutomation
	}
	return StrategyFile
}

// Status is the outcome for one song.
type Status int

const (
	StatusMatched    Status = iota // Found and added to the playlist
	StatusNotMatched               // Skipped
	StatusExported                 // Written to a playlist file
)

// String returns a human-readable representation of the Status
func (s Status) String() string {
	switch s {
	case StatusMatched:
		return "matched"
	case StatusNotMatched:
		return "not matched"
	case StatusExported:
		return "exported"
	default:
		return "unknown"
	}
}

// Source names where a match came from.
type Source string

const (
	SourceLibrary Source = "library"
	SourceCatalog Source = "catalog"
)

// MatchResult is the outcome for one setlist entry.
type MatchResult struct {
	Song      setlist.SongEntry
	Status    Status
	TrackID   string        // Library persistent ID, when matched
	CatalogID string        // Catalog id, when the catalog step resolved the song
	Source    Source        // Where the match came from
	Quality   match.Quality // How closely the track matched
	Err       error         // Why the song was not matched
}

// Included reports whether the song made it into the playlist.
func (r MatchResult) Included() bool {
	return r.Status == StatusMatched || r.Status == StatusExported
}

// Reason returns a short explanation of the outcome.
func (r MatchResult) Reason() string {
	switch r.Status {
	case StatusMatched:
		if r.Source == SourceCatalog {
			return fmt.Sprintf("%s match via catalog", r.Quality)
		}
		return fmt.Sprintf("%s match", r.Quality)
	case StatusExported:
		return ""
	default:
		if r.Err != nil {
			return r.Err.Error()
		}
		return ErrSongNotFound.Error()
	}
}

// Report summarizes one build.
type Report struct {
	Strategy       Strategy
	Target         string // Application name or output path
	Playlist       string // Playlist name
	OutputPath     string // Written file, file strategy only
	Format         Format // File format, file strategy only
	FallbackReason string // Why automation was abandoned, if it was
	Results        []MatchResult
}

// Total returns the number of setlist entries processed.
func (r *Report) Total() int {
	return len(r.Results)
}

// Included returns the number of songs that made it into the playlist.
func (r *Report) Included() int {
	n := 0
	for _, res := range r.Results {
		if res.Included() {
			n++
		}
	}
	return n
}

// Missing returns the results that did not make it into the playlist, in
// setlist order.
func (r *Report) Missing() []MatchResult {
	var missing []MatchResult
	for _, res := range r.Results {
		if !res.Included() {
			missing = append(missing, res)
		}
	}
	return missing
}

// Entry is an (artist, title) pair as stored in playlist files.
type Entry struct {
	Title  string
	Artist string
}

// Entries returns the setlist's songs as entries, in order.
func Entries(sl *setlist.Setlist) []Entry {
	entries := make([]Entry, 0, len(sl.Songs))
	for _, song := range sl.Songs {
		entries = append(entries, Entry{Title: song.Name, Artist: song.Artist})
	}
	return entries
}

// Package setlist turns setlist.fm API responses into ordered song entries.
package setlist

import (
	"fmt"
	"strings"
	"time"
)

// eventDateLayout is setlist.fm's dd-MM-yyyy date format.
const eventDateLayout = "02-01-2006"

// Reference identifies a concert.
type Reference struct {
	ID         string    // setlist.fm setlist id
	Artist     string    // Headliner name
	ArtistMBID string    // MusicBrainz id of the headliner
	Venue      string    // Venue name
	City       string    // City name
	Country    string    // Country name
	Date       time.Time // Event date, zero if unparseable
	RawDate    string    // Event date as returned by setlist.fm
	Tour       string    // Tour name, if any
	URL        string    // setlist.fm page URL
}

// DisplayDate returns the event date as YYYY-MM-DD, falling back to the raw
// setlist.fm value when it could not be parsed.
func (r Reference) DisplayDate() string {
	if r.Date.IsZero() {
		return r.RawDate
	}
	return r.Date.Format("2006-01-02")
}

// SongEntry is one song of a setlist, in performance order.
type SongEntry struct {
	Position int    // 1-based position among kept entries
	Name     string // Song title
	Artist   string // Performing artist; the original artist for covers
	IsCover  bool   // Artist is the original artist, not the headliner
	Set      string // Set label, e.g. "Main Set" or "Encore 1"
	Tape     bool   // Played from tape
}

// String returns "Artist - Name".
func (s SongEntry) String() string {
	return fmt.Sprintf("%s - %s", s.Artist, s.Name)
}

// Setlist is a concert reference and its songs.
type Setlist struct {
	Reference Reference
	Songs     []SongEntry
}

// DefaultPlaylistName returns "{Artist} - {Venue} - {Date}".
func (s *Setlist) DefaultPlaylistName() string {
	venue := s.Reference.Venue
	if strings.TrimSpace(venue) == "" {
		venue = "Unknown Venue"
	}
	return fmt.Sprintf("%s - %s - %s", s.Reference.Artist, venue, s.Reference.RawDate)
}

// Covers returns the number of cover songs.
func (s *Setlist) Covers() int {
	n := 0
	for _, song := range s.Songs {
		if song.IsCover {
			n++
		}
	}
	return n
}

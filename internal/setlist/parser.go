package setlist

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jfmyers9/setlistify/pkg/setlistfm"
)

// ErrMalformedResponse is returned when the API response lacks the setlist
// structure. It matches setlistfm.ErrMalformedResponse under errors.Is.
var ErrMalformedResponse = &setlistfm.Error{
	Kind:    setlistfm.KindMalformedResponse,
	Message: "setlist response is missing required fields",
}

// ErrEmptySetlist reports a setlist with no usable songs. Parse itself
// accepts empty setlists; callers decide whether that is fatal.
var ErrEmptySetlist = errors.New("setlist contains no songs")

// ParseOptions tunes which entries are kept.
type ParseOptions struct {
	// SkipTape drops songs setlist.fm marks as played from tape (intros,
	// outros, walk-on music).
	SkipTape bool
}

// Parse builds a Setlist from a setlist.fm response.
//
// Songs keep source order across sets. A song with a cover attribution is
// credited to the original artist; every other song to the headliner.
// Entries with empty names are skipped.
func Parse(resp *setlistfm.Setlist, opts ParseOptions) (*Setlist, error) {
	if resp == nil {
		return nil, malformed("response is empty")
	}
	if resp.Artist == nil || collapseSpace(resp.Artist.Name) == "" {
		return nil, malformed("artist name is missing")
	}
	if resp.Sets == nil {
		return nil, malformed("sets are missing")
	}

	ref := Reference{
		ID:         resp.ID,
		Artist:     collapseSpace(resp.Artist.Name),
		ArtistMBID: resp.Artist.MBID,
		RawDate:    resp.EventDate,
		URL:        resp.URL,
	}
	if d, err := time.Parse(eventDateLayout, resp.EventDate); err == nil {
		ref.Date = d
	}
	if resp.Venue != nil {
		ref.Venue = collapseSpace(resp.Venue.Name)
		if resp.Venue.City != nil {
			ref.City = resp.Venue.City.Name
			if resp.Venue.City.Country != nil {
				ref.Country = resp.Venue.City.Country.Name
			}
		}
	}
	if resp.Tour != nil {
		ref.Tour = resp.Tour.Name
	}

	sl := &Setlist{Reference: ref}
	for _, set := range resp.Sets.Set {
		label := set.Name
		if label == "" && set.Encore > 0 {
			label = fmt.Sprintf("Encore %d", set.Encore)
		}
		if label == "" {
			label = "Main Set"
		}

		for _, song := range set.Song {
			name := collapseSpace(song.Name)
			if name == "" {
				continue
			}
			if opts.SkipTape && song.Tape {
				continue
			}

			entry := SongEntry{
				Position: len(sl.Songs) + 1,
				Name:     name,
				Artist:   ref.Artist,
				Set:      label,
				Tape:     song.Tape,
			}
			if song.Cover != nil {
				if original := collapseSpace(song.Cover.Name); original != "" {
					entry.Artist = original
					entry.IsCover = true
				}
			}
			sl.Songs = append(sl.Songs, entry)
		}
	}

	return sl, nil
}

// collapseSpace trims s and folds every internal whitespace run to a single
// space, so names survive line-oriented exports unchanged.
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func malformed(detail string) error {
	return fmt.Errorf("%s: %w", detail, ErrMalformedResponse)
}

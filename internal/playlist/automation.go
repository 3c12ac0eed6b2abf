package playlist

import (
	"context"
	"errors"
	"fmt"

	"github.com/jfmyers9/setlistify/internal/match"
	"github.com/jfmyers9/setlistify/internal/music"
	"github.com/jfmyers9/setlistify/internal/setlist"
	"github.com/jfmyers9/setlistify/pkg/itunes"
	"github.com/rs/zerolog"
)

// catalogResultLimit is how many catalog songs are considered per lookup
const catalogResultLimit = 10

// Catalog looks songs up in an online catalog.
type Catalog interface {
	SearchSongs(ctx context.Context, term string, limit int) ([]itunes.Song, error)
}

// AutomationBuilder builds a playlist inside a music application.
type AutomationBuilder struct {
	app     music.Automation
	catalog Catalog
	policy  match.Policy
	logger  zerolog.Logger
}

// NewAutomationBuilder creates a builder driving app. catalog may be nil, in
// which case only the local library is searched.
func NewAutomationBuilder(app music.Automation, catalog Catalog, policy match.Policy, logger zerolog.Logger) *AutomationBuilder {
	return &AutomationBuilder{
		app:     app,
		catalog: catalog,
		policy:  policy,
		logger:  logger.With().Str("component", "automation").Str("app", app.Name()).Logger(),
	}
}

// Build creates the playlist and adds every song it can resolve, in setlist
// order. A failure to create the playlist is returned wrapped in
// music.ErrAutomationUnavailable; per-song failures only appear in the report.
func (b *AutomationBuilder) Build(ctx context.Context, sl *setlist.Setlist, name string) (*Report, error) {
	if err := b.app.CreatePlaylist(ctx, name); err != nil {
		if !errors.Is(err, music.ErrAutomationUnavailable) {
			err = fmt.Errorf("%w: %v", music.ErrAutomationUnavailable, err)
		}
		return nil, err
	}
	b.logger.Info().Str("playlist", name).Msg("Playlist ready")

	report := &Report{
		Strategy: StrategyAutomation,
		Target:   b.app.Name(),
		Playlist: name,
		Results:  make([]MatchResult, 0, len(sl.Songs)),
	}

	for _, song := range sl.Songs {
		res, track := b.resolve(ctx, song)
		if res.Status == StatusMatched {
			if err := b.app.AddTrack(ctx, name, track); err != nil {
				res.Status = StatusNotMatched
				res.Err = err
			}
		}

		event := b.logger.Info()
		if res.Status != StatusMatched {
			event = b.logger.Warn()
		}
		event.
			Int("position", song.Position).
			Str("song", song.Name).
			Str("artist", song.Artist).
			Str("status", res.Status.String()).
			Str("reason", res.Reason()).
			Msg("Processed song")

		report.Results = append(report.Results, res)
	}

	return report, nil
}

// resolve runs the search sequence for one song: library, then catalog
// lookup followed by a library search under the catalog's canonical names.
// The first accepted candidate wins.
func (b *AutomationBuilder) resolve(ctx context.Context, song setlist.SongEntry) (MatchResult, music.Track) {
	res := MatchResult{Song: song, Status: StatusNotMatched}

	track, q, err := b.searchLibrary(ctx, song.Name, song.Artist)
	if err == nil && q > match.NoMatch {
		res.Status, res.TrackID, res.Source, res.Quality = StatusMatched, track.ID, SourceLibrary, q
		return res, track
	}
	lastErr := err

	if b.catalog != nil {
		songs, err := b.catalog.SearchSongs(ctx, song.Name+" "+song.Artist, catalogResultLimit)
		if err != nil {
			b.logger.Debug().Err(err).Str("song", song.Name).Msg("Catalog lookup failed")
			if lastErr == nil {
				lastErr = err
			}
		} else if i := match.Best(b.policy, song.Name, song.Artist, songs); i >= 0 {
			canonical := songs[i]
			res.CatalogID = canonical.ID()

			track, q, err := b.searchLibrary(ctx, canonical.TrackName, canonical.ArtistName)
			if err == nil && q > match.NoMatch {
				res.Status, res.TrackID, res.Source, res.Quality = StatusMatched, track.ID, SourceCatalog, q
				return res, track
			}
			if err != nil {
				lastErr = err
			} else {
				lastErr = fmt.Errorf("%w in library (catalog has %q by %s, id %s)",
					ErrSongNotFound, canonical.TrackName, canonical.ArtistName, res.CatalogID)
			}
		}
	}

	if lastErr == nil {
		lastErr = ErrSongNotFound
	}
	res.Err = lastErr
	return res, music.Track{}
}

// searchLibrary searches the library and picks the best accepted candidate.
func (b *AutomationBuilder) searchLibrary(ctx context.Context, title, artist string) (music.Track, match.Quality, error) {
	tracks, err := b.app.SearchTrack(ctx, title, artist)
	if err != nil {
		return music.Track{}, match.NoMatch, err
	}
	i := match.Best(b.policy, title, artist, tracks)
	if i < 0 {
		return music.Track{}, match.NoMatch, nil
	}
	return tracks[i], b.policy.Compare(title, artist, tracks[i].Name, tracks[i].Artist), nil
}

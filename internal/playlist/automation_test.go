package playlist

import (
	"context"
	"errors"
	"testing"

	"github.com/jfmyers9/setlistify/internal/match"
	"github.com/jfmyers9/setlistify/internal/music"
	"github.com/jfmyers9/setlistify/internal/setlist"
	"github.com/jfmyers9/setlistify/pkg/itunes"
	"github.com/rs/zerolog"
)

// fakeApp is an in-memory music.Automation keyed by search query
type fakeApp struct {
	library     map[string][]music.Track
	searchErr   map[string]error
	addErr      map[string]error
	createErr   error
	playlists   map[string][]music.Track
	searches    []string
	createCalls int
}

func newFakeApp() *fakeApp {
	return &fakeApp{
		library:   map[string][]music.Track{},
		searchErr: map[string]error{},
		addErr:    map[string]error{},
		playlists: map[string][]music.Track{},
	}
}

func (f *fakeApp) Name() string                    { return "Fake Music" }
func (f *fakeApp) Probe(ctx context.Context) error { return nil }

func (f *fakeApp) CreatePlaylist(ctx context.Context, name string) error {
	f.createCalls++
	if f.createErr != nil {
		return f.createErr
	}
	if _, ok := f.playlists[name]; !ok {
		f.playlists[name] = nil
	}
	return nil
}

func (f *fakeApp) SearchTrack(ctx context.Context, title, artist string) ([]music.Track, error) {
	f.searches = append(f.searches, title)
	if err := f.searchErr[title]; err != nil {
		return nil, err
	}
	return f.library[title], nil
}

func (f *fakeApp) AddTrack(ctx context.Context, playlist string, track music.Track) error {
	if err := f.addErr[track.ID]; err != nil {
		return err
	}
	f.playlists[playlist] = append(f.playlists[playlist], track)
	return nil
}

// fakeCatalog returns canned catalog results keyed by search term
type fakeCatalog struct {
	results map[string][]itunes.Song
	err     error
	terms   []string
}

func (f *fakeCatalog) SearchSongs(ctx context.Context, term string, limit int) ([]itunes.Song, error) {
	f.terms = append(f.terms, term)
	if f.err != nil {
		return nil, f.err
	}
	return f.results[term], nil
}

func exampleSetlist() *setlist.Setlist {
	return &setlist.Setlist{
		Reference: setlist.Reference{Artist: "Taylor Swift", Venue: "State Farm Stadium", RawDate: "17-03-2023"},
		Songs: []setlist.SongEntry{
			{Position: 1, Name: "Love Story", Artist: "Taylor Swift"},
			{Position: 2, Name: "22", Artist: "Taylor Swift"},
			{Position: 3, Name: "Blank Space", Artist: "X", IsCover: true},
		},
	}
}

func TestAutomationBuilder_AllMatched(t *testing.T) {
	app := newFakeApp()
	app.library["Love Story"] = []music.Track{
		{ID: "A1", Name: "Love Story (Live)", Artist: "Taylor Swift & Friends"},
		{ID: "A2", Name: "Love Story", Artist: "Taylor Swift"},
	}
	app.library["22"] = []music.Track{{ID: "B1", Name: "22", Artist: "Taylor Swift"}}
	app.library["Blank Space"] = []music.Track{
		{ID: "C1", Name: "Blank Space", Artist: "Taylor Swift"},
		{ID: "C2", Name: "Blank Space", Artist: "X"},
	}

	b := NewAutomationBuilder(app, nil, match.DefaultPolicy(), zerolog.Nop())
	report, err := b.Build(context.Background(), exampleSetlist(), "Eras")
	if err != nil {
		t.Fatalf("Build() unexpected error: %v", err)
	}

	got := app.playlists["Eras"]
	wantIDs := []string{"A2", "B1", "C2"}
	if len(got) != len(wantIDs) {
		t.Fatalf("playlist has %d tracks, want %d", len(got), len(wantIDs))
	}
	for i, id := range wantIDs {
		if got[i].ID != id {
			t.Errorf("track %d = %s, want %s", i, got[i].ID, id)
		}
	}

	if report.Strategy != StrategyAutomation || report.Target != "Fake Music" || report.Playlist != "Eras" {
		t.Errorf("unexpected report header: %+v", report)
	}
	if report.Included() != 3 || len(report.Missing()) != 0 {
		t.Errorf("Included() = %d, Missing() = %d", report.Included(), len(report.Missing()))
	}
	if report.Results[2].Song.Artist != "X" || report.Results[2].Source != SourceLibrary {
		t.Errorf("unexpected cover result: %+v", report.Results[2])
	}
	if report.Results[0].Quality != match.Exact {
		t.Errorf("expected exact match for Love Story, got %v", report.Results[0].Quality)
	}
}

func TestAutomationBuilder_MissingSongsKeepOrder(t *testing.T) {
	app := newFakeApp()
	app.library["Love Story"] = []music.Track{{ID: "A", Name: "Love Story", Artist: "Taylor Swift"}}
	app.library["Blank Space"] = []music.Track{{ID: "C", Name: "Blank Space", Artist: "X"}}
	app.searchErr["22"] = errors.New("osascript error: timeout")

	b := NewAutomationBuilder(app, nil, match.DefaultPolicy(), zerolog.Nop())
	report, err := b.Build(context.Background(), exampleSetlist(), "Eras")
	if err != nil {
		t.Fatalf("Build() unexpected error: %v", err)
	}

	got := app.playlists["Eras"]
	if len(got) != 2 || got[0].ID != "A" || got[1].ID != "C" {
		t.Fatalf("unexpected playlist: %+v", got)
	}

	if len(report.Results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(report.Results))
	}
	missing := report.Missing()
	if len(missing) != 1 || missing[0].Song.Name != "22" {
		t.Fatalf("unexpected missing: %+v", missing)
	}
	if missing[0].Reason() != "osascript error: timeout" {
		t.Errorf("Reason() = %q", missing[0].Reason())
	}
}

func TestAutomationBuilder_NotFound(t *testing.T) {
	app := newFakeApp()
	app.library["Love Story"] = []music.Track{{ID: "A", Name: "Love Story", Artist: "Someone Else"}}

	b := NewAutomationBuilder(app, nil, match.DefaultPolicy(), zerolog.Nop())
	report, err := b.Build(context.Background(), exampleSetlist(), "Eras")
	if err != nil {
		t.Fatalf("Build() unexpected error: %v", err)
	}
	if report.Included() != 0 {
		t.Errorf("Included() = %d, want 0", report.Included())
	}
	for _, res := range report.Results {
		if !errors.Is(res.Err, ErrSongNotFound) {
			t.Errorf("%s: expected ErrSongNotFound, got %v", res.Song.Name, res.Err)
		}
	}
}

func TestAutomationBuilder_CatalogFallback(t *testing.T) {
	app := newFakeApp()
	app.library["Love Story"] = []music.Track{{ID: "A", Name: "Love Story", Artist: "Taylor Swift"}}

	catalog := &fakeCatalog{results: map[string][]itunes.Song{
		"22 Taylor Swift": {
			{TrackID: 7, TrackName: "22 (Taylor's Version)", ArtistName: "Taylor Swift"},
		},
		"Blank Space X": {
			{TrackID: 9, TrackName: "Blank Space", ArtistName: "X"},
		},
	}}
	// The library knows "22" only under its catalog title.
	app.library["22 (Taylor's Version)"] = []music.Track{{ID: "B2", Name: "22 (Taylor's Version)", Artist: "Taylor Swift"}}

	b := NewAutomationBuilder(app, catalog, match.DefaultPolicy(), zerolog.Nop())
	report, err := b.Build(context.Background(), exampleSetlist(), "Eras")
	if err != nil {
		t.Fatalf("Build() unexpected error: %v", err)
	}

	if len(catalog.terms) != 2 {
		t.Errorf("expected catalog lookups only for library misses, got %v", catalog.terms)
	}

	twentyTwo := report.Results[1]
	if twentyTwo.Status != StatusMatched || twentyTwo.Source != SourceCatalog || twentyTwo.CatalogID != "7" || twentyTwo.TrackID != "B2" {
		t.Errorf("unexpected catalog result: %+v", twentyTwo)
	}

	blank := report.Results[2]
	if blank.Status != StatusNotMatched || blank.CatalogID != "9" {
		t.Errorf("unexpected result for catalog-only song: %+v", blank)
	}
	if !errors.Is(blank.Err, ErrSongNotFound) {
		t.Errorf("expected ErrSongNotFound, got %v", blank.Err)
	}

	got := app.playlists["Eras"]
	if len(got) != 2 || got[0].ID != "A" || got[1].ID != "B2" {
		t.Errorf("unexpected playlist: %+v", got)
	}
}

func TestAutomationBuilder_CatalogErrorIsRecorded(t *testing.T) {
	app := newFakeApp()
	catalog := &fakeCatalog{err: errors.New("itunes: unexpected status code 403")}

	b := NewAutomationBuilder(app, catalog, match.DefaultPolicy(), zerolog.Nop())
	report, err := b.Build(context.Background(), exampleSetlist(), "Eras")
	if err != nil {
		t.Fatalf("Build() unexpected error: %v", err)
	}
	if report.Results[0].Reason() != "itunes: unexpected status code 403" {
		t.Errorf("Reason() = %q", report.Results[0].Reason())
	}
}

func TestAutomationBuilder_AddFailure(t *testing.T) {
	app := newFakeApp()
	app.library["Love Story"] = []music.Track{{ID: "A", Name: "Love Story", Artist: "Taylor Swift"}}
	app.library["22"] = []music.Track{{ID: "B", Name: "22", Artist: "Taylor Swift"}}
	app.addErr["A"] = errors.New("track is not in cloud library")

	b := NewAutomationBuilder(app, nil, match.DefaultPolicy(), zerolog.Nop())
	report, err := b.Build(context.Background(), exampleSetlist(), "Eras")
	if err != nil {
		t.Fatalf("Build() unexpected error: %v", err)
	}
	if report.Results[0].Status != StatusNotMatched {
		t.Errorf("expected add failure to be recorded as not matched, got %v", report.Results[0].Status)
	}
	if report.Results[1].Status != StatusMatched {
		t.Errorf("expected later songs to continue, got %v", report.Results[1].Status)
	}
}

func TestAutomationBuilder_CreateFailure(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{name: "plain error", err: errors.New("connection is invalid")},
		{name: "already unavailable", err: music.ErrAutomationUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newFakeApp()
			app.createErr = tt.err

			b := NewAutomationBuilder(app, nil, match.DefaultPolicy(), zerolog.Nop())
			_, err := b.Build(context.Background(), exampleSetlist(), "Eras")
			if !errors.Is(err, music.ErrAutomationUnavailable) {
				t.Fatalf("expected ErrAutomationUnavailable, got %v", err)
			}
			if len(app.searches) != 0 {
				t.Error("expected no searches after create failure")
			}
		})
	}
}

func TestMatchResult_Reason(t *testing.T) {
	tests := []struct {
		name string
		res  MatchResult
		want string
	}{
		{name: "library", res: MatchResult{Status: StatusMatched, Quality: match.Exact, Source: SourceLibrary}, want: "exact match"},
		{name: "catalog", res: MatchResult{Status: StatusMatched, Quality: match.Partial, Source: SourceCatalog}, want: "partial match via catalog"},
		{name: "exported", res: MatchResult{Status: StatusExported}, want: ""},
		{name: "no error", res: MatchResult{Status: StatusNotMatched}, want: "song not found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.res.Reason(); got != tt.want {
				t.Errorf("Reason() = %q, want %q", got, tt.want)
			}
		})
	}
}

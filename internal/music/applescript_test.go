package music

import (
	"context"
	"errors"
	"runtime"
	"strings"
	"testing"
	"time"
)

// fakeRunner records scripts and replays canned output. When respond is set
// it picks the output for each script instead.
type fakeRunner struct {
	scripts []string
	names   []string
	output  string
	err     error
	respond func(script string) (string, error)
}

func (f *fakeRunner) run(ctx context.Context, name string, args ...string) ([]byte, error) {
	script := args[len(args)-1]
	f.names = append(f.names, name)
	f.scripts = append(f.scripts, script)
	if f.respond != nil {
		out, err := f.respond(script)
		if err != nil {
			return nil, err
		}
		return []byte(out), nil
	}
	if f.err != nil {
		return nil, f.err
	}
	return []byte(f.output), nil
}

func found(string) (string, error) { return "/usr/bin/interpreter", nil }

func missing(name string) (string, error) {
	return "", errors.New("exec: \"" + name + "\": executable file not found in $PATH")
}

// TestAppleScriptClient_Integration tests the AppleScript client against the real Music app
// This is an integration test and requires Apple Music to be installed
func TestAppleScriptClient_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	if runtime.GOOS != "darwin" {
		t.Skip("Skipping AppleScript integration test on " + runtime.GOOS)
	}

	client := NewAppleScriptClient(Options{})
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := client.Probe(ctx); err != nil {
		t.Skipf("Music not scriptable: %v", err)
	}

	tracks, err := client.SearchTrack(ctx, "a", "")
	if err != nil {
		t.Fatalf("SearchTrack() failed: %v", err)
	}
	if len(tracks) > maxSearchResults {
		t.Errorf("got %d tracks, want at most %d", len(tracks), maxSearchResults)
	}
	for _, track := range tracks {
		if track.ID == "" {
			t.Errorf("track without persistent ID: %+v", track)
		}
	}
	t.Logf("Library search returned %d tracks", len(tracks))
}

// TestParseTrackLines tests the parsing logic with various inputs
func TestParseTrackLines(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []Track
		wantErr bool
	}{
		{
			name:  "single track",
			input: "4F1B7C2A9D3E5F60|||Bohemian Rhapsody|||Queen|||A Night at the Opera",
			want: []Track{
				{ID: "4F1B7C2A9D3E5F60", Name: "Bohemian Rhapsody", Artist: "Queen", Album: "A Night at the Opera"},
			},
		},
		{
			name: "multiple tracks with crlf and blank lines",
			input: "0000000000000001|||Love Story|||Taylor Swift|||Fearless\r\n\r\n" +
				"0000000000000002|||Love Story (Taylor's Version)|||Taylor Swift|||Fearless (Taylor's Version)\r\n",
			want: []Track{
				{ID: "0000000000000001", Name: "Love Story", Artist: "Taylor Swift", Album: "Fearless"},
				{ID: "0000000000000002", Name: "Love Story (Taylor's Version)", Artist: "Taylor Swift", Album: "Fearless (Taylor's Version)"},
			},
		},
		{
			name:  "empty album",
			input: "ABCDEF0123456789|||Test Track|||Test Artist|||",
			want: []Track{
				{ID: "ABCDEF0123456789", Name: "Test Track", Artist: "Test Artist"},
			},
		},
		{
			name:  "no results",
			input: "",
			want:  nil,
		},
		{
			name:    "invalid - wrong number of parts",
			input:   "ID|||Track|||Artist",
			wantErr: true,
		},
		{
			name:    "invalid - missing id",
			input:   "|||Track|||Artist|||Album",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseTrackLines(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Error("parseTrackLines() expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("parseTrackLines() unexpected error: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %d tracks, want %d", len(got), len(tt.want))
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("track %d = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestEscapeAppleScript(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`Plain`, `Plain`},
		{`Say "Hello"`, `Say \"Hello\"`},
		{`Back\slash`, `Back\\slash`},
		{"Two\nLines", "Two Lines"},
	}
	for _, tt := range tests {
		if got := escapeAppleScript(tt.input); got != tt.want {
			t.Errorf("escapeAppleScript(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestAppleScriptClient_Probe(t *testing.T) {
	t.Run("osascript missing", func(t *testing.T) {
		fake := &fakeRunner{}
		client := NewAppleScriptClient(Options{Runner: fake.run})
		client.lookPath = missing

		err := client.Probe(context.Background())
		if !errors.Is(err, ErrAutomationUnavailable) {
			t.Fatalf("expected ErrAutomationUnavailable, got %v", err)
		}
		if len(fake.scripts) != 0 {
			t.Error("expected no script to run")
		}
	})

	t.Run("permission denied", func(t *testing.T) {
		fake := &fakeRunner{err: errors.New("osascript error: Not authorized to send Apple events to Music. (-1743)")}
		client := NewAppleScriptClient(Options{Runner: fake.run})
		client.lookPath = found

		err := client.Probe(context.Background())
		if !errors.Is(err, ErrAutomationUnavailable) {
			t.Fatalf("expected ErrAutomationUnavailable, got %v", err)
		}
		if !strings.Contains(err.Error(), "-1743") {
			t.Errorf("expected cause in message, got %q", err.Error())
		}
	})

	t.Run("available", func(t *testing.T) {
		fake := &fakeRunner{output: "1.4.5\n"}
		client := NewAppleScriptClient(Options{Runner: fake.run})
		client.lookPath = found

		if err := client.Probe(context.Background()); err != nil {
			t.Fatalf("Probe() unexpected error: %v", err)
		}
		if fake.names[0] != "osascript" {
			t.Errorf("interpreter = %q, want osascript", fake.names[0])
		}
	})
}

func TestAppleScriptClient_Scripts(t *testing.T) {
	fake := &fakeRunner{output: "0000000000000001|||Blank Space|||X|||Album\n"}
	client := NewAppleScriptClient(Options{Runner: fake.run, Timeout: time.Second})
	ctx := context.Background()

	if err := client.CreatePlaylist(ctx, `Swift "Eras" Tour`); err != nil {
		t.Fatalf("CreatePlaylist() unexpected error: %v", err)
	}
	if !strings.Contains(fake.scripts[0], `user playlist "Swift \"Eras\" Tour"`) {
		t.Errorf("playlist name not escaped in script:\n%s", fake.scripts[0])
	}

	tracks, err := client.SearchTrack(ctx, "Blank Space", "X")
	if err != nil {
		t.Fatalf("SearchTrack() unexpected error: %v", err)
	}
	if len(tracks) != 1 || tracks[0].Artist != "X" {
		t.Fatalf("unexpected tracks: %+v", tracks)
	}
	if !strings.Contains(fake.scripts[1], `for "Blank Space X" only all`) {
		t.Errorf("unexpected search script:\n%s", fake.scripts[1])
	}

	if err := client.AddTrack(ctx, "Eras", tracks[0]); err != nil {
		t.Fatalf("AddTrack() unexpected error: %v", err)
	}
	if !strings.Contains(fake.scripts[2], `persistent ID is "0000000000000001"`) ||
		!strings.Contains(fake.scripts[2], `user playlist "Eras"`) {
		t.Errorf("unexpected add script:\n%s", fake.scripts[2])
	}
}

func TestAppleScriptClient_CreatePlaylistFailure(t *testing.T) {
	fake := &fakeRunner{err: errors.New("osascript error: Music got an error: Connection is invalid. (-609)")}
	client := NewAppleScriptClient(Options{Runner: fake.run})

	err := client.CreatePlaylist(context.Background(), "Eras")
	if !errors.Is(err, ErrAutomationUnavailable) {
		t.Fatalf("expected ErrAutomationUnavailable, got %v", err)
	}
	if !strings.Contains(err.Error(), `"Eras"`) {
		t.Errorf("expected playlist name in error, got %q", err.Error())
	}

	_, err = client.SearchTrack(context.Background(), "Style", "Taylor Swift")
	if err == nil || !strings.Contains(err.Error(), `"Style"`) {
		t.Errorf("expected search error naming the song, got %v", err)
	}
	if errors.Is(err, ErrAutomationUnavailable) {
		t.Error("search failures should not be reported as unavailable")
	}
}

func TestSearchTrack_QueryOrder(t *testing.T) {
	const hit = "0000000000000001|||Home|||Headliner|||Album\n"

	clients := []struct {
		name      string
		newClient func(Runner) Automation
		combined  string
		titleOnly string
	}{
		{
			name:      "applescript",
			newClient: func(r Runner) Automation { return NewAppleScriptClient(Options{Runner: r}) },
			combined:  `for "Home Headliner" only all`,
			titleOnly: `for "Home" only songs`,
		},
		{
			name:      "itunes com",
			newClient: func(r Runner) Automation { return NewITunesCOMClient(Options{Runner: r}) },
			combined:  "Search('Home Headliner', 0)",
			titleOnly: "Search('Home', 5)",
		},
	}

	tests := []struct {
		name        string
		artist      string
		combinedHit bool
		titleHit    bool
		wantQueries []string // "combined" or "title"
		wantTracks  int
	}{
		{
			name:        "combined query hits",
			artist:      "Headliner",
			combinedHit: true,
			titleHit:    true,
			wantQueries: []string{"combined"},
			wantTracks:  1,
		},
		{
			name:        "falls back to title",
			artist:      "Headliner",
			titleHit:    true,
			wantQueries: []string{"combined", "title"},
			wantTracks:  1,
		},
		{
			name:        "nothing found",
			artist:      "Headliner",
			wantQueries: []string{"combined", "title"},
		},
		{
			name:        "no artist searches title only",
			titleHit:    true,
			wantQueries: []string{"title"},
			wantTracks:  1,
		},
	}

	for _, c := range clients {
		for _, tt := range tests {
			t.Run(c.name+"/"+tt.name, func(t *testing.T) {
				combined, titleOnly := c.combined, c.titleOnly
				if tt.artist == "" {
					combined = ""
				}
				fake := &fakeRunner{respond: func(script string) (string, error) {
					switch {
					case combined != "" && strings.Contains(script, combined):
						if tt.combinedHit {
							return hit, nil
						}
					case strings.Contains(script, titleOnly):
						if tt.titleHit {
							return hit, nil
						}
					default:
						t.Errorf("unexpected script:\n%s", script)
					}
					return "", nil
				}}

				tracks, err := c.newClient(fake.run).SearchTrack(context.Background(), "Home", tt.artist)
				if err != nil {
					t.Fatalf("SearchTrack() unexpected error: %v", err)
				}
				if len(tracks) != tt.wantTracks {
					t.Errorf("got %d tracks, want %d", len(tracks), tt.wantTracks)
				}

				if len(fake.scripts) != len(tt.wantQueries) {
					t.Fatalf("ran %d searches, want %d", len(fake.scripts), len(tt.wantQueries))
				}
				for i, kind := range tt.wantQueries {
					want := titleOnly
					if kind == "combined" {
						want = c.combined
					}
					if !strings.Contains(fake.scripts[i], want) {
						t.Errorf("search %d missing %q:\n%s", i, want, fake.scripts[i])
					}
				}
			})
		}
	}
}

func TestSearchTrack_ErrorStopsFallback(t *testing.T) {
	fake := &fakeRunner{err: errors.New("osascript error: Music got an error (-1728)")}
	client := NewAppleScriptClient(Options{Runner: fake.run})

	if _, err := client.SearchTrack(context.Background(), "Home", "Headliner"); err == nil {
		t.Fatal("expected error")
	}
	if len(fake.scripts) != 1 {
		t.Errorf("ran %d searches after a failure, want 1", len(fake.scripts))
	}
}

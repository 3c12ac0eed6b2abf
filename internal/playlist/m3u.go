package playlist

import (
	"bufio"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/jfmyers9/setlistify/internal/setlist"
)

// searchURLBase is the entry location written for each song. Opening it in
// a browser or Music searches the Apple Music catalog for the song.
const searchURLBase = "https://music.apple.com/search?term="

// WriteM3U writes an extended M3U playlist:
//
//	#EXTM3U
//	#PLAYLIST:Taylor Swift - State Farm Stadium - 17-03-2023
//	#EXTART:Taylor Swift
//	#EXTINF:-1,Taylor Swift - Love Story
//	https://music.apple.com/search?term=Love+Story+Taylor+Swift
//
// There are no local files to point at, so durations are unknown (-1) and
// the location is a catalog search link.
func WriteM3U(w io.Writer, name string, sl *setlist.Setlist) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, "#EXTM3U")
	if name != "" {
		fmt.Fprintf(bw, "#PLAYLIST:%s\n", oneLine(name))
	}
	for _, song := range sl.Songs {
		artist, title := oneLine(song.Artist), oneLine(song.Name)
		fmt.Fprintf(bw, "#EXTART:%s\n", artist)
		fmt.Fprintf(bw, "#EXTINF:-1,%s - %s\n", artist, title)
		fmt.Fprintln(bw, searchURLBase+url.QueryEscape(title+" "+artist))
	}

	return bw.Flush()
}

// ReadM3U reads an extended M3U playlist and returns its name and entries.
//
// The artist comes from #EXTART when present; otherwise the #EXTINF display
// title is split on the first " - ". Entries without #EXTINF use the
// location itself as the title.
func ReadM3U(r io.Reader) (string, []Entry, error) {
	var (
		name    string
		entries []Entry
		artist  string
		display string
		haveInf bool
	)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(strings.TrimPrefix(scanner.Text(), "\ufeff"))
		switch {
		case line == "":
			continue
		case strings.HasPrefix(line, "#PLAYLIST:"):
			name = strings.TrimPrefix(line, "#PLAYLIST:")
		case strings.HasPrefix(line, "#EXTART:"):
			artist = strings.TrimPrefix(line, "#EXTART:")
		case strings.HasPrefix(line, "#EXTINF:"):
			info := strings.TrimPrefix(line, "#EXTINF:")
			if i := strings.Index(info, ","); i >= 0 {
				display = info[i+1:]
			} else {
				display = ""
			}
			haveInf = true
		case strings.HasPrefix(line, "#"):
			continue
		default:
			entries = append(entries, entryFromM3U(artist, display, haveInf, line))
			artist, display, haveInf = "", "", false
		}
	}
	if err := scanner.Err(); err != nil {
		return "", nil, fmt.Errorf("failed to read M3U: %w", err)
	}

	return name, entries, nil
}

func entryFromM3U(artist, display string, haveInf bool, location string) Entry {
	if !haveInf || display == "" {
		return Entry{Title: location, Artist: artist}
	}
	if artist != "" {
		return Entry{Title: strings.TrimPrefix(display, artist+" - "), Artist: artist}
	}
	if a, t, ok := strings.Cut(display, " - "); ok {
		return Entry{Title: t, Artist: a}
	}
	return Entry{Title: display}
}

// oneLine keeps a value from breaking the line-oriented format.
func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

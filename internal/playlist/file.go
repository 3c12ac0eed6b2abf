package playlist

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/jfmyers9/setlistify/internal/setlist"
	"github.com/rs/zerolog"
)

// Format represents a supported playlist file format.
type Format int

const (
	// FormatM3U writes extended M3U with #EXTART/#EXTINF lines and an Apple
	// Music search link per entry.
	FormatM3U Format = iota

	// FormatCSV writes one row per song: Position, Title, Artist, Cover, Set.
	FormatCSV
)

// String returns the format name
func (f Format) String() string {
	switch f {
	case FormatM3U:
		return "m3u"
	case FormatCSV:
		return "csv"
	default:
		return "unknown"
	}
}

// Extension returns the file extension, including the dot.
func (f Format) Extension() string {
	switch f {
	case FormatCSV:
		return ".csv"
	default:
		return ".m3u"
	}
}

// ParseFormat parses a format name. The empty string means M3U.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")) {
	case "", "m3u", "m3u8":
		return FormatM3U, nil
	case "csv":
		return FormatCSV, nil
	default:
		return FormatM3U, fmt.Errorf("unknown playlist format %q (want m3u or csv)", s)
	}
}

// FormatForPath infers the format from a file extension, falling back to
// fallback when the extension is not recognized.
func FormatForPath(path string, fallback Format) Format {
	ext := filepath.Ext(path)
	if ext == "" {
		return fallback
	}
	f, err := ParseFormat(ext)
	if err != nil {
		return fallback
	}
	return f
}

// FileBuilder writes a playlist file.
type FileBuilder struct {
	path   string
	dir    string
	format Format
	logger zerolog.Logger
}

// NewFileBuilder creates a builder writing to path. An empty path means
// "<sanitized playlist name><ext>" inside dir (the working directory when dir
// is empty).
func NewFileBuilder(path, dir string, format Format, logger zerolog.Logger) *FileBuilder {
	return &FileBuilder{
		path:   path,
		dir:    dir,
		format: format,
		logger: logger.With().Str("component", "export").Logger(),
	}
}

// Build writes every song to the playlist file, replacing any existing file.
func (b *FileBuilder) Build(ctx context.Context, sl *setlist.Setlist, name string) (*Report, error) {
	path := b.path
	if path == "" {
		path = DefaultPath(b.dir, name, b.format)
	}

	var buf bytes.Buffer
	if err := Encode(&buf, b.format, name, sl); err != nil {
		return nil, fmt.Errorf("failed to encode playlist: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create output directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return nil, fmt.Errorf("failed to write playlist file %s: %w", path, err)
	}

	b.logger.Info().
		Str("path", path).
		Str("format", b.format.String()).
		Int("songs", len(sl.Songs)).
		Msg("Wrote playlist file")

	report := &Report{
		Strategy:   StrategyFile,
		Target:     path,
		Playlist:   name,
		OutputPath: path,
		Format:     b.format,
		Results:    make([]MatchResult, 0, len(sl.Songs)),
	}
	for _, song := range sl.Songs {
		report.Results = append(report.Results, MatchResult{Song: song, Status: StatusExported})
	}
	return report, nil
}

// Encode writes the setlist in the given format.
func Encode(w io.Writer, format Format, name string, sl *setlist.Setlist) error {
	switch format {
	case FormatCSV:
		return WriteCSV(w, sl)
	default:
		return WriteM3U(w, name, sl)
	}
}

// Decode reads (artist, title) entries back from a playlist file.
func Decode(r io.Reader, format Format) ([]Entry, error) {
	switch format {
	case FormatCSV:
		return ReadCSV(r)
	default:
		_, entries, err := ReadM3U(r)
		return entries, err
	}
}

// DefaultPath returns the file path used when no output is given.
func DefaultPath(dir, name string, format Format) string {
	base := SanitizeFileName(name)
	if base == "" {
		base = "setlist"
	}
	return filepath.Join(dir, base+format.Extension())
}

// SanitizeFileName turns a playlist name into a file name valid on macOS and
// Windows. Separator-like characters become dashes and the rest of the
// reserved set is dropped. Leading and trailing dots are removed so the file
// is neither hidden nor mistaken for an extension.
func SanitizeFileName(name string) string {
	name = strings.Map(func(r rune) rune {
		switch {
		case strings.ContainsRune(`/\:*`, r):
			return '-'
		case strings.ContainsRune(`?"<>|`, r):
			return -1
		case unicode.IsSpace(r):
			return ' '
		case unicode.IsControl(r):
			return -1
		}
		return r
	}, name)
	return strings.Trim(strings.Join(strings.Fields(name), " "), ". ")
}

package playlist

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jfmyers9/setlistify/internal/setlist"
)

var csvHeader = []string{"Position", "Title", "Artist", "Cover", "Set"}

// WriteCSV writes one row per song with columns: Position, Title, Artist,
// Cover, Set
func WriteCSV(w io.Writer, sl *setlist.Setlist) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, song := range sl.Songs {
		record := []string{
			strconv.Itoa(song.Position),
			song.Name,
			song.Artist,
			strconv.FormatBool(song.IsCover),
			song.Set,
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("CSV writer error: %w", err)
	}
	return nil
}

// ReadCSV reads entries written by WriteCSV. Columns are located by header
// name, so files re-saved by spreadsheets with reordered columns still load.
func ReadCSV(r io.Reader) ([]Entry, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	titleCol, artistCol := -1, -1
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))) {
		case "title":
			titleCol = i
		case "artist":
			artistCol = i
		}
	}
	if titleCol < 0 || artistCol < 0 {
		return nil, fmt.Errorf("CSV header must contain Title and Artist columns, got %v", header)
	}

	var entries []Entry
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV record: %w", err)
		}
		if titleCol >= len(record) || artistCol >= len(record) {
			return nil, fmt.Errorf("CSV record has %d fields: %v", len(record), record)
		}
		entries = append(entries, Entry{Title: record[titleCol], Artist: record[artistCol]})
	}
	return entries, nil
}

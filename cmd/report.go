package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/jfmyers9/setlistify/internal/playlist"
	"github.com/mattn/go-runewidth"
)

// Column widths for the report table, in display columns
const (
	titleWidth  = 40
	artistWidth = 28
	resultWidth = 48
)

// renderReport formats the outcome of a run for the terminal
func renderReport(report *playlist.Report, colorize bool) string {
	var b strings.Builder

	if report.FallbackReason != "" {
		fmt.Fprintf(&b, "Automation unavailable, exported a file instead: %s\n", report.FallbackReason)
	}

	switch report.Strategy {
	case playlist.StrategyAutomation:
		fmt.Fprintf(&b, "Playlist %q in %s: %d of %d songs added\n",
			report.Playlist, report.Target, report.Included(), report.Total())
	default:
		fmt.Fprintf(&b, "Playlist %q written to %s (%s, %d songs)\n",
			report.Playlist, report.OutputPath, report.Format, report.Total())
	}

	b.WriteString(renderResults(report.Results, colorize))
	b.WriteString("\n")

	if missing := report.Missing(); len(missing) > 0 {
		fmt.Fprintf(&b, "\nNot found (%d):\n", len(missing))
		for _, res := range missing {
			fmt.Fprintf(&b, "  %d. %s: %s\n", res.Song.Position, res.Song, res.Reason())
		}
	}

	return b.String()
}

// renderResults renders one row per setlist entry
func renderResults(results []playlist.MatchResult, colorize bool) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"#", "Title", "Artist", "Set", "Result"})

	for _, res := range results {
		artist := res.Song.Artist
		if res.Song.IsCover {
			artist += " (cover)"
		}
		tw.AppendRow(table.Row{
			strconv.Itoa(res.Song.Position),
			fitToWidth(res.Song.Name, titleWidth),
			fitToWidth(artist, artistWidth),
			res.Song.Set,
			resultCell(res, colorize),
		})
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})
	return tw.Render()
}

func resultCell(res playlist.MatchResult, colorize bool) string {
	var cell string
	var color text.Colors
	switch res.Status {
	case playlist.StatusMatched:
		cell = res.Reason()
		color = text.Colors{text.FgGreen}
	case playlist.StatusExported:
		cell = res.Status.String()
		color = text.Colors{text.FgBlue}
	default:
		cell = res.Status.String() + ": " + res.Reason()
		color = text.Colors{text.FgRed}
	}

	cell = fitToWidth(cell, resultWidth)
	if colorize {
		return color.Sprint(cell)
	}
	return cell
}

// fitToWidth truncates text to at most width display columns, ending with
// "..." when cut. Width counts columns, so wide runes take two.
func fitToWidth(s string, width int) string {
	if width <= 0 || runewidth.StringWidth(s) <= width {
		return s
	}

	ellipsis := "..."
	ellipsisWidth := runewidth.StringWidth(ellipsis)
	if width <= ellipsisWidth {
		return runewidth.Truncate(ellipsis, width, "")
	}
	return runewidth.Truncate(s, width-ellipsisWidth, "") + ellipsis
}

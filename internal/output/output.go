// Package output renders the five operations' results (spec §6) to JSON and
// to a terminal with automatic color encoding (green/yellow/red) based on
// score thresholds, following the same shape the teacher's report package
// uses for its composite-score summaries.
package output

import (
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// Severity color thresholds for a [0,1] score: scoreGreenMin and above is
// green, scoreYellowMin and above is yellow, otherwise red.
const (
	scoreGreenMin  = 0.8
	scoreYellowMin = 0.5
)

// Writer wraps the three colors terminal rendering needs, resolved once per
// render call so NO_COLOR and non-TTY output (piped, CI) degrade to plain
// text automatically.
type Writer struct {
	Bold   *color.Color
	Green  *color.Color
	Yellow *color.Color
	Red    *color.Color
}

// NewWriter builds a Writer for f, disabling color when f is not a TTY or
// NO_COLOR is set (https://no-color.org), mirroring the teacher's spinner's
// isatty-gated behavior.
func NewWriter(f *os.File) *Writer {
	enabled := (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) && os.Getenv("NO_COLOR") == ""

	mk := func(attrs ...color.Attribute) *color.Color {
		c := color.New(attrs...)
		c.EnableColor()
		if !enabled {
			c.DisableColor()
		}
		return c
	}

	return &Writer{
		Bold:   mk(color.Bold),
		Green:  mk(color.FgGreen),
		Yellow: mk(color.FgYellow),
		Red:    mk(color.FgRed),
	}
}

// colorForScore picks green/yellow/red for a [0,1] score, higher is better.
func (w *Writer) colorForScore(score float64) *color.Color {
	switch {
	case score >= scoreGreenMin:
		return w.Green
	case score >= scoreYellowMin:
		return w.Yellow
	default:
		return w.Red
	}
}

// Package overlay composites rendered panels on top of each other without
// clearing the screen. Styling in both foreground and background survives.
package overlay

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// Position specifies where to place the foreground.
type Position int

const (
	// Center places the foreground in the middle of the viewport.
	Center Position = iota
	// Top places the foreground at the top center of the viewport.
	Top
	// Bottom places the foreground at the bottom center of the viewport.
	Bottom
)

// Config controls placement.
type Config struct {
	// Width and Height are the viewport size. Output never exceeds either.
	Width  int
	Height int
	// Position selects the anchor.
	Position Position
	// PadX and PadY keep the foreground away from the anchored edges.
	PadX int
	PadY int
}

// Blank returns a viewport-sized canvas of spaces.
func Blank(width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	row := strings.Repeat(" ", width)
	rows := make([]string, height)
	for i := range rows {
		rows[i] = row
	}
	return strings.Join(rows, "\n")
}

// Place renders fg on top of bg. Foreground rows and columns that fall
// outside the viewport are clipped.
func Place(cfg Config, fg, bg string) string {
	fgLines := strings.Split(fg, "\n")
	bgLines := strings.Split(bg, "\n")

	for len(bgLines) < cfg.Height {
		bgLines = append(bgLines, strings.Repeat(" ", cfg.Width))
	}
	if cfg.Height > 0 && len(bgLines) > cfg.Height {
		bgLines = bgLines[:cfg.Height]
	}

	fgWidth := 0
	for _, line := range fgLines {
		fgWidth = max(fgWidth, ansi.StringWidth(line))
	}
	x, y := Offset(cfg, fgWidth, len(fgLines))

	for i, fgLine := range fgLines {
		row := y + i
		if row >= len(bgLines) {
			break
		}
		if cfg.Width > 0 {
			fgLine = ansi.Truncate(fgLine, cfg.Width-x, "")
		}
		bgLines[row] = splice(bgLines[row], fgLine, x)
	}

	return strings.Join(bgLines, "\n")
}

// splice writes fg over line starting at column x. Every escape sequence in
// line is kept exactly once. Those under fg move next to it: zone markers
// before fg so they keep their column, styles after it so the text to the
// right keeps its look.
func splice(line, fg string, x int) string {
	end := x + ansi.StringWidth(fg)

	var left, markers, styles, right strings.Builder
	var state byte
	col := 0
	for len(line) > 0 {
		seq, width, n, next := ansi.DecodeSequence(line, state, nil)
		state = next
		line = line[n:]

		switch {
		case width == 0 && col < x:
			left.WriteString(seq)
		case width == 0 && col >= end:
			right.WriteString(seq)
		case width == 0:
			switch {
			case isZoneMarker(seq):
				markers.WriteString(seq)
			case strings.HasPrefix(seq, "\x1b"):
				styles.WriteString(seq)
			}
		case col+width <= x:
			left.WriteString(seq)
		case col >= end:
			right.WriteString(seq)
		case col+width > end:
			// Wide rune cut by fg's right edge.
			right.WriteString(strings.Repeat(" ", col+width-end))
		}
		col += width
	}

	if w := ansi.StringWidth(left.String()); w < x {
		left.WriteString(strings.Repeat(" ", x-w))
	}
	return left.String() + markers.String() + fg + styles.String() + right.String()
}

// isZoneMarker reports whether seq is a mouse zone marker (CSI <digits> z).
func isZoneMarker(seq string) bool {
	body, ok := strings.CutPrefix(seq, "\x1b[")
	if !ok {
		return false
	}
	digits, ok := strings.CutSuffix(body, "z")
	if !ok || digits == "" {
		return false
	}
	return strings.Trim(digits, "0123456789") == ""
}

// Offset returns the top-left cell where a fgWidth by fgHeight block lands.
func Offset(cfg Config, fgWidth, fgHeight int) (x, y int) {
	x = (cfg.Width - fgWidth) / 2
	switch cfg.Position {
	case Top:
		y = cfg.PadY
	case Bottom:
		y = cfg.Height - fgHeight - cfg.PadY
	default:
		y = (cfg.Height - fgHeight) / 2
	}
	return max(x, 0), max(y, 0)
}

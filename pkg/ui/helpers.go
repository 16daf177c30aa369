package ui

import "github.com/mattn/go-runewidth"

// truncate shortens s to at most width display cells, appending an ellipsis
// when anything was cut. Width is measured in terminal cells, not bytes, so
// wide runes and the progress glyphs count correctly.
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, "…")
}

// padRight pads s with spaces to exactly width display cells.
func padRight(s string, width int) string {
	return runewidth.FillRight(truncate(s, width), width)
}

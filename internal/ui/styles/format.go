package styles

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"
)

// TruncateString truncates a string to fit within maxWidth cells, adding
// an ellipsis if needed. Styled input keeps its escape sequences intact.
func TruncateString(s string, maxWidth int) string {
	if maxWidth < 1 {
		return ""
	}

	if ansi.StringWidth(s) <= maxWidth {
		return s
	}

	if maxWidth <= 3 {
		return strings.Repeat(".", maxWidth)
	}

	return ansi.Truncate(s, maxWidth-3, "") + "..."
}

// PadRight pads a string with spaces to exactly width cells, truncating
// when the string is wider.
func PadRight(s string, width int) string {
	w := ansi.StringWidth(s)
	if w >= width {
		return TruncateString(s, width)
	}
	return s + strings.Repeat(" ", width-w)
}

// CellWidth returns the display width of a plain (unstyled) string.
func CellWidth(s string) int {
	return runewidth.StringWidth(s)
}

package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

// renderInputLine draws a text input as exactly one row of bodyW columns.
func renderInputLine(bodyW int, label, inputView string) string {
	bodyW = max(bodyW, 10)

	// A newline in the view would make the row wrap while typing.
	inputView = strings.NewReplacer("\n", " ", "\r", " ").Replace(inputView)
	if label != "" {
		inputView = styleMuted().Render(label) + " " + inputView
	}

	line := lipgloss.PlaceHorizontal(
		bodyW,
		lipgloss.Left,
		" "+inputView+" ",
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceBackground(colorInputBg),
	)
	if xansi.StringWidth(line) > bodyW {
		// Terminate styling so the cut does not bleed into the next row.
		line = xansi.Cut(line, 0, bodyW) + "\x1b[0m"
	}
	return line
}

package tui

import (
	"strings"

	xansi "github.com/charmbracelet/x/ansi"
)

const (
	maxContentW      = 120
	minSplitPreviewW = 90
	splitGapW        = 2
)

// normalizePane forces s to exactly width columns (ANSI-aware) and height lines, so panes
// joined with lipgloss.JoinHorizontal stay aligned.
func normalizePane(s string, width, height int) string {
	width = max(width, 0)
	height = max(height, 0)

	lines := strings.Split(s, "\n")
	if height > 0 {
		if len(lines) > height {
			lines = lines[:height]
		}
		for len(lines) < height {
			lines = append(lines, "")
		}
	}
	for i, ln := range lines {
		lines[i] = fitWidth(ln, width)
	}
	return strings.Join(lines, "\n")
}

// fitWidth pads or truncates one line to width columns, marking truncation with an ellipsis.
func fitWidth(ln string, width int) string {
	if width <= 0 {
		return ""
	}
	// Bound the cost of StringWidth on huge lines.
	if len(ln) > 8192 {
		ln = xansi.Cut(ln, 0, width+1)
	}
	w := xansi.StringWidth(ln)
	if w > width {
		if width == 1 {
			ln = xansi.Cut(ln, 0, 1)
		} else {
			ln = xansi.Cut(ln, 0, width-1) + "…"
		}
		w = xansi.StringWidth(ln)
	}
	if w < width {
		ln += strings.Repeat(" ", width-w)
	}
	return ln
}

// contentWidth is the usable width for the main column.
func contentWidth(termW int) int {
	w := termW - 2
	if w > maxContentW {
		w = maxContentW
	}
	return max(w, 20)
}

// splitWidths returns the list and preview widths, or previewW 0 when the terminal is too
// narrow for a side-by-side preview.
func splitWidths(termW int) (listW, previewW int) {
	w := contentWidth(termW)
	if termW < minSplitPreviewW {
		return w, 0
	}
	listW = (w - splitGapW) / 2
	previewW = w - splitGapW - listW
	return listW, previewW
}

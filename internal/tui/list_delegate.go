package tui

import (
	"fmt"
	"io"
	"strings"

	"folio-cli/internal/model"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

// entryItem is one list row. draft is set while the row is being quick-edited; the
// row then shows the draft instead of the loaded entry.
type entryItem struct {
	entry   model.Entry
	draft   bool
	pending bool
}

func (i entryItem) FilterValue() string { return i.entry.Title }
func (i entryItem) Title() string       { return i.entry.Title }
func (i entryItem) Description() string { return i.entry.Summary() }

type entryDelegate struct {
	showPriority bool
}

func (d entryDelegate) Height() int                             { return 1 }
func (d entryDelegate) Spacing() int                            { return 0 }
func (d entryDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d entryDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	contentW := m.Width()
	if contentW < 4 {
		return
	}
	it, ok := item.(entryItem)
	if !ok {
		fmt.Fprint(w, fitWidth(fmt.Sprint(item), contentW))
		return
	}
	selected := index == m.Index()

	line := renderEntryLine(it, d.showPriority, contentW, selected)
	if selected {
		line = lipgloss.NewStyle().
			Foreground(colorSelectedFg).
			Background(colorSelectedBg).
			Bold(true).
			Render(xansi.Strip(line))
	}
	fmt.Fprint(w, line)
}

func renderEntryLine(it entryItem, showPriority bool, width int, plain bool) string {
	st := func(c lipgloss.AdaptiveColor) lipgloss.Style {
		if plain {
			return lipgloss.NewStyle()
		}
		return lipgloss.NewStyle().Foreground(c)
	}

	active := styleMuted().Render("○")
	if it.entry.Active {
		active = st(colorActive).Render("●")
	}
	featured := " "
	if it.entry.Featured {
		featured = st(colorFeatured).Render("★")
	}

	var b strings.Builder
	b.WriteString(" ")
	b.WriteString(active)
	b.WriteString(" ")
	b.WriteString(featured)
	b.WriteString(" ")
	if showPriority {
		prio := "  -"
		if it.entry.Priority != nil {
			prio = fmt.Sprintf("%3d", *it.entry.Priority)
		}
		b.WriteString(styleMuted().Render(prio + " "))
	}
	title := strings.TrimSpace(it.entry.Title)
	if title == "" {
		title = "(untitled)"
	}
	b.WriteString(title)
	if it.draft {
		b.WriteString(st(colorDraftMark).Render(" [editing]"))
	}
	if it.pending {
		b.WriteString(styleMuted().Render(" …"))
	}
	if s := it.entry.Summary(); s != "" && s != title {
		b.WriteString(styleMuted().Render("  " + s))
	}
	return fitWidth(b.String(), width)
}

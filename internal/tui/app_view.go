package tui

import (
	"fmt"
	"strings"

	"folio-cli/internal/listctl"
	"folio-cli/internal/model"

	"github.com/charmbracelet/lipgloss"
)

func (m appModel) View() string {
	if m.width <= 0 || m.height <= 0 {
		return ""
	}
	var body string
	switch m.view {
	case viewChecking:
		body = lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, styleMuted().Render("Checking session…"))
	case viewLogin:
		body = lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, m.viewLogin())
	case viewReorder:
		body = m.viewReorder()
	default:
		body = m.viewList()
	}

	if m.modal != modalNone {
		body = lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, m.viewModal())
	}
	return normalizePane(body, m.width, m.height-1) + "\n" + m.viewMinibuffer()
}

func (m appModel) viewMinibuffer() string {
	if m.minibufferText == "" {
		return ""
	}
	return fitWidth(" "+m.minibufferText, m.width)
}

func (m appModel) viewLogin() string {
	bodyW := modalBodyWidth(m.width)
	lines := []string{
		renderInputLine(bodyW, "Email   ", m.loginEmail.View()),
		"",
		renderInputLine(bodyW, "Password", m.loginPassword.View()),
		"",
	}
	if m.loggingIn {
		lines = append(lines, styleMuted().Render("Signing in…"))
	} else {
		lines = append(lines, styleMuted().Render("tab: switch field   enter: sign in   ctrl+c: quit"))
	}
	return renderModalBox(m.width, "Sign in to the portfolio admin", strings.Join(lines, "\n"))
}

func (m appModel) viewHeader(w int) string {
	badge := lipgloss.NewStyle().
		Bold(true).
		Foreground(colorAccentFg).
		Background(colorAccent).
		Padding(0, 1).
		Render("folio")

	tabs := make([]string, 0, len(model.Kinds))
	for i, k := range model.Kinds {
		label := fmt.Sprintf("%d %s", i+1, k.Label())
		if k == m.tab {
			tabs = append(tabs, lipgloss.NewStyle().Bold(true).Underline(true).Foreground(colorSurfaceFg).Render(label))
		} else {
			tabs = append(tabs, lipgloss.NewStyle().Foreground(colorChromeMuted).Render(label))
		}
	}
	left := badge + "  " + strings.Join(tabs, "   ")
	right := styleMuted().Render(m.gate.User().Email)
	gap := w - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		return fitWidth(left, w)
	}
	return left + strings.Repeat(" ", gap) + right
}

func (m appModel) viewSearchLine(w int) string {
	if m.focus == focusSearch {
		return renderInputLine(w, "", m.search.View())
	}
	q := m.cur().loader.Query()
	if q == "" {
		return styleMuted().Render(" / search")
	}
	return styleMuted().Render(" search: ") + q
}

func (m appModel) viewList() string {
	t := m.cur()
	w := contentWidth(m.width)
	listW, previewW := m.listAndPreviewWidths()
	h := m.listHeight()

	var listPane string
	switch {
	case t.loader.Len() == 0 && t.loader.Loading():
		listPane = styleMuted().Render(" Loading…")
	case t.loader.Len() == 0:
		listPane = styleMuted().Render(" No items found")
	default:
		listPane = t.list.View()
	}
	listPane = normalizePane(listPane, listW, h)
	if previewW > 0 {
		preview := normalizePane(m.viewPreview(previewW), previewW, h)
		listPane = lipgloss.JoinHorizontal(lipgloss.Top, listPane, strings.Repeat(" ", splitGapW), preview)
	}

	parts := []string{
		m.viewHeader(w),
		m.viewSearchLine(w),
		"",
		listPane,
	}
	if t.drafts.Editing() {
		parts = append(parts, m.viewEditForm(w))
	}
	parts = append(parts, m.viewFooter(w))
	return strings.Join(parts, "\n")
}

func (m appModel) viewEditForm(w int) string {
	t := m.cur()
	lines := []string{styleMuted().Render(strings.Repeat("─", w))}
	for i := range m.editInputs {
		lines = append(lines, renderInputLine(w, fmt.Sprintf("%-8s", editField(i).label()), m.editInputs[i].View()))
	}
	switch {
	case t.drafts.Saving():
		lines = append(lines, styleMuted().Render(" Saving…"))
	case t.drafts.Err() != nil:
		lines = append(lines, styleError().Render(" "+t.drafts.Err().Error()))
	default:
		lines = append(lines, styleMuted().Render(" tab: next field   enter: save   esc: discard"))
	}
	return strings.Join(lines, "\n")
}

func (m appModel) viewFooter(w int) string {
	t := m.cur()
	status := fmt.Sprintf(" page %d/%d · %d %s", t.loader.Page(), t.loader.TotalPages(), t.loader.Total(), string(m.tab))
	if t.loader.Loading() {
		status += " · loading"
	}
	if t.loader.Phase() == listctl.PhaseErrored {
		status += " · load failed"
	}
	help := "space active  f featured  e edit  d delete  / search  [ ] page  p preview  q quit"
	if m.tab.Reorderable() {
		help = "o reorder  " + help
	}
	return fitWidth(styleMuted().Render(status+"   "+help), w)
}

func (m appModel) viewPreview(w int) string {
	sel, ok := m.selectedEntry()
	if !ok {
		return ""
	}
	e := sel
	if full, ok := m.details[detailKey(m.tab, sel.ID)]; ok && m.cur().drafts.EditingID() != sel.ID {
		e = full
	}

	title := lipgloss.NewStyle().Bold(true).Render(e.Title)
	var meta []string
	if e.Slug != "" {
		meta = append(meta, "/"+e.Slug)
	}
	flags := []string{}
	if e.Active {
		flags = append(flags, "active")
	} else {
		flags = append(flags, "inactive")
	}
	if e.Featured {
		flags = append(flags, "featured")
	}
	if e.Priority != nil {
		flags = append(flags, fmt.Sprintf("priority %d", *e.Priority))
	}
	meta = append(meta, strings.Join(flags, ", "))
	if len(e.Tags) > 0 {
		meta = append(meta, "tags: "+strings.Join(e.Tags, ", "))
	}
	if !e.UpdatedAt.IsZero() {
		meta = append(meta, "updated "+e.UpdatedAt.Format("2006-01-02"))
	}

	lines := []string{title}
	for _, s := range meta {
		lines = append(lines, styleMuted().Render(s))
	}
	lines = append(lines, "")
	if md := previewMarkdown(m.tab, e); md != "" {
		lines = append(lines, renderMarkdown(md, w))
	} else if m.detailWant == detailKey(m.tab, sel.ID) {
		lines = append(lines, styleMuted().Render("Loading…"))
	}
	return strings.Join(lines, "\n")
}

func previewMarkdown(kind model.Kind, e model.Entry) string {
	var b strings.Builder
	switch kind {
	case model.KindBlogs:
		if e.Excerpt != "" {
			b.WriteString("> " + e.Excerpt + "\n\n")
		}
		b.WriteString(e.Content)
	case model.KindProjects:
		b.WriteString(e.Description)
		if len(e.TechStack) > 0 {
			b.WriteString("\n\n**Stack:** " + strings.Join(e.TechStack, ", "))
		}
		for _, l := range [][2]string{{"Source", e.GitHubURL}, {"Live", e.LiveURL}} {
			if l[1] != "" {
				fmt.Fprintf(&b, "\n\n[%s](%s)", l[0], l[1])
			}
		}
	default:
		if e.Issuer != "" {
			b.WriteString("Issued by **" + e.Issuer + "**")
			if e.IssuedAt != "" {
				b.WriteString(" on " + e.IssuedAt)
			}
		}
		if e.Description != "" {
			b.WriteString("\n\n" + e.Description)
		}
		if e.CredentialURL != "" {
			fmt.Fprintf(&b, "\n\n[Credential](%s)", e.CredentialURL)
		}
	}
	return strings.TrimSpace(b.String())
}

func (m appModel) viewReorder() string {
	w := contentWidth(m.width)
	title := lipgloss.NewStyle().Bold(true).Render(" Projects · display order")
	if m.reorder != nil && m.reorder.Dirty() {
		title += lipgloss.NewStyle().Foreground(colorDraftMark).Render("  (unsaved)")
	}
	lines := []string{m.viewHeader(w), title, ""}

	h := max(m.height-6, 3)
	switch {
	case m.reorderLoading || m.reorder == nil:
		lines = append(lines, styleMuted().Render(" Loading…"))
	case m.reorder.Len() == 0:
		lines = append(lines, styleMuted().Render(" No items found"))
	default:
		items := m.reorder.Items()
		start := 0
		if m.reorderCursor >= h {
			start = m.reorderCursor - h + 1
		}
		end := min(start+h, len(items))
		for i := start; i < end; i++ {
			row := fitWidth(fmt.Sprintf(" %3d  %s", i+1, items[i].Title), w)
			if i == m.reorderCursor {
				row = lipgloss.NewStyle().Foreground(colorSelectedFg).Background(colorSelectedBg).Bold(true).Render(row)
			}
			lines = append(lines, row)
		}
	}
	body := normalizePane(strings.Join(lines, "\n"), w, m.height-2)

	help := " j/k select  J/K move  T/B top/bottom  s save  r reload  esc back"
	if m.reorderSaving {
		help = " Saving order…"
	}
	return body + "\n" + fitWidth(styleMuted().Render(help), w)
}

func (m appModel) viewModal() string {
	switch m.modal {
	case modalConfirmDelete:
		body := fmt.Sprintf("Delete %s %q? This cannot be undone.", m.tab.Singular(), m.deleteTitle)
		return renderConfirmModal(m.width, "Delete", body, "Delete", "Cancel", m.confirmFocus)
	case modalConfirmDiscardOrder:
		return renderConfirmModal(m.width, "Unsaved order", "Leave without saving the new project order?", "Discard", "Keep editing", m.confirmFocus)
	}
	return ""
}

package tui

import (
	"errors"
	"fmt"
	"strings"

	"folio-cli/internal/api"
	"folio-cli/internal/listctl"
	"folio-cli/internal/model"

	tea "github.com/charmbracelet/bubbletea"
)

var errSignedOut = errors.New("signed out")

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeLists()
		return m, nil

	case sessionMsg:
		return m.handleSession(msg)

	case loginDoneMsg:
		m.loggingIn = false
		if msg.err != nil {
			m.debugLogf("login failed: %v", msg.err)
			m.loginPassword.SetValue("")
			m.showMinibuffer(api.Message(msg.err, "Login failed"))
			return m, nil
		}
		m.loginPassword.SetValue("")
		m.gate.Reset()
		m.view = viewChecking
		return m, checkSessionCmd(m.ctx, m.client)

	case logoutDoneMsg:
		m.toLogin(errSignedOut)
		m.showMinibuffer("Signed out")
		return m, nil

	case listLoadedMsg:
		return m.handleListLoaded(msg)

	case searchDebounceMsg:
		t := m.tabs[msg.kind]
		if t == nil {
			return m, nil
		}
		q, ok := t.debouncer.Fire(msg.seq)
		if !ok {
			return m, nil
		}
		t.loader.SetQuery(q)
		m.persistState()
		next := m.loadTab(msg.kind)
		return m, next

	case toggleDoneMsg:
		return m.handleToggleDone(msg)

	case saveDoneMsg:
		return m.handleSaveDone(msg)

	case deleteDoneMsg:
		delete(m.details, detailKey(msg.kind, msg.id))
		if msg.err != nil {
			if m.authLost(msg.err) {
				return m, nil
			}
			m.showMinibuffer(api.Message(msg.err, "Could not delete "+msg.kind.Singular()))
			return m, nil
		}
		m.showMinibuffer(fmt.Sprintf("Deleted %q", msg.title))
		next := m.loadTab(msg.kind)
		return m, next

	case reorderLoadedMsg:
		if msg.token != m.reorderToken {
			m.debugLogf("reorder: stale load token=%d want=%d", msg.token, m.reorderToken)
			return m, nil
		}
		m.reorderLoading = false
		if msg.err != nil {
			if m.authLost(msg.err) {
				return m, nil
			}
			m.debugLogf("reorder: load failed: %v", msg.err)
			m.showMinibuffer(api.Message(msg.err, "Could not load projects"))
			m.reorder = listctl.NewReorder(nil)
		} else {
			m.reorder = listctl.NewReorder(msg.items)
		}
		m.reorderCursor = clamp(m.reorderCursor, 0, m.reorder.Len()-1)
		return m, nil

	case reorderSavedMsg:
		m.reorderSaving = false
		if msg.err != nil {
			if m.authLost(msg.err) {
				return m, nil
			}
			m.showMinibuffer(api.Message(msg.err, "Could not save the project order"))
			return m, nil
		}
		if m.reorder != nil {
			m.reorder.MarkSaved()
		}
		m.showMinibuffer("Project order saved")
		next := m.loadTab(model.KindProjects)
		return m, next

	case detailLoadedMsg:
		key := detailKey(msg.kind, msg.id)
		if m.detailWant == key {
			m.detailWant = ""
		}
		if msg.err != nil {
			m.debugLogf("detail %s: %v", key, msg.err)
			m.authLost(msg.err)
			return m, nil
		}
		m.details[key] = msg.entry
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			next := m.quit()
			return m, next
		}
		m.minibufferText = ""
		switch m.view {
		case viewLogin:
			return m.updateLogin(msg)
		case viewList:
			if m.modal != modalNone {
				return m.updateModal(msg)
			}
			return m.updateList(msg)
		case viewReorder:
			if m.modal != modalNone {
				return m.updateModal(msg)
			}
			return m.updateReorder(msg)
		}
		return m, nil
	}
	return m, nil
}

func (m *appModel) quit() tea.Cmd {
	m.persistState()
	m.stateSaver.Flush()
	return tea.Quit
}

func (m appModel) handleSession(msg sessionMsg) (tea.Model, tea.Cmd) {
	if m.gate.State() != listctl.GateChecking {
		return m, nil
	}
	if !m.gate.Resolve(msg.user, msg.err) {
		m.debugLogf("session check: %v", msg.err)
		m.enterLogin()
		return m, nil
	}
	if u := m.gate.User(); u.Email != "" && m.loginEmail.Value() == "" {
		m.loginEmail.SetValue(u.Email)
	}
	saved, _ := m.store.LoadTUIState()
	if saved != nil && saved.View == "reorder" && m.tab == model.KindProjects {
		next := tea.Batch(m.loadTab(m.tab), m.enterReorder())
		return m, next
	}
	m.view = viewList
	m.focus = focusList
	next := m.loadTab(m.tab)
	return m, next
}

func (m appModel) handleListLoaded(msg listLoadedMsg) (tea.Model, tea.Cmd) {
	t := m.tabs[msg.kind]
	if t == nil {
		return m, nil
	}
	if !t.loader.Resolve(msg.resp) {
		m.debugLogf("list %s: stale response token=%d current=%d", msg.kind, msg.resp.Token, t.loader.Token())
		return m, nil
	}
	if err := msg.resp.Err; err != nil {
		// The list shows "no items"; details only go to the debug log.
		m.debugLogf("list %s: load failed: %v", msg.kind, err)
		m.syncList(msg.kind)
		m.authLost(err)
		return m, nil
	}
	// A page emptied by deletes: step back to the last page that has rows.
	if t.loader.Len() == 0 && t.loader.Page() > 1 && t.loader.Page() > t.loader.TotalPages() {
		t.loader.SetPage(t.loader.TotalPages())
		m.persistState()
		next := m.loadTab(msg.kind)
		return m, next
	}
	m.syncList(msg.kind)
	if msg.kind == m.tab {
		next := m.maybeLoadDetail()
		return m, next
	}
	return m, nil
}

func (m appModel) handleToggleDone(msg toggleDoneMsg) (tea.Model, tea.Cmd) {
	t := m.tabs[msg.kind]
	if t == nil || t.toggle == nil || t.toggle.id != msg.id || t.toggle.field != msg.field {
		return m, nil
	}
	p := t.toggle.p
	t.toggle = nil
	t.loader.Show(p.Settle(t.loader.View(), msg.err))
	m.syncList(msg.kind)
	delete(m.details, detailKey(msg.kind, msg.id))
	if msg.err != nil {
		m.debugLogf("toggle %s/%s %s: %v", msg.kind, msg.id, msg.field, msg.err)
		if m.authLost(msg.err) {
			return m, nil
		}
		m.showMinibuffer(api.Message(msg.err, "Could not update "+msg.kind.Singular()))
	}
	return m, nil
}

func (m appModel) handleSaveDone(msg saveDoneMsg) (tea.Model, tea.Cmd) {
	t := m.tabs[msg.kind]
	if t == nil {
		return m, nil
	}
	reload := t.drafts.SaveDone(msg.id, msg.err)
	delete(m.details, detailKey(msg.kind, msg.id))
	if reload {
		if msg.kind == m.tab && m.focus == focusEdit {
			m.focus = focusList
		}
		m.resizeLists()
		m.showMinibuffer(strings.ToUpper(msg.kind.Singular()[:1]) + msg.kind.Singular()[1:] + " saved")
		next := m.loadTab(msg.kind)
		return m, next
	}
	m.syncList(msg.kind)
	if msg.err != nil && t.drafts.EditingID() == msg.id {
		if m.authLost(msg.err) {
			return m, nil
		}
		m.showMinibuffer(api.Message(msg.err, "Could not save "+msg.kind.Singular()))
	}
	return m, nil
}

// authLost sends the user back to the login form when err means the session is gone.
func (m *appModel) authLost(err error) bool {
	if !errors.Is(err, api.ErrUnauthorized) {
		return false
	}
	m.toLogin(err)
	return true
}

func (m *appModel) toLogin(reason error) {
	m.gate.Reset()
	m.gate.Resolve(model.User{}, reason)
	for _, t := range m.tabs {
		t.drafts.Cancel()
		t.debouncer.Cancel()
	}
	m.modal = modalNone
	m.reorder = nil
	m.reorderToken++
	m.enterLogin()
}

func (m *appModel) enterLogin() {
	m.view = viewLogin
	m.focus = focusList
	m.loginPassword.SetValue("")
	m.loginFocus = 0
	if strings.TrimSpace(m.loginEmail.Value()) != "" {
		m.loginFocus = 1
	}
	m.focusLoginInput()
}

func (m *appModel) focusLoginInput() {
	if m.loginFocus == 0 {
		m.loginEmail.Focus()
		m.loginPassword.Blur()
		return
	}
	m.loginEmail.Blur()
	m.loginPassword.Focus()
}

func (m appModel) updateLogin(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.loggingIn {
		return m, nil
	}
	switch msg.String() {
	case "tab", "shift+tab", "up", "down":
		m.loginFocus = 1 - m.loginFocus
		m.focusLoginInput()
		return m, nil
	case "enter":
		email := strings.TrimSpace(m.loginEmail.Value())
		password := m.loginPassword.Value()
		if m.loginFocus == 0 && password == "" {
			m.loginFocus = 1
			m.focusLoginInput()
			return m, nil
		}
		if email == "" || password == "" {
			m.showMinibuffer("Email and password are required")
			return m, nil
		}
		m.loggingIn = true
		return m, loginCmd(m.ctx, m.client, m.store, email, password)
	}
	var cmd tea.Cmd
	if m.loginFocus == 0 {
		m.loginEmail, cmd = m.loginEmail.Update(msg)
	} else {
		m.loginPassword, cmd = m.loginPassword.Update(msg)
	}
	return m, cmd
}

func (m appModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.focus {
	case focusSearch:
		return m.updateSearch(msg)
	case focusEdit:
		return m.updateEdit(msg)
	}

	t := m.cur()
	switch msg.String() {
	case "q":
		next := m.quit()
		return m, next
	case "tab":
		next := m.switchTab(nextKind(m.tab, 1))
		return m, next
	case "shift+tab":
		next := m.switchTab(nextKind(m.tab, -1))
		return m, next
	case "1", "2", "3":
		next := m.switchTab(model.Kinds[int(msg.String()[0]-'1')])
		return m, next
	case "/":
		m.focus = focusSearch
		m.search.SetValue(t.loader.Query())
		m.search.CursorEnd()
		m.search.Focus()
		return m, nil
	case "]", "l", "right":
		if !t.loader.NextPage() {
			return m, nil
		}
		m.persistState()
		next := m.loadTab(m.tab)
		return m, next
	case "[", "h", "left":
		if !t.loader.PrevPage() {
			return m, nil
		}
		m.persistState()
		next := m.loadTab(m.tab)
		return m, next
	case "r":
		next := m.loadTab(m.tab)
		return m, next
	case " ", "a":
		next := m.startToggle(listctl.FieldActive)
		return m, next
	case "f":
		next := m.startToggle(listctl.FieldFeatured)
		return m, next
	case "e", "enter":
		m.startEdit()
		return m, nil
	case "d", "delete":
		e, ok := m.selectedEntry()
		if !ok {
			return m, nil
		}
		m.modal = modalConfirmDelete
		m.confirmFocus = confirmFocusCancel
		m.deleteID = e.ID
		m.deleteTitle = e.Title
		return m, nil
	case "o":
		if !m.tab.Reorderable() {
			m.showMinibuffer("Only projects have a display order")
			return m, nil
		}
		next := m.enterReorder()
		return m, next
	case "p":
		m.showPreview = !m.showPreview
		m.resizeLists()
		m.persistState()
		next := m.maybeLoadDetail()
		return m, next
	case "L":
		return m, logoutCmd(m.ctx, m.client, m.jar)
	}

	before := t.list.Index()
	var cmd tea.Cmd
	t.list, cmd = t.list.Update(msg)
	if t.list.Index() != before {
		next := tea.Batch(cmd, m.maybeLoadDetail())
		return m, next
	}
	return m, cmd
}

func nextKind(k model.Kind, delta int) model.Kind {
	n := len(model.Kinds)
	for i, kk := range model.Kinds {
		if kk == k {
			return model.Kinds[((i+delta)%n+n)%n]
		}
	}
	return model.Kinds[0]
}

func (m *appModel) switchTab(k model.Kind) tea.Cmd {
	if k == m.tab {
		return nil
	}
	m.tab = k
	m.search.SetValue(m.cur().loader.Query())
	m.resizeLists()
	m.persistState()
	if m.cur().loader.Phase() == listctl.PhaseIdle {
		return m.loadTab(k)
	}
	return m.maybeLoadDetail()
}

func (m appModel) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	t := m.cur()
	switch msg.String() {
	case "esc":
		m.focus = focusList
		m.search.Blur()
		return m, nil
	case "enter":
		t.debouncer.Cancel()
		m.focus = focusList
		m.search.Blur()
		t.loader.SetQuery(m.search.Value())
		m.persistState()
		next := m.loadTab(m.tab)
		return m, next
	}
	prev := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if m.search.Value() == prev {
		return m, cmd
	}
	seq := t.debouncer.Change(m.search.Value())
	return m, tea.Batch(cmd, searchDebounceCmd(m.tab, seq, t.debouncer.Delay))
}

func (m *appModel) startToggle(field string) tea.Cmd {
	t := m.cur()
	e, ok := m.selectedEntry()
	if !ok {
		return nil
	}
	if t.toggle != nil {
		m.showMinibuffer("Still saving the previous change")
		return nil
	}
	if t.drafts.EditingID() == e.ID {
		m.showMinibuffer("Finish editing this " + m.tab.Singular() + " first")
		return nil
	}
	view := t.loader.View()
	current, err := listctl.FlagValue(view, e.ID, field)
	if err != nil {
		m.debugLogf("toggle: %v", err)
		return nil
	}
	value := !current
	next, p := listctl.Begin(view, listctl.ToggleCommand(e.ID, field, value, nil))
	t.loader.Show(next)
	t.toggle = &pendingToggle{id: e.ID, field: field, p: p}
	m.syncList(m.tab)
	return toggleCmd(m.ctx, m.client, m.store, m.tab, e.ID, field, value)
}

func summaryOf(kind model.Kind, d model.Draft) string {
	if kind == model.KindBlogs {
		return d.Excerpt
	}
	return d.Description
}

func (m *appModel) startEdit() {
	t := m.cur()
	sel, ok := m.selectedEntry()
	if !ok {
		return
	}
	if t.toggle != nil && t.toggle.id == sel.ID {
		m.showMinibuffer("Still saving the previous change")
		return
	}
	e, ok := t.loader.Find(sel.ID)
	if !ok {
		return
	}
	t.drafts.Start(e)
	d, _ := t.drafts.Draft(e.ID)
	m.editInputs[editTitle].SetValue(d.Title)
	m.editInputs[editSlug].SetValue(d.Slug)
	m.editInputs[editTags].SetValue(strings.Join(d.Tags, ", "))
	m.editInputs[editSummary].SetValue(summaryOf(m.tab, d))
	m.editFocus = editTitle
	m.focusEditInput()
	m.focus = focusEdit
	m.resizeLists()
	m.syncList(m.tab)
}

func (m *appModel) focusEditInput() {
	for i := range m.editInputs {
		if editField(i) == m.editFocus {
			m.editInputs[i].Focus()
			m.editInputs[i].CursorEnd()
		} else {
			m.editInputs[i].Blur()
		}
	}
}

func (m appModel) updateEdit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	t := m.cur()
	if t.drafts.Saving() {
		return m, nil
	}
	switch msg.String() {
	case "esc":
		t.drafts.Cancel()
		m.focus = focusList
		m.focusEditInput()
		m.resizeLists()
		m.syncList(m.tab)
		return m, nil
	case "tab", "down":
		m.editFocus = (m.editFocus + 1) % editFieldCount
		m.focusEditInput()
		return m, nil
	case "shift+tab", "up":
		m.editFocus = (m.editFocus + editFieldCount - 1) % editFieldCount
		m.focusEditInput()
		return m, nil
	case "enter", "ctrl+s":
		id, d, err := t.drafts.BeginSave()
		if err != nil {
			m.showMinibuffer(err.Error())
			return m, nil
		}
		m.syncList(m.tab)
		return m, saveDraftCmd(m.ctx, m.client, m.store, m.tab, id, d)
	}

	var cmd tea.Cmd
	in := &m.editInputs[m.editFocus]
	*in, cmd = in.Update(msg)
	v := in.Value()
	field, kind := m.editFocus, m.tab
	t.drafts.Update(t.drafts.EditingID(), func(d *model.Draft) {
		switch field {
		case editTitle:
			d.Title = v
		case editSlug:
			d.Slug = v
		case editTags:
			d.Tags = model.ParseTags(v)
		case editSummary:
			if kind == model.KindBlogs {
				d.Excerpt = v
			} else {
				d.Description = v
			}
		}
	})
	m.syncList(m.tab)
	return m, cmd
}

func (m appModel) updateModal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	confirmed := false
	switch msg.String() {
	case "esc", "n":
		m.modal = modalNone
		return m, nil
	case "tab", "shift+tab", "left", "right", "h", "l":
		if m.confirmFocus == confirmFocusConfirm {
			m.confirmFocus = confirmFocusCancel
		} else {
			m.confirmFocus = confirmFocusConfirm
		}
		return m, nil
	case "y":
		confirmed = true
	case "enter":
		confirmed = m.confirmFocus == confirmFocusConfirm
	default:
		return m, nil
	}

	kind := m.modal
	m.modal = modalNone
	if !confirmed {
		return m, nil
	}
	switch kind {
	case modalConfirmDelete:
		t := m.cur()
		if t.drafts.EditingID() == m.deleteID {
			t.drafts.Cancel()
			m.focus = focusList
			m.resizeLists()
		}
		return m, deleteCmd(m.ctx, m.client, m.store, m.tab, m.deleteID, m.deleteTitle)
	case modalConfirmDiscardOrder:
		next := m.leaveReorder()
		return m, next
	}
	return m, nil
}

func (m *appModel) enterReorder() tea.Cmd {
	m.view = viewReorder
	m.reorderToken++
	m.reorderLoading = true
	m.reorderCursor = 0
	m.persistState()
	return loadReorderCmd(m.ctx, m.client, m.reorderToken)
}

func (m *appModel) leaveReorder() tea.Cmd {
	m.view = viewList
	m.reorder = nil
	m.reorderToken++
	m.reorderLoading = false
	m.persistState()
	return m.loadTab(model.KindProjects)
}

func (m appModel) updateReorder(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch key {
	case "esc", "q", "o":
		if m.reorder != nil && m.reorder.Dirty() {
			m.modal = modalConfirmDiscardOrder
			m.confirmFocus = confirmFocusCancel
			return m, nil
		}
		next := m.leaveReorder()
		return m, next
	case "r":
		next := m.enterReorder()
		return m, next
	}
	if m.reorder == nil || m.reorderLoading || m.reorderSaving {
		return m, nil
	}
	n := m.reorder.Len()
	switch key {
	case "j", "down", "ctrl+n":
		m.reorderCursor = clamp(m.reorderCursor+1, 0, n-1)
	case "k", "up", "ctrl+p":
		m.reorderCursor = clamp(m.reorderCursor-1, 0, n-1)
	case "g", "home":
		m.reorderCursor = 0
	case "G", "end":
		m.reorderCursor = max(n-1, 0)
	case "J", "shift+down":
		if m.reorder.Move(m.reorderCursor, m.reorderCursor+1) {
			m.reorderCursor++
		}
	case "K", "shift+up":
		if m.reorder.Move(m.reorderCursor, m.reorderCursor-1) {
			m.reorderCursor--
		}
	case "T":
		if m.reorder.Move(m.reorderCursor, 0) {
			m.reorderCursor = 0
		}
	case "B":
		if m.reorder.Move(m.reorderCursor, n-1) {
			m.reorderCursor = n - 1
		}
	case "s", "ctrl+s", "enter":
		if !m.reorder.Dirty() {
			m.showMinibuffer("Order unchanged")
			return m, nil
		}
		m.reorderSaving = true
		return m, savePrioritiesCmd(m.ctx, m.client, m.store, m.reorder.Updates())
	}
	return m, nil
}

// maybeLoadDetail fetches the full selected entry for the preview pane once.
func (m *appModel) maybeLoadDetail() tea.Cmd {
	if !m.showPreview || m.view != viewList {
		return nil
	}
	e, ok := m.selectedEntry()
	if !ok {
		return nil
	}
	key := detailKey(m.tab, e.ID)
	if _, ok := m.details[key]; ok || m.detailWant == key {
		return nil
	}
	m.detailWant = key
	return detailCmd(m.ctx, m.client, m.tab, e.ID)
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	return min(max(v, lo), hi)
}

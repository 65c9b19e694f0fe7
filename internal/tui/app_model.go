package tui

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"folio-cli/internal/listctl"
	"folio-cli/internal/model"
	"folio-cli/internal/store"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// CookieClearer drops the persisted session on logout.
type CookieClearer interface {
	Clear(ctx context.Context) error
}

type Options struct {
	Client Client
	Store  store.Store
	Jar    CookieClearer

	PageSize    int
	SearchDelay time.Duration
	// Email prefills the login form.
	Email string
	// Debug enables debugLogf output (see Run).
	Debug bool
	// Context bounds every request the TUI makes.
	Context context.Context
}

// stateSaveDelay coalesces UI state writes while the user is navigating.
const stateSaveDelay = 400 * time.Millisecond

// pendingToggle is the in-flight optimistic toggle of one tab. Only one runs at a time so
// a failed toggle can restore its snapshot without undoing another row.
type pendingToggle struct {
	id    string
	field string
	p     listctl.Pending[listctl.View]
}

type tabState struct {
	kind      model.Kind
	loader    *listctl.Loader
	debouncer *listctl.Debouncer
	drafts    listctl.Drafts
	toggle    *pendingToggle
	list      list.Model
}

type appModel struct {
	ctx    context.Context
	client Client
	store  store.Store
	jar    CookieClearer

	width  int
	height int

	view  view
	focus focusKind
	modal modalKind

	gate listctl.Gate

	tabs map[model.Kind]*tabState
	tab  model.Kind

	search textinput.Model

	loginEmail    textinput.Model
	loginPassword textinput.Model
	loginFocus    int
	loggingIn     bool

	editInputs [editFieldCount]textinput.Model
	editFocus  editField

	reorder        *listctl.Reorder
	reorderCursor  int
	reorderToken   uint64
	reorderLoading bool
	reorderSaving  bool

	showPreview bool
	details     map[string]model.Entry
	detailWant  string

	confirmFocus confirmModalFocus
	deleteID     string
	deleteTitle  string

	minibufferText string

	debug      bool
	stateSaver *listctl.TimerDebouncer[store.TUIState]
}

func newTextInput(placeholder string) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = ""
	ti.CharLimit = 500
	// A blinking cursor would keep a tick loop running for no benefit.
	ti.Cursor.SetMode(cursor.CursorStatic)
	return ti
}

// newList builds a bubbles list with its own chrome turned off; the app draws the
// header, footer and minibuffer itself.
func newList(kind model.Kind) list.Model {
	l := list.New(nil, entryDelegate{showPriority: kind.Reorderable()}, 0, 0)
	l.Title = kind.Label()
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetShowPagination(false)
	l.SetFilteringEnabled(false)
	l.SetStatusBarItemName(kind.Singular(), string(kind))
	l.DisableQuitKeybindings()
	// Emacs-style aliases.
	l.KeyMap.CursorUp.SetKeys(append(l.KeyMap.CursorUp.Keys(), "ctrl+p")...)
	l.KeyMap.CursorDown.SetKeys(append(l.KeyMap.CursorDown.Keys(), "ctrl+n")...)
	// Paging is server-side; the list keeps h/l and the arrow keys free for it.
	l.KeyMap.PrevPage.SetKeys("pgup")
	l.KeyMap.NextPage.SetKeys("pgdown")
	return l
}

func newAppModel(opts Options) appModel {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	delay := opts.SearchDelay
	if delay <= 0 {
		delay = listctl.DefaultSearchDelay
	}

	saved, _ := opts.Store.LoadTUIState()
	if saved == nil {
		saved = &store.TUIState{Version: 1}
	}

	m := appModel{
		ctx:         ctx,
		client:      opts.Client,
		store:       opts.Store,
		jar:         opts.Jar,
		view:        viewChecking,
		tabs:        map[model.Kind]*tabState{},
		tab:         model.KindBlogs,
		details:     map[string]model.Entry{},
		showPreview: saved.ShowPreview,
		debug:       opts.Debug,
	}
	if k, err := model.ParseKind(saved.Tab); err == nil {
		m.tab = k
	}
	for _, k := range model.Kinds {
		l := listctl.NewLoader(opts.PageSize)
		l.SetQuery(saved.Query[string(k)])
		l.SetPage(saved.Page[string(k)])
		m.tabs[k] = &tabState{
			kind:      k,
			loader:    l,
			debouncer: listctl.NewDebouncer(delay),
			list:      newList(k),
		}
	}

	m.search = newTextInput("search title, slug or tags")
	m.search.Prompt = "/ "
	m.search.SetValue(m.cur().loader.Query())

	m.loginEmail = newTextInput("email")
	m.loginEmail.SetValue(strings.TrimSpace(opts.Email))
	m.loginPassword = newTextInput("password")
	m.loginPassword.EchoMode = textinput.EchoPassword
	m.loginPassword.EchoCharacter = '•'

	for i := range m.editInputs {
		m.editInputs[i] = newTextInput(editField(i).label())
	}

	st := opts.Store
	m.stateSaver = listctl.NewTimerDebouncer(stateSaveDelay, func(s store.TUIState) {
		_ = st.SaveTUIState(&s)
	})
	return m
}

func (m appModel) Init() tea.Cmd {
	return checkSessionCmd(m.ctx, m.client)
}

func (m *appModel) cur() *tabState { return m.tabs[m.tab] }

func (m *appModel) showMinibuffer(text string) {
	m.minibufferText = strings.TrimSpace(text)
}

func (m *appModel) debugLogf(format string, args ...any) {
	if !m.debug {
		return
	}
	log.Printf(format, args...)
}

// snapshotState captures what is restored on the next launch.
func (m *appModel) snapshotState() store.TUIState {
	st := store.TUIState{
		Version:     1,
		View:        "list",
		Tab:         string(m.tab),
		Query:       map[string]string{},
		Page:        map[string]int{},
		ShowPreview: m.showPreview,
	}
	if m.view == viewReorder {
		st.View = "reorder"
	}
	for k, t := range m.tabs {
		if q := t.loader.Query(); q != "" {
			st.Query[string(k)] = q
		}
		if p := t.loader.Page(); p > 1 {
			st.Page[string(k)] = p
		}
	}
	return st
}

func (m *appModel) persistState() {
	if m.stateSaver == nil || m.store.Dir == "" {
		return
	}
	m.stateSaver.Notify(m.snapshotState())
}

// loadTab issues a fresh request for kind. Any response still in flight for that tab
// becomes stale.
func (m *appModel) loadTab(kind model.Kind) tea.Cmd {
	t := m.tabs[kind]
	req := t.loader.Begin()
	m.debugLogf("list %s: request token=%d page=%d q=%q", kind, req.Token, req.Page, req.Query)
	m.syncList(kind)
	return loadListCmd(m.ctx, m.client, kind, req)
}

// syncList rebuilds the bubbles list rows for kind from its loader, overlaying any
// quick-edit draft and pending toggle. The selection follows the same entry id.
func (m *appModel) syncList(kind model.Kind) {
	t := m.tabs[kind]
	selectedID := ""
	if it, ok := t.list.SelectedItem().(entryItem); ok {
		selectedID = it.entry.ID
	}
	entries := t.loader.Items()
	items := make([]list.Item, 0, len(entries))
	selected := 0
	for i, e := range entries {
		it := entryItem{
			entry: t.drafts.Overlay(e),
			draft: t.drafts.EditingID() == e.ID,
		}
		if t.toggle != nil && t.toggle.id == e.ID {
			it.pending = true
		}
		if e.ID == selectedID {
			selected = i
		}
		items = append(items, it)
	}
	t.list.SetItems(items)
	if len(items) > 0 {
		t.list.Select(selected)
	}
}

func (m *appModel) selectedEntry() (model.Entry, bool) {
	it, ok := m.cur().list.SelectedItem().(entryItem)
	if !ok {
		return model.Entry{}, false
	}
	return it.entry, true
}

func (m *appModel) resizeLists() {
	listW, _ := m.listAndPreviewWidths()
	h := m.listHeight()
	for _, t := range m.tabs {
		t.list.SetSize(listW, h)
	}
	for i := range m.editInputs {
		m.editInputs[i].Width = max(listW-16, 10)
	}
	m.search.Width = max(listW-6, 10)
}

func (m *appModel) listAndPreviewWidths() (int, int) {
	listW, previewW := splitWidths(m.width)
	if !m.showPreview {
		return contentWidth(m.width), 0
	}
	return listW, previewW
}

// listHeight leaves room for the header, search line, footer and minibuffer; the quick
// edit form takes extra rows while open.
func (m *appModel) listHeight() int {
	h := m.height - 6
	if m.cur() != nil && m.cur().drafts.Editing() {
		h -= int(editFieldCount) + 2
	}
	return max(h, 3)
}

func detailKey(kind model.Kind, id string) string { return fmt.Sprintf("%s/%s", kind, id) }

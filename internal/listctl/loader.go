// Package listctl holds the state machines behind an admin list view: the session gate,
// the token-guarded page loader, debounced search, optimistic commands, quick-edit drafts,
// and priority reordering. Nothing here performs I/O on its own; callers run the network
// work (in Bubble Tea commands, or inline in the CLI) and feed results back in.
package listctl

import (
	"strings"

	"folio-cli/internal/model"
)

// DefaultPageSize is used when a loader is created with a non-positive size.
const DefaultPageSize = 10

type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseLoaded
	PhaseErrored
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhaseLoaded:
		return "loaded"
	case PhaseErrored:
		return "errored"
	default:
		return "unknown"
	}
}

// Token identifies one issued list request. Tokens only grow.
type Token uint64

type Request struct {
	Token Token
	Page  int
	Limit int
	Query string
}

type Response struct {
	Token Token
	Page  model.ListPage
	Err   error
}

// Loader tracks one paginated, searchable list. Only the response to the most recently
// issued request is ever applied.
type Loader struct {
	pageSize int
	page     int
	query    string

	token   Token
	phase   Phase
	loading bool

	items []model.Entry
	total int
	err   error
}

func NewLoader(pageSize int) *Loader {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Loader{pageSize: pageSize, page: 1}
}

func (l *Loader) PageSize() int   { return l.pageSize }
func (l *Loader) Page() int       { return l.page }
func (l *Loader) Query() string   { return l.query }
func (l *Loader) Token() Token    { return l.token }
func (l *Loader) Phase() Phase    { return l.phase }
func (l *Loader) Loading() bool   { return l.loading }
func (l *Loader) Total() int      { return l.total }
func (l *Loader) Err() error      { return l.err }
func (l *Loader) Len() int        { return len(l.items) }
func (l *Loader) TotalPages() int { return TotalPages(l.total, l.pageSize) }
func (l *Loader) CanNext() bool   { return CanNext(l.page, l.total, l.pageSize) }
func (l *Loader) CanPrev() bool   { return CanPrev(l.page) }

// Items returns a copy of the displayed entries.
func (l *Loader) Items() []model.Entry {
	out := make([]model.Entry, len(l.items))
	for i := range l.items {
		out[i] = l.items[i].Clone()
	}
	return out
}

func (l *Loader) Find(id string) (model.Entry, bool) {
	for _, e := range l.items {
		if e.ID == id {
			return e.Clone(), true
		}
	}
	return model.Entry{}, false
}

// SetPage moves to page p (clamped to >= 1). The caller issues the reload.
func (l *Loader) SetPage(p int) {
	if p < 1 {
		p = 1
	}
	l.page = p
}

// NextPage advances when the bounds allow it and reports whether the page changed.
func (l *Loader) NextPage() bool {
	if !l.CanNext() {
		return false
	}
	l.page++
	return true
}

func (l *Loader) PrevPage() bool {
	if !l.CanPrev() {
		return false
	}
	l.page--
	return true
}

// SetQuery records the search text and resets to the first page.
func (l *Loader) SetQuery(q string) {
	l.query = strings.TrimSpace(q)
	l.page = 1
}

// Begin issues a new request token and marks the list as loading.
func (l *Loader) Begin() Request {
	l.token++
	l.loading = true
	l.phase = PhaseLoading
	return Request{Token: l.token, Page: l.page, Limit: l.pageSize, Query: l.query}
}

// Resolve applies a response. Stale responses are dropped without touching any state and
// Resolve reports false. A failed or malformed load empties the list instead of leaving
// old rows on screen.
func (l *Loader) Resolve(r Response) bool {
	if r.Token != l.token {
		return false
	}
	l.loading = false
	if r.Err != nil {
		l.items = nil
		l.total = 0
		l.err = r.Err
		l.phase = PhaseErrored
		return true
	}
	l.items = make([]model.Entry, len(r.Page.Items))
	for i := range r.Page.Items {
		l.items[i] = r.Page.Items[i].Clone()
	}
	l.total = r.Page.Total
	l.err = nil
	l.phase = PhaseLoaded
	return true
}

// View is the displayed part of a loader, the state optimistic commands operate on.
type View struct {
	Token Token
	Items []model.Entry
	Total int
}

func (v View) Clone() View {
	out := View{Token: v.Token, Total: v.Total, Items: make([]model.Entry, len(v.Items))}
	for i := range v.Items {
		out.Items[i] = v.Items[i].Clone()
	}
	return out
}

func (v View) index(id string) int {
	for i := range v.Items {
		if v.Items[i].ID == id {
			return i
		}
	}
	return -1
}

func (l *Loader) View() View {
	return View{Token: l.token, Items: l.Items(), Total: l.total}
}

// Show replaces the displayed rows. The request token is not affected: a view computed
// against an older token never rewinds the loader.
func (l *Loader) Show(v View) {
	v = v.Clone()
	l.items = v.Items
	l.total = v.Total
}

package tui

import (
	"context"
	"time"

	"folio-cli/internal/api"
	"folio-cli/internal/listctl"
	"folio-cli/internal/model"
	"folio-cli/internal/store"

	tea "github.com/charmbracelet/bubbletea"
)

// Client is the part of the portfolio API the TUI drives. *api.Client implements it.
type Client interface {
	Me(ctx context.Context) (model.User, error)
	Login(ctx context.Context, email, password string) error
	Logout(ctx context.Context) error
	List(ctx context.Context, kind model.Kind, p api.ListParams) (model.ListPage, error)
	Get(ctx context.Context, kind model.Kind, id string) (model.Entry, error)
	Update(ctx context.Context, kind model.Kind, id string, body any) error
	SetFlag(ctx context.Context, kind model.Kind, id, field string, value bool) error
	Delete(ctx context.Context, kind model.Kind, id string) error
	UpdatePriorities(ctx context.Context, updates []model.PriorityUpdate) error
}

// reorderPageSize is the page size used to pull the whole project collection.
const reorderPageSize = 100

func checkSessionCmd(ctx context.Context, c Client) tea.Cmd {
	return func() tea.Msg {
		u, err := c.Me(ctx)
		return sessionMsg{user: u, err: err}
	}
}

func loginCmd(ctx context.Context, c Client, st store.Store, email, password string) tea.Cmd {
	return func() tea.Msg {
		if err := c.Login(ctx, email, password); err != nil {
			return loginDoneMsg{email: email, err: err}
		}
		recordEvent(ctx, st, model.Event{Type: "auth.login", Payload: map[string]any{"email": email}})
		return loginDoneMsg{email: email}
	}
}

// logoutCmd ends the session on the server (best effort) and always drops local cookies.
func logoutCmd(ctx context.Context, c Client, jar CookieClearer) tea.Cmd {
	return func() tea.Msg {
		_ = c.Logout(ctx)
		if jar != nil {
			_ = jar.Clear(ctx)
		}
		return logoutDoneMsg{}
	}
}

func loadListCmd(ctx context.Context, c Client, kind model.Kind, req listctl.Request) tea.Cmd {
	return func() tea.Msg {
		page, err := c.List(ctx, kind, api.ListParams{Page: req.Page, Limit: req.Limit, Query: req.Query})
		return listLoadedMsg{kind: kind, resp: listctl.Response{Token: req.Token, Page: page, Err: err}}
	}
}

func searchDebounceCmd(kind model.Kind, seq uint64, delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return searchDebounceMsg{kind: kind, seq: seq}
	})
}

func toggleCmd(ctx context.Context, c Client, st store.Store, kind model.Kind, id, field string, value bool) tea.Cmd {
	return func() tea.Msg {
		err := c.SetFlag(ctx, kind, id, field, value)
		if err == nil {
			recordEvent(ctx, st, model.Event{Type: "entry.toggle", Kind: kind, EntityID: id, Payload: map[string]any{field: value}})
		}
		return toggleDoneMsg{kind: kind, id: id, field: field, err: err}
	}
}

func saveDraftCmd(ctx context.Context, c Client, st store.Store, kind model.Kind, id string, d model.Draft) tea.Cmd {
	return func() tea.Msg {
		err := c.Update(ctx, kind, id, d)
		if err == nil {
			recordEvent(ctx, st, model.Event{Type: "entry.update", Kind: kind, EntityID: id, Payload: d})
		}
		return saveDoneMsg{kind: kind, id: id, err: err}
	}
}

func deleteCmd(ctx context.Context, c Client, st store.Store, kind model.Kind, id, title string) tea.Cmd {
	return func() tea.Msg {
		err := c.Delete(ctx, kind, id)
		if err == nil {
			recordEvent(ctx, st, model.Event{Type: "entry.delete", Kind: kind, EntityID: id, Payload: map[string]any{"title": title}})
		}
		return deleteDoneMsg{kind: kind, id: id, title: title, err: err}
	}
}

func detailCmd(ctx context.Context, c Client, kind model.Kind, id string) tea.Cmd {
	return func() tea.Msg {
		e, err := c.Get(ctx, kind, id)
		return detailLoadedMsg{kind: kind, id: id, entry: e, err: err}
	}
}

// loadReorderCmd pulls every project so the whole ordering can be edited at once.
func loadReorderCmd(ctx context.Context, c Client, token uint64) tea.Cmd {
	return func() tea.Msg {
		var all []model.Entry
		for page := 1; ; page++ {
			p, err := c.List(ctx, model.KindProjects, api.ListParams{Page: page, Limit: reorderPageSize})
			if err != nil {
				return reorderLoadedMsg{token: token, err: err}
			}
			all = append(all, p.Items...)
			if len(p.Items) == 0 || len(all) >= p.Total || !listctl.CanNext(page, p.Total, reorderPageSize) {
				break
			}
		}
		return reorderLoadedMsg{token: token, items: all}
	}
}

func savePrioritiesCmd(ctx context.Context, c Client, st store.Store, updates []model.PriorityUpdate) tea.Cmd {
	return func() tea.Msg {
		err := c.UpdatePriorities(ctx, updates)
		if err == nil {
			recordEvent(ctx, st, model.Event{Type: "projects.reorder", Kind: model.KindProjects, Payload: updates})
		}
		return reorderSavedMsg{err: err}
	}
}

// recordEvent appends to the local event log. The log is informational; failures are
// ignored.
func recordEvent(ctx context.Context, st store.Store, ev model.Event) {
	if st.Dir == "" {
		return
	}
	_, _ = st.AppendEvent(ctx, ev)
}

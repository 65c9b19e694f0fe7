package tui

import (
	"folio-cli/internal/listctl"
	"folio-cli/internal/model"
)

type view int

const (
	viewChecking view = iota
	viewLogin
	viewList
	viewReorder
)

func (v view) String() string {
	switch v {
	case viewLogin:
		return "login"
	case viewList:
		return "list"
	case viewReorder:
		return "reorder"
	default:
		return "checking"
	}
}

type modalKind int

const (
	modalNone modalKind = iota
	modalConfirmDelete
	modalConfirmDiscardOrder
)

type focusKind int

const (
	focusList focusKind = iota
	focusSearch
	focusEdit
)

// editField is the quick-edit input that has focus.
type editField int

const (
	editTitle editField = iota
	editSlug
	editTags
	editSummary
	editFieldCount
)

func (f editField) label() string {
	switch f {
	case editTitle:
		return "Title"
	case editSlug:
		return "Slug"
	case editTags:
		return "Tags"
	default:
		return "Summary"
	}
}

// Messages produced by commands. Every response that belongs to a request carries the
// request's identity so stale results can be recognized.

type sessionMsg struct {
	user model.User
	err  error
}

type loginDoneMsg struct {
	email string
	err   error
}

type logoutDoneMsg struct{}

type listLoadedMsg struct {
	kind model.Kind
	resp listctl.Response
}

type searchDebounceMsg struct {
	kind model.Kind
	seq  uint64
}

type toggleDoneMsg struct {
	kind  model.Kind
	id    string
	field string
	err   error
}

type saveDoneMsg struct {
	kind model.Kind
	id   string
	err  error
}

type deleteDoneMsg struct {
	kind  model.Kind
	id    string
	title string
	err   error
}

type reorderLoadedMsg struct {
	token uint64
	items []model.Entry
	err   error
}

type reorderSavedMsg struct {
	err error
}

type detailLoadedMsg struct {
	kind  model.Kind
	id    string
	entry model.Entry
	err   error
}

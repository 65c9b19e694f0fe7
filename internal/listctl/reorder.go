package listctl

import (
	"sort"

	"folio-cli/internal/model"
)

// DefaultPriority sorts entries without a priority last.
const DefaultPriority = 999

// SortByPriority sorts in place: priority ascending, then CreatedAt, then ID.
func SortByPriority(items []model.Entry) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		pa, pb := a.PriorityOr(DefaultPriority), b.PriorityOr(DefaultPriority)
		if pa != pb {
			return pa < pb
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
}

// Reorder is the local ordering of a project list. Every move renumbers priorities to
// 1..N in list order; nothing is sent until the caller saves Updates().
type Reorder struct {
	items []model.Entry
	dirty bool
}

func NewReorder(items []model.Entry) *Reorder {
	r := &Reorder{}
	r.Load(items)
	return r
}

// Load replaces the items with a fresh server copy and clears the dirty flag.
func (r *Reorder) Load(items []model.Entry) {
	r.items = make([]model.Entry, len(items))
	for i := range items {
		r.items[i] = items[i].Clone()
	}
	SortByPriority(r.items)
	r.dirty = false
}

func (r *Reorder) Len() int    { return len(r.items) }
func (r *Reorder) Dirty() bool { return r.dirty }

func (r *Reorder) Items() []model.Entry {
	out := make([]model.Entry, len(r.items))
	for i := range r.items {
		out[i] = r.items[i].Clone()
	}
	return out
}

func (r *Reorder) IndexOf(id string) int {
	for i := range r.items {
		if r.items[i].ID == id {
			return i
		}
	}
	return -1
}

// Move places the item at from at index to. Out-of-range indexes and no-op moves return
// false and leave the order untouched.
func (r *Reorder) Move(from, to int) bool {
	n := len(r.items)
	if from < 0 || from >= n || to < 0 || to >= n || from == to {
		return false
	}
	moved := r.items[from]
	rest := append(append([]model.Entry{}, r.items[:from]...), r.items[from+1:]...)
	out := make([]model.Entry, 0, n)
	out = append(out, rest[:to]...)
	out = append(out, moved)
	out = append(out, rest[to:]...)
	r.items = out
	r.renumber()
	r.dirty = true
	return true
}

func (r *Reorder) renumber() {
	for i := range r.items {
		p := i + 1
		r.items[i].Priority = &p
	}
}

// Updates lists every item with its index-derived priority.
func (r *Reorder) Updates() []model.PriorityUpdate {
	out := make([]model.PriorityUpdate, 0, len(r.items))
	for i, e := range r.items {
		out = append(out, model.PriorityUpdate{ID: e.ID, Priority: i + 1})
	}
	return out
}

// MarkSaved records a successful save.
func (r *Reorder) MarkSaved() {
	r.renumber()
	r.dirty = false
}

package listctl

import (
	"math/rand"
	"testing"
	"time"

	"folio-cli/internal/model"
)

func prio(v int) *int { return &v }

func assertContiguous(t *testing.T, r *Reorder) {
	t.Helper()
	for i, e := range r.Items() {
		if e.PriorityOr(-1) != i+1 {
			t.Fatalf("priority at index %d = %d; want %d", i, e.PriorityOr(-1), i+1)
		}
	}
	for i, u := range r.Updates() {
		if u.Priority != i+1 {
			t.Fatalf("update %d priority = %d", i, u.Priority)
		}
	}
}

func TestReorder_LoadSortsWithDefaultPriorityLast(t *testing.T) {
	t.Parallel()

	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	r := NewReorder([]model.Entry{
		{ID: "none-new", CreatedAt: base.Add(2 * time.Hour)},
		{ID: "p2", Priority: prio(2)},
		{ID: "none-old", CreatedAt: base},
		{ID: "p1", Priority: prio(1)},
	})
	want := []string{"p1", "p2", "none-old", "none-new"}
	got := ids(r.Items())
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v; want %v", got, want)
		}
	}
	if r.Dirty() {
		t.Fatalf("fresh load must not be dirty")
	}
}

func TestReorder_MovesKeepPrioritiesContiguous(t *testing.T) {
	t.Parallel()

	var entries []model.Entry
	for i := 0; i < 7; i++ {
		entries = append(entries, model.Entry{ID: string(rune('a' + i)), Priority: prio(10 * (i + 1))})
	}
	r := NewReorder(entries)
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 200; i++ {
		r.Move(rng.Intn(r.Len()), rng.Intn(r.Len()))
		if r.Dirty() {
			assertContiguous(t, r)
		}
	}
	if r.Len() != 7 {
		t.Fatalf("moves must not add or drop items; len=%d", r.Len())
	}
}

func TestReorder_MoveSemantics(t *testing.T) {
	t.Parallel()

	r := NewReorder([]model.Entry{
		{ID: "a", Priority: prio(1)},
		{ID: "b", Priority: prio(2)},
		{ID: "c", Priority: prio(3)},
	})
	for _, bad := range [][2]int{{-1, 0}, {0, 3}, {1, 1}} {
		if r.Move(bad[0], bad[1]) {
			t.Fatalf("Move(%d, %d) should be a no-op", bad[0], bad[1])
		}
	}
	if r.Dirty() {
		t.Fatalf("no-op moves must not mark dirty")
	}

	if !r.Move(2, 0) {
		t.Fatalf("expected move to succeed")
	}
	if got := ids(r.Items()); got[0] != "c" || got[1] != "a" || got[2] != "b" {
		t.Fatalf("unexpected order %v", got)
	}
	assertContiguous(t, r)
	if r.IndexOf("b") != 2 || r.IndexOf("zz") != -1 {
		t.Fatalf("IndexOf mismatch")
	}

	r.MarkSaved()
	if r.Dirty() {
		t.Fatalf("MarkSaved must clear dirty")
	}
}

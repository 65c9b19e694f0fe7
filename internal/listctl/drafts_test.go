package listctl

import (
	"errors"
	"testing"

	"folio-cli/internal/model"
)

func TestDrafts_EditsDoNotTouchLoadedRows(t *testing.T) {
	t.Parallel()

	l := NewLoader(10)
	loadedView(t, l, model.Entry{ID: "a", Title: "Alpha", Tags: []string{"x"}})
	row, _ := l.Find("a")

	var d Drafts
	d.Start(row)
	d.Update("a", func(dr *model.Draft) {
		dr.Title = "Alpha 2"
		dr.Tags = append(dr.Tags, "y")
	})

	shown, _ := l.Find("a")
	if shown.Title != "Alpha" || len(shown.Tags) != 1 {
		t.Fatalf("draft leaked into the loaded row: %+v", shown)
	}
	if got := d.Overlay(shown); got.Title != "Alpha 2" || len(got.Tags) != 2 {
		t.Fatalf("expected overlay to show draft; got %+v", got)
	}
	if got := d.Overlay(model.Entry{ID: "b", Title: "Beta"}); got.Title != "Beta" {
		t.Fatalf("overlay must only apply to the edited row")
	}

	d.Cancel()
	if d.Editing() {
		t.Fatalf("expected no edit after cancel")
	}
	if shown, _ := l.Find("a"); shown.Title != "Alpha" {
		t.Fatalf("cancel must leave the row as loaded")
	}
}

func TestDrafts_SwitchingRowsDiscardsDraft(t *testing.T) {
	t.Parallel()

	var d Drafts
	d.Start(model.Entry{ID: "a", Title: "A"})
	d.Update("a", func(dr *model.Draft) { dr.Title = "A*" })
	d.Start(model.Entry{ID: "b", Title: "B"})

	if _, ok := d.Draft("a"); ok {
		t.Fatalf("previous draft must be discarded")
	}
	if d.Update("a", func(dr *model.Draft) { dr.Title = "late" }) {
		t.Fatalf("updates for a row not being edited must be ignored")
	}
	dr, ok := d.Draft("b")
	if !ok || dr.Title != "B" {
		t.Fatalf("expected fresh draft for b; got %+v ok=%v", dr, ok)
	}
}

func TestDrafts_SaveOutcomes(t *testing.T) {
	t.Parallel()

	var d Drafts
	if _, _, err := d.BeginSave(); !errors.Is(err, ErrNotEditing) {
		t.Fatalf("expected ErrNotEditing; got %v", err)
	}

	d.Start(model.Entry{ID: "a", Title: "A"})
	d.Update("a", func(dr *model.Draft) { dr.Title = "  " })
	if _, _, err := d.BeginSave(); err == nil {
		t.Fatalf("expected blank title to be rejected")
	}
	d.Update("a", func(dr *model.Draft) { dr.Title = "A2" })

	id, body, err := d.BeginSave()
	if err != nil || id != "a" || body.Title != "A2" || !d.Saving() {
		t.Fatalf("BeginSave: id=%q body=%+v err=%v", id, body, err)
	}
	if d.SaveDone("a", errors.New("409 conflict")) {
		t.Fatalf("failed save must not request a reload")
	}
	if dr, ok := d.Draft("a"); !ok || dr.Title != "A2" || d.Err() == nil {
		t.Fatalf("failed save must keep the draft and error")
	}

	if _, _, err := d.BeginSave(); err != nil {
		t.Fatalf("retry BeginSave: %v", err)
	}
	if !d.SaveDone("a", nil) {
		t.Fatalf("successful save must request a reload")
	}
	if d.Editing() {
		t.Fatalf("successful save must discard the draft")
	}
	if d.SaveDone("a", nil) {
		t.Fatalf("late results for a closed edit are ignored")
	}
}

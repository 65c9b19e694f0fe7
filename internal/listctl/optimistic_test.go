package listctl

import (
	"context"
	"errors"
	"testing"

	"folio-cli/internal/model"
)

func loadedView(t *testing.T, l *Loader, entries ...model.Entry) View {
	t.Helper()
	l.Resolve(Response{Token: l.Begin().Token, Page: model.ListPage{Items: entries, Total: len(entries)}})
	return l.View()
}

func TestToggle_FailureRestoresSnapshot(t *testing.T) {
	t.Parallel()

	l := NewLoader(10)
	before := loadedView(t, l, model.Entry{ID: "a", Active: false}, model.Entry{ID: "b", Active: true})

	cmd := ToggleCommand("a", FieldActive, true, func(context.Context) error { return errors.New("500") })
	next, pending := Begin(before, cmd)
	if v, _ := FlagValue(next, "a", FieldActive); !v {
		t.Fatalf("expected optimistic value applied immediately")
	}
	if v, _ := FlagValue(before, "a", FieldActive); v {
		t.Fatalf("Begin must not mutate the input state")
	}
	l.Show(next)

	err := pending.Attempt(t.Context())
	l.Show(pending.Settle(l.View(), err))

	e, _ := l.Find("a")
	if e.Active {
		t.Fatalf("expected rollback to the pre-toggle value")
	}
	if other, _ := l.Find("b"); !other.Active {
		t.Fatalf("rollback must not touch other rows")
	}
}

func TestToggle_SuccessKeepsValue(t *testing.T) {
	t.Parallel()

	l := NewLoader(10)
	v := loadedView(t, l, model.Entry{ID: "a"})
	called := 0
	out, err := Run(t.Context(), v, ToggleCommand("a", FieldFeatured, true, func(context.Context) error {
		called++
		return nil
	}))
	if err != nil || called != 1 {
		t.Fatalf("expected one successful attempt; err=%v called=%d", err, called)
	}
	if got, _ := FlagValue(out, "a", FieldFeatured); !got {
		t.Fatalf("expected featured to stay set")
	}
}

func TestToggle_FailureAfterReloadRevertsOnlyThatField(t *testing.T) {
	t.Parallel()

	l := NewLoader(10)
	before := loadedView(t, l, model.Entry{ID: "a", Title: "old"})
	next, pending := Begin(before, ToggleCommand("a", FieldActive, true, nil))
	l.Show(next)

	// A reload lands while the toggle is in flight.
	current := loadedView(t, l,
		model.Entry{ID: "a", Title: "renamed", Active: true},
		model.Entry{ID: "z", Title: "new"},
	)
	settled := pending.Settle(current, errors.New("timeout"))
	if len(settled.Items) != 2 || settled.Token != current.Token {
		t.Fatalf("rollback must keep the newer list; got %+v", settled)
	}
	if settled.Items[0].Title != "renamed" || settled.Items[0].Active {
		t.Fatalf("expected only active reverted on the reloaded row; got %+v", settled.Items[0])
	}
}

func TestFlagValue_Errors(t *testing.T) {
	t.Parallel()

	v := View{Items: []model.Entry{{ID: "a"}}}
	if _, err := FlagValue(v, "missing", FieldActive); err == nil {
		t.Fatalf("expected error for an unknown row")
	}
	if _, err := FlagValue(v, "a", "pinned"); err == nil {
		t.Fatalf("expected error for an unknown field")
	}
}

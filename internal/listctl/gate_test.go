package listctl

import (
	"context"
	"errors"
	"testing"

	"folio-cli/internal/model"
)

type fakeChecker struct {
	user  model.User
	err   error
	calls int
}

func (f *fakeChecker) Me(context.Context) (model.User, error) {
	f.calls++
	return f.user, f.err
}

func TestGate_FailureIsTerminal(t *testing.T) {
	t.Parallel()

	var g Gate
	if g.State() != GateChecking {
		t.Fatalf("zero gate should be checking")
	}
	fc := &fakeChecker{err: errors.New("401")}
	if g.Check(t.Context(), fc) {
		t.Fatalf("expected failed check")
	}
	if g.State() != GateRedirected {
		t.Fatalf("expected redirected; got %v", g.State())
	}
	// A late success does not reopen the page.
	if g.Resolve(model.User{Email: "x"}, nil) || g.Authenticated() {
		t.Fatalf("redirected gate must stay closed")
	}

	g.Reset()
	fc.err = nil
	fc.user = model.User{Email: "admin@example.com"}
	if !g.Check(t.Context(), fc) || g.User().Email != "admin@example.com" {
		t.Fatalf("expected authenticated after reset; state=%v", g.State())
	}
	if fc.calls != 2 {
		t.Fatalf("expected two checks; got %d", fc.calls)
	}
}

package listctl

import (
	"context"
	"fmt"
)

// Command is a mutation applied to local state before the server confirms it.
// Apply produces the optimistic state. Attempt performs the server call. Revert undoes the
// change when Attempt fails; it receives the state at settle time and the snapshot taken
// before Apply. A nil Revert restores the snapshot.
type Command[S any] struct {
	Apply   func(S) S
	Attempt func(ctx context.Context) error
	Revert  func(current, before S) S
}

// Pending is an applied command waiting for its server outcome.
type Pending[S any] struct {
	before S
	cmd    Command[S]
}

// Begin applies cmd and returns the optimistic state.
func Begin[S any](state S, cmd Command[S]) (S, Pending[S]) {
	return cmd.Apply(state), Pending[S]{before: state, cmd: cmd}
}

// Attempt runs the server call.
func (p Pending[S]) Attempt(ctx context.Context) error {
	if p.cmd.Attempt == nil {
		return nil
	}
	return p.cmd.Attempt(ctx)
}

// Settle keeps current on success and rolls back on failure.
func (p Pending[S]) Settle(current S, err error) S {
	if err == nil {
		return current
	}
	if p.cmd.Revert == nil {
		return p.before
	}
	return p.cmd.Revert(current, p.before)
}

// Run is Begin, Attempt and Settle in one call.
func Run[S any](ctx context.Context, state S, cmd Command[S]) (S, error) {
	next, p := Begin(state, cmd)
	err := p.Attempt(ctx)
	return p.Settle(next, err), err
}

// Flag fields accepted by ToggleCommand.
const (
	FieldActive   = "active"
	FieldFeatured = "featured"
)

// ToggleCommand flips one boolean field of one row. If the list was not reloaded while the
// call was in flight, failure restores the whole snapshot; otherwise only that field of the
// row (if still shown) is put back.
func ToggleCommand(id, field string, value bool, attempt func(ctx context.Context) error) Command[View] {
	set := func(v View, val bool) View {
		out := v.Clone()
		if i := out.index(id); i >= 0 {
			switch field {
			case FieldActive:
				out.Items[i].Active = val
			case FieldFeatured:
				out.Items[i].Featured = val
			}
		}
		return out
	}
	return Command[View]{
		Apply:   func(v View) View { return set(v, value) },
		Attempt: attempt,
		Revert: func(current, before View) View {
			if current.Token == before.Token {
				return before.Clone()
			}
			return set(current, !value)
		},
	}
}

// FlagValue reads a toggleable field.
func FlagValue(v View, id, field string) (bool, error) {
	i := v.index(id)
	if i < 0 {
		return false, fmt.Errorf("entry not shown: %s", id)
	}
	switch field {
	case FieldActive:
		return v.Items[i].Active, nil
	case FieldFeatured:
		return v.Items[i].Featured, nil
	default:
		return false, fmt.Errorf("unknown flag: %q", field)
	}
}

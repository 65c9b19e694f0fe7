package listctl

import (
	"context"

	"folio-cli/internal/model"
)

type GateState int

const (
	GateChecking GateState = iota
	GateAuthenticated
	GateRedirected
)

// Checker is the "who am I" call.
type Checker interface {
	Me(ctx context.Context) (model.User, error)
}

// Gate runs the one-shot session check on page mount. A failed check is terminal for the
// page: nothing else loads until the user signs in again (Reset).
type Gate struct {
	state GateState
	user  model.User
}

func (g *Gate) State() GateState    { return g.state }
func (g *Gate) User() model.User    { return g.user }
func (g *Gate) Authenticated() bool { return g.state == GateAuthenticated }

// Resolve records the outcome of the check and reports whether the caller may proceed.
// Outcomes arriving after the gate has settled are ignored.
func (g *Gate) Resolve(user model.User, err error) bool {
	if g.state != GateChecking {
		return g.state == GateAuthenticated
	}
	if err != nil {
		g.state = GateRedirected
		return false
	}
	g.state = GateAuthenticated
	g.user = user
	return true
}

// Check performs the credential check inline.
func (g *Gate) Check(ctx context.Context, c Checker) bool {
	u, err := c.Me(ctx)
	return g.Resolve(u, err)
}

// Reset re-arms the gate after a fresh sign-in.
func (g *Gate) Reset() {
	g.state = GateChecking
	g.user = model.User{}
}

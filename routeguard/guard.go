package routeguard

import (
	"github.com/azcart/storefront-client/session"
)

// Requirement is the admission rule a protected view declares.
type Requirement int

const (
	// RequireAuthenticated admits any valid session regardless of role.
	RequireAuthenticated Requirement = iota
	// RequireUser admits only shopper sessions.
	RequireUser
	// RequireAdmin admits only admin sessions.
	RequireAdmin
)

// Outcome is what the navigation layer must do with the attempt.
type Outcome int

const (
	// Admit renders the requested view.
	Admit Outcome = iota
	// Redirect navigates to Decision.Target instead.
	Redirect
)

// Decision is the result of evaluating one navigation attempt.
type Decision struct {
	Outcome Outcome
	Target  string
}

// Guard decides route admission from the session store. It holds no state
// of its own: every navigation re-reads the store, because logout or a
// mid-flight eviction can change it between navigations.
type Guard struct {
	store *session.Store
}

// New builds a Guard over the given session store.
func New(store *session.Store) *Guard {
	return &Guard{store: store}
}

// Evaluate decides a navigation attempt against the required role.
//
// No usable credential redirects to login. A valid credential with the
// wrong role redirects to that role's own home rather than login - the
// session itself is fine, only the destination is not for it.
func (g *Guard) Evaluate(required Requirement) Decision {
	current := g.store.Get()

	if !current.Authenticated() {
		return Decision{Outcome: Redirect, Target: RouteLogin}
	}

	switch required {
	case RequireUser:
		if current.Role != session.RoleUser {
			return Decision{Outcome: Redirect, Target: RouteAdminHome}
		}
	case RequireAdmin:
		if current.Role != session.RoleAdmin {
			return Decision{Outcome: Redirect, Target: RouteWelcome}
		}
	}

	return Decision{Outcome: Admit}
}

// Home returns the landing view for the current session: the role's home
// when signed in, the login view otherwise.
func (g *Guard) Home() string {
	current := g.store.Get()
	switch {
	case current.Authenticated() && current.Role == session.RoleAdmin:
		return RouteAdminHome
	case current.Authenticated():
		return RouteWelcome
	default:
		return RouteLogin
	}
}

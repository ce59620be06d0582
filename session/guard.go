package session

import "ratehub/auth"

// LoginPath is where unauthenticated navigation lands.
const LoginPath = "/auth"

// OutcomeKind enumerates what the shell should do with a navigation.
type OutcomeKind int

const (
	// OutcomeWait means the cache is still hydrating; show a neutral
	// waiting indicator and nothing else.
	OutcomeWait OutcomeKind = iota
	// OutcomeRedirectToLogin means there is no session; From preserves the
	// originally requested location for an optional post-login redirect.
	OutcomeRedirectToLogin
	// OutcomeRender means the guarded content may be shown.
	OutcomeRender
	// OutcomeRedirect means the session's role may not see the target;
	// To carries the role's home path.
	OutcomeRedirect
)

// Outcome is the guard's view decision for a single navigation.
type Outcome struct {
	Kind OutcomeKind
	From string
	To   string
}

// Guard decides, for every navigation, whether guarded content renders or a
// redirect fires. It holds no state of its own: each Resolve reads the
// session cache fresh, so the decision tracks hydration, login and logout
// without any internal timer or polling.
type Guard struct {
	cache *Store
}

// NewGuard creates a guard reading from the given session cache.
func NewGuard(cache *Store) *Guard {
	return &Guard{cache: cache}
}

// Resolve computes the view decision for navigating to target under the
// given role restriction. A denied role never renders, not even transiently:
// the decision is made before any content is produced.
func (g *Guard) Resolve(target string, allowed []auth.Role) Outcome {
	if g.cache.Loading() {
		return Outcome{Kind: OutcomeWait}
	}

	switch decision := Authorize(g.cache.Get(), allowed); decision.Kind {
	case DecisionUnauthenticated:
		return Outcome{Kind: OutcomeRedirectToLogin, From: target, To: LoginPath}
	case DecisionAllowed:
		return Outcome{Kind: OutcomeRender}
	case DecisionDenied:
		return Outcome{Kind: OutcomeRedirect, To: decision.RedirectTo}
	default:
		panic("session: unreachable decision")
	}
}

package session

import (
	"fmt"

	"ratehub/auth"
)

// DecisionKind enumerates authorization outcomes.
type DecisionKind int

const (
	// DecisionUnauthenticated means there is no usable session; the caller
	// must send the user to the login surface.
	DecisionUnauthenticated DecisionKind = iota
	// DecisionAllowed means the session may access the target.
	DecisionAllowed
	// DecisionDenied means the session's role is outside the allowed set;
	// RedirectTo carries the role's own home path.
	DecisionDenied
)

// Decision is the result of an authorization check.
type Decision struct {
	Kind       DecisionKind
	RedirectTo string
}

// Authorize maps a session and an optional role restriction to a decision.
// It is pure: no side effects, same inputs always give the same output.
//
// A session whose role is empty is treated as unauthenticated — a descriptor
// without a role must never pass a role gate.
func Authorize(sess *Session, allowed []auth.Role) Decision {
	if sess == nil || sess.User.Role == "" {
		return Decision{Kind: DecisionUnauthenticated}
	}

	if len(allowed) == 0 {
		return Decision{Kind: DecisionAllowed}
	}

	for _, role := range allowed {
		if sess.User.Role == role {
			return Decision{Kind: DecisionAllowed}
		}
	}

	return Decision{
		Kind:       DecisionDenied,
		RedirectTo: HomePath(sess.User.Role),
	}
}

// HomePath maps each role to its dashboard path. The mapping is a bijection
// over the closed role enum; any other value is a programming error and
// panics rather than silently defaulting.
func HomePath(role auth.Role) string {
	switch role {
	case auth.RoleAdmin:
		return "/admin"
	case auth.RoleOwner:
		return "/owner"
	case auth.RoleUser:
		return "/user"
	default:
		panic(fmt.Sprintf("session: unknown role %q", role))
	}
}

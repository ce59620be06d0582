// Package session is the client-side session core: it issues sessions
// against the HTTP API, caches them in a persisted single-writer store, and
// answers role-based navigation decisions for whatever shell hosts it.
package session

import "ratehub/auth"

// UserDescriptor mirrors the server's public user shape. It carries no
// password material.
type UserDescriptor struct {
	ID    string    `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
	Role  auth.Role `json:"role"`
}

// Session is the authenticated identity plus bearer token bound to the
// current client runtime.
type Session struct {
	User  UserDescriptor `json:"user"`
	Token string         `json:"token"`
}

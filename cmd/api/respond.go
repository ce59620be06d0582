package main

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"ratehub/auth"
	"ratehub/rating"
	"ratehub/store"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeDomainError translates sentinel errors from the domain services into
// HTTP statuses. Anything unrecognized is logged and reported as a 500
// without leaking internals.
func (s *Server) writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "Invalid email or password")
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrTokenRevoked):
		writeError(w, http.StatusUnauthorized, "Invalid or expired token")
	case errors.Is(err, auth.ErrNameLength),
		errors.Is(err, auth.ErrInvalidEmail),
		errors.Is(err, auth.ErrWeakPassword),
		errors.Is(err, auth.ErrAddressTooLong),
		errors.Is(err, auth.ErrInvalidRole),
		errors.Is(err, rating.ErrValueOutOfRange),
		errors.Is(err, rating.ErrCommentTooLong):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, auth.ErrAdminSignupForbidden):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, auth.ErrDuplicateEmail),
		errors.Is(err, store.ErrOwnerHasStore),
		errors.Is(err, rating.ErrAlreadyRated):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, auth.ErrUserNotFound),
		errors.Is(err, store.ErrNotFound),
		errors.Is(err, rating.ErrStoreNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		s.log.Error("internal error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}

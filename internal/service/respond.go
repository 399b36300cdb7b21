// Package service exposes the group expense ledger over JSON HTTP. Services
// load a Group aggregate from storage, run the pure engine packages on it,
// persist the delta, and render the result; they own authorization and the
// per-group write serialization the engine requires.
package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/junman99/fingrow-sub006/internal/auth"
	"github.com/junman99/fingrow-sub006/internal/calculator"
	"github.com/junman99/fingrow-sub006/internal/ledger"
	"github.com/junman99/fingrow-sub006/internal/storage"
)

// ErrForbidden is returned when a user touches a group they do not own.
var ErrForbidden = errors.New("you do not have access to this group")

// errBadRequest wraps malformed request bodies so they map to 400.
type errBadRequest struct{ err error }

func (e errBadRequest) Error() string { return e.err.Error() }

func badRequest(err error) error { return errBadRequest{err: err} }

func badRequestf(format string, args ...any) error {
	return errBadRequest{err: fmt.Errorf(format, args...)}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		if err := json.NewEncoder(w).Encode(v); err != nil {
			slog.Error("Failed to encode response", "error", err)
		}
	}
}

// writeError maps engine and storage errors onto HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	var br errBadRequest

	switch {
	case errors.As(err, &br),
		errors.Is(err, ledger.ErrInvalidInput),
		errors.Is(err, calculator.ErrInvalidSplitInput),
		errors.Is(err, auth.ErrWeakPassword):
		status = http.StatusBadRequest
	case errors.Is(err, ledger.ErrNotFound), errors.Is(err, storage.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrMissingToken):
		status = http.StatusUnauthorized
	case errors.Is(err, auth.ErrEmailExists):
		status = http.StatusConflict
	}

	if status == http.StatusInternalServerError {
		slog.Error("Internal error", "error", err)
		writeJSON(w, status, map[string]string{"error": "internal error"})
		return
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return badRequest(err)
	}
	return nil
}

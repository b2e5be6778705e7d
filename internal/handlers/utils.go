package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/taskvault/apiserver/internal/auth"
	"github.com/taskvault/apiserver/internal/store"
)

type contextKey string

const (
	contextClaimsKey contextKey = "claims"
	contextTokenKey  contextKey = "token"
)

// ErrorResponse is a simple error payload. No internal detail ever
// crosses the HTTP boundary.
type ErrorResponse struct {
	Error string `json:"error"`
}

func claimsFromContext(ctx context.Context) (auth.Claims, bool) {
	claims, ok := ctx.Value(contextClaimsKey).(auth.Claims)
	return claims, ok
}

func tokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(contextTokenKey).(string)
	return token, ok
}

func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}

// writeStoreError maps a store failure to its status code: ErrNotFound to
// 404, ErrDuplicate to 400, anything else to 500 with a generic message.
func writeStoreError(w http.ResponseWriter, err error, notFoundMessage string) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, notFoundMessage)
	case errors.Is(err, store.ErrDuplicate):
		writeError(w, http.StatusBadRequest, "already exists")
	default:
		writeError(w, http.StatusInternalServerError, "server error")
	}
}

package rpc

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/mvcarvalho/cpf-auth/auth"
)

type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func respondError(w http.ResponseWriter, err error) {
	authErr := asAuthError(err)

	body := errorBody{Message: authErr.Message()}
	switch {
	case authErr.Code != "":
		body.Error = authErr.Code
	case authErr.Kind == auth.KindUnavailable:
		// Raw error detail for operator diagnosis; responses are assumed to
		// reach trusted operators or be filtered upstream.
		if cause := errors.Unwrap(authErr); cause != nil {
			body.Error = cause.Error()
		}
	}

	respondJSON(w, statusFor(authErr.Kind), body)
}

func asAuthError(err error) *auth.Error {
	var authErr *auth.Error
	if errors.As(err, &authErr) {
		return authErr
	}
	return auth.ErrUnavailable.WithCausef("%w", err)
}

// statusFor is a total mapping over the closed kind set; no other place maps
// failures to status codes.
func statusFor(kind auth.Kind) int {
	switch kind {
	case auth.KindMissingBody, auth.KindMissingCPF, auth.KindInvalidCPF,
		auth.KindMalformedRequest, auth.KindAuthFailed:
		return http.StatusBadRequest
	case auth.KindNotFound:
		return http.StatusNotFound
	case auth.KindConflict, auth.KindUnavailable:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// decodeJSON distinguishes an absent body from an undecodable one; both are
// client errors, but with different messages.
func decodeJSON(r *http.Request, v interface{}) *auth.Error {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return auth.ErrMissingBody
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return auth.ErrMissingBody
	}
	if err := json.Unmarshal(body, v); err != nil {
		return auth.ErrInvalidBody
	}
	return nil
}

package rpc

import (
	"errors"
	"net/http"

	"github.com/mvcarvalho/cpf-auth/auth"
	"github.com/mvcarvalho/cpf-auth/cpf"
)

type LookupRequest struct {
	CPF string `json:"cpf"`
}

type LookupResponse struct {
	Message    string            `json:"message"`
	Username   string            `json:"username"`
	Attributes map[string]string `json:"attributes"`
}

// lookupHandler resolves a CPF to the customer record without driving any
// challenge. Unlike /auth, the CPF's check digits are always validated here.
func (s *RPC) lookupHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req LookupRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	if req.CPF == "" {
		respondError(w, auth.ErrMissingCPF)
		return
	}
	if !cpf.Valid(req.CPF) {
		respondError(w, auth.ErrInvalidCPF)
		return
	}

	customer, err := s.Resolver.Lookup(ctx, cpf.Normalize(req.CPF))
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrConflict):
			s.Log.Error().Str("cpf", req.CPF).Msg("multiple customer records share one CPF")
		case errors.Is(err, auth.ErrUnavailable):
			s.Log.Error().Err(err).Msg("customer lookup failed")
		}
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, LookupResponse{
		Message:    "Cliente encontrado.",
		Username:   customer.Username,
		Attributes: customer.Attributes,
	})
}

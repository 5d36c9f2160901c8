package rpc

import (
	"errors"
	"net/http"

	"github.com/mvcarvalho/cpf-auth/auth"
	"github.com/mvcarvalho/cpf-auth/cpf"
)

// AuthRequest is the request envelope. The phase is determined by the joint
// presence of otp and session; supplying only one of the two is rejected.
type AuthRequest struct {
	CPF     string `json:"cpf"`
	OTP     string `json:"otp,omitempty"`
	Session string `json:"session,omitempty"`
}

func (s *RPC) authHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req AuthRequest
	if err := decodeJSON(r, &req); err != nil {
		s.Metrics.ObserveAuth("unknown", "input_error")
		respondError(w, err)
		return
	}

	if req.CPF == "" {
		s.Metrics.ObserveAuth("unknown", "input_error")
		respondError(w, auth.ErrMissingCPF)
		return
	}
	if s.Config.Service.StrictCPF && !cpf.Valid(req.CPF) {
		s.Metrics.ObserveAuth("unknown", "input_error")
		respondError(w, auth.ErrInvalidCPF)
		return
	}

	phase, err := auth.NewPhase(req.OTP, req.Session)
	if err != nil {
		s.Metrics.ObserveAuth("unknown", "input_error")
		respondError(w, err)
		return
	}
	phaseLabel := "initiate"
	if phase.Kind == auth.PhaseVerify {
		phaseLabel = "verify"
	}

	identity, err := s.Resolver.Resolve(ctx, req.CPF)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrConflict):
			s.Log.Error().Str("cpf", req.CPF).Msg("multiple customer records share one CPF")
		case errors.Is(err, auth.ErrUnavailable):
			s.Log.Error().Err(err).Msg("customer lookup failed")
		}
		s.Metrics.ObserveAuth(phaseLabel, outcomeLabel(err))
		respondError(w, err)
		return
	}

	outcome, err := s.Orchestrator.Drive(ctx, identity, phase)
	if err != nil {
		s.Log.Warn().Err(err).Str("code", asAuthError(err).Code).Msg("challenge rejected")
		s.Metrics.ObserveAuth(phaseLabel, outcomeLabel(err))
		respondError(w, err)
		return
	}

	s.Metrics.ObserveAuth(phaseLabel, "success")
	respondJSON(w, http.StatusOK, outcome)
}

func outcomeLabel(err error) string {
	switch asAuthError(err).Kind {
	case auth.KindNotFound:
		return "not_found"
	case auth.KindConflict:
		return "conflict"
	case auth.KindUnavailable:
		return "unavailable"
	case auth.KindAuthFailed:
		return "rejected"
	default:
		return "input_error"
	}
}

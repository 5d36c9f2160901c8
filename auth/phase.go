package auth

// PhaseKind discriminates the two steps of the challenge-response protocol.
type PhaseKind uint

const (
	PhaseInitiate PhaseKind = iota
	PhaseVerify
)

// Phase is the explicit variant built once at the request boundary. Session
// and OTP are set only for PhaseVerify and are forwarded to the provider
// untouched.
type Phase struct {
	Kind    PhaseKind
	Session string
	OTP     string
}

func Initiate() Phase { return Phase{Kind: PhaseInitiate} }

func Verify(session, otp string) Phase {
	return Phase{Kind: PhaseVerify, Session: session, OTP: otp}
}

// NewPhase classifies a request: both otp and session present means verify,
// both absent means initiate. Supplying only one of the two is rejected
// rather than silently treated as a new initiate, which would discard the
// caller's outstanding challenge.
func NewPhase(otp, session string) (Phase, error) {
	switch {
	case otp != "" && session != "":
		return Verify(session, otp), nil
	case otp == "" && session == "":
		return Initiate(), nil
	default:
		return Phase{}, ErrMalformedRequest.WithCausef("otp and session must be supplied together")
	}
}

package auth

import "fmt"

// Kind is the closed set of failure classes. The request handler maps each
// kind to a status code; components never format responses themselves.
type Kind uint

const (
	KindUnknown Kind = iota
	KindMissingBody
	KindMissingCPF
	KindInvalidCPF
	KindMalformedRequest
	KindNotFound
	KindConflict
	KindUnavailable
	KindAuthFailed
)

// Error carries a failure kind, the user-facing message and, for challenge
// failures, the provider's error classification name in Code.
type Error struct {
	Kind Kind
	Code string

	msg   string
	cause error
}

var (
	ErrMissingBody      = &Error{Kind: KindMissingBody, msg: "Corpo da requisição ausente."}
	ErrInvalidBody      = &Error{Kind: KindMissingBody, msg: "Corpo da requisição não é um JSON válido."}
	ErrMissingCPF       = &Error{Kind: KindMissingCPF, msg: "O CPF é obrigatório."}
	ErrInvalidCPF       = &Error{Kind: KindInvalidCPF, msg: "CPF inválido."}
	ErrMalformedRequest = &Error{Kind: KindMalformedRequest, msg: "Requisição de verificação incompleta."}
	ErrNotFound         = &Error{Kind: KindNotFound, msg: "Cliente não encontrado."}
	ErrConflict         = &Error{Kind: KindConflict, msg: "Erro interno: Múltiplos registros encontrados."}
	ErrUnavailable      = &Error{Kind: KindUnavailable, msg: "Erro ao consultar cliente."}
	ErrAuthFailed       = &Error{Kind: KindAuthFailed, msg: "Falha na autenticação."}
)

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.cause)
	}
	return e.msg
}

// Message is the short human-readable text for response bodies, without the
// attached cause.
func (e *Error) Message() string { return e.msg }

func (e *Error) Unwrap() error { return e.cause }

// Is matches on Kind, so errors.Is(err, ErrNotFound) holds regardless of any
// attached cause or provider code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// WithCausef returns a copy of e with an attached cause. Supports %w.
func (e *Error) WithCausef(format string, args ...interface{}) *Error {
	err := *e
	err.cause = fmt.Errorf(format, args...)
	return &err
}

// WithCode returns a copy of e carrying the provider's error classification
// name.
func (e *Error) WithCode(code string) *Error {
	err := *e
	err.Code = code
	return &err
}

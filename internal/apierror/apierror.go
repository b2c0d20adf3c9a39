// Package apierror provides standardized error response structures for the API
// and the typed error kinds used by the workflow engine. All errors returned to
// clients go through this package to ensure consistency and to prevent leaking
// internal details (stack traces, DB errors, etc.).
package apierror

import (
	"errors"
	"fmt"
)

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// ValidationError wraps multiple field errors.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "Error de validacion", Fields: fields}
}

// ─── Error kinds ──────────────────────────────────────────────────────────────
// Every error the engine surfaces carries one of these kinds so that handlers
// can map it to an HTTP status and callers can decide whether to retry.

type Kind int

const (
	// KindValidacion: malformed or missing required fields. Recovered locally,
	// surfaced with the offending field.
	KindValidacion Kind = iota
	// KindAutorizacion: role, ownership, or status-precondition failure.
	// No mutation was performed.
	KindAutorizacion
	// KindConflicto: stale version on a concurrent write. The caller must
	// re-fetch and retry; never merged silently.
	KindConflicto
	// KindDependencia: persistence or attachment store unavailable. The
	// transition was aborted with nothing partially committed.
	KindDependencia
	// KindNotificacion: notification delivery failure. Logged only, never
	// propagated as a transition failure.
	KindNotificacion
)

func (k Kind) String() string {
	switch k {
	case KindValidacion:
		return "validacion"
	case KindAutorizacion:
		return "autorizacion"
	case KindConflicto:
		return "conflicto"
	case KindDependencia:
		return "dependencia"
	case KindNotificacion:
		return "notificacion"
	default:
		return "desconocido"
	}
}

// Error is the typed error returned by services. Campo is set only for
// validation errors, naming the offending field.
type Error struct {
	Kind   Kind
	Detail string
	Campo  string
	Err    error // wrapped cause, if any
}

func (e *Error) Error() string {
	if e.Campo != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Kind, e.Detail, e.Campo)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

func (e *Error) Unwrap() error { return e.Err }

// Validacion builds a validation error for a specific field.
func Validacion(campo, detail string) *Error {
	return &Error{Kind: KindValidacion, Detail: detail, Campo: campo}
}

// Autorizacion builds a denial. The engine guarantees no write happened.
func Autorizacion(detail string) *Error {
	return &Error{Kind: KindAutorizacion, Detail: detail}
}

// Conflicto builds a stale-version error.
func Conflicto(detail string) *Error {
	return &Error{Kind: KindConflicto, Detail: detail}
}

// Dependencia wraps an infrastructure failure.
func Dependencia(detail string, err error) *Error {
	return &Error{Kind: KindDependencia, Detail: detail, Err: err}
}

// EsKind reports whether err carries the given kind.
func EsKind(err error, k Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == k
}

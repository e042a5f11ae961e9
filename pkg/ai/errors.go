package ai

import "fmt"

// ErrorKind classifies completion failures. Callers may pick differentiated
// user-facing messages per kind; all kinds are recoverable from the handler's
// point of view.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindNetwork
	KindAuth
	KindRateLimit
	KindMalformedResponse
)

func (k ErrorKind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindAuth:
		return "auth"
	case KindRateLimit:
		return "rate_limit"
	case KindMalformedResponse:
		return "malformed_response"
	default:
		return "unknown"
	}
}

// Error is a classified completion failure.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("completion %s error: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("completion %s error: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

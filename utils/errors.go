package utils

import "fmt"

// ErrorKind classifies a failure from an external service so the caller
// can pick a policy: reject the input, retry, or give up.
type ErrorKind int

const (
	KindValidation ErrorKind = iota // bad input, do not retry
	KindTransient                   // network fault, 5xx, quota; retrying may help
	KindPermanent                   // the service rejected the request outright
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindTransient:
		return "transient"
	case KindPermanent:
		return "permanent"
	default:
		return "unknown"
	}
}

// ExternalError wraps a failure from a third-party API call.
type ExternalError struct {
	Service string
	Kind    ErrorKind
	Err     error
}

func (e *ExternalError) Error() string {
	return fmt.Sprintf("%s: %s error: %v", e.Service, e.Kind, e.Err)
}

func (e *ExternalError) Unwrap() error {
	return e.Err
}

func NewExternalError(service string, kind ErrorKind, err error) *ExternalError {
	return &ExternalError{Service: service, Kind: kind, Err: err}
}

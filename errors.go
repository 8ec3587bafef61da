package cohere

import (
	"errors"
	"fmt"
)

// Sentinel errors matched by the typed errors below through errors.Is.
var (
	ErrValidation = errors.New("validation error")
	ErrTransport  = errors.New("transport error")
	ErrDecode     = errors.New("decode error")
)

// ValidationError reports a caller contract violation detected before any
// network activity, such as a missing required parameter.
type ValidationError struct {
	Operation string
	Field     string
	Reason    string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("cohere: %s: %s", e.Operation, e.Reason)
	}
	return fmt.Sprintf("cohere: %s: %s: %s", e.Operation, e.Field, e.Reason)
}

// Is reports whether target is ErrValidation.
func (*ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// TransportError reports a connection failure, timeout, or non-2xx response.
// StatusCode and Body are set when the service answered.
type TransportError struct {
	Operation  string
	URL        string
	StatusCode int
	Body       []byte
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		if len(e.Body) > 0 {
			return fmt.Sprintf("cohere: %s: status %d: %s", e.Operation, e.StatusCode, e.Body)
		}
		return fmt.Sprintf("cohere: %s: status %d", e.Operation, e.StatusCode)
	}
	return fmt.Sprintf("cohere: %s: %v", e.Operation, e.Err)
}

// Unwrap returns the underlying transport failure, if any.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrTransport.
func (*TransportError) Is(target error) bool {
	return target == ErrTransport
}

// DecodeError reports a response that claimed a JSON content type but did not parse.
type DecodeError struct {
	Operation   string
	ContentType string
	Body        []byte
	Err         error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("cohere: %s: failed to decode %s response: %v", e.Operation, e.ContentType, e.Err)
}

// Unwrap returns the JSON parse failure.
func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrDecode.
func (*DecodeError) Is(target error) bool {
	return target == ErrDecode
}

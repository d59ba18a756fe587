package errors

import (
	"errors"
	"fmt"
	"time"
)

// Base error types
var (
	ErrUnknownAction   = errors.New("unknown action")
	ErrExecution       = errors.New("execution failed")
	ErrConfiguration   = errors.New("configuration error")
	ErrStreamParse     = errors.New("stream frame parse error")
	ErrStreamTransport = errors.New("stream transport error")
)

// ErrorType represents the category of error
type ErrorType string

const (
	ErrorTypeUnknownAction   ErrorType = "unknown_action"
	ErrorTypeExecution       ErrorType = "execution"
	ErrorTypeConfiguration   ErrorType = "configuration"
	ErrorTypeStreamParse     ErrorType = "stream_parse"
	ErrorTypeStreamTransport ErrorType = "stream_transport"
)

// ConsoleError is a structured error for console operations. Every error the
// controller renders inline is one of these.
type ConsoleError struct {
	Type      ErrorType
	Op        string // Operation that failed (e.g., "execute", "explain")
	Kind      string // Entity kind if applicable
	Err       error  // Underlying error
	Timestamp time.Time
}

func (e *ConsoleError) Error() string {
	if e.Kind != "" {
		return fmt.Sprintf("%s failed for %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *ConsoleError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is interface
func (e *ConsoleError) Is(target error) bool {
	if target == nil {
		return false
	}

	switch target {
	case ErrUnknownAction:
		return e.Type == ErrorTypeUnknownAction
	case ErrExecution:
		return e.Type == ErrorTypeExecution
	case ErrConfiguration:
		return e.Type == ErrorTypeConfiguration
	case ErrStreamParse:
		return e.Type == ErrorTypeStreamParse
	case ErrStreamTransport:
		return e.Type == ErrorTypeStreamTransport
	}

	return errors.Is(e.Err, target)
}

// NewConsoleError creates a new ConsoleError
func NewConsoleError(errorType ErrorType, op string, err error) *ConsoleError {
	return &ConsoleError{
		Type:      errorType,
		Op:        op,
		Err:       err,
		Timestamp: time.Now(),
	}
}

// WithKind adds the entity kind to the error
func (e *ConsoleError) WithKind(kind string) *ConsoleError {
	e.Kind = kind
	return e
}

// Helper functions

// UnknownAction reports an action key that has no catalog entry for kind.
func UnknownAction(kind, key string) error {
	return NewConsoleError(ErrorTypeUnknownAction, "lookup", fmt.Errorf("%q is not an action for %s", key, kind)).WithKind(kind)
}

// WrapExecutionError wraps a gateway failure (transport loss, backend error).
func WrapExecutionError(op string, err error) error {
	return NewConsoleError(ErrorTypeExecution, op, err)
}

// Configuration reports missing or invalid provider settings.
func Configuration(op, msg string) error {
	return NewConsoleError(ErrorTypeConfiguration, op, errors.New(msg))
}

// WrapConfigurationError wraps an underlying settings failure.
func WrapConfigurationError(op string, err error) error {
	return NewConsoleError(ErrorTypeConfiguration, op, err)
}

// WrapStreamParseError wraps a single undecodable frame.
func WrapStreamParseError(err error) error {
	return NewConsoleError(ErrorTypeStreamParse, "parse_frame", err)
}

// WrapStreamTransportError wraps a failure that ends the explanation session.
func WrapStreamTransportError(op string, err error) error {
	return NewConsoleError(ErrorTypeStreamTransport, op, err)
}

// TypeOf returns the category of err, or "" if it is not a ConsoleError.
func TypeOf(err error) ErrorType {
	var ce *ConsoleError
	if errors.As(err, &ce) {
		return ce.Type
	}
	return ""
}

// IsConfigurationError checks if an error is a configuration error
func IsConfigurationError(err error) bool {
	return err != nil && errors.Is(err, ErrConfiguration)
}

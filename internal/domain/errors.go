package domain

import (
	"context"
	"errors"
	"fmt"
)

// Sentinel errors for broad classification.
var (
	ErrInvalidConfig = errors.New("invalid config")
	ErrInvalidURL    = errors.New("invalid url")
	ErrAlreadyExists = errors.New("already exists")
	ErrNotWritable   = errors.New("destination not writable")
)

// ErrorKind is a coarse-grained categorization for errors.
type ErrorKind string

const (
	KindNetwork       ErrorKind = "network"
	KindFile          ErrorKind = "file"
	KindUnexpected    ErrorKind = "unexpected"
	KindValidation    ErrorKind = "validation"
	KindNotFound      ErrorKind = "not_found"
	KindInvalidConfig ErrorKind = "invalid_config"
)

// OpError wraps an underlying error with operation context and a kind.
type OpError struct {
	Op   string
	Kind ErrorKind
	Path string // Optional: relevant file path or URL
	Err  error
}

func (e *OpError) Error() string {
	if e == nil {
		return "<nil>"
	}

	base := fmt.Sprintf("%s: %s", e.Op, e.Kind)
	if e.Path != "" {
		base += fmt.Sprintf(" (path=%s)", e.Path)
	}
	if e.Err != nil {
		base += fmt.Sprintf(": %v", e.Err)
	}
	return base
}

func (e *OpError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// IsKind helps callers classify errors without depending on infra packages.
func IsKind(err error, kind ErrorKind) bool {
	var oe *OpError
	if errors.As(err, &oe) {
		return oe.Kind == kind
	}
	return false
}

// Classify folds any download error into one of the three kinds a user is shown:
// network, file or unexpected.
func Classify(err error) ErrorKind {
	if err == nil {
		return ""
	}
	var oe *OpError
	if errors.As(err, &oe) {
		switch oe.Kind {
		case KindNetwork, KindFile:
			return oe.Kind
		}
		return KindUnexpected
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return KindNetwork
	}
	return KindUnexpected
}

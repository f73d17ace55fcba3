package core

import "github.com/pkg/errors"

// FieldError reports a problem with a single input field, keyed by its JSON name.
type FieldError struct {
	Field string
	Error string
}

// ValidationError carries the underlying cause plus any per-field details;
// the API error handler renders the fields as a JSON object.
type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		return ""
	}
	return err.Err.Error()
}

type shutdown struct {
	message string
}

// NewShutdownError signals an unrecoverable integrity issue; the API handler
// turns it into a graceful stop of the whole service.
func NewShutdownError(msg string) error {
	return &shutdown{message: msg}
}

func (s shutdown) Error() string {
	return s.message
}

func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdown)
	return ok
}

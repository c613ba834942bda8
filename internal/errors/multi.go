package errors

import (
	"errors"

	"github.com/hashicorp/go-multierror"
)

type MultiError struct {
	msg    string
	errors *multierror.Error
}

func NewMultiError(msg string) *MultiError {
	return &MultiError{
		msg: msg,
	}
}

func (m *MultiError) Append(err error) {
	if err != nil {
		m.errors = multierror.Append(m.errors, err)
	}
}

func (m *MultiError) Len() int {
	if m.errors == nil {
		return 0
	}
	return m.errors.Len()
}

func (m *MultiError) Error() string {
	if m.errors == nil {
		return m.msg
	}
	return m.msg + ": " + m.errors.Error()
}

func (m *MultiError) Unwrap() error {
	return m.errors.ErrorOrNil()
}

// MultiToError returns nil for nil or empty multi errors, the error otherwise.
func MultiToError(e error) error {
	if e == nil {
		return nil
	}

	var me *MultiError
	if errors.As(e, &me) {
		if me.Len() == 0 {
			return nil
		}
	}
	return e
}

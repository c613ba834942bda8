package errors

import (
	"errors"
	"fmt"
	"strings"
)

type ErrorType string

func (s ErrorType) String() string {
	return strings.ToLower(string(s))
}

const (
	ErrValidation ErrorType = "Validation Error"
	ErrConfig     ErrorType = "Config Error"
	ErrCredential ErrorType = "Credential Error"
	ErrAPI        ErrorType = "API Error"
)

// DomainError is the error returned by every deployment step. All of them
// are terminal, the caller aborts the run on the first one.
type DomainError struct {
	ErrorType  ErrorType
	Entity     string
	Message    string
	WrappedErr error
}

func NewError(errType ErrorType, entity, msg string) *DomainError {
	return &DomainError{
		ErrorType: errType,
		Entity:    entity,
		Message:   msg,
	}
}

func Validation(entity, msg string) *DomainError {
	return NewError(ErrValidation, entity, msg)
}

func Config(entity, msg string) *DomainError {
	return NewError(ErrConfig, entity, msg)
}

func ConfigWrap(entity, msg string, err error) *DomainError {
	return &DomainError{
		ErrorType:  ErrConfig,
		Entity:     entity,
		Message:    msg,
		WrappedErr: err,
	}
}

func Credential(entity, msg string, err error) *DomainError {
	return &DomainError{
		ErrorType:  ErrCredential,
		Entity:     entity,
		Message:    msg,
		WrappedErr: err,
	}
}

func API(entity, msg string, err error) *DomainError {
	return &DomainError{
		ErrorType:  ErrAPI,
		Entity:     entity,
		Message:    msg,
		WrappedErr: err,
	}
}

func (e *DomainError) Error() string {
	if e.WrappedErr != nil {
		return fmt.Sprintf("%v for entity %v: %v: %v",
			e.ErrorType.String(), e.Entity, e.Message, e.WrappedErr)
	}
	return fmt.Sprintf("%v for entity %v: %v",
		e.ErrorType.String(), e.Entity, e.Message)
}

func (e *DomainError) Unwrap() error {
	return e.WrappedErr
}

func IsErrorType(err error, errType ErrorType) bool {
	var de *DomainError
	if errors.As(err, &de) {
		return de.ErrorType == errType
	}
	return false
}

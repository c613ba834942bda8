package errors_test

import (
	goerrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/srmds/takeoff/internal/errors"
)

func TestDomainError(t *testing.T) {
	t.Run("formats message without wrapped error", func(t *testing.T) {
		err := errors.Config("job_builder", "template defines no task")

		assert.EqualError(t, err, "config error for entity job_builder: template defines no task")
	})
	t.Run("formats message with wrapped error and unwraps it", func(t *testing.T) {
		cause := goerrors.New("status code received 500")
		err := errors.API("databricks", "unable to list jobs", cause)

		assert.EqualError(t, err, "api error for entity databricks: unable to list jobs: status code received 500")
		assert.ErrorIs(t, err, cause)
		assert.True(t, errors.IsErrorType(err, errors.ErrAPI))
		assert.False(t, errors.IsErrorType(err, errors.ErrCredential))
	})
	t.Run("does not match plain errors", func(t *testing.T) {
		assert.False(t, errors.IsErrorType(goerrors.New("plain"), errors.ErrValidation))
	})
}

package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBusinessError_UnwrapsSentinel(t *testing.T) {
	err := WrapProductNotFound("p-1")

	assert.True(t, errors.Is(err, ErrProductNotFound))
	assert.Equal(t, ErrCodeProductNotFound, CodeOf(err))
	assert.Contains(t, err.Error(), "p-1")
}

func TestWrapValidationFailed_CarriesFields(t *testing.T) {
	fields := map[string][]string{"monthly_income": {"must be greater than 0"}}
	err := WrapValidationFailed(fields)

	assert.True(t, errors.Is(err, ErrValidationFailed))
	assert.Equal(t, fields, err.Fields)
}

func TestWrapExportError_KeepsCause(t *testing.T) {
	cause := errors.New("disk full")
	err := WrapExportError(cause)

	assert.True(t, errors.Is(err, ErrExportFailed))
	assert.True(t, errors.Is(err, cause))
}

func TestCodeOf_WrappedAndPlain(t *testing.T) {
	wrapped := fmt.Errorf("handler: %w", WrapComparisonNotFound("abc"))

	assert.Equal(t, ErrCodeComparisonNotFound, CodeOf(wrapped))
	assert.Equal(t, "", CodeOf(errors.New("plain")))
}

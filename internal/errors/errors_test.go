package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInputError_CarriesField(t *testing.T) {
	err := InputError("TFV", "negative count %d at row %d", -3, 7)

	assert.Equal(t, CodeInvalidInput, err.Code)
	assert.Equal(t, "TFV", GetField(err))
	assert.Equal(t, "TFV: negative count -3 at row 7", err.Error())
	assert.True(t, IsInputError(err))
	assert.False(t, IsConfigError(err))
}

func TestWrap_PreservesCode(t *testing.T) {
	base := ConfigError("B", "must be at least 1, got %d", 0)
	wrapped := Wrap(base, "run rejected")

	assert.True(t, IsConfigError(wrapped))
	assert.Equal(t, "B", GetField(wrapped))
	assert.True(t, stderrors.Is(wrapped, base))
}

func TestWrap_ForeignError(t *testing.T) {
	wrapped := Wrapf(fmt.Errorf("disk full"), "export %s", "csv")

	assert.Equal(t, CodeInternalError, GetCode(wrapped))
	assert.Equal(t, "export csv: disk full", wrapped.Error())
	assert.Nil(t, Wrap(nil, "ignored"))
}

func TestGetCode_ThroughFmtWrapping(t *testing.T) {
	err := fmt.Errorf("outer: %w", ComputationError("TOV", "no events to resample"))

	assert.True(t, IsComputationError(err))
	assert.Equal(t, "UNKNOWN", GetCode(fmt.Errorf("plain")))
}

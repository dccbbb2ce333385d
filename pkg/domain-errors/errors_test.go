package domainerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasCode(t *testing.T) {
	t.Run("direct error", func(t *testing.T) {
		err := New(CodeNotFound, "policy not found")
		assert.True(t, HasCode(err, CodeNotFound))
		assert.False(t, HasCode(err, CodeInvalidState))
	})

	t.Run("wrapped chain", func(t *testing.T) {
		cause := errors.New("row missing")
		err := Wrap(cause, CodeNotFound, "claim not found")
		wrapped := fmt.Errorf("handling request: %w", err)

		assert.True(t, HasCode(wrapped, CodeNotFound))
		assert.True(t, errors.Is(wrapped, err))
	})

	t.Run("plain error has no code", func(t *testing.T) {
		assert.False(t, HasCode(errors.New("boom"), CodeInternal))
	})
}

func TestCodeOf(t *testing.T) {
	t.Run("tagged error", func(t *testing.T) {
		assert.Equal(t, CodePaused, CodeOf(New(CodePaused, "paused")))
	})

	t.Run("outermost code wins", func(t *testing.T) {
		inner := New(CodeNotFound, "missing")
		outer := Wrap(inner, CodeInternal, "lookup failed")
		assert.Equal(t, CodeInternal, CodeOf(outer))
	})

	t.Run("untagged error falls back to internal", func(t *testing.T) {
		assert.Equal(t, CodeInternal, CodeOf(errors.New("boom")))
	})
}

func TestWrap(t *testing.T) {
	t.Run("nil cause returns nil", func(t *testing.T) {
		assert.NoError(t, Wrap(nil, CodeInternal, "ignored"))
	})

	t.Run("unwrap reaches the cause", func(t *testing.T) {
		cause := errors.New("connection reset")
		err := Wrap(cause, CodeTimeout, "store call")
		assert.ErrorIs(t, err, cause)
		assert.Contains(t, err.Error(), "timeout")
		assert.Contains(t, err.Error(), "connection reset")
	})
}

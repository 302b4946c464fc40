package domainerrors_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "mirathi/pkg/domain-errors"
)

func TestCodedErrors(t *testing.T) {
	t.Run("formats code, field and message", func(t *testing.T) {
		err := dErrors.New(dErrors.CodeValidation, "value out of range").WithField("house_order")
		assert.Equal(t, "validation: house_order: value out of range", err.Error())
	})

	t.Run("HasCode matches through wrapping", func(t *testing.T) {
		base := dErrors.New(dErrors.CodeConflict, "version mismatch")
		wrapped := fmt.Errorf("save member: %w", base)

		assert.True(t, dErrors.HasCode(wrapped, dErrors.CodeConflict))
		assert.False(t, dErrors.HasCode(wrapped, dErrors.CodeNotFound))
	})

	t.Run("errors.Is matches on code not message", func(t *testing.T) {
		a := dErrors.New(dErrors.CodeInvalidInput, "one message")
		b := dErrors.New(dErrors.CodeInvalidInput, "another message")

		assert.True(t, errors.Is(a, b))
	})

	t.Run("FieldOf surfaces the offending field", func(t *testing.T) {
		err := fmt.Errorf("outer: %w",
			dErrors.New(dErrors.CodeValidation, "required").WithField("date_of_birth"))

		assert.Equal(t, "date_of_birth", dErrors.FieldOf(err))
		assert.Empty(t, dErrors.FieldOf(errors.New("plain")))
	})

	t.Run("context carries diagnostic values", func(t *testing.T) {
		err := dErrors.Newf(dErrors.CodeValidation, "latitude %.1f out of range", 12.5).
			WithContext("latitude", 12.5).
			WithContext("max", 5.1)

		var coded *dErrors.Error
		require.True(t, errors.As(err, &coded))
		assert.Equal(t, 12.5, coded.Context["latitude"])
		assert.Equal(t, 5.1, coded.Context["max"])
	})
}

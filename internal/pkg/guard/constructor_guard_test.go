package guard_test

import (
	"errors"
	"testing"

	"dispatch/internal/pkg/guard"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errStopNotConstructed = errors.New("stop must be created via newStop")

type stop struct {
	name  string
	guard guard.ConstructorGuard
}

func newStop(name string) stop {
	return stop{name: name, guard: guard.NewConstructorGuard()}
}

func (s stop) Validate() error {
	return s.guard.Validate(errStopNotConstructed)
}

func TestConstructorGuard(t *testing.T) {
	t.Run("constructed value passes", func(t *testing.T) {
		g := guard.NewConstructorGuard()

		require.NoError(t, g.Validate(errStopNotConstructed))
		require.NoError(t, g.Validate(nil))
	})

	t.Run("zero value returns the given error", func(t *testing.T) {
		var g guard.ConstructorGuard

		assert.Equal(t, errStopNotConstructed, g.Validate(errStopNotConstructed))
	})

	t.Run("zero value falls back to the default error", func(t *testing.T) {
		var g guard.ConstructorGuard

		require.ErrorIs(t, g.Validate(nil), guard.ErrDefaultConstructorGuard)
	})
}

func TestConstructorGuard_Embedded(t *testing.T) {
	require.NoError(t, newStop("Koramangala").Validate())

	var literal stop
	require.ErrorIs(t, literal.Validate(), errStopNotConstructed)

	partial := stop{name: "Indiranagar"}
	require.ErrorIs(t, partial.Validate(), errStopNotConstructed)

	copied := newStop("HSR Layout")
	clone := copied
	assert.NoError(t, clone.Validate(), "copies keep the constructed flag")
}

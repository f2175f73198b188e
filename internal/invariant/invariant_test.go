package invariant

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCheck(t *testing.T) {
	require.NotPanics(t, func() { Check(true, "never") })

	defer func() {
		r := recover()
		require.NotNil(t, r)
		v, ok := r.(*Violation)
		require.True(t, ok, "panic value should be *Violation, got %T", r)
		require.Equal(t, "invariant: decrease 60 exceeds committed 50", v.Error())
	}()
	Check(false, "decrease %d exceeds committed %d", 60, 50)
}

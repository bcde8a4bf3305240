package listener

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRef_StoreLoadClear(t *testing.T) {
	el := NewElement()

	ref := NewRef(nil)
	require.Nil(t, ref.Load())

	ref.Store(el)
	require.Same(t, el, ref.Load())

	ref.Clear()
	require.Nil(t, ref.Load())
}

func TestRef_HoldsArbitraryValues(t *testing.T) {
	ref := NewRef("plain string")
	require.Equal(t, "plain string", ref.Load())
}

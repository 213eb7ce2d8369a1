package wipe_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ecrypt-io/ecrypt-go/internal/wipe"
)

func TestBytesZeroesBuffer(t *testing.T) {
	buf := []byte{1, 2, 3, 4, 5}
	wipe.Bytes(buf)
	require.Equal(t, []byte{0, 0, 0, 0, 0}, buf)
}

func TestBytesEmptyIsCounted(t *testing.T) {
	before := wipe.Count()
	wipe.Bytes(nil)
	require.Equal(t, before+1, wipe.Count())
}

func TestCountIncrementsPerCall(t *testing.T) {
	before := wipe.Count()
	buf := make([]byte, 32)
	wipe.Bytes(buf)
	wipe.Bytes(buf)
	require.Equal(t, before+2, wipe.Count())
}

package securesession_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ecrypt-io/ecrypt-go/ecrypterr"
)

func TestWrapUnwrapRoundTrip(t *testing.T) {
	client, server := newHandshakedPair(t)

	frame, err := client.Wrap([]byte("ping"))
	require.NoError(t, err)
	require.Len(t, frame, len("ping")+40, "4-byte message wraps to exactly 44 bytes")

	got, err := server.Unwrap(frame)
	require.NoError(t, err)
	require.Equal(t, []byte("ping"), got)
}

func TestWrapUnwrapSequenceNumbersAdvance(t *testing.T) {
	client, server := newHandshakedPair(t)

	for i := 0; i < 3; i++ {
		frame, err := client.Wrap([]byte("hello"))
		require.NoError(t, err)
		_, err = server.Unwrap(frame)
		require.NoError(t, err)
	}
}

func TestUnwrapRejectsOutOfOrderFrame(t *testing.T) {
	client, server := newHandshakedPair(t)

	frame1, err := client.Wrap([]byte("one"))
	require.NoError(t, err)
	frame2, err := client.Wrap([]byte("two"))
	require.NoError(t, err)

	// Deliver frame2 before frame1: server still expects seq 0.
	_, err = server.Unwrap(frame2)
	require.ErrorIs(t, err, ecrypterr.ErrInvalidSignature)

	// Session is not torn down by the failed unwrap; the expected frame
	// still unwraps correctly.
	got, err := server.Unwrap(frame1)
	require.NoError(t, err)
	require.Equal(t, []byte("one"), got)
}

func TestUnwrapRejectsTamperedFrame(t *testing.T) {
	client, server := newHandshakedPair(t)

	frame, err := client.Wrap([]byte("tamper me"))
	require.NoError(t, err)
	frame[len(frame)-1] ^= 0xFF

	_, err = server.Unwrap(frame)
	require.ErrorIs(t, err, ecrypterr.ErrInvalidSignature)
}

func TestUnwrapRejectsShortFrame(t *testing.T) {
	_, server := newHandshakedPair(t)

	_, err := server.Unwrap(make([]byte, 10))
	require.ErrorIs(t, err, ecrypterr.ErrDataCorrupt)
}

func TestWrapBothDirections(t *testing.T) {
	client, server := newHandshakedPair(t)

	toServer, err := client.Wrap([]byte("from client"))
	require.NoError(t, err)
	got, err := server.Unwrap(toServer)
	require.NoError(t, err)
	require.Equal(t, []byte("from client"), got)

	toClient, err := server.Wrap([]byte("from server"))
	require.NoError(t, err)
	got, err = client.Unwrap(toClient)
	require.NoError(t, err)
	require.Equal(t, []byte("from server"), got)
}

package securesession_test

import (
	"crypto/ecdsa"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ecrypt-io/ecrypt-go/container"
	"github.com/ecrypt-io/ecrypt-go/primitives"
	"github.com/ecrypt-io/ecrypt-go/securesession"
)

type noopCallbacks struct{}

func (noopCallbacks) GetPublicKeyForID(uint32) (*ecdsa.PublicKey, error) { return nil, nil }
func (noopCallbacks) Send([]byte) error                                 { return nil }
func (noopCallbacks) Receive() ([]byte, error)                          { return nil, nil }
func (noopCallbacks) StateChanged(securesession.State)                  {}

func TestSaveLoadRoundTrip(t *testing.T) {
	client, server := newHandshakedPair(t)

	// Advance sequence numbers so the round trip exercises non-zero state.
	frame, err := client.Wrap([]byte("before save"))
	require.NoError(t, err)
	_, err = server.Unwrap(frame)
	require.NoError(t, err)

	blob, err := securesession.Save(client)
	require.NoError(t, err)

	tag, err := container.Tag(blob)
	require.NoError(t, err)
	require.Equal(t, container.TagSessionContext, tag)

	restored, err := securesession.Load(blob, primitives.CurveP256, noopCallbacks{})
	require.NoError(t, err)
	require.Equal(t, securesession.StateEstablished, restored.State)
	require.Equal(t, client.SessionID, restored.SessionID)
	require.Equal(t, client.IsClient, restored.IsClient)

	// Wrap/unwrap continuity: a message wrapped by the restored client
	// context must still unwrap correctly against the live server, meaning
	// Load reconstructed the same directional keys and resumed sequencing
	// where Save left off.
	next, err := restored.Wrap([]byte("after load"))
	require.NoError(t, err)
	got, err := server.Unwrap(next)
	require.NoError(t, err)
	require.Equal(t, []byte("after load"), got)
}

func TestSaveRejectsUnestablishedSession(t *testing.T) {
	clientSigningKey, err := primitives.GenerateECDSAKeyPair(primitives.CurveP256)
	require.NoError(t, err)
	ctx := securesession.NewClientContext(1, primitives.CurveP256, clientSigningKey, noopCallbacks{})

	_, err = securesession.Save(ctx)
	require.Error(t, err)
}

func TestLoadRejectsTamperedBlob(t *testing.T) {
	client, _ := newHandshakedPair(t)
	blob, err := securesession.Save(client)
	require.NoError(t, err)

	blob[len(blob)-1] ^= 0xFF

	_, err = securesession.Load(blob, primitives.CurveP256, noopCallbacks{})
	require.Error(t, err)
}

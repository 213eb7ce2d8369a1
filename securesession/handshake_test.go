package securesession_test

import (
	"crypto/ecdsa"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ecrypt-io/ecrypt-go/primitives"
	"github.com/ecrypt-io/ecrypt-go/securesession"
)

// pipeCallbacks wires a client and a server Context together through a pair
// of buffered channels, so Connect and Accept can run concurrently on a
// goroutine pair, each blocking in Receive until the other side has sent.
type pipeCallbacks struct {
	peerID     uint32
	peerPubKey *ecdsa.PublicKey
	send       chan<- []byte
	recv       <-chan []byte

	mu     sync.Mutex
	states []securesession.State
}

func (c *pipeCallbacks) GetPublicKeyForID(uint32) (*ecdsa.PublicKey, error) {
	return c.peerPubKey, nil
}

func (c *pipeCallbacks) Send(msg []byte) error {
	c.send <- msg
	return nil
}

func (c *pipeCallbacks) Receive() ([]byte, error) {
	return <-c.recv, nil
}

func (c *pipeCallbacks) StateChanged(s securesession.State) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.states = append(c.states, s)
}

func newHandshakedPair(t *testing.T) (client, server *securesession.Context) {
	t.Helper()

	clientSigningKey, err := primitives.GenerateECDSAKeyPair(primitives.CurveP256)
	require.NoError(t, err)
	serverSigningKey, err := primitives.GenerateECDSAKeyPair(primitives.CurveP256)
	require.NoError(t, err)

	clientToServer := make(chan []byte, 4)
	serverToClient := make(chan []byte, 4)

	clientCB := &pipeCallbacks{peerPubKey: &serverSigningKey.PublicKey, send: clientToServer, recv: serverToClient}
	serverCB := &pipeCallbacks{peerPubKey: &clientSigningKey.PublicKey, send: serverToClient, recv: clientToServer}

	client = securesession.NewClientContext(42, primitives.CurveP256, clientSigningKey, clientCB)
	server = securesession.NewServerContext(primitives.CurveP256, serverSigningKey, serverCB)

	var wg sync.WaitGroup
	var clientErr, serverErr error
	wg.Add(2)
	go func() { defer wg.Done(); clientErr = client.Connect() }()
	go func() { defer wg.Done(); serverErr = server.Accept() }()
	wg.Wait()

	require.NoError(t, clientErr)
	require.NoError(t, serverErr)
	return client, server
}

func TestHandshakeEstablishesMatchingState(t *testing.T) {
	client, server := newHandshakedPair(t)

	require.Equal(t, securesession.StateEstablished, client.State)
	require.Equal(t, securesession.StateEstablished, server.State)
	require.Equal(t, server.SessionID, client.SessionID)
}

func TestHandshakeRejectsWrongSignature(t *testing.T) {
	clientSigningKey, err := primitives.GenerateECDSAKeyPair(primitives.CurveP256)
	require.NoError(t, err)
	serverSigningKey, err := primitives.GenerateECDSAKeyPair(primitives.CurveP256)
	require.NoError(t, err)
	impostorKey, err := primitives.GenerateECDSAKeyPair(primitives.CurveP256)
	require.NoError(t, err)

	clientToServer := make(chan []byte, 4)
	serverToClient := make(chan []byte, 4)

	// Server is told to verify the client against the wrong public key, so
	// Accept fails before ever sending a response; Connect is left blocked
	// on Receive forever, same as a real peer that never answers.
	clientCB := &pipeCallbacks{peerPubKey: &serverSigningKey.PublicKey, send: clientToServer, recv: serverToClient}
	serverCB := &pipeCallbacks{peerPubKey: &impostorKey.PublicKey, send: serverToClient, recv: clientToServer}

	client := securesession.NewClientContext(7, primitives.CurveP256, clientSigningKey, clientCB)
	server := securesession.NewServerContext(primitives.CurveP256, serverSigningKey, serverCB)

	serverDone := make(chan error, 1)
	go func() { serverDone <- server.Accept() }()
	go func() { _ = client.Connect() }()

	select {
	case serverErr := <-serverDone:
		require.Error(t, serverErr)
	case <-time.After(2 * time.Second):
		t.Fatal("server.Accept() did not return")
	}

	require.NotEqual(t, securesession.StateEstablished, server.State)
}

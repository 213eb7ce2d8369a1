package primitives_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ecrypt-io/ecrypt-go/primitives"
)

func TestDeriveHandshakeSecretAgrees(t *testing.T) {
	a, err := primitives.GenerateEphemeralKeyPair(primitives.CurveP256)
	require.NoError(t, err)
	b, err := primitives.GenerateEphemeralKeyPair(primitives.CurveP256)
	require.NoError(t, err)

	secretA, err := primitives.DeriveHandshakeSecret(a.Private, b.Public.Bytes())
	require.NoError(t, err)
	secretB, err := primitives.DeriveHandshakeSecret(b.Private, a.Public.Bytes())
	require.NoError(t, err)

	require.Equal(t, secretA, secretB)
	require.Len(t, secretA, 32)
}

func TestGenerateEphemeralKeyPairRejectsUnknownCurve(t *testing.T) {
	_, err := primitives.GenerateEphemeralKeyPair(primitives.Curve(99))
	require.Error(t, err)
}

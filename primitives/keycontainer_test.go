package primitives_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ecrypt-io/ecrypt-go/ecrypterr"
	"github.com/ecrypt-io/ecrypt-go/primitives"
)

func TestParseKeyContainerRSAPrivateRoundTrip(t *testing.T) {
	key, err := primitives.GenerateRSAKeyPair(1024)
	require.NoError(t, err)

	raw := primitives.MarshalRSAPrivateContainer(key)
	parsed, err := primitives.ParseKeyContainer(raw)
	require.NoError(t, err)
	require.Equal(t, primitives.KeyKindRSAPrivate, parsed.Kind)
	require.Equal(t, key.D, parsed.RSAPrivate.D)
}

func TestParseKeyContainerRSAPublicRoundTrip(t *testing.T) {
	key, err := primitives.GenerateRSAKeyPair(1024)
	require.NoError(t, err)

	raw := primitives.MarshalRSAPublicContainer(&key.PublicKey)
	parsed, err := primitives.ParseKeyContainer(raw)
	require.NoError(t, err)
	require.Equal(t, primitives.KeyKindRSAPublic, parsed.Kind)
	require.Equal(t, key.PublicKey.N, parsed.RSAPublic.N)
}

func TestParseKeyContainerECPublicRoundTrip(t *testing.T) {
	for _, curve := range []primitives.Curve{primitives.CurveP256, primitives.CurveP384, primitives.CurveP521} {
		key, err := primitives.GenerateECDSAKeyPair(curve)
		require.NoError(t, err)

		raw := primitives.MarshalECPublicContainer(curve, &key.PublicKey)
		parsed, err := primitives.ParseKeyContainer(raw)
		require.NoError(t, err)
		require.Equal(t, primitives.KeyKindEC, parsed.Kind)
		require.Equal(t, curve, parsed.Curve)
		require.Equal(t, key.PublicKey.X, parsed.ECPub.X)
	}
}

func TestParseKeyContainerECPrivateRoundTrip(t *testing.T) {
	key, err := primitives.GenerateECDSAKeyPair(primitives.CurveP256)
	require.NoError(t, err)

	raw := primitives.MarshalECPrivateContainer(primitives.CurveP256, key)
	parsed, err := primitives.ParseKeyContainer(raw)
	require.NoError(t, err)
	require.Equal(t, primitives.KeyKindEC, parsed.Kind)
	require.Equal(t, key.D, parsed.ECKey.D)
}

func TestParseKeyContainerRejectsUnknownTag(t *testing.T) {
	_, err := primitives.ParseKeyContainer([]byte("XXXX"))
	require.ErrorIs(t, err, ecrypterr.ErrInvalidParameter)
}

func TestParseKeyContainerRejectsBadECLength(t *testing.T) {
	raw := make([]byte, 4+10)
	raw[0], raw[1], raw[3] = 'E', 'C', 0
	_, err := primitives.ParseKeyContainer(raw)
	require.ErrorIs(t, err, ecrypterr.ErrInvalidParameter)
}

func TestParseKeyContainerRejectsShortBuffer(t *testing.T) {
	_, err := primitives.ParseKeyContainer([]byte{'R'})
	require.ErrorIs(t, err, ecrypterr.ErrInvalidParameter)
}

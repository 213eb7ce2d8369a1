package primitives_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ecrypt-io/ecrypt-go/ecrypterr"
	"github.com/ecrypt-io/ecrypt-go/primitives"
)

func TestECDSASignVerifyRoundTripAllCurves(t *testing.T) {
	for _, curve := range []primitives.Curve{primitives.CurveP256, primitives.CurveP384, primitives.CurveP521} {
		key, err := primitives.GenerateECDSAKeyPair(curve)
		require.NoError(t, err)

		message := []byte("message to sign")
		sig, err := primitives.ECDSASign(key, message)
		require.NoError(t, err)

		require.NoError(t, primitives.ECDSAVerify(&key.PublicKey, message, sig))
	}
}

func TestECDSAVerifyRejectsTamperedMessage(t *testing.T) {
	key, err := primitives.GenerateECDSAKeyPair(primitives.CurveP256)
	require.NoError(t, err)

	sig, err := primitives.ECDSASign(key, []byte("original message"))
	require.NoError(t, err)

	err = primitives.ECDSAVerify(&key.PublicKey, []byte("tampered message"), sig)
	require.ErrorIs(t, err, ecrypterr.ErrInvalidSignature)
}

func TestECDSAVerifyRejectsGarbageSignature(t *testing.T) {
	key, err := primitives.GenerateECDSAKeyPair(primitives.CurveP256)
	require.NoError(t, err)

	err = primitives.ECDSAVerify(&key.PublicKey, []byte("message"), []byte("not a signature"))
	require.ErrorIs(t, err, ecrypterr.ErrInvalidSignature)
}

func TestGenerateECDSAKeyPairRejectsUnknownCurve(t *testing.T) {
	_, err := primitives.GenerateECDSAKeyPair(primitives.Curve(99))
	require.ErrorIs(t, err, ecrypterr.ErrInvalidParameter)
}

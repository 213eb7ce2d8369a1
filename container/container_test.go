package container_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ecrypt-io/ecrypt-go/container"
	"github.com/ecrypt-io/ecrypt-go/ecrypterr"
)

func TestNewVerifyRoundTrip(t *testing.T) {
	payload := make([]byte, 48)
	buf, err := container.New(container.TagSessionContext, payload)
	require.NoError(t, err)
	require.Len(t, buf, container.HeaderSize+48)

	tag, err := container.Tag(buf)
	require.NoError(t, err)
	require.Equal(t, container.TagSessionContext, tag)

	size, err := container.DataSize(buf)
	require.NoError(t, err)
	require.Equal(t, 48, size)

	require.NoError(t, container.VerifyChecksum(buf))
}

func TestVerifyChecksumDetectsSingleBitFlip(t *testing.T) {
	payload := make([]byte, 48)
	buf, err := container.New(container.TagSessionContext, payload)
	require.NoError(t, err)

	buf[container.HeaderSize] ^= 0x01

	err = container.VerifyChecksum(buf)
	require.ErrorIs(t, err, ecrypterr.ErrInvalidParameter)
}

func TestVerifyChecksumDetectsHeaderTamper(t *testing.T) {
	payload := []byte("some session payload bytes here")
	buf, err := container.New(container.TagSessionContext, payload)
	require.NoError(t, err)

	buf[0] ^= 0x01

	err = container.VerifyChecksum(buf)
	require.ErrorIs(t, err, ecrypterr.ErrInvalidParameter)
}

func TestVerifyChecksumRejectsSizeMismatch(t *testing.T) {
	payload := make([]byte, 48)
	buf, err := container.New(container.TagSessionContext, payload)
	require.NoError(t, err)

	truncated := buf[:len(buf)-1]
	err = container.VerifyChecksum(truncated)
	require.ErrorIs(t, err, ecrypterr.ErrInvalidParameter)
}

func TestUpdateChecksumIsIdempotent(t *testing.T) {
	payload := []byte("idempotence check")
	buf, err := container.New(container.TagSessionContext, payload)
	require.NoError(t, err)

	before := append([]byte(nil), buf...)
	container.UpdateChecksum(buf)
	require.Equal(t, before, buf)
}

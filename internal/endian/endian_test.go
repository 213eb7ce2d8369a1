package endian_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ecrypt-io/ecrypt-go/internal/endian"
)

func TestUint32LERoundTrip(t *testing.T) {
	buf := make([]byte, 4)
	endian.PutUint32LE(buf, 0x01020304)
	require.Equal(t, []byte{0x04, 0x03, 0x02, 0x01}, buf)
	require.Equal(t, uint32(0x01020304), endian.Uint32LE(buf))
}

func TestUint64LERoundTrip(t *testing.T) {
	buf := make([]byte, 8)
	endian.PutUint64LE(buf, 0x0102030405060708)
	require.Equal(t, uint64(0x0102030405060708), endian.Uint64LE(buf))
}

func TestUint32BERoundTrip(t *testing.T) {
	buf := make([]byte, 4)
	endian.PutUint32BE(buf, 0x01020304)
	require.Equal(t, []byte{0x01, 0x02, 0x03, 0x04}, buf)
	require.Equal(t, uint32(0x01020304), endian.Uint32BE(buf))
}

func TestUint64BERoundTrip(t *testing.T) {
	buf := make([]byte, 8)
	endian.PutUint64BE(buf, 0x0102030405060708)
	require.Equal(t, []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08}, buf)
	require.Equal(t, uint64(0x0102030405060708), endian.Uint64BE(buf))
}

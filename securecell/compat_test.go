package securecell_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ecrypt-io/ecrypt-go/securecell"
)

func TestSealDecryptCompatAcceptsCanonicalBlobs(t *testing.T) {
	key := make([]byte, 32)
	plaintext := []byte("canonical path still works")

	blob, err := securecell.SealEncrypt(key, plaintext, nil)
	require.NoError(t, err)

	got, err := securecell.SealDecryptCompat(key, blob, nil)
	require.NoError(t, err)
	require.Equal(t, plaintext, got)
}

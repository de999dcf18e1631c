// db/redis_test.go
package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncryptDecryptRoundTrip(t *testing.T) {
	encryptionKey = []byte("0123456789abcdef0123456789abcdef")

	plaintext := []byte(`{"resourceId":"doc-1","securityLabel":{"classification":"SECRET"}}`)
	sealed, err := encrypt(plaintext)
	require.NoError(t, err)

	// The sealed record must not expose the label.
	assert.NotContains(t, string(sealed), "SECRET")

	opened, err := decrypt(sealed)
	require.NoError(t, err)
	assert.Equal(t, plaintext, opened)
}

func TestEncryptNonceVaries(t *testing.T) {
	encryptionKey = []byte("0123456789abcdef0123456789abcdef")

	first, err := encrypt([]byte("same input"))
	require.NoError(t, err)
	second, err := encrypt([]byte("same input"))
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestDecryptRejectsTamperedCiphertext(t *testing.T) {
	encryptionKey = []byte("0123456789abcdef0123456789abcdef")

	sealed, err := encrypt([]byte("payload"))
	require.NoError(t, err)
	sealed[len(sealed)-1] ^= 0xff

	_, err = decrypt(sealed)
	assert.Error(t, err)
}

func TestDecryptRejectsShortCiphertext(t *testing.T) {
	encryptionKey = []byte("0123456789abcdef0123456789abcdef")

	_, err := decrypt([]byte("short"))
	assert.Error(t, err)
}

package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncryptDecrypt(t *testing.T) {
	key, err := GenerateEncryptionKey()
	require.NoError(t, err)
	require.Len(t, key, 32)

	sealed, err := Encrypt([]byte("EAAG-page-token"), []byte(key))
	require.NoError(t, err)
	assert.NotContains(t, sealed, "EAAG")

	plain, err := Decrypt(sealed, []byte(key))
	require.NoError(t, err)
	assert.Equal(t, "EAAG-page-token", plain)

	other, err := GenerateEncryptionKey()
	require.NoError(t, err)
	_, err = Decrypt(sealed, []byte(other))
	assert.Error(t, err)

	_, err = Decrypt("AAAA", []byte(key))
	assert.EqualError(t, err, "ciphertext too short")

	_, err = Encrypt([]byte("x"), []byte("short"))
	assert.Error(t, err)
}

func TestToken(t *testing.T) {
	token, err := GenerateToken("secret", "17", time.Minute)
	require.NoError(t, err)

	claims, err := ValidateToken("secret", token)
	require.NoError(t, err)
	assert.Equal(t, "17", claims.UserID)

	_, err = ValidateToken("other-secret", token)
	assert.Error(t, err)

	expired, err := GenerateToken("secret", "17", -time.Minute)
	require.NoError(t, err)
	_, err = ValidateToken("secret", expired)
	assert.Error(t, err)
}

func TestGenerateRandomKey(t *testing.T) {
	a, err := GenerateRandomKey(32)
	require.NoError(t, err)
	b, err := GenerateRandomKey(32)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
	assert.Len(t, a, 44)
}

package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHasher_HashAndVerify(t *testing.T) {
	hasher := NewPasswordHasher()

	hash, err := hasher.Hash("Passw0rd1")
	require.NoError(t, err)

	assert.NotEqual(t, "Passw0rd1", hash)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$"))
	assert.NotContains(t, hash, "Passw0rd1")

	assert.True(t, hasher.Verify("Passw0rd1", hash))
	assert.False(t, hasher.Verify("Passw0rd2", hash))
	assert.False(t, hasher.Verify("", hash))
}

func TestPasswordHasher_EmptyPassword(t *testing.T) {
	hasher := NewPasswordHasher()

	_, err := hasher.Hash("")
	assert.ErrorIs(t, err, ErrEmptyPassword)
}

func TestPasswordHasher_SaltedHashesDiffer(t *testing.T) {
	hasher := NewPasswordHasher()

	first, err := hasher.Hash("Passw0rd1")
	require.NoError(t, err)
	second, err := hasher.Hash("Passw0rd1")
	require.NoError(t, err)

	// Random salt: same password never hashes to the same string
	assert.NotEqual(t, first, second)
	assert.True(t, hasher.Verify("Passw0rd1", first))
	assert.True(t, hasher.Verify("Passw0rd1", second))
}

func TestPasswordHasher_MalformedHash(t *testing.T) {
	hasher := NewPasswordHasher()

	for _, malformed := range []string{
		"",
		"not-a-hash",
		"$argon2id$v=19$m=65536,t=3,p=4$only-five-parts",
		"$argon2id$v=19$m=65536,t=3,p=4$!!!badsalt!!!$aGFzaA",
	} {
		assert.False(t, hasher.Verify("Passw0rd1", malformed), "hash %q", malformed)
	}
}

func TestGenerateToken(t *testing.T) {
	first, err := GenerateToken()
	require.NoError(t, err)
	second, err := GenerateToken()
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	// 32 random bytes base64url-encoded
	assert.Len(t, first, 44)
}

func TestHashToken(t *testing.T) {
	token, err := GenerateToken()
	require.NoError(t, err)

	hash := HashToken(token)

	assert.NotEqual(t, token, hash)
	assert.Len(t, hash, 64) // sha256 hex
	assert.Equal(t, hash, HashToken(token), "token hashing must be deterministic for lookup-by-hash")
	assert.NotEqual(t, hash, HashToken(token+"x"))
}

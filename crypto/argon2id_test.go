package crypto_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alimuhammedak/SyncLove/crypto"
)

func TestArgon2idHashAndCompare(t *testing.T) {
	// Low-cost parameters to keep the test quick.
	hasher := crypto.NewArgon2idHasher(1, 1024*8, 32, 16, 1)

	hash, err := hasher.Hash("correct horse battery staple")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse battery staple", hash)

	match, err := hasher.Compare(hash, "correct horse battery staple")
	require.NoError(t, err)
	assert.True(t, match)

	match, err = hasher.Compare(hash, "wrong password")
	require.NoError(t, err)
	assert.False(t, match)
}

func TestArgon2idCompareMalformedHash(t *testing.T) {
	hasher := crypto.NewArgon2idHasher(1, 1024*8, 32, 16, 1)

	_, err := hasher.Compare("not-a-phc-string", "anything")
	assert.Error(t, err)
}

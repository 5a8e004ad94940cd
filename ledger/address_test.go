package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodeHash_Empty(t *testing.T) {
	assert.Equal(t, "0xc5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470", EmptyCodeHash.Hex())
}

func TestParseHash(t *testing.T) {
	h := CodeHash([]byte("code"))
	got, err := ParseHash(h.Hex())
	require.NoError(t, err)
	assert.Equal(t, h, got)

	got, err = ParseHash(h.Hex()[2:])
	require.NoError(t, err)
	assert.Equal(t, h, got)

	_, err = ParseHash("0x1234")
	assert.Error(t, err)
	_, err = ParseHash("zz")
	assert.Error(t, err)
}

func TestAddress_RoundTrip(t *testing.T) {
	_, a, err := NewKey()
	require.NoError(t, err)
	assert.False(t, a.IsZero())

	parsed, err := ParseAddress(a.String())
	require.NoError(t, err)
	assert.Equal(t, a, parsed)

	parsed, err = ParseAddress(a.Hex())
	require.NoError(t, err)
	assert.Equal(t, a, parsed)
}

func TestParseAddress_Invalid(t *testing.T) {
	_, err := ParseAddress("not-an-address")
	assert.ErrorIs(t, err, ErrInvalidAddress)
}

func TestAddressFromPubKey_Deterministic(t *testing.T) {
	priv, a, err := NewKey()
	require.NoError(t, err)
	assert.Equal(t, a, AddressFromPubKey(priv.PubKey()))
}

package hash_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vcsforge/commitgraph/hash"
)

func TestFromHexRoundTrip(t *testing.T) {
	const sha1Hex = "356ed63e3c9cf5d7c38b3e1fa5ba5e3e78e2caf0"
	h, ok := hash.FromHex(sha1Hex)
	require.True(t, ok)
	assert.Equal(t, hash.SHA1, h.Kind())
	assert.Equal(t, sha1Hex, h.String())
}

func TestFromHexInvalid(t *testing.T) {
	_, ok := hash.FromHex("not-hex")
	assert.False(t, ok)

	_, ok = hash.FromHex("ab")
	assert.False(t, ok, "wrong length must be rejected")
}

func TestCompareAndSort(t *testing.T) {
	a, _ := hash.FromHex("000000000000000000000000000000000000000a")
	b, _ := hash.FromHex("000000000000000000000000000000000000000b")

	assert.True(t, a.Compare(b) < 0)
	assert.True(t, b.Compare(a) > 0)
	assert.Equal(t, 0, a.Compare(a))

	hashes := []hash.Hash{b, a}
	hash.Sort(hashes)
	assert.Equal(t, []hash.Hash{a, b}, hashes)
}

func TestIsZero(t *testing.T) {
	z := hash.New(hash.SHA1)
	assert.True(t, z.IsZero())

	nz, _ := hash.FromHex("000000000000000000000000000000000000000a")
	assert.False(t, nz.IsZero())
}

func TestHasherSHA1(t *testing.T) {
	h := hash.NewHasher(hash.SHA1)
	_, err := h.Write([]byte("hello"))
	require.NoError(t, err)
	sum := h.Sum()
	assert.Equal(t, hash.SHA1, sum.Kind())
	assert.Len(t, sum.Bytes(), hash.SHA1Size)
}

func TestHasherSHA256(t *testing.T) {
	h := hash.NewHasher(hash.SHA256)
	_, err := h.Write([]byte("hello"))
	require.NoError(t, err)
	sum := h.Sum()
	assert.Equal(t, hash.SHA256, sum.Kind())
	assert.Len(t, sum.Bytes(), hash.SHA256Size)
}

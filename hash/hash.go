// Package hash defines the content-hash identifier used to address commit
// objects throughout the graph core, independent of the hash algorithm the
// backing object database happens to use.
package hash

import (
	"bytes"
	"crypto"
	_ "crypto/sha256" // register SHA-256 with the crypto package
	"encoding/hex"
	"errors"
	"sort"

	"github.com/pjbgf/sha1cd"
)

// Sizes, in bytes, of the two supported object hash functions.
const (
	SHA1Size   = 20
	SHA256Size = 32
)

// Kind identifies which hash function a graph file or a Hash value uses. It
// corresponds directly to the one-byte "hash-kind" field in the commit-graph
// file header (written by graph.Encoder, checked by graph.OpenFile).
type Kind uint8

const (
	// SHA1 is hash-kind 1: 20-byte hashes.
	SHA1 Kind = 1
	// SHA256 is hash-kind 2: 32-byte hashes.
	SHA256 Kind = 2
)

// ErrUnsupportedKind is returned when a Kind byte does not name a supported
// hash function.
var ErrUnsupportedKind = errors.New("hash: unsupported hash kind")

// Size returns the byte width of hashes of this kind, or 0 if the kind is
// not recognized.
func (k Kind) Size() int {
	switch k {
	case SHA1:
		return SHA1Size
	case SHA256:
		return SHA256Size
	default:
		return 0
	}
}

// Hash is a content-address identifier: a fixed-width byte string,
// lexicographically ordered, sized according to its Kind. The zero value is
// not a valid Hash on its own; use New or FromHex to construct one.
type Hash struct {
	kind Kind
	b    [SHA256Size]byte
}

// New allocates a zero Hash of the given kind.
func New(k Kind) Hash {
	return Hash{kind: k}
}

// FromBytes builds a Hash from raw bytes, inferring the Kind from the
// slice length. It reports false if the length matches neither supported
// hash size.
func FromBytes(b []byte) (Hash, bool) {
	var h Hash
	switch len(b) {
	case SHA1Size:
		h.kind = SHA1
	case SHA256Size:
		h.kind = SHA256
	default:
		return h, false
	}
	copy(h.b[:], b)
	return h, true
}

// FromHex decodes a hexadecimal string into a Hash, inferring the Kind from
// the decoded length.
func FromHex(s string) (Hash, bool) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return Hash{}, false
	}
	return FromBytes(b)
}

// Kind reports which hash function produced h.
func (h Hash) Kind() Kind { return h.kind }

// Size returns the byte width of h.
func (h Hash) Size() int { return h.kind.Size() }

// Bytes returns the raw hash bytes, sized according to Kind.
func (h Hash) Bytes() []byte {
	return h.b[:h.Size()]
}

// String returns the hexadecimal representation of h.
func (h Hash) String() string {
	return hex.EncodeToString(h.Bytes())
}

// IsZero reports whether h is the all-zero hash of its kind.
func (h Hash) IsZero() bool {
	for _, c := range h.Bytes() {
		if c != 0 {
			return false
		}
	}
	return true
}

// Compare orders h against another hash's raw bytes, matching
// bytes.Compare's contract. Hashes of differing kinds compare by their raw
// byte strings, short strings sorting first.
func (h Hash) Compare(other Hash) int {
	return bytes.Compare(h.Bytes(), other.Bytes())
}

// Equal reports whether h and other identify the same hash value.
func (h Hash) Equal(other Hash) bool {
	return h.kind == other.kind && bytes.Equal(h.Bytes(), other.Bytes())
}

// Sort sorts a slice of Hashes in strictly ascending order, matching the
// OIDL chunk's required ordering (graph invariant 1).
func Sort(hashes []Hash) {
	sort.Slice(hashes, func(i, j int) bool {
		return hashes[i].Compare(hashes[j]) < 0
	})
}

// Hasher computes a rolling content hash over a stream of bytes, used by
// the encoder to produce the trailing file checksum (§4.1).
type Hasher struct {
	kind Kind
	h    interface {
		Write([]byte) (int, error)
		Sum([]byte) []byte
	}
}

// NewHasher returns a Hasher for the given Kind.
func NewHasher(k Kind) Hasher {
	if k == SHA256 {
		return Hasher{kind: k, h: crypto.SHA256.New()}
	}
	return Hasher{kind: SHA1, h: sha1cd.New()}
}

// Write implements io.Writer.
func (h Hasher) Write(p []byte) (int, error) {
	return h.h.Write(p)
}

// Sum returns the final Hash of everything written so far.
func (h Hasher) Sum() Hash {
	sum := h.h.Sum(nil)
	out, _ := FromBytes(sum[:h.kind.Size()])
	return out
}

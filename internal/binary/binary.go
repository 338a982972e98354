// Package binary provides small big-endian read/write helpers used by the
// commit-graph chunk container, mirroring the style of go-git's
// utils/binary package.
package binary

import (
	"encoding/binary"
	"io"

	"github.com/vcsforge/commitgraph/hash"
)

// Write writes each value in data to w, in BigEndian order.
func Write(w io.Writer, data ...interface{}) error {
	for _, v := range data {
		if err := binary.Write(w, binary.BigEndian, v); err != nil {
			return err
		}
	}
	return nil
}

// WriteUint64 writes a BigEndian uint64.
func WriteUint64(w io.Writer, v uint64) error {
	return binary.Write(w, binary.BigEndian, v)
}

// WriteUint32 writes a BigEndian uint32.
func WriteUint32(w io.Writer, v uint32) error {
	return binary.Write(w, binary.BigEndian, v)
}

// ReadUint64 reads a BigEndian uint64 from r.
func ReadUint64(r io.Reader) (uint64, error) {
	var v uint64
	if err := binary.Read(r, binary.BigEndian, &v); err != nil {
		return 0, err
	}
	return v, nil
}

// ReadUint32 reads a BigEndian uint32 from r.
func ReadUint32(r io.Reader) (uint32, error) {
	var v uint32
	if err := binary.Read(r, binary.BigEndian, &v); err != nil {
		return 0, err
	}
	return v, nil
}

// ReadHash reads size bytes from r and returns them as a hash.Hash of the
// matching Kind.
func ReadHash(r io.Reader, size int) (hash.Hash, error) {
	buf := make([]byte, size)
	if _, err := io.ReadFull(r, buf); err != nil {
		return hash.Hash{}, err
	}
	h, ok := hash.FromBytes(buf)
	if !ok {
		return hash.Hash{}, io.ErrUnexpectedEOF
	}
	return h, nil
}

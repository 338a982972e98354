package graph

import (
	"io"

	ibinary "github.com/vcsforge/commitgraph/internal/binary"

	"github.com/vcsforge/commitgraph/hash"
)

// Encoder serializes an Index to the on-disk chunk format in one
// sequential pass (§4.6 step 5), maintaining a rolling content hash for the
// trailing checksum as it writes.
type Encoder struct {
	w    io.Writer
	kind hash.Kind
	sum  hash.Hasher
}

// NewEncoder returns an Encoder that writes to w using the given hash kind.
func NewEncoder(w io.Writer, k hash.Kind) *Encoder {
	sum := hash.NewHasher(k)
	return &Encoder{w: io.MultiWriter(w, sum), kind: k, sum: sum}
}

func (e *Encoder) Write(p []byte) (int, error) { return e.w.Write(p) }

// Encode writes idx into the commit-graph wire format described in §4.1
// and §6. idx must already be sorted by ascending hash (MemoryIndex.Sort).
func (e *Encoder) Encode(idx Index) error {
	hashes := idx.Hashes()
	n := uint32(len(hashes))

	hashToIndex := make(map[hash.Hash]Position, n)
	fanout := [256]uint32{}
	var extraEdgesCount uint32
	for i, h := range hashes {
		hashToIndex[h] = Position(i)
		fanout[h.Bytes()[0]]++
	}
	for i := 1; i < 256; i++ {
		fanout[i] += fanout[i-1]
	}
	for i := uint32(0); i < n; i++ {
		d, err := idx.GetCommitDataByIndex(Position(i))
		if err != nil {
			return err
		}
		if len(d.ParentHashes) > 2 {
			extraEdgesCount += uint32(len(d.ParentHashes) - 1)
		}
	}

	hashSize := e.kind.Size()
	chunkSigs := [][]byte{OIDFanoutChunk.Signature(), OIDLookupChunk.Signature(), CommitDataChunk.Signature()}
	chunkSizes := []uint64{256 * 4, uint64(n) * uint64(hashSize), uint64(n) * uint64(hashSize+recordSizeWithoutHash)}
	if extraEdgesCount > 0 {
		chunkSigs = append(chunkSigs, ExtraEdgeChunk.Signature())
		chunkSizes = append(chunkSizes, uint64(extraEdgesCount)*4)
	}

	if err := e.encodeHeader(len(chunkSigs)); err != nil {
		return err
	}
	if err := e.encodeDirectory(chunkSigs, chunkSizes); err != nil {
		return err
	}
	if err := e.encodeFanout(fanout); err != nil {
		return err
	}
	if err := e.encodeOIDLookup(hashes); err != nil {
		return err
	}
	extraEdges, err := e.encodeCommitData(hashes, hashToIndex, idx)
	if err != nil {
		return err
	}
	if err := e.encodeExtraEdges(extraEdges); err != nil {
		return err
	}
	return e.encodeChecksum()
}

func (e *Encoder) encodeHeader(chunkCount int) error {
	if _, err := e.Write(fileSignature); err != nil {
		return err
	}
	_, err := e.Write([]byte{1, byte(e.kind), 0, byte(chunkCount)})
	return err
}

func (e *Encoder) encodeDirectory(sigs [][]byte, sizes []uint64) error {
	// 8 bytes of file header, 12 bytes per directory entry, one extra
	// terminator entry (§4.1).
	offset := uint64(8 + (len(sigs)+1)*12)
	for i, sig := range sigs {
		if _, err := e.Write(sig); err != nil {
			return err
		}
		if err := ibinary.WriteUint64(e, offset); err != nil {
			return err
		}
		offset += sizes[i]
	}
	if _, err := e.Write(zeroChunk.Signature()); err != nil {
		return err
	}
	return ibinary.WriteUint64(e, offset)
}

func (e *Encoder) encodeFanout(fanout [256]uint32) error {
	for _, v := range fanout {
		if err := ibinary.WriteUint32(e, v); err != nil {
			return err
		}
	}
	return nil
}

func (e *Encoder) encodeOIDLookup(hashes []hash.Hash) error {
	for _, h := range hashes {
		if _, err := e.Write(h.Bytes()); err != nil {
			return err
		}
	}
	return nil
}

func (e *Encoder) encodeCommitData(hashes []hash.Hash, hashToIndex map[hash.Hash]Position, idx Index) ([]uint32, error) {
	var extraEdges []uint32
	for i := range hashes {
		d, err := idx.GetCommitDataByIndex(Position(i))
		if err != nil {
			return nil, err
		}
		if _, err := e.Write(d.TreeHash.Bytes()); err != nil {
			return nil, err
		}

		var p1, p2 uint32
		switch len(d.ParentHashes) {
		case 0:
			p1, p2 = parentNone, parentNone
		case 1:
			p1 = uint32(hashToIndex[d.ParentHashes[0]])
			p2 = parentNone
		case 2:
			p1 = uint32(hashToIndex[d.ParentHashes[0]])
			p2 = uint32(hashToIndex[d.ParentHashes[1]])
		default:
			p1 = uint32(hashToIndex[d.ParentHashes[0]])
			p2 = uint32(len(extraEdges)) | parentOctopusUsed
			for _, ph := range d.ParentHashes[1:] {
				extraEdges = append(extraEdges, uint32(hashToIndex[ph]))
			}
			extraEdges[len(extraEdges)-1] |= parentLast
		}

		if err := ibinary.WriteUint32(e, p1); err != nil {
			return nil, err
		}
		if err := ibinary.WriteUint32(e, p2); err != nil {
			return nil, err
		}

		// §9: the wire record truncates commit time to 34 bits; the full
		// 64-bit value is preserved only in the in-memory CommitData.
		packed := (d.Generation << 34) | (uint64(d.CommitTime) & 0x3FFFFFFFF)
		if err := ibinary.WriteUint64(e, packed); err != nil {
			return nil, err
		}
	}
	return extraEdges, nil
}

func (e *Encoder) encodeExtraEdges(edges []uint32) error {
	for _, v := range edges {
		if err := ibinary.WriteUint32(e, v); err != nil {
			return err
		}
	}
	return nil
}

func (e *Encoder) encodeChecksum() error {
	_, err := e.Write(e.sum.Sum().Bytes())
	return err
}

package graph

import (
	"bytes"
	"encoding/binary"
	"io"

	ibinary "github.com/vcsforge/commitgraph/internal/binary"

	"github.com/vcsforge/commitgraph/hash"
)

var fileSignature = []byte{'C', 'G', 'P', 'H'}

const (
	parentNone        = uint32(0x70000000)
	parentOctopusUsed = uint32(0x80000000)
	parentOctopusMask = uint32(0x7fffffff)
	parentLast        = uint32(0x80000000)

	recordSizeWithoutHash = 16 // two parent slots + packed (generation, time)
)

// fileIndex implements Index directly over a random-access byte source,
// per §4.5: header and directory are validated once at open time, and every
// later query is infallible by construction (§7).
type fileIndex struct {
	reader   io.ReaderAt
	hashKind hash.Kind
	fanout   [256]uint32

	oidFanoutOffset  int64
	oidLookupOffset  int64
	commitDataOffset int64
	extraEdgeOffset  int64
}

// OpenFile parses a commit-graph file from r and validates its structure
// (header, directory, fanout monotonicity, trailing checksum). On any
// failure it returns a nil Index; callers must treat that as "graph
// unavailable" and fall back to raw object parsing (§4.5, §7).
func OpenFile(r io.ReaderAt, size int64) (Index, error) {
	fi := &fileIndex{reader: r}

	if err := fi.verifyHeader(); err != nil {
		return nil, err
	}
	if err := fi.readDirectory(); err != nil {
		return nil, err
	}
	if err := fi.readFanout(); err != nil {
		return nil, err
	}
	if err := fi.verifyChecksum(size); err != nil {
		return nil, err
	}

	return fi, nil
}

func (fi *fileIndex) verifyHeader() error {
	sig := make([]byte, 4)
	if _, err := fi.reader.ReadAt(sig, 0); err != nil {
		return err
	}
	if !bytes.Equal(sig, fileSignature) {
		return ErrMalformed
	}

	header := make([]byte, 4)
	if _, err := fi.reader.ReadAt(header, 4); err != nil {
		return err
	}
	if header[0] != 1 {
		return ErrUnsupportedVersion
	}
	switch header[1] {
	case byte(hash.SHA1):
		fi.hashKind = hash.SHA1
	case byte(hash.SHA256):
		fi.hashKind = hash.SHA256
	default:
		return ErrUnsupportedHash
	}
	// header[2] is the reserved chunk-kind count; header[3] is the present
	// chunk count C, read again by readDirectory from the same offset.
	return nil
}

func (fi *fileIndex) readDirectory() error {
	countBuf := make([]byte, 1)
	if _, err := fi.reader.ReadAt(countBuf, 7); err != nil {
		return err
	}
	present := int(countBuf[0])

	chunkID := make([]byte, 4)
	var prevOffset int64 = -1
	for i := 0; i <= present; i++ {
		entry := io.NewSectionReader(fi.reader, 8+int64(i)*12, 12)
		if _, err := io.ReadAtLeast(entry, chunkID, 4); err != nil {
			return err
		}
		offset, err := ibinary.ReadUint64(entry)
		if err != nil {
			return err
		}
		off := int64(offset)
		if off < prevOffset {
			return ErrMalformed
		}
		prevOffset = off

		ct, ok := ChunkTypeFromBytes(chunkID)
		if !ok {
			continue
		}
		switch ct {
		case OIDFanoutChunk:
			fi.oidFanoutOffset = off
		case OIDLookupChunk:
			fi.oidLookupOffset = off
		case CommitDataChunk:
			fi.commitDataOffset = off
		case ExtraEdgeChunk:
			fi.extraEdgeOffset = off
		case zeroChunk:
			// terminator; trailing offset marks the start of the checksum
		}
	}

	if fi.oidFanoutOffset <= 0 || fi.oidLookupOffset <= 0 || fi.commitDataOffset <= 0 {
		return ErrMalformed
	}
	return nil
}

func (fi *fileIndex) readFanout() error {
	r := io.NewSectionReader(fi.reader, fi.oidFanoutOffset, 256*4)
	var prev uint32
	for i := 0; i < 256; i++ {
		v, err := ibinary.ReadUint32(r)
		if err != nil {
			return err
		}
		if v < prev {
			return ErrMalformed
		}
		prev = v
		fi.fanout[i] = v
	}
	return nil
}

func (fi *fileIndex) verifyChecksum(size int64) error {
	if size <= 0 {
		// No declared size (e.g. an io.ReaderAt without a known length):
		// the checksum cannot be located without it, so it is skipped.
		// Callers that care should use OpenFile with an accurate size.
		return nil
	}
	h := hash.NewHasher(fi.hashKind)
	trailerSize := int64(fi.hashKind.Size())
	body := io.NewSectionReader(fi.reader, 0, size-trailerSize)
	if _, err := io.Copy(h, body); err != nil {
		return err
	}

	trailer := make([]byte, trailerSize)
	if _, err := fi.reader.ReadAt(trailer, size-trailerSize); err != nil {
		return err
	}
	if !bytes.Equal(h.Sum().Bytes(), trailer) {
		return ErrChecksumMismatch
	}
	return nil
}

// CommitCount returns N, the number of commits in the file.
func (fi *fileIndex) CommitCount() uint32 {
	return fi.fanout[0xff]
}

// GetIndexByHash implements the fanout-narrowed binary search of §4.2.
func (fi *fileIndex) GetIndexByHash(h hash.Hash) (Position, error) {
	b := h.Bytes()[0]
	var low uint32
	if b != 0 {
		low = fi.fanout[b-1]
	}
	high := fi.fanout[b]

	size := int64(fi.hashKind.Size())
	var probe hash.Hash
	buf := make([]byte, size)
	for low < high {
		mid := (low + high) / 2
		offset := fi.oidLookupOffset + int64(mid)*size
		if _, err := fi.reader.ReadAt(buf, offset); err != nil {
			return 0, err
		}
		probe, _ = hash.FromBytes(buf)
		switch cmp := h.Compare(probe); {
		case cmp < 0:
			high = mid
		case cmp == 0:
			return Position(mid), nil
		default:
			low = mid + 1
		}
	}
	return 0, ErrNotFound
}

// GetHashByIndex implements direct array indexing into the OIDL chunk.
func (fi *fileIndex) GetHashByIndex(p Position) (hash.Hash, error) {
	if uint32(p) >= fi.CommitCount() {
		return hash.Hash{}, ErrNotFound
	}
	size := int64(fi.hashKind.Size())
	buf := make([]byte, size)
	if _, err := fi.reader.ReadAt(buf, fi.oidLookupOffset+int64(p)*size); err != nil {
		return hash.Hash{}, err
	}
	h, _ := hash.FromBytes(buf)
	return h, nil
}

// GetCommitDataByIndex reconstructs a CommitData from the CDAT record at
// position p, following the EDGE spill chunk for octopus merges (§4.3,
// §4.4).
func (fi *fileIndex) GetCommitDataByIndex(p Position) (*CommitData, error) {
	if uint32(p) >= fi.CommitCount() {
		return nil, ErrNotFound
	}

	hashSize := int64(fi.hashKind.Size())
	offset := fi.commitDataOffset + int64(p)*(hashSize+recordSizeWithoutHash)
	r := io.NewSectionReader(fi.reader, offset, hashSize+recordSizeWithoutHash)

	treeHash, err := ibinary.ReadHash(r, fi.hashKind.Size())
	if err != nil {
		return nil, err
	}
	parent1, err := ibinary.ReadUint32(r)
	if err != nil {
		return nil, err
	}
	parent2, err := ibinary.ReadUint32(r)
	if err != nil {
		return nil, err
	}
	genAndTime, err := ibinary.ReadUint64(r)
	if err != nil {
		return nil, err
	}

	var parentIdx []Position
	switch {
	case parent2&parentOctopusUsed == parentOctopusUsed:
		parentIdx = []Position{Position(parent1 & parentOctopusMask)}
		eoff := fi.extraEdgeOffset + 4*int64(parent2&parentOctopusMask)
		buf := make([]byte, 4)
		for {
			if _, err := fi.reader.ReadAt(buf, eoff); err != nil {
				return nil, err
			}
			v := binary.BigEndian.Uint32(buf)
			eoff += 4
			parentIdx = append(parentIdx, Position(v&parentOctopusMask))
			if v&parentLast == parentLast {
				break
			}
		}
	case parent2 != parentNone:
		parentIdx = []Position{Position(parent1), Position(parent2)}
	case parent1 != parentNone:
		parentIdx = []Position{Position(parent1)}
	}

	parentHashes, err := fi.hashesAt(parentIdx)
	if err != nil {
		return nil, err
	}

	return &CommitData{
		TreeHash:      treeHash,
		ParentIndexes: parentIdx,
		ParentHashes:  parentHashes,
		Generation:    genAndTime >> 34,
		CommitTime:    int64(genAndTime & 0x3FFFFFFFF),
	}, nil
}

func (fi *fileIndex) hashesAt(positions []Position) ([]hash.Hash, error) {
	out := make([]hash.Hash, len(positions))
	for i, p := range positions {
		h, err := fi.GetHashByIndex(p)
		if err != nil {
			return nil, err
		}
		out[i] = h
	}
	return out, nil
}

// Hashes returns every hash present in the file, in ascending order.
func (fi *fileIndex) Hashes() []hash.Hash {
	n := fi.CommitCount()
	out := make([]hash.Hash, n)
	for i := uint32(0); i < n; i++ {
		h, err := fi.GetHashByIndex(Position(i))
		if err != nil {
			return nil
		}
		out[i] = h
	}
	return out
}

// Close is a no-op for a plain io.ReaderAt; callers that opened an
// *os.File should close it themselves once the Index is no longer needed.
func (fi *fileIndex) Close() error { return nil }

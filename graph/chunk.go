package graph

import "bytes"

const (
	szChunkSig     = 4 // length of a chunk signature
	chunkSigOffset = 4 // offset of each signature within chunkSignatures
)

// chunkSignatures coalesces the byte signatures for every recognized chunk
// type, in ChunkType order, so Signature/ChunkTypeFromBytes can slice into
// a single backing array instead of allocating per lookup.
var chunkSignatures = []byte("OIDFOIDLCDATEDGE\x00\x00\x00\x00")

// ChunkType identifies one of the chunk kinds recognized inside a graph
// file (§4.1).
type ChunkType int

const (
	OIDFanoutChunk   ChunkType = iota // "OIDF"
	OIDLookupChunk                   // "OIDL"
	CommitDataChunk                  // "CDAT"
	ExtraEdgeChunk                   // "EDGE"
	zeroChunk                        // terminator, not a real chunk
)

// Signature returns the 4-byte on-disk identifier for ct.
func (ct ChunkType) Signature() []byte {
	if ct < 0 || ct > zeroChunk {
		ct = zeroChunk
	}
	return chunkSignatures[int(ct)*chunkSigOffset : int(ct)*chunkSigOffset+szChunkSig]
}

// ChunkTypeFromBytes maps a 4-byte chunk identifier back to its ChunkType.
// Unknown identifiers (forward-compatible chunk kinds a future format
// revision might add) report false so readers can skip them per §4.1.
func ChunkTypeFromBytes(b []byte) (ChunkType, bool) {
	idx := bytes.Index(chunkSignatures, b)
	if idx == -1 || idx%chunkSigOffset != 0 {
		return 0, false
	}
	return ChunkType(idx / chunkSigOffset), true
}

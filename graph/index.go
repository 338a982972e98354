package graph

import (
	"io"

	"github.com/vcsforge/commitgraph/hash"
)

// Position is a commit's integer index within one graph file (§3). It is
// only meaningful relative to the Index that produced it; positions from
// two different files must never be compared or mixed.
type Position uint32

// UnknownGeneration is the sentinel stored for a commit whose generation
// could not be computed because at least one of its ancestors is absent
// from the file (§3 invariant 4).
const UnknownGeneration uint64 = 0

// CommitData is the fixed-width metadata the graph file stores for one
// commit: everything a traversal needs without parsing the raw commit
// object (§3 CommitRecord).
type CommitData struct {
	// TreeHash is the hash of the commit's root tree.
	TreeHash hash.Hash
	// ParentIndexes are the positions of the parent commits, in the same
	// file.
	ParentIndexes []Position
	// ParentHashes are the hashes of the parent commits, resolved
	// alongside ParentIndexes.
	ParentHashes []hash.Hash
	// Generation is 1 + max(parent generations), or UnknownGeneration if any
	// parent is absent from the file.
	Generation uint64
	// CommitTime is the committer timestamp, Unix seconds.
	CommitTime int64
}

// Index is the read-side query API a graph file (or an in-memory
// equivalent under construction) exposes: positionOf, hashAt, and
// metadataAt from §4.5, plus enumeration for the encoder.
type Index interface {
	// GetIndexByHash returns the position of hash h, or ErrNotFound.
	GetIndexByHash(h hash.Hash) (Position, error)
	// GetHashByIndex returns the hash stored at position p.
	GetHashByIndex(p Position) (hash.Hash, error)
	// GetCommitDataByIndex returns the full record at position p.
	GetCommitDataByIndex(p Position) (*CommitData, error)
	// Hashes returns every hash present in the index, in no particular
	// order unless the concrete type documents one.
	Hashes() []hash.Hash
	// CommitCount returns the number of commits (N) in the index.
	CommitCount() uint32

	io.Closer
}

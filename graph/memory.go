package graph

import (
	"github.com/vcsforge/commitgraph/hash"
)

// MemoryIndex accumulates CommitData in memory while the writer discovers
// the reachable commit set (§4.6 steps 1–4), ready for Sort and then
// Encode. It satisfies Index so callers (and tests) can query it directly
// without a round trip through bytes.
type MemoryIndex struct {
	kind     hash.Kind
	hashes   []hash.Hash
	data     []*CommitData
	indexMap map[hash.Hash]Position
}

// NewMemoryIndex creates an empty in-memory index for the given hash kind.
func NewMemoryIndex(k hash.Kind) *MemoryIndex {
	return &MemoryIndex{
		kind:     k,
		indexMap: make(map[hash.Hash]Position),
	}
}

// Add inserts a commit's data into the index. Parent hashes need not yet be
// present; ParentIndexes is resolved lazily by GetCommitDataByIndex once
// every commit has been added, which lets the writer add commits in
// discovery order rather than a pre-sorted one.
func (mi *MemoryIndex) Add(h hash.Hash, d *CommitData) {
	d.ParentIndexes = nil
	mi.indexMap[h] = Position(len(mi.data))
	mi.hashes = append(mi.hashes, h)
	mi.data = append(mi.data, d)
}

// Sort fixes each commit's final Position as its index in ascending hash
// order (§4.6 step 2), matching graph invariant 1.
func (mi *MemoryIndex) Sort() {
	order := make([]int, len(mi.hashes))
	for i := range order {
		order[i] = i
	}
	// simple insertion sort is adequate here; N is the commit count for one
	// regeneration, not a hot path relative to the discovery walk.
	for i := 1; i < len(order); i++ {
		j := i
		for j > 0 && mi.hashes[order[j-1]].Compare(mi.hashes[order[j]]) > 0 {
			order[j-1], order[j] = order[j], order[j-1]
			j--
		}
	}

	newHashes := make([]hash.Hash, len(mi.hashes))
	newData := make([]*CommitData, len(mi.data))
	for newPos, oldPos := range order {
		newHashes[newPos] = mi.hashes[oldPos]
		newData[newPos] = mi.data[oldPos]
		newData[newPos].ParentIndexes = nil
	}
	mi.hashes = newHashes
	mi.data = newData
	mi.indexMap = make(map[hash.Hash]Position, len(mi.hashes))
	for i, h := range mi.hashes {
		mi.indexMap[h] = Position(i)
	}
}

// CommitCount returns N.
func (mi *MemoryIndex) CommitCount() uint32 { return uint32(len(mi.data)) }

// GetIndexByHash looks up a commit's Position by hash.
func (mi *MemoryIndex) GetIndexByHash(h hash.Hash) (Position, error) {
	if p, ok := mi.indexMap[h]; ok {
		return p, nil
	}
	return 0, ErrNotFound
}

// GetHashByIndex returns the hash at Position p.
func (mi *MemoryIndex) GetHashByIndex(p Position) (hash.Hash, error) {
	if int(p) >= len(mi.hashes) {
		return hash.Hash{}, ErrNotFound
	}
	return mi.hashes[p], nil
}

// GetCommitDataByIndex returns the CommitData at Position p, resolving
// ParentIndexes from ParentHashes on first access.
func (mi *MemoryIndex) GetCommitDataByIndex(p Position) (*CommitData, error) {
	if int(p) >= len(mi.data) {
		return nil, ErrNotFound
	}
	d := mi.data[p]
	if d.ParentIndexes == nil && len(d.ParentHashes) > 0 {
		idx := make([]Position, len(d.ParentHashes))
		for i, ph := range d.ParentHashes {
			pp, err := mi.GetIndexByHash(ph)
			if err != nil {
				return nil, err
			}
			idx[i] = pp
		}
		d.ParentIndexes = idx
	}
	return d, nil
}

// Hashes returns every hash in the index, in its current (possibly
// unsorted) order.
func (mi *MemoryIndex) Hashes() []hash.Hash {
	out := make([]hash.Hash, len(mi.hashes))
	copy(out, mi.hashes)
	return out
}

// Close is a no-op; MemoryIndex owns no external resources.
func (mi *MemoryIndex) Close() error { return nil }

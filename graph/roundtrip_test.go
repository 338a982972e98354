package graph_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vcsforge/commitgraph/graph"
	"github.com/vcsforge/commitgraph/hash"
)

func mustHash(t *testing.T, hex string) hash.Hash {
	t.Helper()
	h, ok := hash.FromHex(hex)
	require.True(t, ok, "invalid test hash %q", hex)
	return h
}

// buildChain returns a three-commit linear history: root <- middle <- tip.
func buildChain(t *testing.T) (*graph.MemoryIndex, map[string]hash.Hash) {
	t.Helper()
	root := mustHash(t, "000000000000000000000000000000000000000a")
	middle := mustHash(t, "000000000000000000000000000000000000000b")
	tip := mustHash(t, "000000000000000000000000000000000000000c")
	tree := mustHash(t, "111111111111111111111111111111111111111a")

	idx := graph.NewMemoryIndex(hash.SHA1)
	idx.Add(root, &graph.CommitData{TreeHash: tree, Generation: 1, CommitTime: 100})
	idx.Add(middle, &graph.CommitData{TreeHash: tree, ParentHashes: []hash.Hash{root}, Generation: 2, CommitTime: 200})
	idx.Add(tip, &graph.CommitData{TreeHash: tree, ParentHashes: []hash.Hash{middle}, Generation: 3, CommitTime: 300})
	idx.Sort()

	return idx, map[string]hash.Hash{"root": root, "middle": middle, "tip": tip}
}

func encodeToBytes(t *testing.T, idx graph.Index) []byte {
	t.Helper()
	var buf bytes.Buffer
	enc := graph.NewEncoder(&buf, hash.SHA1)
	require.NoError(t, enc.Encode(idx))
	return buf.Bytes()
}

func TestRoundTripLinearChain(t *testing.T) {
	idx, h := buildChain(t)
	raw := encodeToBytes(t, idx)

	opened, err := graph.OpenFile(bytes.NewReader(raw), int64(len(raw)))
	require.NoError(t, err)
	defer opened.Close()

	assert.EqualValues(t, 3, opened.CommitCount())

	pos, err := opened.GetIndexByHash(h["tip"])
	require.NoError(t, err)
	data, err := opened.GetCommitDataByIndex(pos)
	require.NoError(t, err)
	assert.EqualValues(t, 3, data.Generation)
	assert.EqualValues(t, 300, data.CommitTime)
	require.Len(t, data.ParentHashes, 1)
	assert.True(t, data.ParentHashes[0].Equal(h["middle"]))

	rootPos, err := opened.GetIndexByHash(h["root"])
	require.NoError(t, err)
	rootData, err := opened.GetCommitDataByIndex(rootPos)
	require.NoError(t, err)
	assert.Empty(t, rootData.ParentHashes)
	assert.EqualValues(t, 1, rootData.Generation)
}

func TestGetIndexByHashNotFound(t *testing.T) {
	idx, _ := buildChain(t)
	raw := encodeToBytes(t, idx)

	opened, err := graph.OpenFile(bytes.NewReader(raw), int64(len(raw)))
	require.NoError(t, err)
	defer opened.Close()

	absent := mustHash(t, "fffffffffffffffffffffffffffffffffffffff0")
	_, err = opened.GetIndexByHash(absent)
	assert.ErrorIs(t, err, graph.ErrNotFound)
}

func TestOctopusMergeSpillsToExtraEdges(t *testing.T) {
	p1 := mustHash(t, "000000000000000000000000000000000000001a")
	p2 := mustHash(t, "000000000000000000000000000000000000001b")
	p3 := mustHash(t, "000000000000000000000000000000000000001c")
	merge := mustHash(t, "000000000000000000000000000000000000001d")
	tree := mustHash(t, "222222222222222222222222222222222222222a")

	idx := graph.NewMemoryIndex(hash.SHA1)
	idx.Add(p1, &graph.CommitData{TreeHash: tree, Generation: 1, CommitTime: 10})
	idx.Add(p2, &graph.CommitData{TreeHash: tree, Generation: 1, CommitTime: 11})
	idx.Add(p3, &graph.CommitData{TreeHash: tree, Generation: 1, CommitTime: 12})
	idx.Add(merge, &graph.CommitData{
		TreeHash:     tree,
		ParentHashes: []hash.Hash{p1, p2, p3},
		Generation:   2,
		CommitTime:   20,
	})
	idx.Sort()

	raw := encodeToBytes(t, idx)
	opened, err := graph.OpenFile(bytes.NewReader(raw), int64(len(raw)))
	require.NoError(t, err)
	defer opened.Close()

	pos, err := opened.GetIndexByHash(merge)
	require.NoError(t, err)
	data, err := opened.GetCommitDataByIndex(pos)
	require.NoError(t, err)
	require.Len(t, data.ParentHashes, 3)

	got := map[string]bool{}
	for _, ph := range data.ParentHashes {
		got[ph.String()] = true
	}
	assert.True(t, got[p1.String()])
	assert.True(t, got[p2.String()])
	assert.True(t, got[p3.String()])
}

func TestChecksumMismatchRejected(t *testing.T) {
	idx, _ := buildChain(t)
	raw := encodeToBytes(t, idx)

	// Flip a byte inside the commit-data chunk without touching the
	// trailing checksum, and confirm OpenFile refuses the corrupted file
	// rather than serving bad data (§3 invariant 5, §7).
	corrupt := append([]byte(nil), raw...)
	corrupt[len(corrupt)-25] ^= 0xff

	_, err := graph.OpenFile(bytes.NewReader(corrupt), int64(len(corrupt)))
	assert.ErrorIs(t, err, graph.ErrChecksumMismatch)
}

func TestFanoutNarrowsSearch(t *testing.T) {
	idx, h := buildChain(t)
	raw := encodeToBytes(t, idx)

	opened, err := graph.OpenFile(bytes.NewReader(raw), int64(len(raw)))
	require.NoError(t, err)
	defer opened.Close()

	for _, name := range []string{"root", "middle", "tip"} {
		pos, err := opened.GetIndexByHash(h[name])
		require.NoError(t, err)
		got, err := opened.GetHashByIndex(pos)
		require.NoError(t, err)
		assert.True(t, got.Equal(h[name]))
	}
}

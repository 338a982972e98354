package object_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vcsforge/commitgraph/hash"
	"github.com/vcsforge/commitgraph/object"
)

// mapSource is a map-backed object.Source test double: no real object
// database is needed to exercise discovery, generation assignment or the
// traversal hook (§8).
type mapSource map[string]object.RawCommit

func (s mapSource) ReadCommit(h hash.Hash) (object.RawCommit, error) {
	c, ok := s[h.String()]
	if !ok {
		return object.RawCommit{}, object.ErrMissingObject
	}
	return c, nil
}

func h(t *testing.T, hex string) hash.Hash {
	t.Helper()
	v, ok := hash.FromHex(hex)
	require.True(t, ok)
	return v
}

// linearHistory builds root <- middle <- tip with a shared tree hash.
func linearHistory(t *testing.T) (mapSource, hash.Hash, hash.Hash, hash.Hash) {
	root := h(t, "0000000000000000000000000000000000000001")
	middle := h(t, "0000000000000000000000000000000000000002")
	tip := h(t, "0000000000000000000000000000000000000003")
	tr := h(t, "999999999999999999999999999999999999999a")

	src := mapSource{
		root.String():   {TreeHash: tr, CommitterTime: 100},
		middle.String(): {TreeHash: tr, ParentHashes: []hash.Hash{root}, CommitterTime: 200},
		tip.String():    {TreeHash: tr, ParentHashes: []hash.Hash{middle}, CommitterTime: 300},
	}
	return src, root, middle, tip
}

func TestBuildAssignsGeneration(t *testing.T) {
	src, root, middle, tip := linearHistory(t)

	idx, err := object.Build(src, []hash.Hash{tip}, hash.SHA1, nil)
	require.NoError(t, err)
	assert.EqualValues(t, 3, idx.CommitCount())

	for h, wantGen := range map[hash.Hash]uint64{root: 1, middle: 2, tip: 3} {
		pos, err := idx.GetIndexByHash(h)
		require.NoError(t, err)
		d, err := idx.GetCommitDataByIndex(pos)
		require.NoError(t, err)
		assert.Equal(t, wantGen, d.Generation)
	}
}

func TestBuildAggregatesMissingTips(t *testing.T) {
	src, _, _, tip := linearHistory(t)
	missingA := h(t, "00000000000000000000000000000000000aaaa1")
	missingB := h(t, "00000000000000000000000000000000000aaaa2")

	_, err := object.Build(src, []hash.Hash{tip, missingA, missingB}, hash.SHA1, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing object")
}

func TestBuildCancellation(t *testing.T) {
	src, _, _, tip := linearHistory(t)

	_, err := object.Build(src, []hash.Hash{tip}, hash.SHA1, cancelledProgress{})
	assert.ErrorIs(t, err, object.ErrCancelled)
}

type cancelledProgress struct{ object.NoopProgress }

func (cancelledProgress) IsCancelled() bool { return true }

func TestNodeIndexFallsBackToSource(t *testing.T) {
	src, root, middle, tip := linearHistory(t)

	// Build a graph covering only root and middle; tip is absent, so
	// NodeIndex must fall back to src for it while still resolving tip's
	// ancestors through the graph (§4.7 behavioral-equivalence clause).
	idx, err := object.Build(src, []hash.Hash{middle}, hash.SHA1, nil)
	require.NoError(t, err)

	ni := object.NewNodeIndex(idx, src)

	tipNode, err := ni.Get(tip)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), tipNode.Generation(), "source-backed node has unknown generation")

	middleNode, err := tipNode.ParentNode(0)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), middleNode.Generation(), "graph-backed ancestor keeps its computed generation")

	rootNode, err := middleNode.ParentNode(0)
	require.NoError(t, err)
	assert.True(t, rootNode.ID().Equal(root))
	assert.Equal(t, 0, rootNode.NumParents())
}

func TestTopoOrderEmitsChildrenBeforeParents(t *testing.T) {
	src, root, middle, tip := linearHistory(t)
	idx, err := object.Build(src, []hash.Hash{tip}, hash.SHA1, nil)
	require.NoError(t, err)
	ni := object.NewNodeIndex(idx, src)

	it, err := object.NewTopoOrderIter(ni, []hash.Hash{tip}, nil)
	require.NoError(t, err)

	var order []hash.Hash
	require.NoError(t, it.ForEach(func(n object.CommitNode) error {
		order = append(order, n.ID())
		return nil
	}))

	require.Len(t, order, 3)
	assert.True(t, order[0].Equal(tip))
	assert.True(t, order[1].Equal(middle))
	assert.True(t, order[2].Equal(root))
}

func TestCommitTimeOrderNewestFirst(t *testing.T) {
	src, _, _, tip := linearHistory(t)
	idx, err := object.Build(src, []hash.Hash{tip}, hash.SHA1, nil)
	require.NoError(t, err)
	ni := object.NewNodeIndex(idx, src)

	it, err := object.NewCommitTimeOrderIter(ni, []hash.Hash{tip}, nil)
	require.NoError(t, err)

	var times []int64
	require.NoError(t, it.ForEach(func(n object.CommitNode) error {
		times = append(times, n.CommitTime())
		return nil
	}))

	require.Len(t, times, 3)
	assert.Equal(t, []int64{300, 200, 100}, times)
}

func TestForEachStopsOnErrStop(t *testing.T) {
	src, _, _, tip := linearHistory(t)
	idx, err := object.Build(src, []hash.Hash{tip}, hash.SHA1, nil)
	require.NoError(t, err)
	ni := object.NewNodeIndex(idx, src)

	it, err := object.NewTopoOrderIter(ni, []hash.Hash{tip}, nil)
	require.NoError(t, err)

	count := 0
	require.NoError(t, it.ForEach(func(n object.CommitNode) error {
		count++
		return object.ErrStop
	}))
	assert.Equal(t, 1, count)
}

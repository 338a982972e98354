package object

import (
	"errors"
	"io"

	"github.com/vcsforge/commitgraph/graph"
	"github.com/vcsforge/commitgraph/hash"
)

// CommitNode is a reduced view of a commit — tree hash, parents,
// committer time, generation — regardless of whether it was populated from
// the commit-graph file or from a raw object read. A revision walker
// written against CommitNode is oblivious to which backing store answered
// any given node (§4.7).
type CommitNode interface {
	ID() hash.Hash
	TreeHash() hash.Hash
	CommitTime() int64
	// Generation returns graph.UnknownGeneration if this node's generation
	// was never computed (it came from a raw object read, or the graph
	// that produced it left it unknown per §3 invariant 4).
	Generation() uint64
	NumParents() int
	ParentHashes() []hash.Hash
	ParentNode(i int) (CommitNode, error)
	ParentNodes() Iter
}

// NodeIndex loads CommitNode values by hash, preferring the commit-graph
// file and falling back to the raw object Source when a hash is absent
// from it (§4.7).
type NodeIndex interface {
	Get(h hash.Hash) (CommitNode, error)
}

// Iter is a closable iterator over CommitNode values.
type Iter interface {
	Next() (CommitNode, error)
	ForEach(func(CommitNode) error) error
	Close()
}

// ErrStop, returned from an Iter.ForEach callback, stops iteration early
// without propagating an error to the caller.
var ErrStop = errors.New("object: stop iteration")

// graphCommitNode backs CommitNode with a graph.CommitData: no raw commit
// bytes are read or retained (§4.7 behavioral-equivalence clause).
type graphCommitNode struct {
	hash  hash.Hash
	pos   graph.Position
	data  *graph.CommitData
	index *nodeIndex
}

func (c *graphCommitNode) ID() hash.Hash          { return c.hash }
func (c *graphCommitNode) TreeHash() hash.Hash     { return c.data.TreeHash }
func (c *graphCommitNode) CommitTime() int64       { return c.data.CommitTime }
func (c *graphCommitNode) Generation() uint64      { return c.data.Generation }
func (c *graphCommitNode) NumParents() int         { return len(c.data.ParentIndexes) }
func (c *graphCommitNode) ParentHashes() []hash.Hash {
	return c.data.ParentHashes
}

func (c *graphCommitNode) ParentNode(i int) (CommitNode, error) {
	if i < 0 || i >= len(c.data.ParentIndexes) {
		return nil, ErrParentNotFound
	}
	d, err := c.index.graph.GetCommitDataByIndex(c.data.ParentIndexes[i])
	if err != nil {
		return nil, err
	}
	return &graphCommitNode{
		hash:  c.data.ParentHashes[i],
		pos:   c.data.ParentIndexes[i],
		data:  d,
		index: c.index,
	}, nil
}

func (c *graphCommitNode) ParentNodes() Iter {
	return newParentIter(c)
}

// sourceCommitNode backs CommitNode with a raw Source.ReadCommit result,
// used whenever a commit (or one of its ancestors) is absent from the
// graph file.
type sourceCommitNode struct {
	id    hash.Hash
	raw   RawCommit
	index *nodeIndex
}

func (c *sourceCommitNode) ID() hash.Hash            { return c.id }
func (c *sourceCommitNode) TreeHash() hash.Hash       { return c.raw.TreeHash }
func (c *sourceCommitNode) CommitTime() int64         { return c.raw.CommitterTime }
func (c *sourceCommitNode) Generation() uint64        { return graph.UnknownGeneration }
func (c *sourceCommitNode) NumParents() int           { return len(c.raw.ParentHashes) }
func (c *sourceCommitNode) ParentHashes() []hash.Hash { return c.raw.ParentHashes }

func (c *sourceCommitNode) ParentNode(i int) (CommitNode, error) {
	if i < 0 || i >= len(c.raw.ParentHashes) {
		return nil, ErrParentNotFound
	}
	return c.index.Get(c.raw.ParentHashes[i])
}

func (c *sourceCommitNode) ParentNodes() Iter {
	return newParentIter(c)
}

// nodeIndex implements NodeIndex over an optional graph.Index backed by a
// required Source fallback.
type nodeIndex struct {
	graph graph.Index // nil means "graph unavailable"
	src   Source
}

// NewNodeIndex returns a NodeIndex that consults g (if non-nil) before
// falling back to src. Passing a nil g makes every lookup go through src,
// which is the correct behavior when "use graph when reading" (§6
// configuration) is false or no graph file exists.
func NewNodeIndex(g graph.Index, src Source) NodeIndex {
	return &nodeIndex{graph: g, src: src}
}

func (ni *nodeIndex) Get(h hash.Hash) (CommitNode, error) {
	if ni.graph != nil {
		pos, err := ni.graph.GetIndexByHash(h)
		if err == nil {
			data, err := ni.graph.GetCommitDataByIndex(pos)
			if err != nil {
				return nil, err
			}
			return &graphCommitNode{hash: h, pos: pos, data: data, index: ni}, nil
		}
	}

	raw, err := ni.src.ReadCommit(h)
	if err != nil {
		return nil, err
	}
	return &sourceCommitNode{id: h, raw: raw, index: ni}, nil
}

// parentIter walks a CommitNode's direct parents via ParentNode, shared by
// both CommitNode backings.
type parentIter struct {
	node CommitNode
	i    int
}

func newParentIter(n CommitNode) Iter {
	return &parentIter{node: n}
}

func (it *parentIter) Next() (CommitNode, error) {
	n, err := it.node.ParentNode(it.i)
	if err == ErrParentNotFound {
		return nil, io.EOF
	}
	if err != nil {
		return nil, err
	}
	it.i++
	return n, nil
}

func (it *parentIter) ForEach(cb func(CommitNode) error) error {
	for {
		n, err := it.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if err := cb(n); err != nil {
			if err == ErrStop {
				return nil
			}
			return err
		}
	}
}

func (it *parentIter) Close() {}

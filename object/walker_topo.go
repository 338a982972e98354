package object

import (
	"io"

	"github.com/emirpasic/gods/trees/binaryheap"

	"github.com/vcsforge/commitgraph/hash"
)

// topoOrderIter walks commits in topological order: a commit is only
// emitted once every one of its children (within the walked set) has
// already been emitted. Among commits that become ready simultaneously,
// higher generation (or, absent a generation, newer committer time) goes
// first — matching `--topo-order` (§4.7).
type topoOrderIter struct {
	index    NodeIndex
	inDegree map[hash.Hash]int
	ready    *nodeHeap
	ignore   map[hash.Hash]struct{}
}

// NewTopoOrderIter returns an Iter that visits every commit reachable from
// start, excluding any reachable only through a hash in ignore, in
// topological order.
func NewTopoOrderIter(index NodeIndex, start []hash.Hash, ignore []hash.Hash) (Iter, error) {
	it := &topoOrderIter{
		index:    index,
		inDegree: make(map[hash.Hash]int),
		ready:    &nodeHeap{binaryheap.NewWith(generationAndTimeComparator)},
		ignore:   composeIgnores(ignore),
	}

	visited := make(map[hash.Hash]struct{})
	for _, h := range start {
		if err := it.countChildren(h, visited); err != nil {
			return nil, err
		}
	}

	for _, h := range start {
		if _, skip := it.ignore[h]; skip {
			continue
		}
		n, err := index.Get(h)
		if err != nil {
			return nil, err
		}
		it.ready.Push(n)
	}
	return it, nil
}

// countChildren performs the first pass: for every node reachable from h,
// record how many of its children lie within the walked set, so the second
// pass knows when a node has become ready.
func (it *topoOrderIter) countChildren(h hash.Hash, visited map[hash.Hash]struct{}) error {
	if _, skip := it.ignore[h]; skip {
		return nil
	}
	if _, ok := visited[h]; ok {
		return nil
	}
	visited[h] = struct{}{}

	n, err := it.index.Get(h)
	if err != nil {
		return err
	}
	for _, ph := range n.ParentHashes() {
		if _, skip := it.ignore[ph]; skip {
			continue
		}
		it.inDegree[ph]++
		if err := it.countChildren(ph, visited); err != nil {
			return err
		}
	}
	return nil
}

func (it *topoOrderIter) Next() (CommitNode, error) {
	n, ok := it.ready.Pop()
	if !ok {
		return nil, io.EOF
	}

	for _, ph := range n.ParentHashes() {
		if _, skip := it.ignore[ph]; skip {
			continue
		}
		it.inDegree[ph]--
		if it.inDegree[ph] == 0 {
			pn, err := it.index.Get(ph)
			if err != nil {
				return nil, err
			}
			it.ready.Push(pn)
		}
	}
	return n, nil
}

func (it *topoOrderIter) ForEach(cb func(CommitNode) error) error {
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

func (it *topoOrderIter) Close() {}

package object

import (
	"io"

	"github.com/emirpasic/gods/trees/binaryheap"

	"github.com/vcsforge/commitgraph/hash"
)

// dateOrderIter walks commits so that no parent is ever emitted before
// every one of its children has been, exactly like topoOrderIter, but
// breaks ties among simultaneously-ready commits by committer time alone
// rather than by generation first. This is `--date-order` proper, kept
// distinct from plain topological order because generation number and
// committer time can disagree (§4.7; a generation-first tie-break would
// give `--topo-order`'s answer instead).
type dateOrderIter struct {
	index    NodeIndex
	inDegree map[hash.Hash]int
	ready    *nodeHeap
	ignore   map[hash.Hash]struct{}
}

// NewDateOrderIter returns an Iter equivalent to NewTopoOrderIter except
// for its tie-break rule among commits that become ready at the same time.
func NewDateOrderIter(index NodeIndex, start []hash.Hash, ignore []hash.Hash) (Iter, error) {
	it := &dateOrderIter{
		index:    index,
		inDegree: make(map[hash.Hash]int),
		ready:    &nodeHeap{binaryheap.NewWith(timeComparator)},
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

func (it *dateOrderIter) countChildren(h hash.Hash, visited map[hash.Hash]struct{}) error {
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

func (it *dateOrderIter) Next() (CommitNode, error) {
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

func (it *dateOrderIter) ForEach(cb func(CommitNode) error) error {
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

func (it *dateOrderIter) Close() {}

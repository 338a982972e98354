package object

import (
	"io"

	"github.com/emirpasic/gods/trees/binaryheap"

	"github.com/vcsforge/commitgraph/hash"
)

// ctimeOrderIter walks commits ordered purely by committer time, newest
// first, re-queuing parents as each node is emitted. Unlike topoOrderIter
// it makes no attempt to wait for every child of a commit to be emitted
// first, so a parent can surface before a sibling path has finished —
// this is what `git log --date-order` returned before `--topo-order`
// existed, and what this module calls committer-time order (§4.7).
type ctimeOrderIter struct {
	index  NodeIndex
	queue  *nodeHeap
	seen   map[hash.Hash]struct{}
	ignore map[hash.Hash]struct{}
}

// NewCommitTimeOrderIter returns an Iter that visits every commit reachable
// from start, excluding any reachable only through a hash in ignore,
// ordered by descending committer time.
func NewCommitTimeOrderIter(index NodeIndex, start []hash.Hash, ignore []hash.Hash) (Iter, error) {
	it := &ctimeOrderIter{
		index:  index,
		queue:  &nodeHeap{binaryheap.NewWith(timeComparator)},
		seen:   make(map[hash.Hash]struct{}),
		ignore: composeIgnores(ignore),
	}

	for _, h := range start {
		if err := it.enqueue(h); err != nil {
			return nil, err
		}
	}
	return it, nil
}

func (it *ctimeOrderIter) enqueue(h hash.Hash) error {
	if _, skip := it.ignore[h]; skip {
		return nil
	}
	if _, ok := it.seen[h]; ok {
		return nil
	}
	it.seen[h] = struct{}{}

	n, err := it.index.Get(h)
	if err != nil {
		return err
	}
	it.queue.Push(n)
	return nil
}

func (it *ctimeOrderIter) Next() (CommitNode, error) {
	n, ok := it.queue.Pop()
	if !ok {
		return nil, io.EOF
	}
	for _, ph := range n.ParentHashes() {
		if err := it.enqueue(ph); err != nil {
			return nil, err
		}
	}
	return n, nil
}

func (it *ctimeOrderIter) ForEach(cb func(CommitNode) error) error {
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

func (it *ctimeOrderIter) Close() {}

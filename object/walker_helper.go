package object

import (
	"github.com/emirpasic/gods/trees/binaryheap"

	"github.com/vcsforge/commitgraph/hash"
)

// nodeHeap adapts a gods binaryheap to hold CommitNode values.
type nodeHeap struct{ *binaryheap.Heap }

func (h *nodeHeap) Push(c CommitNode) { h.Heap.Push(c) }

func (h *nodeHeap) Pop() (CommitNode, bool) {
	v, ok := h.Heap.Pop()
	if !ok {
		return nil, false
	}
	return v.(CommitNode), true
}

func (h *nodeHeap) Peek() (CommitNode, bool) {
	v, ok := h.Heap.Peek()
	if !ok {
		return nil, false
	}
	return v.(CommitNode), true
}

func (h *nodeHeap) Size() int { return h.Heap.Size() }

// generationAndTimeComparator orders CommitNode values by generation
// (higher/newer first) and breaks ties — or handles the case where
// generation is graph.UnknownGeneration for either side — by committer
// time.
func generationAndTimeComparator(a, b interface{}) int {
	left := a.(CommitNode)
	right := b.(CommitNode)

	if left.Generation() == 0 || right.Generation() == 0 {
		switch {
		case left.CommitTime() > right.CommitTime():
			return -1
		case left.CommitTime() < right.CommitTime():
			return 1
		default:
			return 0
		}
	}

	switch {
	case left.Generation() > right.Generation():
		return -1
	case left.Generation() < right.Generation():
		return 1
	case left.CommitTime() > right.CommitTime():
		return -1
	case left.CommitTime() < right.CommitTime():
		return 1
	default:
		return 0
	}
}

// timeComparator orders CommitNode values by committer time alone,
// newest first, ignoring generation entirely — the tie-break used by
// `--date-order` proper, as opposed to topological order's
// generation-first comparator.
func timeComparator(a, b interface{}) int {
	left := a.(CommitNode)
	right := b.(CommitNode)
	switch {
	case left.CommitTime() > right.CommitTime():
		return -1
	case left.CommitTime() < right.CommitTime():
		return 1
	default:
		return 0
	}
}

// composeIgnores turns an explicit ignore list into a lookup set, matching
// the "excluding any reachable only through" revision-range exclusions a
// walker accepts.
func composeIgnores(ignore []hash.Hash) map[hash.Hash]struct{} {
	seen := make(map[hash.Hash]struct{}, len(ignore))
	for _, h := range ignore {
		seen[h] = struct{}{}
	}
	return seen
}

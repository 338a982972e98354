package object

import (
	"errors"

	"go.uber.org/multierr"

	"github.com/vcsforge/commitgraph/graph"
	"github.com/vcsforge/commitgraph/hash"
)

// Progress is the collaborator named in §6: the writer reports phase
// boundaries and periodic counts to it, and polls it for cancellation
// before each wanted tip and each commit visited during discovery, and once
// more before encoding (WriteFile). The encoding pass itself is not polled.
type Progress interface {
	BeginTask(name string, total int)
	Update(n int)
	IsCancelled() bool
}

// NoopProgress discards every report and never cancels. It is the default
// when a caller passes a nil Progress.
type NoopProgress struct{}

func (NoopProgress) BeginTask(string, int)  {}
func (NoopProgress) Update(int)             {}
func (NoopProgress) IsCancelled() bool      { return false }

// ErrCancelled is returned when the Progress sink requested cancellation;
// no partial graph is produced (§5, §7).
var ErrCancelled = errors.New("object: write cancelled")

var errParentsNotInGraph = errors.New("object: parents not yet added")

// Build performs the writer's discovery, ordering and generation-assignment
// phases (§4.6 steps 1–3) against src, starting from the given wanted
// tips, and returns a graph.MemoryIndex ready for graph.Encoder.Encode.
//
// Every wanted hash must resolve to a commit reachable entirely through
// commits present in src; if any is missing, Build aggregates every such
// failure with multierr and returns them together rather than stopping at
// the first one (§9 resolved open question).
func Build(src Source, wanted []hash.Hash, kind hash.Kind, prog Progress) (*graph.MemoryIndex, error) {
	if prog == nil {
		prog = NoopProgress{}
	}

	b := &builder{
		src:   src,
		index: graph.NewMemoryIndex(kind),
		raw:   make(map[hash.Hash]RawCommit),
		prog:  prog,
	}

	prog.BeginTask("Discovering commits", len(wanted))
	var errs error
	for i, h := range wanted {
		if prog.IsCancelled() {
			return nil, ErrCancelled
		}
		if err := b.addCommit(h); err != nil {
			if err == ErrCancelled {
				return nil, ErrCancelled
			}
			errs = multierr.Append(errs, err)
		}
		prog.Update(i + 1)
	}
	if errs != nil {
		return nil, errs
	}

	b.index.Sort()
	return b.index, nil
}

type builder struct {
	src    Source
	index  *graph.MemoryIndex
	raw    map[hash.Hash]RawCommit
	toWalk []hash.Hash
	prog   Progress
}

func (b *builder) has(h hash.Hash) bool {
	_, err := b.index.GetIndexByHash(h)
	return err == nil
}

func (b *builder) push(h hash.Hash)  { b.toWalk = append(b.toWalk, h) }
func (b *builder) pop() hash.Hash {
	n := len(b.toWalk) - 1
	h := b.toWalk[n]
	b.toWalk = b.toWalk[:n]
	return h
}
func (b *builder) peek() (hash.Hash, bool) {
	if len(b.toWalk) == 0 {
		return hash.Hash{}, false
	}
	return b.toWalk[len(b.toWalk)-1], true
}

// readCommit loads a commit's header, caching the result since the same
// commit is often reached again through a second parent edge.
func (b *builder) readCommit(h hash.Hash) (RawCommit, error) {
	if r, ok := b.raw[h]; ok {
		return r, nil
	}
	r, err := b.src.ReadCommit(h)
	if err != nil {
		if errors.Is(err, ErrNotACommit) || errors.Is(err, ErrMissingObject) {
			return RawCommit{}, err
		}
		return RawCommit{}, err
	}
	b.raw[h] = r
	return r, nil
}

// addCommit walks h and every ancestor reachable through it, adding each to
// the index once its parents' generations are known (§4.6 steps 1 and 3).
func (b *builder) addCommit(h hash.Hash) error {
	if b.has(h) {
		return nil
	}

	b.push(h)
	for {
		if b.prog.IsCancelled() {
			return ErrCancelled
		}
		top, ok := b.peek()
		if !ok {
			break
		}
		if err := b.tryToAdd(top); err == errParentsNotInGraph {
			continue
		} else if err != nil {
			return err
		}
		b.pop()
	}
	return nil
}

func (b *builder) tryToAdd(h hash.Hash) error {
	if b.has(h) {
		return nil
	}

	raw, err := b.readCommit(h)
	if err != nil {
		return err
	}

	generation := uint64(1)
	parentsReady := true
	for _, ph := range raw.ParentHashes {
		pos, err := b.index.GetIndexByHash(ph)
		if err != nil {
			parentsReady = false
			if !b.queued(ph) {
				b.push(ph)
			}
			continue
		}
		if !parentsReady {
			continue
		}
		pd, err := b.index.GetCommitDataByIndex(pos)
		if err != nil {
			return err
		}
		if pd.Generation+1 > generation {
			generation = pd.Generation + 1
		}
	}
	if !parentsReady {
		return errParentsNotInGraph
	}

	b.index.Add(h, &graph.CommitData{
		TreeHash:     raw.TreeHash,
		ParentHashes: raw.ParentHashes,
		Generation:   generation,
		CommitTime:   raw.CommitterTime,
	})
	return nil
}

func (b *builder) queued(h hash.Hash) bool {
	for _, q := range b.toWalk {
		if q.Equal(h) {
			return true
		}
	}
	return false
}

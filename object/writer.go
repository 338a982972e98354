package object

import (
	"bufio"
	"os"
	"path/filepath"

	"github.com/vcsforge/commitgraph/graph"
	"github.com/vcsforge/commitgraph/hash"
	"github.com/vcsforge/commitgraph/internal/trace"
)

// WriteFile builds a commit-graph file covering every commit reachable
// from wanted and atomically installs it at dir/name (§4.6 step 5, §5
// "atomic regeneration"). On any failure — including cancellation — no
// file at the final path is created or modified, and the temporary file is
// removed.
func WriteFile(dir, name string, src Source, wanted []hash.Hash, kind hash.Kind, prog Progress) error {
	if prog == nil {
		prog = NoopProgress{}
	}

	trace.Writer.Printf("writer: discovering commits for %d tips", len(wanted))
	idx, err := Build(src, wanted, kind, prog)
	if err != nil {
		return err
	}

	if prog.IsCancelled() {
		trace.Writer.Print("writer: cancelled during discovery")
		return ErrCancelled
	}

	tmp, err := os.CreateTemp(dir, name+".tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	succeeded := false
	defer func() {
		if !succeeded {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	prog.BeginTask("Writing graph", int(idx.CommitCount()))
	bw := bufio.NewWriter(tmp)
	enc := graph.NewEncoder(bw, kind)
	if err := enc.Encode(idx); err != nil {
		return err
	}
	if err := bw.Flush(); err != nil {
		return err
	}
	prog.Update(int(idx.CommitCount()))

	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	finalPath := filepath.Join(dir, name)
	if err := os.Rename(tmpPath, finalPath); err != nil {
		return err
	}
	succeeded = true
	trace.Writer.Printf("writer: installed %s (%d commits)", finalPath, idx.CommitCount())
	return nil
}

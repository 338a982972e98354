package graph

import (
	"os"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// OpenPath opens and parses the commit-graph file at path. Because the
// writer installs a new file via rename (§5 "atomic regeneration"), a
// reader can transiently see the path mid-rename on some filesystems; a
// handful of short retries absorbs that race without graph itself needing
// to know anything about rename semantics.
func OpenPath(path string) (Index, error) {
	var (
		f   *os.File
		idx Index
	)

	open := func() error {
		var err error
		f, err = os.Open(path)
		if err != nil {
			return err
		}
		info, err := f.Stat()
		if err != nil {
			_ = f.Close()
			return err
		}
		idx, err = OpenFile(f, info.Size())
		if err != nil {
			_ = f.Close()
			return err
		}
		return nil
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 10 * time.Millisecond
	b.MaxInterval = 100 * time.Millisecond
	retry := backoff.WithMaxRetries(b, 4)

	if err := backoff.Retry(open, retry); err != nil {
		return nil, err
	}
	return &fileBackedIndex{Index: idx, f: f}, nil
}

// fileBackedIndex closes the os.File OpenPath opened on its behalf; an
// Index built via OpenFile directly leaves that decision to its caller.
type fileBackedIndex struct {
	Index
	f *os.File
}

func (fi *fileBackedIndex) Close() error {
	_ = fi.Index.Close()
	return fi.f.Close()
}

// Package watch implements the narrow "GC orchestrator" slice named in §6:
// deleting the commit-graph file once a repository's last pack is pruned,
// so a reader never consults a graph describing objects that no longer
// exist (scenario S5). Regeneration scheduling remains the caller's
// responsibility.
package watch

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/vcsforge/commitgraph/internal/trace"
)

// OrphanWatcher watches a pack directory and removes a commit-graph file
// once no `.pack` file remains in it.
type OrphanWatcher struct {
	watcher   *fsnotify.Watcher
	packDir   string
	graphPath string
	done      chan struct{}
}

// NewOrphanWatcher starts watching packDir. graphPath is removed the first
// time a watch event leaves packDir without any `.pack` file in it.
func NewOrphanWatcher(packDir, graphPath string) (*OrphanWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(packDir); err != nil {
		_ = w.Close()
		return nil, err
	}

	ow := &OrphanWatcher{
		watcher:   w,
		packDir:   packDir,
		graphPath: graphPath,
		done:      make(chan struct{}),
	}
	go ow.run()
	return ow, nil
}

func (ow *OrphanWatcher) run() {
	for {
		select {
		case ev, ok := <-ow.watcher.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if !strings.HasSuffix(ev.Name, ".pack") {
				continue
			}
			ow.checkOrphaned()
		case err, ok := <-ow.watcher.Errors:
			if !ok {
				return
			}
			trace.Watch.Printf("watch: %v", err)
		case <-ow.done:
			return
		}
	}
}

func (ow *OrphanWatcher) checkOrphaned() {
	entries, err := os.ReadDir(ow.packDir)
	if err != nil {
		trace.Watch.Printf("watch: reading %s: %v", ow.packDir, err)
		return
	}
	for _, e := range entries {
		if filepath.Ext(e.Name()) == ".pack" {
			return
		}
	}

	if err := os.Remove(ow.graphPath); err != nil && !os.IsNotExist(err) {
		trace.Watch.Printf("watch: removing orphaned graph %s: %v", ow.graphPath, err)
	} else {
		trace.Watch.Printf("watch: removed orphaned graph %s", ow.graphPath)
	}
}

// Close stops the watcher.
func (ow *OrphanWatcher) Close() error {
	close(ow.done)
	return ow.watcher.Close()
}

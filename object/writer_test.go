package object_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vcsforge/commitgraph/graph"
	"github.com/vcsforge/commitgraph/hash"
	"github.com/vcsforge/commitgraph/object"
)

func TestWriteFileInstallsAtomically(t *testing.T) {
	dir := t.TempDir()
	src, _, _, tip := linearHistory(t)

	err := object.WriteFile(dir, "commit-graph", src, []hash.Hash{tip}, hash.SHA1, nil)
	require.NoError(t, err)

	finalPath := filepath.Join(dir, "commit-graph")
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "no temp file should survive a successful write")
	assert.Equal(t, "commit-graph", entries[0].Name())

	f, err := os.Open(finalPath)
	require.NoError(t, err)
	defer f.Close()
	info, err := f.Stat()
	require.NoError(t, err)

	idx, err := graph.OpenFile(f, info.Size())
	require.NoError(t, err)
	defer idx.Close()
	assert.EqualValues(t, 3, idx.CommitCount())
}

func TestWriteFileLeavesNoTempOnCancellation(t *testing.T) {
	dir := t.TempDir()
	src, _, _, tip := linearHistory(t)

	err := object.WriteFile(dir, "commit-graph", src, []hash.Hash{tip}, hash.SHA1, cancelledProgress{})
	assert.ErrorIs(t, err, object.ErrCancelled)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "a cancelled write must leave no file behind")
}

func TestWriteFileLeavesNoTempOnMissingTip(t *testing.T) {
	dir := t.TempDir()
	src, _, _, _ := linearHistory(t)
	missing := h(t, "00000000000000000000000000000000000aaaa1")

	err := object.WriteFile(dir, "commit-graph", src, []hash.Hash{missing}, hash.SHA1, nil)
	require.Error(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

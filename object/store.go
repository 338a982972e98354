// Package object implements the traversal hook (§4.7): it lets a revision
// walker resolve a commit's headers from the graph when possible, falling
// back transparently to the raw object database otherwise, and it builds
// new graph files from a reachable commit set (§4.6).
package object

import (
	"errors"

	"github.com/vcsforge/commitgraph/hash"
)

// ErrNotACommit is returned by a Source when the requested hash names an
// object that exists but is not a commit.
var ErrNotACommit = errors.New("object: not a commit")

// ErrMissingObject is returned by a Source when the requested hash is not
// present in the object database at all.
var ErrMissingObject = errors.New("object: missing object")

// ErrParentNotFound is returned by CommitNode.ParentNode for an
// out-of-range parent index.
var ErrParentNotFound = errors.New("object: parent not found")

// RawCommit is the minimal header data the Source collaborator must expose
// for each commit: exactly the fields the graph format stores (§6).
type RawCommit struct {
	TreeHash      hash.Hash
	ParentHashes  []hash.Hash
	CommitterTime int64
}

// Source is the external object database collaborator named in §6: given a
// commit hash it returns that commit's header, or ErrNotACommit /
// ErrMissingObject. This module never reads packed or loose objects
// itself; Source is the entire surface it depends on.
type Source interface {
	ReadCommit(h hash.Hash) (RawCommit, error)
}

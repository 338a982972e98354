package graph

import "errors"

var (
	// ErrUnsupportedVersion is returned when the file's version byte is not 1.
	ErrUnsupportedVersion = errors.New("graph: unsupported file version")
	// ErrUnsupportedHash is returned when the file's hash-kind byte names no
	// known hash function.
	ErrUnsupportedHash = errors.New("graph: unsupported hash kind")
	// ErrMalformed is returned for a structural inconsistency: bad
	// signature, non-monotonic directory or fanout, or missing required
	// chunk. Chunk sizes are not checked against the commit count.
	ErrMalformed = errors.New("graph: malformed file")
	// ErrChecksumMismatch is returned when the trailing checksum does not
	// match the hash of the preceding bytes.
	ErrChecksumMismatch = errors.New("graph: checksum mismatch")
	// ErrNotFound is returned by query methods for hashes or positions
	// outside the file's bounds. Callers normally treat this as "not in the
	// graph" rather than a hard failure.
	ErrNotFound = errors.New("graph: not found")
)

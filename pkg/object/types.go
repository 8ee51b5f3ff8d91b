package object

import "errors"

// Hash is a 40-character hex-encoded SHA-1 digest.
type Hash string

// Valid reports whether h is a well-formed lowercase hex digest of the
// expected length.
func (h Hash) Valid() bool {
	if len(h) != 40 {
		return false
	}
	for _, c := range h {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}

// Kind identifies the kind of object stored.
type Kind string

const (
	KindBlob   Kind = "blob"
	KindTree   Kind = "tree"
	KindCommit Kind = "commit"
)

const (
	// Tree mode constants. The leading zero on ModeDir keeps directory
	// entries ahead of file entries in the canonical sort.
	ModeFile = "100644"
	ModeDir  = "040000"
)

// DefaultTZ is the timezone recorded on commits. Commit times are plain
// Unix seconds, so the offset is fixed.
const DefaultTZ = "+0000"

var (
	// ErrNotFound reports a hash with no stored object behind it.
	ErrNotFound = errors.New("object not found")

	// ErrCorrupt reports stored bytes that cannot be decoded back into
	// a well-formed object.
	ErrCorrupt = errors.New("corrupt object")
)

// Blob holds raw file data, verbatim.
type Blob struct {
	Data []byte
}

// TreeEntry is one entry in a tree object. Name is a single path segment,
// unique within its tree.
type TreeEntry struct {
	Mode string
	Name string
	Hash Hash
}

// Tree holds the entries of one directory level.
type Tree struct {
	Entries []TreeEntry
}

// Commit points at a tree snapshot with metadata. Parents holds zero
// hashes for a root commit and one otherwise; author and committer share
// one timestamp because this engine records commits at creation time only.
type Commit struct {
	TreeHash  Hash
	Parents   []Hash
	Author    string
	Committer string
	Timestamp int64
	TZ        string
	Message   string
}

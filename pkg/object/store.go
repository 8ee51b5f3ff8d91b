package object

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/odvcencio/grit/pkg/fsys"
)

// Store is a content-addressed, append-only object store with a
// 2-character fan-out directory layout: objects/ab/cdef0123...
// All disk access goes through an injected fsys.FS.
type Store struct {
	fs   fsys.FS
	root string
}

// NewStore creates a Store rooted at the repository metadata directory.
// The objects/ subdirectory is created lazily on first write.
func NewStore(fsi fsys.FS, root string) *Store {
	return &Store{fs: fsi, root: root}
}

// objectPath returns the filesystem path for a given hash.
func (s *Store) objectPath(h Hash) string {
	return filepath.Join(s.root, "objects", string(h[:2]), string(h[2:]))
}

// Has reports whether the store contains an object with the given hash.
func (s *Store) Has(h Hash) bool {
	if !h.Valid() {
		return false
	}
	_, err := s.fs.Stat(s.objectPath(h))
	return err == nil
}

// Put stores an object and returns its content hash. Storing the same
// kind and content again is a no-op: at most one physical write ever
// happens per hash. Writes are atomic via temp file + rename.
func (s *Store) Put(kind Kind, content []byte) (Hash, error) {
	h := HashObject(kind, content)

	// Fast path: already exists.
	if s.Has(h) {
		return h, nil
	}

	encoded, err := Encode(kind, content)
	if err != nil {
		return "", fmt.Errorf("object put: %w", err)
	}

	dir := filepath.Join(s.root, "objects", string(h[:2]))
	if err := s.fs.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("object put mkdir: %w", err)
	}

	tmp, tmpName, err := s.fs.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return "", fmt.Errorf("object put tmpfile: %w", err)
	}
	if _, err := tmp.Write(encoded); err != nil {
		tmp.Close()
		s.fs.Remove(tmpName)
		return "", fmt.Errorf("object put write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		s.fs.Remove(tmpName)
		return "", fmt.Errorf("object put close: %w", err)
	}
	if err := s.fs.Rename(tmpName, s.objectPath(h)); err != nil {
		s.fs.Remove(tmpName)
		return "", fmt.Errorf("object put rename: %w", err)
	}

	return h, nil
}

// Get retrieves an object by hash, returning its kind and content. A hash
// with no object behind it reports ErrNotFound; undecodable bytes report
// ErrCorrupt, as does stored content that no longer hashes to the name it
// was filed under.
func (s *Store) Get(h Hash) (Kind, []byte, error) {
	if !h.Valid() {
		return "", nil, fmt.Errorf("object %s: %w", h, ErrNotFound)
	}
	data, err := s.fs.ReadFile(s.objectPath(h))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil, fmt.Errorf("object %s: %w", h, ErrNotFound)
		}
		return "", nil, fmt.Errorf("object read %s: %w", h, err)
	}

	kind, content, err := Decode(data)
	if err != nil {
		return "", nil, fmt.Errorf("object %s: %w", h, err)
	}
	if got := HashObject(kind, content); got != h {
		return "", nil, fmt.Errorf("object %s: %w: content hashes to %s", h, ErrCorrupt, got)
	}
	return kind, content, nil
}

// Walk calls fn for every hash in the store, in no particular order.
// A non-nil error from fn stops the walk. Files that do not follow the
// fan-out naming are ignored.
func (s *Store) Walk(fn func(Hash) error) error {
	objectsDir := filepath.Join(s.root, "objects")
	fanouts, err := s.fs.ReadDir(objectsDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("object walk: %w", err)
	}
	for _, fan := range fanouts {
		if !fan.IsDir() || len(fan.Name()) != 2 {
			continue
		}
		entries, err := s.fs.ReadDir(filepath.Join(objectsDir, fan.Name()))
		if err != nil {
			return fmt.Errorf("object walk %s: %w", fan.Name(), err)
		}
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			h := Hash(fan.Name() + e.Name())
			if !h.Valid() {
				continue
			}
			if err := fn(h); err != nil {
				return err
			}
		}
	}
	return nil
}

// ---------------------------------------------------------------------------
// Typed convenience methods
// ---------------------------------------------------------------------------

// PutBlob serializes and stores a Blob.
func (s *Store) PutBlob(b *Blob) (Hash, error) {
	return s.Put(KindBlob, MarshalBlob(b))
}

// GetBlob reads and deserializes a Blob.
func (s *Store) GetBlob(h Hash) (*Blob, error) {
	kind, data, err := s.Get(h)
	if err != nil {
		return nil, err
	}
	if kind != KindBlob {
		return nil, fmt.Errorf("object %s: kind mismatch: got %q, want %q", h, kind, KindBlob)
	}
	return UnmarshalBlob(data)
}

// PutTree serializes and stores a Tree in canonical order.
func (s *Store) PutTree(t *Tree) (Hash, error) {
	data, err := MarshalTree(t)
	if err != nil {
		return "", err
	}
	return s.Put(KindTree, data)
}

// GetTree reads and deserializes a Tree.
func (s *Store) GetTree(h Hash) (*Tree, error) {
	kind, data, err := s.Get(h)
	if err != nil {
		return nil, err
	}
	if kind != KindTree {
		return nil, fmt.Errorf("object %s: kind mismatch: got %q, want %q", h, kind, KindTree)
	}
	return UnmarshalTree(data)
}

// PutCommit serializes and stores a Commit.
func (s *Store) PutCommit(c *Commit) (Hash, error) {
	return s.Put(KindCommit, MarshalCommit(c))
}

// GetCommit reads and deserializes a Commit.
func (s *Store) GetCommit(h Hash) (*Commit, error) {
	kind, data, err := s.Get(h)
	if err != nil {
		return nil, err
	}
	if kind != KindCommit {
		return nil, fmt.Errorf("object %s: kind mismatch: got %q, want %q", h, kind, KindCommit)
	}
	return UnmarshalCommit(data)
}

// Package fsys abstracts the filesystem operations the repository needs so
// that the object store, index, and reference files can be exercised against
// an in-memory implementation in tests.
package fsys

import (
	"io"
	"os"
)

// FS is the set of filesystem operations used by the repository. Both
// implementations surface missing paths as errors satisfying
// errors.Is(err, fs.ErrNotExist).
type FS interface {
	ReadFile(path string) ([]byte, error)
	WriteFile(path string, data []byte, perm os.FileMode) error
	MkdirAll(path string, perm os.FileMode) error
	Remove(path string) error
	RemoveAll(path string) error
	Rename(oldPath, newPath string) error
	Stat(path string) (os.FileInfo, error)
	ReadDir(path string) ([]os.DirEntry, error)
	// CreateTemp opens a uniquely named file in dir for writing and returns
	// the writer together with the file's path. Callers Close and then Rename
	// into place for atomic replacement.
	CreateTemp(dir, pattern string) (io.WriteCloser, string, error)
}

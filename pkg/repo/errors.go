package repo

import "errors"

var (
	// ErrPathNotFound reports a user-supplied path that does not exist.
	ErrPathNotFound = errors.New("path not found")

	// ErrInvalidPathKind reports a path that is neither a regular file nor
	// a directory.
	ErrInvalidPathKind = errors.New("path is neither a file nor a directory")

	// ErrNotRepository reports that no repository was found at or above
	// the given path.
	ErrNotRepository = errors.New("not a grit repository")
)

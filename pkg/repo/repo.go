package repo

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/odvcencio/grit/pkg/fsys"
	"github.com/odvcencio/grit/pkg/object"
)

// metaDirName is the repository metadata directory created under the root.
const metaDirName = ".grit"

// Repo represents an opened Grit repository. All filesystem access,
// including working-tree reads and writes, goes through FS so whole
// repository flows can run against an in-memory filesystem.
type Repo struct {
	RootDir string        // working directory root
	GritDir string        // .grit/ directory
	FS      fsys.FS       // filesystem the repository lives on
	Store   *object.Store // content-addressed object store
}

func newRepo(root string, fsi fsys.FS) *Repo {
	gritDir := filepath.Join(root, metaDirName)
	return &Repo{
		RootDir: root,
		GritDir: gritDir,
		FS:      fsi,
		Store:   object.NewStore(fsi, gritDir),
	}
}

// Init creates a new repository at path: objects/, refs/heads/, HEAD,
// default config, and an empty index. When a repository already exists
// there, the existing one is opened and created is false. A failure
// partway through removes whatever was created.
func Init(path string, fsi fsys.FS) (r *Repo, created bool, err error) {
	gritDir := filepath.Join(path, metaDirName)

	if _, statErr := fsi.Stat(gritDir); statErr == nil {
		return newRepo(path, fsi), false, nil
	}

	// Clean up the half-built metadata directory if anything below fails.
	defer func() {
		if err != nil {
			slog.Debug("cleaning up partial repository initialization", "path", gritDir)
			if rmErr := fsi.RemoveAll(gritDir); rmErr != nil {
				slog.Warn("failed to clean up repository directory", "path", gritDir, "error", rmErr)
			}
		}
	}()

	dirs := []string{
		filepath.Join(gritDir, "objects"),
		filepath.Join(gritDir, "refs", "heads"),
	}
	for _, d := range dirs {
		if err := fsi.MkdirAll(d, 0o755); err != nil {
			return nil, false, fmt.Errorf("init: mkdir %s: %w", d, err)
		}
	}

	r = newRepo(path, fsi)

	if err := r.writeDefaultConfig(); err != nil {
		return nil, false, fmt.Errorf("init: %w", err)
	}
	if err := r.setHEAD(r.defaultBranchName()); err != nil {
		return nil, false, fmt.Errorf("init: %w", err)
	}
	if err := r.WriteIndex(NewIndex()); err != nil {
		return nil, false, fmt.Errorf("init: %w", err)
	}

	return r, true, nil
}

// Open searches upward from path for a repository and opens it. Returns
// ErrNotRepository when the search reaches the filesystem root without
// finding one.
func Open(path string, fsi fsys.FS) (*Repo, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("open: abs path: %w", err)
	}

	cur := abs
	for {
		info, err := fsi.Stat(filepath.Join(cur, metaDirName))
		if err == nil && info.IsDir() {
			return newRepo(cur, fsi), nil
		}
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("open %s: %w", cur, err)
		}

		parent := filepath.Dir(cur)
		if parent == cur {
			return nil, fmt.Errorf("open %s: %w", abs, ErrNotRepository)
		}
		cur = parent
	}
}

// relPath converts a path (absolute, or relative to the repository root)
// into the repo-relative "/"-separated form used as index and tree keys.
func (r *Repo) relPath(p string) string {
	if filepath.IsAbs(p) {
		if rel, err := filepath.Rel(r.RootDir, p); err == nil && rel != ".." &&
			!strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return filepath.ToSlash(rel)
		}
	}
	return filepath.ToSlash(filepath.Clean(p))
}

// absPath converts a repo-relative path back to a filesystem path.
func (r *Repo) absPath(rel string) string {
	return filepath.Join(r.RootDir, filepath.FromSlash(rel))
}

// isMetaPath reports whether a repo-relative path lies inside the
// metadata directory, which no staging or status walk may touch.
func isMetaPath(rel string) bool {
	return rel == metaDirName || strings.HasPrefix(rel, metaDirName+"/")
}

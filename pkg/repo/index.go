package repo

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sort"

	"github.com/zeebo/xxh3"

	"github.com/odvcencio/grit/pkg/object"
)

// Index is the staging area: a flat mapping from repo-relative path to
// blob hash, pending the next commit.
type Index struct {
	Entries map[string]object.Hash
}

func NewIndex() *Index {
	return &Index{Entries: make(map[string]object.Hash)}
}

// indexFile is the persisted form. The checksum covers the entry payload
// so a damaged index is detected on load instead of silently staging
// garbage.
type indexFile struct {
	Checksum string                 `json:"checksum"`
	Entries  map[string]object.Hash `json:"entries"`
}

func (r *Repo) indexPath() string {
	return filepath.Join(r.GritDir, "index")
}

// indexChecksum hashes a deterministic rendering of the entries with
// xxh3-128.
func indexChecksum(entries map[string]object.Hash) string {
	paths := make([]string, 0, len(entries))
	for p := range entries {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	var payload []byte
	for _, p := range paths {
		payload = append(payload, p...)
		payload = append(payload, ' ')
		payload = append(payload, entries[p]...)
		payload = append(payload, '\n')
	}
	return fmt.Sprintf("%x", xxh3.Hash128(payload).Bytes())
}

// ReadIndex loads the staging area from .grit/index. Load failures are
// soft: a missing, unreadable, malformed, or checksum-mismatched file
// yields an empty index.
func (r *Repo) ReadIndex() *Index {
	data, err := r.FS.ReadFile(r.indexPath())
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			slog.Debug("index unreadable, treating as empty", "error", err)
		}
		return NewIndex()
	}

	var f indexFile
	if err := json.Unmarshal(data, &f); err != nil {
		slog.Debug("index malformed, treating as empty", "error", err)
		return NewIndex()
	}
	if f.Entries == nil {
		f.Entries = make(map[string]object.Hash)
	}
	if got := indexChecksum(f.Entries); got != f.Checksum {
		slog.Debug("index checksum mismatch, treating as empty",
			"want", f.Checksum, "got", got)
		return NewIndex()
	}
	return &Index{Entries: f.Entries}
}

// WriteIndex atomically rewrites .grit/index.
func (r *Repo) WriteIndex(idx *Index) error {
	f := indexFile{
		Checksum: indexChecksum(idx.Entries),
		Entries:  idx.Entries,
	}
	data, err := json.MarshalIndent(&f, "", "  ")
	if err != nil {
		return fmt.Errorf("write index: marshal: %w", err)
	}

	tmp, tmpName, err := r.FS.CreateTemp(r.GritDir, ".index-tmp-*")
	if err != nil {
		return fmt.Errorf("write index: tmpfile: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		r.FS.Remove(tmpName)
		return fmt.Errorf("write index: write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		r.FS.Remove(tmpName)
		return fmt.Errorf("write index: close: %w", err)
	}
	if err := r.FS.Rename(tmpName, r.indexPath()); err != nil {
		r.FS.Remove(tmpName)
		return fmt.Errorf("write index: rename: %w", err)
	}
	return nil
}

func (r *Repo) clearIndex() error {
	return r.WriteIndex(NewIndex())
}

// StageFile stores one file as a blob and upserts its index entry.
// The path must name an existing regular file.
func (r *Repo) StageFile(path string) (object.Hash, error) {
	rel := r.relPath(path)

	info, err := r.FS.Stat(r.absPath(rel))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("stage %q: %w", rel, ErrPathNotFound)
		}
		return "", fmt.Errorf("stage %q: %w", rel, err)
	}
	if info.IsDir() || !info.Mode().IsRegular() {
		return "", fmt.Errorf("stage %q: %w", rel, ErrInvalidPathKind)
	}

	idx := r.ReadIndex()
	h, err := r.stageOne(idx, rel)
	if err != nil {
		return "", err
	}
	if err := r.WriteIndex(idx); err != nil {
		return "", err
	}
	return h, nil
}

// stageOne reads a file, stores its blob and updates idx in place.
func (r *Repo) stageOne(idx *Index, rel string) (object.Hash, error) {
	content, err := r.FS.ReadFile(r.absPath(rel))
	if err != nil {
		return "", fmt.Errorf("stage %q: read: %w", rel, err)
	}
	h, err := r.Store.PutBlob(&object.Blob{Data: content})
	if err != nil {
		return "", fmt.Errorf("stage %q: %w", rel, err)
	}
	idx.Entries[rel] = h
	return h, nil
}

// StageDir recursively stages every regular file under path, except
// files inside the metadata directory. It returns the number of files
// staged; zero means the directory holds no eligible file.
func (r *Repo) StageDir(path string) (int, error) {
	rel := r.relPath(path)

	info, err := r.FS.Stat(r.absPath(rel))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, fmt.Errorf("stage %q: %w", rel, ErrPathNotFound)
		}
		return 0, fmt.Errorf("stage %q: %w", rel, err)
	}
	if !info.IsDir() {
		return 0, fmt.Errorf("stage %q: %w", rel, ErrInvalidPathKind)
	}

	idx := r.ReadIndex()
	count, err := r.stageDirInto(idx, rel)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		if err := r.WriteIndex(idx); err != nil {
			return 0, err
		}
	}
	return count, nil
}

func (r *Repo) stageDirInto(idx *Index, rel string) (int, error) {
	entries, err := r.FS.ReadDir(r.absPath(rel))
	if err != nil {
		return 0, fmt.Errorf("stage %q: %w", rel, err)
	}

	count := 0
	for _, e := range entries {
		child := e.Name()
		if rel != "." {
			child = rel + "/" + e.Name()
		}
		if isMetaPath(child) {
			continue
		}
		if e.IsDir() {
			n, err := r.stageDirInto(idx, child)
			if err != nil {
				return count, err
			}
			count += n
			continue
		}
		if !e.Type().IsRegular() {
			continue
		}
		if _, err := r.stageOne(idx, child); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

// Stage dispatches on the path's kind: files stage as one entry,
// directories stage recursively. The count of staged files is returned.
func (r *Repo) Stage(path string) (int, error) {
	rel := r.relPath(path)

	info, err := r.FS.Stat(r.absPath(rel))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, fmt.Errorf("stage %q: %w", rel, ErrPathNotFound)
		}
		return 0, fmt.Errorf("stage %q: %w", rel, err)
	}
	if info.IsDir() {
		return r.StageDir(path)
	}
	if !info.Mode().IsRegular() {
		return 0, fmt.Errorf("stage %q: %w", rel, ErrInvalidPathKind)
	}
	if _, err := r.StageFile(path); err != nil {
		return 0, err
	}
	return 1, nil
}

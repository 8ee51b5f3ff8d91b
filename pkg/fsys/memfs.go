package fsys

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// MemFS is an in-memory FS for tests. It is not safe for concurrent use,
// matching the single-process model of the repository itself.
type MemFS struct {
	files map[string][]byte
	dirs  map[string]struct{}
	tmpN  int
}

func NewMemFS() *MemFS {
	m := &MemFS{
		files: make(map[string][]byte),
		dirs:  make(map[string]struct{}),
	}
	m.dirs["."] = struct{}{}
	m.dirs["/"] = struct{}{}
	return m
}

var errNotEmpty = errors.New("directory not empty")

func norm(p string) string {
	if p == "" {
		return "."
	}
	return filepath.ToSlash(filepath.Clean(p))
}

func notExist(op, p string) error {
	return &fs.PathError{Op: op, Path: p, Err: fs.ErrNotExist}
}

func (m *MemFS) hasDir(p string) bool {
	_, ok := m.dirs[norm(p)]
	return ok
}

func (m *MemFS) ReadFile(p string) ([]byte, error) {
	p = norm(p)
	data, ok := m.files[p]
	if !ok {
		return nil, notExist("open", p)
	}
	return append([]byte(nil), data...), nil
}

func (m *MemFS) WriteFile(p string, data []byte, perm os.FileMode) error {
	p = norm(p)
	if !m.hasDir(path.Dir(p)) {
		return notExist("open", p)
	}
	m.files[p] = append([]byte(nil), data...)
	return nil
}

func (m *MemFS) MkdirAll(p string, perm os.FileMode) error {
	p = norm(p)
	cur := ""
	if strings.HasPrefix(p, "/") {
		cur = "/"
	}
	for _, seg := range strings.Split(p, "/") {
		if seg == "" || seg == "." {
			continue
		}
		cur = path.Join(cur, seg)
		m.dirs[cur] = struct{}{}
	}
	return nil
}

// Remove deletes a file, or a directory only when it is empty, mirroring
// os.Remove.
func (m *MemFS) Remove(p string) error {
	p = norm(p)
	if _, ok := m.files[p]; ok {
		delete(m.files, p)
		return nil
	}
	if _, ok := m.dirs[p]; ok {
		if m.dirNonEmpty(p) {
			return &fs.PathError{Op: "remove", Path: p, Err: errNotEmpty}
		}
		delete(m.dirs, p)
		return nil
	}
	return notExist("remove", p)
}

// RemoveAll deletes a path and everything under it. A missing path is not
// an error, mirroring os.RemoveAll.
func (m *MemFS) RemoveAll(p string) error {
	p = norm(p)
	delete(m.files, p)
	delete(m.dirs, p)
	prefix := childPrefix(p)
	for fp := range m.files {
		if strings.HasPrefix(fp, prefix) {
			delete(m.files, fp)
		}
	}
	for dp := range m.dirs {
		if strings.HasPrefix(dp, prefix) {
			delete(m.dirs, dp)
		}
	}
	return nil
}

func (m *MemFS) dirNonEmpty(p string) bool {
	prefix := childPrefix(p)
	for fp := range m.files {
		if strings.HasPrefix(fp, prefix) {
			return true
		}
	}
	for dp := range m.dirs {
		if strings.HasPrefix(dp, prefix) {
			return true
		}
	}
	return false
}

func (m *MemFS) Rename(oldPath, newPath string) error {
	oldPath, newPath = norm(oldPath), norm(newPath)
	if data, ok := m.files[oldPath]; ok {
		if !m.hasDir(path.Dir(newPath)) {
			return notExist("rename", newPath)
		}
		delete(m.files, oldPath)
		m.files[newPath] = data
		return nil
	}
	if _, ok := m.dirs[oldPath]; ok {
		delete(m.dirs, oldPath)
		m.dirs[newPath] = struct{}{}
		return nil
	}
	return notExist("rename", oldPath)
}

func (m *MemFS) Stat(p string) (os.FileInfo, error) {
	p = norm(p)
	if data, ok := m.files[p]; ok {
		return &memInfo{name: path.Base(p), size: int64(len(data))}, nil
	}
	if _, ok := m.dirs[p]; ok {
		return &memInfo{name: path.Base(p), dir: true}, nil
	}
	return nil, notExist("stat", p)
}

func (m *MemFS) ReadDir(p string) ([]os.DirEntry, error) {
	p = norm(p)
	if _, ok := m.dirs[p]; !ok {
		return nil, notExist("open", p)
	}

	prefix := childPrefix(p)
	seen := make(map[string]bool)
	var out []os.DirEntry

	for dp := range m.dirs {
		if name, ok := firstSegment(dp, prefix); ok && !seen[name] {
			seen[name] = true
			out = append(out, memDirEntry{name: name, dir: true})
		}
	}
	for fp := range m.files {
		if name, ok := firstSegment(fp, prefix); ok && !seen[name] {
			seen[name] = true
			out = append(out, memDirEntry{name: name})
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out, nil
}

func (m *MemFS) CreateTemp(dir, pattern string) (io.WriteCloser, string, error) {
	dir = norm(dir)
	if !m.hasDir(dir) {
		return nil, "", notExist("createtemp", dir)
	}
	m.tmpN++
	name := path.Join(dir, fmt.Sprintf("%s%d", strings.TrimSuffix(pattern, "*"), m.tmpN))
	buf := &bytes.Buffer{}
	return &memTemp{buf: buf, done: func() { m.files[name] = buf.Bytes() }}, name, nil
}

// childPrefix returns the prefix that direct and nested children of dir
// start with.
func childPrefix(dir string) string {
	if dir == "." {
		return ""
	}
	if dir == "/" {
		return "/"
	}
	return dir + "/"
}

// firstSegment extracts the immediate child name of a path under prefix.
func firstSegment(p, prefix string) (string, bool) {
	if prefix != "" && !strings.HasPrefix(p, prefix) {
		return "", false
	}
	rest := strings.TrimPrefix(p, prefix)
	if rest == "" || rest == "." || strings.HasPrefix(rest, "/") {
		return "", false
	}
	name, _, _ := strings.Cut(rest, "/")
	return name, name != ""
}

type memTemp struct {
	buf  *bytes.Buffer
	done func()
}

func (t *memTemp) Write(p []byte) (int, error) { return t.buf.Write(p) }

func (t *memTemp) Close() error {
	if t.done != nil {
		t.done()
		t.done = nil
	}
	return nil
}

type memInfo struct {
	name string
	size int64
	dir  bool
}

func (i *memInfo) Name() string { return i.name }
func (i *memInfo) Size() int64  { return i.size }
func (i *memInfo) Mode() fs.FileMode {
	if i.dir {
		return fs.ModeDir | 0o755
	}
	return 0o644
}
func (i *memInfo) ModTime() time.Time { return time.Time{} }
func (i *memInfo) IsDir() bool        { return i.dir }
func (i *memInfo) Sys() any           { return nil }

type memDirEntry struct {
	name string
	dir  bool
}

func (d memDirEntry) Name() string { return d.name }
func (d memDirEntry) IsDir() bool  { return d.dir }
func (d memDirEntry) Type() fs.FileMode {
	if d.dir {
		return fs.ModeDir
	}
	return 0
}

func (d memDirEntry) Info() (os.FileInfo, error) {
	return &memInfo{name: d.name, dir: d.dir}, nil
}

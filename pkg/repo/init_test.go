package repo

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/odvcencio/grit/pkg/fsys"
	"github.com/odvcencio/grit/pkg/object"
)

// helper: newTestRepo initializes a fresh repository in a temp dir on the
// real filesystem.
func newTestRepo(t *testing.T) *Repo {
	t.Helper()
	r, created, err := Init(t.TempDir(), fsys.NewOSFS())
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	if !created {
		t.Fatal("Init on empty dir reported created=false")
	}
	return r
}

// helper: writeWorkFile writes a working-tree file, creating parent
// directories as needed.
func writeWorkFile(t *testing.T, r *Repo, rel, content string) {
	t.Helper()
	abs := filepath.Join(r.RootDir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(abs, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", rel, err)
	}
}

// helper: stageAndCommit writes, stages, and commits a set of files,
// failing the test on a "nothing to commit" outcome.
func stageAndCommit(t *testing.T, r *Repo, msg string, files map[string]string) object.Hash {
	t.Helper()
	for rel, content := range files {
		writeWorkFile(t, r, rel, content)
		if _, err := r.StageFile(rel); err != nil {
			t.Fatalf("StageFile(%s): %v", rel, err)
		}
	}
	h, err := r.Commit(msg, "test-author")
	if err != nil {
		t.Fatalf("Commit(%q): %v", msg, err)
	}
	if h == "" {
		t.Fatalf("Commit(%q) reported nothing to commit", msg)
	}
	return h
}

// Test 1: Init creates the full metadata layout.
func TestInit_CreatesLayout(t *testing.T) {
	dir := t.TempDir()
	r, created, err := Init(dir, fsys.NewOSFS())
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	if !created {
		t.Fatal("created = false, want true")
	}
	if r.RootDir != dir {
		t.Errorf("RootDir = %q, want %q", r.RootDir, dir)
	}

	for _, sub := range []string{"objects", filepath.Join("refs", "heads")} {
		info, err := os.Stat(filepath.Join(r.GritDir, sub))
		if err != nil {
			t.Fatalf("stat %s: %v", sub, err)
		}
		if !info.IsDir() {
			t.Errorf("%s is not a directory", sub)
		}
	}

	head, err := os.ReadFile(filepath.Join(r.GritDir, "HEAD"))
	if err != nil {
		t.Fatalf("read HEAD: %v", err)
	}
	if string(head) != "ref: refs/heads/main\n" {
		t.Errorf("HEAD = %q, want %q", head, "ref: refs/heads/main\n")
	}

	if _, err := os.Stat(filepath.Join(r.GritDir, "config")); err != nil {
		t.Errorf("stat config: %v", err)
	}
	if _, err := os.Stat(filepath.Join(r.GritDir, "index")); err != nil {
		t.Errorf("stat index: %v", err)
	}
}

// Test 2: Init on an existing repository opens it instead.
func TestInit_ExistingRepo(t *testing.T) {
	dir := t.TempDir()
	if _, _, err := Init(dir, fsys.NewOSFS()); err != nil {
		t.Fatalf("first Init: %v", err)
	}

	r, created, err := Init(dir, fsys.NewOSFS())
	if err != nil {
		t.Fatalf("second Init: %v", err)
	}
	if created {
		t.Error("created = true on existing repo, want false")
	}
	if r.CurrentBranch() != "main" {
		t.Errorf("CurrentBranch = %q, want main", r.CurrentBranch())
	}
}

// Test 3: Open finds the repository from a nested subdirectory.
func TestOpen_FromSubdirectory(t *testing.T) {
	r := newTestRepo(t)

	sub := filepath.Join(r.RootDir, "pkg", "deep")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}

	opened, err := Open(sub, fsys.NewOSFS())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if opened.RootDir != r.RootDir {
		t.Errorf("RootDir = %q, want %q", opened.RootDir, r.RootDir)
	}
}

// Test 4: Open outside any repository reports ErrNotRepository.
func TestOpen_NotRepository(t *testing.T) {
	_, err := Open(t.TempDir(), fsys.NewOSFS())
	if !errors.Is(err, ErrNotRepository) {
		t.Fatalf("Open err = %v, want ErrNotRepository", err)
	}
}

// Test 5: the whole engine also runs on the in-memory filesystem.
func TestInit_MemFS(t *testing.T) {
	mem := fsys.NewMemFS()
	r, created, err := Init("/work", mem)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	if !created {
		t.Fatal("created = false, want true")
	}

	if err := mem.WriteFile("/work/a.txt", []byte("hello\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := r.StageFile("a.txt"); err != nil {
		t.Fatalf("StageFile: %v", err)
	}
	h, err := r.Commit("first", "mem-author")
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if h == "" {
		t.Fatal("Commit reported nothing to commit")
	}

	opened, err := Open("/work", mem)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if got, ok := opened.BranchHash("main"); !ok || got != h {
		t.Errorf("BranchHash(main) = %q, %v; want %q, true", got, ok, h)
	}
}

package repo

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/odvcencio/grit/pkg/object"
)

// Test 1: staging a file stores its blob and records the entry.
func TestStageFile_StoresBlobAndEntry(t *testing.T) {
	r := newTestRepo(t)
	writeWorkFile(t, r, "main.go", "package main\n")

	h, err := r.StageFile("main.go")
	if err != nil {
		t.Fatalf("StageFile: %v", err)
	}
	if want := object.HashObject(object.KindBlob, []byte("package main\n")); h != want {
		t.Errorf("hash = %s, want %s", h, want)
	}

	idx := r.ReadIndex()
	if got := idx.Entries["main.go"]; got != h {
		t.Errorf("index entry = %q, want %q", got, h)
	}

	blob, err := r.Store.GetBlob(h)
	if err != nil {
		t.Fatalf("GetBlob: %v", err)
	}
	if string(blob.Data) != "package main\n" {
		t.Errorf("blob data = %q, want %q", blob.Data, "package main\n")
	}
}

// Test 2: staging a missing path reports ErrPathNotFound.
func TestStageFile_Missing(t *testing.T) {
	r := newTestRepo(t)

	_, err := r.StageFile("nope.txt")
	if !errors.Is(err, ErrPathNotFound) {
		t.Fatalf("err = %v, want ErrPathNotFound", err)
	}
}

// Test 3: StageFile on a directory reports ErrInvalidPathKind.
func TestStageFile_Directory(t *testing.T) {
	r := newTestRepo(t)
	if err := os.MkdirAll(filepath.Join(r.RootDir, "pkg"), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}

	_, err := r.StageFile("pkg")
	if !errors.Is(err, ErrInvalidPathKind) {
		t.Fatalf("err = %v, want ErrInvalidPathKind", err)
	}
}

// Test 4: re-staging a modified file replaces the entry's hash.
func TestStageFile_RestageModified(t *testing.T) {
	r := newTestRepo(t)
	writeWorkFile(t, r, "a.txt", "one\n")

	h1, err := r.StageFile("a.txt")
	if err != nil {
		t.Fatalf("StageFile (1): %v", err)
	}

	writeWorkFile(t, r, "a.txt", "two\n")
	h2, err := r.StageFile("a.txt")
	if err != nil {
		t.Fatalf("StageFile (2): %v", err)
	}

	if h1 == h2 {
		t.Errorf("hash did not change after modification: both %s", h1)
	}
	idx := r.ReadIndex()
	if len(idx.Entries) != 1 {
		t.Errorf("index has %d entries, want 1", len(idx.Entries))
	}
	if idx.Entries["a.txt"] != h2 {
		t.Errorf("index entry = %q, want %q", idx.Entries["a.txt"], h2)
	}
}

// Test 5: absolute paths are stored repo-relative.
func TestStageFile_AbsolutePath(t *testing.T) {
	r := newTestRepo(t)
	writeWorkFile(t, r, "abs.txt", "data\n")

	if _, err := r.StageFile(filepath.Join(r.RootDir, "abs.txt")); err != nil {
		t.Fatalf("StageFile: %v", err)
	}

	idx := r.ReadIndex()
	if _, ok := idx.Entries["abs.txt"]; !ok {
		t.Errorf("expected entry keyed 'abs.txt', got %v", indexKeys(idx))
	}
}

// Test 6: StageDir stages every regular file recursively, skipping the
// metadata directory.
func TestStageDir_Recursive(t *testing.T) {
	r := newTestRepo(t)
	writeWorkFile(t, r, "top.txt", "t\n")
	writeWorkFile(t, r, "pkg/a.go", "package pkg\n")
	writeWorkFile(t, r, "pkg/sub/b.go", "package sub\n")

	n, err := r.StageDir(".")
	if err != nil {
		t.Fatalf("StageDir: %v", err)
	}
	if n != 3 {
		t.Errorf("staged %d files, want 3", n)
	}

	idx := r.ReadIndex()
	for _, want := range []string{"top.txt", "pkg/a.go", "pkg/sub/b.go"} {
		if _, ok := idx.Entries[want]; !ok {
			t.Errorf("missing entry %q; got %v", want, indexKeys(idx))
		}
	}
	for p := range idx.Entries {
		if isMetaPath(p) {
			t.Errorf("metadata path %q leaked into the index", p)
		}
	}
}

// Test 7: Stage dispatches on the path kind.
func TestStage_Dispatch(t *testing.T) {
	r := newTestRepo(t)
	writeWorkFile(t, r, "one.txt", "1\n")
	writeWorkFile(t, r, "dir/two.txt", "2\n")
	writeWorkFile(t, r, "dir/three.txt", "3\n")

	n, err := r.Stage("one.txt")
	if err != nil {
		t.Fatalf("Stage(file): %v", err)
	}
	if n != 1 {
		t.Errorf("Stage(file) = %d, want 1", n)
	}

	n, err = r.Stage("dir")
	if err != nil {
		t.Fatalf("Stage(dir): %v", err)
	}
	if n != 2 {
		t.Errorf("Stage(dir) = %d, want 2", n)
	}
}

// Test 8: a fresh repo reads back an empty index.
func TestReadIndex_Empty(t *testing.T) {
	r := newTestRepo(t)

	idx := r.ReadIndex()
	if idx == nil {
		t.Fatal("ReadIndex returned nil")
	}
	if len(idx.Entries) != 0 {
		t.Errorf("fresh index has %d entries, want 0", len(idx.Entries))
	}
}

// Test 9: a tampered index file is quietly treated as empty.
func TestReadIndex_ChecksumMismatch(t *testing.T) {
	r := newTestRepo(t)
	writeWorkFile(t, r, "a.txt", "data\n")
	if _, err := r.StageFile("a.txt"); err != nil {
		t.Fatalf("StageFile: %v", err)
	}

	// Flip one byte of the stored entries without updating the checksum.
	path := filepath.Join(r.GritDir, "index")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read index: %v", err)
	}
	for i := range data {
		if data[i] == 'a' {
			data[i] = 'b'
			break
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write tampered index: %v", err)
	}

	idx := r.ReadIndex()
	if len(idx.Entries) != 0 {
		t.Errorf("tampered index yielded %d entries, want 0", len(idx.Entries))
	}
}

// Test 10: garbage bytes in the index file are also treated as empty.
func TestReadIndex_Malformed(t *testing.T) {
	r := newTestRepo(t)
	path := filepath.Join(r.GritDir, "index")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	idx := r.ReadIndex()
	if len(idx.Entries) != 0 {
		t.Errorf("malformed index yielded %d entries, want 0", len(idx.Entries))
	}
}

// Test 11: WriteIndex then ReadIndex round-trips entries.
func TestIndex_WriteReadRoundTrip(t *testing.T) {
	r := newTestRepo(t)

	want := NewIndex()
	want.Entries["x/y.txt"] = object.HashObject(object.KindBlob, []byte("y"))
	want.Entries["z.txt"] = object.HashObject(object.KindBlob, []byte("z"))

	if err := r.WriteIndex(want); err != nil {
		t.Fatalf("WriteIndex: %v", err)
	}

	got := r.ReadIndex()
	if len(got.Entries) != len(want.Entries) {
		t.Fatalf("entry count = %d, want %d", len(got.Entries), len(want.Entries))
	}
	for p, h := range want.Entries {
		if got.Entries[p] != h {
			t.Errorf("entry %q = %q, want %q", p, got.Entries[p], h)
		}
	}
}

// helper: indexKeys lists the paths in an index.
func indexKeys(idx *Index) []string {
	ks := make([]string, 0, len(idx.Entries))
	for k := range idx.Entries {
		ks = append(ks, k)
	}
	return ks
}

package repo

import (
	"testing"

	"github.com/odvcencio/grit/pkg/object"
)

// Test 1: committing an empty index is "nothing to commit", not an error.
func TestCommit_EmptyIndex(t *testing.T) {
	r := newTestRepo(t)

	h, err := r.Commit("empty", "test-author")
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if h != "" {
		t.Errorf("hash = %q, want empty", h)
	}
}

// Test 2: the first commit records tree, identity, and no parents, then
// clears the index and advances the branch.
func TestCommit_First(t *testing.T) {
	r := newTestRepo(t)
	writeWorkFile(t, r, "main.go", "package main\n")
	if _, err := r.StageFile("main.go"); err != nil {
		t.Fatalf("StageFile: %v", err)
	}

	h, err := r.Commit("initial", "Ada <ada@example.com>")
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if !h.Valid() {
		t.Fatalf("commit hash %q is not valid", h)
	}

	c, err := r.Store.GetCommit(h)
	if err != nil {
		t.Fatalf("GetCommit: %v", err)
	}
	if c.Message != "initial" {
		t.Errorf("Message = %q, want %q", c.Message, "initial")
	}
	if c.Author != "Ada <ada@example.com>" {
		t.Errorf("Author = %q, want %q", c.Author, "Ada <ada@example.com>")
	}
	if c.Committer != c.Author {
		t.Errorf("Committer = %q, want author %q", c.Committer, c.Author)
	}
	if len(c.Parents) != 0 {
		t.Errorf("first commit has %d parents, want 0", len(c.Parents))
	}
	if c.Timestamp == 0 {
		t.Error("Timestamp is zero")
	}
	if c.TZ != object.DefaultTZ {
		t.Errorf("TZ = %q, want %q", c.TZ, object.DefaultTZ)
	}

	if got, ok := r.BranchHash("main"); !ok || got != h {
		t.Errorf("BranchHash(main) = %q, %v; want %q, true", got, ok, h)
	}
	if idx := r.ReadIndex(); len(idx.Entries) != 0 {
		t.Errorf("index has %d entries after commit, want 0", len(idx.Entries))
	}
}

// Test 3: a second commit chains to the first.
func TestCommit_SecondHasParent(t *testing.T) {
	r := newTestRepo(t)
	h1 := stageAndCommit(t, r, "first", map[string]string{"a.txt": "one\n"})
	h2 := stageAndCommit(t, r, "second", map[string]string{"a.txt": "two\n"})

	c, err := r.Store.GetCommit(h2)
	if err != nil {
		t.Fatalf("GetCommit: %v", err)
	}
	if len(c.Parents) != 1 || c.Parents[0] != h1 {
		t.Errorf("Parents = %v, want [%s]", c.Parents, h1)
	}
}

// Test 4: re-staging identical content produces "nothing to commit" and
// leaves the branch alone.
func TestCommit_NoChanges(t *testing.T) {
	r := newTestRepo(t)
	h1 := stageAndCommit(t, r, "first", map[string]string{"a.txt": "same\n"})

	if _, err := r.StageFile("a.txt"); err != nil {
		t.Fatalf("StageFile: %v", err)
	}
	h2, err := r.Commit("no-op", "test-author")
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if h2 != "" {
		t.Errorf("hash = %q, want empty for unchanged tree", h2)
	}
	if got, _ := r.BranchHash("main"); got != h1 {
		t.Errorf("branch moved to %s, want %s", got, h1)
	}
}

// Test 5: Log walks the chain newest first and honors the limit.
func TestLog_OrderAndLimit(t *testing.T) {
	r := newTestRepo(t)
	h1 := stageAndCommit(t, r, "first", map[string]string{"a.txt": "1\n"})
	h2 := stageAndCommit(t, r, "second", map[string]string{"a.txt": "2\n"})
	h3 := stageAndCommit(t, r, "third", map[string]string{"a.txt": "3\n"})

	all, err := r.Log(0)
	if err != nil {
		t.Fatalf("Log(0): %v", err)
	}
	wantOrder := []object.Hash{h3, h2, h1}
	if len(all) != len(wantOrder) {
		t.Fatalf("Log(0) returned %d entries, want %d", len(all), len(wantOrder))
	}
	for i, want := range wantOrder {
		if all[i].Hash != want {
			t.Errorf("entry %d = %s, want %s", i, all[i].Hash, want)
		}
	}

	limited, err := r.Log(2)
	if err != nil {
		t.Fatalf("Log(2): %v", err)
	}
	if len(limited) != 2 {
		t.Fatalf("Log(2) returned %d entries, want 2", len(limited))
	}
	if limited[0].Hash != h3 || limited[1].Hash != h2 {
		t.Errorf("Log(2) = [%s %s], want [%s %s]",
			limited[0].Hash, limited[1].Hash, h3, h2)
	}
}

// Test 6: Log on a repo with no commits yields empty history.
func TestLog_EmptyRepo(t *testing.T) {
	r := newTestRepo(t)

	entries, err := r.Log(0)
	if err != nil {
		t.Fatalf("Log: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("Log returned %d entries, want 0", len(entries))
	}
}

// Test 7: a missing ancestor truncates history instead of failing.
func TestLog_TruncatedHistory(t *testing.T) {
	r := newTestRepo(t)

	treeHash, err := r.Store.PutTree(&object.Tree{})
	if err != nil {
		t.Fatalf("PutTree: %v", err)
	}
	ghost := object.HashObject(object.KindCommit, []byte("never stored"))
	orphan, err := r.Store.PutCommit(&object.Commit{
		TreeHash:  treeHash,
		Parents:   []object.Hash{ghost},
		Author:    "test-author",
		Committer: "test-author",
		Timestamp: 1700000000,
		TZ:        object.DefaultTZ,
		Message:   "orphan",
	})
	if err != nil {
		t.Fatalf("PutCommit: %v", err)
	}
	if err := r.SetBranch("main", orphan); err != nil {
		t.Fatalf("SetBranch: %v", err)
	}

	entries, err := r.Log(0)
	if err != nil {
		t.Fatalf("Log: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("Log returned %d entries, want 1", len(entries))
	}
	if entries[0].Hash != orphan {
		t.Errorf("entry = %s, want %s", entries[0].Hash, orphan)
	}
}

package repo

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/odvcencio/grit/pkg/object"
)

// Summary buckets every interesting path by how the last commit, the
// index, and the working tree disagree about it. Buckets are sorted and
// duplicate-free; one path can appear in several buckets when several
// comparisons flag it.
type Summary struct {
	Branch           string
	StagedNew        []string // staged, not in last commit
	StagedModified   []string // staged and committed, contents differ
	UnstagedModified []string // on disk differs from its staged blob
	UnstagedDeleted  []string // staged but gone from disk
	Untracked        []string // on disk, unknown to index and last commit
	Deleted          []string // committed, gone from both index and disk
}

// Clean reports whether every bucket is empty.
func (s *Summary) Clean() bool {
	return len(s.StagedNew) == 0 && len(s.StagedModified) == 0 &&
		len(s.UnstagedModified) == 0 && len(s.UnstagedDeleted) == 0 &&
		len(s.Untracked) == 0 && len(s.Deleted) == 0
}

// Status compares three snapshots: the current branch head's tree
// (tolerant walk), the index, and the working tree with every file
// hashed in place. The working tree must be readable; history is
// walked best-effort.
func (r *Repo) Status() (*Summary, error) {
	branch := r.CurrentBranch()
	sum := &Summary{Branch: branch}

	last := make(map[string]object.Hash)
	if headHash, ok := r.BranchHash(branch); ok {
		if c, err := r.Store.GetCommit(headHash); err != nil {
			slog.Warn("skipping unreadable head commit", "hash", headHash, "error", err)
		} else {
			r.flattenTreeSoft(c.TreeHash, "", last)
		}
	}

	idx := r.ReadIndex()

	working := make(map[string]object.Hash)
	if err := r.hashWorktree(".", working); err != nil {
		return nil, fmt.Errorf("status: %w", err)
	}

	for p, staged := range idx.Entries {
		if committed, ok := last[p]; !ok {
			sum.StagedNew = append(sum.StagedNew, p)
		} else if committed != staged {
			sum.StagedModified = append(sum.StagedModified, p)
		}
		if onDisk, ok := working[p]; !ok {
			sum.UnstagedDeleted = append(sum.UnstagedDeleted, p)
		} else if onDisk != staged {
			sum.UnstagedModified = append(sum.UnstagedModified, p)
		}
	}

	for p := range working {
		if _, inIndex := idx.Entries[p]; inIndex {
			continue
		}
		if _, committed := last[p]; committed {
			continue
		}
		sum.Untracked = append(sum.Untracked, p)
	}

	for p := range last {
		if _, inIndex := idx.Entries[p]; inIndex {
			continue
		}
		if _, onDisk := working[p]; onDisk {
			continue
		}
		sum.Deleted = append(sum.Deleted, p)
	}

	sort.Strings(sum.StagedNew)
	sort.Strings(sum.StagedModified)
	sort.Strings(sum.UnstagedModified)
	sort.Strings(sum.UnstagedDeleted)
	sort.Strings(sum.Untracked)
	sort.Strings(sum.Deleted)
	return sum, nil
}

// hashWorktree walks the working tree under rel, hashing every regular
// file outside the metadata directory into out.
func (r *Repo) hashWorktree(rel string, out map[string]object.Hash) error {
	entries, err := r.FS.ReadDir(r.absPath(rel))
	if err != nil {
		return fmt.Errorf("walk %q: %w", rel, err)
	}
	for _, e := range entries {
		child := e.Name()
		if rel != "." {
			child = rel + "/" + e.Name()
		}
		if isMetaPath(child) {
			continue
		}
		if e.IsDir() {
			if err := r.hashWorktree(child, out); err != nil {
				return err
			}
			continue
		}
		if !e.Type().IsRegular() {
			continue
		}
		content, err := r.FS.ReadFile(r.absPath(child))
		if err != nil {
			return fmt.Errorf("read %q: %w", child, err)
		}
		out[child] = object.HashObject(object.KindBlob, content)
	}
	return nil
}

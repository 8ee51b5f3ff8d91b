package repo

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/odvcencio/grit/pkg/object"
)

// SwitchOutcome describes how a checkout ended. Soft refusals are
// outcomes, not errors: the caller decides how to word them.
type SwitchOutcome int

const (
	// Switched: HEAD now points at the target branch and its tree has
	// been materialized.
	Switched SwitchOutcome = iota
	// SwitchedCreated: like Switched, but the branch was created first.
	SwitchedCreated
	// RefusedStagedChanges: the index is non-empty; nothing was touched.
	RefusedStagedChanges
	// NoSuchBranch: target branch does not exist and create was false.
	NoSuchBranch
	// NoCommitToBranchFrom: create was requested but the repository has
	// no commit yet.
	NoCommitToBranchFrom
)

// Checkout switches the working tree to the named branch.
//
//  1. Refuse when anything is staged.
//  2. Collect the file set of the current head commit (tolerant walk).
//  3. Resolve the target branch, creating it at the current head when
//     asked.
//  4. Point HEAD at the target.
//  5. Delete the old tree's files in sorted order, pruning directories
//     that become empty; each failed deletion is logged and skipped.
//  6. Materialize the target tree, overwriting; unreadable subtrees and
//     blobs are logged and skipped.
//  7. Clear the index.
//
// Steps 5 and 6 are best-effort rather than transactional: one
// unreadable historical object never aborts the rest of the switch.
func (r *Repo) Checkout(branch string, create bool) (SwitchOutcome, error) {
	idx := r.ReadIndex()
	if len(idx.Entries) > 0 {
		return RefusedStagedChanges, nil
	}

	toClear := make(map[string]object.Hash)
	if headHash, ok := r.BranchHash(r.CurrentBranch()); ok {
		if c, err := r.Store.GetCommit(headHash); err != nil {
			slog.Warn("skipping unreadable head commit", "hash", headHash, "error", err)
		} else {
			r.flattenTreeSoft(c.TreeHash, "", toClear)
		}
	}

	outcome := Switched
	targetHash, ok := r.BranchHash(branch)
	if !ok {
		if !create {
			return NoSuchBranch, nil
		}
		created, err := r.CreateBranch(branch)
		if err != nil {
			return 0, err
		}
		if created == "" {
			return NoCommitToBranchFrom, nil
		}
		targetHash = created
		outcome = SwitchedCreated
	} else if create {
		return 0, fmt.Errorf("checkout: branch %q already exists", branch)
	}

	if err := r.setHEAD(branch); err != nil {
		return 0, err
	}

	for _, path := range sortedPaths(toClear) {
		abs := r.absPath(path)
		if err := r.FS.Remove(abs); err != nil && !errors.Is(err, fs.ErrNotExist) {
			slog.Warn("failed to remove file during checkout", "path", path, "error", err)
			continue
		}
		r.removeEmptyParents(filepath.Dir(abs))
	}

	if c, err := r.Store.GetCommit(targetHash); err != nil {
		slog.Warn("skipping unreadable target commit", "hash", targetHash, "error", err)
	} else {
		r.restoreTree(c.TreeHash, r.RootDir)
	}

	if err := r.clearIndex(); err != nil {
		return 0, err
	}
	return outcome, nil
}

// restoreTree materializes a tree under dir. Problems are logged per
// entry and the walk continues with the rest.
func (r *Repo) restoreTree(h object.Hash, dir string) {
	tree, err := r.Store.GetTree(h)
	if err != nil {
		slog.Warn("skipping unreadable tree during checkout", "hash", h, "error", err)
		return
	}
	for _, e := range tree.Entries {
		target := filepath.Join(dir, e.Name)
		if e.Mode == object.ModeDir {
			if err := r.FS.MkdirAll(target, 0o755); err != nil {
				slog.Warn("failed to create directory during checkout", "path", target, "error", err)
				continue
			}
			r.restoreTree(e.Hash, target)
			continue
		}
		blob, err := r.Store.GetBlob(e.Hash)
		if err != nil {
			slog.Warn("skipping unreadable blob during checkout", "path", target, "error", err)
			continue
		}
		if err := r.FS.WriteFile(target, blob.Data, 0o644); err != nil {
			slog.Warn("failed to write file during checkout", "path", target, "error", err)
		}
	}
}

// removeEmptyParents removes empty directories upward, stopping at (and
// never removing) the repository root.
func (r *Repo) removeEmptyParents(dir string) {
	for {
		if dir == r.RootDir || !strings.HasPrefix(dir, r.RootDir) {
			return
		}
		entries, err := r.FS.ReadDir(dir)
		if err != nil || len(entries) > 0 {
			return
		}
		r.FS.Remove(dir)
		dir = filepath.Dir(dir)
	}
}

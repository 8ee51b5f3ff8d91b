package repo

import (
	"errors"
	"fmt"
	"time"

	"github.com/odvcencio/grit/pkg/object"
)

// Commit creates a new commit from the current staging area.
//
//  1. Read the index; an empty index is "nothing to commit".
//  2. Build the tree from the index.
//  3. Resolve the current branch head as the sole parent, if any.
//  4. If the new tree equals the parent commit's tree, nothing changed:
//     report "nothing to commit" and leave the branch pointer alone.
//  5. Otherwise persist the commit, advance the branch, clear the index.
//
// The returned hash is empty for the "nothing to commit" outcome, which
// is a normal result, not an error.
func (r *Repo) Commit(message, author string) (object.Hash, error) {
	idx := r.ReadIndex()
	if len(idx.Entries) == 0 {
		return "", nil
	}

	treeHash, err := r.BuildTreeFromIndex(idx)
	if err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}

	branch := r.CurrentBranch()

	var parents []object.Hash
	if parentHash, ok := r.BranchHash(branch); ok {
		parent, err := r.Store.GetCommit(parentHash)
		if err != nil {
			return "", fmt.Errorf("commit: read parent %s: %w", parentHash, err)
		}
		if parent.TreeHash == treeHash {
			return "", nil
		}
		parents = append(parents, parentHash)
	}

	commitHash, err := r.Store.PutCommit(&object.Commit{
		TreeHash:  treeHash,
		Parents:   parents,
		Author:    author,
		Committer: author,
		Timestamp: time.Now().Unix(),
		TZ:        object.DefaultTZ,
		Message:   message,
	})
	if err != nil {
		return "", fmt.Errorf("commit: write commit: %w", err)
	}

	if err := r.SetBranch(branch, commitHash); err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}
	if err := r.clearIndex(); err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}

	return commitHash, nil
}

// LogEntry pairs a commit with the hash it is stored under.
type LogEntry struct {
	Hash   object.Hash
	Commit *object.Commit
}

// Log walks the single-parent chain from the current branch head,
// newest first, up to max entries (max <= 0 means no limit). A branch
// with no commit yields an empty history.
func (r *Repo) Log(max int) ([]LogEntry, error) {
	current, ok := r.BranchHash(r.CurrentBranch())
	if !ok {
		return nil, nil
	}

	var entries []LogEntry
	for max <= 0 || len(entries) < max {
		c, err := r.Store.GetCommit(current)
		if err != nil {
			// A pruned or missing ancestor ends the walk; history up to
			// this point is still valid.
			if errors.Is(err, object.ErrNotFound) {
				break
			}
			return nil, fmt.Errorf("log: %w", err)
		}
		entries = append(entries, LogEntry{Hash: current, Commit: c})

		if len(c.Parents) == 0 {
			break
		}
		current = c.Parents[0]
	}
	return entries, nil
}

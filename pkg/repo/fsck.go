package repo

import (
	"fmt"
	"sort"

	"github.com/odvcencio/grit/pkg/object"
)

// FsckReport tallies the object database by kind and records every
// object that failed to decode or re-hash. Unreachable counts objects
// no branch head leads to, such as blobs staged but never committed.
// Fsck never repairs or deletes anything.
type FsckReport struct {
	Blobs       int
	Trees       int
	Commits     int
	Unreachable int
	Problems    []string
}

// OK reports whether the scan found no damaged objects.
func (r *FsckReport) OK() bool { return len(r.Problems) == 0 }

// Fsck reads back every stored object, letting the store's strict
// decode and re-hash checks surface corruption. Damaged objects are
// collected rather than aborting the scan. A second pass walks
// reachability from all branch heads to count loose objects.
func (r *Repo) Fsck() (*FsckReport, error) {
	report := &FsckReport{}
	var healthy []object.Hash
	err := r.Store.Walk(func(h object.Hash) error {
		kind, _, err := r.Store.Get(h)
		if err != nil {
			report.Problems = append(report.Problems, fmt.Sprintf("%s: %v", h, err))
			return nil
		}
		healthy = append(healthy, h)
		switch kind {
		case object.KindBlob:
			report.Blobs++
		case object.KindTree:
			report.Trees++
		case object.KindCommit:
			report.Commits++
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("fsck: %w", err)
	}

	branches, err := r.ListBranches()
	if err != nil {
		return nil, fmt.Errorf("fsck: %w", err)
	}
	var roots []object.Hash
	for _, b := range branches {
		if h, ok := r.BranchHash(b); ok {
			roots = append(roots, h)
		}
	}
	reachable := r.Store.ReachableSet(roots)
	for _, h := range healthy {
		if _, ok := reachable[h]; !ok {
			report.Unreachable++
		}
	}

	sort.Strings(report.Problems)
	return report, nil
}

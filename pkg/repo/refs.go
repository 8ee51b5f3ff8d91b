package repo

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/odvcencio/grit/pkg/object"
)

func (r *Repo) headPath() string {
	return filepath.Join(r.GritDir, "HEAD")
}

func (r *Repo) branchPath(name string) string {
	return filepath.Join(r.GritDir, "refs", "heads", name)
}

// CurrentBranch returns the branch HEAD points at. HEAD is always a
// symbolic ref in this engine; a missing or unrecognizable HEAD falls
// back to the configured default branch name.
func (r *Repo) CurrentBranch() string {
	data, err := r.FS.ReadFile(r.headPath())
	if err != nil {
		return r.defaultBranchName()
	}
	content := strings.TrimSpace(string(data))

	const prefix = "ref: refs/heads/"
	if name := strings.TrimPrefix(content, prefix); name != content && name != "" {
		return name
	}
	return r.defaultBranchName()
}

// setHEAD points the symbolic HEAD at a branch.
func (r *Repo) setHEAD(branch string) error {
	content := "ref: refs/heads/" + branch + "\n"
	if err := r.FS.WriteFile(r.headPath(), []byte(content), 0o644); err != nil {
		return fmt.Errorf("write HEAD: %w", err)
	}
	return nil
}

// BranchHash returns the commit a branch points at, and whether the
// branch exists at all.
func (r *Repo) BranchHash(name string) (object.Hash, bool) {
	data, err := r.FS.ReadFile(r.branchPath(name))
	if err != nil {
		return "", false
	}
	h := object.Hash(strings.TrimSpace(string(data)))
	if !h.Valid() {
		return "", false
	}
	return h, true
}

// SetBranch points a branch at a commit, creating the ref if needed.
func (r *Repo) SetBranch(name string, h object.Hash) error {
	if err := validBranchName(name); err != nil {
		return err
	}
	if err := r.FS.MkdirAll(filepath.Dir(r.branchPath(name)), 0o755); err != nil {
		return fmt.Errorf("set branch %q: %w", name, err)
	}
	if err := r.FS.WriteFile(r.branchPath(name), []byte(string(h)+"\n"), 0o644); err != nil {
		return fmt.Errorf("set branch %q: %w", name, err)
	}
	return nil
}

// CreateBranch creates a branch pointing at the current head commit.
// When the repository has no commit yet there is nothing to branch from:
// the reference store is untouched and the returned hash is empty.
func (r *Repo) CreateBranch(name string) (object.Hash, error) {
	if err := validBranchName(name); err != nil {
		return "", err
	}
	if _, exists := r.BranchHash(name); exists {
		return "", fmt.Errorf("create branch: branch %q already exists", name)
	}
	head, ok := r.BranchHash(r.CurrentBranch())
	if !ok {
		return "", nil
	}
	if err := r.SetBranch(name, head); err != nil {
		return "", fmt.Errorf("create branch: %w", err)
	}
	return head, nil
}

// DeleteBranch removes a branch's reference entry. A missing branch is a
// normal outcome (false), never an error, and leaves the reference store
// untouched.
func (r *Repo) DeleteBranch(name string) (bool, error) {
	err := r.FS.Remove(r.branchPath(name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("delete branch %q: %w", name, err)
	}
	return true, nil
}

// ListBranches returns all branch names in lexicographic order.
func (r *Repo) ListBranches() ([]string, error) {
	entries, err := r.FS.ReadDir(filepath.Join(r.GritDir, "refs", "heads"))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("list branches: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

func validBranchName(name string) error {
	if name == "" || strings.ContainsAny(name, "/\\ \t\n") || name == "." || name == ".." {
		return fmt.Errorf("invalid branch name %q", name)
	}
	return nil
}

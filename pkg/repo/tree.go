package repo

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/odvcencio/grit/pkg/object"
)

// treeNode is one directory level of the index trie. Every node owns its
// maps outright; nothing is shared between siblings, so building one
// subtree can never mutate another.
type treeNode struct {
	files map[string]object.Hash
	dirs  map[string]*treeNode
}

func newTreeNode() *treeNode {
	return &treeNode{
		files: make(map[string]object.Hash),
		dirs:  make(map[string]*treeNode),
	}
}

// insert places a "/"-separated path into the trie, creating intermediate
// directory nodes as needed.
func (n *treeNode) insert(path string, h object.Hash) {
	seg, rest, nested := strings.Cut(path, "/")
	if !nested {
		n.files[seg] = h
		return
	}
	child, ok := n.dirs[seg]
	if !ok {
		child = newTreeNode()
		n.dirs[seg] = child
	}
	child.insert(rest, h)
}

// BuildTreeFromIndex converts the flat index into a hierarchy of tree
// objects, persisting children before parents, and returns the root tree
// hash. The result depends only on the index contents: an empty index
// yields the canonical empty tree.
func (r *Repo) BuildTreeFromIndex(idx *Index) (object.Hash, error) {
	root := newTreeNode()
	for path, h := range idx.Entries {
		root.insert(path, h)
	}
	return r.persistTree(root)
}

// persistTree writes a trie node and all nodes below it to the store,
// bottom-up, and returns the node's tree hash.
func (r *Repo) persistTree(n *treeNode) (object.Hash, error) {
	entries := make([]object.TreeEntry, 0, len(n.files)+len(n.dirs))

	for name, child := range n.dirs {
		subHash, err := r.persistTree(child)
		if err != nil {
			return "", err
		}
		entries = append(entries, object.TreeEntry{
			Mode: object.ModeDir,
			Name: name,
			Hash: subHash,
		})
	}
	for name, h := range n.files {
		entries = append(entries, object.TreeEntry{
			Mode: object.ModeFile,
			Name: name,
			Hash: h,
		})
	}

	h, err := r.Store.PutTree(&object.Tree{Entries: entries})
	if err != nil {
		return "", fmt.Errorf("build tree: %w", err)
	}
	return h, nil
}

// FlattenTree walks a tree recursively and returns every file it reaches
// as a repo-relative path mapped to its blob hash. It is the strict
// inverse of BuildTreeFromIndex: any unreadable subtree is an error.
func (r *Repo) FlattenTree(h object.Hash) (map[string]object.Hash, error) {
	out := make(map[string]object.Hash)
	if err := r.flattenTreeInto(h, "", out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repo) flattenTreeInto(h object.Hash, prefix string, out map[string]object.Hash) error {
	tree, err := r.Store.GetTree(h)
	if err != nil {
		return fmt.Errorf("flatten tree %s: %w", h, err)
	}
	for _, e := range tree.Entries {
		path := e.Name
		if prefix != "" {
			path = prefix + "/" + e.Name
		}
		if e.Mode == object.ModeDir {
			if err := r.flattenTreeInto(e.Hash, path, out); err != nil {
				return err
			}
			continue
		}
		out[path] = e.Hash
	}
	return nil
}

// flattenTreeSoft is the tolerant variant used by checkout and status:
// an unreadable subtree is logged and skipped, and every file the walk
// can still reach lands in out.
func (r *Repo) flattenTreeSoft(h object.Hash, prefix string, out map[string]object.Hash) {
	tree, err := r.Store.GetTree(h)
	if err != nil {
		slog.Warn("skipping unreadable tree", "hash", h, "prefix", prefix, "error", err)
		return
	}
	for _, e := range tree.Entries {
		path := e.Name
		if prefix != "" {
			path = prefix + "/" + e.Name
		}
		if e.Mode == object.ModeDir {
			r.flattenTreeSoft(e.Hash, path, out)
			continue
		}
		out[path] = e.Hash
	}
}

// sortedPaths returns the keys of a path map in ascending order.
func sortedPaths(m map[string]object.Hash) []string {
	paths := make([]string, 0, len(m))
	for p := range m {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

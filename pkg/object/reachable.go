package object

import (
	"sort"
	"strings"
)

// ReachableSet returns every stored hash reachable from roots by
// following object references: commits reach their tree and parents,
// trees reach their entries. Missing roots are ignored, and an object
// that fails to load is skipped without following its references, so a
// partially damaged store still yields the portion that can be walked.
func (s *Store) ReachableSet(roots []Hash) map[Hash]struct{} {
	roots = uniqueNormalizedHashes(roots)
	out := make(map[Hash]struct{}, len(roots))
	if len(roots) == 0 {
		return out
	}

	stack := make([]Hash, 0, len(roots))
	stack = append(stack, roots...)
	for len(stack) > 0 {
		h := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if h == "" {
			continue
		}
		if _, ok := out[h]; ok {
			continue
		}
		if !s.Has(h) {
			continue
		}

		kind, content, err := s.Get(h)
		if err != nil {
			continue
		}
		out[h] = struct{}{}
		stack = append(stack, referencedHashes(kind, content)...)
	}

	return out
}

func referencedHashes(kind Kind, content []byte) []Hash {
	switch kind {
	case KindCommit:
		commit, err := UnmarshalCommit(content)
		if err != nil {
			return nil
		}
		refs := make([]Hash, 0, 1+len(commit.Parents))
		refs = append(refs, commit.TreeHash)
		refs = append(refs, commit.Parents...)
		return refs
	case KindTree:
		tree, err := UnmarshalTree(content)
		if err != nil {
			return nil
		}
		refs := make([]Hash, 0, len(tree.Entries))
		for _, e := range tree.Entries {
			refs = append(refs, e.Hash)
		}
		return refs
	default:
		// Blobs reference nothing.
		return nil
	}
}

func uniqueNormalizedHashes(in []Hash) []Hash {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[Hash]struct{}, len(in))
	out := make([]Hash, 0, len(in))
	for _, h := range in {
		h = Hash(strings.TrimSpace(string(h)))
		if h == "" {
			continue
		}
		if _, ok := seen[h]; ok {
			continue
		}
		seen[h] = struct{}{}
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

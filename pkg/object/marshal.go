package object

import (
	"bytes"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ---------------------------------------------------------------------------
// Blob
// ---------------------------------------------------------------------------

// MarshalBlob serializes a Blob to raw bytes (identity).
func MarshalBlob(b *Blob) []byte {
	out := make([]byte, len(b.Data))
	copy(out, b.Data)
	return out
}

// UnmarshalBlob deserializes raw bytes into a Blob.
func UnmarshalBlob(data []byte) (*Blob, error) {
	out := make([]byte, len(data))
	copy(out, data)
	return &Blob{Data: out}, nil
}

// ---------------------------------------------------------------------------
// Tree
// ---------------------------------------------------------------------------

// MarshalTree serializes a Tree to its canonical form. Entries are sorted
// by (mode, name, hash) so the same logical tree always produces the same
// bytes regardless of insertion order. Each entry is
//
//	<mode> <name>\0<20 raw digest bytes>
//
// with no separator between entries.
func MarshalTree(t *Tree) ([]byte, error) {
	sorted := make([]TreeEntry, len(t.Entries))
	copy(sorted, t.Entries)
	sort.Slice(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.Mode != b.Mode {
			return a.Mode < b.Mode
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.Hash < b.Hash
	})

	var buf bytes.Buffer
	seen := make(map[string]struct{}, len(sorted))
	for _, e := range sorted {
		if e.Mode != ModeFile && e.Mode != ModeDir {
			return nil, fmt.Errorf("marshal tree: entry %q: unknown mode %q", e.Name, e.Mode)
		}
		if e.Name == "" || strings.ContainsAny(e.Name, "/\x00") {
			return nil, fmt.Errorf("marshal tree: invalid entry name %q", e.Name)
		}
		if _, dup := seen[e.Name]; dup {
			return nil, fmt.Errorf("marshal tree: duplicate entry name %q", e.Name)
		}
		seen[e.Name] = struct{}{}
		raw, err := hex.DecodeString(string(e.Hash))
		if err != nil || len(raw) != sha1.Size {
			return nil, fmt.Errorf("marshal tree: entry %q: invalid hash %q", e.Name, e.Hash)
		}
		fmt.Fprintf(&buf, "%s %s\x00", e.Mode, e.Name)
		buf.Write(raw)
	}
	return buf.Bytes(), nil
}

// UnmarshalTree parses a Tree from its canonical form. Entries come back
// in stored (sorted) order.
func UnmarshalTree(data []byte) (*Tree, error) {
	t := &Tree{}
	rest := data
	for len(rest) > 0 {
		nul := bytes.IndexByte(rest, 0)
		if nul < 0 {
			return nil, fmt.Errorf("unmarshal tree: %w: entry header missing NUL", ErrCorrupt)
		}
		mode, name, ok := strings.Cut(string(rest[:nul]), " ")
		if !ok || name == "" {
			return nil, fmt.Errorf("unmarshal tree: %w: malformed entry header %q", ErrCorrupt, rest[:nul])
		}
		if mode != ModeFile && mode != ModeDir {
			return nil, fmt.Errorf("unmarshal tree: %w: unknown mode %q", ErrCorrupt, mode)
		}
		if len(rest) < nul+1+sha1.Size {
			return nil, fmt.Errorf("unmarshal tree: %w: truncated digest for entry %q", ErrCorrupt, name)
		}
		digest := rest[nul+1 : nul+1+sha1.Size]
		t.Entries = append(t.Entries, TreeEntry{
			Mode: mode,
			Name: name,
			Hash: Hash(hex.EncodeToString(digest)),
		})
		rest = rest[nul+1+sha1.Size:]
	}
	return t, nil
}

// ---------------------------------------------------------------------------
// Commit
// ---------------------------------------------------------------------------

// MarshalCommit serializes a Commit:
//
//	tree H
//	parent H     (zero or more)
//	author A T Z
//	committer C T Z
//
//	message
//
// The message is stored raw; only the first blank line terminates the
// header, so messages may themselves contain blank lines.
func MarshalCommit(c *Commit) []byte {
	tz := c.TZ
	if tz == "" {
		tz = DefaultTZ
	}
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "tree %s\n", c.TreeHash)
	for _, p := range c.Parents {
		fmt.Fprintf(&buf, "parent %s\n", p)
	}
	fmt.Fprintf(&buf, "author %s %d %s\n", c.Author, c.Timestamp, tz)
	fmt.Fprintf(&buf, "committer %s %d %s\n", c.Committer, c.Timestamp, tz)
	buf.WriteByte('\n')
	buf.WriteString(c.Message)
	return buf.Bytes()
}

// UnmarshalCommit parses a Commit from its serialized form.
func UnmarshalCommit(data []byte) (*Commit, error) {
	idx := bytes.Index(data, []byte("\n\n"))
	if idx < 0 {
		return nil, fmt.Errorf("unmarshal commit: %w: missing header/message separator", ErrCorrupt)
	}
	header := string(data[:idx])
	message := string(data[idx+2:])

	c := &Commit{Message: message}
	for _, line := range strings.Split(header, "\n") {
		key, val, ok := strings.Cut(line, " ")
		if !ok {
			return nil, fmt.Errorf("unmarshal commit: %w: malformed header line %q", ErrCorrupt, line)
		}
		switch key {
		case "tree":
			if !Hash(val).Valid() {
				return nil, fmt.Errorf("unmarshal commit: %w: invalid tree hash %q", ErrCorrupt, val)
			}
			c.TreeHash = Hash(val)
		case "parent":
			if !Hash(val).Valid() {
				return nil, fmt.Errorf("unmarshal commit: %w: invalid parent hash %q", ErrCorrupt, val)
			}
			c.Parents = append(c.Parents, Hash(val))
		case "author":
			name, ts, tz, err := parseIdent(val)
			if err != nil {
				return nil, fmt.Errorf("unmarshal commit: %w: author line %q", ErrCorrupt, val)
			}
			c.Author = name
			c.Timestamp = ts
			c.TZ = tz
		case "committer":
			name, _, _, err := parseIdent(val)
			if err != nil {
				return nil, fmt.Errorf("unmarshal commit: %w: committer line %q", ErrCorrupt, val)
			}
			c.Committer = name
		default:
			return nil, fmt.Errorf("unmarshal commit: %w: unknown header key %q", ErrCorrupt, key)
		}
	}
	if c.TreeHash == "" {
		return nil, fmt.Errorf("unmarshal commit: %w: missing tree header", ErrCorrupt)
	}
	if c.Author == "" || c.Committer == "" {
		return nil, fmt.Errorf("unmarshal commit: %w: missing author or committer", ErrCorrupt)
	}
	return c, nil
}

// parseIdent splits "name <email> 1712345678 +0000" into its parts. The
// name may contain spaces, so the timestamp and timezone are taken from
// the right.
func parseIdent(val string) (name string, ts int64, tz string, err error) {
	i := strings.LastIndexByte(val, ' ')
	if i < 0 {
		return "", 0, "", fmt.Errorf("missing timezone")
	}
	tz = val[i+1:]
	rest := val[:i]

	j := strings.LastIndexByte(rest, ' ')
	if j < 0 {
		return "", 0, "", fmt.Errorf("missing timestamp")
	}
	ts, err = strconv.ParseInt(rest[j+1:], 10, 64)
	if err != nil {
		return "", 0, "", fmt.Errorf("bad timestamp %q: %w", rest[j+1:], err)
	}
	name = rest[:j]
	if name == "" {
		return "", 0, "", fmt.Errorf("empty name")
	}
	return name, ts, tz, nil
}

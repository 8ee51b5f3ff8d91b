package object

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
)

// HashObject computes the SHA-1 of the envelope "kind len\0content",
// mirroring Git's object hashing. Identical content under the same kind
// always hashes the same, and blob/tree/commit spaces never collide.
func HashObject(kind Kind, content []byte) Hash {
	header := fmt.Sprintf("%s %d\x00", kind, len(content))
	h := sha1.New()
	h.Write([]byte(header))
	h.Write(content)
	return Hash(hex.EncodeToString(h.Sum(nil)))
}

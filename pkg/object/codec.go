package object

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zlib"
)

// Encode wraps content in the "kind len\0content" envelope and compresses
// it with zlib. Encode and HashObject see identical envelope bytes, so the
// stored stream always inflates back to what was hashed.
func Encode(kind Kind, content []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	if _, err := fmt.Fprintf(zw, "%s %d\x00", kind, len(content)); err != nil {
		zw.Close()
		return nil, fmt.Errorf("encode object: %w", err)
	}
	if _, err := zw.Write(content); err != nil {
		zw.Close()
		return nil, fmt.Errorf("encode object: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("encode object: %w", err)
	}
	return buf.Bytes(), nil
}

// Decode inflates an encoded object and validates its envelope. Any defect
// in the stream reports ErrCorrupt: a zlib error, a missing NUL separator,
// a malformed or unknown kind, a non-numeric length, or a declared length
// that does not match the content actually present.
func Decode(data []byte) (Kind, []byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return "", nil, fmt.Errorf("decode object: %w: %v", ErrCorrupt, err)
	}
	raw, err := io.ReadAll(zr)
	zr.Close()
	if err != nil {
		return "", nil, fmt.Errorf("decode object: %w: %v", ErrCorrupt, err)
	}

	nul := bytes.IndexByte(raw, 0)
	if nul < 0 {
		return "", nil, fmt.Errorf("decode object: %w: missing NUL separator", ErrCorrupt)
	}
	content := raw[nul+1:]

	kindStr, lenStr, ok := strings.Cut(string(raw[:nul]), " ")
	if !ok {
		return "", nil, fmt.Errorf("decode object: %w: malformed header %q", ErrCorrupt, raw[:nul])
	}
	kind := Kind(kindStr)
	switch kind {
	case KindBlob, KindTree, KindCommit:
	default:
		return "", nil, fmt.Errorf("decode object: %w: unknown kind %q", ErrCorrupt, kindStr)
	}
	length, err := strconv.Atoi(lenStr)
	if err != nil {
		return "", nil, fmt.Errorf("decode object: %w: invalid length %q", ErrCorrupt, lenStr)
	}
	if length != len(content) {
		return "", nil, fmt.Errorf("decode object: %w: length mismatch (header=%d, actual=%d)",
			ErrCorrupt, length, len(content))
	}

	return kind, content, nil
}

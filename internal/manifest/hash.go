package manifest

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"hash"
	"strings"
)

// Hash is a parsed algorithm-tagged digest ("<ALGO>=<hex>").
type Hash struct {
	Algo string // canonical upper-case tag: MD5, SHA1, SHA256, SHA512
	Hex  string // lower-case hex digest
}

// ParseHash parses an algorithm-tagged digest string. The tag is
// case-insensitive; the digest length must match the algorithm.
func ParseHash(s string) (Hash, error) {
	tag, digest, ok := strings.Cut(s, "=")
	if !ok {
		return Hash{}, fmt.Errorf("invalid hash %q: want \"<ALGO>=<hex>\"", s)
	}
	algo := strings.ToUpper(tag)
	var size int
	switch algo {
	case "MD5":
		size = md5.Size
	case "SHA1":
		size = sha1.Size
	case "SHA256":
		size = sha256.Size
	case "SHA512":
		size = sha512.Size
	default:
		return Hash{}, fmt.Errorf("unsupported hash algorithm %q", tag)
	}
	digest = strings.ToLower(digest)
	if raw, err := hex.DecodeString(digest); err != nil || len(raw) != size {
		return Hash{}, fmt.Errorf("invalid %s digest %q", algo, digest)
	}
	return Hash{Algo: algo, Hex: digest}, nil
}

// Hasher returns a fresh hash.Hash for the parsed algorithm.
func (h Hash) Hasher() hash.Hash {
	switch h.Algo {
	case "MD5":
		return md5.New()
	case "SHA1":
		return sha1.New()
	case "SHA512":
		return sha512.New()
	default:
		return sha256.New()
	}
}

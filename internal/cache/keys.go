package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
	"strconv"
)

// PrefixLint marks lint result entries
const PrefixLint = "lint"

// GenerateKey hashes the given parts into a hex key. Parts are separated by
// a NUL byte so that ("ab", "c") and ("a", "bc") differ.
func GenerateKey(parts ...string) string {
	h := sha256.New()
	for i, p := range parts {
		if i > 0 {
			h.Write([]byte{0})
		}
		h.Write([]byte(p))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// GenerateKeyWithPrefix generates a key with a prefix
func GenerateKeyWithPrefix(prefix string, parts ...string) string {
	return prefix + ":" + GenerateKey(parts...)
}

// LintKey identifies the lint result of a file. Any change to the content,
// the location or the strictness gives a new key.
func LintKey(path, content string, strict bool) string {
	return GenerateKeyWithPrefix(PrefixLint, filepath.Clean(path), content, strconv.FormatBool(strict))
}

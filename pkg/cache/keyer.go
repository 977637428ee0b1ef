package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Hash returns the hex SHA-256 digest of data. Documents are addressed by
// the hash of their source.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// hashKey digests parts, NUL-separated so that ("ab", "c") and ("a", "bc")
// differ, under a readable namespace: "namespace:<hex>".
func hashKey(namespace string, parts ...string) string {
	h := sha256.New()
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{0})
	}
	return namespace + ":" + hex.EncodeToString(h.Sum(nil))
}

// Keyer builds cache keys.
type Keyer interface {
	// ArtifactKey identifies a rendered document in one output format.
	ArtifactKey(docHash, format string) string
}

// DefaultKeyer builds plain keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the unscoped keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// ArtifactKey implements [Keyer]. The format is case-insensitive.
func (DefaultKeyer) ArtifactKey(docHash, format string) string {
	return hashKey("artifact", docHash, strings.ToLower(format))
}

// ArtifactKey is [DefaultKeyer.ArtifactKey] as a function.
func ArtifactKey(docHash, format string) string {
	return DefaultKeyer{}.ArtifactKey(docHash, format)
}

package cache

// ScopedKeyer prefixes every key of an inner Keyer. The CLI scopes keys by
// release so artifacts drawn by another version are never read back:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), buildinfo.Version+":")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner, or the [DefaultKeyer] when inner is nil.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

func (k *ScopedKeyer) ArtifactKey(docHash, format string) string {
	return k.prefix + k.inner.ArtifactKey(docHash, format)
}

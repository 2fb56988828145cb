package cache

// ScopedKeyer wraps a Keyer with a prefix for namespace isolation.
// This is useful when several logical caches (e.g. different server tenants
// or test runs) share one backend.
//
// Example usage:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "tenant:abc123:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// DocKey generates a prefixed key for document caching.
func (k *ScopedKeyer) DocKey(sourceHash string) string {
	return k.prefix + k.inner.DocKey(sourceHash)
}

// LayoutKey generates a prefixed key for layout caching.
func (k *ScopedKeyer) LayoutKey(docHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(docHash, opts)
}

// ArtifactKey generates a prefixed key for artifact caching.
func (k *ScopedKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(layoutHash, opts)
}

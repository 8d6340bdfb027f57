package cache

// ScopedKeyer wraps a Keyer with a prefix for namespace isolation, for
// example several deployments sharing one Redis instance:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "staging:")
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

// ScanKey generates a prefixed key for a scanned layout.
func (k *ScopedKeyer) ScanKey(region, markersHash string, opts ScanKeyOpts) string {
	return k.prefix + k.inner.ScanKey(region, markersHash, opts)
}

// ArtifactKey generates a prefixed key for a rendered artifact.
func (k *ScopedKeyer) ArtifactKey(scanHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(scanHash, opts)
}

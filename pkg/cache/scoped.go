package cache

// ScopedKeyer prefixes every key of an inner Keyer. Several projects can
// share one Redis instance by scoping keys with their own prefix:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "stackbom:monorepo-a:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix. A nil inner uses
// DefaultKeyer.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// Prefix returns the scope prefix.
func (k *ScopedKeyer) Prefix() string { return k.prefix }

// DescriptorKey generates a prefixed descriptor key.
func (k *ScopedKeyer) DescriptorKey(path string, content []byte) string {
	return k.prefix + k.inner.DescriptorKey(path, content)
}

package cache

// SchemaVersion is folded into every descriptor key. Bump it whenever the
// parsed representation or the descriptor queries change.
const SchemaVersion = 1

// Keyer derives cache keys.
type Keyer interface {
	// DescriptorKey keys a parsed descriptor by its path and content.
	DescriptorKey(path string, content []byte) string
}

// DefaultKeyer produces unprefixed keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates a DefaultKeyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// DescriptorKey hashes the schema version, path and content hash together.
func (DefaultKeyer) DescriptorKey(path string, content []byte) string {
	return hashKey("descriptor", SchemaVersion, path, Hash(content))
}

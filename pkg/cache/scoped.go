package cache

// ScopedKeyer wraps a Keyer with a prefix so several deployments or sites
// can share one Redis instance without colliding.
//
// Example usage:
//
//	// Keys for the plans of one warehouse
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "site:dock-3:")
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

// PlanKey generates a prefixed plan key.
func (k *ScopedKeyer) PlanKey(boxesHash string, opts PlanKeyOpts) string {
	return k.prefix + k.inner.PlanKey(boxesHash, opts)
}

// ArtifactKey generates a prefixed artifact key.
func (k *ScopedKeyer) ArtifactKey(boxesHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(boxesHash, opts)
}

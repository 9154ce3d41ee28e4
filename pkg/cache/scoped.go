package cache

// ScopedKeyer prefixes every key of an inner Keyer, giving each server
// instance or tenant its own namespace in a shared backend:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "scynet:prod:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner (DefaultKeyer when nil) with prefix.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

func (k *ScopedKeyer) CollapseKey(networkHash string, opts CollapseKeyOpts) string {
	return k.prefix + k.inner.CollapseKey(networkHash, opts)
}

func (k *ScopedKeyer) AnnotateKey(graphHash, fluxHash string) string {
	return k.prefix + k.inner.AnnotateKey(graphHash, fluxHash)
}

func (k *ScopedKeyer) LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(graphHash, opts)
}

func (k *ScopedKeyer) RunKey(id string) string {
	return k.prefix + k.inner.RunKey(id)
}

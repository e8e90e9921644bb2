package cache

// ScopedKeyer wraps a Keyer with a prefix so multiple events can share one
// cache backend without key collisions.
//
// Example usage:
//
//	eventKeyer := NewScopedKeyer(NewDefaultKeyer(), "event:gophercon-2026:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer whose prefix is prepended to every
// generated key. A nil inner keyer defaults to [NewDefaultKeyer].
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// LayoutKey generates a prefixed key for composed layout caching.
func (k *ScopedKeyer) LayoutKey(templateID, eventID, recordHash string) string {
	return k.prefix + k.inner.LayoutKey(templateID, eventID, recordHash)
}

// LocationKey generates a prefixed key for location glyph caching.
func (k *ScopedKeyer) LocationKey(location string, sizePx int) string {
	return k.prefix + k.inner.LocationKey(location, sizePx)
}

// ArtworkKey generates a prefixed key for processed artwork caching.
func (k *ScopedKeyer) ArtworkKey(sourceURL string, marginIn, dpi float64) string {
	return k.prefix + k.inner.ArtworkKey(sourceURL, marginIn, dpi)
}

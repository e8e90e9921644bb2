// Package cache provides content-addressed caching for composed layouts,
// location glyphs, and processed artwork.
//
// Two backends exist: a file cache for CLI usage and a Redis cache for the
// badge server. A null cache disables caching entirely. Keys are built by a
// Keyer so callers never concatenate strings themselves; a ScopedKeyer
// prefixes keys for per-event isolation.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented cache with optional per-entry TTL.
type Cache interface {
	// Get returns the cached bytes and whether the key was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A zero ttl means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases backend resources.
	Close() error
}

// Keyer builds cache keys for the cacheable artifacts of the badge
// pipeline.
type Keyer interface {
	// LayoutKey identifies a composed layout by template, event, and the
	// content hash of the resolved attendee record.
	LayoutKey(templateID, eventID, recordHash string) string
	// LocationKey identifies a rendered location glyph.
	LocationKey(location string, sizePx int) string
	// ArtworkKey identifies a normalized-and-cropped artwork asset.
	ArtworkKey(sourceURL string, marginIn, dpi float64) string
}

// DefaultKeyer hashes key components with SHA-256 under a stable prefix
// per artifact kind.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// LayoutKey generates a key for composed layout caching.
func (k *DefaultKeyer) LayoutKey(templateID, eventID, recordHash string) string {
	return hashKey("layout", templateID, eventID, recordHash)
}

// LocationKey generates a key for location glyph caching.
func (k *DefaultKeyer) LocationKey(location string, sizePx int) string {
	return hashKey("location", location, sizePx)
}

// ArtworkKey generates a key for processed artwork caching.
func (k *DefaultKeyer) ArtworkKey(sourceURL string, marginIn, dpi float64) string {
	return hashKey("artwork", sourceURL, marginIn, dpi)
}

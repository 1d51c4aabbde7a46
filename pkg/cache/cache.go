// Package cache stores computed plans so identical requests are answered
// without searching again.
//
// Three backends implement [Cache]:
//   - [NullCache]: never stores anything (caching disabled)
//   - [FileCache]: JSON entries under a directory, for the CLI
//   - [RedisCache]: a shared Redis instance, for the HTTP server
//
// Keys are produced by a [Keyer] from a hash of the plan input and the
// options that influence the result, so changing any option yields a new
// key.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with optional expiry.
type Cache interface {
	// Get returns the value for key. A miss is reported with hit=false and a
	// nil error.
	Get(ctx context.Context, key string) (data []byte, hit bool, err error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}

// DefaultTTL is how long plan results are kept.
const DefaultTTL = 7 * 24 * time.Hour

// PlanKeyOpts holds every option that changes a planning result.
type PlanKeyOpts struct {
	MaxDepth         int      `json:"max_depth"`
	WorldSize        float64  `json:"world_size"`
	Directions       []string `json:"directions"`
	AllowAlternating bool     `json:"allow_alternating"`
	Costs            []string `json:"costs"`
}

// ArtifactKeyOpts holds the options of a rendered dependency graph.
type ArtifactKeyOpts struct {
	Format    string `json:"format"`
	Direction string `json:"direction"`
}

// Keyer generates cache keys.
type Keyer interface {
	// PlanKey returns the key of a planning result for the boxes hashed into
	// boxesHash.
	PlanKey(boxesHash string, opts PlanKeyOpts) string

	// ArtifactKey returns the key of a rendered dependency graph.
	ArtifactKey(boxesHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer produces "plan:<sha256>" and "artifact:<sha256>" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// PlanKey implements Keyer.
func (DefaultKeyer) PlanKey(boxesHash string, opts PlanKeyOpts) string {
	return hashKey("plan", boxesHash, opts)
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(boxesHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", boxesHash, opts)
}

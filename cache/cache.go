// Package cache keeps decoded type descriptors keyed by their encoding.
// Encoding is deterministic, so equal bytes always mean an equal type.
package cache

import (
	"sync/atomic"

	"github.com/dgraph-io/ristretto"
	"github.com/pkg/errors"

	"github.com/cube2222/typewire/datatype"
	"github.com/cube2222/typewire/typecodec"
)

type Config struct {
	// NumCounters should be about ten times the number of distinct
	// types expected to be cached.
	NumCounters int64 `yaml:"numCounters"`
	// MaxCost bounds the total size, in encoded bytes, of cached types.
	MaxCost int64 `yaml:"maxCost"`
}

var DefaultConfig = Config{
	NumCounters: 100000,
	MaxCost:     1 << 24,
}

// Cache decodes types, reusing earlier results for identical bytes.
// Returned descriptors are shared and must not be modified.
type Cache struct {
	cache   *ristretto.Cache
	decoder typecodec.Decoder

	hits   int64
	misses int64
}

func New(config Config, decoder typecodec.Decoder) (*Cache, error) {
	if config.NumCounters <= 0 {
		config.NumCounters = DefaultConfig.NumCounters
	}
	if config.MaxCost <= 0 {
		config.MaxCost = DefaultConfig.MaxCost
	}
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: config.NumCounters,
		MaxCost:     config.MaxCost,
		BufferItems: 64,
	})
	if err != nil {
		return nil, errors.Wrap(err, "couldn't create ristretto cache")
	}
	return &Cache{
		cache:   cache,
		decoder: decoder,
	}, nil
}

func (c *Cache) Decode(data []byte) (datatype.Type, error) {
	key := string(data)
	if cached, ok := c.cache.Get(key); ok {
		atomic.AddInt64(&c.hits, 1)
		return cached.(datatype.Type), nil
	}
	atomic.AddInt64(&c.misses, 1)

	t, err := c.decoder.Decode(data)
	if err != nil {
		return datatype.Type{}, err
	}
	// Admission is best-effort, a rejected Set only costs a later decode.
	c.cache.Set(key, t, int64(len(data)))
	return t, nil
}

type Stats struct {
	Hits   int64
	Misses int64
}

func (c *Cache) Stats() Stats {
	return Stats{
		Hits:   atomic.LoadInt64(&c.hits),
		Misses: atomic.LoadInt64(&c.misses),
	}
}

func (c *Cache) Close() {
	c.cache.Close()
}

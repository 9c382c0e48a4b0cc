package cache

import (
	"sync"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cube2222/typewire/datatype"
	"github.com/cube2222/typewire/typecodec"
)

func TestCacheDecode(t *testing.T) {
	c, err := New(Config{}, typecodec.Decoder{})
	require.NoError(t, err)
	defer c.Close()

	want := datatype.NewMap(datatype.String, datatype.NewArray(datatype.NewNullable(datatype.UInt64)))
	data, err := typecodec.Encode(want)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		got, err := c.Decode(data)
		require.NoError(t, err)
		assert.True(t, want.Equal(got), "got %s, want %s", got, want)
	}
	stats := c.Stats()
	assert.Equal(t, int64(10), stats.Hits+stats.Misses)
	assert.GreaterOrEqual(t, stats.Misses, int64(1))
}

func TestCacheDoesNotStoreErrors(t *testing.T) {
	c, err := New(Config{}, typecodec.Decoder{})
	require.NoError(t, err)
	defer c.Close()

	for i := 0; i < 3; i++ {
		_, err := c.Decode([]byte{0x30})
		assert.True(t, errors.Is(err, typecodec.ErrUnknownTypeTag))
	}
	assert.Equal(t, int64(0), c.Stats().Hits)
}

func TestCacheUsesDecoderLimits(t *testing.T) {
	c, err := New(Config{}, typecodec.Decoder{MaxDepth: 1})
	require.NoError(t, err)
	defer c.Close()

	data, err := typecodec.Encode(datatype.NewArray(datatype.NewArray(datatype.UInt8)))
	require.NoError(t, err)
	_, err = c.Decode(data)
	assert.True(t, errors.Is(err, typecodec.ErrMaxDepthExceeded))
}

func TestCacheConcurrentDecode(t *testing.T) {
	c, err := New(Config{NumCounters: 1000, MaxCost: 1 << 16}, typecodec.Decoder{})
	require.NoError(t, err)
	defer c.Close()

	types := []datatype.Type{
		datatype.UInt8,
		datatype.NewNullable(datatype.String),
		datatype.NewTuple(datatype.Float64, datatype.NewFixedString(3)),
	}
	encoded := make([][]byte, len(types))
	for i := range types {
		encoded[i], err = typecodec.Encode(types[i])
		require.NoError(t, err)
	}

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				j := i % len(types)
				got, err := c.Decode(encoded[j])
				if assert.NoError(t, err) {
					assert.True(t, types[j].Equal(got))
				}
			}
		}()
	}
	wg.Wait()
}

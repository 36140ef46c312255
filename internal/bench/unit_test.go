package bench

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseUnit(t *testing.T) {
	cases := map[string]Unit{
		"s":       Seconds,
		"ms":      Milliseconds,
		"us":      Microseconds,
		"µs":      Microseconds,
		"ns":      Nanoseconds,
		"items":   ItemsPerSec,
		"kitems":  KiloItemsPerSec,
		"mitems":  MegaItemsPerSec,
		"gitems":  GigaItemsPerSec,
		"ms/run":  Milliseconds,
		"items/s": ItemsPerSec,
	}
	for in, want := range cases {
		got, err := ParseUnit(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseUnit("furlongs")
	assert.Error(t, err)
}

func TestUnitThroughput(t *testing.T) {
	assert.False(t, Seconds.Throughput())
	assert.False(t, Nanoseconds.Throughput())
	assert.True(t, ItemsPerSec.Throughput())
	assert.True(t, GigaItemsPerSec.Throughput())
}

func TestUnitString(t *testing.T) {
	assert.Equal(t, "ms/run", Milliseconds.String())
	assert.Equal(t, "M items/s", MegaItemsPerSec.String())
}

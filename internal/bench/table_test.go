package bench

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seededTable(t *testing.T) *Table {
	t.Helper()
	table := NewTable([]string{"double"}, []Config{100})
	// 4 repetitions over 2s, 100 items per step
	err := table.Record(0, 0, 100, Measurement{Reps: 4, Elapsed: 2 * time.Second})
	require.NoError(t, err)
	return table
}

func TestValueTimeUnits(t *testing.T) {
	table := seededTable(t)

	sec := table.Value(0, 0, Seconds)
	require.Equal(t, Number, sec.Kind)
	assert.Equal(t, 0.5, sec.Float)

	ms := table.Value(0, 0, Milliseconds)
	assert.Equal(t, sec.Float*1000, ms.Float)

	us := table.Value(0, 0, Microseconds)
	assert.Equal(t, sec.Float*1e6, us.Float)

	ns := table.Value(0, 0, Nanoseconds)
	assert.Equal(t, sec.Float*1e9, ns.Float)
}

func TestValueThroughputUnits(t *testing.T) {
	table := seededTable(t)

	// 4 reps * 100 items / 2s
	raw := table.Value(0, 0, ItemsPerSec)
	require.Equal(t, Number, raw.Kind)
	assert.Equal(t, 200.0, raw.Float)

	assert.Equal(t, raw.Float/1e3, table.Value(0, 0, KiloItemsPerSec).Float)
	assert.Equal(t, raw.Float/1e6, table.Value(0, 0, MegaItemsPerSec).Float)
	assert.Equal(t, raw.Float/1e9, table.Value(0, 0, GigaItemsPerSec).Float)
}

func TestValueDegenerateElapsed(t *testing.T) {
	table := NewTable([]string{"noop"}, []Config{1})
	require.NoError(t, table.Record(0, 0, 1, Measurement{Reps: 1000, Elapsed: 0}))

	for _, u := range []Unit{Seconds, Nanoseconds, ItemsPerSec, MegaItemsPerSec} {
		v := table.Value(0, 0, u)
		assert.Equal(t, Undefined, v.Kind, "unit %s", u)
	}
}

func TestValueAbsentCell(t *testing.T) {
	table := NewTable([]string{"a"}, []Config{1, 2})
	require.NoError(t, table.Record(0, 0, 1, Measurement{Reps: 1, Elapsed: time.Millisecond}))

	assert.Equal(t, Absent, table.Value(0, 1, Seconds).Kind)
	assert.NotEqual(t, Absent, table.Value(0, 0, Seconds).Kind)
}

func TestRecordRules(t *testing.T) {
	table := NewTable([]string{"a"}, []Config{1})
	m := Measurement{Reps: 1, Elapsed: time.Millisecond}

	assert.Error(t, table.Record(1, 0, 1, m), "row out of range")
	assert.Error(t, table.Record(0, 1, 1, m), "column out of range")
	assert.Error(t, table.Record(0, 0, 1, Measurement{Reps: 0}), "repetitions below one")

	require.NoError(t, table.Record(0, 0, 1, m))
	assert.Error(t, table.Record(0, 0, 1, m), "cells are write-once")
}

func TestNsPerOp(t *testing.T) {
	m := Measurement{Reps: 4, Elapsed: 2 * time.Microsecond}
	assert.Equal(t, 500.0, m.NsPerOp())
	assert.Zero(t, Measurement{}.NsPerOp())
}

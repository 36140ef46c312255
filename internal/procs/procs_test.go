package procs

import (
	"context"
	"testing"
	"time"

	"benchtab/internal/bench"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	names := Names()
	assert.Equal(t, []string{"double", "sqrt", "exp", "log", "matmul", "noop"}, names)

	seen := map[string]bool{}
	for _, n := range names {
		assert.False(t, seen[n], "duplicate name %s", n)
		seen[n] = true

		p, ok := Lookup(n)
		require.True(t, ok)
		assert.Equal(t, n, p.Name())
	}

	_, ok := Lookup("quicksort")
	assert.False(t, ok)
}

func TestKernelStep(t *testing.T) {
	p, ok := Lookup("double")
	require.True(t, ok)

	st, err := p.Setup(4)
	require.NoError(t, err)
	require.NoError(t, p.Step(4, st))

	s := st.(*kernelState)
	assert.Equal(t, []float64{1, 2, 3, 4}, s.in)
	assert.Equal(t, []float64{2, 4, 6, 8}, s.out)

	// repeat leaves the result unchanged: constant cost per call
	require.NoError(t, p.Step(4, st))
	assert.Equal(t, []float64{2, 4, 6, 8}, s.out)

	require.NoError(t, p.Teardown(4, st))
	assert.Nil(t, s.in)
}

func TestKernelProblemSize(t *testing.T) {
	p, _ := Lookup("sqrt")
	assert.Equal(t, int64(128), p.ProblemSize(128))
	assert.True(t, p.IsValid(0))
	assert.False(t, p.IsValid(-1))
}

func TestMatmulValidity(t *testing.T) {
	p, ok := Lookup("matmul")
	require.True(t, ok)

	assert.False(t, p.IsValid(0))
	assert.True(t, p.IsValid(1))
	assert.True(t, p.IsValid(512))
	assert.False(t, p.IsValid(513), "oversized ranks must be skipped, not run")

	assert.Equal(t, int64(16), p.ProblemSize(4))
}

func TestMatmulStep(t *testing.T) {
	p, _ := Lookup("matmul")
	st, err := p.Setup(2)
	require.NoError(t, err)
	require.NoError(t, p.Step(2, st))

	s := st.(*matmulState)
	// a = [1 2; 3 4], b = [1 2; 3 4] with the modular fill
	assert.InDelta(t, s.a[0]*s.b[0]+s.a[1]*s.b[2], s.c[0], 1e-12)
	require.NoError(t, p.Teardown(2, st))
}

// End-to-end: the scenario from the harness contract. Repetition counts
// should fall as the problem size grows, and the measured loop should
// roughly fill the target duration.
func TestDoubleEndToEnd(t *testing.T) {
	p, ok := Lookup("double")
	require.True(t, ok)

	r := bench.NewRunner(100 * time.Millisecond)
	r.MaxReps = 50_000_000

	table, err := r.Sweep(context.Background(), []bench.Procedure{p}, []bench.Config{64, 4096})
	require.NoError(t, err)

	small, ok := table.Measurement(0, 0)
	require.True(t, ok)
	large, ok := table.Measurement(0, 1)
	require.True(t, ok)

	assert.GreaterOrEqual(t, small.Reps, int64(1))
	assert.GreaterOrEqual(t, large.Reps, int64(1))
	assert.LessOrEqual(t, large.Reps, small.Reps,
		"64x the work should not need more repetitions to fill the target")

	// elapsed lands near the target, per the probe's linear-scaling
	// assumption; the band is loose because the probe also pays the
	// clock-read overhead that the measured loop amortizes away
	for _, m := range []bench.Measurement{small, large} {
		assert.Greater(t, m.Elapsed, 25*time.Millisecond)
		assert.Less(t, m.Elapsed, 400*time.Millisecond)
	}
}

// A sweep over the no-op procedure must terminate: the probe reads at
// clock resolution and the repetition count is clamped.
func TestNoopSweepTerminates(t *testing.T) {
	p, ok := Lookup("noop")
	require.True(t, ok)

	r := bench.NewRunner(10 * time.Millisecond)
	r.MaxReps = 100_000

	table, err := r.Sweep(context.Background(), []bench.Procedure{p}, []bench.Config{1})
	require.NoError(t, err)

	m, ok := table.Measurement(0, 0)
	require.True(t, ok)
	assert.LessOrEqual(t, m.Reps, int64(100_000))
	assert.GreaterOrEqual(t, m.Reps, int64(1))
}

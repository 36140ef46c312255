// Package procs provides the built-in benchmarkable procedures. They are
// small floating-point kernels whose configuration value is the buffer
// length (or matrix rank, for matmul), useful for comparing per-element
// costs across problem sizes.
package procs

import (
	"fmt"

	"benchtab/internal/bench"
)

// kernel benchmarks one float64 map function over a buffer of cfg
// elements. Setup fills an input buffer once; Step writes into a separate
// output buffer so repeated calls keep a constant cost.
type kernel struct {
	name string
	desc string
	fn   func(float64) float64
}

type kernelState struct {
	in  []float64
	out []float64
}

func (k *kernel) Name() string { return k.name }

func (k *kernel) ProblemSize(cfg bench.Config) int64 { return int64(cfg) }

func (k *kernel) IsValid(cfg bench.Config) bool { return cfg >= 0 }

func (k *kernel) Setup(cfg bench.Config) (bench.State, error) {
	if cfg < 0 {
		return nil, fmt.Errorf("negative buffer length %d", cfg)
	}
	st := &kernelState{
		in:  make([]float64, cfg),
		out: make([]float64, cfg),
	}
	for i := range st.in {
		st.in[i] = float64(i + 1)
	}
	return st, nil
}

func (k *kernel) Step(cfg bench.Config, st bench.State) error {
	s := st.(*kernelState)
	for i, v := range s.in {
		s.out[i] = k.fn(v)
	}
	return nil
}

func (k *kernel) Teardown(cfg bench.Config, st bench.State) error {
	s := st.(*kernelState)
	s.in, s.out = nil, nil
	return nil
}

// matmul multiplies two cfg x cfg matrices. Ranks above maxRank are
// rejected so a sweep over large buffer lengths does not turn into a
// multi-minute cubic run; those cells stay absent.
type matmul struct{}

const maxRank = 512

type matmulState struct {
	a, b, c []float64
}

func (matmul) Name() string { return "matmul" }

func (matmul) ProblemSize(cfg bench.Config) int64 { return int64(cfg) * int64(cfg) }

func (matmul) IsValid(cfg bench.Config) bool { return cfg >= 1 && cfg <= maxRank }

func (matmul) Setup(cfg bench.Config) (bench.State, error) {
	n := int(cfg)
	st := &matmulState{
		a: make([]float64, n*n),
		b: make([]float64, n*n),
		c: make([]float64, n*n),
	}
	for i := range st.a {
		st.a[i] = float64(i%7) + 1
		st.b[i] = float64(i%5) + 1
	}
	return st, nil
}

func (matmul) Step(cfg bench.Config, st bench.State) error {
	s := st.(*matmulState)
	n := int(cfg)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			var sum float64
			for p := 0; p < n; p++ {
				sum += s.a[i*n+p] * s.b[p*n+j]
			}
			s.c[i*n+j] = sum
		}
	}
	return nil
}

func (matmul) Teardown(cfg bench.Config, st bench.State) error {
	s := st.(*matmulState)
	s.a, s.b, s.c = nil, nil, nil
	return nil
}

// noop does no work in Step. It exists to exercise the degenerate-timing
// path: its probe reads at or near clock resolution, so the runner's
// repetition clamp is what keeps a sweep over it finite.
type noop struct{}

func (noop) Name() string { return "noop" }

func (noop) ProblemSize(cfg bench.Config) int64 { return int64(cfg) }

func (noop) IsValid(cfg bench.Config) bool { return cfg >= 0 }

func (noop) Setup(cfg bench.Config) (bench.State, error) { return struct{}{}, nil }

func (noop) Step(cfg bench.Config, st bench.State) error { return nil }

func (noop) Teardown(cfg bench.Config, st bench.State) error { return nil }

package procs

import (
	"math"

	"benchtab/internal/bench"
)

// Info describes a registered procedure for listings.
type Info struct {
	Name        string
	Description string
}

var registry = []struct {
	proc bench.Procedure
	desc string
}{
	{&kernel{name: "double", fn: func(v float64) float64 { return 2 * v }}, "double each element of a float buffer"},
	{&kernel{name: "sqrt", fn: math.Sqrt}, "square root of each element"},
	{&kernel{name: "exp", fn: math.Exp}, "e^x of each element"},
	{&kernel{name: "log", fn: math.Log}, "natural log of each element"},
	{matmul{}, "dense matrix multiply, cfg is the rank (max 512)"},
	{noop{}, "empty step, exercises the repetition clamp"},
}

// All returns every built-in procedure in registration order.
func All() []bench.Procedure {
	out := make([]bench.Procedure, len(registry))
	for i, e := range registry {
		out[i] = e.proc
	}
	return out
}

// Names returns the registered procedure names in order.
func Names() []string {
	out := make([]string, len(registry))
	for i, e := range registry {
		out[i] = e.proc.Name()
	}
	return out
}

// Lookup finds a procedure by name.
func Lookup(name string) (bench.Procedure, bool) {
	for _, e := range registry {
		if e.proc.Name() == name {
			return e.proc, true
		}
	}
	return nil, false
}

// Describe returns name and description for every procedure.
func Describe() []Info {
	out := make([]Info, len(registry))
	for i, e := range registry {
		out[i] = Info{Name: e.proc.Name(), Description: e.desc}
	}
	return out
}

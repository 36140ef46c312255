// Package bench is the measurement core: the procedure contract, the
// warmup/probe/measure timing protocol, the result table with its unit
// conversions, and the text/CSV reporter.
package bench

import "strconv"

// Config parameterizes one run of a procedure. It is typically a problem
// size, but its meaning is up to each procedure: the same value may be an
// element count for one and a matrix rank for another.
type Config int64

func (c Config) String() string {
	return strconv.FormatInt(int64(c), 10)
}

// State is the working storage a procedure's Setup builds for its Step.
// It is created outside the timed interval and released by Teardown.
type State any

// Procedure is the contract every benchmarked routine implements.
type Procedure interface {
	// Name returns a stable display identifier, unique within a sweep.
	Name() string

	// ProblemSize reports the number of elementary items one Step call
	// processes under cfg. It is used only for throughput conversion,
	// never to control timing.
	ProblemSize(cfg Config) int64

	// IsValid reports whether the procedure can run under cfg. Invalid
	// pairs are recorded as absent and never attempted.
	IsValid(cfg Config) bool

	// Setup allocates everything Step needs. It runs outside the timed
	// interval.
	Setup(cfg Config) (State, error)

	// Step executes exactly one unit of timed work. It must be safe to
	// call repeatedly against the same State without changing its own
	// cost, and must not allocate or release resources.
	Step(cfg Config, st State) error

	// Teardown releases resources acquired by Setup. It runs outside the
	// timed interval, once per pair that reached Setup.
	Teardown(cfg Config, st State) error
}

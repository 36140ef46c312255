package bench

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"
)

// DefaultTarget is the measurement duration a runner aims to fill with
// repetitions when none is configured.
const DefaultTarget = time.Second

// DefaultMaxReps bounds the repetition count when the probe is too fast to
// measure, so a free-running step can never spin the loop forever.
const DefaultMaxReps = 1_000_000_000

// Observer is notified before each (procedure, configuration) pair is
// attempted, in sweep order.
type Observer func(procedure string, cfg Config)

// Runner executes the warmup/probe/measure protocol for procedure and
// configuration pairs. It is strictly sequential: no two measurements ever
// overlap, and nothing else runs between the clock samples that bracket
// the measured loop.
type Runner struct {
	// Target is the duration the measured loop should roughly fill.
	Target time.Duration

	// MaxReps caps the repetition count decided from the probe.
	MaxReps int64

	// Observer, when set, is called before each pair.
	Observer Observer

	now func() time.Time
}

// NewRunner returns a runner targeting the given measurement duration.
// A non-positive target falls back to DefaultTarget.
func NewRunner(target time.Duration) *Runner {
	if target <= 0 {
		target = DefaultTarget
	}
	return &Runner{
		Target:  target,
		MaxReps: DefaultMaxReps,
		now:     time.Now,
	}
}

// Sweep measures every procedure under every configuration, in
// procedure-major order, and returns the completed table. The first
// failing pair aborts the sweep with a PairError and no table is
// returned. Cancellation is honored only between pairs: an interrupted
// timed loop would corrupt the elapsed/repetitions ratio.
func (r *Runner) Sweep(ctx context.Context, procs []Procedure, cfgs []Config) (*Table, error) {
	names := make([]string, len(procs))
	seen := make(map[string]struct{}, len(procs))
	for i, p := range procs {
		name := p.Name()
		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateName, name)
		}
		seen[name] = struct{}{}
		names[i] = name
	}

	table := NewTable(names, cfgs)
	for i, p := range procs {
		for j, cfg := range cfgs {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if r.Observer != nil {
				r.Observer(names[i], cfg)
			}
			if !p.IsValid(cfg) {
				slog.Debug("skipping invalid pair", "procedure", names[i], "cfg", int64(cfg))
				continue
			}
			m, err := r.Measure(p, cfg)
			if err != nil {
				return nil, err
			}
			if err := table.Record(i, j, p.ProblemSize(cfg), m); err != nil {
				return nil, err
			}
		}
	}
	return table, nil
}

// Measure runs the timing protocol for one valid pair: one untimed warmup
// step, one timed probe step, then n timed repetitions where n is chosen
// to fill the target duration based on the probe.
func (r *Runner) Measure(p Procedure, cfg Config) (Measurement, error) {
	fail := func(phase Phase, err error) (Measurement, error) {
		return Measurement{}, &PairError{Procedure: p.Name(), Config: cfg, Phase: phase, Err: err}
	}

	st, err := p.Setup(cfg)
	if err != nil {
		return fail(PhaseSetup, err)
	}

	m, runErr := r.timed(p, cfg, st)

	// Teardown runs even when a step failed, so the state never leaks.
	if terr := p.Teardown(cfg, st); terr != nil {
		if runErr == nil {
			return fail(PhaseTeardown, terr)
		}
		slog.Warn("teardown failed after earlier error",
			"procedure", p.Name(), "cfg", int64(cfg), "error", terr)
	}
	if runErr != nil {
		return Measurement{}, runErr
	}
	return m, nil
}

func (r *Runner) timed(p Procedure, cfg Config, st State) (Measurement, error) {
	fail := func(phase Phase, err error) (Measurement, error) {
		return Measurement{}, &PairError{Procedure: p.Name(), Config: cfg, Phase: phase, Err: err}
	}

	// Warmup absorbs one-time costs that would bias the probe.
	if err := p.Step(cfg, st); err != nil {
		return fail(PhaseWarmup, err)
	}

	start := r.now()
	if err := p.Step(cfg, st); err != nil {
		return fail(PhaseProbe, err)
	}
	probe := r.now().Sub(start)

	n := r.repetitions(probe)

	start = r.now()
	for i := int64(0); i < n; i++ {
		if err := p.Step(cfg, st); err != nil {
			return fail(PhaseMeasure, err)
		}
	}
	elapsed := r.now().Sub(start)

	return Measurement{Reps: n, Elapsed: elapsed}, nil
}

// repetitions estimates how many steps fill the target duration, assuming
// cost scales linearly from the single probe call. Warm-cache drift
// between probe and measure is a known bias and is deliberately not
// compensated for.
func (r *Runner) repetitions(probe time.Duration) int64 {
	limit := r.MaxReps
	if limit < 1 {
		limit = DefaultMaxReps
	}
	if probe <= 0 {
		return limit
	}
	n := int64(math.Round(float64(r.Target) / float64(probe)))
	if n < 1 {
		return 1
	}
	if n > limit {
		return limit
	}
	return n
}

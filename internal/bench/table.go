package bench

import (
	"fmt"
	"time"
)

// Measurement is the recorded outcome of one (procedure, configuration)
// pair: how many times Step ran inside the timed loop and the wall-clock
// time the whole loop took. Derived values (per-run time, throughput) are
// computed on demand, never stored.
type Measurement struct {
	Reps    int64
	Elapsed time.Duration
}

// NsPerOp returns the mean per-repetition cost in nanoseconds.
func (m Measurement) NsPerOp() float64 {
	if m.Reps == 0 {
		return 0
	}
	return float64(m.Elapsed.Nanoseconds()) / float64(m.Reps)
}

// ValueKind distinguishes readable numbers from the two non-numeric cell
// outcomes.
type ValueKind int

const (
	// Absent means the configuration was invalid for the procedure and
	// the pair was never attempted.
	Absent ValueKind = iota
	// Undefined means the pair was measured but elapsed time was below
	// clock resolution, so per-run time and throughput are meaningless.
	Undefined
	// Number means Float holds a usable value.
	Number
)

// Value is one cell readout at a display unit.
type Value struct {
	Kind  ValueKind
	Float float64
}

// Table is the grid of measurements for one sweep. Row order follows the
// procedure list and column order the configuration list given at
// construction; both are fixed for the table's lifetime. Cells are written
// once, by the runner, and the table is read-only afterwards.
type Table struct {
	procs []string
	cfgs  []Config
	cells [][]tableCell
}

type tableCell struct {
	set  bool
	size int64 // problem size at record time, for throughput readout
	m    Measurement
}

// NewTable returns an empty table sized to len(procs) x len(cfgs). Every
// cell starts absent.
func NewTable(procs []string, cfgs []Config) *Table {
	t := &Table{
		procs: append([]string(nil), procs...),
		cfgs:  append([]Config(nil), cfgs...),
		cells: make([][]tableCell, len(procs)),
	}
	for i := range t.cells {
		t.cells[i] = make([]tableCell, len(cfgs))
	}
	return t
}

// Procedures returns the row labels in order.
func (t *Table) Procedures() []string {
	return append([]string(nil), t.procs...)
}

// Configs returns the column labels in order.
func (t *Table) Configs() []Config {
	return append([]Config(nil), t.cfgs...)
}

// Record writes the measurement for row i, column j. size is the
// procedure's problem size under that configuration. A cell may be
// written only once.
func (t *Table) Record(i, j int, size int64, m Measurement) error {
	if i < 0 || i >= len(t.procs) || j < 0 || j >= len(t.cfgs) {
		return fmt.Errorf("cell (%d,%d) out of range for %dx%d table", i, j, len(t.procs), len(t.cfgs))
	}
	if t.cells[i][j].set {
		return fmt.Errorf("cell (%s, %s) already recorded", t.procs[i], t.cfgs[j])
	}
	if m.Reps < 1 {
		return fmt.Errorf("measurement for (%s, %s) has %d repetitions", t.procs[i], t.cfgs[j], m.Reps)
	}
	t.cells[i][j] = tableCell{set: true, size: size, m: m}
	return nil
}

// Measurement returns the raw measurement at row i, column j. ok is false
// for absent cells.
func (t *Table) Measurement(i, j int) (Measurement, bool) {
	c := t.cells[i][j]
	return c.m, c.set
}

// ProblemSize returns the item count recorded at row i, column j.
func (t *Table) ProblemSize(i, j int) int64 {
	return t.cells[i][j].size
}

// Value derives the cell at row i, column j in the given display unit.
func (t *Table) Value(i, j int, u Unit) Value {
	c := t.cells[i][j]
	if !c.set {
		return Value{Kind: Absent}
	}
	if c.m.Elapsed == 0 {
		return Value{Kind: Undefined}
	}
	if u.Throughput() {
		items := float64(c.m.Reps) * float64(c.size)
		perSec := items / c.m.Elapsed.Seconds()
		return Value{Kind: Number, Float: perSec * u.scale()}
	}
	perRun := c.m.Elapsed.Seconds() / float64(c.m.Reps)
	return Value{Kind: Number, Float: perRun * u.scale()}
}

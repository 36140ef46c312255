package history

import "fmt"

// Comparison is the per-run-time delta for one (procedure, config) pair
// present in both runs.
type Comparison struct {
	Procedure   string
	Config      int64
	PrevNsPerOp float64
	CurrNsPerOp float64
	DiffPct     float64 // positive = slower than before
}

func (c Comparison) String() string {
	return fmt.Sprintf("%s/%d: %+.2f%% ns/op", c.Procedure, c.Config, c.DiffPct)
}

// Regression reports whether the pair slowed down by more than
// threshold percent.
func (c Comparison) Regression(threshold float64) bool {
	return c.DiffPct > threshold
}

// Improvement reports whether the pair sped up by more than
// threshold percent.
func (c Comparison) Improvement(threshold float64) bool {
	return c.DiffPct < -threshold
}

type pairKey struct {
	proc string
	cfg  int64
}

// Compare matches cells of two runs by (procedure, config) and returns
// the deltas in the current run's cell order. Pairs present in only one
// run are skipped.
func Compare(prev, curr Run) []Comparison {
	prevMap := make(map[pairKey]Cell, len(prev.Cells))
	for _, c := range prev.Cells {
		prevMap[pairKey{c.Procedure, c.Config}] = c
	}

	var out []Comparison
	for _, c := range curr.Cells {
		p, ok := prevMap[pairKey{c.Procedure, c.Config}]
		if !ok {
			continue
		}
		comp := Comparison{
			Procedure:   c.Procedure,
			Config:      c.Config,
			PrevNsPerOp: p.NsPerOp(),
			CurrNsPerOp: c.NsPerOp(),
		}
		if comp.PrevNsPerOp > 0 {
			comp.DiffPct = (comp.CurrNsPerOp - comp.PrevNsPerOp) / comp.PrevNsPerOp * 100
		}
		out = append(out, comp)
	}
	return out
}

package bench

import (
	"errors"
	"fmt"
)

// Phase identifies where in the timing protocol a pair failed.
type Phase string

const (
	PhaseSetup    Phase = "setup"
	PhaseWarmup   Phase = "warmup"
	PhaseProbe    Phase = "probe"
	PhaseMeasure  Phase = "measure"
	PhaseTeardown Phase = "teardown"
)

// ErrDuplicateName is returned by Sweep when two procedures share a name.
var ErrDuplicateName = errors.New("duplicate procedure name")

// PairError reports the failure of a single (procedure, configuration)
// measurement. A sweep aborts on the first PairError so that no partial
// table is ever presented as complete.
type PairError struct {
	Procedure string
	Config    Config
	Phase     Phase
	Err       error
}

func (e *PairError) Error() string {
	return fmt.Sprintf("%s failed for %s (cfg=%s): %v", e.Phase, e.Procedure, e.Config, e.Err)
}

func (e *PairError) Unwrap() error {
	return e.Err
}

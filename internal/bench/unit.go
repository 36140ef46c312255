package bench

import "fmt"

// Unit selects the representation of a cell readout: mean time per run at
// a time scale, or items processed per second at a magnitude scale.
type Unit int

const (
	Seconds Unit = iota
	Milliseconds
	Microseconds
	Nanoseconds
	ItemsPerSec
	KiloItemsPerSec
	MegaItemsPerSec
	GigaItemsPerSec
)

var unitNames = map[Unit]string{
	Seconds:         "s/run",
	Milliseconds:    "ms/run",
	Microseconds:    "us/run",
	Nanoseconds:     "ns/run",
	ItemsPerSec:     "items/s",
	KiloItemsPerSec: "K items/s",
	MegaItemsPerSec: "M items/s",
	GigaItemsPerSec: "G items/s",
}

func (u Unit) String() string {
	if s, ok := unitNames[u]; ok {
		return s
	}
	return fmt.Sprintf("Unit(%d)", int(u))
}

// Throughput reports whether the unit is items-per-second based.
func (u Unit) Throughput() bool {
	return u >= ItemsPerSec
}

func (u Unit) scale() float64 {
	switch u {
	case Seconds, ItemsPerSec:
		return 1
	case Milliseconds:
		return 1e3
	case Microseconds:
		return 1e6
	case Nanoseconds:
		return 1e9
	case KiloItemsPerSec:
		return 1e-3
	case MegaItemsPerSec:
		return 1e-6
	case GigaItemsPerSec:
		return 1e-9
	}
	return 1
}

// ParseUnit maps the CLI/config spelling of a unit to its Unit value.
func ParseUnit(s string) (Unit, error) {
	switch s {
	case "s", "sec", "s/run":
		return Seconds, nil
	case "ms", "ms/run":
		return Milliseconds, nil
	case "us", "µs", "us/run":
		return Microseconds, nil
	case "ns", "ns/run":
		return Nanoseconds, nil
	case "items", "items/s":
		return ItemsPerSec, nil
	case "kitems", "K", "K items/s":
		return KiloItemsPerSec, nil
	case "mitems", "M", "M items/s":
		return MegaItemsPerSec, nil
	case "gitems", "G", "G items/s":
		return GigaItemsPerSec, nil
	}
	return Seconds, fmt.Errorf("unknown unit %q", s)
}

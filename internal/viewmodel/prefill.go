package viewmodel

import "fmt"

// PrefillMode says whether the storewide card's BDC columns follow live
// agent submissions.
type PrefillMode int

const (
	PrefillIdle PrefillMode = iota
	PrefillArmed
)

func (m PrefillMode) String() string {
	if m == PrefillArmed {
		return "armed"
	}
	return "idle"
}

func (m PrefillMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *PrefillMode) UnmarshalText(b []byte) error {
	switch string(b) {
	case "armed":
		*m = PrefillArmed
	case "idle":
		*m = PrefillIdle
	default:
		return fmt.Errorf("unknown prefill mode %q", b)
	}
	return nil
}

// CardEvent is an input to the storewide card's prefill transition.
type CardEvent int

const (
	CardPrefillRequested CardEvent = iota
	CardShiftsChanged
	CardSaved
	CardUnmounted
)

// PrefillRun is what a transition asks the card to do.
type PrefillRun int

const (
	RunNone PrefillRun = iota
	// RunManual prefills and reports the outcome to the operator.
	RunManual
	// RunSilent prefills without a success message and drops failures.
	RunSilent
)

// Apply is the prefill state machine. A request always arms and runs
// manually; a shift change runs silently only while armed; saving or leaving
// the page disarms.
func Apply(mode PrefillMode, ev CardEvent) (PrefillMode, PrefillRun) {
	switch ev {
	case CardPrefillRequested:
		return PrefillArmed, RunManual
	case CardShiftsChanged:
		if mode == PrefillArmed {
			return PrefillArmed, RunSilent
		}
		return mode, RunNone
	case CardSaved, CardUnmounted:
		return PrefillIdle, RunNone
	default:
		return mode, RunNone
	}
}

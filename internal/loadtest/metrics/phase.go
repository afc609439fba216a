package metrics

import "time"

// Phase identifies where a run is in its lifecycle. The scheduler drives
// transitions; live readers include the phase in progress output.
type Phase string

const (
	PhaseInit     Phase = "init"
	PhaseRampUp   Phase = "ramp-up"
	PhaseSteady   Phase = "steady"
	PhaseDraining Phase = "draining"
	PhaseDone     Phase = "done"
)

// PhaseChange records one phase transition.
type PhaseChange struct {
	Phase Phase     `json:"phase"`
	At    time.Time `json:"at"`

	// Requests is the total sample count at the moment of transition.
	Requests int64 `json:"requests"`
}

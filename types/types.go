package types

type ProcessState string

const (
	Idle      ProcessState = "idle"
	Running   ProcessState = "running"
	Completed ProcessState = "completed"
	Failed    ProcessState = "failed"
)

// Terminal reports whether no further Step call can advance the process.
// Only a full Reset leaves a terminal state.
func (s ProcessState) Terminal() bool {
	return s == Completed || s == Failed
}

const (
	EventVisit    = "visit"
	EventExpand   = "expand"
	EventHit      = "hit"
	EventComplete = "complete"
	EventFail     = "fail"
)

const (
	ReasonTargetReached     = "target_reached"
	ReasonFrontierExhausted = "frontier_exhausted"
)

package types

type ProcessEvent struct {
	Type     string `json:"type"`
	EntityID string `json:"entityId,omitempty"`
	Data     Data   `json:"data,omitempty"`
}

/**
 * StepResult is produced by every Step call. A call that performed real work
 * carries the index of the step it performed plus the events it emitted; a
 * call on a terminal process returns the current index unchanged with no
 * events. Callers accumulating a trace must therefore filter by step index,
 * not by call count.
 */
type StepResult struct {
	Step    int                `json:"step"`
	State   Data               `json:"state"`
	Metrics map[string]float64 `json:"metrics"`
	Events  []ProcessEvent     `json:"events"`
}

type RunResult struct {
	State        ProcessState       `json:"state"`
	Steps        []StepResult       `json:"steps"`
	Metrics      map[string]float64 `json:"metrics"`
	FailedReason string             `json:"failedReason,omitempty"`
}

/**
 * Snapshot captures the full live state of a process. Data is an
 * implementation-defined JSON payload holding everything Reset would have
 * rebuilt, so RestoreSnapshot(GetSnapshot()) yields an instance whose
 * subsequent Step behavior is identical to the original. No structure is
 * shared between the snapshot and the live instance.
 */
type Snapshot struct {
	State       ProcessState `json:"state"`
	CurrentStep int          `json:"currentStep"`
	Data        []byte       `json:"data"`
}

/**
 * Process is a resumable stepped algorithm. The state machine is
 * idle -> running -> {completed | failed}; terminal states are absorbing
 * until Reset. Configuration and step-cap failures surface through
 * State() == Failed plus FailedReason(), never as returned errors, so a
 * binder can always finish its pass against a misconfigured process.
 *
 * An instance must not be driven from more than one goroutine at a time.
 */
type Process interface {
	ID() string

	Init(cfg Data)
	Reset()
	Step() StepResult
	Run(maxSteps int) RunResult

	State() ProcessState
	CurrentStep() int
	TotalSteps() int
	FailedReason() string
	GetMetrics() map[string]float64

	GetSnapshot() (Snapshot, error)
	RestoreSnapshot(snapshot Snapshot) error
}

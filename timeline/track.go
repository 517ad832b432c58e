package timeline

import (
	"sync"

	"github.com/algowalk/algowalk/types"
)

var (
	_ types.Track = &StepTrack{}
	_ types.Track = &StateTrack{}
	_ types.Track = &EventTrack{}
)

type baseTrack struct {
	mu sync.Mutex

	id        string
	kind      types.TrackKind
	processID string

	keyframes []types.Keyframe
}

func (t *baseTrack) ID() string {
	return t.id
}

func (t *baseTrack) Kind() types.TrackKind {
	return t.kind
}

func (t *baseTrack) ProcessID() string {
	return t.processID
}

func (t *baseTrack) Keyframes() []types.Keyframe {
	t.mu.Lock()
	defer t.mu.Unlock()

	kfs := make([]types.Keyframe, len(t.keyframes))
	copy(kfs, t.keyframes)
	return kfs
}

func (t *baseTrack) ClearKeyframes() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.keyframes = t.keyframes[:0]
}

func (t *baseTrack) AddKeyframe(kf types.Keyframe) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.keyframes = append(t.keyframes, kf)
}

/**
 * StepTrack holds one keyframe per algorithm step; the value carries the
 * step index, a label and the step's state payload.
 */
type StepTrack struct {
	baseTrack
}

func NewStepTrack(id, processID string) *StepTrack {
	t := &StepTrack{}
	t.id = id
	t.kind = types.TrackKindStep
	t.processID = processID
	return t
}

/**
 * StateTrack holds discrete state labels (running/hit/failed/...), one per
 * step, each with the event type that triggered it.
 */
type StateTrack struct {
	baseTrack
}

func NewStateTrack(id, processID string) *StateTrack {
	t := &StateTrack{}
	t.id = id
	t.kind = types.TrackKindState
	t.processID = processID
	return t
}

/**
 * EventTrack holds named trace events. Binding requires an explicit
 * processID tag; untagged event tracks are never rewritten.
 */
type EventTrack struct {
	baseTrack
}

func NewEventTrack(id, processID string) *EventTrack {
	t := &EventTrack{}
	t.id = id
	t.kind = types.TrackKindEvent
	t.processID = processID
	return t
}

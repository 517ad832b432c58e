package types

type TrackKind int

const (
	TrackKindStep  TrackKind = 1
	TrackKindState TrackKind = 2
	TrackKindEvent TrackKind = 3
)

func (k TrackKind) String() string {
	switch k {
	case TrackKindStep:
		return "step"
	case TrackKindState:
		return "state"
	case TrackKindEvent:
		return "event"
	}
	return "unknown"
}

type Keyframe struct {
	Time  float64 `json:"time"`
	Value Data    `json:"value"`
}

/**
 * Track is one keyframe lane of a host timeline. Kind is a closed enum: the
 * binder dispatches over it instead of probing concrete track types.
 * ProcessID is the affinity tag matching a track to the process that should
 * populate it; an empty tag keeps step and state tracks bindable while event
 * tracks always require an explicit match.
 */
type Track interface {
	ID() string
	Kind() TrackKind
	ProcessID() string

	Keyframes() []Keyframe
	ClearKeyframes()
	AddKeyframe(kf Keyframe)
}

/**
 * TimelineContext is the slice of a timeline host the binder consumes: the
 * shared duration and the current track registry. The host's playback clock
 * is not part of this contract, the binder never subscribes to it.
 */
type TimelineContext interface {
	Duration() float64
	GetTracks() map[string]Track
}

package runtime

import (
	"fmt"
	"sort"

	"github.com/juju/errors"
	log "github.com/sirupsen/logrus"

	"github.com/algowalk/algowalk/types"
	"github.com/algowalk/algowalk/utils"
)

/**
 * Binder compiles one full process run into timeline keyframes. It is
 * stateless across calls: each Bind resets the process, runs it to a
 * terminal state, distributes the step trace over every bound track and
 * resets the process again so downstream consumers can replay it at will.
 * Tracks not bound to the process by affinity tag are never touched.
 */
type Binder struct {
	opts *types.BindOptions
}

func NewBinder(opts ...types.BindOption) *Binder {
	options := types.NewBindOptions()
	for _, opt := range opts {
		opt(options)
	}
	return &Binder{opts: options}
}

func (b *Binder) Bind(tc types.TimelineContext, p types.Process) (*types.RunResult, error) {
	if tc == nil {
		return nil, errors.BadRequestf("timeline context is nil")
	}
	if p == nil {
		return nil, errors.BadRequestf("process is nil")
	}

	bound := boundTracks(tc, p.ID())

	p.Reset()
	result := p.Run(b.opts.MaxSteps)

	duration := tc.Duration()
	n := len(result.Steps)

	// existing keyframe times are inspected before any track is rewritten
	refTimes, exact := referenceTimes(n, duration, bound)

	for _, track := range bound {
		switch track.Kind() {
		case types.TrackKindStep:
			writeStepTrack(track, &result, refTimes)

		case types.TrackKindState:
			writeStateTrack(track, &result, refTimes)

		case types.TrackKindEvent:
			times := refTimes
			if !exact {
				times = allocateTimes(n, duration, usableTimes(track))
			}
			writeEventTrack(track, &result, times, duration)
		}
	}

	// leave the process idle for replay
	p.Reset()

	log.Debugf("%s bound %d steps onto %d tracks", p.ID(), n, len(bound))
	return &result, nil
}

func boundTracks(tc types.TimelineContext, processID string) []types.Track {
	tracks := tc.GetTracks()
	ids := make([]string, 0, len(tracks))
	for id := range tracks {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	bound := make([]types.Track, 0, len(ids))
	for _, id := range ids {
		if isBound(tracks[id], processID) {
			bound = append(bound, tracks[id])
		}
	}
	return bound
}

// isBound applies the affinity rule: a tagged track binds on an exact tag
// match; an untagged track stays compatible with step and state binding
// while event tracks always require an explicit, non-empty match.
func isBound(track types.Track, processID string) bool {
	if tag := track.ProcessID(); tag != "" {
		return tag == processID
	}
	return track.Kind() != types.TrackKindEvent
}

/**
 * referenceTimes computes the shared per-step times from the step/state
 * candidates. The second return reports whether some candidate matched the
 * step count exactly; only then do event tracks reuse these times, otherwise
 * each event track derives its own allocation from its own keyframes.
 */
func referenceTimes(n int, duration float64, bound []types.Track) ([]float64, bool) {
	if n == 0 {
		return nil, false
	}

	var anchors []float64
	for _, track := range bound {
		if track.Kind() == types.TrackKindEvent {
			continue
		}
		times := usableTimes(track)
		if len(times) == n {
			return allocateTimes(n, duration, times), true
		}
		if anchors == nil && len(times) >= 2 {
			anchors = times
		}
	}
	return allocateTimes(n, duration, anchors), false
}

func writeStepTrack(track types.Track, result *types.RunResult, times []float64) {
	track.ClearKeyframes()
	for i, step := range result.Steps {
		track.AddKeyframe(types.Keyframe{
			Time: times[i],
			Value: types.Data{
				"step":    step.Step,
				"label":   fmt.Sprintf("step %d", step.Step),
				"payload": utils.Clone(step.State),
			},
		})
	}
}

func writeStateTrack(track types.Track, result *types.RunResult, times []float64) {
	track.ClearKeyframes()

	if len(result.Steps) == 0 {
		// already terminal at reset, keep the track meaningful
		track.AddKeyframe(types.Keyframe{
			Time: 0,
			Value: types.Data{
				"state":   string(result.State),
				"trigger": "",
				"payload": types.Data{
					"metrics":      utils.Clone(result.Metrics),
					"failedReason": result.FailedReason,
				},
			},
		})
		return
	}

	for i, step := range result.Steps {
		trigger := ""
		if len(step.Events) > 0 {
			trigger = step.Events[0].Type
		}
		track.AddKeyframe(types.Keyframe{
			Time: times[i],
			Value: types.Data{
				"state":   stateName(i, len(result.Steps), step, result),
				"trigger": trigger,
				"payload": utils.Clone(step.State),
			},
		})
	}
}

// stateName implements the per-step naming policy: fail wins, then hit,
// then the run's terminal state on the last step, then running.
func stateName(i, n int, step types.StepResult, result *types.RunResult) string {
	for _, ev := range step.Events {
		if ev.Type == types.EventFail {
			return string(types.Failed)
		}
	}
	for _, ev := range step.Events {
		if ev.Type == types.EventHit {
			return types.EventHit
		}
	}
	if i == n-1 {
		return string(result.State)
	}
	return string(types.Running)
}

func writeEventTrack(track types.Track, result *types.RunResult, times []float64, duration float64) {
	track.ClearKeyframes()

	n := len(result.Steps)
	startTime, endTime := 0.0, duration
	if n > 0 {
		startTime, endTime = times[0], times[n-1]
	}

	// leading marker announcing the run start
	track.AddKeyframe(types.Keyframe{
		Time:  startTime,
		Value: types.Data{"event": string(types.Running)},
	})

	for i, step := range result.Steps {
		for _, ev := range step.Events {
			track.AddKeyframe(types.Keyframe{
				Time: times[i],
				Value: types.Data{
					"event":    ev.Type,
					"entityId": ev.EntityID,
					"payload":  utils.Clone(ev.Data),
				},
			})
		}
	}

	// trailing marker carrying the terminal state and final metrics
	track.AddKeyframe(types.Keyframe{
		Time: endTime,
		Value: types.Data{
			"event":        string(result.State),
			"failedReason": result.FailedReason,
			"metrics":      utils.Clone(result.Metrics),
		},
	})
}

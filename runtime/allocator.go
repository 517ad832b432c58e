package runtime

import (
	"math"
	"sort"

	"github.com/algowalk/algowalk/types"
)

/**
 * allocateTimes maps n steps onto [0, duration] given the usable keyframe
 * times of a candidate track, sorted ascending:
 *  - exactly n existing times are reused verbatim (clamped), preserving
 *    user-authored pacing across re-binds;
 *  - >= 2 existing times become start/end anchors with the steps spread
 *    linearly between them;
 *  - otherwise steps spread uniformly across the full duration;
 *  - a single step always collapses to one instant, the earliest anchor
 *    or zero.
 */
func allocateTimes(n int, duration float64, existing []float64) []float64 {
	if n <= 0 {
		return nil
	}

	if len(existing) == n {
		times := make([]float64, n)
		for i, t := range existing {
			times[i] = clampTime(t, duration)
		}
		return times
	}

	if n == 1 {
		if len(existing) > 0 {
			return []float64{clampTime(existing[0], duration)}
		}
		return []float64{0}
	}

	if len(existing) >= 2 {
		start := clampTime(existing[0], duration)
		end := clampTime(existing[len(existing)-1], duration)
		return lerpTimes(n, start, end)
	}

	return lerpTimes(n, 0, duration)
}

func lerpTimes(n int, start, end float64) []float64 {
	times := make([]float64, n)
	for i := 0; i < n; i++ {
		fraction := float64(i) / float64(n-1)
		times[i] = start + (end-start)*fraction
	}
	return times
}

func clampTime(t, duration float64) float64 {
	if t < 0 {
		return 0
	}
	if t > duration {
		return duration
	}
	return t
}

// usableTimes reads a track's existing keyframe times, dropping anything
// non-finite so a malformed keyframe degrades the allocation to uniform
// instead of poisoning it.
func usableTimes(track types.Track) []float64 {
	kfs := track.Keyframes()
	times := make([]float64, 0, len(kfs))
	for _, kf := range kfs {
		if math.IsNaN(kf.Time) || math.IsInf(kf.Time, 0) {
			continue
		}
		times = append(times, kf.Time)
	}
	sort.Float64s(times)
	return times
}

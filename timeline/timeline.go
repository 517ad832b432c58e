package timeline

import (
	"sync"

	"github.com/juju/errors"

	"github.com/algowalk/algowalk/types"
	"github.com/algowalk/algowalk/utils"
)

const (
	EventTick = "tick"
)

var (
	_ types.TimelineContext = &Timeline{}
)

type TickHandler func(time float64)

/**
 * Timeline is an in-memory timeline host: a track registry scoped to a
 * shared duration, plus a playback clock for renderer-style consumers.
 * The binder only reads Duration and GetTracks; advancing the clock is
 * entirely the host's affair.
 */
type Timeline struct {
	mu sync.Mutex

	duration float64
	time     float64

	tracks map[string]types.Track

	nextHandlerID int
	tickHandlers  map[int]TickHandler
}

func New(duration float64) *Timeline {
	return &Timeline{
		duration:     duration,
		tracks:       make(map[string]types.Track),
		tickHandlers: make(map[int]TickHandler),
	}
}

func (tl *Timeline) Duration() float64 {
	return tl.duration
}

func (tl *Timeline) AddTrack(t types.Track) error {
	tl.mu.Lock()
	defer tl.mu.Unlock()

	if _, exists := tl.tracks[t.ID()]; exists {
		return errors.AlreadyExistsf("track id: %s", t.ID())
	}
	tl.tracks[t.ID()] = t
	return nil
}

func (tl *Timeline) GetTrack(id string) (types.Track, bool) {
	tl.mu.Lock()
	defer tl.mu.Unlock()

	t, exists := tl.tracks[id]
	return t, exists
}

func (tl *Timeline) GetTracks() map[string]types.Track {
	tl.mu.Lock()
	defer tl.mu.Unlock()

	return utils.CloneMap(tl.tracks)
}

func (tl *Timeline) Time() float64 {
	tl.mu.Lock()
	defer tl.mu.Unlock()

	return tl.time
}

func (tl *Timeline) SetTime(t float64) {
	tl.mu.Lock()
	tl.time = clamp(t, 0, tl.duration)
	tl.mu.Unlock()

	tl.fireTick()
}

// Tick advances the playback clock by dt, clamped to the duration, and
// fires tick handlers synchronously.
func (tl *Timeline) Tick(dt float64) {
	tl.mu.Lock()
	tl.time = clamp(tl.time+dt, 0, tl.duration)
	tl.mu.Unlock()

	tl.fireTick()
}

func (tl *Timeline) On(event string, handler TickHandler) (cancel func()) {
	if event != EventTick || handler == nil {
		return func() {}
	}

	tl.mu.Lock()
	defer tl.mu.Unlock()

	id := tl.nextHandlerID
	tl.nextHandlerID++
	tl.tickHandlers[id] = handler

	return func() {
		tl.mu.Lock()
		defer tl.mu.Unlock()
		delete(tl.tickHandlers, id)
	}
}

func (tl *Timeline) fireTick() {
	tl.mu.Lock()
	now := tl.time
	handlers := make([]TickHandler, 0, len(tl.tickHandlers))
	for _, h := range tl.tickHandlers {
		handlers = append(handlers, h)
	}
	tl.mu.Unlock()

	for _, h := range handlers {
		h(now)
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

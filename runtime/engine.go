package runtime

import (
	"context"
	"sort"
	"sync"

	"github.com/gammazero/workerpool"
	"github.com/juju/errors"
	log "github.com/sirupsen/logrus"

	"github.com/algowalk/algowalk/store"
	"github.com/algowalk/algowalk/types"
)

var (
	_ types.Engine = &engine{}
)

func NewEngine(s store.Store, opts *types.EngineOptions) types.Engine {
	return &engine{
		store:     s,
		opts:      opts,
		binder:    NewBinder(types.SetMaxSteps(opts.MaxRunSteps)),
		wp:        workerpool.New(opts.MaxBindConcurrency),
		processes: make(map[string]types.Process),
		running:   true,
	}
}

type engine struct {
	mu      sync.Mutex
	running bool

	store  store.Store
	opts   *types.EngineOptions
	binder *Binder
	wp     *workerpool.WorkerPool

	processes map[string]types.Process
}

func (e *engine) RegisterProcess(p types.Process) error {
	if p == nil {
		return errors.BadRequestf("process is nil")
	}
	if p.ID() == "" {
		return errors.BadRequestf("process id is empty")
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.running {
		return errors.MethodNotAllowedf("not running")
	}
	if _, exists := e.processes[p.ID()]; exists {
		return errors.AlreadyExistsf("process id: %s", p.ID())
	}
	e.processes[p.ID()] = p
	return nil
}

func (e *engine) GetProcess(id string) (types.Process, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	p, exists := e.processes[id]
	return p, exists
}

func (e *engine) ListProcessIDs() ([]string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	ids := make([]string, 0, len(e.processes))
	for id := range e.processes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (e *engine) Bind(ctx context.Context, tc types.TimelineContext, processID string) (*types.RunResult, error) {
	if !e.isRunning() {
		return nil, errors.MethodNotAllowedf("not running")
	}
	p, exists := e.GetProcess(processID)
	if !exists {
		return nil, errors.NotFoundf("process id: %s", processID)
	}

	result, err := e.binder.Bind(tc, p)
	if err != nil {
		return nil, errors.Trace(err)
	}

	if err := e.saveRunRecord(ctx, processID, result); err != nil {
		log.Errorf("%s failed to save run record: %v", processID, err)
	}
	return result, nil
}

func (e *engine) BindAll(ctx context.Context, tc types.TimelineContext) (map[string]*types.RunResult, error) {
	ids, err := e.ListProcessIDs()
	if err != nil {
		return nil, errors.Trace(err)
	}

	var (
		resMu  sync.Mutex
		wg     sync.WaitGroup
		retErr error
	)
	results := make(map[string]*types.RunResult, len(ids))

	for _, id := range ids {
		id := id
		wg.Add(1)
		e.wp.Submit(func() {
			defer wg.Done()

			result, err := e.Bind(ctx, tc, id)

			resMu.Lock()
			defer resMu.Unlock()
			if err != nil {
				retErr = errors.Wrapf(retErr, err, "failed on %s", id)
				return
			}
			results[id] = result
		})
	}
	wg.Wait()

	return results, retErr
}

func (e *engine) isRunning() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.running
}

func (e *engine) Close(ctx context.Context) error {
	e.mu.Lock()
	if !e.running {
		e.mu.Unlock()
		return nil
	}
	e.running = false
	e.mu.Unlock()

	e.wp.StopWait()
	return nil
}

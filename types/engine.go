package types

import "context"

type Engine interface {
	RegisterProcess(p Process) error
	GetProcess(id string) (Process, bool)
	ListProcessIDs() ([]string, error)

	/**
	 * Bind runs the identified process to completion and rewrites every
	 * track of tc bound to it by affinity tag. The process is left idle
	 * afterwards so downstream consumers can replay it. The run record is
	 * persisted to the engine store keyed by process ID.
	 */
	Bind(ctx context.Context, tc TimelineContext, processID string) (*RunResult, error)
	/**
	 * BindAll binds every registered process against tc. Bindings run
	 * concurrently over distinct process instances; processes sharing an
	 * untagged track should not be bound through BindAll, the last
	 * binding to finish owns such a track.
	 */
	BindAll(ctx context.Context, tc TimelineContext) (map[string]*RunResult, error)

	/**
	 * GetRunRecord loads the persisted result of the last binding run of
	 * the identified process.
	 */
	GetRunRecord(ctx context.Context, processID string) (*RunResult, error)

	SaveSnapshot(ctx context.Context, processID string) error
	RestoreSnapshot(ctx context.Context, processID string) error
	ListSnapshots(ctx context.Context) ([]string, error)
	RemoveSnapshot(ctx context.Context, processID string) error

	/**
	 * RenderProcess will return the DOT string describing the process
	 * graph and its traversal progress. Only processes exposing a graph
	 * structure (e.g. the breadth-first traversal) can be rendered.
	 */
	RenderProcess(processID string) (string, error)

	Close(ctx context.Context) error
}

package runtime

import (
	"context"

	"github.com/juju/errors"

	"github.com/algowalk/algowalk/types"
	"github.com/algowalk/algowalk/utils"
)

const (
	SnapshotPath  = "/snapshot/"
	RunRecordPath = "/run/"
)

func (e *engine) saveRunRecord(ctx context.Context, processID string, result *types.RunResult) error {
	b, err := utils.Serialize(result)
	if err != nil {
		return errors.Trace(err)
	}
	return errors.Trace(e.store.Set(ctx, RunRecordPath, processID, b))
}

func (e *engine) GetRunRecord(ctx context.Context, processID string) (*types.RunResult, error) {
	b, err := e.store.Get(ctx, RunRecordPath, processID)
	if err != nil {
		return nil, errors.Trace(err)
	}
	if b == nil {
		return nil, errors.NotFoundf("run record: %s", processID)
	}

	result := &types.RunResult{}
	if err := utils.Unserialize(b, result); err != nil {
		return nil, errors.Trace(err)
	}
	return result, nil
}

func (e *engine) SaveSnapshot(ctx context.Context, processID string) error {
	p, exists := e.GetProcess(processID)
	if !exists {
		return errors.NotFoundf("process id: %s", processID)
	}

	snapshot, err := p.GetSnapshot()
	if err != nil {
		return errors.Trace(err)
	}
	b, err := utils.Serialize(snapshot)
	if err != nil {
		return errors.Trace(err)
	}

	return errors.Trace(e.store.Set(ctx, SnapshotPath, processID, b))
}

func (e *engine) RestoreSnapshot(ctx context.Context, processID string) error {
	p, exists := e.GetProcess(processID)
	if !exists {
		return errors.NotFoundf("process id: %s", processID)
	}

	b, err := e.store.Get(ctx, SnapshotPath, processID)
	if err != nil {
		return errors.Trace(err)
	}
	if b == nil {
		return errors.NotFoundf("snapshot: %s", processID)
	}

	snapshot := &types.Snapshot{}
	if err := utils.Unserialize(b, snapshot); err != nil {
		return errors.Trace(err)
	}
	return errors.Trace(p.RestoreSnapshot(*snapshot))
}

func (e *engine) ListSnapshots(ctx context.Context) ([]string, error) {
	ids := make([]string, 0)
	err := e.store.List(ctx, SnapshotPath, func(key string) bool {
		ids = append(ids, key)
		return true
	})
	return ids, errors.Trace(err)
}

func (e *engine) RemoveSnapshot(ctx context.Context, processID string) error {
	return errors.Trace(e.store.Remove(ctx, SnapshotPath, processID))
}

package runtime

import (
	"github.com/gammazero/deque"
	"github.com/juju/errors"

	"github.com/algowalk/algowalk/types"
	"github.com/algowalk/algowalk/utils"
)

/**
 * bfsSnapshotState is the serialized payload behind types.Snapshot.Data.
 * The visited set is not stored, it is exactly the traversal order. The
 * config is carried so restore can re-normalize it and recompute the
 * reachability-derived TotalSteps instead of trusting surface fields.
 */
type bfsSnapshotState struct {
	Config       *traversalConfig `json:"config,omitempty"`
	InitErr      string           `json:"initErr,omitempty"`
	FailedReason string           `json:"failedReason,omitempty"`

	Frontier       []string          `json:"frontier"`
	DepthByNode    map[string]int    `json:"depthByNode"`
	ParentByNode   map[string]string `json:"parentByNode"`
	TraversalOrder []string          `json:"traversalOrder"`
	TerminalPath   []string          `json:"terminalPath,omitempty"`
}

// GetSnapshot deep-copies through JSON, so the returned snapshot shares no
// structure with the live instance. Safe between any two Step calls.
func (p *bfsProcess) GetSnapshot() (types.Snapshot, error) {
	state := &bfsSnapshotState{
		Config:         p.cfg,
		InitErr:        p.initErr,
		FailedReason:   p.failedReason,
		Frontier:       p.FrontierNodes(),
		DepthByNode:    p.depthByNode,
		ParentByNode:   p.parentByNode,
		TraversalOrder: p.traversalOrder,
		TerminalPath:   p.terminalPath,
	}

	b, err := utils.Serialize(state)
	if err != nil {
		return types.Snapshot{}, errors.Annotatef(err, "serialize snapshot of %s", p.id)
	}

	return types.Snapshot{
		State:       p.state,
		CurrentStep: p.currentStep,
		Data:        b,
	}, nil
}

func (p *bfsProcess) RestoreSnapshot(snapshot types.Snapshot) error {
	state := &bfsSnapshotState{}
	if err := utils.Unserialize(snapshot.Data, state); err != nil {
		return errors.Annotatef(err, "unserialize snapshot of %s", p.id)
	}

	if state.Config != nil {
		normalized, reason := normalizeConfig(state.Config.StartNodeID,
			state.Config.TargetNodeID, state.Config.Adjacency)
		if reason != "" {
			return errors.Errorf("snapshot config: %s", reason)
		}
		p.cfg = normalized
	} else {
		p.cfg = nil
	}

	p.initErr = state.InitErr
	p.state = snapshot.State
	p.failedReason = state.FailedReason
	p.currentStep = snapshot.CurrentStep

	p.totalSteps = 0
	if p.cfg != nil {
		p.totalSteps = p.countReachable()
	}

	p.frontier = deque.New[string]()
	for _, node := range state.Frontier {
		p.frontier.PushBack(node)
	}

	p.visited = make(map[string]bool, len(state.TraversalOrder))
	for _, node := range state.TraversalOrder {
		p.visited[node] = true
	}
	p.traversalOrder = state.TraversalOrder

	p.depthByNode = state.DepthByNode
	if p.depthByNode == nil {
		p.depthByNode = make(map[string]int)
	}
	p.parentByNode = state.ParentByNode
	if p.parentByNode == nil {
		p.parentByNode = make(map[string]string)
	}
	p.terminalPath = state.TerminalPath

	return nil
}

package runtime

import (
	"testing"

	"github.com/algowalk/algowalk/types"
	"github.com/stretchr/testify/assert"
)

func diamondConfig(target string) types.Data {
	cfg := types.Data{}
	cfg.Set("startNodeId", "A")
	if target != "" {
		cfg.Set("targetNodeId", target)
	}
	cfg.Set("adjacency", map[string][]string{
		"A": {"B", "C"},
		"B": {"D"},
		"C": {"D"},
		"D": {},
	})
	return cfg
}

func chainConfig(nodes ...string) types.Data {
	adjacency := make(map[string][]string)
	for i := 0; i < len(nodes)-1; i++ {
		adjacency[nodes[i]] = []string{nodes[i+1]}
	}
	adjacency[nodes[len(nodes)-1]] = []string{}

	cfg := types.Data{}
	cfg.Set("startNodeId", nodes[0])
	cfg.Set("adjacency", adjacency)
	return cfg
}

func visitedNodes(result types.RunResult) []string {
	order := make([]string, 0, len(result.Steps))
	for _, step := range result.Steps {
		for _, ev := range step.Events {
			if ev.Type == types.EventVisit {
				order = append(order, ev.EntityID)
			}
		}
	}
	return order
}

func TestTraversalWithoutTarget(t *testing.T) {
	p := NewBFSProcess("bfs-1")
	p.Init(diamondConfig(""))

	assert.Equal(t, types.Idle, p.State())
	assert.Equal(t, 4, p.TotalSteps())

	result := p.Run(0)
	assert.Equal(t, types.Completed, result.State)
	assert.Equal(t, "", result.FailedReason)
	assert.Len(t, result.Steps, 4)
	assert.Equal(t, []string{"A", "B", "C", "D"}, visitedNodes(result))

	// depths carried on visit events: A:0 B:1 C:1 D:2
	wantDepth := []int{0, 1, 1, 2}
	for i, step := range result.Steps {
		assert.Equal(t, i, step.Step)
		assert.Equal(t, types.EventVisit, step.Events[0].Type)
		depth, _ := step.Events[0].Data.GetInt("depth")
		assert.Equal(t, wantDepth[i], depth)
	}

	// the last step detects exhaustion in the same call
	last := result.Steps[3]
	complete := last.Events[len(last.Events)-1]
	assert.Equal(t, types.EventComplete, complete.Type)
	reason, _ := complete.Data.GetString("reason")
	assert.Equal(t, types.ReasonFrontierExhausted, reason)

	assert.Equal(t, 4.0, result.Metrics["visited"])
	assert.Equal(t, 2.0, result.Metrics["maxDepth"])
	assert.Equal(t, 0.0, result.Metrics["frontier"])
}

func TestTraversalWithTarget(t *testing.T) {
	p := NewBFSProcess("bfs-1")
	p.Init(diamondConfig("D"))

	// totalSteps is target-independent
	assert.Equal(t, 4, p.TotalSteps())

	result := p.Run(0)
	assert.Equal(t, types.Completed, result.State)
	// B is discovered before C, so B is D's recorded parent and the
	// target is reached on the third step
	assert.Len(t, result.Steps, 3)
	assert.Equal(t, []string{"A", "B", "D"}, visitedNodes(result))

	last := result.Steps[2]
	var hit *types.ProcessEvent
	for i := range last.Events {
		if last.Events[i].Type == types.EventHit {
			hit = &last.Events[i]
		}
	}
	assert.NotNil(t, hit)
	assert.Equal(t, "D", hit.EntityID)
	path, _ := hit.Data.GetStringSlice("path")
	assert.Equal(t, []string{"A", "B", "D"}, path)

	reason, _ := last.Events[len(last.Events)-1].Data.GetString("reason")
	assert.Equal(t, types.ReasonTargetReached, reason)

	// path length = depth of target + 1
	assert.Equal(t, 3.0, result.Metrics["pathLength"])
}

func TestDeterminism(t *testing.T) {
	p := NewBFSProcess("bfs-1")
	p.Init(diamondConfig("D"))
	first := p.Run(0)

	p.Reset()
	second := p.Run(0)

	assert.Equal(t, first.Steps, second.Steps)
	assert.Equal(t, first.State, second.State)
	assert.Equal(t, first.Metrics, second.Metrics)
}

func TestVisitedOnceInCycle(t *testing.T) {
	cfg := types.Data{}
	cfg.Set("startNodeId", "A")
	cfg.Set("adjacency", map[string][]string{
		"A": {"B"},
		"B": {"A", "C"},
		"C": {"A"},
	})

	p := NewBFSProcess("bfs-1")
	p.Init(cfg)
	assert.Equal(t, 3, p.TotalSteps())

	result := p.Run(0)
	assert.Equal(t, types.Completed, result.State)

	seen := make(map[string]int)
	for _, node := range visitedNodes(result) {
		seen[node]++
	}
	for node, count := range seen {
		assert.Equal(t, 1, count, "node %s visited more than once", node)
	}
	assert.Len(t, seen, 3)
}

func TestDuplicateNeighborsNormalized(t *testing.T) {
	cfg := types.Data{}
	cfg.Set("startNodeId", "A")
	cfg.Set("adjacency", map[string][]string{
		"A": {"B", "B", "C", "B"},
	})

	p := NewBFSProcess("bfs-1")
	p.Init(cfg)

	result := p.Run(0)
	assert.Len(t, result.Steps, 3)

	expands := make([]string, 0)
	for _, ev := range result.Steps[0].Events {
		if ev.Type == types.EventExpand {
			expands = append(expands, ev.EntityID)
		}
	}
	assert.Equal(t, []string{"B", "C"}, expands)
}

func TestDirectedAdjacency(t *testing.T) {
	// B appears only as A's neighbor; that must not imply B -> A
	cfg := types.Data{}
	cfg.Set("startNodeId", "B")
	cfg.Set("adjacency", map[string][]string{
		"A": {"B"},
	})

	p := NewBFSProcess("bfs-1")
	p.Init(cfg)
	assert.Equal(t, types.Idle, p.State())
	assert.Equal(t, 1, p.TotalSteps())

	result := p.Run(0)
	assert.Equal(t, types.Completed, result.State)
	assert.Equal(t, []string{"B"}, visitedNodes(result))
}

func TestUnreachableTarget(t *testing.T) {
	cfg := diamondConfig("Z")

	p := NewBFSProcess("bfs-1")
	p.Init(cfg)

	result := p.Run(0)
	assert.Equal(t, types.Completed, result.State)
	assert.Len(t, result.Steps, 4)

	last := result.Steps[3]
	reason, _ := last.Events[len(last.Events)-1].Data.GetString("reason")
	assert.Equal(t, types.ReasonFrontierExhausted, reason)
}

func TestSingleNodeCompletesInOneStep(t *testing.T) {
	cfg := types.Data{}
	cfg.Set("startNodeId", "A")
	cfg.Set("adjacency", map[string][]string{"A": {}})

	p := NewBFSProcess("bfs-1")
	p.Init(cfg)
	assert.Equal(t, 1, p.TotalSteps())

	res := p.Step()
	assert.Equal(t, 0, res.Step)
	assert.Equal(t, types.Completed, p.State())
	assert.Equal(t, types.EventVisit, res.Events[0].Type)
	assert.Equal(t, types.EventComplete, res.Events[len(res.Events)-1].Type)
}

func TestTerminalStepIsNoop(t *testing.T) {
	p := NewBFSProcess("bfs-1")
	p.Init(diamondConfig(""))
	p.Run(0)

	assert.Equal(t, types.Completed, p.State())
	before := p.CurrentStep()

	res := p.Step()
	assert.Equal(t, before, res.Step)
	assert.Equal(t, before, p.CurrentStep())
	assert.Empty(t, res.Events)
	assert.Equal(t, types.Completed, p.State())
}

func TestUninitializedProcessFails(t *testing.T) {
	p := NewBFSProcess("bfs-1")

	assert.Equal(t, types.Failed, p.State())
	assert.Equal(t, "process is not initialized", p.FailedReason())

	// metrics stay safe in any state
	assert.Equal(t, 0.0, p.GetMetrics()["visited"])

	result := p.Run(0)
	assert.Equal(t, types.Failed, result.State)
	assert.Empty(t, result.Steps)
	assert.Equal(t, "process is not initialized", result.FailedReason)
}

func TestInitValidation(t *testing.T) {
	p := NewBFSProcess("bfs-1")

	cfg := types.Data{}
	cfg.Set("adjacency", map[string][]string{"A": {}})
	p.Init(cfg)
	assert.Equal(t, types.Failed, p.State())
	assert.Equal(t, "missing startNodeId", p.FailedReason())

	cfg = types.Data{}
	cfg.Set("startNodeId", "A")
	p.Init(cfg)
	assert.Equal(t, types.Failed, p.State())
	assert.Equal(t, "missing adjacency", p.FailedReason())

	p.Init(nil)
	assert.Equal(t, types.Failed, p.State())
	assert.Equal(t, "missing config", p.FailedReason())

	// the failure reason survives Reset until the next Init
	p.Reset()
	assert.Equal(t, "missing config", p.FailedReason())

	// a valid Init recovers the instance
	p.Init(diamondConfig(""))
	assert.Equal(t, types.Idle, p.State())
}

func TestStartNodeWithoutAdjacencyEntry(t *testing.T) {
	cfg := types.Data{}
	cfg.Set("startNodeId", "X")
	cfg.Set("adjacency", map[string][]string{"A": {"B"}})

	p := NewBFSProcess("bfs-1")
	p.Init(cfg)
	assert.Equal(t, types.Idle, p.State())
	assert.Equal(t, 1, p.TotalSteps())
}

func TestRunStepCap(t *testing.T) {
	p := NewBFSProcess("bfs-1")
	p.Init(chainConfig("A", "B", "C", "D", "E"))

	result := p.Run(2)
	assert.Equal(t, types.Failed, result.State)
	assert.Equal(t, "exceeded max run steps (2)", result.FailedReason)

	// two real steps plus the failing one
	assert.Len(t, result.Steps, 3)
	last := result.Steps[2]
	assert.Equal(t, types.EventFail, last.Events[0].Type)
	reason, _ := last.Events[0].Data.GetString("reason")
	assert.Equal(t, "exceeded max run steps (2)", reason)

	// failed is absorbing until reset
	res := p.Step()
	assert.Empty(t, res.Events)
	assert.Equal(t, types.Failed, p.State())

	p.Reset()
	assert.Equal(t, types.Idle, p.State())
	result = p.Run(0)
	assert.Equal(t, types.Completed, result.State)
	assert.Len(t, result.Steps, 5)
}

func TestStateTransitions(t *testing.T) {
	p := NewBFSProcess("bfs-1")
	p.Init(diamondConfig(""))

	assert.Equal(t, types.Idle, p.State())
	p.Step()
	assert.Equal(t, types.Running, p.State())
	p.Step()
	p.Step()
	p.Step()
	assert.Equal(t, types.Completed, p.State())
	assert.Equal(t, 4, p.CurrentStep())
}

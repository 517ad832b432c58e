package runtime

import (
	"fmt"

	"github.com/gammazero/deque"
	log "github.com/sirupsen/logrus"

	"github.com/algowalk/algowalk/types"
	"github.com/algowalk/algowalk/utils"
)

var (
	_ types.Process = &bfsProcess{}
)

/**
 * traversalConfig is the normalized adjacency configuration. Adjacency is
 * strictly directed: a node appearing only as someone's neighbor gets an
 * empty entry, never an implied back edge. Neighbor lists are de-duplicated
 * preserving their given order, which is also the expansion tie-break order.
 */
type traversalConfig struct {
	StartNodeID  string              `json:"startNodeId"`
	TargetNodeID string              `json:"targetNodeId,omitempty"`
	Adjacency    map[string][]string `json:"adjacency"`
}

func normalizeConfig(start, target string, adjacency map[string][]string) (*traversalConfig, string) {
	if start == "" {
		return nil, "missing startNodeId"
	}
	if adjacency == nil {
		return nil, "missing adjacency"
	}

	norm := make(map[string][]string, len(adjacency))
	for node, neighbors := range adjacency {
		norm[node] = utils.UniqueSlice(append([]string(nil), neighbors...))
	}
	for _, neighbors := range norm {
		for _, neighbor := range neighbors {
			if _, exists := norm[neighbor]; !exists {
				norm[neighbor] = []string{}
			}
		}
	}
	if _, exists := norm[start]; !exists {
		norm[start] = []string{}
	}

	return &traversalConfig{StartNodeID: start, TargetNodeID: target, Adjacency: norm}, ""
}

/**
 * bfsProcess runs a breadth-first search one dequeued node per step.
 * Neighbors are enqueued once at first discovery; the frontier is pruned of
 * visited entries lazily at the head instead of being filtered eagerly, so
 * enqueue stays O(1). Once the target is discovered it jumps to the front of
 * the queue, which is why a run against a reachable target ends as soon as
 * the target's discovery depth is reached rather than after draining the
 * whole level.
 *
 * One instance must never be stepped from two goroutines, per the Process
 * contract.
 */
type bfsProcess struct {
	id string

	cfg     *traversalConfig
	initErr string

	state        types.ProcessState
	failedReason string
	currentStep  int
	totalSteps   int

	frontier       *deque.Deque[string]
	visited        map[string]bool
	depthByNode    map[string]int
	parentByNode   map[string]string
	traversalOrder []string
	terminalPath   []string
}

func NewBFSProcess(id string) types.Process {
	p := &bfsProcess{id: id}
	p.Reset()
	return p
}

func (p *bfsProcess) ID() string {
	return p.id
}

func (p *bfsProcess) State() types.ProcessState {
	return p.state
}

func (p *bfsProcess) CurrentStep() int {
	return p.currentStep
}

func (p *bfsProcess) TotalSteps() int {
	return p.totalSteps
}

func (p *bfsProcess) FailedReason() string {
	return p.failedReason
}

/**
 * Init validates and normalizes the adjacency configuration, then resets.
 * A missing or invalid config does not return an error: the following Reset
 * lands in the failed state with a readable reason, so callers inspect
 * State/FailedReason uniformly.
 */
func (p *bfsProcess) Init(cfg types.Data) {
	p.cfg = nil
	p.initErr = ""

	if cfg == nil {
		p.initErr = "missing config"
		p.Reset()
		return
	}

	start, _ := cfg.GetString("startNodeId")
	target, _ := cfg.GetString("targetNodeId")

	var adjacency map[string][]string
	if _, exists := cfg.Get("adjacency"); exists {
		if err := cfg.GetStruct("adjacency", &adjacency); err != nil {
			p.initErr = "invalid adjacency"
			p.Reset()
			return
		}
	}

	normalized, reason := normalizeConfig(start, target, adjacency)
	if reason != "" {
		p.initErr = reason
		p.Reset()
		return
	}

	p.cfg = normalized
	p.Reset()
}

func (p *bfsProcess) Reset() {
	p.currentStep = 0
	p.traversalOrder = nil
	p.terminalPath = nil
	p.visited = make(map[string]bool)
	p.depthByNode = make(map[string]int)
	p.parentByNode = make(map[string]string)
	p.frontier = deque.New[string]()
	p.failedReason = ""

	if p.cfg == nil {
		p.state = types.Failed
		p.failedReason = p.initErr
		if p.failedReason == "" {
			p.failedReason = "process is not initialized"
		}
		p.totalSteps = 0
		return
	}

	p.state = types.Idle
	p.frontier.PushBack(p.cfg.StartNodeID)
	p.depthByNode[p.cfg.StartNodeID] = 0
	p.totalSteps = p.countReachable()
}

// countReachable is a pure pre-pass from the start node, independent of any
// target; it fixes TotalSteps for the whole run.
func (p *bfsProcess) countReachable() int {
	seen := map[string]bool{p.cfg.StartNodeID: true}
	queue := []string{p.cfg.StartNodeID}

	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		for _, neighbor := range p.cfg.Adjacency[node] {
			if seen[neighbor] {
				continue
			}
			seen[neighbor] = true
			queue = append(queue, neighbor)
		}
	}
	return len(seen)
}

func (p *bfsProcess) Step() types.StepResult {
	if p.state.Terminal() {
		return types.StepResult{Step: p.currentStep, Metrics: p.GetMetrics()}
	}
	if p.state == types.Idle {
		p.state = types.Running
	}

	p.pruneFrontier()
	if p.frontier.Len() == 0 {
		// only reachable through a restored snapshot captured mid-prune
		p.state = types.Completed
		res := types.StepResult{
			Step:    p.currentStep,
			State:   p.stepStateData("", 0),
			Metrics: p.GetMetrics(),
			Events:  []types.ProcessEvent{completeEvent(types.ReasonFrontierExhausted)},
		}
		p.currentStep++
		return res
	}

	node := p.frontier.PopFront()
	depth := p.depthByNode[node]
	p.visited[node] = true
	p.traversalOrder = append(p.traversalOrder, node)

	events := []types.ProcessEvent{{
		Type:     types.EventVisit,
		EntityID: node,
		Data:     types.Data{"depth": depth},
	}}

	if p.cfg.TargetNodeID != "" && node == p.cfg.TargetNodeID {
		p.terminalPath = p.reconstructPath(node)
		events = append(events, types.ProcessEvent{
			Type:     types.EventHit,
			EntityID: node,
			Data:     types.Data{"path": utils.Clone(p.terminalPath)},
		})
		events = append(events, completeEvent(types.ReasonTargetReached))
		p.state = types.Completed
	} else {
		events = append(events, p.expand(node, depth)...)
		p.pruneFrontier()
		if p.frontier.Len() == 0 {
			events = append(events, completeEvent(types.ReasonFrontierExhausted))
			p.state = types.Completed
		}
	}

	res := types.StepResult{
		Step:    p.currentStep,
		State:   p.stepStateData(node, depth),
		Metrics: p.GetMetrics(),
		Events:  events,
	}
	p.currentStep++

	log.Debugf("%s step %d visited %s at depth %d", p.id, res.Step, node, depth)
	return res
}

func (p *bfsProcess) expand(node string, depth int) []types.ProcessEvent {
	events := make([]types.ProcessEvent, 0)
	for _, neighbor := range p.cfg.Adjacency[node] {
		if _, discovered := p.depthByNode[neighbor]; discovered {
			// already visited or already queued, no event
			continue
		}
		p.depthByNode[neighbor] = depth + 1
		p.parentByNode[neighbor] = node

		if p.cfg.TargetNodeID != "" && neighbor == p.cfg.TargetNodeID {
			// the target jumps the queue once discovered
			p.frontier.PushFront(neighbor)
		} else {
			p.frontier.PushBack(neighbor)
		}

		events = append(events, types.ProcessEvent{
			Type:     types.EventExpand,
			EntityID: neighbor,
			Data:     types.Data{"from": node, "depth": depth + 1},
		})
	}
	return events
}

func (p *bfsProcess) pruneFrontier() {
	for p.frontier.Len() > 0 && p.visited[p.frontier.Front()] {
		p.frontier.PopFront()
	}
}

func (p *bfsProcess) reconstructPath(node string) []string {
	path := []string{node}
	for {
		parent, exists := p.parentByNode[node]
		if !exists {
			break
		}
		path = append(path, parent)
		node = parent
	}
	return utils.ReverseSlice(path)
}

/**
 * Run steps until a terminal state or until maxSteps is exceeded; exceeding
 * the cap is a failed outcome naming the cap, never a silent truncation.
 * maxSteps <= 0 means no cap. Callers needing mid-run interruption drive
 * Step themselves instead.
 */
func (p *bfsProcess) Run(maxSteps int) types.RunResult {
	steps := make([]types.StepResult, 0, p.totalSteps)
	for !p.state.Terminal() {
		if maxSteps > 0 && len(steps) >= maxSteps {
			p.state = types.Failed
			p.failedReason = fmt.Sprintf("exceeded max run steps (%d)", maxSteps)

			res := types.StepResult{
				Step:    p.currentStep,
				State:   p.stepStateData("", 0),
				Metrics: p.GetMetrics(),
				Events: []types.ProcessEvent{{
					Type: types.EventFail,
					Data: types.Data{"reason": p.failedReason},
				}},
			}
			p.currentStep++
			steps = append(steps, res)
			break
		}

		before := p.currentStep
		res := p.Step()
		if p.currentStep > before {
			steps = append(steps, res)
		}
	}

	return types.RunResult{
		State:        p.state,
		Steps:        steps,
		Metrics:      p.GetMetrics(),
		FailedReason: p.failedReason,
	}
}

// GetMetrics is pure and safe in any state, including idle and failed.
func (p *bfsProcess) GetMetrics() map[string]float64 {
	maxDepth := 0
	for _, node := range p.traversalOrder {
		if d := p.depthByNode[node]; d > maxDepth {
			maxDepth = d
		}
	}
	pathLength := len(p.terminalPath)
	if p.terminalPath == nil {
		pathLength = len(p.traversalOrder)
	}
	frontierLen := 0
	if p.frontier != nil {
		frontierLen = p.frontier.Len()
	}

	return map[string]float64{
		"visited":    float64(len(p.visited)),
		"frontier":   float64(frontierLen),
		"maxDepth":   float64(maxDepth),
		"pathLength": float64(pathLength),
	}
}

func (p *bfsProcess) stepStateData(node string, depth int) types.Data {
	path := p.terminalPath
	if path == nil {
		path = p.traversalOrder
	}
	return types.Data{
		"node":           node,
		"depth":          depth,
		"traversalOrder": utils.Clone(p.traversalOrder),
		"path":           utils.Clone(path),
	}
}

func completeEvent(reason string) types.ProcessEvent {
	return types.ProcessEvent{
		Type: types.EventComplete,
		Data: types.Data{"reason": reason},
	}
}

// graph introspection used by the DOT renderer

func (p *bfsProcess) StartNodeID() string {
	if p.cfg == nil {
		return ""
	}
	return p.cfg.StartNodeID
}

func (p *bfsProcess) TargetNodeID() string {
	if p.cfg == nil {
		return ""
	}
	return p.cfg.TargetNodeID
}

func (p *bfsProcess) Adjacency() map[string][]string {
	if p.cfg == nil {
		return nil
	}
	return utils.Clone(p.cfg.Adjacency)
}

func (p *bfsProcess) TraversalOrder() []string {
	return utils.Clone(p.traversalOrder)
}

func (p *bfsProcess) FrontierNodes() []string {
	if p.frontier == nil {
		return nil
	}
	nodes := make([]string, 0, p.frontier.Len())
	for i := 0; i < p.frontier.Len(); i++ {
		nodes = append(nodes, p.frontier.At(i))
	}
	return nodes
}

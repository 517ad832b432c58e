package runtime

import (
	"fmt"
	"sort"
	"strings"

	"github.com/juju/errors"
)

// graphProcess is the introspection surface a process must expose to be
// rendered; the breadth-first traversal implements it.
type graphProcess interface {
	StartNodeID() string
	TargetNodeID() string
	Adjacency() map[string][]string
	TraversalOrder() []string
	FrontierNodes() []string
}

func (e *engine) RenderProcess(processID string) (string, error) {
	p, exists := e.GetProcess(processID)
	if !exists {
		return "", errors.NotFoundf("process id: %s", processID)
	}
	gp, ok := p.(graphProcess)
	if !ok {
		return "", errors.NotSupportedf("process %s does not expose a graph", processID)
	}

	renderer := newGraphRenderer()
	return renderer.generateDOT(processID, gp), nil
}

func newGraphRenderer() *graphRenderer {
	return &graphRenderer{&strings.Builder{}}
}

type graphRenderer struct {
	sb *strings.Builder
}

func (r *graphRenderer) generateDOT(name string, gp graphProcess) string {
	adjacency := gp.Adjacency()

	visitIndex := make(map[string]int)
	for i, node := range gp.TraversalOrder() {
		visitIndex[node] = i
	}
	queued := make(map[string]bool)
	for _, node := range gp.FrontierNodes() {
		queued[node] = true
	}

	nodes := make([]string, 0, len(adjacency))
	for node := range adjacency {
		nodes = append(nodes, node)
	}
	sort.Strings(nodes)

	r.write("digraph D {")
	for _, node := range nodes {
		r.drawNode(node, gp, visitIndex, queued)
	}
	for _, node := range nodes {
		for _, neighbor := range adjacency[node] {
			r.write("%s -> %s", idString(node), idString(neighbor))
		}
	}
	r.write("label=%s", quoteString(name))
	r.write("}")
	return r.sb.String()
}

func (r *graphRenderer) drawNode(node string, gp graphProcess, visitIndex map[string]int, queued map[string]bool) {
	shape := "record"
	if node == gp.TargetNodeID() {
		shape = "diamond"
	}

	color := "white"
	attr := ""
	if i, visited := visitIndex[node]; visited {
		color = "green"
		attr = fmt.Sprintf(" comment=\"visited #%d\"", i)
	} else if queued[node] {
		color = "yellow"
	}
	if node == gp.StartNodeID() {
		attr += " penwidth=\"2\""
	}

	r.write("%s [label=%s shape=\"%s\" style=\"filled\" color=\"%s\"%s]",
		idString(node), quoteString(node), shape, color, attr)
}

func (r *graphRenderer) write(format string, s ...any) {
	r.sb.WriteString(fmt.Sprintf(format+"\n", s...))
}

func quoteString(s string) string {
	return "\"" + strings.ReplaceAll(s, "\"", "\\\"") + "\""
}

var idleChars = []string{" ", "'", "\"", "(", ")", "*", "&", "^", "%", "$", "#", "@", "!", "?", "<", ">", "[", "]", "{", "}", "."}

func idString(s string) string {
	for _, ch := range idleChars {
		s = strings.ReplaceAll(s, ch, "_")
	}
	return s
}

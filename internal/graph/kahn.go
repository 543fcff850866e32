package graph

import (
	"container/list"
	"fmt"
	"sort"
	"strings"
)

// ProcessingQueue wraps a list-based FIFO queue of type names.
type ProcessingQueue struct {
	queue *list.List
}

// NewProcessingQueue creates a new empty processing queue.
func NewProcessingQueue() *ProcessingQueue {
	return &ProcessingQueue{
		queue: list.New(),
	}
}

// InitializeQueue creates a processing queue populated with all nodes
// that have in-degree of 0, in sorted order.
func (g *Graph) InitializeQueue(inDegree map[string]int) *ProcessingQueue {
	pq := NewProcessingQueue()
	for _, name := range g.GetZeroInDegreeNodes(inDegree) {
		pq.Enqueue(name)
	}
	return pq
}

// Enqueue adds a node to the back of the queue.
func (pq *ProcessingQueue) Enqueue(node string) {
	pq.queue.PushBack(node)
}

// Dequeue removes and returns the node at the front of the queue.
// Returns empty string and false if queue is empty.
func (pq *ProcessingQueue) Dequeue() (string, bool) {
	if pq.queue.Len() == 0 {
		return "", false
	}
	elem := pq.queue.Front()
	pq.queue.Remove(elem)
	return elem.Value.(string), true
}

// Len returns the number of nodes in the queue.
func (pq *ProcessingQueue) Len() int {
	return pq.queue.Len()
}

// IsEmpty returns true if the queue has no nodes.
func (pq *ProcessingQueue) IsEmpty() bool {
	return pq.queue.Len() == 0
}

// CalculateInDegrees computes the number of incoming edges for each node.
func (g *Graph) CalculateInDegrees() map[string]int {
	inDegree := make(map[string]int)

	// Initialize all nodes with 0
	for name := range g.Nodes {
		inDegree[name] = 0
	}

	for _, children := range g.Children {
		for _, child := range children {
			inDegree[child]++
		}
	}

	return inDegree
}

// GetZeroInDegreeNodes returns the sorted nodes with in-degree of 0.
func (g *Graph) GetZeroInDegreeNodes(inDegree map[string]int) []string {
	var nodes []string
	for name, degree := range inDegree {
		if degree == 0 {
			nodes = append(nodes, name)
		}
	}
	sort.Strings(nodes)
	return nodes
}

// Reachable returns every type reachable from the given starting types,
// including the starting types themselves, in breadth-first order.
func (g *Graph) Reachable(from ...string) []string {
	queue := NewProcessingQueue()
	visited := make(map[string]bool)
	for _, name := range from {
		if g.HasNode(name) && !visited[name] {
			visited[name] = true
			queue.Enqueue(name)
		}
	}

	var order []string
	for !queue.IsEmpty() {
		node, _ := queue.Dequeue()
		order = append(order, node)

		for _, child := range g.GetChildren(node) {
			if !visited[child] {
				visited[child] = true
				queue.Enqueue(child)
			}
		}
	}
	return order
}

// Unreachable returns the sorted types that cannot be reached from a root
// operation type or a directive argument.
func (g *Graph) Unreachable() []string {
	reached := make(map[string]bool)
	for _, name := range g.Reachable(append(append([]string(nil), g.Roots...), g.Entries...)...) {
		reached[name] = true
	}

	var unreachable []string
	for _, name := range g.AllNodes() {
		if !reached[name] {
			unreachable = append(unreachable, name)
		}
	}
	return unreachable
}

// CycleInfo describes the reference cycles found in a graph.
type CycleInfo struct {
	TotalNodes        int        // Total number of nodes in the graph
	ProcessedNodes    int        // Nodes outside any cycle and not downstream of one
	UnprocessedNodes  []string   // Nodes in or downstream of a cycle
	CycleParticipants []string   // Nodes that are part of a cycle (subset of UnprocessedNodes)
	Cycles            [][]string // One path per cycle, e.g. [A, B, A]
}

// CycleError reports reference cycles for callers that require an acyclic schema.
type CycleError struct {
	Info *CycleInfo
}

// Error lists the cycles and the number of affected types.
func (e *CycleError) Error() string {
	msg := fmt.Sprintf("schema contains %d reference cycle(s) across %d of %d types",
		len(e.Info.Cycles), len(e.Info.CycleParticipants), e.Info.TotalNodes)
	for _, cycle := range e.Info.Cycles {
		msg += fmt.Sprintf("\nCycle path: %s", strings.Join(cycle, " -> "))
	}
	return msg
}

// DetectIncompleteProcessing runs Kahn's algorithm and returns information
// about the nodes it could not order. A nil result means the graph is acyclic.
// Reference cycles are common in GraphQL schemas, so this is a diagnostic,
// not a failure.
func (g *Graph) DetectIncompleteProcessing() *CycleInfo {
	inDegree := g.CalculateInDegrees()
	queue := g.InitializeQueue(inDegree)

	processed := make(map[string]bool)

	for !queue.IsEmpty() {
		node, _ := queue.Dequeue()
		processed[node] = true

		for _, child := range g.GetChildren(node) {
			inDegree[child]--
			if inDegree[child] == 0 {
				queue.Enqueue(child)
			}
		}
	}

	if len(processed) == len(g.Nodes) {
		return nil
	}

	var unprocessed []string
	unprocessedSet := make(map[string]bool)
	for _, name := range g.AllNodes() {
		if !processed[name] {
			unprocessed = append(unprocessed, name)
			unprocessedSet[name] = true
		}
	}

	var participants []string
	participantSet := make(map[string]bool)
	for _, node := range unprocessed {
		if g.canReachSelf(node, unprocessedSet) {
			participants = append(participants, node)
			participantSet[node] = true
		}
	}

	// one representative path per group of participants
	var cycles [][]string
	covered := make(map[string]bool)
	for _, node := range participants {
		if covered[node] {
			continue
		}
		path := g.FindCyclePath(node, participantSet)
		for _, n := range path {
			covered[n] = true
		}
		if path != nil {
			cycles = append(cycles, path)
		}
	}

	return &CycleInfo{
		TotalNodes:        len(g.Nodes),
		ProcessedNodes:    len(processed),
		UnprocessedNodes:  unprocessed,
		CycleParticipants: participants,
		Cycles:            cycles,
	}
}

// HasCycle returns true if the graph contains a reference cycle.
func (g *Graph) HasCycle() bool {
	return g.DetectIncompleteProcessing() != nil
}

// FindCyclePath finds a path that leaves start and returns to it, using only
// allowedNodes. The start node appears at both ends; nil means no cycle.
func (g *Graph) FindCyclePath(start string, allowedNodes map[string]bool) []string {
	visited := make(map[string]bool)
	path := []string{start}

	if g.dfsFindPath(start, start, visited, allowedNodes, &path) {
		return path
	}

	return nil
}

// dfsFindPath performs DFS to find a path back to the target node.
func (g *Graph) dfsFindPath(current, target string, visited, allowedNodes map[string]bool, path *[]string) bool {
	for _, child := range g.GetChildren(current) {
		if !allowedNodes[child] {
			continue
		}

		if child == target {
			*path = append(*path, target)
			return true
		}

		if visited[child] {
			continue
		}

		visited[child] = true
		*path = append(*path, child)

		if g.dfsFindPath(child, target, visited, allowedNodes, path) {
			return true
		}

		// Backtrack
		*path = (*path)[:len(*path)-1]
	}

	return false
}

// canReachSelf checks if a node can reach itself through the subgraph
// defined by the allowedNodes set.
func (g *Graph) canReachSelf(start string, allowedNodes map[string]bool) bool {
	visited := make(map[string]bool)
	return g.dfsCanReach(start, start, visited, allowedNodes, true)
}

// dfsCanReach performs DFS to check if we can reach the target node.
// isStart is true only for the initial call to avoid immediate self-match.
func (g *Graph) dfsCanReach(current, target string, visited, allowedNodes map[string]bool, isStart bool) bool {
	if current == target && !isStart {
		return true
	}

	if visited[current] {
		return false
	}
	if !allowedNodes[current] {
		return false
	}

	visited[current] = true

	for _, child := range g.GetChildren(current) {
		if g.dfsCanReach(child, target, visited, allowedNodes, false) {
			return true
		}
	}

	return false
}

// Validate returns a CycleError when the graph contains reference cycles.
func (g *Graph) Validate() error {
	if info := g.DetectIncompleteProcessing(); info != nil {
		return &CycleError{Info: info}
	}
	return nil
}

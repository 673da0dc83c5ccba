package algo

import (
	"container/heap"
	"sync"

	"github.com/elektrokombinacija/mapf-core/internal/core"
	"go.uber.org/zap"
)

// RRAStar is a Reverse Resumable A*: a single best-first search run
// backward from one goal node, shared by every forward search that needs
// "distance from node to goal" estimates for that goal. Each call to
// Estimate resumes the backward search only as far as it needs to reach
// node, and caches every distance it discovers along the way, so the
// cost of answering many queries against the same goal is amortised
// across them instead of paid per query.
//
// RRAStar is safe for concurrent use: SIPP/L-SIPP searches for different
// agents sharing a goal, or CBS's parallel sibling replanning, may all
// call Estimate on the same *RRAStar concurrently.
type RRAStar struct {
	ts    core.TransitionSystem
	goal  core.NodeID
	guide core.Heuristic
	log   *zap.Logger

	queueMu sync.Mutex
	queue   nodeHeap

	distMu sync.RWMutex
	dist   map[core.NodeID]core.Duration

	closedMu sync.RWMutex
	closed   map[core.NodeID]bool
}

// NewRRAStar builds an RRA* heuristic answering "distance to goal" for
// ts. guide is an admissible heuristic used only to order the backward
// search's own expansions (it is evaluated on forward distance-to-goal
// estimates, which is a valid admissible guide for the backward search
// whenever the domain's cost structure is symmetric, the common case for
// grids and road networks); pass core.ZeroHeuristic{} to fall back to
// plain Dijkstra ordering. logger may be nil.
func NewRRAStar(ts core.TransitionSystem, goal core.NodeID, guide core.Heuristic, logger *zap.Logger) *RRAStar {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &RRAStar{
		ts:     ts,
		goal:   goal,
		guide:  guide,
		log:    logger,
		dist:   make(map[core.NodeID]core.Duration),
		closed: make(map[core.NodeID]bool),
	}
	heap.Push(&r.queue, &searchNode{node: goal, g: 0, h: guide.Estimate(goal)})
	r.dist[goal] = 0
	return r
}

// NewRRAStarForTask builds an RRA* heuristic for task by reversing it
// (Start and Goal swapped) and searching backward from the reversed
// task's Start, which is task's real Goal — this mirrors how the
// originating research code seeds each agent's heuristic from its
// reversed task.
func NewRRAStarForTask(ts core.TransitionSystem, task core.Task, builder core.HeuristicBuilder, logger *zap.Logger) *RRAStar {
	if builder == nil {
		builder = func(core.Task) core.Heuristic { return core.ZeroHeuristic{} }
	}
	rev := task.Reverse()
	return NewRRAStar(ts, rev.Start, builder(task), logger)
}

// Estimate returns the shortest-path cost from node to the heuristic's
// goal, or core.Unreachable if no such path exists.
func (r *RRAStar) Estimate(node core.NodeID) core.Duration {
	if node == r.goal {
		return 0
	}
	if r.isClosed(node) {
		if d, ok := r.tryDistance(node); ok {
			return d
		}
	}
	return r.findPath(node)
}

func (r *RRAStar) tryDistance(node core.NodeID) (core.Duration, bool) {
	r.distMu.RLock()
	defer r.distMu.RUnlock()
	d, ok := r.dist[node]
	return d, ok
}

func (r *RRAStar) isClosed(node core.NodeID) bool {
	r.closedMu.RLock()
	defer r.closedMu.RUnlock()
	return r.closed[node]
}

// findPath resumes the backward search. Double-checked locking: a reader
// first checks whether node has already been closed by another
// goroutine without taking the queue lock at all; only a miss pays for
// exclusive access to the shared queue.
func (r *RRAStar) findPath(node core.NodeID) core.Duration {
	if r.isClosed(node) {
		if d, ok := r.tryDistance(node); ok {
			return d
		}
		return core.Unreachable
	}

	r.queueMu.Lock()
	defer r.queueMu.Unlock()

	if r.isClosed(node) {
		if d, ok := r.tryDistance(node); ok {
			return d
		}
		return core.Unreachable
	}

	for r.queue.Len() > 0 {
		current := heap.Pop(&r.queue).(*searchNode)
		if r.isClosed(current.node) {
			continue
		}
		r.setClosed(current.node)
		r.log.Debug("rra* expand", zap.Int("node", int(current.node)), zap.Float64("g", float64(current.g)))

		found := current.node == node

		for _, edge := range r.ts.ReverseActionsFrom(current.node) {
			from, ok := r.ts.ReverseTransition(current.node, edge)
			if !ok || r.isClosed(from) {
				continue
			}
			cost := r.ts.ReverseTransitionCost(current.node, edge)
			g := current.g + cost
			if existing, ok := r.tryDistance(from); ok && existing <= g {
				continue
			}
			r.setDistance(from, g)
			heap.Push(&r.queue, &searchNode{node: from, g: g, h: r.guide.Estimate(from)})
		}

		if found {
			d, _ := r.tryDistance(node)
			return d
		}
	}

	if d, ok := r.tryDistance(node); ok {
		return d
	}
	return core.Unreachable
}

func (r *RRAStar) setDistance(node core.NodeID, d core.Duration) {
	r.distMu.Lock()
	r.dist[node] = d
	r.distMu.Unlock()
}

func (r *RRAStar) setClosed(node core.NodeID) {
	r.closedMu.Lock()
	r.closed[node] = true
	r.closedMu.Unlock()
}

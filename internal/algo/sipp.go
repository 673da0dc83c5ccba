package algo

import (
	"container/heap"

	"github.com/elektrokombinacija/mapf-core/internal/core"
)

// sippNode is one (node, safe interval) pair on the open/closed lists of
// a Safe Interval Path Planning search, together with the earliest
// arrival time achieved within that interval and a parent pointer for
// reconstruction. Landmark chaining (see lsipp.go) seeds a fresh
// search's frontier with parent pointers reaching back into the
// previous segment's terminal nodes, so a single parent walk from any
// final node reconstructs the whole multi-segment path.
type sippNode struct {
	node     core.NodeID
	interval core.Interval
	arrival  core.Time
	h        core.Duration
	viaEdge  core.EdgeID
	hasEdge  bool
	parent   *sippNode
	index    int
}

func (n *sippNode) g() core.Duration { return core.Duration(n.arrival) }
func (n *sippNode) f() core.Duration { return n.g() + n.h }

type sippHeap []*sippNode

func (h sippHeap) Len() int { return len(h) }
func (h sippHeap) Less(i, j int) bool {
	if h[i].f() != h[j].f() {
		return h[i].f() < h[j].f()
	}
	return h[i].g() > h[j].g()
}
func (h sippHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}
func (h *sippHeap) Push(x any) {
	n := x.(*sippNode)
	n.index = len(*h)
	*h = append(*h, n)
}
func (h *sippHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	old[n-1] = nil
	*h = old[0 : n-1]
	return x
}

type sippStateKey struct {
	node     core.NodeID
	interval core.Interval
}

// sippSearch runs a safe-interval best-first search from the states in
// frontier (already-seeded sippNodes, possibly carrying a parent chain
// from a previous landmark segment) until isGoal reports true for a
// popped node. If singlePath is true the search stops and returns that
// one node; otherwise it keeps draining the queue, collecting every
// distinct (node, interval) goal state it reaches, to hand the caller a
// Pareto frontier of terminal states for the next landmark segment.
func sippSearch(
	ts core.TransitionSystem,
	agent core.AgentID,
	frontier []*sippNode,
	isGoal func(core.NodeID, core.Interval, core.Time) bool,
	constraints *core.ConstraintSet,
	heuristic core.Heuristic,
	singlePath bool,
) []*sippNode {
	open := &sippHeap{}
	heap.Init(open)
	dist := make(map[sippStateKey]core.Time)

	for _, n := range frontier {
		n.h = heuristic.Estimate(n.node)
		key := sippStateKey{n.node, n.interval}
		if best, ok := dist[key]; ok && best <= n.arrival {
			continue
		}
		dist[key] = n.arrival
		heap.Push(open, n)
	}

	closed := make(map[sippStateKey]bool)
	var results []*sippNode

	for open.Len() > 0 {
		current := heap.Pop(open).(*sippNode)
		key := sippStateKey{current.node, current.interval}
		if closed[key] {
			continue
		}
		closed[key] = true

		if isGoal(current.node, current.interval, current.arrival) {
			results = append(results, current)
			if singlePath {
				return results
			}
			continue
		}

		for _, edge := range ts.ActionsFrom(current.node) {
			to, ok := ts.Transition(current.node, edge)
			if !ok {
				continue
			}
			h := heuristic.Estimate(to)
			if h >= core.Unreachable {
				continue
			}
			edgeCost := ts.TransitionCost(current.node, edge)

			for _, iv := range constraints.SafeIntervals(agent, to) {
				arr := current.arrival.Add(edgeCost)
				if arr.After(iv.End) {
					continue
				}
				if arr.Before(iv.Start) {
					// Depart later so as to arrive exactly at iv.Start, but
					// only if waiting is allowed at this node at all, and
					// the wait fits inside the current safe interval.
					if !ts.CanWaitAt(current.node) {
						continue
					}
					wait := iv.Start.Sub(arr)
					if current.arrival.Add(wait).After(current.interval.End) {
						continue
					}
					arr = iv.Start
				}

				if blocked, bumped := bumpPastActionConflicts(constraints, agent, edge, arr.Add(-edgeCost), arr, iv); blocked {
					continue
				} else {
					arr = bumped
				}

				if arr.After(iv.End) {
					continue
				}
				// A bump delays departure as well; that wait needs the same
				// permission and must still end inside the current safe interval.
				if depart := arr.Add(-edgeCost); depart.After(current.arrival) {
					if !ts.CanWaitAt(current.node) || depart.After(current.interval.End) {
						continue
					}
				}

				toKey := sippStateKey{to, iv}
				if best, ok := dist[toKey]; ok && best <= arr {
					continue
				}
				dist[toKey] = arr

				heap.Push(open, &sippNode{
					node:     to,
					interval: iv,
					arrival:  arr,
					h:        h,
					viaEdge:  edge,
					hasEdge:  true,
					parent:   current,
				})
			}
		}
	}

	return results
}

// bumpPastActionConflicts pushes a prospective arrival time forward past
// any interval during which edge is forbidden for agent, re-checking the
// destination safe interval's bound each time, looping until either a
// clear departure/arrival pair is found or the candidate interval is
// exceeded. A transit departing exactly at a forbidden interval's End
// counts as clear of it, the same boundary SafeIntervals uses.
func bumpPastActionConflicts(cs *core.ConstraintSet, agent core.AgentID, edge core.EdgeID, depart, arrive core.Time, iv core.Interval) (blocked bool, resolved core.Time) {
	duration := arrive.Sub(depart)
	for {
		moved := false
		for _, forbidden := range cs.ActionForbiddenIntervals(agent, edge) {
			transit := core.Interval{Start: depart, End: arrive}
			if !transit.Overlaps(forbidden) || depart == forbidden.End {
				continue
			}
			depart = forbidden.End
			arrive = depart.Add(duration)
			moved = true
		}
		if !moved {
			return false, arrive
		}
		if arrive.After(iv.End) {
			return true, arrive
		}
	}
}

// SolvePointToPoint runs a single-segment SIPP search from start (at
// startTime) to goal, returning the shortest conflict-free path under
// constraints, or ok=false if none exists.
func SolvePointToPoint(
	ts core.TransitionSystem,
	agent core.AgentID,
	start core.NodeID,
	startTime core.Time,
	goal core.NodeID,
	constraints *core.ConstraintSet,
	heuristic core.Heuristic,
) (core.Path, bool) {
	startIntervals := constraints.SafeIntervals(agent, start)
	startIv := core.FullInterval()
	for _, iv := range startIntervals {
		if iv.Contains(startTime) {
			startIv = iv
			break
		}
	}

	root := &sippNode{node: start, interval: startIv, arrival: startTime}
	isGoal := func(node core.NodeID, _ core.Interval, _ core.Time) bool { return node == goal }

	results := sippSearch(ts, agent, []*sippNode{root}, isGoal, constraints, heuristic, true)
	if len(results) == 0 {
		return core.Path{}, false
	}
	return reconstructSippPath(agent, results[0]), true
}

func reconstructSippPath(agent core.AgentID, terminal *sippNode) core.Path {
	var steps []core.Step
	for n := terminal; n != nil; n = n.parent {
		steps = append([]core.Step{{Node: n.node, Time: n.arrival, Via: n.viaEdge, HasVia: n.hasEdge}}, steps...)
	}
	var cost core.Duration
	if len(steps) > 0 {
		cost = steps[len(steps)-1].Time.Sub(steps[0].Time)
	}
	return core.Path{Agent: agent, Steps: steps, Cost: cost}
}

package algo

import "github.com/elektrokombinacija/mapf-core/internal/core"

// SolveWithLandmarks runs Safe Interval Path Planning With Landmarks: it
// chains a point-to-point SIPP search through every landmark in
// task.Landmarks, in order, before finishing at task.Goal. Between
// segments it carries forward every Pareto-optimal terminal state of the
// previous segment (one per distinct arrival safe interval) rather than
// collapsing early to a single path, so a landmark reached slightly
// later but leaving more slack for the next segment is not discarded
// just because it cost a little more to reach.
func SolveWithLandmarks(
	ts core.TransitionSystem,
	task core.Task,
	constraints *core.ConstraintSet,
	heuristic core.Heuristic,
) (core.Path, bool) {
	if len(task.Landmarks) == 0 {
		return SolvePointToPoint(ts, task.Agent, task.Start, task.InitialTime, task.Goal, constraints, heuristic)
	}

	startIv := startingInterval(constraints, task.Agent, task.Start, task.InitialTime)
	frontier := []*sippNode{{node: task.Start, interval: startIv, arrival: task.InitialTime}}

	// Each intermediate segment searches toward a different target than
	// the task's final Goal, so the caller-supplied heuristic (built for
	// the final goal) is not an admissible bound for it; core.ZeroHeuristic
	// keeps every intermediate segment exact, falling back to plain
	// Dijkstra ordering rather than risking an inadmissible guide.
	for _, lm := range task.Landmarks {
		isGoal := landmarkGoalTest(lm)

		next := sippSearch(ts, task.Agent, frontier, isGoal, constraints, core.ZeroHeuristic{}, false)
		if len(next) == 0 {
			return core.Path{}, false
		}
		frontier = bestPerState(next)
	}

	isGoal := func(node core.NodeID, _ core.Interval, _ core.Time) bool { return node == task.Goal }
	results := sippSearch(ts, task.Agent, frontier, isGoal, constraints, heuristic, false)
	if len(results) == 0 {
		return core.Path{}, false
	}

	best := results[0]
	for _, n := range results[1:] {
		if n.arrival.Before(best.arrival) {
			best = n
		}
	}
	return reconstructSippPath(task.Agent, best), true
}

func startingInterval(cs *core.ConstraintSet, agent core.AgentID, node core.NodeID, t core.Time) core.Interval {
	for _, iv := range cs.SafeIntervals(agent, node) {
		if iv.Contains(t) {
			return iv
		}
	}
	return core.FullInterval()
}

// landmarkGoalTest builds the goal predicate for one landmark: the node
// must match, and if the landmark carries a non-zero Interval the
// arrival time must fall within it.
func landmarkGoalTest(lm core.Landmark) func(core.NodeID, core.Interval, core.Time) bool {
	return func(node core.NodeID, _ core.Interval, arrival core.Time) bool {
		if node != lm.Node {
			return false
		}
		if lm.Interval.IsZero() {
			return true
		}
		return lm.Interval.Contains(arrival)
	}
}

// bestPerState keeps, for each distinct (node, interval) terminal state,
// only the node with the earliest arrival — sippSearch already
// deduplicates within a single search, but chaining multiple incoming
// frontier states through the same next segment can rediscover the same
// state via different parents.
func bestPerState(nodes []*sippNode) []*sippNode {
	best := make(map[sippStateKey]*sippNode, len(nodes))
	for _, n := range nodes {
		key := sippStateKey{n.node, n.interval}
		if cur, ok := best[key]; !ok || n.arrival.Before(cur.arrival) {
			best[key] = n
		}
	}
	out := make([]*sippNode, 0, len(best))
	for _, n := range best {
		out = append(out, n)
	}
	return out
}

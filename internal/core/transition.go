package core

import "math"

// Unreachable is the Heuristic/TransitionSystem sentinel for "no path
// exists", kept well below MaxTime so that Cost+Unreachable still
// compares sanely without overflowing.
const Unreachable Duration = Duration(math.MaxFloat64 / 4)

// TransitionSystem is the single boundary between the planning stack
// (RRA*, SIPP, L-SIPP, CBS, the lifelong orchestrator) and a concrete
// domain: a graph, a grid, a road network, anything with nodes and
// directed, costed, time-respecting actions between them. None of the
// planning stack depends on a concrete graph representation; it only
// ever calls through this interface.
//
// Implementations are expected to be read-only and safe for concurrent
// use: RRA*'s cache and CBS's parallel sibling replanning both call a
// single shared TransitionSystem from multiple goroutines.
type TransitionSystem interface {
	// ActionsFrom returns every edge that can be taken starting at node.
	ActionsFrom(node NodeID) []EdgeID
	// ReverseActionsFrom returns every edge that, when reversed, arrives
	// at node — i.e. the in-edges of node, used by RRA*'s backward search.
	ReverseActionsFrom(node NodeID) []EdgeID

	// Transition returns the node edge leads to when departing from.
	Transition(from NodeID, edge EdgeID) (NodeID, bool)
	// ReverseTransition returns the node edge would have departed from,
	// given that it arrives at to.
	ReverseTransition(to NodeID, edge EdgeID) (NodeID, bool)

	// TransitionCost returns how long traversing edge from "from" takes.
	TransitionCost(from NodeID, edge EdgeID) Duration
	// ReverseTransitionCost must equal TransitionCost for the same edge;
	// it is provided separately because some domains only know an edge's
	// cost from one endpoint (e.g. asymmetric travel times).
	ReverseTransitionCost(to NodeID, edge EdgeID) Duration

	// CanWaitAt reports whether an agent may stay at node for an
	// arbitrary duration without moving (false for e.g. a narrow corridor
	// cell that must be vacated immediately).
	CanWaitAt(node NodeID) bool

	// Conflict reports whether Moves a and b (belonging to different
	// agents) interfere, and classifies/costs the interference if so.
	Conflict(a, b Move) (Conflict, bool)
	// GetConstraint derives the Constraint that should be imposed on
	// agent to resolve conflict, when agent is the one being constrained
	// in a given CBS branch.
	GetConstraint(conflict Conflict, agent AgentID) Constraint
}

// Heuristic estimates the remaining cost from node to whatever goal the
// Heuristic was built for. It must be admissible (never overestimate)
// for RRA*'s results, and anything built on top of them, to stay
// optimal. Estimate returns Unreachable if no path exists.
type Heuristic interface {
	Estimate(node NodeID) Duration
}

// HeuristicBuilder constructs a fresh, task-specific fallback Heuristic,
// e.g. a straight-line or grid-Manhattan estimator parameterised by the
// task's goal. RRA* itself satisfies the Heuristic interface and is
// normally preferred; HeuristicBuilder exists for callers — the lifelong
// orchestrator in particular — that need an admissible estimate before
// or instead of running a reverse search, so that no heuristic state is
// ever shared mutable global state across tasks.
type HeuristicBuilder func(task Task) Heuristic

// ZeroHeuristic is the trivial admissible (but uninformative) Heuristic,
// used as the default HeuristicBuilder when the caller has nothing
// better, matching Dijkstra behaviour.
type ZeroHeuristic struct{}

func (ZeroHeuristic) Estimate(NodeID) Duration { return 0 }

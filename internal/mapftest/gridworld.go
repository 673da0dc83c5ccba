// Package mapftest provides a minimal grid-world TransitionSystem, used
// only by tests and the demo command. It is deliberately the simplest
// possible implementer of core.TransitionSystem: a 4-connected grid with
// unit-cost edges, unbounded waiting, and the textbook vertex/edge-swap
// conflict rule. Production transition systems (road networks, warehouse
// layouts, airspace corridors) are the caller's responsibility — the
// planning stack never assumes a grid.
package mapftest

import "github.com/elektrokombinacija/mapf-core/internal/core"

type edgeDef struct {
	from, to core.NodeID
	cost     core.Duration
}

// GridWorld is a width x height 4-connected grid, node (x,y) numbered
// y*width+x.
type GridWorld struct {
	Width, Height int

	edges   []edgeDef
	outEdge map[core.NodeID][]core.EdgeID
	inEdge  map[core.NodeID][]core.EdgeID
}

// NewGrid builds a width x height grid with every cell connected to its
// (up to four) orthogonal neighbours by a unit-cost edge in each
// direction.
func NewGrid(width, height int) *GridWorld {
	g := &GridWorld{
		Width:   width,
		Height:  height,
		outEdge: make(map[core.NodeID][]core.EdgeID),
		inEdge:  make(map[core.NodeID][]core.EdgeID),
	}
	node := func(x, y int) core.NodeID { return core.NodeID(y*width + x) }

	addEdge := func(from, to core.NodeID) {
		id := core.EdgeID(len(g.edges))
		g.edges = append(g.edges, edgeDef{from: from, to: to, cost: 1})
		g.outEdge[from] = append(g.outEdge[from], id)
		g.inEdge[to] = append(g.inEdge[to], id)
	}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			from := node(x, y)
			if x+1 < width {
				addEdge(from, node(x+1, y))
				addEdge(node(x+1, y), from)
			}
			if y+1 < height {
				addEdge(from, node(x, y+1))
				addEdge(node(x, y+1), from)
			}
		}
	}
	return g
}

// Node returns the NodeID of grid cell (x, y).
func (g *GridWorld) Node(x, y int) core.NodeID {
	return core.NodeID(y*g.Width + x)
}

func (g *GridWorld) ActionsFrom(node core.NodeID) []core.EdgeID {
	return g.outEdge[node]
}

func (g *GridWorld) ReverseActionsFrom(node core.NodeID) []core.EdgeID {
	return g.inEdge[node]
}

func (g *GridWorld) Transition(from core.NodeID, edge core.EdgeID) (core.NodeID, bool) {
	e := g.edges[edge]
	if e.from != from {
		return 0, false
	}
	return e.to, true
}

func (g *GridWorld) ReverseTransition(to core.NodeID, edge core.EdgeID) (core.NodeID, bool) {
	e := g.edges[edge]
	if e.to != to {
		return 0, false
	}
	return e.from, true
}

func (g *GridWorld) TransitionCost(core.NodeID, core.EdgeID) core.Duration        { return 1 }
func (g *GridWorld) ReverseTransitionCost(core.NodeID, core.EdgeID) core.Duration { return 1 }

func (g *GridWorld) CanWaitAt(core.NodeID) bool { return true }

// Conflict implements the textbook vertex/edge-swap rule: two moves by
// different agents conflict if their intervals overlap and they either
// arrive at the same node, or swap the two endpoints of the same edge.
func (g *GridWorld) Conflict(a, b core.Move) (core.Conflict, bool) {
	if a.Agent == b.Agent || !a.Interval.Overlaps(b.Interval) {
		return core.Conflict{}, false
	}
	vertex := a.To == b.To
	swap := a.From == b.To && a.To == b.From
	if !vertex && !swap {
		return core.Conflict{}, false
	}
	return core.Conflict{A: a, B: b, Kind: core.NonCardinal}, true
}

// GetConstraint constrains whichever side of the conflict belongs to
// agent, for the union of the two moves' intervals: for a vertex conflict
// it forbids occupying the shared destination node, for a swap it forbids
// taking the same edge.
func (g *GridWorld) GetConstraint(conflict core.Conflict, agent core.AgentID) core.Constraint {
	mine, other := conflict.A, conflict.B
	if agent == conflict.B.Agent {
		mine, other = conflict.B, conflict.A
	}
	span := unionInterval(mine.Interval, other.Interval)

	if mine.To == other.To {
		return core.NewStateConstraint(agent, mine.To, span)
	}
	return core.NewActionConstraint(agent, mine.Action, span)
}

func unionInterval(a, b core.Interval) core.Interval {
	start := a.Start
	if b.Start.Before(start) {
		start = b.Start
	}
	end := a.End
	if b.End.After(end) {
		end = b.End
	}
	return core.Interval{Start: start, End: end}
}

// ManhattanHeuristic is an admissible Heuristic on a GridWorld, estimating
// remaining cost to goal as Manhattan distance scaled by the grid's unit
// edge cost.
type ManhattanHeuristic struct {
	Grid *GridWorld
	Goal core.NodeID
}

func (h ManhattanHeuristic) Estimate(node core.NodeID) core.Duration {
	gx, gy := int(h.Goal)%h.Grid.Width, int(h.Goal)/h.Grid.Width
	nx, ny := int(node)%h.Grid.Width, int(node)/h.Grid.Width
	dx, dy := gx-nx, gy-ny
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	return core.Duration(dx + dy)
}

package algo

import (
	"context"
	"testing"

	"github.com/elektrokombinacija/mapf-core/internal/core"
	"github.com/elektrokombinacija/mapf-core/internal/mapftest"
)

func buildHeuristics(grid *mapftest.GridWorld, tasks []core.Task) map[core.AgentID]core.Heuristic {
	h := make(map[core.AgentID]core.Heuristic, len(tasks))
	for _, task := range tasks {
		h[task.Agent] = mapftest.ManhattanHeuristic{Grid: grid, Goal: task.Goal}
	}
	return h
}

// TestCBSHeadOnSwapIsResolved mirrors the originating research code's
// lifelong swap-pair scenario: two agents on a single row, one headed
// each direction, must not pass through each other; on a 3x3 grid one of
// them can step around the other through an adjacent row, so CBS must
// return a conflict-free joint solution.
func TestCBSHeadOnSwapIsResolved(t *testing.T) {
	grid := mapftest.NewGrid(3, 3)
	tasks := []core.Task{
		{Agent: 1, Start: grid.Node(0, 1), Goal: grid.Node(2, 1)},
		{Agent: 2, Start: grid.Node(2, 1), Goal: grid.Node(0, 1)},
	}
	cbs := NewCBS(grid, buildHeuristics(grid, tasks), CBSConfig{})

	solution, err := cbs.Solve(context.Background(), tasks, nil)
	if err != nil {
		t.Fatalf("Solve returned error: %v", err)
	}
	assertNoConflicts(t, grid, solution)
}

func TestCBSFrozenAgentIsNotReplanned(t *testing.T) {
	grid := mapftest.NewGrid(3, 3)
	frozenPath := core.Path{
		Agent: 1,
		Steps: []core.Step{
			{Node: grid.Node(1, 0), Time: 0},
			{Node: grid.Node(1, 1), Time: 1},
			{Node: grid.Node(1, 2), Time: 2},
		},
		Cost: 2,
	}
	tasks := []core.Task{
		{Agent: 2, Start: grid.Node(0, 1), Goal: grid.Node(2, 1)},
	}
	cbs := NewCBS(grid, buildHeuristics(grid, tasks), CBSConfig{})

	solution, err := cbs.Solve(context.Background(), tasks, map[core.AgentID]core.Path{1: frozenPath})
	if err != nil {
		t.Fatalf("Solve returned error: %v", err)
	}
	if got := solution.Paths[1]; len(got.Steps) != len(frozenPath.Steps) {
		t.Fatalf("frozen agent's path changed: %+v", got)
	}
	assertNoConflicts(t, grid, solution)
}

func TestCBSIdleAgentCostsNothing(t *testing.T) {
	grid := mapftest.NewGrid(4, 4)
	tasks := []core.Task{
		{Agent: 1, Start: grid.Node(0, 0), Goal: grid.Node(3, 3)},
		core.IdleTask(2, grid.Node(1, 1)),
	}
	cbs := NewCBS(grid, buildHeuristics(grid, tasks), CBSConfig{})

	solution, err := cbs.Solve(context.Background(), tasks, nil)
	if err != nil {
		t.Fatalf("Solve returned error: %v", err)
	}
	if solution.Paths[2].Cost != 0 {
		t.Fatalf("idle agent cost = %v, want 0", solution.Paths[2].Cost)
	}
}

// TestCBSClassifiesHeadOnCorridorConflictAsCardinal exercises a single
// row with no detour available: two agents walking straight at each
// other must each pay a cost increase in every candidate resolution, so
// the conflict CBS branches on at the root must classify as Cardinal.
func TestCBSClassifiesHeadOnCorridorConflictAsCardinal(t *testing.T) {
	grid := mapftest.NewGrid(3, 1)
	tasks := []core.Task{
		{Agent: 1, Start: grid.Node(0, 0), Goal: grid.Node(2, 0)},
		{Agent: 2, Start: grid.Node(2, 0), Goal: grid.Node(0, 0)},
	}
	cbs := NewCBS(grid, buildHeuristics(grid, tasks), CBSConfig{})

	root, err := cbs.buildRoot(context.Background(), tasks, nil)
	if err != nil {
		t.Fatalf("buildRoot returned error: %v", err)
	}

	conflict, children, found, err := cbs.branch(context.Background(), root)
	if err != nil {
		t.Fatalf("branch returned error: %v", err)
	}
	if !found {
		t.Fatal("expected a conflict at the root of a head-on corridor")
	}
	if conflict.Kind != core.Cardinal {
		t.Fatalf("conflict kind = %v, want Cardinal", conflict.Kind)
	}
	if conflict.Overcost <= 0 {
		t.Fatalf("overcost = %v, want > 0", conflict.Overcost)
	}
	for _, child := range children {
		if !child.hasViaConflict || child.viaConflict.Kind != core.Cardinal {
			t.Fatalf("child missing its classified via-conflict: %+v", child.viaConflict)
		}
	}
}

func assertNoConflicts(t *testing.T, ts core.TransitionSystem, solution *core.Solution) {
	t.Helper()
	agents := make([]core.AgentID, 0, len(solution.Paths))
	for a := range solution.Paths {
		agents = append(agents, a)
	}
	for i := 0; i < len(agents); i++ {
		for j := i + 1; j < len(agents); j++ {
			for _, ma := range solution.Paths[agents[i]].Moves() {
				for _, mb := range solution.Paths[agents[j]].Moves() {
					if _, ok := ts.Conflict(ma, mb); ok {
						t.Fatalf("unresolved conflict between agent %d and %d: %+v / %+v", agents[i], agents[j], ma, mb)
					}
				}
			}
		}
	}
}

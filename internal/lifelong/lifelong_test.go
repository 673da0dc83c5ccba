package lifelong

import (
	"context"
	"testing"

	"github.com/elektrokombinacija/mapf-core/internal/algo"
	"github.com/elektrokombinacija/mapf-core/internal/core"
	"github.com/elektrokombinacija/mapf-core/internal/mapftest"
)

// TestLifelongSwapScenario mirrors the originating research code's
// lifelong test_simple: three agents on a 10x10 grid, one with no task
// at all (stays idle, zero cost), two crossing each other along row 0
// in opposite directions.
func TestLifelongSwapScenario(t *testing.T) {
	grid := mapftest.NewGrid(10, 10)
	orch := New(grid, nil, algo.CBSConfig{})

	orch.AddIdleAgent(1, grid.Node(0, 0))
	orch.AddIdleAgent(2, grid.Node(5, 5)) // never assigned a task
	orch.AddIdleAgent(3, grid.Node(8, 0))

	delta := map[core.AgentID]core.Task{
		1: {Agent: 1, Start: grid.Node(0, 0), Goal: grid.Node(9, 0)},
		3: {Agent: 3, Start: grid.Node(8, 0), Goal: grid.Node(0, 0)},
	}

	solution, err := orch.Solve(context.Background(), delta)
	if err != nil {
		t.Fatalf("Solve returned error: %v", err)
	}

	if cost := solution.Paths[1].Cost + solution.Paths[3].Cost; cost < 18 {
		t.Fatalf("combined swap cost = %v, want >= 18 (the solo shortest paths, 9 and 8, both run along row 0 in opposite directions, so avoiding each other must cost more than their sum 17)", cost)
	}
	if solution.Paths[2].Cost != 0 {
		t.Fatalf("untouched idle agent cost = %v, want 0", solution.Paths[2].Cost)
	}
}

func TestLifelongFreezesUnaffectedAgents(t *testing.T) {
	grid := mapftest.NewGrid(5, 5)
	orch := New(grid, nil, algo.CBSConfig{})
	orch.AddIdleAgent(1, grid.Node(0, 0))
	orch.AddIdleAgent(2, grid.Node(4, 4))

	first, err := orch.Solve(context.Background(), map[core.AgentID]core.Task{
		1: {Agent: 1, Start: grid.Node(0, 0), Goal: grid.Node(2, 2)},
	})
	if err != nil {
		t.Fatalf("first Solve returned error: %v", err)
	}
	agent1Path := first.Paths[1]

	second, err := orch.Solve(context.Background(), map[core.AgentID]core.Task{
		2: {Agent: 2, Start: grid.Node(4, 4), Goal: grid.Node(3, 3)},
	})
	if err != nil {
		t.Fatalf("second Solve returned error: %v", err)
	}
	if len(second.Paths[1].Steps) != len(agent1Path.Steps) {
		t.Fatalf("agent 1's frozen path changed across an unrelated replan: %+v vs %+v", second.Paths[1], agent1Path)
	}
}

package algo

import (
	"testing"

	"github.com/elektrokombinacija/mapf-core/internal/core"
	"github.com/elektrokombinacija/mapf-core/internal/mapftest"
)

func TestSolveWithLandmarksNoLandmarksMatchesPointToPoint(t *testing.T) {
	grid := mapftest.NewGrid(5, 5)
	task := core.Task{Agent: 1, Start: grid.Node(0, 0), Goal: grid.Node(4, 4)}
	heuristic := mapftest.ManhattanHeuristic{Grid: grid, Goal: task.Goal}

	path, ok := SolveWithLandmarks(grid, task, core.NewConstraintSet(), heuristic)
	if !ok {
		t.Fatal("expected a path")
	}
	if path.Cost != 8 {
		t.Fatalf("path cost = %v, want 8", path.Cost)
	}
}

func TestSolveWithLandmarksVisitsInOrder(t *testing.T) {
	grid := mapftest.NewGrid(5, 5)
	// landmark (4,0) lies outside the bounding box of start (0,0) and
	// goal (2,2), so visiting it forces a real detour.
	landmark := grid.Node(4, 0)
	task := core.Task{
		Agent:     1,
		Start:     grid.Node(0, 0),
		Goal:      grid.Node(2, 2),
		Landmarks: []core.Landmark{{Node: landmark}},
	}
	heuristic := mapftest.ManhattanHeuristic{Grid: grid, Goal: task.Goal}

	path, ok := SolveWithLandmarks(grid, task, core.NewConstraintSet(), heuristic)
	if !ok {
		t.Fatal("expected a path")
	}

	visited := false
	for _, step := range path.Steps {
		if step.Node == landmark {
			visited = true
			break
		}
	}
	if !visited {
		t.Fatalf("path never visits landmark %v: %+v", landmark, path.Steps)
	}
	// Manhattan(start,landmark) + Manhattan(landmark,goal) = 4 + 4 = 8,
	// strictly more than Manhattan(start,goal) = 4, so the detour must
	// show up in the cost.
	if path.Cost != 8 {
		t.Fatalf("path cost = %v, want 8", path.Cost)
	}
}

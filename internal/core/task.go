package core

// Landmark is an intermediate node a task's path must visit, in order,
// before reaching the goal. Interval, when non-zero, further restricts
// the time window during which the landmark must be visited; a zero
// Interval means the landmark only constrains which node is visited, not
// when.
type Landmark struct {
	Node     NodeID
	Interval Interval
}

// Task describes one agent's planning request: start at Start no earlier
// than InitialTime, visit Landmarks in order, and finish at Goal.
type Task struct {
	Agent       AgentID
	Start       NodeID
	Goal        NodeID
	Landmarks   []Landmark
	InitialTime Time
}

// Reverse returns the task with Start and Goal swapped and Landmarks
// reversed, used to seed a Reverse Resumable A* search that estimates
// distance-to-goal by searching backward from the goal.
func (t Task) Reverse() Task {
	r := Task{Agent: t.Agent, Start: t.Goal, Goal: t.Start, InitialTime: t.InitialTime}
	if n := len(t.Landmarks); n > 0 {
		r.Landmarks = make([]Landmark, n)
		for i, lm := range t.Landmarks {
			r.Landmarks[n-1-i] = lm
		}
	}
	return r
}

// IdleTask returns a zero-length task that keeps agent waiting at node
// forever, used by the lifelong orchestrator to model agents with no
// pending work.
func IdleTask(agent AgentID, node NodeID) Task {
	return Task{Agent: agent, Start: node, Goal: node}
}

// IsIdle reports whether t has no travel to do.
func (t Task) IsIdle() bool {
	return t.Start == t.Goal && len(t.Landmarks) == 0
}

// Step is one waypoint of a planned Path: the agent is at Node from the
// time it arrives until it departs via the following Step's Via edge. Via
// is the edge used to arrive at this Step; it is meaningless for the
// first Step of a Path (HasVia is false there).
type Step struct {
	Node    NodeID
	Time    Time
	Via     EdgeID
	HasVia  bool
}

// Path is an ordered sequence of Steps, the solution to one Task.
type Path struct {
	Agent AgentID
	Steps []Step
	Cost  Duration
}

// Moves expands Path into the Move sequence CBS compares for conflicts.
// Consecutive identical nodes produce a wait Move spanning the gap.
func (p Path) Moves() []Move {
	if len(p.Steps) < 2 {
		return nil
	}
	moves := make([]Move, 0, len(p.Steps)-1)
	for i := 0; i+1 < len(p.Steps); i++ {
		from, to := p.Steps[i], p.Steps[i+1]
		moves = append(moves, Move{
			Agent:    p.Agent,
			Action:   to.Via,
			From:     from.Node,
			To:       to.Node,
			Interval: Interval{Start: from.Time, End: to.Time},
		})
	}
	return moves
}

// Solution maps each agent to its planned Path.
type Solution struct {
	Paths map[AgentID]Path
	Cost  Duration
}

// NewSolution returns an empty Solution ready to be populated.
func NewSolution() *Solution {
	return &Solution{Paths: make(map[AgentID]Path)}
}

// Recompute sums every path's cost into Cost.
func (s *Solution) Recompute() {
	var total Duration
	for _, p := range s.Paths {
		total += p.Cost
	}
	s.Cost = total
}

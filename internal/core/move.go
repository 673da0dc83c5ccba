package core

// Move is one action taken by one agent: travelling (or waiting) from
// From to To via Action, occupying the interval [Interval.Start,
// Interval.End] while doing so. A path is a sequence of Moves; CBS
// detects conflicts by comparing Moves pairwise across agents via the
// transition system's Conflict method.
type Move struct {
	Agent    AgentID
	Action   EdgeID
	From     NodeID
	To       NodeID
	Interval Interval
}

// IsWait reports whether the move leaves the agent at the same node for
// its whole duration (From == To).
func (m Move) IsWait() bool {
	return m.From == m.To
}

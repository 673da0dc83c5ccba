package core

// NodeID identifies a vertex in the transition system's underlying graph.
type NodeID int

// EdgeID identifies a directed edge (an action) in the transition system.
type EdgeID int

// AgentID identifies one of the agents being planned for.
type AgentID int

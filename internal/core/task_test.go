package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTaskReverseSwapsEndpointsAndLandmarks(t *testing.T) {
	task := Task{
		Agent: 1,
		Start: 0,
		Goal:  9,
		Landmarks: []Landmark{
			{Node: 3},
			{Node: 6},
		},
	}

	rev := task.Reverse()
	assert.Equal(t, NodeID(9), rev.Start)
	assert.Equal(t, NodeID(0), rev.Goal)
	assert.Equal(t, []Landmark{{Node: 6}, {Node: 3}}, rev.Landmarks)
}

func TestIdleTaskIsIdle(t *testing.T) {
	task := IdleTask(1, 5)
	assert.True(t, task.IsIdle())
}

func TestPathMoves(t *testing.T) {
	p := Path{
		Agent: 1,
		Steps: []Step{
			{Node: 0, Time: 0},
			{Node: 0, Time: 1}, // wait
			{Node: 1, Time: 2},
		},
	}
	moves := p.Moves()
	if assert.Len(t, moves, 2) {
		assert.True(t, moves[0].IsWait())
		assert.False(t, moves[1].IsWait())
	}
}

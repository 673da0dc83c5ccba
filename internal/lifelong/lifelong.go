// Package lifelong implements the re-planning shell around CBS/L-SIPP:
// a long-running orchestrator that holds the current solution for a
// fixed set of agents and, given a delta of newly-assigned tasks,
// replans only the affected agents while freezing everyone else's path.
package lifelong

import (
	"context"
	"sync"

	"github.com/elektrokombinacija/mapf-core/internal/algo"
	"github.com/elektrokombinacija/mapf-core/internal/core"
	"go.uber.org/zap"
)

// Orchestrator is the single lifelong re-planning shell. The originating
// research project carried two near-identical implementations of this
// (one under search/lifelong, one under lifelong/planner); this package
// is the one orchestrator that replaces both.
type Orchestrator struct {
	ts      core.TransitionSystem
	builder core.HeuristicBuilder
	config  algo.CBSConfig
	log     *zap.Logger

	mu       sync.RWMutex
	tasks    map[core.AgentID]core.Task
	solution *core.Solution
}

// New creates an Orchestrator with no agents yet. builder constructs the
// admissible fallback heuristic each new RRA* instance is seeded with;
// pass nil to default to core.ZeroHeuristic for every task.
func New(ts core.TransitionSystem, builder core.HeuristicBuilder, config algo.CBSConfig) *Orchestrator {
	log := config.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Orchestrator{
		ts:       ts,
		builder:  builder,
		config:   config,
		log:      log,
		tasks:    make(map[core.AgentID]core.Task),
		solution: core.NewSolution(),
	}
}

// AddIdleAgent registers agent at node with no pending work, represented
// per spec as a zero-length waiting task, and gives it a trivial
// single-step solution until a real task is assigned.
func (o *Orchestrator) AddIdleAgent(agent core.AgentID, node core.NodeID) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.tasks[agent] = core.IdleTask(agent, node)
	o.solution.Paths[agent] = core.Path{Agent: agent, Steps: []core.Step{{Node: node, Time: 0}}}
}

// Solution returns the most recently computed joint solution. Callers
// must not mutate the returned value's Paths map.
func (o *Orchestrator) Solution() *core.Solution {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.solution
}

// Solve applies delta — newly-assigned or re-assigned tasks, keyed by
// agent — and replans exactly those agents, plus any registered agent
// that has no path yet; every other agent's existing path is passed to
// CBS as frozen and is guaranteed not to change. A frozen agent is not
// replanned even when a replanned agent's new path conflicts with it;
// CBS then constrains only the replanned agent.
func (o *Orchestrator) Solve(ctx context.Context, delta map[core.AgentID]core.Task) (*core.Solution, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	for agent, task := range delta {
		o.tasks[agent] = task
	}

	changed := make([]core.Task, 0, len(delta))
	heuristics := make(map[core.AgentID]core.Heuristic, len(delta))
	for agent := range delta {
		task := o.tasks[agent]
		changed = append(changed, task)
		heuristics[agent] = algo.NewRRAStarForTask(o.ts, task, o.builder, o.log)
	}

	frozen := make(map[core.AgentID]core.Path, len(o.tasks)-len(delta))
	for agent, task := range o.tasks {
		if _, isChanged := delta[agent]; isChanged {
			continue
		}
		if path, ok := o.solution.Paths[agent]; ok {
			frozen[agent] = path
		} else {
			// An agent with a registered task but no prior path (first
			// Solve call after AddIdleAgent never ran) needs a seed path
			// before it can be frozen; fall back to treating it as changed.
			changed = append(changed, task)
			heuristics[agent] = algo.NewRRAStarForTask(o.ts, task, o.builder, o.log)
		}
	}

	solver := algo.NewCBS(o.ts, heuristics, o.config)
	solution, err := solver.Solve(ctx, changed, frozen)
	if err != nil {
		o.log.Warn("lifelong replanning failed", zap.Error(err))
		return nil, err
	}

	o.solution = solution
	o.log.Info("lifelong replanned", zap.Int("changed_agents", len(changed)), zap.Float64("cost", float64(solution.Cost)))
	return solution, nil
}

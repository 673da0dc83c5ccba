package algo

import (
	"container/heap"
	"context"
	"sync"

	"github.com/elektrokombinacija/mapf-core/internal/core"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// CBSConfig holds the tunables for one Conflict-Based Search run.
// Loading these from a scenario file is the caller's job; CBS only ever
// consumes the populated struct.
type CBSConfig struct {
	// NThreads bounds how many constraint-tree children (or, at the
	// root, how many agents) may be replanned concurrently. Zero means
	// unbounded.
	NThreads int
	Logger   *zap.Logger
}

func (c CBSConfig) logger() *zap.Logger {
	if c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}

func (c CBSConfig) limit() int {
	if c.NThreads <= 0 {
		return -1 // errgroup.SetLimit(-1) means unbounded
	}
	return c.NThreads
}

// CBS runs Conflict-Based Search over a shared TransitionSystem: a
// constraint tree whose root is the unconstrained optimal path for every
// agent, branching on the most severe conflict found in each popped node
// until a conflict-free node is reached.
type CBS struct {
	ts         core.TransitionSystem
	heuristics map[core.AgentID]core.Heuristic
	config     CBSConfig
}

// NewCBS builds a CBS solver. heuristics supplies one admissible
// Heuristic per agent (typically an *RRAStar seeded at that agent's
// goal); an agent missing from the map falls back to core.ZeroHeuristic.
func NewCBS(ts core.TransitionSystem, heuristics map[core.AgentID]core.Heuristic, config CBSConfig) *CBS {
	return &CBS{ts: ts, heuristics: heuristics, config: config}
}

func (c *CBS) heuristicFor(agent core.AgentID) core.Heuristic {
	if h, ok := c.heuristics[agent]; ok {
		return h
	}
	return core.ZeroHeuristic{}
}

// cbsNode is one node of the constraint tree. viaConflict is the
// (fully classified) conflict whose resolution produced this node from
// its parent, used only as a heap tie-break; the root has hasViaConflict
// false.
type cbsNode struct {
	constraints    *core.ConstraintSet
	solution       *core.Solution
	tasks          map[core.AgentID]core.Task
	frozen         map[core.AgentID]bool
	viaConflict    core.Conflict
	hasViaConflict bool
	index          int
}

type cbsHeap []*cbsNode

func (h cbsHeap) Len() int { return len(h) }
func (h cbsHeap) Less(i, j int) bool {
	a, b := h[i], h[j]
	if a.solution.Cost != b.solution.Cost {
		return a.solution.Cost < b.solution.Cost
	}
	// Equal cost: prefer the node born from the higher-priority conflict,
	// per the constraint-tree node ordering (descending conflict
	// priority, larger overcost, earlier interval start all fold into
	// core.MoreSevere already).
	if a.hasViaConflict && b.hasViaConflict {
		return core.MoreSevere(a.viaConflict, b.viaConflict)
	}
	return a.hasViaConflict
}
func (h cbsHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}
func (h *cbsHeap) Push(x any) {
	n := x.(*cbsNode)
	n.index = len(*h)
	*h = append(*h, n)
}
func (h *cbsHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	old[n-1] = nil
	*h = old[0 : n-1]
	return x
}

// Solve runs CBS for tasks. frozen carries every agent whose path must
// not change — the lifelong orchestrator uses this for agents unaffected
// by a replanning delta — keyed by agent with its fixed Path as value;
// tasks must not contain an entry for any agent already present in
// frozen.
func (c *CBS) Solve(ctx context.Context, tasks []core.Task, frozen map[core.AgentID]core.Path) (*core.Solution, error) {
	log := c.config.logger()
	root, err := c.buildRoot(ctx, tasks, frozen)
	if err != nil {
		return nil, err
	}

	open := &cbsHeap{}
	heap.Init(open)
	heap.Push(open, root)

	for open.Len() > 0 {
		if err := ctx.Err(); err != nil {
			log.Warn("cbs deadline exceeded", zap.Error(err))
			return nil, core.ErrTimeout
		}

		node := heap.Pop(open).(*cbsNode)
		conflict, children, found, err := c.branch(ctx, node)
		if err != nil {
			return nil, err
		}
		if !found {
			log.Info("cbs solved", zap.Float64("cost", float64(node.solution.Cost)))
			return node.solution, nil
		}
		log.Debug("cbs conflict",
			zap.String("kind", conflict.Kind.String()),
			zap.Float64("overcost", float64(conflict.Overcost)))

		for _, child := range children {
			heap.Push(open, child)
		}
	}

	return nil, core.ErrInfeasible
}

func (c *CBS) buildRoot(ctx context.Context, tasks []core.Task, frozen map[core.AgentID]core.Path) (*cbsNode, error) {
	root := &cbsNode{
		constraints: core.NewConstraintSet(),
		solution:    core.NewSolution(),
		tasks:       make(map[core.AgentID]core.Task, len(tasks)),
		frozen:      make(map[core.AgentID]bool, len(frozen)),
	}
	for agent, path := range frozen {
		root.solution.Paths[agent] = path
		root.frozen[agent] = true
	}
	for _, task := range tasks {
		root.tasks[task.Agent] = task
	}

	var mu sync.Mutex
	var errs error
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.config.limit())

	for _, task := range tasks {
		task := task
		g.Go(func() error {
			path, ok := SolveWithLandmarks(c.ts, task, root.constraints, c.heuristicFor(task.Agent))
			mu.Lock()
			defer mu.Unlock()
			if !ok {
				errs = multierr.Append(errs, core.WrapPrecondition("plan root path", taskError{task.Agent}))
				return nil
			}
			root.solution.Paths[task.Agent] = path
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	_ = gctx
	if errs != nil {
		return nil, multierr.Append(core.ErrInfeasible, errs)
	}

	root.solution.Recompute()
	return root, nil
}

type taskError struct{ agent core.AgentID }

func (e taskError) Error() string { return "no path found for agent" }

// rawConflict scans every pair of agents' paths for a colliding Move
// pair, picking whichever candidate is most worth resolving before its
// cardinal classification is even known: any conflict touching a frozen
// agent's path wins outright (there is only ever one side left to
// replan), and among the rest ties break on the earliest interval start,
// mirroring the original research code's default ordering before
// per-conflict classification narrows it further. The TS-supplied
// Kind/Overcost on the returned Conflict are not trustworthy — only A, B
// and the Frozen override are; branch fills in the real classification.
func (c *CBS) rawConflict(node *cbsNode) (core.Conflict, bool) {
	agents := make([]core.AgentID, 0, len(node.solution.Paths))
	for a := range node.solution.Paths {
		agents = append(agents, a)
	}

	var best core.Conflict
	found := false
	for i := 0; i < len(agents); i++ {
		for j := i + 1; j < len(agents); j++ {
			movesA := node.solution.Paths[agents[i]].Moves()
			movesB := node.solution.Paths[agents[j]].Moves()
			for _, ma := range movesA {
				for _, mb := range movesB {
					conflict, ok := c.ts.Conflict(ma, mb)
					if !ok {
						continue
					}
					conflict.Kind = core.NonCardinal
					conflict.Overcost = 0
					if node.frozen[ma.Agent] || node.frozen[mb.Agent] {
						conflict.Kind = core.Frozen
					}
					if !found || core.MoreSevere(conflict, best) {
						best, found = conflict, true
					}
				}
			}
		}
	}
	return best, found
}

// branch finds the conflict to resolve in node, classifies it per spec
// step 4 (build both candidate children, replan the one constrained
// agent in each, derive Kind/Overcost from the resulting cost deltas
// rather than trusting the transition system), and returns the already-
// built children alongside the now-fully-classified conflict. A Frozen
// conflict only ever has one buildable side, so its classification is
// just that side's own delta used as Overcost.
func (c *CBS) branch(ctx context.Context, node *cbsNode) (core.Conflict, []*cbsNode, bool, error) {
	conflict, found := c.rawConflict(node)
	if !found {
		return core.Conflict{}, nil, false, nil
	}

	candidates := []core.AgentID{conflict.A.Agent, conflict.B.Agent}
	if conflict.Kind == core.Frozen {
		switch {
		case node.frozen[conflict.A.Agent] && node.frozen[conflict.B.Agent]:
			return core.Conflict{}, nil, false, core.WrapPrecondition("branch", core.ErrInfeasible)
		case node.frozen[conflict.A.Agent]:
			candidates = []core.AgentID{conflict.B.Agent}
		default:
			candidates = []core.AgentID{conflict.A.Agent}
		}
	}

	type trial struct {
		child *cbsNode
		delta core.Duration
		ok    bool
	}
	trials := make([]trial, len(candidates))

	var mu sync.Mutex
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(c.config.limit())

	for i, agent := range candidates {
		i, agent := i, agent
		g.Go(func() error {
			child, ok := c.replan(node, agent, conflict)
			mu.Lock()
			defer mu.Unlock()
			if !ok {
				trials[i] = trial{ok: false, delta: core.Unreachable}
				return nil
			}
			trials[i] = trial{child: child, delta: child.solution.Cost - node.solution.Cost, ok: true}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return core.Conflict{}, nil, false, err
	}

	switch conflict.Kind {
	case core.Frozen:
		if trials[0].ok {
			conflict.Overcost = trials[0].delta
		}
	default:
		deltaA, deltaB := trials[0].delta, trials[1].delta
		switch {
		case deltaA > 0 && deltaB > 0:
			conflict.Kind = core.Cardinal
		case deltaA > 0 || deltaB > 0:
			conflict.Kind = core.SemiCardinal
		default:
			conflict.Kind = core.NonCardinal
		}
		if deltaA < deltaB {
			conflict.Overcost = deltaA
		} else {
			conflict.Overcost = deltaB
		}
	}

	children := make([]*cbsNode, 0, len(trials))
	for _, t := range trials {
		if !t.ok {
			continue
		}
		t.child.viaConflict = conflict
		t.child.hasViaConflict = true
		children = append(children, t.child)
	}
	return conflict, children, true, nil
}

func (c *CBS) replan(node *cbsNode, agent core.AgentID, conflict core.Conflict) (*cbsNode, bool) {
	constraint := c.ts.GetConstraint(conflict, agent)
	constraints := node.constraints.Clone()
	constraints.Add(constraint)
	constraints.Unify()

	task := node.tasks[agent]
	path, ok := SolveWithLandmarks(c.ts, task, constraints, c.heuristicFor(agent))
	if !ok {
		return nil, false
	}

	child := &cbsNode{
		constraints: constraints,
		solution:    core.NewSolution(),
		tasks:       node.tasks,
		frozen:      node.frozen,
	}
	for a, p := range node.solution.Paths {
		child.solution.Paths[a] = p
	}
	child.solution.Paths[agent] = path
	child.solution.Recompute()
	return child, true
}

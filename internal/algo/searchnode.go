package algo

import "github.com/elektrokombinacija/mapf-core/internal/core"

// searchNode is the heap element of RRA*'s backward search (SIPP keeps
// its own sippNode/sippHeap): a node with its cost-so-far, an admissible
// estimate of the remaining cost, and a parent pointer, which RRA* leaves
// unset since it records only distances. index is maintained by the
// owning heap.Interface implementation.
type searchNode struct {
	node   core.NodeID
	g      core.Duration
	h      core.Duration
	parent *searchNode
	index  int
}

func (n *searchNode) f() core.Duration { return n.g + n.h }

// less orders nodes by f ascending, breaking ties by g descending (a
// larger cost-so-far is explored first), matching the tie-break the
// originating research code's SearchNode::Ord uses.
func less(a, b *searchNode) bool {
	if a.f() != b.f() {
		return a.f() < b.f()
	}
	return a.g > b.g
}

// nodeHeap implements container/heap.Interface over *searchNode,
// following the same index-tracking pattern used throughout the
// originating research code's priority queues.
type nodeHeap []*searchNode

func (h nodeHeap) Len() int            { return len(h) }
func (h nodeHeap) Less(i, j int) bool  { return less(h[i], h[j]) }
func (h nodeHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}
func (h *nodeHeap) Push(x any) {
	n := x.(*searchNode)
	n.index = len(*h)
	*h = append(*h, n)
}
func (h *nodeHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	old[n-1] = nil
	*h = old[0 : n-1]
	return x
}

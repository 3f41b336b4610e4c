package nav

import (
	"container/heap"
	"math"
)

// Search runs weighted A* over the grid's 8-connected cells. The open list is
// a binary min-heap keyed by f-cost with a cell-index map for decrease-key,
// so membership checks and priority updates stay O(log n) on large grids.
type Search struct {
	grid      *Grid
	clearance *ClearanceEvaluator

	maxExpansions    int
	clearancePenalty float64
	penaltyThreshold int
	hardPrune        bool

	open   openHeap
	byCell map[int]*openNode
	closed []bool
	neigh  []*Cell
}

type openNode struct {
	cell    int // flat cell index
	f       float64
	h       float64
	heapIdx int
}

func NewSearch(grid *Grid, clearance *ClearanceEvaluator, tun Tunables) *Search {
	return &Search{
		grid:             grid,
		clearance:        clearance,
		maxExpansions:    tun.MaxExpansions,
		clearancePenalty: tun.ClearancePenalty,
		penaltyThreshold: tun.PenaltyThreshold,
		hardPrune:        tun.HardPrune,
		byCell:           make(map[int]*openNode, 256),
		closed:           make([]bool, len(grid.cells)),
	}
}

// Run searches from start to goal, excluding cells whose clearance falls
// below margin, and returns the raw cell-aligned route as world points. The
// result is empty when no route exists or the expansion cap is hit. Both
// endpoints must be valid in-bounds cells; relocating unsafe endpoints is the
// caller's job.
func (s *Search) Run(start, goal *Cell, margin int) []Vec2 {
	s.reset()

	startIdx := s.grid.index(start.X, start.Y)
	goalIdx := s.grid.index(goal.X, goal.Y)

	start.gCost = 0
	start.hCost = octile(start.X, start.Y, goal.X, goal.Y)
	s.push(&openNode{cell: startIdx, f: start.hCost, h: start.hCost})

	expansions := 0
	for s.open.Len() > 0 {
		if s.maxExpansions > 0 && expansions >= s.maxExpansions {
			return nil
		}
		node := heap.Pop(&s.open).(*openNode)
		delete(s.byCell, node.cell)
		if s.closed[node.cell] {
			continue
		}
		s.closed[node.cell] = true
		expansions++

		if node.cell == goalIdx {
			return s.reconstruct(startIdx, goalIdx)
		}

		cur := &s.grid.cells[node.cell]
		s.neigh = s.grid.Neighbors(cur, s.neigh)
		for _, next := range s.neigh {
			nextIdx := s.grid.index(next.X, next.Y)
			if s.closed[nextIdx] {
				continue
			}

			stepCost := 1.0
			if next.X != cur.X && next.Y != cur.Y {
				stepCost = math.Sqrt2
			}
			clear := s.clearance.Clearance(next.X, next.Y)
			if margin > 0 && clear < margin {
				if s.hardPrune {
					continue
				}
				// Soft mode: each missing clearance step costs one extra
				// penalty unit instead of excluding the cell outright.
				stepCost += s.clearancePenalty * float64(margin-clear)
			}
			if clear <= s.penaltyThreshold {
				stepCost += s.clearancePenalty
			}

			tentative := cur.gCost + stepCost
			if existing, inOpen := s.byCell[nextIdx]; inOpen {
				if tentative >= next.gCost {
					continue
				}
				next.gCost = tentative
				next.parent = node.cell
				existing.f = tentative + next.hCost
				heap.Fix(&s.open, existing.heapIdx)
				continue
			}
			next.gCost = tentative
			next.hCost = octile(next.X, next.Y, goal.X, goal.Y)
			next.parent = node.cell
			s.push(&openNode{cell: nextIdx, f: tentative + next.hCost, h: next.hCost})
		}
	}
	return nil
}

// reset clears every cell's search scratch so no state leaks between queries.
func (s *Search) reset() {
	for i := range s.grid.cells {
		c := &s.grid.cells[i]
		c.gCost = 0
		c.hCost = 0
		c.parent = -1
	}
	s.open = s.open[:0]
	for k := range s.byCell {
		delete(s.byCell, k)
	}
	if len(s.closed) != len(s.grid.cells) {
		s.closed = make([]bool, len(s.grid.cells))
	} else {
		for i := range s.closed {
			s.closed[i] = false
		}
	}
}

func (s *Search) push(n *openNode) {
	heap.Push(&s.open, n)
	s.byCell[n.cell] = n
}

// reconstruct walks parent indices from the goal back to the start, reverses
// the list and converts each cell to its world-space center.
func (s *Search) reconstruct(startIdx, goalIdx int) []Vec2 {
	var indices []int
	for cur := goalIdx; cur != -1; cur = s.grid.cells[cur].parent {
		indices = append(indices, cur)
		if cur == startIdx {
			break
		}
	}
	path := make([]Vec2, len(indices))
	for i, idx := range indices {
		c := &s.grid.cells[idx]
		path[len(indices)-1-i] = s.grid.GridToWorld(c.X, c.Y)
	}
	return path
}

// octile is the admissible heuristic matching the 1/√2 step costs.
func octile(x1, y1, x2, y2 int) float64 {
	dx := math.Abs(float64(x1 - x2))
	dy := math.Abs(float64(y1 - y2))
	if dx > dy {
		return dx + (math.Sqrt2-1)*dy
	}
	return dy + (math.Sqrt2-1)*dx
}

// openHeap orders by f-cost; ties break toward the lower h-cost, biasing the
// search toward straighter paths.
type openHeap []*openNode

func (h openHeap) Len() int { return len(h) }

func (h openHeap) Less(i, j int) bool {
	if h[i].f != h[j].f {
		return h[i].f < h[j].f
	}
	return h[i].h < h[j].h
}

func (h openHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].heapIdx = i
	h[j].heapIdx = j
}

func (h *openHeap) Push(x any) {
	n := x.(*openNode)
	n.heapIdx = len(*h)
	*h = append(*h, n)
}

func (h *openHeap) Pop() any {
	old := *h
	n := len(old)
	node := old[n-1]
	old[n-1] = nil
	node.heapIdx = -1
	*h = old[:n-1]
	return node
}

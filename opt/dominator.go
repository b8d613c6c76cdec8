package opt

import (
	"fmt"

	"github.com/gogpu/spvopt/spirv"
)

// DominatorAnalysis holds the dominator tree of one function. Unreachable
// blocks are not in the tree.
type DominatorAnalysis struct {
	entry spirv.ID
	idom  map[spirv.ID]spirv.ID
	order map[spirv.ID]int // reverse post-order index
}

// newDominatorAnalysis computes immediate dominators with the iterative
// Cooper-Harvey-Kennedy algorithm over reverse post-order.
func newDominatorAnalysis(cfg *CFG, f *spirv.Function) *DominatorAnalysis {
	da := &DominatorAnalysis{
		idom:  make(map[spirv.ID]spirv.ID),
		order: make(map[spirv.ID]int),
	}
	rpo := cfg.ReversePostOrder(f)
	if len(rpo) == 0 {
		return da
	}
	for k, id := range rpo {
		da.order[id] = k
	}
	da.entry = rpo[0]
	da.idom[da.entry] = da.entry

	for changed := true; changed; {
		changed = false
		for _, b := range rpo[1:] {
			var newIdom spirv.ID
			for _, p := range cfg.Predecessors(b) {
				if _, ok := da.idom[p]; !ok {
					continue
				}
				if newIdom == 0 {
					newIdom = p
					continue
				}
				newIdom = da.intersect(p, newIdom)
			}
			if newIdom != 0 && da.idom[b] != newIdom {
				da.idom[b] = newIdom
				changed = true
			}
		}
	}
	return da
}

func (da *DominatorAnalysis) intersect(a, b spirv.ID) spirv.ID {
	for a != b {
		for da.order[a] > da.order[b] {
			a = da.idom[a]
		}
		for da.order[b] > da.order[a] {
			b = da.idom[b]
		}
	}
	return a
}

// IsReachable reports whether the block labelled id is reachable from the
// entry block.
func (da *DominatorAnalysis) IsReachable(id spirv.ID) bool {
	_, ok := da.idom[id]
	return ok
}

// ImmediateDominator returns the immediate dominator of id, or 0 for the
// entry block and unreachable blocks.
func (da *DominatorAnalysis) ImmediateDominator(id spirv.ID) spirv.ID {
	if id == da.entry {
		return 0
	}
	return da.idom[id]
}

// Dominates reports whether block a dominates block b. A block dominates
// itself.
func (da *DominatorAnalysis) Dominates(a, b spirv.ID) bool {
	if !da.IsReachable(a) || !da.IsReachable(b) {
		return false
	}
	for {
		if b == a {
			return true
		}
		if b == da.entry {
			return false
		}
		b = da.idom[b]
	}
}

func (da *DominatorAnalysis) compare(fresh *DominatorAnalysis) error {
	if len(da.idom) != len(fresh.idom) {
		return fmt.Errorf("%d dominated blocks cached, %d in module", len(da.idom), len(fresh.idom))
	}
	for id, idom := range fresh.idom {
		if da.idom[id] != idom {
			return fmt.Errorf("immediate dominator of %%%d is stale", id)
		}
	}
	return nil
}

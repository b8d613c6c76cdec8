package opt

import (
	"fmt"
	"slices"

	"github.com/gogpu/spvopt/spirv"
)

// CFG is the control-flow graph of every function in a module, keyed by
// block label. Edges come from block terminators.
type CFG struct {
	blocks map[spirv.ID]*spirv.BasicBlock
	funcs  map[spirv.ID]*spirv.Function
	succs  map[spirv.ID][]spirv.ID
	preds  map[spirv.ID][]spirv.ID
}

func newCFG(m *spirv.Module) *CFG {
	c := &CFG{
		blocks: make(map[spirv.ID]*spirv.BasicBlock),
		funcs:  make(map[spirv.ID]*spirv.Function),
		succs:  make(map[spirv.ID][]spirv.ID),
		preds:  make(map[spirv.ID][]spirv.ID),
	}
	for _, f := range m.Functions {
		for _, b := range f.Blocks {
			c.blocks[b.ID()] = b
			c.funcs[b.ID()] = f
		}
		for _, b := range f.Blocks {
			succ := b.Successors()
			c.succs[b.ID()] = succ
			for _, s := range succ {
				c.preds[s] = append(c.preds[s], b.ID())
			}
		}
	}
	return c
}

// Block returns the block labelled id, or nil.
func (c *CFG) Block(id spirv.ID) *spirv.BasicBlock {
	return c.blocks[id]
}

// Function returns the function containing the block labelled id.
func (c *CFG) Function(id spirv.ID) *spirv.Function {
	return c.funcs[id]
}

// Successors returns the labels id branches to.
func (c *CFG) Successors(id spirv.ID) []spirv.ID {
	return c.succs[id]
}

// Predecessors returns the labels branching to id, in function block order.
func (c *CFG) Predecessors(id spirv.ID) []spirv.ID {
	return c.preds[id]
}

// ReversePostOrder returns the labels of f reachable from its entry block in
// reverse post-order.
func (c *CFG) ReversePostOrder(f *spirv.Function) []spirv.ID {
	if len(f.Blocks) == 0 {
		return nil
	}
	visited := make(map[spirv.ID]bool)
	var post []spirv.ID
	var visit func(id spirv.ID)
	visit = func(id spirv.ID) {
		visited[id] = true
		for _, s := range c.succs[id] {
			if !visited[s] {
				visit(s)
			}
		}
		post = append(post, id)
	}
	visit(f.Blocks[0].ID())
	slices.Reverse(post)
	return post
}

func (c *CFG) compare(fresh *CFG) error {
	if len(c.blocks) != len(fresh.blocks) {
		return fmt.Errorf("%d blocks cached, %d in module", len(c.blocks), len(fresh.blocks))
	}
	for id, b := range fresh.blocks {
		if c.blocks[id] != b {
			return fmt.Errorf("block %%%d is stale", id)
		}
		if !slices.Equal(c.succs[id], fresh.succs[id]) {
			return fmt.Errorf("successors of %%%d are stale", id)
		}
		if !slices.Equal(c.preds[id], fresh.preds[id]) {
			return fmt.Errorf("predecessors of %%%d are stale", id)
		}
	}
	return nil
}

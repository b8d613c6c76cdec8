package opt

import (
	"fmt"
	"slices"

	"github.com/gogpu/spvopt/spirv"
)

// DecorationManager indexes annotation instructions by the id they target.
// Decorations applied through OpDecorationGroup are resolved at query time.
type DecorationManager struct {
	// byTarget holds, per id, the direct decorations targeting it and the
	// group-decorate instructions listing it, in module order.
	byTarget map[spirv.ID][]*spirv.Instruction
}

func newDecorationManager(m *spirv.Module) *DecorationManager {
	d := &DecorationManager{byTarget: make(map[spirv.ID][]*spirv.Instruction)}
	for _, inst := range m.Annotations {
		d.AddDecoration(inst)
	}
	return d
}

// decorationKindIndex returns the in-operand index of the decoration kind,
// or -1 for instructions that carry none.
func decorationKindIndex(op spirv.OpCode) int {
	switch op {
	case spirv.OpDecorate, spirv.OpDecorateID, spirv.OpDecorateString:
		return 1
	case spirv.OpMemberDecorate, spirv.OpMemberDecorateString:
		return 2
	}
	return -1
}

// decorationTargets returns the ids an annotation applies to.
func decorationTargets(inst *spirv.Instruction) []spirv.ID {
	switch inst.Opcode {
	case spirv.OpDecorationGroup:
		return nil
	case spirv.OpGroupDecorate:
		var targets []spirv.ID
		for k := 1; k < inst.NumInOperands(); k++ {
			targets = append(targets, inst.IDInOperand(k))
		}
		return targets
	case spirv.OpGroupMemberDecorate:
		var targets []spirv.ID
		for k := 1; k < inst.NumInOperands(); k += 2 {
			targets = append(targets, inst.IDInOperand(k))
		}
		return targets
	}
	return []spirv.ID{inst.IDInOperand(0)}
}

// AddDecoration indexes an annotation instruction.
func (d *DecorationManager) AddDecoration(inst *spirv.Instruction) {
	for _, target := range decorationTargets(inst) {
		if !slices.Contains(d.byTarget[target], inst) {
			d.byTarget[target] = append(d.byTarget[target], inst)
		}
	}
}

// RemoveDecoration drops an annotation instruction from the index.
func (d *DecorationManager) RemoveDecoration(inst *spirv.Instruction) {
	for target, insts := range d.byTarget {
		if !slices.Contains(insts, inst) {
			continue
		}
		insts = slices.DeleteFunc(insts, func(i *spirv.Instruction) bool { return i == inst })
		if len(insts) == 0 {
			delete(d.byTarget, target)
		} else {
			d.byTarget[target] = insts
		}
	}
}

// reanalyze updates the index after the targets of inst were edited,
// keeping its position for targets it still names.
func (d *DecorationManager) reanalyze(inst *spirv.Instruction) {
	targets := decorationTargets(inst)
	for target, insts := range d.byTarget {
		if slices.Contains(insts, inst) && !slices.Contains(targets, target) {
			insts = slices.DeleteFunc(insts, func(i *spirv.Instruction) bool { return i == inst })
			if len(insts) == 0 {
				delete(d.byTarget, target)
			} else {
				d.byTarget[target] = insts
			}
		}
	}
	d.AddDecoration(inst)
}

// ForEachDecoration calls fn for every decoration of kind applied to id,
// directly or through a decoration group.
func (d *DecorationManager) ForEachDecoration(id spirv.ID, kind spirv.Decoration, fn func(inst *spirv.Instruction)) {
	d.WhileEachDecoration(id, kind, func(inst *spirv.Instruction) bool {
		fn(inst)
		return true
	})
}

// WhileEachDecoration is ForEachDecoration stopping when fn returns false.
func (d *DecorationManager) WhileEachDecoration(id spirv.ID, kind spirv.Decoration, fn func(inst *spirv.Instruction) bool) bool {
	for _, inst := range d.DecorationsFor(id) {
		k := decorationKindIndex(inst.Opcode)
		if k < 0 || spirv.Decoration(inst.SingleWordInOperand(k)) != kind {
			continue
		}
		if !fn(inst) {
			return false
		}
	}
	return true
}

// HasDecoration reports whether id carries a decoration of kind.
func (d *DecorationManager) HasDecoration(id spirv.ID, kind spirv.Decoration) bool {
	return !d.WhileEachDecoration(id, kind, func(*spirv.Instruction) bool { return false })
}

// HasBuiltIn reports whether id is decorated BuiltIn b. Any BuiltIn
// decoration of id counts, not only the last one; valid modules carry at
// most one.
func (d *DecorationManager) HasBuiltIn(id spirv.ID, b spirv.BuiltIn) bool {
	return !d.WhileEachDecoration(id, spirv.DecorationBuiltIn, func(inst *spirv.Instruction) bool {
		return spirv.BuiltIn(inst.LastInOperandWord()) != b
	})
}

// HasLinkage reports whether id carries LinkageAttributes of type t.
func (d *DecorationManager) HasLinkage(id spirv.ID, t spirv.LinkageType) bool {
	return !d.WhileEachDecoration(id, spirv.DecorationLinkageAttributes, func(inst *spirv.Instruction) bool {
		return spirv.LinkageType(inst.LastInOperandWord()) != t
	})
}

// DecorationsFor returns the decorations applied to id in module order,
// expanding decoration groups into the group's own decorations.
func (d *DecorationManager) DecorationsFor(id spirv.ID) []*spirv.Instruction {
	var out []*spirv.Instruction
	for _, inst := range d.byTarget[id] {
		switch inst.Opcode {
		case spirv.OpGroupDecorate, spirv.OpGroupMemberDecorate:
			for _, groupDec := range d.byTarget[inst.IDInOperand(0)] {
				if decorationKindIndex(groupDec.Opcode) >= 0 {
					out = append(out, groupDec)
				}
			}
		default:
			out = append(out, inst)
		}
	}
	return out
}

// TargetingInsts returns the annotation instructions that name id as a
// target, without expanding groups.
func (d *DecorationManager) TargetingInsts(id spirv.ID) []*spirv.Instruction {
	return slices.Clone(d.byTarget[id])
}

func (d *DecorationManager) compare(fresh *DecorationManager) error {
	if len(d.byTarget) != len(fresh.byTarget) {
		return fmt.Errorf("%d decorated ids cached, %d in module", len(d.byTarget), len(fresh.byTarget))
	}
	for id, insts := range fresh.byTarget {
		if !slices.Equal(d.byTarget[id], insts) {
			return fmt.Errorf("decorations of %%%d are stale", id)
		}
	}
	return nil
}

package opt

import (
	"fmt"
	"slices"

	"github.com/gogpu/spvopt/spirv"
)

// NameMap indexes OpName and OpMemberName instructions by target id.
type NameMap struct {
	names map[spirv.ID][]*spirv.Instruction
}

func newNameMap(m *spirv.Module) *NameMap {
	n := &NameMap{names: make(map[spirv.ID][]*spirv.Instruction)}
	for _, inst := range m.DebugNames {
		n.add(inst)
	}
	return n
}

func (n *NameMap) add(inst *spirv.Instruction) {
	target := inst.IDInOperand(0)
	n.names[target] = append(n.names[target], inst)
}

func (n *NameMap) remove(inst *spirv.Instruction) {
	for target, insts := range n.names {
		if !slices.Contains(insts, inst) {
			continue
		}
		insts = slices.DeleteFunc(insts, func(i *spirv.Instruction) bool { return i == inst })
		if len(insts) == 0 {
			delete(n.names, target)
		} else {
			n.names[target] = insts
		}
	}
}

// Names returns the debug-name instructions targeting id.
func (n *NameMap) Names(id spirv.ID) []*spirv.Instruction {
	return slices.Clone(n.names[id])
}

// Name returns the OpName string of id.
func (n *NameMap) Name(id spirv.ID) (string, bool) {
	for _, inst := range n.names[id] {
		if inst.Opcode == spirv.OpName {
			return inst.InOperand(1).AsString(), true
		}
	}
	return "", false
}

func (n *NameMap) compare(fresh *NameMap) error {
	if len(n.names) != len(fresh.names) {
		return fmt.Errorf("%d named ids cached, %d in module", len(n.names), len(fresh.names))
	}
	for id, insts := range fresh.names {
		if !slices.Equal(n.names[id], insts) {
			return fmt.Errorf("names of %%%d are stale", id)
		}
	}
	return nil
}

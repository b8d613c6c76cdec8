package opt

import (
	"fmt"
	"slices"

	"github.com/gogpu/spvopt/spirv"
)

// DefUseManager indexes, for every id, its defining instruction and the
// instructions using it. Instructions are keyed by pointer; they never hold
// references back into the index.
type DefUseManager struct {
	defs  map[spirv.ID]*spirv.Instruction
	users map[spirv.ID][]*spirv.Instruction
	// uses records the distinct ids each analyzed instruction references.
	uses map[*spirv.Instruction][]spirv.ID
}

func newDefUseManager(m *spirv.Module) *DefUseManager {
	d := &DefUseManager{
		defs:  make(map[spirv.ID]*spirv.Instruction),
		users: make(map[spirv.ID][]*spirv.Instruction),
		uses:  make(map[*spirv.Instruction][]spirv.ID),
	}
	m.ForEachInst(d.AnalyzeInstDefUse)
	return d
}

// GetDef returns the instruction defining id, or nil.
func (d *DefUseManager) GetDef(id spirv.ID) *spirv.Instruction {
	return d.defs[id]
}

// AnalyzeInstDef records inst as the definition of its result id.
func (d *DefUseManager) AnalyzeInstDef(inst *spirv.Instruction) {
	if inst.ResultID == 0 {
		return
	}
	if old, ok := d.defs[inst.ResultID]; ok && old != inst {
		d.ClearInst(old)
	}
	d.defs[inst.ResultID] = inst
}

// AnalyzeInstUse re-registers the ids inst references. Call it after editing
// the operands of an analyzed instruction.
func (d *DefUseManager) AnalyzeInstUse(inst *spirv.Instruction) {
	d.eraseUses(inst)
	var ids []spirv.ID
	inst.ForEachID(func(id *spirv.ID) {
		if slices.Contains(ids, *id) {
			return
		}
		ids = append(ids, *id)
		d.users[*id] = append(d.users[*id], inst)
	})
	d.uses[inst] = ids
}

// AnalyzeInstDefUse records both the definition and the uses of inst.
func (d *DefUseManager) AnalyzeInstDefUse(inst *spirv.Instruction) {
	d.AnalyzeInstDef(inst)
	d.AnalyzeInstUse(inst)
}

// ClearInst drops inst as a definition and as a user.
func (d *DefUseManager) ClearInst(inst *spirv.Instruction) {
	if inst.ResultID != 0 && d.defs[inst.ResultID] == inst {
		delete(d.defs, inst.ResultID)
	}
	d.eraseUses(inst)
}

func (d *DefUseManager) eraseUses(inst *spirv.Instruction) {
	ids, ok := d.uses[inst]
	if !ok {
		return
	}
	for _, id := range ids {
		users := slices.DeleteFunc(d.users[id], func(u *spirv.Instruction) bool { return u == inst })
		if len(users) == 0 {
			delete(d.users, id)
		} else {
			d.users[id] = users
		}
	}
	delete(d.uses, inst)
}

// ForEachUser calls fn once for every instruction using id, in the order
// the uses were first analyzed. fn may mutate the module through the
// context.
func (d *DefUseManager) ForEachUser(id spirv.ID, fn func(user *spirv.Instruction)) {
	d.WhileEachUser(id, func(user *spirv.Instruction) bool {
		fn(user)
		return true
	})
}

// WhileEachUser is ForEachUser stopping when fn returns false. It reports
// whether every call returned true.
func (d *DefUseManager) WhileEachUser(id spirv.ID, fn func(user *spirv.Instruction) bool) bool {
	for _, user := range slices.Clone(d.users[id]) {
		if !fn(user) {
			return false
		}
	}
	return true
}

// ForEachUse calls fn for every operand referencing id. index is the
// in-operand index, or -1 for the result type.
func (d *DefUseManager) ForEachUse(id spirv.ID, fn func(user *spirv.Instruction, index int)) {
	for _, user := range slices.Clone(d.users[id]) {
		if user.TypeID == id {
			fn(user, -1)
		}
		for k, op := range user.Operands {
			if op.IsID() && op.ID() == id {
				fn(user, k)
			}
		}
	}
}

// NumUsers returns the number of distinct instructions using id.
func (d *DefUseManager) NumUsers(id spirv.ID) int {
	return len(d.users[id])
}

// NumUses returns the number of operands referencing id.
func (d *DefUseManager) NumUses(id spirv.ID) int {
	n := 0
	d.ForEachUse(id, func(*spirv.Instruction, int) { n++ })
	return n
}

// compare reports the first difference between d and a fresh analysis.
func (d *DefUseManager) compare(fresh *DefUseManager) error {
	if len(d.defs) != len(fresh.defs) {
		return fmt.Errorf("%d definitions cached, %d in module", len(d.defs), len(fresh.defs))
	}
	for id, def := range fresh.defs {
		if d.defs[id] != def {
			return fmt.Errorf("definition of %%%d is stale", id)
		}
	}
	if len(d.users) != len(fresh.users) {
		return fmt.Errorf("%d used ids cached, %d in module", len(d.users), len(fresh.users))
	}
	for id, users := range fresh.users {
		cached := d.users[id]
		if len(cached) != len(users) {
			return fmt.Errorf("%%%d has %d cached users, %d in module", id, len(cached), len(users))
		}
		for _, u := range users {
			if !slices.Contains(cached, u) {
				return fmt.Errorf("%%%d is missing user %s", id, u)
			}
		}
	}
	return nil
}

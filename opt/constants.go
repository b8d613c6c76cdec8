package opt

import "github.com/gogpu/spvopt/spirv"

// isInt32Type reports whether id is a 32-bit integer type.
func (ctx *IRContext) isInt32Type(id spirv.ID) bool {
	def := ctx.DefUseManager().GetDef(id)
	return def != nil && def.Opcode == spirv.OpTypeInt && def.SingleWordInOperand(0) == 32
}

// IntConstant returns the value of a 32-bit integer OpConstant, treating
// OpConstantNull as zero.
func (ctx *IRContext) IntConstant(id spirv.ID) (uint32, bool) {
	def := ctx.DefUseManager().GetDef(id)
	if def == nil || !ctx.isInt32Type(def.TypeID) {
		return 0, false
	}
	switch def.Opcode {
	case spirv.OpConstant:
		return def.SingleWordInOperand(0), true
	case spirv.OpConstantNull:
		return 0, true
	}
	return 0, false
}

// BoolConstant returns the value of an OpConstantTrue/False.
func (ctx *IRContext) BoolConstant(id spirv.ID) (value, ok bool) {
	def := ctx.DefUseManager().GetDef(id)
	if def == nil {
		return false, false
	}
	switch def.Opcode {
	case spirv.OpConstantTrue:
		return true, true
	case spirv.OpConstantFalse:
		return false, true
	}
	return false, false
}

// FindOrAddIntConstant returns an existing 32-bit integer constant of
// typeID with value, or appends a new one. It returns 0 when no id is left.
func (ctx *IRContext) FindOrAddIntConstant(typeID spirv.ID, value uint32) spirv.ID {
	for _, inst := range ctx.module.TypesValues {
		if inst.Opcode == spirv.OpConstant && inst.TypeID == typeID &&
			len(inst.InOperand(0).Words) == 1 && inst.SingleWordInOperand(0) == value {
			return inst.ResultID
		}
	}
	id := ctx.TakeNextID()
	if id == 0 {
		return 0
	}
	ctx.AddGlobalValue(spirv.NewInstruction(spirv.OpConstant, typeID, id,
		spirv.LiteralOperand(spirv.OperandLiteralContextNumber, value)))
	return id
}

// FindOrAddBoolConstant returns an OpConstantTrue/False of typeID, adding
// one if needed. It returns 0 when no id is left.
func (ctx *IRContext) FindOrAddBoolConstant(typeID spirv.ID, value bool) spirv.ID {
	op := spirv.OpConstantFalse
	if value {
		op = spirv.OpConstantTrue
	}
	for _, inst := range ctx.module.TypesValues {
		if inst.Opcode == op && inst.TypeID == typeID {
			return inst.ResultID
		}
	}
	id := ctx.TakeNextID()
	if id == 0 {
		return 0
	}
	ctx.AddGlobalValue(spirv.NewInstruction(op, typeID, id))
	return id
}

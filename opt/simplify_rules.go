package opt

import (
	"slices"

	"github.com/gogpu/spvopt/spirv"
)

type ruleFunc struct {
	name string
	fn   func(ctx *IRContext, inst *spirv.Instruction) (spirv.ID, bool)
}

func (r ruleFunc) Name() string { return r.name }

func (r ruleFunc) Apply(ctx *IRContext, inst *spirv.Instruction) (spirv.ID, bool) {
	return r.fn(ctx, inst)
}

// NewRule wraps fn as a Rule.
func NewRule(name string, fn func(ctx *IRContext, inst *spirv.Instruction) (spirv.ID, bool)) Rule {
	return ruleFunc{name: name, fn: fn}
}

// DefaultRules returns the built-in simplification rules.
func DefaultRules() []Rule {
	return []Rule{
		NewRule("fold-int-constants", foldIntConstants),
		NewRule("copy-object", forwardCopyObject),
		NewRule("redundant-phi", redundantPhi),
		NewRule("select", simplifySelect),
		NewRule("int-identity", intIdentity),
		NewRule("logical-identity", logicalIdentity),
		NewRule("double-negation", doubleNegation),
		NewRule("extract-of-construct", extractOfConstruct),
		NewRule("extract-of-insert", extractOfInsert),
	}
}

func forwardCopyObject(_ *IRContext, inst *spirv.Instruction) (spirv.ID, bool) {
	if inst.Opcode != spirv.OpCopyObject {
		return 0, false
	}
	return inst.IDInOperand(0), true
}

// redundantPhi replaces a phi whose incoming values are all one value, or
// the phi itself, with that value when it is available at the phi.
func redundantPhi(ctx *IRContext, inst *spirv.Instruction) (spirv.ID, bool) {
	if inst.Opcode != spirv.OpPhi {
		return 0, false
	}
	var value spirv.ID
	for k := 0; k < inst.NumInOperands(); k += 2 {
		v := inst.IDInOperand(k)
		if v == inst.ResultID || v == value {
			continue
		}
		if value != 0 {
			return 0, false
		}
		value = v
	}
	if value == 0 {
		return 0, false
	}
	def := ctx.DefUseManager().GetDef(value)
	if def == nil || !ctx.Dominates(def, inst) {
		return 0, false
	}
	return value, true
}

func simplifySelect(ctx *IRContext, inst *spirv.Instruction) (spirv.ID, bool) {
	if inst.Opcode != spirv.OpSelect {
		return 0, false
	}
	cond, accept, reject := inst.IDInOperand(0), inst.IDInOperand(1), inst.IDInOperand(2)
	if accept == reject {
		return accept, true
	}
	if value, ok := ctx.BoolConstant(cond); ok {
		if value {
			return accept, true
		}
		return reject, true
	}
	return 0, false
}

// isIntConst reports whether id is the 32-bit integer constant want.
func isIntConst(ctx *IRContext, id spirv.ID, want uint32) bool {
	v, ok := ctx.IntConstant(id)
	return ok && v == want
}

func intIdentity(ctx *IRContext, inst *spirv.Instruction) (spirv.ID, bool) {
	switch inst.Opcode {
	case spirv.OpIAdd, spirv.OpBitwiseXor, spirv.OpISub, spirv.OpShiftLeftLogical,
		spirv.OpShiftRightLogical, spirv.OpShiftRightArithmetic, spirv.OpIMul,
		spirv.OpUDiv, spirv.OpSDiv, spirv.OpBitwiseOr, spirv.OpBitwiseAnd:
	default:
		return 0, false
	}
	x, y := inst.IDInOperand(0), inst.IDInOperand(1)
	switch inst.Opcode {
	case spirv.OpIAdd, spirv.OpBitwiseXor:
		if isIntConst(ctx, y, 0) {
			return x, true
		}
		if isIntConst(ctx, x, 0) {
			return y, true
		}
	case spirv.OpISub, spirv.OpShiftLeftLogical, spirv.OpShiftRightLogical, spirv.OpShiftRightArithmetic:
		if isIntConst(ctx, y, 0) {
			return x, true
		}
	case spirv.OpIMul:
		if isIntConst(ctx, y, 1) {
			return x, true
		}
		if isIntConst(ctx, x, 1) {
			return y, true
		}
	case spirv.OpUDiv, spirv.OpSDiv:
		if isIntConst(ctx, y, 1) {
			return x, true
		}
	case spirv.OpBitwiseOr:
		if x == y || isIntConst(ctx, y, 0) {
			return x, true
		}
		if isIntConst(ctx, x, 0) {
			return y, true
		}
	case spirv.OpBitwiseAnd:
		if x == y || isIntConst(ctx, y, 0xFFFFFFFF) {
			return x, true
		}
		if isIntConst(ctx, x, 0xFFFFFFFF) {
			return y, true
		}
	}
	return 0, false
}

// isBoolConst reports whether id is the boolean constant want.
func isBoolConst(ctx *IRContext, id spirv.ID, want bool) bool {
	v, ok := ctx.BoolConstant(id)
	return ok && v == want
}

func logicalIdentity(ctx *IRContext, inst *spirv.Instruction) (spirv.ID, bool) {
	var neutral bool
	switch inst.Opcode {
	case spirv.OpLogicalAnd, spirv.OpLogicalEqual:
		neutral = true
	case spirv.OpLogicalOr, spirv.OpLogicalNotEqual:
		neutral = false
	default:
		return 0, false
	}
	x, y := inst.IDInOperand(0), inst.IDInOperand(1)
	idempotent := inst.Opcode == spirv.OpLogicalAnd || inst.Opcode == spirv.OpLogicalOr
	switch {
	case idempotent && x == y:
		return x, true
	case isBoolConst(ctx, y, neutral):
		return x, true
	case isBoolConst(ctx, x, neutral):
		return y, true
	}
	return 0, false
}

func doubleNegation(ctx *IRContext, inst *spirv.Instruction) (spirv.ID, bool) {
	switch inst.Opcode {
	case spirv.OpSNegate, spirv.OpFNegate, spirv.OpNot, spirv.OpLogicalNot:
	default:
		return 0, false
	}
	inner := ctx.DefUseManager().GetDef(inst.IDInOperand(0))
	if inner == nil || inner.Opcode != inst.Opcode {
		return 0, false
	}
	return inner.IDInOperand(0), true
}

// extractOfConstruct forwards a single-index extract from a composite built
// by OpCompositeConstruct with one constituent per element.
func extractOfConstruct(ctx *IRContext, inst *spirv.Instruction) (spirv.ID, bool) {
	if inst.Opcode != spirv.OpCompositeExtract || inst.NumInOperands() != 2 {
		return 0, false
	}
	defUse := ctx.DefUseManager()
	construct := defUse.GetDef(inst.IDInOperand(0))
	if construct == nil || construct.Opcode != spirv.OpCompositeConstruct {
		return 0, false
	}
	// A vector may be built from smaller vectors; elements and constituents
	// only line up when every constituent is a scalar.
	if t := defUse.GetDef(construct.TypeID); t == nil ||
		(t.Opcode == spirv.OpTypeVector && int(t.SingleWordInOperand(1)) != construct.NumInOperands()) {
		return 0, false
	}
	index := int(inst.SingleWordInOperand(1))
	if index >= construct.NumInOperands() {
		return 0, false
	}
	return construct.IDInOperand(index), true
}

// extractOfInsert forwards an extract reading exactly the element an
// OpCompositeInsert wrote.
func extractOfInsert(ctx *IRContext, inst *spirv.Instruction) (spirv.ID, bool) {
	if inst.Opcode != spirv.OpCompositeExtract {
		return 0, false
	}
	insert := ctx.DefUseManager().GetDef(inst.IDInOperand(0))
	if insert == nil || insert.Opcode != spirv.OpCompositeInsert {
		return 0, false
	}
	if !slices.EqualFunc(inst.Operands[1:], insert.Operands[2:], func(a, b spirv.Operand) bool {
		return a.Words[0] == b.Words[0]
	}) {
		return 0, false
	}
	return insert.IDInOperand(0), true
}

// foldIntConstants evaluates 32-bit integer arithmetic and comparisons on
// constant operands.
func foldIntConstants(ctx *IRContext, inst *spirv.Instruction) (spirv.ID, bool) {
	switch inst.Opcode {
	case spirv.OpIAdd, spirv.OpISub, spirv.OpIMul, spirv.OpBitwiseAnd, spirv.OpBitwiseOr,
		spirv.OpBitwiseXor, spirv.OpIEqual, spirv.OpINotEqual:
	default:
		return 0, false
	}
	a, okA := ctx.IntConstant(inst.IDInOperand(0))
	b, okB := ctx.IntConstant(inst.IDInOperand(1))
	if !okA || !okB {
		return 0, false
	}

	var value uint32
	switch inst.Opcode {
	case spirv.OpIEqual:
		return found(ctx.FindOrAddBoolConstant(inst.TypeID, a == b))
	case spirv.OpINotEqual:
		return found(ctx.FindOrAddBoolConstant(inst.TypeID, a != b))
	case spirv.OpIAdd:
		value = a + b
	case spirv.OpISub:
		value = a - b
	case spirv.OpIMul:
		value = a * b
	case spirv.OpBitwiseAnd:
		value = a & b
	case spirv.OpBitwiseOr:
		value = a | b
	case spirv.OpBitwiseXor:
		value = a ^ b
	}
	if !ctx.isInt32Type(inst.TypeID) {
		return 0, false
	}
	return found(ctx.FindOrAddIntConstant(inst.TypeID, value))
}

func found(id spirv.ID) (spirv.ID, bool) {
	return id, id != 0
}

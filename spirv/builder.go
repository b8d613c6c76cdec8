package spirv

import (
	"math"
)

// ModuleBuilder builds SPIR-V modules instruction by instruction. Ids are
// allocated sequentially starting at 1.
type ModuleBuilder struct {
	module *Module
	layout *moduleLayout
	err    error

	// ID allocation
	nextID ID
}

// NewModuleBuilder creates a new SPIR-V module builder.
func NewModuleBuilder(version Version) *ModuleBuilder {
	m := NewModule()
	m.Header.Version = version
	return &ModuleBuilder{
		module: m,
		layout: newModuleLayout(m),
		nextID: 1,
	}
}

// AllocID allocates a new SPIR-V ID.
func (b *ModuleBuilder) AllocID() ID {
	id := b.nextID
	b.nextID++
	return id
}

// emit creates an instruction whose in-operands are typed by the grammar and
// routes it into the module. The first layout error is kept for Module.
func (b *ModuleBuilder) emit(op OpCode, typeID, resultID ID, words ...uint32) *Instruction {
	inst := NewInstruction(op, typeID, resultID)
	appendWords(inst, words...)
	b.add(inst)
	return inst
}

func (b *ModuleBuilder) add(inst *Instruction) {
	if b.err != nil {
		return
	}
	b.err = b.layout.add(inst)
}

// appendWords appends single-word operands typed by the grammar.
func appendWords(inst *Instruction, words ...uint32) {
	for _, w := range words {
		t, ok := operandTypeAt(inst.Opcode, inst.Operands, len(inst.Operands))
		if !ok {
			t = OperandLiteralInteger
		}
		inst.Operands = append(inst.Operands, LiteralOperand(t, w))
	}
}

// AddInstruction routes an already built instruction into the module.
func (b *ModuleBuilder) AddInstruction(inst *Instruction) {
	b.add(inst)
}

// AddCapability adds a capability.
func (b *ModuleBuilder) AddCapability(capability Capability) {
	b.emit(OpCapability, 0, 0, uint32(capability))
}

// AddExtension adds an extension.
func (b *ModuleBuilder) AddExtension(name string) {
	b.add(NewInstruction(OpExtension, 0, 0, StringOperand(name)))
}

// AddExtInstImport imports an extended instruction set.
func (b *ModuleBuilder) AddExtInstImport(name string) ID {
	id := b.AllocID()
	b.add(NewInstruction(OpExtInstImport, 0, id, StringOperand(name)))
	return id
}

// SetMemoryModel sets the memory model.
func (b *ModuleBuilder) SetMemoryModel(addressing AddressingModel, memory MemoryModel) {
	b.emit(OpMemoryModel, 0, 0, uint32(addressing), uint32(memory))
}

// AddEntryPoint adds an entry point.
func (b *ModuleBuilder) AddEntryPoint(execModel ExecutionModel, funcID ID, name string, interfaces []ID) {
	inst := NewInstruction(OpEntryPoint, 0, 0,
		LiteralOperand(OperandExecutionModel, uint32(execModel)),
		IDOperand(funcID),
		StringOperand(name))
	for _, iface := range interfaces {
		inst.AddOperand(IDOperand(iface))
	}
	b.add(inst)
}

// AddExecutionMode adds an execution mode.
func (b *ModuleBuilder) AddExecutionMode(entryPoint ID, mode ExecutionMode, params ...uint32) {
	b.emit(OpExecutionMode, 0, 0, append([]uint32{uint32(entryPoint), uint32(mode)}, params...)...)
}

// AddName adds a debug name.
func (b *ModuleBuilder) AddName(id ID, name string) {
	b.add(NewInstruction(OpName, 0, 0, IDOperand(id), StringOperand(name)))
}

// AddMemberName adds a debug member name.
func (b *ModuleBuilder) AddMemberName(structID ID, member uint32, name string) {
	b.add(NewInstruction(OpMemberName, 0, 0,
		IDOperand(structID), LiteralOperand(OperandLiteralInteger, member), StringOperand(name)))
}

// AddDecorate adds a decoration.
func (b *ModuleBuilder) AddDecorate(id ID, decoration Decoration, params ...uint32) {
	b.emit(OpDecorate, 0, 0, append([]uint32{uint32(id), uint32(decoration)}, params...)...)
}

// AddMemberDecorate adds a member decoration.
func (b *ModuleBuilder) AddMemberDecorate(structID ID, member uint32, decoration Decoration, params ...uint32) {
	b.emit(OpMemberDecorate, 0, 0, append([]uint32{uint32(structID), member, uint32(decoration)}, params...)...)
}

// AddLinkageAttributes decorates id with a linkage name and type.
func (b *ModuleBuilder) AddLinkageAttributes(id ID, name string, linkage LinkageType) {
	b.add(NewInstruction(OpDecorate, 0, 0,
		IDOperand(id),
		LiteralOperand(OperandDecoration, uint32(DecorationLinkageAttributes)),
		StringOperand(name),
		LiteralOperand(OperandLinkageType, uint32(linkage))))
}

// AddTypeVoid adds OpTypeVoid.
func (b *ModuleBuilder) AddTypeVoid() ID {
	id := b.AllocID()
	b.emit(OpTypeVoid, 0, id)
	return id
}

// AddTypeBool adds OpTypeBool.
func (b *ModuleBuilder) AddTypeBool() ID {
	id := b.AllocID()
	b.emit(OpTypeBool, 0, id)
	return id
}

// AddTypeFloat adds OpTypeFloat.
func (b *ModuleBuilder) AddTypeFloat(width uint32) ID {
	id := b.AllocID()
	b.emit(OpTypeFloat, 0, id, width)
	return id
}

// AddTypeInt adds OpTypeInt.
func (b *ModuleBuilder) AddTypeInt(width uint32, signed bool) ID {
	id := b.AllocID()
	var signedness uint32
	if signed {
		signedness = 1
	}
	b.emit(OpTypeInt, 0, id, width, signedness)
	return id
}

// AddTypeVector adds OpTypeVector.
func (b *ModuleBuilder) AddTypeVector(componentType ID, count uint32) ID {
	id := b.AllocID()
	b.emit(OpTypeVector, 0, id, uint32(componentType), count)
	return id
}

// AddTypePointer adds OpTypePointer.
func (b *ModuleBuilder) AddTypePointer(storageClass StorageClass, baseType ID) ID {
	id := b.AllocID()
	b.emit(OpTypePointer, 0, id, uint32(storageClass), uint32(baseType))
	return id
}

// AddTypeFunction adds OpTypeFunction.
func (b *ModuleBuilder) AddTypeFunction(returnType ID, paramTypes ...ID) ID {
	id := b.AllocID()
	b.emit(OpTypeFunction, 0, id, idWords(returnType, paramTypes...)...)
	return id
}

// AddTypeStruct adds OpTypeStruct.
func (b *ModuleBuilder) AddTypeStruct(memberTypes ...ID) ID {
	id := b.AllocID()
	b.emit(OpTypeStruct, 0, id, idWords(0, memberTypes...)[1:]...)
	return id
}

// AddConstant adds OpConstant with raw literal words.
func (b *ModuleBuilder) AddConstant(typeID ID, values ...uint32) ID {
	id := b.AllocID()
	b.add(NewInstruction(OpConstant, typeID, id, Operand{
		Type:  OperandLiteralContextNumber,
		Words: append([]uint32(nil), values...),
	}))
	return id
}

// AddConstantFloat32 adds a 32-bit float constant.
func (b *ModuleBuilder) AddConstantFloat32(typeID ID, value float32) ID {
	return b.AddConstant(typeID, math.Float32bits(value))
}

// AddConstantBool adds OpConstantTrue or OpConstantFalse.
func (b *ModuleBuilder) AddConstantBool(typeID ID, value bool) ID {
	id := b.AllocID()
	op := OpConstantFalse
	if value {
		op = OpConstantTrue
	}
	b.emit(op, typeID, id)
	return id
}

// AddConstantComposite adds OpConstantComposite.
func (b *ModuleBuilder) AddConstantComposite(typeID ID, constituents ...ID) ID {
	id := b.AllocID()
	b.emit(OpConstantComposite, typeID, id, idWords(0, constituents...)[1:]...)
	return id
}

// AddVariable adds OpVariable. Global variables land in the types section,
// function variables in the current block.
func (b *ModuleBuilder) AddVariable(pointerType ID, storageClass StorageClass) ID {
	id := b.AllocID()
	b.emit(OpVariable, pointerType, id, uint32(storageClass))
	return id
}

// AddFunction adds OpFunction and opens a function body.
func (b *ModuleBuilder) AddFunction(funcType ID, returnType ID, control FunctionControl) ID {
	id := b.AllocID()
	b.emit(OpFunction, returnType, id, uint32(control), uint32(funcType))
	return id
}

// AddFunctionParameter adds OpFunctionParameter.
func (b *ModuleBuilder) AddFunctionParameter(typeID ID) ID {
	id := b.AllocID()
	b.emit(OpFunctionParameter, typeID, id)
	return id
}

// AddLabel adds OpLabel, opening a new block.
func (b *ModuleBuilder) AddLabel() ID {
	id := b.AllocID()
	b.emit(OpLabel, 0, id)
	return id
}

// AddLabelID adds OpLabel with a preallocated id.
func (b *ModuleBuilder) AddLabelID(id ID) {
	b.emit(OpLabel, 0, id)
}

// AddReturn adds OpReturn.
func (b *ModuleBuilder) AddReturn() {
	b.emit(OpReturn, 0, 0)
}

// AddReturnValue adds OpReturnValue.
func (b *ModuleBuilder) AddReturnValue(valueID ID) {
	b.emit(OpReturnValue, 0, 0, uint32(valueID))
}

// AddFunctionEnd adds OpFunctionEnd.
func (b *ModuleBuilder) AddFunctionEnd() {
	b.emit(OpFunctionEnd, 0, 0)
}

// AddBinaryOp adds a binary operation.
func (b *ModuleBuilder) AddBinaryOp(opcode OpCode, resultType ID, left ID, right ID) ID {
	id := b.AllocID()
	b.emit(opcode, resultType, id, uint32(left), uint32(right))
	return id
}

// AddUnaryOp adds a unary operation.
func (b *ModuleBuilder) AddUnaryOp(opcode OpCode, resultType ID, operand ID) ID {
	id := b.AllocID()
	b.emit(opcode, resultType, id, uint32(operand))
	return id
}

// AddLoad adds OpLoad.
func (b *ModuleBuilder) AddLoad(resultType ID, pointer ID) ID {
	id := b.AllocID()
	b.emit(OpLoad, resultType, id, uint32(pointer))
	return id
}

// AddStore adds OpStore.
func (b *ModuleBuilder) AddStore(pointer ID, value ID) {
	b.emit(OpStore, 0, 0, uint32(pointer), uint32(value))
}

// AddCompositeConstruct adds OpCompositeConstruct.
func (b *ModuleBuilder) AddCompositeConstruct(resultType ID, constituents ...ID) ID {
	id := b.AllocID()
	b.emit(OpCompositeConstruct, resultType, id, idWords(0, constituents...)[1:]...)
	return id
}

// AddCompositeExtract adds OpCompositeExtract.
func (b *ModuleBuilder) AddCompositeExtract(resultType ID, composite ID, indices ...uint32) ID {
	id := b.AllocID()
	b.emit(OpCompositeExtract, resultType, id, append([]uint32{uint32(composite)}, indices...)...)
	return id
}

// AddSelect adds OpSelect.
func (b *ModuleBuilder) AddSelect(resultType ID, condition ID, accept ID, reject ID) ID {
	id := b.AllocID()
	b.emit(OpSelect, resultType, id, uint32(condition), uint32(accept), uint32(reject))
	return id
}

// AddPhi adds OpPhi from (value, parent block) pairs.
func (b *ModuleBuilder) AddPhi(resultType ID, pairs ...ID) ID {
	id := b.AllocID()
	b.emit(OpPhi, resultType, id, idWords(0, pairs...)[1:]...)
	return id
}

// AddSelectionMerge adds OpSelectionMerge.
func (b *ModuleBuilder) AddSelectionMerge(mergeLabel ID, control SelectionControl) {
	b.emit(OpSelectionMerge, 0, 0, uint32(mergeLabel), uint32(control))
}

// AddLoopMerge adds OpLoopMerge.
func (b *ModuleBuilder) AddLoopMerge(mergeLabel ID, continueLabel ID, control LoopControl) {
	b.emit(OpLoopMerge, 0, 0, uint32(mergeLabel), uint32(continueLabel), uint32(control))
}

// AddBranch adds OpBranch.
func (b *ModuleBuilder) AddBranch(target ID) {
	b.emit(OpBranch, 0, 0, uint32(target))
}

// AddBranchConditional adds OpBranchConditional.
func (b *ModuleBuilder) AddBranchConditional(condition ID, trueLabel ID, falseLabel ID) {
	b.emit(OpBranchConditional, 0, 0, uint32(condition), uint32(trueLabel), uint32(falseLabel))
}

// AddKill adds OpKill.
func (b *ModuleBuilder) AddKill() {
	b.emit(OpKill, 0, 0)
}

// Module finishes the build and returns the module.
func (b *ModuleBuilder) Module() (*Module, error) {
	if b.err != nil {
		return nil, b.err
	}
	if err := b.layout.finish(); err != nil {
		return nil, err
	}
	b.module.Header.Bound = uint32(b.nextID)
	return b.module, nil
}

// Build finishes the build and encodes the module.
func (b *ModuleBuilder) Build() ([]byte, error) {
	m, err := b.Module()
	if err != nil {
		return nil, err
	}
	return Encode(m), nil
}

func idWords(first ID, rest ...ID) []uint32 {
	words := make([]uint32, 0, len(rest)+1)
	words = append(words, uint32(first))
	for _, id := range rest {
		words = append(words, uint32(id))
	}
	return words
}

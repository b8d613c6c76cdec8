package spirv

// OperandType classifies an in-operand for decoding and printing.
type OperandType uint8

// Operand types
const (
	OperandID OperandType = iota
	OperandLiteralInteger
	OperandLiteralString
	// OperandLiteralContextNumber is a literal whose width is given by the
	// instruction's result type (OpConstant, OpSpecConstant).
	OperandLiteralContextNumber
	OperandCapability
	OperandStorageClass
	OperandDecoration
	OperandBuiltIn
	OperandLinkageType
	OperandExecutionMode
	OperandExecutionModel
	OperandAddressingModel
	OperandMemoryModel
	OperandSourceLanguage
	OperandDim
	OperandImageFormat
	OperandAccessQualifier
	OperandFunctionControl
	OperandSelectionControl
	OperandLoopControl
	OperandMemoryAccess
	OperandImageOperands

	operandTypeCount
)

// opInfo describes the layout of one opcode.
type opInfo struct {
	name      string
	hasType   bool
	hasResult bool
	operands  []OperandType
	// required is the number of leading operands that must be present;
	// -1 means all of them.
	required int
	// repeat is a group of operand types that may follow the fixed operands
	// any number of times.
	repeat []OperandType
	// decorating marks instructions whose trailing operands depend on the
	// decoration operand.
	decorating bool
}

func stmt(name string, operands ...OperandType) opInfo {
	return opInfo{name: name, operands: operands, required: -1}
}

func decl(name string, operands ...OperandType) opInfo {
	info := stmt(name, operands...)
	info.hasResult = true
	return info
}

func expr(name string, operands ...OperandType) opInfo {
	info := decl(name, operands...)
	info.hasType = true
	return info
}

func (o opInfo) optionalFrom(n int) opInfo {
	o.required = n
	return o
}

func (o opInfo) repeating(types ...OperandType) opInfo {
	o.repeat = types
	return o
}

func (o opInfo) decorates() opInfo {
	o.decorating = true
	return o
}

func (o opInfo) numRequired() int {
	if o.required < 0 {
		return len(o.operands)
	}
	return o.required
}

const (
	tID  = OperandID
	tLit = OperandLiteralInteger
	tStr = OperandLiteralString
)

func unary(name string) opInfo { return expr(name, tID) }
func binop(name string) opInfo { return expr(name, tID, tID) }

var grammar = map[OpCode]opInfo{
	OpNop:             stmt("OpNop"),
	OpUndef:           expr("OpUndef"),
	OpSourceContinued: stmt("OpSourceContinued", tStr),
	OpSource:          stmt("OpSource", OperandSourceLanguage, tLit, tID, tStr).optionalFrom(2),
	OpSourceExtension: stmt("OpSourceExtension", tStr),
	OpName:            stmt("OpName", tID, tStr),
	OpMemberName:      stmt("OpMemberName", tID, tLit, tStr),
	OpString:          decl("OpString", tStr),
	OpLine:            stmt("OpLine", tID, tLit, tLit),
	OpNoLine:          stmt("OpNoLine"),
	OpModuleProcessed: stmt("OpModuleProcessed", tStr),
	OpExtension:       stmt("OpExtension", tStr),
	OpExtInstImport:   decl("OpExtInstImport", tStr),
	OpExtInst:         expr("OpExtInst", tID, tLit).repeating(tID),
	OpMemoryModel:     stmt("OpMemoryModel", OperandAddressingModel, OperandMemoryModel),
	OpEntryPoint:      stmt("OpEntryPoint", OperandExecutionModel, tID, tStr).repeating(tID),
	OpExecutionMode:   stmt("OpExecutionMode", tID, OperandExecutionMode).repeating(tLit),
	OpExecutionModeID: stmt("OpExecutionModeId", tID, OperandExecutionMode).repeating(tID),
	OpCapability:      stmt("OpCapability", OperandCapability),

	OpTypeVoid:         decl("OpTypeVoid"),
	OpTypeBool:         decl("OpTypeBool"),
	OpTypeInt:          decl("OpTypeInt", tLit, tLit),
	OpTypeFloat:        decl("OpTypeFloat", tLit),
	OpTypeVector:       decl("OpTypeVector", tID, tLit),
	OpTypeMatrix:       decl("OpTypeMatrix", tID, tLit),
	OpTypeImage:        decl("OpTypeImage", tID, OperandDim, tLit, tLit, tLit, tLit, OperandImageFormat, OperandAccessQualifier).optionalFrom(7),
	OpTypeSampler:      decl("OpTypeSampler"),
	OpTypeSampledImage: decl("OpTypeSampledImage", tID),
	OpTypeArray:        decl("OpTypeArray", tID, tID),
	OpTypeRuntimeArray: decl("OpTypeRuntimeArray", tID),
	OpTypeStruct:       decl("OpTypeStruct").repeating(tID),
	OpTypeOpaque:       decl("OpTypeOpaque", tStr),
	OpTypePointer:      decl("OpTypePointer", OperandStorageClass, tID),
	OpTypeFunction:     decl("OpTypeFunction", tID).repeating(tID),

	OpConstantTrue:          expr("OpConstantTrue"),
	OpConstantFalse:         expr("OpConstantFalse"),
	OpConstant:              expr("OpConstant", OperandLiteralContextNumber),
	OpConstantComposite:     expr("OpConstantComposite").repeating(tID),
	OpConstantSampler:       expr("OpConstantSampler", tLit, tLit, tLit),
	OpConstantNull:          expr("OpConstantNull"),
	OpSpecConstantTrue:      expr("OpSpecConstantTrue"),
	OpSpecConstantFalse:     expr("OpSpecConstantFalse"),
	OpSpecConstant:          expr("OpSpecConstant", OperandLiteralContextNumber),
	OpSpecConstantComposite: expr("OpSpecConstantComposite").repeating(tID),
	OpSpecConstantOp:        expr("OpSpecConstantOp", tLit).repeating(tID),

	OpFunction:          expr("OpFunction", OperandFunctionControl, tID),
	OpFunctionParameter: expr("OpFunctionParameter"),
	OpFunctionEnd:       stmt("OpFunctionEnd"),
	OpFunctionCall:      expr("OpFunctionCall", tID).repeating(tID),

	OpVariable:            expr("OpVariable", OperandStorageClass, tID).optionalFrom(1),
	OpImageTexelPointer:   expr("OpImageTexelPointer", tID, tID, tID),
	OpLoad:                expr("OpLoad", tID, OperandMemoryAccess).optionalFrom(1).repeating(tLit),
	OpStore:               stmt("OpStore", tID, tID, OperandMemoryAccess).optionalFrom(2).repeating(tLit),
	OpCopyMemory:          stmt("OpCopyMemory", tID, tID, OperandMemoryAccess).optionalFrom(2).repeating(tLit),
	OpAccessChain:         expr("OpAccessChain", tID).repeating(tID),
	OpInBoundsAccessChain: expr("OpInBoundsAccessChain", tID).repeating(tID),
	OpPtrAccessChain:      expr("OpPtrAccessChain", tID, tID).repeating(tID),
	OpArrayLength:         expr("OpArrayLength", tID, tLit),

	OpDecorate:             stmt("OpDecorate", tID, OperandDecoration).decorates(),
	OpMemberDecorate:       stmt("OpMemberDecorate", tID, tLit, OperandDecoration).decorates(),
	OpDecorationGroup:      decl("OpDecorationGroup"),
	OpGroupDecorate:        stmt("OpGroupDecorate", tID).repeating(tID),
	OpGroupMemberDecorate:  stmt("OpGroupMemberDecorate", tID).repeating(tID, tLit),
	OpDecorateID:           stmt("OpDecorateId", tID, OperandDecoration).repeating(tID),
	OpDecorateString:       stmt("OpDecorateString", tID, OperandDecoration).decorates(),
	OpMemberDecorateString: stmt("OpMemberDecorateString", tID, tLit, OperandDecoration).decorates(),

	OpVectorExtractDynamic: binop("OpVectorExtractDynamic"),
	OpVectorInsertDynamic:  expr("OpVectorInsertDynamic", tID, tID, tID),
	OpVectorShuffle:        expr("OpVectorShuffle", tID, tID).repeating(tLit),
	OpCompositeConstruct:   expr("OpCompositeConstruct").repeating(tID),
	OpCompositeExtract:     expr("OpCompositeExtract", tID).repeating(tLit),
	OpCompositeInsert:      expr("OpCompositeInsert", tID, tID).repeating(tLit),
	OpCopyObject:           unary("OpCopyObject"),
	OpTranspose:            unary("OpTranspose"),

	OpSampledImage:           binop("OpSampledImage"),
	OpImageSampleImplicitLod: expr("OpImageSampleImplicitLod", tID, tID, OperandImageOperands).optionalFrom(2).repeating(tID),
	OpImageSampleExplicitLod: expr("OpImageSampleExplicitLod", tID, tID, OperandImageOperands).repeating(tID),
	OpImageFetch:             expr("OpImageFetch", tID, tID, OperandImageOperands).optionalFrom(2).repeating(tID),
	OpImageGather:            expr("OpImageGather", tID, tID, tID, OperandImageOperands).optionalFrom(3).repeating(tID),
	OpImageRead:              expr("OpImageRead", tID, tID, OperandImageOperands).optionalFrom(2).repeating(tID),
	OpImageWrite:             stmt("OpImageWrite", tID, tID, tID, OperandImageOperands).optionalFrom(3).repeating(tID),
	OpImage:                  unary("OpImage"),
	OpImageQuerySizeLod:      binop("OpImageQuerySizeLod"),
	OpImageQuerySize:         unary("OpImageQuerySize"),
	OpImageQueryLevels:       unary("OpImageQueryLevels"),
	OpImageQuerySamples:      unary("OpImageQuerySamples"),

	OpConvertFToU:   unary("OpConvertFToU"),
	OpConvertFToS:   unary("OpConvertFToS"),
	OpConvertSToF:   unary("OpConvertSToF"),
	OpConvertUToF:   unary("OpConvertUToF"),
	OpUConvert:      unary("OpUConvert"),
	OpSConvert:      unary("OpSConvert"),
	OpFConvert:      unary("OpFConvert"),
	OpQuantizeToF16: unary("OpQuantizeToF16"),
	OpBitcast:       unary("OpBitcast"),

	OpSNegate:           unary("OpSNegate"),
	OpFNegate:           unary("OpFNegate"),
	OpIAdd:              binop("OpIAdd"),
	OpFAdd:              binop("OpFAdd"),
	OpISub:              binop("OpISub"),
	OpFSub:              binop("OpFSub"),
	OpIMul:              binop("OpIMul"),
	OpFMul:              binop("OpFMul"),
	OpUDiv:              binop("OpUDiv"),
	OpSDiv:              binop("OpSDiv"),
	OpFDiv:              binop("OpFDiv"),
	OpUMod:              binop("OpUMod"),
	OpSRem:              binop("OpSRem"),
	OpSMod:              binop("OpSMod"),
	OpFRem:              binop("OpFRem"),
	OpFMod:              binop("OpFMod"),
	OpVectorTimesScalar: binop("OpVectorTimesScalar"),
	OpMatrixTimesScalar: binop("OpMatrixTimesScalar"),
	OpVectorTimesMatrix: binop("OpVectorTimesMatrix"),
	OpMatrixTimesVector: binop("OpMatrixTimesVector"),
	OpMatrixTimesMatrix: binop("OpMatrixTimesMatrix"),
	OpOuterProduct:      binop("OpOuterProduct"),
	OpDot:               binop("OpDot"),
	OpAny:               unary("OpAny"),
	OpAll:               unary("OpAll"),
	OpIsNan:             unary("OpIsNan"),
	OpIsInf:             unary("OpIsInf"),

	OpLogicalEqual:           binop("OpLogicalEqual"),
	OpLogicalNotEqual:        binop("OpLogicalNotEqual"),
	OpLogicalOr:              binop("OpLogicalOr"),
	OpLogicalAnd:             binop("OpLogicalAnd"),
	OpLogicalNot:             unary("OpLogicalNot"),
	OpSelect:                 expr("OpSelect", tID, tID, tID),
	OpIEqual:                 binop("OpIEqual"),
	OpINotEqual:              binop("OpINotEqual"),
	OpUGreaterThan:           binop("OpUGreaterThan"),
	OpSGreaterThan:           binop("OpSGreaterThan"),
	OpUGreaterThanEqual:      binop("OpUGreaterThanEqual"),
	OpSGreaterThanEqual:      binop("OpSGreaterThanEqual"),
	OpULessThan:              binop("OpULessThan"),
	OpSLessThan:              binop("OpSLessThan"),
	OpULessThanEqual:         binop("OpULessThanEqual"),
	OpSLessThanEqual:         binop("OpSLessThanEqual"),
	OpFOrdEqual:              binop("OpFOrdEqual"),
	OpFUnordEqual:            binop("OpFUnordEqual"),
	OpFOrdNotEqual:           binop("OpFOrdNotEqual"),
	OpFUnordNotEqual:         binop("OpFUnordNotEqual"),
	OpFOrdLessThan:           binop("OpFOrdLessThan"),
	OpFUnordLessThan:         binop("OpFUnordLessThan"),
	OpFOrdGreaterThan:        binop("OpFOrdGreaterThan"),
	OpFUnordGreaterThan:      binop("OpFUnordGreaterThan"),
	OpFOrdLessThanEqual:      binop("OpFOrdLessThanEqual"),
	OpFUnordLessThanEqual:    binop("OpFUnordLessThanEqual"),
	OpFOrdGreaterThanEqual:   binop("OpFOrdGreaterThanEqual"),
	OpFUnordGreaterThanEqual: binop("OpFUnordGreaterThanEqual"),

	OpShiftRightLogical:    binop("OpShiftRightLogical"),
	OpShiftRightArithmetic: binop("OpShiftRightArithmetic"),
	OpShiftLeftLogical:     binop("OpShiftLeftLogical"),
	OpBitwiseOr:            binop("OpBitwiseOr"),
	OpBitwiseXor:           binop("OpBitwiseXor"),
	OpBitwiseAnd:           binop("OpBitwiseAnd"),
	OpNot:                  unary("OpNot"),
	OpBitFieldInsert:       expr("OpBitFieldInsert", tID, tID, tID, tID),
	OpBitFieldSExtract:     expr("OpBitFieldSExtract", tID, tID, tID),
	OpBitFieldUExtract:     expr("OpBitFieldUExtract", tID, tID, tID),
	OpBitReverse:           unary("OpBitReverse"),
	OpBitCount:             unary("OpBitCount"),
	OpDPdx:                 unary("OpDPdx"),
	OpDPdy:                 unary("OpDPdy"),
	OpFwidth:               unary("OpFwidth"),

	OpControlBarrier:        stmt("OpControlBarrier", tID, tID, tID),
	OpMemoryBarrier:         stmt("OpMemoryBarrier", tID, tID),
	OpAtomicLoad:            expr("OpAtomicLoad", tID, tID, tID),
	OpAtomicStore:           stmt("OpAtomicStore", tID, tID, tID, tID),
	OpAtomicExchange:        expr("OpAtomicExchange", tID, tID, tID, tID),
	OpAtomicCompareExchange: expr("OpAtomicCompareExchange", tID, tID, tID, tID, tID, tID),
	OpAtomicIIncrement:      expr("OpAtomicIIncrement", tID, tID, tID),
	OpAtomicIDecrement:      expr("OpAtomicIDecrement", tID, tID, tID),
	OpAtomicIAdd:            expr("OpAtomicIAdd", tID, tID, tID, tID),
	OpAtomicISub:            expr("OpAtomicISub", tID, tID, tID, tID),
	OpAtomicSMin:            expr("OpAtomicSMin", tID, tID, tID, tID),
	OpAtomicUMin:            expr("OpAtomicUMin", tID, tID, tID, tID),
	OpAtomicSMax:            expr("OpAtomicSMax", tID, tID, tID, tID),
	OpAtomicUMax:            expr("OpAtomicUMax", tID, tID, tID, tID),
	OpAtomicAnd:             expr("OpAtomicAnd", tID, tID, tID, tID),
	OpAtomicOr:              expr("OpAtomicOr", tID, tID, tID, tID),
	OpAtomicXor:             expr("OpAtomicXor", tID, tID, tID, tID),

	OpPhi:               expr("OpPhi").repeating(tID, tID),
	OpLoopMerge:         stmt("OpLoopMerge", tID, tID, OperandLoopControl).repeating(tLit),
	OpSelectionMerge:    stmt("OpSelectionMerge", tID, OperandSelectionControl),
	OpLabel:             decl("OpLabel"),
	OpBranch:            stmt("OpBranch", tID),
	OpBranchConditional: stmt("OpBranchConditional", tID, tID, tID).repeating(tLit),
	OpSwitch:            stmt("OpSwitch", tID, tID).repeating(tLit, tID),
	OpKill:              stmt("OpKill"),
	OpReturn:            stmt("OpReturn"),
	OpReturnValue:       stmt("OpReturnValue", tID),
	OpUnreachable:       stmt("OpUnreachable"),
}

// HasResultType reports whether op carries a result type id.
func (op OpCode) HasResultType() bool {
	info, ok := grammar[op]
	return ok && info.hasType
}

// HasResultID reports whether op defines a result id.
func (op OpCode) HasResultID() bool {
	info, ok := grammar[op]
	return ok && info.hasResult
}

// OperandLayout returns the in-operand types of op: the operands that must
// be present, the optional ones that may follow them, and the group that may
// then repeat any number of times. The slices are shared and must not be
// modified.
func (op OpCode) OperandLayout() (required, optional, repeat []OperandType) {
	info, ok := grammar[op]
	if !ok {
		return nil, nil, nil
	}
	n := info.numRequired()
	return info.operands[:n:n], info.operands[n:], info.repeat
}

// decorationParams returns the parameter types following a decoration
// operand. A nil result means "any number of literal words".
func decorationParams(op OpCode, d Decoration) []OperandType {
	switch {
	case d == DecorationBuiltIn:
		return []OperandType{OperandBuiltIn}
	case d == DecorationLinkageAttributes:
		return []OperandType{tStr, OperandLinkageType}
	case op == OpDecorateString || op == OpMemberDecorateString:
		return []OperandType{tStr}
	}
	return nil
}

// operandTypeAt returns the type of in-operand i of an instruction with
// opcode op whose earlier operands are prev. ok is false when the grammar
// allows no operand at position i.
func operandTypeAt(op OpCode, prev []Operand, i int) (t OperandType, ok bool) {
	info, found := grammar[op]
	if !found {
		return 0, false
	}
	if i < len(info.operands) {
		return info.operands[i], true
	}
	rest := i - len(info.operands)
	if info.decorating {
		var dec Decoration
		for _, p := range prev {
			if p.Type == OperandDecoration && len(p.Words) > 0 {
				dec = Decoration(p.Words[0])
			}
		}
		params := decorationParams(op, dec)
		if params == nil {
			return tLit, true
		}
		if rest < len(params) {
			return params[rest], true
		}
		return 0, false
	}
	if len(info.repeat) == 0 {
		return 0, false
	}
	return info.repeat[rest%len(info.repeat)], true
}

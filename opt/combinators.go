package opt

import "github.com/gogpu/spvopt/spirv"

// combinatorOps lists the core opcodes whose result depends only on their
// operands and which have no side effects.
var combinatorOps = opcodeSet(
	spirv.OpNop, spirv.OpUndef,
	spirv.OpConstant, spirv.OpConstantTrue, spirv.OpConstantFalse,
	spirv.OpConstantComposite, spirv.OpConstantSampler, spirv.OpConstantNull,
	spirv.OpTypeVoid, spirv.OpTypeBool, spirv.OpTypeInt, spirv.OpTypeFloat,
	spirv.OpTypeVector, spirv.OpTypeMatrix, spirv.OpTypeImage, spirv.OpTypeSampler,
	spirv.OpTypeSampledImage, spirv.OpTypeArray, spirv.OpTypeRuntimeArray,
	spirv.OpTypeStruct, spirv.OpTypeOpaque, spirv.OpTypePointer, spirv.OpTypeFunction,
	spirv.OpVariable, spirv.OpImageTexelPointer, spirv.OpLoad,
	spirv.OpAccessChain, spirv.OpInBoundsAccessChain, spirv.OpArrayLength,
	spirv.OpVectorExtractDynamic, spirv.OpVectorInsertDynamic, spirv.OpVectorShuffle,
	spirv.OpCompositeConstruct, spirv.OpCompositeExtract, spirv.OpCompositeInsert,
	spirv.OpCopyObject, spirv.OpTranspose, spirv.OpSampledImage,
	spirv.OpImageSampleImplicitLod, spirv.OpImageSampleExplicitLod, spirv.OpImageFetch,
	spirv.OpImageGather, spirv.OpImageRead, spirv.OpImage,
	spirv.OpImageQuerySizeLod, spirv.OpImageQuerySize, spirv.OpImageQueryLevels,
	spirv.OpImageQuerySamples,
	spirv.OpConvertFToU, spirv.OpConvertFToS, spirv.OpConvertSToF, spirv.OpConvertUToF,
	spirv.OpUConvert, spirv.OpSConvert, spirv.OpFConvert, spirv.OpQuantizeToF16,
	spirv.OpBitcast,
	spirv.OpSNegate, spirv.OpFNegate, spirv.OpIAdd, spirv.OpFAdd,
	spirv.OpISub, spirv.OpFSub, spirv.OpIMul, spirv.OpFMul,
	spirv.OpUDiv, spirv.OpSDiv, spirv.OpFDiv, spirv.OpUMod,
	spirv.OpSRem, spirv.OpSMod, spirv.OpFRem, spirv.OpFMod,
	spirv.OpVectorTimesScalar, spirv.OpMatrixTimesScalar, spirv.OpVectorTimesMatrix,
	spirv.OpMatrixTimesVector, spirv.OpMatrixTimesMatrix, spirv.OpOuterProduct,
	spirv.OpDot, spirv.OpAny, spirv.OpAll, spirv.OpIsNan, spirv.OpIsInf,
	spirv.OpLogicalEqual, spirv.OpLogicalNotEqual, spirv.OpLogicalOr,
	spirv.OpLogicalAnd, spirv.OpLogicalNot, spirv.OpSelect,
	spirv.OpIEqual, spirv.OpINotEqual,
	spirv.OpUGreaterThan, spirv.OpSGreaterThan, spirv.OpUGreaterThanEqual,
	spirv.OpSGreaterThanEqual, spirv.OpULessThan, spirv.OpSLessThan,
	spirv.OpULessThanEqual, spirv.OpSLessThanEqual,
	spirv.OpFOrdEqual, spirv.OpFUnordEqual, spirv.OpFOrdNotEqual,
	spirv.OpFUnordNotEqual, spirv.OpFOrdLessThan, spirv.OpFUnordLessThan,
	spirv.OpFOrdGreaterThan, spirv.OpFUnordGreaterThan, spirv.OpFOrdLessThanEqual,
	spirv.OpFUnordLessThanEqual, spirv.OpFOrdGreaterThanEqual, spirv.OpFUnordGreaterThanEqual,
	spirv.OpShiftRightLogical, spirv.OpShiftRightArithmetic, spirv.OpShiftLeftLogical,
	spirv.OpBitwiseOr, spirv.OpBitwiseXor, spirv.OpBitwiseAnd, spirv.OpNot,
	spirv.OpBitFieldInsert, spirv.OpBitFieldSExtract, spirv.OpBitFieldUExtract,
	spirv.OpBitReverse, spirv.OpBitCount,
	spirv.OpPhi,
)

func opcodeSet(ops ...spirv.OpCode) map[spirv.OpCode]bool {
	set := make(map[spirv.OpCode]bool, len(ops))
	for _, op := range ops {
		set[op] = true
	}
	return set
}

// combinatorSet is the combinator analysis: the opcode set in effect for
// one module. Combinators are only defined for shader modules.
type combinatorSet struct {
	enabled bool
}

func newCombinatorSet(m *spirv.Module) *combinatorSet {
	return &combinatorSet{enabled: m.HasCapability(spirv.CapabilityShader)}
}

func (c *combinatorSet) contains(op spirv.OpCode) bool {
	return c.enabled && combinatorOps[op]
}

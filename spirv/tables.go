package spirv

import "strconv"

// Static name tables used by the assembler and disassembler. They are
// read-only after package initialization.

var capabilityNames = map[uint32]string{
	0: "Matrix", 1: "Shader", 2: "Geometry", 3: "Tessellation",
	4: "Addresses", 5: "Linkage", 6: "Kernel", 7: "Vector16",
	8: "Float16Buffer", 9: "Float16", 10: "Float64", 11: "Int64",
	12: "Int64Atomics", 13: "ImageBasic", 14: "ImageReadWrite", 15: "ImageMipmap",
	17: "Pipes", 18: "Groups", 19: "DeviceEnqueue", 20: "LiteralSampler",
	21: "AtomicStorage", 22: "Int16", 23: "TessellationPointSize",
	24: "GeometryPointSize", 25: "ImageGatherExtended", 27: "StorageImageMultisample",
	28: "UniformBufferArrayDynamicIndexing", 29: "SampledImageArrayDynamicIndexing",
	30: "StorageBufferArrayDynamicIndexing", 31: "StorageImageArrayDynamicIndexing",
	32: "ClipDistance", 33: "CullDistance", 34: "ImageCubeArray",
	35: "SampleRateShading", 36: "ImageRect", 37: "SampledRect",
	38: "GenericPointer", 39: "Int8", 40: "InputAttachment",
	41: "SparseResidency", 42: "MinLod", 43: "Sampled1D", 44: "Image1D",
	45: "SampledCubeArray", 46: "SampledBuffer", 47: "ImageBuffer",
	48: "ImageMSArray", 49: "StorageImageExtendedFormats",
	50: "ImageQuery", 51: "DerivativeControl", 52: "InterpolationFunction",
	53: "TransformFeedback", 54: "GeometryStreams", 55: "StorageImageReadWithoutFormat",
	56: "StorageImageWriteWithoutFormat", 57: "MultiViewport",
	61: "GroupNonUniform", 62: "GroupNonUniformVote", 63: "GroupNonUniformArithmetic",
	64: "GroupNonUniformBallot", 65: "GroupNonUniformShuffle",
	4423: "SubgroupBallotKHR", 4427: "DrawParameters",
	4433: "StorageBuffer16BitAccess", 4437: "DeviceGroup", 4439: "MultiView",
	4441: "VariablePointersStorageBuffer", 4442: "VariablePointers",
	5301: "ShaderNonUniform", 5302: "RuntimeDescriptorArray",
	5345: "VulkanMemoryModel",
}

var storageClassNames = map[uint32]string{
	0: "UniformConstant", 1: "Input", 2: "Uniform", 3: "Output",
	4: "Workgroup", 5: "CrossWorkgroup", 6: "Private", 7: "Function",
	8: "Generic", 9: "PushConstant", 10: "AtomicCounter", 11: "Image",
	12: "StorageBuffer", 5349: "PhysicalStorageBuffer",
}

var decorationNames = map[uint32]string{
	0: "RelaxedPrecision", 1: "SpecId", 2: "Block", 3: "BufferBlock",
	4: "RowMajor", 5: "ColMajor", 6: "ArrayStride", 7: "MatrixStride",
	8: "GLSLShared", 9: "GLSLPacked", 10: "CPacked", 11: "BuiltIn",
	13: "NoPerspective", 14: "Flat", 15: "Patch", 16: "Centroid",
	17: "Sample", 18: "Invariant", 19: "Restrict", 20: "Aliased",
	21: "Volatile", 22: "Constant", 23: "Coherent", 24: "NonWritable",
	25: "NonReadable", 26: "Uniform", 27: "UniformId", 28: "SaturatedConversion",
	29: "Stream", 30: "Location", 31: "Component", 32: "Index",
	33: "Binding", 34: "DescriptorSet", 35: "Offset", 36: "XfbBuffer",
	37: "XfbStride", 38: "FuncParamAttr", 39: "FPRoundingMode",
	40: "FPFastMathMode", 41: "LinkageAttributes", 42: "NoContraction",
	43: "InputAttachmentIndex", 44: "Alignment", 5635: "UserSemantic",
}

var builtInNames = map[uint32]string{
	0: "Position", 1: "PointSize", 3: "ClipDistance", 4: "CullDistance",
	5: "VertexId", 6: "InstanceId", 7: "PrimitiveId", 8: "InvocationId",
	9: "Layer", 10: "ViewportIndex", 11: "TessLevelOuter", 12: "TessLevelInner",
	13: "TessCoord", 14: "PatchVertices", 15: "FragCoord", 16: "PointCoord",
	17: "FrontFacing", 18: "SampleId", 19: "SamplePosition", 20: "SampleMask",
	22: "FragDepth", 23: "HelperInvocation", 24: "NumWorkgroups",
	25: "WorkgroupSize", 26: "WorkgroupId", 27: "LocalInvocationId",
	28: "GlobalInvocationId", 29: "LocalInvocationIndex",
	30: "WorkDim", 31: "GlobalSize", 32: "EnqueuedWorkgroupSize",
	33: "GlobalOffset", 34: "GlobalLinearId", 36: "SubgroupSize",
	37: "SubgroupMaxSize", 38: "NumSubgroups", 39: "NumEnqueuedSubgroups",
	40: "SubgroupId", 41: "SubgroupLocalInvocationId",
	42: "VertexIndex", 43: "InstanceIndex",
}

var linkageTypeNames = map[uint32]string{
	0: "Export", 1: "Import", 2: "LinkOnceODR",
}

var executionModeNames = map[uint32]string{
	0: "Invocations", 1: "SpacingEqual", 2: "SpacingFractionalEven",
	3: "SpacingFractionalOdd", 4: "VertexOrderCw", 5: "VertexOrderCcw",
	6: "PixelCenterInteger", 7: "OriginUpperLeft", 8: "OriginLowerLeft",
	9: "EarlyFragmentTests", 10: "PointMode", 11: "Xfb", 12: "DepthReplacing",
	14: "DepthGreater", 15: "DepthLess", 16: "DepthUnchanged",
	17: "LocalSize", 18: "LocalSizeHint", 19: "InputPoints", 20: "InputLines",
	21: "InputLinesAdjacency", 22: "Triangles", 23: "InputTrianglesAdjacency",
	24: "Quads", 25: "Isolines", 26: "OutputVertices", 27: "OutputPoints",
	28: "OutputLineStrip", 29: "OutputTriangleStrip", 30: "VecTypeHint",
	31: "ContractionOff", 33: "Initializer", 34: "Finalizer",
	35: "SubgroupSize", 36: "SubgroupsPerWorkgroup",
}

var executionModelNames = map[uint32]string{
	0: "Vertex", 1: "TessellationControl", 2: "TessellationEvaluation",
	3: "Geometry", 4: "Fragment", 5: "GLCompute", 6: "Kernel",
}

var addressingModelNames = map[uint32]string{
	0: "Logical", 1: "Physical32", 2: "Physical64", 5348: "PhysicalStorageBuffer64",
}

var memoryModelNames = map[uint32]string{
	0: "Simple", 1: "GLSL450", 2: "OpenCL", 3: "Vulkan",
}

var sourceLanguageNames = map[uint32]string{
	0: "Unknown", 1: "ESSL", 2: "GLSL", 3: "OpenCL_C", 4: "OpenCL_CPP",
	5: "HLSL", 6: "CPP_for_OpenCL", 10: "WGSL",
}

var dimNames = map[uint32]string{
	0: "1D", 1: "2D", 2: "3D", 3: "Cube", 4: "Rect", 5: "Buffer", 6: "SubpassData",
}

var imageFormatNames = map[uint32]string{
	0: "Unknown", 1: "Rgba32f", 2: "Rgba16f", 3: "R32f", 4: "Rgba8",
	5: "Rgba8Snorm", 21: "Rgba32i", 30: "Rgba32ui",
}

var accessQualifierNames = map[uint32]string{
	0: "ReadOnly", 1: "WriteOnly", 2: "ReadWrite",
}

// Bit masks. Value zero is spelled "None".

var functionControlNames = map[uint32]string{
	0: "None", 1: "Inline", 2: "DontInline", 4: "Pure", 8: "Const",
}

var selectionControlNames = map[uint32]string{
	0: "None", 1: "Flatten", 2: "DontFlatten",
}

var loopControlNames = map[uint32]string{
	0: "None", 1: "Unroll", 2: "DontUnroll", 4: "DependencyInfinite",
}

var memoryAccessNames = map[uint32]string{
	0: "None", 1: "Volatile", 2: "Aligned", 4: "Nontemporal",
}

// enumNames returns the name table for an enumerant operand type, or nil.
func enumNames(t OperandType) map[uint32]string {
	switch t {
	case OperandCapability:
		return capabilityNames
	case OperandStorageClass:
		return storageClassNames
	case OperandDecoration:
		return decorationNames
	case OperandBuiltIn:
		return builtInNames
	case OperandLinkageType:
		return linkageTypeNames
	case OperandExecutionMode:
		return executionModeNames
	case OperandExecutionModel:
		return executionModelNames
	case OperandAddressingModel:
		return addressingModelNames
	case OperandMemoryModel:
		return memoryModelNames
	case OperandSourceLanguage:
		return sourceLanguageNames
	case OperandDim:
		return dimNames
	case OperandImageFormat:
		return imageFormatNames
	case OperandAccessQualifier:
		return accessQualifierNames
	case OperandFunctionControl:
		return functionControlNames
	case OperandSelectionControl:
		return selectionControlNames
	case OperandLoopControl:
		return loopControlNames
	case OperandMemoryAccess:
		return memoryAccessNames
	}
	return nil
}

// isMask reports whether an enumerant operand type is a bit mask.
func isMask(t OperandType) bool {
	switch t {
	case OperandFunctionControl, OperandSelectionControl, OperandLoopControl, OperandMemoryAccess:
		return true
	}
	return false
}

// reverse tables, built once at init
var enumValues = map[OperandType]map[string]uint32{}

func init() {
	for t := OperandType(0); t < operandTypeCount; t++ {
		names := enumNames(t)
		if names == nil {
			continue
		}
		rev := make(map[string]uint32, len(names))
		for v, n := range names {
			rev[n] = v
		}
		enumValues[t] = rev
	}
	for op, info := range grammar {
		opcodeByName[info.name] = op
	}
}

var opcodeByName = map[string]OpCode{}

func lookup(m map[uint32]string, v uint32) string {
	if s, ok := m[v]; ok {
		return s
	}
	return strconv.FormatUint(uint64(v), 10)
}

// String returns the storage class name.
func (s StorageClass) String() string { return lookup(storageClassNames, uint32(s)) }

// String returns the decoration name.
func (d Decoration) String() string { return lookup(decorationNames, uint32(d)) }

// String returns the builtin name.
func (b BuiltIn) String() string { return lookup(builtInNames, uint32(b)) }

// String returns the capability name.
func (c Capability) String() string { return lookup(capabilityNames, uint32(c)) }

// String returns the execution model name.
func (m ExecutionModel) String() string { return lookup(executionModelNames, uint32(m)) }

// String returns the linkage type name.
func (l LinkageType) String() string { return lookup(linkageTypeNames, uint32(l)) }

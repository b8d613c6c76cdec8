// Package spirv provides the in-memory SPIR-V module model used by the
// optimizer, together with its binary and textual codecs.
//
// SPIR-V is the standard intermediate language for GPU shaders,
// used by Vulkan, OpenCL, and other APIs.
//
// # Module Model
//
// A Module keeps instructions in the logical sections the binary layout
// prescribes. Functions hold an OpFunction definition, parameters, basic
// blocks and an OpFunctionEnd. Instructions keep their result type and
// result id apart from their in-operands:
//
//	inst := spirv.NewInstruction(spirv.OpIAdd, intType, sum,
//		spirv.IDOperand(a), spirv.IDOperand(b))
//
// # Binary Codec
//
// Decode accepts either byte order; Encode always writes little-endian:
//
//	m, err := spirv.Decode(data)
//	if err != nil {
//		log.Fatal(err)
//	}
//	out := spirv.Encode(m)
//
// # Assembly Text
//
// Assemble and Disassemble use one instruction per line:
//
//	%main = OpFunction %void None %fn
//	%entry = OpLabel
//	OpReturn
//	OpFunctionEnd
//
// Symbolic ids are numbered in order of first appearance, skipping any
// numeric ids (%12) used in the text. The NameTable returned by Assemble
// lets Disassemble print the same names back.
//
// # Building Modules
//
// ModuleBuilder constructs modules programmatically:
//
//	builder := spirv.NewModuleBuilder(spirv.Version1_3)
//	builder.AddCapability(spirv.CapabilityShader)
//	builder.SetMemoryModel(spirv.AddressingModelLogical, spirv.MemoryModelGLSL450)
//	floatType := builder.AddTypeFloat(32)
//	m, err := builder.Module()
//
// # SPIR-V Structure
//
// SPIR-V modules consist of:
//   - Header (magic, version, generator, bound, schema)
//   - Capabilities (required features)
//   - Extensions (optional extensions)
//   - Extended instruction imports (GLSL.std.450, etc.)
//   - Memory model (addressing and memory model)
//   - Entry points (shader entry functions)
//   - Execution modes (shader configuration)
//   - Debug information (names, source info)
//   - Annotations (decorations)
//   - Types, constants and global variables
//   - Functions (code)
//
// # References
//
// SPIR-V Specification: https://registry.khronos.org/SPIR-V/specs/unified1/SPIRV.html
package spirv

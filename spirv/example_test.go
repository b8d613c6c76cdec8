package spirv_test

import (
	"fmt"

	"github.com/gogpu/spvopt/spirv"
)

// ExampleModuleBuilder_minimal demonstrates creating a minimal SPIR-V module.
func ExampleModuleBuilder_minimal() {
	// Create a module builder targeting SPIR-V 1.3
	builder := spirv.NewModuleBuilder(spirv.Version1_3)

	// Add required capability
	builder.AddCapability(spirv.CapabilityShader)

	// Set memory model (required for all modules)
	builder.SetMemoryModel(spirv.AddressingModelLogical, spirv.MemoryModelGLSL450)

	binary, err := builder.Build()
	if err != nil {
		fmt.Println(err)
		return
	}

	fmt.Printf("Generated SPIR-V module: %d bytes\n", len(binary))
	// Output: Generated SPIR-V module: 40 bytes
}

// ExampleAssemble shows symbolic ids surviving a round trip through text.
func ExampleAssemble() {
	m, names, err := spirv.Assemble(`OpCapability Shader
OpMemoryModel Logical GLSL450
%int = OpTypeInt 32 1
%minus_one = OpConstant %int -1
`)
	if err != nil {
		fmt.Println(err)
		return
	}

	fmt.Print(spirv.Disassemble(m, names))
	fmt.Print(spirv.Disassemble(m, nil))
	// Output:
	// OpCapability Shader
	// OpMemoryModel Logical GLSL450
	// %int = OpTypeInt 32 1
	// %minus_one = OpConstant %int -1
	// OpCapability Shader
	// OpMemoryModel Logical GLSL450
	// %1 = OpTypeInt 32 1
	// %2 = OpConstant %1 -1
}

// ExampleDecode shows decoding a binary produced by Encode.
func ExampleDecode() {
	builder := spirv.NewModuleBuilder(spirv.Version1_0)
	builder.AddCapability(spirv.CapabilityShader)
	builder.SetMemoryModel(spirv.AddressingModelLogical, spirv.MemoryModelGLSL450)
	voidType := builder.AddTypeVoid()
	builder.AddName(voidType, "void")
	data, _ := builder.Build()

	m, err := spirv.Decode(data)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(m.Header.Version, m.Header.Bound, m.NumInsts())
	// Output: 1.0 2 4
}

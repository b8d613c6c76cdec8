package spirv

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

const branchyShader = `OpCapability Shader
OpMemoryModel Logical GLSL450
OpEntryPoint Fragment %main "main"
OpExecutionMode %main OriginUpperLeft
OpName %main "main"
%void = OpTypeVoid
%fn = OpTypeFunction %void
%bool = OpTypeBool
%true = OpConstantTrue %bool
%main = OpFunction %void None %fn
%entry = OpLabel
OpSelectionMerge %merge None
OpBranchConditional %true %then %merge
%then = OpLabel
OpBranch %merge
%merge = OpLabel
OpReturn
OpFunctionEnd
`

func TestAssemble_RoundTrip(t *testing.T) {
	m, names := mustAssemble(t, branchyShader)

	if diff := cmp.Diff(branchyShader, Disassemble(m, names)); diff != "" {
		t.Errorf("disassembly mismatch (-want +got):\n%s", diff)
	}
}

func TestAssemble_IDAssignment(t *testing.T) {
	m, names := mustAssemble(t, branchyShader)

	want := map[string]ID{
		"main": 1, "void": 2, "fn": 3, "bool": 4, "true": 5,
		"entry": 6, "merge": 7, "then": 8,
	}
	for name, id := range want {
		got, ok := names.Lookup(name)
		if !ok || got != id {
			t.Errorf("%%%s: got %d (%v), want %d", name, got, ok, id)
		}
	}
	if m.Header.Bound != 9 {
		t.Errorf("bound: got %d, want 9", m.Header.Bound)
	}
}

func TestAssemble_NumericIDsAreReserved(t *testing.T) {
	m, names := mustAssemble(t, `%a = OpTypeInt 32 0
%1 = OpTypeBool
%b = OpTypeFloat 32
%3 = OpTypeVoid
%c = OpTypeInt 32 1
`)
	for name, id := range map[string]ID{"a": 2, "b": 4, "c": 5} {
		if got, _ := names.Lookup(name); got != id {
			t.Errorf("%%%s: got %d, want %d", name, got, id)
		}
	}
	if names.Len() != 3 {
		t.Errorf("name table size: got %d, want 3", names.Len())
	}
	if m.TypesValues[1].ResultID != 1 || m.TypesValues[3].ResultID != 3 {
		t.Error("numeric ids must keep their value")
	}
}

func TestAssemble_TypedConstants(t *testing.T) {
	m, _ := mustAssemble(t, `%f = OpTypeFloat 32
%half = OpConstant %f 0.5
%s = OpTypeInt 32 1
%neg = OpConstant %s -1
%u64 = OpTypeInt 64 0
%big = OpConstant %u64 4294967296
%d = OpTypeFloat 64
%pi = OpConstant %d 3.25
`)
	tests := []struct {
		idx   int
		words []uint32
	}{
		{1, []uint32{0x3F000000}},
		{3, []uint32{0xFFFFFFFF}},
		{5, []uint32{0, 1}},
		{7, []uint32{0, 0x400A0000}},
	}
	for _, tt := range tests {
		got := m.TypesValues[tt.idx].InOperand(0).Words
		if diff := cmp.Diff(tt.words, got); diff != "" {
			t.Errorf("constant %d words (-want +got):\n%s", tt.idx, diff)
		}
	}

	want := `%1 = OpTypeFloat 32
%2 = OpConstant %1 0.5
%3 = OpTypeInt 32 1
%4 = OpConstant %3 -1
%5 = OpTypeInt 64 0
%6 = OpConstant %5 4294967296
%7 = OpTypeFloat 64
%8 = OpConstant %7 3.25
`
	if diff := cmp.Diff(want, Disassemble(m, nil)); diff != "" {
		t.Errorf("disassembly mismatch (-want +got):\n%s", diff)
	}
}

func TestAssemble_StringsAndComments(t *testing.T) {
	m, _ := mustAssemble(t, `; leading comment
OpSourceExtension "say \"hi\" \\ bye" ; trailing comment

OpExtension "SPV_KHR_storage_buffer_storage_class"
`)
	if got := m.DebugSource[0].InOperand(0).AsString(); got != `say "hi" \ bye` {
		t.Errorf("string: got %q", got)
	}
	want := `OpExtension "SPV_KHR_storage_buffer_storage_class"
OpSourceExtension "say \"hi\" \\ bye"
`
	if diff := cmp.Diff(want, Disassemble(m, nil)); diff != "" {
		t.Errorf("disassembly mismatch (-want +got):\n%s", diff)
	}
}

func TestAssemble_Errors(t *testing.T) {
	tests := []struct {
		name string
		text string
		kind ErrorKind
		line int
	}{
		{"unknown opcode", "OpFrobnicate", ErrUnknownOpcode, 1},
		{"missing opcode", "%x =", ErrSyntax, 1},
		{"unterminated string", `OpExtension "abc`, ErrSyntax, 1},
		{"missing result", "OpTypeVoid", ErrSyntax, 1},
		{"unexpected result", "%x = OpCapability Shader", ErrSyntax, 1},
		{"bad enumerant", "OpCapability Teleport", ErrInvalidOperand, 1},
		{"too many operands", "OpCapability Shader Shader", ErrInvalidOperand, 1},
		{"too few operands", "%i = OpTypeInt 32", ErrInvalidOperand, 1},
		{"duplicate", "%x = OpTypeVoid\n%x = OpTypeBool", ErrDuplicateDefinition, 2},
		{"layout", "OpCapability Shader\n\nOpReturn", ErrLayout, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Assemble(tt.text)
			spvErr := wantErrorKind(t, err, tt.kind)
			if spvErr.Line != tt.line {
				t.Errorf("line: got %d, want %d", spvErr.Line, tt.line)
			}
		})
	}
}

func TestEnumMasks(t *testing.T) {
	if got := formatEnum(OperandLoopControl, 3); got != "Unroll|DontUnroll" {
		t.Errorf("formatEnum: got %q", got)
	}
	if got := formatEnum(OperandFunctionControl, 0); got != "None" {
		t.Errorf("formatEnum zero mask: got %q", got)
	}
	v, err := parseEnum(OperandLoopControl, "Unroll|DontUnroll")
	if err != nil || v != 3 {
		t.Errorf("parseEnum: got (%d, %v), want 3", v, err)
	}
	if got := formatEnum(OperandStorageClass, 9999); got != "9999" {
		t.Errorf("unknown enumerant: got %q", got)
	}
}

func TestAssembleWithOptions_Version(t *testing.T) {
	m, _, err := AssembleWithOptions("OpCapability Shader", AssembleOptions{Version: Version1_5})
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	if m.Header.Version != Version1_5 {
		t.Errorf("version: got %s, want 1.5", m.Header.Version)
	}
}

func TestInstruction_String(t *testing.T) {
	inst := NewInstruction(OpIAdd, 1, 4, IDOperand(2), IDOperand(3))
	if got := inst.String(); got != "%4 = OpIAdd %1 %2 %3" {
		t.Errorf("String: got %q", got)
	}
}

func TestDebugNameTable(t *testing.T) {
	m, _ := mustAssemble(t, `OpCapability Shader
OpMemoryModel Logical GLSL450
OpName %1 "color"
OpName %2 "color"
OpName %3 "7"
OpName %4 "light dir"
OpName %4 "again"
%5 = OpTypeFloat 32
%1 = OpConstant %5 1
%2 = OpConstant %5 2
%3 = OpConstant %5 3
%4 = OpConstant %5 4
`)
	names := DebugNameTable(m)
	want := `OpCapability Shader
OpMemoryModel Logical GLSL450
OpName %color "color"
OpName %2 "color"
OpName %3 "7"
OpName %light_dir "light dir"
OpName %light_dir "again"
%5 = OpTypeFloat 32
%color = OpConstant %5 1
%2 = OpConstant %5 2
%3 = OpConstant %5 3
%light_dir = OpConstant %5 4
`
	text := Disassemble(m, names)
	if diff := cmp.Diff(want, text); diff != "" {
		t.Errorf("Disassemble (-want +got):\n%s", diff)
	}

	again, _ := mustAssemble(t, text)
	if diff := cmp.Diff(Disassemble(m, nil), Disassemble(again, nil)); diff != "" {
		t.Errorf("named text does not reassemble to the same ids:\n%s", diff)
	}
}

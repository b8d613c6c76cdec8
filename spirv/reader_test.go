package spirv

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func mustAssemble(t testing.TB, text string) (*Module, *NameTable) {
	t.Helper()
	m, names, err := Assemble(text)
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	return m, names
}

func wantErrorKind(t *testing.T, err error, kind ErrorKind) *Error {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", kind)
	}
	var spvErr *Error
	if !errors.As(err, &spvErr) {
		t.Fatalf("expected *Error, got %T: %v", err, err)
	}
	if spvErr.Kind != kind {
		t.Fatalf("error kind: got %s, want %s (%v)", spvErr.Kind, kind, err)
	}
	return spvErr
}

func TestDecode_RoundTrip(t *testing.T) {
	m, names := mustAssemble(t, branchyShader)

	decoded, err := Decode(Encode(m))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if diff := cmp.Diff(Disassemble(m, names), Disassemble(decoded, names)); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
	if decoded.Header.Bound != m.Header.Bound {
		t.Errorf("bound: got %d, want %d", decoded.Header.Bound, m.Header.Bound)
	}
}

func TestDecode_BigEndian(t *testing.T) {
	m, _ := mustAssemble(t, branchyShader)
	little := Encode(m)

	big := make([]byte, len(little))
	for k := 0; k < len(little); k += 4 {
		binary.BigEndian.PutUint32(big[k:], binary.LittleEndian.Uint32(little[k:]))
	}

	decoded, err := Decode(big)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if diff := cmp.Diff(Disassemble(m, nil), Disassemble(decoded, nil)); diff != "" {
		t.Errorf("big-endian decode mismatch (-want +got):\n%s", diff)
	}
}

func TestDecode_Errors(t *testing.T) {
	header := []uint32{MagicNumber, 0x00010000, 0, 10, 0}
	toBytes := func(words []uint32) []byte {
		out := make([]byte, len(words)*4)
		for k, w := range words {
			binary.LittleEndian.PutUint32(out[k*4:], w)
		}
		return out
	}
	with := func(extra ...uint32) []byte {
		return toBytes(append(append([]uint32(nil), header...), extra...))
	}

	tests := []struct {
		name   string
		data   []byte
		kind   ErrorKind
		offset int
	}{
		{"short", make([]byte, 8), ErrInvalidHeader, -1},
		{"bad magic", make([]byte, 20), ErrInvalidHeader, -1},
		{"unaligned", append(with(), 0), ErrInvalidHeader, -1},
		{"truncated", with(3<<16|uint32(OpCapability), 1), ErrTruncated, 5},
		{"zero word count", with(uint32(OpNop)), ErrInvalidOperand, 5},
		{"unknown opcode", with(1<<16 | 9999), ErrUnknownOpcode, 5},
		{"missing operand", with(1<<16 | uint32(OpCapability)), ErrInvalidOperand, 5},
		{"duplicate id", with(2<<16|uint32(OpTypeVoid), 1, 2<<16|uint32(OpTypeBool), 1), ErrDuplicateDefinition, 7},
		{"code outside function", with(1<<16 | uint32(OpReturn)), ErrLayout, 5},
		{"unterminated function", with(5<<16|uint32(OpFunction), 1, 2, 0, 3), ErrLayout, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.data)
			spvErr := wantErrorKind(t, err, tt.kind)
			if spvErr.Offset != tt.offset {
				t.Errorf("offset: got %d, want %d", spvErr.Offset, tt.offset)
			}
		})
	}
}

func TestDecode_DecorationOperands(t *testing.T) {
	m, _ := mustAssemble(t, `OpCapability Shader
OpCapability Linkage
OpMemoryModel Logical GLSL450
OpDecorate %v BuiltIn SampleId
OpDecorate %v LinkageAttributes "v" Export
OpDecorate %v Location 3
%int = OpTypeInt 32 0
%ptr = OpTypePointer Input %int
%v = OpVariable %ptr Input
`)
	decoded, err := Decode(Encode(m))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	builtin := decoded.Annotations[0]
	if got := builtin.InOperand(2).Type; got != OperandBuiltIn {
		t.Errorf("BuiltIn parameter type: got %d, want %d", got, OperandBuiltIn)
	}
	linkage := decoded.Annotations[1]
	if got := linkage.InOperand(2).AsString(); got != "v" {
		t.Errorf("linkage name: got %q", got)
	}
	if LinkageType(linkage.LastInOperandWord()) != LinkageTypeExport {
		t.Errorf("linkage type: got %d", linkage.LastInOperandWord())
	}
	location := decoded.Annotations[2]
	if location.InOperand(2).Type != OperandLiteralInteger || location.SingleWordInOperand(2) != 3 {
		t.Errorf("location operand: %+v", location.InOperand(2))
	}
}

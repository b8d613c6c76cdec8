package spirv

import "fmt"

// ErrorKind categorizes decoding and assembly errors.
type ErrorKind uint8

const (
	// ErrInvalidHeader indicates a bad magic number or a short header.
	ErrInvalidHeader ErrorKind = iota

	// ErrTruncated indicates an instruction running past the end of input.
	ErrTruncated

	// ErrUnknownOpcode indicates an opcode missing from the grammar.
	ErrUnknownOpcode

	// ErrInvalidOperand indicates operands that do not match the grammar.
	ErrInvalidOperand

	// ErrSyntax indicates malformed assembly text.
	ErrSyntax

	// ErrDuplicateDefinition indicates two instructions defining one id.
	ErrDuplicateDefinition

	// ErrLayout indicates an instruction in a section where it is not allowed.
	ErrLayout
)

// String returns a human-readable error kind name.
func (k ErrorKind) String() string {
	switch k {
	case ErrInvalidHeader:
		return "InvalidHeader"
	case ErrTruncated:
		return "Truncated"
	case ErrUnknownOpcode:
		return "UnknownOpcode"
	case ErrInvalidOperand:
		return "InvalidOperand"
	case ErrSyntax:
		return "Syntax"
	case ErrDuplicateDefinition:
		return "DuplicateDefinition"
	case ErrLayout:
		return "Layout"
	default:
		return "Unknown"
	}
}

// Error represents a SPIR-V decoding or assembly error.
type Error struct {
	// Kind categorizes the error.
	Kind ErrorKind

	// Message provides details about the error.
	Message string

	// Offset is the word offset in a binary, or -1.
	Offset int

	// Line is the 1-based line in assembly text, or 0.
	Line int
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e.Line > 0:
		return fmt.Sprintf("spirv %s at line %d: %s", e.Kind, e.Line, e.Message)
	case e.Offset >= 0:
		return fmt.Sprintf("spirv %s at word %d: %s", e.Kind, e.Offset, e.Message)
	default:
		return fmt.Sprintf("spirv %s: %s", e.Kind, e.Message)
	}
}

func newError(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Offset: -1}
}

package spirv

import (
	"encoding/binary"
)

const headerWords = 5

// Decode parses a SPIR-V binary in either byte order.
func Decode(data []byte) (*Module, error) {
	if len(data) < headerWords*4 {
		return nil, newError(ErrInvalidHeader, "binary too short: %d bytes", len(data))
	}
	if len(data)%4 != 0 {
		return nil, newError(ErrInvalidHeader, "binary length %d is not a multiple of 4", len(data))
	}

	var order binary.ByteOrder = binary.LittleEndian
	if binary.LittleEndian.Uint32(data) != MagicNumber {
		if binary.BigEndian.Uint32(data) != MagicNumber {
			return nil, newError(ErrInvalidHeader, "invalid magic number 0x%08x", binary.LittleEndian.Uint32(data))
		}
		order = binary.BigEndian
	}

	words := make([]uint32, len(data)/4)
	for k := range words {
		words[k] = order.Uint32(data[k*4:])
	}
	return DecodeWords(words)
}

// DecodeWords parses a SPIR-V binary already split into host-order words.
func DecodeWords(words []uint32) (*Module, error) {
	if len(words) < headerWords {
		return nil, newError(ErrInvalidHeader, "binary too short: %d words", len(words))
	}
	if words[0] != MagicNumber {
		return nil, newError(ErrInvalidHeader, "invalid magic number 0x%08x", words[0])
	}

	m := &Module{
		Header: Header{
			Version:   wordToVersion(words[1]),
			Generator: words[2],
			Bound:     words[3],
			Schema:    words[4],
		},
	}
	layout := newModuleLayout(m)
	defined := make(map[ID]bool)

	offset := headerWords
	for offset < len(words) {
		inst, n, err := decodeInstruction(words[offset:])
		if err == nil && inst.ResultID != 0 {
			if defined[inst.ResultID] {
				err = newError(ErrDuplicateDefinition, "id %d defined twice", inst.ResultID)
			}
			defined[inst.ResultID] = true
		}
		if err == nil {
			err = layout.add(inst)
		}
		if err != nil {
			return nil, atOffset(err, offset)
		}
		offset += n
	}
	if err := layout.finish(); err != nil {
		return nil, atOffset(err, offset)
	}
	return m, nil
}

// decodeInstruction decodes the instruction at the start of words and
// returns it with its word count.
func decodeInstruction(words []uint32) (*Instruction, int, error) {
	first := words[0]
	wordCount := int(first >> 16)
	op := OpCode(first & 0xFFFF)
	if wordCount == 0 {
		return nil, 0, newError(ErrInvalidOperand, "zero word count for opcode %d", op)
	}
	if wordCount > len(words) {
		return nil, 0, newError(ErrTruncated, "%s needs %d words, %d left", op, wordCount, len(words))
	}
	info, ok := grammar[op]
	if !ok {
		return nil, 0, newError(ErrUnknownOpcode, "unknown opcode %d", uint16(op))
	}

	body := words[1:wordCount]
	inst := &Instruction{Opcode: op}
	if info.hasType {
		if len(body) == 0 {
			return nil, 0, newError(ErrInvalidOperand, "%s is missing its result type", op)
		}
		inst.TypeID = ID(body[0])
		body = body[1:]
	}
	if info.hasResult {
		if len(body) == 0 {
			return nil, 0, newError(ErrInvalidOperand, "%s is missing its result id", op)
		}
		inst.ResultID = ID(body[0])
		body = body[1:]
	}

	for len(body) > 0 {
		t, ok := operandTypeAt(op, inst.Operands, len(inst.Operands))
		if !ok {
			return nil, 0, newError(ErrInvalidOperand, "%s has too many operands", op)
		}
		n := 1
		switch t {
		case OperandLiteralString:
			_, n = decodeString(body)
		case OperandLiteralContextNumber:
			n = len(body)
		}
		inst.Operands = append(inst.Operands, Operand{
			Type:  t,
			Words: append([]uint32(nil), body[:n]...),
		})
		body = body[n:]
	}
	if len(inst.Operands) < info.numRequired() {
		return nil, 0, newError(ErrInvalidOperand, "%s needs %d operands, got %d",
			op, info.numRequired(), len(inst.Operands))
	}
	return inst, wordCount, nil
}

func atOffset(err error, offset int) error {
	if e, ok := err.(*Error); ok && e.Offset < 0 {
		e.Offset = offset
	}
	return err
}

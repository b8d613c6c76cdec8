package spirv

import (
	"fmt"
	"strings"
)

// Operand is one in-operand of an instruction. Ids and single-word literals
// occupy one word; strings and wide literals occupy several.
type Operand struct {
	Type  OperandType
	Words []uint32
}

// IDOperand returns an operand referencing id.
func IDOperand(id ID) Operand {
	return Operand{Type: OperandID, Words: []uint32{uint32(id)}}
}

// LiteralOperand returns a single-word operand of type t.
func LiteralOperand(t OperandType, word uint32) Operand {
	return Operand{Type: t, Words: []uint32{word}}
}

// StringOperand returns a literal string operand.
func StringOperand(s string) Operand {
	return Operand{Type: OperandLiteralString, Words: encodeString(s)}
}

// IsID reports whether the operand references an id.
func (o Operand) IsID() bool {
	return o.Type == OperandID
}

// ID returns the referenced id. It panics if the operand is not an id.
func (o Operand) ID() ID {
	if o.Type != OperandID || len(o.Words) != 1 {
		panic(fmt.Sprintf("spirv: operand of type %d is not an id", o.Type))
	}
	return ID(o.Words[0])
}

// AsString decodes a literal string operand.
func (o Operand) AsString() string {
	s, _ := decodeString(o.Words)
	return s
}

func (o Operand) clone() Operand {
	return Operand{Type: o.Type, Words: append([]uint32(nil), o.Words...)}
}

// Instruction is one SPIR-V instruction. In-operands exclude the result type
// and result id, which are held separately.
type Instruction struct {
	Opcode   OpCode
	TypeID   ID
	ResultID ID
	Operands []Operand
}

// NewInstruction creates an instruction.
func NewInstruction(op OpCode, typeID, resultID ID, operands ...Operand) *Instruction {
	return &Instruction{
		Opcode:   op,
		TypeID:   typeID,
		ResultID: resultID,
		Operands: operands,
	}
}

// NumInOperands returns the number of in-operands.
func (i *Instruction) NumInOperands() int {
	return len(i.Operands)
}

// NumOperands returns the number of operands including result type and id.
func (i *Instruction) NumOperands() int {
	n := len(i.Operands)
	if i.TypeID != 0 {
		n++
	}
	if i.ResultID != 0 {
		n++
	}
	return n
}

// InOperand returns in-operand idx.
func (i *Instruction) InOperand(idx int) Operand {
	return i.Operands[idx]
}

// SingleWordInOperand returns the single word of in-operand idx.
func (i *Instruction) SingleWordInOperand(idx int) uint32 {
	op := i.Operands[idx]
	if len(op.Words) != 1 {
		panic(fmt.Sprintf("spirv: %s in-operand %d has %d words", i.Opcode, idx, len(op.Words)))
	}
	return op.Words[0]
}

// IDInOperand returns in-operand idx as an id.
func (i *Instruction) IDInOperand(idx int) ID {
	return i.Operands[idx].ID()
}

// LastInOperandWord returns the last word of the last in-operand.
func (i *Instruction) LastInOperandWord() uint32 {
	last := i.Operands[len(i.Operands)-1]
	return last.Words[len(last.Words)-1]
}

// SetInOperand replaces in-operand idx.
func (i *Instruction) SetInOperand(idx int, op Operand) {
	i.Operands[idx] = op
}

// AddOperand appends an in-operand.
func (i *Instruction) AddOperand(op Operand) {
	i.Operands = append(i.Operands, op)
}

// RemoveInOperand removes in-operand idx, shifting later operands down.
func (i *Instruction) RemoveInOperand(idx int) {
	i.Operands = append(i.Operands[:idx], i.Operands[idx+1:]...)
}

// ForEachInID calls fn with a pointer to every id in-operand, allowing it to
// be rewritten in place.
func (i *Instruction) ForEachInID(fn func(*ID)) {
	for k := range i.Operands {
		if !i.Operands[k].IsID() {
			continue
		}
		id := ID(i.Operands[k].Words[0])
		fn(&id)
		i.Operands[k].Words[0] = uint32(id)
	}
}

// ForEachID calls fn for the result type id and every id in-operand.
func (i *Instruction) ForEachID(fn func(*ID)) {
	if i.TypeID != 0 {
		fn(&i.TypeID)
	}
	i.ForEachInID(fn)
}

// UsedIDs returns the ids this instruction references, including its type,
// in operand order.
func (i *Instruction) UsedIDs() []ID {
	var ids []ID
	i.ForEachID(func(id *ID) {
		ids = append(ids, *id)
	})
	return ids
}

// Clone returns a deep copy of the instruction.
func (i *Instruction) Clone() *Instruction {
	c := &Instruction{Opcode: i.Opcode, TypeID: i.TypeID, ResultID: i.ResultID}
	if len(i.Operands) > 0 {
		c.Operands = make([]Operand, len(i.Operands))
		for k, op := range i.Operands {
			c.Operands[k] = op.clone()
		}
	}
	return c
}

// WordCount returns the encoded size of the instruction in words.
func (i *Instruction) WordCount() int {
	n := 1
	if i.TypeID != 0 {
		n++
	}
	if i.ResultID != 0 {
		n++
	}
	for _, op := range i.Operands {
		n += len(op.Words)
	}
	return n
}

// String returns the instruction in assembly form with numeric ids.
func (i *Instruction) String() string {
	var sb strings.Builder
	formatInstruction(&sb, i, nil, nil)
	return sb.String()
}

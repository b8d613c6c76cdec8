package spirv

import (
	"math"
	"strconv"
	"strings"
)

// NameTable maps ids to the symbolic names used in assembly text.
type NameTable struct {
	names map[ID]string
	ids   map[string]ID
}

// NewNameTable creates an empty name table.
func NewNameTable() *NameTable {
	return &NameTable{
		names: make(map[ID]string),
		ids:   make(map[string]ID),
	}
}

// Set binds name to id, replacing any earlier binding of either.
func (t *NameTable) Set(id ID, name string) {
	if old, ok := t.names[id]; ok {
		delete(t.ids, old)
	}
	t.names[id] = name
	t.ids[name] = id
}

// Lookup returns the id bound to name.
func (t *NameTable) Lookup(name string) (ID, bool) {
	if t == nil {
		return 0, false
	}
	id, ok := t.ids[name]
	return id, ok
}

// Name returns the assembly spelling of id, "%name" if bound, else "%N".
func (t *NameTable) Name(id ID) string {
	if t != nil {
		if name, ok := t.names[id]; ok {
			return "%" + name
		}
	}
	return "%" + strconv.FormatUint(uint64(id), 10)
}

// Len returns the number of bound names.
func (t *NameTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.names)
}

// DebugNameTable names ids after their OpName. Characters outside
// [A-Za-z0-9_.] become '_'; names that are empty, numeric or already taken
// are skipped so the result always assembles back to the same ids.
func DebugNameTable(m *Module) *NameTable {
	names := NewNameTable()
	for _, inst := range m.DebugNames {
		if inst.Opcode != OpName || len(inst.Operands) < 2 {
			continue
		}
		id := inst.Operands[0].ID()
		name := sanitizeName(inst.Operands[1].AsString())
		if name == "" {
			continue
		}
		if _, numeric := numericID(name); numeric {
			continue
		}
		if _, taken := names.Lookup(name); taken {
			continue
		}
		if _, named := names.names[id]; named {
			continue
		}
		names.Set(id, name)
	}
	return names
}

func sanitizeName(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '.':
			return r
		default:
			return '_'
		}
	}, s)
}

// Disassemble renders m as assembly text, one instruction per line. Ids
// bound in names print symbolically; names may be nil.
func Disassemble(m *Module, names *NameTable) string {
	types := make(map[ID]*Instruction)
	for _, inst := range m.TypesValues {
		if inst.Opcode.IsType() {
			types[inst.ResultID] = inst
		}
	}

	var sb strings.Builder
	m.ForEachInst(func(inst *Instruction) {
		formatInstruction(&sb, inst, names, types)
		sb.WriteByte('\n')
	})
	return sb.String()
}

// formatInstruction writes inst in assembly form. types resolves the result
// type of OpConstant literals; without it they print as raw words.
func formatInstruction(sb *strings.Builder, inst *Instruction, names *NameTable, types map[ID]*Instruction) {
	if inst.ResultID != 0 {
		sb.WriteString(names.Name(inst.ResultID))
		sb.WriteString(" = ")
	}
	sb.WriteString(inst.Opcode.String())
	if inst.TypeID != 0 {
		sb.WriteByte(' ')
		sb.WriteString(names.Name(inst.TypeID))
	}
	for _, op := range inst.Operands {
		sb.WriteByte(' ')
		formatOperand(sb, op, names, types[inst.TypeID])
	}
}

func formatOperand(sb *strings.Builder, op Operand, names *NameTable, resultType *Instruction) {
	switch op.Type {
	case OperandID:
		sb.WriteString(names.Name(op.ID()))
	case OperandLiteralString:
		sb.WriteString(quoteString(op.AsString()))
	case OperandLiteralInteger:
		sb.WriteString(strconv.FormatUint(uint64(op.Words[0]), 10))
	case OperandLiteralContextNumber:
		sb.WriteString(formatNumber(op.Words, resultType))
	default:
		sb.WriteString(formatEnum(op.Type, op.Words[0]))
	}
}

// formatNumber prints a typed literal according to its result type.
func formatNumber(words []uint32, resultType *Instruction) string {
	var wide uint64
	for k, w := range words {
		if k < 2 {
			wide |= uint64(w) << (32 * k)
		}
	}
	if resultType == nil {
		return strconv.FormatUint(wide, 10)
	}
	switch resultType.Opcode {
	case OpTypeFloat:
		if resultType.SingleWordInOperand(0) == 64 {
			return strconv.FormatFloat(math.Float64frombits(wide), 'g', -1, 64)
		}
		return strconv.FormatFloat(float64(math.Float32frombits(uint32(wide))), 'g', -1, 32)
	case OpTypeInt:
		signed := resultType.SingleWordInOperand(1) == 1
		if resultType.SingleWordInOperand(0) == 64 {
			if signed {
				return strconv.FormatInt(int64(wide), 10)
			}
			return strconv.FormatUint(wide, 10)
		}
		if signed {
			return strconv.FormatInt(int64(int32(uint32(wide))), 10)
		}
	}
	return strconv.FormatUint(wide, 10)
}

func formatEnum(t OperandType, v uint32) string {
	names := enumNames(t)
	if names == nil {
		return strconv.FormatUint(uint64(v), 10)
	}
	if !isMask(t) || v == 0 {
		return lookup(names, v)
	}
	var parts []string
	for bit := uint32(1); bit != 0; bit <<= 1 {
		if v&bit == 0 {
			continue
		}
		parts = append(parts, lookup(names, bit))
	}
	return strings.Join(parts, "|")
}

func quoteString(s string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for _, r := range s {
		if r == '"' || r == '\\' {
			sb.WriteByte('\\')
		}
		sb.WriteRune(r)
	}
	sb.WriteByte('"')
	return sb.String()
}

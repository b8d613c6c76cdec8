package spirv

import (
	"math"
	"strconv"
	"strings"
	"unicode"
)

// AssembleOptions configures Assemble.
type AssembleOptions struct {
	// Version is written to the module header. Zero means 1.0.
	Version Version
}

// Assemble parses assembly text in the form printed by Disassemble:
//
//	%name = OpOpcode %type operands...
//
// Numeric ids (%7) keep their value. Symbolic ids receive the lowest free
// ids in order of first appearance and are recorded in the returned table.
// Text after ';' is a comment.
func Assemble(text string) (*Module, *NameTable, error) {
	return AssembleWithOptions(text, AssembleOptions{})
}

// AssembleWithOptions is Assemble with explicit options.
func AssembleWithOptions(text string, opts AssembleOptions) (*Module, *NameTable, error) {
	stmts, err := parseStatements(text)
	if err != nil {
		return nil, nil, err
	}
	names := assignIDs(stmts)

	m := NewModule()
	if opts.Version != (Version{}) {
		m.Header.Version = opts.Version
	}
	a := &assembler{
		names:   names,
		types:   make(map[ID]*Instruction),
		defined: make(map[ID]bool),
	}
	layout := newModuleLayout(m)
	for _, st := range stmts {
		inst, err := a.build(st)
		if err == nil {
			err = layout.add(inst)
		}
		if err != nil {
			return nil, nil, atLine(err, st.line)
		}
	}
	if err := layout.finish(); err != nil {
		return nil, nil, err
	}
	m.Header.Bound = m.ComputeIDBound()
	return m, names, nil
}

// statement is one parsed line of assembly.
type statement struct {
	line     int
	result   string // id token without '%', or ""
	opcode   string
	operands []token
}

type tokenKind uint8

const (
	tokenWord tokenKind = iota
	tokenID
	tokenString
)

type token struct {
	kind tokenKind
	text string // without '%' for ids, unquoted for strings
}

func parseStatements(text string) ([]statement, error) {
	var stmts []statement
	for k, raw := range strings.Split(text, "\n") {
		line := k + 1
		toks, err := tokenizeLine(raw)
		if err != nil {
			return nil, atLine(err, line)
		}
		if len(toks) == 0 {
			continue
		}
		st := statement{line: line}
		if len(toks) >= 2 && toks[1].kind == tokenWord && toks[1].text == "=" {
			if toks[0].kind != tokenID {
				return nil, atLine(newError(ErrSyntax, "result must be an id, got %q", toks[0].text), line)
			}
			st.result = toks[0].text
			toks = toks[2:]
		}
		if len(toks) == 0 || toks[0].kind != tokenWord || !strings.HasPrefix(toks[0].text, "Op") {
			return nil, atLine(newError(ErrSyntax, "expected opcode"), line)
		}
		st.opcode = toks[0].text
		st.operands = toks[1:]
		stmts = append(stmts, st)
	}
	return stmts, nil
}

func tokenizeLine(s string) ([]token, error) {
	var toks []token
	i := 0
	for i < len(s) {
		c := s[i]
		switch {
		case c == ';':
			return toks, nil
		case c == ' ' || c == '\t' || c == '\r':
			i++
		case c == '"':
			var sb strings.Builder
			i++
			closed := false
			for i < len(s) {
				if s[i] == '\\' && i+1 < len(s) {
					sb.WriteByte(s[i+1])
					i += 2
					continue
				}
				if s[i] == '"' {
					closed = true
					i++
					break
				}
				sb.WriteByte(s[i])
				i++
			}
			if !closed {
				return nil, newError(ErrSyntax, "unterminated string")
			}
			toks = append(toks, token{kind: tokenString, text: sb.String()})
		default:
			start := i
			for i < len(s) && !unicode.IsSpace(rune(s[i])) && s[i] != ';' && s[i] != '"' {
				i++
			}
			word := s[start:i]
			if strings.HasPrefix(word, "%") {
				if len(word) == 1 {
					return nil, newError(ErrSyntax, "empty id")
				}
				toks = append(toks, token{kind: tokenID, text: word[1:]})
				continue
			}
			toks = append(toks, token{kind: tokenWord, text: word})
		}
	}
	return toks, nil
}

// assignIDs reserves numeric ids, then gives each symbolic id the lowest
// unreserved id in order of first appearance.
func assignIDs(stmts []statement) *NameTable {
	reserved := make(map[ID]bool)
	forEachIDToken := func(fn func(string)) {
		for _, st := range stmts {
			if st.result != "" {
				fn(st.result)
			}
			for _, t := range st.operands {
				if t.kind == tokenID {
					fn(t.text)
				}
			}
		}
	}
	forEachIDToken(func(text string) {
		if n, ok := numericID(text); ok {
			reserved[n] = true
		}
	})

	names := NewNameTable()
	next := ID(1)
	forEachIDToken(func(text string) {
		if _, ok := numericID(text); ok {
			return
		}
		if _, ok := names.Lookup(text); ok {
			return
		}
		for reserved[next] {
			next++
		}
		names.Set(next, text)
		next++
	})
	return names
}

func numericID(text string) (ID, bool) {
	n, err := strconv.ParseUint(text, 10, 32)
	if err != nil {
		return 0, false
	}
	return ID(n), true
}

type assembler struct {
	names   *NameTable
	types   map[ID]*Instruction
	defined map[ID]bool
}

func (a *assembler) resolve(text string) ID {
	if n, ok := numericID(text); ok {
		return n
	}
	id, _ := a.names.Lookup(text)
	return id
}

func (a *assembler) build(st statement) (*Instruction, error) {
	op, ok := opcodeByName[st.opcode]
	if !ok {
		return nil, newError(ErrUnknownOpcode, "unknown opcode %s", st.opcode)
	}
	info := grammar[op]
	inst := &Instruction{Opcode: op}

	if info.hasResult != (st.result != "") {
		if info.hasResult {
			return nil, newError(ErrSyntax, "%s needs a result id", st.opcode)
		}
		return nil, newError(ErrSyntax, "%s has no result id", st.opcode)
	}
	if info.hasResult {
		inst.ResultID = a.resolve(st.result)
		if a.defined[inst.ResultID] {
			return nil, newError(ErrDuplicateDefinition, "%%%s defined twice", st.result)
		}
		a.defined[inst.ResultID] = true
	}

	toks := st.operands
	if info.hasType {
		if len(toks) == 0 || toks[0].kind != tokenID {
			return nil, newError(ErrSyntax, "%s needs a result type", st.opcode)
		}
		inst.TypeID = a.resolve(toks[0].text)
		toks = toks[1:]
	}

	for _, t := range toks {
		ot, ok := operandTypeAt(op, inst.Operands, len(inst.Operands))
		if !ok {
			return nil, newError(ErrInvalidOperand, "%s has too many operands", st.opcode)
		}
		operand, err := a.operand(inst, ot, t)
		if err != nil {
			return nil, err
		}
		inst.Operands = append(inst.Operands, operand)
	}
	if len(inst.Operands) < info.numRequired() {
		return nil, newError(ErrInvalidOperand, "%s needs %d operands, got %d",
			st.opcode, info.numRequired(), len(inst.Operands))
	}
	if op.IsType() {
		a.types[inst.ResultID] = inst
	}
	return inst, nil
}

func (a *assembler) operand(inst *Instruction, ot OperandType, t token) (Operand, error) {
	switch ot {
	case OperandID:
		if t.kind != tokenID {
			return Operand{}, newError(ErrInvalidOperand, "expected id, got %q", t.text)
		}
		return IDOperand(a.resolve(t.text)), nil
	case OperandLiteralString:
		if t.kind != tokenString {
			return Operand{}, newError(ErrInvalidOperand, "expected string, got %q", t.text)
		}
		return StringOperand(t.text), nil
	}
	if t.kind != tokenWord {
		return Operand{}, newError(ErrInvalidOperand, "expected literal, got %q", t.text)
	}
	switch ot {
	case OperandLiteralInteger:
		w, err := parseWord(t.text)
		if err != nil {
			return Operand{}, err
		}
		return LiteralOperand(ot, w), nil
	case OperandLiteralContextNumber:
		words, err := parseNumber(t.text, a.types[inst.TypeID])
		if err != nil {
			return Operand{}, err
		}
		return Operand{Type: ot, Words: words}, nil
	}
	w, err := parseEnum(ot, t.text)
	if err != nil {
		return Operand{}, err
	}
	return LiteralOperand(ot, w), nil
}

func parseWord(text string) (uint32, error) {
	if n, err := strconv.ParseUint(text, 0, 32); err == nil {
		return uint32(n), nil
	}
	n, err := strconv.ParseInt(text, 0, 32)
	if err != nil {
		return 0, newError(ErrInvalidOperand, "invalid literal %q", text)
	}
	return uint32(int32(n)), nil
}

// parseNumber encodes a typed literal according to the result type.
func parseNumber(text string, resultType *Instruction) ([]uint32, error) {
	width := uint32(32)
	isFloat, signed := false, false
	if resultType != nil {
		switch resultType.Opcode {
		case OpTypeFloat:
			isFloat = true
			width = resultType.SingleWordInOperand(0)
		case OpTypeInt:
			width = resultType.SingleWordInOperand(0)
			signed = resultType.SingleWordInOperand(1) == 1
		}
	}
	bad := func() ([]uint32, error) {
		return nil, newError(ErrInvalidOperand, "invalid %d-bit literal %q", width, text)
	}

	var bits uint64
	switch {
	case isFloat && width == 64:
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return bad()
		}
		bits = math.Float64bits(f)
	case isFloat:
		f, err := strconv.ParseFloat(text, 32)
		if err != nil {
			return bad()
		}
		bits = uint64(math.Float32bits(float32(f)))
	case signed || strings.HasPrefix(text, "-"):
		n, err := strconv.ParseInt(text, 0, int(width))
		if err != nil {
			return bad()
		}
		bits = uint64(n)
	default:
		n, err := strconv.ParseUint(text, 0, int(width))
		if err != nil {
			return bad()
		}
		bits = n
	}
	if width > 32 {
		return []uint32{uint32(bits), uint32(bits >> 32)}, nil
	}
	if width < 32 {
		bits &= 1<<width - 1
	}
	return []uint32{uint32(bits)}, nil
}

func parseEnum(t OperandType, text string) (uint32, error) {
	if w, err := parseWord(text); err == nil {
		return w, nil
	}
	values := enumValues[t]
	if isMask(t) {
		var mask uint32
		for _, part := range strings.Split(text, "|") {
			v, ok := values[part]
			if !ok {
				return 0, newError(ErrInvalidOperand, "unknown mask bit %q", part)
			}
			mask |= v
		}
		return mask, nil
	}
	v, ok := values[text]
	if !ok {
		return 0, newError(ErrInvalidOperand, "unknown enumerant %q", text)
	}
	return v, nil
}

func atLine(err error, line int) error {
	if e, ok := err.(*Error); ok && e.Line == 0 {
		e.Line = line
	}
	return err
}

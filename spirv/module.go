package spirv

// Header is the five-word SPIR-V module header.
type Header struct {
	Version   Version
	Generator uint32
	Bound     uint32 // max ID + 1
	Schema    uint32
}

// Module is a SPIR-V module held as ordered logical sections, the same
// sections the binary layout prescribes.
type Module struct {
	Header Header

	Capabilities   []*Instruction
	Extensions     []*Instruction
	ExtInstImports []*Instruction
	MemoryModel    *Instruction
	EntryPoints    []*Instruction
	ExecutionModes []*Instruction
	DebugSource    []*Instruction // OpString, OpSource*, OpModuleProcessed
	DebugNames     []*Instruction // OpName, OpMemberName
	Annotations    []*Instruction // OpDecorate, OpMemberDecorate, ...
	TypesValues    []*Instruction // OpType*, OpConstant*, global OpVariable, OpUndef
	Functions      []*Function
}

// Function is an OpFunction ... OpFunctionEnd range.
type Function struct {
	Def    *Instruction
	Params []*Instruction
	Blocks []*BasicBlock
	End    *Instruction
}

// BasicBlock is an OpLabel followed by instructions ending in a terminator.
type BasicBlock struct {
	Label *Instruction
	Insts []*Instruction
}

// NewModule creates an empty module.
func NewModule() *Module {
	return &Module{
		Header: Header{
			Version:   Version1_0,
			Generator: GeneratorID,
			Bound:     1,
		},
	}
}

// ID returns the function's result id.
func (f *Function) ID() ID {
	return f.Def.ResultID
}

// ForEachInst calls fn for every instruction of the function in order,
// including OpFunction, parameters, labels and OpFunctionEnd.
func (f *Function) ForEachInst(fn func(*Instruction)) {
	f.WhileEachInst(func(inst *Instruction) bool {
		fn(inst)
		return true
	})
}

// WhileEachInst is ForEachInst stopping when fn returns false. It reports
// whether every call returned true.
func (f *Function) WhileEachInst(fn func(*Instruction) bool) bool {
	if f.Def != nil && !fn(f.Def) {
		return false
	}
	for _, p := range f.Params {
		if !fn(p) {
			return false
		}
	}
	for _, b := range f.Blocks {
		if !b.WhileEachInst(fn) {
			return false
		}
	}
	if f.End != nil {
		return fn(f.End)
	}
	return true
}

// Block returns the block labelled id, or nil.
func (f *Function) Block(id ID) *BasicBlock {
	for _, b := range f.Blocks {
		if b.ID() == id {
			return b
		}
	}
	return nil
}

// NumInsts returns the number of instructions inside the function's blocks.
func (f *Function) NumInsts() int {
	n := 0
	for _, b := range f.Blocks {
		n += len(b.Insts)
	}
	return n
}

// ID returns the block label id.
func (b *BasicBlock) ID() ID {
	return b.Label.ResultID
}

// WhileEachInst calls fn for the label and every instruction of the block.
func (b *BasicBlock) WhileEachInst(fn func(*Instruction) bool) bool {
	if b.Label != nil && !fn(b.Label) {
		return false
	}
	for _, inst := range b.Insts {
		if !fn(inst) {
			return false
		}
	}
	return true
}

// Terminator returns the block's terminator, or nil if it has none.
func (b *BasicBlock) Terminator() *Instruction {
	if len(b.Insts) == 0 {
		return nil
	}
	last := b.Insts[len(b.Insts)-1]
	if !last.Opcode.IsBlockTerminator() {
		return nil
	}
	return last
}

// MergeInst returns the block's OpLoopMerge or OpSelectionMerge, or nil.
func (b *BasicBlock) MergeInst() *Instruction {
	if len(b.Insts) < 2 {
		return nil
	}
	prev := b.Insts[len(b.Insts)-2]
	if prev.Opcode.IsMerge() {
		return prev
	}
	return nil
}

// Successors returns the labels the block's terminator may branch to, in
// operand order, without duplicates.
func (b *BasicBlock) Successors() []ID {
	term := b.Terminator()
	if term == nil {
		return nil
	}
	var succ []ID
	seen := map[ID]bool{}
	add := func(id ID) {
		if !seen[id] {
			seen[id] = true
			succ = append(succ, id)
		}
	}
	switch term.Opcode {
	case OpBranch:
		add(term.IDInOperand(0))
	case OpBranchConditional:
		add(term.IDInOperand(1))
		add(term.IDInOperand(2))
	case OpSwitch:
		add(term.IDInOperand(1))
		for k := 3; k < len(term.Operands); k += 2 {
			add(term.IDInOperand(k))
		}
	}
	return succ
}

// RemoveInst removes inst from the block. It reports whether it was found.
func (b *BasicBlock) RemoveInst(inst *Instruction) bool {
	var ok bool
	b.Insts, ok = removeFrom(b.Insts, inst)
	return ok
}

// ForEachInst calls fn for every instruction in module order.
func (m *Module) ForEachInst(fn func(*Instruction)) {
	m.WhileEachInst(func(inst *Instruction) bool {
		fn(inst)
		return true
	})
}

// WhileEachInst calls fn for every instruction in module order until fn
// returns false. It reports whether every call returned true.
func (m *Module) WhileEachInst(fn func(*Instruction) bool) bool {
	for _, section := range m.globalSections() {
		for _, inst := range section {
			if !fn(inst) {
				return false
			}
		}
	}
	for _, f := range m.Functions {
		if !f.WhileEachInst(fn) {
			return false
		}
	}
	return true
}

// globalSections returns the module-scope sections in layout order.
func (m *Module) globalSections() [][]*Instruction {
	var memoryModel []*Instruction
	if m.MemoryModel != nil {
		memoryModel = []*Instruction{m.MemoryModel}
	}
	return [][]*Instruction{
		m.Capabilities,
		m.Extensions,
		m.ExtInstImports,
		memoryModel,
		m.EntryPoints,
		m.ExecutionModes,
		m.DebugSource,
		m.DebugNames,
		m.Annotations,
		m.TypesValues,
	}
}

// sectionOf returns a pointer to the module-scope section holding
// instructions with opcode op, or nil for function-body opcodes.
func (m *Module) sectionOf(op OpCode) *[]*Instruction {
	switch {
	case op == OpCapability:
		return &m.Capabilities
	case op == OpExtension:
		return &m.Extensions
	case op == OpExtInstImport:
		return &m.ExtInstImports
	case op == OpEntryPoint:
		return &m.EntryPoints
	case op == OpExecutionMode || op == OpExecutionModeID:
		return &m.ExecutionModes
	case op == OpString || op == OpSource || op == OpSourceContinued ||
		op == OpSourceExtension || op == OpModuleProcessed:
		return &m.DebugSource
	case op.IsDebugName():
		return &m.DebugNames
	case op.IsAnnotation():
		return &m.Annotations
	case op.IsType() || op.IsConstant() || op == OpVariable || op == OpUndef ||
		op == OpLine || op == OpNoLine || op == OpExtInst:
		return &m.TypesValues
	}
	return nil
}

// RemoveInst removes inst from whichever section or block holds it. It
// reports whether the instruction was found. Function definitions, labels
// and OpFunctionEnd are never removed this way.
func (m *Module) RemoveInst(inst *Instruction) bool {
	if inst == m.MemoryModel {
		m.MemoryModel = nil
		return true
	}
	if section := m.sectionOf(inst.Opcode); section != nil {
		var ok bool
		if *section, ok = removeFrom(*section, inst); ok {
			return true
		}
	}
	for _, f := range m.Functions {
		var ok bool
		if f.Params, ok = removeFrom(f.Params, inst); ok {
			return true
		}
		for _, b := range f.Blocks {
			if b.RemoveInst(inst) {
				return true
			}
		}
	}
	return false
}

// AddGlobalInst appends inst to the module-scope section for its opcode.
func (m *Module) AddGlobalInst(inst *Instruction) {
	if inst.Opcode == OpMemoryModel {
		m.MemoryModel = inst
		return
	}
	section := m.sectionOf(inst.Opcode)
	if section == nil {
		panic("spirv: " + inst.Opcode.String() + " is not a module-scope instruction")
	}
	*section = append(*section, inst)
}

// HasCapability reports whether the module declares capability c.
func (m *Module) HasCapability(c Capability) bool {
	for _, inst := range m.Capabilities {
		if Capability(inst.SingleWordInOperand(0)) == c {
			return true
		}
	}
	return false
}

// Function returns the function with result id id, or nil.
func (m *Module) Function(id ID) *Function {
	for _, f := range m.Functions {
		if f.ID() == id {
			return f
		}
	}
	return nil
}

// ComputeIDBound returns one more than the largest id defined or used.
func (m *Module) ComputeIDBound() uint32 {
	var highest ID
	m.ForEachInst(func(inst *Instruction) {
		if inst.ResultID > highest {
			highest = inst.ResultID
		}
		inst.ForEachID(func(id *ID) {
			if *id > highest {
				highest = *id
			}
		})
	})
	return uint32(highest) + 1
}

// NumInsts returns the total instruction count.
func (m *Module) NumInsts() int {
	n := 0
	m.ForEachInst(func(*Instruction) { n++ })
	return n
}

func removeFrom(list []*Instruction, inst *Instruction) ([]*Instruction, bool) {
	for k, candidate := range list {
		if candidate == inst {
			return append(list[:k], list[k+1:]...), true
		}
	}
	return list, false
}

// moduleLayout routes a linear instruction stream into module sections and
// function/block structure.
type moduleLayout struct {
	m     *Module
	fn    *Function
	block *BasicBlock
}

func newModuleLayout(m *Module) *moduleLayout {
	return &moduleLayout{m: m}
}

// add routes inst. Module-scoped instructions go to their section even while
// a function is open; everything else inside a function is checked against
// the block structure.
func (l *moduleLayout) add(inst *Instruction) error {
	switch {
	case inst.Opcode == OpMemoryModel:
		if l.m.MemoryModel != nil {
			return newError(ErrLayout, "duplicate OpMemoryModel")
		}
		l.m.MemoryModel = inst
		return nil
	case l.fn != nil && !l.moduleScoped(inst.Opcode):
		return l.addToFunction(inst)
	case inst.Opcode == OpFunction:
		l.fn = &Function{Def: inst}
		l.m.Functions = append(l.m.Functions, l.fn)
		return nil
	}
	section := l.m.sectionOf(inst.Opcode)
	if section == nil {
		return newError(ErrLayout, "%s outside of a function", inst.Opcode)
	}
	*section = append(*section, inst)
	return nil
}

// moduleScoped reports whether op may only appear at module scope.
func (l *moduleLayout) moduleScoped(op OpCode) bool {
	switch op {
	case OpVariable, OpUndef, OpLine, OpNoLine, OpExtInst:
		return false
	}
	return l.m.sectionOf(op) != nil
}

func (l *moduleLayout) addToFunction(inst *Instruction) error {
	terminated := l.block != nil && l.block.Terminator() != nil
	switch inst.Opcode {
	case OpFunction:
		return newError(ErrLayout, "nested OpFunction")
	case OpFunctionParameter:
		if l.block != nil {
			return newError(ErrLayout, "OpFunctionParameter after first block")
		}
		l.fn.Params = append(l.fn.Params, inst)
	case OpLabel:
		if l.block != nil && !terminated {
			return newError(ErrLayout, "block %%%d has no terminator", l.block.ID())
		}
		l.block = &BasicBlock{Label: inst}
		l.fn.Blocks = append(l.fn.Blocks, l.block)
	case OpFunctionEnd:
		if l.block != nil && !terminated {
			return newError(ErrLayout, "block %%%d has no terminator", l.block.ID())
		}
		l.fn.End = inst
		l.fn = nil
		l.block = nil
	default:
		if l.block == nil {
			return newError(ErrLayout, "%s before first OpLabel", inst.Opcode)
		}
		if terminated {
			return newError(ErrLayout, "%s after block terminator", inst.Opcode)
		}
		l.block.Insts = append(l.block.Insts, inst)
	}
	return nil
}

func (l *moduleLayout) finish() error {
	if l.fn != nil {
		return newError(ErrLayout, "function %%%d has no OpFunctionEnd", l.fn.ID())
	}
	return nil
}

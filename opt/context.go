package opt

import (
	"fmt"
	"slices"

	"github.com/gogpu/spvopt/spirv"
)

// IRContext owns a module for the duration of an optimization run and
// caches the analyses derived from it. All mutations that passes make go
// through the context so that every analysis it reports valid stays exact.
//
// An IRContext is not safe for concurrent use.
type IRContext struct {
	module *spirv.Module
	valid  Analysis

	defUse       *DefUseManager
	decorations  *DecorationManager
	names        *NameMap
	instrToBlock map[*spirv.Instruction]*spirv.BasicBlock
	combinators  *combinatorSet
	cfg          *CFG
	dominators   map[*spirv.Function]*DominatorAnalysis
}

// NewIRContext takes ownership of m. No analysis is built until requested.
func NewIRContext(m *spirv.Module) *IRContext {
	if bound := m.ComputeIDBound(); bound > m.Header.Bound {
		m.Header.Bound = bound
	}
	return &IRContext{module: m}
}

// Module returns the owned module.
func (ctx *IRContext) Module() *spirv.Module {
	return ctx.module
}

// ValidAnalyses returns the set of analyses currently valid.
func (ctx *IRContext) ValidAnalyses() Analysis {
	return ctx.valid
}

// AreAnalysesValid reports whether every analysis in set is valid.
func (ctx *IRContext) AreAnalysesValid(set Analysis) bool {
	return ctx.valid.Has(set)
}

// BuildInvalidAnalyses builds every analysis in set that is not valid.
func (ctx *IRContext) BuildInvalidAnalyses(set Analysis) {
	if set.Has(AnalysisDefUse) {
		ctx.DefUseManager()
	}
	if set.Has(AnalysisInstrToBlockMapping) {
		ctx.buildInstrToBlock()
	}
	if set.Has(AnalysisDecorations) {
		ctx.DecorationManager()
	}
	if set.Has(AnalysisCombinators) {
		ctx.combinatorSet()
	}
	if set.Has(AnalysisCFG) {
		ctx.CFG()
	}
	if set.Has(AnalysisDominatorAnalysis) {
		ctx.buildDominators()
	}
	if set.Has(AnalysisNameMap) {
		ctx.NameMap()
	}
}

// InvalidateAnalyses marks every analysis in set invalid and drops it.
func (ctx *IRContext) InvalidateAnalyses(set Analysis) {
	// Dominators are derived from the CFG.
	if set.Has(AnalysisCFG) {
		set |= AnalysisDominatorAnalysis
	}
	if set.Has(AnalysisDefUse) {
		ctx.defUse = nil
	}
	if set.Has(AnalysisInstrToBlockMapping) {
		ctx.instrToBlock = nil
	}
	if set.Has(AnalysisDecorations) {
		ctx.decorations = nil
	}
	if set.Has(AnalysisCombinators) {
		ctx.combinators = nil
	}
	if set.Has(AnalysisCFG) {
		ctx.cfg = nil
	}
	if set.Has(AnalysisDominatorAnalysis) {
		ctx.dominators = nil
	}
	if set.Has(AnalysisNameMap) {
		ctx.names = nil
	}
	ctx.valid &^= set
}

// InvalidateAnalysesExceptFor invalidates every analysis not in preserved.
func (ctx *IRContext) InvalidateAnalysesExceptFor(preserved Analysis) {
	ctx.InvalidateAnalyses(AnalysisAll &^ preserved)
}

// DefUseManager returns the def-use analysis, building it if needed.
func (ctx *IRContext) DefUseManager() *DefUseManager {
	if !ctx.valid.Has(AnalysisDefUse) {
		ctx.defUse = newDefUseManager(ctx.module)
		ctx.valid |= AnalysisDefUse
	}
	return ctx.defUse
}

// DecorationManager returns the decoration analysis, building it if needed.
func (ctx *IRContext) DecorationManager() *DecorationManager {
	if !ctx.valid.Has(AnalysisDecorations) {
		ctx.decorations = newDecorationManager(ctx.module)
		ctx.valid |= AnalysisDecorations
	}
	return ctx.decorations
}

// NameMap returns the debug-name analysis, building it if needed.
func (ctx *IRContext) NameMap() *NameMap {
	if !ctx.valid.Has(AnalysisNameMap) {
		ctx.names = newNameMap(ctx.module)
		ctx.valid |= AnalysisNameMap
	}
	return ctx.names
}

// CFG returns the control-flow graph, building it if needed.
func (ctx *IRContext) CFG() *CFG {
	if !ctx.valid.Has(AnalysisCFG) {
		ctx.cfg = newCFG(ctx.module)
		ctx.valid |= AnalysisCFG
	}
	return ctx.cfg
}

// DominatorAnalysis returns the dominator tree of f, building it if needed.
func (ctx *IRContext) DominatorAnalysis(f *spirv.Function) *DominatorAnalysis {
	if !ctx.valid.Has(AnalysisDominatorAnalysis) {
		ctx.dominators = make(map[*spirv.Function]*DominatorAnalysis)
		ctx.valid |= AnalysisDominatorAnalysis
	}
	da, ok := ctx.dominators[f]
	if !ok {
		da = newDominatorAnalysis(ctx.CFG(), f)
		ctx.dominators[f] = da
	}
	return da
}

func (ctx *IRContext) buildDominators() {
	for _, f := range ctx.module.Functions {
		ctx.DominatorAnalysis(f)
	}
}

func (ctx *IRContext) buildInstrToBlock() map[*spirv.Instruction]*spirv.BasicBlock {
	if !ctx.valid.Has(AnalysisInstrToBlockMapping) {
		ctx.instrToBlock = instrToBlockMapping(ctx.module)
		ctx.valid |= AnalysisInstrToBlockMapping
	}
	return ctx.instrToBlock
}

func instrToBlockMapping(m *spirv.Module) map[*spirv.Instruction]*spirv.BasicBlock {
	mapping := make(map[*spirv.Instruction]*spirv.BasicBlock)
	for _, f := range m.Functions {
		for _, b := range f.Blocks {
			b.WhileEachInst(func(inst *spirv.Instruction) bool {
				mapping[inst] = b
				return true
			})
		}
	}
	return mapping
}

// InstrBlock returns the block containing inst, or nil for instructions
// outside of blocks.
func (ctx *IRContext) InstrBlock(inst *spirv.Instruction) *spirv.BasicBlock {
	return ctx.buildInstrToBlock()[inst]
}

func (ctx *IRContext) combinatorSet() *combinatorSet {
	if !ctx.valid.Has(AnalysisCombinators) {
		ctx.combinators = newCombinatorSet(ctx.module)
		ctx.valid |= AnalysisCombinators
	}
	return ctx.combinators
}

// IsCombinatorInstruction reports whether inst is free of side effects and
// depends only on its operands.
func (ctx *IRContext) IsCombinatorInstruction(inst *spirv.Instruction) bool {
	return ctx.combinatorSet().contains(inst.Opcode)
}

// Dominates reports whether the value defined by a is available at b.
// Module-scope definitions dominate everything.
func (ctx *IRContext) Dominates(a, b *spirv.Instruction) bool {
	ba := ctx.InstrBlock(a)
	if ba == nil {
		return true
	}
	bb := ctx.InstrBlock(b)
	if bb == nil {
		return false
	}
	if ba == bb {
		return instIndex(ba, a) <= instIndex(bb, b)
	}
	f := ctx.CFG().Function(ba.ID())
	if f == nil || f != ctx.CFG().Function(bb.ID()) {
		return false
	}
	return ctx.DominatorAnalysis(f).Dominates(ba.ID(), bb.ID())
}

// instIndex returns the position of inst in b, with the label at -1.
func instIndex(b *spirv.BasicBlock, inst *spirv.Instruction) int {
	if inst == b.Label {
		return -1
	}
	for k, candidate := range b.Insts {
		if candidate == inst {
			return k
		}
	}
	return len(b.Insts)
}

// TakeNextID returns a fresh id and raises the module bound. It returns 0
// when the id space is exhausted.
func (ctx *IRContext) TakeNextID() spirv.ID {
	next := ctx.module.Header.Bound
	if next >= spirv.MaxIDBound {
		return 0
	}
	ctx.module.Header.Bound++
	return spirv.ID(next)
}

// AddGlobalValue appends a type, constant or global variable to the module
// and registers it with the valid analyses.
func (ctx *IRContext) AddGlobalValue(inst *spirv.Instruction) {
	ctx.module.AddGlobalInst(inst)
	if ctx.valid.Has(AnalysisDefUse) {
		ctx.defUse.AnalyzeInstDefUse(inst)
	}
}

// AnalyzeUses refreshes the valid analyses after the operands of inst were
// edited.
func (ctx *IRContext) AnalyzeUses(inst *spirv.Instruction) {
	if ctx.valid.Has(AnalysisDefUse) {
		ctx.defUse.AnalyzeInstUse(inst)
	}
	if ctx.valid.Has(AnalysisDecorations) && inst.Opcode.IsAnnotation() {
		ctx.decorations.reanalyze(inst)
	}
	if ctx.valid.Has(AnalysisNameMap) && inst.Opcode.IsDebugName() {
		ctx.names.remove(inst)
		ctx.names.add(inst)
	}
	if ctx.valid.Has(AnalysisCFG) && inst.Opcode.IsBlockTerminator() {
		b := ctx.InstrBlock(inst)
		if b == nil || !slices.Equal(ctx.cfg.Successors(b.ID()), b.Successors()) {
			ctx.InvalidateAnalyses(AnalysisCFG)
		}
	}
}

// ReplaceAllUsesWith rewrites every use of before into after. Annotations
// and debug names keep referring to before. It reports whether anything
// changed.
func (ctx *IRContext) ReplaceAllUsesWith(before, after spirv.ID) bool {
	if before == after {
		return false
	}
	changed := false
	ctx.DefUseManager().ForEachUser(before, func(user *spirv.Instruction) {
		if user.Opcode.IsAnnotation() || user.Opcode.IsDebugName() {
			return
		}
		user.ForEachID(func(id *spirv.ID) {
			if *id == before {
				*id = after
			}
		})
		ctx.AnalyzeUses(user)
		changed = true
	})
	return changed
}

// KillDef removes the definition of id together with every annotation,
// debug name, entry-point interface slot and execution mode referring to
// it. It panics if id is undefined or still has other uses.
func (ctx *IRContext) KillDef(id spirv.ID) {
	def := ctx.DefUseManager().GetDef(id)
	if def == nil {
		panic(fmt.Sprintf("opt: KillDef of undefined id %%%d", id))
	}
	ctx.KillInst(def)
}

// KillInst removes inst from the module. If it defines an id, everything
// that only describes the id is removed with it; any other remaining use
// is a contract violation and panics.
func (ctx *IRContext) KillInst(inst *spirv.Instruction) {
	if id := inst.ResultID; id != 0 {
		ctx.killDescriptions(id)
		ctx.DefUseManager().ForEachUser(id, func(user *spirv.Instruction) {
			if user != inst {
				panic(fmt.Sprintf("opt: killing %%%d which is still used by %s", id, user))
			}
		})
	}
	ctx.removeInst(inst)
}

// killDescriptions removes the instructions that describe id without
// computing with it.
func (ctx *IRContext) killDescriptions(id spirv.ID) {
	ctx.DefUseManager().ForEachUser(id, func(user *spirv.Instruction) {
		switch {
		case user.Opcode == spirv.OpGroupDecorate || user.Opcode == spirv.OpGroupMemberDecorate:
			if user.IDInOperand(0) == id {
				ctx.removeInst(user)
				return
			}
			ctx.removeGroupTarget(user, id)
		case user.Opcode.IsAnnotation(), user.Opcode.IsDebugName():
			ctx.removeInst(user)
		case user.Opcode == spirv.OpExecutionMode || user.Opcode == spirv.OpExecutionModeID:
			if user.IDInOperand(0) == id {
				ctx.removeInst(user)
			}
		case user.Opcode == spirv.OpEntryPoint:
			ctx.removeInterfaceID(user, id)
		}
	})
}

// removeGroupTarget drops id from the target list of a group decoration,
// removing the instruction once no target is left.
func (ctx *IRContext) removeGroupTarget(inst *spirv.Instruction, id spirv.ID) {
	stride := 1
	if inst.Opcode == spirv.OpGroupMemberDecorate {
		stride = 2
	}
	for k := 1; k < inst.NumInOperands(); {
		if inst.IDInOperand(k) != id {
			k += stride
			continue
		}
		for range stride {
			inst.RemoveInOperand(k)
		}
	}
	if inst.NumInOperands() == 1 {
		ctx.removeInst(inst)
		return
	}
	ctx.AnalyzeUses(inst)
}

// removeInterfaceID drops id from the interface list of an entry point.
func (ctx *IRContext) removeInterfaceID(entry *spirv.Instruction, id spirv.ID) {
	for k := entry.NumInOperands() - 1; k >= 3; k-- {
		if entry.IDInOperand(k) == id {
			entry.RemoveInOperand(k)
		}
	}
	ctx.AnalyzeUses(entry)
}

// removeInst detaches inst from the module and from every valid analysis.
func (ctx *IRContext) removeInst(inst *spirv.Instruction) {
	if ctx.valid.Has(AnalysisDefUse) {
		ctx.defUse.ClearInst(inst)
	}
	if ctx.valid.Has(AnalysisDecorations) && inst.Opcode.IsAnnotation() {
		ctx.decorations.RemoveDecoration(inst)
	}
	if ctx.valid.Has(AnalysisNameMap) && inst.Opcode.IsDebugName() {
		ctx.names.remove(inst)
	}
	if ctx.valid.Has(AnalysisInstrToBlockMapping) {
		delete(ctx.instrToBlock, inst)
	}
	if isStructural(inst) {
		ctx.InvalidateAnalyses(AnalysisCFG)
	}
	if !ctx.module.RemoveInst(inst) {
		panic(fmt.Sprintf("opt: cannot remove %s from the module", inst))
	}
}

// isStructural reports whether inst shapes the control-flow graph.
func isStructural(inst *spirv.Instruction) bool {
	op := inst.Opcode
	return op == spirv.OpLabel || op.IsBlockTerminator() || op.IsMerge()
}

package opt

import (
	"fmt"

	"github.com/gogpu/spvopt/spirv"
)

const interfaceCleanupName = "interface-cleanup"

// firstInterfaceOperand is the in-operand index of the first interface id
// of OpEntryPoint, after the execution model, function and name.
const firstInterfaceOperand = 3

// InterfaceCleanupPass removes Input variables that nothing reads from the
// interface lists of entry points, and deletes the variables.
//
// An interface variable is kept if it has export linkage, if anything other
// than annotations, debug names and entry points uses it, if its storage
// class is not Input, or if it is decorated BuiltIn SampleId, which forces
// per-sample shading even when unread. Unused Output variables are kept.
type InterfaceCleanupPass struct{}

// NewInterfaceCleanupPass creates the pass.
func NewInterfaceCleanupPass() *InterfaceCleanupPass {
	return &InterfaceCleanupPass{}
}

// Name implements Pass.
func (p *InterfaceCleanupPass) Name() string {
	return interfaceCleanupName
}

// PreservedAnalyses implements Pass.
func (p *InterfaceCleanupPass) PreservedAnalyses() Analysis {
	return AnalysisDefUse | AnalysisInstrToBlockMapping | AnalysisDecorations |
		AnalysisCombinators | AnalysisNameMap
}

// Process implements Pass.
func (p *InterfaceCleanupPass) Process(ctx *IRContext) Status {
	status := StatusSuccessWithoutChange
	for _, entry := range ctx.Module().EntryPoints {
		for i := firstInterfaceOperand; i < entry.NumInOperands(); {
			id := entry.IDInOperand(i)
			if p.keep(ctx, id) {
				i++
				continue
			}
			// The next interface id shifts into slot i.
			entry.RemoveInOperand(i)
			ctx.AnalyzeUses(entry)
			ctx.KillDef(id)
			status = StatusSuccessWithChange
		}
	}
	return status
}

// keep reports whether the interface variable id must stay. The checks run
// in order and stop at the first that holds.
func (p *InterfaceCleanupPass) keep(ctx *IRContext, id spirv.ID) bool {
	decorations := ctx.DecorationManager()
	if decorations.HasLinkage(id, spirv.LinkageTypeExport) {
		return true
	}
	if usedOutsideInterface(ctx, id) {
		return true
	}
	if storageClassOf(ctx, id) != spirv.StorageClassInput {
		return true
	}
	return decorations.HasBuiltIn(id, spirv.BuiltInSampleID)
}

// usedOutsideInterface reports whether id has a user other than an
// annotation, a debug name or an entry point.
func usedOutsideInterface(ctx *IRContext, id spirv.ID) bool {
	return !ctx.DefUseManager().WhileEachUser(id, func(user *spirv.Instruction) bool {
		op := user.Opcode
		return op.IsAnnotation() || op.IsDebugName() || op == spirv.OpEntryPoint
	})
}

// storageClassOf returns the storage class of the variable id. It panics
// if id is not a variable of pointer type.
func storageClassOf(ctx *IRContext, id spirv.ID) spirv.StorageClass {
	defUse := ctx.DefUseManager()
	variable := defUse.GetDef(id)
	if variable == nil || variable.Opcode != spirv.OpVariable {
		panic(fmt.Sprintf("opt: interface id %%%d is not a variable", id))
	}
	ptr := defUse.GetDef(variable.TypeID)
	if ptr == nil || ptr.Opcode != spirv.OpTypePointer {
		panic(fmt.Sprintf("opt: interface variable %%%d does not have a pointer type", id))
	}
	return spirv.StorageClass(ptr.SingleWordInOperand(0))
}

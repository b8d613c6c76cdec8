package opt

import (
	"github.com/gogpu/spvopt/spirv"
)

const simplificationName = "simplify-instructions"

// Rule is a local simplification. Apply returns an existing id with the
// same type and value as inst, or false if the rule does not apply. Rules
// never edit inst; the pass replaces and deletes it.
type Rule interface {
	Name() string
	Apply(ctx *IRContext, inst *spirv.Instruction) (spirv.ID, bool)
}

// SimplificationPass rewrites each function with its rules until a full
// scan of the function changes nothing.
//
// Every successful rule deletes one instruction of the function, so the
// number of scans is bounded by the instruction count; a function needing
// more scans than that makes the pass fail.
type SimplificationPass struct {
	rules []Rule
}

// NewSimplificationPass creates the pass with rules, or DefaultRules() when
// none are given.
func NewSimplificationPass(rules ...Rule) *SimplificationPass {
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	return &SimplificationPass{rules: rules}
}

// Name implements Pass.
func (p *SimplificationPass) Name() string {
	return simplificationName
}

// PreservedAnalyses implements Pass.
func (p *SimplificationPass) PreservedAnalyses() Analysis {
	return AnalysisDefUse | AnalysisInstrToBlockMapping | AnalysisDecorations |
		AnalysisCombinators | AnalysisCFG | AnalysisDominatorAnalysis | AnalysisNameMap
}

// Process implements Pass.
func (p *SimplificationPass) Process(ctx *IRContext) Status {
	status := StatusSuccessWithoutChange
	for _, f := range ctx.Module().Functions {
		status = CombineStatus(status, p.simplifyFunction(ctx, f))
		if status == StatusFailure {
			return status
		}
	}
	return status
}

func (p *SimplificationPass) simplifyFunction(ctx *IRContext, f *spirv.Function) Status {
	budget := f.NumInsts() + 1
	status := StatusSuccessWithoutChange
	for scan := 1; ; scan++ {
		if scan > budget {
			return StatusFailure
		}
		progress, ok := p.scan(ctx, f)
		if !ok {
			return StatusFailure
		}
		if !progress {
			return status
		}
		status = StatusSuccessWithChange
	}
}

// scan makes one pass over every block of f. ok is false if a rule
// produced an undefined id.
func (p *SimplificationPass) scan(ctx *IRContext, f *spirv.Function) (progress, ok bool) {
	for _, b := range f.Blocks {
		for k := 0; k < len(b.Insts); {
			inst := b.Insts[k]
			if inst.ResultID == 0 || !ctx.IsCombinatorInstruction(inst) {
				k++
				continue
			}
			replacement, found := p.simplify(ctx, inst)
			if !found {
				k++
				continue
			}
			if ctx.DefUseManager().GetDef(replacement) == nil {
				return progress, false
			}
			ctx.ReplaceAllUsesWith(inst.ResultID, replacement)
			// The next instruction shifts into slot k.
			ctx.KillInst(inst)
			progress = true
		}
	}
	return progress, true
}

// simplify returns the first rule result usable in place of inst.
func (p *SimplificationPass) simplify(ctx *IRContext, inst *spirv.Instruction) (spirv.ID, bool) {
	for _, r := range p.rules {
		id, ok := r.Apply(ctx, inst)
		if !ok || id == inst.ResultID {
			continue
		}
		if def := ctx.DefUseManager().GetDef(id); def != nil && def.TypeID != inst.TypeID {
			continue
		}
		return id, true
	}
	return 0, false
}

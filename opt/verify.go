package opt

import (
	"fmt"
	"maps"
)

// AnalysisError reports a cached analysis that no longer matches the module.
type AnalysisError struct {
	Analysis Analysis
	Detail   string
}

// Error implements the error interface.
func (e *AnalysisError) Error() string {
	return fmt.Sprintf("opt: stale %s analysis: %s", e.Analysis, e.Detail)
}

// CheckAnalyses rebuilds every valid analysis from the module and compares
// it with the cached one. It returns the first mismatch.
func (ctx *IRContext) CheckAnalyses() error {
	stale := func(a Analysis, err error) error {
		if err == nil {
			return nil
		}
		return &AnalysisError{Analysis: a, Detail: err.Error()}
	}

	if ctx.valid.Has(AnalysisDefUse) {
		if err := stale(AnalysisDefUse, ctx.defUse.compare(newDefUseManager(ctx.module))); err != nil {
			return err
		}
	}
	if ctx.valid.Has(AnalysisInstrToBlockMapping) {
		fresh := instrToBlockMapping(ctx.module)
		if !maps.Equal(ctx.instrToBlock, fresh) {
			return &AnalysisError{
				Analysis: AnalysisInstrToBlockMapping,
				Detail:   fmt.Sprintf("%d instructions cached, %d in blocks", len(ctx.instrToBlock), len(fresh)),
			}
		}
	}
	if ctx.valid.Has(AnalysisDecorations) {
		if err := stale(AnalysisDecorations, ctx.decorations.compare(newDecorationManager(ctx.module))); err != nil {
			return err
		}
	}
	if ctx.valid.Has(AnalysisCombinators) {
		if *ctx.combinators != *newCombinatorSet(ctx.module) {
			return &AnalysisError{Analysis: AnalysisCombinators, Detail: "shader capability changed"}
		}
	}
	if ctx.valid.Has(AnalysisCFG) {
		fresh := newCFG(ctx.module)
		if err := stale(AnalysisCFG, ctx.cfg.compare(fresh)); err != nil {
			return err
		}
		if ctx.valid.Has(AnalysisDominatorAnalysis) {
			for f, da := range ctx.dominators {
				if err := stale(AnalysisDominatorAnalysis, da.compare(newDominatorAnalysis(fresh, f))); err != nil {
					return err
				}
			}
		}
	}
	if ctx.valid.Has(AnalysisNameMap) {
		if err := stale(AnalysisNameMap, ctx.names.compare(newNameMap(ctx.module))); err != nil {
			return err
		}
	}
	return nil
}

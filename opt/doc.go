// Package opt implements the optimization pass framework for SPIR-V
// modules.
//
// An IRContext owns a decoded module and lazily builds analyses over it:
// def-use chains, decorations, debug names, the instruction-to-block
// mapping, the combinator set, the control-flow graph and dominator trees.
// Each analysis is either valid, and then exact, or invalid and rebuilt on
// the next request. Passes mutate the module only through the context
// (ReplaceAllUsesWith, KillInst, KillDef, AnalyzeUses), which keeps every
// valid analysis in sync.
//
// A PassManager runs passes in order and invalidates, after each pass that
// reports StatusSuccessWithChange, the analyses the pass does not list in
// PreservedAnalyses.
//
// Basic usage:
//
//	ctx := opt.NewIRContext(module)
//	pm := opt.NewPassManager(opt.DefaultOptions())
//	pm.AddPass(opt.NewInterfaceCleanupPass(), opt.NewSimplificationPass())
//	status, err := pm.Run(ctx)
package opt

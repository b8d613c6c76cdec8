package opt

import (
	"fmt"
	"log/slog"
	"time"
)

// Options configures a PassManager.
type Options struct {
	// Logger receives one record per pass. Nil means slog.Default().
	Logger *slog.Logger

	// VerifyAnalyses rebuilds and compares every valid analysis after each
	// pass that changed the module.
	VerifyAnalyses bool
}

// DefaultOptions returns the default pass manager options.
func DefaultOptions() Options {
	return Options{Logger: slog.Default()}
}

// PassError reports a pass that returned StatusFailure.
type PassError struct {
	Pass  string
	Index int
}

// Error implements the error interface.
func (e *PassError) Error() string {
	return fmt.Sprintf("opt: pass %q (#%d) failed", e.Pass, e.Index)
}

// PassManager runs a sequence of passes over one IRContext.
type PassManager struct {
	passes []Pass
	logger *slog.Logger
	verify bool
}

// NewPassManager creates an empty pass manager.
func NewPassManager(opts Options) *PassManager {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &PassManager{logger: logger, verify: opts.VerifyAnalyses}
}

// AddPass appends passes to the pipeline.
func (pm *PassManager) AddPass(passes ...Pass) {
	pm.passes = append(pm.passes, passes...)
}

// Passes returns the pipeline.
func (pm *PassManager) Passes() []Pass {
	return pm.passes
}

// Run runs every pass in order. After a pass reports a change, the analyses
// it does not preserve are invalidated. Run stops at the first failure and
// returns a *PassError; the module keeps the changes made so far.
func (pm *PassManager) Run(ctx *IRContext) (Status, error) {
	status := StatusSuccessWithoutChange
	for i, p := range pm.passes {
		start := time.Now()
		pm.logger.Debug("running pass", "pass", p.Name(), "index", i)

		result := p.Process(ctx)
		pm.logger.Info("pass finished",
			"pass", p.Name(),
			"status", result.String(),
			"duration", time.Since(start),
			"instructions", ctx.Module().NumInsts())

		switch result {
		case StatusFailure:
			pm.logger.Error("pass failed", "pass", p.Name(), "index", i)
			return StatusFailure, &PassError{Pass: p.Name(), Index: i}
		case StatusSuccessWithChange:
			ctx.InvalidateAnalysesExceptFor(p.PreservedAnalyses())
			status = StatusSuccessWithChange
			if pm.verify {
				if err := ctx.CheckAnalyses(); err != nil {
					return StatusFailure, fmt.Errorf("after pass %q: %w", p.Name(), err)
				}
			}
		}
	}
	return status, nil
}

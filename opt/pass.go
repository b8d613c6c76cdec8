package opt

// Status is the outcome of running a pass.
type Status uint8

const (
	// StatusSuccessWithoutChange means the module was not mutated.
	StatusSuccessWithoutChange Status = iota

	// StatusSuccessWithChange means the module was mutated; analyses the
	// pass does not preserve must be treated as invalid.
	StatusSuccessWithChange

	// StatusFailure means the pass could not complete. It is not retried.
	StatusFailure
)

// String returns a human-readable status name.
func (s Status) String() string {
	switch s {
	case StatusSuccessWithoutChange:
		return "SuccessWithoutChange"
	case StatusSuccessWithChange:
		return "SuccessWithChange"
	case StatusFailure:
		return "Failure"
	default:
		return "Unknown"
	}
}

// CombineStatus merges the status of two sequential steps.
func CombineStatus(a, b Status) Status {
	return max(a, b)
}

// Pass is one module transformation.
type Pass interface {
	// Name identifies the pass in diagnostics and pipelines.
	Name() string

	// Process transforms the module owned by ctx.
	Process(ctx *IRContext) Status

	// PreservedAnalyses returns the analyses the pass never invalidates.
	PreservedAnalyses() Analysis
}

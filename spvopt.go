// Package spvopt optimizes SPIR-V modules.
//
// spvopt decodes a SPIR-V binary, runs a pipeline of optimization passes
// over it and encodes the result. The passes live in the opt package; the
// binary and text codecs live in the spirv package.
//
// Example usage:
//
//	data, err := os.ReadFile("shader.spv")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	optimized, status, err := spvopt.Optimize(data, spvopt.DefaultOptions())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if status == spvopt.StatusSuccessWithChange {
//	    os.WriteFile("shader.opt.spv", optimized, 0o644)
//	}
//
// Pipelines can also be described in a YAML file, see LoadConfig.
package spvopt

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/Masterminds/semver/v3"

	"github.com/gogpu/spvopt/opt"
	"github.com/gogpu/spvopt/spirv"
)

// Status is the outcome of an optimization run.
type Status = opt.Status

// Optimization outcomes.
const (
	StatusSuccessWithoutChange = opt.StatusSuccessWithoutChange
	StatusSuccessWithChange    = opt.StatusSuccessWithChange
	StatusFailure              = opt.StatusFailure
)

// DefaultSPIRVVersions is the range of module versions accepted by default.
const DefaultSPIRVVersions = ">= 1.0, <= 1.6"

// ErrUnsupportedVersion is returned for modules outside Options.SPIRVVersions.
var ErrUnsupportedVersion = errors.New("unsupported SPIR-V version")

// Options configures optimization.
type Options struct {
	// Passes names the registered passes to run, in order. Nil runs
	// opt.DefaultPipeline(); an empty non-nil slice runs nothing.
	Passes []string

	// SPIRVVersions is a version constraint such as ">= 1.0, <= 1.6" that
	// the module header must satisfy. Empty accepts any version.
	SPIRVVersions string

	// VerifyAnalyses rebuilds every cached analysis after each changing
	// pass and fails if one went stale.
	VerifyAnalyses bool

	// Logger receives pass manager records. Nil means slog.Default().
	Logger *slog.Logger
}

// DefaultOptions returns the default pipeline over SPIR-V 1.0 to 1.6.
func DefaultOptions() Options {
	return Options{
		Passes:        opt.DefaultPipeline(),
		SPIRVVersions: DefaultSPIRVVersions,
		Logger:        slog.Default(),
	}
}

// Optimize decodes binary, optimizes it and encodes the result.
//
// When no pass changes the module the input slice is returned as is.
func Optimize(binary []byte, opts Options) ([]byte, Status, error) {
	module, err := spirv.Decode(binary)
	if err != nil {
		return nil, StatusFailure, fmt.Errorf("decode error: %w", err)
	}

	status, err := OptimizeModule(module, opts)
	if err != nil {
		return nil, status, err
	}
	if status == StatusSuccessWithoutChange {
		return binary, status, nil
	}
	return spirv.Encode(module), status, nil
}

// OptimizeModule runs the configured passes over module in place.
//
// On failure the module keeps the changes made by the passes that ran
// before the failing one.
func OptimizeModule(module *spirv.Module, opts Options) (Status, error) {
	if err := CheckVersion(module.Header.Version, opts.SPIRVVersions); err != nil {
		return StatusFailure, err
	}

	pm, err := NewPassManager(opts)
	if err != nil {
		return StatusFailure, err
	}

	status, err := pm.Run(opt.NewIRContext(module))
	if err != nil {
		return status, fmt.Errorf("optimization error: %w", err)
	}
	return status, nil
}

// NewPassManager builds a pass manager running opts.Passes.
func NewPassManager(opts Options) (*opt.PassManager, error) {
	names := opts.Passes
	if names == nil {
		names = opt.DefaultPipeline()
	}

	pm := opt.NewPassManager(opt.Options{
		Logger:         opts.Logger,
		VerifyAnalyses: opts.VerifyAnalyses,
	})
	for _, name := range names {
		p, err := opt.NewPass(name)
		if err != nil {
			return nil, fmt.Errorf("pipeline error: %w", err)
		}
		pm.AddPass(p)
	}
	return pm, nil
}

// CheckVersion reports whether v satisfies constraint. An empty constraint
// accepts every version.
func CheckVersion(v spirv.Version, constraint string) error {
	if constraint == "" {
		return nil
	}
	c, err := parseVersionRange(constraint)
	if err != nil {
		return err
	}
	sv, err := semver.NewVersion(v.String())
	if err != nil {
		return fmt.Errorf("%w: %s", ErrUnsupportedVersion, v)
	}
	if !c.Check(sv) {
		return fmt.Errorf("%w: %s is outside %q", ErrUnsupportedVersion, v, constraint)
	}
	return nil
}

func parseVersionRange(constraint string) (*semver.Constraints, error) {
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return nil, fmt.Errorf("invalid SPIR-V version range %q: %w", constraint, err)
	}
	return c, nil
}

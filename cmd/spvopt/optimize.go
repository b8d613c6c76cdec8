package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/gogpu/spvopt"
)

// optimizeOptions holds flags for the optimize command.
type optimizeOptions struct {
	*rootOptions
	output string
	outDir string
	passes []string
	config string
	verify bool
	jobs   int
}

// fileResult is the outcome of optimizing one input.
type fileResult struct {
	input  string
	output string
	before int
	after  int
	status spvopt.Status
	binary []byte // kept only when writing to stdout
	done   bool
}

func newOptimizeCommand(rootOpts *rootOptions) *cobra.Command {
	opts := &optimizeOptions{rootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "optimize [flags] <input.spv>...",
		Short: "Run an optimization pipeline over SPIR-V binaries",
		Long: `Run an optimization pipeline over SPIR-V binaries.

A single input is written to --output, or to stdout when neither --output
nor --out-dir is given. Several inputs need --out-dir and are optimized in
parallel; each output keeps its input's base name.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOptimize(cmd, opts, args)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single input only)")
	cmd.Flags().StringVar(&opts.outDir, "out-dir", "", "output directory")
	cmd.Flags().StringArrayVarP(&opts.passes, "pass", "p", nil, "pass to run, repeatable (default: the default pipeline)")
	cmd.Flags().StringVarP(&opts.config, "config", "c", "", "YAML pipeline file")
	cmd.Flags().BoolVar(&opts.verify, "verify", false, "check cached analyses after every changing pass")
	cmd.Flags().IntVarP(&opts.jobs, "jobs", "j", runtime.GOMAXPROCS(0), "files optimized in parallel")

	return cmd
}

// pipeline merges the config file with the command-line flags.
func (o *optimizeOptions) pipeline() (spvopt.Config, slog.Level, error) {
	cfg := spvopt.DefaultConfig()
	level := slog.LevelWarn
	if o.config != "" {
		loaded, err := spvopt.LoadConfig(o.config)
		if err != nil {
			return cfg, level, err
		}
		cfg = *loaded
		level, _ = cfg.Level()
	}
	if len(o.passes) > 0 {
		cfg.Passes = o.passes
	}
	if o.verify {
		cfg.VerifyAnalyses = true
	}
	if err := cfg.Validate(); err != nil {
		return cfg, level, err
	}
	return cfg, level, nil
}

func runOptimize(cmd *cobra.Command, opts *optimizeOptions, inputs []string) error {
	switch {
	case opts.output != "" && opts.outDir != "":
		return errors.New("--output and --out-dir are mutually exclusive")
	case len(inputs) > 1 && opts.outDir == "":
		return errors.New("several inputs need --out-dir")
	case opts.jobs < 1:
		return fmt.Errorf("--jobs must be positive, got %d", opts.jobs)
	}

	cfg, level, err := opts.pipeline()
	if err != nil {
		return err
	}
	logger := opts.newLogger(cmd.ErrOrStderr(), level)

	if opts.outDir != "" {
		if err := os.MkdirAll(opts.outDir, 0o755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}

	results := make([]fileResult, len(inputs))
	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(opts.jobs)
	for i, input := range inputs {
		output := opts.output
		if opts.outDir != "" {
			output = filepath.Join(opts.outDir, filepath.Base(input))
		}
		fileOpts := cfg.ToOptions(logger.With("file", input))
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := optimizeFile(input, output, fileOpts)
			if err != nil {
				return fmt.Errorf("%s: %w", input, err)
			}
			results[i] = res
			return nil
		})
	}
	err = g.Wait()

	if opts.output == "" && opts.outDir == "" {
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(results[0].binary)
		return err
	}
	for _, res := range results {
		if res.done {
			fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s: %s (%d -> %d bytes)\n",
				res.input, res.output, res.status, res.before, res.after)
		}
	}
	return err
}

func optimizeFile(input, output string, opts spvopt.Options) (fileResult, error) {
	data, err := os.ReadFile(input)
	if err != nil {
		return fileResult{}, err
	}
	optimized, status, err := spvopt.Optimize(data, opts)
	if err != nil {
		return fileResult{}, err
	}

	res := fileResult{
		input:  input,
		output: output,
		before: len(data),
		after:  len(optimized),
		status: status,
		done:   true,
	}
	if output == "" {
		res.binary = optimized
		return res, nil
	}
	if err := os.WriteFile(output, optimized, 0o644); err != nil {
		return fileResult{}, err
	}
	return res, nil
}

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/gogpu/spvopt/spirv"
)

// asmOptions holds flags for the as and dis commands.
type asmOptions struct {
	*rootOptions
	output  string
	version string
	numeric bool
}

func newAsCommand(rootOpts *rootOptions) *cobra.Command {
	opts := &asmOptions{rootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "as <input.spvasm>",
		Short: "Assemble SPIR-V text into a binary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAs(cmd, opts, args[0])
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVar(&opts.version, "target-version", "1.0", "SPIR-V version written to the header")

	return cmd
}

func newDisCommand(rootOpts *rootOptions) *cobra.Command {
	opts := &asmOptions{rootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "dis <input.spv>",
		Short: "Disassemble a SPIR-V binary into text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDis(cmd, opts, args[0])
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().BoolVar(&opts.numeric, "raw-id", false, "print numeric ids instead of OpName names")

	return cmd
}

func runAs(cmd *cobra.Command, opts *asmOptions, input string) error {
	version, err := parseVersion(opts.version)
	if err != nil {
		return err
	}
	text, err := os.ReadFile(input)
	if err != nil {
		return err
	}
	m, _, err := spirv.AssembleWithOptions(string(text), spirv.AssembleOptions{Version: version})
	if err != nil {
		return fmt.Errorf("%s: %w", input, err)
	}
	return writeOutput(cmd.OutOrStdout(), opts.output, spirv.Encode(m))
}

func runDis(cmd *cobra.Command, opts *asmOptions, input string) error {
	data, err := os.ReadFile(input)
	if err != nil {
		return err
	}
	m, err := spirv.Decode(data)
	if err != nil {
		return fmt.Errorf("%s: %w", input, err)
	}

	var names *spirv.NameTable
	if !opts.numeric {
		names = spirv.DebugNameTable(m)
	}
	header := fmt.Sprintf("; SPIR-V\n; Version: %s\n; Generator: 0x%08x\n; Bound: %d\n; Schema: %d\n",
		m.Header.Version, m.Header.Generator, m.Header.Bound, m.Header.Schema)
	return writeOutput(cmd.OutOrStdout(), opts.output, []byte(header+spirv.Disassemble(m, names)))
}

func parseVersion(s string) (spirv.Version, error) {
	var v spirv.Version
	if _, err := fmt.Sscanf(s, "%d.%d", &v.Major, &v.Minor); err != nil {
		return v, fmt.Errorf("invalid SPIR-V version %q", s)
	}
	return v, nil
}

// writeOutput writes data to path, or to stdout when path is empty.
func writeOutput(stdout io.Writer, path string, data []byte) error {
	if path == "" {
		_, err := stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

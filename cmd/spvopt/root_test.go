package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/spvopt/spirv"
)

const shaderText = `OpCapability Shader
OpMemoryModel Logical GLSL450
OpEntryPoint Fragment %main "main" %in %dead %out
OpExecutionMode %main OriginUpperLeft
OpName %main "main"
OpName %dead "dead"
%void = OpTypeVoid
%fn = OpTypeFunction %void
%float = OpTypeFloat 32
%ptr_in = OpTypePointer Input %float
%ptr_out = OpTypePointer Output %float
%in = OpVariable %ptr_in Input
%dead = OpVariable %ptr_in Input
%out = OpVariable %ptr_out Output
%main = OpFunction %void None %fn
%entry = OpLabel
%x = OpLoad %float %in
%y = OpCopyObject %float %x
OpStore %out %y
OpReturn
OpFunctionEnd
`

// execute runs the spvopt command line and returns stdout and stderr.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCommand()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

// writeBinary assembles text into dir/name and returns the path.
func writeBinary(t *testing.T, dir, name, text string) string {
	t.Helper()
	m, _, err := spirv.Assemble(text)
	require.NoError(t, err)
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, spirv.Encode(m), 0o644))
	return path
}

func TestCommandPresence(t *testing.T) {
	cmd := newRootCommand()
	assert.Equal(t, "spvopt", cmd.Use)

	for _, name := range []string{"optimize", "as", "dis", "passes"} {
		t.Run(name, func(t *testing.T) {
			sub, _, err := cmd.Find([]string{name})
			require.NoError(t, err)
			assert.Equal(t, name, sub.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := newRootCommand()

	verbose := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verbose)
	assert.Equal(t, "v", verbose.Shorthand)
	assert.Equal(t, "false", verbose.DefValue)
}

func TestPassesCommand(t *testing.T) {
	stdout, _, err := execute(t, "passes")
	require.NoError(t, err)
	assert.Regexp(t, `(?m)^interface-cleanup\s+\*\s+Remove unused Input variables`, stdout)
	assert.Regexp(t, `(?m)^simplify-instructions\s+\*\s+Apply local instruction simplifications`, stdout)
}

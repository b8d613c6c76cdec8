package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/spvopt/spirv"
)

func decodeFile(t *testing.T, path string) *spirv.Module {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	m, err := spirv.Decode(data)
	require.NoError(t, err)
	return m
}

func TestOptimize_OutputFile(t *testing.T) {
	dir := t.TempDir()
	input := writeBinary(t, dir, "shader.spv", shaderText)
	output := filepath.Join(dir, "shader.opt.spv")

	stdout, stderr, err := execute(t, "optimize", "-o", output, input)
	require.NoError(t, err)
	assert.Contains(t, stdout, "shader.spv -> "+output+": SuccessWithChange")
	assert.Empty(t, stderr)

	m := decodeFile(t, output)
	text := spirv.Disassemble(m, spirv.DebugNameTable(m))
	assert.Contains(t, text, `OpEntryPoint Fragment %main "main" %2 %4`)
	assert.NotContains(t, text, "OpCopyObject")
	assert.NotContains(t, text, "dead")
}

func TestOptimize_Stdout(t *testing.T) {
	input := writeBinary(t, t.TempDir(), "shader.spv", shaderText)

	stdout, _, err := execute(t, "optimize", "--pass", "interface-cleanup", input)
	require.NoError(t, err)

	m, err := spirv.Decode([]byte(stdout))
	require.NoError(t, err)
	text := spirv.Disassemble(m, nil)
	assert.NotContains(t, text, `"dead"`)
	assert.Contains(t, text, "OpCopyObject", "only the selected pass runs")
}

func TestOptimize_OutDirParallel(t *testing.T) {
	dir := t.TempDir()
	outDir := filepath.Join(dir, "out")
	var inputs []string
	for _, name := range []string{"a.spv", "b.spv", "c.spv"} {
		inputs = append(inputs, writeBinary(t, dir, name, shaderText))
	}

	stdout, _, err := execute(t, append([]string{"optimize", "--jobs", "2", "--out-dir", outDir}, inputs...)...)
	require.NoError(t, err)

	for _, name := range []string{"a.spv", "b.spv", "c.spv"} {
		m := decodeFile(t, filepath.Join(outDir, name))
		assert.Len(t, m.EntryPoints[0].Operands, 5, name)
		assert.Contains(t, stdout, filepath.Join(outDir, name))
	}
}

func TestOptimize_Config(t *testing.T) {
	dir := t.TempDir()
	input := writeBinary(t, dir, "shader.spv", shaderText)
	config := filepath.Join(dir, "pipeline.yaml")
	require.NoError(t, os.WriteFile(config, []byte("passes: [simplify-instructions]\nverify_analyses: true\nlog_level: info\n"), 0o644))
	output := filepath.Join(dir, "out.spv")

	_, stderr, err := execute(t, "optimize", "--config", config, "-o", output, input)
	require.NoError(t, err)
	assert.Contains(t, stderr, `msg="pass finished" file=`)
	assert.Contains(t, stderr, "pass=simplify-instructions")
	assert.NotContains(t, stderr, "pass=interface-cleanup")

	m := decodeFile(t, output)
	assert.Len(t, m.EntryPoints[0].Operands, 6)
}

func TestOptimize_Verbose(t *testing.T) {
	dir := t.TempDir()
	input := writeBinary(t, dir, "shader.spv", shaderText)

	_, stderr, err := execute(t, "optimize", "-v", "-o", filepath.Join(dir, "out.spv"), input)
	require.NoError(t, err)
	assert.Contains(t, stderr, `level=DEBUG msg="running pass"`)
	assert.Contains(t, stderr, "pass=interface-cleanup")
}

func TestOptimize_Errors(t *testing.T) {
	dir := t.TempDir()
	input := writeBinary(t, dir, "shader.spv", shaderText)
	garbage := filepath.Join(dir, "garbage.spv")
	require.NoError(t, os.WriteFile(garbage, []byte("not a module"), 0o644))

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"no input", []string{"optimize"}, "requires at least 1 arg"},
		{"output and out-dir", []string{"optimize", "-o", "x", "--out-dir", dir, input}, "mutually exclusive"},
		{"several inputs", []string{"optimize", input, input}, "several inputs need --out-dir"},
		{"bad jobs", []string{"optimize", "--jobs", "0", input}, "--jobs must be positive"},
		{"unknown pass", []string{"optimize", "--pass", "inline", input}, `unknown pass "inline"`},
		{"missing config", []string{"optimize", "--config", filepath.Join(dir, "none.yaml"), input}, "failed to read config file"},
		{"missing input", []string{"optimize", filepath.Join(dir, "none.spv")}, "none.spv"},
		{"bad binary", []string{"optimize", garbage}, "garbage.spv: decode error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, tt.args...)
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

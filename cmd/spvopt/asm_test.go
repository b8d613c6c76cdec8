package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/spvopt/spirv"
)

func TestAsDis_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "shader.spvasm")
	require.NoError(t, os.WriteFile(source, []byte(shaderText), 0o644))
	binary := filepath.Join(dir, "shader.spv")

	_, _, err := execute(t, "as", "--target-version", "1.3", source, "-o", binary)
	require.NoError(t, err)
	m := decodeFile(t, binary)
	assert.Equal(t, spirv.Version1_3, m.Header.Version)

	stdout, _, err := execute(t, "dis", binary)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stdout, "; SPIR-V\n; Version: 1.3\n"), stdout)
	assert.Contains(t, stdout, `%main = OpFunction %5 None %6`)
	assert.Contains(t, stdout, `%dead = OpVariable %8 Input`)

	again, _, err := spirv.Assemble(stdout)
	require.NoError(t, err)
	assert.Equal(t, spirv.Disassemble(m, nil), spirv.Disassemble(again, nil))
}

func TestDis_RawIDs(t *testing.T) {
	binary := writeBinary(t, t.TempDir(), "shader.spv", shaderText)

	stdout, _, err := execute(t, "dis", "--raw-id", binary)
	require.NoError(t, err)
	assert.Contains(t, stdout, `OpName %1 "main"`)
	assert.NotContains(t, stdout, "%main")
}

func TestAsDis_Errors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.spvasm")
	require.NoError(t, os.WriteFile(bad, []byte("OpBogus\n"), 0o644))

	_, _, err := execute(t, "as", bad)
	assert.ErrorContains(t, err, "bad.spvasm")

	_, _, err = execute(t, "as", "--target-version", "one", bad)
	assert.ErrorContains(t, err, `invalid SPIR-V version "one"`)

	_, _, err = execute(t, "dis", bad)
	assert.ErrorContains(t, err, "bad.spvasm")
}

package opt

import (
	"testing"

	"github.com/gogpu/spvopt/spirv"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

// newTestContext assembles text into a context. The name table maps the
// symbolic ids of the text.
func newTestContext(t testing.TB, text string) (*IRContext, *spirv.NameTable) {
	t.Helper()
	m, names, err := spirv.Assemble(text)
	require.NoError(t, err, "assemble fixture")
	return NewIRContext(m), names
}

// id returns the id bound to name in names, failing the test if unbound.
func id(t testing.TB, names *spirv.NameTable, name string) spirv.ID {
	t.Helper()
	v, ok := names.Lookup(name)
	require.True(t, ok, "no id named %%%s", name)
	return v
}

// wantModule compares the disassembly of ctx with want.
func wantModule(t *testing.T, ctx *IRContext, names *spirv.NameTable, want string) {
	t.Helper()
	if diff := cmp.Diff(want, spirv.Disassemble(ctx.Module(), names)); diff != "" {
		t.Errorf("module mismatch (-want +got):\n%s", diff)
	}
}

// runPass runs p and checks that every analysis still valid afterwards
// matches a fresh rebuild.
func runPass(t *testing.T, ctx *IRContext, p Pass) Status {
	t.Helper()
	status := p.Process(ctx)
	if status == StatusSuccessWithChange {
		ctx.InvalidateAnalysesExceptFor(p.PreservedAnalyses())
	}
	require.NoError(t, ctx.CheckAnalyses(), "analyses after %s", p.Name())
	return status
}

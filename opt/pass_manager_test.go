package opt

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/gogpu/spvopt/spirv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePass struct {
	name      string
	status    Status
	preserved Analysis
	process   func(ctx *IRContext)
	calls     int
}

func (p *fakePass) Name() string                { return p.name }
func (p *fakePass) PreservedAnalyses() Analysis { return p.preserved }

func (p *fakePass) Process(ctx *IRContext) Status {
	p.calls++
	if p.process != nil {
		p.process(ctx)
	}
	return p.status
}

func newTestLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestStatus(t *testing.T) {
	assert.Equal(t, StatusSuccessWithChange, CombineStatus(StatusSuccessWithoutChange, StatusSuccessWithChange))
	assert.Equal(t, StatusFailure, CombineStatus(StatusFailure, StatusSuccessWithChange))
	assert.Equal(t, StatusSuccessWithoutChange, CombineStatus(StatusSuccessWithoutChange, StatusSuccessWithoutChange))

	assert.Equal(t, "SuccessWithChange", StatusSuccessWithChange.String())
	assert.Equal(t, "Unknown", Status(42).String())
}

func TestPassManager_DefaultPipeline(t *testing.T) {
	ctx, names := newTestContext(t, mixedInterface)
	var logs bytes.Buffer
	pm := NewPassManager(Options{Logger: newTestLogger(&logs), VerifyAnalyses: true})
	for _, name := range DefaultPipeline() {
		p, err := NewPass(name)
		require.NoError(t, err)
		pm.AddPass(p)
	}

	status, err := pm.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, StatusSuccessWithChange, status)
	assert.Nil(t, ctx.DefUseManager().GetDef(id(t, names, "dead")))

	out := logs.String()
	assert.Contains(t, out, `msg="running pass" pass=interface-cleanup`)
	assert.Contains(t, out, `msg="pass finished" pass=simplify-instructions status=SuccessWithoutChange`)
}

func TestPassManager_InvalidatesUnpreserved(t *testing.T) {
	ctx, _ := newTestContext(t, fragShader)
	ctx.BuildInvalidAnalyses(AnalysisAll)

	quiet := &fakePass{name: "quiet", status: StatusSuccessWithoutChange}
	changing := &fakePass{name: "changing", status: StatusSuccessWithChange, preserved: AnalysisDefUse | AnalysisCFG}
	pm := NewPassManager(Options{Logger: newTestLogger(&bytes.Buffer{})})

	pm.AddPass(quiet)
	_, err := pm.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, AnalysisAll, ctx.ValidAnalyses(), "a pass without changes keeps every analysis")

	pm.AddPass(changing)
	status, err := pm.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, StatusSuccessWithChange, status)
	assert.Equal(t, AnalysisDefUse|AnalysisCFG, ctx.ValidAnalyses())
	assert.Equal(t, 2, quiet.calls)
	assert.Len(t, pm.Passes(), 2)
}

func TestPassManager_StopsAtFailure(t *testing.T) {
	ctx, _ := newTestContext(t, fragShader)
	first := &fakePass{name: "first", status: StatusSuccessWithChange}
	broken := &fakePass{name: "broken", status: StatusFailure}
	never := &fakePass{name: "never", status: StatusSuccessWithoutChange}

	var logs bytes.Buffer
	pm := NewPassManager(Options{Logger: newTestLogger(&logs)})
	pm.AddPass(first, broken, never)

	status, err := pm.Run(ctx)
	assert.Equal(t, StatusFailure, status)
	var passErr *PassError
	require.True(t, errors.As(err, &passErr), "got %v", err)
	assert.Equal(t, "broken", passErr.Pass)
	assert.Equal(t, 1, passErr.Index)
	assert.EqualError(t, err, `opt: pass "broken" (#1) failed`)
	assert.Zero(t, never.calls)
	assert.Contains(t, logs.String(), `level=ERROR msg="pass failed" pass=broken`)
}

func TestPassManager_VerifyCatchesStaleAnalysis(t *testing.T) {
	ctx, names := newTestContext(t, fragShader)
	ctx.BuildInvalidAnalyses(AnalysisDefUse)

	// Claims to keep def-use exact but edits the module behind its back.
	liar := &fakePass{
		name:      "liar",
		status:    StatusSuccessWithChange,
		preserved: AnalysisDefUse,
		process: func(ctx *IRContext) {
			ctx.Module().AddGlobalInst(spirv.NewInstruction(spirv.OpUndef, id(t, names, "float"), ctx.TakeNextID()))
		},
	}
	pm := NewPassManager(Options{Logger: newTestLogger(&bytes.Buffer{}), VerifyAnalyses: true})
	pm.AddPass(liar)

	status, err := pm.Run(ctx)
	assert.Equal(t, StatusFailure, status)
	var stale *AnalysisError
	require.True(t, errors.As(err, &stale), "got %v", err)
	assert.Equal(t, AnalysisDefUse, stale.Analysis)
	assert.Contains(t, err.Error(), `after pass "liar"`)
}

func TestPassManager_NilLogger(t *testing.T) {
	ctx, _ := newTestContext(t, fragShader)
	pm := NewPassManager(Options{})
	pm.AddPass(&fakePass{name: "quiet"})

	status, err := pm.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, StatusSuccessWithoutChange, status)
}

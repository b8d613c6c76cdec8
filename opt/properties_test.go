package opt

import (
	"fmt"
	"reflect"
	"slices"
	"strings"
	"testing"

	"github.com/gogpu/spvopt/spirv"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// interfaceVar describes one generated entry-point interface variable.
type interfaceVar struct {
	output   bool
	used     bool
	exported bool
	sampleID bool
	named    bool
	grouped  bool
}

func (v interfaceVar) removable() bool {
	return !v.output && !v.used && !v.exported && !v.sampleID
}

func genInterfaceVar() gopter.Gen {
	return gopter.CombineGens(
		gen.Bool(), gen.Bool(), gen.Bool(), gen.Bool(), gen.Bool(), gen.Bool(),
	).Map(func(vals []any) interfaceVar {
		return interfaceVar{
			output:   vals[0].(bool),
			used:     vals[1].(bool),
			exported: vals[2].(bool),
			sampleID: vals[3].(bool),
			named:    vals[4].(bool),
			grouped:  vals[5].(bool),
		}
	})
}

func genInterfaceVars() gopter.Gen {
	return gen.IntRange(0, 8).FlatMap(func(n any) gopter.Gen {
		return gen.SliceOfN(n.(int), genInterfaceVar())
	}, reflect.TypeOf([]interfaceVar(nil)))
}

// interfaceShader renders a fragment shader whose single entry point lists
// vars as %v0, %v1, ...
func interfaceShader(vars []interfaceVar) string {
	var sb strings.Builder
	sb.WriteString("OpCapability Shader\nOpCapability Linkage\nOpMemoryModel Logical GLSL450\n")
	sb.WriteString(`OpEntryPoint Fragment %main "main"`)
	for k := range vars {
		fmt.Fprintf(&sb, " %%v%d", k)
	}
	sb.WriteString("\nOpExecutionMode %main OriginUpperLeft\n")
	for k, v := range vars {
		if v.named {
			fmt.Fprintf(&sb, "OpName %%v%d \"v%d\"\n", k, k)
		}
	}
	sb.WriteString("OpDecorate %group Flat\n%group = OpDecorationGroup\n")
	for k, v := range vars {
		if v.sampleID {
			fmt.Fprintf(&sb, "OpDecorate %%v%d BuiltIn SampleId\n", k)
		}
		if v.exported {
			fmt.Fprintf(&sb, "OpDecorate %%v%d LinkageAttributes \"v%d\" Export\n", k, k)
		}
		if v.grouped {
			fmt.Fprintf(&sb, "OpGroupDecorate %%group %%v%d\n", k)
		}
	}
	sb.WriteString(`%void = OpTypeVoid
%fn = OpTypeFunction %void
%int = OpTypeInt 32 1
%zero = OpConstant %int 0
%ptr_in = OpTypePointer Input %int
%ptr_out = OpTypePointer Output %int
`)
	for k, v := range vars {
		if v.output {
			fmt.Fprintf(&sb, "%%v%d = OpVariable %%ptr_out Output\n", k)
		} else {
			fmt.Fprintf(&sb, "%%v%d = OpVariable %%ptr_in Input\n", k)
		}
	}
	sb.WriteString("%main = OpFunction %void None %fn\n%entry = OpLabel\n")
	for k, v := range vars {
		switch {
		case v.used && v.output:
			fmt.Fprintf(&sb, "OpStore %%v%d %%zero\n", k)
		case v.used:
			fmt.Fprintf(&sb, "%%l%d = OpLoad %%int %%v%d\n", k, k)
		}
	}
	sb.WriteString("OpReturn\nOpFunctionEnd\n")
	return sb.String()
}

func TestInterfaceCleanupProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	run := func(vars []interfaceVar) (*IRContext, *spirv.NameTable, Status, error) {
		m, names, err := spirv.Assemble(interfaceShader(vars))
		if err != nil {
			return nil, nil, 0, err
		}
		ctx := NewIRContext(m)
		ctx.BuildInvalidAnalyses(AnalysisAll)
		p := NewInterfaceCleanupPass()
		status := p.Process(ctx)
		if status == StatusSuccessWithChange {
			ctx.InvalidateAnalysesExceptFor(p.PreservedAnalyses())
		}
		return ctx, names, status, ctx.CheckAnalyses()
	}

	properties.Property("exactly the removable variables disappear", prop.ForAll(
		func(vars []interfaceVar) bool {
			ctx, names, status, err := run(vars)
			if err != nil {
				return false
			}
			interfaceIDs := ctx.Module().EntryPoints[0].Operands[firstInterfaceOperand:]
			var kept []spirv.ID
			anyRemoved := false
			for k, v := range vars {
				vid, _ := names.Lookup(fmt.Sprintf("v%d", k))
				if v.removable() {
					anyRemoved = true
					continue
				}
				kept = append(kept, vid)
			}
			var got []spirv.ID
			for _, op := range interfaceIDs {
				got = append(got, op.ID())
			}
			wantStatus := StatusSuccessWithoutChange
			if anyRemoved {
				wantStatus = StatusSuccessWithChange
			}
			return slices.Equal(kept, got) && status == wantStatus
		},
		genInterfaceVars(),
	))

	properties.Property("removed ids leave no reference behind", prop.ForAll(
		func(vars []interfaceVar) bool {
			ctx, names, _, err := run(vars)
			if err != nil {
				return false
			}
			var removed []spirv.ID
			for k, v := range vars {
				if v.removable() {
					vid, _ := names.Lookup(fmt.Sprintf("v%d", k))
					removed = append(removed, vid)
				}
			}
			return ctx.Module().WhileEachInst(func(inst *spirv.Instruction) bool {
				if slices.Contains(removed, inst.ResultID) {
					return false
				}
				for _, used := range inst.UsedIDs() {
					if slices.Contains(removed, used) {
						return false
					}
				}
				return true
			})
		},
		genInterfaceVars(),
	))

	properties.Property("a second run changes nothing", prop.ForAll(
		func(vars []interfaceVar) bool {
			ctx, names, _, err := run(vars)
			if err != nil {
				return false
			}
			before := spirv.Disassemble(ctx.Module(), names)
			status := NewInterfaceCleanupPass().Process(ctx)
			return status == StatusSuccessWithoutChange && spirv.Disassemble(ctx.Module(), names) == before
		},
		genInterfaceVars(),
	))

	properties.TestingRun(t)
}

// arithStep is one generated integer instruction; its operands pick among
// earlier values and the constants 0, 1 and -1.
type arithStep struct {
	op   spirv.OpCode
	x, y int
}

var arithOps = []spirv.OpCode{
	spirv.OpIAdd, spirv.OpISub, spirv.OpIMul, spirv.OpBitwiseAnd,
	spirv.OpBitwiseOr, spirv.OpBitwiseXor, spirv.OpCopyObject,
}

func genArithSteps() gopter.Gen {
	step := gopter.CombineGens(
		gen.IntRange(0, len(arithOps)-1), gen.IntRange(0, 1<<16), gen.IntRange(0, 1<<16),
	).Map(func(vals []any) arithStep {
		return arithStep{op: arithOps[vals[0].(int)], x: vals[1].(int), y: vals[2].(int)}
	})
	return gen.SliceOfN(24, step)
}

// arithShader renders steps as a chain of instructions whose last value is
// stored. Operand k of step n refers to one of the three constants or to
// one of the n earlier results.
func arithShader(steps []arithStep) string {
	var sb strings.Builder
	sb.WriteString(`OpCapability Shader
OpMemoryModel Logical GLSL450
OpEntryPoint GLCompute %main "main"
%void = OpTypeVoid
%fn = OpTypeFunction %void
%int = OpTypeInt 32 1
%c0 = OpConstant %int 0
%c1 = OpConstant %int 1
%c2 = OpConstant %int -1
%ptr = OpTypePointer Private %int
%var = OpVariable %ptr Private
%main = OpFunction %void None %fn
%entry = OpLabel
%s0 = OpLoad %int %var
`)
	value := func(n, pick int) string {
		k := pick % (n + 4)
		if k < 3 {
			return fmt.Sprintf("%%c%d", k)
		}
		return fmt.Sprintf("%%s%d", k-3)
	}
	for n, s := range steps {
		if s.op == spirv.OpCopyObject {
			fmt.Fprintf(&sb, "%%s%d = OpCopyObject %%int %s\n", n+1, value(n, s.x))
			continue
		}
		fmt.Fprintf(&sb, "%%s%d = %s %%int %s %s\n", n+1, s.op, value(n, s.x), value(n, s.y))
	}
	fmt.Fprintf(&sb, "OpStore %%var %%s%d\nOpReturn\nOpFunctionEnd\n", len(steps))
	return sb.String()
}

func TestSimplificationProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("terminates at a fixed point with exact analyses", prop.ForAll(
		func(steps []arithStep) bool {
			m, names, err := spirv.Assemble(arithShader(steps))
			if err != nil {
				return false
			}
			ctx := NewIRContext(m)
			ctx.BuildInvalidAnalyses(AnalysisAll)
			p := NewSimplificationPass()

			if p.Process(ctx) == StatusFailure || ctx.CheckAnalyses() != nil {
				return false
			}
			before := spirv.Disassemble(ctx.Module(), names)
			return p.Process(ctx) == StatusSuccessWithoutChange &&
				spirv.Disassemble(ctx.Module(), names) == before
		},
		genArithSteps(),
	))

	properties.Property("never grows a function", prop.ForAll(
		func(steps []arithStep) bool {
			m, _, err := spirv.Assemble(arithShader(steps))
			if err != nil {
				return false
			}
			ctx := NewIRContext(m)
			before := m.Functions[0].NumInsts()
			NewSimplificationPass().Process(ctx)
			return m.Functions[0].NumInsts() <= before
		},
		genArithSteps(),
	))

	properties.TestingRun(t)
}

package spvopt

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/gogpu/spvopt/spirv"
)

// benchShader renders a fragment shader with n interface inputs, half of
// them unread, and a chain of n forwarded copies.
func benchShader(n int) string {
	var sb strings.Builder
	sb.WriteString("OpCapability Shader\nOpMemoryModel Logical GLSL450\n")
	sb.WriteString(`OpEntryPoint Fragment %main "main" %out`)
	for k := range n {
		fmt.Fprintf(&sb, " %%in%d", k)
	}
	sb.WriteString(`
OpExecutionMode %main OriginUpperLeft
%void = OpTypeVoid
%fn = OpTypeFunction %void
%float = OpTypeFloat 32
%ptr_in = OpTypePointer Input %float
%ptr_out = OpTypePointer Output %float
%out = OpVariable %ptr_out Output
`)
	for k := range n {
		fmt.Fprintf(&sb, "%%in%d = OpVariable %%ptr_in Input\n", k)
	}
	sb.WriteString("%main = OpFunction %void None %fn\n%entry = OpLabel\n%c0 = OpLoad %float %in0\n")
	for k := 1; k < n; k++ {
		if k%2 == 0 {
			fmt.Fprintf(&sb, "%%l%d = OpLoad %%float %%in%d\n", k, k)
		}
		fmt.Fprintf(&sb, "%%c%d = OpCopyObject %%float %%c%d\n", k, k-1)
	}
	fmt.Fprintf(&sb, "OpStore %%out %%c%d\nOpReturn\nOpFunctionEnd\n", n-1)
	return sb.String()
}

func BenchmarkOptimize(b *testing.B) {
	opts := DefaultOptions()
	opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))

	for _, n := range []int{16, 256, 2048} {
		b.Run(fmt.Sprintf("n=%d", n), func(b *testing.B) {
			m, _, err := spirv.Assemble(benchShader(n))
			if err != nil {
				b.Fatal(err)
			}
			data := spirv.Encode(m)
			b.ReportAllocs()
			b.SetBytes(int64(len(data)))
			for b.Loop() {
				if _, _, err := Optimize(data, opts); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

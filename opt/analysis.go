package opt

import "strings"

// Analysis is a set of derived views over a module, as a bit mask.
type Analysis uint32

// Analyses vended by IRContext.
const (
	AnalysisNone                Analysis = 0
	AnalysisDefUse              Analysis = 1 << 0
	AnalysisInstrToBlockMapping Analysis = 1 << 1
	AnalysisDecorations         Analysis = 1 << 2
	AnalysisCombinators         Analysis = 1 << 3
	AnalysisCFG                 Analysis = 1 << 4
	AnalysisDominatorAnalysis   Analysis = 1 << 5
	AnalysisNameMap             Analysis = 1 << 6
	AnalysisEnd                 Analysis = 1 << 7

	// AnalysisAll is every analysis.
	AnalysisAll = AnalysisEnd - 1
)

var analysisNames = [...]string{
	"DefUse",
	"InstrToBlockMapping",
	"Decorations",
	"Combinators",
	"CFG",
	"DominatorAnalysis",
	"NameMap",
}

// Has reports whether every analysis in other is in a.
func (a Analysis) Has(other Analysis) bool {
	return a&other == other
}

// String returns the analyses joined by "|", or "None".
func (a Analysis) String() string {
	if a == AnalysisNone {
		return "None"
	}
	var parts []string
	for k, name := range analysisNames {
		if a&(1<<k) != 0 {
			parts = append(parts, name)
		}
	}
	return strings.Join(parts, "|")
}

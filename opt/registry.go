package opt

import (
	"errors"
	"fmt"
)

// ErrUnknownPass is returned by NewPass for names missing from the registry.
var ErrUnknownPass = errors.New("unknown pass")

type passDescriptor struct {
	name string
	desc string
	new  func() Pass
}

var passes = [...]passDescriptor{
	{
		name: interfaceCleanupName,
		desc: "Remove unused Input variables from entry point interfaces",
		new:  func() Pass { return NewInterfaceCleanupPass() },
	},
	{
		name: simplificationName,
		desc: "Apply local instruction simplifications until a fixed point",
		new:  func() Pass { return NewSimplificationPass() },
	},
}

// PassInfo describes a registered pass.
type PassInfo struct {
	Name        string
	Description string
}

// Passes lists the registered passes in registry order.
func Passes() []PassInfo {
	infos := make([]PassInfo, 0, len(passes))
	for _, d := range passes {
		infos = append(infos, PassInfo{Name: d.name, Description: d.desc})
	}
	return infos
}

// NewPass creates the registered pass called name.
func NewPass(name string) (Pass, error) {
	for _, d := range passes {
		if d.name == name {
			return d.new(), nil
		}
	}
	return nil, fmt.Errorf("%w %q", ErrUnknownPass, name)
}

// DefaultPipeline returns the names of the passes run when none are chosen.
func DefaultPipeline() []string {
	return []string{interfaceCleanupName, simplificationName}
}

package opt

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestPasses(t *testing.T) {
	var got []string
	for _, info := range Passes() {
		if info.Description == "" {
			t.Errorf("pass %q has no description", info.Name)
		}
		got = append(got, info.Name)
	}
	want := []string{"interface-cleanup", "simplify-instructions"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("registered passes (-want +got):\n%s", diff)
	}
}

func TestNewPass(t *testing.T) {
	for _, info := range Passes() {
		p, err := NewPass(info.Name)
		if err != nil {
			t.Fatalf("NewPass(%q): %v", info.Name, err)
		}
		if p.Name() != info.Name {
			t.Errorf("NewPass(%q).Name() = %q", info.Name, p.Name())
		}
	}

	_, err := NewPass("dead-code-elimination")
	if !errors.Is(err, ErrUnknownPass) {
		t.Fatalf("expected ErrUnknownPass, got %v", err)
	}
	if err.Error() != `unknown pass "dead-code-elimination"` {
		t.Errorf("error text: %q", err)
	}
}

func TestDefaultPipeline(t *testing.T) {
	for _, name := range DefaultPipeline() {
		if _, err := NewPass(name); err != nil {
			t.Errorf("default pipeline names unregistered pass %q", name)
		}
	}
}

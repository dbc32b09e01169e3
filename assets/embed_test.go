package assets

import (
	"strings"
	"testing"
)

func TestUsage_Embedded(t *testing.T) {
	if !strings.HasPrefix(Usage, "ctr-meter") {
		t.Fatalf("usage not embedded: %q", Usage)
	}
}

func TestInstructions(t *testing.T) {
	got := Instructions()
	if !strings.HasPrefix(got, "For each frame") {
		t.Fatalf("unexpected start: %q", got)
	}
	if strings.Contains(got, "Flags:") || strings.Contains(got, "\n") {
		t.Fatalf("instructions should be a single paragraph: %q", got)
	}
}

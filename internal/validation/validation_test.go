package validation

import (
	"strings"
	"testing"
)

func floatPtr(f float64) *float64 { return &f }

func TestValidateChangeKind(t *testing.T) {
	tests := []struct {
		kind  string
		valid bool
	}{
		{"edit", true},
		{"structural_change", true},
		{"formatting", true},
		{"addition", true},
		{"deletion", true},
		{"replacement", true},
		{"", false},
		{"rename", false},
		{"Edit", false},
	}

	for _, tt := range tests {
		valid, msg := ValidateChangeKind(tt.kind)
		if valid != tt.valid {
			t.Errorf("ValidateChangeKind(%q) = %v, want %v (%s)", tt.kind, valid, tt.valid, msg)
		}
		if !valid && msg == "" {
			t.Errorf("ValidateChangeKind(%q) returned no message", tt.kind)
		}
	}
}

func TestValidateConfidence(t *testing.T) {
	tests := []struct {
		name  string
		score *float64
		valid bool
	}{
		{"nil", nil, true},
		{"zero", floatPtr(0), true},
		{"one", floatPtr(1), true},
		{"middle", floatPtr(0.85), true},
		{"negative", floatPtr(-0.1), false},
		{"above one", floatPtr(1.1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			valid, msg := ValidateConfidence(tt.score)
			if valid != tt.valid {
				t.Errorf("ValidateConfidence() = %v, want %v (%s)", valid, tt.valid, msg)
			}
		})
	}
}

func TestValidateDecision(t *testing.T) {
	for _, d := range []string{"approved", "rejected"} {
		if valid, msg := ValidateDecision(d); !valid {
			t.Errorf("ValidateDecision(%q) = false: %s", d, msg)
		}
	}
	for _, d := range []string{"", "pending", "expired", "Approved", "maybe"} {
		if valid, _ := ValidateDecision(d); valid {
			t.Errorf("ValidateDecision(%q) = true, want false", d)
		}
	}
}

func TestValidateChangeKinds(t *testing.T) {
	if valid, _ := ValidateChangeKinds([]string{"edit", "formatting"}); !valid {
		t.Error("ValidateChangeKinds(valid set) = false")
	}

	if valid, msg := ValidateChangeKinds(nil); valid {
		t.Error("ValidateChangeKinds(nil) = true, want false")
	} else if !strings.Contains(msg, "at least one") {
		t.Errorf("ValidateChangeKinds(nil) msg = %q", msg)
	}

	if valid, msg := ValidateChangeKinds([]string{"edit", "rename"}); valid {
		t.Error("ValidateChangeKinds(unknown kind) = true, want false")
	} else if !strings.Contains(msg, "rename") {
		t.Errorf("ValidateChangeKinds(unknown kind) msg = %q", msg)
	}
}

func TestValidateMinConfidence(t *testing.T) {
	for _, v := range []float64{0, 0.5, 1} {
		if valid, msg := ValidateMinConfidence(v); !valid {
			t.Errorf("ValidateMinConfidence(%v) = false: %s", v, msg)
		}
	}
	for _, v := range []float64{-0.01, 1.01} {
		if valid, _ := ValidateMinConfidence(v); valid {
			t.Errorf("ValidateMinConfidence(%v) = true, want false", v)
		}
	}
}

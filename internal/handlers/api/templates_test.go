package api

import "testing"

func TestTemplateBodyValidate(t *testing.T) {
	tests := []struct {
		name  string
		body  templateBody
		valid bool
	}{
		{
			name:  "valid",
			body:  templateBody{Name: "formatting-auto", ChangeKinds: []string{"formatting"}, MinConfidence: 0.8},
			valid: true,
		},
		{
			name:  "multiple kinds",
			body:  templateBody{Name: "broad", ChangeKinds: []string{"edit", "addition"}, MinConfidence: 0.9},
			valid: true,
		},
		{
			name:  "missing name",
			body:  templateBody{ChangeKinds: []string{"edit"}, MinConfidence: 0.8},
			valid: false,
		},
		{
			name:  "empty change kinds",
			body:  templateBody{Name: "no-kinds", MinConfidence: 0.8},
			valid: false,
		},
		{
			name:  "unknown change kind",
			body:  templateBody{Name: "bad-kind", ChangeKinds: []string{"rename"}, MinConfidence: 0.8},
			valid: false,
		},
		{
			name:  "confidence out of range",
			body:  templateBody{Name: "too-high", ChangeKinds: []string{"edit"}, MinConfidence: 1.5},
			valid: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			valid, msg := tt.body.validate()
			if valid != tt.valid {
				t.Errorf("validate() = %v, want %v (%s)", valid, tt.valid, msg)
			}
			if !tt.valid && msg == "" {
				t.Error("validate() returned no message for invalid body")
			}
		})
	}
}

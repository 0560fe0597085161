// Package validation provides request input validation helpers.
package validation

import (
	"fmt"
	"strings"

	"redline/internal/models"
)

// ValidateChangeKind checks that kind is one of the recognized change kinds.
func ValidateChangeKind(kind string) (bool, string) {
	if kind == "" {
		return false, "change_kind is required"
	}
	if !models.ValidKind(kind) {
		return false, fmt.Sprintf("change_kind must be one of: %s", strings.Join(models.ChangeKinds, ", "))
	}
	return true, ""
}

// ValidateConfidence checks that a confidence score lies in [0, 1]. A nil
// score is valid: it only means the request can never auto-approve.
func ValidateConfidence(score *float64) (bool, string) {
	if score == nil {
		return true, ""
	}
	if *score < 0 || *score > 1 {
		return false, "confidence_score must be between 0.0 and 1.0"
	}
	return true, ""
}

// ValidateDecision checks that a decision value is approved or rejected.
// Any other value is rejected before reaching storage.
func ValidateDecision(decision string) (bool, string) {
	if !models.ValidDecision(decision) {
		return false, "decision must be \"approved\" or \"rejected\""
	}
	return true, ""
}

// ValidateChangeKinds checks a template's change-kind set.
func ValidateChangeKinds(kinds []string) (bool, string) {
	if len(kinds) == 0 {
		return false, "change_kinds must contain at least one kind"
	}
	for _, k := range kinds {
		if !models.ValidKind(k) {
			return false, fmt.Sprintf("unknown change kind %q", k)
		}
	}
	return true, ""
}

// ValidateMinConfidence checks a template's auto-approval threshold.
func ValidateMinConfidence(min float64) (bool, string) {
	if min < 0 || min > 1 {
		return false, "min_confidence must be between 0.0 and 1.0"
	}
	return true, ""
}

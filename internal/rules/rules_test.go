package rules

import (
	"testing"

	"redline/internal/models"
)

func floatPtr(f float64) *float64 { return &f }
func strPtr(s string) *string     { return &s }

func request(kind string, confidence *float64) *models.ApprovalRequest {
	return &models.ApprovalRequest{
		ChangeKind:      kind,
		ConfidenceScore: confidence,
	}
}

func template(name string, kinds []string, minConfidence float64) models.ApprovalTemplate {
	return models.ApprovalTemplate{
		Name:          name,
		ChangeKinds:   kinds,
		MinConfidence: minConfidence,
		Active:        true,
	}
}

func TestMatch_KindAndConfidence(t *testing.T) {
	templates := []models.ApprovalTemplate{
		template("formatting-auto", []string{models.KindFormatting}, 0.8),
	}

	got := Match(request(models.KindFormatting, floatPtr(0.9)), "text", templates)
	if got == nil || got.Name != "formatting-auto" {
		t.Errorf("Match() = %v, want formatting-auto", got)
	}

	if got := Match(request(models.KindEdit, floatPtr(0.9)), "text", templates); got != nil {
		t.Errorf("Match() = %v for non-matching kind, want nil", got)
	}
}

func TestMatch_ConfidenceBoundaryInclusive(t *testing.T) {
	templates := []models.ApprovalTemplate{
		template("threshold", []string{models.KindEdit}, 0.8),
	}

	if got := Match(request(models.KindEdit, floatPtr(0.8)), "text", templates); got == nil {
		t.Error("Match() = nil at exact threshold, want match")
	}
	if got := Match(request(models.KindEdit, floatPtr(0.79)), "text", templates); got != nil {
		t.Errorf("Match() = %v below threshold, want nil", got)
	}
}

func TestMatch_NilConfidenceNeverMatches(t *testing.T) {
	templates := []models.ApprovalTemplate{
		template("any", []string{models.KindEdit}, 0),
	}

	if got := Match(request(models.KindEdit, nil), "text", templates); got != nil {
		t.Errorf("Match() = %v for nil confidence, want nil", got)
	}
}

func TestMatch_FileTypeFilter(t *testing.T) {
	withFilter := template("markdown-only", []string{models.KindEdit}, 0.5)
	withFilter.FileTypeFilter = strPtr("markdown")
	templates := []models.ApprovalTemplate{withFilter}

	if got := Match(request(models.KindEdit, floatPtr(0.9)), "markdown", templates); got == nil {
		t.Error("Match() = nil for matching doc type, want match")
	}
	if got := Match(request(models.KindEdit, floatPtr(0.9)), "text", templates); got != nil {
		t.Errorf("Match() = %v for mismatched doc type, want nil", got)
	}

	// Empty filter behaves like no filter
	withEmpty := template("empty-filter", []string{models.KindEdit}, 0.5)
	withEmpty.FileTypeFilter = strPtr("")
	if got := Match(request(models.KindEdit, floatPtr(0.9)), "text", []models.ApprovalTemplate{withEmpty}); got == nil {
		t.Error("Match() = nil for empty filter, want match")
	}
}

func TestMatch_SkipsInactive(t *testing.T) {
	inactive := template("disabled", []string{models.KindEdit}, 0.5)
	inactive.Active = false

	if got := Match(request(models.KindEdit, floatPtr(0.9)), "text", []models.ApprovalTemplate{inactive}); got != nil {
		t.Errorf("Match() = %v for inactive template, want nil", got)
	}
}

func TestMatch_FirstMatchWins(t *testing.T) {
	templates := []models.ApprovalTemplate{
		template("first", []string{models.KindEdit}, 0.9),
		template("second", []string{models.KindEdit}, 0.5),
		template("third", []string{models.KindEdit}, 0.5),
	}

	got := Match(request(models.KindEdit, floatPtr(0.7)), "text", templates)
	if got == nil || got.Name != "second" {
		t.Errorf("Match() = %v, want second (first eligible in order)", got)
	}
}

func TestMatch_NoTemplates(t *testing.T) {
	if got := Match(request(models.KindEdit, floatPtr(1.0)), "text", nil); got != nil {
		t.Errorf("Match() = %v for no templates, want nil", got)
	}
}

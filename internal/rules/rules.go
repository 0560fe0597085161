// Package rules matches newly created approval requests against the owner's
// auto-approval templates.
package rules

import "redline/internal/models"

// Match evaluates templates in the order given (storage-insertion order, so
// evaluation is deterministic) and returns the first one that matches, or
// nil when the request must wait for a human decision.
//
// A template matches when the request's change kind is in its change-kind
// set, the request carries a confidence score at or above the template's
// minimum, and the template's file-type filter is unset or equals the target
// document's type. The content-pattern and max-change-size fields exist on
// templates but do not participate in matching.
func Match(req *models.ApprovalRequest, docType string, templates []models.ApprovalTemplate) *models.ApprovalTemplate {
	for i := range templates {
		t := &templates[i]
		if !t.Active {
			continue
		}
		if !t.MatchesKind(req.ChangeKind) {
			continue
		}
		if req.ConfidenceScore == nil || *req.ConfidenceScore < t.MinConfidence {
			continue
		}
		if t.FileTypeFilter != nil && *t.FileTypeFilter != "" && *t.FileTypeFilter != docType {
			continue
		}
		return t
	}
	return nil
}

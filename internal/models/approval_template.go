package models

import (
	"time"

	"github.com/google/uuid"
)

// ApprovalTemplate is a standing rule that can approve matching requests
// without a human decision. Templates are owned and edited by the user;
// the rule engine only reads them.
type ApprovalTemplate struct {
	ID             int64     `json:"id"`
	OwnerID        uuid.UUID `json:"owner_id"`
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	ChangeKinds    []string  `json:"change_kinds"`
	FileTypeFilter *string   `json:"file_type_filter"`
	ContentPattern *string   `json:"content_pattern"`
	MinConfidence  float64   `json:"min_confidence"`
	MaxChangeSize  *int      `json:"max_change_size"`
	Active         bool      `json:"active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// MatchesKind returns true if kind is in the template's change-kind set.
func (t *ApprovalTemplate) MatchesKind(kind string) bool {
	for _, k := range t.ChangeKinds {
		if k == kind {
			return true
		}
	}
	return false
}

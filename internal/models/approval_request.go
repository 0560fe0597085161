package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Approval request status constants. Pending is the only initial state;
// the remaining values are terminal.
const (
	StatusPending      = "pending"
	StatusApproved     = "approved"
	StatusRejected     = "rejected"
	StatusExpired      = "expired"
	StatusAutoApproved = "auto_approved"
)

// Change kind constants.
const (
	KindEdit             = "edit"
	KindStructuralChange = "structural_change"
	KindFormatting       = "formatting"
	KindAddition         = "addition"
	KindDeletion         = "deletion"
	KindReplacement      = "replacement"
)

// Decision constants accepted by the decide operation.
const (
	DecisionApproved = "approved"
	DecisionRejected = "rejected"
)

// ChangeKinds lists every valid change kind.
var ChangeKinds = []string{
	KindEdit,
	KindStructuralChange,
	KindFormatting,
	KindAddition,
	KindDeletion,
	KindReplacement,
}

// ApprovalRequest represents one proposed content change awaiting a decision.
type ApprovalRequest struct {
	ID               int64           `json:"id"`
	OwnerID          uuid.UUID       `json:"owner_id"`
	DocumentID       uuid.UUID       `json:"document_id"`
	ConversationID   *uuid.UUID      `json:"conversation_id"`
	Title            string          `json:"title"`
	Description      string          `json:"description"`
	ChangeKind       string          `json:"change_kind"`
	OriginalContent  *string         `json:"original_content"`
	ProposedContent  string          `json:"proposed_content"`
	ChangeLocation   *string         `json:"change_location"`
	ChangeMetadata   json.RawMessage `json:"change_metadata,omitempty"`
	AIReasoning      string          `json:"ai_reasoning"`
	ConfidenceScore  *float64        `json:"confidence_score"`
	Status           string          `json:"status"`
	DecidedAt        *time.Time      `json:"decided_at"`
	DecidedByHuman   bool            `json:"decided_by_human"`
	ExpiresAt        *time.Time      `json:"expires_at"`
	HashBefore       string          `json:"hash_before"`
	HashAfter        *string         `json:"hash_after"`
	Applied          bool            `json:"applied"`
	AppliedAt        *time.Time      `json:"applied_at"`
	ApplicationError *string         `json:"application_error"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// IsTerminal returns true if the status admits no further transitions.
func IsTerminal(status string) bool {
	switch status {
	case StatusApproved, StatusRejected, StatusExpired, StatusAutoApproved:
		return true
	}
	return false
}

// ValidKind returns true if kind is a recognized change kind.
func ValidKind(kind string) bool {
	for _, k := range ChangeKinds {
		if k == kind {
			return true
		}
	}
	return false
}

// ValidDecision returns true if decision is a value the decide operation accepts.
func ValidDecision(decision string) bool {
	return decision == DecisionApproved || decision == DecisionRejected
}

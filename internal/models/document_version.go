package models

import (
	"time"

	"github.com/google/uuid"
)

// DocumentVersion is one immutable snapshot in a document's history.
// Rows are append-only: version numbers per document are contiguous and
// strictly increasing from 1, and no update or delete path exists.
type DocumentVersion struct {
	ID                int64     `json:"id"`
	DocumentID        uuid.UUID `json:"document_id"`
	ApprovalRequestID *int64    `json:"approval_request_id"`
	OwnerID           uuid.UUID `json:"owner_id"`
	VersionNumber     int       `json:"version_number"`
	ContentHash       string    `json:"content_hash"`
	Content           string    `json:"content"`
	DiffFromPrevious  *string   `json:"diff_from_previous"`
	ChangeSummary     string    `json:"change_summary"`
	SizeBytes         int64     `json:"size_bytes"`
	CreatedAt         time.Time `json:"created_at"`
}

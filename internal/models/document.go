package models

import (
	"time"

	"github.com/google/uuid"
)

// Document is the live text content this engine mutates. Creation, deletion
// and type classification belong to the upstream document pipeline; the
// engine only reads and rewrites content.
type Document struct {
	ID        uuid.UUID `json:"id"`
	OwnerID   uuid.UUID `json:"owner_id"`
	Title     string    `json:"title"`
	DocType   string    `json:"doc_type"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

package db

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"redline/internal/models"
)

// CreateDocument inserts a new document owned by the given user.
func (d *DB) CreateDocument(ctx context.Context, doc *models.Document) error {
	query := `
		INSERT INTO documents (owner_id, title, doc_type, content)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`
	return d.Pool.QueryRow(ctx, query, doc.OwnerID, doc.Title, doc.DocType, doc.Content).
		Scan(&doc.ID, &doc.CreatedAt, &doc.UpdatedAt)
}

// GetDocument retrieves a document owned by the given user. Foreign or
// missing documents both report not found.
func (d *DB) GetDocument(ctx context.Context, id, ownerID uuid.UUID) (*models.Document, error) {
	return getDocument(ctx, d.Pool, id, ownerID, false)
}

// ListDocuments returns the caller's documents, newest first.
func (d *DB) ListDocuments(ctx context.Context, ownerID uuid.UUID, limit int) ([]models.Document, error) {
	rows, err := d.Pool.Query(ctx, `
		SELECT id, owner_id, title, doc_type, content, created_at, updated_at
		FROM documents
		WHERE owner_id = $1
		ORDER BY updated_at DESC
		LIMIT $2
	`, ownerID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []models.Document
	for rows.Next() {
		var doc models.Document
		if err := rows.Scan(&doc.ID, &doc.OwnerID, &doc.Title, &doc.DocType, &doc.Content, &doc.CreatedAt, &doc.UpdatedAt); err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// getDocument loads a document through the given querier, optionally taking a
// row lock for the duration of the surrounding transaction.
func getDocument(ctx context.Context, q querier, id, ownerID uuid.UUID, forUpdate bool) (*models.Document, error) {
	query := `
		SELECT id, owner_id, title, doc_type, content, created_at, updated_at
		FROM documents
		WHERE id = $1 AND owner_id = $2
	`
	if forUpdate {
		query += " FOR UPDATE"
	}

	var doc models.Document
	err := q.QueryRow(ctx, query, id, ownerID).
		Scan(&doc.ID, &doc.OwnerID, &doc.Title, &doc.DocType, &doc.Content, &doc.CreatedAt, &doc.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrDocumentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// updateDocumentContent rewrites a document's live content.
func updateDocumentContent(ctx context.Context, q querier, id uuid.UUID, content string) error {
	_, err := q.Exec(ctx, `
		UPDATE documents SET content = $1, updated_at = NOW() WHERE id = $2
	`, content, id)
	return err
}

package db

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"redline/internal/diff"
	"redline/internal/models"
)

// hashContent returns the SHA-256 hex digest of UTF-8 content. It is the
// change fingerprint used on both requests and version snapshots.
func hashContent(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}

// createVersion appends a snapshot to a document's version chain.
//
// Version numbers continue the per-document sequence from 1. The snapshot
// hash is checked store-wide: a hash already recorded for a different
// document fails with ErrDuplicateContent; a hash equal to the document's
// own chain head is a no-op (the chain already captures that state) and the
// head row is returned; a hash matching an earlier version of the same
// document is permitted, since rollbacks legitimately reintroduce prior
// states as new forward versions.
func createVersion(ctx context.Context, q querier, docID, ownerID uuid.UUID, content string, approvalRequestID *int64, summary string) (*models.DocumentVersion, error) {
	hash := hashContent(content)

	prev, err := latestVersion(ctx, q, docID)
	if err != nil {
		return nil, err
	}
	if prev != nil && prev.ContentHash == hash {
		return prev, nil
	}

	var foreign uuid.UUID
	err = q.QueryRow(ctx, `
		SELECT document_id FROM document_versions
		WHERE content_hash = $1 AND document_id <> $2
		LIMIT 1
	`, hash, docID).Scan(&foreign)
	if err == nil {
		return nil, fmt.Errorf("%w: hash %s", ErrDuplicateContent, hash)
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	versionNumber := 1
	var diffFromPrevious *string
	if prev != nil {
		versionNumber = prev.VersionNumber + 1
		unified, err := diff.Unified(prev.Content, content)
		if err != nil {
			return nil, err
		}
		diffFromPrevious = &unified
	}

	v := &models.DocumentVersion{
		DocumentID:        docID,
		ApprovalRequestID: approvalRequestID,
		OwnerID:           ownerID,
		VersionNumber:     versionNumber,
		ContentHash:       hash,
		Content:           content,
		DiffFromPrevious:  diffFromPrevious,
		ChangeSummary:     summary,
		SizeBytes:         int64(len(content)),
	}

	err = q.QueryRow(ctx, `
		INSERT INTO document_versions
			(document_id, approval_request_id, owner_id, version_number, content_hash, content, diff_from_previous, change_summary, size_bytes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at
	`, v.DocumentID, v.ApprovalRequestID, v.OwnerID, v.VersionNumber, v.ContentHash, v.Content, v.DiffFromPrevious, v.ChangeSummary, v.SizeBytes).
		Scan(&v.ID, &v.CreatedAt)
	if err != nil {
		return nil, err
	}
	return v, nil
}

// latestVersion returns the chain head for a document, or nil for an empty chain.
func latestVersion(ctx context.Context, q querier, docID uuid.UUID) (*models.DocumentVersion, error) {
	var v models.DocumentVersion
	err := q.QueryRow(ctx, `
		SELECT id, document_id, approval_request_id, owner_id, version_number, content_hash, content, diff_from_previous, change_summary, size_bytes, created_at
		FROM document_versions
		WHERE document_id = $1
		ORDER BY version_number DESC
		LIMIT 1
	`, docID).Scan(
		&v.ID, &v.DocumentID, &v.ApprovalRequestID, &v.OwnerID, &v.VersionNumber,
		&v.ContentHash, &v.Content, &v.DiffFromPrevious, &v.ChangeSummary, &v.SizeBytes, &v.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// ListVersions returns a document's version history, newest first. The
// caller must own the document.
func (d *DB) ListVersions(ctx context.Context, docID, ownerID uuid.UUID, limit int) ([]models.DocumentVersion, error) {
	if _, err := d.GetDocument(ctx, docID, ownerID); err != nil {
		return nil, err
	}

	rows, err := d.Pool.Query(ctx, `
		SELECT id, document_id, approval_request_id, owner_id, version_number, content_hash, content, diff_from_previous, change_summary, size_bytes, created_at
		FROM document_versions
		WHERE document_id = $1
		ORDER BY version_number DESC
		LIMIT $2
	`, docID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var versions []models.DocumentVersion
	for rows.Next() {
		var v models.DocumentVersion
		if err := rows.Scan(
			&v.ID, &v.DocumentID, &v.ApprovalRequestID, &v.OwnerID, &v.VersionNumber,
			&v.ContentHash, &v.Content, &v.DiffFromPrevious, &v.ChangeSummary, &v.SizeBytes, &v.CreatedAt,
		); err != nil {
			return nil, err
		}
		versions = append(versions, v)
	}
	return versions, rows.Err()
}

// GetVersion retrieves one version of a document owned by the caller.
func (d *DB) GetVersion(ctx context.Context, docID, ownerID uuid.UUID, versionNumber int) (*models.DocumentVersion, error) {
	if _, err := d.GetDocument(ctx, docID, ownerID); err != nil {
		return nil, err
	}
	return getVersion(ctx, d.Pool, docID, versionNumber)
}

func getVersion(ctx context.Context, q querier, docID uuid.UUID, versionNumber int) (*models.DocumentVersion, error) {
	var v models.DocumentVersion
	err := q.QueryRow(ctx, `
		SELECT id, document_id, approval_request_id, owner_id, version_number, content_hash, content, diff_from_previous, change_summary, size_bytes, created_at
		FROM document_versions
		WHERE document_id = $1 AND version_number = $2
	`, docID, versionNumber).Scan(
		&v.ID, &v.DocumentID, &v.ApprovalRequestID, &v.OwnerID, &v.VersionNumber,
		&v.ContentHash, &v.Content, &v.DiffFromPrevious, &v.ChangeSummary, &v.SizeBytes, &v.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrVersionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// RollbackDocument restores a document to a prior version by writing the old
// snapshot back as the live content and recording it as a new forward
// version. The rolled-back-to version and everything in between stay
// untouched and queryable.
func (d *DB) RollbackDocument(ctx context.Context, docID, ownerID uuid.UUID, versionNumber int) (*models.DocumentVersion, error) {
	tx, err := d.Pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	doc, err := getDocument(ctx, tx, docID, ownerID, true)
	if err != nil {
		return nil, err
	}

	target, err := getVersion(ctx, tx, docID, versionNumber)
	if err != nil {
		return nil, err
	}

	if err := updateDocumentContent(ctx, tx, doc.ID, target.Content); err != nil {
		return nil, err
	}

	restored, err := createVersion(ctx, tx, doc.ID, ownerID, target.Content, nil,
		fmt.Sprintf("Rollback to version %d", versionNumber))
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return restored, nil
}

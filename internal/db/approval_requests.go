package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"redline/internal/apply"
	"redline/internal/models"
	"redline/internal/rules"
)

// DefaultExpiryHours is applied when a create call does not specify a window.
const DefaultExpiryHours = 24

const requestColumns = `id, owner_id, document_id, conversation_id, title, description, change_kind,
	original_content, proposed_content, change_location, change_metadata, ai_reasoning, confidence_score,
	status, decided_at, decided_by_human, expires_at, hash_before, hash_after,
	applied, applied_at, application_error, created_at, updated_at`

func scanRequest(row pgx.Row) (*models.ApprovalRequest, error) {
	var req models.ApprovalRequest
	var metadata []byte
	err := row.Scan(
		&req.ID, &req.OwnerID, &req.DocumentID, &req.ConversationID, &req.Title, &req.Description, &req.ChangeKind,
		&req.OriginalContent, &req.ProposedContent, &req.ChangeLocation, &metadata, &req.AIReasoning, &req.ConfidenceScore,
		&req.Status, &req.DecidedAt, &req.DecidedByHuman, &req.ExpiresAt, &req.HashBefore, &req.HashAfter,
		&req.Applied, &req.AppliedAt, &req.ApplicationError, &req.CreatedAt, &req.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	req.ChangeMetadata = metadata
	return &req, nil
}

// CreateRequestParams carries the producer's input for a new approval request.
type CreateRequestParams struct {
	OwnerID         uuid.UUID
	DocumentID      uuid.UUID
	ConversationID  *uuid.UUID
	Title           string
	Description     string
	ChangeKind      string
	OriginalContent *string
	ProposedContent string
	ChangeLocation  *string
	ChangeMetadata  []byte
	AIReasoning     string
	ConfidenceScore *float64
	ExpiresInHours  int
}

// CreateApprovalRequest persists a new pending request and synchronously runs
// the auto-approval rule engine before returning. The returned request may
// therefore already be approved and applied.
func (d *DB) CreateApprovalRequest(ctx context.Context, p CreateRequestParams) (*models.ApprovalRequest, error) {
	doc, err := d.GetDocument(ctx, p.DocumentID, p.OwnerID)
	if err != nil {
		return nil, err
	}

	hours := p.ExpiresInHours
	if hours <= 0 {
		hours = DefaultExpiryHours
	}
	expiresAt := time.Now().Add(time.Duration(hours) * time.Hour)

	req, err := scanRequest(d.Pool.QueryRow(ctx, `
		INSERT INTO approval_requests
			(owner_id, document_id, conversation_id, title, description, change_kind,
			original_content, proposed_content, change_location, change_metadata, ai_reasoning, confidence_score,
			status, expires_at, hash_before)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING `+requestColumns, p.OwnerID, p.DocumentID, p.ConversationID, p.Title, p.Description, p.ChangeKind,
		p.OriginalContent, p.ProposedContent, p.ChangeLocation, p.ChangeMetadata, p.AIReasoning, p.ConfidenceScore,
		models.StatusPending, expiresAt, hashContent(doc.Content)))
	if err != nil {
		return nil, err
	}

	templates, err := d.ListActiveTemplates(ctx, p.OwnerID)
	if err != nil {
		return nil, err
	}

	if tpl := rules.Match(req, doc.DocType, templates); tpl != nil {
		if err := d.autoApprove(ctx, req); err != nil {
			// The request survives as pending with the failure recorded for
			// audit; a human can still decide it.
			slog.Error("auto-approval failed", "request_id", req.ID, "template_id", tpl.ID, "error", err)
		}
	}

	return d.GetApprovalRequest(ctx, req.ID, p.OwnerID)
}

// GetApprovalRequest retrieves a request owned by the caller.
func (d *DB) GetApprovalRequest(ctx context.Context, id int64, ownerID uuid.UUID) (*models.ApprovalRequest, error) {
	req, err := scanRequest(d.Pool.QueryRow(ctx, `
		SELECT `+requestColumns+` FROM approval_requests
		WHERE id = $1 AND owner_id = $2
	`, id, ownerID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrRequestNotFound
	}
	if err != nil {
		return nil, err
	}
	return req, nil
}

// ListPendingRequests returns the caller's pending, unexpired requests,
// newest first.
func (d *DB) ListPendingRequests(ctx context.Context, ownerID uuid.UUID, limit int) ([]models.ApprovalRequest, error) {
	return d.listRequests(ctx, `
		SELECT `+requestColumns+` FROM approval_requests
		WHERE owner_id = $1 AND status = $2 AND (expires_at IS NULL OR expires_at > NOW())
		ORDER BY created_at DESC
		LIMIT $3
	`, ownerID, models.StatusPending, limit)
}

// ListRequestHistory returns all of the caller's requests in any status,
// newest first.
func (d *DB) ListRequestHistory(ctx context.Context, ownerID uuid.UUID, limit int) ([]models.ApprovalRequest, error) {
	return d.listRequests(ctx, `
		SELECT `+requestColumns+` FROM approval_requests
		WHERE owner_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, ownerID, limit)
}

func (d *DB) listRequests(ctx context.Context, query string, args ...any) ([]models.ApprovalRequest, error) {
	rows, err := d.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []models.ApprovalRequest
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, *req)
	}
	return requests, rows.Err()
}

// DecideRequest records a human decision on a pending request. Approval
// applies the change to the document within the same transaction: if the
// apply fails, the decision is rolled back and the request stays pending
// with the failure recorded on its application_error field.
func (d *DB) DecideRequest(ctx context.Context, id int64, ownerID uuid.UUID, decision string) (*models.ApprovalRequest, error) {
	if !models.ValidDecision(decision) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDecision, decision)
	}

	tx, err := d.Pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	req, err := scanRequest(tx.QueryRow(ctx, `
		SELECT `+requestColumns+` FROM approval_requests
		WHERE id = $1 AND owner_id = $2
		FOR UPDATE
	`, id, ownerID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrRequestNotFound
	}
	if err != nil {
		return nil, err
	}
	if req.Status != models.StatusPending {
		return nil, fmt.Errorf("%w: status is %s", ErrAlreadyProcessed, req.Status)
	}

	status := models.StatusRejected
	if decision == models.DecisionApproved {
		status = models.StatusApproved
	}

	_, err = tx.Exec(ctx, `
		UPDATE approval_requests
		SET status = $1, decided_at = NOW(), decided_by_human = TRUE, updated_at = NOW()
		WHERE id = $2
	`, status, id)
	if err != nil {
		return nil, err
	}

	if decision == models.DecisionApproved {
		if err := d.applyRequest(ctx, tx, req); err != nil {
			tx.Rollback(ctx)
			d.recordApplicationError(ctx, id, err)
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return d.GetApprovalRequest(ctx, id, ownerID)
}

// autoApprove marks a freshly created request approved by rule match and
// applies it, all in one transaction. decided_by_human stays false; the
// request lands in the approved terminal state rather than auto_approved,
// with the flag telling the two apart.
func (d *DB) autoApprove(ctx context.Context, req *models.ApprovalRequest) error {
	tx, err := d.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	result, err := tx.Exec(ctx, `
		UPDATE approval_requests
		SET status = $1, decided_at = NOW(), decided_by_human = FALSE, updated_at = NOW()
		WHERE id = $2 AND status = $3
	`, models.StatusApproved, req.ID, models.StatusPending)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrAlreadyProcessed
	}

	if err := d.applyRequest(ctx, tx, req); err != nil {
		tx.Rollback(ctx)
		d.recordApplicationError(ctx, req.ID, err)
		return err
	}

	return tx.Commit(ctx)
}

// applyRequest executes an approved request against the live document inside
// the caller's transaction: pre-mutation snapshot (when the document holds
// content), transform, content rewrite, post-mutation snapshot, and the
// applied bookkeeping on the request row. Partial completion never survives
// because the whole transaction commits or aborts as one.
func (d *DB) applyRequest(ctx context.Context, tx pgx.Tx, req *models.ApprovalRequest) error {
	doc, err := getDocument(ctx, tx, req.DocumentID, req.OwnerID, true)
	if err != nil {
		return err
	}

	if doc.Content != "" {
		if _, err := createVersion(ctx, tx, doc.ID, req.OwnerID, doc.Content, nil, "Pre-approval snapshot"); err != nil {
			return err
		}
	}

	newContent, err := apply.Transform(req.ChangeKind, apply.Input{
		Current:  doc.Content,
		Proposed: req.ProposedContent,
		Original: req.OriginalContent,
		Location: req.ChangeLocation,
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrApplicationFailed, err)
	}

	if err := updateDocumentContent(ctx, tx, doc.ID, newContent); err != nil {
		return err
	}

	summary := req.Title
	if summary == "" {
		summary = fmt.Sprintf("Applied change request #%d", req.ID)
	}
	if _, err := createVersion(ctx, tx, doc.ID, req.OwnerID, newContent, &req.ID, summary); err != nil {
		return err
	}

	// Clear any failure recorded by an earlier apply attempt; applied and
	// application_error are mutually exclusive.
	_, err = tx.Exec(ctx, `
		UPDATE approval_requests
		SET hash_after = $1, applied = TRUE, applied_at = NOW(), application_error = NULL, updated_at = NOW()
		WHERE id = $2
	`, hashContent(newContent), req.ID)
	return err
}

// recordApplicationError persists an apply failure onto the request for
// audit, outside the aborted transaction so the record survives. The request
// itself stays unapplied in its prior status.
func (d *DB) recordApplicationError(ctx context.Context, id int64, applyErr error) {
	_, err := d.Pool.Exec(ctx, `
		UPDATE approval_requests
		SET application_error = $1, updated_at = NOW()
		WHERE id = $2
	`, applyErr.Error(), id)
	if err != nil {
		slog.Error("failed to record application error", "request_id", id, "error", err)
	}
}

// ExpireSweep flips every pending request past its expiry to expired and
// returns the count. Repeated sweeps with nothing newly expirable return 0
// and touch no rows.
func (d *DB) ExpireSweep(ctx context.Context) (int64, error) {
	result, err := d.Pool.Exec(ctx, `
		UPDATE approval_requests
		SET status = $1, updated_at = NOW()
		WHERE status = $2 AND expires_at IS NOT NULL AND expires_at < NOW()
	`, models.StatusExpired, models.StatusPending)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

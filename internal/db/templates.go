package db

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"redline/internal/models"
)

const templateColumns = `id, owner_id, name, description, change_kinds, file_type_filter, content_pattern, min_confidence, max_change_size, active, created_at, updated_at`

func scanTemplate(row pgx.Row) (*models.ApprovalTemplate, error) {
	var t models.ApprovalTemplate
	err := row.Scan(
		&t.ID, &t.OwnerID, &t.Name, &t.Description, &t.ChangeKinds,
		&t.FileTypeFilter, &t.ContentPattern, &t.MinConfidence, &t.MaxChangeSize,
		&t.Active, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// CreateTemplate inserts a new auto-approval template.
func (d *DB) CreateTemplate(ctx context.Context, t *models.ApprovalTemplate) error {
	query := `
		INSERT INTO approval_templates (owner_id, name, description, change_kinds, file_type_filter, content_pattern, min_confidence, max_change_size, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`
	return d.Pool.QueryRow(ctx, query,
		t.OwnerID, t.Name, t.Description, t.ChangeKinds, t.FileTypeFilter,
		t.ContentPattern, t.MinConfidence, t.MaxChangeSize, t.Active,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
}

// GetTemplate retrieves a template owned by the caller.
func (d *DB) GetTemplate(ctx context.Context, id int64, ownerID uuid.UUID) (*models.ApprovalTemplate, error) {
	t, err := scanTemplate(d.Pool.QueryRow(ctx, `
		SELECT `+templateColumns+` FROM approval_templates
		WHERE id = $1 AND owner_id = $2
	`, id, ownerID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrTemplateNotFound
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// ListTemplates returns all of the caller's templates in storage order.
func (d *DB) ListTemplates(ctx context.Context, ownerID uuid.UUID) ([]models.ApprovalTemplate, error) {
	return d.listTemplates(ctx, ownerID, false)
}

// ListActiveTemplates returns the caller's active templates in storage
// order, which is the order the rule engine evaluates them in.
func (d *DB) ListActiveTemplates(ctx context.Context, ownerID uuid.UUID) ([]models.ApprovalTemplate, error) {
	return d.listTemplates(ctx, ownerID, true)
}

func (d *DB) listTemplates(ctx context.Context, ownerID uuid.UUID, activeOnly bool) ([]models.ApprovalTemplate, error) {
	query := `SELECT ` + templateColumns + ` FROM approval_templates WHERE owner_id = $1`
	if activeOnly {
		query += ` AND active`
	}
	query += ` ORDER BY id ASC`

	rows, err := d.Pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var templates []models.ApprovalTemplate
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		templates = append(templates, *t)
	}
	return templates, rows.Err()
}

// UpdateTemplate updates an existing template owned by the caller.
func (d *DB) UpdateTemplate(ctx context.Context, t *models.ApprovalTemplate) error {
	result, err := d.Pool.Exec(ctx, `
		UPDATE approval_templates
		SET name = $1, description = $2, change_kinds = $3, file_type_filter = $4,
			content_pattern = $5, min_confidence = $6, max_change_size = $7, active = $8,
			updated_at = NOW()
		WHERE id = $9 AND owner_id = $10
	`, t.Name, t.Description, t.ChangeKinds, t.FileTypeFilter, t.ContentPattern,
		t.MinConfidence, t.MaxChangeSize, t.Active, t.ID, t.OwnerID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrTemplateNotFound
	}
	return nil
}

// SeedDefaultTemplates creates the given templates for a user, skipping any
// name the user already has. Used to apply config-file defaults on first
// login.
func (d *DB) SeedDefaultTemplates(ctx context.Context, ownerID uuid.UUID, templates []models.ApprovalTemplate) error {
	for i := range templates {
		t := templates[i]
		t.OwnerID = ownerID

		var exists bool
		err := d.Pool.QueryRow(ctx, `
			SELECT EXISTS (SELECT 1 FROM approval_templates WHERE owner_id = $1 AND name = $2)
		`, ownerID, t.Name).Scan(&exists)
		if err != nil {
			return err
		}
		if exists {
			continue
		}

		if err := d.CreateTemplate(ctx, &t); err != nil {
			return err
		}
	}
	return nil
}

// DeleteTemplate removes a template owned by the caller.
func (d *DB) DeleteTemplate(ctx context.Context, id int64, ownerID uuid.UUID) error {
	result, err := d.Pool.Exec(ctx, `
		DELETE FROM approval_templates WHERE id = $1 AND owner_id = $2
	`, id, ownerID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrTemplateNotFound
	}
	return nil
}

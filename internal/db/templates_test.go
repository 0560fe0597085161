package db

import (
	"context"
	"errors"
	"testing"

	"redline/internal/models"
)

func TestTemplateCRUD(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	user := seedUser(t, db, "template-user")

	tpl := &models.ApprovalTemplate{
		OwnerID:        user.ID,
		Name:           "formatting-auto",
		Description:    "Auto-approve confident formatting changes",
		ChangeKinds:    []string{models.KindFormatting},
		FileTypeFilter: strPtr("markdown"),
		MinConfidence:  0.8,
		Active:         true,
	}
	if err := db.CreateTemplate(ctx, tpl); err != nil {
		t.Fatalf("CreateTemplate() error = %v", err)
	}
	if tpl.ID == 0 {
		t.Fatal("CreateTemplate() did not set ID")
	}

	got, err := db.GetTemplate(ctx, tpl.ID, user.ID)
	if err != nil {
		t.Fatalf("GetTemplate() error = %v", err)
	}
	if got.Name != "formatting-auto" || got.MinConfidence != 0.8 {
		t.Errorf("GetTemplate() = %+v", got)
	}
	if got.FileTypeFilter == nil || *got.FileTypeFilter != "markdown" {
		t.Errorf("file_type_filter = %v, want markdown", got.FileTypeFilter)
	}

	got.MinConfidence = 0.95
	got.Active = false
	if err := db.UpdateTemplate(ctx, got); err != nil {
		t.Fatalf("UpdateTemplate() error = %v", err)
	}

	updated, err := db.GetTemplate(ctx, tpl.ID, user.ID)
	if err != nil {
		t.Fatalf("GetTemplate() error = %v", err)
	}
	if updated.MinConfidence != 0.95 || updated.Active {
		t.Errorf("update not persisted: %+v", updated)
	}

	if err := db.DeleteTemplate(ctx, tpl.ID, user.ID); err != nil {
		t.Fatalf("DeleteTemplate() error = %v", err)
	}
	if _, err := db.GetTemplate(ctx, tpl.ID, user.ID); !errors.Is(err, ErrTemplateNotFound) {
		t.Errorf("GetTemplate() after delete error = %v, want ErrTemplateNotFound", err)
	}
}

func TestListActiveTemplates(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	user := seedUser(t, db, "list-templates-user")

	active := &models.ApprovalTemplate{
		OwnerID: user.ID, Name: "active", ChangeKinds: []string{models.KindEdit}, MinConfidence: 0.5, Active: true,
	}
	disabled := &models.ApprovalTemplate{
		OwnerID: user.ID, Name: "disabled", ChangeKinds: []string{models.KindEdit}, MinConfidence: 0.5, Active: false,
	}
	if err := db.CreateTemplate(ctx, active); err != nil {
		t.Fatalf("CreateTemplate() error = %v", err)
	}
	if err := db.CreateTemplate(ctx, disabled); err != nil {
		t.Fatalf("CreateTemplate() error = %v", err)
	}

	all, err := db.ListTemplates(ctx, user.ID)
	if err != nil {
		t.Fatalf("ListTemplates() error = %v", err)
	}
	if len(all) != 2 {
		t.Errorf("len(all) = %d, want 2", len(all))
	}

	activeOnly, err := db.ListActiveTemplates(ctx, user.ID)
	if err != nil {
		t.Fatalf("ListActiveTemplates() error = %v", err)
	}
	if len(activeOnly) != 1 || activeOnly[0].Name != "active" {
		t.Errorf("ListActiveTemplates() = %+v, want only active", activeOnly)
	}
}

func TestUpdateTemplate_ForeignOwner(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	owner := seedUser(t, db, "template-owner")
	other := seedUser(t, db, "template-snoop")

	tpl := &models.ApprovalTemplate{
		OwnerID: owner.ID, Name: "mine", ChangeKinds: []string{models.KindEdit}, MinConfidence: 0.5, Active: true,
	}
	if err := db.CreateTemplate(ctx, tpl); err != nil {
		t.Fatalf("CreateTemplate() error = %v", err)
	}

	stolen := *tpl
	stolen.OwnerID = other.ID
	if err := db.UpdateTemplate(ctx, &stolen); !errors.Is(err, ErrTemplateNotFound) {
		t.Errorf("UpdateTemplate() error = %v, want ErrTemplateNotFound", err)
	}
	if err := db.DeleteTemplate(ctx, tpl.ID, other.ID); !errors.Is(err, ErrTemplateNotFound) {
		t.Errorf("DeleteTemplate() error = %v, want ErrTemplateNotFound", err)
	}
}

func TestSeedDefaultTemplates(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	user := seedUser(t, db, "seed-user")

	defaults := []models.ApprovalTemplate{
		{Name: "formatting-auto", ChangeKinds: []string{models.KindFormatting}, MinConfidence: 0.9, Active: true},
		{Name: "edit-auto", ChangeKinds: []string{models.KindEdit}, MinConfidence: 0.95, Active: true},
	}

	if err := db.SeedDefaultTemplates(ctx, user.ID, defaults); err != nil {
		t.Fatalf("SeedDefaultTemplates() error = %v", err)
	}
	// Repeat seeding skips names that already exist
	if err := db.SeedDefaultTemplates(ctx, user.ID, defaults); err != nil {
		t.Fatalf("SeedDefaultTemplates() error = %v", err)
	}

	all, err := db.ListTemplates(ctx, user.ID)
	if err != nil {
		t.Fatalf("ListTemplates() error = %v", err)
	}
	if len(all) != 2 {
		t.Errorf("len(all) = %d, want 2 after repeated seeding", len(all))
	}
}

package db

import (
	"context"
	"errors"
	"strings"
	"testing"

	"redline/internal/models"
)

// editDocument drives one full approve-and-apply cycle so version chains in
// these tests are built the same way production builds them.
func editDocument(t *testing.T, db *DB, owner *models.User, doc *models.Document, newContent string) {
	t.Helper()
	ctx := context.Background()

	req, err := db.CreateApprovalRequest(ctx, CreateRequestParams{
		OwnerID:         owner.ID,
		DocumentID:      doc.ID,
		Title:           "Edit to " + newContent,
		ChangeKind:      models.KindEdit,
		ProposedContent: newContent,
	})
	if err != nil {
		t.Fatalf("CreateApprovalRequest() error = %v", err)
	}
	if _, err := db.DecideRequest(ctx, req.ID, owner.ID, models.DecisionApproved); err != nil {
		t.Fatalf("DecideRequest() error = %v", err)
	}
}

func TestVersionChainContiguous(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	user := seedUser(t, db, "chain-user")
	doc := seedDocument(t, db, user, "v1 content")

	editDocument(t, db, user, doc, "v2 content")
	editDocument(t, db, user, doc, "v3 content")

	versions, err := db.ListVersions(ctx, doc.ID, user.ID, 50)
	if err != nil {
		t.Fatalf("ListVersions() error = %v", err)
	}
	if len(versions) != 3 {
		t.Fatalf("len(versions) = %d, want 3", len(versions))
	}

	// Newest first, numbered contiguously from 1
	for i, v := range versions {
		want := len(versions) - i
		if v.VersionNumber != want {
			t.Errorf("versions[%d].VersionNumber = %d, want %d", i, v.VersionNumber, want)
		}
		if v.ContentHash != hashContent(v.Content) {
			t.Errorf("version %d hash does not match its content", v.VersionNumber)
		}
		if v.SizeBytes != int64(len(v.Content)) {
			t.Errorf("version %d size_bytes = %d, want %d", v.VersionNumber, v.SizeBytes, len(v.Content))
		}
	}

	if versions[2].DiffFromPrevious != nil {
		t.Error("first version carries a diff from previous")
	}
	if versions[0].DiffFromPrevious == nil || !strings.Contains(*versions[0].DiffFromPrevious, "+v3 content") {
		t.Error("latest version missing diff from previous")
	}
}

func TestCreateVersion_HeadDuplicateIsNoop(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	user := seedUser(t, db, "head-dup-user")
	doc := seedDocument(t, db, user, "")

	first, err := createVersion(ctx, db.Pool, doc.ID, user.ID, "same state", nil, "Initial")
	if err != nil {
		t.Fatalf("createVersion() error = %v", err)
	}
	again, err := createVersion(ctx, db.Pool, doc.ID, user.ID, "same state", nil, "Repeat")
	if err != nil {
		t.Fatalf("createVersion() error = %v", err)
	}

	if again.ID != first.ID || again.VersionNumber != first.VersionNumber {
		t.Errorf("duplicate head created version #%d, want existing #%d returned", again.VersionNumber, first.VersionNumber)
	}

	versions, err := db.ListVersions(ctx, doc.ID, user.ID, 10)
	if err != nil {
		t.Fatalf("ListVersions() error = %v", err)
	}
	if len(versions) != 1 {
		t.Errorf("len(versions) = %d, want 1", len(versions))
	}
}

func TestCreateVersion_CrossDocumentDuplicate(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	user := seedUser(t, db, "cross-dup-user")
	docA := seedDocument(t, db, user, "")
	docB := seedDocument(t, db, user, "")

	if _, err := createVersion(ctx, db.Pool, docA.ID, user.ID, "shared state", nil, "Initial"); err != nil {
		t.Fatalf("createVersion() error = %v", err)
	}

	_, err := createVersion(ctx, db.Pool, docB.ID, user.ID, "shared state", nil, "Clone")
	if !errors.Is(err, ErrDuplicateContent) {
		t.Errorf("createVersion() error = %v, want ErrDuplicateContent", err)
	}
}

func TestRollbackDocument(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	user := seedUser(t, db, "rollback-user")
	doc := seedDocument(t, db, user, "v1 content")

	editDocument(t, db, user, doc, "v2 content")
	editDocument(t, db, user, doc, "v3 content")

	restored, err := db.RollbackDocument(ctx, doc.ID, user.ID, 1)
	if err != nil {
		t.Fatalf("RollbackDocument() error = %v", err)
	}

	// Restored state lands as a new forward version
	if restored.VersionNumber != 4 {
		t.Errorf("restored version = %d, want 4", restored.VersionNumber)
	}
	if restored.Content != "v1 content" {
		t.Errorf("restored content = %q, want %q", restored.Content, "v1 content")
	}
	if restored.ChangeSummary != "Rollback to version 1" {
		t.Errorf("restored summary = %q", restored.ChangeSummary)
	}

	got, err := db.GetDocument(ctx, doc.ID, user.ID)
	if err != nil {
		t.Fatalf("GetDocument() error = %v", err)
	}
	if got.Content != "v1 content" {
		t.Errorf("document content = %q, want %q", got.Content, "v1 content")
	}

	// Intermediate versions stay queryable
	versions, err := db.ListVersions(ctx, doc.ID, user.ID, 50)
	if err != nil {
		t.Fatalf("ListVersions() error = %v", err)
	}
	if len(versions) != 4 {
		t.Fatalf("len(versions) = %d, want 4", len(versions))
	}
	v2, err := db.GetVersion(ctx, doc.ID, user.ID, 2)
	if err != nil {
		t.Fatalf("GetVersion() error = %v", err)
	}
	if v2.Content != "v2 content" {
		t.Errorf("version 2 content = %q, want untouched %q", v2.Content, "v2 content")
	}
}

func TestRollbackDocument_ToCurrentStateAddsNothing(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	user := seedUser(t, db, "rollback-noop-user")
	doc := seedDocument(t, db, user, "v1 content")

	editDocument(t, db, user, doc, "v2 content")

	// Chain head already captures this state
	restored, err := db.RollbackDocument(ctx, doc.ID, user.ID, 2)
	if err != nil {
		t.Fatalf("RollbackDocument() error = %v", err)
	}
	if restored.VersionNumber != 2 {
		t.Errorf("restored version = %d, want existing head 2", restored.VersionNumber)
	}

	versions, err := db.ListVersions(ctx, doc.ID, user.ID, 10)
	if err != nil {
		t.Fatalf("ListVersions() error = %v", err)
	}
	if len(versions) != 2 {
		t.Errorf("len(versions) = %d, want 2", len(versions))
	}
}

func TestRollbackDocument_MissingVersion(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	user := seedUser(t, db, "rollback-missing-user")
	doc := seedDocument(t, db, user, "content")

	_, err := db.RollbackDocument(context.Background(), doc.ID, user.ID, 7)
	if !errors.Is(err, ErrVersionNotFound) {
		t.Errorf("RollbackDocument() error = %v, want ErrVersionNotFound", err)
	}
}

func TestGetVersion_ForeignOwner(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	owner := seedUser(t, db, "version-owner")
	other := seedUser(t, db, "version-snoop")
	doc := seedDocument(t, db, owner, "v1 content")
	editDocument(t, db, owner, doc, "v2 content")

	_, err := db.GetVersion(ctx, doc.ID, other.ID, 1)
	if !errors.Is(err, ErrDocumentNotFound) {
		t.Errorf("GetVersion() error = %v, want ErrDocumentNotFound", err)
	}

	_, err = db.ListVersions(ctx, doc.ID, other.ID, 10)
	if !errors.Is(err, ErrDocumentNotFound) {
		t.Errorf("ListVersions() error = %v, want ErrDocumentNotFound", err)
	}
}

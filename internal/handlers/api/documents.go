package api

import (
	"encoding/json"
	"errors"
	"unicode/utf8"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"redline/internal/config"
	"redline/internal/db"
	"redline/internal/metrics"
	"redline/internal/models"
)

// maxVersionContentLen caps snapshot content on the wire. Storage always
// keeps the full snapshot.
const maxVersionContentLen = 4096

// DocumentHandler handles document and version history operations via JSON API.
type DocumentHandler struct {
	db  *db.DB
	cfg *config.Config
}

// NewDocumentHandler creates a new document handler.
func NewDocumentHandler(database *db.DB, cfg *config.Config) *DocumentHandler {
	return &DocumentHandler{db: database, cfg: cfg}
}

// Create inserts a new document owned by the caller.
func (h *DocumentHandler) Create(c fiber.Ctx) error {
	user, ok := c.Locals("user").(*models.User)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	var body struct {
		Title   string `json:"title"`
		DocType string `json:"doc_type"`
		Content string `json:"content"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if body.Title == "" {
		return jsonError(c, fiber.StatusBadRequest, "title is required")
	}
	if body.DocType == "" {
		body.DocType = "text"
	}

	doc := &models.Document{
		OwnerID: user.ID,
		Title:   body.Title,
		DocType: body.DocType,
		Content: body.Content,
	}
	if err := h.db.CreateDocument(c.Context(), doc); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to create document")
	}
	return jsonCreated(c, doc)
}

// List returns the caller's documents.
func (h *DocumentHandler) List(c fiber.Ctx) error {
	user, ok := c.Locals("user").(*models.User)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	docs, err := h.db.ListDocuments(c.Context(), user.ID, listLimit(c))
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch documents")
	}
	if docs == nil {
		docs = []models.Document{}
	}
	return jsonSuccess(c, docs)
}

// Get returns a single document with its live content.
func (h *DocumentHandler) Get(c fiber.Ctx) error {
	user, ok := c.Locals("user").(*models.User)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid document id")
	}

	doc, err := h.db.GetDocument(c.Context(), id, user.ID)
	if err != nil {
		if errors.Is(err, db.ErrDocumentNotFound) {
			return jsonError(c, fiber.StatusNotFound, "document not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch document")
	}
	return jsonSuccess(c, doc)
}

// Versions returns a document's version history, newest first, with snapshot
// content truncated for transport.
func (h *DocumentHandler) Versions(c fiber.Ctx) error {
	user, ok := c.Locals("user").(*models.User)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid document id")
	}

	versions, err := h.db.ListVersions(c.Context(), id, user.ID, listLimit(c))
	if err != nil {
		if errors.Is(err, db.ErrDocumentNotFound) {
			return jsonError(c, fiber.StatusNotFound, "document not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch version history")
	}

	items := make([]models.VersionListItem, 0, len(versions))
	for _, v := range versions {
		item := models.VersionListItem{DocumentVersion: v}
		item.Content, item.ContentTruncated = truncateContent(item.Content, maxVersionContentLen)
		items = append(items, item)
	}
	return jsonSuccess(c, items)
}

// truncateContent cuts content to at most max bytes without splitting a
// multi-byte rune at the boundary.
func truncateContent(content string, max int) (string, bool) {
	if len(content) <= max {
		return content, false
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(content[cut]) {
		cut--
	}
	return content[:cut], true
}

// Rollback restores a document to a prior version as a new forward version.
func (h *DocumentHandler) Rollback(c fiber.Ctx) error {
	user, ok := c.Locals("user").(*models.User)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid document id")
	}

	var body struct {
		VersionNumber int `json:"version_number"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if body.VersionNumber < 1 {
		return jsonError(c, fiber.StatusBadRequest, "version_number must be at least 1")
	}

	restored, err := h.db.RollbackDocument(c.Context(), id, user.ID, body.VersionNumber)
	if err != nil {
		switch {
		case errors.Is(err, db.ErrDocumentNotFound):
			return jsonError(c, fiber.StatusNotFound, "document not found")
		case errors.Is(err, db.ErrVersionNotFound):
			return jsonError(c, fiber.StatusNotFound, "document version not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to roll back document")
	}

	metrics.RecordRollback()
	return jsonSuccess(c, restored)
}

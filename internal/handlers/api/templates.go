package api

import (
	"encoding/json"
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v3"

	"redline/internal/config"
	"redline/internal/db"
	"redline/internal/models"
	"redline/internal/validation"
)

// TemplateHandler handles auto-approval template CRUD via JSON API.
type TemplateHandler struct {
	db  *db.DB
	cfg *config.Config
}

// NewTemplateHandler creates a new template handler.
func NewTemplateHandler(database *db.DB, cfg *config.Config) *TemplateHandler {
	return &TemplateHandler{db: database, cfg: cfg}
}

type templateBody struct {
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	ChangeKinds    []string `json:"change_kinds"`
	FileTypeFilter *string  `json:"file_type_filter"`
	ContentPattern *string  `json:"content_pattern"`
	MinConfidence  float64  `json:"min_confidence"`
	MaxChangeSize  *int     `json:"max_change_size"`
	Active         *bool    `json:"active"`
}

func (b *templateBody) validate() (bool, string) {
	if b.Name == "" {
		return false, "name is required"
	}
	if valid, msg := validation.ValidateChangeKinds(b.ChangeKinds); !valid {
		return false, msg
	}
	return validation.ValidateMinConfidence(b.MinConfidence)
}

// Create inserts a new auto-approval template for the caller.
func (h *TemplateHandler) Create(c fiber.Ctx) error {
	user, ok := c.Locals("user").(*models.User)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	var body templateBody
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if valid, msg := body.validate(); !valid {
		return jsonError(c, fiber.StatusBadRequest, msg)
	}

	active := true
	if body.Active != nil {
		active = *body.Active
	}

	t := &models.ApprovalTemplate{
		OwnerID:        user.ID,
		Name:           body.Name,
		Description:    body.Description,
		ChangeKinds:    body.ChangeKinds,
		FileTypeFilter: body.FileTypeFilter,
		ContentPattern: body.ContentPattern,
		MinConfidence:  body.MinConfidence,
		MaxChangeSize:  body.MaxChangeSize,
		Active:         active,
	}
	if err := h.db.CreateTemplate(c.Context(), t); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to create template")
	}
	return jsonCreated(c, t)
}

// List returns all of the caller's templates in evaluation order.
func (h *TemplateHandler) List(c fiber.Ctx) error {
	user, ok := c.Locals("user").(*models.User)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	templates, err := h.db.ListTemplates(c.Context(), user.ID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch templates")
	}
	if templates == nil {
		templates = []models.ApprovalTemplate{}
	}
	return jsonSuccess(c, templates)
}

// Update edits an existing template owned by the caller.
func (h *TemplateHandler) Update(c fiber.Ctx) error {
	user, ok := c.Locals("user").(*models.User)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid template id")
	}

	var body templateBody
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if valid, msg := body.validate(); !valid {
		return jsonError(c, fiber.StatusBadRequest, msg)
	}

	active := true
	if body.Active != nil {
		active = *body.Active
	}

	t := &models.ApprovalTemplate{
		ID:             id,
		OwnerID:        user.ID,
		Name:           body.Name,
		Description:    body.Description,
		ChangeKinds:    body.ChangeKinds,
		FileTypeFilter: body.FileTypeFilter,
		ContentPattern: body.ContentPattern,
		MinConfidence:  body.MinConfidence,
		MaxChangeSize:  body.MaxChangeSize,
		Active:         active,
	}
	if err := h.db.UpdateTemplate(c.Context(), t); err != nil {
		if errors.Is(err, db.ErrTemplateNotFound) {
			return jsonError(c, fiber.StatusNotFound, "template not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to update template")
	}
	return jsonSuccess(c, t)
}

// Delete removes a template owned by the caller.
func (h *TemplateHandler) Delete(c fiber.Ctx) error {
	user, ok := c.Locals("user").(*models.User)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid template id")
	}

	if err := h.db.DeleteTemplate(c.Context(), id, user.ID); err != nil {
		if errors.Is(err, db.ErrTemplateNotFound) {
			return jsonError(c, fiber.StatusNotFound, "template not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to delete template")
	}
	return jsonSuccess(c, fiber.Map{"message": "template deleted"})
}

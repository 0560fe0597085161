package api

import (
	"encoding/json"
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"redline/internal/config"
	"redline/internal/db"
	"redline/internal/diff"
	"redline/internal/email"
	"redline/internal/metrics"
	"redline/internal/models"
	"redline/internal/validation"
)

const defaultListLimit = 50

// RequestHandler handles the approval request lifecycle via JSON API.
type RequestHandler struct {
	db       *db.DB
	cfg      *config.Config
	notifier *email.Notifier
}

// NewRequestHandler creates a new approval request handler.
func NewRequestHandler(database *db.DB, cfg *config.Config, notifier *email.Notifier) *RequestHandler {
	return &RequestHandler{db: database, cfg: cfg, notifier: notifier}
}

// Create accepts a proposed change from the producer and runs the
// auto-approval rules before responding.
func (h *RequestHandler) Create(c fiber.Ctx) error {
	user, ok := c.Locals("user").(*models.User)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	var body struct {
		DocumentID      uuid.UUID       `json:"document_id"`
		ConversationID  *uuid.UUID      `json:"conversation_id"`
		Title           string          `json:"title"`
		Description     string          `json:"description"`
		ChangeKind      string          `json:"change_kind"`
		OriginalContent *string         `json:"original_content"`
		ProposedContent *string         `json:"proposed_content"`
		ChangeLocation  *string         `json:"change_location"`
		ChangeMetadata  json.RawMessage `json:"change_metadata"`
		AIReasoning     string          `json:"ai_reasoning"`
		ConfidenceScore *float64        `json:"confidence_score"`
		ExpiresInHours  int             `json:"expires_in_hours"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if body.DocumentID == uuid.Nil {
		return jsonError(c, fiber.StatusBadRequest, "document_id is required")
	}
	if body.ProposedContent == nil {
		return jsonError(c, fiber.StatusBadRequest, "proposed_content is required")
	}
	if valid, msg := validation.ValidateChangeKind(body.ChangeKind); !valid {
		return jsonError(c, fiber.StatusBadRequest, msg)
	}
	if valid, msg := validation.ValidateConfidence(body.ConfidenceScore); !valid {
		return jsonError(c, fiber.StatusBadRequest, msg)
	}

	hours := body.ExpiresInHours
	if hours <= 0 {
		hours = h.cfg.DefaultExpiryHours
	}

	req, err := h.db.CreateApprovalRequest(c.Context(), db.CreateRequestParams{
		OwnerID:         user.ID,
		DocumentID:      body.DocumentID,
		ConversationID:  body.ConversationID,
		Title:           body.Title,
		Description:     body.Description,
		ChangeKind:      body.ChangeKind,
		OriginalContent: body.OriginalContent,
		ProposedContent: *body.ProposedContent,
		ChangeLocation:  body.ChangeLocation,
		ChangeMetadata:  body.ChangeMetadata,
		AIReasoning:     body.AIReasoning,
		ConfidenceScore: body.ConfidenceScore,
		ExpiresInHours:  hours,
	})
	if err != nil {
		if errors.Is(err, db.ErrDocumentNotFound) {
			return jsonError(c, fiber.StatusNotFound, "document not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to create approval request")
	}

	metrics.RecordRequestCreated(req.ChangeKind)
	if req.Status == models.StatusApproved && !req.DecidedByHuman {
		metrics.RecordDecision(models.DecisionApproved, "rule")
		if h.notifier != nil {
			h.notifier.NotifyRequestAutoApproved(c.Context(), req)
		}
	}

	return jsonCreated(c, req)
}

// ListPending returns the caller's pending, unexpired requests, newest first.
func (h *RequestHandler) ListPending(c fiber.Ctx) error {
	user, ok := c.Locals("user").(*models.User)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	requests, err := h.db.ListPendingRequests(c.Context(), user.ID, listLimit(c))
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch pending requests")
	}
	if requests == nil {
		requests = []models.ApprovalRequest{}
	}
	return jsonSuccess(c, requests)
}

// ListHistory returns all of the caller's requests in any status, newest first.
func (h *RequestHandler) ListHistory(c fiber.Ctx) error {
	user, ok := c.Locals("user").(*models.User)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	requests, err := h.db.ListRequestHistory(c.Context(), user.ID, listLimit(c))
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch request history")
	}
	if requests == nil {
		requests = []models.ApprovalRequest{}
	}
	return jsonSuccess(c, requests)
}

// Get returns a single approval request by ID.
func (h *RequestHandler) Get(c fiber.Ctx) error {
	user, ok := c.Locals("user").(*models.User)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := requestID(c)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request id")
	}

	req, err := h.db.GetApprovalRequest(c.Context(), id, user.ID)
	if err != nil {
		if errors.Is(err, db.ErrRequestNotFound) {
			return jsonError(c, fiber.StatusNotFound, "approval request not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch approval request")
	}
	return jsonSuccess(c, req)
}

// Decide records a human decision on a pending request. An approval applies
// the change before the response is sent; if the apply fails, the decision
// does not stand.
func (h *RequestHandler) Decide(c fiber.Ctx) error {
	user, ok := c.Locals("user").(*models.User)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := requestID(c)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request id")
	}

	var body struct {
		Decision string `json:"decision"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if valid, msg := validation.ValidateDecision(body.Decision); !valid {
		return jsonError(c, fiber.StatusBadRequest, msg)
	}

	req, err := h.db.DecideRequest(c.Context(), id, user.ID, body.Decision)
	if err != nil {
		switch {
		case errors.Is(err, db.ErrRequestNotFound):
			return jsonError(c, fiber.StatusNotFound, "approval request not found")
		case errors.Is(err, db.ErrAlreadyProcessed):
			return jsonError(c, fiber.StatusConflict, "approval request has already been processed")
		case errors.Is(err, db.ErrInvalidDecision):
			return jsonError(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, db.ErrApplicationFailed):
			return jsonError(c, fiber.StatusUnprocessableEntity, err.Error())
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to record decision")
	}

	metrics.RecordDecision(body.Decision, "human")
	if h.notifier != nil {
		h.notifier.NotifyRequestDecided(c.Context(), req)
	}

	return jsonSuccess(c, req)
}

// Diff returns a diff preview for a request. When the request carries no
// original snapshot, the document's current text stands in for the original,
// so a preview taken long after approval may not reflect the state at
// approval time.
func (h *RequestHandler) Diff(c fiber.Ctx) error {
	user, ok := c.Locals("user").(*models.User)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := requestID(c)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request id")
	}

	req, err := h.db.GetApprovalRequest(c.Context(), id, user.ID)
	if err != nil {
		if errors.Is(err, db.ErrRequestNotFound) {
			return jsonError(c, fiber.StatusNotFound, "approval request not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch approval request")
	}

	var original string
	if req.OriginalContent != nil {
		original = *req.OriginalContent
	} else {
		doc, err := h.db.GetDocument(c.Context(), req.DocumentID, user.ID)
		if err != nil {
			if errors.Is(err, db.ErrDocumentNotFound) {
				return jsonError(c, fiber.StatusNotFound, "document not found")
			}
			return jsonError(c, fiber.StatusInternalServerError, "failed to fetch document")
		}
		original = doc.Content
	}

	result, err := diff.Compute(original, req.ProposedContent)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to compute diff")
	}

	return jsonSuccess(c, models.DiffPreviewResponse{
		RequestID:      req.ID,
		UnifiedDiff:    result.Unified,
		HTMLDiff:       result.HTML,
		AddedGroups:    result.Stats.AddedGroups,
		RemovedGroups:  result.Stats.RemovedGroups,
		ModifiedGroups: result.Stats.ModifiedGroups,
		Summary:        diff.Summarize(req.ChangeKind, result.Stats),
	})
}

func requestID(c fiber.Ctx) (int64, error) {
	return strconv.ParseInt(c.Params("id"), 10, 64)
}

func listLimit(c fiber.Ctx) int {
	limit, err := strconv.Atoi(c.Query("limit", ""))
	if err != nil || limit <= 0 || limit > 500 {
		return defaultListLimit
	}
	return limit
}

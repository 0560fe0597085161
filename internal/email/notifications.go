package email

import (
	"context"
	"log"

	"github.com/google/uuid"

	"redline/internal/config"
	"redline/internal/models"
)

// UserGetter is the subset of the store the notifier needs.
type UserGetter interface {
	GetUserByID(ctx context.Context, userID uuid.UUID) (*models.User, error)
}

// Notifier sends email notifications for approval events.
type Notifier struct {
	service   *Service
	templates *Templates
	db        UserGetter
}

// NewNotifier creates a new email notifier.
func NewNotifier(cfg *config.Config, db UserGetter) *Notifier {
	return &Notifier{
		service:   NewService(cfg),
		templates: NewTemplates(cfg),
		db:        db,
	}
}

// NotifyRequestDecided notifies the request owner of a human decision.
func (n *Notifier) NotifyRequestDecided(ctx context.Context, req *models.ApprovalRequest) {
	if !n.service.IsEnabled() {
		return
	}

	owner, err := n.db.GetUserByID(ctx, req.OwnerID)
	if err != nil {
		log.Printf("Failed to look up request owner for notification: %v", err)
		return
	}
	if owner.Email == "" {
		return
	}

	subject, htmlBody, textBody := n.templates.RequestDecided(req)
	n.service.SendAsync([]string{owner.Email}, subject, htmlBody, textBody)
}

// NotifyRequestAutoApproved notifies the request owner of a rule match.
func (n *Notifier) NotifyRequestAutoApproved(ctx context.Context, req *models.ApprovalRequest) {
	if !n.service.IsEnabled() {
		return
	}

	owner, err := n.db.GetUserByID(ctx, req.OwnerID)
	if err != nil {
		log.Printf("Failed to look up request owner for notification: %v", err)
		return
	}
	if owner.Email == "" {
		return
	}

	subject, htmlBody, textBody := n.templates.RequestAutoApproved(req)
	n.service.SendAsync([]string{owner.Email}, subject, htmlBody, textBody)
}

package email

import (
	"fmt"
	"html"

	"redline/internal/config"
	"redline/internal/models"
)

// Templates provides email template generation.
type Templates struct {
	cfg *config.Config
}

// NewTemplates creates a new templates instance.
func NewTemplates(cfg *config.Config) *Templates {
	return &Templates{cfg: cfg}
}

// baseHTML wraps content in a consistent HTML email template.
func (t *Templates) baseHTML(title, content string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <title>%s</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: #b91c1c; color: white; padding: 20px; text-align: center; border-radius: 8px 8px 0 0; }
        .content { background: #f9fafb; padding: 20px; border: 1px solid #e5e7eb; }
        .footer { background: #f3f4f6; padding: 15px; text-align: center; font-size: 12px; color: #6b7280; }
        .info-box { background: white; border: 1px solid #e5e7eb; border-radius: 6px; padding: 15px; margin: 15px 0; }
        .label { font-weight: 600; color: #374151; }
    </style>
</head>
<body>
    <div class="header"><h1>%s</h1></div>
    <div class="content">%s</div>
    <div class="footer">Redline document change review</div>
</body>
</html>`, html.EscapeString(title), html.EscapeString(title), content)
}

// RequestDecided builds the notification for a human decision on a request.
func (t *Templates) RequestDecided(req *models.ApprovalRequest) (subject, htmlBody, textBody string) {
	verb := "rejected"
	if req.Status == models.StatusApproved {
		verb = "approved and applied"
	}

	subject = fmt.Sprintf("Change request #%d %s", req.ID, verb)

	content := fmt.Sprintf(`
        <p>Your proposed change <strong>%s</strong> was %s.</p>
        <div class="info-box">
            <p><span class="label">Change kind:</span> %s</p>
            <p><span class="label">Document:</span> %s</p>
        </div>`,
		html.EscapeString(req.Title), verb,
		html.EscapeString(req.ChangeKind), req.DocumentID)
	htmlBody = t.baseHTML(subject, content)

	textBody = fmt.Sprintf("Your proposed change %q was %s.\nChange kind: %s\nDocument: %s\n",
		req.Title, verb, req.ChangeKind, req.DocumentID)
	return subject, htmlBody, textBody
}

// RequestAutoApproved builds the notification for a rule-matched request.
func (t *Templates) RequestAutoApproved(req *models.ApprovalRequest) (subject, htmlBody, textBody string) {
	subject = fmt.Sprintf("Change request #%d auto-approved", req.ID)

	content := fmt.Sprintf(`
        <p>Your proposed change <strong>%s</strong> matched one of your
        auto-approval templates and was applied without review.</p>
        <div class="info-box">
            <p><span class="label">Change kind:</span> %s</p>
            <p><span class="label">Document:</span> %s</p>
        </div>`,
		html.EscapeString(req.Title),
		html.EscapeString(req.ChangeKind), req.DocumentID)
	htmlBody = t.baseHTML(subject, content)

	textBody = fmt.Sprintf("Your proposed change %q matched one of your auto-approval templates and was applied without review.\n",
		req.Title)
	return subject, htmlBody, textBody
}

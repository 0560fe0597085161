package db

import "errors"

// Domain-level database error sentinels.
var (
	// User errors
	ErrUserNotFound = errors.New("user not found")

	// Document errors
	ErrDocumentNotFound = errors.New("document not found")

	// Approval request errors
	ErrRequestNotFound   = errors.New("approval request not found")
	ErrAlreadyProcessed  = errors.New("approval request has already been processed")
	ErrInvalidDecision   = errors.New("decision must be approved or rejected")
	ErrApplicationFailed = errors.New("change application failed")

	// Version errors
	ErrVersionNotFound  = errors.New("document version not found")
	ErrDuplicateContent = errors.New("content snapshot already exists for another document")

	// Template errors
	ErrTemplateNotFound = errors.New("approval template not found")
)

package domain

import (
	"context"
	"errors"
	"strings"
)

// ContactSubmission represents a contact form submission. It is never persisted.
type ContactSubmission struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,contact_email"`
	Phone   string `json:"phone"`
	Purpose string `json:"purpose" validate:"required"`
}

// Normalize trims surrounding whitespace. Line breaks inside Purpose are kept.
func (s *ContactSubmission) Normalize() {
	s.Name = strings.TrimSpace(s.Name)
	s.Email = strings.TrimSpace(s.Email)
	s.Phone = strings.TrimSpace(s.Phone)
	s.Purpose = strings.TrimSpace(s.Purpose)
}

// Contact pipeline failures. Handlers map each one to a distinct HTTP status.
var (
	ErrMalformedRequest  = errors.New("malformed request body")
	ErrMissingFields     = errors.New("missing required fields")
	ErrInvalidEmail      = errors.New("invalid email format")
	ErrMailNotConfigured = errors.New("email service is not configured")
	ErrRelayUnreachable  = errors.New("cannot reach mail relay")
	ErrSendFailed        = errors.New("mail relay rejected the message")
)

// ContactUsecase defines the interface for contact form operations
type ContactUsecase interface {
	// SendContactMessage validates the submission and emails it to the site owner
	SendContactMessage(ctx context.Context, req *ContactSubmission) error
}

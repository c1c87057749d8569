package usecase

import (
	"context"
	"fmt"

	"portfolio-backend/internal/domain"
	"portfolio-backend/pkg/email"
	"portfolio-backend/pkg/logger"
	"portfolio-backend/pkg/security"
	"portfolio-backend/pkg/validation"

	"github.com/go-playground/validator/v10"
)

type contactUsecase struct {
	relay    email.Relay
	config   email.Config
	validate *validator.Validate
	audit    *security.SecurityLogger
}

// NewContactUsecase creates a new contact usecase. validate must have the
// contact validators registered (see validation.New).
func NewContactUsecase(relay email.Relay, cfg email.Config, validate *validator.Validate, audit *security.SecurityLogger) domain.ContactUsecase {
	if audit == nil {
		audit = security.DefaultLogger()
	}
	return &contactUsecase{
		relay:    relay,
		config:   cfg,
		validate: validate,
		audit:    audit,
	}
}

// SendContactMessage validates the submission, then opens one relay session,
// verifies it, sends a single message and releases the session. Delivery is
// at-most-once: nothing is retried or persisted.
func (uc *contactUsecase) SendContactMessage(ctx context.Context, req *domain.ContactSubmission) error {
	if req == nil {
		return domain.ErrMalformedRequest
	}
	req.Normalize()

	if err := uc.validate.Struct(req); err != nil {
		switch {
		case validation.HasTag(err, "required"):
			uc.audit.LogContactRejected(ctx, req.Email, "missing_fields")
			return fmt.Errorf("%w: %v", domain.ErrMissingFields, validation.FormatValidationErrors(err))
		case validation.HasTag(err, "contact_email"):
			uc.audit.LogContactRejected(ctx, req.Email, "invalid_email")
			return domain.ErrInvalidEmail
		default:
			return fmt.Errorf("validate contact submission: %w", err)
		}
	}

	if !uc.config.Configured() {
		logger.Log.Error("SMTP credentials not configured")
		return domain.ErrMailNotConfigured
	}

	session, err := uc.relay.NewSession()
	if err != nil {
		logger.Log.Error("SMTP session setup failed", "error", err)
		uc.audit.LogRelayFailure(ctx, "open", err)
		return fmt.Errorf("%w: %w", domain.ErrRelayUnreachable, err)
	}
	defer func() {
		if cerr := session.Close(); cerr != nil {
			logger.Log.Warn("SMTP session close failed", "error", cerr)
		}
	}()

	if err := session.Verify(ctx); err != nil {
		logger.Log.Error("SMTP transporter verify failed", "error", err, "host", uc.config.Host, "port", uc.config.Port)
		uc.audit.LogRelayFailure(ctx, "verify", err)
		return fmt.Errorf("%w: %w", domain.ErrRelayUnreachable, err)
	}

	msg, err := email.NewContactMessage(uc.config, email.ContactEmailData{
		SenderName:  req.Name,
		SenderEmail: req.Email,
		Phone:       req.Phone,
		Message:     req.Purpose,
	})
	if err != nil {
		return fmt.Errorf("build contact email: %w", err)
	}

	if err := session.Send(ctx, msg); err != nil {
		logger.Log.Error("Failed to send contact email via SMTP", "error", err)
		uc.audit.LogRelayFailure(ctx, "send", err)
		return fmt.Errorf("%w: %w", domain.ErrSendFailed, err)
	}

	uc.audit.LogContactSubmitted(ctx, req.Email)
	logger.Log.Info("Contact message sent", "to", msg.To)
	return nil
}

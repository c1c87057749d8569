package v1

import (
	"errors"
	"net/http"

	"portfolio-backend/internal/delivery/http/response"
	"portfolio-backend/internal/domain"
	"portfolio-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

// maxContactBodyBytes caps the JSON body; a contact message is a few KB at most.
const maxContactBodyBytes = 64 << 10

// Client-facing messages for each contact outcome.
const (
	MsgContactSent       = "Message sent successfully"
	MsgInvalidBody       = "Invalid request body"
	MsgMissingFields     = "Missing required fields"
	MsgInvalidEmail      = "Invalid email format"
	MsgMailNotConfigured = "Email service is not configured on the server"
	MsgRelayUnreachable  = "Unable to connect to email server. Check SMTP configuration."
	MsgSendFailed        = "Failed to send message via email provider"
)

type ContactHandler struct {
	contactUC domain.ContactUsecase
}

// NewContactHandler registers the contact routes (public, no auth required).
// Extra handlers run before SubmitContact, e.g. rate limiting.
func NewContactHandler(public *gin.RouterGroup, contactUC domain.ContactUsecase, mw ...gin.HandlerFunc) {
	handler := &ContactHandler{
		contactUC: contactUC,
	}

	public.POST("/contact", append(mw, handler.SubmitContact)...)
}

// SubmitContact godoc
// @Summary      Submit Contact Form
// @Description  Validates a contact submission and emails it to the site owner. Nothing is stored.
// @Tags         contact
// @Accept       json
// @Produce      json
// @Param        contact  body      domain.ContactSubmission  true  "Contact Form Data"
// @Success      200      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Failure      429      {object}  response.Response
// @Failure      500      {object}  response.Response
// @Failure      502      {object}  response.Response
// @Router       /contact [post]
func (h *ContactHandler) SubmitContact(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxContactBodyBytes)

	var req domain.ContactSubmission
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(MsgInvalidBody, err))
		return
	}

	if err := h.contactUC.SendContactMessage(c.Request.Context(), &req); err != nil {
		c.Error(contactError(err))
		return
	}

	response.Success(c, http.StatusOK, MsgContactSent, nil)
}

// contactError maps a pipeline failure onto its HTTP status and client message.
// Anything unrecognised is passed through and becomes a 500.
func contactError(err error) error {
	switch {
	case errors.Is(err, domain.ErrMalformedRequest):
		return apperror.BadRequest(MsgInvalidBody, err)
	case errors.Is(err, domain.ErrMissingFields):
		return apperror.BadRequest(MsgMissingFields, err)
	case errors.Is(err, domain.ErrInvalidEmail):
		return apperror.BadRequest(MsgInvalidEmail, err)
	case errors.Is(err, domain.ErrMailNotConfigured):
		return apperror.Internal(MsgMailNotConfigured, err)
	case errors.Is(err, domain.ErrRelayUnreachable):
		return apperror.BadGateway(MsgRelayUnreachable, err)
	case errors.Is(err, domain.ErrSendFailed):
		return apperror.BadGateway(MsgSendFailed, err)
	default:
		return err
	}
}

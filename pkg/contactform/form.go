// Package contactform holds the client side of the contact pipeline: a draft
// the user edits, a submit-state machine and the single POST that delivers
// the draft to the mail dispatch endpoint.
//
// State moves idle -> pending -> success|error. A failed submission keeps the
// draft so the user can resubmit it; a successful one clears it. While a
// submission is pending further submits are refused, which is the only
// duplicate protection: there is no retry, cancellation or dedup key.
package contactform

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"portfolio-backend/pkg/validation"

	"github.com/go-playground/validator/v10"
)

// State is the submit state shown to the user.
type State int

const (
	StateIdle State = iota
	StatePending
	StateSuccess
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePending:
		return "pending"
	case StateSuccess:
		return "success"
	case StateError:
		return "error"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Field names a draft input. Values match the JSON keys of the request body.
type Field string

const (
	FieldName    Field = "name"
	FieldEmail   Field = "email"
	FieldPhone   Field = "phone"
	FieldPurpose Field = "purpose"
)

// Draft is the in-progress form content. It is also the request body.
type Draft struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,contact_email"`
	Phone   string `json:"phone"`
	Purpose string `json:"purpose" validate:"required"`
}

const (
	successMessage = "Message sent successfully! I'll get back to you soon."
	errorMessage   = "Something went wrong. Please try again or contact me directly."
)

var (
	// ErrSubmitInFlight is returned by Submit while an earlier submission is pending.
	ErrSubmitInFlight = errors.New("contactform: submission already in flight")
	// ErrInvalidDraft wraps client-side validation failures. No request is sent.
	ErrInvalidDraft = errors.New("contactform: invalid draft")
)

// StatusError is a non-2xx answer from the endpoint. Reason is the server's
// error text, kept for logs and never shown to the user.
type StatusError struct {
	StatusCode int
	Reason     string
}

func (e *StatusError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("contactform: endpoint returned %d", e.StatusCode)
	}
	return fmt.Sprintf("contactform: endpoint returned %d: %s", e.StatusCode, e.Reason)
}

// Doer sends HTTP requests. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

type Option func(*Form)

// WithHTTPClient replaces http.DefaultClient. Its timeout, if any, is the
// only one applied to a submission.
func WithHTTPClient(c Doer) Option {
	return func(f *Form) { f.client = c }
}

func WithLogger(l *slog.Logger) Option {
	return func(f *Form) { f.log = l }
}

// Form owns a draft and its submit state. It is safe for concurrent use.
type Form struct {
	endpoint string
	client   Doer
	log      *slog.Logger
	validate *validator.Validate

	mu      sync.Mutex
	draft   Draft
	state   State
	lastErr error
}

// New returns an idle form with an empty draft that posts to endpoint.
func New(endpoint string, opts ...Option) *Form {
	f := &Form{
		endpoint: endpoint,
		client:   http.DefaultClient,
		log:      slog.Default(),
		validate: validation.New(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// UpdateField sets one draft value. It never validates and never fails;
// unknown fields are ignored. Typing after a success starts a fresh form.
func (f *Form) UpdateField(field Field, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch field {
	case FieldName:
		f.draft.Name = value
	case FieldEmail:
		f.draft.Email = value
	case FieldPhone:
		f.draft.Phone = value
	case FieldPurpose:
		f.draft.Purpose = value
	default:
		return
	}
	if f.state == StateSuccess {
		f.state = StateIdle
		f.lastErr = nil
	}
}

// Validate checks the current draft the way the server will: name, email and
// purpose present after trimming, and email shaped like local@domain.tld.
func (f *Form) Validate() error {
	f.mu.Lock()
	d := f.draft
	f.mu.Unlock()
	return f.check(d)
}

func (f *Form) check(d Draft) error {
	trimmed := Draft{
		Name:    strings.TrimSpace(d.Name),
		Email:   strings.TrimSpace(d.Email),
		Phone:   strings.TrimSpace(d.Phone),
		Purpose: strings.TrimSpace(d.Purpose),
	}
	if err := f.validate.Struct(trimmed); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidDraft, strings.Join(validation.FormatValidationErrors(err), "; "))
	}
	return nil
}

// Submit posts the draft once and returns the resulting state.
//
// While pending it returns ErrSubmitInFlight without touching the network.
// An invalid draft returns ErrInvalidDraft and leaves the state as it was.
// Any non-2xx status or transport failure ends in StateError with the draft
// intact; a 2xx ends in StateSuccess with the draft cleared.
func (f *Form) Submit(ctx context.Context) (State, error) {
	f.mu.Lock()
	if f.state == StatePending {
		f.mu.Unlock()
		return StatePending, ErrSubmitInFlight
	}
	if err := f.check(f.draft); err != nil {
		state := f.state
		f.mu.Unlock()
		return state, err
	}
	payload := f.draft
	f.state = StatePending
	f.lastErr = nil
	f.mu.Unlock()

	err := f.post(ctx, payload)

	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		f.state = StateError
		f.lastErr = err
		f.log.Warn("contact submission failed", "endpoint", f.endpoint, "error", err)
		return f.state, err
	}
	f.state = StateSuccess
	f.draft = Draft{}
	return f.state, nil
}

func (f *Form) post(ctx context.Context, d Draft) error {
	body, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("contactform: encode draft: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("contactform: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return fmt.Errorf("contactform: send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	return &StatusError{StatusCode: resp.StatusCode, Reason: readReason(resp.Body)}
}

// readReason extracts {"error": "..."} from a failure body, if present.
func readReason(r io.Reader) string {
	var body struct {
		Error string `json:"error"`
	}
	raw, err := io.ReadAll(io.LimitReader(r, 4<<10))
	if err != nil || json.Unmarshal(raw, &body) != nil {
		return ""
	}
	return body.Error
}

// State returns the current submit state.
func (f *Form) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Draft returns a copy of the current draft.
func (f *Form) Draft() Draft {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.draft
}

// Err returns the failure behind StateError, or nil.
func (f *Form) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastErr
}

// StatusMessage is the user-facing banner for the current state. It never
// includes server detail.
func (f *Form) StatusMessage() string {
	switch f.State() {
	case StateSuccess:
		return successMessage
	case StateError:
		return errorMessage
	default:
		return ""
	}
}

package usecase_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"portfolio-backend/internal/domain"
	"portfolio-backend/internal/usecase"
	"portfolio-backend/pkg/email"
	"portfolio-backend/pkg/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// Mock relay
type MockRelay struct {
	mock.Mock
}

func (m *MockRelay) NewSession() (email.Session, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(email.Session), args.Error(1)
}

type MockSession struct {
	mock.Mock
}

func (m *MockSession) Verify(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockSession) Send(ctx context.Context, msg *email.Message) error {
	return m.Called(ctx, msg).Error(0)
}

func (m *MockSession) Close() error {
	return m.Called().Error(0)
}

func relayConfig() email.Config {
	return email.Config{
		Host:        "smtp.example.com",
		Port:        587,
		Username:    "relay@example.com",
		Secret:      "app-password",
		Destination: "owner@example.com",
	}
}

func validSubmission() *domain.ContactSubmission {
	return &domain.ContactSubmission{Name: "Jane", Email: "jane@example.com", Phone: "", Purpose: "Hello"}
}

func TestContactValidation(t *testing.T) {
	tests := []struct {
		name    string
		req     *domain.ContactSubmission
		wantErr error
	}{
		{"missing name", &domain.ContactSubmission{Email: "jane@example.com", Purpose: "Hello"}, domain.ErrMissingFields},
		{"missing email", &domain.ContactSubmission{Name: "Jane", Purpose: "Hello"}, domain.ErrMissingFields},
		{"missing purpose", &domain.ContactSubmission{Name: "Jane", Email: "jane@example.com"}, domain.ErrMissingFields},
		{"whitespace only", &domain.ContactSubmission{Name: "  ", Email: "jane@example.com", Purpose: "\n\t"}, domain.ErrMissingFields},
		{"notanemail", &domain.ContactSubmission{Name: "Jane", Email: "notanemail", Purpose: "Hello"}, domain.ErrInvalidEmail},
		{"no tld", &domain.ContactSubmission{Name: "Jane", Email: "a@b", Purpose: "Hello"}, domain.ErrInvalidEmail},
		{"empty domain label", &domain.ContactSubmission{Name: "Jane", Email: "a@.com", Purpose: "Hello"}, domain.ErrInvalidEmail},
		{"comma in local part", &domain.ContactSubmission{Name: "Jane", Email: "jane,doe@example.com", Purpose: "Hello"}, domain.ErrInvalidEmail},
		{"stray angle bracket", &domain.ContactSubmission{Name: "Jane", Email: "jane<x@example.com", Purpose: "Hello"}, domain.ErrInvalidEmail},
		{"no-break space", &domain.ContactSubmission{Name: "Jane", Email: "jane\u00a0doe@example.com", Purpose: "Hello"}, domain.ErrInvalidEmail},
		{"nil submission", nil, domain.ErrMalformedRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			relay := new(MockRelay)
			uc := usecase.NewContactUsecase(relay, relayConfig(), validation.New(), nil)

			err := uc.SendContactMessage(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
			relay.AssertNotCalled(t, "NewSession")
		})
	}
}

func TestContactNotConfigured(t *testing.T) {
	relay := new(MockRelay)
	cfg := relayConfig()
	cfg.Secret = ""
	uc := usecase.NewContactUsecase(relay, cfg, validation.New(), nil)

	err := uc.SendContactMessage(context.Background(), validSubmission())
	assert.ErrorIs(t, err, domain.ErrMailNotConfigured)
	relay.AssertNotCalled(t, "NewSession")
}

func TestContactRelayFailures(t *testing.T) {
	t.Run("session cannot be created", func(t *testing.T) {
		relay := new(MockRelay)
		relay.On("NewSession").Return(nil, errors.New("bad host"))
		uc := usecase.NewContactUsecase(relay, relayConfig(), validation.New(), nil)

		err := uc.SendContactMessage(context.Background(), validSubmission())
		assert.ErrorIs(t, err, domain.ErrRelayUnreachable)
	})

	t.Run("verify fails, send never attempted", func(t *testing.T) {
		session := new(MockSession)
		session.On("Verify", mock.Anything).Return(errors.New("dial tcp: connection refused"))
		session.On("Close").Return(nil)
		relay := new(MockRelay)
		relay.On("NewSession").Return(session, nil)
		uc := usecase.NewContactUsecase(relay, relayConfig(), validation.New(), nil)

		err := uc.SendContactMessage(context.Background(), validSubmission())
		assert.ErrorIs(t, err, domain.ErrRelayUnreachable)
		session.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
		session.AssertCalled(t, "Close")
	})

	t.Run("send fails", func(t *testing.T) {
		session := new(MockSession)
		session.On("Verify", mock.Anything).Return(nil)
		session.On("Send", mock.Anything, mock.Anything).Return(errors.New("554 rejected"))
		session.On("Close").Return(nil)
		relay := new(MockRelay)
		relay.On("NewSession").Return(session, nil)
		uc := usecase.NewContactUsecase(relay, relayConfig(), validation.New(), nil)

		err := uc.SendContactMessage(context.Background(), validSubmission())
		assert.ErrorIs(t, err, domain.ErrSendFailed)
		session.AssertNumberOfCalls(t, "Send", 1)
		session.AssertCalled(t, "Close")
	})
}

func TestContactSendSuccess(t *testing.T) {
	session := new(MockSession)
	session.On("Verify", mock.Anything).Return(nil)
	session.On("Send", mock.Anything, mock.AnythingOfType("*email.Message")).Return(nil)
	session.On("Close").Return(nil)
	relay := new(MockRelay)
	relay.On("NewSession").Return(session, nil).Once()
	uc := usecase.NewContactUsecase(relay, relayConfig(), validation.New(), nil)

	err := uc.SendContactMessage(context.Background(), validSubmission())
	assert.NoError(t, err)

	relay.AssertNumberOfCalls(t, "NewSession", 1)
	session.AssertNumberOfCalls(t, "Send", 1)
	session.AssertCalled(t, "Close")

	msg := session.Calls[1].Arguments.Get(1).(*email.Message)
	assert.Equal(t, "owner@example.com", msg.To)
	assert.Equal(t, "relay@example.com", msg.From)
	assert.Equal(t, "jane@example.com", msg.ReplyTo)
	assert.Contains(t, msg.Subject, "Jane")
}

func TestContactEscapesMarkup(t *testing.T) {
	session := new(MockSession)
	session.On("Verify", mock.Anything).Return(nil)
	session.On("Send", mock.Anything, mock.Anything).Return(nil)
	session.On("Close").Return(nil)
	relay := new(MockRelay)
	relay.On("NewSession").Return(session, nil)
	uc := usecase.NewContactUsecase(relay, relayConfig(), validation.New(), nil)

	req := validSubmission()
	req.Purpose = "<script>alert(1)</script>"
	assert.NoError(t, uc.SendContactMessage(context.Background(), req))

	msg := session.Calls[1].Arguments.Get(1).(*email.Message)
	assert.Contains(t, msg.HTMLBody, "&lt;script&gt;alert(1)&lt;/script&gt;")
	assert.False(t, strings.Contains(msg.HTMLBody, "<script>"))
}

package email

import (
	"context"
	"time"
)

// DefaultDestination receives contact submissions when CONTACT_EMAIL is unset.
const DefaultDestination = "prachisharma.meon@gmail.com"

// Config holds the relay settings injected into the mail dispatch service.
type Config struct {
	Host        string
	Port        int
	Username    string
	Secret      string
	From        string // Optional, the SMTP login is used when empty
	Destination string
	Timeout     time.Duration // Zero keeps the transport default
}

// Configured reports whether relay credentials are present.
func (c Config) Configured() bool {
	return c.Username != "" && c.Secret != ""
}

// Sender returns the envelope sender address.
func (c Config) Sender() string {
	if c.From != "" {
		return c.From
	}
	return c.Username
}

// Recipient returns the destination mailbox, falling back to DefaultDestination.
func (c Config) Recipient() string {
	if c.Destination != "" {
		return c.Destination
	}
	return DefaultDestination
}

// Message is a fully rendered outbound email.
type Message struct {
	From     string
	ReplyTo  string
	To       string
	Subject  string
	HTMLBody string
	TextBody string
}

// Relay opens transport sessions to the SMTP relay.
type Relay interface {
	NewSession() (Session, error)
}

// Session is a single connection to the relay. Callers must Close it on
// every exit path, including when Verify fails.
type Session interface {
	// Verify dials the relay and authenticates without sending anything.
	Verify(ctx context.Context) error
	// Send delivers msg over the verified connection.
	Send(ctx context.Context, msg *Message) error
	Close() error
}

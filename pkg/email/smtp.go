package email

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"

	"github.com/wneessen/go-mail"
)

var ErrNotVerified = errors.New("smtp session not verified")

// SMTPRelay implements Relay on top of go-mail.
type SMTPRelay struct {
	config Config
}

// NewSMTPRelay creates a relay for the given configuration. It does not dial.
func NewSMTPRelay(cfg Config) *SMTPRelay {
	return &SMTPRelay{config: cfg}
}

// NewSession builds a go-mail client for one request. The connection is
// only opened by Verify.
func (r *SMTPRelay) NewSession() (Session, error) {
	if r.config.Host == "" {
		return nil, fmt.Errorf("smtp host is not configured")
	}
	s := &smtpSession{host: r.config.Host, implicitTLS: r.config.Port == 465}
	opts := append(clientOptions(r.config), mail.WithDialContextFunc(s.dial))
	client, err := mail.NewClient(r.config.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create SMTP client: %w", err)
	}
	s.client = client
	return s, nil
}

type smtpSession struct {
	client      *mail.Client
	host        string
	implicitTLS bool
	// conn is the socket opened by the last dial. go-mail drops it without
	// closing when the handshake after the dial fails.
	conn     net.Conn
	verified bool
}

// dial opens the relay socket and keeps a handle on it so Close can always
// release it. Port 465 gets implicit TLS here since a custom dialer replaces
// go-mail's own TLS dialer.
func (s *smtpSession) dial(ctx context.Context, network, address string) (net.Conn, error) {
	netDialer := &net.Dialer{}
	var (
		conn net.Conn
		err  error
	)
	if s.implicitTLS {
		tlsDialer := &tls.Dialer{
			NetDialer: netDialer,
			Config:    &tls.Config{ServerName: s.host, MinVersion: tls.VersionTLS12},
		}
		conn, err = tlsDialer.DialContext(ctx, network, address)
	} else {
		conn, err = netDialer.DialContext(ctx, network, address)
	}
	if err != nil {
		return nil, err
	}
	s.conn = conn
	return conn, nil
}

func (s *smtpSession) Verify(ctx context.Context) error {
	if err := s.client.DialWithContext(ctx); err != nil {
		s.releaseConn()
		return fmt.Errorf("connection failed: %w", err)
	}
	s.verified = true
	return nil
}

func (s *smtpSession) Send(ctx context.Context, msg *Message) error {
	if !s.verified {
		return ErrNotVerified
	}
	m, err := buildMsg(msg)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.client.Send(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func (s *smtpSession) Close() error {
	if !s.verified {
		s.releaseConn()
		return nil
	}
	s.verified = false
	err := s.client.Close()
	s.releaseConn()
	return err
}

// releaseConn closes the raw socket. Closing one that QUIT already shut is harmless.
func (s *smtpSession) releaseConn() {
	if s.conn == nil {
		return
	}
	_ = s.conn.Close()
	s.conn = nil
}

func buildMsg(msg *Message) (*mail.Msg, error) {
	m := mail.NewMsg()
	if err := m.From(msg.From); err != nil {
		return nil, fmt.Errorf("invalid from address: %w", err)
	}
	if err := m.To(msg.To); err != nil {
		return nil, fmt.Errorf("invalid to address: %w", err)
	}
	if msg.ReplyTo != "" {
		if err := m.ReplyTo(msg.ReplyTo); err != nil {
			return nil, fmt.Errorf("invalid reply-to address: %w", err)
		}
	}
	m.Subject(msg.Subject)

	if msg.TextBody != "" {
		m.SetBodyString(mail.TypeTextPlain, msg.TextBody)
		m.AddAlternativeString(mail.TypeTextHTML, msg.HTMLBody)
	} else {
		m.SetBodyString(mail.TypeTextHTML, msg.HTMLBody)
	}
	return m, nil
}

// clientOptions picks the TLS mode from the port: 465 is implicit TLS,
// 587 requires STARTTLS, anything else upgrades opportunistically.
func clientOptions(cfg Config) []mail.Option {
	opts := []mail.Option{mail.WithPort(cfg.Port)}
	if cfg.Timeout > 0 {
		opts = append(opts, mail.WithTimeout(cfg.Timeout))
	}

	switch cfg.Port {
	case 465:
		opts = append(opts, mail.WithSSL())
	case 587:
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
	default:
		opts = append(opts, mail.WithTLSPolicy(mail.TLSOpportunistic))
	}

	if cfg.Configured() {
		opts = append(opts,
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Secret),
			mail.WithSMTPAuth(mail.SMTPAuthAutoDiscover),
		)
	}
	return opts
}

// TestConnection opens and verifies a session, then releases it.
func TestConnection(ctx context.Context, relay Relay) error {
	session, err := relay.NewSession()
	if err != nil {
		return err
	}
	defer session.Close()
	return session.Verify(ctx)
}

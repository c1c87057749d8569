package email

import (
	"bufio"
	"io"
	"net"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSMTP is a single-connection SMTP peer on loopback. It never offers
// STARTTLS, so sessions on its port run in opportunistic mode.
type fakeSMTP struct {
	ln         net.Listener
	extensions []string
	rejectData bool
	closed     chan struct{}

	mu    sync.Mutex
	rcpts []string
	data  string
}

func startFakeSMTP(t *testing.T, extensions []string, rejectData bool) *fakeSMTP {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	f := &fakeSMTP{ln: ln, extensions: extensions, rejectData: rejectData, closed: make(chan struct{})}
	go f.serve()
	t.Cleanup(func() { _ = ln.Close() })
	return f
}

func (f *fakeSMTP) config(withAuth bool) Config {
	cfg := Config{
		Host:        "127.0.0.1",
		Port:        f.ln.Addr().(*net.TCPAddr).Port,
		Destination: "owner@example.com",
		Timeout:     5 * time.Second,
	}
	if withAuth {
		cfg.Username = "relay@example.com"
		cfg.Secret = "app-password"
	}
	return cfg
}

func (f *fakeSMTP) serve() {
	conn, err := f.ln.Accept()
	if err != nil {
		return
	}
	defer close(f.closed)
	defer conn.Close()

	r := bufio.NewReader(conn)
	reply := func(s string) { _, _ = io.WriteString(conn, s+"\r\n") }
	reply("220 fake.test ESMTP")

	for {
		line, err := r.ReadString('\n')
		if err != nil {
			return
		}
		line = strings.TrimRight(line, "\r\n")
		cmd := strings.ToUpper(line)

		switch {
		case strings.HasPrefix(cmd, "EHLO"):
			lines := append([]string{"fake.test"}, f.extensions...)
			for i, l := range lines {
				sep := "-"
				if i == len(lines)-1 {
					sep = " "
				}
				reply("250" + sep + l)
			}
		case strings.HasPrefix(cmd, "RCPT TO:"):
			f.mu.Lock()
			f.rcpts = append(f.rcpts, line[len("RCPT TO:"):])
			f.mu.Unlock()
			reply("250 OK")
		case cmd == "DATA":
			reply("354 End data with <CR><LF>.<CR><LF>")
			var body strings.Builder
			for {
				l, err := r.ReadString('\n')
				if err != nil {
					return
				}
				if l == ".\r\n" {
					break
				}
				body.WriteString(l)
			}
			f.mu.Lock()
			f.data = body.String()
			f.mu.Unlock()
			if f.rejectData {
				reply("554 5.7.1 Message rejected")
			} else {
				reply("250 OK queued")
			}
		case cmd == "QUIT":
			reply("221 Bye")
			return
		case strings.HasPrefix(cmd, "HELO"), strings.HasPrefix(cmd, "MAIL FROM:"),
			cmd == "NOOP", cmd == "RSET":
			reply("250 OK")
		default:
			reply("502 Command not implemented")
		}
	}
}

func (f *fakeSMTP) waitClosed(t *testing.T) {
	t.Helper()
	select {
	case <-f.closed:
	case <-time.After(2 * time.Second):
		t.Fatal("relay connection was not released")
	}
}

func contactMessage() *Message {
	return &Message{
		From:     "relay@example.com",
		To:       "owner@example.com",
		ReplyTo:  "jane@example.com",
		Subject:  "New Contact Form Submission from Jane",
		HTMLBody: "<p>Hello</p>",
		TextBody: "Hello",
	}
}

func TestSMTPSessionDelivers(t *testing.T) {
	relay := startFakeSMTP(t, []string{"HELP"}, false)

	session, err := NewSMTPRelay(relay.config(false)).NewSession()
	require.NoError(t, err)
	require.NoError(t, session.Verify(testContext(t)))
	require.NoError(t, session.Send(testContext(t), contactMessage()))
	require.NoError(t, session.Close())
	relay.waitClosed(t)

	relay.mu.Lock()
	defer relay.mu.Unlock()
	require.Len(t, relay.rcpts, 1)
	assert.Contains(t, relay.rcpts[0], "owner@example.com")
	assert.Contains(t, relay.data, "Subject: New Contact Form Submission from Jane")
	assert.Contains(t, relay.data, "Reply-To:")
	assert.Contains(t, relay.data, "jane@example.com")
	assert.Contains(t, relay.data, "relay@example.com")
}

func TestSMTPSessionVerifyFailureReleasesConnection(t *testing.T) {
	// Credentials are configured but the relay offers no AUTH, so the
	// handshake fails after the socket is already open.
	relay := startFakeSMTP(t, []string{"HELP"}, false)

	session, err := NewSMTPRelay(relay.config(true)).NewSession()
	require.NoError(t, err)

	err = session.Verify(testContext(t))
	require.Error(t, err)
	assert.NoError(t, session.Close())
	relay.waitClosed(t)
}

func TestSMTPSessionSendRejected(t *testing.T) {
	relay := startFakeSMTP(t, []string{"HELP"}, true)

	session, err := NewSMTPRelay(relay.config(false)).NewSession()
	require.NoError(t, err)
	require.NoError(t, session.Verify(testContext(t)))

	assert.Error(t, session.Send(testContext(t), contactMessage()))
	assert.NoError(t, session.Close())
	relay.waitClosed(t)
}

func TestTestConnectionReleasesOnFailure(t *testing.T) {
	relay := startFakeSMTP(t, []string{"HELP"}, false)

	err := TestConnection(testContext(t), NewSMTPRelay(relay.config(true)))
	require.Error(t, err)
	relay.waitClosed(t)
}

func TestSMTPSessionVerifyUnreachable(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	require.NoError(t, ln.Close())

	session, err := NewSMTPRelay(Config{Host: "127.0.0.1", Port: port, Timeout: time.Second}).NewSession()
	require.NoError(t, err)
	assert.Error(t, session.Verify(testContext(t)))
	assert.NoError(t, session.Close())
}

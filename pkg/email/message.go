package email

import (
	"bytes"
	"fmt"
	"html"
	"html/template"
	"strings"
)

// ContactEmailData holds the submitter-supplied fields of a contact form
type ContactEmailData struct {
	SenderName  string
	SenderEmail string
	Phone       string
	Message     string
}

// contactView is what the template sees. Every field is escaped before it
// gets here, so the template must not escape again.
type contactView struct {
	Name    template.HTML
	Email   template.HTML
	Phone   template.HTML
	Message template.HTML
}

const phoneNotProvided = "Not provided"

// contactEmailTemplate is the HTML template for contact form emails
const contactEmailTemplate = `<!doctype html>
<html>
<head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width,initial-scale=1" />
    <title>Contact Submission</title>
</head>
<body style="font-family: system-ui, -apple-system, 'Segoe UI', Roboto, Arial, sans-serif; color: #111;">
    <h2>New Contact Form Submission</h2>
    <p><strong>Name:</strong> {{.Name}}</p>
    <p><strong>Email:</strong> {{.Email}}</p>
    <p><strong>Phone:</strong> {{.Phone}}</p>
    <p><strong>Message:</strong></p>
    <div>{{.Message}}</div>
    <hr />
    <p><small>This message was sent from your portfolio contact form.</small></p>
</body>
</html>`

const contactTextTemplate = `New Contact Form Submission

Name: %s
Email: %s
Phone: %s

Message:
%s

This message was sent from your portfolio contact form.
`

var contactTmpl = template.Must(template.New("contact").Parse(contactEmailTemplate))

// NewContactMessage renders the outbound message for a contact submission.
// The sender is the relay account, Reply-To is the submitter.
func NewContactMessage(cfg Config, data ContactEmailData) (*Message, error) {
	phone := data.Phone
	if strings.TrimSpace(phone) == "" {
		phone = phoneNotProvided
	}

	view := contactView{
		Name:    template.HTML(EscapeHTML(data.SenderName)),
		Email:   template.HTML(EscapeHTML(data.SenderEmail)),
		Phone:   template.HTML(EscapeHTML(phone)),
		Message: template.HTML(lineBreaks(EscapeHTML(data.Message))),
	}

	var body bytes.Buffer
	if err := contactTmpl.Execute(&body, view); err != nil {
		return nil, fmt.Errorf("failed to execute email template: %w", err)
	}

	return &Message{
		From:     cfg.Sender(),
		ReplyTo:  data.SenderEmail,
		To:       cfg.Recipient(),
		Subject:  ContactSubject(data.SenderName),
		HTMLBody: body.String(),
		TextBody: fmt.Sprintf(contactTextTemplate, data.SenderName, data.SenderEmail, phone, data.Message),
	}, nil
}

// ContactSubject builds a single-line subject naming the submitter.
func ContactSubject(name string) string {
	name = strings.Join(strings.Fields(name), " ")
	return "New Contact Form Submission from " + name
}

// EscapeHTML neutralises markup in user input.
func EscapeHTML(s string) string {
	return html.EscapeString(s)
}

func lineBreaks(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\n", "<br>")
}

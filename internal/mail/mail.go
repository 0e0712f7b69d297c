// Package mail renders views into localized mail messages and hands them to
// a transport.
//
// There is no mail library in the stack; delivery goes through a one-method
// Sender so tests and alternate transports can swap it out, with net/smtp as
// the default.
package mail

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"

	"github.com/skdb/formkit/internal/render"
)

// EmailLayout is the layout mail bodies render inside.
const EmailLayout = "layout/email"

// Sender delivers a fully assembled message to one recipient.
type Sender interface {
	Send(to string, msg []byte) error
}

// SMTPSender delivers through a plain SMTP relay.
type SMTPSender struct {
	Addr string // relay, host:port
	From string
}

// Send implements Sender.
func (s *SMTPSender) Send(to string, msg []byte) error {
	if err := smtp.SendMail(s.Addr, nil, s.From, []string{to}, msg); err != nil {
		return fmt.Errorf("mail: send to %s: %w", to, err)
	}
	return nil
}

// Subject is a per-language subject line with English fallback. Keys are
// compared case-insensitively.
type Subject map[string]string

// ForLanguage picks the subject for a language code, falling back to "en".
func (s Subject) ForLanguage(code string) string {
	code = strings.ToLower(code)
	lowered := make(map[string]string, len(s))
	for k, v := range s {
		lowered[strings.ToLower(k)] = v
	}
	if v, ok := lowered[code]; ok {
		return v
	}
	return lowered["en"]
}

// Auditor records sent mail. May be nil when auditing is off.
type Auditor interface {
	LogActionByCategory(ctx context.Context, category, message string, subject any) error
}

// Recipient is a resolved mail target.
type Recipient struct {
	Email    string
	Language string
}

// UserDirectory resolves user ids to recipients. Consumed, not implemented
// here.
type UserDirectory interface {
	UserByID(ctx context.Context, id int) (Recipient, error)
}

// Mailer renders view-based mail.
type Mailer struct {
	renderer *render.Renderer
	sender   Sender
	users    UserDirectory
	audit    Auditor
	from     string
	host     string // absolute application host, for links inside mail bodies
}

// NewMailer wires a mailer. users and audit may be nil.
func NewMailer(renderer *render.Renderer, sender Sender, users UserDirectory, audit Auditor, from, host string) *Mailer {
	return &Mailer{renderer: renderer, sender: sender, users: users, audit: audit, from: from, host: host}
}

// Send renders documentID in the given language and mails it. The language
// override is forced onto the render call so the recipient's language wins
// over any session state. Failure comes back as an error, never a panic.
func (m *Mailer) Send(ctx context.Context, to string, subject Subject, documentID, langCode string, opt *render.Options, layoutID string) error {
	if opt == nil {
		opt = &render.Options{}
	}
	langCode = strings.ToLower(langCode)
	opt.OverrideLang = langCode
	opt.Set("application_root", m.host)

	if layoutID == "" {
		layoutID = EmailLayout
	}

	var body bytes.Buffer
	if err := m.renderer.Render(ctx, &body, documentID, opt, layoutID); err != nil {
		return fmt.Errorf("mail: render %s: %w", documentID, err)
	}

	msg := assembleMessage(m.from, to, subject.ForLanguage(langCode), body.Bytes())
	if err := m.sender.Send(to, msg); err != nil {
		return err
	}
	m.logSent(ctx, to, documentID)
	return nil
}

// logSent records a delivered message. Audit failures do not fail the send;
// the message is already out.
func (m *Mailer) logSent(ctx context.Context, to, documentID string) {
	if m.audit == nil {
		return
	}
	msg := fmt.Sprintf("Email sent (To: %s, Document: %s)", to, documentID)
	if err := m.audit.LogActionByCategory(ctx, "mail", msg, to); err != nil {
		slog.Warn("mail audit failed", "to", to, "error", err)
	}
}

// SendToUser resolves the target's address and stored language first.
func (m *Mailer) SendToUser(ctx context.Context, userID int, subject Subject, documentID string, opt *render.Options, layoutID string) error {
	if m.users == nil {
		return fmt.Errorf("mail: no user directory configured")
	}
	target, err := m.users.UserByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("mail: resolve user %d: %w", userID, err)
	}
	return m.Send(ctx, target.Email, subject, documentID, target.Language, opt, layoutID)
}

// assembleMessage builds the full RFC 822 message. The subject is base64
// encoded so non-ASCII survives every relay.
func assembleMessage(from, to, subject string, body []byte) []byte {
	var sb strings.Builder
	sb.WriteString("MIME-Version: 1.0\r\n")
	sb.WriteString("Content-Type: text/html; charset=utf-8\r\n")
	fmt.Fprintf(&sb, "From: SKDB <%s>\r\n", from)
	fmt.Fprintf(&sb, "To: %s\r\n", to)
	fmt.Fprintf(&sb, "Subject: %s\r\n", encodeSubject(subject))
	sb.WriteString("\r\n")
	sb.Write(body)
	return []byte(sb.String())
}

// encodeSubject wraps a subject line in RFC 2047 base64 encoding.
func encodeSubject(subject string) string {
	return "=?utf-8?b?" + base64.StdEncoding.EncodeToString([]byte(subject)) + "?="
}

package emailsend

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/smtp"
	"strings"
	"time"

	"advocacy-workers/internal/common/errors"
	"advocacy-workers/internal/common/logger"
)

// Service delivers outreach email over SMTP. It owns the whole path from
// envelope validation to the wire; the handler above it only parses job
// variables and reports the result back to the broker.
type Service struct {
	config *Config
	logger logger.Logger
}

func NewService(deps ServiceDependencies, config *Config) *Service {
	return &Service{
		config: config,
		logger: deps.Logger,
	}
}

// Execute validates the envelope, renders the message, and hands it to the
// SMTP server. Validation failures are business errors and never retried;
// transport failures are retryable.
func (s *Service) Execute(ctx context.Context, input *Input) (*Output, error) {
	if input.From == "" {
		input.From = s.config.DefaultFrom
	}

	s.logger.Info("Sending reference call email", map[string]interface{}{
		"to":            input.To,
		"subject":       input.Subject,
		"outreachId":    input.OutreachID,
		"opportunityId": input.OpportunityID,
		"isHtml":        input.IsHTML,
	})

	if err := s.validateEmailAddresses(input); err != nil {
		return nil, &errors.StandardError{
			Code:      "VALIDATION_FAILED",
			Message:   "Email validation failed",
			Details:   err.Error(),
			Retryable: false,
			Timestamp: time.Now(),
		}
	}

	message := s.buildEmailMessage(input)

	if err := s.sendSMTP(ctx, input, message); err != nil {
		return nil, &errors.StandardError{
			Code:      "SMTP_ERROR",
			Message:   "Failed to send email via SMTP",
			Details:   err.Error(),
			Retryable: true,
			Timestamp: time.Now(),
		}
	}

	messageID := s.generateMessageID(input)

	s.logger.Info("Reference call email sent", map[string]interface{}{
		"to":         input.To,
		"messageId":  messageID,
		"outreachId": input.OutreachID,
	})

	return &Output{
		Success:   true,
		Message:   "Email sent successfully",
		MessageID: messageID,
		Provider:  "SMTP",
		SentAt:    time.Now(),
	}, nil
}

// validateEmailAddresses checks every address on the envelope before any
// SMTP traffic. The checks are structural only; whether the mailbox exists
// is the receiving server's problem.
func (s *Service) validateEmailAddresses(input *Input) error {
	if !isValidEmail(input.To) {
		return fmt.Errorf("invalid 'to' email address: %s", input.To)
	}
	if !isValidEmail(input.From) {
		return fmt.Errorf("invalid 'from' email address: %s", input.From)
	}

	for _, addr := range splitAddresses(input.CC) {
		if !isValidEmail(addr) {
			return fmt.Errorf("invalid 'cc' email address: %s", addr)
		}
	}
	for _, addr := range splitAddresses(input.BCC) {
		if !isValidEmail(addr) {
			return fmt.Errorf("invalid 'bcc' email address: %s", addr)
		}
	}

	if input.ReplyTo != "" && !isValidEmail(input.ReplyTo) {
		return fmt.Errorf("invalid 'replyTo' email address: %s", input.ReplyTo)
	}

	return nil
}

// splitAddresses turns a comma-separated recipient list into trimmed
// individual addresses. An empty list yields nil.
func splitAddresses(list string) []string {
	if list == "" {
		return nil
	}
	parts := strings.Split(list, ",")
	addrs := make([]string, 0, len(parts))
	for _, p := range parts {
		addrs = append(addrs, strings.TrimSpace(p))
	}
	return addrs
}

// isValidEmail accepts exactly one @ with a non-empty local part and a
// dotted domain.
func isValidEmail(email string) bool {
	local, domain, ok := strings.Cut(strings.TrimSpace(email), "@")
	if !ok || local == "" || domain == "" {
		return false
	}
	return strings.Contains(domain, ".") && !strings.Contains(domain, "@")
}

// buildEmailMessage renders the header block and body. Bcc recipients are
// deliberately absent from the headers; they only ride the SMTP envelope.
func (s *Service) buildEmailMessage(input *Input) string {
	var b strings.Builder

	writeHeader(&b, "From", input.From)
	writeHeader(&b, "To", input.To)

	if input.CC != "" {
		writeHeader(&b, "Cc", input.CC)
	}
	if input.ReplyTo != "" {
		writeHeader(&b, "Reply-To", input.ReplyTo)
	}

	writeHeader(&b, "Subject", input.Subject)

	// Replies carry these back, letting inbound mail be matched to the
	// outreach record without parsing the body.
	if input.OutreachID != "" {
		writeHeader(&b, "X-Outreach-ID", input.OutreachID)
	}
	if input.OpportunityID != "" {
		writeHeader(&b, "X-Opportunity-ID", input.OpportunityID)
	}

	if input.Priority != "" {
		switch strings.ToLower(input.Priority) {
		case "high":
			writeHeader(&b, "X-Priority", "1")
			writeHeader(&b, "Importance", "high")
		case "low":
			writeHeader(&b, "X-Priority", "5")
			writeHeader(&b, "Importance", "low")
		default:
			writeHeader(&b, "X-Priority", "3")
		}
	}

	writeHeader(&b, "MIME-Version", "1.0")
	if input.IsHTML {
		writeHeader(&b, "Content-Type", "text/html; charset=UTF-8")
	} else {
		writeHeader(&b, "Content-Type", "text/plain; charset=UTF-8")
	}

	b.WriteString("\r\n")
	b.WriteString(input.Body)

	return b.String()
}

func writeHeader(b *strings.Builder, name, value string) {
	b.WriteString(name)
	b.WriteString(": ")
	b.WriteString(value)
	b.WriteString("\r\n")
}

func (s *Service) sendSMTP(ctx context.Context, input *Input, message string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context cancelled before sending email: %w", err)
	}

	// The envelope carries everyone, including the blind recipients the
	// headers never mention.
	recipients := append([]string{input.To}, splitAddresses(input.CC)...)
	recipients = append(recipients, splitAddresses(input.BCC)...)

	addr := fmt.Sprintf("%s:%d", s.config.SMTPHost, s.config.SMTPPort)

	var auth smtp.Auth
	if s.config.SMTPUsername != "" && s.config.SMTPPassword != "" {
		auth = smtp.PlainAuth("", s.config.SMTPUsername, s.config.SMTPPassword, s.config.SMTPHost)
	}

	if s.config.UseTLS {
		return s.sendWithTLS(addr, auth, input.From, recipients, []byte(message))
	}
	return smtp.SendMail(addr, auth, input.From, recipients, []byte(message))
}

// sendWithTLS forces a STARTTLS upgrade before AUTH and fails if the server
// cannot provide it, unlike smtp.SendMail which treats TLS as optional.
func (s *Service) sendWithTLS(addr string, auth smtp.Auth, from string, to []string, msg []byte) error {
	client, err := smtp.Dial(addr)
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer client.Close()

	if err := client.StartTLS(&tls.Config{ServerName: s.config.SMTPHost}); err != nil {
		return fmt.Errorf("failed to start TLS: %w", err)
	}

	if auth != nil {
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("SMTP authentication failed: %w", err)
		}
	}

	if err := client.Mail(from); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	for _, rcpt := range to {
		if err := client.Rcpt(rcpt); err != nil {
			return fmt.Errorf("failed to set recipient %s: %w", rcpt, err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to open data writer: %w", err)
	}
	if _, err := w.Write(msg); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}

	return client.Quit()
}

// generateMessageID builds the identifier reported back on the job output.
// Outreach-tagged mail embeds the outreach id so the id alone is enough to
// find the record; otherwise the recipient's local part stands in.
func (s *Service) generateMessageID(input *Input) string {
	tag := input.OutreachID
	if tag == "" {
		tag = localPartTag(input.To)
	}
	return fmt.Sprintf("<%d.%s@%s>", time.Now().UnixNano(), tag, s.config.SMTPHost)
}

// localPartTag reduces an address to a token safe inside a message id: the
// local part stripped to alphanumerics and capped at ten characters.
func localPartTag(email string) string {
	local, _, _ := strings.Cut(email, "@")
	local = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			return r
		}
		return -1
	}, local)
	if len(local) > 10 {
		local = local[:10]
	}
	if local == "" {
		return "user"
	}
	return local
}

// TestConnection dials the SMTP server and quits, upgrading to TLS first
// when configured. The worker health check uses it to prove the mail path
// without sending anything.
func (s *Service) TestConnection(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.config.SMTPHost, s.config.SMTPPort)

	client, err := smtp.Dial(addr)
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer client.Close()

	if s.config.UseTLS {
		if err := client.StartTLS(&tls.Config{ServerName: s.config.SMTPHost}); err != nil {
			return fmt.Errorf("failed to start TLS: %w", err)
		}
	}

	return client.Quit()
}

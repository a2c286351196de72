package services

import (
	"context"
	"fmt"
	"html"
	"net/mail"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-content-backend/errs"
)

const smsPreviewLength = 120

// ContactMessage is a submission of the site's contact form
type ContactMessage struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

func (m ContactMessage) Validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return errs.NewMissingRequiredFieldError("name")
	}
	if strings.TrimSpace(m.Email) == "" {
		return errs.NewMissingRequiredFieldError("email")
	}
	if _, err := mail.ParseAddress(m.Email); err != nil {
		return errs.NewInvalidFieldError("email", "not a valid email address")
	}
	if strings.TrimSpace(m.Message) == "" {
		return errs.NewMissingRequiredFieldError("message")
	}
	return nil
}

type emailSender interface {
	Send(ctx context.Context, email Email) (string, error)
}

type smsSender interface {
	Notify(body string) (string, error)
}

// ContactRelay forwards contact messages to the site owner. It holds no state and never retries.
type ContactRelay struct {
	mailer    emailSender
	sms       smsSender
	recipient string
	logger    zerolog.Logger
}

// NewContactRelay builds a relay. mailer may be nil when email is not configured, sms when
// SMS is not configured.
func NewContactRelay(mailer *Mailer, sms *SMSNotifier, recipient string) *ContactRelay {
	relay := &ContactRelay{
		recipient: recipient,
		logger:    log.With().Str("component", "contactRelay").Logger(),
	}
	if mailer != nil {
		relay.mailer = mailer
	}
	if sms != nil {
		relay.sms = sms
	}
	return relay
}

// Relay validates msg and emails it to the recipient; an SMS heads-up is best-effort
func (r *ContactRelay) Relay(ctx context.Context, msg ContactMessage) error {
	if err := msg.Validate(); err != nil {
		return err
	}
	if r.mailer == nil || r.recipient == "" {
		return errs.NewUnavailableError("contact email", nil)
	}

	id, err := r.mailer.Send(ctx, Email{
		Subject:    fmt.Sprintf("New contact form message from %s", msg.Name),
		Html:       renderContactHTML(msg),
		Text:       fmt.Sprintf("From: %s <%s>\n\n%s", msg.Name, msg.Email, msg.Message),
		ReplyTo:    msg.Email,
		Recipients: []string{r.recipient},
	})
	if errs.IsRateLimitError(err) {
		return err
	}
	if err != nil {
		return errs.NewUnavailableError("contact email", err)
	}
	r.logger.Info().Str("emailId", id).Msg("contact message relayed")

	if r.sms != nil {
		if _, err := r.sms.Notify(smsPreview(msg)); err != nil {
			r.logger.Warn().Err(err).Msg("failed to send contact SMS notification")
		}
	}
	return nil
}

func renderContactHTML(msg ContactMessage) string {
	body := strings.ReplaceAll(html.EscapeString(msg.Message), "\n", "<br>")
	return fmt.Sprintf("<h2>New message from %s</h2><p><strong>Email:</strong> %s</p><p>%s</p>",
		html.EscapeString(msg.Name), html.EscapeString(msg.Email), body)
}

func smsPreview(msg ContactMessage) string {
	text := strings.Join(strings.Fields(msg.Message), " ")
	if runes := []rune(text); len(runes) > smsPreviewLength {
		text = string(runes[:smsPreviewLength]) + "…"
	}
	return fmt.Sprintf("Contact from %s <%s>: %s", msg.Name, msg.Email, text)
}

package notify

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/blockconnect/backend/internal/config"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Mailer sends transactional email. Implementations must not block the
// caller; sends happen in the background and failures are logged only.
type Mailer interface {
	SendApplicationReviewed(toEmail, toName, blockSpaceName, status string, notes *string)
	SendAnnouncementApproved(toEmail, toName, title string)
}

// SendgridMailer sends mail through the SendGrid v3 API.
type SendgridMailer struct {
	key      string
	from     *sgmail.Email
	endpoint string
	host     string
}

func NewSendgridMailer(cfg *config.Config) *SendgridMailer {
	return &SendgridMailer{
		key:      cfg.SendgridAPIKey,
		from:     sgmail.NewEmail(cfg.EmailFromName, cfg.EmailFrom),
		endpoint: "/v3/mail/send",
		host:     "https://api.sendgrid.com",
	}
}

func (m *SendgridMailer) SendApplicationReviewed(toEmail, toName, blockSpaceName, status string, notes *string) {
	subject := fmt.Sprintf("Your application to %s was %s", blockSpaceName, status)
	body := fmt.Sprintf("Hi %s,\n\nYour application to join %s has been %s.", toName, blockSpaceName, status)
	if notes != nil && *notes != "" {
		body += "\n\nReviewer notes: " + *notes
	}
	body += "\n\nBlock-connect"
	m.send(toEmail, toName, subject, body)
}

func (m *SendgridMailer) SendAnnouncementApproved(toEmail, toName, title string) {
	subject := "Your announcement was approved"
	body := fmt.Sprintf("Hi %s,\n\nYour announcement %q is now visible to your community.\n\nBlock-connect", toName, title)
	m.send(toEmail, toName, subject, body)
}

func (m *SendgridMailer) send(toEmail, toName, subject, body string) {
	if m.key == "" {
		slog.Info("sendgrid key not configured, skipping email", "to", toEmail, "subject", subject)
		return
	}

	go func() {
		msg := sgmail.NewSingleEmail(m.from, subject, sgmail.NewEmail(toName, toEmail), body, "")
		req := sendgrid.GetRequest(m.key, m.endpoint, m.host)
		req.Method = http.MethodPost
		req.Body = sgmail.GetRequestBody(msg)

		res, err := sendgrid.API(req)
		if err != nil {
			slog.Error("failed to send email", "to", toEmail, "error", err)
		} else if res.StatusCode >= http.StatusBadRequest {
			slog.Error("email rejected", "to", toEmail, "status", res.StatusCode, "body", res.Body)
		}
	}()
}

// NopMailer discards all mail. Used in tests.
type NopMailer struct{}

func (NopMailer) SendApplicationReviewed(string, string, string, string, *string) {}
func (NopMailer) SendAnnouncementApproved(string, string, string)                 {}

// Package notify delivers operator alerts when the pipeline fails in a
// way that needs a human. Alert delivery is best-effort: a failed email
// is logged and dropped, never surfaced as a pipeline error.
package notify

import (
	"context"
	"fmt"
	"time"

	"frameworks/api_lookout/pkg/email"
	"frameworks/api_lookout/pkg/logging"
)

const sendTimeout = 10 * time.Second

// Alerter dispatches a failure notification.
type Alerter interface {
	Alert(subject, message, detail string)
}

// EmailAlerter sends alerts over SMTP to a fixed operator address.
type EmailAlerter struct {
	Sender *email.Sender
	To     string
	Logger logging.Logger
}

func NewEmailAlerter(sender *email.Sender, to string, logger logging.Logger) *EmailAlerter {
	return &EmailAlerter{Sender: sender, To: to, Logger: logger}
}

// Alert sends the notification asynchronously so a slow SMTP server
// never stalls the failing operation it reports on.
func (a *EmailAlerter) Alert(subject, message, detail string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		defer cancel()

		body := fmt.Sprintf("%s\n\nDetail:\n%s\n\nTime: %s\n", message, detail, time.Now().UTC().Format(time.RFC3339))
		if err := a.Sender.SendMail(ctx, a.To, subject, body); err != nil {
			a.Logger.WithError(err).WithField("subject", subject).Error("Failed to send alert email")
			return
		}
		a.Logger.WithField("subject", subject).Info("Alert email sent")
	}()
}

// NoopAlerter discards alerts. Used when SMTP is not configured.
type NoopAlerter struct {
	Logger logging.Logger
}

func (n *NoopAlerter) Alert(subject, message, _ string) {
	if n.Logger != nil {
		n.Logger.WithFields(logging.Fields{
			"subject": subject,
			"message": message,
		}).Warn("Alert raised but no alerter is configured")
	}
}

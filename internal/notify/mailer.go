package notify

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"
)

type Message struct {
	To          string
	Subject     string
	TextContent string
	HTMLContent string
}

type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// NewMailer returns a SendGrid mailer, or a console mailer when apiKey is empty.
func NewMailer(apiKey, from, appName string, log *zap.Logger) Mailer {
	if apiKey == "" {
		log.Info("SENDGRID_API_KEY not set, emails are written to the log")
		return NewConsoleMailer(from, appName, log)
	}
	return &sendgridMailer{
		client:     sendgrid.NewSendClient(apiKey),
		from:       sgmail.NewEmail(appName, from),
		subjPrefix: "[" + appName + "] ",
	}
}

type sendgridMailer struct {
	client     *sendgrid.Client
	from       *sgmail.Email
	subjPrefix string
}

func (m *sendgridMailer) Send(_ context.Context, msg Message) error {
	to := sgmail.NewEmail("", msg.To)
	message := sgmail.NewSingleEmail(m.from, m.subjPrefix+msg.Subject, to, msg.TextContent, msg.HTMLContent)

	res, err := m.client.Send(message)
	if err != nil {
		return fmt.Errorf("sending email: %w", err)
	}
	if res.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("sending email - status: %d - body: %s", res.StatusCode, res.Body)
	}
	return nil
}

// consoleKeep bounds how many messages ConsoleMailer remembers.
const consoleKeep = 20

// ConsoleMailer logs messages instead of sending them and keeps the most recent ones.
type ConsoleMailer struct {
	from       string
	subjPrefix string
	log        *zap.Logger

	mu   sync.Mutex
	Sent []Message
}

func NewConsoleMailer(from, appName string, log *zap.Logger) *ConsoleMailer {
	return &ConsoleMailer{
		from:       from,
		subjPrefix: "[" + appName + "] ",
		log:        log,
	}
}

func (m *ConsoleMailer) Send(_ context.Context, msg Message) error {
	m.log.Info("email",
		zap.String("from", m.from),
		zap.String("to", msg.To),
		zap.String("subject", m.subjPrefix+msg.Subject),
		zap.String("body", msg.TextContent),
	)
	m.mu.Lock()
	m.Sent = append(m.Sent, msg)
	if n := len(m.Sent); n > consoleKeep {
		m.Sent = append([]Message(nil), m.Sent[n-consoleKeep:]...)
	}
	m.mu.Unlock()
	return nil
}

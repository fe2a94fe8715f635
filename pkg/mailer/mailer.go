package mailer

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	tpl "github.com/oksasatya/contacts-api/pkg/mailer/templates"
)

// Transport delivers a rendered message.
type Transport interface {
	Send(ctx context.Context, to, subject, text, html string) error
}

// Publisher puts a JSON message on a queue.
type Publisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// DirectMailer renders templates in-process and hands them to a Transport.
type DirectMailer struct {
	Transport Transport
	Brand     tpl.Brand
}

func NewDirectMailer(t Transport, brand tpl.Brand) *DirectMailer {
	return &DirectMailer{Transport: t, Brand: brand}
}

func (m *DirectMailer) Send(ctx context.Context, template, recipient string, vars map[string]any) error {
	data := tpl.NewEmailData(m.Brand, recipient, vars)
	subject, text, html, err := tpl.Render(template, data)
	if err != nil {
		return fmt.Errorf("render %s: %w", template, err)
	}
	return m.Transport.Send(ctx, recipient, subject, text, html)
}

// QueueMailer enqueues jobs for cmd/email_worker.
type QueueMailer struct {
	Pub Publisher
}

func NewQueueMailer(pub Publisher) *QueueMailer {
	return &QueueMailer{Pub: pub}
}

func (m *QueueMailer) Send(ctx context.Context, template, recipient string, vars map[string]any) error {
	return m.Pub.PublishJSON(ctx, EmailJob{To: recipient, Template: template, Data: vars})
}

// LogMailer is used when MAIL_SEND_ENABLED=false.
type LogMailer struct {
	Logger *logrus.Logger
}

func (m LogMailer) Send(_ context.Context, template, recipient string, _ map[string]any) error {
	if m.Logger != nil {
		m.Logger.WithFields(logrus.Fields{"template": template, "to": recipient}).Info("mail sending disabled, message dropped")
	}
	return nil
}

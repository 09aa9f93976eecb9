package mailer

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/storefront-api/config"
	mailtpl "github.com/oksasatya/storefront-api/pkg/mailer/templates"
)

// Publisher puts a JSON message on the email queue
type Publisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// QueueMailer hands password reset emails to the worker through the queue
type QueueMailer struct {
	Pub    Publisher
	Cfg    *config.Config
	Logger *logrus.Logger
}

func NewQueueMailer(pub Publisher, cfg *config.Config, logger *logrus.Logger) *QueueMailer {
	return &QueueMailer{Pub: pub, Cfg: cfg, Logger: logger}
}

func (m *QueueMailer) SendPasswordReset(ctx context.Context, to, name, resetURL string, expiresAt time.Time) error {
	job := EmailJob{
		To:       to,
		Template: mailtpl.ForgotPassword,
		Data: mailtpl.NewForgotPasswordData(m.Cfg, name, to,
			mailtpl.WithResetURL(resetURL),
			mailtpl.WithExpiresAt(expiresAt),
		),
	}
	c, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := m.Pub.PublishJSON(c, job); err != nil {
		return err
	}
	if m.Logger != nil {
		m.Logger.WithFields(logrus.Fields{"to": to, "template": job.Template}).Debug("email job queued")
	}
	return nil
}

// LogMailer only logs the reset link; used when email sending is disabled
type LogMailer struct {
	Logger *logrus.Logger
}

func (m LogMailer) SendPasswordReset(_ context.Context, to, _, resetURL string, expiresAt time.Time) error {
	m.Logger.WithFields(logrus.Fields{
		"to":         to,
		"reset_url":  resetURL,
		"expires_at": expiresAt.UTC().Format(time.RFC3339),
	}).Warn("MAIL_SEND_ENABLED=false; password reset email not sent")
	return nil
}

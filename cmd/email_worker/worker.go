package main

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/storefront-api/pkg/helpers"
	"github.com/oksasatya/storefront-api/pkg/mailer"
	mailtpl "github.com/oksasatya/storefront-api/pkg/mailer/templates"
)

type sender interface {
	Send(ctx context.Context, to, subject, text, html string) (string, error)
}

type outcome int

const (
	outcomeSent outcome = iota
	outcomeDrop
	outcomeRetry
)

type worker struct {
	sender sender
	logger *logrus.Logger
}

// process renders a templated job if needed and sends it. Render failures are
// dropped; send failures are retried.
func (w *worker) process(ctx context.Context, job *mailer.EmailJob) outcome {
	log := w.logger.WithFields(logrus.Fields{"to": job.To, "template": job.Template})
	if job.To == "" {
		log.Warn("job without recipient")
		return outcomeDrop
	}
	helpers.EnsureRecipientAndEmail(job)

	subject, text, html := job.Subject, job.Text, job.HTML
	if job.Template != "" {
		s, t, h, err := mailtpl.Render(job.Template, job.Data)
		if err != nil {
			log.WithError(err).Error("render failed")
			return outcomeDrop
		}
		subject, text, html = s, t, h
	}

	c, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	id, err := w.sender.Send(c, job.To, subject, text, html)
	if err != nil {
		log.WithError(err).Error("send failed")
		return outcomeRetry
	}
	log.WithField("message_id", id).Info("email sent")
	return outcomeSent
}

// Package worker runs the background notification processor: it drains the
// Redis job queue and sends welcome and event confirmation emails.
package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/maroc-digital-hub/backend/pkg/queue"
)

// NotificationProcessor processes notification email jobs.
type NotificationProcessor struct {
	mailer Mailer
	queue  *queue.Queue
	logger *zap.Logger
}

// NewNotificationProcessor creates a notification processor.
func NewNotificationProcessor(mailer Mailer, q *queue.Queue, logger *zap.Logger) *NotificationProcessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationProcessor{mailer: mailer, queue: q, logger: logger}
}

// Process executes one notification job.
func (p *NotificationProcessor) Process(ctx context.Context, job *queue.Job) error {
	switch job.Type {
	case queue.JobTypeWelcomeEmail:
		var payload queue.WelcomeEmailPayload
		if err := json.Unmarshal(job.Payload, &payload); err != nil {
			return fmt.Errorf("unmarshal payload: %w", err)
		}
		return p.sendWelcome(payload)
	case queue.JobTypeEventConfirmation:
		var payload queue.EventConfirmationPayload
		if err := json.Unmarshal(job.Payload, &payload); err != nil {
			return fmt.Errorf("unmarshal payload: %w", err)
		}
		return p.sendEventConfirmation(payload)
	default:
		return fmt.Errorf("unknown job type: %s", job.Type)
	}
}

func (p *NotificationProcessor) sendWelcome(payload queue.WelcomeEmailPayload) error {
	subject := "Bienvenue sur Maroc Digital Hub"
	body := fmt.Sprintf(
		"Bonjour %s,\n\nVotre compte %s est prêt. Découvrez les startups, les événements et les discussions de la communauté.\n\nL'équipe Maroc Digital Hub",
		payload.RecipientName, payload.Role,
	)
	if err := p.mailer.Send(payload.RecipientEmail, subject, body); err != nil {
		return err
	}
	p.logger.Info("welcome email sent", zap.String("user_id", payload.UserID.String()))
	return nil
}

func (p *NotificationProcessor) sendEventConfirmation(payload queue.EventConfirmationPayload) error {
	subject := "Inscription confirmée : " + payload.EventTitle
	body := fmt.Sprintf(
		"Bonjour %s,\n\nVotre inscription à \"%s\" est confirmée.\n\nDate : %s\nLieu : %s\n\nL'équipe Maroc Digital Hub",
		payload.RecipientName, payload.EventTitle,
		payload.EventDate.Format("02/01/2006 15:04"), payload.EventLocation,
	)
	if err := p.mailer.Send(payload.RecipientEmail, subject, body); err != nil {
		return err
	}
	p.logger.Info("event confirmation sent",
		zap.String("user_id", payload.UserID.String()),
		zap.String("event_id", payload.EventID.String()),
	)
	return nil
}

// Run starts the worker loop: dequeue, process, retry on error.
func (p *NotificationProcessor) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			p.logger.Info("notification worker stopping")
			return
		default:
		}

		job, err := p.queue.Dequeue(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			p.logger.Warn("dequeue error", zap.Error(err))
			time.Sleep(queue.RetryBackoff)
			continue
		}
		if job == nil {
			continue
		}

		p.logger.Debug("processing job", zap.String("job_id", job.ID), zap.String("type", string(job.Type)))
		if err := p.Process(ctx, job); err != nil {
			p.logger.Error("job failed", zap.String("job_id", job.ID), zap.Error(err))
			if reErr := p.queue.Retry(ctx, job); reErr != nil {
				p.logger.Error("retry enqueue failed", zap.Error(reErr))
			}
			time.Sleep(queue.RetryBackoff)
		}
	}
}

package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"ylc-be-svc/internal/mailer"
	"ylc-be-svc/internal/models"
	"ylc-be-svc/internal/repository"
	"ylc-be-svc/pkg/logger"
)

// DispatchResult is the outcome of one best-effort send. Callers may discard it.
type DispatchResult struct {
	Kind       string
	Recipient  string
	Status     string
	ProviderID string
	Err        *NotificationError
}

// Sent reports whether the provider accepted the message
func (r DispatchResult) Sent() bool {
	return r.Status == models.NotificationStatusSent
}

// NotificationDispatcher delivers composed messages, one attempt each
type NotificationDispatcher interface {
	Dispatch(ctx context.Context, quoteID uint, kind, referenceCode string, msg *mailer.Message) DispatchResult
}

type notificationDispatcher struct {
	sender  mailer.Sender
	logRepo repository.NotificationLogRepository
	logger  *logger.Logger
}

// NewNotificationDispatcher creates a new instance of NotificationDispatcher. logRepo may be nil.
func NewNotificationDispatcher(sender mailer.Sender, logRepo repository.NotificationLogRepository, logger *logger.Logger) NotificationDispatcher {
	return &notificationDispatcher{
		sender:  sender,
		logRepo: logRepo,
		logger:  logger,
	}
}

// Dispatch sends msg once. A nil msg is recorded as skipped. Failures are logged and returned
// inside the result, never as an error or panic.
func (d *notificationDispatcher) Dispatch(ctx context.Context, quoteID uint, kind, referenceCode string, msg *mailer.Message) (result DispatchResult) {
	result = DispatchResult{Kind: kind}
	defer func() {
		if r := recover(); r != nil {
			d.logger.WithFields(map[string]interface{}{
				"quote_id": quoteID,
				"kind":     kind,
				"panic":    r,
			}).Error("Notification dispatch panicked")
			result.Status = models.NotificationStatusFailed
			result.Err = &NotificationError{Kind: kind, Recipient: result.Recipient, Err: errors.New("dispatch panicked")}
		}
		d.record(ctx, quoteID, referenceCode, result)
	}()

	if msg == nil {
		result.Status = models.NotificationStatusSkipped
		d.logger.WithFields(map[string]interface{}{
			"quote_id": quoteID,
			"kind":     kind,
		}).Info("No recipient for notification, skipping")
		return result
	}
	result.Recipient = msg.To

	sent, err := d.sender.Send(ctx, msg)
	if err != nil {
		nerr := &NotificationError{Kind: kind, Recipient: msg.To, Err: err}
		var perr *mailer.ProviderError
		if errors.As(err, &perr) {
			nerr.Diagnostic = perr.Body
		}
		result.Status = models.NotificationStatusFailed
		result.Err = nerr

		d.logger.WithError(err).WithFields(map[string]interface{}{
			"quote_id":   quoteID,
			"kind":       kind,
			"recipient":  msg.To,
			"diagnostic": nerr.Diagnostic,
		}).Error("Failed to send notification")
		return result
	}

	result.Status = models.NotificationStatusSent
	if sent != nil {
		result.ProviderID = sent.ID
	}
	d.logger.WithFields(map[string]interface{}{
		"quote_id":    quoteID,
		"kind":        kind,
		"recipient":   msg.To,
		"provider_id": result.ProviderID,
	}).Info("Notification sent")

	return result
}

func (d *notificationDispatcher) record(ctx context.Context, quoteID uint, referenceCode string, result DispatchResult) {
	if d.logRepo == nil {
		return
	}

	entry := &models.NotificationLog{
		DocumentID: uuid.New().String(),
		QuoteID:    quoteID,
		Kind:       result.Kind,
		Recipient:  result.Recipient,
		Status:     result.Status,
	}
	if referenceCode != "" {
		entry.ReferenceCode = stringPtr(referenceCode)
	}
	if result.ProviderID != "" {
		entry.ProviderMessageID = stringPtr(result.ProviderID)
	}
	if result.Err != nil {
		diagnostic := result.Err.Diagnostic
		if diagnostic == "" && result.Err.Err != nil {
			diagnostic = result.Err.Err.Error()
		}
		entry.Diagnostic = stringPtr(diagnostic)
	}

	if err := d.logRepo.CreateNotificationLog(ctx, entry); err != nil {
		d.logger.WithError(err).WithFields(map[string]interface{}{
			"quote_id": quoteID,
			"kind":     result.Kind,
			"status":   result.Status,
		}).Warn("Failed to create notification log entry")
	}
}

// stringPtr returns a pointer to the given string
func stringPtr(s string) *string {
	return &s
}

// Package mailer sends transactional email through Resend.
package mailer

import (
	"context"
	"fmt"
)

// Attachment is one binary part of a message. A non-empty ContentID lets the HTML body reference it inline.
type Attachment struct {
	Content     []byte
	Filename    string
	ContentType string
	ContentID   string
}

// Message is a single composed email
type Message struct {
	To          string
	Subject     string
	Text        string
	HTML        string
	Attachments []Attachment
}

// SendResult carries the provider's message id
type SendResult struct {
	ID string
}

// Sender delivers one message per call
type Sender interface {
	Send(ctx context.Context, msg *Message) (*SendResult, error)
}

// ProviderError is a non-2xx answer from the provider; Body is the raw diagnostic payload
type ProviderError struct {
	StatusCode int
	Body       string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("email provider returned status %d: %s", e.StatusCode, e.Body)
}

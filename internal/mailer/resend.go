package mailer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/resend/resend-go/v2"

	"ylc-be-svc/pkg/logger"
)

// ErrNotConfigured is returned when no API key is set
var ErrNotConfigured = errors.New("email provider credentials not configured")

// maxDiagnosticBody bounds how much of a rejected response is kept
const maxDiagnosticBody = 64 << 10

// ResendConfig holds Resend API configuration
type ResendConfig struct {
	APIKey  string
	BaseURL string
	From    string
}

// ResendClient implements Sender on top of the Resend SDK
type ResendClient struct {
	config ResendConfig
	client *resend.Client
	logger *logger.Logger
}

// NewResendClient creates a new instance of ResendClient
func NewResendClient(config ResendConfig, logger *logger.Logger) *ResendClient {
	if config.BaseURL == "" {
		config.BaseURL = "https://api.resend.com"
	}
	// the SDK resolves "emails" against the base, which needs the trailing slash
	config.BaseURL = strings.TrimRight(config.BaseURL, "/") + "/"

	httpClient := &http.Client{
		Timeout:   30 * time.Second,
		Transport: &diagnosticTransport{next: http.DefaultTransport},
	}
	client := resend.NewCustomClient(httpClient, config.APIKey)
	if base, err := url.Parse(config.BaseURL); err == nil {
		client.BaseURL = base
	} else {
		logger.WithError(err).WithField("base_url", config.BaseURL).Warn("Invalid Resend base URL, using SDK default")
	}

	return &ResendClient{
		config: config,
		client: client,
		logger: logger,
	}
}

// Send posts one email to the provider. No retry is attempted.
func (c *ResendClient) Send(ctx context.Context, msg *Message) (*SendResult, error) {
	if c.config.APIKey == "" {
		return nil, ErrNotConfigured
	}
	if msg == nil || msg.To == "" {
		return nil, errors.New("message has no recipient")
	}

	params := &resend.SendEmailRequest{
		From:    c.config.From,
		To:      []string{msg.To},
		Subject: msg.Subject,
		Html:    msg.HTML,
		Text:    msg.Text,
	}
	for _, a := range msg.Attachments {
		params.Attachments = append(params.Attachments, &resend.Attachment{
			Content:     a.Content,
			Filename:    a.Filename,
			ContentType: a.ContentType,
			ContentId:   a.ContentID,
		})
	}

	c.logger.WithFields(map[string]interface{}{
		"to":          msg.To,
		"subject":     msg.Subject,
		"attachments": len(msg.Attachments),
	}).Debug("Sending email via Resend")

	capture := &rejectedResponse{}
	sent, err := c.client.Emails.SendWithContext(context.WithValue(ctx, rejectedResponseKey{}, capture), params)
	if err != nil {
		if capture.status != 0 {
			return nil, &ProviderError{StatusCode: capture.status, Body: capture.body}
		}
		return nil, fmt.Errorf("failed to send email: %w", err)
	}

	return &SendResult{ID: sent.Id}, nil
}

type rejectedResponseKey struct{}

// rejectedResponse holds the raw answer of a non-2xx call; the SDK only surfaces its message
type rejectedResponse struct {
	status int
	body   string
}

// diagnosticTransport copies non-2xx bodies into the request's rejectedResponse, then hands
// the SDK an identical body to decode
type diagnosticTransport struct {
	next http.RoundTripper
}

func (t *diagnosticTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.next.RoundTrip(req)
	if err != nil {
		return resp, err
	}

	capture, ok := req.Context().Value(rejectedResponseKey{}).(*rejectedResponse)
	if !ok || (resp.StatusCode >= 200 && resp.StatusCode < 300) {
		return resp, nil
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxDiagnosticBody))
	resp.Body.Close()
	resp.Body = io.NopCloser(bytes.NewReader(body))

	capture.status = resp.StatusCode
	capture.body = string(body)
	return resp, nil
}

package service

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"sync"
	"testing"
	"time"

	"gorm.io/gorm"

	"ylc-be-svc/internal/mailer"
	"ylc-be-svc/internal/models"
	"ylc-be-svc/internal/storage"
	"ylc-be-svc/pkg/logger"
)

// pngBytes is a PNG signature followed by filler, enough for content sniffing
var pngBytes = append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), bytes.Repeat([]byte{0}, 64)...)

type testUpload struct {
	name        string
	contentType string
	content     []byte
}

// buildFileHeaders encodes uploads as a multipart form under "images" and parses them back
func buildFileHeaders(t *testing.T, uploads ...testUpload) []*multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for _, u := range uploads {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="images"; filename="%s"`, u.name))
		h.Set("Content-Type", u.contentType)
		part, err := w.CreatePart(h)
		if err != nil {
			t.Fatalf("create part: %v", err)
		}
		if _, err := part.Write(u.content); err != nil {
			t.Fatalf("write part: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	form, err := multipart.NewReader(&body, w.Boundary()).ReadForm(64 << 20)
	if err != nil {
		t.Fatalf("read form: %v", err)
	}
	t.Cleanup(func() { form.RemoveAll() })
	return form.File["images"]
}

func newTestStore(t *testing.T) *storage.LocalStore {
	t.Helper()
	store, err := storage.NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}
	return store
}

func validFields() map[string]string {
	return map[string]string{
		"name":        "Jane Doe",
		"phone":       "555-0100",
		"email":       "jane@example.com",
		"service":     "Kitchen remodel",
		"budget_min":  "5000",
		"budget_max":  "15000",
		"description": "Replace cabinets and counters",
		"location":    "Springfield",
	}
}

type fakeQuoteRepo struct {
	mu     sync.Mutex
	quotes []*models.Quote
	err    error
}

func (r *fakeQuoteRepo) CreateQuote(ctx context.Context, quote *models.Quote) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	quote.ID = uint(len(r.quotes) + 1)
	r.quotes = append(r.quotes, quote)
	return nil
}

func (r *fakeQuoteRepo) GetQuoteByID(ctx context.Context, id uint) (*models.Quote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, q := range r.quotes {
		if q.ID == id {
			return q, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeQuoteRepo) ListQuotes(ctx context.Context, from, to *time.Time) ([]*models.Quote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	var out []*models.Quote
	for _, q := range r.quotes {
		if from != nil && q.CreatedAt.Before(*from) {
			continue
		}
		if to != nil && !q.CreatedAt.Before(*to) {
			continue
		}
		out = append(out, q)
	}
	return out, nil
}

type fakeSender struct {
	mu     sync.Mutex
	sent   []*mailer.Message
	failTo map[string]error
}

func (s *fakeSender) Send(ctx context.Context, msg *mailer.Message) (*mailer.SendResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, msg)
	if err, ok := s.failTo[msg.To]; ok {
		return nil, err
	}
	return &mailer.SendResult{ID: fmt.Sprintf("msg-%d", len(s.sent))}, nil
}

func (s *fakeSender) recipients() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var to []string
	for _, m := range s.sent {
		to = append(to, m.To)
	}
	return to
}

type fakeLogRepo struct {
	mu   sync.Mutex
	logs []*models.NotificationLog
}

func (r *fakeLogRepo) CreateNotificationLog(ctx context.Context, log *models.NotificationLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logs = append(r.logs, log)
	return nil
}

func (r *fakeLogRepo) GetNotificationLogsByQuoteID(ctx context.Context, quoteID uint) ([]*models.NotificationLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.NotificationLog
	for _, l := range r.logs {
		if l.QuoteID == quoteID {
			out = append(out, l)
		}
	}
	return out, nil
}

type fixedCodes string

func (c fixedCodes) Generate(uint) string { return string(c) }

func testLogger() *logger.Logger {
	return logger.NewDiscardLogger()
}

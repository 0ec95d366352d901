package handler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"ylc-be-svc/internal/mailer"
	"ylc-be-svc/internal/models"
	"ylc-be-svc/internal/service"
	"ylc-be-svc/internal/storage"
	"ylc-be-svc/pkg/logger"
)

var pngSignature = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

// pngOfSize returns a PNG-signed payload of exactly n bytes
func pngOfSize(n int) []byte {
	b := make([]byte, n)
	copy(b, pngSignature)
	return b
}

type recordingQuoteRepo struct {
	mu     sync.Mutex
	quotes []*models.Quote
}

func (r *recordingQuoteRepo) CreateQuote(ctx context.Context, quote *models.Quote) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	quote.ID = uint(len(r.quotes) + 1)
	r.quotes = append(r.quotes, quote)
	return nil
}

func (r *recordingQuoteRepo) GetQuoteByID(ctx context.Context, id uint) (*models.Quote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, q := range r.quotes {
		if q.ID == id {
			return q, nil
		}
	}
	return nil, errors.New("record not found")
}

func (r *recordingQuoteRepo) ListQuotes(ctx context.Context, from, to *time.Time) ([]*models.Quote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.quotes, nil
}

func (r *recordingQuoteRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.quotes)
}

type recordingSender struct {
	mu   sync.Mutex
	sent []*mailer.Message
}

func (s *recordingSender) Send(ctx context.Context, msg *mailer.Message) (*mailer.SendResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, msg)
	return &mailer.SendResult{ID: fmt.Sprintf("msg-%d", len(s.sent))}, nil
}

func (s *recordingSender) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sent)
}

type flowFixture struct {
	router *gin.Engine
	repo   *recordingQuoteRepo
	sender *recordingSender
	dir    string
}

// newFlowFixture wires the real pipeline behind the handler, with in-memory persistence and mail
func newFlowFixture(t *testing.T) *flowFixture {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.NewLocalStore(dir)
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}

	log := logger.NewDiscardLogger()
	fx := &flowFixture{repo: &recordingQuoteRepo{}, sender: &recordingSender{}, dir: dir}
	svc := service.NewSubmissionService(
		service.NewFileIntake(store, log),
		fx.repo,
		service.NewNotificationComposer(service.ComposerConfig{OperatorTo: "leads@example.com"}, store, service.NewReferenceCodeGenerator(log), log),
		service.NewNotificationDispatcher(fx.sender, nil, log),
		service.SubmissionOptions{AsyncNotify: false},
		log,
	)
	fx.router = newSubmitRouter(svc)
	return fx
}

func (fx *flowFixture) storedFiles(t *testing.T) int {
	t.Helper()
	entries, err := os.ReadDir(fx.dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	return len(entries)
}

type upload struct {
	name        string
	contentType string
	content     []byte
}

func flowFields() map[string]string {
	return map[string]string{
		"name":        "Jane Doe",
		"phone":       "555-0100",
		"email":       "jane@example.com",
		"service":     "Deck repair",
		"description": "Replace rotten boards",
		"location":    "Springfield",
	}
}

func uploadRequest(t *testing.T, fields map[string]string, uploads ...upload) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("WriteField: %v", err)
		}
	}
	for _, u := range uploads {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, ImagesField, u.name))
		h.Set("Content-Type", u.contentType)
		part, err := w.CreatePart(h)
		if err != nil {
			t.Fatalf("CreatePart: %v", err)
		}
		if _, err := part.Write(u.content); err != nil {
			t.Fatalf("write part: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/submit", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestSubmitFlowRejections(t *testing.T) {
	const mib = 1 << 20

	tests := []struct {
		name      string
		uploads   []upload
		wantError string
	}{
		{
			name:      "one oversized image",
			uploads:   []upload{{"big.png", "image/png", pngOfSize(6 * mib)}},
			wantError: msgFileTooLarge,
		},
		{
			name: "three images each over the limit",
			uploads: []upload{
				{"a.png", "image/png", pngOfSize(5*mib + mib/2)},
				{"b.png", "image/png", pngOfSize(5*mib + mib/2)},
				{"c.png", "image/png", pngOfSize(5*mib + mib/2)},
			},
			wantError: msgFileTooLarge,
		},
		{
			name: "body over the request cap",
			uploads: []upload{
				{"a.png", "image/png", pngOfSize(7*mib + mib/2)},
				{"b.png", "image/png", pngOfSize(7*mib + mib/2)},
				{"c.png", "image/png", pngOfSize(7*mib + mib/2)},
			},
			wantError: msgFileTooLarge,
		},
		{
			name:      "plain text part",
			uploads:   []upload{{"notes.txt", "text/plain", []byte("just some notes")}},
			wantError: msgNotImage,
		},
		{
			name: "four images within the size limit",
			uploads: []upload{
				{"a.png", "image/png", pngOfSize(4*mib + mib/2)},
				{"b.png", "image/png", pngOfSize(4*mib + mib/2)},
				{"c.png", "image/png", pngOfSize(4*mib + mib/2)},
				{"d.png", "image/png", pngOfSize(4*mib + mib/2)},
			},
			wantError: msgTooManyFiles,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := newFlowFixture(t)

			rec := httptest.NewRecorder()
			fx.router.ServeHTTP(rec, uploadRequest(t, flowFields(), tt.uploads...))

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
			}
			if b := decodeSubmit(t, rec); b.Success || b.Error != tt.wantError {
				t.Errorf("body = %+v, want error %q", b, tt.wantError)
			}
			if n := fx.repo.count(); n != 0 {
				t.Errorf("created %d records, want 0", n)
			}
			if n := fx.sender.count(); n != 0 {
				t.Errorf("sent %d emails, want 0", n)
			}
			if n := fx.storedFiles(t); n != 0 {
				t.Errorf("left %d files in the upload dir", n)
			}
		})
	}
}

func TestSubmitFlowTwoImages(t *testing.T) {
	fx := newFlowFixture(t)

	rec := httptest.NewRecorder()
	fx.router.ServeHTTP(rec, uploadRequest(t, flowFields(),
		upload{"front.png", "image/png", pngOfSize(1024)},
		upload{"back.png", "image/png", pngOfSize(2048)},
	))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if b := decodeSubmit(t, rec); !b.Success || b.QuoteID != 1 {
		t.Errorf("body = %+v", b)
	}

	if fx.repo.count() != 1 {
		t.Fatalf("created %d records, want 1", fx.repo.count())
	}
	q := fx.repo.quotes[0]
	if q.ImageName == nil || *q.ImageName != "front.png" || q.ImageName1 == nil || *q.ImageName1 != "back.png" {
		t.Errorf("first two slots = %v, %v", q.ImageName, q.ImageName1)
	}
	if q.ImageURL2 != nil || q.ImageName2 != nil || q.ImageType2 != nil {
		t.Error("third image slot should be NULL")
	}
	if q.ImageURL == nil || !strings.HasPrefix(*q.ImageURL, "/uploads/") {
		t.Errorf("image url = %v", q.ImageURL)
	}

	if n := fx.sender.count(); n != 2 {
		t.Errorf("sent %d emails, want operator and customer", n)
	}
	if n := fx.storedFiles(t); n != 2 {
		t.Errorf("stored %d files, want 2", n)
	}
}

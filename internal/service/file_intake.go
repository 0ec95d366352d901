package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"

	"ylc-be-svc/internal/models"
	"ylc-be-svc/internal/storage"
	"ylc-be-svc/pkg/logger"
)

const (
	// MaxImageSize is the per-file ceiling
	MaxImageSize int64 = 5 << 20
	// MaxImages is the number of files one submission may carry
	MaxImages = models.MaxQuoteImages

	maxStoredNameBase = 100
	saveAttempts      = 3
)

// FileIntake validates uploaded images and writes them to the image store
type FileIntake interface {
	Accept(ctx context.Context, files []*multipart.FileHeader) ([]models.StoredImage, error)
	Discard(ctx context.Context, images []models.StoredImage)
}

type fileIntake struct {
	store  storage.ImageStore
	logger *logger.Logger
	now    func() time.Time
}

// NewFileIntake creates a new instance of FileIntake
func NewFileIntake(store storage.ImageStore, logger *logger.Logger) FileIntake {
	return &fileIntake{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

type inspectedFile struct {
	header   *multipart.FileHeader
	content  []byte
	mimeType string
}

// Accept checks every part before writing any, so a rejected batch leaves nothing on disk.
func (f *fileIntake) Accept(ctx context.Context, files []*multipart.FileHeader) ([]models.StoredImage, error) {
	if len(files) == 0 {
		return nil, nil
	}

	inspected := make([]inspectedFile, 0, len(files))
	for _, fh := range files {
		item, err := f.inspect(fh)
		if err != nil {
			return nil, err
		}
		inspected = append(inspected, item)
	}

	images := make([]models.StoredImage, 0, len(inspected))
	for _, item := range inspected {
		img, err := f.save(ctx, item)
		if err != nil {
			f.Discard(ctx, images)
			return nil, err
		}
		images = append(images, img)
	}

	f.logger.WithField("count", len(images)).Info("Images stored")
	return images, nil
}

func (f *fileIntake) inspect(fh *multipart.FileHeader) (inspectedFile, error) {
	if fh.Size > MaxImageSize {
		return inspectedFile{}, &PayloadTooLargeError{Filename: fh.Filename, Size: fh.Size, Limit: MaxImageSize}
	}

	declared := strings.ToLower(strings.TrimSpace(fh.Header.Get("Content-Type")))
	if !strings.HasPrefix(declared, "image/") {
		return inspectedFile{}, &UnsupportedMediaError{Filename: fh.Filename, MimeType: declared}
	}

	file, err := fh.Open()
	if err != nil {
		return inspectedFile{}, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	content, err := io.ReadAll(io.LimitReader(file, MaxImageSize+1))
	if err != nil {
		return inspectedFile{}, fmt.Errorf("failed to read uploaded file: %w", err)
	}
	if int64(len(content)) > MaxImageSize {
		return inspectedFile{}, &PayloadTooLargeError{Filename: fh.Filename, Size: int64(len(content)), Limit: MaxImageSize}
	}

	detected := mimetype.Detect(content)
	if !strings.HasPrefix(detected.String(), "image/") {
		f.logger.WithFields(map[string]interface{}{
			"filename": fh.Filename,
			"declared": declared,
			"detected": detected.String(),
		}).Warn("Upload declared as image but content is not")
		return inspectedFile{}, &UnsupportedMediaError{Filename: fh.Filename, MimeType: detected.String()}
	}

	return inspectedFile{header: fh, content: content, mimeType: declared}, nil
}

func (f *fileIntake) save(ctx context.Context, item inspectedFile) (models.StoredImage, error) {
	var lastErr error
	for attempt := 0; attempt < saveAttempts; attempt++ {
		name := f.storedName(item.header.Filename)
		path, err := f.store.Save(ctx, name, item.mimeType, bytes.NewReader(item.content))
		if err == nil {
			return models.StoredImage{
				OriginalName: item.header.Filename,
				StoredName:   name,
				MimeType:     item.mimeType,
				Size:         int64(len(item.content)),
				Path:         path,
			}, nil
		}
		lastErr = err
		if !errors.Is(err, os.ErrExist) {
			break
		}
	}
	return models.StoredImage{}, fmt.Errorf("failed to store %q: %w", item.header.Filename, lastErr)
}

// storedName is <unix millis>-<9 random digits>-<original name>
func (f *fileIntake) storedName(original string) string {
	return fmt.Sprintf("%d-%09d-%s", f.now().UnixMilli(), rand.IntN(1_000_000_000), sanitizeFilename(original))
}

// Discard removes images written for a request that was then rejected
func (f *fileIntake) Discard(ctx context.Context, images []models.StoredImage) {
	for _, img := range images {
		if err := f.store.Remove(ctx, img.StoredName); err != nil {
			f.logger.WithError(err).WithField("stored_name", img.StoredName).Warn("Failed to remove discarded image")
		}
	}
}

func sanitizeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, `\`, "/"))
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		}
		return '_'
	}, name)
	cleaned = strings.Trim(cleaned, ".")
	if cleaned == "" {
		cleaned = "image"
	}
	if len(cleaned) > maxStoredNameBase {
		cleaned = cleaned[len(cleaned)-maxStoredNameBase:]
	}
	return cleaned
}

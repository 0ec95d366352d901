package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"regexp"
	"testing"

	"ylc-be-svc/internal/storage"
)

var storedNamePattern = regexp.MustCompile(`^\d{13}-\d{9}-[A-Za-z0-9._-]+$`)

func dirEntries(t *testing.T, dir string) []os.DirEntry {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	return entries
}

func TestFileIntakeAcceptsImages(t *testing.T) {
	store := newTestStore(t)
	intake := NewFileIntake(store, testLogger())

	files := buildFileHeaders(t,
		testUpload{name: "front.png", contentType: "image/png", content: pngBytes},
		testUpload{name: "back yard.png", contentType: "image/png", content: pngBytes},
	)

	images, err := intake.Accept(context.Background(), files)
	if err != nil {
		t.Fatalf("Accept: %v", err)
	}
	if len(images) != 2 {
		t.Fatalf("got %d images, want 2", len(images))
	}

	for i, img := range images {
		if !storedNamePattern.MatchString(img.StoredName) {
			t.Errorf("stored name %q has unexpected shape", img.StoredName)
		}
		if img.MimeType != "image/png" {
			t.Errorf("MimeType = %q", img.MimeType)
		}
		if img.Size != int64(len(pngBytes)) {
			t.Errorf("Size = %d, want %d", img.Size, len(pngBytes))
		}
		if img.OriginalName != files[i].Filename {
			t.Errorf("OriginalName = %q, want %q", img.OriginalName, files[i].Filename)
		}

		rc, err := store.Open(context.Background(), img.StoredName)
		if err != nil {
			t.Fatalf("Open %s: %v", img.StoredName, err)
		}
		got, _ := io.ReadAll(rc)
		rc.Close()
		if !bytes.Equal(got, pngBytes) {
			t.Errorf("stored bytes differ for %s", img.StoredName)
		}
	}

	if images[0].StoredName == images[1].StoredName {
		t.Errorf("stored names collide: %s", images[0].StoredName)
	}
}

func TestFileIntakeNoFiles(t *testing.T) {
	intake := NewFileIntake(newTestStore(t), testLogger())

	images, err := intake.Accept(context.Background(), nil)
	if err != nil {
		t.Fatalf("Accept: %v", err)
	}
	if len(images) != 0 {
		t.Fatalf("got %d images, want 0", len(images))
	}
}

func TestFileIntakeRejectsDeclaredNonImage(t *testing.T) {
	store := newTestStore(t)
	intake := NewFileIntake(store, testLogger())

	files := buildFileHeaders(t,
		testUpload{name: "ok.png", contentType: "image/png", content: pngBytes},
		testUpload{name: "notes.pdf", contentType: "application/pdf", content: []byte("%PDF-1.4\n")},
	)

	_, err := intake.Accept(context.Background(), files)
	var mediaErr *UnsupportedMediaError
	if !errors.As(err, &mediaErr) {
		t.Fatalf("expected UnsupportedMediaError, got %v", err)
	}
	if mediaErr.Filename != "notes.pdf" {
		t.Errorf("Filename = %q", mediaErr.Filename)
	}
	if n := len(dirEntries(t, store.Dir())); n != 0 {
		t.Errorf("rejected batch left %d files behind", n)
	}
}

func TestFileIntakeRejectsSpoofedImage(t *testing.T) {
	store := newTestStore(t)
	intake := NewFileIntake(store, testLogger())

	files := buildFileHeaders(t,
		testUpload{name: "evil.png", contentType: "image/png", content: []byte("#!/bin/sh\necho hi\n")},
	)

	_, err := intake.Accept(context.Background(), files)
	var mediaErr *UnsupportedMediaError
	if !errors.As(err, &mediaErr) {
		t.Fatalf("expected UnsupportedMediaError, got %v", err)
	}
	if n := len(dirEntries(t, store.Dir())); n != 0 {
		t.Errorf("rejected file was written")
	}
}

func TestFileIntakeRejectsOversizedFile(t *testing.T) {
	store := newTestStore(t)
	intake := NewFileIntake(store, testLogger())

	big := make([]byte, MaxImageSize+1)
	copy(big, pngBytes)
	files := buildFileHeaders(t,
		testUpload{name: "huge.png", contentType: "image/png", content: big},
	)

	_, err := intake.Accept(context.Background(), files)
	var tooLarge *PayloadTooLargeError
	if !errors.As(err, &tooLarge) {
		t.Fatalf("expected PayloadTooLargeError, got %v", err)
	}
	if tooLarge.Limit != MaxImageSize {
		t.Errorf("Limit = %d", tooLarge.Limit)
	}
	if n := len(dirEntries(t, store.Dir())); n != 0 {
		t.Errorf("oversized file was written")
	}
}

func TestFileIntakeAcceptsExactLimit(t *testing.T) {
	intake := NewFileIntake(newTestStore(t), testLogger())

	exact := make([]byte, MaxImageSize)
	copy(exact, pngBytes)
	files := buildFileHeaders(t,
		testUpload{name: "exact.png", contentType: "image/png", content: exact},
	)

	images, err := intake.Accept(context.Background(), files)
	if err != nil {
		t.Fatalf("Accept: %v", err)
	}
	if len(images) != 1 || images[0].Size != MaxImageSize {
		t.Fatalf("unexpected images: %+v", images)
	}
}

// failingStore fails every Save after the first n
type failingStore struct {
	storage.ImageStore
	allowed int
}

func (s *failingStore) Save(ctx context.Context, name, contentType string, r io.Reader) (string, error) {
	if s.allowed <= 0 {
		return "", errors.New("disk full")
	}
	s.allowed--
	return s.ImageStore.Save(ctx, name, contentType, r)
}

func TestFileIntakeRollsBackPartialBatch(t *testing.T) {
	local := newTestStore(t)
	intake := NewFileIntake(&failingStore{ImageStore: local, allowed: 1}, testLogger())

	files := buildFileHeaders(t,
		testUpload{name: "a.png", contentType: "image/png", content: pngBytes},
		testUpload{name: "b.png", contentType: "image/png", content: pngBytes},
	)

	if _, err := intake.Accept(context.Background(), files); err == nil {
		t.Fatal("expected error from failing store")
	}
	if n := len(dirEntries(t, local.Dir())); n != 0 {
		t.Errorf("partial batch left %d files behind", n)
	}
}

func TestFileIntakeDiscard(t *testing.T) {
	store := newTestStore(t)
	intake := NewFileIntake(store, testLogger())

	images, err := intake.Accept(context.Background(), buildFileHeaders(t,
		testUpload{name: "a.png", contentType: "image/png", content: pngBytes},
	))
	if err != nil {
		t.Fatalf("Accept: %v", err)
	}

	intake.Discard(context.Background(), images)
	if n := len(dirEntries(t, store.Dir())); n != 0 {
		t.Errorf("Discard left %d files behind", n)
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"photo.jpg", "photo.jpg"},
		{"my photo (1).jpg", "my_photo__1_.jpg"},
		{"../../etc/passwd", "passwd"},
		{`C:\Users\me\pic.png`, "pic.png"},
		{"...", "image"},
		{"", "image"},
	}

	for _, tt := range tests {
		if got := sanitizeFilename(tt.in); got != tt.want {
			t.Errorf("sanitizeFilename(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

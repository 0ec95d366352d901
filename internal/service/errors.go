package service

import (
	"fmt"
)

// ValidationError means the client omitted a required field
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing required field: %s", e.Field)
}

// UnsupportedMediaError means an uploaded part is not an image
type UnsupportedMediaError struct {
	Filename string
	MimeType string
}

func (e *UnsupportedMediaError) Error() string {
	return fmt.Sprintf("file %q has unsupported type %q", e.Filename, e.MimeType)
}

// PayloadTooLargeError means an uploaded part exceeds the size ceiling
type PayloadTooLargeError struct {
	Filename string
	Size     int64
	Limit    int64
}

func (e *PayloadTooLargeError) Error() string {
	if e.Filename == "" {
		return fmt.Sprintf("upload exceeds %d bytes", e.Limit)
	}
	return fmt.Sprintf("file %q is %d bytes, limit is %d", e.Filename, e.Size, e.Limit)
}

// PersistenceError means the record store rejected or could not take the write
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// NotificationError describes a failed composition or delivery. It is logged, never returned to the client.
type NotificationError struct {
	Kind       string
	Recipient  string
	Diagnostic string
	Err        error
}

func (e *NotificationError) Error() string {
	return fmt.Sprintf("%s notification to %s failed: %v", e.Kind, e.Recipient, e.Err)
}

func (e *NotificationError) Unwrap() error {
	return e.Err
}

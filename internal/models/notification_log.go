package models

import (
	"time"
)

// Notification kinds
const (
	NotificationKindOperator = "operator"
	NotificationKindCustomer = "customer"
)

// Notification statuses
const (
	NotificationStatusSent    = "SENT"
	NotificationStatusFailed  = "FAILED"
	NotificationStatusSkipped = "SKIPPED"
)

// NotificationLog represents the notification_logs table, one row per delivery attempt
type NotificationLog struct {
	ID                uint      `json:"id" gorm:"primarykey"`
	DocumentID        string    `json:"document_id" gorm:"column:document_id;size:64"`
	QuoteID           uint      `json:"quote_id" gorm:"column:quote_id;index"`
	Kind              string    `json:"kind" gorm:"column:kind;size:32"`
	Recipient         string    `json:"recipient" gorm:"column:recipient;size:255"`
	ReferenceCode     *string   `json:"reference_code" gorm:"column:reference_code;size:32"`
	Status            string    `json:"status" gorm:"column:status;size:16"`
	ProviderMessageID *string   `json:"provider_message_id" gorm:"column:provider_message_id;size:128"`
	Diagnostic        *string   `json:"diagnostic" gorm:"column:diagnostic;type:text"`
	CreatedAt         time.Time `json:"created_at"`
}

// TableName sets the insert table name for NotificationLog
func (NotificationLog) TableName() string {
	return "notification_logs"
}

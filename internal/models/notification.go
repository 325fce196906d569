package models

import (
	"time"
)

// NotificationLog is the per-channel send audit trail. One row per channel
// attempt, written by the pipeline after dispatch.
type NotificationLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	InvoiceID string    `gorm:"size:50;index;not null" json:"invoice_id"`
	Channel   string    `gorm:"size:20;not null" json:"channel"` // email, sms, whatsapp
	Success   bool      `json:"success"`
	Detail    string    `gorm:"type:text" json:"detail,omitempty"`
	SentAt    time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"sent_at"`
}

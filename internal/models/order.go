package models

import (
	"time"
)

// Order statuses. No state machine is enforced: any status may follow any
// other, callers own the transitions.
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusDelivered  = "delivered"
)

// ValidStatus reports whether s is one of the recognized order statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusProcessing, StatusCompleted, StatusDelivered:
		return true
	}
	return false
}

type Order struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	InvoiceID  string    `gorm:"size:50;unique;not null" json:"invoice_id"`
	CustomerID uint      `json:"customer_id"`
	Customer   *Customer `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`

	// Customer fields are denormalized onto the order for read convenience;
	// the Customer row exists only for the foreign key.
	CustomerName string `gorm:"size:100;not null" json:"customer_name"`
	PhoneNumber  string `gorm:"size:20;not null" json:"phone_number"`
	EmailAddress string `gorm:"size:100;not null" json:"email_address"`

	ItemType     string   `gorm:"size:50;not null" json:"item_type"`
	Size         string   `gorm:"size:50;not null" json:"size"`
	Quantity     int      `gorm:"not null" json:"quantity"`
	Rate         float64  `gorm:"type:decimal(10,2);not null" json:"rate"`
	Total        float64  `gorm:"type:decimal(10,2);not null" json:"total"`
	DeliveryType string   `gorm:"size:50;not null" json:"delivery_type"`
	PaymentMode  string   `gorm:"size:50;not null" json:"payment_mode"`
	Status       string   `gorm:"size:20;default:'pending'" json:"status"`
	Notes        string   `gorm:"type:text" json:"notes"`
	Material     string   `gorm:"size:100" json:"material,omitempty"`
	Lamination   *bool    `json:"lamination,omitempty"`
	Discount     *float64 `gorm:"type:decimal(5,2)" json:"discount,omitempty"`

	PDFFilePath  string `gorm:"size:255" json:"pdf_file_path"`
	JSONFilePath string `gorm:"size:255" json:"json_file_path"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DiscountPercent returns the discount as a plain number, 0 when absent.
func (o *Order) DiscountPercent() float64 {
	if o.Discount == nil {
		return 0
	}
	return *o.Discount
}

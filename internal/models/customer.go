package models

import (
	"time"
)

// Customer rows are deduplicated on (phone, email): the store inserts with
// FirstOrCreate and never updates identity fields afterwards, so a name
// change on a later order does not propagate here.
type Customer struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"size:100;not null" json:"name"`
	PhoneNumber  string    `gorm:"size:20;not null;uniqueIndex:idx_customer_identity" json:"phone_number"`
	EmailAddress string    `gorm:"size:100;not null;uniqueIndex:idx_customer_identity" json:"email_address"`
	CreatedAt    time.Time `json:"created_at"`
}

package pipeline

import (
	"errors"
	"fmt"
	"strings"

	"github.com/agnar3901/sign-manufacturing-app/internal/models"
)

// OrderRequest is the raw order payload submitted by the web application.
type OrderRequest struct {
	InvoiceID    string   `json:"invoice_id,omitempty"`
	CustomerName string   `json:"customer_name" binding:"required"`
	PhoneNumber  string   `json:"phone_number" binding:"required"`
	EmailAddress string   `json:"email_address" binding:"required"`
	ItemType     string   `json:"item_type" binding:"required"`
	Size         string   `json:"size" binding:"required"`
	Quantity     int      `json:"quantity" binding:"required"`
	Rate         *float64 `json:"rate" binding:"required"`
	Total        *float64 `json:"total,omitempty"`
	DeliveryType string   `json:"delivery_type" binding:"required"`
	PaymentMode  string   `json:"payment_mode" binding:"required"`
	Notes        string   `json:"notes,omitempty"`
	Material     string   `json:"material,omitempty"`
	Lamination   *bool    `json:"lamination,omitempty"`
	Discount     *float64 `json:"discount,omitempty"`
}

// Validate checks the required fields and value ranges.
func (r *OrderRequest) Validate() error {
	var missing []string
	for field, value := range map[string]string{
		"customer_name": r.CustomerName,
		"phone_number":  r.PhoneNumber,
		"email_address": r.EmailAddress,
		"item_type":     r.ItemType,
		"size":          r.Size,
		"delivery_type": r.DeliveryType,
		"payment_mode":  r.PaymentMode,
	} {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, field)
		}
	}
	// Rate is a pointer so an omitted field is distinguishable from an
	// explicit zero: only absence is a missing field.
	if r.Rate == nil {
		missing = append(missing, "rate")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required fields: %s", strings.Join(missing, ", "))
	}
	if r.Quantity <= 0 {
		return errors.New("quantity must be a positive integer")
	}
	if *r.Rate < 0 {
		return errors.New("rate must not be negative")
	}
	if r.Discount != nil && (*r.Discount < 0 || *r.Discount > 100) {
		return errors.New("discount must be between 0 and 100")
	}
	return nil
}

// ToOrder maps the normalized request onto the persistence model.
func (r *OrderRequest) ToOrder() *models.Order {
	var rate, total float64
	if r.Rate != nil {
		rate = *r.Rate
	}
	if r.Total != nil {
		total = *r.Total
	}
	return &models.Order{
		InvoiceID:    r.InvoiceID,
		CustomerName: r.CustomerName,
		PhoneNumber:  r.PhoneNumber,
		EmailAddress: r.EmailAddress,
		ItemType:     r.ItemType,
		Size:         r.Size,
		Quantity:     r.Quantity,
		Rate:         rate,
		Total:        total,
		DeliveryType: r.DeliveryType,
		PaymentMode:  r.PaymentMode,
		Status:       models.StatusPending,
		Notes:        r.Notes,
		Material:     r.Material,
		Lamination:   r.Lamination,
		Discount:     r.Discount,
	}
}

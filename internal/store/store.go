package store

import (
	"errors"
	"fmt"
	"time"

	"github.com/agnar3901/sign-manufacturing-app/internal/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	// ErrDuplicateInvoice is returned by Create when the invoice id is
	// already present. There is no implicit upsert; callers check first.
	ErrDuplicateInvoice = errors.New("invoice id already exists")

	// ErrOrderNotFound is returned when an operation targets an invoice id
	// with no row. Detected via zero affected rows, not a driver error.
	ErrOrderNotFound = errors.New("order not found")
)

// Store provides row-oriented persistence for orders and customers, keyed
// by invoice id.
type Store struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

func New(db *gorm.DB, log *zap.SugaredLogger) *Store {
	return &Store{db: db, log: log}
}

// AutoMigrate creates or updates the customers, orders and
// notification_logs tables.
func (s *Store) AutoMigrate() error {
	return s.db.AutoMigrate(
		&models.Customer{},
		&models.Order{},
		&models.NotificationLog{},
	)
}

// Exists reports whether an order with the given invoice id is persisted.
func (s *Store) Exists(invoiceID string) (bool, error) {
	var count int64
	if err := s.db.Model(&models.Order{}).Where("invoice_id = ?", invoiceID).Count(&count).Error; err != nil {
		return false, fmt.Errorf("count orders: %w", err)
	}
	return count > 0, nil
}

// Create persists the order, upserting its customer first. The customer is
// matched on (phone, email) with insert-or-ignore semantics: an existing
// row is reused as-is, identity fields are never updated.
func (s *Store) Create(order *models.Order) error {
	exists, err := s.Exists(order.InvoiceID)
	if err != nil {
		return err
	}
	if exists {
		return ErrDuplicateInvoice
	}

	var customer models.Customer
	if err := s.db.Where(models.Customer{
		PhoneNumber:  order.PhoneNumber,
		EmailAddress: order.EmailAddress,
	}).Attrs(models.Customer{
		Name: order.CustomerName,
	}).FirstOrCreate(&customer).Error; err != nil {
		return fmt.Errorf("upsert customer: %w", err)
	}
	order.CustomerID = customer.ID

	if err := s.db.Create(order).Error; err != nil {
		return fmt.Errorf("create order: %w", err)
	}
	return nil
}

// GetByInvoiceID fetches a single order.
func (s *Store) GetByInvoiceID(invoiceID string) (*models.Order, error) {
	var order models.Order
	err := s.db.Where("invoice_id = ?", invoiceID).First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	return &order, nil
}

// UpdateStatus sets the order status and refreshes the updated timestamp.
func (s *Store) UpdateStatus(invoiceID, status string) error {
	res := s.db.Model(&models.Order{}).Where("invoice_id = ?", invoiceID).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return fmt.Errorf("update status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrOrderNotFound
	}
	return nil
}

// Delete removes the order row. Generated files are left on disk.
func (s *Store) Delete(invoiceID string) error {
	res := s.db.Where("invoice_id = ?", invoiceID).Delete(&models.Order{})
	if res.Error != nil {
		return fmt.Errorf("delete order: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrOrderNotFound
	}
	return nil
}

// RecordNotification appends one audit row for a channel send attempt.
func (s *Store) RecordNotification(invoiceID, channel string, success bool, detail string) error {
	entry := models.NotificationLog{
		InvoiceID: invoiceID,
		Channel:   channel,
		Success:   success,
		Detail:    detail,
		SentAt:    time.Now(),
	}
	if err := s.db.Create(&entry).Error; err != nil {
		return fmt.Errorf("record notification: %w", err)
	}
	return nil
}

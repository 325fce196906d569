package store

import (
	"fmt"
	"time"

	"github.com/agnar3901/sign-manufacturing-app/internal/models"

	"gorm.io/gorm"
)

const (
	defaultPageSize = 20

	// pendingPageSize effectively disables pagination for the pending
	// view: truncating it would hide orders the shop still has to make.
	pendingPageSize = 1000
)

// ListFilter narrows the order listing. Zero values mean "no filter".
type ListFilter struct {
	Status string
	Search string // matched against customer name, invoice id and phone
	Date   string // YYYY-MM-DD, limits to that calendar day
	Page   int
	Limit  int
}

// ListResult is one page of orders plus the total count for the same
// predicate (computed without the pagination clause).
type ListResult struct {
	Orders []models.Order
	Total  int64
}

// List returns orders ordered by creation time descending.
func (s *Store) List(f ListFilter) (*ListResult, error) {
	query := s.db.Model(&models.Order{})
	query = applyFilter(query, f)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("count orders: %w", err)
	}

	page := f.Page
	if page < 1 {
		page = 1
	}
	limit := f.Limit
	if limit < 1 {
		limit = defaultPageSize
	}
	if f.Status == models.StatusPending {
		limit = pendingPageSize
	}

	var orders []models.Order
	if err := query.Order("created_at desc").
		Limit(limit).Offset((page - 1) * limit).
		Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}

	return &ListResult{Orders: orders, Total: total}, nil
}

func applyFilter(query *gorm.DB, f ListFilter) *gorm.DB {
	if f.Date != "" {
		if day, err := time.Parse("2006-01-02", f.Date); err == nil {
			query = query.Where("created_at >= ? AND created_at < ?", day, day.Add(24*time.Hour))
		}
	}
	if f.Search != "" {
		like := "%" + f.Search + "%"
		query = query.Where("customer_name LIKE ? OR invoice_id LIKE ? OR phone_number LIKE ?", like, like, like)
	}
	if f.Status != "" {
		query = query.Where("status = ?", f.Status)
	}
	return query
}

package store

import (
	"fmt"
	"time"

	"github.com/agnar3901/sign-manufacturing-app/internal/models"
)

// MonthlyStats aggregates the current calendar month's orders.
type MonthlyStats struct {
	TotalOrders int     `json:"totalOrders"`
	Revenue     float64 `json:"revenue"`
	Customers   int64   `json:"customers"`
	Pending     int64   `json:"pending"`
}

// GetMonthlyStats computes order count, discount-adjusted revenue, distinct
// customer count and pending count for the month containing now.
func (s *Store) GetMonthlyStats() (*MonthlyStats, error) {
	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	monthEnd := monthStart.AddDate(0, 1, 0)

	inMonth := "created_at >= ? AND created_at < ?"

	var orders []models.Order
	if err := s.db.Select("total", "discount").
		Where(inMonth, monthStart, monthEnd).
		Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("fetch monthly orders: %w", err)
	}

	stats := &MonthlyStats{TotalOrders: len(orders)}
	for _, o := range orders {
		stats.Revenue += o.Total - o.Total*o.DiscountPercent()/100
	}

	if err := s.db.Model(&models.Order{}).
		Where(inMonth, monthStart, monthEnd).
		Distinct("customer_id").Count(&stats.Customers).Error; err != nil {
		return nil, fmt.Errorf("count monthly customers: %w", err)
	}

	if err := s.db.Model(&models.Order{}).
		Where("status = ?", models.StatusPending).
		Where(inMonth, monthStart, monthEnd).
		Count(&stats.Pending).Error; err != nil {
		return nil, fmt.Errorf("count pending orders: %w", err)
	}

	return stats, nil
}

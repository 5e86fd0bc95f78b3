package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/azizjun/kvartal-api/internal/models"
)

// DashboardSummary aggregates the headline numbers shown on the dashboard
type DashboardSummary struct {
	TotalComplexes      int64   `json:"total_complexes"`
	TotalBlocks         int64   `json:"total_blocks"`
	TotalApartments     int64   `json:"total_apartments"`
	AvailableApartments int64   `json:"available_apartments"`
	ReservedApartments  int64   `json:"reserved_apartments"`
	SoldApartments      int64   `json:"sold_apartments"`
	TotalClients        int64   `json:"total_clients"`
	ActiveContracts     int64   `json:"active_contracts"`
	TotalRevenue        float64 `json:"total_revenue"`
	OutstandingAmount   float64 `json:"outstanding_amount"`
}

// MonthlyRevenue is one month's worth of confirmed payment income
type MonthlyRevenue struct {
	Month   string  `json:"month"`
	Revenue float64 `json:"revenue"`
	Count   int64   `json:"count"`
}

// ComplexOccupancy summarizes sales progress for one complex
type ComplexOccupancy struct {
	ComplexID   uint   `json:"complex_id"`
	ComplexName string `json:"complex_name"`
	Total       int64  `json:"total"`
	Sold        int64  `json:"sold"`
	Reserved    int64  `json:"reserved"`
	Available   int64  `json:"available"`
}

// AnalyticsRepository defines the interface for dashboard aggregations
type AnalyticsRepository interface {
	GetDashboardSummary(ctx context.Context) (*DashboardSummary, error)
	GetMonthlyRevenue(ctx context.Context, months int) ([]MonthlyRevenue, error)
	GetComplexOccupancy(ctx context.Context) ([]ComplexOccupancy, error)
}

type analyticsRepository struct {
	db *gorm.DB
}

// NewAnalyticsRepository creates a new analytics repository
func NewAnalyticsRepository(db *gorm.DB) AnalyticsRepository {
	return &analyticsRepository{db: db}
}

func (r *analyticsRepository) GetDashboardSummary(ctx context.Context) (*DashboardSummary, error) {
	summary := &DashboardSummary{}
	db := r.db.WithContext(ctx)

	if err := db.Model(&models.Complex{}).Count(&summary.TotalComplexes).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Block{}).Count(&summary.TotalBlocks).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Apartment{}).Count(&summary.TotalApartments).Error; err != nil {
		return nil, err
	}

	type statusCount struct {
		Status string
		Count  int64
	}
	var counts []statusCount
	err := db.Model(&models.Apartment{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	for _, c := range counts {
		switch c.Status {
		case models.ApartmentStatusAvailable:
			summary.AvailableApartments = c.Count
		case models.ApartmentStatusReserved:
			summary.ReservedApartments = c.Count
		case models.ApartmentStatusSold:
			summary.SoldApartments = c.Count
		}
	}

	if err := db.Model(&models.Client{}).Count(&summary.TotalClients).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Contract{}).
		Where("status = ?", models.ContractStatusActive).
		Count(&summary.ActiveContracts).Error; err != nil {
		return nil, err
	}

	type money struct {
		Revenue     float64
		Outstanding float64
	}
	var m money
	err = db.Model(&models.Contract{}).
		Select("COALESCE(SUM(paid_amount), 0) as revenue, COALESCE(SUM(total_amount - paid_amount), 0) as outstanding").
		Where("status IN ?", []string{models.ContractStatusActive, models.ContractStatusCompleted}).
		Scan(&m).Error
	if err != nil {
		return nil, err
	}
	summary.TotalRevenue = m.Revenue
	summary.OutstandingAmount = m.Outstanding

	return summary, nil
}

// GetMonthlyRevenue sums confirmed payments bucketed by calendar month. The
// bucketing is done in Go to stay portable across database engines.
func (r *analyticsRepository) GetMonthlyRevenue(ctx context.Context, months int) ([]MonthlyRevenue, error) {
	if months <= 0 {
		months = 12
	}
	since := time.Now().AddDate(0, -months, 0)

	var payments []models.Payment
	err := r.db.WithContext(ctx).
		Where("status = ? AND payment_date >= ?", models.PaymentStatusCompleted, since).
		Order("payment_date ASC").
		Find(&payments).Error
	if err != nil {
		return nil, err
	}

	buckets := make(map[string]*MonthlyRevenue)
	var order []string
	for _, p := range payments {
		key := p.PaymentDate.Format("2006-01")
		b, ok := buckets[key]
		if !ok {
			b = &MonthlyRevenue{Month: key}
			buckets[key] = b
			order = append(order, key)
		}
		b.Revenue += p.Amount
		b.Count++
	}

	result := make([]MonthlyRevenue, 0, len(order))
	for _, key := range order {
		result = append(result, *buckets[key])
	}
	return result, nil
}

func (r *analyticsRepository) GetComplexOccupancy(ctx context.Context) ([]ComplexOccupancy, error) {
	var rows []ComplexOccupancy
	err := r.db.WithContext(ctx).
		Table("complexes").
		Select(`complexes.id as complex_id,
			complexes.name as complex_name,
			COUNT(apartments.id) as total,
			SUM(CASE WHEN apartments.status = ? THEN 1 ELSE 0 END) as sold,
			SUM(CASE WHEN apartments.status = ? THEN 1 ELSE 0 END) as reserved,
			SUM(CASE WHEN apartments.status = ? THEN 1 ELSE 0 END) as available`,
			models.ApartmentStatusSold, models.ApartmentStatusReserved, models.ApartmentStatusAvailable).
		Joins("LEFT JOIN blocks ON blocks.complex_id = complexes.id").
		Joins("LEFT JOIN apartments ON apartments.block_id = blocks.id").
		Group("complexes.id, complexes.name").
		Order("complexes.name ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, err
}

package services

import (
	"context"

	"github.com/azizjun/kvartal-api/internal/repository"
)

// DashboardData bundles everything the dashboard screen renders
type DashboardData struct {
	Summary          *repository.DashboardSummary  `json:"summary"`
	ContractStats    *repository.ContractStats     `json:"contract_stats"`
	MonthlyRevenue   []repository.MonthlyRevenue   `json:"monthly_revenue"`
	ComplexOccupancy []repository.ComplexOccupancy `json:"complex_occupancy"`
	LayoutCounts     map[string]int64              `json:"layout_counts"`
	PassportCounts   map[string]int64              `json:"passport_counts"`
}

// AnalyticsService aggregates dashboard metrics
type AnalyticsService struct {
	repo         repository.AnalyticsRepository
	contractRepo repository.ContractRepository
	layoutRepo   repository.LayoutRepository
	passportRepo repository.TechPassportRepository
}

func NewAnalyticsService(
	repo repository.AnalyticsRepository,
	contractRepo repository.ContractRepository,
	layoutRepo repository.LayoutRepository,
	passportRepo repository.TechPassportRepository,
) *AnalyticsService {
	return &AnalyticsService{
		repo:         repo,
		contractRepo: contractRepo,
		layoutRepo:   layoutRepo,
		passportRepo: passportRepo,
	}
}

// GetDashboard assembles the full dashboard payload.
func (s *AnalyticsService) GetDashboard(ctx context.Context, revenueMonths int) (*DashboardData, error) {
	summary, err := s.repo.GetDashboardSummary(ctx)
	if err != nil {
		return nil, err
	}

	contractStats, err := s.contractRepo.GetStats(ctx)
	if err != nil {
		return nil, err
	}

	revenue, err := s.repo.GetMonthlyRevenue(ctx, revenueMonths)
	if err != nil {
		return nil, err
	}

	occupancy, err := s.repo.GetComplexOccupancy(ctx)
	if err != nil {
		return nil, err
	}

	layoutCounts, err := s.layoutRepo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}

	passportCounts, err := s.passportRepo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}

	return &DashboardData{
		Summary:          summary,
		ContractStats:    contractStats,
		MonthlyRevenue:   revenue,
		ComplexOccupancy: occupancy,
		LayoutCounts:     layoutCounts,
		PassportCounts:   passportCounts,
	}, nil
}

func (s *AnalyticsService) GetSummary(ctx context.Context) (*repository.DashboardSummary, error) {
	return s.repo.GetDashboardSummary(ctx)
}

func (s *AnalyticsService) GetComplexOccupancy(ctx context.Context) ([]repository.ComplexOccupancy, error) {
	return s.repo.GetComplexOccupancy(ctx)
}

func (s *AnalyticsService) GetMonthlyRevenue(ctx context.Context, months int) ([]repository.MonthlyRevenue, error) {
	return s.repo.GetMonthlyRevenue(ctx, months)
}

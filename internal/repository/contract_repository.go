package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/azizjun/kvartal-api/internal/models"
)

// ContractRepository defines the interface for contract data access
type ContractRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Contract, error)
	FindByIDWithDetails(ctx context.Context, id uint) (*models.Contract, error)
	FindByNumber(ctx context.Context, number string) (*models.Contract, error)
	FindByClient(ctx context.Context, clientID uint) ([]models.Contract, error)
	FindHoldingApartment(ctx context.Context, apartmentID uint) (*models.Contract, error)
	Create(ctx context.Context, tx *gorm.DB, contract *models.Contract) error
	Update(ctx context.Context, contract *models.Contract) error
	UpdateTx(ctx context.Context, tx *gorm.DB, contract *models.Contract) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error
	List(ctx context.Context, query *ContractQuery) ([]models.Contract, int64, error)
	FindFullyPaidActive(ctx context.Context) ([]models.Contract, error)
	AdjustPaidAmount(ctx context.Context, tx *gorm.DB, id uint, delta float64) error
	GetStats(ctx context.Context) (*ContractStats, error)
}

// ContractQuery extends ListQuery with contract-specific filters
type ContractQuery struct {
	*ListQuery
	Status      string
	ClientID    uint
	ApartmentID uint
	ComplexID   uint
	CreatorID   uint
	DateFrom    *time.Time
	DateTo      *time.Time
}

// ContractStats aggregates contract totals for the dashboard
type ContractStats struct {
	Total          int64   `json:"total"`
	Active         int64   `json:"active"`
	Completed      int64   `json:"completed"`
	Cancelled      int64   `json:"cancelled"`
	TotalValue     float64 `json:"total_value"`
	TotalCollected float64 `json:"total_collected"`
}

type contractRepository struct {
	db *gorm.DB
}

// NewContractRepository creates a new contract repository
func NewContractRepository(db *gorm.DB) ContractRepository {
	return &contractRepository{db: db}
}

func (r *contractRepository) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *contractRepository) FindByID(ctx context.Context, id uint) (*models.Contract, error) {
	var contract models.Contract
	err := r.db.WithContext(ctx).First(&contract, id).Error
	if err != nil {
		return nil, err
	}
	return &contract, nil
}

func (r *contractRepository) FindByIDWithDetails(ctx context.Context, id uint) (*models.Contract, error) {
	var contract models.Contract
	err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Apartment").
		Preload("Apartment.Block").
		Preload("Apartment.Block.Complex").
		Preload("Creator").
		Preload("Payments", func(db *gorm.DB) *gorm.DB {
			return db.Order("payment_date ASC")
		}).
		First(&contract, id).Error
	if err != nil {
		return nil, err
	}
	return &contract, nil
}

func (r *contractRepository) FindByNumber(ctx context.Context, number string) (*models.Contract, error) {
	var contract models.Contract
	err := r.db.WithContext(ctx).
		Where("contract_number = ?", number).
		First(&contract).Error
	if err != nil {
		return nil, err
	}
	return &contract, nil
}

func (r *contractRepository) FindByClient(ctx context.Context, clientID uint) ([]models.Contract, error) {
	var contracts []models.Contract
	err := r.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Preload("Apartment").
		Order("created_at DESC").
		Find(&contracts).Error
	return contracts, err
}

// FindHoldingApartment returns the pending or active contract that currently
// holds the apartment, if any.
func (r *contractRepository) FindHoldingApartment(ctx context.Context, apartmentID uint) (*models.Contract, error) {
	var contract models.Contract
	err := r.db.WithContext(ctx).
		Where("apartment_id = ? AND status IN ?", apartmentID,
			[]string{models.ContractStatusPending, models.ContractStatusActive}).
		First(&contract).Error
	if err != nil {
		return nil, err
	}
	return &contract, nil
}

func (r *contractRepository) Create(ctx context.Context, tx *gorm.DB, contract *models.Contract) error {
	return r.conn(tx).WithContext(ctx).Create(contract).Error
}

func (r *contractRepository) Update(ctx context.Context, contract *models.Contract) error {
	return r.db.WithContext(ctx).Save(contract).Error
}

func (r *contractRepository) UpdateTx(ctx context.Context, tx *gorm.DB, contract *models.Contract) error {
	return r.conn(tx).WithContext(ctx).Save(contract).Error
}

func (r *contractRepository) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	return r.conn(tx).WithContext(ctx).Delete(&models.Contract{}, id).Error
}

var contractSortColumns = map[string]bool{
	"contract_number": true,
	"total_amount":    true,
	"paid_amount":     true,
	"start_date":      true,
	"status":          true,
	"created_at":      true,
}

func (r *contractRepository) List(ctx context.Context, query *ContractQuery) ([]models.Contract, int64, error) {
	var contracts []models.Contract
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Contract{}).
		Preload("Client").
		Preload("Apartment").
		Preload("Apartment.Block")

	if query.Status != "" {
		db = db.Where("contracts.status = ?", query.Status)
	}
	if query.ClientID > 0 {
		db = db.Where("contracts.client_id = ?", query.ClientID)
	}
	if query.ApartmentID > 0 {
		db = db.Where("contracts.apartment_id = ?", query.ApartmentID)
	}
	if query.CreatorID > 0 {
		db = db.Where("contracts.creator_id = ?", query.CreatorID)
	}
	if query.ComplexID > 0 {
		db = db.Where("contracts.apartment_id IN (SELECT a.id FROM apartments a JOIN blocks b ON b.id = a.block_id WHERE b.complex_id = ?)", query.ComplexID)
	}
	if query.DateFrom != nil {
		db = db.Where("contracts.start_date >= ?", *query.DateFrom)
	}
	if query.DateTo != nil {
		db = db.Where("contracts.start_date <= ?", *query.DateTo)
	}
	if query.Search != "" {
		search := "%" + query.Search + "%"
		db = db.Where(
			"contracts.contract_number LIKE ? OR contracts.client_id IN (SELECT id FROM clients WHERE LOWER(full_name) LIKE LOWER(?) OR phone LIKE ?)",
			search, search, search)
	}

	db.Count(&total)

	db = db.Order(query.OrderClause("contracts.created_at DESC", contractSortColumns))

	if query.PerPage > 0 {
		db = db.Offset(query.Offset()).Limit(query.PerPage)
	}

	err := db.Find(&contracts).Error
	return contracts, total, err
}

// FindFullyPaidActive returns active contracts whose paid amount has reached
// the total. Consumed by the scheduled completion sweep.
func (r *contractRepository) FindFullyPaidActive(ctx context.Context) ([]models.Contract, error) {
	var contracts []models.Contract
	err := r.db.WithContext(ctx).
		Where("status = ? AND paid_amount >= total_amount", models.ContractStatusActive).
		Find(&contracts).Error
	return contracts, err
}

// AdjustPaidAmount shifts paid_amount atomically at the database level so
// concurrent payment confirmations cannot lose updates.
func (r *contractRepository) AdjustPaidAmount(ctx context.Context, tx *gorm.DB, id uint, delta float64) error {
	return r.conn(tx).WithContext(ctx).
		Model(&models.Contract{}).
		Where("id = ?", id).
		Update("paid_amount", gorm.Expr("paid_amount + ?", delta)).Error
}

func (r *contractRepository) GetStats(ctx context.Context) (*ContractStats, error) {
	stats := &ContractStats{}

	err := r.db.WithContext(ctx).Model(&models.Contract{}).Count(&stats.Total).Error
	if err != nil {
		return nil, err
	}

	type statusCount struct {
		Status string
		Count  int64
	}
	var counts []statusCount
	err = r.db.WithContext(ctx).Model(&models.Contract{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	for _, c := range counts {
		switch c.Status {
		case models.ContractStatusActive:
			stats.Active = c.Count
		case models.ContractStatusCompleted:
			stats.Completed = c.Count
		case models.ContractStatusCancelled:
			stats.Cancelled = c.Count
		}
	}

	type sums struct {
		TotalValue     float64
		TotalCollected float64
	}
	var s sums
	err = r.db.WithContext(ctx).Model(&models.Contract{}).
		Select("COALESCE(SUM(total_amount), 0) as total_value, COALESCE(SUM(paid_amount), 0) as total_collected").
		Where("status IN ?", []string{models.ContractStatusActive, models.ContractStatusCompleted}).
		Scan(&s).Error
	if err != nil {
		return nil, err
	}
	stats.TotalValue = s.TotalValue
	stats.TotalCollected = s.TotalCollected

	return stats, nil
}

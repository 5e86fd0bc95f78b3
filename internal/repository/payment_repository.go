package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/azizjun/kvartal-api/internal/models"
)

// PaymentRepository defines the interface for payment data access
type PaymentRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Payment, error)
	FindByIDWithContract(ctx context.Context, id uint) (*models.Payment, error)
	FindByContract(ctx context.Context, contractID uint) ([]models.Payment, error)
	Create(ctx context.Context, tx *gorm.DB, payment *models.Payment) error
	Update(ctx context.Context, tx *gorm.DB, payment *models.Payment) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error
	List(ctx context.Context, query *PaymentQuery) ([]models.Payment, int64, error)
	SumCompletedByContract(ctx context.Context, tx *gorm.DB, contractID uint) (float64, error)
	FindOverdue(ctx context.Context, asOf time.Time) ([]models.Payment, error)
	CountPendingByContract(ctx context.Context, contractID uint) (int64, error)
}

// PaymentQuery extends ListQuery with payment-specific filters
type PaymentQuery struct {
	*ListQuery
	ContractID uint
	ClientID   uint
	Status     string
	Type       string
	DateFrom   *time.Time
	DateTo     *time.Time
}

type paymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository creates a new payment repository
func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *paymentRepository) FindByID(ctx context.Context, id uint) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.WithContext(ctx).First(&payment, id).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *paymentRepository) FindByIDWithContract(ctx context.Context, id uint) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.WithContext(ctx).
		Preload("Contract").
		Preload("Contract.Client").
		First(&payment, id).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *paymentRepository) FindByContract(ctx context.Context, contractID uint) ([]models.Payment, error) {
	var payments []models.Payment
	err := r.db.WithContext(ctx).
		Where("contract_id = ?", contractID).
		Order("payment_date ASC").
		Find(&payments).Error
	return payments, err
}

func (r *paymentRepository) Create(ctx context.Context, tx *gorm.DB, payment *models.Payment) error {
	return r.conn(tx).WithContext(ctx).Create(payment).Error
}

func (r *paymentRepository) Update(ctx context.Context, tx *gorm.DB, payment *models.Payment) error {
	return r.conn(tx).WithContext(ctx).Save(payment).Error
}

func (r *paymentRepository) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	return r.conn(tx).WithContext(ctx).Delete(&models.Payment{}, id).Error
}

var paymentSortColumns = map[string]bool{
	"payment_number": true,
	"amount":         true,
	"payment_date":   true,
	"status":         true,
	"created_at":     true,
}

func (r *paymentRepository) List(ctx context.Context, query *PaymentQuery) ([]models.Payment, int64, error) {
	var payments []models.Payment
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Payment{}).
		Preload("Contract").
		Preload("Contract.Client")

	if query.ContractID > 0 {
		db = db.Where("payments.contract_id = ?", query.ContractID)
	}
	if query.ClientID > 0 {
		db = db.Where("payments.contract_id IN (SELECT id FROM contracts WHERE client_id = ?)", query.ClientID)
	}
	if query.Status != "" {
		db = db.Where("payments.status = ?", query.Status)
	}
	if query.Type != "" {
		db = db.Where("payments.payment_type = ?", query.Type)
	}
	if query.DateFrom != nil {
		db = db.Where("payments.payment_date >= ?", *query.DateFrom)
	}
	if query.DateTo != nil {
		db = db.Where("payments.payment_date <= ?", *query.DateTo)
	}
	if query.Search != "" {
		search := "%" + query.Search + "%"
		db = db.Where(
			"payments.payment_number LIKE ? OR payments.contract_id IN (SELECT id FROM contracts WHERE contract_number LIKE ?)",
			search, search)
	}

	db.Count(&total)

	db = db.Order(query.OrderClause("payments.payment_date DESC", paymentSortColumns))

	if query.PerPage > 0 {
		db = db.Offset(query.Offset()).Limit(query.PerPage)
	}

	err := db.Find(&payments).Error
	return payments, total, err
}

// SumCompletedByContract totals the confirmed payments for a contract.
func (r *paymentRepository) SumCompletedByContract(ctx context.Context, tx *gorm.DB, contractID uint) (float64, error) {
	var sum float64
	err := r.conn(tx).WithContext(ctx).
		Model(&models.Payment{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("contract_id = ? AND status = ?", contractID, models.PaymentStatusCompleted).
		Scan(&sum).Error
	return sum, err
}

// FindOverdue returns pending payments whose due date has passed. Only
// payments on active contracts count as overdue.
func (r *paymentRepository) FindOverdue(ctx context.Context, asOf time.Time) ([]models.Payment, error) {
	var payments []models.Payment
	err := r.db.WithContext(ctx).
		Preload("Contract").
		Preload("Contract.Client").
		Where("payments.status = ? AND payments.payment_date < ?", models.PaymentStatusPending, asOf).
		Where("payments.contract_id IN (SELECT id FROM contracts WHERE status = ?)", models.ContractStatusActive).
		Order("payments.payment_date ASC").
		Find(&payments).Error
	return payments, err
}

func (r *paymentRepository) CountPendingByContract(ctx context.Context, contractID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Payment{}).
		Where("contract_id = ? AND status = ?", contractID, models.PaymentStatusPending).
		Count(&count).Error
	return count, err
}

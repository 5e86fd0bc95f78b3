package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/azizjun/kvartal-api/internal/models"
)

// TechPassportRepository defines the interface for technical passport data access
type TechPassportRepository interface {
	FindByID(ctx context.Context, id uint) (*models.TechPassport, error)
	FindByContract(ctx context.Context, contractID uint) (*models.TechPassport, error)
	Create(ctx context.Context, passport *models.TechPassport) error
	Update(ctx context.Context, passport *models.TechPassport) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, query *TechPassportQuery) ([]models.TechPassport, int64, error)
	CountByStatus(ctx context.Context) (map[string]int64, error)
}

// TechPassportQuery extends ListQuery with passport-specific filters
type TechPassportQuery struct {
	*ListQuery
	ClientID uint
	Status   string
}

type techPassportRepository struct {
	db *gorm.DB
}

// NewTechPassportRepository creates a new technical passport repository
func NewTechPassportRepository(db *gorm.DB) TechPassportRepository {
	return &techPassportRepository{db: db}
}

func (r *techPassportRepository) FindByID(ctx context.Context, id uint) (*models.TechPassport, error) {
	var passport models.TechPassport
	err := r.db.WithContext(ctx).
		Preload("Contract").
		Preload("Client").
		First(&passport, id).Error
	if err != nil {
		return nil, err
	}
	return &passport, nil
}

func (r *techPassportRepository) FindByContract(ctx context.Context, contractID uint) (*models.TechPassport, error) {
	var passport models.TechPassport
	err := r.db.WithContext(ctx).
		Where("contract_id = ?", contractID).
		First(&passport).Error
	if err != nil {
		return nil, err
	}
	return &passport, nil
}

func (r *techPassportRepository) Create(ctx context.Context, passport *models.TechPassport) error {
	return r.db.WithContext(ctx).Create(passport).Error
}

func (r *techPassportRepository) Update(ctx context.Context, passport *models.TechPassport) error {
	return r.db.WithContext(ctx).Save(passport).Error
}

func (r *techPassportRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.TechPassport{}, id).Error
}

var techPassportSortColumns = map[string]bool{
	"status":     true,
	"created_at": true,
	"updated_at": true,
}

func (r *techPassportRepository) List(ctx context.Context, query *TechPassportQuery) ([]models.TechPassport, int64, error) {
	var passports []models.TechPassport
	var total int64

	db := r.db.WithContext(ctx).Model(&models.TechPassport{}).
		Preload("Contract").
		Preload("Client")

	if query.Status != "" {
		db = db.Where("tech_passports.status = ?", query.Status)
	}
	if query.ClientID > 0 {
		db = db.Where("tech_passports.client_id = ?", query.ClientID)
	}
	if query.Search != "" {
		search := "%" + query.Search + "%"
		db = db.Where(
			"tech_passports.contract_id IN (SELECT id FROM contracts WHERE contract_number LIKE ?) OR tech_passports.client_id IN (SELECT id FROM clients WHERE LOWER(full_name) LIKE LOWER(?))",
			search, search)
	}

	db.Count(&total)

	db = db.Order(query.OrderClause("tech_passports.updated_at DESC", techPassportSortColumns))

	if query.PerPage > 0 {
		db = db.Offset(query.Offset()).Limit(query.PerPage)
	}

	err := db.Find(&passports).Error
	return passports, total, err
}

func (r *techPassportRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	type row struct {
		Status string
		Count  int64
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Model(&models.TechPassport{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.Status] = r.Count
	}
	return counts, nil
}

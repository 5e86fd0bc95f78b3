package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/azizjun/kvartal-api/internal/models"
)

// LayoutRepository defines the interface for apartment layout data access
type LayoutRepository interface {
	FindByID(ctx context.Context, id uint) (*models.ApartmentLayout, error)
	FindByApartment(ctx context.Context, apartmentID uint) (*models.ApartmentLayout, error)
	Create(ctx context.Context, layout *models.ApartmentLayout) error
	Update(ctx context.Context, layout *models.ApartmentLayout) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, query *LayoutQuery) ([]models.ApartmentLayout, int64, error)
	CountByStatus(ctx context.Context) (map[string]int64, error)
}

// LayoutQuery extends ListQuery with layout-specific filters
type LayoutQuery struct {
	*ListQuery
	BlockID   uint
	ComplexID uint
	Status    string
}

type layoutRepository struct {
	db *gorm.DB
}

// NewLayoutRepository creates a new layout repository
func NewLayoutRepository(db *gorm.DB) LayoutRepository {
	return &layoutRepository{db: db}
}

func (r *layoutRepository) FindByID(ctx context.Context, id uint) (*models.ApartmentLayout, error) {
	var layout models.ApartmentLayout
	err := r.db.WithContext(ctx).
		Preload("Apartment").
		Preload("Apartment.Block").
		First(&layout, id).Error
	if err != nil {
		return nil, err
	}
	return &layout, nil
}

func (r *layoutRepository) FindByApartment(ctx context.Context, apartmentID uint) (*models.ApartmentLayout, error) {
	var layout models.ApartmentLayout
	err := r.db.WithContext(ctx).
		Where("apartment_id = ?", apartmentID).
		First(&layout).Error
	if err != nil {
		return nil, err
	}
	return &layout, nil
}

func (r *layoutRepository) Create(ctx context.Context, layout *models.ApartmentLayout) error {
	return r.db.WithContext(ctx).Create(layout).Error
}

func (r *layoutRepository) Update(ctx context.Context, layout *models.ApartmentLayout) error {
	return r.db.WithContext(ctx).Save(layout).Error
}

func (r *layoutRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.ApartmentLayout{}, id).Error
}

var layoutSortColumns = map[string]bool{
	"status":     true,
	"created_at": true,
	"updated_at": true,
}

func (r *layoutRepository) List(ctx context.Context, query *LayoutQuery) ([]models.ApartmentLayout, int64, error) {
	var layouts []models.ApartmentLayout
	var total int64

	db := r.db.WithContext(ctx).Model(&models.ApartmentLayout{}).
		Preload("Apartment").
		Preload("Apartment.Block")

	if query.Status != "" {
		db = db.Where("apartment_layouts.status = ?", query.Status)
	}
	if query.BlockID > 0 {
		db = db.Where("apartment_layouts.apartment_id IN (SELECT id FROM apartments WHERE block_id = ?)", query.BlockID)
	}
	if query.ComplexID > 0 {
		db = db.Where("apartment_layouts.apartment_id IN (SELECT a.id FROM apartments a JOIN blocks b ON b.id = a.block_id WHERE b.complex_id = ?)", query.ComplexID)
	}
	if query.Search != "" {
		search := "%" + query.Search + "%"
		db = db.Where("apartment_layouts.apartment_id IN (SELECT id FROM apartments WHERE apartment_number LIKE ?)", search)
	}

	db.Count(&total)

	db = db.Order(query.OrderClause("apartment_layouts.updated_at DESC", layoutSortColumns))

	if query.PerPage > 0 {
		db = db.Offset(query.Offset()).Limit(query.PerPage)
	}

	err := db.Find(&layouts).Error
	return layouts, total, err
}

func (r *layoutRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	type row struct {
		Status string
		Count  int64
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Model(&models.ApartmentLayout{}).
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

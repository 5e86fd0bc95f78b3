package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/azizjun/kvartal-api/internal/models"
)

// ComplexRepository defines the interface for residential complex data access
type ComplexRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Complex, error)
	FindByIDWithBlocks(ctx context.Context, id uint) (*models.Complex, error)
	Create(ctx context.Context, complex *models.Complex) error
	Update(ctx context.Context, complex *models.Complex) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, query *ListQuery) ([]models.Complex, int64, error)
	RecalculateTotals(ctx context.Context, id uint) error
}

type complexRepository struct {
	db *gorm.DB
}

// NewComplexRepository creates a new complex repository
func NewComplexRepository(db *gorm.DB) ComplexRepository {
	return &complexRepository{db: db}
}

func (r *complexRepository) FindByID(ctx context.Context, id uint) (*models.Complex, error) {
	var complex models.Complex
	err := r.db.WithContext(ctx).First(&complex, id).Error
	if err != nil {
		return nil, err
	}
	return &complex, nil
}

func (r *complexRepository) FindByIDWithBlocks(ctx context.Context, id uint) (*models.Complex, error) {
	var complex models.Complex
	err := r.db.WithContext(ctx).
		Preload("Blocks", func(db *gorm.DB) *gorm.DB {
			return db.Order("name ASC")
		}).
		First(&complex, id).Error
	if err != nil {
		return nil, err
	}
	return &complex, nil
}

func (r *complexRepository) Create(ctx context.Context, complex *models.Complex) error {
	return r.db.WithContext(ctx).Create(complex).Error
}

func (r *complexRepository) Update(ctx context.Context, complex *models.Complex) error {
	return r.db.WithContext(ctx).Save(complex).Error
}

func (r *complexRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Complex{}, id).Error
}

var complexSortColumns = map[string]bool{
	"name":             true,
	"total_blocks":     true,
	"total_apartments": true,
	"created_at":       true,
}

func (r *complexRepository) List(ctx context.Context, query *ListQuery) ([]models.Complex, int64, error) {
	var complexes []models.Complex
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Complex{})

	if query.Search != "" {
		search := "%" + query.Search + "%"
		db = db.Where("LOWER(name) LIKE LOWER(?) OR LOWER(address) LIKE LOWER(?)", search, search)
	}

	db.Count(&total)

	db = db.Order(query.OrderClause("name ASC", complexSortColumns))

	if query.PerPage > 0 {
		db = db.Offset(query.Offset()).Limit(query.PerPage)
	}

	err := db.Find(&complexes).Error
	return complexes, total, err
}

// RecalculateTotals refreshes the denormalized block and apartment counters
// from the actual child rows.
func (r *complexRepository) RecalculateTotals(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).
		Model(&models.Complex{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"total_blocks": gorm.Expr(
				"(SELECT COUNT(*) FROM blocks WHERE blocks.complex_id = complexes.id)"),
			"total_apartments": gorm.Expr(
				"(SELECT COUNT(*) FROM apartments WHERE apartments.block_id IN (SELECT id FROM blocks WHERE blocks.complex_id = complexes.id))"),
		}).Error
}

package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/azizjun/kvartal-api/internal/models"
)

// BlockRepository defines the interface for block data access
type BlockRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Block, error)
	FindByIDWithApartments(ctx context.Context, id uint) (*models.Block, error)
	Create(ctx context.Context, block *models.Block) error
	Update(ctx context.Context, block *models.Block) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, complexID uint, query *ListQuery) ([]models.Block, int64, error)
	AdjustOccupied(ctx context.Context, tx *gorm.DB, id uint, delta int) error
	RecalculateCounters(ctx context.Context, id uint) error
}

type blockRepository struct {
	db *gorm.DB
}

// NewBlockRepository creates a new block repository
func NewBlockRepository(db *gorm.DB) BlockRepository {
	return &blockRepository{db: db}
}

func (r *blockRepository) FindByID(ctx context.Context, id uint) (*models.Block, error) {
	var block models.Block
	err := r.db.WithContext(ctx).Preload("Complex").First(&block, id).Error
	if err != nil {
		return nil, err
	}
	return &block, nil
}

func (r *blockRepository) FindByIDWithApartments(ctx context.Context, id uint) (*models.Block, error) {
	var block models.Block
	err := r.db.WithContext(ctx).
		Preload("Complex").
		Preload("Apartments", func(db *gorm.DB) *gorm.DB {
			return db.Order("floor ASC, apartment_number ASC")
		}).
		First(&block, id).Error
	if err != nil {
		return nil, err
	}
	return &block, nil
}

func (r *blockRepository) Create(ctx context.Context, block *models.Block) error {
	return r.db.WithContext(ctx).Create(block).Error
}

func (r *blockRepository) Update(ctx context.Context, block *models.Block) error {
	return r.db.WithContext(ctx).Save(block).Error
}

func (r *blockRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Block{}, id).Error
}

var blockSortColumns = map[string]bool{
	"name":                true,
	"total_apartments":    true,
	"occupied_apartments": true,
	"created_at":          true,
}

func (r *blockRepository) List(ctx context.Context, complexID uint, query *ListQuery) ([]models.Block, int64, error) {
	var blocks []models.Block
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Block{}).Preload("Complex")

	if complexID > 0 {
		db = db.Where("complex_id = ?", complexID)
	}

	if query.Search != "" {
		search := "%" + query.Search + "%"
		db = db.Where("LOWER(name) LIKE LOWER(?)", search)
	}

	db.Count(&total)

	db = db.Order(query.OrderClause("name ASC", blockSortColumns))

	if query.PerPage > 0 {
		db = db.Offset(query.Offset()).Limit(query.PerPage)
	}

	err := db.Find(&blocks).Error
	return blocks, total, err
}

func (r *blockRepository) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

// AdjustOccupied shifts occupied_apartments by delta, clamped at zero.
func (r *blockRepository) AdjustOccupied(ctx context.Context, tx *gorm.DB, id uint, delta int) error {
	db := r.conn(tx).WithContext(ctx).Model(&models.Block{}).Where("id = ?", id)
	if delta < 0 {
		db = db.Where("occupied_apartments >= ?", -delta)
	}
	return db.Update("occupied_apartments", gorm.Expr("occupied_apartments + ?", delta)).Error
}

// RecalculateCounters refreshes total and occupied apartment counts from the
// actual apartment rows.
func (r *blockRepository) RecalculateCounters(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).
		Model(&models.Block{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"total_apartments": gorm.Expr(
				"(SELECT COUNT(*) FROM apartments WHERE apartments.block_id = blocks.id)"),
			"occupied_apartments": gorm.Expr(
				"(SELECT COUNT(*) FROM apartments WHERE apartments.block_id = blocks.id AND apartments.status = ?)",
				models.ApartmentStatusSold),
		}).Error
}

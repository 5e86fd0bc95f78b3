package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/azizjun/kvartal-api/internal/models"
)

// ApartmentRepository defines the interface for apartment data access
type ApartmentRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Apartment, error)
	FindByIDWithDetails(ctx context.Context, id uint) (*models.Apartment, error)
	Create(ctx context.Context, apartment *models.Apartment) error
	CreateBatch(ctx context.Context, apartments []models.Apartment) error
	Update(ctx context.Context, apartment *models.Apartment) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, query *ApartmentQuery) ([]models.Apartment, int64, error)
	MarkSoldIfAvailable(ctx context.Context, tx *gorm.DB, id uint) (bool, error)
	SetStatus(ctx context.Context, tx *gorm.DB, id uint, status string) error
	CountByStatus(ctx context.Context, blockID uint) (map[string]int64, error)
}

// ApartmentQuery extends ListQuery with apartment-specific filters
type ApartmentQuery struct {
	*ListQuery
	BlockID   uint
	ComplexID uint
	Status    string
	MinRooms  int
	MaxPrice  float64
}

type apartmentRepository struct {
	db *gorm.DB
}

// NewApartmentRepository creates a new apartment repository
func NewApartmentRepository(db *gorm.DB) ApartmentRepository {
	return &apartmentRepository{db: db}
}

func (r *apartmentRepository) FindByID(ctx context.Context, id uint) (*models.Apartment, error) {
	var apartment models.Apartment
	err := r.db.WithContext(ctx).First(&apartment, id).Error
	if err != nil {
		return nil, err
	}
	return &apartment, nil
}

func (r *apartmentRepository) FindByIDWithDetails(ctx context.Context, id uint) (*models.Apartment, error) {
	var apartment models.Apartment
	err := r.db.WithContext(ctx).
		Preload("Block").
		Preload("Block.Complex").
		Preload("Layout").
		First(&apartment, id).Error
	if err != nil {
		return nil, err
	}
	return &apartment, nil
}

func (r *apartmentRepository) Create(ctx context.Context, apartment *models.Apartment) error {
	return r.db.WithContext(ctx).Create(apartment).Error
}

// CreateBatch inserts a set of apartments in one statement. Used when
// generating a block's apartments floor by floor.
func (r *apartmentRepository) CreateBatch(ctx context.Context, apartments []models.Apartment) error {
	if len(apartments) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(apartments, 100).Error
}

func (r *apartmentRepository) Update(ctx context.Context, apartment *models.Apartment) error {
	return r.db.WithContext(ctx).Save(apartment).Error
}

func (r *apartmentRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Apartment{}, id).Error
}

var apartmentSortColumns = map[string]bool{
	"apartment_number": true,
	"floor":            true,
	"area":             true,
	"rooms":            true,
	"price":            true,
	"status":           true,
	"created_at":       true,
}

func (r *apartmentRepository) List(ctx context.Context, query *ApartmentQuery) ([]models.Apartment, int64, error) {
	var apartments []models.Apartment
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Apartment{}).
		Preload("Block").
		Preload("Block.Complex")

	if query.BlockID > 0 {
		db = db.Where("block_id = ?", query.BlockID)
	}
	if query.ComplexID > 0 {
		db = db.Where("block_id IN (SELECT id FROM blocks WHERE complex_id = ?)", query.ComplexID)
	}
	if query.Status != "" {
		db = db.Where("status = ?", query.Status)
	}
	if query.MinRooms > 0 {
		db = db.Where("rooms >= ?", query.MinRooms)
	}
	if query.MaxPrice > 0 {
		db = db.Where("price <= ?", query.MaxPrice)
	}
	if query.Search != "" {
		db = db.Where("apartment_number LIKE ?", "%"+query.Search+"%")
	}

	db.Count(&total)

	db = db.Order(query.OrderClause("floor ASC, apartment_number ASC", apartmentSortColumns))

	if query.PerPage > 0 {
		db = db.Offset(query.Offset()).Limit(query.PerPage)
	}

	err := db.Find(&apartments).Error
	return apartments, total, err
}

// MarkSoldIfAvailable performs a conditional status transition so two
// concurrent contracts cannot claim the same apartment. Returns false when
// the apartment was not available (or does not exist).
func (r *apartmentRepository) MarkSoldIfAvailable(ctx context.Context, tx *gorm.DB, id uint) (bool, error) {
	db := r.db
	if tx != nil {
		db = tx
	}
	result := db.WithContext(ctx).
		Model(&models.Apartment{}).
		Where("id = ? AND status = ?", id, models.ApartmentStatusAvailable).
		Update("status", models.ApartmentStatusSold)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *apartmentRepository) SetStatus(ctx context.Context, tx *gorm.DB, id uint, status string) error {
	db := r.db
	if tx != nil {
		db = tx
	}
	return db.WithContext(ctx).
		Model(&models.Apartment{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *apartmentRepository) CountByStatus(ctx context.Context, blockID uint) (map[string]int64, error) {
	type row struct {
		Status string
		Count  int64
	}
	var rows []row

	db := r.db.WithContext(ctx).
		Model(&models.Apartment{}).
		Select("status, COUNT(*) as count").
		Group("status")
	if blockID > 0 {
		db = db.Where("block_id = ?", blockID)
	}
	if err := db.Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.Status] = r.Count
	}
	return counts, nil
}

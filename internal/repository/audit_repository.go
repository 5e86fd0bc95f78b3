package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/azizjun/kvartal-api/internal/models"
)

// AuditRepository defines the interface for audit log data access
type AuditRepository interface {
	Create(ctx context.Context, entry *models.AuditLog) error
	List(ctx context.Context, query *AuditQuery) ([]models.AuditLog, int64, error)
	DeleteOlderThan(ctx context.Context, days int) (int64, error)
}

// AuditQuery extends ListQuery with audit-specific filters
type AuditQuery struct {
	*ListQuery
	UserID   uint
	Entity   string
	EntityID uint
	Action   string
	DateFrom *time.Time
	DateTo   *time.Time
}

type auditRepository struct {
	db *gorm.DB
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(db *gorm.DB) AuditRepository {
	return &auditRepository{db: db}
}

func (r *auditRepository) Create(ctx context.Context, entry *models.AuditLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *auditRepository) List(ctx context.Context, query *AuditQuery) ([]models.AuditLog, int64, error) {
	var entries []models.AuditLog
	var total int64

	db := r.db.WithContext(ctx).Model(&models.AuditLog{}).Preload("User")

	if query.UserID > 0 {
		db = db.Where("user_id = ?", query.UserID)
	}
	if query.Entity != "" {
		db = db.Where("entity = ?", query.Entity)
	}
	if query.EntityID > 0 {
		db = db.Where("entity_id = ?", query.EntityID)
	}
	if query.Action != "" {
		db = db.Where("action = ?", query.Action)
	}
	if query.DateFrom != nil {
		db = db.Where("created_at >= ?", *query.DateFrom)
	}
	if query.DateTo != nil {
		db = db.Where("created_at <= ?", *query.DateTo)
	}

	db.Count(&total)

	db = db.Order("created_at DESC")

	if query.PerPage > 0 {
		db = db.Offset(query.Offset()).Limit(query.PerPage)
	}

	err := db.Find(&entries).Error
	return entries, total, err
}

func (r *auditRepository) DeleteOlderThan(ctx context.Context, days int) (int64, error) {
	cutoff := time.Now().AddDate(0, 0, -days)
	result := r.db.WithContext(ctx).
		Where("created_at < ?", cutoff).
		Delete(&models.AuditLog{})
	return result.RowsAffected, result.Error
}

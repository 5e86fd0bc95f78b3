package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/azizjun/kvartal-api/internal/models"
	"github.com/azizjun/kvartal-api/internal/repository"
)

// LayoutService tracks construction approval gates per apartment
type LayoutService struct {
	repo          repository.LayoutRepository
	apartmentRepo repository.ApartmentRepository
	auditSvc      *AuditService
}

func NewLayoutService(repo repository.LayoutRepository, apartmentRepo repository.ApartmentRepository, auditSvc *AuditService) *LayoutService {
	return &LayoutService{
		repo:          repo,
		apartmentRepo: apartmentRepo,
		auditSvc:      auditSvc,
	}
}

func (s *LayoutService) FindByID(ctx context.Context, id uint) (*models.ApartmentLayout, error) {
	layout, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return layout, nil
}

func (s *LayoutService) List(ctx context.Context, query *repository.LayoutQuery) ([]models.ApartmentLayout, int64, error) {
	return s.repo.List(ctx, query)
}

// GetOrCreateForApartment returns the apartment's layout record, creating an
// empty one at the brick work stage when none exists yet.
func (s *LayoutService) GetOrCreateForApartment(ctx context.Context, apartmentID uint) (*models.ApartmentLayout, error) {
	layout, err := s.repo.FindByApartment(ctx, apartmentID)
	if err == nil {
		return layout, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if _, err := s.apartmentRepo.FindByID(ctx, apartmentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	layout = &models.ApartmentLayout{
		ApartmentID: apartmentID,
		Status:      models.LayoutStatusBrickWork,
	}
	if err := s.repo.Create(ctx, layout); err != nil {
		// A concurrent request may have created it first
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return s.repo.FindByApartment(ctx, apartmentID)
		}
		return nil, err
	}
	return layout, nil
}

// ApprovalInput carries one approval gate update. Nil fields are untouched;
// repeated identical updates are no-ops.
type ApprovalInput struct {
	BrickWorkApproved *bool
	BrickWorkNotes    *string
	PlumbingApproved  *bool
	PlumbingNotes     *string
	Status            *string
}

// UpdateApproval applies approval toggles and notes. Notes are last write
// wins. Setting both gates approved moves the status to completed unless the
// caller chose a status explicitly.
func (s *LayoutService) UpdateApproval(ctx context.Context, apartmentID uint, input ApprovalInput, actorID uint) (*models.ApartmentLayout, error) {
	layout, err := s.GetOrCreateForApartment(ctx, apartmentID)
	if err != nil {
		return nil, err
	}

	if input.BrickWorkApproved != nil {
		layout.BrickWorkApproved = *input.BrickWorkApproved
	}
	if input.BrickWorkNotes != nil {
		layout.BrickWorkNotes = input.BrickWorkNotes
	}
	if input.PlumbingApproved != nil {
		layout.PlumbingApproved = *input.PlumbingApproved
	}
	if input.PlumbingNotes != nil {
		layout.PlumbingNotes = input.PlumbingNotes
	}

	if input.Status != nil {
		if !models.ValidLayoutStatus(*input.Status) {
			return nil, fmt.Errorf("unknown layout status: %s", *input.Status)
		}
		layout.Status = *input.Status
	} else if layout.BrickWorkApproved && layout.PlumbingApproved {
		layout.Status = models.LayoutStatusCompleted
	}

	if err := s.repo.Update(ctx, layout); err != nil {
		return nil, err
	}

	s.auditSvc.Log(ctx, actorID, "UPDATE", "ApartmentLayout", layout.ID,
		fmt.Sprintf("Layout approval update for apartment %d (status %s)", apartmentID, layout.Status), "", "")

	return layout, nil
}

func (s *LayoutService) CountByStatus(ctx context.Context) (map[string]int64, error) {
	return s.repo.CountByStatus(ctx)
}

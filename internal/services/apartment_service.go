package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/azizjun/kvartal-api/internal/models"
	"github.com/azizjun/kvartal-api/internal/repository"
)

// ApartmentService manages individual apartments
type ApartmentService struct {
	repo         repository.ApartmentRepository
	blockRepo    repository.BlockRepository
	contractRepo repository.ContractRepository
	auditSvc     *AuditService
}

func NewApartmentService(repo repository.ApartmentRepository, blockRepo repository.BlockRepository, contractRepo repository.ContractRepository, auditSvc *AuditService) *ApartmentService {
	return &ApartmentService{
		repo:         repo,
		blockRepo:    blockRepo,
		contractRepo: contractRepo,
		auditSvc:     auditSvc,
	}
}

func (s *ApartmentService) FindByID(ctx context.Context, id uint) (*models.Apartment, error) {
	apartment, err := s.repo.FindByIDWithDetails(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return apartment, nil
}

func (s *ApartmentService) List(ctx context.Context, query *repository.ApartmentQuery) ([]models.Apartment, int64, error) {
	return s.repo.List(ctx, query)
}

func (s *ApartmentService) Create(ctx context.Context, apartment *models.Apartment, actorID uint) error {
	if _, err := s.blockRepo.FindByID(ctx, apartment.BlockID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	if err := s.repo.Create(ctx, apartment); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicate
		}
		return err
	}

	if err := s.blockRepo.RecalculateCounters(ctx, apartment.BlockID); err != nil {
		return err
	}

	s.auditSvc.Log(ctx, actorID, "CREATE", "Apartment", apartment.ID,
		fmt.Sprintf("Created apartment %s in block %d", apartment.ApartmentNumber, apartment.BlockID), "", "")
	return nil
}

// UpdateApartmentInput carries the mutable apartment fields. Status changes
// go through Reserve/Release or the contract lifecycle, not here.
type UpdateApartmentInput struct {
	ApartmentNumber *string
	Floor           *int
	Area            *float64
	Rooms           *int
	Price           *float64
}

func (s *ApartmentService) Update(ctx context.Context, id uint, input UpdateApartmentInput, actorID uint) (*models.Apartment, error) {
	apartment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if input.ApartmentNumber != nil {
		apartment.ApartmentNumber = *input.ApartmentNumber
	}
	if input.Floor != nil {
		apartment.Floor = *input.Floor
	}
	if input.Area != nil {
		apartment.Area = *input.Area
	}
	if input.Rooms != nil {
		apartment.Rooms = *input.Rooms
	}
	if input.Price != nil {
		apartment.Price = *input.Price
	}

	if err := s.repo.Update(ctx, apartment); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicate
		}
		return nil, err
	}

	s.auditSvc.Log(ctx, actorID, "UPDATE", "Apartment", apartment.ID,
		fmt.Sprintf("Updated apartment %s", apartment.ApartmentNumber), "", "")
	return apartment, nil
}

// Reserve puts an available apartment on hold for a prospective buyer.
func (s *ApartmentService) Reserve(ctx context.Context, id uint, actorID uint) (*models.Apartment, error) {
	apartment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if apartment.Status != models.ApartmentStatusAvailable {
		return nil, ErrApartmentUnavailable
	}

	apartment.Status = models.ApartmentStatusReserved
	if err := s.repo.Update(ctx, apartment); err != nil {
		return nil, err
	}

	s.auditSvc.Log(ctx, actorID, "RESERVE", "Apartment", id,
		fmt.Sprintf("Reserved apartment %s", apartment.ApartmentNumber), "", "")
	return apartment, nil
}

// Release returns a reserved apartment to the available pool.
func (s *ApartmentService) Release(ctx context.Context, id uint, actorID uint) (*models.Apartment, error) {
	apartment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if apartment.Status != models.ApartmentStatusReserved {
		return nil, ErrInvalidState
	}

	apartment.Status = models.ApartmentStatusAvailable
	if err := s.repo.Update(ctx, apartment); err != nil {
		return nil, err
	}

	s.auditSvc.Log(ctx, actorID, "RELEASE", "Apartment", id,
		fmt.Sprintf("Released apartment %s", apartment.ApartmentNumber), "", "")
	return apartment, nil
}

// Delete removes an apartment that is not held by any contract.
func (s *ApartmentService) Delete(ctx context.Context, id uint, actorID uint) error {
	apartment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	if _, err := s.contractRepo.FindHoldingApartment(ctx, id); err == nil {
		return ErrHasContracts
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	if err := s.blockRepo.RecalculateCounters(ctx, apartment.BlockID); err != nil {
		return err
	}

	s.auditSvc.Log(ctx, actorID, "DELETE", "Apartment", id,
		fmt.Sprintf("Deleted apartment %s", apartment.ApartmentNumber), "", "")
	return nil
}

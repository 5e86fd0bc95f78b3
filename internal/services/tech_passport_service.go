package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/azizjun/kvartal-api/internal/models"
	"github.com/azizjun/kvartal-api/internal/repository"
)

// TechPassportService tracks the paperwork trail that follows a completed
// contract: notary, bureau of technical inventory, signature, justice
// department, ready for pickup.
type TechPassportService struct {
	repo         repository.TechPassportRepository
	contractRepo repository.ContractRepository
	auditSvc     *AuditService
}

func NewTechPassportService(repo repository.TechPassportRepository, contractRepo repository.ContractRepository, auditSvc *AuditService) *TechPassportService {
	return &TechPassportService{
		repo:         repo,
		contractRepo: contractRepo,
		auditSvc:     auditSvc,
	}
}

func (s *TechPassportService) FindByID(ctx context.Context, id uint) (*models.TechPassport, error) {
	passport, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return passport, nil
}

func (s *TechPassportService) List(ctx context.Context, query *repository.TechPassportQuery) ([]models.TechPassport, int64, error) {
	return s.repo.List(ctx, query)
}

// Create opens the passport workflow for a completed contract. One passport
// per contract.
func (s *TechPassportService) Create(ctx context.Context, contractID uint, notes *string, actorID uint) (*models.TechPassport, error) {
	contract, err := s.contractRepo.FindByID(ctx, contractID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if contract.Status != models.ContractStatusCompleted {
		return nil, ErrContractNotCompleted
	}

	if _, err := s.repo.FindByContract(ctx, contractID); err == nil {
		return nil, ErrDuplicate
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	passport := &models.TechPassport{
		ContractID: contractID,
		ClientID:   contract.ClientID,
		Status:     models.TechPassportStatusAtNotary,
		Notes:      notes,
	}

	if err := s.repo.Create(ctx, passport); err != nil {
		return nil, err
	}

	s.auditSvc.Log(ctx, actorID, "CREATE", "TechPassport", passport.ID,
		fmt.Sprintf("Opened tech passport for contract %s", contract.ContractNumber), "", "")

	return passport, nil
}

// UpdateStatus moves the passport to another workflow station. The stations
// are not strictly ordered; paperwork gets bounced back in practice.
func (s *TechPassportService) UpdateStatus(ctx context.Context, id uint, status string, notes *string, actorID uint) (*models.TechPassport, error) {
	if !models.ValidTechPassportStatus(status) {
		return nil, fmt.Errorf("unknown tech passport status: %s", status)
	}

	passport, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	passport.Status = status
	if notes != nil {
		passport.Notes = notes
	}

	if err := s.repo.Update(ctx, passport); err != nil {
		return nil, err
	}

	s.auditSvc.Log(ctx, actorID, "UPDATE", "TechPassport", passport.ID,
		fmt.Sprintf("Tech passport moved to %s", status), "", "")

	return passport, nil
}

func (s *TechPassportService) Delete(ctx context.Context, id uint, actorID uint) error {
	if _, err := s.FindByID(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.auditSvc.Log(ctx, actorID, "DELETE", "TechPassport", id, "Deleted tech passport", "", "")
	return nil
}

func (s *TechPassportService) CountByStatus(ctx context.Context) (map[string]int64, error) {
	return s.repo.CountByStatus(ctx)
}

package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/azizjun/kvartal-api/internal/models"
	"github.com/azizjun/kvartal-api/internal/repository"
)

// ClientService manages buyer records
type ClientService struct {
	repo     repository.ClientRepository
	auditSvc *AuditService
}

func NewClientService(repo repository.ClientRepository, auditSvc *AuditService) *ClientService {
	return &ClientService{repo: repo, auditSvc: auditSvc}
}

func (s *ClientService) FindByID(ctx context.Context, id uint) (*models.Client, error) {
	client, err := s.repo.FindByIDWithContracts(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return client, nil
}

func (s *ClientService) List(ctx context.Context, query *repository.ListQuery) ([]models.Client, int64, error) {
	return s.repo.List(ctx, query)
}

func (s *ClientService) Create(ctx context.Context, client *models.Client, actorID uint) error {
	if client.Phone == "" {
		return errors.New("phone is required")
	}

	if err := s.repo.Create(ctx, client); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicate
		}
		return err
	}

	s.auditSvc.Log(ctx, actorID, "CREATE", "Client", client.ID,
		fmt.Sprintf("Created client %s", client.FullName), "", "")
	return nil
}

func (s *ClientService) Update(ctx context.Context, client *models.Client, actorID uint) error {
	if err := s.repo.Update(ctx, client); err != nil {
		return err
	}
	s.auditSvc.Log(ctx, actorID, "UPDATE", "Client", client.ID,
		fmt.Sprintf("Updated client %s", client.FullName), "", "")
	return nil
}

// Delete removes a client that has no contracts.
func (s *ClientService) Delete(ctx context.Context, id uint, actorID uint) error {
	client, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	hasContracts, err := s.repo.HasContracts(ctx, id)
	if err != nil {
		return err
	}
	if hasContracts {
		return ErrHasContracts
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.auditSvc.Log(ctx, actorID, "DELETE", "Client", id,
		fmt.Sprintf("Deleted client %s", client.FullName), "", "")
	return nil
}

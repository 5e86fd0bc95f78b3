package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/azizjun/kvartal-api/internal/jobs"
	"github.com/azizjun/kvartal-api/internal/models"
	"github.com/azizjun/kvartal-api/internal/repository"
	"github.com/azizjun/kvartal-api/internal/statemachine"
)

// ContractService owns the contract lifecycle: selling an apartment, keeping
// its paid amount consistent with payments, and releasing the apartment when
// the contract goes away.
type ContractService struct {
	db              *gorm.DB
	repo            repository.ContractRepository
	apartmentRepo   repository.ApartmentRepository
	blockRepo       repository.BlockRepository
	clientRepo      repository.ClientRepository
	paymentRepo     repository.PaymentRepository
	notificationSvc *NotificationService
	auditSvc        *AuditService
	worker          *jobs.Worker
}

func NewContractService(
	db *gorm.DB,
	repo repository.ContractRepository,
	apartmentRepo repository.ApartmentRepository,
	blockRepo repository.BlockRepository,
	clientRepo repository.ClientRepository,
	paymentRepo repository.PaymentRepository,
	notificationSvc *NotificationService,
	auditSvc *AuditService,
	worker *jobs.Worker,
) *ContractService {
	return &ContractService{
		db:              db,
		repo:            repo,
		apartmentRepo:   apartmentRepo,
		blockRepo:       blockRepo,
		clientRepo:      clientRepo,
		paymentRepo:     paymentRepo,
		notificationSvc: notificationSvc,
		auditSvc:        auditSvc,
		worker:          worker,
	}
}

func (s *ContractService) FindByID(ctx context.Context, id uint) (*models.Contract, error) {
	contract, err := s.repo.FindByIDWithDetails(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return contract, nil
}

func (s *ContractService) List(ctx context.Context, query *repository.ContractQuery) ([]models.Contract, int64, error) {
	return s.repo.List(ctx, query)
}

// CreateContractInput carries the fields for opening a contract
type CreateContractInput struct {
	ContractNumber string
	ClientID       uint
	ApartmentID    uint
	TotalAmount    float64
	InitialPayment float64
	MonthlyPayment float64
	StartDate      time.Time
	EndDate        *time.Time
	Status         string
	Note           *string
}

// Create sells an apartment to a client. The apartment status flip is a
// conditional update inside the transaction, so of two racing contracts for
// the same apartment exactly one succeeds and the other gets
// ErrApartmentUnavailable.
func (s *ContractService) Create(ctx context.Context, input CreateContractInput, creatorID uint) (*models.Contract, error) {
	client, err := s.clientRepo.FindByID(ctx, input.ClientID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	apartment, err := s.apartmentRepo.FindByID(ctx, input.ApartmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if input.TotalAmount <= 0 {
		input.TotalAmount = apartment.Price
	}
	if input.TotalAmount <= 0 {
		return nil, errors.New("total amount must be positive")
	}
	if input.InitialPayment < 0 || input.InitialPayment > input.TotalAmount {
		return nil, errors.New("initial payment must be between 0 and the total amount")
	}
	if input.StartDate.IsZero() {
		input.StartDate = time.Now()
	}
	if input.EndDate != nil && input.EndDate.Before(input.StartDate) {
		return nil, errors.New("end date cannot be before the start date")
	}
	if input.Status == "" {
		input.Status = models.ContractStatusActive
	}
	if !models.ValidContractStatus(input.Status) {
		return nil, fmt.Errorf("unknown contract status: %s", input.Status)
	}
	if input.ContractNumber == "" {
		input.ContractNumber = generateContractNumber(input.StartDate)
	}

	contract := &models.Contract{
		ContractNumber: input.ContractNumber,
		ClientID:       input.ClientID,
		ApartmentID:    input.ApartmentID,
		CreatorID:      &creatorID,
		TotalAmount:    input.TotalAmount,
		InitialPayment: input.InitialPayment,
		MonthlyPayment: input.MonthlyPayment,
		PaidAmount:     input.InitialPayment,
		StartDate:      input.StartDate,
		EndDate:        input.EndDate,
		Status:         input.Status,
		Note:           input.Note,
	}

	held := contract.HoldsApartment()

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if held {
			sold, err := s.apartmentRepo.MarkSoldIfAvailable(ctx, tx, input.ApartmentID)
			if err != nil {
				return err
			}
			if !sold {
				return ErrApartmentUnavailable
			}
		}

		if err := s.repo.Create(ctx, tx, contract); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicate
			}
			return err
		}

		if input.InitialPayment > 0 {
			initial := &models.Payment{
				ContractID:    contract.ID,
				PaymentNumber: generatePaymentNumber(),
				Amount:        input.InitialPayment,
				PaymentDate:   input.StartDate,
				PaymentType:   models.PaymentTypeInitial,
				Status:        models.PaymentStatusCompleted,
			}
			if err := s.paymentRepo.Create(ctx, tx, initial); err != nil {
				return err
			}
		}

		if held {
			return s.blockRepo.AdjustOccupied(ctx, tx, apartment.BlockID, 1)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.worker.EnqueueAsync(func(ctx context.Context) error {
		return s.notificationSvc.NotifyAdmins(ctx,
			"New contract",
			fmt.Sprintf("Contract %s: apartment %s sold to %s", contract.ContractNumber, apartment.ApartmentNumber, client.FullName),
			models.NotificationTypeContractCreated)
	})

	s.auditSvc.Log(ctx, creatorID, "CREATE", "Contract", contract.ID,
		fmt.Sprintf("Contract %s for apartment %s, total %.2f", contract.ContractNumber, apartment.ApartmentNumber, contract.TotalAmount), "", "")

	return contract, nil
}

// UpdateContractInput carries the mutable contract fields. The apartment is
// not among them: moving a contract to another apartment is a delete plus a
// new contract.
type UpdateContractInput struct {
	ContractNumber *string
	ApartmentID    *uint
	TotalAmount    *float64
	MonthlyPayment *float64
	StartDate      *time.Time
	EndDate        *time.Time
	Note           *string
}

func (s *ContractService) Update(ctx context.Context, id uint, input UpdateContractInput, actorID uint) (*models.Contract, error) {
	contract, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if input.ApartmentID != nil && *input.ApartmentID != contract.ApartmentID {
		return nil, ErrApartmentImmutable
	}

	if input.ContractNumber != nil {
		contract.ContractNumber = *input.ContractNumber
	}
	if input.TotalAmount != nil {
		if *input.TotalAmount <= 0 {
			return nil, errors.New("total amount must be positive")
		}
		if *input.TotalAmount < contract.PaidAmount {
			return nil, errors.New("total amount cannot be below the amount already paid")
		}
		contract.TotalAmount = *input.TotalAmount
	}
	if input.MonthlyPayment != nil {
		contract.MonthlyPayment = *input.MonthlyPayment
	}
	if input.StartDate != nil {
		contract.StartDate = *input.StartDate
	}
	if input.EndDate != nil {
		contract.EndDate = input.EndDate
	}
	if input.Note != nil {
		contract.Note = input.Note
	}
	if contract.EndDate != nil && contract.EndDate.Before(contract.StartDate) {
		return nil, errors.New("end date cannot be before the start date")
	}

	if err := s.repo.Update(ctx, contract); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicate
		}
		return nil, err
	}

	s.auditSvc.Log(ctx, actorID, "UPDATE", "Contract", contract.ID,
		fmt.Sprintf("Updated contract %s", contract.ContractNumber), "", "")

	return contract, nil
}

// Delete removes a contract and its payments and returns the apartment to the
// available pool when the contract was still holding it.
func (s *ContractService) Delete(ctx context.Context, id uint, actorID uint) error {
	contract, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	held := contract.HoldsApartment()

	apartment, err := s.apartmentRepo.FindByID(ctx, contract.ApartmentID)
	if err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("contract_id = ?", id).Delete(&models.Payment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("contract_id = ?", id).Delete(&models.TechPassport{}).Error; err != nil {
			return err
		}
		if err := s.repo.Delete(ctx, tx, id); err != nil {
			return err
		}
		if held {
			if err := s.apartmentRepo.SetStatus(ctx, tx, contract.ApartmentID, models.ApartmentStatusAvailable); err != nil {
				return err
			}
			return s.blockRepo.AdjustOccupied(ctx, tx, apartment.BlockID, -1)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.auditSvc.Log(ctx, actorID, "DELETE", "Contract", id,
		fmt.Sprintf("Deleted contract %s", contract.ContractNumber), "", "")

	return nil
}

// Activate moves a pending contract to active.
func (s *ContractService) Activate(ctx context.Context, id uint, actorID uint) (*models.Contract, error) {
	contract, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	fsm := statemachine.NewContractFSM(contract)
	if err := fsm.Activate(ctx); err != nil {
		return nil, ErrInvalidState
	}

	if err := s.repo.Update(ctx, contract); err != nil {
		return nil, err
	}

	s.auditSvc.Log(ctx, actorID, "ACTIVATE", "Contract", contract.ID,
		fmt.Sprintf("Activated contract %s", contract.ContractNumber), "", "")

	return contract, nil
}

// Complete closes a fully paid active contract.
func (s *ContractService) Complete(ctx context.Context, id uint, actorID uint) (*models.Contract, error) {
	contract, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	fsm := statemachine.NewContractFSM(contract)
	if err := fsm.Complete(ctx); err != nil {
		return nil, ErrInvalidState
	}

	now := time.Now()
	contract.CompletedAt = &now

	if err := s.repo.Update(ctx, contract); err != nil {
		return nil, err
	}

	s.worker.EnqueueAsync(func(ctx context.Context) error {
		return s.notificationSvc.NotifyAdmins(ctx,
			"Contract completed",
			fmt.Sprintf("Contract %s is fully paid and completed", contract.ContractNumber),
			models.NotificationTypeContractCompleted)
	})

	s.auditSvc.Log(ctx, actorID, "COMPLETE", "Contract", contract.ID,
		fmt.Sprintf("Completed contract %s", contract.ContractNumber), "", "")

	return contract, nil
}

// Cancel voids a pending or active contract and releases its apartment.
func (s *ContractService) Cancel(ctx context.Context, id uint, actorID uint) (*models.Contract, error) {
	contract, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	fsm := statemachine.NewContractFSM(contract)
	if err := fsm.Cancel(ctx); err != nil {
		return nil, ErrInvalidState
	}

	now := time.Now()
	contract.CancelledAt = &now

	apartment, err := s.apartmentRepo.FindByID(ctx, contract.ApartmentID)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.UpdateTx(ctx, tx, contract); err != nil {
			return err
		}
		if err := s.apartmentRepo.SetStatus(ctx, tx, contract.ApartmentID, models.ApartmentStatusAvailable); err != nil {
			return err
		}
		return s.blockRepo.AdjustOccupied(ctx, tx, apartment.BlockID, -1)
	})
	if err != nil {
		return nil, err
	}

	s.worker.EnqueueAsync(func(ctx context.Context) error {
		return s.notificationSvc.NotifyAdmins(ctx,
			"Contract cancelled",
			fmt.Sprintf("Contract %s was cancelled", contract.ContractNumber),
			models.NotificationTypeContractCancelled)
	})

	s.auditSvc.Log(ctx, actorID, "CANCEL", "Contract", contract.ID,
		fmt.Sprintf("Cancelled contract %s", contract.ContractNumber), "", "")

	return contract, nil
}

// CompleteFullyPaid sweeps active contracts whose paid amount reached the
// total and completes them. Run on a schedule by the worker.
func (s *ContractService) CompleteFullyPaid(ctx context.Context) (int, error) {
	contracts, err := s.repo.FindFullyPaidActive(ctx)
	if err != nil {
		return 0, err
	}

	completed := 0
	for i := range contracts {
		contract := &contracts[i]
		fsm := statemachine.NewContractFSM(contract)
		if err := fsm.Complete(ctx); err != nil {
			continue
		}
		now := time.Now()
		contract.CompletedAt = &now
		if err := s.repo.Update(ctx, contract); err != nil {
			continue
		}
		completed++

		s.notificationSvc.NotifyAdmins(ctx,
			"Contract fully paid",
			fmt.Sprintf("Contract %s reached its total and was completed", contract.ContractNumber),
			models.NotificationTypeContractFullyPaid)
	}

	return completed, nil
}

func (s *ContractService) GetStats(ctx context.Context) (*repository.ContractStats, error) {
	return s.repo.GetStats(ctx)
}

func generateContractNumber(startDate time.Time) string {
	return fmt.Sprintf("CT-%d-%s", startDate.Year(), uuid.New().String()[:8])
}

func generatePaymentNumber() string {
	return fmt.Sprintf("PM-%s", uuid.New().String()[:8])
}

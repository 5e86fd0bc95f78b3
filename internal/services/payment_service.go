package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/azizjun/kvartal-api/internal/jobs"
	"github.com/azizjun/kvartal-api/internal/models"
	"github.com/azizjun/kvartal-api/internal/repository"
	"github.com/azizjun/kvartal-api/internal/statemachine"
	"github.com/azizjun/kvartal-api/pkg/logger"
)

// PaymentService manages contract payments. The contract's paid_amount is
// recomputed from completed payments inside the same transaction as every
// status change, so the two can never drift.
type PaymentService struct {
	db              *gorm.DB
	repo            repository.PaymentRepository
	contractRepo    repository.ContractRepository
	notificationSvc *NotificationService
	auditSvc        *AuditService
	worker          *jobs.Worker
}

func NewPaymentService(
	db *gorm.DB,
	repo repository.PaymentRepository,
	contractRepo repository.ContractRepository,
	notificationSvc *NotificationService,
	auditSvc *AuditService,
	worker *jobs.Worker,
) *PaymentService {
	return &PaymentService{
		db:              db,
		repo:            repo,
		contractRepo:    contractRepo,
		notificationSvc: notificationSvc,
		auditSvc:        auditSvc,
		worker:          worker,
	}
}

func (s *PaymentService) FindByID(ctx context.Context, id uint) (*models.Payment, error) {
	payment, err := s.repo.FindByIDWithContract(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return payment, nil
}

func (s *PaymentService) List(ctx context.Context, query *repository.PaymentQuery) ([]models.Payment, int64, error) {
	return s.repo.List(ctx, query)
}

func (s *PaymentService) FindByContract(ctx context.Context, contractID uint) ([]models.Payment, error) {
	return s.repo.FindByContract(ctx, contractID)
}

// CreatePaymentInput carries the fields for recording a payment
type CreatePaymentInput struct {
	ContractID  uint
	Amount      float64
	PaymentDate time.Time
	PaymentType string
	Notes       *string
	Completed   bool
}

// Create records a payment against an active contract. With Completed set the
// payment is confirmed in the same transaction.
func (s *PaymentService) Create(ctx context.Context, input CreatePaymentInput, actorID uint) (*models.Payment, error) {
	contract, err := s.contractRepo.FindByID(ctx, input.ContractID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if contract.Status != models.ContractStatusActive && contract.Status != models.ContractStatusPending {
		return nil, ErrInvalidState
	}
	if input.Amount <= 0 {
		return nil, errors.New("payment amount must be positive")
	}
	if input.PaymentType == "" {
		input.PaymentType = models.PaymentTypeMonthly
	}
	if !models.ValidPaymentType(input.PaymentType) {
		return nil, fmt.Errorf("unknown payment type: %s", input.PaymentType)
	}
	if input.PaymentDate.IsZero() {
		input.PaymentDate = time.Now()
	}

	payment := &models.Payment{
		ContractID:    input.ContractID,
		PaymentNumber: generatePaymentNumber(),
		Amount:        input.Amount,
		PaymentDate:   input.PaymentDate,
		PaymentType:   input.PaymentType,
		Status:        models.PaymentStatusPending,
		Notes:         input.Notes,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if input.Completed {
			completedSum, err := s.repo.SumCompletedByContract(ctx, tx, contract.ID)
			if err != nil {
				return err
			}
			if completedSum+input.Amount > contract.TotalAmount {
				return ErrPaymentExceedsTotal
			}
			payment.Status = models.PaymentStatusCompleted

			if err := s.repo.Create(ctx, tx, payment); err != nil {
				return err
			}
			return s.syncPaidAmount(ctx, tx, contract.ID)
		}
		return s.repo.Create(ctx, tx, payment)
	})
	if err != nil {
		return nil, err
	}

	s.auditSvc.Log(ctx, actorID, "CREATE", "Payment", payment.ID,
		fmt.Sprintf("Payment %s of %.2f on contract %s", payment.PaymentNumber, payment.Amount, contract.ContractNumber), "", "")

	return payment, nil
}

// Complete confirms a pending payment and folds its amount into the
// contract's paid total. Confirmation that would push the total past the
// contract amount is rejected.
func (s *PaymentService) Complete(ctx context.Context, id uint, actorID uint) (*models.Payment, error) {
	payment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	contract, err := s.contractRepo.FindByID(ctx, payment.ContractID)
	if err != nil {
		return nil, err
	}
	if contract.Status != models.ContractStatusActive && contract.Status != models.ContractStatusPending {
		return nil, ErrInvalidState
	}

	fsm := statemachine.NewPaymentFSM(payment)
	if err := fsm.Complete(ctx); err != nil {
		return nil, ErrInvalidState
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		completedSum, err := s.repo.SumCompletedByContract(ctx, tx, contract.ID)
		if err != nil {
			return err
		}
		if completedSum+payment.Amount > contract.TotalAmount {
			return ErrPaymentExceedsTotal
		}

		if err := s.repo.Update(ctx, tx, payment); err != nil {
			return err
		}
		return s.syncPaidAmount(ctx, tx, contract.ID)
	})
	if err != nil {
		return nil, err
	}

	s.worker.EnqueueAsync(func(ctx context.Context) error {
		return s.notificationSvc.NotifyAdmins(ctx,
			"Payment confirmed",
			fmt.Sprintf("Payment %s of %.2f confirmed on contract %s", payment.PaymentNumber, payment.Amount, contract.ContractNumber),
			models.NotificationTypePaymentCompleted)
	})

	s.auditSvc.Log(ctx, actorID, "COMPLETE", "Payment", payment.ID,
		fmt.Sprintf("Confirmed payment %s of %.2f", payment.PaymentNumber, payment.Amount), "", "")

	return payment, nil
}

// Revert undoes a confirmed payment and subtracts its amount from the
// contract's paid total. Payments on completed contracts cannot be reverted.
func (s *PaymentService) Revert(ctx context.Context, id uint, actorID uint) (*models.Payment, error) {
	payment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	contract, err := s.contractRepo.FindByID(ctx, payment.ContractID)
	if err != nil {
		return nil, err
	}
	if contract.Status == models.ContractStatusCompleted {
		return nil, ErrInvalidState
	}

	fsm := statemachine.NewPaymentFSM(payment)
	if err := fsm.Revert(ctx); err != nil {
		return nil, ErrInvalidState
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.Update(ctx, tx, payment); err != nil {
			return err
		}
		return s.syncPaidAmount(ctx, tx, contract.ID)
	})
	if err != nil {
		return nil, err
	}

	s.auditSvc.Log(ctx, actorID, "REVERT", "Payment", payment.ID,
		fmt.Sprintf("Reverted payment %s of %.2f", payment.PaymentNumber, payment.Amount), "", "")

	return payment, nil
}

// Delete removes a pending payment. Confirmed payments must be reverted
// first so the contract's paid total stays accounted for.
func (s *PaymentService) Delete(ctx context.Context, id uint, actorID uint) error {
	payment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	if payment.Status != models.PaymentStatusPending {
		return ErrInvalidState
	}

	if err := s.repo.Delete(ctx, nil, id); err != nil {
		return err
	}

	s.auditSvc.Log(ctx, actorID, "DELETE", "Payment", id,
		fmt.Sprintf("Deleted payment %s", payment.PaymentNumber), "", "")

	return nil
}

// NotifyOverdue notifies admins about pending payments past their due date.
// Run daily by the worker.
func (s *PaymentService) NotifyOverdue(ctx context.Context) (int, error) {
	payments, err := s.repo.FindOverdue(ctx, time.Now())
	if err != nil {
		return 0, err
	}

	for _, payment := range payments {
		clientName := payment.Contract.Client.FullName
		err := s.notificationSvc.NotifyAdmins(ctx,
			"Payment overdue",
			fmt.Sprintf("Payment %s of %.2f (%s) is %d days overdue",
				payment.PaymentNumber, payment.Amount, clientName, payment.OverdueDays()),
			models.NotificationTypePaymentOverdue)
		if err != nil {
			logger.Error("failed to send overdue notification", "payment_id", payment.ID, "error", err)
		}
	}

	return len(payments), nil
}

// syncPaidAmount sets the contract's paid_amount to the sum of its completed
// payments. Must run inside the transaction that changed the payments.
func (s *PaymentService) syncPaidAmount(ctx context.Context, tx *gorm.DB, contractID uint) error {
	sum, err := s.repo.SumCompletedByContract(ctx, tx, contractID)
	if err != nil {
		return err
	}
	return tx.WithContext(ctx).
		Model(&models.Contract{}).
		Where("id = ?", contractID).
		Update("paid_amount", sum).Error
}

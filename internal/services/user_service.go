package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/azizjun/kvartal-api/internal/jobs"
	"github.com/azizjun/kvartal-api/internal/models"
	"github.com/azizjun/kvartal-api/internal/repository"
)

// UserService manages staff accounts
type UserService struct {
	repo            repository.UserRepository
	notificationSvc *NotificationService
	auditSvc        *AuditService
	worker          *jobs.Worker
}

func NewUserService(repo repository.UserRepository, notificationSvc *NotificationService, auditSvc *AuditService, worker *jobs.Worker) *UserService {
	return &UserService{
		repo:            repo,
		notificationSvc: notificationSvc,
		auditSvc:        auditSvc,
		worker:          worker,
	}
}

func (s *UserService) FindByID(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *UserService) List(ctx context.Context, query *repository.ListQuery) ([]models.User, int64, error) {
	return s.repo.List(ctx, query)
}

// CreateUserInput carries the fields for creating a staff account
type CreateUserInput struct {
	Email    string
	Password string
	FullName string
	Phone    string
	Role     string
}

// Create registers a new staff account. Only admins may call this; the
// handler enforces the role gate.
func (s *UserService) Create(ctx context.Context, input CreateUserInput, creatorID uint) (*models.User, error) {
	if input.Role != models.RoleAdmin && input.Role != models.RoleManager {
		input.Role = models.RoleManager
	}

	if _, err := s.repo.FindByEmail(ctx, input.Email); err == nil {
		return nil, ErrDuplicate
	}

	hashed, err := HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:             input.Email,
		EncryptedPassword: hashed,
		FullName:          input.FullName,
		Phone:             input.Phone,
		Role:              input.Role,
		Status:            models.StatusActive,
		CreatedBy:         &creatorID,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicate
		}
		return nil, err
	}

	s.worker.EnqueueAsync(func(ctx context.Context) error {
		return s.notificationSvc.NotifyAdmins(ctx,
			"New staff account",
			fmt.Sprintf("Account %s (%s) was created", user.FullName, user.Role),
			models.NotificationTypeNewUser)
	})

	s.auditSvc.Log(ctx, creatorID, "CREATE", "User", user.ID,
		fmt.Sprintf("Created %s account for %s", user.Role, user.Email), "", "")

	return user, nil
}

// UpdateUserInput carries the mutable account fields
type UpdateUserInput struct {
	FullName *string
	Phone    *string
	Role     *string
	Status   *string
}

func (s *UserService) Update(ctx context.Context, id uint, input UpdateUserInput, actorID uint) (*models.User, error) {
	user, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.FullName != nil {
		user.FullName = *input.FullName
	}
	if input.Phone != nil {
		user.Phone = *input.Phone
	}
	if input.Role != nil {
		if *input.Role != models.RoleAdmin && *input.Role != models.RoleManager {
			return nil, fmt.Errorf("unknown role: %s", *input.Role)
		}
		user.Role = *input.Role
	}
	if input.Status != nil {
		user.Status = *input.Status
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	s.auditSvc.Log(ctx, actorID, "UPDATE", "User", user.ID,
		fmt.Sprintf("Updated account %s", user.Email), "", "")

	return user, nil
}

// Deactivate soft-deletes a staff account. The last admin cannot be removed.
func (s *UserService) Deactivate(ctx context.Context, id uint, actorID uint) error {
	user, err := s.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if user.IsAdmin() {
		admins, err := s.repo.CountByRole(ctx, models.RoleAdmin)
		if err != nil {
			return err
		}
		if admins <= 1 {
			return errors.New("cannot deactivate the last admin")
		}
	}

	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return err
	}

	s.auditSvc.Log(ctx, actorID, "DELETE", "User", id,
		fmt.Sprintf("Deactivated account %s", user.Email), "", "")

	return nil
}

// Restore reactivates a soft-deleted account.
func (s *UserService) Restore(ctx context.Context, id uint, actorID uint) error {
	if err := s.repo.Restore(ctx, id); err != nil {
		return err
	}
	s.auditSvc.Log(ctx, actorID, "RESTORE", "User", id, "Restored account", "", "")
	return nil
}

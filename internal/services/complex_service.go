package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/azizjun/kvartal-api/internal/models"
	"github.com/azizjun/kvartal-api/internal/repository"
)

// ComplexService manages residential complexes and their blocks
type ComplexService struct {
	repo          repository.ComplexRepository
	blockRepo     repository.BlockRepository
	apartmentRepo repository.ApartmentRepository
	auditSvc      *AuditService
}

func NewComplexService(repo repository.ComplexRepository, blockRepo repository.BlockRepository, apartmentRepo repository.ApartmentRepository, auditSvc *AuditService) *ComplexService {
	return &ComplexService{
		repo:          repo,
		blockRepo:     blockRepo,
		apartmentRepo: apartmentRepo,
		auditSvc:      auditSvc,
	}
}

func (s *ComplexService) FindByID(ctx context.Context, id uint) (*models.Complex, error) {
	complex, err := s.repo.FindByIDWithBlocks(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return complex, nil
}

func (s *ComplexService) List(ctx context.Context, query *repository.ListQuery) ([]models.Complex, int64, error) {
	return s.repo.List(ctx, query)
}

func (s *ComplexService) Create(ctx context.Context, complex *models.Complex, actorID uint) error {
	if err := s.repo.Create(ctx, complex); err != nil {
		return err
	}
	s.auditSvc.Log(ctx, actorID, "CREATE", "Complex", complex.ID,
		fmt.Sprintf("Created complex %s", complex.Name), "", "")
	return nil
}

func (s *ComplexService) Update(ctx context.Context, complex *models.Complex, actorID uint) error {
	if err := s.repo.Update(ctx, complex); err != nil {
		return err
	}
	s.auditSvc.Log(ctx, actorID, "UPDATE", "Complex", complex.ID,
		fmt.Sprintf("Updated complex %s", complex.Name), "", "")
	return nil
}

// Delete removes a complex. Blocks under it are detached, not removed, so
// their apartments and contract history survive.
func (s *ComplexService) Delete(ctx context.Context, id uint, actorID uint) error {
	complex, err := s.repo.FindByIDWithBlocks(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	for i := range complex.Blocks {
		block := &complex.Blocks[i]
		block.ComplexID = nil
		if err := s.blockRepo.Update(ctx, block); err != nil {
			return err
		}
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.auditSvc.Log(ctx, actorID, "DELETE", "Complex", id,
		fmt.Sprintf("Deleted complex %s (%d blocks detached)", complex.Name, len(complex.Blocks)), "", "")
	return nil
}

// --- Blocks ---

func (s *ComplexService) FindBlock(ctx context.Context, id uint) (*models.Block, error) {
	block, err := s.blockRepo.FindByIDWithApartments(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return block, nil
}

func (s *ComplexService) ListBlocks(ctx context.Context, complexID uint, query *repository.ListQuery) ([]models.Block, int64, error) {
	return s.blockRepo.List(ctx, complexID, query)
}

func (s *ComplexService) CreateBlock(ctx context.Context, block *models.Block, actorID uint) error {
	if block.ComplexID != nil {
		if _, err := s.repo.FindByID(ctx, *block.ComplexID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
	}

	if err := s.blockRepo.Create(ctx, block); err != nil {
		return err
	}

	if block.ComplexID != nil {
		if err := s.repo.RecalculateTotals(ctx, *block.ComplexID); err != nil {
			return err
		}
	}

	s.auditSvc.Log(ctx, actorID, "CREATE", "Block", block.ID,
		fmt.Sprintf("Created block %s", block.Name), "", "")
	return nil
}

func (s *ComplexService) UpdateBlock(ctx context.Context, block *models.Block, actorID uint) error {
	if err := s.blockRepo.Update(ctx, block); err != nil {
		return err
	}
	s.auditSvc.Log(ctx, actorID, "UPDATE", "Block", block.ID,
		fmt.Sprintf("Updated block %s", block.Name), "", "")
	return nil
}

// DeleteBlock removes an empty block. Blocks holding apartments must be
// emptied first.
func (s *ComplexService) DeleteBlock(ctx context.Context, id uint, actorID uint) error {
	block, err := s.blockRepo.FindByIDWithApartments(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	if len(block.Apartments) > 0 {
		return ErrBlockNotEmpty
	}

	if err := s.blockRepo.Delete(ctx, id); err != nil {
		return err
	}

	if block.ComplexID != nil {
		if err := s.repo.RecalculateTotals(ctx, *block.ComplexID); err != nil {
			return err
		}
	}

	s.auditSvc.Log(ctx, actorID, "DELETE", "Block", id,
		fmt.Sprintf("Deleted block %s", block.Name), "", "")
	return nil
}

// GenerateApartmentsInput describes a floor-by-floor apartment generation run
type GenerateApartmentsInput struct {
	Floors            int
	ApartmentsPerUnit int
	StartNumber       int
	Area              float64
	Rooms             int
	Price             float64
}

// GenerateApartments bulk-creates apartments for a block, numbering them
// sequentially across floors.
func (s *ComplexService) GenerateApartments(ctx context.Context, blockID uint, input GenerateApartmentsInput, actorID uint) ([]models.Apartment, error) {
	block, err := s.blockRepo.FindByID(ctx, blockID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if input.Floors <= 0 || input.ApartmentsPerUnit <= 0 {
		return nil, errors.New("floors and apartments per floor must be positive")
	}
	if input.StartNumber <= 0 {
		input.StartNumber = 1
	}

	number := input.StartNumber
	apartments := make([]models.Apartment, 0, input.Floors*input.ApartmentsPerUnit)
	for floor := 1; floor <= input.Floors; floor++ {
		for i := 0; i < input.ApartmentsPerUnit; i++ {
			apartments = append(apartments, models.Apartment{
				BlockID:         blockID,
				ApartmentNumber: fmt.Sprintf("%d", number),
				Floor:           floor,
				Area:            input.Area,
				Rooms:           input.Rooms,
				Price:           input.Price,
				Status:          models.ApartmentStatusAvailable,
			})
			number++
		}
	}

	if err := s.apartmentRepo.CreateBatch(ctx, apartments); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicate
		}
		return nil, err
	}

	if err := s.blockRepo.RecalculateCounters(ctx, blockID); err != nil {
		return nil, err
	}
	if block.ComplexID != nil {
		if err := s.repo.RecalculateTotals(ctx, *block.ComplexID); err != nil {
			return nil, err
		}
	}

	s.auditSvc.Log(ctx, actorID, "CREATE", "Block", blockID,
		fmt.Sprintf("Generated %d apartments in block %s", len(apartments), block.Name), "", "")

	return apartments, nil
}

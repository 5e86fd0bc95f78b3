package services

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/azizjun/kvartal-api/internal/config"
	"github.com/azizjun/kvartal-api/internal/database"
	"github.com/azizjun/kvartal-api/internal/jobs"
	"github.com/azizjun/kvartal-api/internal/models"
	"github.com/azizjun/kvartal-api/internal/repository"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	return db
}

func setupTestServices(t *testing.T) (*Services, *gorm.DB) {
	t.Helper()

	db := setupTestDB(t)
	repos := repository.NewRepositories(db)
	worker := jobs.NewWorker(1)
	t.Cleanup(worker.Shutdown)

	cfg := &config.Config{
		JWTSecret:          "test-secret",
		JWTExpirationHours: 1,
	}

	return NewServices(repos, worker, cfg, db), db
}

func seedUser(t *testing.T, db *gorm.DB, email, role string) *models.User {
	t.Helper()

	hash, err := HashPassword("password123")
	require.NoError(t, err)

	user := &models.User{
		Email:             email,
		EncryptedPassword: hash,
		FullName:          "Test User",
		Role:              role,
		Status:            models.StatusActive,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedClient(t *testing.T, db *gorm.DB, name string) *models.Client {
	t.Helper()

	client := &models.Client{
		FullName: name,
		Phone:    "+998901234567",
	}
	require.NoError(t, db.Create(client).Error)
	return client
}

// seedApartment creates a complex with one block and one available apartment.
func seedApartment(t *testing.T, db *gorm.DB, number string, price float64) *models.Apartment {
	t.Helper()

	cplx := &models.Complex{Name: "Navoiy Residence", Address: "Navoiy street 12"}
	require.NoError(t, db.Create(cplx).Error)

	block := &models.Block{ComplexID: &cplx.ID, Name: "A"}
	require.NoError(t, db.Create(block).Error)

	apartment := &models.Apartment{
		BlockID:         block.ID,
		ApartmentNumber: number,
		Floor:           3,
		Area:            64.5,
		Rooms:           2,
		Price:           price,
		Status:          models.ApartmentStatusAvailable,
	}
	require.NoError(t, db.Create(apartment).Error)
	return apartment
}

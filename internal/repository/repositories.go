package repository

import (
	"gorm.io/gorm"
)

// Repositories holds all repository instances
type Repositories struct {
	User         UserRepository
	Complex      ComplexRepository
	Block        BlockRepository
	Apartment    ApartmentRepository
	Client       ClientRepository
	Contract     ContractRepository
	Payment      PaymentRepository
	Layout       LayoutRepository
	TechPassport TechPassportRepository
	Notification NotificationRepository
	RefreshToken RefreshTokenRepository
	Audit        AuditRepository
	Analytics    AnalyticsRepository
}

// NewRepositories creates all repository instances
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:         NewUserRepository(db),
		Complex:      NewComplexRepository(db),
		Block:        NewBlockRepository(db),
		Apartment:    NewApartmentRepository(db),
		Client:       NewClientRepository(db),
		Contract:     NewContractRepository(db),
		Payment:      NewPaymentRepository(db),
		Layout:       NewLayoutRepository(db),
		TechPassport: NewTechPassportRepository(db),
		Notification: NewNotificationRepository(db),
		RefreshToken: NewRefreshTokenRepository(db),
		Audit:        NewAuditRepository(db),
		Analytics:    NewAnalyticsRepository(db),
	}
}

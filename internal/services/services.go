package services

import (
	"gorm.io/gorm"

	"github.com/azizjun/kvartal-api/internal/config"
	"github.com/azizjun/kvartal-api/internal/jobs"
	"github.com/azizjun/kvartal-api/internal/repository"
)

// Services holds all service instances
type Services struct {
	Auth         *AuthService
	User         *UserService
	Complex      *ComplexService
	Apartment    *ApartmentService
	Client       *ClientService
	Contract     *ContractService
	Payment      *PaymentService
	Layout       *LayoutService
	TechPassport *TechPassportService
	Notification *NotificationService
	Audit        *AuditService
	Analytics    *AnalyticsService
	Export       *ExportService
	Report       *ReportService
	Job          *JobService
}

// NewServices creates all service instances
func NewServices(repos *repository.Repositories, worker *jobs.Worker, cfg *config.Config, db *gorm.DB) *Services {
	notificationSvc := NewNotificationService(repos.Notification, repos.User)
	auditSvc := NewAuditService(repos.Audit)
	analyticsSvc := NewAnalyticsService(repos.Analytics, repos.Contract, repos.Layout, repos.TechPassport)

	return &Services{
		Auth:         NewAuthService(repos.User, repos.RefreshToken, cfg),
		User:         NewUserService(repos.User, notificationSvc, auditSvc, worker),
		Complex:      NewComplexService(repos.Complex, repos.Block, repos.Apartment, auditSvc),
		Apartment:    NewApartmentService(repos.Apartment, repos.Block, repos.Contract, auditSvc),
		Client:       NewClientService(repos.Client, auditSvc),
		Contract:     NewContractService(db, repos.Contract, repos.Apartment, repos.Block, repos.Client, repos.Payment, notificationSvc, auditSvc, worker),
		Payment:      NewPaymentService(db, repos.Payment, repos.Contract, notificationSvc, auditSvc, worker),
		Layout:       NewLayoutService(repos.Layout, repos.Apartment, auditSvc),
		TechPassport: NewTechPassportService(repos.TechPassport, repos.Contract, auditSvc),
		Notification: notificationSvc,
		Audit:        auditSvc,
		Analytics:    analyticsSvc,
		Export:       NewExportService(repos.Contract, repos.Payment, analyticsSvc),
		Report:       NewReportService(repos.Contract, repos.Payment),
		Job:          NewJobService(worker),
	}
}

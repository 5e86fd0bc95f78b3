package handlers

import (
	"github.com/azizjun/kvartal-api/internal/services"
)

// Handlers holds all handler instances
type Handlers struct {
	Health       *HealthHandler
	Auth         *AuthHandler
	User         *UserHandler
	Complex      *ComplexHandler
	Apartment    *ApartmentHandler
	Client       *ClientHandler
	Contract     *ContractHandler
	Payment      *PaymentHandler
	Layout       *LayoutHandler
	TechPassport *TechPassportHandler
	Notification *NotificationHandler
	Dashboard    *DashboardHandler
	Audit        *AuditHandler
}

// NewHandlers creates all handler instances
func NewHandlers(svcs *services.Services) *Handlers {
	return &Handlers{
		Health:       NewHealthHandler(),
		Auth:         NewAuthHandler(svcs.Auth),
		User:         NewUserHandler(svcs.User),
		Complex:      NewComplexHandler(svcs.Complex),
		Apartment:    NewApartmentHandler(svcs.Apartment, svcs.Layout),
		Client:       NewClientHandler(svcs.Client),
		Contract:     NewContractHandler(svcs.Contract, svcs.Export, svcs.Report),
		Payment:      NewPaymentHandler(svcs.Payment, svcs.Export),
		Layout:       NewLayoutHandler(svcs.Layout),
		TechPassport: NewTechPassportHandler(svcs.TechPassport),
		Notification: NewNotificationHandler(svcs.Notification),
		Dashboard:    NewDashboardHandler(svcs.Analytics, svcs.Export, svcs.Report, svcs.Job),
		Audit:        NewAuditHandler(svcs.Audit),
	}
}

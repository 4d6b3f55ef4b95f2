package service

import (
	"github.com/invomate/invomate/internal/cache"
	"github.com/invomate/invomate/internal/config"
	"github.com/invomate/invomate/internal/domain/client"
	"github.com/invomate/invomate/internal/domain/invoice"
	"github.com/invomate/invomate/internal/domain/payment"
	"github.com/invomate/invomate/internal/domain/plan"
	"github.com/invomate/invomate/internal/domain/usage"
	"github.com/invomate/invomate/internal/email"
	"github.com/invomate/invomate/internal/logger"
	"github.com/invomate/invomate/internal/postgres"
)

// ServiceParams holds the common dependencies shared by all services
type ServiceParams struct {
	Logger *logger.Logger
	Config *config.Configuration
	DB     postgres.IClient
	Cache  cache.Cache

	// Repositories
	ClientRepo   client.Repository
	InvoiceRepo  invoice.Repository
	SequenceRepo invoice.SequenceRepository
	PaymentRepo  payment.Repository
	PlanRepo     plan.Repository
	UsageRepo    usage.Repository

	// Outbound clients
	EmailClient   *email.Client
	PromoLookup   PromoLookup
	CryptoGateway CryptoGateway
}

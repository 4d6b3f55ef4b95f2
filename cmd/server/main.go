package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/invomate/invomate/internal/api"
	v1 "github.com/invomate/invomate/internal/api/v1"
	"github.com/invomate/invomate/internal/cache"
	"github.com/invomate/invomate/internal/config"
	"github.com/invomate/invomate/internal/domain/client"
	"github.com/invomate/invomate/internal/domain/invoice"
	"github.com/invomate/invomate/internal/domain/payment"
	"github.com/invomate/invomate/internal/domain/plan"
	"github.com/invomate/invomate/internal/domain/usage"
	"github.com/invomate/invomate/internal/email"
	"github.com/invomate/invomate/internal/httpclient"
	"github.com/invomate/invomate/internal/integration/nowpay"
	"github.com/invomate/invomate/internal/integration/stripe"
	"github.com/invomate/invomate/internal/logger"
	"github.com/invomate/invomate/internal/postgres"
	"github.com/invomate/invomate/internal/redis"
	pgrepo "github.com/invomate/invomate/internal/repository/postgres"
	"github.com/invomate/invomate/internal/rest/middleware"
	"github.com/invomate/invomate/internal/service"
	"github.com/invomate/invomate/internal/types"
	"github.com/joho/godotenv"
	"go.uber.org/fx"
)

// overdueSweepInterval is how often the background job checks for invoices
// past their due date.
const overdueSweepInterval = time.Hour

func main() {
	_ = godotenv.Load()

	app := fx.New(
		fx.Provide(
			config.NewConfig,
			logger.NewLoggerFromConfig,
			postgres.NewDB,
			postgres.NewClient,
			cache.NewInMemoryCache,
			redis.NewClient,

			pgrepo.NewClientRepository,
			pgrepo.NewInvoiceRepository,
			pgrepo.NewSequenceRepository,
			pgrepo.NewPaymentRepository,
			pgrepo.NewPlanRepository,
			pgrepo.NewUsageRepository,

			email.NewClient,
			newPromoLookup,
			newCryptoGateway,
			newServiceParams,

			service.NewUsageGateService,
			service.NewReconcilerService,
			service.NewInvoiceService,
			service.NewClientService,
			service.NewPaymentService,

			v1.NewHealthHandler,
			v1.NewClientHandler,
			v1.NewInvoiceHandler,
			v1.NewPaymentHandler,
			v1.NewUsageHandler,
			v1.NewWebhookHandler,

			middleware.NewRateLimiter,
			api.NewRouter,
		),
		fx.Invoke(startServer),
		fx.Invoke(startOverdueSweep),
	)

	app.Run()
}

func newPromoLookup(cfg *config.Configuration, log *logger.Logger) service.PromoLookup {
	return stripe.NewPromoClient(cfg.Stripe.SecretKey, log)
}

func newCryptoGateway(cfg *config.Configuration, log *logger.Logger) service.CryptoGateway {
	return nowpay.NewClient(httpclient.NewDefaultClient(), cfg.Webhook.NowPayAPIKey, log)
}

func newServiceParams(
	log *logger.Logger,
	cfg *config.Configuration,
	db postgres.IClient,
	c cache.Cache,
	clientRepo client.Repository,
	invoiceRepo invoice.Repository,
	sequenceRepo invoice.SequenceRepository,
	paymentRepo payment.Repository,
	planRepo plan.Repository,
	usageRepo usage.Repository,
	emailClient *email.Client,
	promoLookup service.PromoLookup,
	cryptoGateway service.CryptoGateway,
) service.ServiceParams {
	return service.ServiceParams{
		Logger:        log,
		Config:        cfg,
		DB:            db,
		Cache:         c,
		ClientRepo:    clientRepo,
		InvoiceRepo:   invoiceRepo,
		SequenceRepo:  sequenceRepo,
		PaymentRepo:   paymentRepo,
		PlanRepo:      planRepo,
		UsageRepo:     usageRepo,
		EmailClient:   emailClient,
		PromoLookup:   promoLookup,
		CryptoGateway: cryptoGateway,
	}
}

func startServer(
	lc fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Configuration,
	log *logger.Logger,
) {
	srv := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: router,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infow("starting server", "address", cfg.Server.Address)
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatalw("server failed", "error", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Infow("stopping server")
			return srv.Shutdown(ctx)
		},
	})
}

// startOverdueSweep periodically flips sent invoices past their due date to
// overdue.
func startOverdueSweep(
	lc fx.Lifecycle,
	params service.ServiceParams,
	log *logger.Logger,
) {
	invoiceSvc := service.NewInvoiceService(params)
	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				ticker := time.NewTicker(overdueSweepInterval)
				defer ticker.Stop()

				for {
					select {
					case <-done:
						return
					case <-ticker.C:
						sweepCtx := types.SetUserID(context.Background(), "system")
						if _, err := invoiceSvc.MarkOverdueInvoices(sweepCtx); err != nil {
							log.Errorw("overdue sweep failed", "error", err)
						}
					}
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			close(done)
			return nil
		},
	})
}

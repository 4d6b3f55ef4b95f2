package api

import (
	"github.com/gin-gonic/gin"
	v1 "github.com/invomate/invomate/internal/api/v1"
	"github.com/invomate/invomate/internal/config"
	"github.com/invomate/invomate/internal/logger"
	"github.com/invomate/invomate/internal/rest/middleware"
	"go.uber.org/fx"
)

// Handlers groups every HTTP handler for injection into the router.
type Handlers struct {
	fx.In

	Health  *v1.HealthHandler
	Client  *v1.ClientHandler
	Invoice *v1.InvoiceHandler
	Payment *v1.PaymentHandler
	Usage   *v1.UsageHandler
	Webhook *v1.WebhookHandler
}

// NewRouter assembles the gin engine. Webhooks and health sit outside the
// api-key gate: gateways sign their own requests and probes carry no
// credentials. Everything else requires a key.
func NewRouter(handlers Handlers, cfg *config.Configuration, log *logger.Logger, limiter *middleware.RateLimiter) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	router.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.RequestLogger(log),
		middleware.CORS(),
		middleware.ErrorHandler(log),
		limiter.Handler(),
	)

	router.GET("/health", handlers.Health.Health)

	webhooks := router.Group("/webhooks")
	{
		webhooks.POST("/crypto", handlers.Webhook.HandleCryptoWebhook)
		webhooks.POST("/stripe", handlers.Webhook.HandleStripeWebhook)
	}

	private := router.Group("/v1")
	private.Use(middleware.APIKeyAuth(cfg, log))
	{
		clients := private.Group("/clients")
		{
			clients.POST("", handlers.Client.CreateClient)
			clients.GET("", handlers.Client.ListClients)
			clients.GET("/:id", handlers.Client.GetClient)
			clients.PUT("/:id", handlers.Client.UpdateClient)
			clients.DELETE("/:id", handlers.Client.ArchiveClient)
		}

		invoices := private.Group("/invoices")
		{
			invoices.POST("", handlers.Invoice.CreateInvoice)
			invoices.GET("", handlers.Invoice.ListInvoices)
			invoices.GET("/:id", handlers.Invoice.GetInvoice)
			invoices.DELETE("/:id", handlers.Invoice.ArchiveInvoice)
			invoices.POST("/:id/send", handlers.Invoice.SendInvoice)
			invoices.POST("/:id/document", handlers.Invoice.GenerateDocument)
			invoices.POST("/:id/payments", handlers.Invoice.RecordPayment)
		}

		payments := private.Group("/payments")
		{
			payments.GET("", handlers.Payment.ListPayments)
			payments.GET("/:id", handlers.Payment.GetPayment)
			payments.POST("/refresh", handlers.Payment.RefreshPayment)
		}

		usage := private.Group("/usage")
		{
			usage.GET("", handlers.Usage.Snapshot)
			usage.GET("/:kind", handlers.Usage.CheckLimit)
		}
	}

	return router
}

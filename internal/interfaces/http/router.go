package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	appanalytics "github.com/jhoicas/gst-billing-api/internal/application/analytics"
	"github.com/jhoicas/gst-billing-api/internal/application/auth"
	"github.com/jhoicas/gst-billing-api/internal/application/billing"
	"github.com/jhoicas/gst-billing-api/internal/application/profile"
	"github.com/jhoicas/gst-billing-api/internal/infrastructure/metrics"
	"github.com/jhoicas/gst-billing-api/pkg/config"
)

// RouterDeps holds the router dependencies.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	ProfileUC   *profile.ProfileUseCase
	CustomerUC  *billing.CustomerUseCase
	InvoiceUC   *billing.InvoiceUseCase
	DocumentUC  *billing.DocumentUseCase
	DashboardUC *appanalytics.DashboardUseCase
	Metrics     *metrics.Metrics // nil disables /metrics and request metrics
	Logger      zerolog.Logger
	JWTSecret   string
	ServiceName string
}

// NewApp builds the Fiber app with the API error handler and common middleware.
func NewApp(cfg config.Config, deps RouterDeps) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
		BodyLimit:    cfg.HTTP.BodyLimitMB << 20,
		ErrorHandler: ErrorHandler,
	})
	app.Use(recover.New())
	var observer RequestObserver
	if deps.Metrics != nil {
		observer = deps.Metrics
	}
	app.Use(RequestLogger(deps.Logger, observer))
	app.Use(cors.New(cors.Config{
		AllowOrigins:  cfg.HTTP.AllowOrigins,
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization",
		ExposeHeaders: HeaderContentDigest + ", Content-Disposition",
	}))
	return app
}

// Router registers the API routes.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.ServiceName})
	})
	if deps.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	}

	api := app.Group("/api")

	// Public
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup := api.Group("/auth")
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	gstHandler := NewGSTHandler()
	gstGroup := api.Group("/gst")
	gstGroup.Get("/words", gstHandler.Words)
	gstGroup.Get("/supply-type", gstHandler.SupplyType)
	gstGroup.Post("/validate", gstHandler.Validate)
	gstGroup.Post("/calculate", gstHandler.Calculate)

	// Protected (Bearer token)
	requireAuth := AuthMiddleware(deps.JWTSecret)
	authGroup.Get("/me", requireAuth, authHandler.Me)

	profileHandler := NewProfileHandler(deps.ProfileUC)
	profiles := api.Group("/profile", requireAuth)
	profiles.Get("/", profileHandler.Get)
	profiles.Put("/", profileHandler.Upsert)
	profiles.Post("/logo", profileHandler.UploadLogo)

	customerHandler := NewCustomerHandler(deps.CustomerUC)
	customers := api.Group("/customers", requireAuth)
	customers.Post("/", customerHandler.Create)
	customers.Get("/", customerHandler.List)
	customers.Get("/:id", customerHandler.Get)
	customers.Put("/:id", customerHandler.Update)
	customers.Delete("/:id", customerHandler.Delete)

	invoiceHandler := NewInvoiceHandler(deps.InvoiceUC, deps.DocumentUC)
	invoices := api.Group("/invoices", requireAuth)
	invoices.Post("/calculate", invoiceHandler.Calculate)
	invoices.Post("/", invoiceHandler.Create)
	invoices.Get("/", invoiceHandler.List)
	invoices.Get("/:id", invoiceHandler.Get)
	invoices.Put("/:id", invoiceHandler.Update)
	invoices.Patch("/:id/status", invoiceHandler.UpdateStatus)
	invoices.Delete("/:id", invoiceHandler.Delete)
	invoices.Get("/:id/pdf", invoiceHandler.DownloadPDF)
	invoices.Get("/:id/xml", invoiceHandler.ExportXML)

	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	api.Get("/dashboard/summary", requireAuth, dashboardHandler.GetSummary)
}

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/prometheus/client_golang/prometheus"

	appanalytics "github.com/jhoicas/gst-billing-api/internal/application/analytics"
	"github.com/jhoicas/gst-billing-api/internal/application/auth"
	"github.com/jhoicas/gst-billing-api/internal/application/billing"
	"github.com/jhoicas/gst-billing-api/internal/application/profile"
	infracache "github.com/jhoicas/gst-billing-api/internal/infrastructure/cache"
	inframetrics "github.com/jhoicas/gst-billing-api/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/gst-billing-api/internal/infrastructure/pdf"
	"github.com/jhoicas/gst-billing-api/internal/infrastructure/postgres"
	"github.com/jhoicas/gst-billing-api/internal/infrastructure/storage"
	"github.com/jhoicas/gst-billing-api/internal/infrastructure/xmlexport"
	httpRouter "github.com/jhoicas/gst-billing-api/internal/interfaces/http"
	"github.com/jhoicas/gst-billing-api/pkg/config"
	"github.com/jhoicas/gst-billing-api/pkg/logger"

	_ "github.com/jhoicas/gst-billing-api/docs"
)

// @title                       GST Billing API
// @version                     1.0
// @description                 GST invoicing for Indian small businesses.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("load config: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("starting")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("connect to PostgreSQL")
	}
	defer pool.Close()

	if cfg.DB.AutoMigrate {
		version, err := postgres.RunMigrations(pool)
		if err != nil {
			log.Fatal().Err(err).Msg("run migrations")
		}
		log.Info().Uint("version", version).Msg("migrations applied")
	}

	redisClient, err := infracache.NewClient(ctx, cfg.Redis)
	if err != nil {
		// The cache is optional; run without it.
		log.Warn().Err(err).Msg("redis unavailable, dashboard cache disabled")
	}
	if redisClient != nil {
		defer redisClient.Close()
	}
	summaryCache := infracache.NewSummaryCache(redisClient, cfg.Redis.SummaryTTL)

	var (
		collector      *inframetrics.Metrics
		invoiceMetrics billing.InvoiceMetrics
	)
	if cfg.Metrics.Enabled {
		collector = inframetrics.New(prometheus.DefaultRegisterer, inframetrics.Config{
			ServiceName: cfg.App.Name,
			Environment: cfg.App.Env,
		})
		invoiceMetrics = collector
	}

	logos, err := storage.NewLocalLogoStore(cfg.Upload.Dir)
	if err != nil {
		log.Fatal().Err(err).Msg("prepare upload directory")
	}

	userRepo := postgres.NewUserRepository(pool)
	profileRepo := postgres.NewBusinessProfileRepository(pool)
	customerRepo := postgres.NewCustomerRepository(pool)
	invoiceRepo := postgres.NewInvoiceRepository(pool)
	dashboardRepo := postgres.NewDashboardRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	profileUC := profile.NewProfileUseCase(profileRepo, logos, cfg.Upload.MaxBytes(), cfg.Invoice.DefaultPrefix,
		log.Component("profile").Zerolog())
	customerUC := billing.NewCustomerUseCase(customerRepo, summaryCache, log.Component("customers").Zerolog())
	invoiceUC := billing.NewInvoiceUseCase(billing.InvoiceDeps{
		TxRunner:     txRunner,
		InvoiceRepo:  invoiceRepo,
		CustomerRepo: customerRepo,
		ProfileRepo:  profileRepo,
		Summary:      summaryCache,
		Metrics:      invoiceMetrics,
		Logger:       log.Component("billing").Zerolog(),
	})
	documentUC := billing.NewDocumentUseCase(
		invoiceRepo, customerRepo, profileRepo,
		infrapdf.NewMarotoPDFGenerator(), xmlexport.NewTallyExporter(), invoiceMetrics,
	)
	dashboardUC := appanalytics.NewDashboardUseCase(dashboardRepo, summaryCache, log.Component("dashboard").Zerolog())

	deps := httpRouter.RouterDeps{
		AuthUC:      authUC,
		ProfileUC:   profileUC,
		CustomerUC:  customerUC,
		InvoiceUC:   invoiceUC,
		DocumentUC:  documentUC,
		DashboardUC: dashboardUC,
		Metrics:     collector,
		Logger:      log.Component("http").Zerolog(),
		JWTSecret:   cfg.JWT.Secret,
		ServiceName: cfg.App.Name,
	}
	app := httpRouter.NewApp(*cfg, deps)

	// Swagger UI: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "GST Billing API",
	}))

	httpRouter.Router(app, deps)

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("http server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}

	log.Info().Msg("stopped")
}

package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/withonly-sujal/bloodbank-api/api/swagger"
	"github.com/withonly-sujal/bloodbank-api/internal/handler"
	"github.com/withonly-sujal/bloodbank-api/internal/middleware"
	"github.com/withonly-sujal/bloodbank-api/internal/repository"
	"github.com/withonly-sujal/bloodbank-api/internal/service"
	"github.com/withonly-sujal/bloodbank-api/pkg/cache"
	"github.com/withonly-sujal/bloodbank-api/pkg/config"
	"github.com/withonly-sujal/bloodbank-api/pkg/database"
	"github.com/withonly-sujal/bloodbank-api/pkg/export"
	"github.com/withonly-sujal/bloodbank-api/pkg/jobs"
	"github.com/withonly-sujal/bloodbank-api/pkg/logger"
	corsmiddleware "github.com/withonly-sujal/bloodbank-api/pkg/middleware/cors"
	reqidmiddleware "github.com/withonly-sujal/bloodbank-api/pkg/middleware/requestid"
	"github.com/withonly-sujal/bloodbank-api/pkg/storage"
)

// @title Blood Bank API
// @version 1.0.0
// @description Donor registry, donation intake, stock reporting and request fulfillment
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close() //nolint:errcheck

	// Redis is optional. The API serves every request without it, just slower.
	var cacheRepo service.CacheRepository
	cacheEnabled := false
	if redisClient, redisErr := cache.NewRedis(cfg.Redis); redisErr != nil {
		logr.Sugar().Warnw("redis unavailable, caching disabled", "error", redisErr)
	} else {
		defer redisClient.Close() //nolint:errcheck
		cacheRepo = repository.NewCacheRepository(redisClient)
		cacheEnabled = true
	}

	validate := validator.New()
	metricsSvc := service.NewMetricsService()
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Dashboard.CacheTTL, logr, cacheEnabled)

	donorRepo := repository.NewDonorRepository(db)
	staffRepo := repository.NewStaffRepository(db)
	donationRepo := repository.NewDonationRepository(db)
	bagRepo := repository.NewBloodBagRepository(db)
	requestRepo := repository.NewRequestRepository(db)
	reportRepo := repository.NewReportRepository(db)

	donorSvc := service.NewDonorService(donorRepo, bagRepo, validate, logr)
	donationSvc := service.NewDonationService(service.DonationServiceParams{
		Donations: donationRepo,
		Donors:    donorRepo,
		Staff:     staffRepo,
		Cache:     cacheSvc,
		Metrics:   metricsSvc,
		Validator: validate,
		Logger:    logr,
		Config: service.DonationServiceConfig{
			MaxUnitsPerSession: cfg.Donation.MaxUnitsPerSession,
			ShelfLifeMonths:    cfg.Donation.ShelfLifeMonths,
		},
	})
	reportSvc := service.NewReportService(reportRepo, cacheSvc, metricsSvc, logr, service.ReportServiceConfig{})
	dashboardSvc := service.NewDashboardService(reportRepo, cacheSvc, logr, service.DashboardServiceConfig{CacheTTL: cfg.Dashboard.CacheTTL})
	requestSvc := service.NewRequestService(requestRepo, cacheSvc, metricsSvc, validate, logr)

	ctx := context.Background()

	var exportJobSvc *service.ExportJobService
	if cfg.Exports.Enabled {
		files, storageErr := storage.NewLocalStorage(cfg.Exports.StorageDir)
		if storageErr != nil {
			logr.Sugar().Fatalw("failed to init export storage", "error", storageErr)
		}
		signer := storage.NewSignedURLSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL)
		exportJobRepo := repository.NewExportJobRepository(db)
		exportSvc := service.NewExportService(
			donorRepo,
			reportRepo,
			files,
			signer,
			service.ExportConfig{APIPrefix: cfg.APIPrefix, ResultTTL: cfg.Exports.SignedURLTTL},
			logr,
			export.NewCSVExporter(),
			export.NewPDFExporter(),
		)
		worker := service.NewExportWorker(exportJobRepo, exportSvc, cfg.Exports.WorkerRetries, logr)
		queue := jobs.NewQueue("exports", worker.Handle, jobs.QueueConfig{
			Workers:    cfg.Exports.WorkerConcurrency,
			MaxRetries: cfg.Exports.WorkerRetries,
			Logger:     logr,
		})
		queue.Start(ctx)
		defer queue.Stop()

		exportJobSvc = service.NewExportJobService(exportJobRepo, queue, exportSvc, logr, service.ExportJobServiceConfig{
			ResultTTL:       cfg.Exports.SignedURLTTL,
			CleanupInterval: cfg.Exports.CleanupInterval,
			MaxRetries:      cfg.Exports.WorkerRetries,
		})
		exportJobSvc.RecoverPendingJobs(ctx)
		exportJobSvc.StartCleanup(ctx)
	}

	dashboardH := handler.NewDashboardHandler(dashboardSvc)
	donorH := handler.NewDonorHandler(donorSvc)
	donationH := handler.NewDonationHandler(donationSvc)
	reportH := handler.NewReportHandler(reportSvc)
	requestH := handler.NewRequestHandler(requestSvc)
	metricsH := handler.NewMetricsHandler(metricsSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.WithResponseMeta())
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsH.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsH.Prometheus)

	api := r.Group(cfg.APIPrefix)
	{
		if cfg.Dashboard.Enabled {
			api.GET("/dashboard", dashboardH.Stats)
		}
		api.GET("/status", metricsH.Status)

		api.GET("/donors", donorH.List)
		api.POST("/donors", donorH.Register)
		api.GET("/donors/:id", donorH.Get)
		api.GET("/donors/:id/bags", donorH.Bags)

		api.GET("/donations/staff", donationH.Staff)
		api.POST("/donations", donationH.Record)

		api.GET("/reports/stock", reportH.Stock)
		api.GET("/reports/eligible-donors", reportH.EligibleDonors)

		api.POST("/requests", requestH.Create)
		api.GET("/requests/:id", requestH.Get)
		api.POST("/requests/:id/fulfill", requestH.Fulfill)

		if exportJobSvc != nil {
			exportH := handler.NewExportHandler(exportJobSvc)
			api.POST("/exports", exportH.Create)
			api.GET("/exports/:id", exportH.Status)
			api.GET("/exports/download/:token", exportH.Download)
		}
	}

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env, "cache", cacheEnabled, "exports", cfg.Exports.Enabled)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}

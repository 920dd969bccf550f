package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/sudoeste-fight/academy-api/api/swagger"
	"github.com/sudoeste-fight/academy-api/internal/handler"
	"github.com/sudoeste-fight/academy-api/internal/middleware"
	"github.com/sudoeste-fight/academy-api/internal/models"
	"github.com/sudoeste-fight/academy-api/internal/repository"
	"github.com/sudoeste-fight/academy-api/internal/service"
	"github.com/sudoeste-fight/academy-api/pkg/cache"
	"github.com/sudoeste-fight/academy-api/pkg/config"
	"github.com/sudoeste-fight/academy-api/pkg/database"
	"github.com/sudoeste-fight/academy-api/pkg/logger"
	corsmiddleware "github.com/sudoeste-fight/academy-api/pkg/middleware/cors"
	reqidmiddleware "github.com/sudoeste-fight/academy-api/pkg/middleware/requestid"
)

// @title Sudoeste Fight Academy API
// @version 1.0.0
// @description Weekly class agenda, check-ins and notices for the academy.
// @BasePath /api
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

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

	if err := run(cfg, logr); err != nil {
		logr.Fatal("server failed", zap.Error(err))
	}
}

func run(cfg *config.Config, logr *zap.Logger) error {
	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close() //nolint:errcheck

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(context.Background(), db); err != nil {
			return err
		}
		logr.Info("database schema applied")
	}

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close() //nolint:errcheck
	}

	location := cfg.Location()
	validate := service.NewValidator()
	metrics := service.NewMetricsService()

	classRepo := repository.NewClassRepository(db)
	checkInRepo := repository.NewCheckInRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	announcementRepo := repository.NewAnnouncementRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	audit := service.NewAuditService(repository.NewAuditRepository(db), service.AuditConfig{
		Enabled:    cfg.Audit.Enabled,
		Workers:    cfg.Audit.Workers,
		BufferSize: cfg.Audit.BufferSize,
		MaxRetries: cfg.Audit.MaxRetries,
	}, logr.Named("audit"))
	audit.Start(context.Background())
	defer audit.Stop()

	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Cache.AgendaTTL, logr, cfg.Cache.Enabled && redisClient != nil)
	authSvc := service.NewAuthService(studentRepo, validate, audit, logr, service.AuthConfig{
		Secret: cfg.JWT.Secret,
		Expiry: cfg.JWT.Expiration,
		Issuer: cfg.JWT.Issuer,
	})
	scheduleSvc := service.NewScheduleService(classRepo, cacheSvc, audit, validate, logr, cfg.Schedule.OrphanPolicy)
	checkInSvc := service.NewCheckInService(checkInRepo, classRepo, validate, metrics, audit, logr, location)
	reportSvc := service.NewReportService(checkInRepo, validate, logr, cfg.CheckIns.ReportMaxDays, nil, nil)
	studentSvc := service.NewStudentService(studentRepo, validate, audit, logr)
	announcementSvc := service.NewAnnouncementService(announcementRepo, validate, audit, logr)

	engine := newEngine(cfg, logr, metrics)

	deps := map[string]handler.Pinger{"postgres": db}
	if redisClient != nil {
		deps["redis"] = handler.PingerFunc(cacheRepo.Ping)
	}
	metricsHandler := handler.NewMetricsHandler(metrics, deps)
	engine.GET("/health", metricsHandler.Health)
	engine.GET("/ready", metricsHandler.Ready)
	engine.GET("/metrics", metricsHandler.Prometheus)
	if cfg.Env != config.EnvProduction {
		engine.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	var counter middleware.HitCounter = middleware.NewLocalCounter()
	if redisClient != nil {
		counter = repository.NewRateLimitRepository(redisClient)
	}

	router := handler.Router{
		Auth:          handler.NewAuthHandler(authSvc),
		Schedule:      handler.NewScheduleHandler(scheduleSvc),
		CheckIns:      handler.NewCheckInHandler(checkInSvc, reportSvc),
		Students:      handler.NewStudentHandler(studentSvc),
		Announcements: handler.NewAnnouncementHandler(announcementSvc),
	}
	router.Register(engine.Group(cfg.APIPrefix), handler.RouteGuards{
		Authenticated: middleware.JWT(authSvc),
		Teacher:       middleware.RequireRoles(models.RoleTeacher),
		SelfOrTeacher: middleware.RBAC(string(models.RoleTeacher), middleware.SelfAccess),
		LoginLimit: middleware.RateLimit(counter, metrics, middleware.RateLimitConfig{
			Scope: "login",
			Limit: cfg.JWT.LoginRateLimitPerMinute,
		}),
		CheckInLimit: middleware.RateLimit(counter, metrics, middleware.RateLimitConfig{
			Scope: "checkins",
			Limit: cfg.CheckIns.RateLimitPerMinute,
		}),
	})

	return serve(cfg, logr, engine)
}

func newEngine(cfg *config.Config, logr *zap.Logger, metrics *service.MetricsService) *gin.Engine {
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))
	r.Use(middleware.WithResponseMeta())
	return r
}

func serve(cfg *config.Config, logr *zap.Logger, engine *gin.Engine) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "timezone", cfg.Timezone)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		logr.Info("shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

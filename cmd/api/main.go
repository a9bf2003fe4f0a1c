package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/docpoint/docpoint-api/internal/config"
	v1 "github.com/docpoint/docpoint-api/internal/handler/v1"
	"github.com/docpoint/docpoint-api/internal/repository"
	"github.com/docpoint/docpoint-api/internal/service"
	"github.com/docpoint/docpoint-api/pkg/auth"
	"github.com/docpoint/docpoint-api/pkg/cache"
	"github.com/docpoint/docpoint-api/pkg/database"
	"github.com/docpoint/docpoint-api/pkg/logger"
	"github.com/docpoint/docpoint-api/pkg/metrics"
	"github.com/docpoint/docpoint-api/pkg/tracer"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer log.Sync() //nolint:errcheck

	log.Info("starting docpoint api",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	var tracerShutdown func(context.Context) error
	if cfg.Tracing.Enabled {
		tp, err := tracer.Init(cfg.Tracing)
		if err != nil {
			log.Fatal("failed to initialize tracer", zap.Error(err))
		}
		tracerShutdown = tp.Shutdown
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}

	if err := database.Migrate(db, log); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}

	var cacheClient *cache.Client
	if cfg.Redis.Enabled() {
		cacheClient, err = cache.New(cfg.Redis)
		if err != nil {
			log.Warn("redis unavailable, continuing without cache", zap.Error(err))
			cacheClient = nil
		}
	}

	collector := metrics.NewCollector(cfg.App.Name)
	jwtManager := auth.NewJWTManager(cfg.JWT)

	go reportDBStats(db, collector)

	userRepo := repository.NewUserRepository(db)
	doctorRepo := repository.NewDoctorRepository(db)
	appointmentRepo := repository.NewAppointmentRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	auditSvc := service.NewAuditService(auditRepo, collector, log)
	authSvc := service.NewAuthService(userRepo, doctorRepo, jwtManager, auditSvc, log)
	userSvc := service.NewUserService(userRepo, auditSvc, log)
	doctorSvc := service.NewDoctorService(doctorRepo, cacheClient, auditSvc, log)
	bookingSvc := service.NewBookingService(appointmentRepo, auditSvc, collector, log)

	router := v1.NewRouter(cfg, db, collector, jwtManager,
		v1.NewAppointmentHandler(bookingSvc),
		v1.NewDoctorHandler(doctorSvc, authSvc),
		v1.NewUserHandler(userSvc, authSvc),
	)

	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("http server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server shutdown failed", zap.Error(err))
	}

	auditSvc.Shutdown()

	if cacheClient != nil {
		if err := cacheClient.Close(); err != nil {
			log.Error("closing redis client", zap.Error(err))
		}
	}

	if err := database.Close(db); err != nil {
		log.Error("closing database", zap.Error(err))
	}

	if tracerShutdown != nil {
		if err := tracerShutdown(ctx); err != nil {
			log.Error("tracer shutdown failed", zap.Error(err))
		}
	}

	log.Info("stopped")
}

func reportDBStats(db *gorm.DB, collector *metrics.Collector) {
	sqlDB, err := db.DB()
	if err != nil {
		return
	}
	for range time.Tick(15 * time.Second) {
		collector.DBConnections.Set(float64(sqlDB.Stats().OpenConnections))
	}
}

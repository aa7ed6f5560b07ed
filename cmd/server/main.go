package main

import (
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/jhlee-dev/sis-portal/internal/handler"
	"github.com/jhlee-dev/sis-portal/internal/repository"
	"github.com/jhlee-dev/sis-portal/internal/service"
	"github.com/jhlee-dev/sis-portal/internal/session"
	"github.com/jhlee-dev/sis-portal/pkg/cache"
	"github.com/jhlee-dev/sis-portal/pkg/config"
	"github.com/jhlee-dev/sis-portal/pkg/database"
	"github.com/jhlee-dev/sis-portal/pkg/logger"
)

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
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	accounts := repository.NewAccountRepository(db)
	profiles := repository.NewProfileRepository(db)
	catalogs := repository.NewCatalogRepository(db)
	audit := repository.NewAuditRepository(db)

	validate := validator.New()
	sessions := session.NewStore(redisClient, cfg.Session.Secret, cfg.Session.TTL, logr)

	authSvc := service.NewAuthService(accounts, profiles, audit, validate, logr, cfg.Auth.StudentNoLogin)
	registrationSvc := service.NewRegistrationService(profiles, catalogs, audit, validate, logr)
	listingSvc := service.NewListingService(profiles, catalogs, logr)
	exportSvc := service.NewExportService(profiles, logr)
	metricsSvc := service.NewMetricsService()

	cookie := handler.CookieConfig{
		Name:   cfg.Session.CookieName,
		MaxAge: int(cfg.Session.TTL.Seconds()),
		Secure: cfg.Env == config.EnvProduction,
	}

	r := handler.NewRouter(handler.RouterConfig{
		Logger:     logr,
		Metrics:    metricsSvc,
		Sessions:   sessions,
		CookieName: cfg.Session.CookieName,
		Auth:       handler.NewAuthHandler(authSvc, sessions, cookie),
		Student:    handler.NewStudentHandler(listingSvc, sessions, cookie),
		Admin:      handler.NewAdminHandler(listingSvc, registrationSvc, exportSvc),
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}

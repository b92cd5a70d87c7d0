package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/edcenter/console-api/api/swagger"
	"github.com/edcenter/console-api/internal/backend"
	"github.com/edcenter/console-api/internal/exports"
	"github.com/edcenter/console-api/internal/handler"
	"github.com/edcenter/console-api/internal/metrics"
	"github.com/edcenter/console-api/internal/middleware"
	"github.com/edcenter/console-api/internal/session"
	"github.com/edcenter/console-api/internal/store"
	"github.com/edcenter/console-api/pkg/config"
	"github.com/edcenter/console-api/pkg/logger"
	corsmiddleware "github.com/edcenter/console-api/pkg/middleware/cors"
	reqidmiddleware "github.com/edcenter/console-api/pkg/middleware/requestid"
	"github.com/edcenter/console-api/pkg/storage"
)

// @title Education Center Console API
// @version 0.1.0
// @description Gateway between the admin console and the education center API
// @BasePath /
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

	var tokens session.TokenStore
	redisStore, err := session.NewRedisStore(cfg.Redis)
	if err != nil {
		if cfg.Env == config.EnvProduction {
			logr.Sugar().Fatalw("redis unavailable", "error", err)
		}
		logr.Sugar().Warnw("redis unavailable, using in-memory sessions", "error", err)
		tokens = session.NewMemoryStore()
	} else {
		tokens = redisStore
	}

	metricsSvc := metrics.NewService()
	client := backend.New(cfg.Backend.BaseURL, backend.Options{
		Timeout: cfg.Backend.Timeout,
		Logger:  logr,
		Metrics: metricsSvc,
	})
	sessions := session.NewManager(tokens, cfg.Session, logr)

	students := store.NewStudents(client, logr)
	enrollments := store.NewEnrollments(client, logr)

	handlers := handler.Handlers{
		Auth:        handler.NewAuthHandler(client, sessions),
		Students:    handler.NewStudentHandler(students),
		Teachers:    handler.NewTeacherHandler(store.NewTeachers(client, logr)),
		Groups:      handler.NewGroupHandler(store.NewGroups(client, logr)),
		Rooms:       handler.NewRoomHandler(store.NewRooms(client, logr)),
		Enrollments: handler.NewEnrollmentHandler(enrollments, students),
		Attendance:  handler.NewAttendanceHandler(store.NewAttendance(client, logr)),
		Finance:     handler.NewFinanceHandler(store.NewFinance(client, logr), store.NewDebtors(client, logr)),
		Assignments: handler.NewAssignmentHandler(store.NewAssignments(client, logr)),
		Metrics:     handler.NewMetricsHandler(metricsSvc),

		SessionGuard: middleware.Session(sessions),
	}

	if cfg.Exports.Enabled {
		files, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
		if err != nil {
			logr.Sugar().Fatalw("failed to prepare export storage", "error", err)
		}
		signer := storage.NewSignedURLSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL)
		exportSvc := exports.NewService(exports.ServiceParams{
			Source:  client,
			Storage: files,
			Signer:  signer,
			Workers: cfg.Exports.WorkerConcurrency,
			Logger:  logr,
		})
		exportSvc.Start(context.Background())
		defer exportSvc.Stop()
		handlers.Exports = handler.NewExportHandler(exportSvc)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	handlers.Register(r)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("console gateway starting", "addr", addr, "env", cfg.Env, "backend", cfg.Backend.BaseURL)
	if err := r.Run(addr); err != nil && err != http.ErrServerClosed {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}

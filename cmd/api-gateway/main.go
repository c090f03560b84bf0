package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/noah-isme/uni-attend-api/api/swagger"
	"github.com/noah-isme/uni-attend-api/internal/handler"
	"github.com/noah-isme/uni-attend-api/internal/middleware"
	"github.com/noah-isme/uni-attend-api/internal/models"
	"github.com/noah-isme/uni-attend-api/internal/repository"
	"github.com/noah-isme/uni-attend-api/internal/service"
	"github.com/noah-isme/uni-attend-api/pkg/cache"
	"github.com/noah-isme/uni-attend-api/pkg/config"
	"github.com/noah-isme/uni-attend-api/pkg/database"
	"github.com/noah-isme/uni-attend-api/pkg/jobs"
	"github.com/noah-isme/uni-attend-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/uni-attend-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/uni-attend-api/pkg/middleware/requestid"
	"github.com/noah-isme/uni-attend-api/pkg/qr"
	"github.com/noah-isme/uni-attend-api/pkg/storage"
)

// @title Uni Attend API
// @version 1.0.0
// @description QR-based attendance backend
// @BasePath /api/v1
// @schemes http
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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to database", "error", err)
	}
	defer db.Close()

	validate := validator.New()
	metricsSvc := service.NewMetricsService()

	var cacheSvc *service.CacheService
	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
		cacheSvc = service.NewCacheService(nil, metricsSvc, cfg.Stats.CacheTTL, logr, false)
	} else {
		cacheRepo := repository.NewCacheRepository(redisClient, logr)
		defer cacheRepo.Close() //nolint:errcheck
		cacheSvc = service.NewCacheService(cacheRepo, metricsSvc, cfg.Stats.CacheTTL, logr, true)
	}

	userRepo := repository.NewUserRepository(db)
	registrationRepo := repository.NewRegistrationRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	teacherRepo := repository.NewTeacherRepository(db)
	programRepo := repository.NewProgramRepository(db)
	sectionRepo := repository.NewSectionRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)
	statsRepo := repository.NewStatsRepository(db)

	statsSvc := service.NewStatsService(statsRepo, cacheSvc, cfg.Stats.CacheTTL, logr)
	authSvc := service.NewAuthService(userRepo, validate, logr, cfg.JWT)
	registrationSvc := service.NewRegistrationService(registrationRepo, userRepo, service.NewIDGenerator(), statsSvc, validate, logr)
	studentSvc := service.NewStudentService(studentRepo, userRepo, statsSvc, validate, logr)
	teacherSvc := service.NewTeacherService(teacherRepo, statsSvc, logr)
	catalogSvc := service.NewCatalogService(programRepo, sectionRepo, courseRepo, teacherRepo, statsSvc, validate, logr)
	enrollmentSvc := service.NewEnrollmentService(enrollmentRepo, courseRepo, studentRepo, statsSvc, validate, logr)
	attendanceSvc := service.NewAttendanceService(
		attendanceRepo,
		courseRepo,
		enrollmentRepo,
		studentRepo,
		qr.NewRenderer(cfg.Attendance.QRSizePx),
		validate,
		logr,
		cfg.Attendance,
	)

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var reportSvc *service.ReportService
	var reportQueue *jobs.Queue
	if cfg.Reports.Enabled {
		store, err := storage.NewLocalStorage(cfg.Reports.StorageDir)
		if err != nil {
			logr.Sugar().Fatalw("failed to init report storage", "error", err)
		}
		signer := storage.NewSignedURLSigner(cfg.Reports.SignedURLSecret, cfg.Reports.SignedURLTTL)
		reportRepo := repository.NewReportRepository(db)

		reportSvc = service.NewReportService(reportRepo, attendanceRepo, nil, store, signer, logr, cfg.Reports.SignedURLTTL)
		reportQueue = jobs.NewQueue("reports", reportSvc.Process, jobs.QueueConfig{
			Workers:    cfg.Reports.WorkerConcurrency,
			MaxRetries: cfg.Reports.WorkerRetries,
			Logger:     logr,
		})
		reportSvc.SetQueue(reportQueue)
		reportQueue.Start(rootCtx)
		reportSvc.RecoverPendingJobs(rootCtx)
		reportSvc.StartCleanup(rootCtx, cfg.Reports.CleanupInterval)
	}

	authHandler := handler.NewAuthHandler(authSvc)
	registrationHandler := handler.NewRegistrationHandler(registrationSvc, metricsSvc)
	studentHandler := handler.NewStudentHandler(studentSvc)
	teacherHandler := handler.NewTeacherHandler(teacherSvc)
	catalogHandler := handler.NewCatalogHandler(catalogSvc)
	enrollmentHandler := handler.NewEnrollmentHandler(enrollmentSvc)
	attendanceHandler := handler.NewAttendanceHandler(attendanceSvc, metricsSvc)
	statsHandler := handler.NewStatsHandler(statsSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc, db)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	authRequired := middleware.JWT(authSvc)
	adminOnly := middleware.RequireRoles(models.RoleAdmin)
	teacherOrAdmin := middleware.RequireRoles(models.RoleTeacher, models.RoleAdmin)

	api := r.Group(cfg.APIPrefix)
	{
		api.POST("/auth/login", authHandler.Login)

		authed := api.Group("", authRequired)
		{
			authed.GET("/auth/verify", authHandler.Verify)
			authed.GET("/auth/me", authHandler.Me)

			authed.GET("/programs", catalogHandler.ListPrograms)
			authed.GET("/sections", catalogHandler.ListSections)
			authed.GET("/courses", catalogHandler.ListCourses)
			authed.GET("/courses/:id", catalogHandler.GetCourse)
			authed.GET("/students/:id/enrollments", enrollmentHandler.ListByStudent)

			authed.GET("/attendance/sessions/:id/remaining", attendanceHandler.Remaining)
			authed.POST("/attendance/scan", attendanceHandler.Scan)

			admin := authed.Group("", adminOnly)
			{
				admin.POST("/register/student", registrationHandler.RegisterStudent)
				admin.POST("/register/teacher", registrationHandler.RegisterTeacher)
				admin.POST("/register/admin", registrationHandler.RegisterAdmin)

				admin.GET("/admin/students", studentHandler.List)
				admin.GET("/admin/students/:id", studentHandler.Get)
				admin.PUT("/admin/students/:id", studentHandler.Update)
				admin.DELETE("/admin/students/:id", studentHandler.Delete)

				admin.GET("/admin/teachers", teacherHandler.List)
				admin.GET("/admin/teachers/:id", teacherHandler.Get)
				admin.DELETE("/admin/teachers/:id", teacherHandler.Delete)

				admin.GET("/admin/stats", statsHandler.AdminStats)

				admin.POST("/programs", catalogHandler.CreateProgram)
				admin.POST("/sections", catalogHandler.CreateSection)
				admin.PUT("/sections/:id", catalogHandler.UpdateSection)
				admin.DELETE("/sections/:id", catalogHandler.DeleteSection)
				admin.POST("/courses", catalogHandler.CreateCourse)
				admin.PUT("/courses/:id", catalogHandler.UpdateCourse)
				admin.DELETE("/courses/:id", catalogHandler.DeleteCourse)

				admin.POST("/enrollments", enrollmentHandler.Enroll)

				admin.GET("/metrics", metricsHandler.Prometheus)
			}

			staff := authed.Group("", teacherOrAdmin)
			{
				staff.POST("/attendance/sessions", attendanceHandler.CreateSession)
				staff.GET("/attendance/sessions/:id", attendanceHandler.GetSession)
				staff.GET("/attendance/sessions/:id/scans", attendanceHandler.ListScans)
				staff.GET("/courses/:id/enrollments", enrollmentHandler.ListByCourse)
			}

			if reportSvc != nil {
				reportHandler := handler.NewReportHandler(reportSvc)
				reports := authed.Group("", teacherOrAdmin)
				reports.POST("/attendance/sessions/:id/report", reportHandler.Create)
				reports.GET("/reports/:jobID", reportHandler.Status)
				api.GET("/reports/download", reportHandler.Download)
			}
		}
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-rootCtx.Done()
	logr.Sugar().Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("server shutdown failed", "error", err)
	}
	if reportQueue != nil {
		reportQueue.Stop()
	}
}

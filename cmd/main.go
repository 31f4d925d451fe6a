package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"classroom-backend/config"
	httpDelivery "classroom-backend/internal/delivery/http"
	"classroom-backend/internal/notify"
	"classroom-backend/internal/repository"
	"classroom-backend/internal/usecase"
	"classroom-backend/pkg/logger"
	"classroom-backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const appName = "Classroom"

func main() {
	cfg := config.Load()

	log := logger.New(cfg.IsProduction())
	defer func() { _ = log.Sync() }()

	reporter := logger.NewReporter(log, cfg.RollbarToken, cfg.Env)
	defer reporter.Close()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	passwordHash := teacherPasswordHash(cfg, log)

	// Connect to databases
	db := config.ConnectDB(cfg, log)
	defer db.Close(context.Background())

	// Auto migrate
	if err := config.AutoMigrate(db.PG); err != nil {
		log.Fatal("migration failed", zap.Error(err))
	}

	// Initialize repositories
	classRepo := repository.NewClassRepository(db.PG)
	studentRepo := repository.NewStudentRepository(db.PG)
	attendanceRepo := repository.NewAttendanceRepository(db.PG)
	scoreRepo := repository.NewScoreRepository(db.PG)
	importRepo := repository.NewImportReportRepository(db.Mongo)
	photoRepo, err := repository.NewPhotoRepository(db.Mongo)
	if err != nil {
		log.Fatal("failed to open photo bucket", zap.Error(err))
	}
	blacklist := repository.NewTokenBlacklist(db.Redis)

	// Initialize usecases
	thresholds := usecase.RiskThresholds{Attendance: cfg.AtRiskAttendance, Score: cfg.AtRiskScore}
	mailer := notify.NewMailer(cfg.SendgridAPIKey, cfg.MailFrom, appName, log)

	authUsecase := usecase.NewAuthUsecase(passwordHash, []byte(cfg.JWTSecret), cfg.JWTTTL, blacklist)
	classUsecase := usecase.NewClassUsecase(classRepo, studentRepo, photoRepo, log)
	studentUsecase := usecase.NewStudentUsecase(studentRepo, classRepo, photoRepo, importRepo, log, cfg.MaxPhotoMB*1024*1024)
	attendanceUsecase := usecase.NewAttendanceUsecase(attendanceRepo, studentRepo, classRepo)
	scoreUsecase := usecase.NewScoreUsecase(scoreRepo, studentRepo, classRepo)
	dashboardUsecase := usecase.NewDashboardUsecase(classRepo, studentRepo, attendanceRepo, scoreRepo, thresholds)
	reportUsecase := usecase.NewReportUsecase(dashboardUsecase, mailer, cfg.AlertEmail, log)

	// Initialize handlers
	apiHandler := httpDelivery.NewHandler(
		authUsecase, classUsecase, studentUsecase, attendanceUsecase,
		scoreUsecase, dashboardUsecase, reportUsecase, reporter, cfg.JWTTTL,
	)
	webHandler := httpDelivery.NewWebHandler(authUsecase, classUsecase, studentUsecase, attendanceUsecase, dashboardUsecase, cfg.JWTTTL)

	// Initialize router with both API and Web handlers
	router := httpDelivery.InitRouter(apiHandler, log, reporter, cfg.CORSOrigins)
	httpDelivery.InitWebRouter(router, webHandler)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info("server running",
			zap.String("port", cfg.Port),
			zap.String("web", "http://localhost:"+cfg.Port),
			zap.String("api", "http://localhost:"+cfg.Port+"/api/v1"))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
}

// teacherPasswordHash prefers a configured bcrypt hash and hashes the plain password otherwise.
func teacherPasswordHash(cfg *config.Config, log *zap.Logger) string {
	if cfg.TeacherPasswordHash != "" {
		return cfg.TeacherPasswordHash
	}
	if cfg.TeacherPassword == "" {
		log.Fatal("TEACHER_PASSWORD or TEACHER_PASSWORD_HASH must be set")
	}
	hash, err := utils.HashPassword(cfg.TeacherPassword)
	if err != nil {
		log.Fatal("failed to hash teacher password", zap.Error(err))
	}
	return hash
}

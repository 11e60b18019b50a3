package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/paarshedu/entrance-exam-backend/internal/config"
	"github.com/paarshedu/entrance-exam-backend/internal/database"
	"github.com/paarshedu/entrance-exam-backend/internal/handler"
	"github.com/paarshedu/entrance-exam-backend/internal/logger"
	"github.com/paarshedu/entrance-exam-backend/internal/repository"
	"github.com/paarshedu/entrance-exam-backend/internal/router"
	"github.com/paarshedu/entrance-exam-backend/internal/service"
	"github.com/paarshedu/entrance-exam-backend/internal/validator"
	"github.com/paarshedu/entrance-exam-backend/internal/worker"
	"github.com/rs/zerolog"
)

func main() {
	cfg := config.Load()

	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Msg("Starting Paarsh Entrance Exam Backend")

	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// Repositories
	collegeRepo := repository.NewCollegeRepository(pool)
	studentRepo := repository.NewStudentRepository(pool)
	adminRepo := repository.NewAdminRepository(pool)
	testRepo := repository.NewTestRepository(pool)
	questionRepo := repository.NewQuestionRepository(pool)
	sessionRepo := repository.NewSessionRepository(pool)
	inquiryRepo := repository.NewInquiryRepository(pool)
	blogRepo := repository.NewBlogRepository(pool)
	testimonialRepo := repository.NewTestimonialRepository(pool)
	teacherRepo := repository.NewTeacherRepository(pool)
	settingRepo := repository.NewSettingRepository(pool)
	dashboardRepo := repository.NewDashboardRepository(pool)

	// Services
	authService := service.NewAuthService(cfg, rdb)
	collegeService := service.NewCollegeService(collegeRepo)
	studentService := service.NewStudentService(studentRepo, collegeRepo, authService)
	testService := service.NewTestService(testRepo, questionRepo, collegeRepo)
	questionService := service.NewQuestionService(questionRepo, testRepo)
	sessionService := service.NewSessionService(sessionRepo, testRepo, questionRepo, collegeRepo, rdb, cfg, log)
	inquiryService := service.NewInquiryService(inquiryRepo)
	contentService := service.NewContentService(blogRepo, testimonialRepo, teacherRepo)
	settingService := service.NewSettingService(settingRepo, log)
	mediaService := service.NewMediaService(cfg)
	dashboardService := service.NewDashboardService(dashboardRepo)

	// Handlers
	handlers := &router.Handlers{
		Auth:        handler.NewAuthHandler(authService, studentService, adminRepo),
		Entrance:    handler.NewEntranceExamHandler(testService, sessionService),
		ExamWS:      handler.NewExamWSHandler(sessionService, cfg, log),
		College:     handler.NewCollegeHandler(collegeService),
		StudentMgmt: handler.NewStudentManagementHandler(studentService, authService),
		Test:        handler.NewTestHandler(testService, sessionService),
		Question:    handler.NewQuestionHandler(questionService),
		Inquiry:     handler.NewInquiryHandler(inquiryService),
		Content:     handler.NewContentHandler(contentService),
		Media:       handler.NewMediaHandler(mediaService),
		Setting:     handler.NewSettingHandler(settingService),
		Dashboard:   handler.NewDashboardHandler(dashboardService),
	}

	// Background workers
	workerCtx, workerCancel := context.WithCancel(context.Background())

	autosaveWorker := worker.NewAutosaveWorker(pool, rdb, log)
	violationWorker := worker.NewViolationWorker(pool, rdb, log)
	deadlineWorker := worker.NewDeadlineWorker(sessionService, sessionRepo, rdb, log)

	go autosaveWorker.Start(workerCtx)
	go violationWorker.Start(workerCtx)
	go deadlineWorker.Start(workerCtx)

	r := router.SetupRouter(authService, handlers, rdb, cfg, log)

	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// 1. Stop accepting new HTTP requests (5s timeout).
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// 2. Stop background workers and wait for queues to drain.
	workerCancel()
	time.Sleep(2 * time.Second) // Allow workers to drain.

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}

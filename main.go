// File: concierge/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"concierge/config"
	"concierge/cron"
	"concierge/database"
	ledgerRepo "concierge/database/repository/ledger"
	"concierge/handlers"
	"concierge/routes"
	"concierge/services/assistant"
	"concierge/services/executor"
	"concierge/services/nlu"
	"concierge/services/planner"
	"concierge/services/scheduler"
	"concierge/services/session"
	"concierge/services/tasks"
	"concierge/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitContextCache()
	cron.InitReminderWorker()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())

	// repositories.
	ledger := ledgerRepo.NewMongoLedgerRepo()

	// scheduling.
	calendar := scheduler.NewCalendar(
		config.AppConfig.CalendarDayStart,
		config.AppConfig.CalendarSlotMinutes,
		config.AppConfig.CalendarSlotsPerDay,
		config.AppConfig.CalendarWindowDays,
		config.AppConfig.CalendarWorkingDays,
	)
	engine, err := scheduler.NewDefaultEngine(calendar, ledger)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize scheduling engine: %v", err)
	}

	// language understanding.
	parser := nlu.NewDefaultParser()
	ruleRecognizer := nlu.NewDefaultRecognizer(parser)
	var recognizer nlu.Recognizer = ruleRecognizer
	if key := config.AppConfig.GeminiAPIKey; key != "" {
		gem, err := nlu.NewGeminiRecognizer(key, ruleRecognizer)
		if err != nil {
			logger.Sugar().Warnf("main: gemini recognizer unavailable, using rule-based only: %v", err)
		} else {
			recognizer = gem
		}
	}

	// dialogue.
	idle := time.Duration(config.AppConfig.SessionIdleMinutes) * time.Minute
	sessions := session.NewRedisStore(utils.GetContextCacheClient(), idle)
	dialoguePlanner := planner.NewDefaultPlanner(engine, planner.Config{
		AcceptThreshold:  config.AppConfig.AcceptThreshold,
		ClarifyThreshold: config.AppConfig.ClarifyThreshold,
		ClarifyRetryCap:  config.AppConfig.ClarifyRetryCap,
		ConfirmRetryCap:  config.AppConfig.ConfirmRetryCap,
	})
	actionExecutor := &executor.DefaultExecutor{
		Engine:    engine,
		Reminders: tasks.NewAsynqReminderScheduler(),
		Logger:    logger.Named("executor"),
	}

	handlers.AssistantService = assistant.NewDefaultService(parser, recognizer, dialoguePlanner, actionExecutor, sessions)
	handlers.SchedulerEngine = engine

	// Register routes.
	routes.RegisterRoutes(router)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}

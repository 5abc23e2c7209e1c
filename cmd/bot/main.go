package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"internship_compliance_bot/internal/app"
	"internship_compliance_bot/internal/domain/compliance"
	"internship_compliance_bot/internal/infra/config"
	idb "internship_compliance_bot/internal/infra/database"
	"internship_compliance_bot/internal/infra/logger"
	"internship_compliance_bot/internal/infra/scheduler"
	"internship_compliance_bot/internal/infra/telegram"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Log.Fatalf("FATAL: Could not load application configuration: %v", err)
	}

	logger.Init(cfg)
	mainLogger := logger.Get().WithField("component", "main")
	mainLogger.WithFields(logrus.Fields{
		"log_level":   cfg.LogLevel,
		"environment": cfg.Environment,
	}).Info("Configuration loaded")

	db, err := idb.NewPostgresConnection(cfg.DatabaseURL)
	if err != nil {
		mainLogger.Fatalf("FATAL: Could not connect to database: %v", err)
	}
	defer db.Close()
	mainLogger.Info("Database connection established")

	recipientRepo := idb.NewPostgresRecipientRepository(db)
	internshipRepo := idb.NewPostgresInternshipRepository(db)
	submissionRepo := idb.NewPostgresSubmissionRepository(db)
	reminderLog := idb.NewPostgresReminderLog(db)
	mainLogger.Info("Repositories initialized")

	policy := compliance.Policy{
		DueSoonLeadDays: cfg.DueSoonLeadDays,
		CriticalMissing: cfg.CriticalMissing,
	}
	complianceService := app.NewComplianceService(
		internshipRepo, submissionRepo,
		logger.Get().WithField("component", "compliance_service"),
		policy,
	)
	adminService := app.NewAdminService(recipientRepo, cfg.AdminTelegramID)
	mainLogger.Info("Application services initialized")

	pref := telebot.Settings{
		Token:  cfg.TelegramToken,
		Poller: &telebot.LongPoller{Timeout: 10 * time.Second},
		OnError: func(err error, c telebot.Context) {
			entry := logger.Get().WithField("component", "telebot")
			if c != nil && c.Sender() != nil {
				entry = entry.WithField("sender_id", c.Sender().ID)
			}
			entry.WithError(err).Error("Telegram handler error")
		},
	}
	bot, err := telebot.NewBot(pref)
	if err != nil {
		mainLogger.Fatalf("FATAL: Could not create Telegram bot: %v", err)
	}

	telegramClient := telegram.NewTelebotAdapter(bot)
	reminderService := app.NewReminderServiceImpl(
		complianceService, recipientRepo, reminderLog, telegramClient,
		logger.Get().WithField("component", "reminder_service"),
	)

	complianceScheduler := scheduler.NewComplianceScheduler(
		reminderService,
		logger.Get().WithField("component", "scheduler"),
		cfg.CronSpecSweep,
		cfg.CronSpecDigest,
	)
	if err := complianceScheduler.Start(); err != nil {
		mainLogger.Fatalf("FATAL: Could not start compliance scheduler: %v", err)
	}

	ctx := context.Background()
	handlerLogger := logger.Get().WithField("component", "telegram_handlers")
	telegram.RegisterBotCommands(ctx, bot, cfg, recipientRepo, handlerLogger)
	telegram.RegisterAdminHandlers(ctx, bot, adminService, cfg.AdminTelegramID, handlerLogger)
	telegram.RegisterStatusHandlers(ctx, bot, complianceService, recipientRepo, cfg.AdminTelegramID, handlerLogger)
	mainLogger.Info("Telegram handlers registered")

	mainLogger.Info("Application setup complete. Bot and scheduler are starting")
	go bot.Start()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	mainLogger.Info("Shutting down application")
	complianceScheduler.Stop()
	bot.Stop()
	mainLogger.Info("Application shut down gracefully")
}

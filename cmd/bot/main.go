package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"curator_monitor_bot/internal/app"
	"curator_monitor_bot/internal/domain/settings"
	"curator_monitor_bot/internal/infra/config"
	idb "curator_monitor_bot/internal/infra/database"
	"curator_monitor_bot/internal/infra/logger"
	"curator_monitor_bot/internal/infra/scheduler"
	"curator_monitor_bot/internal/infra/telegram"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gopkg.in/telebot.v3"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("FATAL: Could not load application configuration: %v", err)
	}

	logger.Init(cfg)
	mainLog := logger.Get().WithField("component", "main")
	mainLog.WithField("environment", cfg.Environment).Info("Curator Monitor Bot starting")

	// Initialize Database Connection
	db, err := idb.NewPostgresConnection(cfg.DatabaseURL)
	if err != nil {
		mainLog.WithError(err).Fatal("Could not connect to database")
	}
	defer db.Close()
	mainLog.Info("Database connection established successfully")

	// Initialize Repositories
	communityRepo := idb.NewPostgresCommunityRepository(db)
	curatorRepo := idb.NewPostgresCuratorRepository(db)
	trackingRepo := idb.NewPostgresTrackingRepository(db)
	reportRepo := idb.NewPostgresTaskReportRepository(db)
	activityRepo := idb.NewPostgresActivityRepository(db)
	settingsRepo := idb.NewPostgresSettingsRepository(db)

	ctx := context.Background()

	// Seed dynamic settings on first start; existing operator values win.
	seed := &settings.Settings{
		ReminderDelay:        time.Duration(cfg.DefaultReminderDelaySeconds) * time.Second,
		RepeatNotifications:  cfg.DefaultRepeatNotifications,
		CuratorNotifications: cfg.DefaultCuratorNotifications,
		Keywords:             cfg.DefaultKeywords,
	}
	if err := settingsRepo.Seed(ctx, seed); err != nil {
		mainLog.WithError(err).Fatal("Could not seed bot settings")
	}

	// Initialize Telegram Bot
	pref := telebot.Settings{
		Token: cfg.TelegramToken,
		Poller: &telebot.LongPoller{
			Timeout:        10 * time.Second,
			AllowedUpdates: []string{"message", "message_reaction"},
		},
		OnError: func(err error, c telebot.Context) { // Global error handler
			entry := logger.Get().WithField("component", "telebot").WithError(err)
			if c != nil && c.Sender() != nil && c.Chat() != nil {
				entry = entry.WithField("sender_id", c.Sender().ID).WithField("chat_id", c.Chat().ID)
			}
			entry.Error("Telegram update handling failed")
		},
	}
	bot, err := telebot.NewBot(pref)
	if err != nil {
		mainLog.WithError(err).Fatal("Could not create Telegram bot")
	}
	notifier := telegram.NewTelebotAdapter(bot)

	// Core services
	reminderScheduler := scheduler.NewReminderScheduler(
		notifier,
		settingsRepo,
		scheduler.SystemClock{},
		logger.Get().WithField("component", "reminder_scheduler"),
	)
	tracker := app.NewResponseTracker(trackingRepo, reminderScheduler, logger.Get().WithField("component", "response_tracker"))
	taskReports := app.NewTaskReportService(reportRepo, activityRepo, settingsRepo, logger.Get().WithField("component", "task_reports"))
	dispatcher := app.NewDispatcher(communityRepo, curatorRepo, settingsRepo, tracker, taskReports, logger.Get().WithField("component", "dispatcher"))
	adminService := app.NewAdminService(curatorRepo, communityRepo, cfg.AdminTelegramID)
	reconciler := app.NewReconciler(trackingRepo, communityRepo, reminderScheduler, logger.Get().WithField("component", "reconciler"))

	// Weekly digest on cron
	digest := app.NewDigestService(communityRepo, reportRepo, notifier, logger.Get().WithField("component", "digest"))
	digestScheduler := scheduler.NewDigestScheduler(digest, logger.Get().WithField("component", "digest_scheduler"), cfg.CronSpecDigest)
	if err := digestScheduler.Start(); err != nil {
		mainLog.WithError(err).Fatal("Could not start digest scheduler")
	}

	// Register Handlers
	telegram.RegisterAdminHandlers(ctx, bot, adminService, cfg.AdminTelegramID, logger.Get().WithField("component", "admin_handlers"))
	telegram.RegisterBotCommands(bot, cfg, logger.Get().WithField("component", "bot_commands"))
	telegram.RegisterEventHandlers(ctx, bot, dispatcher, logger.Get().WithField("component", "event_handlers"))

	// Metrics listener
	if cfg.MetricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			mainLog.WithField("addr", cfg.MetricsAddr).Info("Metrics listener starting")
			if err := http.ListenAndServe(cfg.MetricsAddr, mux); err != nil {
				mainLog.WithError(err).Error("Metrics listener stopped")
			}
		}()
	}

	mainLog.Info("Application setup complete. Bot is starting...")
	go bot.Start()

	// Re-arm reminders for records that were open when the process last stopped.
	if err := reconciler.Run(ctx); err != nil {
		mainLog.WithError(err).Error("Startup reconciliation failed")
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	mainLog.Info("Shutting down application...")
	digestScheduler.Stop()
	reminderScheduler.Shutdown()
	bot.Stop()
	mainLog.Info("Application shut down gracefully")
}

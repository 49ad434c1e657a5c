package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"

	"subscription_tracker_bot/internal/app"
	"subscription_tracker_bot/internal/domain/billing"
	"subscription_tracker_bot/internal/infra/config"
	idb "subscription_tracker_bot/internal/infra/database"
	"subscription_tracker_bot/internal/infra/logger"
	"subscription_tracker_bot/internal/infra/scheduler"
	"subscription_tracker_bot/internal/infra/telegram"
)

func main() {
	fmt.Println("Subscription Tracker Bot starting...")

	cfg, err := config.Load()
	if err != nil {
		logger.Log.Fatalf("Could not load application configuration: %v", err)
	}
	logger.Init(cfg)
	mainLogger := logger.Component("main")

	mainLogger.WithFields(logrus.Fields{
		"environment": cfg.Environment,
		"timezone":    cfg.Location.String(),
		"cron_spec":   cfg.CronSpecReminders,
	}).Info("Configuration loaded")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Database
	db, err := idb.NewPostgresConnection(ctx, cfg.DatabaseURL)
	if err != nil {
		mainLogger.WithError(err).Fatal("Could not connect to database")
	}
	defer db.Close()
	mainLogger.Info("Database connection established successfully")

	if err := idb.Migrate(db); err != nil {
		mainLogger.WithError(err).Fatal("Could not apply database migrations")
	}
	mainLogger.Info("Database schema is up to date")

	// Repositories
	userRepo := idb.NewPostgresUserRepository(db)
	subscriptionRepo := idb.NewPostgresSubscriptionRepository(db)
	notificationRepo := idb.NewPostgresNotificationRepository(db)

	// Telegram bot
	pref := telebot.Settings{
		Token:  cfg.TelegramToken,
		Poller: &telebot.LongPoller{Timeout: cfg.BotPollTimeout},
		OnError: func(err error, c telebot.Context) {
			entry := logger.Component("telebot").WithError(err)
			if c != nil && c.Sender() != nil && c.Chat() != nil {
				entry = entry.WithFields(logrus.Fields{
					"message":   c.Text(),
					"sender_id": c.Sender().ID,
					"chat_id":   c.Chat().ID,
				})
			}
			entry.Error("Unhandled bot error")
		},
	}
	bot, err := telebot.NewBot(pref)
	if err != nil {
		mainLogger.WithError(err).Fatal("Could not create Telegram bot")
	}
	if err := bot.SetCommands(telegram.Commands); err != nil {
		mainLogger.WithError(err).Warn("Could not publish the command menu")
	}

	// Services
	clock := billing.SystemClock{Location: cfg.Location}
	userService := app.NewUserService(userRepo, cfg.DefaultCurrency)
	subscriptionService := app.NewSubscriptionService(
		subscriptionRepo,
		userRepo,
		clock,
		cfg.DefaultReminderDays,
		logger.Component("subscription_service"),
	)
	reportService := app.NewReportService(subscriptionRepo, userRepo, clock)
	reminderService := app.NewReminderService(
		subscriptionRepo,
		userRepo,
		notificationRepo,
		telegram.NewTelebotAdapter(bot),
		clock,
		logger.Component("reminder_service"),
	)

	// Handlers
	handlerLogger := logger.Component("telegram")
	telegram.RegisterBotCommands(ctx, bot, userService, handlerLogger)
	telegram.RegisterSubscriptionHandlers(ctx, bot, subscriptionService, handlerLogger)
	telegram.RegisterReportHandlers(ctx, bot, reportService, handlerLogger)
	mainLogger.Info("Command handlers registered")

	// Scheduler
	reminderScheduler := scheduler.NewReminderScheduler(
		reminderService,
		logger.Component("scheduler"),
		cfg.CronSpecReminders,
		cfg.Location,
	)
	if err := reminderScheduler.Start(); err != nil {
		mainLogger.WithError(err).Fatal("Could not start reminder scheduler")
	}
	// Catch up on reminders that fell due while the bot was down.
	go func() {
		runCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
		defer cancel()
		reminderScheduler.RunOnce(runCtx)
	}()

	mainLogger.Info("Application setup complete. Bot and scheduler are running")
	go bot.Start()

	<-ctx.Done()

	mainLogger.Info("Shutting down application...")
	bot.Stop()
	reminderScheduler.Stop()
	mainLogger.Info("Application shut down gracefully")
}

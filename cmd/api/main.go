package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"golang.org/x/sync/errgroup"

	"github.com/xavierca1/ligue-leadbot/internal/config"
	"github.com/xavierca1/ligue-leadbot/internal/entity"
	"github.com/xavierca1/ligue-leadbot/internal/infra/database"
	"github.com/xavierca1/ligue-leadbot/internal/infra/http/handlers"
	"github.com/xavierca1/ligue-leadbot/internal/infra/integration/kommo"
	"github.com/xavierca1/ligue-leadbot/internal/infra/integration/whatsapp"
	"github.com/xavierca1/ligue-leadbot/internal/infra/logger"
	"github.com/xavierca1/ligue-leadbot/internal/infra/mail"
	"github.com/xavierca1/ligue-leadbot/internal/infra/memory"
	"github.com/xavierca1/ligue-leadbot/internal/infra/queue"
	"github.com/xavierca1/ligue-leadbot/internal/infra/template"
	"github.com/xavierca1/ligue-leadbot/internal/infra/worker"
	"github.com/xavierca1/ligue-leadbot/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	appLogger := logger.New(cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, appLogger); err != nil {
		appLogger.Error("leadbot stopped", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, appLogger *slog.Logger) error {
	// 1. Stores
	var (
		db       *sql.DB
		contacts entity.ContactRepositoryInterface = memory.NewContactStore()
		audit    entity.AuditLogInterface          = memory.NewAuditLog()
	)
	if cfg.Database.URL != "" {
		conn, err := database.NewDBConnection(ctx, cfg.Database.URL)
		if err != nil {
			return err
		}
		defer conn.Close()

		if err := database.EnsureSchema(ctx, conn); err != nil {
			return err
		}
		db = conn
		contacts = database.NewContactRepository(db)
		audit = database.NewAuditRepository(db)
		appLogger.Info("using postgres for contacts and audit log")
	}

	// 2. Bot
	bot := usecase.NewBotService(
		contacts,
		memory.NewConversationStore(),
		memory.NewTaskQueue(),
		audit,
		template.NewRenderer(),
		cfg.Bot,
		appLogger,
	)

	g, gCtx := errgroup.WithContext(ctx)

	// 3. Outbound delivery and hooks
	var rabbitConn *amqp.Connection
	if cfg.RabbitMQ.URL != "" {
		rabbitMQ, err := queue.NewRabbitMQ(cfg.RabbitMQ.URL)
		if err != nil {
			return err
		}
		defer rabbitMQ.Close()
		rabbitConn = rabbitMQ.Conn

		bot.Dispatcher = instrumentedDispatcher{next: queue.NewProducer(rabbitMQ.Ch)}

		outboundWorker := queue.NewWorker(rabbitMQ.Ch, whatsapp.NewClient(cfg.WhatsApp, appLogger), appLogger)
		g.Go(func() error {
			return outboundWorker.Start(gCtx, queue.QueueName)
		})
	}

	if cfg.Kommo.APIToken != "" {
		bot.LeadSyncer = instrumentedLeadSyncer{next: kommo.NewClient(cfg.Kommo, appLogger)}
	}

	if mailSender := mail.NewEmailSender(cfg.Mail); mailSender.Configured() {
		bot.Notifier = instrumentedNotifier{next: mailSender}
	}

	// 4. Scheduler
	if cfg.Scheduler.Autorun {
		schedulerWorker := worker.NewSchedulerWorker(bot, cfg.Scheduler.TickInterval, appLogger)
		g.Go(func() error {
			schedulerWorker.Start(gCtx)
			return nil
		})
	}

	// 5. HTTP
	limiter := handlers.NewRateLimiter(10, time.Minute)
	g.Go(func() error {
		limiter.Cleanup(gCtx, time.Minute)
		return nil
	})

	router := handlers.NewRouter(
		handlers.RouterConfig{
			AllowedOrigins: cfg.Server.AllowedOrigins,
			Logger:         appLogger,
			RequestLogging: true,
			WebhookSecret:  cfg.WhatsApp.AppSecret,
		},
		handlers.NewHandlers(bot, handlers.NewHealthHandler(db, rabbitConn, bot), limiter, appLogger),
	)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g.Go(func() error {
		appLogger.Info("leadbot listening", slog.Int("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		appLogger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/psds-microservice/support-router/internal/binding"
	"github.com/psds-microservice/support-router/internal/config"
	"github.com/psds-microservice/support-router/internal/database"
	"github.com/psds-microservice/support-router/internal/handler"
	"github.com/psds-microservice/support-router/internal/kafka"
	"github.com/psds-microservice/support-router/internal/notify"
	"github.com/psds-microservice/support-router/internal/router"
	"github.com/psds-microservice/support-router/internal/routing"
	"github.com/psds-microservice/support-router/internal/service"
	"github.com/psds-microservice/support-router/internal/store"
	"github.com/psds-microservice/support-router/internal/telegram"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// API приложение: HTTP-сервер с webhook Telegram и read-only API (режим api).
type API struct {
	cfg      *config.Config
	logger   *slog.Logger
	httpSrv  *http.Server
	producer *kafka.Producer
	redis    redis.UniversalClient
	db       *gorm.DB
}

// NewLogger: JSON-логгер в stdout с уровнем из LOG_LEVEL.
func NewLogger(cfg *config.Config) *slog.Logger {
	return newLogger(os.Stdout, cfg)
}

func newLogger(w io.Writer, cfg *config.Config) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: cfg.SlogLevel()})).
		With("service", "support-router")
}

// openDatabase подменяется в тестах.
var openDatabase = OpenDatabase

// OpenDatabase применяет миграции и открывает gorm. Для postgres схема ведётся
// goose-миграциями, для остальных драйверов через AutoMigrate.
func OpenDatabase(cfg *config.Config) (*gorm.DB, error) {
	if cfg.DB.Driver == "postgres" {
		if err := database.MigrateUp(cfg.DatabaseURL()); err != nil {
			return nil, fmt.Errorf("migrate: %w", err)
		}
	}
	db, err := database.Open(cfg.DB.Driver, cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}
	if cfg.DB.Driver != "postgres" {
		if err := database.AutoMigrate(db); err != nil {
			CloseDatabase(db)
			return nil, fmt.Errorf("automigrate: %w", err)
		}
	}
	return db, nil
}

// CloseDatabase закрывает пул соединений gorm.
func CloseDatabase(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

// NewAPI создаёт приложение для режима api. При ошибке всё уже открытое
// (БД, Redis, Kafka) закрывается.
func NewAPI(cfg *config.Config) (_ *API, err error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	logger := NewLogger(cfg)

	db, err := openDatabase(cfg)
	if err != nil {
		return nil, err
	}
	a := &API{cfg: cfg, logger: logger, db: db}
	defer func() {
		if err != nil {
			a.close()
		}
	}()

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}
	st := store.New(db)

	ticketSvc := service.NewTicketService(st, logger)
	sessionSvc := service.NewSessionService(st)
	faqSvc := service.NewFaqService(st)
	operatorSvc := service.NewOperatorService(st)
	roles := service.NewRoleResolver(cfg.AdminIDs, st)

	var bindings binding.Store = binding.NewDBStore(db)
	if cfg.Redis.Addr != "" {
		a.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.redis.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("redis %s: %w", cfg.Redis.Addr, err)
		}
		bindings = binding.NewRedisStore(a.redis)
	}

	a.producer = kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopicTicket, logger)
	var events kafka.TicketEventProducer
	if a.producer.Enabled() {
		events = a.producer
	}

	tg := telegram.NewClient(cfg.Telegram.APIURL, cfg.Telegram.BotToken, logger)
	dispatcher := notify.NewDispatcher(tg, operatorSvc, events, logger)

	rt := routing.NewRouter(routing.Deps{
		Tickets:     ticketSvc,
		Sessions:    sessionSvc,
		Faq:         faqSvc,
		Operators:   operatorSvc,
		Bindings:    bindings,
		CompanyInfo: cfg.CompanyInfo,
		Logger:      logger,
	})

	handlers := router.Handlers{
		Health:  handler.NewHealthHandler(sqlDB),
		Tickets: handler.NewTicketHandler(ticketSvc),
		Telegram: handler.NewTelegramHandler(handler.TelegramDeps{
			TenantID:   cfg.TenantID,
			Secret:     cfg.Telegram.WebhookSecret,
			Roles:      roles,
			Router:     rt,
			Dispatcher: dispatcher,
			Callbacks:  tg,
			Logger:     logger,
		}),
	}

	a.httpSrv = &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router.New(handlers),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return a, nil
}

// Run запускает HTTP-сервер, блокируется до отмены ctx.
func (a *API) Run(ctx context.Context) error {
	host := a.cfg.AppHost
	if host == "0.0.0.0" {
		host = "localhost"
	}
	base := "http://" + host + ":" + a.cfg.HTTPPort
	log.Printf("HTTP server listening on %s", a.httpSrv.Addr)
	log.Printf("  Swagger UI:    %s/swagger", base)
	log.Printf("  Swagger spec:  %s/swagger/openapi.json", base)
	log.Printf("  Health:        %s/health", base)
	log.Printf("  Ready:         %s/ready", base)
	log.Printf("  Webhook:       %s%s", base, router.WebhookPath)
	log.Printf("  API v1:        %s/api/v1/tenants/%d/tickets", base, a.cfg.TenantID)

	errCh := make(chan error, 1)
	go func() {
		if err := a.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		a.close()
		return fmt.Errorf("http: %w", err)
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	a.close()
	return nil
}

func (a *API) close() {
	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logger.Warn("kafka close", "err", err)
		}
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Warn("redis close", "err", err)
		}
	}
	CloseDatabase(a.db)
}

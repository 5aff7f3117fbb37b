package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/Freeeeeet/staff_scheduler/internal/config"
	"github.com/Freeeeeet/staff_scheduler/internal/controller"
	"github.com/Freeeeeet/staff_scheduler/internal/controller/httpapi"
	"github.com/Freeeeeet/staff_scheduler/internal/repository"
	"github.com/Freeeeeet/staff_scheduler/internal/service"
	"github.com/Freeeeeet/staff_scheduler/internal/validation"
	"github.com/Freeeeeet/staff_scheduler/migrations"
	"github.com/go-telegram/bot"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Application собирает зависимости и управляет жизненным циклом HTTP-сервера и бота
type Application struct {
	cfg    *config.Config
	logger *zap.Logger
	pool   *pgxpool.Pool
	server *http.Server
	bot    *controller.BotController
}

func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Application, error) {
	pool, err := pgxpool.New(ctx, cfg.DBDSN)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	logger.Info("Connected to database")

	if err := migrate(ctx, pool, logger); err != nil {
		pool.Close()
		return nil, err
	}

	uow := repository.NewPostgres(pool)
	v := validation.New()
	opts := service.Options{
		RecurrenceWeeks: cfg.RecurrenceWeeks,
		MinSlotDuration: cfg.MinSlotDuration,
	}

	frames := service.NewFrameService(uow, v, opts, logger)
	slots := service.NewSlotService(uow, v, logger)
	bookings := service.NewBookingService(uow, v, opts, logger)

	a := &Application{
		cfg:    cfg,
		logger: logger,
		pool:   pool,
		server: &http.Server{
			Addr: cfg.HTTPAddr,
			Handler: httpapi.NewRouter(httpapi.Services{
				Frames:   frames,
				Slots:    slots,
				Bookings: bookings,
			}, logger),
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
	}

	if cfg.BotEnabled() {
		b, err := bot.New(cfg.TelegramToken)
		if err != nil {
			pool.Close()
			return nil, fmt.Errorf("create bot: %w", err)
		}
		a.bot = controller.NewBotController(b, bookings, v, logger)
		if err := a.bot.RegisterHandlers(ctx); err != nil {
			logger.Warn("Bot commands menu not set", zap.Error(err))
		}
	} else {
		logger.Info("TELEGRAM_TOKEN is empty, bot disabled")
	}

	return a, nil
}

func migrate(ctx context.Context, pool *pgxpool.Pool, logger *zap.Logger) error {
	migrator, err := NewMigrator(pool, migrations.FS, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := migrator.Close(); err != nil {
			logger.Warn("Failed to close migrator", zap.Error(err))
		}
	}()
	return migrator.Run(ctx)
}

// Run блокируется до сигнала завершения или падения сервера
func (a *Application) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	serverErrors := make(chan error, 1)
	go func() {
		a.logger.Info("Starting HTTP server", zap.String("address", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- err
		}
	}()

	botCtx, cancelBot := context.WithCancel(ctx)
	var wg sync.WaitGroup
	if a.bot != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			a.bot.Start(botCtx)
		}()
	}

	var runErr error
	select {
	case err := <-serverErrors:
		a.logger.Error("HTTP server failed", zap.Error(err))
		runErr = err
	case <-ctx.Done():
		a.logger.Info("Shutdown signal received")
	}

	cancelBot()
	a.gracefulShutdown()
	wg.Wait()
	a.pool.Close()

	a.logger.Info("Application stopped")
	return runErr
}

func (a *Application) gracefulShutdown() {
	a.logger.Info("Starting graceful shutdown...")

	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(ctx); err != nil {
		a.logger.Error("Server shutdown failed", zap.Error(err))
		if err := a.server.Close(); err != nil {
			a.logger.Error("Could not stop server gracefully", zap.Error(err))
		}
	}
}

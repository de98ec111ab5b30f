package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/FaustoLovera/Trabajo-Simulador-Exchange-sub000/internal/api"
	"github.com/FaustoLovera/Trabajo-Simulador-Exchange-sub000/internal/config"
	"github.com/FaustoLovera/Trabajo-Simulador-Exchange-sub000/internal/market"
	"github.com/FaustoLovera/Trabajo-Simulador-Exchange-sub000/internal/repository"
	"github.com/FaustoLovera/Trabajo-Simulador-Exchange-sub000/internal/storage"
	"github.com/FaustoLovera/Trabajo-Simulador-Exchange-sub000/internal/trading"
	"github.com/FaustoLovera/Trabajo-Simulador-Exchange-sub000/internal/websocket"
	"github.com/FaustoLovera/Trabajo-Simulador-Exchange-sub000/pkg/utils"

	_ "github.com/lib/pq"
)

func main() {
	// .env необязателен - при его отсутствии конфигурация берётся
	// из переменных окружения
	_ = godotenv.Load()

	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Инициализация логгера
	logger, err := utils.InitLogger(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync()

	// Инициализация хранилища (JSON файлы или Postgres)
	stores, dbClose, err := initStores(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to init storage", zap.Error(err))
	}
	if dbClose != nil {
		defer dbClose()
	}

	logger.Info("Storage initialized",
		zap.String("driver", cfg.Storage.Driver))

	// Источник котировок
	prices := market.NewHTTPSource(market.HTTPSourceConfig{
		BaseURL:      cfg.Oracle.BaseURL,
		CacheTTL:     cfg.Oracle.CacheTTL,
		RateLimit:    cfg.Oracle.RateLimit,
		RateBurst:    cfg.Oracle.RateBurst,
		MaxRetries:   cfg.Oracle.MaxRetries,
		RetryBackoff: cfg.Oracle.RetryBackoff,
		Client: market.HTTPClientConfig{
			TotalTimeout: cfg.Oracle.Timeout,
		},
	}, logger)

	// WebSocket hub для real-time обновлений
	hub := websocket.NewHub(logger)
	go hub.Run()

	// Торговое ядро: desk сериализует все операции над кошельком,
	// manager - пользовательские операции, matcher - проход по pending
	desk := trading.NewDesk(stores, prices, cfg.Trading.FeeRate, hub, logger)
	manager := trading.NewManager(desk)
	matcher := trading.NewMatcher(desk)

	// Фоновый проход matching engine
	sweepCtx, stopSweep := context.WithCancel(context.Background())
	go runSweepLoop(sweepCtx, matcher, cfg.Trading.SweepInterval, logger)

	// Настройка HTTP роутера
	router := api.SetupRoutes(&api.Dependencies{
		Manager:        manager,
		Matcher:        matcher,
		Prices:         prices,
		Hub:            hub,
		FeeRate:        cfg.Trading.FeeRate,
		PasswordHash:   cfg.Security.APIPasswordHash,
		AllowedOrigins: cfg.Security.AllowedOrigins,
		Log:            logger,
	})

	// HTTP сервер
	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Запуск сервера в отдельной горутине
	go func() {
		logger.Info("Starting server", zap.String("addr", server.Addr))
		if cfg.Server.UseHTTPS {
			if err := server.ListenAndServeTLS(cfg.Server.CertFile, cfg.Server.KeyFile); err != nil && err != http.ErrServerClosed {
				logger.Fatal("Server failed", zap.Error(err))
			}
		} else {
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Fatal("Server failed", zap.Error(err))
			}
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Останавливаем фоновый sweep до остановки HTTP, чтобы не было
	// записей в хранилище после начала shutdown
	stopSweep()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}

// initStores создаёт хранилище по настроенному драйверу.
// Возвращаемая функция закрывает соединение с БД (nil для файлового драйвера).
func initStores(cfg *config.Config, logger *zap.Logger) (*storage.Stores, func(), error) {
	switch cfg.Storage.Driver {
	case config.StorageDriverPostgres:
		db, err := initDatabase(cfg)
		if err != nil {
			return nil, nil, err
		}
		if err := repository.EnsureSchema(db); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("failed to ensure schema: %w", err)
		}
		stores := repository.NewStores(db, cfg.Trading.InitialAsset, cfg.Trading.InitialBalance, logger)
		return stores, func() { db.Close() }, nil

	default:
		stores, err := storage.NewFileStores(cfg.Storage.DataDir, cfg.Trading.InitialAsset, cfg.Trading.InitialBalance, logger)
		if err != nil {
			return nil, nil, err
		}
		return stores, nil, nil
	}
}

// initDatabase создает подключение к базе данных
func initDatabase(cfg *config.Config) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.Storage.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Настройка пула соединений
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	// Проверка подключения
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// runSweepLoop периодически запускает проход matching engine
func runSweepLoop(ctx context.Context, matcher *trading.Matcher, interval time.Duration, logger *zap.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			result, err := matcher.Sweep(ctx)
			if err != nil {
				logger.Error("Sweep failed", zap.Error(err))
				continue
			}
			if result.Evaluated > 0 {
				logger.Debug("Sweep completed",
					zap.Int("evaluated", result.Evaluated),
					zap.Int("executed", result.Executed),
					zap.Int("errored", result.Errored),
					zap.Int("skipped", result.Skipped))
			}
		}
	}
}

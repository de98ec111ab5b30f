package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/FaustoLovera/Trabajo-Simulador-Exchange-sub000/internal/api/handlers"
	"github.com/FaustoLovera/Trabajo-Simulador-Exchange-sub000/internal/api/middleware"
	"github.com/FaustoLovera/Trabajo-Simulador-Exchange-sub000/internal/market"
	"github.com/FaustoLovera/Trabajo-Simulador-Exchange-sub000/internal/trading"
	"github.com/FaustoLovera/Trabajo-Simulador-Exchange-sub000/internal/websocket"
)

// Dependencies содержит все зависимости для API handlers
type Dependencies struct {
	Manager *trading.Manager
	Matcher *trading.Matcher
	Prices  market.PriceSource
	Hub     *websocket.Hub
	FeeRate decimal.Decimal

	// PasswordHash - bcrypt-хеш пароля API; пустое значение отключает auth
	PasswordHash string
	// AllowedOrigins - comma-separated origins для CORS и websocket
	AllowedOrigins string

	Log *zap.Logger
}

// SetupRoutes настраивает все HTTP маршруты приложения
//
// Структура маршрутов:
//
// /api/v1/
//
//	├── /orders
//	│   ├── POST / - создать ордер
//	│   ├── GET / - список ордеров (?status=)
//	│   ├── GET /{id} - один ордер
//	│   └── DELETE /{id} - отменить pending ордер
//	├── /wallet
//	│   └── GET / - балансы с долларовой оценкой
//	├── /history
//	│   └── GET / - история сделок (?operation=)
//	├── /fees
//	│   └── GET / - журнал комиссий и ставка
//	├── /prices/{ticker}
//	│   └── GET / - текущая цена монеты в USD
//	└── /sweep
//	    └── POST / - ручной запуск прохода матчера
//
// /ws/stream - WebSocket для real-time обновлений
// /metrics   - Prometheus метрики
// /health    - health check
//
// Middleware применяется в следующем порядке:
// 1. Recovery (для всех маршрутов)
// 2. Logging (для всех маршрутов)
// 3. CORS (для всех маршрутов)
// 4. BasicAuth (только для /api/v1, если задан хеш пароля)
func SetupRoutes(deps *Dependencies) *mux.Router {
	log := deps.Log
	if log == nil {
		log = zap.NewNop()
	}

	router := mux.NewRouter()

	// Глобальные middleware (применяются ко всем маршрутам)
	router.Use(middleware.Recovery(log))
	router.Use(middleware.Logging(log))
	router.Use(middleware.CORS(deps.AllowedOrigins))

	// Handlers с внедрением зависимостей
	orderHandler := handlers.NewOrderHandler(deps.Manager, deps.Matcher)
	walletHandler := handlers.NewWalletHandler(deps.Manager, deps.Prices)
	ledgerHandler := handlers.NewLedgerHandler(deps.Manager, deps.FeeRate)
	marketHandler := handlers.NewMarketHandler(deps.Prices)

	// API v1 routes
	apiRouter := router.PathPrefix("/api/v1").Subrouter()
	apiRouter.Use(middleware.BasicAuth(deps.PasswordHash))

	apiRouter.HandleFunc("/orders", orderHandler.CreateOrder).Methods("POST")
	apiRouter.HandleFunc("/orders", orderHandler.GetOrders).Methods("GET")
	apiRouter.HandleFunc("/orders/{id}", orderHandler.GetOrder).Methods("GET")
	apiRouter.HandleFunc("/orders/{id}", orderHandler.CancelOrder).Methods("DELETE")

	apiRouter.HandleFunc("/wallet", walletHandler.GetWallet).Methods("GET")
	apiRouter.HandleFunc("/history", ledgerHandler.GetHistory).Methods("GET")
	apiRouter.HandleFunc("/fees", ledgerHandler.GetFees).Methods("GET")
	apiRouter.HandleFunc("/prices/{ticker}", marketHandler.GetPrice).Methods("GET")
	apiRouter.HandleFunc("/sweep", orderHandler.TriggerSweep).Methods("POST")

	// WebSocket route
	if deps.Hub != nil {
		upgrader := websocket.Upgrader(websocket.NewOriginChecker(deps.AllowedOrigins))
		router.HandleFunc("/ws/stream", func(w http.ResponseWriter, r *http.Request) {
			websocket.ServeWS(deps.Hub, upgrader, w, r)
		})
	}

	// Prometheus метрики
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	// Health check endpoint
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}).Methods("GET")

	return router
}

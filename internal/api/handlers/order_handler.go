package handlers

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/FaustoLovera/Trabajo-Simulador-Exchange-sub000/internal/models"
	"github.com/FaustoLovera/Trabajo-Simulador-Exchange-sub000/internal/money"
	"github.com/FaustoLovera/Trabajo-Simulador-Exchange-sub000/internal/trading"
)

// OrderService - контракт торговых операций для HTTP слоя
type OrderService interface {
	CreateOrder(ctx context.Context, req trading.OrderRequest) (*models.Order, error)
	CancelOrder(ctx context.Context, orderID string) (*trading.CancelResult, error)
	Orders() []*models.Order
}

// SweepService - контракт ручного запуска матчера
type SweepService interface {
	Sweep(ctx context.Context) (*trading.SweepResult, error)
}

// OrderHandler отвечает за жизненный цикл ордеров
//
// Endpoints:
// - POST /api/v1/orders          - создание ордера
// - GET /api/v1/orders           - список ордеров
// - GET /api/v1/orders/{id}      - один ордер по id
// - DELETE /api/v1/orders/{id}   - отмена pending ордера
// - POST /api/v1/sweep           - ручной запуск прохода матчера
type OrderHandler struct {
	orders  OrderService
	matcher SweepService
}

// NewOrderHandler создает новый OrderHandler с внедрением зависимостей
func NewOrderHandler(orders OrderService, matcher SweepService) *OrderHandler {
	return &OrderHandler{
		orders:  orders,
		matcher: matcher,
	}
}

// CreateOrderRequest структура запроса на создание ордера.
// Числовые поля принимаются строками, чтобы не терять decimal-точность
// на float64 при декодировании JSON.
type CreateOrderRequest struct {
	Pair         string `json:"pair"`          // BTC/USDT
	Type         string `json:"type"`          // market, limit, stop-limit
	Action       string `json:"action"`        // buy, sell
	Quantity     string `json:"quantity"`      // количество (семантика зависит от типа)
	LimitPrice   string `json:"limit_price"`   // для limit и stop-limit
	TriggerPrice string `json:"trigger_price"` // для stop-limit
}

// CreateOrder создает новый ордер
// POST /api/v1/orders
//
// Request Body:
//
//	{
//	  "pair": "BTC/USDT",
//	  "type": "limit",
//	  "action": "buy",
//	  "quantity": "0.025",
//	  "limit_price": "20000"
//	}
//
// Response:
// - 201 Created: ордер принят (рыночный - уже исполнен)
// - 400 Bad Request: невалидные параметры
// - 402 Payment Required: не хватает средств
// - 503 Service Unavailable: нет котировки для рыночного исполнения
func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body", err.Error())
		return
	}

	order, err := h.orders.CreateOrder(r.Context(), trading.OrderRequest{
		Pair:         req.Pair,
		Type:         models.OrderType(req.Type),
		Action:       models.OrderAction(req.Action),
		Quantity:     money.Parse(req.Quantity),
		LimitPrice:   money.Parse(req.LimitPrice),
		TriggerPrice: money.Parse(req.TriggerPrice),
	})
	if err != nil {
		respondWithTradingError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, order)
}

// GetOrders возвращает список ордеров
// GET /api/v1/orders
//
// Query Parameters:
// - status: фильтр по статусу (pending, executed, cancelled, error)
//
// Response:
// - 200 OK: массив ордеров от старых к новым
func (h *OrderHandler) GetOrders(w http.ResponseWriter, r *http.Request) {
	orders := h.orders.Orders()

	statusFilter := r.URL.Query().Get("status")
	response := make([]*models.Order, 0, len(orders))
	for _, order := range orders {
		if statusFilter != "" && string(order.Status) != statusFilter {
			continue
		}
		response = append(response, order)
	}

	respondWithJSON(w, http.StatusOK, response)
}

// GetOrder возвращает один ордер по id
// GET /api/v1/orders/{id}
//
// Response:
// - 200 OK: ордер
// - 404 Not Found: ордер не найден
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	orderID := vars["id"]

	for _, order := range h.orders.Orders() {
		if order.ID == orderID {
			respondWithJSON(w, http.StatusOK, order)
			return
		}
	}

	respondWithError(w, http.StatusNotFound, "not_found", "Order not found", orderID)
}

// CancelOrder отменяет pending ордер и возвращает резерв
// DELETE /api/v1/orders/{id}
//
// Response:
// - 200 OK: ордер отменен, резерв возвращен
// - 404 Not Found: ордер не найден
// - 409 Conflict: ордер уже не pending
// - 500 Internal Server Error: резерв кошелька не сходится с ордером
func (h *OrderHandler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	orderID := vars["id"]
	if orderID == "" {
		respondWithError(w, http.StatusBadRequest, "invalid_id", "Order ID is required", "")
		return
	}

	result, err := h.orders.CancelOrder(r.Context(), orderID)
	if err != nil {
		respondWithTradingError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, SuccessResponse{
		Message: result.Message,
		Data:    result,
	})
}

// TriggerSweep вручную запускает один проход матчера
// POST /api/v1/sweep
//
// Response:
// - 200 OK: сводка прохода (evaluated/executed/errored/skipped)
func (h *OrderHandler) TriggerSweep(w http.ResponseWriter, r *http.Request) {
	result, err := h.matcher.Sweep(r.Context())
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "sweep_failed", "Matching sweep failed", err.Error())
		return
	}
	respondWithJSON(w, http.StatusOK, result)
}

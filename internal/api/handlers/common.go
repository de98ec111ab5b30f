package handlers

import (
	"errors"
	"net/http"

	jsoniter "github.com/json-iterator/go"

	"github.com/FaustoLovera/Trabajo-Simulador-Exchange-sub000/internal/market"
	"github.com/FaustoLovera/Trabajo-Simulador-Exchange-sub000/internal/trading"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ErrorResponse стандартный формат ответа об ошибке для всех API endpoints
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// SuccessResponse стандартный формат успешного ответа
type SuccessResponse struct {
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// respondWithJSON сериализует payload и пишет его с указанным статусом
func respondWithJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		json.NewEncoder(w).Encode(payload)
	}
}

// respondWithError пишет стандартный ответ об ошибке
func respondWithError(w http.ResponseWriter, status int, code, message, details string) {
	respondWithJSON(w, status, ErrorResponse{
		Error:   message,
		Code:    code,
		Details: details,
	})
}

// respondWithTradingError переводит ошибки торгового ядра в HTTP статусы.
// Ошибки валидации и нехватка средств - вина клиента (400/402/409),
// все остальное - 500/503.
func respondWithTradingError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, trading.ErrInvalidOrderType),
		errors.Is(err, trading.ErrInvalidAction),
		errors.Is(err, trading.ErrMissingLimitPrice),
		errors.Is(err, trading.ErrMissingTriggerPrice),
		errors.Is(err, trading.ErrInvalidPair),
		errors.Is(err, trading.ErrInvalidQuantity):
		respondWithError(w, http.StatusBadRequest, "validation_error", "Invalid order parameters", err.Error())
	case errors.Is(err, trading.ErrInsufficientFunds):
		respondWithError(w, http.StatusPaymentRequired, "insufficient_funds", "Not enough available balance", err.Error())
	case errors.Is(err, trading.ErrOrderNotFound):
		respondWithError(w, http.StatusNotFound, "order_not_found", "Order not found", err.Error())
	case errors.Is(err, trading.ErrOrderNotPending):
		respondWithError(w, http.StatusConflict, "order_not_pending", "Order is not pending", err.Error())
	case errors.Is(err, trading.ErrQuotationUnavailable),
		errors.Is(err, market.ErrPriceUnavailable):
		respondWithError(w, http.StatusServiceUnavailable, "quotation_unavailable", "Price quotation unavailable", err.Error())
	case errors.Is(err, trading.ErrLedgerInconsistent):
		respondWithError(w, http.StatusInternalServerError, "ledger_inconsistent", "Wallet ledger is inconsistent", err.Error())
	default:
		respondWithError(w, http.StatusInternalServerError, "internal_error", "Internal server error", err.Error())
	}
}

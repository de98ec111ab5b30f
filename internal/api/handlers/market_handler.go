package handlers

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/FaustoLovera/Trabajo-Simulador-Exchange-sub000/internal/market"
	"github.com/FaustoLovera/Trabajo-Simulador-Exchange-sub000/pkg/utils"
)

// MarketHandler отвечает за котировки
//
// Endpoints:
// - GET /api/v1/prices/{ticker} - текущая цена монеты в USD
type MarketHandler struct {
	prices market.PriceSource
}

// NewMarketHandler создает новый MarketHandler
func NewMarketHandler(prices market.PriceSource) *MarketHandler {
	return &MarketHandler{prices: prices}
}

// PriceResponse - ответ с котировкой
type PriceResponse struct {
	Ticker    string          `json:"ticker"`
	PriceUSD  decimal.Decimal `json:"price_usd"`
	Timestamp time.Time       `json:"timestamp"`
}

// GetPrice возвращает текущую цену монеты в USD
// GET /api/v1/prices/{ticker}
//
// Response:
// - 200 OK: котировка
// - 503 Service Unavailable: у оракула нет цены для тикера
func (h *MarketHandler) GetPrice(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	ticker := utils.NormalizeTicker(vars["ticker"])
	if err := utils.ValidateTicker(ticker); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid_ticker", "Invalid ticker", err.Error())
		return
	}

	price, err := h.prices.GetPrice(r.Context(), ticker)
	if err != nil {
		respondWithTradingError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, PriceResponse{
		Ticker:    ticker,
		PriceUSD:  price,
		Timestamp: time.Now().UTC(),
	})
}

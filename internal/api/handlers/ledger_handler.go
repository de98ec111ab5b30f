package handlers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/FaustoLovera/Trabajo-Simulador-Exchange-sub000/internal/models"
)

// LedgerService - доступ HTTP слоя к журналам торговли
type LedgerService interface {
	History() []models.HistoryEntry
	Fees() []models.FeeRecord
}

// LedgerHandler отвечает за журналы торговли
//
// Endpoints:
// - GET /api/v1/history - история сделок
// - GET /api/v1/fees    - журнал комиссий
type LedgerHandler struct {
	ledger  LedgerService
	feeRate decimal.Decimal
}

// NewLedgerHandler создает новый LedgerHandler
func NewLedgerHandler(ledger LedgerService, feeRate decimal.Decimal) *LedgerHandler {
	return &LedgerHandler{
		ledger:  ledger,
		feeRate: feeRate,
	}
}

// GetHistoryResponse - ответ со списком сделок
type GetHistoryResponse struct {
	Total   int                   `json:"total"`
	Entries []models.HistoryEntry `json:"entries"`
}

// GetFeesResponse - ответ с журналом комиссий
type GetFeesResponse struct {
	// Rate - действующая ставка комиссии (доля, например 0.005)
	Rate     decimal.Decimal    `json:"rate"`
	Total    int                `json:"total"`
	TotalUSD decimal.Decimal    `json:"total_usd"`
	Records  []models.FeeRecord `json:"records"`
}

// GetHistory возвращает историю сделок
// GET /api/v1/history
//
// Query Parameters:
// - operation: фильтр по метке операции (market-buy, limit-sell, ...)
//
// Response:
// - 200 OK: записи от старых к новым
func (h *LedgerHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	entries := h.ledger.History()

	operationFilter := r.URL.Query().Get("operation")
	filtered := make([]models.HistoryEntry, 0, len(entries))
	for _, entry := range entries {
		if operationFilter != "" && entry.Operation != operationFilter {
			continue
		}
		filtered = append(filtered, entry)
	}

	respondWithJSON(w, http.StatusOK, GetHistoryResponse{
		Total:   len(filtered),
		Entries: filtered,
	})
}

// GetFees возвращает журнал комиссий со ставкой и накопленной суммой
// GET /api/v1/fees
//
// Response:
// - 200 OK: ставка, записи и суммарная комиссия в USD
func (h *LedgerHandler) GetFees(w http.ResponseWriter, r *http.Request) {
	records := h.ledger.Fees()

	totalUSD := decimal.Zero
	for _, record := range records {
		totalUSD = totalUSD.Add(record.USDValue)
	}

	respondWithJSON(w, http.StatusOK, GetFeesResponse{
		Rate:     h.feeRate,
		Total:    len(records),
		TotalUSD: totalUSD,
		Records:  records,
	})
}

package handlers

import (
	"net/http"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/FaustoLovera/Trabajo-Simulador-Exchange-sub000/internal/market"
	"github.com/FaustoLovera/Trabajo-Simulador-Exchange-sub000/internal/models"
	"github.com/FaustoLovera/Trabajo-Simulador-Exchange-sub000/internal/money"
)

// WalletService - доступ HTTP слоя к кошельку
type WalletService interface {
	Wallet() models.Wallet
}

// WalletHandler отвечает за отображение кошелька
//
// Endpoints:
// - GET /api/v1/wallet - балансы всех монет с долларовой оценкой
type WalletHandler struct {
	wallet WalletService
	prices market.PriceSource
}

// NewWalletHandler создает новый WalletHandler
func NewWalletHandler(wallet WalletService, prices market.PriceSource) *WalletHandler {
	return &WalletHandler{
		wallet: wallet,
		prices: prices,
	}
}

// AssetBalanceResponse - баланс одной монеты
type AssetBalanceResponse struct {
	Asset     string          `json:"asset"`
	Available decimal.Decimal `json:"available"`
	Reserved  decimal.Decimal `json:"reserved"`
	Total     decimal.Decimal `json:"total"`
	// USDValue - оценка по текущей котировке, null если котировки нет
	USDValue *decimal.Decimal `json:"usd_value,omitempty"`
}

// WalletResponse - состояние кошелька целиком
type WalletResponse struct {
	Balances []AssetBalanceResponse `json:"balances"`
	// TotalUSD - сумма оценок монет с известной котировкой
	TotalUSD decimal.Decimal `json:"total_usd"`
}

// GetWallet возвращает балансы всех монет
// GET /api/v1/wallet
//
// Response:
//   - 200 OK: балансы с долларовой оценкой по текущим котировкам.
//     Монеты без котировки отдаются без usd_value и не входят в total_usd.
func (h *WalletHandler) GetWallet(w http.ResponseWriter, r *http.Request) {
	wallet := h.wallet.Wallet()

	response := WalletResponse{
		Balances: make([]AssetBalanceResponse, 0, len(wallet)),
		TotalUSD: decimal.Zero,
	}
	for asset, balance := range wallet {
		entry := AssetBalanceResponse{
			Asset:     asset,
			Available: balance.Available,
			Reserved:  balance.Reserved,
			Total:     balance.Total(),
		}
		if price, err := h.prices.GetPrice(r.Context(), asset); err == nil {
			value := money.USD(balance.Total().Mul(price))
			entry.USDValue = &value
			response.TotalUSD = response.TotalUSD.Add(value)
		}
		response.Balances = append(response.Balances, entry)
	}
	sort.Slice(response.Balances, func(i, j int) bool {
		return response.Balances[i].Asset < response.Balances[j].Asset
	})

	respondWithJSON(w, http.StatusOK, response)
}

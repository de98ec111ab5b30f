package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"

	"github.com/FaustoLovera/Trabajo-Simulador-Exchange-sub000/internal/models"
	"github.com/FaustoLovera/Trabajo-Simulador-Exchange-sub000/internal/money"
	"github.com/FaustoLovera/Trabajo-Simulador-Exchange-sub000/internal/trading"
)

func TestWalletHandler_GetWallet(t *testing.T) {
	manager, _, src := newTestTrading(t, defaultPrices())
	handler := NewWalletHandler(manager, src)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/wallet", nil)
	w := httptest.NewRecorder()

	handler.GetWallet(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	var resp WalletResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Balances) != 1 {
		t.Fatalf("expected 1 balance, got %d", len(resp.Balances))
	}
	if resp.Balances[0].Asset != "USDT" {
		t.Errorf("expected USDT, got %s", resp.Balances[0].Asset)
	}
	if !resp.Balances[0].Available.Equal(money.Parse("10000")) {
		t.Errorf("expected available 10000, got %s", resp.Balances[0].Available)
	}
	if resp.Balances[0].USDValue == nil || !resp.Balances[0].USDValue.Equal(money.Parse("10000")) {
		t.Errorf("unexpected usd_value: %v", resp.Balances[0].USDValue)
	}
	if !resp.TotalUSD.Equal(money.Parse("10000")) {
		t.Errorf("expected total 10000, got %s", resp.TotalUSD)
	}
}

func TestLedgerHandler_GetFees(t *testing.T) {
	manager, _, _ := newTestTrading(t, defaultPrices())
	handler := NewLedgerHandler(manager, money.Parse("0.005"))

	_, err := manager.CreateOrder(context.Background(), trading.OrderRequest{
		Pair:     "BTC/USDT",
		Type:     models.OrderTypeMarket,
		Action:   models.OrderActionBuy,
		Quantity: money.Parse("1000"),
	})
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/fees", nil)
	w := httptest.NewRecorder()

	handler.GetFees(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}
	var resp GetFeesResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.Rate.Equal(money.Parse("0.005")) {
		t.Errorf("expected rate 0.005, got %s", resp.Rate)
	}
	if resp.Total != 1 {
		t.Fatalf("expected 1 fee record, got %d", resp.Total)
	}
	if !resp.TotalUSD.Equal(money.Parse("5")) {
		t.Errorf("expected total fees 5 USD, got %s", resp.TotalUSD)
	}
}

func TestLedgerHandler_GetHistory(t *testing.T) {
	manager, _, _ := newTestTrading(t, defaultPrices())
	handler := NewLedgerHandler(manager, money.Parse("0.005"))

	_, err := manager.CreateOrder(context.Background(), trading.OrderRequest{
		Pair:     "BTC/USDT",
		Type:     models.OrderTypeMarket,
		Action:   models.OrderActionBuy,
		Quantity: money.Parse("1000"),
	})
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/history", nil)
	w := httptest.NewRecorder()

	handler.GetHistory(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}
	var resp GetHistoryResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Total != 1 {
		t.Fatalf("expected 1 entry, got %d", resp.Total)
	}
	if resp.Entries[0].Operation != "market-buy" {
		t.Errorf("expected operation market-buy, got %s", resp.Entries[0].Operation)
	}
}

func TestMarketHandler_GetPrice(t *testing.T) {
	_, _, src := newTestTrading(t, defaultPrices())
	handler := NewMarketHandler(src)

	t.Run("returns known price", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/prices/BTC", nil)
		req = mux.SetURLVars(req, map[string]string{"ticker": "BTC"})
		w := httptest.NewRecorder()

		handler.GetPrice(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
		}
		var resp PriceResponse
		if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if !resp.PriceUSD.Equal(money.Parse("50000")) {
			t.Errorf("expected 50000, got %s", resp.PriceUSD)
		}
	})

	t.Run("returns 503 for unknown ticker", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/prices/DOGE", nil)
		req = mux.SetURLVars(req, map[string]string{"ticker": "DOGE"})
		w := httptest.NewRecorder()

		handler.GetPrice(w, req)

		if w.Code != http.StatusServiceUnavailable {
			t.Fatalf("expected status %d, got %d", http.StatusServiceUnavailable, w.Code)
		}
	})
}

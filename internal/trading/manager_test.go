package trading

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/FaustoLovera/Trabajo-Simulador-Exchange-sub000/internal/models"
)

func TestCreateMarketBuy(t *testing.T) {
	desk, _ := newTestDesk(t, map[string]decimal.Decimal{
		"USDT": dec("1"),
		"BTC":  dec("50000"),
	})
	manager := NewManager(desk)

	order, err := manager.CreateOrder(context.Background(), OrderRequest{
		Pair:     "BTC/USDT",
		Type:     models.OrderTypeMarket,
		Action:   models.OrderActionBuy,
		Quantity: dec("1000"),
	})
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}

	if order.Status != models.OrderStatusExecuted {
		t.Errorf("Status = %s, want executed", order.Status)
	}
	if order.ExecutedAt == nil {
		t.Error("ExecutedAt is nil")
	}
	mustEqual(t, "ResultAmount", order.ResultAmount, dec("0.0199"))

	// Состояние на диске
	wallet := desk.stores.Wallet.Load()
	mustEqual(t, "USDT.available", wallet.Balance("USDT").Available, dec("9000"))
	mustEqual(t, "USDT.reserved", wallet.Balance("USDT").Reserved, dec("0"))
	mustEqual(t, "BTC.available", wallet.Balance("BTC").Available, dec("0.0199"))

	orders := desk.stores.Orders.LoadAll()
	if len(orders) != 1 {
		t.Fatalf("orders = %d, want 1", len(orders))
	}
	if len(desk.stores.History.LoadAll()) != 1 {
		t.Error("expected one history entry")
	}
	if len(desk.stores.Fees.LoadAll()) != 1 {
		t.Error("expected one fee record")
	}
}

func TestCreateOrderInsufficientFunds(t *testing.T) {
	desk, _ := newTestDesk(t, map[string]decimal.Decimal{
		"USDT": dec("1"),
		"BTC":  dec("50000"),
	})
	manager := NewManager(desk)

	_, err := manager.CreateOrder(context.Background(), OrderRequest{
		Pair:     "BTC/USDT",
		Type:     models.OrderTypeMarket,
		Action:   models.OrderActionBuy,
		Quantity: dec("20000"),
	})
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("error = %v, want ErrInsufficientFunds", err)
	}

	// Никаких побочных эффектов
	wallet := desk.stores.Wallet.Load()
	mustEqual(t, "USDT.available", wallet.Balance("USDT").Available, dec("10000"))
	if got := len(desk.stores.Orders.LoadAll()); got != 0 {
		t.Errorf("orders = %d, want 0", got)
	}
}

func TestCreateMarketBuyQuoteMissPersistsNothing(t *testing.T) {
	desk, _ := newTestDesk(t, map[string]decimal.Decimal{"USDT": dec("1")})
	manager := NewManager(desk)

	_, err := manager.CreateOrder(context.Background(), OrderRequest{
		Pair:     "BTC/USDT",
		Type:     models.OrderTypeMarket,
		Action:   models.OrderActionBuy,
		Quantity: dec("1000"),
	})
	if !errors.Is(err, ErrQuotationUnavailable) {
		t.Fatalf("error = %v, want ErrQuotationUnavailable", err)
	}

	wallet := desk.stores.Wallet.Load()
	mustEqual(t, "USDT.available", wallet.Balance("USDT").Available, dec("10000"))
	mustEqual(t, "USDT.reserved", wallet.Balance("USDT").Reserved, dec("0"))
	if got := len(desk.stores.Orders.LoadAll()); got != 0 {
		t.Errorf("orders = %d, want 0", got)
	}
}

func TestCreateLimitBuyReserves(t *testing.T) {
	desk, _ := newTestDesk(t, map[string]decimal.Decimal{
		"USDT": dec("1"),
		"BTC":  dec("50000"),
	})
	manager := NewManager(desk)

	order, err := manager.CreateOrder(context.Background(), OrderRequest{
		Pair:       "BTC/USDT",
		Type:       models.OrderTypeLimit,
		Action:     models.OrderActionBuy,
		Quantity:   dec("0.025"),
		LimitPrice: dec("20000"),
	})
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	if order.Status != models.OrderStatusPending {
		t.Errorf("Status = %s, want pending", order.Status)
	}

	wallet := desk.stores.Wallet.Load()
	mustEqual(t, "USDT.available", wallet.Balance("USDT").Available, dec("9500"))
	mustEqual(t, "USDT.reserved", wallet.Balance("USDT").Reserved, dec("500"))

	// Лимитный ордер не порождает сделку до срабатывания
	if got := len(desk.stores.History.LoadAll()); got != 0 {
		t.Errorf("history entries = %d, want 0", got)
	}
}

func TestCancelOrderReleasesReservation(t *testing.T) {
	desk, _ := newTestDesk(t, map[string]decimal.Decimal{
		"USDT": dec("1"),
		"BTC":  dec("50000"),
	})
	manager := NewManager(desk)

	order, err := manager.CreateOrder(context.Background(), OrderRequest{
		Pair:       "BTC/USDT",
		Type:       models.OrderTypeLimit,
		Action:     models.OrderActionBuy,
		Quantity:   dec("0.025"),
		LimitPrice: dec("20000"),
	})
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}

	res, err := manager.CancelOrder(context.Background(), order.ID)
	if err != nil {
		t.Fatalf("CancelOrder: %v", err)
	}
	if res.Asset != "USDT" {
		t.Errorf("Asset = %s, want USDT", res.Asset)
	}
	mustEqual(t, "snapshot available", res.Balance.Available, dec("10000"))
	mustEqual(t, "snapshot reserved", res.Balance.Reserved, dec("0"))

	orders := desk.stores.Orders.LoadAll()
	if len(orders) != 1 {
		t.Fatalf("orders = %d, want 1", len(orders))
	}
	if orders[0].Status != models.OrderStatusCancelled {
		t.Errorf("Status = %s, want cancelled", orders[0].Status)
	}
	if orders[0].CancelledAt == nil {
		t.Error("CancelledAt is nil")
	}

	// Повторная отмена не возвращает резерв второй раз
	if _, err := manager.CancelOrder(context.Background(), order.ID); !errors.Is(err, ErrOrderNotPending) {
		t.Fatalf("second cancel error = %v, want ErrOrderNotPending", err)
	}
	wallet := desk.stores.Wallet.Load()
	mustEqual(t, "USDT.available", wallet.Balance("USDT").Available, dec("10000"))
}

func TestCancelOrderNotFound(t *testing.T) {
	desk, _ := newTestDesk(t, map[string]decimal.Decimal{"USDT": dec("1")})
	manager := NewManager(desk)

	if _, err := manager.CancelOrder(context.Background(), "no-such-id"); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("error = %v, want ErrOrderNotFound", err)
	}
}

// Порченый кошелек: за ордером числится резерв, которого в кошельке нет.
// Отмена обязана провалиться, пометить ордер error и не трогать балансы.
func TestCancelOrderConsistencyFault(t *testing.T) {
	desk, _ := newTestDesk(t, map[string]decimal.Decimal{
		"USDT": dec("1"),
		"BTC":  dec("50000"),
	})
	manager := NewManager(desk)

	order, err := manager.CreateOrder(context.Background(), OrderRequest{
		Pair:       "BTC/USDT",
		Type:       models.OrderTypeLimit,
		Action:     models.OrderActionBuy,
		Quantity:   dec("0.025"),
		LimitPrice: dec("20000"),
	})
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}

	// Имитация порчи: резерв в кошельке меньше, чем у ордера
	corrupted := models.NewWallet("USDT", dec("9500"))
	if err := desk.stores.Wallet.Save(corrupted); err != nil {
		t.Fatalf("save corrupted wallet: %v", err)
	}

	_, err = manager.CancelOrder(context.Background(), order.ID)
	if !errors.Is(err, ErrLedgerInconsistent) {
		t.Fatalf("error = %v, want ErrLedgerInconsistent", err)
	}

	orders := desk.stores.Orders.LoadAll()
	if orders[0].Status != models.OrderStatusError {
		t.Errorf("Status = %s, want error", orders[0].Status)
	}
	if orders[0].ErrorMessage == "" {
		t.Error("ErrorMessage is empty")
	}
	wallet := desk.stores.Wallet.Load()
	mustEqual(t, "USDT.available", wallet.Balance("USDT").Available, dec("9500"))
	mustEqual(t, "USDT.reserved", wallet.Balance("USDT").Reserved, dec("0"))
}

func TestCreateOrderValidationHasNoSideEffects(t *testing.T) {
	desk, _ := newTestDesk(t, map[string]decimal.Decimal{"USDT": dec("1")})
	manager := NewManager(desk)

	_, err := manager.CreateOrder(context.Background(), OrderRequest{
		Pair:     "BTC/USDT",
		Type:     "iceberg",
		Action:   models.OrderActionBuy,
		Quantity: dec("1"),
	})
	if !errors.Is(err, ErrInvalidOrderType) {
		t.Fatalf("error = %v, want ErrInvalidOrderType", err)
	}
	if got := len(desk.stores.Orders.LoadAll()); got != 0 {
		t.Errorf("orders = %d, want 0", got)
	}
}

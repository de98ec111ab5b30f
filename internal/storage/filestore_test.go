package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/FaustoLovera/Trabajo-Simulador-Exchange-sub000/internal/models"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newWalletStore(t *testing.T) (*WalletFileStore, string) {
	t.Helper()
	dir := t.TempDir()
	return NewWalletFileStore(dir, "USDT", d("10000"), zap.NewNop()), dir
}

func TestWalletFileStoreSeedsOnMissingFile(t *testing.T) {
	store, _ := newWalletStore(t)

	w := store.Load()

	b := w.Balance("USDT")
	if !b.Available.Equal(d("10000")) {
		t.Errorf("seeded available = %s, want 10000", b.Available)
	}
}

func TestWalletFileStoreSeedsOnCorruptFile(t *testing.T) {
	store, dir := newWalletStore(t)

	path := filepath.Join(dir, walletFileName)
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	w := store.Load()
	if !w.Balance("USDT").Available.Equal(d("10000")) {
		t.Error("corrupt file must fall back to the seeded wallet")
	}
}

func TestWalletFileStoreRoundTrip(t *testing.T) {
	store, _ := newWalletStore(t)

	w := models.NewWallet("USDT", d("9000"))
	w["BTC"] = models.Balance{Available: d("0.0199"), Reserved: d("0.00000001")}

	if err := store.Save(w); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded := store.Load()

	// Decimal-поля сериализуются строками - точность не теряется
	if !loaded.Balance("BTC").Available.Equal(d("0.0199")) {
		t.Errorf("BTC available = %s, want 0.0199", loaded.Balance("BTC").Available)
	}
	if !loaded.Balance("BTC").Reserved.Equal(d("0.00000001")) {
		t.Errorf("BTC reserved = %s, want 0.00000001", loaded.Balance("BTC").Reserved)
	}
	if !loaded.Balance("USDT").Available.Equal(d("9000")) {
		t.Errorf("USDT available = %s, want 9000", loaded.Balance("USDT").Available)
	}
}

func TestWalletFileStorePrunesZeroEntriesOnSave(t *testing.T) {
	store, _ := newWalletStore(t)

	w := models.NewWallet("USDT", d("100"))
	w["ETH"] = models.Balance{Available: d("0"), Reserved: d("0")}

	if err := store.Save(w); err != nil {
		t.Fatal(err)
	}

	loaded := store.Load()
	if _, ok := loaded["ETH"]; ok {
		t.Error("zero-zero entry must not survive save")
	}
}

func TestOrderFileStoreRoundTrip(t *testing.T) {
	store := NewOrderFileStore(t.TempDir(), zap.NewNop())

	order := &models.Order{
		ID:             "ord-1",
		CreatedAt:      time.Now().UTC(),
		Pair:           "BTC/USDT",
		Type:           models.OrderTypeLimit,
		Action:         models.OrderActionBuy,
		Quantity:       d("0.025"),
		LimitPrice:     d("20000"),
		TriggerPrice:   d("20000"),
		ReservedAsset:  "USDT",
		ReservedAmount: d("500"),
		Status:         models.OrderStatusPending,
	}

	if err := store.Append(order); err != nil {
		t.Fatalf("Append: %v", err)
	}

	loaded := store.LoadAll()
	if len(loaded) != 1 {
		t.Fatalf("loaded %d orders, want 1", len(loaded))
	}
	got := loaded[0]
	if got.ID != "ord-1" || got.Status != models.OrderStatusPending {
		t.Errorf("unexpected order: %+v", got)
	}
	if !got.ReservedAmount.Equal(d("500")) {
		t.Errorf("reserved amount = %s, want 500", got.ReservedAmount)
	}
}

func TestOrderFileStoreAppendReplacesByID(t *testing.T) {
	store := NewOrderFileStore(t.TempDir(), zap.NewNop())

	order := &models.Order{ID: "ord-1", Status: models.OrderStatusPending}
	if err := store.Append(order); err != nil {
		t.Fatal(err)
	}

	updated := &models.Order{ID: "ord-1", Status: models.OrderStatusCancelled}
	if err := store.Append(updated); err != nil {
		t.Fatal(err)
	}

	loaded := store.LoadAll()
	if len(loaded) != 1 {
		t.Fatalf("loaded %d orders, want 1 after replace", len(loaded))
	}
	if loaded[0].Status != models.OrderStatusCancelled {
		t.Errorf("status = %s, want cancelled", loaded[0].Status)
	}
}

func TestOrderFileStoreLoadPendingKeepsOrder(t *testing.T) {
	store := NewOrderFileStore(t.TempDir(), zap.NewNop())

	orders := []*models.Order{
		{ID: "a", Status: models.OrderStatusPending},
		{ID: "b", Status: models.OrderStatusExecuted},
		{ID: "c", Status: models.OrderStatusPending},
	}
	if err := store.SaveAll(orders); err != nil {
		t.Fatal(err)
	}

	pending := store.LoadPending()
	if len(pending) != 2 || pending[0].ID != "a" || pending[1].ID != "c" {
		t.Errorf("pending order wrong: %+v", pending)
	}
}

func TestOrderFileStoreCorruptFileReturnsEmpty(t *testing.T) {
	dir := t.TempDir()
	store := NewOrderFileStore(dir, zap.NewNop())

	if err := os.WriteFile(filepath.Join(dir, ordersFileName), []byte("[{truncated"), 0o644); err != nil {
		t.Fatal(err)
	}

	if got := store.LoadAll(); len(got) != 0 {
		t.Errorf("corrupt file must yield empty list, got %d entries", len(got))
	}
}

func TestHistoryFileStoreAppend(t *testing.T) {
	store := NewHistoryFileStore(t.TempDir(), zap.NewNop())

	entry := models.HistoryEntry{
		Operation:  "market-buy",
		FromAsset:  "USDT",
		FromAmount: d("995"),
		ToAsset:    "BTC",
		ToAmount:   d("0.0199"),
		USDValue:   d("995"),
		Timestamp:  time.Now().UTC(),
	}

	if err := store.Append(entry); err != nil {
		t.Fatal(err)
	}
	if err := store.Append(entry); err != nil {
		t.Fatal(err)
	}

	entries := store.LoadAll()
	if len(entries) != 2 {
		t.Fatalf("loaded %d entries, want 2", len(entries))
	}
	if entries[0].ID != 1 || entries[1].ID != 2 {
		t.Errorf("ids = %d, %d, want 1, 2", entries[0].ID, entries[1].ID)
	}
	if !entries[0].FromAmount.Equal(d("995")) {
		t.Errorf("from amount = %s, want 995", entries[0].FromAmount)
	}
}

func TestFeeFileStoreAppend(t *testing.T) {
	store := NewFeeFileStore(t.TempDir(), zap.NewNop())

	rec := models.FeeRecord{
		Asset:     "USDT",
		Amount:    d("5"),
		USDValue:  d("5"),
		Timestamp: time.Now().UTC(),
	}

	if err := store.Append(rec); err != nil {
		t.Fatal(err)
	}

	recs := store.LoadAll()
	if len(recs) != 1 {
		t.Fatalf("loaded %d records, want 1", len(recs))
	}
	if !recs[0].Amount.Equal(d("5")) {
		t.Errorf("fee amount = %s, want 5", recs[0].Amount)
	}
}

package trading

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/FaustoLovera/Trabajo-Simulador-Exchange-sub000/internal/market"
	"github.com/FaustoLovera/Trabajo-Simulador-Exchange-sub000/internal/money"
	"github.com/FaustoLovera/Trabajo-Simulador-Exchange-sub000/internal/storage"
)

// Общие помощники тестов пакета trading.

func dec(s string) decimal.Decimal {
	return money.Parse(s)
}

// newTestDesk создает стол с файловыми хранилищами во временной
// директории, стартовым балансом 10000 USDT и комиссией 0.5%.
func newTestDesk(t *testing.T, prices map[string]decimal.Decimal) (*Desk, *market.StaticSource) {
	t.Helper()
	stores, err := storage.NewFileStores(t.TempDir(), "USDT", dec("10000"), zap.NewNop())
	if err != nil {
		t.Fatalf("NewFileStores: %v", err)
	}
	src := market.NewStaticSource(prices)
	return NewDesk(stores, src, dec("0.005"), nil, zap.NewNop()), src
}

// sequenceSource отдает цену тикера ограниченное число раз, после чего
// начинает отвечать ErrPriceUnavailable. Позволяет уронить котировку
// между проверкой триггера и исполнением.
type sequenceSource struct {
	prices map[string]decimal.Decimal
	quota  map[string]int
	calls  map[string]int
}

func (s *sequenceSource) GetPrice(_ context.Context, ticker string) (decimal.Decimal, error) {
	if s.calls == nil {
		s.calls = make(map[string]int)
	}
	s.calls[ticker]++
	if quota, limited := s.quota[ticker]; limited && s.calls[ticker] > quota {
		return decimal.Zero, market.ErrPriceUnavailable
	}
	price, ok := s.prices[ticker]
	if !ok {
		return decimal.Zero, market.ErrPriceUnavailable
	}
	return price, nil
}

func mustEqual(t *testing.T, name string, got, want decimal.Decimal) {
	t.Helper()
	if !got.Equal(want) {
		t.Errorf("%s = %s, want %s", name, got, want)
	}
}

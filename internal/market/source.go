// Package market предоставляет ядру текущие цены активов в USD.
package market

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/shopspring/decimal"
)

// ErrPriceUnavailable - у оракула нет котировки для тикера.
// Для ядра это бинарный исход: цена либо есть, либо нет;
// retry-политика живёт внутри реализаций источника, не в ядре.
var ErrPriceUnavailable = errors.New("price unavailable")

// PriceSource - контракт оракула цен.
// GetPrice возвращает текущую цену тикера в USD или ErrPriceUnavailable.
type PriceSource interface {
	GetPrice(ctx context.Context, ticker string) (decimal.Decimal, error)
}

// StaticSource - источник цен из памяти.
// Используется в тестах и для офлайн-прогонов симулятора.
type StaticSource struct {
	mu     sync.RWMutex
	prices map[string]decimal.Decimal
}

// NewStaticSource создаёт источник с начальным набором цен
func NewStaticSource(prices map[string]decimal.Decimal) *StaticSource {
	s := &StaticSource{prices: make(map[string]decimal.Decimal, len(prices))}
	for ticker, price := range prices {
		s.prices[strings.ToUpper(ticker)] = price
	}
	return s
}

// GetPrice возвращает цену тикера или ErrPriceUnavailable
func (s *StaticSource) GetPrice(_ context.Context, ticker string) (decimal.Decimal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	price, ok := s.prices[strings.ToUpper(ticker)]
	if !ok || price.Sign() <= 0 {
		return decimal.Zero, ErrPriceUnavailable
	}
	return price, nil
}

// SetPrice устанавливает цену тикера
func (s *StaticSource) SetPrice(ticker string, price decimal.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prices[strings.ToUpper(ticker)] = price
}

// RemovePrice убирает котировку тикера (тикер становится "неизвестным")
func (s *StaticSource) RemovePrice(ticker string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.prices, strings.ToUpper(ticker))
}

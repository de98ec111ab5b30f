package market

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/FaustoLovera/Trabajo-Simulador-Exchange-sub000/pkg/ratelimit"
	"github.com/FaustoLovera/Trabajo-Simulador-Exchange-sub000/pkg/retry"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Стейблкоины, приравненные к 1 USD.
// Их котировка не запрашивается у API - симулятор считает их долларом.
var stablecoins = map[string]bool{
	"USDT": true,
	"USDC": true,
	"DAI":  true,
}

// HTTPSourceConfig - настройки HTTP источника котировок
type HTTPSourceConfig struct {
	BaseURL      string
	CacheTTL     time.Duration
	RateLimit    float64 // запросов в секунду
	RateBurst    float64
	MaxRetries   int
	RetryBackoff time.Duration
	Client       HTTPClientConfig
}

// HTTPSource - источник котировок через публичный ticker API.
// Цена тикера в USD берётся как цена пары TICKERUSDT.
//
// Поверх сети три слоя защиты:
//   - TTL-кэш: повторный запрос той же цены внутри окна не ходит в сеть
//     (один sweep опрашивает одну пару несколько раз: пара + обе ноги сделки)
//   - token bucket: ограничение частоты запросов к API
//   - retry с экспоненциальным backoff на сетевые ошибки
//
// HTTP 4xx трактуется как "тикер неизвестен" (ErrPriceUnavailable) и
// не ретраится - повторный запрос не сделает тикер известным.
type HTTPSource struct {
	cfg     HTTPSourceConfig
	client  *http.Client
	limiter *ratelimit.RateLimiter
	log     *zap.Logger

	mu    sync.RWMutex
	cache map[string]cachedPrice
}

type cachedPrice struct {
	price     decimal.Decimal
	fetchedAt time.Time
}

// tickerResponse - ответ ticker API
type tickerResponse struct {
	Symbol string `json:"symbol"`
	Price  string `json:"price"`
}

// NewHTTPSource создаёт HTTP источник котировок
func NewHTTPSource(cfg HTTPSourceConfig, log *zap.Logger) *HTTPSource {
	return &HTTPSource{
		cfg:     cfg,
		client:  newHTTPClient(cfg.Client),
		limiter: ratelimit.NewRateLimiter(cfg.RateLimit, cfg.RateBurst),
		log:     log,
		cache:   make(map[string]cachedPrice),
	}
}

// GetPrice возвращает текущую цену тикера в USD
func (s *HTTPSource) GetPrice(ctx context.Context, ticker string) (decimal.Decimal, error) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if ticker == "" {
		return decimal.Zero, ErrPriceUnavailable
	}

	if stablecoins[ticker] {
		return decimal.NewFromInt(1), nil
	}

	if price, ok := s.cachedPrice(ticker); ok {
		return price, nil
	}

	price, err := s.fetch(ctx, ticker)
	if err != nil {
		s.log.Debug("quote fetch failed",
			zap.String("ticker", ticker), zap.Error(err))
		return decimal.Zero, ErrPriceUnavailable
	}

	s.mu.Lock()
	s.cache[ticker] = cachedPrice{price: price, fetchedAt: time.Now()}
	s.mu.Unlock()

	return price, nil
}

// cachedPrice возвращает цену из кэша, если она ещё не устарела
func (s *HTTPSource) cachedPrice(ticker string) (decimal.Decimal, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.cache[ticker]
	if !ok || time.Since(c.fetchedAt) > s.cfg.CacheTTL {
		return decimal.Zero, false
	}
	return c.price, true
}

// fetch запрашивает цену у API с rate limit и retry
func (s *HTTPSource) fetch(ctx context.Context, ticker string) (decimal.Decimal, error) {
	endpoint := fmt.Sprintf("%s/api/v3/ticker/price?symbol=%s",
		strings.TrimRight(s.cfg.BaseURL, "/"), url.QueryEscape(ticker+"USDT"))

	var price decimal.Decimal

	operation := func() error {
		if err := s.limiter.Wait(ctx); err != nil {
			return err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return err
		}

		resp, err := s.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			// Неизвестный тикер - retry бессмысленен
			return ErrPriceUnavailable
		}
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("quote API status %d", resp.StatusCode)
		}

		body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
		if err != nil {
			return err
		}

		var tr tickerResponse
		if err := json.Unmarshal(body, &tr); err != nil {
			return fmt.Errorf("quote API malformed response: %w", err)
		}

		p, err := decimal.NewFromString(tr.Price)
		if err != nil || p.Sign() <= 0 {
			return ErrPriceUnavailable
		}

		price = p
		return nil
	}

	err := retry.Do(ctx, operation, retry.Config{
		MaxRetries:   s.cfg.MaxRetries,
		InitialDelay: s.cfg.RetryBackoff,
		RetryIf: func(err error) bool {
			return err != ErrPriceUnavailable
		},
	})
	if err != nil {
		return decimal.Zero, err
	}
	return price, nil
}

package trading

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/FaustoLovera/Trabajo-Simulador-Exchange-sub000/internal/models"
	"github.com/FaustoLovera/Trabajo-Simulador-Exchange-sub000/internal/money"
)

// Matcher - движок исполнения отложенных ордеров. Один вызов Sweep
// просматривает все pending ордера, исполняет сработавшие и сохраняет
// ордера и кошелек одним заходом в конце. Сам он не планирует запуски:
// периодичность задает внешний тикер в cmd/server.
type Matcher struct {
	desk *Desk
}

// NewMatcher создает матчер поверх общего стола.
func NewMatcher(desk *Desk) *Matcher {
	return &Matcher{desk: desk}
}

// SweepResult - сводка одного прохода.
type SweepResult struct {
	Evaluated int `json:"evaluated"`
	Executed  int `json:"executed"`
	Errored   int `json:"errored"`
	Skipped   int `json:"skipped"`
}

// Sweep выполняет один полный проход по отложенным ордерам.
// Для каждого pending ордера в порядке списка:
//
//  1. Берется текущая цена пары; при недоступности ордер пропускается
//     и остается pending до следующего прохода.
//  2. Проверяется условие срабатывания: лимитная покупка при P <= T,
//     лимитная продажа при P >= T, стоп-лимит зеркально.
//  3. Для стоп-лимита после срабатывания триггера проверяется лимитная
//     цена: покупка при P > L и продажа при P < L не исполняются.
//  4. Исполнение идет из резерва. Недоступная котировка внутри
//     исполнителя - терминальная ошибка: ордер получает статус error,
//     резерв возвращается в available.
//
// Список ордеров и кошелек сохраняются один раз после цикла и только
// если что-то изменилось.
func (m *Matcher) Sweep(ctx context.Context) (*SweepResult, error) {
	d := m.desk
	d.mu.Lock()
	defer d.mu.Unlock()

	started := time.Now()
	defer func() {
		SweepDuration.Observe(float64(time.Since(started).Milliseconds()))
	}()

	orders := d.stores.Orders.LoadAll()
	pending := 0
	for _, o := range orders {
		if o.Status == models.OrderStatusPending {
			pending++
		}
	}
	result := &SweepResult{}
	if pending == 0 {
		return result, nil
	}

	wallet := d.stores.Wallet.Load()
	changed := false

	for _, order := range orders {
		if order.Status != models.OrderStatusPending {
			continue
		}
		result.Evaluated++
		SweepOrdersEvaluated.Inc()

		price, err := m.pairPrice(ctx, order)
		if err != nil {
			result.Skipped++
			SweepPriceMisses.Inc()
			d.log.Debug("котировка пары недоступна, ордер остается pending",
				zap.String("id", order.ID),
				zap.String("pair", order.Pair),
				zap.Error(err))
			continue
		}

		if !triggered(order, price) {
			continue
		}
		if order.Type == models.OrderTypeStopLimit && limitBreached(order, price) {
			// Стоп сработал, но лимитная цена уже хуже - ждем следующего прохода.
			result.Skipped++
			d.log.Debug("стоп-лимит сработал, но лимит нарушен",
				zap.String("id", order.ID),
				zap.String("price", price.String()),
				zap.String("limit", order.LimitPrice.String()))
			continue
		}

		res, err := d.execute(ctx, wallet, executeParams{
			SourceAsset:  order.ReservedAsset,
			GrossAmount:  order.ReservedAmount,
			DestAsset:    order.DestAsset(),
			Operation:    order.HistoryLabel(),
			FromReserved: true,
		})
		if err != nil {
			m.failOrder(wallet, order, err)
			result.Errored++
			changed = true
			continue
		}

		now := time.Now().UTC()
		order.Status = models.OrderStatusExecuted
		order.ExecutedAt = &now
		order.ResultAmount = res.DestAmount
		result.Executed++
		changed = true

		d.log.Info("отложенный ордер исполнен",
			zap.String("id", order.ID),
			zap.String("operation", order.HistoryLabel()),
			zap.String("price", price.String()),
			zap.String("result", res.DestAmount.String()+" "+order.DestAsset()))

		OrdersExecuted.WithLabelValues(order.HistoryLabel()).Inc()
		d.broadcastOrder(order)
		d.broadcastTrade(res.History)
	}

	if changed {
		if err := d.stores.Orders.SaveAll(orders); err != nil {
			return result, fmt.Errorf("persist orders after sweep: %w", err)
		}
		if err := d.stores.Wallet.Save(wallet); err != nil {
			return result, fmt.Errorf("persist wallet after sweep: %w", err)
		}
		d.broadcastWallet(wallet)
	}
	return result, nil
}

// pairPrice считает цену пары как отношение долларовых котировок
// базовой и котируемой монеты. Для пар с котировкой в стейблкоине
// это просто долларовая цена базовой монеты.
func (m *Matcher) pairPrice(ctx context.Context, order *models.Order) (decimal.Decimal, error) {
	basePrice, err := m.desk.prices.GetPrice(ctx, order.BaseAsset())
	if err != nil {
		return decimal.Zero, err
	}
	quotePrice, err := m.desk.prices.GetPrice(ctx, order.QuoteAsset())
	if err != nil {
		return decimal.Zero, err
	}
	if !quotePrice.IsPositive() {
		return decimal.Zero, fmt.Errorf("non-positive price for %s", order.QuoteAsset())
	}
	return money.USD(basePrice.Div(quotePrice)), nil
}

// triggered проверяет условие срабатывания по таблице:
// limit buy P<=T, limit sell P>=T, stop-limit buy P>=T, stop-limit sell P<=T.
func triggered(order *models.Order, price decimal.Decimal) bool {
	buy := order.Action == models.OrderActionBuy
	switch order.Type {
	case models.OrderTypeLimit:
		if buy {
			return price.LessThanOrEqual(order.TriggerPrice)
		}
		return price.GreaterThanOrEqual(order.TriggerPrice)
	case models.OrderTypeStopLimit:
		if buy {
			return price.GreaterThanOrEqual(order.TriggerPrice)
		}
		return price.LessThanOrEqual(order.TriggerPrice)
	default:
		return false
	}
}

// limitBreached - защита стоп-лимита после срабатывания триггера:
// покупать дороже лимита и продавать дешевле лимита нельзя.
func limitBreached(order *models.Order, price decimal.Decimal) bool {
	if order.Action == models.OrderActionBuy {
		return price.GreaterThan(order.LimitPrice)
	}
	return price.LessThan(order.LimitPrice)
}

// failOrder переводит ордер в статус error и возвращает его резерв
// в available, чтобы средства не зависли за мертвым ордером.
func (m *Matcher) failOrder(wallet models.Wallet, order *models.Order, cause error) {
	order.Status = models.OrderStatusError
	order.ErrorMessage = cause.Error()
	if err := wallet.ReleaseReserved(order.ReservedAsset, order.ReservedAmount); err != nil {
		m.desk.log.Error("не удалось вернуть резерв ордера с ошибкой",
			zap.String("id", order.ID),
			zap.Error(err))
	}
	m.desk.log.Warn("ордер переведен в статус error",
		zap.String("id", order.ID),
		zap.String("pair", order.Pair),
		zap.Error(cause))
	OrdersErrored.Inc()
	m.desk.broadcastOrder(order)
}

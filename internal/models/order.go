package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Типы ордеров
type OrderType string

const (
	OrderTypeMarket    OrderType = "market"
	OrderTypeLimit     OrderType = "limit"
	OrderTypeStopLimit OrderType = "stop-limit"
)

// Направления ордера
type OrderAction string

const (
	OrderActionBuy  OrderAction = "buy"
	OrderActionSell OrderAction = "sell"
)

// Статусы ордера
type OrderStatus string

const (
	// OrderStatusPending - ордер ждёт срабатывания условия (limit, stop-limit)
	OrderStatusPending OrderStatus = "pending"

	// OrderStatusExecuted - ордер исполнен (терминальный статус)
	OrderStatusExecuted OrderStatus = "executed"

	// OrderStatusCancelled - ордер отменён вручную (терминальный статус)
	OrderStatusCancelled OrderStatus = "cancelled"

	// OrderStatusError - ордер завершился ошибкой (терминальный статус)
	OrderStatusError OrderStatus = "error"
)

// IsTerminal возвращает true для статусов, из которых нет переходов
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusExecuted || s == OrderStatusCancelled || s == OrderStatusError
}

// Order представляет запись об ордере.
//
// Поля условий (Pair, Type, Action, Quantity, цены) и резервирование
// (ReservedAsset, ReservedAmount) вычисляются один раз при создании
// и дальше не меняются. Мутируют только поля жизненного цикла:
// Status, ExecutedAt, CancelledAt, ResultAmount, ErrorMessage.
type Order struct {
	ID        string    `json:"id" db:"id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	Pair     string          `json:"pair" db:"pair"` // BTC/USDT
	Type     OrderType       `json:"type" db:"type"`
	Action   OrderAction     `json:"action" db:"action"`
	Quantity decimal.Decimal `json:"quantity" db:"quantity"`

	// LimitPrice: для limit - цена срабатывания, для stop-limit - вторичный
	// ценовой предел, проверяемый после срабатывания триггера
	LimitPrice decimal.Decimal `json:"limit_price" db:"limit_price"`

	// TriggerPrice: цена срабатывания stop-limit ордера.
	// Если при создании не указана, фабрика подставляет LimitPrice.
	TriggerPrice decimal.Decimal `json:"trigger_price" db:"trigger_price"`

	// Резервирование: какая монета и сколько заблокировано под этот ордер
	ReservedAsset  string          `json:"reserved_asset" db:"reserved_asset"`
	ReservedAmount decimal.Decimal `json:"reserved_amount" db:"reserved_amount"`

	Status       OrderStatus     `json:"status" db:"status"`
	ExecutedAt   *time.Time      `json:"executed_at,omitempty" db:"executed_at"`
	CancelledAt  *time.Time      `json:"cancelled_at,omitempty" db:"cancelled_at"`
	ResultAmount decimal.Decimal `json:"result_amount" db:"result_amount"` // полученное количество монеты назначения
	ErrorMessage string          `json:"error_message,omitempty" db:"error_message"`
}

// BaseAsset возвращает базовую монету пары (BTC из BTC/USDT)
func (o *Order) BaseAsset() string {
	base, _ := SplitPair(o.Pair)
	return base
}

// QuoteAsset возвращает котируемую монету пары (USDT из BTC/USDT)
func (o *Order) QuoteAsset() string {
	_, quote := SplitPair(o.Pair)
	return quote
}

// DestAsset возвращает монету назначения сделки.
// Покупка BASE оплачивается QUOTE, продажа BASE даёт QUOTE.
func (o *Order) DestAsset() string {
	if o.Action == OrderActionBuy {
		return o.BaseAsset()
	}
	return o.QuoteAsset()
}

// HistoryLabel возвращает метку операции для журнала (например "limit-buy")
func (o *Order) HistoryLabel() string {
	return string(o.Type) + "-" + string(o.Action)
}

// SplitPair разбирает строку пары BASE/QUOTE.
// Тикеры нормализуются в верхний регистр. Невалидная пара даёт пустые строки.
func SplitPair(pair string) (base, quote string) {
	parts := strings.Split(pair, "/")
	if len(parts) != 2 {
		return "", ""
	}
	return strings.ToUpper(strings.TrimSpace(parts[0])), strings.ToUpper(strings.TrimSpace(parts[1]))
}

package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// HistoryEntry - запись журнала операций (append-only).
// Создаётся исполнителем транзакций при каждом завершённом обмене
// и после создания никогда не изменяется.
type HistoryEntry struct {
	ID         int64           `json:"id,omitempty" db:"id"`
	Operation  string          `json:"operation" db:"operation"` // метка: market-buy, limit-sell, ...
	FromAsset  string          `json:"from_asset" db:"from_asset"`
	FromAmount decimal.Decimal `json:"from_amount" db:"from_amount"` // чистая сумма (после комиссии)
	ToAsset    string          `json:"to_asset" db:"to_asset"`
	ToAmount   decimal.Decimal `json:"to_amount" db:"to_amount"`
	USDValue   decimal.Decimal `json:"usd_value" db:"usd_value"`
	Timestamp  time.Time       `json:"timestamp" db:"timestamp"`
}

// FeeRecord - запись журнала комиссий (append-only).
// USDValue фиксируется по курсу на момент сделки.
type FeeRecord struct {
	ID        int64           `json:"id,omitempty" db:"id"`
	Asset     string          `json:"asset" db:"asset"`
	Amount    decimal.Decimal `json:"amount" db:"amount"`
	USDValue  decimal.Decimal `json:"usd_value" db:"usd_value"`
	Timestamp time.Time       `json:"timestamp" db:"timestamp"`
}

package repository

import (
	"database/sql"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/FaustoLovera/Trabajo-Simulador-Exchange-sub000/internal/storage"
)

// schema - таблицы симулятора.
// Миграции как отдельный механизм не нужны: схема стабильна,
// CREATE TABLE IF NOT EXISTS достаточно для первого запуска.
const schema = `
CREATE TABLE IF NOT EXISTS wallet_balances (
	asset     TEXT PRIMARY KEY,
	available TEXT NOT NULL,
	reserved  TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS orders (
	id              TEXT PRIMARY KEY,
	created_at      TIMESTAMPTZ NOT NULL,
	pair            TEXT NOT NULL,
	type            TEXT NOT NULL,
	action          TEXT NOT NULL,
	quantity        TEXT NOT NULL,
	limit_price     TEXT NOT NULL,
	trigger_price   TEXT NOT NULL,
	reserved_asset  TEXT NOT NULL,
	reserved_amount TEXT NOT NULL,
	status          TEXT NOT NULL,
	executed_at     TIMESTAMPTZ,
	cancelled_at    TIMESTAMPTZ,
	result_amount   TEXT NOT NULL DEFAULT '0',
	error_message   TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS history (
	id          BIGSERIAL PRIMARY KEY,
	operation   TEXT NOT NULL,
	from_asset  TEXT NOT NULL,
	from_amount TEXT NOT NULL,
	to_asset    TEXT NOT NULL,
	to_amount   TEXT NOT NULL,
	usd_value   TEXT NOT NULL,
	timestamp   TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS fees (
	id        BIGSERIAL PRIMARY KEY,
	asset     TEXT NOT NULL,
	amount    TEXT NOT NULL,
	usd_value TEXT NOT NULL,
	timestamp TIMESTAMPTZ NOT NULL
);
`

// EnsureSchema создаёт таблицы при первом запуске
func EnsureSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}

// NewStores собирает полный набор Postgres-хранилищ
func NewStores(db *sql.DB, seedAsset string, seedAmount decimal.Decimal, log *zap.Logger) *storage.Stores {
	return &storage.Stores{
		Wallet:  NewWalletRepository(db, seedAsset, seedAmount, log),
		Orders:  NewOrderRepository(db, log),
		History: NewHistoryRepository(db, log),
		Fees:    NewFeeRepository(db, log),
	}
}

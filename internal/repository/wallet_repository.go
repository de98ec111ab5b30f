package repository

import (
	"database/sql"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/FaustoLovera/Trabajo-Simulador-Exchange-sub000/internal/models"
	"github.com/FaustoLovera/Trabajo-Simulador-Exchange-sub000/internal/money"
)

// WalletRepository - работа с таблицей wallet_balances.
// Реализует storage.WalletStore поверх Postgres.
//
// Политика отказоустойчивости та же, что у файлового хранилища:
// ошибка чтения логируется, вызывающий получает засеянный кошелёк.
type WalletRepository struct {
	db  *sql.DB
	log *zap.Logger

	seedAsset  string
	seedAmount decimal.Decimal
}

// NewWalletRepository создает новый экземпляр репозитория
func NewWalletRepository(db *sql.DB, seedAsset string, seedAmount decimal.Decimal, log *zap.Logger) *WalletRepository {
	return &WalletRepository{db: db, log: log, seedAsset: seedAsset, seedAmount: seedAmount}
}

// Load возвращает кошелёк из БД либо засеянный кошелёк по умолчанию
func (r *WalletRepository) Load() models.Wallet {
	query := `
		SELECT asset, available, reserved
		FROM wallet_balances`

	rows, err := r.db.Query(query)
	if err != nil {
		r.log.Warn("wallet load failed, using seeded default", zap.Error(err))
		return models.NewWallet(r.seedAsset, r.seedAmount)
	}
	defer rows.Close()

	w := make(models.Wallet)
	for rows.Next() {
		var asset, available, reserved string
		if err := rows.Scan(&asset, &available, &reserved); err != nil {
			r.log.Warn("wallet row unreadable, using seeded default", zap.Error(err))
			return models.NewWallet(r.seedAsset, r.seedAmount)
		}
		w[asset] = models.Balance{
			Available: money.Parse(available),
			Reserved:  money.Parse(reserved),
		}
	}
	if err := rows.Err(); err != nil {
		r.log.Warn("wallet load interrupted, using seeded default", zap.Error(err))
		return models.NewWallet(r.seedAsset, r.seedAmount)
	}

	// Пустая таблица при первом запуске - засеваем начальный баланс
	if len(w) == 0 {
		return models.NewWallet(r.seedAsset, r.seedAmount)
	}
	return w
}

// Save перезаписывает кошелёк в одной транзакции
func (r *WalletRepository) Save(w models.Wallet) error {
	w.Prune()

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM wallet_balances`); err != nil {
		return err
	}

	query := `
		INSERT INTO wallet_balances (asset, available, reserved)
		VALUES ($1, $2, $3)`

	for asset, b := range w {
		if _, err := tx.Exec(query, asset, b.Available.String(), b.Reserved.String()); err != nil {
			return err
		}
	}

	return tx.Commit()
}

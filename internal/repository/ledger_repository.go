package repository

import (
	"database/sql"

	"go.uber.org/zap"

	"github.com/FaustoLovera/Trabajo-Simulador-Exchange-sub000/internal/models"
	"github.com/FaustoLovera/Trabajo-Simulador-Exchange-sub000/internal/money"
)

// HistoryRepository - работа с таблицей history.
// Реализует storage.HistoryStore поверх Postgres.
type HistoryRepository struct {
	db  *sql.DB
	log *zap.Logger
}

// NewHistoryRepository создает новый экземпляр репозитория
func NewHistoryRepository(db *sql.DB, log *zap.Logger) *HistoryRepository {
	return &HistoryRepository{db: db, log: log}
}

// LoadAll возвращает журнал операций в порядке записи
func (r *HistoryRepository) LoadAll() []models.HistoryEntry {
	query := `
		SELECT id, operation, from_asset, from_amount, to_asset, to_amount, usd_value, timestamp
		FROM history
		ORDER BY id ASC`

	rows, err := r.db.Query(query)
	if err != nil {
		r.log.Warn("history load failed, using empty list", zap.Error(err))
		return []models.HistoryEntry{}
	}
	defer rows.Close()

	entries := make([]models.HistoryEntry, 0)
	for rows.Next() {
		var (
			e                              models.HistoryEntry
			fromAmount, toAmount, usdValue string
		)
		err := rows.Scan(&e.ID, &e.Operation, &e.FromAsset, &fromAmount,
			&e.ToAsset, &toAmount, &usdValue, &e.Timestamp)
		if err != nil {
			r.log.Warn("history row unreadable, using empty list", zap.Error(err))
			return []models.HistoryEntry{}
		}
		e.FromAmount = money.Parse(fromAmount)
		e.ToAmount = money.Parse(toAmount)
		e.USDValue = money.Parse(usdValue)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		r.log.Warn("history load interrupted, using empty list", zap.Error(err))
		return []models.HistoryEntry{}
	}
	return entries
}

// Append дописывает запись в журнал операций
func (r *HistoryRepository) Append(entry models.HistoryEntry) error {
	query := `
		INSERT INTO history (operation, from_asset, from_amount, to_asset, to_amount, usd_value, timestamp)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.Exec(query,
		entry.Operation,
		entry.FromAsset,
		entry.FromAmount.String(),
		entry.ToAsset,
		entry.ToAmount.String(),
		entry.USDValue.String(),
		entry.Timestamp,
	)
	return err
}

// FeeRepository - работа с таблицей fees.
// Реализует storage.FeeStore поверх Postgres.
type FeeRepository struct {
	db  *sql.DB
	log *zap.Logger
}

// NewFeeRepository создает новый экземпляр репозитория
func NewFeeRepository(db *sql.DB, log *zap.Logger) *FeeRepository {
	return &FeeRepository{db: db, log: log}
}

// LoadAll возвращает журнал комиссий в порядке записи
func (r *FeeRepository) LoadAll() []models.FeeRecord {
	query := `
		SELECT id, asset, amount, usd_value, timestamp
		FROM fees
		ORDER BY id ASC`

	rows, err := r.db.Query(query)
	if err != nil {
		r.log.Warn("fees load failed, using empty list", zap.Error(err))
		return []models.FeeRecord{}
	}
	defer rows.Close()

	recs := make([]models.FeeRecord, 0)
	for rows.Next() {
		var (
			rec              models.FeeRecord
			amount, usdValue string
		)
		if err := rows.Scan(&rec.ID, &rec.Asset, &amount, &usdValue, &rec.Timestamp); err != nil {
			r.log.Warn("fee row unreadable, using empty list", zap.Error(err))
			return []models.FeeRecord{}
		}
		rec.Amount = money.Parse(amount)
		rec.USDValue = money.Parse(usdValue)
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		r.log.Warn("fees load interrupted, using empty list", zap.Error(err))
		return []models.FeeRecord{}
	}
	return recs
}

// Append дописывает запись в журнал комиссий
func (r *FeeRepository) Append(rec models.FeeRecord) error {
	query := `
		INSERT INTO fees (asset, amount, usd_value, timestamp)
		VALUES ($1, $2, $3, $4)`

	_, err := r.db.Exec(query,
		rec.Asset,
		rec.Amount.String(),
		rec.USDValue.String(),
		rec.Timestamp,
	)
	return err
}
